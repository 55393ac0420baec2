package ui

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// methodologyNotes documents the statistical methods in Markdown, rendered
// server-side on request.
const methodologyNotes = `
# Methodology

## Confusion matrix statistics

Sensitivity, specificity, PPV, NPV, and accuracy are simple proportions over
the confusion matrix cells. Confidence intervals for each proportion use the
**Wilson score interval**, which behaves well at small sample sizes and at
proportions near 0 or 1 where the normal approximation breaks down.

The critical value z is the standard normal quantile for the requested
two-sided confidence level (1.96 at 95%).

## Agreement

Two measures of agreement are reported:

* **Self-consistency kappa** for a single confusion matrix scores observed
  accuracy against the agreement expected by chance from the marginal totals.
  It is reported alongside the other per-experiment statistics.
* **Cohen's kappa** between two techniques compares their per-sample calls
  directly. For summarized experiments the paired calls are reconstructed
  proportionally, truncated to the smaller sample size.

Kappa values are bucketed on the Altman scale: below 0.20 poor, 0.20 to 0.40
fair, 0.40 to 0.60 moderate, 0.60 to 0.80 good, and 0.80 and above very good.

## Multiple comparisons

When many technique pairs are tested at once, p-values can be adjusted by:

* **Bonferroni**: multiply each p-value by the number of tests.
* **Holm**: step-down Bonferroni, uniformly more powerful.
* **Benjamini-Hochberg**: controls the false discovery rate rather than the
  family-wise error rate.

## Cost model

Total cost of ownership sums amortized equipment (5-year lifespan), reagents
per test, annual maintenance, and electricity at 4.2 THB/kWh. The
cost-effectiveness ranking adds expected misclassification penalties and
orders techniques by total cost per sample including errors.
`

// handleMethodology renders the methodology notes as HTML
func (s *Server) handleMethodology(c *gin.Context) {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse([]byte(methodologyNotes))

	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	rendered := markdown.Render(doc, renderer)

	c.HTML(http.StatusOK, "methodology", gin.H{
		"Content": template.HTML(rendered),
	})
}
