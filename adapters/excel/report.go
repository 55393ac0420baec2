package excel

import (
	"fmt"
	"math"
	"sort"

	"godiag/domain/costs"
	"godiag/domain/diagnostics"

	"github.com/xuri/excelize/v2"
)

// ReportWriter builds downloadable Excel workbooks for experiments and
// comparison studies
type ReportWriter struct{}

// NewReportWriter creates a report writer
func NewReportWriter() *ReportWriter {
	return &ReportWriter{}
}

// ExperimentReport renders a single experiment into a workbook with Summary,
// Statistics, and Confusion Matrix sheets, plus a Costs sheet when a
// breakdown is supplied. The caller owns the returned file and is
// responsible for writing or closing it.
func (w *ReportWriter) ExperimentReport(exp *diagnostics.Experiment, breakdown *costs.CostBreakdown) (*excelize.File, error) {
	if exp.Statistics == nil {
		return nil, fmt.Errorf("experiment %s has no computed statistics", exp.Name)
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", "Summary"); err != nil {
		return nil, err
	}

	writeSummarySheet(f, exp)

	if _, err := f.NewSheet("Statistics"); err != nil {
		return nil, err
	}
	writeStatisticsSheet(f, exp.Statistics)

	if _, err := f.NewSheet("Confusion Matrix"); err != nil {
		return nil, err
	}
	writeMatrixSheet(f, exp.Counts)

	if breakdown != nil {
		if _, err := f.NewSheet("Costs"); err != nil {
			return nil, err
		}
		writeCostsSheet(f, *breakdown)
	}

	return f, nil
}

// ComparisonReport renders a comparison study into a workbook: the pairwise
// kappa table plus an optional cost-effectiveness ranking sheet.
func (w *ReportWriter) ComparisonReport(kappaResults map[string]*diagnostics.KappaResult, ranking []*costs.CostEffectiveness) (*excelize.File, error) {
	if len(kappaResults) == 0 {
		return nil, fmt.Errorf("comparison has no kappa results")
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", "Agreement"); err != nil {
		return nil, err
	}
	writeKappaSheet(f, kappaResults)

	if len(ranking) > 0 {
		if _, err := f.NewSheet("Cost Effectiveness"); err != nil {
			return nil, err
		}
		writeRankingSheet(f, ranking)
	}

	return f, nil
}

func writeSummarySheet(f *excelize.File, exp *diagnostics.Experiment) {
	sheet := "Summary"
	stats := exp.Statistics

	rows := [][]interface{}{
		{"Experiment", exp.Name},
		{"Technique", exp.Technique.String()},
		{"Sample Size", exp.Counts.Total()},
		{"Confidence Level", exp.ConfidenceLevel},
		{"Created", exp.CreatedAt.String()},
		{},
		{"Sensitivity", fmt.Sprintf("%.2f%%", stats.Sensitivity.Percentage)},
		{"Specificity", fmt.Sprintf("%.2f%%", stats.Specificity.Percentage)},
		{"Accuracy", fmt.Sprintf("%.2f%%", stats.Accuracy.Percentage)},
	}
	writeRows(f, sheet, rows)
}

func writeStatisticsSheet(f *excelize.File, stats *diagnostics.DiagnosticStatistics) {
	sheet := "Statistics"

	rows := [][]interface{}{
		{"Metric", "Value", "CI Lower", "CI Upper"},
	}
	for _, m := range []struct {
		name     string
		estimate diagnostics.ProportionEstimate
	}{
		{"Sensitivity", stats.Sensitivity},
		{"Specificity", stats.Specificity},
		{"PPV", stats.PPV},
		{"NPV", stats.NPV},
		{"Accuracy", stats.Accuracy},
	} {
		rows = append(rows, []interface{}{m.name, m.estimate.Value, m.estimate.CILower, m.estimate.CIUpper})
	}

	rows = append(rows,
		[]interface{}{"Prevalence", stats.Prevalence.Value, "", ""},
		[]interface{}{"F1 Score", stats.F1Score, "", ""},
		[]interface{}{"MCC", stats.MCC, "", ""},
		[]interface{}{"LR+", formatRatio(stats.LikelihoodRatios.Positive), "", ""},
		[]interface{}{"LR-", formatRatio(stats.LikelihoodRatios.Negative), "", ""},
		[]interface{}{"Diagnostic Odds Ratio", formatRatio(stats.DiagnosticOddsRatio), "", ""},
		[]interface{}{"Kappa (self-consistency)", stats.CohensKappa.Value, stats.CohensKappa.CILower, stats.CohensKappa.CIUpper},
		[]interface{}{"Kappa Interpretation", string(stats.CohensKappa.Interpretation), "", ""},
	)
	writeRows(f, sheet, rows)
}

func writeMatrixSheet(f *excelize.File, counts diagnostics.ConfusionCounts) {
	sheet := "Confusion Matrix"

	rows := [][]interface{}{
		{"", "Condition Positive", "Condition Negative"},
		{"Test Positive", counts.TP, counts.FP},
		{"Test Negative", counts.FN, counts.TN},
		{},
		{"Total", counts.Total()},
		{"Actual Positives", counts.Positives()},
		{"Actual Negatives", counts.Negatives()},
	}
	writeRows(f, sheet, rows)
}

func writeCostsSheet(f *excelize.File, breakdown costs.CostBreakdown) {
	sheet := "Costs"

	rows := [][]interface{}{
		{"Component", "THB"},
		{"Equipment (amortized)", breakdown.Equipment},
		{"Reagents", breakdown.Reagents},
		{"Maintenance", breakdown.Maintenance},
		{"Power", breakdown.Power},
		{"Total", breakdown.Total()},
	}
	writeRows(f, sheet, rows)
}

func writeKappaSheet(f *excelize.File, results map[string]*diagnostics.KappaResult) {
	sheet := "Agreement"

	keys := make([]string, 0, len(results))
	for key := range results {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	rows := [][]interface{}{
		{"Pair", "Kappa", "CI Lower", "CI Upper", "Std Error", "Interpretation", "N"},
	}
	for _, key := range keys {
		r := results[key]
		rows = append(rows, []interface{}{
			key, r.Kappa,
			r.ConfidenceInterval.Lower, r.ConfidenceInterval.Upper,
			r.StandardError, string(r.Interpretation), r.SampleSize,
		})
	}
	writeRows(f, sheet, rows)
}

func writeRankingSheet(f *excelize.File, ranking []*costs.CostEffectiveness) {
	sheet := "Cost Effectiveness"

	rows := [][]interface{}{
		{"Rank", "Technique", "Cost/Sample (THB)", "Utility", "Cost/Utility", "Error Cost", "Total w/ Errors"},
	}
	for _, record := range ranking {
		rows = append(rows, []interface{}{
			record.Rank, record.Technique.String(),
			record.DirectCostPerSample, record.DiagnosticUtilityScore,
			formatRatio(record.CostPerUtilityUnit),
			record.Misclassification.TotalErrorCost, record.TotalCostWithErrors,
		})
	}
	writeRows(f, sheet, rows)
}

// writeRows fills a sheet from row 1, one slice per row
func writeRows(f *excelize.File, sheet string, rows [][]interface{}) {
	for i, row := range rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				continue
			}
			f.SetCellValue(sheet, cell, value)
		}
	}
}

// formatRatio keeps infinities and NaN readable in spreadsheet cells
func formatRatio(v float64) interface{} {
	if math.IsInf(v, 1) {
		return "Inf"
	}
	if math.IsInf(v, -1) {
		return "-Inf"
	}
	if math.IsNaN(v) {
		return "NaN"
	}
	return v
}
