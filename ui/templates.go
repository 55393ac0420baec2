package ui

import "html/template"

// Templates are kept inline: the UI is two pages and a handful of JSON
// endpoints, so an embedded filesystem would be overkill.
const indexTemplate = `
{{define "index"}}
<!DOCTYPE html>
<html>
<head>
	<title>Diagnostic Statistics</title>
	<style>
		body { font-family: sans-serif; max-width: 960px; margin: 2rem auto; }
		table { border-collapse: collapse; width: 100%; }
		th, td { border: 1px solid #ccc; padding: 0.4rem 0.6rem; text-align: left; }
		form label { display: block; margin-top: 0.5rem; }
	</style>
</head>
<body>
	<h1>Diagnostic Statistics</h1>
	<p><a href="/methodology">Methodology</a> &middot; <a href="/costs">Cost comparison (JSON)</a></p>

	<h2>Submit experiment</h2>
	<form method="post" action="/experiments">
		<label>Name <input name="name" required></label>
		<label>Technique
			<select name="technique">
				{{range .Techniques}}<option value="{{.}}">{{.}}</option>{{end}}
			</select>
		</label>
		<label>True positives <input name="tp" type="number" min="0" value="0"></label>
		<label>False positives <input name="fp" type="number" min="0" value="0"></label>
		<label>True negatives <input name="tn" type="number" min="0" value="0"></label>
		<label>False negatives <input name="fn" type="number" min="0" value="0"></label>
		<label>Confidence level <input name="confidence_level" type="number" step="0.01" min="0.01" max="0.99" value="0.95"></label>
		<button type="submit">Compute</button>
	</form>

	<h2>Batch upload</h2>
	<form method="post" action="/experiments/batch" enctype="multipart/form-data">
		<input type="file" name="file" accept=".xlsx,.csv" required>
		<button type="submit">Upload</button>
	</form>

	{{if .Experiments}}
	<h2>Recent experiments</h2>
	<table>
		<tr><th>Name</th><th>Technique</th><th>N</th><th>Sensitivity</th><th>Specificity</th><th>Export</th></tr>
		{{range .Experiments}}
		<tr>
			<td>{{.Name}}</td>
			<td>{{.Technique}}</td>
			<td>{{.Counts.Total}}</td>
			<td>{{if .Statistics}}{{printf "%.2f%%" .Statistics.Sensitivity.Percentage}}{{end}}</td>
			<td>{{if .Statistics}}{{printf "%.2f%%" .Statistics.Specificity.Percentage}}{{end}}</td>
			<td><a href="/experiments/{{.ID}}/export">xlsx</a></td>
		</tr>
		{{end}}
	</table>
	{{end}}
</body>
</html>
{{end}}

{{define "methodology"}}
<!DOCTYPE html>
<html>
<head>
	<title>Methodology</title>
	<style>body { font-family: sans-serif; max-width: 720px; margin: 2rem auto; }</style>
</head>
<body>
	<p><a href="/">&larr; Back</a></p>
	{{.Content}}
</body>
</html>
{{end}}
`

func parseTemplates() (*template.Template, error) {
	return template.New("ui").Parse(indexTemplate)
}
