package export

import (
	"fmt"
	"html/template"
	"io"
)

var printTemplate = template.Must(template.New("print").Funcs(template.FuncMap{"text": Text}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>body{font-family:sans-serif;padding:20px}table{width:100%;border-collapse:collapse;margin-top:20px}h1{text-align:center}th,td{border:1px solid #ddd;padding:8px;text-align:left}</style>
</head>
<body>
<h1>{{.Title}}</h1>
<table>
<thead><tr>{{range .Headers}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{- range .Rows}}
<tr>{{range .}}<td>{{text .}}</td>{{end}}</tr>
{{- else}}
<tr><td colspan="{{len .Headers}}">{{.Empty}}</td></tr>
{{- end}}
</tbody>
</table>
<script>window.addEventListener("load", function () { window.print(); });</script>
</body>
</html>
`))

// WritePrintHTML writes a standalone page with t that opens the print dialog
// once loaded.
func WritePrintHTML(w io.Writer, t Table) error {
	if err := printTemplate.Execute(w, t); err != nil {
		return fmt.Errorf("rendering print view: %w", err)
	}
	return nil
}
