// # internal/report/html.go
package report

import (
	"bytes"
	"html/template"

	"pyaudit/internal/analyzer"
)

var htmlPage = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>pyaudit - {{.Root}}</title>
<style>
  body { font-family: Helvetica, Arial, sans-serif; margin: 2em; color: #1c2733; }
  .summary { margin-bottom: 1.5em; }
  .summary span { margin-right: 2em; }
  .bad { color: #cc0000; font-weight: bold; }
  pre.mermaid { background: #fafcff; border: 1px solid #d8e0ea; padding: 1em; }
</style>
</head>
<body>
<h1>Dependency graph</h1>
<div class="summary">
  <span>files: {{.FilesScanned}}</span>
  <span{{if .Cycles}} class="bad"{{end}}>cycles: {{len .Cycles}}</span>
  <span{{if .Undefined}} class="bad"{{end}}>undefined symbols: {{len .Undefined}}</span>
  <span>unused symbols: {{len .Unused}}</span>
</div>
<pre class="mermaid">
{{.Diagram}}
</pre>
<script type="module">
import mermaid from 'https://cdn.jsdelivr.net/npm/mermaid@10/dist/mermaid.esm.min.mjs';
mermaid.initialize({ startOnLoad: true, maxEdges: 2000, securityLevel: 'loose' });
</script>
</body>
</html>
`))

// RenderHTML produces a self-contained page that draws the Mermaid
// flowchart in the browser, with a findings summary up top.
func RenderHTML(r *analyzer.Report) ([]byte, error) {
	data := struct {
		*analyzer.Report
		Diagram string
	}{Report: r, Diagram: RenderMermaid(r)}

	var buf bytes.Buffer
	if err := htmlPage.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteHTML renders and writes the page atomically.
func WriteHTML(r *analyzer.Report, path string) error {
	data, err := RenderHTML(r)
	if err != nil {
		return err
	}
	return WriteFileAtomic(path, data, 0o644)
}
