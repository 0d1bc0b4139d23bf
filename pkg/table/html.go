package table

import (
	"html/template"
	"io"
	"strings"
)

var htmlTemplate = template.Must(template.New("table").Parse(`<table class="chart-table">
<caption>{{.Title}}</caption>
<thead><tr>{{range .Header}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{- range .Rows}}
<tr><th scope="row">{{.Label}}</th>{{range .Cells}}<td>{{.Text}}</td>{{end}}</tr>
{{- end}}
</tbody>
</table>
`))

// WriteHTML renders t as an HTML table using the canonical cell text.
func (t *Table) WriteHTML(w io.Writer) error {
	return htmlTemplate.Execute(w, t)
}

// HTML returns the table as a template-safe fragment.
func (t *Table) HTML() (template.HTML, error) {
	var b strings.Builder
	if err := t.WriteHTML(&b); err != nil {
		return "", err
	}
	return template.HTML(b.String()), nil
}
