// services/report-svc/internal/generator/html.go
package generator

import (
	"bytes"
	"context"
	"html/template"
	"strings"

	"metricsreport/pkg/domain"
)

// HTMLGenerator генератор HTML отчётов
type HTMLGenerator struct {
	BaseGenerator
	color bool
}

// NewHTMLGenerator создаёт новый генератор
func NewHTMLGenerator(opts Options) *HTMLGenerator {
	return &HTMLGenerator{color: opts.Color}
}

// Format возвращает формат генератора
func (g *HTMLGenerator) Format() Format {
	return FormatHTML
}

var htmlTmpl = template.Must(template.New("report").Parse(htmlTemplate))

type htmlCell struct {
	Text  string
	Class string
}

type htmlRow struct {
	Label string
	Depth int
	Cells []htmlCell
}

// Generate генерирует HTML отчёт
func (g *HTMLGenerator) Generate(ctx context.Context, data *ReportData) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t := BuildTable(data.Rows, data.CutoffLabel)

	rows := make([]htmlRow, 0, len(t.Rows))
	for _, r := range t.Rows {
		hr := htmlRow{Label: strings.TrimLeft(r.Label, " "), Depth: r.Depth}
		for i, c := range Columns {
			cell := htmlCell{Text: r.Cells[i]}
			if g.color {
				cell.Class = htmlSign(c.Metric, r.Metrics.Get(c.Metric))
			}
			hr.Cells = append(hr.Cells, cell)
		}
		rows = append(rows, hr)
	}

	templateData := map[string]any{
		"Title":   g.GetTitle(data),
		"Groups":  htmlGroups(),
		"Columns": Columns,
		"Rows":    rows,
		"Color":   g.color,
	}

	var buf bytes.Buffer
	if err := htmlTmpl.Execute(&buf, templateData); err != nil {
		return nil, renderError(FormatHTML, err)
	}

	return buf.Bytes(), nil
}

func htmlSign(m domain.Metric, v domain.Value) string {
	if m.Kind() != domain.KindPercent || !v.Valid {
		return ""
	}
	if v.Float < 0 {
		return "neg"
	}
	return "pos"
}

type htmlGroup struct {
	Name string
	Span int
}

// htmlGroups верхняя строка заголовка: соседние колонки одной группы сливаются
func htmlGroups() []htmlGroup {
	var out []htmlGroup
	for _, c := range Columns {
		if n := len(out); n > 0 && c.Group != "" && out[n-1].Name == c.Group {
			out[n-1].Span++
			continue
		}
		out = append(out, htmlGroup{Name: c.Group, Span: 1})
	}
	return out
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>{{.Title}}</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; color: #333; margin: 20px; }
        table { border-collapse: collapse; }
        th, td { padding: 4px 10px; border: 1px solid #ecf0f1; }
        th { background: #3498db; color: white; font-weight: 500; text-align: center; }
        td.num { text-align: right; }
        tr.depth-0 td { font-weight: bold; }
        tr.depth-1 td.label { padding-left: 2em; }
        tr.depth-2 td.label { padding-left: 4em; }
        {{if .Color}}tr.depth-2 td.label { color: #2e86c1; }
        td.pos { color: #008000; }
        td.neg { color: #ff0000; }{{end}}
    </style>
</head>
<body>
<table>
    <thead>
        <tr>
            <th rowspan="2">{{.Title}}</th>
            {{- range .Groups}}
            <th colspan="{{.Span}}">{{.Name}}</th>
            {{- end}}
        </tr>
        <tr>
            {{- range .Columns}}
            <th>{{.Name}}</th>
            {{- end}}
        </tr>
    </thead>
    <tbody>
        {{- range .Rows}}
        <tr class="depth-{{.Depth}}">
            <td class="label">{{.Label}}</td>
            {{- range .Cells}}
            <td class="num{{if .Class}} {{.Class}}{{end}}">{{.Text}}</td>
            {{- end}}
        </tr>
        {{- end}}
    </tbody>
</table>
</body>
</html>
`
