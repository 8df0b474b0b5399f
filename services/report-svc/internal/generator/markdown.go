// services/report-svc/internal/generator/markdown.go
package generator

import (
	"bytes"
	"context"
	"fmt"
	"strings"
)

// MarkdownGenerator генератор Markdown отчётов
type MarkdownGenerator struct {
	BaseGenerator
	color bool
}

// NewMarkdownGenerator создаёт новый генератор
func NewMarkdownGenerator(opts Options) *MarkdownGenerator {
	return &MarkdownGenerator{color: opts.Color}
}

// Format возвращает формат генератора
func (g *MarkdownGenerator) Format() Format {
	return FormatMarkdown
}

// Generate генерирует Markdown отчёт
func (g *MarkdownGenerator) Generate(ctx context.Context, data *ReportData) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	t := BuildTable(data.Rows, data.CutoffLabel)

	buf.WriteString(fmt.Sprintf("## %s\n\n", g.GetTitle(data)))

	header := t.FlatHeader()
	header[0] = "Produk"
	g.writeRow(&buf, header)

	sep := make([]string, len(header))
	sep[0] = "---"
	for i := 1; i < len(sep); i++ {
		sep[i] = "---:"
	}
	g.writeRow(&buf, sep)

	for _, r := range t.Rows {
		rec := r.Record()
		// Markdown съедает ведущие пробелы
		label := strings.Repeat("&nbsp;", len(rec[0])-len(strings.TrimLeft(rec[0], " "))) + escapeMarkdown(strings.TrimLeft(rec[0], " "))
		switch {
		case r.Depth == 0:
			label = "**" + label + "**"
		case r.Depth == 2 && g.color:
			label = "_" + label + "_"
		}
		rec[0] = label
		g.writeRow(&buf, rec)
	}

	return buf.Bytes(), nil
}

func (g *MarkdownGenerator) writeRow(buf *bytes.Buffer, cells []string) {
	buf.WriteString("| ")
	buf.WriteString(strings.Join(cells, " | "))
	buf.WriteString(" |\n")
}

func escapeMarkdown(s string) string {
	return strings.NewReplacer("|", "\\|", "*", "\\*", "_", "\\_").Replace(s)
}
