package generator

import (
	"bytes"
	"context"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"metricsreport/pkg/domain"
)

// Стили терминала
var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	groupStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	totalStyle   = lipgloss.NewStyle().Bold(true)
	productStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))
)

// TextGenerator таблица для терминала
type TextGenerator struct {
	BaseGenerator
	color       bool
	groupDigits bool
}

// NewTextGenerator создаёт новый генератор
func NewTextGenerator(opts Options) *TextGenerator {
	return &TextGenerator{color: opts.Color, groupDigits: opts.GroupDigits}
}

// Format возвращает формат генератора
func (g *TextGenerator) Format() Format {
	return FormatText
}

// Generate рисует таблицу с выравниванием колонок
func (g *TextGenerator) Generate(ctx context.Context, data *ReportData) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	t := BuildTable(data.Rows, data.CutoffLabel)

	lines := make([][]string, 0, len(t.Rows))
	for _, r := range t.Rows {
		rec := r.Record()
		if g.groupDigits {
			for i, c := range Columns {
				if c.Metric.Kind() == domain.KindValue {
					rec[i+1] = groupDigits(r.Metrics.Get(c.Metric))
				}
			}
		}
		lines = append(lines, rec)
	}

	widths := make([]int, len(t.Top))
	for i := range widths {
		widths[i] = max(lipgloss.Width(t.Top[i]), lipgloss.Width(t.Sub[i]))
		for _, l := range lines {
			widths[i] = max(widths[i], lipgloss.Width(l[i]))
		}
	}

	var buf bytes.Buffer
	g.writeLine(&buf, t.Top, widths, g.style(titleStyle))
	g.writeLine(&buf, t.Sub, widths, g.style(groupStyle))
	g.writeRule(&buf, widths)

	for i, l := range lines {
		var style *lipgloss.Style
		switch t.Rows[i].Depth {
		case 0:
			style = g.style(totalStyle)
		case 2:
			style = g.style(productStyle)
		}
		g.writeLine(&buf, l, widths, style)
	}

	return buf.Bytes(), nil
}

func (g *TextGenerator) style(s lipgloss.Style) *lipgloss.Style {
	if !g.color {
		return nil
	}
	return &s
}

// writeLine подпись влево, метрики вправо
func (g *TextGenerator) writeLine(buf *bytes.Buffer, cells []string, widths []int, style *lipgloss.Style) {
	parts := make([]string, len(cells))
	for i, c := range cells {
		pad := strings.Repeat(" ", widths[i]-lipgloss.Width(c))
		if i == 0 {
			parts[i] = c + pad
		} else {
			parts[i] = pad + c
		}
	}

	line := strings.TrimRight(strings.Join(parts, "  "), " ")
	if style != nil {
		line = style.Render(line)
	}
	buf.WriteString(line)
	buf.WriteByte('\n')
}

func (g *TextGenerator) writeRule(buf *bytes.Buffer, widths []int) {
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat("-", w)
	}
	buf.WriteString(strings.Join(parts, "  "))
	buf.WriteByte('\n')
}

func groupDigits(v domain.Value) string {
	if !v.Valid {
		return ""
	}
	return humanize.Comma(int64(v.Float))
}
