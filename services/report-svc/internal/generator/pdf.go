// services/report-svc/internal/generator/pdf.go
package generator

import (
	"context"
	"fmt"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/border"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"metricsreport/pkg/domain"
)

// PDFOptions настройки страницы
type PDFOptions struct {
	PageSize    string
	MarginLeft  float64
	MarginRight float64
	MarginTop   float64
	FontSize    float64
	PageNumbers bool
}

// DefaultPDFOptions A4, поля 10 мм, шрифт 7
func DefaultPDFOptions() PDFOptions {
	return PDFOptions{
		PageSize:    "A4",
		MarginLeft:  10,
		MarginRight: 10,
		MarginTop:   10,
		FontSize:    7,
		PageNumbers: true,
	}
}

// Сетка maroto в 12 колонок: подпись 4, восемь метрик по 1
const (
	pdfLabelCols  = 4
	pdfMetricCols = 1
	pdfRowHeight  = 5
)

// Цвета
var (
	pdfHeaderBg  = &props.Color{Red: 44, Green: 62, Blue: 80}    // #2c3e50
	pdfGrayLine  = &props.Color{Red: 236, Green: 240, Blue: 241} // #ecf0f1
	pdfPositive  = &props.Color{Red: 0, Green: 128, Blue: 0}
	pdfNegative  = &props.Color{Red: 255, Green: 0, Blue: 0}
	pdfProduct   = &props.Color{Red: 31, Green: 78, Blue: 121}
	pdfWhite     = &props.Color{Red: 255, Green: 255, Blue: 255}
	pdfCellStyle = &props.Cell{BorderType: border.Bottom, BorderColor: pdfGrayLine}
)

// PDFGenerator генератор PDF отчётов
type PDFGenerator struct {
	BaseGenerator
	opts PDFOptions
}

// NewPDFGenerator создаёт новый генератор
func NewPDFGenerator(opts Options) *PDFGenerator {
	p := opts.PDF
	if p.FontSize <= 0 {
		p.FontSize = DefaultPDFOptions().FontSize
	}
	return &PDFGenerator{opts: p}
}

// Format возвращает формат генератора
func (g *PDFGenerator) Format() Format {
	return FormatPDF
}

// Generate генерирует PDF отчёт
func (g *PDFGenerator) Generate(ctx context.Context, data *ReportData) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b := config.NewBuilder().
		WithPageSize(pageSize(g.opts.PageSize)).
		WithLeftMargin(g.opts.MarginLeft).
		WithTopMargin(g.opts.MarginTop).
		WithRightMargin(g.opts.MarginRight)
	if g.opts.PageNumbers {
		b = b.WithPageNumber()
	}

	m := maroto.New(b.Build())

	g.addHeader(m, data)
	g.addTable(m, data.Rows)

	doc, err := m.Generate()
	if err != nil {
		return nil, renderError(FormatPDF, fmt.Errorf("failed to generate PDF: %w", err))
	}

	return doc.GetBytes(), nil
}

func (g *PDFGenerator) addHeader(m core.Maroto, data *ReportData) {
	m.AddRow(10,
		text.NewCol(12, g.GetTitle(data), props.Text{
			Size:  g.opts.FontSize + 5,
			Style: fontstyle.Bold,
			Align: align.Center,
			Color: pdfHeaderBg,
		}),
	)
	m.AddRow(3, line.NewCol(12))
}

func (g *PDFGenerator) addTable(m core.Maroto, rows []domain.ReportRow) {
	headerText := props.Text{
		Size:  g.opts.FontSize,
		Style: fontstyle.Bold,
		Color: pdfWhite,
		Align: align.Center,
	}
	headerCell := &props.Cell{BackgroundColor: pdfHeaderBg}

	top := []core.Col{text.NewCol(pdfLabelCols, "", headerText).WithStyle(headerCell)}
	sub := []core.Col{text.NewCol(pdfLabelCols, ExcelHeaders[0], headerText).WithStyle(headerCell)}
	for _, c := range Columns {
		top = append(top, text.NewCol(pdfMetricCols, c.Group, headerText).WithStyle(headerCell))
		sub = append(sub, text.NewCol(pdfMetricCols, c.Name, headerText).WithStyle(headerCell))
	}
	m.AddRow(pdfRowHeight, top...)
	m.AddRow(pdfRowHeight+1, sub...)

	for _, r := range rows {
		m.AddRow(pdfRowHeight, g.rowCols(r)...)
	}
}

// rowCols ячейки одной строки: отступ и цвет по глубине, знак по значению
func (g *PDFGenerator) rowCols(r domain.ReportRow) []core.Col {
	label := props.Text{Size: g.opts.FontSize, Align: align.Left}
	cell := props.Text{Size: g.opts.FontSize, Align: align.Right}

	switch r.Depth {
	case 0:
		label.Style = fontstyle.Bold
		cell.Style = fontstyle.Bold
	case 1:
		label.Left = 4
	case 2:
		label.Left = 8
		label.Color = pdfProduct
	}

	cols := make([]core.Col, 0, domain.NumMetrics+1)
	cols = append(cols, text.NewCol(pdfLabelCols, strings.TrimLeft(r.Label, " "), label).WithStyle(pdfCellStyle))

	for _, m := range domain.AllMetrics {
		v := r.Metrics.Get(m)
		style := cell
		if m.Kind() == domain.KindPercent && v.Valid {
			if v.Float < 0 {
				style.Color = pdfNegative
			} else {
				style.Color = pdfPositive
			}
		}
		cols = append(cols, text.NewCol(pdfMetricCols, g.FormatMetric(m, v), style).WithStyle(pdfCellStyle))
	}

	return cols
}

func pageSize(name string) pagesize.Type {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "A3":
		return pagesize.A3
	case "A5":
		return pagesize.A5
	case "LETTER":
		return pagesize.Letter
	case "LEGAL":
		return pagesize.Legal
	default:
		return pagesize.A4
	}
}
