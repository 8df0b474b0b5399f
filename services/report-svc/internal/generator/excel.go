// services/report-svc/internal/generator/excel.go
package generator

import (
	"context"

	"github.com/xuri/excelize/v2"

	"metricsreport/pkg/domain"
)

// Цвета и форматы выгрузки
const (
	excelPositiveColor = "008000"
	excelNegativeColor = "FF0000"
	excelProductColor  = "1F4E79"
	excelPercentFormat = "0.0%"
	excelThousandsFmt  = 3 // #,##0

	excelLabelWidth  = 48
	excelMetricWidth = 14
)

// ExcelHeaders заголовки второй строки листа
var ExcelHeaders = [domain.NumMetrics + 1]string{
	"Produk", "Cont YTD", "Value MTD", "Value YTD",
	"Growth MTD", "Growth %Gr L3M", "Growth YTD", "Ach MTD", "Ach YTD",
}

// ExcelGenerator генератор Excel отчётов
type ExcelGenerator struct {
	BaseGenerator
	sheet string
}

// NewExcelGenerator создаёт новый генератор
func NewExcelGenerator(opts Options) *ExcelGenerator {
	sheet := opts.SheetName
	if sheet == "" {
		sheet = "Report"
	}
	return &ExcelGenerator{sheet: sheet}
}

// Format возвращает формат генератора
func (g *ExcelGenerator) Format() Format {
	return FormatXLSX
}

// cellKind вид ячейки для выбора стиля
type cellKind int

const (
	kindLabel cellKind = iota
	kindValue
	kindPercentPos
	kindPercentNeg
	kindPercentNull
)

type styleKey struct {
	depth int
	kind  cellKind
}

// excelWriter собирает первую ошибку excelize и кэширует стили
type excelWriter struct {
	f      *excelize.File
	sheet  string
	styles map[styleKey]int
	err    error
}

func (w *excelWriter) set(cell string, value any) {
	if w.err != nil {
		return
	}
	w.err = w.f.SetCellValue(w.sheet, cell, value)
}

func (w *excelWriter) style(from, to string, id int) {
	if w.err != nil {
		return
	}
	w.err = w.f.SetCellStyle(w.sheet, from, to, id)
}

func (w *excelWriter) newStyle(s *excelize.Style) int {
	if w.err != nil {
		return 0
	}
	id, err := w.f.NewStyle(s)
	if err != nil {
		w.err = err
	}
	return id
}

// Generate пишет лист: строка 1 с датой среза, строка 2 с заголовками,
// дальше по строке на каждую строку отчёта.
func (g *ExcelGenerator) Generate(ctx context.Context, data *ReportData) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), g.sheet); err != nil {
		return nil, renderError(FormatXLSX, err)
	}

	w := &excelWriter{f: f, sheet: g.sheet, styles: make(map[styleKey]int)}
	last := ColName(domain.NumMetrics)

	// Дата среза
	title := w.newStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    borders(),
	})
	w.set("A1", g.GetTitle(data))
	if w.err == nil {
		w.err = f.MergeCell(g.sheet, "A1", Cell(last, 1))
	}
	w.style("A1", Cell(last, 1), title)

	// Заголовки
	header := w.newStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center", WrapText: true},
		Border:    borders(),
	})
	for i, h := range ExcelHeaders {
		w.set(CellByIndex(i, 2), h)
	}
	w.style("A2", Cell(last, 2), header)

	for i, r := range data.Rows {
		g.writeRow(w, i+3, r)
	}

	if w.err == nil {
		w.err = f.SetColWidth(g.sheet, "A", "A", excelLabelWidth)
	}
	if w.err == nil {
		w.err = f.SetColWidth(g.sheet, "B", last, excelMetricWidth)
	}
	if w.err != nil {
		return nil, renderError(FormatXLSX, w.err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, renderError(FormatXLSX, err)
	}

	return buf.Bytes(), nil
}

func (g *ExcelGenerator) writeRow(w *excelWriter, row int, r domain.ReportRow) {
	label := CellByIndex(0, row)
	w.set(label, r.Label)
	w.style(label, label, g.styleFor(w, r.Depth, kindLabel))

	for i, m := range domain.AllMetrics {
		cell := CellByIndex(i+1, row)
		v := r.Metrics.Get(m)

		if m.Kind() == domain.KindValue {
			// null в колонках значений пишется нулём
			n := int64(0)
			if v.Valid {
				n = int64(v.Float)
			}
			w.set(cell, n)
			w.style(cell, cell, g.styleFor(w, r.Depth, kindValue))
			continue
		}

		switch {
		case !v.Valid:
			w.style(cell, cell, g.styleFor(w, r.Depth, kindPercentNull))
		case v.Float < 0:
			w.set(cell, v.Float/100)
			w.style(cell, cell, g.styleFor(w, r.Depth, kindPercentNeg))
		default:
			w.set(cell, v.Float/100)
			w.style(cell, cell, g.styleFor(w, r.Depth, kindPercentPos))
		}
	}
}

// styleFor строит стиль ячейки по глубине строки и виду значения
func (g *ExcelGenerator) styleFor(w *excelWriter, depth int, kind cellKind) int {
	key := styleKey{depth: depth, kind: kind}
	if id, ok := w.styles[key]; ok {
		return id
	}

	s := &excelize.Style{Font: &excelize.Font{}}
	if depth == 0 {
		s.Font.Bold = true
	} else {
		s.Border = borders()
	}

	switch kind {
	case kindLabel:
		switch depth {
		case 1:
			s.Alignment = &excelize.Alignment{Horizontal: "left", Indent: 2}
		case 2:
			s.Alignment = &excelize.Alignment{Horizontal: "left", Indent: 4}
			s.Font.Color = excelProductColor
		}
	case kindValue:
		s.NumFmt = excelThousandsFmt
	case kindPercentPos, kindPercentNeg, kindPercentNull:
		format := excelPercentFormat
		s.CustomNumFmt = &format
		if kind == kindPercentPos {
			s.Font.Color = excelPositiveColor
		}
		if kind == kindPercentNeg {
			s.Font.Color = excelNegativeColor
		}
	}

	id := w.newStyle(s)
	w.styles[key] = id
	return id
}

func borders() []excelize.Border {
	out := make([]excelize.Border, 0, 4)
	for _, side := range []string{"left", "top", "right", "bottom"} {
		out = append(out, excelize.Border{Type: side, Color: "000000", Style: 1})
	}
	return out
}

