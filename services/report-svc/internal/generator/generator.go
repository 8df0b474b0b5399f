// services/report-svc/internal/generator/generator.go
package generator

import (
	"context"
	"fmt"
	"strings"

	"metricsreport/pkg/apperror"
	"metricsreport/pkg/domain"
)

// Format формат вывода отчёта
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatHTML     Format = "html"
	FormatXLSX     Format = "xlsx"
	FormatPDF      Format = "pdf"
	FormatNone     Format = "none"
)

// DisplayFormats форматы экранной таблицы
var DisplayFormats = []Format{FormatText, FormatMarkdown, FormatCSV, FormatJSON, FormatHTML}

// ExportFormats форматы выгрузки
var ExportFormats = []Format{FormatXLSX, FormatPDF}

// ParseFormat разбирает имя формата
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatText, FormatMarkdown, FormatCSV, FormatJSON, FormatHTML, FormatXLSX, FormatPDF, FormatNone:
		return f, nil
	case "":
		return FormatNone, nil
	case "md":
		return FormatMarkdown, nil
	case "excel":
		return FormatXLSX, nil
	default:
		return "", apperror.New(apperror.CodeInvalidArgument, fmt.Sprintf("unknown output format %q", s))
	}
}

// ReportData данные для генерации отчёта
type ReportData struct {
	Rows        []domain.ReportRow
	CutoffLabel string
}

// Generator интерфейс генератора отчётов
type Generator interface {
	Generate(ctx context.Context, data *ReportData) ([]byte, error)
	Format() Format
}

// Options общие настройки генераторов
type Options struct {
	// Color подсвечивает строки продуктов, где формат это умеет
	Color bool
	// GroupDigits разделяет тысячи в значениях на экране
	GroupDigits bool
	// SheetName имя листа xlsx
	SheetName string
	PDF       PDFOptions
}

// DefaultOptions настройки по умолчанию
func DefaultOptions() Options {
	return Options{
		Color:     true,
		SheetName: "Report",
		PDF:       DefaultPDFOptions(),
	}
}

// New создаёт генератор по формату
func New(format Format, opts Options) (Generator, error) {
	switch format {
	case FormatText:
		return NewTextGenerator(opts), nil
	case FormatMarkdown:
		return NewMarkdownGenerator(opts), nil
	case FormatCSV:
		return NewCSVGenerator(), nil
	case FormatJSON:
		return NewJSONGenerator(), nil
	case FormatHTML:
		return NewHTMLGenerator(opts), nil
	case FormatXLSX:
		return NewExcelGenerator(opts), nil
	case FormatPDF:
		return NewPDFGenerator(opts), nil
	default:
		return nil, apperror.New(apperror.CodeInvalidArgument, fmt.Sprintf("no generator for format %q", format))
	}
}

// ContentType MIME-тип формата
func ContentType(format Format) string {
	switch format {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	case FormatCSV:
		return "text/csv"
	case FormatJSON:
		return "application/json"
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Extension расширение файла формата
func Extension(format Format) string {
	switch format {
	case FormatMarkdown:
		return ".md"
	case FormatText:
		return ".txt"
	default:
		return "." + string(format)
	}
}

// BaseGenerator базовые утилиты для генераторов
type BaseGenerator struct{}

// GetTitle возвращает заголовок отчёта
func (b *BaseGenerator) GetTitle(data *ReportData) string {
	if data.CutoffLabel == "" {
		return "Cut-off"
	}
	return "Cut-off: " + data.CutoffLabel
}

// FormatPercent форматирует процентные пункты, null пустой
func (b *BaseGenerator) FormatPercent(v domain.Value) string {
	if !v.Valid {
		return ""
	}
	return fmt.Sprintf("%.1f%%", v.Float)
}

// FormatNumber форматирует целое значение, null пустой
func (b *BaseGenerator) FormatNumber(v domain.Value) string {
	if !v.Valid {
		return ""
	}
	return fmt.Sprintf("%.0f", v.Float)
}

// FormatMetric форматирует значение по типу метрики
func (b *BaseGenerator) FormatMetric(m domain.Metric, v domain.Value) string {
	if m.Kind() == domain.KindValue {
		return b.FormatNumber(v)
	}
	return b.FormatPercent(v)
}

// ColName преобразует индекс колонки в буквенное обозначение (0 -> A, 25 -> Z, 26 -> AA)
func ColName(index int) string {
	result := ""
	for {
		result = string(rune('A'+index%26)) + result
		index = index/26 - 1
		if index < 0 {
			break
		}
	}
	return result
}

// Cell возвращает адрес ячейки
func Cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// CellByIndex возвращает адрес ячейки по индексам
func CellByIndex(colIndex, rowIndex int) string {
	return fmt.Sprintf("%s%d", ColName(colIndex), rowIndex)
}

func renderError(format Format, err error) error {
	return apperror.Wrap(err, apperror.CodeRenderFailed, fmt.Sprintf("cannot render %s", format)).
		WithDetails("format", string(format))
}
