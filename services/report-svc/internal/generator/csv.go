// services/report-svc/internal/generator/csv.go
package generator

import (
	"bytes"
	"context"
	"encoding/csv"
)

// CSVGenerator генератор CSV отчётов
type CSVGenerator struct {
	BaseGenerator
}

// NewCSVGenerator создаёт новый генератор
func NewCSVGenerator() *CSVGenerator {
	return &CSVGenerator{}
}

// Format возвращает формат генератора
func (g *CSVGenerator) Format() Format {
	return FormatCSV
}

// csvWriter обёртка для отслеживания ошибок
type csvWriter struct {
	w   *csv.Writer
	err error
}

func (cw *csvWriter) Write(record []string) {
	if cw.err != nil {
		return
	}
	cw.err = cw.w.Write(record)
}

func (cw *csvWriter) Flush() {
	if cw.err != nil {
		return
	}
	cw.w.Flush()
	cw.err = cw.w.Error()
}

func (cw *csvWriter) Error() error {
	return cw.err
}

// Generate пишет две строки заголовка и строки отчёта.
// Подписи сохраняют отступ глубины.
func (g *CSVGenerator) Generate(ctx context.Context, data *ReportData) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	cw := &csvWriter{w: csv.NewWriter(&buf)}
	t := BuildTable(data.Rows, data.CutoffLabel)

	cw.Write(t.Top)
	cw.Write(t.Sub)
	for _, r := range t.Rows {
		cw.Write(r.Record())
	}
	cw.Flush()

	if err := cw.Error(); err != nil {
		return nil, renderError(FormatCSV, err)
	}
	return buf.Bytes(), nil
}
