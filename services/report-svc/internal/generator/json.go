// services/report-svc/internal/generator/json.go
package generator

import (
	"context"

	jsoniter "github.com/json-iterator/go"

	"metricsreport/pkg/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// JSONGenerator генератор JSON отчётов
type JSONGenerator struct {
	BaseGenerator
}

// NewJSONGenerator создаёт новый генератор
func NewJSONGenerator() *JSONGenerator {
	return &JSONGenerator{}
}

// Format возвращает формат генератора
func (g *JSONGenerator) Format() Format {
	return FormatJSON
}

// JSONReport структура JSON отчёта
type JSONReport struct {
	Title   string        `json:"title"`
	Cutoff  string        `json:"cutoff"`
	Columns []JSONColumn  `json:"columns"`
	Rows    []JSONRow     `json:"rows"`
	Summary JSONRowCounts `json:"summary"`
}

type JSONColumn struct {
	Key   string `json:"key"`
	Group string `json:"group,omitempty"`
	Name  string `json:"name"`
	Kind  string `json:"kind"`
}

// JSONRow значения по ключам метрик, null для отсутствующих
type JSONRow struct {
	Label   string                  `json:"label"`
	Depth   int                     `json:"depth"`
	Metrics map[string]domain.Value `json:"metrics"`
}

type JSONRowCounts struct {
	Formats  int `json:"formats"`
	Variants int `json:"variants"`
	Products int `json:"products"`
}

// Generate генерирует JSON отчёт
func (g *JSONGenerator) Generate(ctx context.Context, data *ReportData) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := JSONReport{
		Title:   g.GetTitle(data),
		Cutoff:  data.CutoffLabel,
		Columns: make([]JSONColumn, 0, len(Columns)),
		Rows:    make([]JSONRow, 0, len(data.Rows)),
	}

	for _, c := range Columns {
		kind := "percent"
		if c.Metric.Kind() == domain.KindValue {
			kind = "value"
		}
		report.Columns = append(report.Columns, JSONColumn{
			Key:   c.Metric.String(),
			Group: c.Group,
			Name:  c.Name,
			Kind:  kind,
		})
	}

	for _, r := range data.Rows {
		row := JSONRow{
			Label:   r.Label,
			Depth:   r.Depth,
			Metrics: make(map[string]domain.Value, domain.NumMetrics),
		}
		for _, m := range domain.AllMetrics {
			row.Metrics[m.String()] = r.Metrics.Get(m)
		}
		report.Rows = append(report.Rows, row)

		switch r.Depth {
		case 0:
			if r.Label != domain.GrandTotal {
				report.Summary.Formats++
			}
		case 1:
			report.Summary.Variants++
		case 2:
			report.Summary.Products++
		}
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, renderError(FormatJSON, err)
	}
	return out, nil
}
