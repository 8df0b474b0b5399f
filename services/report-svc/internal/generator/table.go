package generator

import (
	"metricsreport/pkg/domain"
)

// Column колонка экранной таблицы с двухуровневым заголовком
type Column struct {
	Group  string
	Name   string
	Metric domain.Metric
}

// Columns колонки метрик в порядке domain.AllMetrics
var Columns = [domain.NumMetrics]Column{
	{"", "Cont YTD", domain.ContributionYTD},
	{"Value", "MTD", domain.ValueMTD},
	{"Value", "YTD", domain.ValueYTD},
	{"Growth", "MTD", domain.GrowthMTD},
	{"Growth", "%Gr L3M", domain.GrowthL3M},
	{"Growth", "YTD", domain.GrowthYTD},
	{"Ach", "MTD", domain.AchievementMTD},
	{"Ach", "YTD", domain.AchievementYTD},
}

// TableRow строка экранной таблицы
type TableRow struct {
	// Label с отступом по глубине
	Label   string
	Depth   int
	Cells   [domain.NumMetrics]string
	Metrics domain.MetricBundle
}

// Table модель экранной таблицы: заголовок из двух строк и строки отчёта
type Table struct {
	Top  []string
	Sub  []string
	Rows []TableRow
}

// BuildTable готовит строки отчёта к показу. Проценты как "12.3%",
// значения целыми, null пустой строкой.
func BuildTable(rows []domain.ReportRow, cutoffLabel string) *Table {
	var base BaseGenerator
	data := &ReportData{CutoffLabel: cutoffLabel}

	t := &Table{
		Top:  make([]string, 0, domain.NumMetrics+1),
		Sub:  make([]string, 0, domain.NumMetrics+1),
		Rows: make([]TableRow, 0, len(rows)),
	}
	t.Top = append(t.Top, base.GetTitle(data))
	t.Sub = append(t.Sub, "")
	for _, c := range Columns {
		t.Top = append(t.Top, c.Group)
		t.Sub = append(t.Sub, c.Name)
	}

	for _, r := range rows {
		tr := TableRow{
			Label:   IndentLabel(r.Label, r.Depth),
			Depth:   r.Depth,
			Metrics: r.Metrics,
		}
		for i, c := range Columns {
			tr.Cells[i] = base.FormatMetric(c.Metric, r.Metrics.Get(c.Metric))
		}
		t.Rows = append(t.Rows, tr)
	}

	return t
}

// IndentLabel добавляет отступ глубины к подписи
func IndentLabel(label string, depth int) string {
	switch depth {
	case 1:
		return domain.VariantIndent + label
	case 2:
		return domain.ProductIndent + label
	default:
		return label
	}
}

// FlatHeader заголовок в одну строку: "Value MTD", "Growth %Gr L3M"
func (t *Table) FlatHeader() []string {
	out := make([]string, len(t.Sub))
	for i := range t.Sub {
		switch {
		case i == 0:
			out[i] = t.Top[0]
		case t.Top[i] == "":
			out[i] = t.Sub[i]
		default:
			out[i] = t.Top[i] + " " + t.Sub[i]
		}
	}
	return out
}

// Record строка таблицы целиком: подпись и восемь ячеек
func (r TableRow) Record() []string {
	out := make([]string, 0, domain.NumMetrics+1)
	out = append(out, r.Label)
	out = append(out, r.Cells[:]...)
	return out
}
