// Package fixture builds small xlsx workbooks in memory for tests.
package fixture

import (
	"testing"

	"github.com/xuri/excelize/v2"

	"metricsreport/pkg/domain"
)

// Sheet лист фикстуры. nil в Rows - пустая ячейка.
type Sheet struct {
	Name string
	Rows [][]any
}

// Workbook собирает xlsx с заданными листами в порядке перечисления
func Workbook(t testing.TB, sheets ...Sheet) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), s.Name); err != nil {
				t.Fatalf("rename sheet: %v", err)
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			t.Fatalf("new sheet %s: %v", s.Name, err)
		}

		for r, row := range s.Rows {
			for c, v := range row {
				if v == nil {
					continue
				}
				axis, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					t.Fatalf("cell name: %v", err)
				}
				if err := f.SetCellValue(s.Name, axis, v); err != nil {
					t.Fatalf("set %s!%s: %v", s.Name, axis, err)
				}
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

// Master собирает мастер-справочник. Пустые строки становятся пустыми ячейками.
func Master(t testing.TB, entities ...domain.MasterEntity) []byte {
	t.Helper()

	rows := [][]any{{domain.ColumnFormat, domain.ColumnVariant, domain.ColumnProduct}}
	for _, e := range entities {
		rows = append(rows, []any{cellOrNil(e.Format), cellOrNil(e.Variant), cellOrNil(e.Product)})
	}
	return Workbook(t, Sheet{Name: "Master", Rows: rows})
}

// MetricRow строка книги метрик. Values в порядке domain.AllMetrics:
// float64 - числовая ячейка, string - текстовая, nil - пустая.
type MetricRow struct {
	Name   string
	Values [domain.NumMetrics]any
}

// Row удобный конструктор MetricRow
func Row(name string, values ...any) MetricRow {
	r := MetricRow{Name: name}
	copy(r.Values[:], values)
	return r
}

// Metrics собирает книгу метрик одного уровня со всеми шестью листами
func Metrics(t testing.TB, rows ...MetricRow) []byte {
	t.Helper()

	sheet18 := [][]any{{domain.KeyColumn, "% of Total Current DO TP2 along Product P, Product P Hidden"}}
	sheet1 := [][]any{{domain.KeyColumn, "Current DO", "Current DO TP2"}}
	sheet4 := [][]any{{"Growth MTD"}, {domain.KeyColumn, "vs LY"}}
	sheet3 := [][]any{{"Growth L3M"}, {domain.KeyColumn, "vs L3M"}}
	sheet5 := [][]any{{"Growth YTD"}, {domain.KeyColumn, "vs LY"}}
	sheet13 := [][]any{{domain.KeyColumn, "Current Achievement"}}
	sheet14 := [][]any{{domain.KeyColumn, "Current Achievement TP2"}}

	for _, r := range rows {
		name := cellOrNil(r.Name)
		v := r.Values
		sheet18 = append(sheet18, []any{name, v[domain.ContributionYTD]})
		sheet1 = append(sheet1, []any{name, v[domain.ValueMTD], v[domain.ValueYTD]})
		sheet4 = append(sheet4, []any{name, v[domain.GrowthMTD]})
		sheet3 = append(sheet3, []any{name, v[domain.GrowthL3M]})
		sheet5 = append(sheet5, []any{name, v[domain.GrowthYTD]})
		sheet13 = append(sheet13, []any{name, v[domain.AchievementMTD]})
		sheet14 = append(sheet14, []any{name, v[domain.AchievementYTD]})
	}

	return Workbook(t,
		Sheet{Name: "Sheet 1", Rows: sheet1},
		Sheet{Name: "Sheet 3", Rows: sheet3},
		Sheet{Name: "Sheet 4", Rows: sheet4},
		Sheet{Name: "Sheet 5", Rows: sheet5},
		Sheet{Name: "Sheet 13", Rows: sheet13},
		Sheet{Name: "Sheet 14", Rows: sheet14},
		Sheet{Name: "Sheet 18", Rows: sheet18},
	)
}

func cellOrNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}
