// Package rowbuilder walks the master hierarchy for a selection and emits
// the ordered, depth-tagged report rows.
package rowbuilder

import "metricsreport/pkg/domain"

// Master связи иерархии, по которым проверяется вложенность
type Master interface {
	HasFormat(format string) bool
	HasVariant(format, variant string) bool
	HasProduct(variant, product string) bool
}

// Bundles метрики уровня по имени сущности
type Bundles interface {
	Bundle(name string) domain.MetricBundle
}

// Build строит строки отчёта: GRAND TOTAL, затем формат, его варианты,
// их продукты, в порядке выбора. Вариант выводится только под своим
// форматом, продукт только под своим вариантом; проверка идёт по
// справочнику, а не по пулам выбора.
func Build(master Master, sel domain.Selection, formats, variants, products Bundles) []domain.ReportRow {
	rows := []domain.ReportRow{{
		Label:   domain.GrandTotal,
		Depth:   0,
		Metrics: formats.Bundle(domain.GrandTotal),
	}}

	selFormats := unique(sel.Formats)
	selVariants := unique(sel.Variants)
	selProducts := unique(sel.Products)

	for _, f := range selFormats {
		// устаревший формат невидим
		if !master.HasFormat(f) {
			continue
		}
		rows = append(rows, domain.ReportRow{Label: f, Depth: 0, Metrics: formats.Bundle(f)})

		for _, v := range selVariants {
			if !master.HasVariant(f, v) {
				continue
			}
			rows = append(rows, domain.ReportRow{Label: v, Depth: 1, Metrics: variants.Bundle(v)})

			for _, p := range selProducts {
				if !master.HasProduct(v, p) {
					continue
				}
				rows = append(rows, domain.ReportRow{Label: p, Depth: 2, Metrics: products.Bundle(p)})
			}
		}
	}

	return rows
}

// CountByDepth число строк на каждой глубине
func CountByDepth(rows []domain.ReportRow) [3]int {
	var out [3]int
	for _, r := range rows {
		if r.Depth >= 0 && r.Depth < len(out) {
			out[r.Depth]++
		}
	}
	return out
}

// unique убирает повторы, первое вхождение остаётся на месте
func unique(names []string) []string {
	if len(names) < 2 {
		return names
	}
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
