package metricmap

import "metricsreport/pkg/domain"

// Source откуда берётся одна метрика в книге уровня
type Source struct {
	Metric domain.Metric
	Sheet  string
	Skip   int
	Column string
}

// Layout одинаков для книг Format, Variant и Product
var Layout = [domain.NumMetrics]Source{
	{domain.ContributionYTD, "Sheet 18", 0, "% of Total Current DO TP2 along Product P, Product P Hidden"},
	{domain.ValueMTD, "Sheet 1", 0, "Current DO"},
	{domain.ValueYTD, "Sheet 1", 0, "Current DO TP2"},
	{domain.GrowthMTD, "Sheet 4", 1, "vs LY"},
	{domain.GrowthL3M, "Sheet 3", 1, "vs L3M"},
	{domain.GrowthYTD, "Sheet 5", 1, "vs LY"},
	{domain.AchievementMTD, "Sheet 13", 0, "Current Achievement"},
	{domain.AchievementYTD, "Sheet 14", 0, "Current Achievement TP2"},
}

type sheetRef struct {
	name string
	skip int
}

// sheetGroup метрики, читаемые с одного листа
type sheetGroup struct {
	ref     sheetRef
	sources []Source
}

// groups группирует Layout по (лист, skip) в порядке первого появления
func groups() []sheetGroup {
	var out []sheetGroup
	index := make(map[sheetRef]int)

	for _, src := range Layout {
		ref := sheetRef{name: src.Sheet, skip: src.Skip}
		i, ok := index[ref]
		if !ok {
			i = len(out)
			index[ref] = i
			out = append(out, sheetGroup{ref: ref})
		}
		out[i].sources = append(out[i].sources, src)
	}

	return out
}
