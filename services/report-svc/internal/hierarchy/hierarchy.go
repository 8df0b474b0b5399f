// Package hierarchy holds the master Format → Variant → Product table and
// computes the cascading filter pools a selection UI offers at each level.
package hierarchy

import (
	"context"
	"errors"
	"sort"

	"metricsreport/pkg/apperror"
	"metricsreport/pkg/domain"
	"metricsreport/services/report-svc/internal/workbook"
)

type set map[string]struct{}

func (s set) add(name string) {
	s[name] = struct{}{}
}

func (s set) has(name string) bool {
	_, ok := s[name]
	return ok
}

// Table мастер-справочник с индексами смежности. После создания не меняется.
type Table struct {
	entities   []domain.MasterEntity
	formats    set
	variantsOf map[string]set
	productsOf map[string]set
}

// New строит справочник из строк
func New(entities []domain.MasterEntity) *Table {
	t := &Table{
		entities:   append([]domain.MasterEntity(nil), entities...),
		formats:    make(set),
		variantsOf: make(map[string]set),
		productsOf: make(map[string]set),
	}

	for _, e := range t.entities {
		if e.Format != "" {
			t.formats.add(e.Format)
		}
		if e.Format != "" && e.Variant != "" {
			link(t.variantsOf, e.Format, e.Variant)
		}
		if e.Variant != "" && e.Product != "" {
			link(t.productsOf, e.Variant, e.Product)
		}
	}

	return t
}

func link(index map[string]set, parent, child string) {
	s, ok := index[parent]
	if !ok {
		s = make(set)
		index[parent] = s
	}
	s.add(child)
}

// Load читает первый лист мастер-книги
func Load(ctx context.Context, opener workbook.Opener, data []byte) (*Table, error) {
	tbl, err := workbook.LoadSheet(ctx, opener, data, "", 0)
	if err != nil {
		var appErr *apperror.Error
		if errors.As(err, &appErr) {
			return nil, appErr.WithDetails("workbook", "master")
		}
		return nil, err
	}

	cols := make([]int, 3)
	for i, name := range []string{domain.ColumnFormat, domain.ColumnVariant, domain.ColumnProduct} {
		idx, ok := tbl.Column(name)
		if !ok {
			return nil, apperror.New(apperror.CodeMissingColumn, "master column not found").
				WithField(name).
				WithDetails("workbook", "master").
				WithDetails("sheet", tbl.Sheet).
				WithDetails("column", name)
		}
		cols[i] = idx
	}

	entities := make([]domain.MasterEntity, 0, len(tbl.Rows))
	for i := range tbl.Rows {
		e := domain.MasterEntity{
			Format:  tbl.Cell(i, cols[0]).String(),
			Variant: tbl.Cell(i, cols[1]).String(),
			Product: tbl.Cell(i, cols[2]).String(),
		}
		if e == (domain.MasterEntity{}) {
			continue
		}
		entities = append(entities, e)
	}

	return New(entities), nil
}

// Len число строк
func (t *Table) Len() int {
	return len(t.entities)
}

// HasFormat проверяет, что формат есть в справочнике
func (t *Table) HasFormat(format string) bool {
	return t.formats.has(format)
}

// HasVariant проверяет, что вариант принадлежит формату
func (t *Table) HasVariant(format, variant string) bool {
	return t.variantsOf[format].has(variant)
}

// HasProduct проверяет, что продукт принадлежит варианту
func (t *Table) HasProduct(variant, product string) bool {
	return t.productsOf[variant].has(product)
}

// FormatPool все форматы справочника
func (t *Table) FormatPool() []string {
	return sorted(t.formats)
}

// DescendantPool дочерние имена выбранных родителей: сортировка,
// без повторов и пустых. Пустой выбор родителя даёт пустой пул.
func (t *Table) DescendantPool(parent domain.Level, selected []string) []string {
	var index map[string]set
	switch parent {
	case domain.LevelFormat:
		index = t.variantsOf
	case domain.LevelVariant:
		index = t.productsOf
	default:
		return []string{}
	}

	pool := make(set)
	for _, name := range selected {
		for child := range index[name] {
			pool.add(child)
		}
	}
	return sorted(pool)
}

// Pools варианты выбора на каждом уровне
type Pools struct {
	Formats  []string `json:"formats" yaml:"formats"`
	Variants []string `json:"variants" yaml:"variants"`
	Products []string `json:"products" yaml:"products"`
}

// At пул уровня
func (p Pools) At(l domain.Level) []string {
	switch l {
	case domain.LevelFormat:
		return p.Formats
	case domain.LevelVariant:
		return p.Variants
	default:
		return p.Products
	}
}

func (p *Pools) set(l domain.Level, names []string) {
	switch l {
	case domain.LevelFormat:
		p.Formats = names
	case domain.LevelVariant:
		p.Variants = names
	default:
		p.Products = names
	}
}

// Pools считает каскад: пул уровня зависит от уже согласованного выбора
// родителя, как в виджете, где выбор ограничен списком опций.
func (t *Table) Pools(sel domain.Selection) Pools {
	p, _ := t.cascade(sel)
	return p
}

// Reconcile возвращает новый выбор только из имён, входящих в свежие пулы.
// Порядок сохраняется, повторы убираются. Исходный выбор не меняется.
func (t *Table) Reconcile(sel domain.Selection) domain.Selection {
	_, out := t.cascade(sel)
	return out
}

func (t *Table) cascade(sel domain.Selection) (Pools, domain.Selection) {
	var p Pools
	var out domain.Selection

	level := domain.LevelFormat
	pool := t.FormatPool()
	for {
		chosen := keep(sel.At(level), pool)
		p.set(level, pool)
		out.Set(level, chosen)

		child, ok := level.Child()
		if !ok {
			return p, out
		}
		pool = t.DescendantPool(level, chosen)
		level = child
	}
}

// keep оставляет имена из пула в исходном порядке
func keep(names, pool []string) []string {
	allowed := make(set, len(pool))
	for _, n := range pool {
		allowed.add(n)
	}

	out := make([]string, 0, len(names))
	seen := make(set, len(names))
	for _, n := range names {
		if !allowed.has(n) || seen.has(n) {
			continue
		}
		seen.add(n)
		out = append(out, n)
	}
	return out
}

func sorted(s set) []string {
	out := make([]string, 0, len(s))
	for name := range s {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
