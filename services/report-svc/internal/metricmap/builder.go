// Package metricmap builds the per-level metric maps: for every one of the
// eight report metrics, entity name to parsed value.
package metricmap

import (
	"context"
	"errors"

	"metricsreport/pkg/apperror"
	"metricsreport/pkg/domain"
	"metricsreport/services/report-svc/internal/valueparser"
	"metricsreport/services/report-svc/internal/workbook"
)

// LevelMaps восемь карт одного уровня иерархии
type LevelMaps struct {
	Level domain.Level
	maps  [domain.NumMetrics]map[string]domain.Value
}

// NewLevelMaps создаёт пустые карты
func NewLevelMaps(level domain.Level) *LevelMaps {
	m := &LevelMaps{Level: level}
	for i := range m.maps {
		m.maps[i] = make(map[string]domain.Value)
	}
	return m
}

// Set кладёт значение, повторный ключ перезаписывает прежний
func (m *LevelMaps) Set(metric domain.Metric, name string, v domain.Value) {
	m.maps[metric][name] = v
}

// Lookup возвращает значение и признак наличия ключа
func (m *LevelMaps) Lookup(metric domain.Metric, name string) (domain.Value, bool) {
	v, ok := m.maps[metric][name]
	return v, ok
}

// Len число ключей в карте метрики
func (m *LevelMaps) Len(metric domain.Metric) int {
	return len(m.maps[metric])
}

// Bundle собирает восемь значений сущности. Отсутствующее имя даёт null.
func (m *LevelMaps) Bundle(name string) domain.MetricBundle {
	var b domain.MetricBundle
	if m == nil {
		return b
	}
	for _, metric := range domain.AllMetrics {
		b[metric], _ = m.Lookup(metric, name)
	}
	return b
}

// Option настройка Build
type Option func(*builder)

// WithCellHook получает число разобранных ячеек уровня
func WithCellHook(fn func(level domain.Level, cells int)) Option {
	return func(b *builder) {
		b.onCells = fn
	}
}

// WithParseErrorHook вызывается на нераспознанную ячейку
func WithParseErrorHook(fn func(level domain.Level)) Option {
	return func(b *builder) {
		b.onParseError = fn
	}
}

type builder struct {
	level        domain.Level
	onCells      func(domain.Level, int)
	onParseError func(domain.Level)
	cells        int
}

// Build читает книгу метрик уровня. Любая ошибка разбора прерывает
// построение целиком, частичных карт не бывает.
func Build(ctx context.Context, opener workbook.Opener, data []byte, level domain.Level, opts ...Option) (*LevelMaps, error) {
	b := &builder{level: level}
	for _, opt := range opts {
		opt(b)
	}

	book, err := opener.Open(ctx, data)
	if err != nil {
		return nil, b.annotate(err)
	}
	defer book.Close()

	maps := NewLevelMaps(level)

	// каждый (лист, skip) читается один раз
	for _, g := range groups() {
		tbl, err := book.Sheet(ctx, g.ref.name, g.ref.skip)
		if err != nil {
			return nil, b.annotate(err)
		}

		key, ok := tbl.Column(domain.KeyColumn)
		if !ok {
			return nil, b.missingColumn(tbl.Sheet, domain.KeyColumn)
		}

		for _, src := range g.sources {
			col, ok := tbl.Column(src.Column)
			if !ok {
				return nil, b.missingColumn(tbl.Sheet, src.Column)
			}
			if err := b.fill(maps, tbl, src, key, col); err != nil {
				return nil, err
			}
		}
	}

	if b.onCells != nil {
		b.onCells(level, b.cells)
	}

	return maps, nil
}

func (b *builder) fill(maps *LevelMaps, tbl *workbook.Table, src Source, key, col int) error {
	parse := valueparser.For(src.Metric.Kind())

	for i := range tbl.Rows {
		name := tbl.Cell(i, key)
		if name.IsMissing() {
			continue
		}

		raw := tbl.Cell(i, col)
		v, err := parse(raw)
		if err != nil {
			if b.onParseError != nil {
				b.onParseError(b.level)
			}
			return apperror.Wrap(err, apperror.CodeMalformedCell, "cell is not a number").
				WithField(src.Column).
				WithDetails("level", b.level.String()).
				WithDetails("sheet", tbl.Sheet).
				WithDetails("metric", src.Metric.String()).
				WithDetails("row", tbl.SheetRow(i)).
				WithDetails("raw", raw.String())
		}

		b.cells++
		maps.Set(src.Metric, name.String(), v)
	}

	return nil
}

func (b *builder) missingColumn(sheet, column string) error {
	return apperror.New(apperror.CodeMissingColumn, "column not found").
		WithField(column).
		WithDetails("level", b.level.String()).
		WithDetails("sheet", sheet).
		WithDetails("column", column)
}

// annotate добавляет уровень к ошибкам загрузки
func (b *builder) annotate(err error) error {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return appErr.WithDetails("level", b.level.String())
	}
	return err
}
