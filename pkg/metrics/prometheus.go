package metrics

import (
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics контейнер метрик отчёта. Живёт в собственном реестре:
// CLI не держит HTTP endpoint и сбрасывает метрики в textfile.
type Metrics struct {
	Registry *prometheus.Registry

	// Запуски
	ReportsTotal  *prometheus.CounterVec
	StageDuration *prometheus.HistogramVec

	// Данные
	RowsEmitted *prometheus.CounterVec
	CellsParsed *prometheus.CounterVec
	ParseErrors *prometheus.CounterVec

	// Кэш листов
	SheetCacheLookups *prometheus.CounterVec

	// Выгрузка
	ExportBytes *prometheus.HistogramVec

	// Информация о сборке
	BuildInfo *prometheus.GaugeVec
}

var defaultMetrics *Metrics

// InitMetrics инициализирует метрики в новом реестре
func InitMetrics(namespace, subsystem string) *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &Metrics{
		Registry: reg,

		ReportsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "reports_total",
				Help:      "Total number of report runs",
			},
			[]string{"status"},
		),

		StageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "stage_duration_seconds",
				Help:      "Duration of report pipeline stages",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"stage"},
		),

		RowsEmitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "rows_emitted_total",
				Help:      "Report rows emitted by hierarchy depth",
			},
			[]string{"depth"},
		),

		CellsParsed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cells_parsed_total",
				Help:      "Metric cells parsed by hierarchy level",
			},
			[]string{"level"},
		),

		ParseErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "parse_errors_total",
				Help:      "Malformed metric cells by hierarchy level",
			},
			[]string{"level"},
		),

		SheetCacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "sheet_cache_lookups_total",
				Help:      "Parsed sheet cache lookups by result",
			},
			[]string{"result"},
		),

		ExportBytes: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "export_bytes",
				Help:      "Size of exported report artifacts",
				Buckets:   prometheus.ExponentialBuckets(4096, 4, 8),
			},
			[]string{"format"},
		),

		BuildInfo: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "build_info",
				Help:      "Build information",
			},
			[]string{"version", "environment"},
		),
	}

	reg.MustRegister(NewRuntimeCollector(namespace, subsystem))

	defaultMetrics = m
	return m
}

// Get возвращает глобальные метрики
func Get() *Metrics {
	if defaultMetrics == nil {
		return InitMetrics("metricsreport", "")
	}
	return defaultMetrics
}

// RecordReport записывает итог запуска
func (m *Metrics) RecordReport(success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	m.ReportsTotal.WithLabelValues(status).Inc()
}

// RecordStage записывает длительность этапа
func (m *Metrics) RecordStage(stage string, duration time.Duration) {
	m.StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordRows записывает число строк отчёта на каждом уровне
func (m *Metrics) RecordRows(depth, count int) {
	if count <= 0 {
		return
	}
	m.RowsEmitted.WithLabelValues(strconv.Itoa(depth)).Add(float64(count))
}

// RecordCells записывает число разобранных ячеек уровня
func (m *Metrics) RecordCells(level string, count int) {
	m.CellsParsed.WithLabelValues(level).Add(float64(count))
}

// RecordParseError отмечает битую ячейку
func (m *Metrics) RecordParseError(level string) {
	m.ParseErrors.WithLabelValues(level).Inc()
}

// RecordCacheLookup отмечает попадание или промах кэша листов
func (m *Metrics) RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.SheetCacheLookups.WithLabelValues(result).Inc()
}

// RecordExport записывает размер выгрузки
func (m *Metrics) RecordExport(format string, size int) {
	m.ExportBytes.WithLabelValues(format).Observe(float64(size))
}

// SetBuildInfo устанавливает информацию о сборке
func (m *Metrics) SetBuildInfo(version, environment string) {
	m.BuildInfo.WithLabelValues(version, environment).Set(1)
}

// WriteTextfile сбрасывает метрики в файл для node_exporter textfile collector
func (m *Metrics) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
