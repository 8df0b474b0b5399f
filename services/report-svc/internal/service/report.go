// services/report-svc/internal/service/report.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"metricsreport/pkg/apperror"
	"metricsreport/pkg/audit"
	"metricsreport/pkg/cache"
	"metricsreport/pkg/domain"
	"metricsreport/pkg/logger"
	"metricsreport/pkg/metrics"
	"metricsreport/pkg/telemetry"
	"metricsreport/services/report-svc/internal/generator"
	"metricsreport/services/report-svc/internal/hierarchy"
	"metricsreport/services/report-svc/internal/metricmap"
	"metricsreport/services/report-svc/internal/rowbuilder"
	"metricsreport/services/report-svc/internal/workbook"
)

var startTime = time.Now()

// Имена этапов для метрик
const (
	stageLoad   = "load"
	stageRows   = "rows"
	stageRender = "render"
)

// ReportService собирает отчёт: книги, карты метрик, строки, вывод
type ReportService struct {
	version          string
	reportsGenerated atomic.Int64
	opener           workbook.Opener
	generators       map[generator.Format]generator.Generator
	metrics          *metrics.Metrics

	// Настройки
	displayFormat generator.Format
	exportFormat  generator.Format
	filename      string
	cutoffLayout  string
	now           func() time.Time
}

// ServiceConfig конфигурация сервиса
type ServiceConfig struct {
	Version       string
	DisplayFormat generator.Format
	ExportFormat  generator.Format
	Filename      string
	CutoffLayout  string
	Generator     generator.Options
}

// DefaultCutoffLayout "DD Month YYYY"
const DefaultCutoffLayout = "02 January 2006"

// DefaultFilename имя файла выгрузки
const DefaultFilename = "Report_Full_Level.xlsx"

// NewReportService создаёт новый сервис
func NewReportService(cfg ServiceConfig, opener workbook.Opener, m *metrics.Metrics) *ReportService {
	if opener == nil {
		opener = workbook.NewExcelOpener()
	}
	if m == nil {
		m = metrics.Get()
	}
	if cfg.Filename == "" {
		cfg.Filename = DefaultFilename
	}
	if cfg.CutoffLayout == "" {
		cfg.CutoffLayout = DefaultCutoffLayout
	}
	if cfg.DisplayFormat == "" {
		cfg.DisplayFormat = generator.FormatText
	}
	if cfg.ExportFormat == "" {
		cfg.ExportFormat = generator.FormatXLSX
	}

	gens := make(map[generator.Format]generator.Generator)
	for _, f := range append(append([]generator.Format{}, generator.DisplayFormats...), generator.ExportFormats...) {
		g, err := generator.New(f, cfg.Generator)
		if err == nil {
			gens[f] = g
		}
	}

	return &ReportService{
		version:       cfg.Version,
		opener:        opener,
		generators:    gens,
		metrics:       m,
		displayFormat: cfg.DisplayFormat,
		exportFormat:  cfg.ExportFormat,
		filename:      cfg.Filename,
		cutoffLayout:  cfg.CutoffLayout,
		now:           time.Now,
	}
}

// Inputs четыре книги одного запуска
type Inputs struct {
	Master         []byte
	FormatMetrics  []byte
	VariantMetrics []byte
	ProductMetrics []byte
}

type input struct {
	role string
	data []byte
}

// roles книги с их именами в сообщениях
func (in Inputs) roles() []input {
	return []input{
		{"master", in.Master},
		{"format metrics", in.FormatMetrics},
		{"variant metrics", in.VariantMetrics},
		{"product metrics", in.ProductMetrics},
	}
}

// Missing имена отсутствующих книг
func (in Inputs) Missing() []string {
	var missing []string
	for _, r := range in.roles() {
		if len(r.data) == 0 {
			missing = append(missing, r.role)
		}
	}
	return missing
}

// Request запрос на отчёт. Пустые форматы берутся из конфигурации,
// FormatNone отключает вывод.
type Request struct {
	Inputs
	Cutoff        time.Time
	Selection     domain.Selection
	DisplayFormat generator.Format
	ExportFormat  generator.Format
}

// Artifact результат одного генератора
type Artifact struct {
	Format      generator.Format
	Content     []byte
	ContentType string
	Filename    string
	SizeBytes   int
}

// Result результат запуска
type Result struct {
	RunID       string
	CutoffLabel string
	Rows        []domain.ReportRow
	Table       *generator.Table
	Display     *Artifact
	Export      *Artifact
	Duration    time.Duration
}

// loaded разобранные книги
type loaded struct {
	master   *hierarchy.Table
	formats  *metricmap.LevelMaps
	variants *metricmap.LevelMaps
	products *metricmap.LevelMaps
}

// Generate выполняет полный пересчёт. Ошибка любого этапа прерывает
// запуск целиком, частичного отчёта нет.
func (s *ReportService) Generate(ctx context.Context, req *Request) (*Result, error) {
	runID := uuid.New().String()
	log := logger.WithRunID(runID)

	ctx, span := telemetry.StartSpan(ctx, "ReportService.Generate",
		telemetry.WithAttributes(attribute.String(telemetry.AttrRunID, runID)),
	)
	defer span.End()

	start := time.Now()
	res, err := s.generate(ctx, req, runID, log)

	entry := newAuditEntry(audit.ActionGenerate, runID, time.Since(start))
	if req != nil {
		entry.Selection(len(req.Selection.Formats), len(req.Selection.Variants), len(req.Selection.Products))
		for _, in := range req.roles() {
			if len(in.data) > 0 {
				entry.Input(in.role, cache.ShortHash(in.data))
			}
		}
	}

	if err != nil {
		telemetry.SetError(ctx, err)
		s.metrics.RecordReport(false)
		log.Error("report failed",
			"stage", string(apperror.StageOf(err)),
			"code", string(apperror.Code(err)),
			"severity", apperror.SeverityOf(err).String(),
			"error", apperror.UserMessage(err),
		)
		s.journal(ctx, log, entry.Outcome(audit.OutcomeFailure).
			Error(string(apperror.Code(err)), string(apperror.StageOf(err)), apperror.UserMessage(err)))
		return nil, err
	}

	res.Duration = time.Since(start)
	s.reportsGenerated.Add(1)
	s.metrics.RecordReport(true)

	entry.Outcome(audit.OutcomeSuccess).Cutoff(res.CutoffLabel).Rows(len(res.Rows))
	if res.Export != nil {
		entry.Export(string(res.Export.Format), res.Export.Filename, res.Export.SizeBytes)
	}
	s.journal(ctx, log, entry)

	log.Info("report generated",
		"rows", len(res.Rows),
		"cutoff", res.CutoffLabel,
		"duration", res.Duration,
	)

	return res, nil
}

func (s *ReportService) generate(ctx context.Context, req *Request, runID string, log *slog.Logger) (*Result, error) {
	if req == nil {
		return nil, apperror.New(apperror.CodeInvalidArgument, "request is required")
	}

	if missing := req.Missing(); len(missing) > 0 {
		return nil, apperror.New(apperror.CodeIncompleteInput,
			"incomplete input: missing "+strings.Join(missing, ", ")).
			WithDetails("missing", strings.Join(missing, ", "))
	}

	displayFormat, exportFormat, err := s.formats(req)
	if err != nil {
		return nil, err
	}

	cutoff := req.Cutoff
	if cutoff.IsZero() {
		cutoff = s.now()
	}
	label := cutoff.Format(s.cutoffLayout)

	telemetry.SetAttributes(ctx, attribute.String(telemetry.AttrCutoff, label))
	telemetry.SetAttributes(ctx, telemetry.SelectionAttributes(
		len(req.Selection.Formats), len(req.Selection.Variants), len(req.Selection.Products))...)

	log.Debug("generating report",
		"cutoff", label,
		"formats", len(req.Selection.Formats),
		"variants", len(req.Selection.Variants),
		"products", len(req.Selection.Products),
	)

	in, err := s.loadInputs(ctx, req.Inputs)
	if err != nil {
		return nil, err
	}

	rows := s.buildRows(ctx, in, req.Selection)

	res := &Result{
		RunID:       runID,
		CutoffLabel: label,
		Rows:        rows,
		Table:       generator.BuildTable(rows, label),
	}

	if err := s.render(ctx, res, displayFormat, exportFormat); err != nil {
		return nil, err
	}

	return res, nil
}

// formats проверяет форматы запроса
func (s *ReportService) formats(req *Request) (generator.Format, generator.Format, error) {
	display := req.DisplayFormat
	if display == "" {
		display = s.displayFormat
	}
	export := req.ExportFormat
	if export == "" {
		export = s.exportFormat
	}

	if display != generator.FormatNone && !contains(generator.DisplayFormats, display) {
		return "", "", apperror.NewWithField(apperror.CodeInvalidArgument,
			fmt.Sprintf("unsupported display format %q", display), "display")
	}
	if export != generator.FormatNone && !contains(generator.ExportFormats, export) {
		return "", "", apperror.NewWithField(apperror.CodeInvalidArgument,
			fmt.Sprintf("unsupported export format %q", export), "export")
	}
	return display, export, nil
}

func (s *ReportService) loadInputs(ctx context.Context, in Inputs) (*loaded, error) {
	ctx, span := telemetry.StartSpan(ctx, "ReportService.loadInputs")
	defer span.End()

	timer := metrics.NewTimer(s.metrics.StageDuration, stageLoad)
	defer timer.ObserveDuration()

	telemetry.AddEvent(ctx, "workbook", telemetry.WorkbookAttributes("master", len(in.Master))...)
	master, err := hierarchy.Load(ctx, s.opener, in.Master)
	if err != nil {
		telemetry.SetError(ctx, err)
		return nil, err
	}

	opts := []metricmap.Option{
		metricmap.WithCellHook(func(level domain.Level, n int) {
			s.metrics.RecordCells(level.String(), n)
		}),
		metricmap.WithParseErrorHook(func(level domain.Level) {
			s.metrics.RecordParseError(level.String())
		}),
	}

	out := &loaded{master: master}
	levels := []struct {
		level domain.Level
		data  []byte
		dst   **metricmap.LevelMaps
	}{
		{domain.LevelFormat, in.FormatMetrics, &out.formats},
		{domain.LevelVariant, in.VariantMetrics, &out.variants},
		{domain.LevelProduct, in.ProductMetrics, &out.products},
	}

	for _, l := range levels {
		telemetry.AddEvent(ctx, "workbook", telemetry.WorkbookAttributes(l.level.String()+" metrics", len(l.data))...)
		maps, err := metricmap.Build(ctx, s.opener, l.data, l.level, opts...)
		if err != nil {
			telemetry.SetError(ctx, err)
			return nil, err
		}
		*l.dst = maps
	}

	return out, nil
}

func (s *ReportService) buildRows(ctx context.Context, in *loaded, sel domain.Selection) []domain.ReportRow {
	_, span := telemetry.StartSpan(ctx, "ReportService.buildRows")
	defer span.End()

	timer := time.Now()
	rows := rowbuilder.Build(in.master, sel, in.formats, in.variants, in.products)
	s.metrics.RecordStage(stageRows, time.Since(timer))

	for depth, n := range rowbuilder.CountByDepth(rows) {
		s.metrics.RecordRows(depth, n)
	}
	span.SetAttributes(attribute.Int(telemetry.AttrRows, len(rows)))

	return rows
}

// render строит экранную таблицу и выгрузку из одних и тех же строк
func (s *ReportService) render(ctx context.Context, res *Result, display, export generator.Format) error {
	ctx, span := telemetry.StartSpan(ctx, "ReportService.render")
	defer span.End()

	timer := metrics.NewTimer(s.metrics.StageDuration, stageRender)
	defer timer.ObserveDuration()

	data := &generator.ReportData{Rows: res.Rows, CutoffLabel: res.CutoffLabel}

	if display != generator.FormatNone {
		a, err := s.run(ctx, display, data)
		if err != nil {
			return err
		}
		res.Display = a
	}

	if export != generator.FormatNone {
		a, err := s.run(ctx, export, data)
		if err != nil {
			return err
		}
		a.Filename = exportFilename(s.filename, export)
		res.Export = a

		s.metrics.RecordExport(string(export), a.SizeBytes)
		span.SetAttributes(telemetry.ExportAttributes(string(export), a.SizeBytes)...)
	}

	return nil
}

func (s *ReportService) run(ctx context.Context, format generator.Format, data *generator.ReportData) (*Artifact, error) {
	gen, err := s.getGenerator(format)
	if err != nil {
		return nil, err
	}

	content, err := gen.Generate(ctx, data)
	if err != nil {
		telemetry.SetError(ctx, err)
		var appErr *apperror.Error
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, apperror.Wrap(err, apperror.CodeRenderFailed, fmt.Sprintf("failed to generate %s: %v", format, err)).
			WithSeverity(apperror.SeverityCritical)
	}

	return &Artifact{
		Format:      format,
		Content:     content,
		ContentType: generator.ContentType(format),
		SizeBytes:   len(content),
	}, nil
}

// OptionsResult пулы выбора и согласованный выбор
type OptionsResult struct {
	Pools      hierarchy.Pools
	Selection  domain.Selection
	MasterRows int
}

// Options считает каскадные пулы по мастер-книге. Нужен только мастер.
func (s *ReportService) Options(ctx context.Context, master []byte, sel domain.Selection) (*OptionsResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "ReportService.Options")
	defer span.End()

	start := time.Now()
	runID := uuid.New().String()
	log := logger.WithRunID(runID)
	entry := newAuditEntry(audit.ActionOptions, runID, 0).
		Selection(len(sel.Formats), len(sel.Variants), len(sel.Products))

	fail := func(err error) error {
		telemetry.SetError(ctx, err)
		s.journal(ctx, log, entry.Duration(time.Since(start)).Outcome(audit.OutcomeFailure).
			Error(string(apperror.Code(err)), string(apperror.StageOf(err)), apperror.UserMessage(err)))
		return err
	}

	if len(master) == 0 {
		return nil, fail(apperror.New(apperror.CodeIncompleteInput, "incomplete input: missing master").
			WithDetails("missing", "master"))
	}
	entry.Input("master", cache.ShortHash(master))

	tbl, err := hierarchy.Load(ctx, s.opener, master)
	if err != nil {
		return nil, fail(err)
	}

	res := &OptionsResult{
		Pools:      tbl.Pools(sel),
		Selection:  tbl.Reconcile(sel),
		MasterRows: tbl.Len(),
	}
	s.journal(ctx, log, entry.Duration(time.Since(start)).Outcome(audit.OutcomeSuccess).
		Meta("master_rows", res.MasterRows))

	return res, nil
}

func newAuditEntry(action audit.Action, runID string, d time.Duration) *audit.Builder {
	return audit.NewEntry().
		Service("report").
		Action(action).
		RunID(runID).
		Duration(d)
}

// journal пишет запись в журнал запусков, ошибка журнала не роняет отчёт
func (s *ReportService) journal(ctx context.Context, log *slog.Logger, b *audit.Builder) {
	if err := audit.Log(ctx, b.Meta("version", s.version).Build()); err != nil {
		log.Warn("Failed to write audit entry", "error", err)
	}
}

// Stats состояние сервиса
type Stats struct {
	Version          string
	Uptime           time.Duration
	ReportsGenerated int64
}

// Stats возвращает счётчики процесса
func (s *ReportService) Stats() Stats {
	return Stats{
		Version:          s.version,
		Uptime:           time.Since(startTime),
		ReportsGenerated: s.reportsGenerated.Load(),
	}
}

func (s *ReportService) getGenerator(format generator.Format) (generator.Generator, error) {
	gen, ok := s.generators[format]
	if !ok {
		return nil, apperror.New(apperror.CodeInvalidArgument, fmt.Sprintf("unsupported format: %s", format))
	}
	return gen, nil
}

// exportFilename меняет расширение имени под формат
func exportFilename(base string, format generator.Format) string {
	return sanitizeFilename(strings.TrimSuffix(base, filepath.Ext(base))) + generator.Extension(format)
}

func sanitizeFilename(s string) string {
	result := make([]rune, 0, len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '-' || r == '_' {
			result = append(result, r)
		} else if r == ' ' {
			result = append(result, '_')
		}
	}
	if len(result) == 0 {
		return "report"
	}
	return string(result)
}

func contains(list []generator.Format, f generator.Format) bool {
	for _, x := range list {
		if x == f {
			return true
		}
	}
	return false
}
