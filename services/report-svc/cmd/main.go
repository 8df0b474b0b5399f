package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"metricsreport/pkg/apperror"
	"metricsreport/pkg/audit"
	"metricsreport/pkg/config"
	"metricsreport/pkg/logger"
	"metricsreport/pkg/metrics"
	"metricsreport/pkg/telemetry"
	reportsvc "metricsreport/services/report-svc"
	"metricsreport/services/report-svc/internal/service"
)

// version подставляется при сборке через -ldflags
var version = "dev"

// Глобальные флаги
var (
	configPath  string
	logLevel    string
	metricsFile string
	auditFile   string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, apperror.UserMessage(err))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "report",
		Short: "Build the hierarchical product metrics report",
		Long: `report reads a master hierarchy workbook and three metric workbooks
(format, variant, product), and prints the Format > Variant > Product table
for a selection. It also writes the same rows to an xlsx or pdf file.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile after the run")
	rootCmd.PersistentFlags().StringVar(&auditFile, "audit-file", "", "Append a run journal entry to this jsonl file")

	rootCmd.AddCommand(newGenerateCmd(), newOptionsCmd(), newCacheCmd())
	return rootCmd
}

// app окружение одной команды
type app struct {
	cfg     *config.Config
	metrics *metrics.Metrics
	svc     *service.ReportService
	closers []func() error
}

// setup загружает конфигурацию и поднимает логгер, метрики, телеметрию и сервис
func setup(ctx context.Context, overrides map[string]any) (*app, error) {
	if logLevel != "" {
		overrides["log.level"] = logLevel
	}
	if metricsFile != "" {
		overrides["metrics.enabled"] = true
		overrides["metrics.textfile_path"] = metricsFile
	}
	if auditFile != "" {
		overrides["audit.enabled"] = true
		overrides["audit.backend"] = "file"
		overrides["audit.file_path"] = auditFile
	}

	opts := []config.LoaderOption{config.WithOverrides(overrides)}
	if configPath != "" {
		opts = append(opts, config.WithConfigFile(configPath))
	}

	loader := config.NewLoader(opts...)
	cfg, err := loader.Load()
	if err != nil {
		return nil, apperror.Wrap(err, apperror.CodeInvalidArgument, "failed to load config: "+err.Error())
	}

	logger.InitWithConfig(loggerConfig(cfg))
	for _, w := range loader.Warnings() {
		logger.Debug("config", "warning", w)
	}

	a := &app{cfg: cfg}

	// Телеметрия
	if cfg.Tracing.Enabled {
		tp, err := telemetry.Init(ctx, telemetry.Config{
			Enabled:     cfg.Tracing.Enabled,
			Endpoint:    cfg.Tracing.Endpoint,
			ServiceName: cfg.Tracing.ServiceName,
			Version:     cfg.App.Version,
			Environment: cfg.App.Environment,
			SampleRate:  cfg.Tracing.SampleRate,
		})
		if err != nil {
			logger.Log.Warn("Failed to init telemetry", "error", err)
		} else {
			a.closers = append(a.closers, func() error {
				return tp.Shutdown(context.Background())
			})
		}
	}

	journal, err := audit.New(audit.FromConfig(&cfg.Audit))
	if err != nil {
		a.close()
		return nil, apperror.Wrap(err, apperror.CodeInvalidArgument, "failed to open audit journal: "+err.Error())
	}
	audit.SetGlobal(journal)
	a.closers = append(a.closers, func() error {
		audit.SetGlobal(nil)
		return journal.Close()
	})

	a.metrics = metrics.InitMetrics(cfg.Metrics.Namespace, cfg.Metrics.Subsystem)
	a.metrics.SetBuildInfo(version, cfg.App.Environment)

	svc, closeSvc, err := reportsvc.NewService(cfg, a.metrics)
	if err != nil {
		a.close()
		return nil, err
	}
	a.svc = svc
	a.closers = append(a.closers, closeSvc)

	return a, nil
}

// loggerConfig настройки логгера. В production логи всегда json,
// в development всегда text.
func loggerConfig(cfg *config.Config) logger.Config {
	format := cfg.Log.Format
	switch {
	case cfg.IsProduction():
		format = "json"
	case cfg.IsDevelopment():
		format = "text"
	}

	return logger.Config{
		Level:      cfg.Log.Level,
		Format:     format,
		Output:     cfg.Log.Output,
		FilePath:   cfg.Log.FilePath,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	}
}

// close освобождает ресурсы в обратном порядке и сбрасывает метрики
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logger.Log.Warn("Failed to release resource", "error", err)
		}
	}

	if a.cfg.Metrics.Enabled && a.metrics != nil {
		if err := a.metrics.WriteTextfile(a.cfg.Metrics.TextfilePath); err != nil {
			logger.Log.Warn("Failed to write metrics", "error", err)
		}
	}
}
