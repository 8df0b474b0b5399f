// services/report-svc/factory.go
package reportsvc

import (
	"metricsreport/pkg/cache"
	"metricsreport/pkg/config"
	"metricsreport/pkg/logger"
	"metricsreport/pkg/metrics"
	"metricsreport/services/report-svc/internal/generator"
	"metricsreport/services/report-svc/internal/service"
	"metricsreport/services/report-svc/internal/workbook"
)

// ServiceConfigFrom переводит конфигурацию в настройки сервиса
func ServiceConfigFrom(cfg *config.Config) (service.ServiceConfig, error) {
	display, err := generator.ParseFormat(cfg.Report.DisplayFormat)
	if err != nil {
		return service.ServiceConfig{}, err
	}
	export, err := generator.ParseFormat(cfg.Report.ExportFormat)
	if err != nil {
		return service.ServiceConfig{}, err
	}

	return service.ServiceConfig{
		Version:       cfg.App.Version,
		DisplayFormat: display,
		ExportFormat:  export,
		Filename:      cfg.Report.Filename,
		CutoffLayout:  cfg.Report.CutoffLayout,
		Generator: generator.Options{
			Color:       cfg.Report.Color,
			GroupDigits: cfg.Report.GroupDigits,
			SheetName:   cfg.Report.SheetName,
			PDF: generator.PDFOptions{
				PageSize:    cfg.Report.PDF.PageSize,
				MarginLeft:  cfg.Report.PDF.MarginLeft,
				MarginRight: cfg.Report.PDF.MarginRight,
				MarginTop:   cfg.Report.PDF.MarginTop,
				FontSize:    cfg.Report.PDF.FontSize,
				PageNumbers: cfg.Report.PDF.EnablePageNumbers,
			},
		},
	}, nil
}

// NewOpener создаёт opener книг. С включённым кэшем разобранные листы
// берутся из него, возвращённый кэш закрывает вызывающий.
func NewOpener(cfg *config.Config, m *metrics.Metrics) (workbook.Opener, cache.Cache, error) {
	excel := workbook.NewExcelOpener()
	if !cfg.Cache.Enabled {
		return excel, nil, nil
	}

	c, err := cache.New(cache.FromConfig(&cfg.Cache))
	if err != nil {
		return nil, nil, err
	}

	logger.Info("Sheet cache enabled", "driver", cfg.Cache.Driver, "ttl", cfg.Cache.DefaultTTL)

	opener := workbook.NewCachedOpener(excel, c,
		workbook.WithTTL(cfg.Cache.DefaultTTL),
		workbook.WithLookupHook(func(hit bool) {
			if m != nil {
				m.RecordCacheLookup(hit)
			}
		}),
	)
	return opener, c, nil
}

// NewService собирает сервис из конфигурации. Второе значение освобождает кэш.
func NewService(cfg *config.Config, m *metrics.Metrics) (*service.ReportService, func() error, error) {
	svcConfig, err := ServiceConfigFrom(cfg)
	if err != nil {
		return nil, nil, err
	}

	opener, c, err := NewOpener(cfg, m)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() error { return nil }
	if c != nil {
		cleanup = c.Close
	}

	return service.NewReportService(svcConfig, opener, m), cleanup, nil
}
