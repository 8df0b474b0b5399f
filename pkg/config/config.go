// pkg/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config - главная структура конфигурации
type Config struct {
	App     AppConfig     `koanf:"app"`
	Log     LogConfig     `koanf:"log"`
	Metrics MetricsConfig `koanf:"metrics"`
	Tracing TracingConfig `koanf:"tracing"`
	Cache   CacheConfig   `koanf:"cache"`
	Audit   AuditConfig   `koanf:"audit"`
	Report  ReportConfig  `koanf:"report"`
}

// AppConfig - общие настройки приложения
type AppConfig struct {
	Name        string `koanf:"name"`
	Version     string `koanf:"version"`
	Environment string `koanf:"environment"` // development, staging, production
	Debug       bool   `koanf:"debug"`
}

// LogConfig - настройки логирования
type LogConfig struct {
	Level      string `koanf:"level"`       // debug, info, warn, error
	Format     string `koanf:"format"`      // json, text
	Output     string `koanf:"output"`      // stdout, stderr, file, discard
	FilePath   string `koanf:"file_path"`   // путь к файлу логов
	MaxSize    int    `koanf:"max_size"`    // MB
	MaxBackups int    `koanf:"max_backups"` // количество бэкапов
	MaxAge     int    `koanf:"max_age"`     // дней
	Compress   bool   `koanf:"compress"`
}

// MetricsConfig - настройки Prometheus метрик.
// CLI не держит HTTP endpoint, метрики сбрасываются в textfile.
type MetricsConfig struct {
	Enabled      bool   `koanf:"enabled"`
	Namespace    string `koanf:"namespace"`
	Subsystem    string `koanf:"subsystem"`
	TextfilePath string `koanf:"textfile_path"`
}

// TracingConfig - настройки OpenTelemetry
type TracingConfig struct {
	Enabled     bool    `koanf:"enabled"`
	Endpoint    string  `koanf:"endpoint"`
	ServiceName string  `koanf:"service_name"`
	SampleRate  float64 `koanf:"sample_rate"`
}

// CacheConfig - настройки кэша разобранных листов
type CacheConfig struct {
	Enabled    bool          `koanf:"enabled"`
	Driver     string        `koanf:"driver"` // redis, memory
	Host       string        `koanf:"host"`
	Port       int           `koanf:"port"`
	Password   string        `koanf:"password"`
	DB         int           `koanf:"db"`
	DefaultTTL time.Duration `koanf:"default_ttl"`
	MaxEntries int           `koanf:"max_entries"` // для in-memory
}

// Address возвращает адрес кэша
func (c CacheConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// AuditConfig - журнал запусков отчёта
type AuditConfig struct {
	Enabled     bool          `koanf:"enabled"`
	Backend     string        `koanf:"backend"`   // file, stdout, stderr
	FilePath    string        `koanf:"file_path"` // jsonl
	BufferSize  int           `koanf:"buffer_size"`
	FlushPeriod time.Duration `koanf:"flush_period"`
}

// ReportConfig конфигурация отчёта
type ReportConfig struct {
	Filename      string `koanf:"filename"`       // имя файла выгрузки
	SheetName     string `koanf:"sheet_name"`     // лист в xlsx
	CutoffLayout  string `koanf:"cutoff_layout"`  // Go layout подписи даты
	DisplayFormat string `koanf:"display_format"` // text, markdown, csv, json, html, none
	ExportFormat  string `koanf:"export_format"`  // xlsx, pdf, none
	Color         bool   `koanf:"color"`          // цвет в терминале
	GroupDigits   bool   `koanf:"group_digits"`   // 1,234 вместо 1234 на экране

	// PDF генерация
	PDF PDFConfig `koanf:"pdf"`
}

// PDFConfig конфигурация PDF генератора
type PDFConfig struct {
	PageSize          string  `koanf:"page_size"`   // A4, Letter, Legal, A3
	MarginLeft        float64 `koanf:"margin_left"` // mm
	MarginRight       float64 `koanf:"margin_right"`
	MarginTop         float64 `koanf:"margin_top"`
	FontSize          float64 `koanf:"font_size"` // pt
	EnablePageNumbers bool    `koanf:"enable_page_numbers"`
}

var (
	validLevels         = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	validDisplayFormats = map[string]bool{"text": true, "markdown": true, "csv": true, "json": true, "html": true, "none": true}
	validExportFormats  = map[string]bool{"xlsx": true, "pdf": true, "none": true}
	validPageSizes      = map[string]bool{"A4": true, "Letter": true, "Legal": true, "A3": true}
	validCacheDrivers   = map[string]bool{"memory": true, "redis": true}
	validAuditBackends  = map[string]bool{"file": true, "stdout": true, "stderr": true}
)

// Validate проверяет конфигурацию
func (c *Config) Validate() error {
	var errs []string

	if c.App.Name == "" {
		errs = append(errs, "app.name is required")
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, fmt.Sprintf("log.level must be one of: debug, info, warn, error, got %s", c.Log.Level))
	}

	if c.Cache.Enabled && !validCacheDrivers[c.Cache.Driver] {
		errs = append(errs, fmt.Sprintf("cache.driver must be one of: memory, redis, got %s", c.Cache.Driver))
	}
	if c.Cache.Enabled && c.Cache.Driver == "redis" && (c.Cache.Port <= 0 || c.Cache.Port > 65535) {
		errs = append(errs, fmt.Sprintf("cache.port must be between 1 and 65535, got %d", c.Cache.Port))
	}

	if c.Audit.Enabled && !validAuditBackends[c.Audit.Backend] {
		errs = append(errs, fmt.Sprintf("audit.backend must be one of: file, stdout, stderr, got %s", c.Audit.Backend))
	}

	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		errs = append(errs, fmt.Sprintf("tracing.sample_rate must be between 0 and 1, got %v", c.Tracing.SampleRate))
	}

	// Валидация Report config
	if c.Report.Filename == "" {
		errs = append(errs, "report.filename is required")
	}
	if c.Report.SheetName == "" {
		errs = append(errs, "report.sheet_name is required")
	}
	if c.Report.CutoffLayout == "" {
		errs = append(errs, "report.cutoff_layout is required")
	}
	if c.Report.DisplayFormat != "" && !validDisplayFormats[c.Report.DisplayFormat] {
		errs = append(errs, fmt.Sprintf("report.display_format must be one of: text, markdown, csv, json, html, none, got %s", c.Report.DisplayFormat))
	}
	if c.Report.ExportFormat != "" && !validExportFormats[c.Report.ExportFormat] {
		errs = append(errs, fmt.Sprintf("report.export_format must be one of: xlsx, pdf, none, got %s", c.Report.ExportFormat))
	}
	if c.Report.PDF.PageSize != "" && !validPageSizes[c.Report.PDF.PageSize] {
		errs = append(errs, fmt.Sprintf("report.pdf.page_size must be one of: A4, Letter, Legal, A3, got %s", c.Report.PDF.PageSize))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	return nil
}

// IsDevelopment проверяет режим разработки
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development" || c.App.Environment == "dev"
}

// IsProduction проверяет продакшн режим
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production" || c.App.Environment == "prod"
}
