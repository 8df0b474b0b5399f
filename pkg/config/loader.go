package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix    = "METRICSREPORT_"
	configEnvVar = "CONFIG_PATH"
)

// Loader загружает конфигурацию из разных источников
type Loader struct {
	k           *koanf.Koanf
	configPaths []string
	explicit    string
	envPrefix   string
	overrides   map[string]any
	warnings    []string
}

// NewLoader создаёт новый загрузчик конфигурации
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		k: koanf.New("."),
		configPaths: []string{
			"config.yaml",
			"config/config.yaml",
			"/etc/metricsreport/config.yaml",
		},
		envPrefix: envPrefix,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// LoaderOption - опция для конфигурации загрузчика
type LoaderOption func(*Loader)

// WithConfigPaths устанавливает пути поиска конфигурации
func WithConfigPaths(paths ...string) LoaderOption {
	return func(l *Loader) {
		l.configPaths = paths
	}
}

// WithConfigFile задаёт файл явно (флаг --config). Отсутствие такого файла - ошибка.
func WithConfigFile(path string) LoaderOption {
	return func(l *Loader) {
		l.explicit = path
	}
}

// WithOverrides накладывает значения поверх env (флаги командной строки)
func WithOverrides(values map[string]any) LoaderOption {
	return func(l *Loader) {
		l.overrides = values
	}
}

// Warnings возвращает некритичные проблемы последней загрузки
func (l *Loader) Warnings() []string {
	return l.warnings
}

// Load загружает конфигурацию с приоритетом:
// 1. Defaults (самый низкий)
// 2. Config file (yaml)
// 3. Environment variables
// 4. Overrides (самый высокий)
func (l *Loader) Load() (*Config, error) {
	if err := l.loadDefaults(); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if err := l.loadConfigFile(); err != nil {
		if l.explicit != "" {
			return nil, err
		}
		// Файл не обязателен
		l.warnings = append(l.warnings, err.Error())
	}

	if err := l.loadEnv(); err != nil {
		return nil, fmt.Errorf("failed to load env: %w", err)
	}

	if len(l.overrides) > 0 {
		if err := l.k.Load(confmap.Provider(l.overrides, "."), nil); err != nil {
			return nil, fmt.Errorf("failed to load overrides: %w", err)
		}
	}

	var cfg Config
	if err := l.k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Defaults возвращает значения по умолчанию в плоском виде
func Defaults() map[string]any {
	return map[string]any{
		// App
		"app.name":        "metricsreport",
		"app.version":     "1.0.0",
		"app.environment": "development",
		"app.debug":       false,

		// Log
		"log.level":       "info",
		"log.format":      "text",
		"log.output":      "stderr",
		"log.max_size":    100,
		"log.max_backups": 3,
		"log.max_age":     7,
		"log.compress":    true,

		// Metrics
		"metrics.enabled":       false,
		"metrics.namespace":     "metricsreport",
		"metrics.subsystem":     "",
		"metrics.textfile_path": "",

		// Tracing
		"tracing.enabled":      false,
		"tracing.endpoint":     "localhost:4317",
		"tracing.service_name": "metricsreport",
		"tracing.sample_rate":  0.1,

		// Cache
		"cache.enabled":     false,
		"cache.driver":      "memory",
		"cache.host":        "localhost",
		"cache.port":        6379,
		"cache.db":          0,
		"cache.default_ttl": 30 * time.Minute,
		"cache.max_entries": 256,

		// Audit
		"audit.enabled":      false,
		"audit.backend":      "file",
		"audit.file_path":    "report-audit.jsonl",
		"audit.buffer_size":  64,
		"audit.flush_period": 5 * time.Second,

		// Report
		"report.filename":       "Report_Full_Level.xlsx",
		"report.sheet_name":     "Report",
		"report.cutoff_layout":  "02 January 2006",
		"report.display_format": "text",
		"report.export_format":  "xlsx",
		"report.color":          true,
		"report.group_digits":   false,

		// Report - PDF
		"report.pdf.page_size":           "A4",
		"report.pdf.margin_left":         10.0,
		"report.pdf.margin_right":        10.0,
		"report.pdf.margin_top":          10.0,
		"report.pdf.font_size":           7.0,
		"report.pdf.enable_page_numbers": true,
	}
}

// loadDefaults загружает значения по умолчанию
func (l *Loader) loadDefaults() error {
	return l.k.Load(confmap.Provider(Defaults(), "."), nil)
}

// loadConfigFile загружает конфигурацию из файла
func (l *Loader) loadConfigFile() error {
	if l.explicit != "" {
		if _, err := os.Stat(l.explicit); err != nil {
			return fmt.Errorf("config file %s: %w", l.explicit, err)
		}
		return l.k.Load(file.Provider(l.explicit), yaml.Parser())
	}

	if configPath := os.Getenv(configEnvVar); configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return l.k.Load(file.Provider(configPath), yaml.Parser())
		}
	}

	for _, path := range l.configPaths {
		absPath, err := filepath.Abs(path)
		if err != nil {
			continue
		}

		if _, err := os.Stat(absPath); err == nil {
			return l.k.Load(file.Provider(absPath), yaml.Parser())
		}
	}

	return fmt.Errorf("config file not found in paths: %v", l.configPaths)
}

// loadEnv загружает конфигурацию из переменных окружения
func (l *Loader) loadEnv() error {
	return l.k.Load(env.ProviderWithValue(l.envPrefix, ".", func(envKey string, value string) (string, interface{}) {
		key := strings.ToLower(strings.TrimPrefix(envKey, l.envPrefix))

		// Маппинг для полей с подчёркиванием в именах
		if mappedKey, ok := envKeyMappings[key]; ok {
			key = mappedKey
		} else {
			key = strings.ReplaceAll(key, "_", ".")
		}

		return key, value
	}), nil)
}

// envKeyMappings - маппинг переменных окружения на ключи конфига
// Необходим для полей, содержащих подчёркивания в именах
var envKeyMappings = map[string]string{
	// Log
	"log_level":       "log.level",
	"log_format":      "log.format",
	"log_output":      "log.output",
	"log_file_path":   "log.file_path",
	"log_max_size":    "log.max_size",
	"log_max_backups": "log.max_backups",
	"log_max_age":     "log.max_age",
	"log_compress":    "log.compress",

	// Metrics
	"metrics_enabled":       "metrics.enabled",
	"metrics_namespace":     "metrics.namespace",
	"metrics_subsystem":     "metrics.subsystem",
	"metrics_textfile_path": "metrics.textfile_path",

	// Tracing
	"tracing_enabled":      "tracing.enabled",
	"tracing_endpoint":     "tracing.endpoint",
	"tracing_service_name": "tracing.service_name",
	"tracing_sample_rate":  "tracing.sample_rate",

	// Cache
	"cache_enabled":     "cache.enabled",
	"cache_driver":      "cache.driver",
	"cache_host":        "cache.host",
	"cache_port":        "cache.port",
	"cache_password":    "cache.password",
	"cache_db":          "cache.db",
	"cache_default_ttl": "cache.default_ttl",
	"cache_max_entries": "cache.max_entries",

	// Audit
	"audit_enabled":      "audit.enabled",
	"audit_backend":      "audit.backend",
	"audit_file_path":    "audit.file_path",
	"audit_buffer_size":  "audit.buffer_size",
	"audit_flush_period": "audit.flush_period",

	// Report
	"report_filename":       "report.filename",
	"report_sheet_name":     "report.sheet_name",
	"report_cutoff_layout":  "report.cutoff_layout",
	"report_display_format": "report.display_format",
	"report_export_format":  "report.export_format",
	"report_color":          "report.color",
	"report_group_digits":   "report.group_digits",

	// Report - PDF
	"report_pdf_page_size":           "report.pdf.page_size",
	"report_pdf_font_size":           "report.pdf.font_size",
	"report_pdf_margin_left":         "report.pdf.margin_left",
	"report_pdf_margin_right":        "report.pdf.margin_right",
	"report_pdf_margin_top":          "report.pdf.margin_top",
	"report_pdf_enable_page_numbers": "report.pdf.enable_page_numbers",
}
