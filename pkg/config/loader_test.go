package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// noFile - путь, которого гарантированно нет
func noFile(t *testing.T) LoaderOption {
	return WithConfigPaths(filepath.Join(t.TempDir(), "absent.yaml"))
}

func TestLoader_LoadDefaults(t *testing.T) {
	t.Setenv(configEnvVar, "")

	loader := NewLoader(noFile(t))
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.App.Name != "metricsreport" {
		t.Errorf("expected app name 'metricsreport', got %s", cfg.App.Name)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Log.Level)
	}
	if cfg.Report.Filename != "Report_Full_Level.xlsx" {
		t.Errorf("expected filename 'Report_Full_Level.xlsx', got %s", cfg.Report.Filename)
	}
	if cfg.Report.SheetName != "Report" {
		t.Errorf("expected sheet 'Report', got %s", cfg.Report.SheetName)
	}
	if cfg.Report.CutoffLayout != "02 January 2006" {
		t.Errorf("unexpected cutoff layout %s", cfg.Report.CutoffLayout)
	}
	if cfg.Cache.DefaultTTL != 30*time.Minute {
		t.Errorf("expected cache ttl 30m, got %v", cfg.Cache.DefaultTTL)
	}
	if len(loader.Warnings()) != 1 {
		t.Errorf("expected missing file warning, got %v", loader.Warnings())
	}
}

func TestLoader_LoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
app:
  name: monthly-report
  environment: staging
log:
  level: debug
report:
  filename: Monthly.xlsx
  export_format: pdf
  group_digits: true
cache:
  enabled: true
  driver: redis
  default_ttl: 1h
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := NewLoader(WithConfigPaths(configPath)).Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.App.Name != "monthly-report" {
		t.Errorf("expected app name 'monthly-report', got %s", cfg.App.Name)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Log.Level)
	}
	if cfg.Report.Filename != "Monthly.xlsx" {
		t.Errorf("expected filename 'Monthly.xlsx', got %s", cfg.Report.Filename)
	}
	if cfg.Report.ExportFormat != "pdf" {
		t.Errorf("expected export pdf, got %s", cfg.Report.ExportFormat)
	}
	if !cfg.Report.GroupDigits {
		t.Error("expected group_digits true")
	}
	if cfg.Cache.Driver != "redis" || cfg.Cache.DefaultTTL != time.Hour {
		t.Errorf("unexpected cache config %+v", cfg.Cache)
	}
	// незаданное в файле остаётся по умолчанию
	if cfg.Report.SheetName != "Report" {
		t.Errorf("expected default sheet name, got %s", cfg.Report.SheetName)
	}
}

func TestLoader_ExplicitFileMissing(t *testing.T) {
	_, err := NewLoader(WithConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))).Load()
	if err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestLoader_LoadFromEnv(t *testing.T) {
	t.Setenv("METRICSREPORT_APP_NAME", "env-report")
	t.Setenv("METRICSREPORT_REPORT_SHEET_NAME", "Summary")
	t.Setenv("METRICSREPORT_REPORT_GROUP_DIGITS", "true")
	t.Setenv("METRICSREPORT_CACHE_MAX_ENTRIES", "12")

	cfg, err := NewLoader(noFile(t)).Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.App.Name != "env-report" {
		t.Errorf("expected app name 'env-report', got %s", cfg.App.Name)
	}
	if cfg.Report.SheetName != "Summary" {
		t.Errorf("expected sheet 'Summary', got %s", cfg.Report.SheetName)
	}
	if !cfg.Report.GroupDigits {
		t.Error("expected group_digits from env")
	}
	if cfg.Cache.MaxEntries != 12 {
		t.Errorf("expected max entries 12, got %d", cfg.Cache.MaxEntries)
	}
}

func TestLoader_PriorityOrder(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("report:\n  display_format: markdown\n  export_format: pdf\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Setenv("METRICSREPORT_REPORT_DISPLAY_FORMAT", "csv")

	cfg, err := NewLoader(
		WithConfigPaths(configPath),
		WithOverrides(map[string]any{"report.export_format": "none"}),
	).Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Report.DisplayFormat != "csv" {
		t.Errorf("env should override file, got %s", cfg.Report.DisplayFormat)
	}
	if cfg.Report.ExportFormat != "none" {
		t.Errorf("overrides should win, got %s", cfg.Report.ExportFormat)
	}
}

func TestLoader_ValidationFails(t *testing.T) {
	t.Setenv("METRICSREPORT_REPORT_EXPORT_FORMAT", "docx")

	if _, err := NewLoader(noFile(t)).Load(); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestLoader_ConfigEnvVar(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "custom.yaml")
	if err := os.WriteFile(configPath, []byte("app:\n  name: from-env-path\n"), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	t.Setenv(configEnvVar, configPath)

	cfg, err := NewLoader(noFile(t)).Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.App.Name != "from-env-path" {
		t.Errorf("expected app name 'from-env-path', got %s", cfg.App.Name)
	}
}
