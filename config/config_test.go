package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Clean up environment before tests
	cleanupEnv := func() {
		os.Unsetenv("FDCSTORE_LOGGING_LEVEL")
		os.Unsetenv("FDCSTORE_LOGGING_FORMAT")
		os.Unsetenv("FDCSTORE_DOWNLOAD_ENABLED")
		os.Unsetenv("FDCSTORE_DOWNLOAD_URL")
		os.Unsetenv("FDCSTORE_DOWNLOAD_TARGET_DIR")
		os.Unsetenv("FDCSTORE_BRANDED_DATA_DIR")
		os.Unsetenv("FDCSTORE_BRANDED_OUTPUT")
		os.Unsetenv("FDCSTORE_SURVEY_INPUT")
		os.Unsetenv("FDCSTORE_SURVEY_OUTPUT")
		os.Unsetenv("FDCSTORE_LEGACY_DATA_DIR")
		os.Unsetenv("FDCSTORE_LEGACY_OUTPUT")
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Logging.Level != "info" {
			t.Errorf("Logging.Level = %s, want info", cfg.Logging.Level)
		}
		if cfg.Logging.Format != "console" {
			t.Errorf("Logging.Format = %s, want console", cfg.Logging.Format)
		}
		if cfg.Download.Enabled {
			t.Error("Download.Enabled = true, want false by default")
		}
		if cfg.Download.Timeout != 10*time.Minute {
			t.Errorf("Download.Timeout = %v, want 10m", cfg.Download.Timeout)
		}
		if cfg.Branded.DataDir != "." {
			t.Errorf("Branded.DataDir = %s, want .", cfg.Branded.DataDir)
		}
		if cfg.Branded.Output != "dist/branded.sqlite" {
			t.Errorf("Branded.Output = %s, want dist/branded.sqlite", cfg.Branded.Output)
		}
		if cfg.Survey.Input != "surveyDownload.json" {
			t.Errorf("Survey.Input = %s, want surveyDownload.json", cfg.Survey.Input)
		}
		if cfg.Legacy.Output != "dist/legacy.sqlite" {
			t.Errorf("Legacy.Output = %s, want dist/legacy.sqlite", cfg.Legacy.Output)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("FDCSTORE_LOGGING_LEVEL", "debug")
		os.Setenv("FDCSTORE_LOGGING_FORMAT", "json")
		os.Setenv("FDCSTORE_BRANDED_DATA_DIR", "/data/branded")
		os.Setenv("FDCSTORE_BRANDED_OUTPUT", "/out/branded.sqlite")
		os.Setenv("FDCSTORE_SURVEY_INPUT", "/data/survey.json")
		os.Setenv("FDCSTORE_LEGACY_DATA_DIR", "/data/legacy")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Logging.Level != "debug" {
			t.Errorf("Logging.Level = %s, want debug", cfg.Logging.Level)
		}
		if cfg.Logging.Format != "json" {
			t.Errorf("Logging.Format = %s, want json", cfg.Logging.Format)
		}
		if cfg.Branded.DataDir != "/data/branded" {
			t.Errorf("Branded.DataDir = %s, want /data/branded", cfg.Branded.DataDir)
		}
		if cfg.Branded.Output != "/out/branded.sqlite" {
			t.Errorf("Branded.Output = %s, want /out/branded.sqlite", cfg.Branded.Output)
		}
		if cfg.Survey.Input != "/data/survey.json" {
			t.Errorf("Survey.Input = %s, want /data/survey.json", cfg.Survey.Input)
		}
		if cfg.Legacy.DataDir != "/data/legacy" {
			t.Errorf("Legacy.DataDir = %s, want /data/legacy", cfg.Legacy.DataDir)
		}
	})

	t.Run("fails validation for invalid logging format", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("FDCSTORE_LOGGING_FORMAT", "xml")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for invalid logging format")
		}
	})

	t.Run("fails validation when download enabled without URL", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("FDCSTORE_DOWNLOAD_ENABLED", "true")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for download without URL")
		}
	})
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Logging: LoggingConfig{Level: "info", Format: "console"},
			Branded: BrandedConfig{DataDir: ".", Output: "dist/branded.sqlite"},
			Survey:  SurveyConfig{Input: "surveyDownload.json", Output: "dist/fndds.sqlite"},
			Legacy:  LegacyConfig{DataDir: ".", Output: "dist/legacy.sqlite"},
		}
	}

	t.Run("validates successfully with all required fields", func(t *testing.T) {
		if err := validate(base()); err != nil {
			t.Errorf("validate() error = %v, want nil", err)
		}
	})

	t.Run("fails when an output path is empty", func(t *testing.T) {
		cfg := base()
		cfg.Survey.Output = ""
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for empty output path")
		}
	})

	t.Run("fails for download enabled without URL", func(t *testing.T) {
		cfg := base()
		cfg.Download.Enabled = true
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for download without URL")
		}
	})

	t.Run("validates download with URL", func(t *testing.T) {
		cfg := base()
		cfg.Download.Enabled = true
		cfg.Download.URL = "https://fdc.nal.usda.gov/fdc-datasets/example.zip"
		if err := validate(cfg); err != nil {
			t.Errorf("validate() error = %v, want nil for valid download config", err)
		}
	})
}
