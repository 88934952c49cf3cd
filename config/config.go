package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the converter
type Config struct {
	Logging  LoggingConfig
	Download DownloadConfig
	Branded  BrandedConfig
	Survey   SurveyConfig
	Legacy   LegacyConfig
}

// LoggingConfig holds logger configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "console" or "json"
}

// DownloadConfig holds optional dataset download settings. Disabled by
// default: conversions normally run against already-extracted files.
type DownloadConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	URL       string        `mapstructure:"url"`
	TargetDir string        `mapstructure:"target_dir"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// BrandedConfig locates the Branded Foods CSV extract and its artifact
type BrandedConfig struct {
	DataDir string `mapstructure:"data_dir"`
	Output  string `mapstructure:"output"`
}

// SurveyConfig locates the FNDDS survey JSON and its artifact
type SurveyConfig struct {
	Input  string `mapstructure:"input"`
	Output string `mapstructure:"output"`
}

// LegacyConfig locates the SR Legacy CSV extract and its artifact
type LegacyConfig struct {
	DataDir string `mapstructure:"data_dir"`
	Output  string `mapstructure:"output"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/fdcstore/")

	v.SetEnvPrefix("FDCSTORE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults are enough
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("download.enabled", false)
	v.SetDefault("download.target_dir", "data")
	v.SetDefault("download.timeout", "10m")

	v.SetDefault("branded.data_dir", ".")
	v.SetDefault("branded.output", "dist/branded.sqlite")

	v.SetDefault("survey.input", "surveyDownload.json")
	v.SetDefault("survey.output", "dist/fndds.sqlite")

	v.SetDefault("legacy.data_dir", ".")
	v.SetDefault("legacy.output", "dist/legacy.sqlite")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Logging.Format != "console" && config.Logging.Format != "json" {
		return fmt.Errorf("logging format must be 'console' or 'json', got: %s", config.Logging.Format)
	}

	for name, output := range map[string]string{
		"branded": config.Branded.Output,
		"survey":  config.Survey.Output,
		"legacy":  config.Legacy.Output,
	} {
		if output == "" {
			return fmt.Errorf("%s output path must not be empty", name)
		}
	}

	if config.Download.Enabled && config.Download.URL == "" {
		return fmt.Errorf("download URL is required when download is enabled (set FDCSTORE_DOWNLOAD_URL)")
	}

	return nil
}
