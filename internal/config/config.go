// Package config loads runtime settings from a .moodo config file and
// MOODO_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config is the resolved runtime configuration.
type Config struct {
	Storage    string // "sqlite" or "file"
	Path       string // database file or storage directory; "" = default
	LogFile    string // debug log destination; "" = default
	Recognizer string // speech-to-text command; "" disables voice entry
	ReportDir  string // where saved reports land
}

// Load reads configuration with viper: defaults, then an optional
// .moodo.yaml (cwd or the user config dir), then MOODO_* env vars.
func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault("storage", "sqlite")
	v.SetDefault("path", "")
	v.SetDefault("log_file", "")
	v.SetDefault("recognizer", "")
	v.SetDefault("report_dir", ".")

	v.SetConfigName(".moodo")
	v.SetConfigType("yaml")
	v.SetEnvPrefix("MOODO")
	v.AutomaticEnv()

	v.AddConfigPath("./")
	if cfgDir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(cfgDir, "moodo"))
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{
		Storage:    v.GetString("storage"),
		Path:       v.GetString("path"),
		LogFile:    v.GetString("log_file"),
		Recognizer: v.GetString("recognizer"),
		ReportDir:  v.GetString("report_dir"),
	}
	if cfg.Storage != "sqlite" && cfg.Storage != "file" {
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}
	return cfg, nil
}

// DefaultLogPath returns ~/.config/moodo/moodo.log.
func DefaultLogPath() (string, error) {
	cfgDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfgDir, "moodo", "moodo.log"), nil
}
