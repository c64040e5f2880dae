// Package config resolves application settings from defaults, an optional
// YAML file, and FITTRACK_* environment variables, in increasing
// precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	// DataDir holds the database, the preferences file, and the log file.
	DataDir         string `mapstructure:"data_dir"`
	DatabaseFile    string `mapstructure:"database_file"`
	PreferencesFile string `mapstructure:"preferences_file"`
	LogLevel        string `mapstructure:"log_level"`
}

func defaultDataDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ".fittrack"
	}
	return filepath.Join(base, "fittrack")
}

// Load reads configuration. configPath may be empty, in which case only a
// config.yaml inside the data directory is consulted; a missing file is
// not an error, a malformed one is.
func Load(configPath string) (Config, error) {
	v := viper.New()
	v.SetDefault("data_dir", defaultDataDir())
	v.SetDefault("database_file", "fittrack.db")
	v.SetDefault("preferences_file", "preferences.json")
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix("FITTRACK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(v.GetString("data_dir"))
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// Absence of the implicit data-dir config is fine; an explicitly
		// named file must exist and parse.
		if configPath != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.DataDir == "" {
		return errors.New("config: data_dir must not be empty")
	}
	switch c.LogLevel {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled":
		return nil
	default:
		return fmt.Errorf("config: unknown log level %q", c.LogLevel)
	}
}

// DatabasePath is the resolved path of the SQLite database.
func (c Config) DatabasePath() string {
	return filepath.Join(c.DataDir, c.DatabaseFile)
}

// PreferencesPath is the resolved path of the preferences file.
func (c Config) PreferencesPath() string {
	return filepath.Join(c.DataDir, c.PreferencesFile)
}

// LogPath is the resolved path of the application log file.
func (c Config) LogPath() string {
	return filepath.Join(c.DataDir, "fittrack.log")
}
