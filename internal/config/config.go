package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/HikeSafe-Project/mobile/internal/api"
)

// Viper keys.
const (
	KeyAPIBaseURL    = "api.base_url"
	KeyAPITimeout    = "api.timeout"
	KeyStoragePath   = "storage.path"
	KeyLogLevel      = "logging.level"
	KeyLogFormat     = "logging.format"
	EnvPrefix        = "HIKESAFE"
	DefaultStorePath = "$HOME/.local/share/hikesafe/hikesafe.db"
)

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyAPIBaseURL, api.DefaultBaseURL)
	v.SetDefault(KeyAPITimeout, api.DefaultTimeout)
	v.SetDefault(KeyStoragePath, DefaultStorePath)
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault("sheets.spreadsheet_name", "")
	v.SetDefault("sheets.token_file", "$HOME/.config/hikesafe/sheets-token.json")
}

// LoadAPIConfig builds and validates the API client config.
func LoadAPIConfig(v *viper.Viper) (api.Config, error) {
	cfg := api.Config{
		BaseURL: v.GetString(KeyAPIBaseURL),
		Timeout: durationOr(v, KeyAPITimeout, api.DefaultTimeout),
	}
	if err := cfg.Validate(); err != nil {
		return api.Config{}, err
	}
	return cfg, nil
}

// StoragePath returns the expanded token database path.
func StoragePath(v *viper.Viper) string {
	path := v.GetString(KeyStoragePath)
	if path == "" {
		path = DefaultStorePath
	}
	return ExpandPath(path)
}

func durationOr(v *viper.Viper, key string, fallback time.Duration) time.Duration {
	if !v.IsSet(key) {
		return fallback
	}
	return v.GetDuration(key)
}

// Read loads file, or config.yaml from ~/.config/hikesafe or the working
// directory when file is empty, on top of the defaults. HIKESAFE_* env
// variables override both. A missing default file is not an error.
func Read(v *viper.Viper, file string) error {
	SetDefaults(v)

	if file != "" {
		v.SetConfigFile(file)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "hikesafe"))
		}
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	err := v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if err != nil && !errors.As(err, &notFound) {
		return fmt.Errorf("failed to read config: %w", err)
	}
	return nil
}
