package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/HikeSafe-Project/mobile/internal/api"
	"github.com/HikeSafe-Project/mobile/internal/common"
	"github.com/HikeSafe-Project/mobile/internal/sheets"
)

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("HIKESAFE_TEST_DIR", "/tmp/hikesafe")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "tilde", in: "~", want: home},
		{name: "tilde prefix", in: "~/data/db.sqlite", want: filepath.Join(home, "data/db.sqlite")},
		{name: "env var", in: "$HIKESAFE_TEST_DIR/db", want: "/tmp/hikesafe/db"},
		{name: "plain", in: "/var/lib/hikesafe.db", want: "/var/lib/hikesafe.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.in))
		})
	}
}

func TestLoadAPIConfig(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := LoadAPIConfig(v)
	require.NoError(t, err)
	assert.Equal(t, api.DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, api.DefaultTimeout, cfg.Timeout)

	v.Set(KeyAPIBaseURL, "http://localhost:3000/api/v1")
	v.Set(KeyAPITimeout, "5s")
	cfg, err = LoadAPIConfig(v)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000/api/v1/", cfg.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Timeout)

	v.Set(KeyAPIBaseURL, "not a url")
	_, err = LoadAPIConfig(v)
	assert.True(t, errors.Is(err, common.ErrInvalidConfig))
}

func TestStoragePath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	v := viper.New()
	assert.Equal(t, filepath.Join(home, ".local/share/hikesafe/hikesafe.db"), StoragePath(v))

	v.Set(KeyStoragePath, "~/custom.db")
	assert.Equal(t, filepath.Join(home, "custom.db"), StoragePath(v))
}

func TestLoadSheetsConfig(t *testing.T) {
	for _, key := range []string{
		"GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH",
		"GOOGLE_SHEETS_CLIENT_ID",
		"GOOGLE_SHEETS_CLIENT_SECRET",
		"GOOGLE_SHEETS_REFRESH_TOKEN",
		"GOOGLE_SHEETS_SPREADSHEET_ID",
	} {
		t.Setenv(key, "")
	}

	t.Run("missing auth", func(t *testing.T) {
		v := viper.New()
		v.Set("sheets.token_file", filepath.Join(t.TempDir(), "none.json"))
		_, err := LoadSheetsConfig(v)
		assert.True(t, errors.Is(err, common.ErrMissingConfig))
	})

	t.Run("service account from viper", func(t *testing.T) {
		v := viper.New()
		v.Set("sheets.service_account_path", "/keys/sa.json")
		v.Set("sheets.spreadsheet_name", "Trips")
		cfg, err := LoadSheetsConfig(v)
		require.NoError(t, err)
		assert.Equal(t, "/keys/sa.json", cfg.ServiceAccountPath)
		assert.Equal(t, "Trips", cfg.SpreadsheetName)
	})

	t.Run("oauth from env", func(t *testing.T) {
		t.Setenv("GOOGLE_SHEETS_CLIENT_ID", "id")
		t.Setenv("GOOGLE_SHEETS_CLIENT_SECRET", "secret")
		t.Setenv("GOOGLE_SHEETS_REFRESH_TOKEN", "refresh")
		cfg, err := LoadSheetsConfig(viper.New())
		require.NoError(t, err)
		assert.True(t, cfg.HasOAuth())
		assert.Equal(t, sheets.DefaultSpreadsheetName, cfg.SpreadsheetName)
	})

	t.Run("refresh token from saved token file", func(t *testing.T) {
		tokenFile := filepath.Join(t.TempDir(), "token.json")
		require.NoError(t, sheets.SaveToken(tokenFile, &oauth2.Token{RefreshToken: "saved"}))

		v := viper.New()
		v.Set("sheets.client_id", "id")
		v.Set("sheets.client_secret", "secret")
		v.Set("sheets.token_file", tokenFile)
		cfg, err := LoadSheetsConfig(v)
		require.NoError(t, err)
		assert.Equal(t, "saved", cfg.RefreshToken)
	})
}

func TestRead(t *testing.T) {
	t.Run("explicit file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "hikesafe.yaml")
		require.NoError(t, os.WriteFile(path, []byte("api:\n  base_url: https://staging.hikesafe.test\nlogging:\n  level: debug\n"), 0o600))

		v := viper.New()
		require.NoError(t, Read(v, path))
		assert.Equal(t, "https://staging.hikesafe.test", v.GetString(KeyAPIBaseURL))
		assert.Equal(t, "debug", v.GetString(KeyLogLevel))
		assert.Equal(t, "console", v.GetString(KeyLogFormat))
	})

	t.Run("env overrides defaults", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		t.Setenv("HIKESAFE_LOGGING_FORMAT", "json")

		v := viper.New()
		require.NoError(t, Read(v, ""))
		assert.Equal(t, "json", v.GetString(KeyLogFormat))
		assert.Equal(t, "warn", v.GetString(KeyLogLevel))
	})

	t.Run("unreadable file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.yaml")
		require.NoError(t, os.WriteFile(path, []byte("api: [unclosed\n"), 0o600))
		assert.Error(t, Read(viper.New(), path))
	})
}
