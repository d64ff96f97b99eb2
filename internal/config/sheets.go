package config

import (
	"os"

	"github.com/spf13/viper"

	"github.com/HikeSafe-Project/mobile/internal/sheets"
)

// sheetsSource binds one sheets.Config field to its viper key and its
// GOOGLE_SHEETS_* fallback.
type sheetsSource struct {
	field  func(*sheets.Config) *string
	key    string
	env    string
	isPath bool
}

var sheetsSources = []sheetsSource{
	{key: "sheets.service_account_path", env: "GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH", isPath: true,
		field: func(c *sheets.Config) *string { return &c.ServiceAccountPath }},
	{key: "sheets.client_id", env: "GOOGLE_SHEETS_CLIENT_ID",
		field: func(c *sheets.Config) *string { return &c.ClientID }},
	{key: "sheets.client_secret", env: "GOOGLE_SHEETS_CLIENT_SECRET",
		field: func(c *sheets.Config) *string { return &c.ClientSecret }},
	{key: "sheets.refresh_token", env: "GOOGLE_SHEETS_REFRESH_TOKEN",
		field: func(c *sheets.Config) *string { return &c.RefreshToken }},
	{key: "sheets.spreadsheet_id", env: "GOOGLE_SHEETS_SPREADSHEET_ID",
		field: func(c *sheets.Config) *string { return &c.SpreadsheetID }},
	{key: "sheets.spreadsheet_name",
		field: func(c *sheets.Config) *string { return &c.SpreadsheetName }},
	{key: "sheets.token_file", isPath: true,
		field: func(c *sheets.Config) *string { return &c.TokenFile }},
}

// LoadSheetsConfig builds the exporter config. Each setting comes from
// viper (config file or HIKESAFE_SHEETS_* env), then the matching
// GOOGLE_SHEETS_* variable, then the default.
func LoadSheetsConfig(v *viper.Viper) (*sheets.Config, error) {
	cfg := sheets.DefaultConfig()

	for _, src := range sheetsSources {
		val := v.GetString(src.key)
		if val == "" && src.env != "" {
			val = os.Getenv(src.env)
		}
		if val == "" {
			continue
		}
		if src.isPath {
			val = ExpandPath(val)
		}
		*src.field(&cfg) = val
	}

	// A refresh token saved by `hikesafe export auth` stands in for one in
	// the config.
	if cfg.RefreshToken == "" && cfg.ServiceAccountPath == "" && cfg.TokenFile != "" {
		if token, err := sheets.LoadToken(cfg.TokenFile); err == nil {
			cfg.RefreshToken = token.RefreshToken
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
