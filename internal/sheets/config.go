// Package sheets exports the hiking history to Google Sheets.
package sheets

import (
	"fmt"
	"time"

	"github.com/HikeSafe-Project/mobile/internal/common"
)

// DefaultSpreadsheetName is used when a new spreadsheet is created.
const DefaultSpreadsheetName = "HikeSafe Hiking History"

// Config holds the configuration for the Google Sheets exporter.
type Config struct {
	ClientID           string
	ClientSecret       string
	RefreshToken       string
	ServiceAccountPath string
	TokenFile          string
	SpreadsheetID      string
	SpreadsheetName    string
	TimeZone           string
	BatchSize          int
	RetryAttempts      int
	RetryDelay         time.Duration
	EnableFormatting   bool
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		EnableFormatting: true,
		SpreadsheetName:  DefaultSpreadsheetName,
		TimeZone:         "Asia/Jakarta",
		BatchSize:        1000,
		RetryAttempts:    3,
		RetryDelay:       time.Second,
	}
}

// HasOAuth reports whether OAuth2 client credentials and a refresh token are
// all present.
func (c *Config) HasOAuth() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	hasServiceAccount := c.ServiceAccountPath != ""

	if !c.HasOAuth() && !hasServiceAccount {
		return fmt.Errorf("%w: no authentication method configured", common.ErrMissingConfig)
	}
	if c.HasOAuth() && hasServiceAccount {
		return fmt.Errorf("%w: multiple authentication methods configured; use either OAuth2 or service account", common.ErrInvalidConfig)
	}

	if c.BatchSize <= 0 {
		return fmt.Errorf("%w: batch size must be positive", common.ErrInvalidConfig)
	}
	if c.RetryAttempts < 0 {
		return fmt.Errorf("%w: retry attempts cannot be negative", common.ErrInvalidConfig)
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("%w: retry delay cannot be negative", common.ErrInvalidConfig)
	}

	return nil
}

// RetryOptions derives the backoff used for Sheets API calls.
func (c *Config) RetryOptions() common.RetryOptions {
	attempts := c.RetryAttempts
	if attempts == 0 {
		attempts = 1
	}
	return common.RetryOptions{
		MaxAttempts:  attempts,
		InitialDelay: c.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
}
