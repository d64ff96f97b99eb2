package api

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/HikeSafe-Project/mobile/internal/common"
)

// DefaultBaseURL is the HikeSafe API root used when none is configured.
const DefaultBaseURL = "https://dev-haven.mahesvara.me/api/v1/"

// DefaultTimeout bounds a single request.
const DefaultTimeout = 30 * time.Second

// Config holds the client settings.
type Config struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// DefaultConfig returns a config pointing at the public API.
func DefaultConfig() Config {
	return Config{
		BaseURL: DefaultBaseURL,
		Timeout: DefaultTimeout,
	}
}

// Validate checks the config and fills in defaults.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		c.BaseURL = DefaultBaseURL
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w: api.base_url %q must be an http(s) URL", common.ErrInvalidConfig, c.BaseURL)
	}
	if !strings.HasSuffix(c.BaseURL, "/") {
		c.BaseURL += "/"
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: api.timeout must not be negative", common.ErrInvalidConfig)
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = "hikesafe-cli"
	}
	return nil
}
