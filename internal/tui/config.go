package tui

import (
	"context"
	"time"

	"github.com/HikeSafe-Project/mobile/internal/aggregate"
	"github.com/HikeSafe-Project/mobile/internal/model"
	"github.com/HikeSafe-Project/mobile/internal/session"
	"github.com/HikeSafe-Project/mobile/internal/tui/themes"
)

// Source is what the screens fetch from. *session.Session implements it.
type Source interface {
	Transactions(ctx context.Context, q aggregate.Query) ([]model.Transaction, error)
	LoadDashboard(ctx context.Context) (session.Dashboard, error)
}

// Config holds TUI configuration.
type Config struct {
	Theme        themes.Theme
	Source       Source
	FetchTimeout time.Duration
	Width        int
	Height       int
	StartTab     Tab
	AltScreen    bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:        themes.Default,
		FetchTimeout: 30 * time.Second,
		Width:        80,
		Height:       24,
		StartTab:     TabTransactions,
		AltScreen:    true,
	}
}

// WithSource sets where the screens fetch from.
func WithSource(source Source) Option {
	return func(c *Config) {
		c.Source = source
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithFetchTimeout bounds each background fetch.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.FetchTimeout = d
		}
	}
}

// WithStartTab selects the tab shown first.
func WithStartTab(tab Tab) Option {
	return func(c *Config) {
		c.StartTab = tab
	}
}

// WithAltScreen toggles the alternate screen buffer.
func WithAltScreen(enabled bool) Option {
	return func(c *Config) {
		c.AltScreen = enabled
	}
}
