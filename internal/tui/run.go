// Package tui is the full screen HikeSafe client built on Bubble Tea.
package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/HikeSafe-Project/mobile/internal/common"
)

// Run shows the UI until the user quits or ctx is canceled.
func Run(ctx context.Context, opts ...Option) error {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.Source == nil {
		return fmt.Errorf("%w: tui source", common.ErrMissingConfig)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if cfg.AltScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}

	p := tea.NewProgram(newModel(ctx, cfg), programOpts...)
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
