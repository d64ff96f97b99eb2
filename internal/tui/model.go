package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/HikeSafe-Project/mobile/internal/common"
	"github.com/HikeSafe-Project/mobile/internal/tui/components"
	"github.com/HikeSafe-Project/mobile/internal/tui/themes"
)

// Model holds the main TUI state.
type Model struct {
	ctx          context.Context
	lastError    error
	fetches      *fetches
	theme        themes.Theme
	config       Config
	keymap       KeyMap
	help         help.Model
	status       string
	transactions components.TransactionsModel
	tracking     components.TrackingModel
	profile      components.ProfileModel
	width        int
	height       int
	tab          Tab
	showHelp     bool
	quitting     bool
}

// newModel creates a new model with the given configuration. ctx bounds
// every fetch the model starts.
func newModel(ctx context.Context, cfg Config) Model {
	m := Model{
		ctx:          ctx,
		fetches:      newFetches(),
		theme:        cfg.Theme,
		config:       cfg,
		keymap:       DefaultKeyMap(),
		help:         help.New(),
		transactions: components.NewTransactions(cfg.Theme),
		tracking:     components.NewTracking(cfg.Theme),
		profile:      components.NewProfile(cfg.Theme),
		tab:          cfg.StartTab,
		width:        cfg.Width,
		height:       cfg.Height,
	}
	m.handleResize()
	return m
}

// Init starts the first fetch of every tab.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadTransactions(), m.loadDashboard())
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.handleResize()
		return m, nil

	case transactionsLoadedMsg:
		if !m.fetches.finish(fetchTransactions, msg.seq) {
			return m, nil
		}
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.transactions.SetTransactions(msg.transactions)
		m.tracking.SetTransactions(msg.transactions)
		m.clearError()
		return m, nil

	case dashboardLoadedMsg:
		if !m.fetches.finish(fetchDashboard, msg.seq) {
			return m, nil
		}
		if msg.err != nil {
			m.setError(msg.err)
			return m, nil
		}
		m.profile.SetDashboard(msg.dash)
		m.clearError()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// A focused date input owns the keyboard.
	if m.tab == TabTransactions && m.transactions.Editing() {
		var cmd tea.Cmd
		m.transactions, cmd = m.transactions.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		m.fetches.cancelAll()
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		return m, nil

	case key.Matches(msg, m.keymap.NextTab):
		m.tab = (m.tab + 1) % Tab(len(tabNames))
		return m, nil

	case key.Matches(msg, m.keymap.PrevTab):
		m.tab = (m.tab + Tab(len(tabNames)) - 1) % Tab(len(tabNames))
		return m, nil

	case key.Matches(msg, m.keymap.Refresh):
		m.status = "Refreshing " + m.tab.String() + "..."
		return m, m.refresh(m.tab)
	}

	var cmd tea.Cmd
	switch m.tab {
	case TabTransactions:
		m.transactions, cmd = m.transactions.Update(msg)
	case TabTracking:
		m.tracking, cmd = m.tracking.Update(msg)
	}
	return m, cmd
}

// handleResize adjusts component sizes when terminal resizes.
func (m *Model) handleResize() {
	bodyHeight := m.height - 6
	m.transactions.Resize(m.width, bodyHeight)
	m.tracking.Resize(m.width, bodyHeight)
	m.help.Width = m.width
}

func (m *Model) setError(err error) {
	// A fetch cut short by quitting is not worth reporting.
	if errors.Is(err, context.Canceled) && m.ctx.Err() != nil {
		return
	}
	m.lastError = err
	m.status = ""
	common.ComponentLogger("tui").Warn("Fetch failed", "error", err, "kind", common.Classify(err))
}

func (m *Model) clearError() {
	m.lastError = nil
	m.status = ""
}

// Err returns the error shown on the status line, if any.
func (m Model) Err() error {
	return m.lastError
}

// ActiveTab returns the tab on screen.
func (m Model) ActiveTab() Tab {
	return m.tab
}
