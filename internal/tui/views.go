package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/HikeSafe-Project/mobile/internal/common"
)

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.width < 40 || m.height < 10 {
		return "Terminal too small"
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderTabs(),
		m.renderBody(),
		m.renderStatusLine(),
		m.help.View(m.keymap),
	)
}

func (m Model) renderTabs() string {
	tabs := make([]string, 0, len(tabNames))
	for i, name := range tabNames {
		if Tab(i) == m.tab {
			tabs = append(tabs, m.theme.ActiveTab.Render(name))
		} else {
			tabs = append(tabs, m.theme.InactiveTab.Render(name))
		}
	}
	title := m.theme.Bold.Foreground(m.theme.Primary).Render("⛰️  HikeSafe")
	return lipgloss.JoinHorizontal(lipgloss.Center, title, "  ", strings.Join(tabs, " ")) + "\n"
}

func (m Model) renderBody() string {
	switch m.tab {
	case TabTracking:
		return m.tracking.View()
	case TabProfile:
		return m.profile.View()
	default:
		return m.transactions.View()
	}
}

func (m Model) renderStatusLine() string {
	if m.lastError != nil {
		msg := common.UserMessage(m.lastError)
		if common.Classify(m.lastError) == common.KindUnauthenticated {
			msg += " Run: hikesafe login"
		}
		return m.theme.StatusError.Render("✗ " + msg)
	}

	kind := fetchTransactions
	if m.tab == TabProfile {
		kind = fetchDashboard
	}
	if m.fetches.inFlight(kind) {
		if m.status != "" {
			return m.theme.StatusInfo.Render(m.status)
		}
		return m.theme.StatusInfo.Render("Loading " + kind.String() + "...")
	}
	return ""
}
