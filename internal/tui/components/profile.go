package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/HikeSafe-Project/mobile/internal/session"
	"github.com/HikeSafe-Project/mobile/internal/tui/themes"
)

// ProfileModel shows the signed-in user and their hiking statistics.
type ProfileModel struct {
	theme  themes.Theme
	dash   session.Dashboard
	loaded bool
}

// NewProfile creates the profile tab.
func NewProfile(theme themes.Theme) ProfileModel {
	return ProfileModel{theme: theme}
}

// SetDashboard replaces the shown data.
func (m *ProfileModel) SetDashboard(dash session.Dashboard) {
	m.dash = dash
	m.loaded = true
}

// View renders the tab.
func (m ProfileModel) View() string {
	if !m.loaded {
		return m.theme.Muted.Render("Loading profile...")
	}

	p := m.dash.Profile
	rows := [][2]string{
		{"Name", p.FullName},
		{"Email", p.Email},
		{"Phone", p.Phone},
		{"Birth date", p.BirthDate},
		{"Gender", p.Gender},
		{"NIK", p.NIK},
		{"Address", p.Address},
	}

	var b strings.Builder
	for _, r := range rows {
		value := r[1]
		if value == "" {
			value = m.theme.Muted.Render("-")
		}
		fmt.Fprintf(&b, "%-11s %s\n", m.theme.Bold.Render(r[0]), value)
	}

	stats := m.dash.Statistics
	statLines := []string{
		fmt.Sprintf("%d hikes", stats.TotalHikes),
		fmt.Sprintf("%d days", stats.TotalDays),
		fmt.Sprintf("%.1f hours", stats.TotalHours),
	}
	if m.dash.StatsErr != nil {
		statLines = append(statLines, m.theme.Muted.Render("Statistics unavailable"))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.theme.RoundedBox.Render(strings.TrimRight(b.String(), "\n")),
		" ",
		m.theme.RoundedBox.Render(strings.Join(statLines, "\n")),
	)
}
