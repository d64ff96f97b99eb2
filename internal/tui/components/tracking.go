package components

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/HikeSafe-Project/mobile/internal/model"
	"github.com/HikeSafe-Project/mobile/internal/tracking"
	"github.com/HikeSafe-Project/mobile/internal/tui/themes"
)

// TrackingModel is the group tracking tab. The map itself is out of reach
// of a terminal, so the tab lists the groups, which of them are shown, and
// the markers and viewport a map would draw.
type TrackingModel struct {
	theme      themes.Theme
	visibility *tracking.Visibility
	histories  []tracking.History
	cursor     int
	width      int
	height     int
}

// NewTracking creates the tracking tab.
func NewTracking(theme themes.Theme) TrackingModel {
	return TrackingModel{
		theme:      theme,
		visibility: tracking.NewVisibility(nil),
		width:      80,
		height:     24,
	}
}

// SetTransactions rebuilds the histories from a fresh list. Every group
// starts visible again.
func (m *TrackingModel) SetTransactions(list []model.Transaction) {
	m.histories = tracking.Histories(list)
	m.visibility.Initialize(tracking.IDs(m.histories))
	if m.cursor >= len(m.histories) {
		m.cursor = max(len(m.histories)-1, 0)
	}
}

// Histories returns the groups on the tab.
func (m TrackingModel) Histories() []tracking.History {
	return m.histories
}

// Markers returns the markers of the visible groups.
func (m TrackingModel) Markers() []tracking.Marker {
	return tracking.Markers(m.histories, m.visibility)
}

// Visibility exposes the show/hide flags.
func (m TrackingModel) Visibility() *tracking.Visibility {
	return m.visibility
}

// Region is the viewport focused on the group under the cursor.
func (m TrackingModel) Region() tracking.Region {
	if len(m.histories) == 0 {
		return tracking.DefaultRegion
	}
	return tracking.FocusRegion(m.histories[m.cursor])
}

// Resize adapts the tab to the available space.
func (m *TrackingModel) Resize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages.
func (m TrackingModel) Update(msg tea.Msg) (TrackingModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || len(m.histories) == 0 {
		return m, nil
	}

	switch keyMsg.String() {
	case "j", "down":
		m.cursor = min(m.cursor+1, len(m.histories)-1)
	case "k", "up":
		m.cursor = max(m.cursor-1, 0)
	case " ", "space":
		m.visibility.Toggle(m.histories[m.cursor].ID)
	}
	return m, nil
}

// View renders the tab.
func (m TrackingModel) View() string {
	if len(m.histories) == 0 {
		return m.theme.Muted.Render("No completed hikes to track yet.")
	}

	var list strings.Builder
	for i, h := range m.histories {
		check := "[ ]"
		if m.visibility.IsVisible(h.ID) {
			check = "[x]"
		}
		line := fmt.Sprintf("%s %s  %s", check, h.GroupName, m.theme.Muted.Render(fmt.Sprintf("%d points", len(h.Coordinates))))
		if i == m.cursor {
			line = m.theme.Selected.Render(line)
		}
		list.WriteString(line + "\n")
	}

	region := m.Region()
	summary := []string{
		m.theme.Bold.Render(fmt.Sprintf("%d markers", len(m.Markers()))),
		fmt.Sprintf("Centre %g, %g", region.Center.Latitude, region.Center.Longitude),
		fmt.Sprintf("Span %g°", region.LatitudeDelta),
	}
	if last, ok := m.histories[m.cursor].Last(); ok {
		summary = append(summary, fmt.Sprintf("Last seen %g, %g", last.Latitude, last.Longitude))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		m.theme.RoundedBox.Render(strings.TrimRight(list.String(), "\n")),
		" ",
		m.theme.RoundedBox.Render(strings.Join(summary, "\n")),
	)
}
