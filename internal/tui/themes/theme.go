// Package themes holds the colour palette and styles of the full screen UI.
package themes

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/HikeSafe-Project/mobile/internal/model"
)

// Theme defines the visual style for the TUI.
type Theme struct {
	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	Normal      lipgloss.Style
	Bold        lipgloss.Style
	Muted       lipgloss.Style
	Selected    lipgloss.Style
	ActiveTab   lipgloss.Style
	InactiveTab lipgloss.Style
	RoundedBox  lipgloss.Style
	Input       lipgloss.Style
	StatusError lipgloss.Style
	StatusInfo  lipgloss.Style
	Badge       lipgloss.Style

	Primary lipgloss.Color
	Border  lipgloss.Color
	Error   lipgloss.Color
	Success lipgloss.Color
}

// Default is the default theme.
var Default = Theme{
	Primary: lipgloss.Color("#2E7D32"),
	Border:  lipgloss.Color("#404040"),
	Error:   lipgloss.Color("#f44336"),
	Success: lipgloss.Color("#4CAF50"),

	Title: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fafafa")).
		MarginBottom(1),
	Subtitle: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a3a3a3")),
	Normal: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#fafafa")),
	Bold: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fafafa")),
	Muted: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#737373")),
	Selected: lipgloss.NewStyle().
		Background(lipgloss.Color("#2E7D32")).
		Foreground(lipgloss.Color("#fafafa")).
		Bold(true),
	ActiveTab: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fafafa")).
		Background(lipgloss.Color("#2E7D32")).
		Padding(0, 2),
	InactiveTab: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#a3a3a3")).
		Padding(0, 2),
	RoundedBox: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#404040")).
		Padding(0, 1),
	Input: lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#404040")).
		Padding(0, 1),
	StatusError: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#f44336")).
		Bold(true),
	StatusInfo: lipgloss.NewStyle().
		Foreground(lipgloss.Color("#2196F3")),
	Badge: lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#FFFFFF")).
		Padding(0, 1),
}

// Status renders a transaction status on its badge colour.
func (t Theme) Status(s model.TransactionStatus) string {
	return t.Badge.Background(lipgloss.Color(s.Color())).Render(string(s))
}
