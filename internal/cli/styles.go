// Package cli provides styled terminal output and line prompts for the
// hikesafe commands.
package cli

import (
	"errors"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/HikeSafe-Project/mobile/internal/common"
	"github.com/HikeSafe-Project/mobile/internal/model"
)

// Trail palette.
const (
	forestGreen = lipgloss.Color("#2E7D32")
	leafGreen   = lipgloss.Color("#4CAF50")
	amber       = lipgloss.Color("#FFC107")
	signalRed   = lipgloss.Color("#F44336")
	skyBlue     = lipgloss.Color("#2196F3")
	stoneGrey   = lipgloss.Color("#666666")
	borderGrey  = lipgloss.Color("#333333")
)

// Icons.
const (
	MountainIcon = "⛰️"
	TicketIcon   = "🎟️"
	PinIcon      = "📍"
	ChartIcon    = "📊"
)

var (
	// SubtleStyle dims secondary text such as hints and empty states.
	SubtleStyle = lipgloss.NewStyle().Foreground(stoneGrey)
	// BoldStyle emphasises labels.
	BoldStyle = lipgloss.NewStyle().Bold(true)

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(forestGreen)
	promptStyle = lipgloss.NewStyle().Bold(true).Foreground(forestGreen)
	boxStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderGrey).
			Padding(1, 2)
	badgeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Padding(0, 1)
)

// tone is a coloured, iconed one-line message.
type tone struct {
	style lipgloss.Style
	icon  string
}

func (t tone) render(msg string) string {
	return t.style.Render(t.icon + " " + msg)
}

var (
	successTone = tone{lipgloss.NewStyle().Foreground(leafGreen), "✓"}
	errorTone   = tone{lipgloss.NewStyle().Foreground(signalRed), "✗"}
	warningTone = tone{lipgloss.NewStyle().Foreground(amber), "⚠️"}
	infoTone    = tone{lipgloss.NewStyle().Foreground(skyBlue), "ℹ️"}
)

// FormatSuccess, FormatError, FormatWarning and FormatInfo prefix msg with
// the matching icon and colour it.
func FormatSuccess(msg string) string { return successTone.render(msg) }

func FormatError(msg string) string { return errorTone.render(msg) }

func FormatWarning(msg string) string { return warningTone.render(msg) }

func FormatInfo(msg string) string { return infoTone.render(msg) }

// FormatTitle renders a section heading followed by a blank line.
func FormatTitle(title string) string {
	return titleStyle.MarginBottom(1).Render(MountainIcon + " " + title)
}

// FormatPrompt renders the label in front of a line prompt.
func FormatPrompt(prompt string) string {
	return promptStyle.Render(prompt + " → ")
}

// StatusBadge renders a status on its badge colour.
func StatusBadge(status model.TransactionStatus) string {
	return badgeStyle.
		Background(lipgloss.Color(status.Color())).
		Render(string(status))
}

// RenderBox draws a rounded box with title above content.
func RenderBox(title, content string) string {
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render(title), content))
}

// RenderError turns err into the text shown to the user. Validation
// failures list one line per field so each input's message is visible.
func RenderError(err error) string {
	if err == nil {
		return ""
	}

	var validationErr *common.ValidationError
	if errors.As(err, &validationErr) && len(validationErr.Fields) > 0 {
		names := make([]string, 0, len(validationErr.Fields))
		for name := range validationErr.Fields {
			names = append(names, name)
		}
		sort.Strings(names)

		lines := make([]string, 0, len(names)+1)
		lines = append(lines, FormatError("Please fix the following:"))
		for _, name := range names {
			lines = append(lines, "  "+BoldStyle.Render(name)+": "+validationErr.Fields[name])
		}
		return strings.Join(lines, "\n")
	}

	msg := common.UserMessage(err)
	if common.Classify(err) == common.KindUnauthenticated {
		msg += " Run: hikesafe login"
	}
	return FormatError(msg)
}
