package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/estimator/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// NotificationStyle returns the style used for a notification type.
func NotificationStyle(t domain.NotificationType) lipgloss.Style {
	switch t {
	case domain.NotifySuccess:
		return StyleGreen
	case domain.NotifyError:
		return StyleRed
	case domain.NotifyWarning:
		return StyleYellow
	default:
		return StyleBlue
	}
}

// NotificationIcon returns the glyph shown before a notification title.
func NotificationIcon(t domain.NotificationType) string {
	switch t {
	case domain.NotifySuccess:
		return "✔"
	case domain.NotifyError:
		return "✖"
	case domain.NotifyWarning:
		return "▲"
	default:
		return "●"
	}
}

// DirtyBadge renders the saved/unsaved indicator.
func DirtyBadge(s domain.DirtyState) string {
	if s == domain.StateDirty {
		return StyleYellow.Render("● unsaved")
	}
	return StyleGreen.Render("✔ saved")
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
