package tui

import (
	"os"
	"strconv"
	"strings"

	"schoolhub/internal/alerts"

	"github.com/charmbracelet/lipgloss"
)

// School palette.
var (
	Navy  = lipgloss.Color("#0B2545")
	Gold  = lipgloss.Color("#F2A900")
	Paper = lipgloss.Color("#F4F5F6")
	Ink   = lipgloss.Color("#101F38")
	Slate = lipgloss.Color("#8D99AE")
	Night = lipgloss.Color("#141D2B")
	Chalk = lipgloss.Color("#F2F2F2")

	Critical = lipgloss.Color("#E53935")
	Warning  = lipgloss.Color("#FFC107")
	Info     = lipgloss.Color("#2196F3")
)

// Theme holds the current color scheme.
type Theme struct {
	Background lipgloss.Color
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	IsDark     bool
}

func LightTheme() Theme {
	return Theme{Background: Paper, Foreground: Ink, Primary: Navy, Accent: Gold, Muted: Slate}
}

func DarkTheme() Theme {
	return Theme{Background: Night, Foreground: Chalk, Primary: Gold, Accent: Navy, Muted: Slate, IsDark: true}
}

// DetectTheme picks dark mode from COLORFGBG or HUB_DARK_MODE=1.
func DetectTheme() Theme {
	if parts := strings.Split(os.Getenv("COLORFGBG"), ";"); len(parts) == 2 {
		if bg, err := strconv.Atoi(parts[1]); err == nil && ((bg >= 0 && bg <= 6) || bg == 8) {
			return DarkTheme()
		}
	}
	if os.Getenv("HUB_DARK_MODE") == "1" {
		return DarkTheme()
	}
	return LightTheme()
}

// Styles holds the styled components of the shell.
type Styles struct {
	Theme Theme

	Header    lipgloss.Style
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Footer    lipgloss.Style
	Content   lipgloss.Style

	Title  lipgloss.Style
	Muted  lipgloss.Style
	Bold   lipgloss.Style
	Error  lipgloss.Style
	Prompt lipgloss.Style

	Banner lipgloss.Style
	Card   lipgloss.Style
	Badge  lipgloss.Style

	UserTurn  lipgloss.Style
	ModelTurn lipgloss.Style
}

func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Header: lipgloss.NewStyle().
			Background(theme.Primary).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 2).
			Bold(true),
		Tab: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 2),
		ActiveTab: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			Underline(true).
			Padding(0, 2),
		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 2),
		Content: lipgloss.NewStyle().
			Padding(1, 2),

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true).
			MarginBottom(1),
		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),
		Bold: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),
		Error: lipgloss.NewStyle().
			Foreground(Critical).
			Bold(true),
		Prompt: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),

		Banner: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Background(Critical).
			Padding(0, 1).
			Bold(true),
		Card: lipgloss.NewStyle().
			Padding(0, 1).
			MarginBottom(1).
			BorderLeft(true).
			BorderStyle(lipgloss.ThickBorder()),
		Badge: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 1).
			Bold(true),

		UserTurn: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),
		ModelTurn: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			PaddingLeft(2).
			BorderLeft(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(theme.Accent),
	}
}

func DefaultStyles() Styles {
	return NewStyles(DetectTheme())
}

// SeverityColor maps a severity to its accent color.
func SeverityColor(s alerts.Severity) lipgloss.Color {
	switch s {
	case alerts.SeverityCritical:
		return Critical
	case alerts.SeverityWarning:
		return Warning
	default:
		return Info
	}
}

// AlertCard renders one alert for the list view.
func (s Styles) AlertCard(a alerts.Alert, width int) string {
	color := SeverityColor(a.Severity)
	badge := s.Badge.Background(color).Render(string(a.Severity))
	head := badge + " " + s.Bold.Render(a.Title)
	body := a.Message
	if a.Date != "" {
		body += "\n" + s.Muted.Render(a.Date)
	}
	card := s.Card.BorderForeground(color)
	if width > 4 {
		card = card.Width(width - 4)
	}
	return card.Render(head + "\n" + body)
}
