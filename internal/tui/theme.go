package tui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha, the subset the overlays use.
const (
	colorRed      lipgloss.Color = "#f38ba8"
	colorPeach    lipgloss.Color = "#fab387"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorTeal     lipgloss.Color = "#94e2d5"
	colorLavender lipgloss.Color = "#b4befe"
	colorMauve    lipgloss.Color = "#cba6f7"

	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay0 lipgloss.Color = "#6c7086"
	colorSurface0 lipgloss.Color = "#313244"
	colorBase     lipgloss.Color = "#1e1e2e"
)

const (
	colorSuccess = colorGreen
	colorError   = colorRed
	colorWarning = colorYellow
	colorInfo    = colorTeal
	colorFocus   = colorLavender
)

// accentFor maps an overlay style name to its border color.
func accentFor(style string) lipgloss.Color {
	switch style {
	case "success":
		return colorSuccess
	case "error":
		return colorError
	case "warning":
		return colorWarning
	case "info":
		return colorInfo
	case "iPhoto":
		return colorMauve
	}
	return colorFocus
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorText)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorSubtext0)
	helpStyle   = lipgloss.NewStyle().Foreground(colorOverlay0)

	blockBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			Padding(1, 4).
			Foreground(colorText).
			Background(colorSurface0)
	dialogBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorFocus).
			Padding(0, 2).
			Background(colorBase)
	noticeBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			Padding(0, 1)
	dialogTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPeach)
	buttonStyle      = lipgloss.NewStyle().Foreground(colorBase).Background(colorFocus).Padding(0, 1)
)
