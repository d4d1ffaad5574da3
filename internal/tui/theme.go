package tui

import "github.com/charmbracelet/lipgloss"

// ---------------------------------------------------------------------------
// Catppuccin Mocha palette — true-color hex values
// https://catppuccin.com/palette
// ---------------------------------------------------------------------------

const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorMauve    lipgloss.Color = "#cba6f7"
	colorRed      lipgloss.Color = "#f38ba8"
	colorPeach    lipgloss.Color = "#fab387"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorGreen    lipgloss.Color = "#a6e3a1"
	colorTeal     lipgloss.Color = "#94e2d5"
	colorBlue     lipgloss.Color = "#89b4fa"
	colorLavender lipgloss.Color = "#b4befe"

	colorText     lipgloss.Color = "#cdd6f4"
	colorSubtext0 lipgloss.Color = "#a6adc8"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorSurface1 lipgloss.Color = "#45475a"
	colorSurface0 lipgloss.Color = "#313244"
	colorBase     lipgloss.Color = "#1e1e2e"
)

// Semantic color aliases
const (
	colorAccent  = colorPink
	colorFocus   = colorLavender
	colorSuccess = colorGreen
	colorError   = colorRed
	colorWarning = colorYellow
	colorInfo    = colorTeal
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)

	labelStyle      = lipgloss.NewStyle().Foreground(colorSubtext0)
	focusLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(colorFocus)
	valueStyle      = lipgloss.NewStyle().Foreground(colorText)
	dimStyle        = lipgloss.NewStyle().Foreground(colorOverlay1)

	statusOKStyle   = lipgloss.NewStyle().Foreground(colorSuccess)
	statusErrStyle  = lipgloss.NewStyle().Foreground(colorError)
	statusBusyStyle = lipgloss.NewStyle().Foreground(colorWarning)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1).
			Padding(0, 1)

	legendStyle = lipgloss.NewStyle().Foreground(colorOverlay1)
)
