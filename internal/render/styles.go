package render

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
)

// Color palette
var (
	ColorSuccess = lipgloss.Color("#00D787") // Green
	ColorError   = lipgloss.Color("#FF5F87") // Pink
	ColorWarning = lipgloss.Color("#FFAF00") // Yellow
	ColorInfo    = lipgloss.Color("#5FAFFF") // Blue
	ColorMuted   = lipgloss.Color("#888888") // Mid gray
	ColorAccent  = lipgloss.Color("#E0245E") // Cardio red
)

// Text styles
var (
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	StyleInfo    = lipgloss.NewStyle().Foreground(ColorInfo)
	StyleMuted   = lipgloss.NewStyle().Foreground(ColorMuted)
	StyleAccent  = lipgloss.NewStyle().Foreground(ColorAccent)
	StyleBold    = lipgloss.NewStyle().Bold(true)
	StyleTitle   = lipgloss.NewStyle().Foreground(ColorInfo).Bold(true)
)

// Speaker badges
var (
	BadgeBot    = lipgloss.NewStyle().Foreground(ColorAccent).Bold(true).SetString("♥ CardioChat")
	BadgeUser   = lipgloss.NewStyle().Foreground(ColorInfo).Bold(true).SetString("Você")
	BadgeResult = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true).SetString("Análise")
	BadgeError  = lipgloss.NewStyle().Foreground(ColorError).Bold(true).SetString("⚠️ Erro")
)

// GetTerminalWidth returns the current terminal width, or a default fallback.
func GetTerminalWidth() int {
	width, _, err := term.GetSize(os.Stdout.Fd())
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(f.Fd())
}

// BoxStyle creates a box style with the given border color and responsive width.
func BoxStyle(borderColor lipgloss.Color) lipgloss.Style {
	width := GetTerminalWidth() - 2
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Width(width)
}

// ResultBox frames a structured analysis.
func ResultBox() lipgloss.Style { return BoxStyle(ColorSuccess) }

// ErrorBox frames an error entry.
func ErrorBox() lipgloss.Style { return BoxStyle(ColorError) }

// SpinnerFrames animate the loading line while a prediction is outstanding.
var SpinnerFrames = []string{"♡", "♥", "❤", "♥"}
