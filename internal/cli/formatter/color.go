package formatter

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/tempus/internal/timer"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// DisableColors swaps every style for an unstyled one. Called when stdout
// is not a terminal.
func DisableColors() {
	plain := lipgloss.NewStyle()
	StyleGreen = plain
	StyleYellow = plain
	StyleRed = plain
	StyleBlue = plain
	StyleDim = plain
	StyleHeader = plain
	StyleBold = plain
}

// StateIndicator returns a colored indicator string for the timer state.
func StateIndicator(state timer.State) string {
	switch state {
	case timer.StateRunning:
		return StyleGreen.Render("● RUNNING")
	case timer.StatePaused:
		return StyleYellow.Render("● PAUSED")
	default:
		return StyleDim.Render("○ IDLE")
	}
}
