package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/bamsammich/shift/internal/config"
)

// Palette holds the colors of the verbose transfer log.
type Palette struct {
	Source  lipgloss.Color
	Dest    lipgloss.Color
	Success lipgloss.Color
	Failure lipgloss.Color
}

// DefaultPalette uses the basic ANSI colors so the log follows the
// terminal's own theme.
func DefaultPalette() Palette {
	return Palette{
		Source:  lipgloss.Color("4"), // blue
		Dest:    lipgloss.Color("6"), // cyan
		Success: lipgloss.Color("2"), // green
		Failure: lipgloss.Color("1"), // red
	}
}

// WithColors returns p with the colors set in the config file applied.
func (p Palette) WithColors(c config.ColorsConfig) Palette {
	if c.Source != nil {
		p.Source = lipgloss.Color(*c.Source)
	}
	if c.Dest != nil {
		p.Dest = lipgloss.Color(*c.Dest)
	}
	if c.Success != nil {
		p.Success = lipgloss.Color(*c.Success)
	}
	if c.Failure != nil {
		p.Failure = lipgloss.Color(*c.Failure)
	}
	return p
}
