// Package output provides styled terminal rendering for companionctl.
package output

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	ColorPrimary = lipgloss.Color("#7e57c2")
	ColorSuccess = lipgloss.Color("#66bb6a")
	ColorWarning = lipgloss.Color("#ffca28")
	ColorMuted   = lipgloss.Color("#888888")
)

var (
	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true)

	StyleSuccess = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	StyleWarning = lipgloss.NewStyle().
			Foreground(ColorWarning)

	StyleMuted = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// StyleLabel pads metric labels into a column.
	StyleLabel = lipgloss.NewStyle().
			Width(18)

	StyleValue = lipgloss.NewStyle().
			Bold(true)
)

var noColor bool

// SetNoColor swaps every style for an unstyled one. There is no way back;
// it is meant to be called once at startup.
func SetNoColor(disabled bool) {
	noColor = disabled
	if disabled {
		plain := lipgloss.NewStyle()
		StyleHeader = plain
		StyleSuccess = plain
		StyleWarning = plain
		StyleMuted = plain
		StyleLabel = plain.Width(18)
		StyleValue = plain
	}
}

func IsNoColor() bool {
	return noColor
}

// IsTerminal reports whether f is attached to a terminal (including Cygwin/MSYS ptys).
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
