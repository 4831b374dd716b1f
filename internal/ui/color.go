package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// ColorEnabled reports whether stdout should receive ANSI styling.
func ColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func render(style lipgloss.Style, value string) string {
	if value == "" || !ColorEnabled() {
		return value
	}
	return style.Render(value)
}

// Heading styles a section title.
func Heading(value string) string {
	return render(headingStyle, value)
}

// Done styles a completed item.
func Done(value string) string {
	return render(doneStyle, value)
}

// Muted styles secondary information.
func Muted(value string) string {
	return render(mutedStyle, value)
}

// Warn styles a notice the reader should not miss.
func Warn(value string) string {
	return render(warnStyle, value)
}
