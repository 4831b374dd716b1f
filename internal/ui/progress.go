package ui

import (
	"fmt"
	"strings"
)

const (
	barFilled = "█"
	barEmpty  = "░"
)

// ProgressBar renders percent (0-100) as a bar of width cells followed by the
// percentage.
func ProgressBar(percent, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	if width < 1 {
		width = 1
	}
	filled := (percent*width + 50) / 100
	bar := Done(strings.Repeat(barFilled, filled)) + Muted(strings.Repeat(barEmpty, width-filled))
	return fmt.Sprintf("%s %3d%%", bar, percent)
}
