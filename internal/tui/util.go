package tui

import (
	"fmt"
	"strings"
)

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// progressBar renders pct (0-100) as a bar of width cells.
func progressBar(pct float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := clamp(int(pct/100*float64(width)+0.5), 0, width)
	return barStyle.Render(strings.Repeat("█", filled)) +
		dimStyle.Render(strings.Repeat("░", width-filled)) +
		fmt.Sprintf(" %5.1f%%", pct)
}
