package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func renderStatusBar(itemCount int, edition string, width int, searching bool) string {
	left := fmt.Sprintf(" %d items", itemCount)
	if edition != "" {
		left += " · " + edition
	}

	right := " tab switch pane  ←/→ page  / search  o open  q quit "
	if searching {
		right = " esc cancel  enter search "
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + fmt.Sprintf("%*s", gap, "") + right

	return statusBarStyle.Width(width).Render(bar)
}
