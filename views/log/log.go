package log

import (
	"fmt"
	"raiden-channel-tui/helpers"
	"raiden-channel-tui/styles"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
)

// Height returns the viewport height the log panel uses for a screen height
func Height(screenHeight int) int {
	// header (3 lines), nav (1 line), title + borders (4 lines), margins (2 lines)
	const reservedHeight = 10
	availableHeight := helpers.Max(5, screenHeight-reservedHeight)

	// at most a third of the screen or 15 lines
	return helpers.Min(availableHeight, helpers.Min(screenHeight/3, 15))
}

// Render renders the log panel
func Render(width, height int, vp viewport.Model) string {
	title := lipgloss.NewStyle().
		Foreground(styles.CAccent2).
		Bold(true).
		Render("Log")

	panelHeight := Height(height)
	vp.Height = panelHeight

	border := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.CBorder).
		Padding(0, 1).
		Width(helpers.Max(0, width-2)).
		Height(panelHeight + 2) // +2 for title and spacing

	scrollInfo := ""
	if vp.TotalLineCount() > vp.Height {
		scrollInfo = styles.MutedStyle.Render(fmt.Sprintf(" [%d%%]", int(vp.ScrollPercent()*100)))
	}

	return border.Render(title + scrollInfo + "\n\n" + vp.View())
}
