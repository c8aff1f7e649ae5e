package tokens

import (
	"fmt"
	"raiden-channel-tui/helpers"
	"raiden-channel-tui/styles"
	"raiden-channel-tui/tokens"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Nav returns the navigation bar for the token list
func Nav(width int, adding bool) string {
	var left string
	if adding {
		left = strings.Join([]string{
			styles.Key("Enter") + " save",
			styles.Key("Esc") + " cancel",
		}, "   ")
	} else {
		left = strings.Join([]string{
			styles.Key("↑/↓") + " move",
			styles.Key("a") + " add",
			styles.Key("o") + " open channel",
			styles.Key("h") + " home",
			styles.Key("l") + " debug log",
			styles.Key("Esc") + " back",
		}, "   ")
	}

	return styles.NavStyle.Width(width).Render(left)
}

// RenderList renders tokens, highlighting selectedIdx. A negative index
// highlights nothing.
func RenderList(list []tokens.Token, selectedIdx int) string {
	if len(list) == 0 {
		return styles.MutedStyle.Render("No connected tokens.")
	}

	var items []string
	for i, t := range list {
		marker := "  "
		symbolStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#e1a2aa"))
		addr := helpers.FadeString(helpers.ShortenAddr(t.Address), "#F25D94", "#EDFF82")

		if i == selectedIdx {
			marker = lipgloss.NewStyle().Foreground(styles.CAccent2).Bold(true).Render("▶ ")
			symbolStyle = lipgloss.NewStyle().Foreground(styles.CAccent2).Bold(true)
			addr = lipgloss.NewStyle().Foreground(styles.CText).Render(t.Address)
		}

		line := marker + symbolStyle.Render(fmt.Sprintf("%-6s", t.Symbol)) + " " +
			lipgloss.NewStyle().Foreground(styles.CText).Render(t.Name) + "  " + addr
		items = append(items, line)
	}
	return strings.Join(items, "\n")
}

// Render renders the token networks page
func Render(list []tokens.Token, selectedIdx int, loaded bool, source string) string {
	header := styles.TitleStyle.Render("Token Networks")
	subtitle := styles.MutedStyle.Render("Connected tokens available for new channels · source: " + source)

	var body string
	if !loaded {
		body = styles.MutedStyle.Render("Waiting for token data…")
	} else {
		body = RenderList(list, selectedIdx)
	}

	statusBar := styles.MutedStyle.Render(fmt.Sprintf("%d connected tokens", len(list)))
	return header + "\n" + subtitle + "\n\n" + body + "\n\n" + statusBar
}

// Summary lists the connected symbols in one line
func Summary(list []tokens.Token) string {
	if len(list) == 0 {
		return "no connected tokens"
	}
	symbols := make([]string, 0, len(list))
	for _, t := range list {
		symbols = append(symbols, t.Label())
	}
	return fmt.Sprintf("%d connected: %s", len(list), strings.Join(symbols, ", "))
}
