package settings

import (
	"raiden-channel-tui/config"
	"raiden-channel-tui/styles"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Nav returns the navigation bar for settings view
func Nav(width int, adding bool) string {
	var left string
	if adding {
		left = strings.Join([]string{
			styles.Key("Enter") + " save",
			styles.Key("Esc") + " cancel",
		}, "   ")
	} else {
		left = strings.Join([]string{
			styles.Key("↑/↓") + " select",
			styles.Key("Enter") + " activate",
			styles.Key("a") + " add",
			styles.Key("h") + " home",
			styles.Key("l") + " debug log",
			styles.Key("Esc") + " back",
		}, "   ")
	}

	return styles.NavStyle.Width(width).Render(left)
}

// Render renders the RPC settings view. status describes the active endpoint.
func Render(rpcURLs []config.RPCUrl, selectedIdx int, status string) string {
	h := styles.TitleStyle.Render("RPC Settings")
	lines := []string{h, styles.MutedStyle.Render("Token metadata is read from the active endpoint: " + status), ""}

	if len(rpcURLs) == 0 {
		lines = append(lines, styles.MutedStyle.Render("No RPC URLs configured. Tokens come from the config file only."))
		lines = append(lines, "")
		lines = append(lines, styles.MutedStyle.Render("Press ")+styles.Key("a")+styles.MutedStyle.Render(" to add your first RPC URL."))
		return strings.Join(lines, "\n")
	}

	for i, rpc := range rpcURLs {
		var marker string
		if rpc.Active {
			marker = lipgloss.NewStyle().Foreground(styles.CAccent).Render("● ")
		} else {
			marker = styles.MutedStyle.Render("○ ")
		}

		nameStyle := lipgloss.NewStyle().Foreground(styles.CText)
		urlStyle := styles.MutedStyle

		if i == selectedIdx {
			nameStyle = nameStyle.Background(styles.CPanel).Foreground(styles.CAccent2).Bold(true)
			urlStyle = urlStyle.Background(styles.CPanel)
			marker = lipgloss.NewStyle().Foreground(styles.CAccent2).Render("▶ ")
		}

		lines = append(lines, marker+nameStyle.Render(rpc.Name))
		lines = append(lines, "  "+urlStyle.Render(rpc.URL))
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}
