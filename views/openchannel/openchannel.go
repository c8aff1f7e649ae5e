package openchannel

import (
	"fmt"
	"raiden-channel-tui/helpers"
	"raiden-channel-tui/styles"
	"raiden-channel-tui/tokens"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// maxSuggestions is how many suggestion rows are shown below the token field
const maxSuggestions = 6

// Field is one rendered input row
type Field struct {
	Label   string
	Input   string
	Hint    string
	Error   string
	Focused bool
}

// Props holds everything the dialog view needs
type Props struct {
	OwnAddress      string
	Fields          []Field
	TokenField      int // index in Fields after which suggestions are shown
	Suggestions     []tokens.Token
	SuggestIdx      int
	ShowSuggestions bool
	Loading         bool
	Valid           bool
	AcceptFocused   bool
	SpinnerView     string
}

// Nav returns the navigation bar for the dialog
func Nav(width int) string {
	left := strings.Join([]string{
		styles.Key("Tab") + " next",
		styles.Key("Shift+Tab") + " prev",
		styles.Key("↑/↓") + " suggestion",
		styles.Key("Enter") + " select/open",
		styles.Key("Ctrl+v") + " paste",
		styles.Key("Esc") + " cancel",
	}, "   ")

	return styles.NavStyle.Width(width).Render(left)
}

// Render renders the open channel dialog centered in width x height
func Render(width, height int, p Props) string {
	title := styles.TitleStyle.Render("Open Channel")
	own := styles.MutedStyle.Render("Your address: " + helpers.ShortenAddr(p.OwnAddress))

	rows := []string{title, own, ""}
	for i, f := range p.Fields {
		label := styles.MutedStyle.Render(f.Label)
		if f.Focused {
			label = styles.SelectedStyle.Render(f.Label)
		}
		rows = append(rows, label, f.Input)
		switch {
		case f.Error != "":
			rows = append(rows, styles.ErrorStyle.Render("  "+f.Error))
		case f.Hint != "":
			rows = append(rows, styles.MutedStyle.Render("  "+f.Hint))
		}
		if i == p.TokenField && p.ShowSuggestions {
			rows = append(rows, renderSuggestions(p))
		}
		rows = append(rows, "")
	}

	button := styles.ButtonStyle.Render("Open")
	switch {
	case !p.Valid:
		button = styles.ButtonStyle.Foreground(styles.CMuted).Render("Open")
	case p.AcceptFocused:
		button = styles.ActiveButtonStyle.Render("Open")
	}
	rows = append(rows, button)

	dialog := styles.DialogStyle.Width(helpers.Min(72, helpers.Max(40, width-4))).
		Render(lipgloss.JoinVertical(lipgloss.Left, rows...))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, dialog)
}

func renderSuggestions(p Props) string {
	if p.Loading {
		return "  " + p.SpinnerView + styles.MutedStyle.Render(" loading tokens…")
	}
	if len(p.Suggestions) == 0 {
		return styles.MutedStyle.Render("  no matching tokens")
	}

	start := 0
	if p.SuggestIdx >= maxSuggestions {
		start = p.SuggestIdx - maxSuggestions + 1
	}
	end := helpers.Min(len(p.Suggestions), start+maxSuggestions)

	var lines []string
	for i := start; i < end; i++ {
		t := p.Suggestions[i]
		line := fmt.Sprintf("%-6s %s  %s", t.Symbol, t.Name, helpers.ShortenAddr(t.Address))
		if i == p.SuggestIdx {
			lines = append(lines, styles.SelectedStyle.Render("▸ "+line))
		} else {
			lines = append(lines, lipgloss.NewStyle().Foreground(styles.CText).Render("  "+line))
		}
	}
	if len(p.Suggestions) > end {
		lines = append(lines, styles.MutedStyle.Render(fmt.Sprintf("  … %d more", len(p.Suggestions)-end)))
	}
	return strings.Join(lines, "\n")
}
