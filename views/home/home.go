package home

import (
	"raiden-channel-tui/styles"
	"strings"

	"github.com/charmbracelet/huh"
)

// Menu choices
const (
	ChoiceOpenChannel = "open"
	ChoiceTokens      = "tokens"
	ChoiceSettings    = "settings"
	ChoiceQuit        = "quit"
)

// CreateForm creates the home menu form. The chosen value is written to selection.
func CreateForm(selection *string) *huh.Form {
	*selection = ""

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Options(
					huh.NewOption("Open Channel", ChoiceOpenChannel),
					huh.NewOption("Token Networks", ChoiceTokens),
					huh.NewOption("RPC Settings", ChoiceSettings),
					huh.NewOption("Quit", ChoiceQuit),
				).
				Title("Main Menu").
				Description("Select a view to navigate to").
				Value(selection),
		),
	).WithTheme(huh.ThemeCatppuccin())

	form.Init()
	return form
}

// Render renders the home view
func Render(form *huh.Form) string {
	if form != nil {
		return form.View()
	}
	return "Loading menu..."
}

// Nav returns the navigation bar for home view
func Nav(width int) string {
	left := strings.Join([]string{
		styles.Key("↑/↓") + " select",
		styles.Key("Enter") + " go",
		styles.Key("o") + " open channel",
		styles.Key("l") + " logger",
		styles.Key("Esc") + " quit",
	}, "   ")

	return styles.NavStyle.Width(width).Render(left)
}
