package endpoints

import (
	"strings"

	"charm-wallet-connect/config"
	"charm-wallet-connect/styles"

	"github.com/charmbracelet/huh"
)

// Selected receives the URL picked in the form
var Selected string

// CreateForm builds the endpoint picker with the active URL preselected
func CreateForm(endpoints []config.Endpoint, activeURL string) *huh.Form {
	Selected = activeURL

	options := make([]huh.Option[string], 0, len(endpoints))
	for _, e := range endpoints {
		label := e.Name + "  " + e.URL
		options = append(options, huh.NewOption(label, e.URL))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Wallet Endpoint").
				Description("The next connect uses the selected endpoint").
				Options(options...).
				Value(&Selected),
		),
	).WithTheme(huh.ThemeCatppuccin())

	form.Init()
	return form
}

// Render renders the picker view
func Render(form *huh.Form) string {
	h := styles.TitleStyle.Render("Wallet Endpoint")
	if form == nil {
		return h
	}
	return h + "\n\n" + form.View()
}

// Nav returns the navigation bar for the picker
func Nav(width int) string {
	left := strings.Join([]string{
		styles.Key("↑/↓") + " select",
		styles.Key("Enter") + " use",
		styles.Key("Esc") + " cancel",
	}, "   ")

	return styles.NavStyle.Width(width).Render(left)
}
