package log

import (
	"fmt"

	"charm-wallet-connect/helpers"
	"charm-wallet-connect/styles"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
)

// reservedHeight is the space kept for header, card and nav bar.
const reservedHeight = 14

// PanelHeight returns the viewport height for a screen of the given height:
// at most a third of the screen and never more than 12 lines.
func PanelHeight(screenHeight int) int {
	available := helpers.Max(3, screenHeight-reservedHeight)
	return helpers.Min(available, helpers.Min(helpers.Max(3, screenHeight/3), 12))
}

// Render renders the log panel
func Render(width, height int, logReady bool, logSpinnerView string, vp viewport.Model) string {
	title := styles.TitleStyle.Render("Log")

	vp.Height = PanelHeight(height)

	border := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.CBorder).
		Padding(0, 1).
		Width(helpers.Max(0, width-2)).
		Height(vp.Height + 2)

	if !logReady {
		return border.Render(title + "\n\n" + "initializing...\n" + logSpinnerView)
	}

	scrollInfo := ""
	if vp.TotalLineCount() > vp.Height {
		scrollInfo = lipgloss.NewStyle().
			Foreground(styles.CMuted).
			Render(fmt.Sprintf(" [%d%%]", int(vp.ScrollPercent()*100)))
	}

	return border.Render(title + scrollInfo + "\n\n" + vp.View())
}
