package account

import (
	"fmt"
	"strings"

	"charm-wallet-connect/helpers"
	"charm-wallet-connect/styles"

	"github.com/charmbracelet/lipgloss"
)

// Card holds the resolved account fields. Empty fields are not shown.
type Card struct {
	Address     string
	Balance     string
	Symbol      string
	NetworkName string
	ChainID     string
	Explorer    string // block explorer base URL, optional
	Copied      string
	ShowQR      bool
}

// Any reports whether the card has anything to show
func (c Card) Any() bool {
	return c.Address != "" || c.Balance != "" || c.NetworkName != "" || c.ChainID != ""
}

// Nav returns the navigation bar for the account view
func Nav(width int, hasAddress bool) string {
	keys := []string{styles.Key("c") + " connect"}
	if hasAddress {
		keys = append(keys,
			styles.Key("y") + " copy address",
			styles.Key("q") + " qr code",
			styles.Key("r") + " refresh",
		)
	}
	keys = append(keys,
		styles.Key("e") + " endpoint",
		styles.Key("l") + " logger",
		styles.Key("Esc") + " quit",
	)
	return styles.NavStyle.Width(width).Render(strings.Join(keys, "   "))
}

// Button renders the connect button. While connecting it is greyed out and
// shows the spinner instead of the label.
func Button(connecting bool, spinnerView string) string {
	if connecting {
		return styles.DisabledButtonStyle.Render(spinnerView + " Connecting…")
	}
	return styles.ButtonStyle.Render("Connect Wallet")
}

// Banner renders the error banner, or nothing when msg is empty
func Banner(msg string, width int) string {
	if msg == "" {
		return ""
	}
	return styles.BannerStyle.Width(helpers.Max(0, width)).Render("⚠ " + msg)
}

// Render renders the details card and the line offset of the address within
// it, or -1 when no address is shown.
func Render(c Card) (string, int) {
	if !c.Any() {
		return "", -1
	}

	var lines []string
	addrLine := -1

	if c.Address != "" {
		addr := styles.ValueStyle.Underline(true).Render(c.Address)
		if c.Explorer != "" {
			// OSC 8 hyperlink: \x1b]8;;URL\x1b\\TEXT\x1b]8;;\x1b\\
			addr = fmt.Sprintf("\x1b]8;;%s/address/%s\x1b\\%s\x1b]8;;\x1b\\", c.Explorer, c.Address, addr)
		}
		line := styles.LabelStyle.Render("Account Address: ") + addr
		if c.Copied != "" {
			line += "  " + lipgloss.NewStyle().Foreground(styles.CAccent).Render(c.Copied)
		}
		addrLine = len(lines)
		lines = append(lines, line)
	}

	if c.Balance != "" {
		bal := c.Balance
		if c.Symbol != "" {
			bal += " " + c.Symbol
		}
		lines = append(lines, styles.LabelStyle.Render("Balance: ")+styles.ValueStyle.Render(bal))
	}

	if c.NetworkName != "" && c.ChainID != "" {
		width := 0
		for _, l := range lines {
			width = helpers.Max(width, lipgloss.Width(l))
		}
		lines = append(lines,
			lipgloss.NewStyle().Foreground(styles.CBorder).Render(strings.Repeat("─", helpers.Max(24, width))),
			styles.LabelStyle.Render("Network Name: ")+styles.ValueStyle.Render(c.NetworkName),
			styles.LabelStyle.Render("Chain ID: ")+styles.ValueStyle.Render(c.ChainID),
		)
	}

	if c.ShowQR && c.Address != "" {
		lines = append(lines, "", helpers.QRCode(c.Address))
	}

	return strings.Join(lines, "\n"), addrLine
}
