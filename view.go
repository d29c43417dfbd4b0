package main

import (
	"strings"

	"charm-wallet-connect/helpers"
	"charm-wallet-connect/styles"
	"charm-wallet-connect/views/account"
	"charm-wallet-connect/views/endpoints"
	logview "charm-wallet-connect/views/log"
	"charm-wallet-connect/wallet"

	"github.com/charmbracelet/lipgloss"
)

// -------------------- VIEW --------------------

func (m *model) globalHeader() string {
	availableWidth := max(0, m.w-8) // Account for panel padding

	var addrDisplay string
	if m.details.Address != "" {
		addrDisplay = styles.LabelStyle.Render("Account: " + helpers.FadeString(helpers.ShortenAddr(m.details.Address), "#F25D94", "#EDFF82"))
	} else {
		addrDisplay = lipgloss.NewStyle().Foreground(styles.CMuted).Render("Account: not connected")
	}

	statusIcon := "○"
	statusColor := lipgloss.Color("#c01c28")
	var statusText string
	switch {
	case m.phase == phaseConnecting:
		statusText = "Connecting..."
	case m.phase == phaseFailed && m.holder.Current() == nil:
		statusText = "Connection Failed"
	case m.holder.Current() != nil:
		statusIcon = "●"
		statusColor = styles.CAccent
		statusText = m.holder.Current().Network.Name
	default:
		statusText = "Not connected"
	}
	statusDisplay := lipgloss.NewStyle().
		Foreground(statusColor).
		Bold(true).
		Render(statusIcon + " " + statusText)

	titleText := lipgloss.NewStyle().Bold(true).Render(helpers.FadeString("wallet connect", "#7EE787", "#82CFFD"))

	addrWidth := lipgloss.Width(addrDisplay)
	statusWidth := lipgloss.Width(statusDisplay)
	titleWidth := lipgloss.Width(titleText)
	totalOtherWidth := addrWidth + statusWidth + titleWidth

	var headerLine string
	if totalOtherWidth+4 > availableWidth {
		headerLine = addrDisplay + "\n" + titleText + "\n" + statusDisplay
	} else {
		// Address | Title (centered) | Status
		remainingSpace := availableWidth - totalOtherWidth
		leftPadding := remainingSpace / 2
		rightPadding := remainingSpace - leftPadding
		headerLine = addrDisplay + strings.Repeat(" ", max(1, leftPadding)) + titleText + strings.Repeat(" ", max(1, rightPadding)) + statusDisplay
	}

	separator := lipgloss.NewStyle().
		Foreground(styles.CBorder).
		Render(strings.Repeat("─", availableWidth))

	return headerLine + "\n" + separator
}

// card builds the details card from the display state
func (m *model) card() account.Card {
	c := account.Card{
		Address:     m.details.Address,
		Balance:     m.details.Balance,
		NetworkName: m.details.NetworkName,
		ChainID:     m.details.ChainID,
		Copied:      m.copiedMsg,
		ShowQR:      m.showQR,
	}
	if c.Balance != "" {
		c.Symbol = "ETH"
	}
	if conn := m.holder.Current(); conn != nil && conn.ID == m.details.ConnectionID {
		c.Explorer = wallet.Explorer(conn.Network.ChainID)
	}
	return c
}

func (m *model) View() string {
	headerPanel := styles.PanelStyle.Width(max(0, m.w-2)).Render(m.globalHeader())

	if m.picking && m.form != nil {
		page := styles.PanelStyle.Width(max(0, m.w-2)).Render(endpoints.Render(m.form))
		return styles.AppStyle.Render(lipgloss.JoinVertical(lipgloss.Left, headerPanel, page, endpoints.Nav(m.w-2)))
	}

	parts := []string{
		styles.TitleStyle.Render("Wallet Connection"),
		lipgloss.NewStyle().Foreground(styles.CMuted).Render("Endpoint: " + m.activeURL),
		"",
		account.Button(m.phase == phaseConnecting, m.spin.View()),
	}
	if m.phase == phaseFetchingDetails {
		parts = append(parts, "", m.spin.View()+" resolving account…")
	}
	if banner := account.Banner(m.bannerText(), max(0, m.w-10)); banner != "" {
		parts = append(parts, "", banner)
	}

	m.addressLineY = -1
	cardContent, addrLine := account.Render(m.card())
	if cardContent != "" {
		parts = append(parts, "")
		cardTop := lipgloss.Height(strings.Join(parts, "\n"))
		box := lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(styles.CBorder).
			Padding(0, 1).
			Render(cardContent)
		parts = append(parts, box)
		if addrLine >= 0 {
			// header panel, page border and top padding, card border
			m.addressLineY = lipgloss.Height(headerPanel) + 2 + cardTop + 1 + addrLine
		}
	}

	page := styles.PanelStyle.Width(max(0, m.w-2)).Render(strings.Join(parts, "\n"))
	nav := account.Nav(m.w-2, m.details.Address != "")

	sections := []string{headerPanel, page}
	if m.logEnabled {
		sections = append(sections, logview.Render(m.w, m.h, m.logReady, m.logSpinner.View(), m.logViewport))
	}
	sections = append(sections, nav)

	return styles.AppStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}
