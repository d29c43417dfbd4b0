package main

import (
	"errors"
	"fmt"

	"charm-wallet-connect/helpers"
	"charm-wallet-connect/session"
	"charm-wallet-connect/styles"
	"charm-wallet-connect/views/endpoints"
	logview "charm-wallet-connect/views/log"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// -------------------- UPDATE --------------------

// Update implements tea.Model interface and handles all messages
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// endpoint picker takes all key input while open
	if m.picking && m.form != nil {
		done, cmd := m.updatePicker(msg)
		if _, isKey := msg.(tea.KeyMsg); isKey || done {
			return m, cmd
		}
		_, appCmd := m.handle(msg)
		return m, tea.Batch(cmd, appCmd)
	}
	return m.handle(msg)
}

// updatePicker feeds msg to the endpoint form and reports whether it closed
func (m *model) updatePicker(msg tea.Msg) (bool, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "esc" {
		m.picking = false
		m.form = nil
		return true, nil
	}

	form, cmd := m.form.Update(msg)
	f, ok := form.(*huh.Form)
	if !ok {
		return false, cmd
	}
	m.form = f

	switch m.form.State {
	case huh.StateCompleted:
		m.useEndpoint(endpoints.Selected)
		m.picking = false
		m.form = nil
		return true, nil
	case huh.StateAborted:
		m.picking = false
		m.form = nil
		return true, nil
	}
	return false, cmd
}

// handle processes app messages outside the picker
func (m *model) handle(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case logInitMsg:
		if !m.logEnabled || m.logReady {
			return m, nil
		}
		m.logger = log.NewWithOptions(m.logBuffer, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05",
			Prefix:          "",
		})
		m.logger.SetLevel(log.DebugLevel)
		m.logger.SetStyles(&log.Styles{
			Timestamp: lipgloss.NewStyle().Foreground(styles.CMuted),
			Caller:    lipgloss.NewStyle().Faint(true),
			Prefix:    lipgloss.NewStyle().Bold(true).Foreground(styles.CAccent2),
			Message:   lipgloss.NewStyle().Foreground(styles.CText),
			Key:       lipgloss.NewStyle().Foreground(styles.CAccent),
			Value:     lipgloss.NewStyle().Foreground(styles.CText),
			Separator: lipgloss.NewStyle().Faint(true),
			Levels: map[log.Level]lipgloss.Style{
				log.DebugLevel: lipgloss.NewStyle().Foreground(styles.CMuted).SetString("DEBUG"),
				log.InfoLevel:  lipgloss.NewStyle().Foreground(styles.CAccent2).SetString("INFO"),
				log.WarnLevel:  lipgloss.NewStyle().Foreground(styles.CWarn).SetString("WARN"),
				log.ErrorLevel: lipgloss.NewStyle().Foreground(styles.CError).SetString("ERROR"),
			},
		})
		m.logReady = true
		m.addLog("info", "Logger enabled")
		return m, nil

	case tea.WindowSizeMsg:
		m.w, m.h = msg.Width, msg.Height
		m.logViewport.Width = max(0, msg.Width-6)
		m.logViewport.Height = logview.PanelHeight(msg.Height)
		if m.logReady {
			m.updateLogViewport()
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		cmds := []tea.Cmd{}
		m.spin, cmd = m.spin.Update(msg)
		cmds = append(cmds, cmd)
		if m.logEnabled && !m.logReady {
			m.logSpinner, cmd = m.logSpinner.Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case connectResultMsg:
		m.metrics.ObserveConnect(msg.err)
		if errors.Is(msg.err, session.ErrSuperseded) {
			m.addLog("debug", msg.err.Error())
			return m, nil
		}
		if msg.err != nil {
			m.phase = phaseFailed
			m.connErr = msg.err.Error()
			m.addLog("error", fmt.Sprintf("Wallet connection failed: `%s`", m.connErr))
			return m, nil
		}
		// the published connection may already have moved the phase on
		if m.phase == phaseConnecting {
			m.phase = phaseConnected
		}
		m.connErr = ""
		m.addLog("success", fmt.Sprintf("Connected to %s (chain %s)", msg.conn.Network.Name, msg.conn.Network.ChainID))
		return m, nil

	case connectionChangedMsg:
		wait := waitForConnection(m.updates)
		if msg.conn == nil || !m.holder.IsCurrent(msg.conn.ID) {
			return m, wait
		}
		// a new connection starts from empty details so nothing of the
		// previous account stays on screen
		m.details = session.Details{ConnectionID: msg.conn.ID}
		m.detailsErr = ""
		m.copiedMsg = ""
		m.showQR = false
		m.phase = phaseFetchingDetails
		m.addLog("debug", fmt.Sprintf("Connection #%d published, fetching details", msg.conn.ID))
		return m, tea.Batch(m.fetch(msg.conn), wait)

	case detailsLoadedMsg:
		if !m.holder.IsCurrent(msg.d.ConnectionID) {
			m.addLog("debug", fmt.Sprintf("Dropped details of superseded connection #%d", msg.d.ConnectionID))
			return m, nil
		}
		if msg.seq != m.fetchSeq {
			m.addLog("debug", fmt.Sprintf("Dropped details of superseded fetch #%d", msg.seq))
			return m, nil
		}
		m.metrics.ObserveDetails(msg.d, msg.took)
		m.details = msg.d
		m.detailsErr = ""
		if err := msg.d.Err(); err != nil {
			m.detailsErr = err.Error()
		}
		if m.phase != phaseConnecting {
			switch msg.d.Status() {
			case session.DetailsReady:
				m.phase = phaseDetailsReady
			case session.DetailsPartial:
				m.phase = phaseDetailsPartial
			default:
				m.phase = phaseDetailsFailed
			}
		}
		if m.detailsErr != "" {
			m.addLog("error", fmt.Sprintf("Account details %s: %s", msg.d.Status(), m.detailsErr))
		} else {
			m.addLog("success", fmt.Sprintf("Loaded `%s` - %s ETH", helpers.ShortenAddr(msg.d.Address), msg.d.Balance))
		}
		return m, nil

	case clipboardCopiedMsg:
		m.copiedMsg = "✓ Copied"
		return m, clearCopiedAfter()

	case clearCopiedMsg:
		m.copiedMsg = ""
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "c", "C", "enter":
			return m, m.connect()
		case "y", "Y":
			return m, m.copyAddress()
		case "r", "R":
			return m, m.refresh()
		case "q", "Q":
			if m.details.Address != "" {
				m.showQR = !m.showQR
			}
			return m, nil
		case "e", "E":
			if len(m.cfg.Endpoints) == 0 {
				return m, nil
			}
			m.picking = true
			m.form = endpoints.CreateForm(m.cfg.Endpoints, m.activeURL)
			return m, nil
		case "l", "L":
			m.logEnabled = !m.logEnabled
			m.cfg.Logger = m.logEnabled
			m.saveConfig()
			if m.logEnabled && !m.logReady {
				return m, tea.Batch(initLogViewport(), m.logSpinner.Tick)
			}
			return m, nil
		case "pgup", "pgdown":
			if m.logEnabled && m.logReady {
				var cmd tea.Cmd
				m.logViewport, cmd = m.logViewport.Update(msg)
				return m, cmd
			}
		}

	case tea.MouseMsg:
		if msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress {
			if m.addressLineY >= 0 && msg.Y == m.addressLineY {
				return m, m.copyAddress()
			}
		}
		if m.logEnabled && m.logReady {
			var cmd tea.Cmd
			m.logViewport, cmd = m.logViewport.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}
