package main

import (
	"context"
	"fmt"
	"time"

	"charm-wallet-connect/config"
	"charm-wallet-connect/session"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

// -------------------- COMMAND FUNCTIONS --------------------

// writeClipboard is swapped out in tests
var writeClipboard = clipboard.WriteAll

// connectWallet runs one connect attempt against the holder
func connectWallet(h *session.Holder, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		conn, err := h.Connect(ctx)
		return connectResultMsg{conn: conn, err: err}
	}
}

// waitForConnection blocks until the holder publishes a connection
func waitForConnection(updates <-chan *session.Connection) tea.Cmd {
	return func() tea.Msg {
		conn, ok := <-updates
		if !ok {
			return nil
		}
		return connectionChangedMsg{conn: conn}
	}
}

// fetchDetails resolves address and balance for conn as fetch number seq
func fetchDetails(conn *session.Connection, timeout time.Duration, seq uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		start := time.Now()
		d := session.Fetch(ctx, conn)
		return detailsLoadedMsg{d: d, seq: seq, took: time.Since(start)}
	}
}

// copyToClipboard copies text to clipboard. Failures are silent.
func copyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		if err := writeClipboard(text); err == nil {
			return clipboardCopiedMsg{}
		}
		return nil
	}
}

// clearCopiedAfter hides the copy feedback after a short delay
func clearCopiedAfter() tea.Cmd {
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg {
		return clearCopiedMsg{}
	})
}

// initLogViewport initializes the log viewport
func initLogViewport() tea.Cmd {
	return func() tea.Msg {
		return logInitMsg{}
	}
}

// -------------------- MODEL HELPER METHODS --------------------

// connect starts a connect attempt unless one is already in flight
func (m *model) connect() tea.Cmd {
	if m.phase == phaseConnecting {
		return nil
	}
	m.phase = phaseConnecting
	m.connErr = ""
	m.detailsErr = ""
	m.addLog("info", fmt.Sprintf("Connecting to wallet at `%s`", m.activeURL))
	return connectWallet(m.holder, m.timeout)
}

// refresh re-runs the detail fetch for the current connection
func (m *model) refresh() tea.Cmd {
	conn := m.holder.Current()
	if conn == nil || m.phase == phaseConnecting {
		return nil
	}
	m.phase = phaseFetchingDetails
	m.detailsErr = ""
	m.addLog("info", "Refreshing account details")
	return m.fetch(conn)
}

// fetch starts a detail fetch for conn; only the latest fetch is applied
func (m *model) fetch(conn *session.Connection) tea.Cmd {
	m.fetchSeq++
	return fetchDetails(conn, m.timeout, m.fetchSeq)
}

// copyAddress copies the resolved address, if any
func (m *model) copyAddress() tea.Cmd {
	if m.details.Address == "" {
		return nil
	}
	m.addLog("info", fmt.Sprintf("Copying `%s` to clipboard", m.details.Address))
	return copyToClipboard(m.details.Address)
}

// useEndpoint makes url the endpoint for the next connect and saves it
func (m *model) useEndpoint(url string) {
	if url == "" || url == m.activeURL {
		return
	}
	m.cfg.Use(url, "Custom")
	m.activeURL = url
	m.holder.Retarget(session.DialLocator(url))
	m.saveConfig()
	m.addLog("success", fmt.Sprintf("Wallet endpoint set to `%s`", url))
}

// saveConfig persists the endpoint list and logger flag
func (m *model) saveConfig() {
	if m.configPath == "" {
		return
	}
	if err := config.Save(m.configPath, m.cfg); err != nil {
		m.addLog("error", fmt.Sprintf("Failed to save config: %v", err))
	}
}

// addLog adds a log entry with timestamp and type
func (m *model) addLog(logType, message string) {
	if !m.logEnabled || !m.logReady || m.logger == nil {
		return
	}

	switch logType {
	case "info":
		m.logger.Info(message)
	case "success":
		m.logger.Info("✓", "msg", message)
	case "error":
		m.logger.Error(message)
	case "warning":
		m.logger.Warn(message)
	case "debug":
		m.logger.Debug(message)
	default:
		m.logger.Print(message)
	}

	m.updateLogViewport()
}

// updateLogViewport refreshes the viewport content with log output
func (m *model) updateLogViewport() {
	if !m.logReady || m.logBuffer == nil {
		return
	}
	m.logViewport.SetContent(m.logBuffer.String())
	m.logViewport.GotoBottom()
}
