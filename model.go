package main

import (
	"context"
	"strings"
	"time"

	"charm-wallet-connect/config"
	"charm-wallet-connect/metrics"
	"charm-wallet-connect/session"
	"charm-wallet-connect/styles"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// -------------------- MODEL --------------------

// phase is where the current connect attempt stands.
type phase int

const (
	phaseIdle phase = iota
	phaseConnecting
	phaseConnected
	phaseFailed
	phaseFetchingDetails
	phaseDetailsReady
	phaseDetailsPartial
	phaseDetailsFailed
)

func (p phase) String() string {
	switch p {
	case phaseIdle:
		return "idle"
	case phaseConnecting:
		return "connecting"
	case phaseConnected:
		return "connected"
	case phaseFailed:
		return "failed"
	case phaseFetchingDetails:
		return "fetching details"
	case phaseDetailsReady:
		return "details ready"
	case phaseDetailsPartial:
		return "details partial"
	case phaseDetailsFailed:
		return "details failed"
	}
	return "unknown"
}

// model represents the application state following The Elm Architecture
type model struct {
	w, h int

	// connection
	holder      *session.Holder
	updates     <-chan *session.Connection
	unsubscribe func()
	timeout     time.Duration
	metrics     *metrics.Recorder // nil unless WALLET_METRICS_ADDR is set

	phase phase
	spin  spinner.Model

	// display state; connErr wins over detailsErr in the banner
	connErr    string
	details    session.Details
	detailsErr string
	fetchSeq   uint64 // latest fetch started; older results are dropped

	// clipboard feedback
	copiedMsg    string
	addressLineY int // screen row of the address, -1 when not shown

	showQR bool

	// endpoint picker
	cfg        config.Config
	configPath string
	activeURL  string
	picking    bool
	form       *huh.Form

	// logger panel
	logEnabled  bool
	logger      *log.Logger
	logBuffer   *strings.Builder
	logViewport viewport.Model
	logReady    bool
	logSpinner  spinner.Model
}

// -------------------- INIT --------------------

// newModel creates the model from the config file and environment overrides
func newModel(env config.Env) model {
	cfg := config.Resolve(config.LoadOrCreate(env.ConfigPath), env)

	activeURL := ""
	if e, ok := cfg.Active(); ok {
		activeURL = e.URL
	}

	holder := session.NewHolder(session.DialLocator(activeURL))
	updates, unsubscribe := holder.Subscribe()

	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = lipgloss.NewStyle().Foreground(styles.CAccent2)

	vp := viewport.New(0, 10) // resized on first WindowSizeMsg
	vp.Style = lipgloss.NewStyle().
		Foreground(styles.CText).
		Background(styles.CPanel)

	logSpin := spinner.New()
	logSpin.Spinner = spinner.Dot
	logSpin.Style = lipgloss.NewStyle().Foreground(styles.CAccent2)

	timeout := env.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return model{
		holder:       holder,
		updates:      updates,
		unsubscribe:  unsubscribe,
		timeout:      timeout,
		phase:        phaseIdle,
		spin:         sp,
		addressLineY: -1,
		cfg:          cfg,
		configPath:   env.ConfigPath,
		activeURL:    activeURL,
		logEnabled:   cfg.Logger,
		logBuffer:    &strings.Builder{},
		logViewport:  vp,
		logSpinner:   logSpin,
	}
}

// Init implements tea.Model interface and returns initial commands
func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spin.Tick, waitForConnection(m.updates)}
	if m.logEnabled {
		cmds = append(cmds, initLogViewport(), m.logSpinner.Tick)
	}
	return tea.Batch(cmds...)
}

// close releases the subscription, the wallet connection and the metrics server
func (m *model) close() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = m.metrics.Shutdown(ctx)
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	m.holder.Close()
}

// bannerText is the error shown in the banner
func (m *model) bannerText() string {
	if m.connErr != "" {
		return m.connErr
	}
	return m.detailsErr
}
