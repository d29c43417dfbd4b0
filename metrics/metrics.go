// Package metrics exposes connect and fetch outcomes in Prometheus format.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"charm-wallet-connect/session"
	"charm-wallet-connect/wallet"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder holds the metrics of one program run. A nil Recorder records
// nothing.
type Recorder struct {
	reg *prometheus.Registry

	connects    *prometheus.CounterVec
	fetches     *prometheus.CounterVec
	fetchDur    prometheus.Summary
	balance     *prometheus.GaugeVec
	lastConnect prometheus.Gauge

	server *http.Server
}

// New registers the metrics on a fresh registry.
func New() *Recorder {
	r := &Recorder{reg: prometheus.NewRegistry()}

	r.connects = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wallet",
		Name:      "connects_total",
		Help:      "Connect attempts by result",
	}, []string{"result"})
	r.fetches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wallet",
		Name:      "detail_fetches_total",
		Help:      "Account detail fetches by status",
	}, []string{"status"})
	r.fetchDur = prometheus.NewSummary(prometheus.SummaryOpts{
		Namespace: "wallet",
		Name:      "detail_fetch_duration_seconds",
		Help:      "Time spent resolving address and balance",
	})
	r.balance = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "wallet",
		Name:      "balance_ether",
		Help:      "Last resolved balance of the connected account in ether",
	}, []string{"address", "chain_id"})
	r.lastConnect = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "wallet",
		Name:      "last_connect_timestamp_seconds",
		Help:      "Unix timestamp of the last successful connect",
	})

	r.reg.MustRegister(r.connects, r.fetches, r.fetchDur, r.balance, r.lastConnect)
	return r
}

// Handler serves the registry.
func (r *Recorder) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// Serve listens on addr and serves the metrics in the background. It returns
// the bound address.
func (r *Recorder) Serve(addr string) (string, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	r.server = &http.Server{
		Handler:      r.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() { _ = r.server.Serve(ln) }()
	return ln.Addr().String(), nil
}

// Shutdown stops the server started by Serve.
func (r *Recorder) Shutdown(ctx context.Context) error {
	if r == nil || r.server == nil {
		return nil
	}
	return r.server.Shutdown(ctx)
}

// ConnectResult names the outcome of a connect for the result label.
func ConnectResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, wallet.ErrExtensionNotFound):
		return "not_found"
	case errors.Is(err, wallet.ErrUserRejected):
		return "rejected"
	case errors.Is(err, session.ErrSuperseded):
		return "superseded"
	}
	return "error"
}

// ObserveConnect counts one connect attempt.
func (r *Recorder) ObserveConnect(err error) {
	if r == nil {
		return
	}
	r.connects.WithLabelValues(ConnectResult(err)).Inc()
	if err == nil {
		r.lastConnect.SetToCurrentTime()
	}
}

// ObserveDetails counts one fetch and records the balance when it resolved.
func (r *Recorder) ObserveDetails(d session.Details, took time.Duration) {
	if r == nil {
		return
	}
	r.fetches.WithLabelValues(d.Status().String()).Inc()
	r.fetchDur.Observe(took.Seconds())
	if d.BalanceErr != nil || d.Address == "" {
		return
	}
	if v, err := strconv.ParseFloat(d.Balance, 64); err == nil {
		r.balance.Reset()
		r.balance.WithLabelValues(d.Address, d.ChainID).Set(v)
	}
}
