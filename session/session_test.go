package session

import (
	"context"
	"errors"
	"math/big"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"charm-wallet-connect/wallet"
	"charm-wallet-connect/wallet/wallettest"

	"github.com/ethereum/go-ethereum/common"
)

var (
	accountA = common.HexToAddress("0xABC0000000000000000000000000000000000001")
	accountB = common.HexToAddress("0xBEEF000000000000000000000000000000000002")
)

func oneEther() *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func startWallet(t *testing.T, w *wallettest.Wallet) *wallettest.Server {
	t.Helper()
	srv := w.Start()
	t.Cleanup(srv.Close)
	return srv
}

func closedURL(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := l.Addr().String()
	l.Close()
	return "http://" + addr
}

func TestConnectExtensionNotFound(t *testing.T) {
	tests := []struct {
		name string
		loc  Locator
	}{
		{"no locator", nil},
		{"empty url", DialLocator("")},
		{"nothing listening", DialLocator(closedURL(t))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHolder(tt.loc)
			defer h.Close()

			conn, err := h.Connect(testContext(t))
			if !errors.Is(err, wallet.ErrExtensionNotFound) {
				t.Fatalf("expected ErrExtensionNotFound, got %v", err)
			}
			if conn != nil || h.Current() != nil {
				t.Fatal("connection state written without a wallet")
			}
			if !errors.Is(h.LastError(), wallet.ErrExtensionNotFound) {
				t.Errorf("LastError = %v", h.LastError())
			}
		})
	}
}

func TestConnectSuccess(t *testing.T) {
	w := wallettest.New(accountA, 1, oneEther())
	srv := startWallet(t, w)

	h := NewHolder(DialLocator(srv.URL))
	defer h.Close()

	conn, err := h.Connect(testContext(t))
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if h.Current() != conn {
		t.Fatal("Current does not return the published connection")
	}
	if !h.IsCurrent(conn.ID) {
		t.Error("IsCurrent false for the published connection")
	}
	if conn.Account != accountA {
		t.Errorf("account = %s", conn.Account.Hex())
	}
	if conn.Network.Name != "mainnet" || conn.Network.ChainID.Int64() != 1 {
		t.Errorf("network = %+v", conn.Network)
	}
	if h.LastError() != nil {
		t.Errorf("LastError after success = %v", h.LastError())
	}
}

func TestConnectUserRejectedKeepsState(t *testing.T) {
	w := wallettest.New(accountA, 1, oneEther())
	srv := startWallet(t, w)

	h := NewHolder(DialLocator(srv.URL))
	defer h.Close()

	first, err := h.Connect(testContext(t))
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}

	w.RejectRequests(true)
	_, err = h.Connect(testContext(t))
	if !errors.Is(err, wallet.ErrUserRejected) {
		t.Fatalf("expected ErrUserRejected, got %v", err)
	}
	if h.Current() != first {
		t.Fatal("rejected connect replaced the held connection")
	}
	if !errors.Is(h.LastError(), wallet.ErrUserRejected) {
		t.Errorf("LastError = %v", h.LastError())
	}
}

func TestConnectNetworkFailure(t *testing.T) {
	w := wallettest.New(accountA, 1, oneEther())
	w.FailChainID("chain id unavailable")
	srv := startWallet(t, w)

	h := NewHolder(DialLocator(srv.URL))
	defer h.Close()

	_, err := h.Connect(testContext(t))
	if !errors.Is(err, wallet.ErrConnection) {
		t.Fatalf("expected ErrConnection, got %v", err)
	}
	if h.Current() != nil {
		t.Fatal("failed connect wrote a connection")
	}
}

func TestSubscribeReceivesNewConnections(t *testing.T) {
	w := wallettest.New(accountA, 1, oneEther())
	srv := startWallet(t, w)

	h := NewHolder(DialLocator(srv.URL))
	defer h.Close()

	updates, unsubscribe := h.Subscribe()
	defer unsubscribe()

	first, err := h.Connect(testContext(t))
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	second, err := h.Connect(testContext(t))
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if first.ID == second.ID {
		t.Fatal("reconnect reused the connection id")
	}

	// one slot, latest wins
	select {
	case got := <-updates:
		if got != second {
			t.Fatalf("expected latest connection %d, got %d", second.ID, got.ID)
		}
	case <-time.After(time.Second):
		t.Fatal("no connection update delivered")
	}
	select {
	case got := <-updates:
		t.Fatalf("unexpected extra update %d", got.ID)
	default:
	}

	unsubscribe()
	if _, ok := <-updates; ok {
		t.Fatal("channel still open after unsubscribe")
	}
}

func TestRetarget(t *testing.T) {
	srvA := startWallet(t, wallettest.New(accountA, 1, oneEther()))
	srvB := startWallet(t, wallettest.New(accountB, 11155111, oneEther()))

	h := NewHolder(DialLocator(srvA.URL))
	defer h.Close()

	first, err := h.Connect(testContext(t))
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}

	h.Retarget(DialLocator(srvB.URL))
	if h.Current() != first {
		t.Fatal("Retarget dropped the held connection")
	}

	second, err := h.Connect(testContext(t))
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if second.Account != accountB || second.Network.Name != "sepolia" {
		t.Errorf("unexpected connection %+v", second)
	}
	if h.IsCurrent(first.ID) {
		t.Error("old connection still reported current")
	}
}

func TestConnectSupersededByNewer(t *testing.T) {
	srv := startWallet(t, wallettest.New(accountA, 1, oneEther()))

	entered := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32
	loc := func(ctx context.Context) (*wallet.Extension, error) {
		if calls.Add(1) == 1 {
			close(entered)
			<-release
		}
		return wallet.Dial(ctx, srv.URL)
	}

	h := NewHolder(loc)
	defer h.Close()

	type result struct {
		conn *Connection
		err  error
	}
	older := make(chan result, 1)
	go func() {
		conn, err := h.Connect(testContext(t))
		older <- result{conn, err}
	}()
	<-entered

	newer, err := h.Connect(testContext(t))
	if err != nil {
		t.Fatalf("newer Connect: %v", err)
	}
	close(release)

	res := <-older
	if !errors.Is(res.err, ErrSuperseded) {
		t.Fatalf("expected ErrSuperseded, got %v", res.err)
	}
	if res.conn != nil {
		t.Error("superseded connect returned a connection")
	}
	if h.Current() != newer {
		t.Error("older connect replaced the newer connection")
	}
	if h.LastError() != nil {
		t.Errorf("superseded connect recorded an error: %v", h.LastError())
	}
}
