package session

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"
	"time"

	"charm-wallet-connect/wallet"
	"charm-wallet-connect/wallet/wallettest"
)

func TestFetchDetails(t *testing.T) {
	w := wallettest.New(accountA, 1, oneEther())
	srv := startWallet(t, w)

	h := NewHolder(DialLocator(srv.URL))
	defer h.Close()

	conn, err := h.Connect(testContext(t))
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}

	d := Fetch(testContext(t), conn)
	if d.Status() != DetailsReady {
		t.Fatalf("status = %s, err = %v", d.Status(), d.Err())
	}
	if d.Address != accountA.Hex() {
		t.Errorf("address = %q", d.Address)
	}
	if d.Balance != "1.0" {
		t.Errorf("balance = %q, want 1.0", d.Balance)
	}
	if d.NetworkName != "mainnet" || d.ChainID != "1" {
		t.Errorf("network = %q/%q", d.NetworkName, d.ChainID)
	}
	if d.ConnectionID != conn.ID {
		t.Errorf("connection id = %d, want %d", d.ConnectionID, conn.ID)
	}
}

func TestFetchBalanceFailureKeepsAddress(t *testing.T) {
	w := wallettest.New(accountA, 1, oneEther())
	srv := startWallet(t, w)

	h := NewHolder(DialLocator(srv.URL))
	defer h.Close()

	conn, err := h.Connect(testContext(t))
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}

	w.FailBalance("missing trie node")
	d := Fetch(testContext(t), conn)
	if d.Status() != DetailsPartial {
		t.Fatalf("status = %s", d.Status())
	}
	if d.Address != accountA.Hex() {
		t.Errorf("address not shown on balance failure: %q", d.Address)
	}
	if !errors.Is(d.BalanceErr, wallet.ErrBalanceResolution) {
		t.Errorf("BalanceErr = %v", d.BalanceErr)
	}
	if !strings.Contains(d.Err().Error(), "missing trie node") {
		t.Errorf("error lost wallet message: %v", d.Err())
	}
}

func TestFetchAddressFailureKeepsBalance(t *testing.T) {
	w := wallettest.New(accountA, 1, oneEther())
	srv := startWallet(t, w)

	h := NewHolder(DialLocator(srv.URL))
	defer h.Close()

	conn, err := h.Connect(testContext(t))
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}

	w.Revoke()
	d := Fetch(testContext(t), conn)
	if d.Status() != DetailsPartial {
		t.Fatalf("status = %s", d.Status())
	}
	if !errors.Is(d.AddressErr, wallet.ErrAddressResolution) {
		t.Errorf("AddressErr = %v", d.AddressErr)
	}
	if d.Balance != "1.0" {
		t.Errorf("balance = %q", d.Balance)
	}
}

func TestFetchBothFail(t *testing.T) {
	w := wallettest.New(accountA, 1, oneEther())
	srv := startWallet(t, w)

	h := NewHolder(DialLocator(srv.URL))
	defer h.Close()

	conn, err := h.Connect(testContext(t))
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}

	w.Revoke()
	w.FailBalance("node down")
	d := Fetch(testContext(t), conn)
	if d.Status() != DetailsFailed {
		t.Fatalf("status = %s", d.Status())
	}
	if !errors.Is(d.Err(), wallet.ErrAddressResolution) {
		t.Errorf("address error should come first, got %v", d.Err())
	}
	if !d.Any() {
		t.Error("network fields should still be displayable")
	}
}

func TestFetchWithoutConnection(t *testing.T) {
	d := Fetch(context.Background(), nil)
	if d.Any() {
		t.Fatal("details resolved without a connection")
	}
	if !errors.Is(d.AddressErr, wallet.ErrAddressResolution) {
		t.Errorf("AddressErr = %v", d.AddressErr)
	}
}

func TestStaleFetchIsDetectable(t *testing.T) {
	w := wallettest.New(accountA, 1, big.NewInt(5))
	srv := startWallet(t, w)

	h := NewHolder(DialLocator(srv.URL))
	defer h.Close()

	first, err := h.Connect(testContext(t))
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}

	release := w.HoldBalance()
	defer release()

	done := make(chan Details, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		done <- Fetch(ctx, first)
	}()

	// wait for the first fetch to be parked on the balance call
	deadline := time.Now().Add(2 * time.Second)
	for w.Calls("eth_getBalance") == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	second, err := h.Connect(testContext(t))
	if err != nil {
		t.Fatalf("reconnect: %v", err)
	}
	release()

	stale := <-done
	if h.IsCurrent(stale.ConnectionID) {
		t.Fatal("result of the superseded connection reported current")
	}
	if !h.IsCurrent(second.ID) {
		t.Fatal("new connection not current")
	}
}

func TestDetailsStatusString(t *testing.T) {
	for s, want := range map[DetailsStatus]string{
		DetailsReady:     "ready",
		DetailsPartial:   "partial",
		DetailsFailed:    "failed",
		DetailsStatus(9): "unknown",
	} {
		if s.String() != want {
			t.Errorf("%d.String() = %q, want %q", int(s), s.String(), want)
		}
	}
}

func TestFetchDeadlineKeepsResolvedAddress(t *testing.T) {
	w := wallettest.New(accountA, 1, oneEther())
	srv := startWallet(t, w)

	h := NewHolder(DialLocator(srv.URL))
	defer h.Close()

	conn, err := h.Connect(testContext(t))
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}

	release := w.HoldBalance()
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	d := Fetch(ctx, conn)

	if d.Address != accountA.Hex() {
		t.Errorf("address = %q, want it resolved before the deadline", d.Address)
	}
	if !errors.Is(d.BalanceErr, wallet.ErrBalanceResolution) {
		t.Errorf("BalanceErr = %v", d.BalanceErr)
	}
	if !errors.Is(d.BalanceErr, context.DeadlineExceeded) {
		t.Errorf("BalanceErr does not carry the deadline: %v", d.BalanceErr)
	}
	if d.Status() != DetailsPartial {
		t.Errorf("status = %s", d.Status())
	}
}
