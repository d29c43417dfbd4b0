// Package session holds the process-wide wallet connection and resolves the
// account details shown for it.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"charm-wallet-connect/wallet"

	"github.com/ethereum/go-ethereum/common"
)

// Connection is one successful connect. It is never mutated after it is
// published; a reconnect replaces it as a whole.
type Connection struct {
	ID       uint64
	Account  common.Address
	Provider *wallet.Provider
	Signer   *wallet.Signer
	Network  wallet.Network

	ext *wallet.Extension
}

// Close releases the endpoint handle behind the connection.
func (c *Connection) Close() {
	if c != nil {
		c.ext.Close()
	}
}

// ErrSuperseded is returned by Connect when a connect started later has
// already published its connection.
var ErrSuperseded = errors.New("connect superseded by a newer attempt")

// Locator finds the wallet extension to connect to.
type Locator func(ctx context.Context) (*wallet.Extension, error)

// DialLocator locates the wallet at a fixed endpoint URL.
func DialLocator(url string) Locator {
	return func(ctx context.Context) (*wallet.Extension, error) {
		return wallet.Dial(ctx, url)
	}
}

// Holder owns the current connection. Connect is the only way to change it.
type Holder struct {
	conn atomic.Pointer[Connection]
	seq  atomic.Uint64

	mu      sync.Mutex
	locate  Locator
	lastErr error
	subs    map[int]chan *Connection
	nextSub int
}

// NewHolder returns a holder with no connection that locates wallets with loc.
func NewHolder(loc Locator) *Holder {
	return &Holder{locate: loc, subs: make(map[int]chan *Connection)}
}

// Retarget changes where the next Connect looks for the wallet. The current
// connection is kept until a connect succeeds.
func (h *Holder) Retarget(loc Locator) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.locate = loc
}

// Current returns the published connection, or nil before the first success.
func (h *Holder) Current() *Connection {
	return h.conn.Load()
}

// IsCurrent reports whether id names the published connection.
func (h *Holder) IsCurrent(id uint64) bool {
	c := h.conn.Load()
	return c != nil && c.ID == id
}

// LastError returns the error of the most recent failed connect, or nil if
// the most recent connect succeeded.
func (h *Holder) LastError() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastErr
}

// Connect locates the wallet, requests account access and resolves the
// signer and network. On failure the held connection is left untouched. If a
// later connect has already won, the result is discarded and ErrSuperseded is
// returned.
func (h *Holder) Connect(ctx context.Context) (*Connection, error) {
	id := h.seq.Add(1)

	h.mu.Lock()
	locate := h.locate
	h.mu.Unlock()

	conn, err := h.open(ctx, id, locate)
	if err != nil {
		h.fail(err)
		return nil, err
	}
	if !h.publish(conn) {
		return nil, fmt.Errorf("%w: connection #%d", ErrSuperseded, id)
	}
	return conn, nil
}

func (h *Holder) open(ctx context.Context, id uint64, locate Locator) (*Connection, error) {
	if locate == nil {
		return nil, fmt.Errorf("%w: no wallet endpoint configured", wallet.ErrExtensionNotFound)
	}
	ext, err := locate(ctx)
	if err != nil {
		return nil, err
	}
	if !ext.IsPresent(ctx) {
		ext.Close()
		return nil, fmt.Errorf("%w at %s", wallet.ErrExtensionNotFound, ext.URL)
	}

	if _, err := ext.RequestAccounts(ctx); err != nil {
		ext.Close()
		return nil, err
	}

	provider := ext.Provider()
	signer, err := provider.Signer(ctx)
	if err != nil {
		ext.Close()
		return nil, err
	}
	network, err := provider.Network(ctx)
	if err != nil {
		ext.Close()
		return nil, err
	}

	return &Connection{
		ID:       id,
		Account:  signer.Account(),
		Provider: provider,
		Signer:   signer,
		Network:  network,
		ext:      ext,
	}, nil
}

func (h *Holder) fail(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastErr = err
}

// publish swaps in conn unless a newer connect already won, then notifies
// subscribers. It reports whether conn was published.
func (h *Holder) publish(conn *Connection) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	prev := h.conn.Load()
	if prev != nil && prev.ID > conn.ID {
		conn.Close()
		return false
	}
	h.conn.Store(conn)
	h.lastErr = nil
	for _, ch := range h.subs {
		notify(ch, conn)
	}
	if prev != nil {
		prev.Close()
	}
	return true
}

// notify delivers conn on a one-slot channel, replacing any undelivered value.
func notify(ch chan *Connection, conn *Connection) {
	select {
	case <-ch:
	default:
	}
	ch <- conn
}

// Subscribe returns a channel that receives each newly published connection.
// Only the latest undelivered connection is kept. The returned func
// unsubscribes and closes the channel.
func (h *Holder) Subscribe() (<-chan *Connection, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan *Connection, 1)
	key := h.nextSub
	h.nextSub++
	h.subs[key] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs, key)
			close(ch)
		})
	}
}

// Close releases the current connection.
func (h *Holder) Close() {
	h.conn.Load().Close()
}
