// Package wallettest provides an in-process EIP-1193 wallet endpoint for tests.
package wallettest

import (
	"context"
	"math/big"
	"net/http/httptest"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	gethrpc "github.com/ethereum/go-ethereum/rpc"
)

// Error is a JSON-RPC error object with a provider error code.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string  { return e.Message }
func (e *Error) ErrorCode() int { return e.Code }

// Wallet is a scripted wallet. The zero value is not usable; call New.
type Wallet struct {
	mu       sync.Mutex
	accounts []common.Address
	granted  bool
	chainID  *big.Int
	balance  *big.Int

	reject      bool
	revoked     bool
	failBalance string
	failChainID string
	hold        chan struct{}
	calls       map[string]int
}

// New returns a wallet holding one account with the given chain and balance.
func New(account common.Address, chainID int64, wei *big.Int) *Wallet {
	return &Wallet{
		accounts: []common.Address{account},
		chainID:  big.NewInt(chainID),
		balance:  new(big.Int).Set(wei),
		calls:    make(map[string]int),
	}
}

// RejectRequests makes eth_requestAccounts fail with code 4001.
func (w *Wallet) RejectRequests(reject bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.reject = reject
}

// Revoke drops the account authorisation, as if the user disconnected the site.
func (w *Wallet) Revoke() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.revoked = true
}

// FailBalance makes eth_getBalance answer with an error carrying msg.
func (w *Wallet) FailBalance(msg string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.failBalance = msg
}

// FailChainID makes eth_chainId answer with an error carrying msg.
func (w *Wallet) FailChainID(msg string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.failChainID = msg
}

// HoldBalance blocks eth_getBalance until the returned release is called.
func (w *Wallet) HoldBalance() (release func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	ch := make(chan struct{})
	w.hold = ch
	var once sync.Once
	return func() {
		once.Do(func() {
			w.mu.Lock()
			if w.hold == ch {
				w.hold = nil
			}
			w.mu.Unlock()
			close(ch)
		})
	}
}

// Calls reports how many times method was invoked.
func (w *Wallet) Calls(method string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.calls[method]
}

func (w *Wallet) record(method string) {
	w.mu.Lock()
	w.calls[method]++
	w.mu.Unlock()
}

// Server serves a Wallet over HTTP JSON-RPC.
type Server struct {
	*httptest.Server
	rpc *gethrpc.Server
}

// Start serves w on a local HTTP listener.
func (w *Wallet) Start() *Server {
	srv := gethrpc.NewServer()
	if err := srv.RegisterName("eth", &ethAPI{w: w}); err != nil {
		panic(err)
	}
	return &Server{Server: httptest.NewServer(srv), rpc: srv}
}

// Close shuts down the listener and the RPC server.
func (s *Server) Close() {
	s.Server.Close()
	s.rpc.Stop()
}

type ethAPI struct {
	w *Wallet
}

func (a *ethAPI) RequestAccounts() ([]common.Address, error) {
	a.w.record("eth_requestAccounts")
	a.w.mu.Lock()
	defer a.w.mu.Unlock()
	if a.w.reject {
		return nil, &Error{Code: 4001, Message: "User rejected the request."}
	}
	a.w.granted = true
	a.w.revoked = false
	return append([]common.Address(nil), a.w.accounts...), nil
}

func (a *ethAPI) Accounts() ([]common.Address, error) {
	a.w.record("eth_accounts")
	a.w.mu.Lock()
	defer a.w.mu.Unlock()
	if !a.w.granted || a.w.revoked {
		return []common.Address{}, nil
	}
	return append([]common.Address(nil), a.w.accounts...), nil
}

func (a *ethAPI) ChainId() (*hexutil.Big, error) {
	a.w.record("eth_chainId")
	a.w.mu.Lock()
	defer a.w.mu.Unlock()
	if a.w.failChainID != "" {
		return nil, &Error{Code: -32603, Message: a.w.failChainID}
	}
	return (*hexutil.Big)(new(big.Int).Set(a.w.chainID)), nil
}

func (a *ethAPI) GetBalance(ctx context.Context, addr common.Address, block string) (*hexutil.Big, error) {
	a.w.record("eth_getBalance")
	a.w.mu.Lock()
	hold := a.w.hold
	a.w.mu.Unlock()
	if hold != nil {
		select {
		case <-hold:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	a.w.mu.Lock()
	defer a.w.mu.Unlock()
	if a.w.failBalance != "" {
		return nil, &Error{Code: -32000, Message: a.w.failBalance}
	}
	return (*hexutil.Big)(new(big.Int).Set(a.w.balance)), nil
}
