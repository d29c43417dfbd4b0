package wallet

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	gethrpc "github.com/ethereum/go-ethereum/rpc"
)

// Error kinds reported by the wallet adapter. Wrapped errors keep the
// underlying message so it can be shown as-is.
var (
	ErrExtensionNotFound = errors.New("wallet extension not found")
	ErrUserRejected      = errors.New("user rejected the request")
	ErrConnection        = errors.New("wallet connection failed")
	ErrAddressResolution = errors.New("address resolution failed")
	ErrBalanceResolution = errors.New("balance resolution failed")
)

// codeUserRejected is the EIP-1193 provider error for a declined prompt.
const codeUserRejected = 4001

// Extension is a handle to a wallet endpoint speaking EIP-1193 JSON-RPC.
type Extension struct {
	URL string

	rpc *gethrpc.Client
}

// Dial opens a handle to the wallet endpoint at url. HTTP endpoints are not
// contacted until the first call, so callers should follow up with IsPresent.
func Dial(ctx context.Context, url string) (*Extension, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, fmt.Errorf("%w: no wallet endpoint configured", ErrExtensionNotFound)
	}
	c, err := gethrpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtensionNotFound, err)
	}
	return &Extension{URL: url, rpc: c}, nil
}

// IsPresent probes the endpoint with eth_accounts, which never prompts.
// Any JSON-RPC answer, including an error object, means a wallet is there.
func (e *Extension) IsPresent(ctx context.Context) bool {
	if e == nil || e.rpc == nil {
		return false
	}
	var accounts []common.Address
	err := e.rpc.CallContext(ctx, &accounts, "eth_accounts")
	if err == nil {
		return true
	}
	var rerr gethrpc.Error
	return errors.As(err, &rerr)
}

// RequestAccounts asks the wallet for account access. The wallet may prompt
// the user; a declined prompt is reported as ErrUserRejected.
func (e *Extension) RequestAccounts(ctx context.Context) ([]common.Address, error) {
	var accounts []common.Address
	if err := e.rpc.CallContext(ctx, &accounts, "eth_requestAccounts"); err != nil {
		var rerr gethrpc.Error
		if errors.As(err, &rerr) && rerr.ErrorCode() == codeUserRejected {
			return nil, fmt.Errorf("%w: %s", ErrUserRejected, err.Error())
		}
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf("%w: wallet returned no accounts", ErrConnection)
	}
	return accounts, nil
}

// Provider wraps the extension handle in an ethclient.
func (e *Extension) Provider() *Provider {
	return &Provider{Client: ethclient.NewClient(e.rpc), rpc: e.rpc}
}

// Close releases the underlying RPC client.
func (e *Extension) Close() {
	if e != nil && e.rpc != nil {
		e.rpc.Close()
	}
}

// Provider reads chain state through the wallet endpoint.
type Provider struct {
	*ethclient.Client

	rpc *gethrpc.Client
}

// Signer binds the first account the wallet has authorised.
func (p *Provider) Signer(ctx context.Context) (*Signer, error) {
	accounts, err := authorisedAccounts(ctx, p.rpc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf("%w: no authorised account", ErrConnection)
	}
	return &Signer{account: accounts[0], rpc: p.rpc}, nil
}

// Network resolves the chain id and its well-known name.
func (p *Provider) Network(ctx context.Context) (Network, error) {
	id, err := p.ChainID(ctx)
	if err != nil {
		return Network{}, fmt.Errorf("%w: %v", ErrConnection, err)
	}
	return Network{Name: NetworkName(id), ChainID: id}, nil
}

// Balance returns the native balance of addr in wei at the latest block.
func (p *Provider) Balance(ctx context.Context, addr common.Address) (*big.Int, error) {
	wei, err := p.BalanceAt(ctx, addr, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBalanceResolution, err)
	}
	return wei, nil
}

// Signer is the capability to act for one connected account.
type Signer struct {
	account common.Address
	rpc     *gethrpc.Client
}

// Account is the account the signer was bound to at connect time.
func (s *Signer) Account() common.Address {
	return s.account
}

// Address reports the signer's address after checking the wallet still
// authorises it.
func (s *Signer) Address(ctx context.Context) (common.Address, error) {
	accounts, err := authorisedAccounts(ctx, s.rpc)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %v", ErrAddressResolution, err)
	}
	for _, a := range accounts {
		if a == s.account {
			return a, nil
		}
	}
	return common.Address{}, fmt.Errorf("%w: account %s is no longer authorised", ErrAddressResolution, s.account.Hex())
}

func authorisedAccounts(ctx context.Context, c *gethrpc.Client) ([]common.Address, error) {
	var accounts []common.Address
	if err := c.CallContext(ctx, &accounts, "eth_accounts"); err != nil {
		return nil, err
	}
	return accounts, nil
}
