package session

import (
	"context"
	"errors"
	"fmt"

	"charm-wallet-connect/helpers"
	"charm-wallet-connect/wallet"

	"golang.org/x/sync/errgroup"
)

// DetailsStatus summarises which fields of a fetch resolved.
type DetailsStatus int

const (
	DetailsReady DetailsStatus = iota
	DetailsPartial
	DetailsFailed
)

func (s DetailsStatus) String() string {
	switch s {
	case DetailsReady:
		return "ready"
	case DetailsPartial:
		return "partial"
	case DetailsFailed:
		return "failed"
	}
	return "unknown"
}

// Details is what could be resolved for one connection. Each field resolves
// or fails on its own.
type Details struct {
	ConnectionID uint64

	Address    string
	AddressErr error

	Balance    string // ether, decimal
	BalanceErr error

	NetworkName string
	ChainID     string
}

// Status reports whether address and balance both resolved, one did, or
// neither did.
func (d Details) Status() DetailsStatus {
	switch {
	case d.AddressErr == nil && d.BalanceErr == nil:
		return DetailsReady
	case d.Address != "" || d.Balance != "":
		return DetailsPartial
	}
	return DetailsFailed
}

// Any reports whether at least one displayable field resolved.
func (d Details) Any() bool {
	return d.Address != "" || d.Balance != "" || d.NetworkName != "" || d.ChainID != ""
}

// Err returns the first field error, address before balance.
func (d Details) Err() error {
	if d.AddressErr != nil {
		return d.AddressErr
	}
	return d.BalanceErr
}

var errNoConnection = errors.New("not connected")

// Fetch resolves the address and balance of conn concurrently. A failure of
// one never hides the result of the other. When ctx ends first, the fields
// still unresolved carry the context error.
func Fetch(ctx context.Context, conn *Connection) Details {
	if conn == nil || conn.Signer == nil {
		return Details{
			AddressErr: fmt.Errorf("%w: %v", wallet.ErrAddressResolution, errNoConnection),
		}
	}

	d := Details{ConnectionID: conn.ID, NetworkName: conn.Network.Name}
	if conn.Network.ChainID != nil {
		d.ChainID = conn.Network.ChainID.String()
	}

	// a call cut short by ctx cancels its sibling through gctx
	var addrCut, balanceCut bool
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addr, err := conn.Signer.Address(gctx)
		if err != nil {
			d.AddressErr = err
			addrCut = gctx.Err() != nil
			return gctx.Err()
		}
		d.Address = addr.Hex()
		return nil
	})
	if conn.Provider != nil {
		g.Go(func() error {
			wei, err := conn.Provider.Balance(gctx, conn.Signer.Account())
			if err != nil {
				d.BalanceErr = err
				balanceCut = gctx.Err() != nil
				return gctx.Err()
			}
			d.Balance = helpers.FormatEther(wei)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if addrCut {
			d.AddressErr = fmt.Errorf("%w: %w", wallet.ErrAddressResolution, err)
		}
		if balanceCut {
			d.BalanceErr = fmt.Errorf("%w: %w", wallet.ErrBalanceResolution, err)
		}
	}

	return d
}
