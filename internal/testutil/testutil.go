// Package testutil provides the collaborator fakes and event fixtures the
// package tests share: a configurable contract reader, a recording
// tracker, and chain-position builders.
package testutil

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/tidewatch/tidewatch/internal/chain"
)

// Reader is a configurable ContractReader fake. Zero value answers every
// call with zero-ish defaults; set Fail* to simulate reverts.
type Reader struct {
	SwapOceanFee    *big.Int
	SwapNonOceanFee *big.Int
	ConsumeFee      *big.Int
	ProviderFee     *big.Int

	DistributorTokens map[common.Address]common.Address
	Tokens            map[common.Address]chain.TokenDetails

	FailFees        bool
	FailConsumeFee  bool
	FailProviderFee bool
	FailDistributor bool
	FailTokenInfo   bool

	mu    sync.Mutex
	calls []string
}

func (r *Reader) record(call string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, call)
}

// Calls returns the view calls issued so far, in order.
func (r *Reader) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	copy(out, r.calls)
	return out
}

func (r *Reader) OPCFees(_ context.Context, router common.Address) (*big.Int, *big.Int, error) {
	r.record("OPCFees")
	if r.FailFees {
		return nil, nil, fmt.Errorf("getOPCFees %s: %w", router, chain.ErrReverted)
	}
	return orZero(r.SwapOceanFee), orZero(r.SwapNonOceanFee), nil
}

func (r *Reader) OPCConsumeFee(_ context.Context, router common.Address) (*big.Int, error) {
	r.record("OPCConsumeFee")
	if r.FailConsumeFee {
		return nil, fmt.Errorf("getOPCConsumeFee %s: %w", router, chain.ErrReverted)
	}
	return orZero(r.ConsumeFee), nil
}

func (r *Reader) OPCProviderFee(_ context.Context, router common.Address) (*big.Int, error) {
	r.record("OPCProviderFee")
	if r.FailProviderFee {
		return nil, fmt.Errorf("getOPCProviderFee %s: %w", router, chain.ErrReverted)
	}
	return orZero(r.ProviderFee), nil
}

func (r *Reader) DistributorToken(_ context.Context, distributor common.Address) (common.Address, error) {
	r.record("DistributorToken")
	if r.FailDistributor {
		return common.Address{}, fmt.Errorf("token %s: %w", distributor, chain.ErrReverted)
	}
	if token, ok := r.DistributorTokens[distributor]; ok {
		return token, nil
	}
	return common.Address{}, nil
}

func (r *Reader) TokenInfo(_ context.Context, token common.Address) (chain.TokenDetails, error) {
	r.record("TokenInfo")
	if r.FailTokenInfo {
		return chain.TokenDetails{}, fmt.Errorf("token metadata %s: %w", token, chain.ErrReverted)
	}
	if details, ok := r.Tokens[token]; ok {
		return details, nil
	}
	return chain.TokenDetails{}, nil
}

func orZero(n *big.Int) *big.Int {
	if n == nil {
		return big.NewInt(0)
	}
	return n
}

// Tracked is one recorded dynamic-source registration.
type Tracked struct {
	Kind chain.SourceKind
	Addr common.Address
}

// Tracker records Track calls for assertions.
type Tracker struct {
	mu      sync.Mutex
	tracked []Tracked
}

func (t *Tracker) Track(kind chain.SourceKind, addr common.Address) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tracked = append(t.tracked, Tracked{Kind: kind, Addr: addr})
}

// TrackedSources returns the registrations recorded so far, in order.
func (t *Tracker) TrackedSources() []Tracked {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Tracked, len(t.tracked))
	copy(out, t.tracked)
	return out
}

// MetaAt builds an event position for tests. The tx hash is derived from
// block and log index, so distinct positions get distinct transactions
// unless a hash is set explicitly afterwards.
func MetaAt(contract common.Address, block int64, logIndex uint) chain.Meta {
	return chain.Meta{
		Address:   contract,
		Block:     block,
		Timestamp: block * 1000,
		TxHash:    common.BigToHash(big.NewInt(block*1_000_000 + int64(logIndex))),
		LogIndex:  logIndex,
	}
}
