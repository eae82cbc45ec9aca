package chain

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// StaticViews holds pre-resolved view-call results for offline replay of an
// exported event log, where no live chain is available to query. Any value
// left unset behaves like a reverted call.
type StaticViews struct {
	SwapOceanFee      *big.Int
	SwapNonOceanFee   *big.Int
	ConsumeFee        *big.Int
	ProviderFee       *big.Int
	DistributorTokens map[common.Address]common.Address
	Tokens            map[common.Address]TokenDetails
}

// StaticReader is a ContractReader that answers from StaticViews.
type StaticReader struct {
	views StaticViews
}

func NewStaticReader(views StaticViews) *StaticReader {
	return &StaticReader{views: views}
}

func (r *StaticReader) OPCFees(_ context.Context, router common.Address) (*big.Int, *big.Int, error) {
	if r.views.SwapOceanFee == nil || r.views.SwapNonOceanFee == nil {
		return nil, nil, fmt.Errorf("getOPCFees %s: %w", router, ErrReverted)
	}
	return r.views.SwapOceanFee, r.views.SwapNonOceanFee, nil
}

func (r *StaticReader) OPCConsumeFee(_ context.Context, router common.Address) (*big.Int, error) {
	if r.views.ConsumeFee == nil {
		return nil, fmt.Errorf("getOPCConsumeFee %s: %w", router, ErrReverted)
	}
	return r.views.ConsumeFee, nil
}

func (r *StaticReader) OPCProviderFee(_ context.Context, router common.Address) (*big.Int, error) {
	if r.views.ProviderFee == nil {
		return nil, fmt.Errorf("getOPCProviderFee %s: %w", router, ErrReverted)
	}
	return r.views.ProviderFee, nil
}

func (r *StaticReader) DistributorToken(_ context.Context, distributor common.Address) (common.Address, error) {
	token, ok := r.views.DistributorTokens[distributor]
	if !ok {
		return common.Address{}, fmt.Errorf("token %s: %w", distributor, ErrReverted)
	}
	return token, nil
}

func (r *StaticReader) TokenInfo(_ context.Context, token common.Address) (TokenDetails, error) {
	details, ok := r.views.Tokens[token]
	if !ok {
		return TokenDetails{}, fmt.Errorf("token metadata %s: %w", token, ErrReverted)
	}
	return details, nil
}

// LogTracker records dynamic source registrations to the log only. Useful
// when replaying an exported log: the log already contains the events the
// tracked contracts would emit, so there is nothing to subscribe to.
type LogTracker struct{}

func (LogTracker) Track(kind SourceKind, addr common.Address) {
	slog.Info("dynamic source registered", "kind", string(kind), "address", addr.Hex())
}
