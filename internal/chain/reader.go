package chain

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ErrReverted marks a view call that reverted on-chain. Handlers treat it
// as an abort signal for the current event: nothing is persisted and the
// pipeline moves on. Wrap it so errors.Is still matches.
var ErrReverted = errors.New("chain: contract call reverted")

// TokenDetails is the metadata readable from a token contract.
type TokenDetails struct {
	Name     string
	Symbol   string
	Decimals uint8
}

// ContractReader issues synchronous read-only view calls. Every call either
// returns a value or an error; no retries, no timeouts - retry policy, if
// any, belongs to the implementation behind this interface.
type ContractReader interface {
	// OPCFees returns the router's (swapOceanFee, swapNonOceanFee) pair.
	OPCFees(ctx context.Context, router common.Address) (*big.Int, *big.Int, error)

	// OPCConsumeFee returns the router's order consume fee.
	OPCConsumeFee(ctx context.Context, router common.Address) (*big.Int, error)

	// OPCProviderFee returns the router's provider fee.
	OPCProviderFee(ctx context.Context, router common.Address) (*big.Int, error)

	// DistributorToken returns the reward token address of a fee distributor.
	DistributorToken(ctx context.Context, distributor common.Address) (common.Address, error)

	// TokenInfo returns a token's metadata. Callers treat failures as
	// best-effort: a token entity is still created with empty metadata.
	TokenInfo(ctx context.Context, token common.Address) (TokenDetails, error)
}
