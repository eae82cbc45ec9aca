package handlers

import (
	"context"
	"fmt"

	"github.com/tidewatch/tidewatch/internal/alloc"
	"github.com/tidewatch/tidewatch/internal/chain"
	"github.com/tidewatch/tidewatch/internal/entity"
)

// Set holds one handler per event kind and the collaborators they share.
type Set struct {
	alloc       *alloc.Engine
	reader      chain.ContractReader
	tracker     chain.Tracker
	feeDecimals int32
}

// New builds the handler set. feeDecimals is the base-unit exponent used to
// convert raw fee and allocation amounts (18 on mainnet).
func New(engine *alloc.Engine, reader chain.ContractReader, tracker chain.Tracker, feeDecimals int32) *Set {
	return &Set{
		alloc:       engine,
		reader:      reader,
		tracker:     tracker,
		feeDecimals: feeDecimals,
	}
}

// Dispatch routes one typed event to its handler. An unknown event type is
// an error; the pipeline logs it and moves on.
func (h *Set) Dispatch(ctx context.Context, b entity.Bucket, ev chain.Event) error {
	switch ev := ev.(type) {
	case chain.TokenAdded:
		return h.tokenAdded(ctx, b, ev)
	case chain.TokenRemoved:
		return h.tokenRemoved(b, ev)
	case chain.OPCFeeChanged:
		return h.opcFeeChanged(b, ev)
	case chain.SSContractAdded:
		return h.ssContractAdded(b, ev)
	case chain.SSContractRemoved:
		return h.ssContractRemoved(b, ev)
	case chain.FixedRateContractAdded:
		return h.fixedRateContractAdded(b, ev)
	case chain.FixedRateContractRemoved:
		return h.fixedRateContractRemoved(b, ev)
	case chain.DispenserContractAdded:
		return h.dispenserContractAdded(b, ev)
	case chain.DispenserContractRemoved:
		return h.dispenserContractRemoved(b, ev)
	case chain.AllocationSet:
		return h.allocationSet(b, ev)
	case chain.AllocationSetMultiple:
		return h.allocationSetMultiple(b, ev)
	case chain.VeDeposit:
		return h.veDeposit(b, ev)
	case chain.VeWithdraw:
		return h.veWithdraw(b, ev)
	case chain.DistributorCheckpoint:
		return h.distributorCheckpoint(ctx, b, ev)
	default:
		return fmt.Errorf("handlers: no handler for event kind %q", ev.Kind())
	}
}
