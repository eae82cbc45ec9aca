package handlers

import (
	"context"
	"fmt"

	"github.com/tidewatch/tidewatch/internal/chain"
	"github.com/tidewatch/tidewatch/internal/entity"
	"github.com/tidewatch/tidewatch/internal/units"
)

func (h *Set) allocationSet(b entity.Bucket, ev chain.AllocationSet) error {
	amount := units.ToDecimal(ev.Amount, h.feeDecimals)
	return h.alloc.SetAllocation(b, ev.EventMeta(),
		entity.AddressID(ev.Sender),
		entity.AddressID(ev.NFTAddress),
		ev.ChainID.Int64(),
		amount,
	)
}

// allocationSetMultiple applies one set operation per parallel triple, in
// event order. A length mismatch means the event was decoded from a
// malformed log; nothing is applied.
func (h *Set) allocationSetMultiple(b entity.Bucket, ev chain.AllocationSetMultiple) error {
	if len(ev.NFTAddresses) != len(ev.ChainIDs) || len(ev.NFTAddresses) != len(ev.Amounts) {
		return fmt.Errorf("allocation set multiple: mismatched lengths (nfts=%d chainIds=%d amounts=%d)",
			len(ev.NFTAddresses), len(ev.ChainIDs), len(ev.Amounts))
	}

	sender := entity.AddressID(ev.Sender)
	meta := ev.EventMeta()
	for i := range ev.NFTAddresses {
		amount := units.ToDecimal(ev.Amounts[i], h.feeDecimals)
		err := h.alloc.SetAllocation(b, meta, sender, entity.AddressID(ev.NFTAddresses[i]), ev.ChainIDs[i].Int64(), amount)
		if err != nil {
			return err
		}
	}
	return nil
}

func (h *Set) veDeposit(b entity.Bucket, ev chain.VeDeposit) error {
	value := units.ToDecimal(ev.Value, h.feeDecimals)
	return h.alloc.ApplyDeposit(b, ev.EventMeta(),
		entity.AddressID(ev.Provider),
		value,
		ev.UnlockTime.Int64(),
		ev.DepositType.Int64(),
	)
}

// veWithdraw records the withdrawal as a negative-value deposit so the
// holder's locked amount stays the sum of their deposit records.
func (h *Set) veWithdraw(b entity.Bucket, ev chain.VeWithdraw) error {
	value := units.ToDecimal(ev.Value, h.feeDecimals).Neg()
	return h.alloc.ApplyDeposit(b, ev.EventMeta(),
		entity.AddressID(ev.Provider),
		value,
		0,
		entity.DepositTypeWithdraw,
	)
}

func (h *Set) distributorCheckpoint(ctx context.Context, b entity.Bucket, ev chain.DistributorCheckpoint) error {
	_, err := h.alloc.FeeDistributor(ctx, b, ev.Address)
	return err
}
