package alloc

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"

	"github.com/tidewatch/tidewatch/internal/chain"
	"github.com/tidewatch/tidewatch/internal/entity"
)

// Engine materializes and mutates the vote-escrow entities. All operations
// run inside the caller's per-event unit of work; Engine itself holds no
// mutable state, only the contract view collaborator.
type Engine struct {
	reader chain.ContractReader
}

func New(reader chain.ContractReader) *Engine {
	return &Engine{reader: reader}
}

// VeOCEAN loads the holder's lock record, creating it with zero defaults on
// first reference. An existing record is never re-initialized.
func (e *Engine) VeOCEAN(b entity.Bucket, id string) (entity.VeOCEAN, error) {
	ve, ok, err := entity.Load[entity.VeOCEAN](b, id)
	if err != nil {
		return ve, err
	}
	if ok {
		return ve, nil
	}

	ve = entity.VeOCEAN{ID: id, LockedAmount: decimal.Zero}
	if err := entity.Save(b, ve); err != nil {
		return ve, err
	}
	return ve, nil
}

// User loads the sender's aggregate record, creating it on first reference.
// Creation also materializes the holder's VeOCEAN record and stamps
// provenance from the triggering event.
func (e *Engine) User(b entity.Bucket, meta chain.Meta, sender string) (entity.AllocationUser, error) {
	user, ok, err := entity.Load[entity.AllocationUser](b, sender)
	if err != nil {
		return user, err
	}
	if ok {
		return user, nil
	}

	ve, err := e.VeOCEAN(b, sender)
	if err != nil {
		return user, err
	}

	user = entity.AllocationUser{
		ID:             sender,
		AllocatedTotal: decimal.Zero,
		VeOcean:        ve.ID,
		FirstContact:   meta.Timestamp,
		Tx:             entity.HashID(meta.TxHash),
		Block:          meta.Block,
	}
	if err := entity.Save(b, user); err != nil {
		return user, err
	}
	return user, nil
}

// Target loads the (nft, chain) aggregate record, creating it on first
// reference with zero defaults.
func (e *Engine) Target(b entity.Bucket, meta chain.Meta, id string) (entity.AllocationTarget, error) {
	target, ok, err := entity.Load[entity.AllocationTarget](b, id)
	if err != nil {
		return target, err
	}
	if ok {
		return target, nil
	}

	target = entity.AllocationTarget{
		ID:             id,
		AllocatedTotal: decimal.Zero,
		FirstContact:   meta.Timestamp,
		Tx:             entity.HashID(meta.TxHash),
		Block:          meta.Block,
	}
	if err := entity.Save(b, target); err != nil {
		return target, err
	}
	return target, nil
}

// Allocation loads the (sender, target) pair record, creating it on first
// reference. Creating a pair materializes both its endpoints.
func (e *Engine) Allocation(b entity.Bucket, meta chain.Meta, sender, targetKey string) (entity.Allocation, error) {
	key := entity.AllocationKey(sender, targetKey)
	pair, ok, err := entity.Load[entity.Allocation](b, key)
	if err != nil {
		return pair, err
	}
	if ok {
		return pair, nil
	}

	user, err := e.User(b, meta, sender)
	if err != nil {
		return pair, err
	}
	target, err := e.Target(b, meta, targetKey)
	if err != nil {
		return pair, err
	}

	pair = entity.Allocation{
		ID:           key,
		User:         user.ID,
		Target:       target.ID,
		Allocated:    decimal.Zero,
		FirstContact: meta.Timestamp,
		Tx:           entity.HashID(meta.TxHash),
		Block:        meta.Block,
	}
	if err := entity.Save(b, pair); err != nil {
		return pair, err
	}
	return pair, nil
}

// SetAllocation sets the sender's current allocation for one target to an
// absolute amount and keeps both aggregate totals consistent with it.
//
// The pair's previous amount is subtracted from the user and target totals
// before the new amount is added, so re-allocating (including to the same
// value) never drifts the sums. An immutable audit record keyed by
// (txHash, pair) is written once; replaying the same transaction leaves it
// and the totals untouched beyond the first application.
func (e *Engine) SetAllocation(b entity.Bucket, meta chain.Meta, sender, nftAddress string, chainID int64, amount decimal.Decimal) error {
	targetKey := entity.TargetKey(nftAddress, chainID)

	user, err := e.User(b, meta, sender)
	if err != nil {
		return fmt.Errorf("set allocation: %w", err)
	}
	target, err := e.Target(b, meta, targetKey)
	if err != nil {
		return fmt.Errorf("set allocation: %w", err)
	}
	pair, err := e.Allocation(b, meta, sender, targetKey)
	if err != nil {
		return fmt.Errorf("set allocation: %w", err)
	}

	user.AllocatedTotal = user.AllocatedTotal.Sub(pair.Allocated).Add(amount)
	target.AllocatedTotal = target.AllocatedTotal.Sub(pair.Allocated).Add(amount)

	pair.Allocated = amount
	pair.ChainID = chainID
	pair.NFTAddress = nftAddress

	user.LastContact = meta.Timestamp
	target.LastContact = meta.Timestamp
	pair.LastContact = meta.Timestamp

	target.ChainID = chainID
	target.NFTAddress = nftAddress

	if err := e.writeUpdate(b, meta, pair.ID, amount); err != nil {
		return fmt.Errorf("set allocation: %w", err)
	}

	if err := entity.Save(b, user); err != nil {
		return fmt.Errorf("set allocation: %w", err)
	}
	if err := entity.Save(b, target); err != nil {
		return fmt.Errorf("set allocation: %w", err)
	}
	if err := entity.Save(b, pair); err != nil {
		return fmt.Errorf("set allocation: %w", err)
	}
	return nil
}

// writeUpdate appends the audit record for one set operation. First write
// wins: a replayed transaction hits the same key and is absorbed.
func (e *Engine) writeUpdate(b entity.Bucket, meta chain.Meta, allocationKey string, amount decimal.Decimal) error {
	tx := entity.HashID(meta.TxHash)
	update := entity.AllocationUpdate{
		ID:             entity.UpdateKey(tx, allocationKey),
		Allocation:     allocationKey,
		Type:           entity.UpdateTypeSet,
		AllocatedTotal: amount,
		Timestamp:      meta.Timestamp,
		Tx:             tx,
		Block:          meta.Block,
	}
	_, err := entity.SaveIfAbsent(b, update)
	return err
}

// FeeDistributor loads a distributor record, creating it on first
// reference. Creation resolves the distributor's reward token through the
// contract view collaborator; a failed read aborts the caller's event.
func (e *Engine) FeeDistributor(ctx context.Context, b entity.Bucket, addr common.Address) (entity.FeeDistributor, error) {
	id := entity.AddressID(addr)
	dist, ok, err := entity.Load[entity.FeeDistributor](b, id)
	if err != nil {
		return dist, err
	}
	if ok {
		return dist, nil
	}

	tokenAddr, err := e.reader.DistributorToken(ctx, addr)
	if err != nil {
		return dist, fmt.Errorf("fee distributor %s: %w", id, err)
	}
	token, err := e.Token(ctx, b, tokenAddr)
	if err != nil {
		return dist, err
	}

	dist = entity.FeeDistributor{ID: id, Token: token.ID}
	if err := entity.Save(b, dist); err != nil {
		return dist, err
	}
	return dist, nil
}

// Token loads a token record, creating it on first reference. Metadata
// reads are best-effort: a reverted call leaves name/symbol/decimals at
// their zero values rather than aborting the event. Strings read from
// contracts are NFC-normalized before they are persisted.
func (e *Engine) Token(ctx context.Context, b entity.Bucket, addr common.Address) (entity.Token, error) {
	id := entity.AddressID(addr)
	token, ok, err := entity.Load[entity.Token](b, id)
	if err != nil {
		return token, err
	}
	if ok {
		return token, nil
	}

	token = entity.Token{ID: id, Address: id}
	if details, err := e.reader.TokenInfo(ctx, addr); err == nil {
		token.Name = norm.NFC.String(details.Name)
		token.Symbol = norm.NFC.String(details.Symbol)
		token.Decimals = details.Decimals
	}

	if err := entity.Save(b, token); err != nil {
		return token, err
	}
	return token, nil
}

// ApplyDeposit records one voting-escrow deposit (or withdrawal, with a
// negative value) and folds it into the holder's lock state. The deposit
// record is first-write-wins; on replay the lock state is left untouched
// so the locked amount stays equal to the sum of recorded deposits.
func (e *Engine) ApplyDeposit(b entity.Bucket, meta chain.Meta, provider string, value decimal.Decimal, unlockTime, depositType int64) error {
	ve, err := e.VeOCEAN(b, provider)
	if err != nil {
		return fmt.Errorf("apply deposit: %w", err)
	}

	deposit := entity.VeDeposit{
		ID:         entity.DepositKey(entity.HashID(meta.TxHash), provider, meta.LogIndex),
		Provider:   provider,
		Sender:     provider,
		Value:      value,
		UnlockTime: unlockTime,
		Type:       depositType,
		Timestamp:  meta.Timestamp,
		Tx:         entity.HashID(meta.TxHash),
		Block:      meta.Block,
	}
	inserted, err := entity.SaveIfAbsent(b, deposit)
	if err != nil {
		return fmt.Errorf("apply deposit: %w", err)
	}
	if !inserted {
		return nil
	}

	ve.LockedAmount = ve.LockedAmount.Add(value)
	if unlockTime > 0 {
		ve.UnlockTime = unlockTime
	}
	ve.Block = meta.Block
	if err := entity.Save(b, ve); err != nil {
		return fmt.Errorf("apply deposit: %w", err)
	}
	return nil
}
