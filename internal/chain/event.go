package chain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Meta is the chain position of an emitted event. The (Block, LogIndex)
// pair totally orders events within a chain; upstream delivery guarantees
// events arrive in that order, finalized.
type Meta struct {
	Address   common.Address // emitting contract
	Block     int64
	Timestamp int64
	TxHash    common.Hash
	LogIndex  uint
}

// EventMeta returns the event's chain position. Embedding Meta gives every
// typed event this method, which is all the Event interface asks for.
func (m Meta) EventMeta() Meta { return m }

// Event is implemented by every typed event the pipeline can dispatch.
type Event interface {
	EventMeta() Meta
	Kind() string
}

// Event kind names, as they appear in exported event logs.
const (
	KindTokenAdded                = "TokenAdded"
	KindTokenRemoved              = "TokenRemoved"
	KindOPCFeeChanged             = "OPCFeeChanged"
	KindSSContractAdded           = "SSContractAdded"
	KindSSContractRemoved         = "SSContractRemoved"
	KindFixedRateContractAdded    = "FixedRateContractAdded"
	KindFixedRateContractRemoved  = "FixedRateContractRemoved"
	KindDispenserContractAdded    = "DispenserContractAdded"
	KindDispenserContractRemoved  = "DispenserContractRemoved"
	KindAllocationSet             = "AllocationSet"
	KindAllocationSetMultiple     = "AllocationSetMultiple"
	KindVeDeposit                 = "VeDeposit"
	KindVeWithdraw                = "VeWithdraw"
	KindDistributorCheckpoint     = "DistributorCheckpoint"
)

// TokenAdded is emitted by the router when a token joins the approved list.
type TokenAdded struct {
	Meta
	Token common.Address
}

func (TokenAdded) Kind() string { return KindTokenAdded }

// TokenRemoved is emitted by the router when a token leaves the approved list.
type TokenRemoved struct {
	Meta
	Token common.Address
}

func (TokenRemoved) Kind() string { return KindTokenRemoved }

// OPCFeeChanged carries the four new fee values directly in its parameters.
// Amounts are base-unit integers; conversion to decimals happens in the
// handler using the configured fee decimals.
type OPCFeeChanged struct {
	Meta
	SwapOceanFee    *big.Int
	SwapNonOceanFee *big.Int
	ConsumeFee      *big.Int
	ProviderFee     *big.Int
}

func (OPCFeeChanged) Kind() string { return KindOPCFeeChanged }

// SSContractAdded registers a new single-sided staking template.
type SSContractAdded struct {
	Meta
	Contract common.Address
}

func (SSContractAdded) Kind() string { return KindSSContractAdded }

// SSContractRemoved removes a single-sided staking template.
type SSContractRemoved struct {
	Meta
	Contract common.Address
}

func (SSContractRemoved) Kind() string { return KindSSContractRemoved }

// FixedRateContractAdded registers a new fixed-rate exchange template.
// The handler additionally asks the Tracker to deliver future events from
// the new contract instance.
type FixedRateContractAdded struct {
	Meta
	Contract common.Address
}

func (FixedRateContractAdded) Kind() string { return KindFixedRateContractAdded }

// FixedRateContractRemoved removes a fixed-rate exchange template.
type FixedRateContractRemoved struct {
	Meta
	Contract common.Address
}

func (FixedRateContractRemoved) Kind() string { return KindFixedRateContractRemoved }

// DispenserContractAdded registers a new dispenser template.
type DispenserContractAdded struct {
	Meta
	Contract common.Address
}

func (DispenserContractAdded) Kind() string { return KindDispenserContractAdded }

// DispenserContractRemoved removes a dispenser template.
type DispenserContractRemoved struct {
	Meta
	Contract common.Address
}

func (DispenserContractRemoved) Kind() string { return KindDispenserContractRemoved }

// AllocationSet sets the sender's current allocation for one (nft, chain)
// target. Amount is the new absolute value, not a delta.
type AllocationSet struct {
	Meta
	Sender     common.Address
	NFTAddress common.Address
	ChainID    *big.Int
	Amount     *big.Int
}

func (AllocationSet) Kind() string { return KindAllocationSet }

// AllocationSetMultiple sets allocations for several targets in one
// transaction. The three slices are parallel and must have equal length.
type AllocationSetMultiple struct {
	Meta
	Sender       common.Address
	NFTAddresses []common.Address
	ChainIDs     []*big.Int
	Amounts      []*big.Int
}

func (AllocationSetMultiple) Kind() string { return KindAllocationSetMultiple }

// VeDeposit is emitted by the voting-escrow contract when a holder locks
// tokens (create lock, deposit for, increase amount, increase unlock time).
type VeDeposit struct {
	Meta
	Provider    common.Address
	Value       *big.Int
	UnlockTime  *big.Int
	DepositType *big.Int
}

func (VeDeposit) Kind() string { return KindVeDeposit }

// VeWithdraw is emitted when a holder withdraws an expired lock.
type VeWithdraw struct {
	Meta
	Provider common.Address
	Value    *big.Int
}

func (VeWithdraw) Kind() string { return KindVeWithdraw }

// DistributorCheckpoint is emitted by a fee distributor; the first one seen
// from a given address lazily creates the distributor entity.
type DistributorCheckpoint struct {
	Meta
}

func (DistributorCheckpoint) Kind() string { return KindDistributorCheckpoint }
