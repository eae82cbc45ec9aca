package entity

import (
	"github.com/shopspring/decimal"
)

// Kind names an entity type in the store.
type Kind string

const (
	KindGlobalConfig     Kind = "global_config"
	KindTemplateRegistry Kind = "template_registry"
	KindVeOCEAN          Kind = "ve_ocean"
	KindAllocationUser   Kind = "allocation_user"
	KindAllocationTarget Kind = "allocation_target"
	KindAllocation       Kind = "allocation"
	KindAllocationUpdate Kind = "allocation_update"
	KindFeeDistributor   Kind = "fee_distributor"
	KindToken            Kind = "token"
	KindVeDeposit        Kind = "ve_deposit"
)

// Well-known ids for the singleton entities.
const (
	GlobalConfigID     = "opc"
	TemplateRegistryID = "templates"
)

// UpdateTypeSet is the only AllocationUpdate type: the pair amount was set
// to a new absolute value.
const UpdateTypeSet = "SET"

// DepositTypeWithdraw marks a VeDeposit row recorded from a withdraw event.
// The escrow contract uses 0..3 for its deposit variants.
const DepositTypeWithdraw = 4

// Entity is implemented by every persisted entity type.
type Entity interface {
	EntityKind() Kind
	EntityID() string
}

// GlobalConfig is the singleton holding protocol-wide fee rates and the
// ordered approved-token list.
type GlobalConfig struct {
	ID              string          `json:"id"`
	ApprovedTokens  []string        `json:"approvedTokens"`
	SwapOceanFee    decimal.Decimal `json:"swapOceanFee"`
	SwapNonOceanFee decimal.Decimal `json:"swapNonOceanFee"`
	OrderFee        decimal.Decimal `json:"orderFee"`
	ProviderFee     decimal.Decimal `json:"providerFee"`
}

func (GlobalConfig) EntityKind() Kind  { return KindGlobalConfig }
func (c GlobalConfig) EntityID() string { return c.ID }

// TemplateRegistry is the singleton holding the three template lists.
type TemplateRegistry struct {
	ID                 string   `json:"id"`
	SSTemplates        []string `json:"ssTemplates"`
	FixedRateTemplates []string `json:"fixedRateTemplates"`
	DispenserTemplates []string `json:"dispenserTemplates"`
}

func (TemplateRegistry) EntityKind() Kind  { return KindTemplateRegistry }
func (r TemplateRegistry) EntityID() string { return r.ID }

// VeOCEAN is a holder's voting-escrow lock state.
type VeOCEAN struct {
	ID           string          `json:"id"`
	UnlockTime   int64           `json:"unlockTime"`
	LockedAmount decimal.Decimal `json:"lockedAmount"`
	Block        int64           `json:"block"`
}

func (VeOCEAN) EntityKind() Kind  { return KindVeOCEAN }
func (v VeOCEAN) EntityID() string { return v.ID }

// AllocationUser aggregates a sender's allocations across all targets.
// AllocatedTotal is maintained as the sum of Allocated over the user's
// allocation pairs.
type AllocationUser struct {
	ID             string          `json:"id"`
	AllocatedTotal decimal.Decimal `json:"allocatedTotal"`
	VeOcean        string          `json:"veOcean"`
	FirstContact   int64           `json:"firstContact"`
	LastContact    int64           `json:"lastContact"`
	Tx             string          `json:"tx"`
	Block          int64           `json:"block"`
}

func (AllocationUser) EntityKind() Kind  { return KindAllocationUser }
func (u AllocationUser) EntityID() string { return u.ID }

// AllocationTarget aggregates allocations towards one (nft, chain) target
// across all users.
type AllocationTarget struct {
	ID             string          `json:"id"`
	AllocatedTotal decimal.Decimal `json:"allocatedTotal"`
	ChainID        int64           `json:"chainId"`
	NFTAddress     string          `json:"nftAddress"`
	FirstContact   int64           `json:"firstContact"`
	LastContact    int64           `json:"lastContact"`
	Tx             string          `json:"tx"`
	Block          int64           `json:"block"`
}

func (AllocationTarget) EntityKind() Kind  { return KindAllocationTarget }
func (a AllocationTarget) EntityID() string { return a.ID }

// Allocation is the (user, target) pair record. Allocated is the current
// set value, not a running sum; history lives in AllocationUpdate rows.
type Allocation struct {
	ID           string          `json:"id"`
	User         string          `json:"allocationUser"`
	Target       string          `json:"allocationId"`
	Allocated    decimal.Decimal `json:"allocated"`
	ChainID      int64           `json:"chainId"`
	NFTAddress   string          `json:"nftAddress"`
	FirstContact int64           `json:"firstContact"`
	LastContact  int64           `json:"lastContact"`
	Tx           string          `json:"tx"`
	Block        int64           `json:"block"`
}

func (Allocation) EntityKind() Kind  { return KindAllocation }
func (a Allocation) EntityID() string { return a.ID }

// AllocationUpdate is an immutable audit record of one set operation,
// keyed by (txHash, allocationKey). First write wins; replays are no-ops.
type AllocationUpdate struct {
	ID             string          `json:"id"`
	Allocation     string          `json:"veAllocation"`
	Type           string          `json:"type"`
	AllocatedTotal decimal.Decimal `json:"allocatedTotal"`
	Timestamp      int64           `json:"timestamp"`
	Tx             string          `json:"tx"`
	Block          int64           `json:"block"`
}

func (AllocationUpdate) EntityKind() Kind  { return KindAllocationUpdate }
func (u AllocationUpdate) EntityID() string { return u.ID }

// FeeDistributor records a reward distributor contract and its token,
// resolved by a view call at creation time.
type FeeDistributor struct {
	ID    string `json:"id"`
	Token string `json:"token"`
}

func (FeeDistributor) EntityKind() Kind  { return KindFeeDistributor }
func (d FeeDistributor) EntityID() string { return d.ID }

// Token is a referenced ERC-20 token. Metadata is best-effort: reads that
// revert leave the fields empty.
type Token struct {
	ID       string `json:"id"`
	Address  string `json:"address"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
}

func (Token) EntityKind() Kind  { return KindToken }
func (t Token) EntityID() string { return t.ID }

// VeDeposit is an immutable record of one voting-escrow deposit or
// withdrawal. Value is negative for withdrawals, so a holder's
// VeOCEAN.LockedAmount equals the sum of their deposit values.
type VeDeposit struct {
	ID         string          `json:"id"`
	Provider   string          `json:"provider"`
	Sender     string          `json:"sender"`
	Value      decimal.Decimal `json:"value"`
	UnlockTime int64           `json:"unlockTime"`
	Type       int64           `json:"type"`
	Timestamp  int64           `json:"timestamp"`
	Tx         string          `json:"tx"`
	Block      int64           `json:"block"`
}

func (VeDeposit) EntityKind() Kind  { return KindVeDeposit }
func (d VeDeposit) EntityID() string { return d.ID }
