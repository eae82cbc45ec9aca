package chain

import "github.com/ethereum/go-ethereum/common"

// SourceKind names a dynamically instantiated contract template.
type SourceKind string

const (
	SourceFixedRate SourceKind = "fixed-rate-exchange"
	SourceDispenser SourceKind = "dispenser"
)

// Tracker registers contract addresses created at runtime so the upstream
// event source starts delivering their events. Tracking is a side effect on
// future delivery, not on current state, so it has no return value.
type Tracker interface {
	Track(kind SourceKind, addr common.Address)
}
