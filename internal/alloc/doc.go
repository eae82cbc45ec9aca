// Package alloc implements the allocation accounting engine: create-or-load
// materialization of the vote-escrow entities and delta-correct maintenance
// of the per-user and per-target allocated totals.
//
// The invariants this package maintains, assuming events are applied
// sequentially and atomically:
//
//   - AllocationUser.AllocatedTotal equals the sum of Allocated over the
//     user's allocation pairs
//   - AllocationTarget.AllocatedTotal equals the sum of Allocated over the
//     target's allocation pairs
//   - VeOCEAN.LockedAmount equals the sum of the holder's VeDeposit values
//
// Totals are updated by subtracting the pair's old amount and then adding
// the new one as two separate operations on the stored total, never by
// applying a precomputed delta. The amounts are exact decimals, so either
// form is arithmetically equal; keeping the subtract-then-add shape keeps
// this code reviewable against the upstream accounting it mirrors.
package alloc
