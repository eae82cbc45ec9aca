// Package entity defines the derived aggregate entities the pipeline
// maintains and typed access to them over an untyped keyed store.
//
// Every entity is identified by (kind, id). Ids follow the upstream data
// set's conventions: lowercase hex addresses, and composite keys built
// by joining parts with "-" (target = "nftAddress-chainId", allocation
// pair = "sender-targetKey", audit row = "txHash-allocationKey").
//
// Entities are created lazily with zeroed defaults the first time an event
// references them (create-or-load) and are never destroyed; removal is
// always expressed as list-membership removal on a registry entity.
package entity
