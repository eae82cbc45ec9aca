package entity

import (
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// AddressID renders an address as a lowercase hex entity id, matching the
// id convention of the upstream data set (not EIP-55 mixed case).
func AddressID(a common.Address) string {
	return strings.ToLower(a.Hex())
}

// HashID renders a transaction hash as a lowercase hex id.
func HashID(h common.Hash) string {
	return strings.ToLower(h.Hex())
}

// TargetKey builds the AllocationTarget id: "nftAddress-chainId".
func TargetKey(nftAddress string, chainID int64) string {
	return nftAddress + "-" + strconv.FormatInt(chainID, 10)
}

// AllocationKey builds the Allocation pair id: "sender-targetKey".
func AllocationKey(sender, targetKey string) string {
	return sender + "-" + targetKey
}

// UpdateKey builds the AllocationUpdate id: "txHash-allocationKey". One
// audit row per (transaction, pair); replaying the transaction maps to the
// same key and is absorbed by first-write-wins.
func UpdateKey(txHash, allocationKey string) string {
	return txHash + "-" + allocationKey
}

// DepositKey builds the VeDeposit id: "txHash-provider-logIndex". The log
// index disambiguates multiple deposits in one transaction.
func DepositKey(txHash, provider string, logIndex uint) string {
	return txHash + "-" + provider + "-" + strconv.FormatUint(uint64(logIndex), 10)
}
