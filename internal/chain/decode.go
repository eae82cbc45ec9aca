package chain

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// envelope is one line of an exported event log: chain position plus the
// event-specific parameters, still raw.
type envelope struct {
	Kind      string          `json:"kind"`
	Address   string          `json:"address"`
	Block     int64           `json:"block"`
	Timestamp int64           `json:"timestamp"`
	Tx        string          `json:"tx"`
	LogIndex  uint            `json:"logIndex"`
	Params    json.RawMessage `json:"params"`
}

// ReadLog parses an NDJSON event log: one JSON envelope per line, blank
// lines ignored. The file is expected to already be in delivery order;
// ReadLog does not sort.
func ReadLog(r io.Reader) ([]Event, error) {
	var events []Event
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		data := sc.Bytes()
		if len(data) == 0 {
			continue
		}
		ev, err := ParseEvent(data)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		events = append(events, ev)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read event log: %w", err)
	}
	return events, nil
}

// ParseEvent decodes a single JSON envelope into a typed event.
func ParseEvent(data []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("parse envelope: %w", err)
	}

	addr, err := parseAddress(env.Address)
	if err != nil {
		return nil, fmt.Errorf("event %s: address: %w", env.Kind, err)
	}
	meta := Meta{
		Address:   addr,
		Block:     env.Block,
		Timestamp: env.Timestamp,
		TxHash:    common.HexToHash(env.Tx),
		LogIndex:  env.LogIndex,
	}

	ev, err := parseParams(env.Kind, meta, env.Params)
	if err != nil {
		return nil, fmt.Errorf("event %s: %w", env.Kind, err)
	}
	return ev, nil
}

func parseParams(kind string, meta Meta, raw json.RawMessage) (Event, error) {
	switch kind {
	case KindTokenAdded, KindTokenRemoved:
		var p struct {
			Token string `json:"token"`
		}
		if err := unmarshalParams(raw, &p); err != nil {
			return nil, err
		}
		token, err := parseAddress(p.Token)
		if err != nil {
			return nil, fmt.Errorf("token: %w", err)
		}
		if kind == KindTokenAdded {
			return TokenAdded{Meta: meta, Token: token}, nil
		}
		return TokenRemoved{Meta: meta, Token: token}, nil

	case KindOPCFeeChanged:
		var p struct {
			SwapOceanFee    string `json:"swapOceanFee"`
			SwapNonOceanFee string `json:"swapNonOceanFee"`
			ConsumeFee      string `json:"consumeFee"`
			ProviderFee     string `json:"providerFee"`
		}
		if err := unmarshalParams(raw, &p); err != nil {
			return nil, err
		}
		ev := OPCFeeChanged{Meta: meta}
		var err error
		if ev.SwapOceanFee, err = parseBig(p.SwapOceanFee); err != nil {
			return nil, fmt.Errorf("swapOceanFee: %w", err)
		}
		if ev.SwapNonOceanFee, err = parseBig(p.SwapNonOceanFee); err != nil {
			return nil, fmt.Errorf("swapNonOceanFee: %w", err)
		}
		if ev.ConsumeFee, err = parseBig(p.ConsumeFee); err != nil {
			return nil, fmt.Errorf("consumeFee: %w", err)
		}
		if ev.ProviderFee, err = parseBig(p.ProviderFee); err != nil {
			return nil, fmt.Errorf("providerFee: %w", err)
		}
		return ev, nil

	case KindSSContractAdded, KindSSContractRemoved,
		KindFixedRateContractAdded, KindFixedRateContractRemoved,
		KindDispenserContractAdded, KindDispenserContractRemoved:
		var p struct {
			Contract string `json:"contract"`
		}
		if err := unmarshalParams(raw, &p); err != nil {
			return nil, err
		}
		contract, err := parseAddress(p.Contract)
		if err != nil {
			return nil, fmt.Errorf("contract: %w", err)
		}
		switch kind {
		case KindSSContractAdded:
			return SSContractAdded{Meta: meta, Contract: contract}, nil
		case KindSSContractRemoved:
			return SSContractRemoved{Meta: meta, Contract: contract}, nil
		case KindFixedRateContractAdded:
			return FixedRateContractAdded{Meta: meta, Contract: contract}, nil
		case KindFixedRateContractRemoved:
			return FixedRateContractRemoved{Meta: meta, Contract: contract}, nil
		case KindDispenserContractAdded:
			return DispenserContractAdded{Meta: meta, Contract: contract}, nil
		default:
			return DispenserContractRemoved{Meta: meta, Contract: contract}, nil
		}

	case KindAllocationSet:
		var p struct {
			Sender  string `json:"sender"`
			NFT     string `json:"nft"`
			ChainID string `json:"chainId"`
			Amount  string `json:"amount"`
		}
		if err := unmarshalParams(raw, &p); err != nil {
			return nil, err
		}
		ev := AllocationSet{Meta: meta}
		var err error
		if ev.Sender, err = parseAddress(p.Sender); err != nil {
			return nil, fmt.Errorf("sender: %w", err)
		}
		if ev.NFTAddress, err = parseAddress(p.NFT); err != nil {
			return nil, fmt.Errorf("nft: %w", err)
		}
		if ev.ChainID, err = parseBig(p.ChainID); err != nil {
			return nil, fmt.Errorf("chainId: %w", err)
		}
		if ev.Amount, err = parseBig(p.Amount); err != nil {
			return nil, fmt.Errorf("amount: %w", err)
		}
		return ev, nil

	case KindAllocationSetMultiple:
		var p struct {
			Sender   string   `json:"sender"`
			NFTs     []string `json:"nfts"`
			ChainIDs []string `json:"chainIds"`
			Amounts  []string `json:"amounts"`
		}
		if err := unmarshalParams(raw, &p); err != nil {
			return nil, err
		}
		ev := AllocationSetMultiple{Meta: meta}
		var err error
		if ev.Sender, err = parseAddress(p.Sender); err != nil {
			return nil, fmt.Errorf("sender: %w", err)
		}
		for i, s := range p.NFTs {
			a, err := parseAddress(s)
			if err != nil {
				return nil, fmt.Errorf("nfts[%d]: %w", i, err)
			}
			ev.NFTAddresses = append(ev.NFTAddresses, a)
		}
		for i, s := range p.ChainIDs {
			n, err := parseBig(s)
			if err != nil {
				return nil, fmt.Errorf("chainIds[%d]: %w", i, err)
			}
			ev.ChainIDs = append(ev.ChainIDs, n)
		}
		for i, s := range p.Amounts {
			n, err := parseBig(s)
			if err != nil {
				return nil, fmt.Errorf("amounts[%d]: %w", i, err)
			}
			ev.Amounts = append(ev.Amounts, n)
		}
		return ev, nil

	case KindVeDeposit:
		var p struct {
			Provider    string `json:"provider"`
			Value       string `json:"value"`
			UnlockTime  string `json:"unlockTime"`
			DepositType string `json:"depositType"`
		}
		if err := unmarshalParams(raw, &p); err != nil {
			return nil, err
		}
		ev := VeDeposit{Meta: meta}
		var err error
		if ev.Provider, err = parseAddress(p.Provider); err != nil {
			return nil, fmt.Errorf("provider: %w", err)
		}
		if ev.Value, err = parseBig(p.Value); err != nil {
			return nil, fmt.Errorf("value: %w", err)
		}
		if ev.UnlockTime, err = parseBig(p.UnlockTime); err != nil {
			return nil, fmt.Errorf("unlockTime: %w", err)
		}
		if ev.DepositType, err = parseBig(p.DepositType); err != nil {
			return nil, fmt.Errorf("depositType: %w", err)
		}
		return ev, nil

	case KindVeWithdraw:
		var p struct {
			Provider string `json:"provider"`
			Value    string `json:"value"`
		}
		if err := unmarshalParams(raw, &p); err != nil {
			return nil, err
		}
		ev := VeWithdraw{Meta: meta}
		var err error
		if ev.Provider, err = parseAddress(p.Provider); err != nil {
			return nil, fmt.Errorf("provider: %w", err)
		}
		if ev.Value, err = parseBig(p.Value); err != nil {
			return nil, fmt.Errorf("value: %w", err)
		}
		return ev, nil

	case KindDistributorCheckpoint:
		return DistributorCheckpoint{Meta: meta}, nil

	default:
		return nil, fmt.Errorf("unknown event kind %q", kind)
	}
}

func unmarshalParams(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return fmt.Errorf("missing params")
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("parse params: %w", err)
	}
	return nil
}

func parseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid address %q", s)
	}
	return common.HexToAddress(s), nil
}

func parseBig(s string) (*big.Int, error) {
	if s == "" {
		return nil, fmt.Errorf("missing integer value")
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid integer %q", s)
	}
	return n, nil
}
