// Package config loads and validates the YAML run configuration. The file
// is checked against an embedded CUE schema before it is decoded, so a
// malformed config is rejected with a field-level message instead of
// surfacing later as a zero value deep in the pipeline.
package config

import (
	"fmt"
	"math/big"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueyaml "cuelang.org/go/encoding/yaml"
	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"

	"github.com/tidewatch/tidewatch/internal/chain"
)

// schema constrains the config file shape. Addresses are 0x-prefixed hex;
// amounts are decimal strings because base-unit values overflow YAML
// integers.
const schema = `
#Address: =~"^0x[0-9a-fA-F]{40}$"
#Amount:  =~"^[0-9]+$"

db: string & !=""

network: {
	chain_id:     int & >0
	router:       #Address
	fee_decimals?: int & >=0 & <=38
}

views?: {
	swap_ocean_fee?:     #Amount
	swap_non_ocean_fee?: #Amount
	consume_fee?:        #Amount
	provider_fee?:       #Amount
	distributor_tokens?: {[#Address]: #Address}
	tokens?: {[#Address]: {
		name?:     string
		symbol?:   string
		decimals?: int & >=0 & <=255
	}}
}
`

// Config is the decoded run configuration.
type Config struct {
	DB      string  `yaml:"db"`
	Network Network `yaml:"network"`
	Views   Views   `yaml:"views"`
}

// Network identifies the chain the event log was exported from.
type Network struct {
	ChainID     int64  `yaml:"chain_id"`
	Router      string `yaml:"router"`
	FeeDecimals int32  `yaml:"fee_decimals"`
}

// Views carries pre-resolved contract view results for offline replay.
// Unset values behave like reverted calls.
type Views struct {
	SwapOceanFee      string                  `yaml:"swap_ocean_fee"`
	SwapNonOceanFee   string                  `yaml:"swap_non_ocean_fee"`
	ConsumeFee        string                  `yaml:"consume_fee"`
	ProviderFee       string                  `yaml:"provider_fee"`
	DistributorTokens map[string]string       `yaml:"distributor_tokens"`
	Tokens            map[string]TokenDetails `yaml:"tokens"`
}

// TokenDetails is static ERC-20 metadata for one token address.
type TokenDetails struct {
	Name     string `yaml:"name"`
	Symbol   string `yaml:"symbol"`
	Decimals uint8  `yaml:"decimals"`
}

// Load reads, validates and decodes the config file, applying defaults.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return Parse(path, raw)
}

// Parse validates raw YAML against the schema and decodes it.
func Parse(filename string, raw []byte) (*Config, error) {
	if err := validate(filename, raw); err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", filename, err)
	}

	if cfg.Network.FeeDecimals == 0 {
		cfg.Network.FeeDecimals = 18
	}
	return &cfg, nil
}

func validate(filename string, raw []byte) error {
	ctx := cuecontext.New()

	schemaVal := ctx.CompileString(schema)
	if err := schemaVal.Err(); err != nil {
		return fmt.Errorf("config schema: %w", err)
	}

	file, err := cueyaml.Extract(filename, raw)
	if err != nil {
		return fmt.Errorf("config %s: %w", filename, err)
	}
	docVal := ctx.BuildFile(file)
	if err := docVal.Err(); err != nil {
		return fmt.Errorf("config %s: %w", filename, err)
	}

	unified := schemaVal.Unify(docVal)
	if err := unified.Validate(cue.Final(), cue.Concrete(true)); err != nil {
		return fmt.Errorf("config %s: %w", filename, err)
	}
	return nil
}

// RouterAddress returns the parsed router address.
func (c *Config) RouterAddress() common.Address {
	return common.HexToAddress(c.Network.Router)
}

// StaticViews converts the views block into the form the offline contract
// reader consumes.
func (c *Config) StaticViews() chain.StaticViews {
	return c.Views.Static()
}

// Static converts the block into the form the offline contract reader
// consumes. The schema has already vetted address and amount syntax.
func (v Views) Static() chain.StaticViews {
	views := chain.StaticViews{
		SwapOceanFee:    parseAmount(v.SwapOceanFee),
		SwapNonOceanFee: parseAmount(v.SwapNonOceanFee),
		ConsumeFee:      parseAmount(v.ConsumeFee),
		ProviderFee:     parseAmount(v.ProviderFee),
	}

	if len(v.DistributorTokens) > 0 {
		views.DistributorTokens = make(map[common.Address]common.Address, len(v.DistributorTokens))
		for dist, token := range v.DistributorTokens {
			views.DistributorTokens[common.HexToAddress(dist)] = common.HexToAddress(token)
		}
	}
	if len(v.Tokens) > 0 {
		views.Tokens = make(map[common.Address]chain.TokenDetails, len(v.Tokens))
		for addr, details := range v.Tokens {
			views.Tokens[common.HexToAddress(addr)] = chain.TokenDetails{
				Name:     details.Name,
				Symbol:   details.Symbol,
				Decimals: details.Decimals,
			}
		}
	}
	return views
}

func parseAmount(s string) *big.Int {
	if s == "" {
		return nil
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil
	}
	return n
}
