// Package units converts raw base-unit chain amounts into exact decimals.
package units

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// ToDecimal returns raw / 10^decimals as an exact decimal. No floating
// point is involved, so 256-bit magnitudes convert without rounding or
// overflow. A nil raw amount converts to zero.
func ToDecimal(raw *big.Int, decimals int32) decimal.Decimal {
	if raw == nil || raw.Sign() == 0 {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(raw, -decimals)
}
