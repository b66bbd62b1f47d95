package chain

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// The WasteCoin contract uses the standard 18 decimals.
const tokenDecimals = 18

func ToBaseUnit(amount float64) *big.Int {
	return decimal.NewFromFloat(amount).Shift(tokenDecimals).BigInt()
}

func FromBaseUnit(v *big.Int) string {
	return decimal.NewFromBigInt(v, -tokenDecimals).String()
}
