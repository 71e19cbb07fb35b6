package util

import (
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

// Round rounds the exact binary value of v to the given number of decimal
// places, ties to even. Round(2.675, 2) is 2.67 because 2.675 is stored as
// 2.67499999... NaN and infinities are returned unchanged.
func Round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	f, _ := exactDecimal(v).RoundBank(places).Float64()
	return f
}

// exactDecimal expands v = mant * 2^exp into a decimal without loss.
func exactDecimal(v float64) decimal.Decimal {
	frac, exp := math.Frexp(v)
	mant := big.NewInt(int64(frac * (1 << 53)))
	exp -= 53
	if exp >= 0 {
		return decimal.NewFromBigInt(mant.Lsh(mant, uint(exp)), 0)
	}
	// 2^-k = 5^k * 10^-k
	pow := new(big.Int).Exp(big.NewInt(5), big.NewInt(int64(-exp)), nil)
	return decimal.NewFromBigInt(mant.Mul(mant, pow), int32(exp))
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Clamp100 bounds v to the score range [0, 100].
func Clamp100(v float64) float64 {
	return Clamp(v, 0, 100)
}
