package launch

import (
	"fmt"
	"math/big"
)

// FeePrecision is the fixed-point denominator for fee rates: a rate equal to
// FeePrecision charges 100%.
const FeePrecision uint64 = 1_000_000_000

// Production schedule: the base leg trades free, the quote leg pays 1%.
const (
	DefaultMemeFeePercent  uint64 = 0
	DefaultQuoteFeePercent uint64 = 10_000_000
)

// Fees holds a pool's admin fee rates, one per asset side. Sell-direction
// swaps charge double the nominal rate on both legs; that doubling belongs to
// the quote path, not to the rates stored here.
type Fees struct {
	MemePercent  uint64
	QuotePercent uint64
}

// NewFees validates the rates against the precision bound.
func NewFees(memePercent, quotePercent uint64) (Fees, error) {
	f := Fees{MemePercent: memePercent, QuotePercent: quotePercent}
	if err := f.Validate(); err != nil {
		return Fees{}, err
	}
	return f, nil
}

// DefaultFees returns the production schedule.
func DefaultFees() Fees {
	return Fees{MemePercent: DefaultMemeFeePercent, QuotePercent: DefaultQuoteFeePercent}
}

// Validate rejects rates above 100%.
func (f Fees) Validate() error {
	if f.MemePercent > FeePrecision || f.QuotePercent > FeePrecision {
		return fmt.Errorf("launch: fee rate exceeds precision %d", FeePrecision)
	}
	return nil
}

func (f Fees) memeFee(amount uint64) uint64 {
	return feeAmount(amount, f.MemePercent)
}

func (f Fees) quoteFee(amount uint64) uint64 {
	return feeAmount(amount, f.QuotePercent)
}

// feeAmount computes ceil(amount*percent/FeePrecision). For rates within
// FeePrecision the result never exceeds amount.
func feeAmount(amount, percent uint64) uint64 {
	if amount == 0 || percent == 0 {
		return 0
	}
	num := new(big.Int).SetUint64(amount)
	num.Mul(num, new(big.Int).SetUint64(percent))
	quo, rem := new(big.Int).QuoRem(num, new(big.Int).SetUint64(FeePrecision), new(big.Int))
	if rem.Sign() > 0 {
		quo.Add(quo, big.NewInt(1))
	}
	return quo.Uint64()
}
