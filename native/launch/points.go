package launch

import (
	"fmt"
	"math"
	"math/big"
)

// PointsEpoch fixes the referral reward rate for a span of swaps: points are
// granted per unit of gross quote spend at Num/Denom. Epochs are published by
// the surrounding runtime; the engine only does the arithmetic.
type PointsEpoch struct {
	EpochNumber         uint64
	PointsPerQuoteNum   uint64
	PointsPerQuoteDenom uint64
}

// NewPointsEpoch validates the rate.
func NewPointsEpoch(epoch, num, denom uint64) (PointsEpoch, error) {
	if denom == 0 {
		return PointsEpoch{}, fmt.Errorf("launch: points rate denominator must not be zero")
	}
	return PointsEpoch{EpochNumber: epoch, PointsPerQuoteNum: num, PointsPerQuoteDenom: denom}, nil
}

// SwapPoints returns the referral points earned by a buy spending grossQuote
// units (net input plus its admin fee), floored at the epoch rate. Rates that
// would overflow the counter saturate; the payout clamp bounds what is ever
// distributed.
func (p PointsEpoch) SwapPoints(grossQuote uint64) uint64 {
	if grossQuote == 0 || p.PointsPerQuoteNum == 0 || p.PointsPerQuoteDenom == 0 {
		return 0
	}
	points := new(big.Int).SetUint64(grossQuote)
	points.Mul(points, new(big.Int).SetUint64(p.PointsPerQuoteNum))
	points.Quo(points, new(big.Int).SetUint64(p.PointsPerQuoteDenom))
	if !points.IsUint64() {
		return math.MaxUint64
	}
	return points.Uint64()
}

// ReferralPayout clamps earned points to the distributable balance. Swaps
// without a referrer earn nothing.
func ReferralPayout(points, available uint64, hasReferrer bool) uint64 {
	if !hasReferrer {
		return 0
	}
	if points > available {
		return available
	}
	return points
}
