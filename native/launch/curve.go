package launch

import (
	"encoding/binary"
	"fmt"
	"math/big"
)

// Fixed decimal scales shared by every pool: quote amounts and the intercept
// are priced at nine decimals. The slope scale is chosen per pool by
// DeriveCurveConfig.
const (
	DecimalsS uint64 = 1_000_000_000
	DecimalsB uint64 = 1_000_000_000
)

// encodedConfigSize is the width of a serialized CurveConfig record: two
// 16-byte coefficient words, five 8-byte parameter words, and the 40-byte
// decimals block.
const encodedConfigSize = 112

// Decimals carries the fixed-point scales the curve coefficients are stored
// at. Alpha and Beta stay within the 128-bit range; Quote is the raw-unit
// scale of the quote asset.
type Decimals struct {
	Alpha *big.Int
	Beta  *big.Int
	Quote uint64
}

// CurveConfig fixes the shape of a pool's price curve,
//
//	price(s) = AlphaAbs*s + Beta
//
// in scaled units, defined for quote reserves up to GammaS and base
// allocations up to GammaM. OmegaM is the total distributable base supply the
// price factor is anchored against. A config is validated once at pool
// creation and never re-checked per swap.
type CurveConfig struct {
	AlphaAbs         *big.Int
	Beta             *big.Int
	PriceFactorNum   uint64
	PriceFactorDenom uint64
	GammaS           uint64
	GammaM           uint64
	OmegaM           uint64
	Decimals         Decimals
}

// Clone returns a deep copy of the config.
func (c CurveConfig) Clone() CurveConfig {
	clone := c
	if c.AlphaAbs != nil {
		clone.AlphaAbs = new(big.Int).Set(c.AlphaAbs)
	}
	if c.Beta != nil {
		clone.Beta = new(big.Int).Set(c.Beta)
	}
	if c.Decimals.Alpha != nil {
		clone.Decimals.Alpha = new(big.Int).Set(c.Decimals.Alpha)
	}
	if c.Decimals.Beta != nil {
		clone.Decimals.Beta = new(big.Int).Set(c.Decimals.Beta)
	}
	return clone
}

// Validate checks the structural invariants a stored config must satisfy. The
// economic invariants (slope and intercept signs) are established by
// DeriveCurveConfig and do not need to hold for hand-built test fixtures.
func (c CurveConfig) Validate() error {
	if c.AlphaAbs == nil || c.AlphaAbs.Sign() <= 0 {
		return fmt.Errorf("launch: curve slope must be positive")
	}
	if c.Beta == nil || c.Beta.Sign() < 0 {
		return fmt.Errorf("launch: curve intercept must not be negative")
	}
	if c.AlphaAbs.BitLen() > 128 || c.Beta.BitLen() > 128 {
		return fmt.Errorf("launch: curve coefficients exceed 128 bits")
	}
	if c.PriceFactorNum == 0 || c.PriceFactorDenom == 0 {
		return fmt.Errorf("launch: price factor must be positive")
	}
	if c.GammaS == 0 || c.GammaM == 0 || c.OmegaM == 0 {
		return fmt.Errorf("launch: capacity bounds must be positive")
	}
	if c.Decimals.Alpha == nil || c.Decimals.Alpha.Sign() <= 0 ||
		c.Decimals.Beta == nil || c.Decimals.Beta.Sign() <= 0 {
		return fmt.Errorf("launch: coefficient scales must be positive")
	}
	if c.Decimals.Alpha.BitLen() > 128 || c.Decimals.Beta.BitLen() > 128 {
		return fmt.Errorf("launch: coefficient scales exceed 128 bits")
	}
	if c.Decimals.Quote == 0 {
		return fmt.Errorf("launch: quote scale must be positive")
	}
	return nil
}

// DeriveCurveConfig derives the curve coefficients for a new pool. gammaS is
// the quote raise target, gammaM the base allocation sold on the curve, omegaM
// the total distributable base supply, and priceNum/priceDenom the ratio
// between the curve's terminal valuation and the migration venue's opening
// price. The product omegaM*priceFactor is computed once (floored) and reused
// by every check and coefficient.
func DeriveCurveConfig(gammaS, gammaM, omegaM, priceNum, priceDenom uint64) (CurveConfig, error) {
	if gammaS == 0 || gammaM == 0 || omegaM == 0 {
		return CurveConfig{}, fmt.Errorf("launch: capacity bounds must be positive")
	}
	if priceNum == 0 || priceDenom == 0 {
		return CurveConfig{}, fmt.Errorf("launch: price factor must be positive")
	}

	omp := new(big.Int).SetUint64(omegaM)
	omp.Mul(omp, new(big.Int).SetUint64(priceNum))
	omp.Quo(omp, new(big.Int).SetUint64(priceDenom))
	gm := new(big.Int).SetUint64(gammaM)

	if err := checkSlope(omp, gm); err != nil {
		return CurveConfig{}, err
	}
	if err := checkIntercept(omp, gm); err != nil {
		return CurveConfig{}, err
	}

	alpha, alphaScale, err := computeAlphaAbs(omp, gm, gammaS)
	if err != nil {
		return CurveConfig{}, err
	}
	beta := computeBeta(omp, gm, gammaS)

	return CurveConfig{
		AlphaAbs:         alpha,
		Beta:             beta,
		PriceFactorNum:   priceNum,
		PriceFactorDenom: priceDenom,
		GammaS:           gammaS,
		GammaM:           gammaM,
		OmegaM:           omegaM,
		Decimals: Decimals{
			Alpha: alphaScale,
			Beta:  new(big.Int).SetUint64(DecimalsB),
			Quote: DecimalsS,
		},
	}, nil
}

// checkSlope requires the distributable supply, valued at the price factor, to
// clear the curve allocation; anything else makes the slope non-positive.
func checkSlope(omp, gammaM *big.Int) error {
	if omp.Cmp(gammaM) <= 0 {
		return ErrCurveNotPositivelySloped
	}
	return nil
}

// checkIntercept enforces the positive-intercept convention: twice the curve
// allocation must clear the valued supply or the intercept flips sign.
func checkIntercept(omp, gammaM *big.Int) error {
	double := new(big.Int).Lsh(gammaM, 1)
	if double.Cmp(omp) <= 0 {
		return ErrInterceptSignViolation
	}
	return nil
}

// computeAlphaAbs derives the slope magnitude and its decimal scale. The scale
// is read from the decimal-digit gap between numerator and denominator so the
// stored coefficient keeps precision without overflowing downstream products.
func computeAlphaAbs(omp, gammaM *big.Int, gammaS uint64) (*big.Int, *big.Int, error) {
	sDec := new(big.Int).SetUint64(DecimalsS)
	num := new(big.Int).Sub(omp, gammaM)
	num.Lsh(num, 1)
	num.Mul(num, sDec)
	num.Mul(num, sDec)

	denom := new(big.Int).SetUint64(gammaS)
	denom.Mul(denom, denom)

	if num.Cmp(denom) <= 0 {
		return nil, nil, ErrCapacityOutOfRelativeLimit
	}
	scale, err := alphaScaleForGap(len(num.Text(10)) - len(denom.Text(10)))
	if err != nil {
		return nil, nil, err
	}
	alpha := new(big.Int).Mul(num, scale)
	alpha.Quo(alpha, denom)
	return alpha, scale, nil
}

// alphaScaleForGap maps the order-of-magnitude gap between slope numerator and
// denominator to the power-of-ten scale the slope is stored at. Gaps under
// five digits cannot carry a usable coefficient.
func alphaScaleForGap(gap int) (*big.Int, error) {
	var scale uint64
	switch {
	case gap < 5:
		return nil, ErrScaleTooLow
	case gap == 5:
		scale = 100_000_000
	case gap == 6:
		scale = 10_000_000
	case gap == 7:
		scale = 1_000_000
	case gap == 8:
		scale = 100_000
	case gap == 9:
		scale = 10_000
	case gap == 10:
		scale = 1_000
	case gap == 11:
		scale = 100
	case gap == 12:
		scale = 10
	default:
		scale = 1
	}
	return new(big.Int).SetUint64(scale), nil
}

// computeBeta derives the intercept magnitude at the fixed intercept scale,
// reusing the valued-supply product from the slope derivation.
func computeBeta(omp, gammaM *big.Int, gammaS uint64) *big.Int {
	beta := new(big.Int).Lsh(gammaM, 1)
	beta.Sub(beta, omp)
	beta.Mul(beta, new(big.Int).SetUint64(DecimalsS))
	beta.Mul(beta, new(big.Int).SetUint64(DecimalsB))
	beta.Quo(beta, new(big.Int).SetUint64(gammaS))
	return beta
}

// MarshalBinary encodes the config as a fixed-width big-endian record:
// AlphaAbs and Beta as 16-byte words, the five u64 parameters as 8-byte words,
// then the decimals block (16+16+8). Pool records embed this form verbatim.
func (c CurveConfig) MarshalBinary() ([]byte, error) {
	buf := make([]byte, encodedConfigSize)
	if err := put128(buf[0:16], c.AlphaAbs); err != nil {
		return nil, fmt.Errorf("launch: encode slope: %w", err)
	}
	if err := put128(buf[16:32], c.Beta); err != nil {
		return nil, fmt.Errorf("launch: encode intercept: %w", err)
	}
	binary.BigEndian.PutUint64(buf[32:40], c.PriceFactorNum)
	binary.BigEndian.PutUint64(buf[40:48], c.PriceFactorDenom)
	binary.BigEndian.PutUint64(buf[48:56], c.GammaS)
	binary.BigEndian.PutUint64(buf[56:64], c.GammaM)
	binary.BigEndian.PutUint64(buf[64:72], c.OmegaM)
	if err := put128(buf[72:88], c.Decimals.Alpha); err != nil {
		return nil, fmt.Errorf("launch: encode slope scale: %w", err)
	}
	if err := put128(buf[88:104], c.Decimals.Beta); err != nil {
		return nil, fmt.Errorf("launch: encode intercept scale: %w", err)
	}
	binary.BigEndian.PutUint64(buf[104:112], c.Decimals.Quote)
	return buf, nil
}

// UnmarshalBinary decodes a fixed-width record produced by MarshalBinary.
func (c *CurveConfig) UnmarshalBinary(data []byte) error {
	if len(data) != encodedConfigSize {
		return fmt.Errorf("launch: curve config record must be %d bytes, got %d", encodedConfigSize, len(data))
	}
	c.AlphaAbs = get128(data[0:16])
	c.Beta = get128(data[16:32])
	c.PriceFactorNum = binary.BigEndian.Uint64(data[32:40])
	c.PriceFactorDenom = binary.BigEndian.Uint64(data[40:48])
	c.GammaS = binary.BigEndian.Uint64(data[48:56])
	c.GammaM = binary.BigEndian.Uint64(data[56:64])
	c.OmegaM = binary.BigEndian.Uint64(data[64:72])
	c.Decimals.Alpha = get128(data[72:88])
	c.Decimals.Beta = get128(data[88:104])
	c.Decimals.Quote = binary.BigEndian.Uint64(data[104:112])
	return nil
}

func put128(dst []byte, v *big.Int) error {
	if v == nil || v.Sign() < 0 || v.BitLen() > 128 {
		return fmt.Errorf("value outside the 128-bit range")
	}
	v.FillBytes(dst)
	return nil
}

func get128(src []byte) *big.Int {
	return new(big.Int).SetBytes(src)
}
