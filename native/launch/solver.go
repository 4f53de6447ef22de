package launch

import (
	"math/big"

	"github.com/holiman/uint256"
)

// maxSqrtRescales bounds the adaptive square-root retry loop. Every retry
// grows the scale a hundredfold, so the bound sits far beyond any operand gap
// 256-bit inputs can produce.
const maxSqrtRescales = 32

// curveTerms is the solver's working view of a curve config, converted once
// per call into checked 256-bit values.
type curveTerms struct {
	alpha    *uint256.Int
	beta     *uint256.Int
	alphaDec *uint256.Int
	betaDec  *uint256.Int
	sDec     *uint256.Int
}

func termsOf(cfg CurveConfig) (curveTerms, bool) {
	alpha, ok := fromBig(cfg.AlphaAbs)
	if !ok {
		return curveTerms{}, false
	}
	beta, ok := fromBig(cfg.Beta)
	if !ok {
		return curveTerms{}, false
	}
	alphaDec, ok := fromBig(cfg.Decimals.Alpha)
	if !ok {
		return curveTerms{}, false
	}
	betaDec, ok := fromBig(cfg.Decimals.Beta)
	if !ok {
		return curveTerms{}, false
	}
	if alpha.IsZero() || alphaDec.IsZero() || betaDec.IsZero() || cfg.Decimals.Quote == 0 {
		return curveTerms{}, false
	}
	return curveTerms{
		alpha:    alpha,
		beta:     beta,
		alphaDec: alphaDec,
		betaDec:  betaDec,
		sDec:     uint256.NewInt(cfg.Decimals.Quote),
	}, true
}

func fromBig(v *big.Int) (*uint256.Int, bool) {
	if v == nil || v.Sign() < 0 {
		return nil, false
	}
	out, overflow := uint256.FromBig(v)
	if overflow {
		return nil, false
	}
	return out, true
}

// Checked arithmetic. The 128-bit variants keep the fast delta-m strategy
// honest about the width the coefficients are stored at; the 256-bit variants
// guard the widened strategies.

func mul128(a, b *uint256.Int) (*uint256.Int, bool) {
	z, overflow := new(uint256.Int).MulOverflow(a, b)
	if overflow || z.BitLen() > 128 {
		return nil, false
	}
	return z, true
}

func add128(a, b *uint256.Int) (*uint256.Int, bool) {
	z, carry := new(uint256.Int).AddOverflow(a, b)
	if carry || z.BitLen() > 128 {
		return nil, false
	}
	return z, true
}

func mul256(a, b *uint256.Int) (*uint256.Int, bool) {
	z, overflow := new(uint256.Int).MulOverflow(a, b)
	if overflow {
		return nil, false
	}
	return z, true
}

func add256(a, b *uint256.Int) (*uint256.Int, bool) {
	z, carry := new(uint256.Int).AddOverflow(a, b)
	if carry {
		return nil, false
	}
	return z, true
}

func sub256(a, b *uint256.Int) (*uint256.Int, bool) {
	z, borrow := new(uint256.Int).SubOverflow(a, b)
	if borrow {
		return nil, false
	}
	return z, true
}

func div256(a, b *uint256.Int) (*uint256.Int, bool) {
	if b.IsZero() {
		return nil, false
	}
	return new(uint256.Int).Div(a, b), true
}

// computeDeltaM integrates the price function over the quote window [sA, sB]
// and returns the base amount the pool releases for it. The direct strategy
// runs at the 128-bit width the coefficients are stored at; the widened
// single-fraction strategy picks up the cases where that width runs out. Both
// failing is a terminal arithmetic error for the call.
func computeDeltaM(cfg CurveConfig, sA, sB uint64) (uint64, error) {
	if sB < sA {
		return 0, ErrMathOverflow
	}
	terms, ok := termsOf(cfg)
	if !ok {
		return 0, ErrMathOverflow
	}
	if out, ok := deltaMDirect(terms, sA, sB); ok {
		return out, nil
	}
	if out, ok := deltaMWide(terms, sA, sB); ok {
		return out, nil
	}
	return 0, ErrMathOverflow
}

// deltaMDirect evaluates
//
//	(sB-sA)*Beta/(BetaDec*SDec) + ((sB²-sA²)*AlphaAbs/SDec²)/(2*AlphaDec)
//
// with every intermediate confined to 128 bits.
func deltaMDirect(t curveTerms, sA, sB uint64) (uint64, bool) {
	a := uint256.NewInt(sA)
	b := uint256.NewInt(sB)
	window, ok := sub256(b, a)
	if !ok {
		return 0, false
	}

	leftNum, ok := mul128(window, t.beta)
	if !ok {
		return 0, false
	}
	leftDen, ok := mul128(t.betaDec, t.sDec)
	if !ok {
		return 0, false
	}
	left, ok := div256(leftNum, leftDen)
	if !ok {
		return 0, false
	}

	squareA, ok := mul128(a, a)
	if !ok {
		return 0, false
	}
	squareB, ok := mul128(b, b)
	if !ok {
		return 0, false
	}
	powDiff, ok := sub256(squareB, squareA)
	if !ok {
		return 0, false
	}
	rightNum, ok := mul128(powDiff, t.alpha)
	if !ok {
		return 0, false
	}
	sDecSquare, ok := mul128(t.sDec, t.sDec)
	if !ok {
		return 0, false
	}
	right, ok := div256(rightNum, sDecSquare)
	if !ok {
		return 0, false
	}
	twiceAlphaDec, ok := mul128(t.alphaDec, uint256.NewInt(2))
	if !ok {
		return 0, false
	}
	right, ok = div256(right, twiceAlphaDec)
	if !ok {
		return 0, false
	}

	sum, ok := add128(left, right)
	if !ok || !sum.IsUint64() {
		return 0, false
	}
	return sum.Uint64(), true
}

// deltaMWide folds the same integral into one fraction,
//
//	(2*Beta*SDec*AlphaDec*(sB-sA) + AlphaAbs*BetaDec*(sB²-sA²))
//	/ (2*AlphaDec*BetaDec*SDec²)
//
// entirely in 256-bit arithmetic.
func deltaMWide(t curveTerms, sA, sB uint64) (uint64, bool) {
	a := uint256.NewInt(sA)
	b := uint256.NewInt(sB)
	window, ok := sub256(b, a)
	if !ok {
		return 0, false
	}

	left, ok := mul256(uint256.NewInt(2), t.beta)
	if !ok {
		return 0, false
	}
	left, ok = mul256(left, t.sDec)
	if !ok {
		return 0, false
	}
	left, ok = mul256(left, t.alphaDec)
	if !ok {
		return 0, false
	}
	left, ok = mul256(left, window)
	if !ok {
		return 0, false
	}

	squareA, ok := mul256(a, a)
	if !ok {
		return 0, false
	}
	squareB, ok := mul256(b, b)
	if !ok {
		return 0, false
	}
	powDiff, ok := sub256(squareB, squareA)
	if !ok {
		return 0, false
	}
	right, ok := mul256(t.alpha, t.betaDec)
	if !ok {
		return 0, false
	}
	right, ok = mul256(right, powDiff)
	if !ok {
		return 0, false
	}

	num, ok := add256(left, right)
	if !ok {
		return 0, false
	}
	den, ok := mul256(uint256.NewInt(2), t.alphaDec)
	if !ok {
		return 0, false
	}
	den, ok = mul256(den, t.betaDec)
	if !ok {
		return 0, false
	}
	sDecSquare, ok := mul256(t.sDec, t.sDec)
	if !ok {
		return 0, false
	}
	den, ok = mul256(den, sDecSquare)
	if !ok {
		return 0, false
	}

	out, ok := div256(num, den)
	if !ok || !out.IsUint64() {
		return 0, false
	}
	return out.Uint64(), true
}

// computeDeltaS solves the curve's quadratic for the quote amount the pool
// pays out when deltaM base units come in with the quote reserve at sB. The
// linear coefficients u, v, w feed an adaptive-precision root, and the closed
// form is assembled through mulDivWide so no multiplication outruns its
// compensating division.
func computeDeltaS(cfg CurveConfig, sB, deltaM uint64) (uint64, error) {
	terms, ok := termsOf(cfg)
	if !ok {
		return 0, ErrMathOverflow
	}
	b256 := uint256.NewInt(sB)
	dm := uint256.NewInt(deltaM)

	// u = 2*AlphaAbs*sB*BetaDec + 2*Beta*AlphaDec*SDec
	uLeft, ok := mul256(uint256.NewInt(2), terms.alpha)
	if !ok {
		return 0, ErrMathOverflow
	}
	uLeft, ok = mul256(uLeft, b256)
	if !ok {
		return 0, ErrMathOverflow
	}
	uLeft, ok = mul256(uLeft, terms.betaDec)
	if !ok {
		return 0, ErrMathOverflow
	}
	uRight, ok := mul256(uint256.NewInt(2), terms.beta)
	if !ok {
		return 0, ErrMathOverflow
	}
	uRight, ok = mul256(uRight, terms.alphaDec)
	if !ok {
		return 0, ErrMathOverflow
	}
	uRight, ok = mul256(uRight, terms.sDec)
	if !ok {
		return 0, ErrMathOverflow
	}
	u, ok := add256(uLeft, uRight)
	if !ok {
		return 0, ErrMathOverflow
	}

	// v = AlphaDec*BetaDec*SDec
	v, ok := mul256(terms.alphaDec, terms.betaDec)
	if !ok {
		return 0, ErrMathOverflow
	}
	v, ok = mul256(v, terms.sDec)
	if !ok {
		return 0, ErrMathOverflow
	}

	// w = 8*deltaM*AlphaAbs
	w, ok := mul256(uint256.NewInt(8), dm)
	if !ok {
		return 0, ErrMathOverflow
	}
	w, ok = mul256(w, terms.alpha)
	if !ok {
		return 0, ErrMathOverflow
	}

	a, ok := adaptiveRoot(u, v, w, terms.alphaDec)
	if !ok {
		return 0, ErrMathOverflow
	}

	// b = isqrt(v²*AlphaDec)
	vSquare, ok := mul256(v, v)
	if !ok {
		return 0, ErrMathOverflow
	}
	bRadicand, ok := mul256(vSquare, terms.alphaDec)
	if !ok {
		return 0, ErrMathOverflow
	}
	b := new(uint256.Int).Sqrt(bRadicand)

	denoms := []*uint256.Int{uint256.NewInt(2), terms.alpha, b, v}
	left, ok := mulDivWide([]*uint256.Int{terms.sDec, terms.alphaDec, a, v}, denoms)
	if !ok {
		return 0, ErrMathOverflow
	}
	right, ok := mulDivWide([]*uint256.Int{terms.sDec, terms.alphaDec, u, b}, denoms)
	if !ok {
		return 0, ErrMathOverflow
	}
	out, ok := sub256(left, right)
	if !ok || !out.IsUint64() {
		return 0, ErrMathOverflow
	}
	return out.Uint64(), nil
}

// adaptiveRoot computes isqrt(u²*alphaDec + v²*w) for operands whose squares
// may not fit 256 bits: both products are knocked down by a power-of-100 scale
// until they fit, and the root is rescaled by the exact square root of the
// same factor. Exhausting the retry cap reports failure instead of spinning.
func adaptiveRoot(u, v, w, alphaDec *uint256.Int) (*uint256.Int, bool) {
	scale := uint256.NewInt(1)
	for attempt := 0; attempt <= maxSqrtRescales; attempt++ {
		if root, ok := rootAtScale(u, v, w, alphaDec, scale); ok {
			return root, true
		}
		next, overflow := new(uint256.Int).MulOverflow(scale, uint256.NewInt(100))
		if overflow {
			return nil, false
		}
		scale = next
	}
	return nil, false
}

func rootAtScale(u, v, w, alphaDec, scale *uint256.Int) (*uint256.Int, bool) {
	uScaled, ok := div256(u, scale)
	if !ok {
		return nil, false
	}
	left, ok := mul256(uScaled, u)
	if !ok {
		return nil, false
	}
	left, ok = mul256(left, alphaDec)
	if !ok {
		return nil, false
	}

	vScaled, ok := div256(v, scale)
	if !ok {
		return nil, false
	}
	right, ok := mul256(vScaled, v)
	if !ok {
		return nil, false
	}
	right, ok = mul256(right, w)
	if !ok {
		return nil, false
	}

	sum, ok := add256(left, right)
	if !ok {
		return nil, false
	}
	root := new(uint256.Int).Sqrt(sum)
	return mul256(root, new(uint256.Int).Sqrt(scale))
}

// mulDivWide evaluates floor(Π nums / Π denoms) exactly. The numerator product
// can need far more than 256 bits before its compensating divisions land, so
// the fold runs at arbitrary precision and the quotient is checked back into
// the 256-bit range. Failure means a zero denominator or an out-of-range
// quotient.
func mulDivWide(nums, denoms []*uint256.Int) (*uint256.Int, bool) {
	num := big.NewInt(1)
	for _, n := range nums {
		num.Mul(num, n.ToBig())
	}
	den := big.NewInt(1)
	for _, d := range denoms {
		if d.IsZero() {
			return nil, false
		}
		den.Mul(den, d.ToBig())
	}
	num.Quo(num, den)
	out, overflow := uint256.FromBig(num)
	if overflow {
		return nil, false
	}
	return out, true
}
