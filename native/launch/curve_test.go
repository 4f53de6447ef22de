package launch

import (
	"errors"
	"math/big"
	"testing"
)

func TestDeriveCurveConfig(t *testing.T) {
	cfg, err := DeriveCurveConfig(1_000_000_000_000, 3_000_000_000_000, 3_000_000_000_000, 21, 20)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	// omp = 3e12*21/20 = 3.15e12; num = 2*(omp-gammaM)*1e18 = 3e29 (30 digits)
	// against denom = 1e24 (25 digits): gap 5, scale 1e8.
	wantAlpha := new(big.Int).SetUint64(30_000_000_000_000)
	if cfg.AlphaAbs.Cmp(wantAlpha) != 0 {
		t.Fatalf("alpha = %s, want %s", cfg.AlphaAbs, wantAlpha)
	}
	wantBeta := new(big.Int).SetUint64(2_850_000_000_000_000_000)
	if cfg.Beta.Cmp(wantBeta) != 0 {
		t.Fatalf("beta = %s, want %s", cfg.Beta, wantBeta)
	}
	if got := cfg.Decimals.Alpha.Uint64(); got != 100_000_000 {
		t.Fatalf("alpha scale = %d, want 1e8", got)
	}
	if got := cfg.Decimals.Beta.Uint64(); got != DecimalsB {
		t.Fatalf("beta scale = %d, want %d", got, DecimalsB)
	}
	if cfg.Decimals.Quote != DecimalsS {
		t.Fatalf("quote scale = %d, want %d", cfg.Decimals.Quote, DecimalsS)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("derived config failed validation: %v", err)
	}
}

func TestDeriveCurveConfigErrors(t *testing.T) {
	tests := []struct {
		name                     string
		gammaS, gammaM, omegaM   uint64
		priceNum, priceDenom     uint64
		want                     error
	}{
		{
			name:   "flat or falling curve",
			gammaS: 1_000_000_000_000, gammaM: 3_000_000_000_000, omegaM: 3_000_000_000_000,
			priceNum: 1, priceDenom: 2,
			want: ErrCurveNotPositivelySloped,
		},
		{
			name:   "intercept flips negative",
			gammaS: 1_000_000_000_000, gammaM: 3_000_000_000_000, omegaM: 3_000_000_000_000,
			priceNum: 3, priceDenom: 1,
			want: ErrInterceptSignViolation,
		},
		{
			name:   "capacities too close",
			gammaS: 1_000_000_000_000, gammaM: 3_000_000_000_000, omegaM: 3_000_000_000_000,
			priceNum: 1_000_000_000_001, priceDenom: 1_000_000_000_000,
			want: ErrCapacityOutOfRelativeLimit,
		},
		{
			name:   "gap below scale table",
			gammaS: 1_000_000_000_000, gammaM: 3_000_000_000_000, omegaM: 3_000_000_000_000,
			priceNum: 3_000_050_000_000, priceDenom: 3_000_000_000_000,
			want: ErrScaleTooLow,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DeriveCurveConfig(tc.gammaS, tc.gammaM, tc.omegaM, tc.priceNum, tc.priceDenom)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestDeriveCurveConfigRejectsZeroInputs(t *testing.T) {
	if _, err := DeriveCurveConfig(0, 1, 1, 1, 1); err == nil {
		t.Fatal("expected error for zero quote capacity")
	}
	if _, err := DeriveCurveConfig(1, 1, 1, 1, 0); err == nil {
		t.Fatal("expected error for zero price factor denominator")
	}
}

// The slope scale follows the decimal-digit gap between numerator and
// denominator. With gammaS=1e12 the denominator is fixed at 1e24, and a
// capacity spread of 5*10^(5+gap) puts the numerator exactly gap digits ahead.
func TestAlphaScaleTable(t *testing.T) {
	tests := []struct {
		gap       int
		spread    uint64
		wantScale uint64
	}{
		{gap: 5, spread: 50_000_000_000, wantScale: 100_000_000},
		{gap: 6, spread: 500_000_000_000, wantScale: 10_000_000},
		{gap: 7, spread: 5_000_000_000_000, wantScale: 1_000_000},
		{gap: 8, spread: 50_000_000_000_000, wantScale: 100_000},
		{gap: 9, spread: 500_000_000_000_000, wantScale: 10_000},
		{gap: 10, spread: 5_000_000_000_000_000, wantScale: 1_000},
		{gap: 11, spread: 50_000_000_000_000_000, wantScale: 100},
		{gap: 12, spread: 500_000_000_000_000_000, wantScale: 10},
	}
	const gammaM = 1_000_000_000_000_000_000
	for _, tc := range tests {
		cfg, err := DeriveCurveConfig(1_000_000_000_000, gammaM, gammaM, gammaM+tc.spread, gammaM)
		if err != nil {
			t.Fatalf("gap %d: derive: %v", tc.gap, err)
		}
		if got := cfg.Decimals.Alpha.Uint64(); got != tc.wantScale {
			t.Fatalf("gap %d: scale = %d, want %d", tc.gap, got, tc.wantScale)
		}
		// num*scale/denom = 10^(24+gap) * 10^(13-gap) / 1e24.
		if got := cfg.AlphaAbs.Uint64(); got != 10_000_000_000_000 {
			t.Fatalf("gap %d: alpha = %d, want 1e13", tc.gap, got)
		}
	}
}

func TestAlphaScaleBeyondTable(t *testing.T) {
	// Spread 5e18 over gammaM=6e18 puts the numerator 13 digits ahead: the
	// scale bottoms out at 1.
	cfg, err := DeriveCurveConfig(1_000_000_000_000, 6_000_000_000_000_000_000, 6_000_000_000_000_000_000, 11_000_000_000_000_000_000, 6_000_000_000_000_000_000)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if got := cfg.Decimals.Alpha.Uint64(); got != 1 {
		t.Fatalf("scale = %d, want 1", got)
	}
	if got := cfg.AlphaAbs.Uint64(); got != 10_000_000_000_000 {
		t.Fatalf("alpha = %d, want 1e13", got)
	}
}

func TestCurveConfigValidate(t *testing.T) {
	valid := func() CurveConfig {
		return CurveConfig{
			AlphaAbs:         big.NewInt(1_000_000),
			Beta:             big.NewInt(1_000_000_000),
			PriceFactorNum:   1,
			PriceFactorDenom: 10,
			GammaS:           1_000_000_000_000,
			GammaM:           3_000_000_000_000,
			OmegaM:           3_000_000_000_000,
			Decimals: Decimals{
				Alpha: big.NewInt(1_000_000),
				Beta:  big.NewInt(1_000_000_000),
				Quote: 1_000_000_000,
			},
		}
	}
	if err := valid().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*CurveConfig)
	}{
		{"nil slope", func(c *CurveConfig) { c.AlphaAbs = nil }},
		{"zero slope", func(c *CurveConfig) { c.AlphaAbs = big.NewInt(0) }},
		{"negative intercept", func(c *CurveConfig) { c.Beta = big.NewInt(-1) }},
		{"oversized slope", func(c *CurveConfig) { c.AlphaAbs = new(big.Int).Lsh(big.NewInt(1), 129) }},
		{"zero price factor", func(c *CurveConfig) { c.PriceFactorDenom = 0 }},
		{"zero capacity", func(c *CurveConfig) { c.GammaS = 0 }},
		{"nil slope scale", func(c *CurveConfig) { c.Decimals.Alpha = nil }},
		{"zero quote scale", func(c *CurveConfig) { c.Decimals.Quote = 0 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestCurveConfigBinaryRoundTrip(t *testing.T) {
	cfg := CurveConfig{
		AlphaAbs:         new(big.Int).Lsh(big.NewInt(3), 100),
		Beta:             big.NewInt(2_850_000_000_000_000_000),
		PriceFactorNum:   21,
		PriceFactorDenom: 20,
		GammaS:           1_000_000_000_000,
		GammaM:           3_000_000_000_000,
		OmegaM:           3_000_000_000_000,
		Decimals: Decimals{
			Alpha: big.NewInt(100_000_000),
			Beta:  big.NewInt(1_000_000_000),
			Quote: 1_000_000_000,
		},
	}
	blob, err := cfg.MarshalBinary()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if len(blob) != encodedConfigSize {
		t.Fatalf("blob length = %d, want %d", len(blob), encodedConfigSize)
	}
	// GammaS occupies the fifth 8-byte word, big-endian.
	gammaS := uint64(0)
	for _, b := range blob[48:56] {
		gammaS = gammaS<<8 | uint64(b)
	}
	if gammaS != cfg.GammaS {
		t.Fatalf("encoded gammaS = %d, want %d", gammaS, cfg.GammaS)
	}

	var decoded CurveConfig
	if err := decoded.UnmarshalBinary(blob); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.AlphaAbs.Cmp(cfg.AlphaAbs) != 0 || decoded.Beta.Cmp(cfg.Beta) != 0 {
		t.Fatalf("coefficients changed across round trip")
	}
	if decoded.PriceFactorNum != cfg.PriceFactorNum || decoded.PriceFactorDenom != cfg.PriceFactorDenom {
		t.Fatalf("price factor changed across round trip")
	}
	if decoded.GammaS != cfg.GammaS || decoded.GammaM != cfg.GammaM || decoded.OmegaM != cfg.OmegaM {
		t.Fatalf("capacity bounds changed across round trip")
	}
	if decoded.Decimals.Alpha.Cmp(cfg.Decimals.Alpha) != 0 ||
		decoded.Decimals.Beta.Cmp(cfg.Decimals.Beta) != 0 ||
		decoded.Decimals.Quote != cfg.Decimals.Quote {
		t.Fatalf("decimals changed across round trip")
	}
}

func TestCurveConfigBinaryErrors(t *testing.T) {
	var decoded CurveConfig
	if err := decoded.UnmarshalBinary(make([]byte, encodedConfigSize-1)); err == nil {
		t.Fatal("expected length error")
	}
	oversized := CurveConfig{
		AlphaAbs: new(big.Int).Lsh(big.NewInt(1), 129),
		Beta:     big.NewInt(1),
		Decimals: Decimals{Alpha: big.NewInt(1), Beta: big.NewInt(1), Quote: 1},
	}
	if _, err := oversized.MarshalBinary(); err == nil {
		t.Fatal("expected range error for oversized slope")
	}
	missing := CurveConfig{
		Beta:     big.NewInt(1),
		Decimals: Decimals{Alpha: big.NewInt(1), Beta: big.NewInt(1), Quote: 1},
	}
	if _, err := missing.MarshalBinary(); err == nil {
		t.Fatal("expected error for nil slope")
	}
}

func TestCurveConfigClone(t *testing.T) {
	cfg, err := DeriveCurveConfig(1_000_000_000_000, 3_000_000_000_000, 3_000_000_000_000, 21, 20)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	clone := cfg.Clone()
	clone.AlphaAbs.Add(clone.AlphaAbs, big.NewInt(1))
	if cfg.AlphaAbs.Cmp(clone.AlphaAbs) == 0 {
		t.Fatal("clone shares slope storage with original")
	}
}
