package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// feePrecision mirrors the engine's fixed-point fee denominator.
const feePrecision = 1_000_000_000

// Launch parameterises pool derivation and the swap fee schedule. All token
// amounts are raw units at nine decimals.
type Launch struct {
	TargetQuoteRaise        uint64 `toml:"TargetQuoteRaise"`
	CurveBaseSupply         uint64 `toml:"CurveBaseSupply"`
	DistributableBaseSupply uint64 `toml:"DistributableBaseSupply"`
	PriceFactorNum          uint64 `toml:"PriceFactorNum"`
	PriceFactorDenom        uint64 `toml:"PriceFactorDenom"`
	FeeMemePercent          uint64 `toml:"FeeMemePercent"`
	FeeQuotePercent         uint64 `toml:"FeeQuotePercent"`
	MigrationThresholdBps   uint32 `toml:"MigrationThresholdBps"`
}

type Config struct {
	DataDir string `toml:"DataDir"`
	Launch  Launch `toml:"Launch"`
}

// Default returns the production launch schedule: a 300-unit quote raise
// against a 690k-unit curve allocation out of 890k distributable, opening at
// parity with the migration venue, with a 1% quote fee.
func Default() Config {
	return Config{
		DataDir: "./curvepad-data",
		Launch: Launch{
			TargetQuoteRaise:        300_000_000_000,
			CurveBaseSupply:         690_000_000_000_000,
			DistributableBaseSupply: 890_000_000_000_000,
			PriceFactorNum:          1,
			PriceFactorDenom:        1,
			FeeMemePercent:          0,
			FeeQuotePercent:         10_000_000,
			MigrationThresholdBps:   8_000,
		},
	}
}

// Load loads the configuration from the given path, creating a default file
// when none exists yet.
func Load(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("config: path required")
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the structural bounds; the curve-level invariants are
// enforced when the values reach the derivation.
func (c Config) Validate() error {
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("config: DataDir required")
	}
	if c.Launch.TargetQuoteRaise == 0 {
		return fmt.Errorf("config: TargetQuoteRaise must be positive")
	}
	if c.Launch.CurveBaseSupply == 0 {
		return fmt.Errorf("config: CurveBaseSupply must be positive")
	}
	if c.Launch.DistributableBaseSupply == 0 {
		return fmt.Errorf("config: DistributableBaseSupply must be positive")
	}
	if c.Launch.PriceFactorNum == 0 || c.Launch.PriceFactorDenom == 0 {
		return fmt.Errorf("config: price factor must be positive")
	}
	if c.Launch.FeeMemePercent > feePrecision || c.Launch.FeeQuotePercent > feePrecision {
		return fmt.Errorf("config: fee rates must not exceed %d", uint64(feePrecision))
	}
	if c.Launch.MigrationThresholdBps > 10_000 {
		return fmt.Errorf("config: MigrationThresholdBps must not exceed 10000")
	}
	return nil
}

// createDefault creates and saves a default configuration file.
func createDefault(path string) (*Config, error) {
	cfg := Default()
	if err := persist(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func persist(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
