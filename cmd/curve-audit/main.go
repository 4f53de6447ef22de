package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"curvepad/config"
	"curvepad/native/launch"
	"curvepad/observability/logging"
	"curvepad/storage"
)

type curveSection struct {
	AlphaAbs              string `json:"alphaAbs"`
	AlphaScale            string `json:"alphaScale"`
	Beta                  string `json:"beta"`
	BetaScale             string `json:"betaScale"`
	QuoteScale            uint64 `json:"quoteScale"`
	PriceFactor           string `json:"priceFactor"`
	QuoteTarget           uint64 `json:"quoteTarget"`
	BaseAllocation        uint64 `json:"baseAllocation"`
	DistributableSupply   uint64 `json:"distributableSupply"`
	MigrationThresholdBps uint32 `json:"migrationThresholdBps"`
}

type previewSection struct {
	Direction   string `json:"direction"`
	AmountIn    uint64 `json:"amountIn"`
	AmountOut   uint64 `json:"amountOut"`
	AdminFeeIn  uint64 `json:"adminFeeIn"`
	AdminFeeOut uint64 `json:"adminFeeOut"`
}

type poolSection struct {
	ID              string `json:"id"`
	BaseAsset       string `json:"baseAsset"`
	QuoteAsset      string `json:"quoteAsset"`
	BaseReserve     uint64 `json:"baseReserve"`
	QuoteReserve    uint64 `json:"quoteReserve"`
	AdminFeesBase   uint64 `json:"adminFeesBase"`
	AdminFeesQuote  uint64 `json:"adminFeesQuote"`
	SoldFractionBps uint32 `json:"soldFractionBps"`
	MigrationDue    bool   `json:"migrationDue"`
	Locked          bool   `json:"locked"`
	Migrated        bool   `json:"migrated"`
	MigrationVenue  string `json:"migrationVenue,omitempty"`
}

type auditReport struct {
	Curve   curveSection    `json:"curve"`
	Preview *previewSection `json:"preview,omitempty"`
	Pools   []poolSection   `json:"pools,omitempty"`
}

func main() {
	configPath := flag.String("config", "./config.toml", "Path to configuration file")
	withPools := flag.Bool("pools", false, "Include pools stored under the data directory")
	previewBuy := flag.Uint64("preview-buy", 0, "Quote a buy of this many quote units against a fresh pool")
	flag.Parse()

	logger := logging.Setup("curve-audit", os.Getenv("CURVEPAD_ENV"))

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("load config", "error", err)
		os.Exit(1)
	}
	launchCfg := cfg.Launch

	curveCfg, err := launch.DeriveCurveConfig(launchCfg.TargetQuoteRaise, launchCfg.CurveBaseSupply, launchCfg.DistributableBaseSupply, launchCfg.PriceFactorNum, launchCfg.PriceFactorDenom)
	if err != nil {
		logger.Error("derive curve", "error", err)
		os.Exit(1)
	}

	report := auditReport{Curve: curveSection{
		AlphaAbs:              curveCfg.AlphaAbs.String(),
		AlphaScale:            curveCfg.Decimals.Alpha.String(),
		Beta:                  curveCfg.Beta.String(),
		BetaScale:             curveCfg.Decimals.Beta.String(),
		QuoteScale:            curveCfg.Decimals.Quote,
		PriceFactor:           fmt.Sprintf("%d/%d", launchCfg.PriceFactorNum, launchCfg.PriceFactorDenom),
		QuoteTarget:           launchCfg.TargetQuoteRaise,
		BaseAllocation:        launchCfg.CurveBaseSupply,
		DistributableSupply:   launchCfg.DistributableBaseSupply,
		MigrationThresholdBps: launchCfg.MigrationThresholdBps,
	}}

	if *previewBuy > 0 {
		preview, err := previewFreshBuy(launchCfg, curveCfg, *previewBuy)
		if err != nil {
			logger.Error("preview buy", "error", err)
			os.Exit(1)
		}
		report.Preview = preview
	}

	if *withPools {
		pools, err := storedPools(cfg)
		if err != nil {
			logger.Error("list pools", "error", err)
			os.Exit(1)
		}
		report.Pools = pools
	}

	output, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		logger.Error("encode report", "error", err)
		os.Exit(1)
	}
	fmt.Println(string(output))
}

func previewFreshBuy(launchCfg config.Launch, curveCfg launch.CurveConfig, amount uint64) (*previewSection, error) {
	fees, err := launch.NewFees(launchCfg.FeeMemePercent, launchCfg.FeeQuotePercent)
	if err != nil {
		return nil, err
	}
	pool, err := launch.NewPool(launch.PoolParams{
		MemeAsset:  "base.preview",
		MemeVault:  "vault-base",
		QuoteAsset: "quote.preview",
		QuoteVault: "vault-quote",
		Config:     curveCfg,
		Fees:       fees,
	})
	if err != nil {
		return nil, err
	}
	quote, err := launch.NewEngine().Quote(pool, amount, 0, launch.DirectionBuy)
	if err != nil {
		return nil, err
	}
	return &previewSection{
		Direction:   launch.DirectionBuy.String(),
		AmountIn:    quote.AmountIn,
		AmountOut:   quote.AmountOut,
		AdminFeeIn:  quote.AdminFeeIn,
		AdminFeeOut: quote.AdminFeeOut,
	}, nil
}

func storedPools(cfg *config.Config) ([]poolSection, error) {
	db, err := storage.NewLevelDB(filepath.Join(cfg.DataDir, "pools"))
	if err != nil {
		return nil, err
	}
	defer db.Close()

	pools, err := launch.NewPoolStore(db).List()
	if err != nil {
		return nil, err
	}
	sections := make([]poolSection, 0, len(pools))
	for _, pool := range pools {
		sections = append(sections, poolSection{
			ID:              pool.ID.String(),
			BaseAsset:       pool.Meme.Asset,
			QuoteAsset:      pool.Quote.Asset,
			BaseReserve:     pool.Meme.Tokens,
			QuoteReserve:    pool.Quote.Tokens,
			AdminFeesBase:   pool.AdminFeesMeme,
			AdminFeesQuote:  pool.AdminFeesQuote,
			SoldFractionBps: launch.SoldFractionBps(pool),
			MigrationDue:    launch.MigrationDue(pool, cfg.Launch.MigrationThresholdBps),
			Locked:          pool.Locked,
			Migrated:        pool.Migrated,
			MigrationVenue:  pool.MigrationVenue,
		})
	}
	return sections, nil
}
