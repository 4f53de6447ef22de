package events

import (
	"encoding/hex"
	"strconv"
	"strings"

	"curvepad/core/types"
)

const (
	// TypeLaunchPoolCreated is emitted when a bonding-curve pool opens.
	TypeLaunchPoolCreated = "launch.pool.created"
	// TypeLaunchSwapExecuted is emitted for every applied swap.
	TypeLaunchSwapExecuted = "launch.swap.executed"
	// TypeLaunchPoolLocked is emitted when trading halts on a pool.
	TypeLaunchPoolLocked = "launch.pool.locked"
	// TypeLaunchPoolMigrated is emitted when a pool's liquidity is handed to an
	// external venue.
	TypeLaunchPoolMigrated = "launch.pool.migrated"
)

// LaunchPoolCreated announces a newly opened pool and its capacity bounds.
type LaunchPoolCreated struct {
	PoolID         [32]byte
	Creator        string
	BaseAsset      string
	QuoteAsset     string
	BaseAllocation uint64
	QuoteTarget    uint64
}

func (LaunchPoolCreated) EventType() string { return TypeLaunchPoolCreated }

func (e LaunchPoolCreated) Event() *types.Event {
	return &types.Event{
		Type: TypeLaunchPoolCreated,
		Attributes: map[string]string{
			"poolId":         hex.EncodeToString(e.PoolID[:]),
			"creator":        strings.TrimSpace(e.Creator),
			"baseAsset":      strings.TrimSpace(e.BaseAsset),
			"quoteAsset":     strings.TrimSpace(e.QuoteAsset),
			"baseAllocation": strconv.FormatUint(e.BaseAllocation, 10),
			"quoteTarget":    strconv.FormatUint(e.QuoteTarget, 10),
		},
	}
}

// LaunchSwapExecuted records a settled swap, net amounts and fee legs alike.
// Locked reports whether this swap depleted the curve and locked the pool.
type LaunchSwapExecuted struct {
	PoolID      [32]byte
	Direction   string
	AmountIn    uint64
	AmountOut   uint64
	AdminFeeIn  uint64
	AdminFeeOut uint64
	Locked      bool
}

func (LaunchSwapExecuted) EventType() string { return TypeLaunchSwapExecuted }

func (e LaunchSwapExecuted) Event() *types.Event {
	return &types.Event{
		Type: TypeLaunchSwapExecuted,
		Attributes: map[string]string{
			"poolId":      hex.EncodeToString(e.PoolID[:]),
			"direction":   e.Direction,
			"amountIn":    strconv.FormatUint(e.AmountIn, 10),
			"amountOut":   strconv.FormatUint(e.AmountOut, 10),
			"adminFeeIn":  strconv.FormatUint(e.AdminFeeIn, 10),
			"adminFeeOut": strconv.FormatUint(e.AdminFeeOut, 10),
			"locked":      strconv.FormatBool(e.Locked),
		},
	}
}

// LaunchPoolLocked signals that a pool stopped trading, either because the
// curve sold out or an operator locked it ahead of migration.
type LaunchPoolLocked struct {
	PoolID [32]byte
	Reason string
}

func (LaunchPoolLocked) EventType() string { return TypeLaunchPoolLocked }

func (e LaunchPoolLocked) Event() *types.Event {
	return &types.Event{
		Type: TypeLaunchPoolLocked,
		Attributes: map[string]string{
			"poolId": hex.EncodeToString(e.PoolID[:]),
			"reason": strings.TrimSpace(e.Reason),
		},
	}
}

// LaunchPoolMigrated marks the terminal hand-off of pool liquidity.
type LaunchPoolMigrated struct {
	PoolID [32]byte
	Venue  string
}

func (LaunchPoolMigrated) EventType() string { return TypeLaunchPoolMigrated }

func (e LaunchPoolMigrated) Event() *types.Event {
	return &types.Event{
		Type: TypeLaunchPoolMigrated,
		Attributes: map[string]string{
			"poolId": hex.EncodeToString(e.PoolID[:]),
			"venue":  strings.TrimSpace(e.Venue),
		},
	}
}
