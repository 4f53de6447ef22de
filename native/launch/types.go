package launch

import "encoding/hex"

// Direction identifies which asset enters the pool during a swap.
type Direction uint8

const (
	// DirectionBuy spends the quote asset and receives the base asset.
	DirectionBuy Direction = iota + 1
	// DirectionSell spends the base asset and receives the quote asset.
	DirectionSell
)

// String renders the direction for events and logs.
func (d Direction) String() string {
	switch d {
	case DirectionBuy:
		return "buy"
	case DirectionSell:
		return "sell"
	default:
		return "unknown"
	}
}

// PoolID is the deterministic identifier of a pool, derived from its asset
// pair. The zero value marks an uninitialised record.
type PoolID [32]byte

// String returns the lowercase hex form used in store keys and events.
func (id PoolID) String() string { return hex.EncodeToString(id[:]) }

// IsZero reports whether the identifier is unset.
func (id PoolID) IsZero() bool { return id == PoolID{} }

// Reserve tracks one side of a pool: the traded asset, the vault holding its
// custody, and the tradable balance in base units.
type Reserve struct {
	Asset  string
	Vault  string
	Tokens uint64
}

// SwapAmount is the outcome of a quote. Both amount legs are net of admin
// fees; the fee legs accrue to the pool's fee balances when applied.
type SwapAmount struct {
	AmountIn    uint64
	AmountOut   uint64
	AdminFeeIn  uint64
	AdminFeeOut uint64
}

// Pool is the complete ledger record of one bonding-curve market. The
// transaction that loads a pool owns it exclusively until commit; engine
// operations keep no references across calls.
type Pool struct {
	ID               PoolID
	Creator          string
	Meme             Reserve
	Quote            Reserve
	AdminFeesMeme    uint64
	AdminFeesQuote   uint64
	Config           CurveConfig
	Fees             Fees
	AirdroppedTokens uint64
	Locked           bool
	Migrated         bool
	MigrationVenue   string
}

// Clone returns a deep copy of the pool, including the curve coefficients.
func (p *Pool) Clone() *Pool {
	if p == nil {
		return nil
	}
	clone := *p
	clone.Config = p.Config.Clone()
	return &clone
}

// ReserveFor resolves which side of the pool holds the given asset.
func (p *Pool) ReserveFor(asset string) (*Reserve, error) {
	if p == nil {
		return nil, ErrAssetMismatch
	}
	switch asset {
	case p.Meme.Asset:
		return &p.Meme, nil
	case p.Quote.Asset:
		return &p.Quote, nil
	default:
		return nil, ErrAssetMismatch
	}
}

// CheckFunds verifies that a caller balance covers the gross input of a swap.
// Custody itself stays with the caller; the engine only validates the number.
func CheckFunds(available, amountIn uint64) error {
	if amountIn > available {
		return ErrInsufficientBalance
	}
	return nil
}
