package launch

import (
	"errors"
	"fmt"
	"math/big"
	"math/bits"
	"strings"

	"curvepad/core/events"
	nativecommon "curvepad/native/common"
)

var (
	// ErrCapacityOutOfRelativeLimit indicates the capacity bounds are too close
	// together to derive a usable slope.
	ErrCapacityOutOfRelativeLimit = errors.New("launch: capacity bounds out of relative limit")
	// ErrScaleTooLow indicates the slope cannot be stored at any supported
	// decimal scale.
	ErrScaleTooLow = errors.New("launch: slope scale too low")
	// ErrCurveNotPositivelySloped indicates the derived curve would not rise.
	ErrCurveNotPositivelySloped = errors.New("launch: curve must be positively sloped")
	// ErrInterceptSignViolation indicates the derived intercept would flip sign.
	ErrInterceptSignViolation = errors.New("launch: curve intercept sign violated")

	// ErrNoZeroInput rejects swaps without an input amount.
	ErrNoZeroInput = errors.New("launch: swap amount must not be zero")
	// ErrInsufficientBalance rejects spends beyond the available balance.
	ErrInsufficientBalance = errors.New("launch: insufficient balance")
	// ErrAssetMismatch rejects assets that do not belong to the pool.
	ErrAssetMismatch = errors.New("launch: asset does not belong to pool")
	// ErrInvalidDirection rejects unrecognised swap directions.
	ErrInvalidDirection = errors.New("launch: invalid swap direction")
	// ErrPoolLocked rejects trading against a locked pool.
	ErrPoolLocked = errors.New("launch: pool is locked")
	// ErrPoolMigrated rejects any mutation of a migrated pool.
	ErrPoolMigrated = errors.New("launch: pool already migrated")

	// ErrSlippageExceeded reports an output below the caller's minimum.
	ErrSlippageExceeded = errors.New("launch: slippage exceeded")
	// ErrMathOverflow reports that every solver strategy ran out of precision.
	ErrMathOverflow = errors.New("launch: math overflow")
)

// moduleName tags pause lookups for this engine.
const moduleName = "launch"

// DefaultMigrationThresholdBps matches the production schedule: migration
// becomes due once 80% of the curve allocation is sold.
const DefaultMigrationThresholdBps uint32 = 8_000

// Engine prices and applies bonding-curve swaps. It holds no pool state of its
// own: every operation works on the snapshot the caller passes in, inside the
// caller's transaction boundary, and either completes fully or leaves the pool
// untouched.
type Engine struct {
	emitter events.Emitter
	pauses  nativecommon.PauseView
}

// NewEngine returns an engine that discards events until an emitter is set.
func NewEngine() *Engine {
	return &Engine{emitter: events.NoopEmitter{}}
}

// SetEmitter wires the engine to an event sink. Passing nil restores the
// discarding default.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetPauses installs the module pause view consulted before quoting.
func (e *Engine) SetPauses(pauses nativecommon.PauseView) {
	e.pauses = pauses
}

func (e *Engine) emit(ev events.Event) {
	if e == nil || e.emitter == nil || ev == nil {
		return
	}
	e.emitter.Emit(ev)
}

// CreatePool validates the parameters, opens an Active pool, and announces it.
func (e *Engine) CreatePool(params PoolParams) (*Pool, error) {
	pool, err := NewPool(params)
	if err != nil {
		return nil, err
	}
	e.emit(events.LaunchPoolCreated{
		PoolID:         pool.ID,
		Creator:        pool.Creator,
		BaseAsset:      pool.Meme.Asset,
		QuoteAsset:     pool.Quote.Asset,
		BaseAllocation: pool.Config.GammaM,
		QuoteTarget:    pool.Config.GammaS,
	})
	return pool, nil
}

// Quote prices a swap against the pool snapshot without mutating it. The
// returned amounts are net of admin fees; Apply settles them. Quoting twice on
// an unmutated snapshot yields identical results.
func (e *Engine) Quote(pool *Pool, amountIn, minAmountOut uint64, direction Direction) (SwapAmount, error) {
	if pool == nil {
		return SwapAmount{}, fmt.Errorf("launch: nil pool")
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return SwapAmount{}, err
	}
	if pool.Migrated {
		return SwapAmount{}, ErrPoolMigrated
	}
	if pool.Locked {
		return SwapAmount{}, ErrPoolLocked
	}
	if amountIn == 0 {
		return SwapAmount{}, ErrNoZeroInput
	}
	switch direction {
	case DirectionBuy:
		return quoteBuy(pool, amountIn, minAmountOut)
	case DirectionSell:
		return quoteSell(pool, amountIn, minAmountOut)
	default:
		return SwapAmount{}, ErrInvalidDirection
	}
}

// quoteBuy prices quote-in, base-out. The input leg pays the nominal quote
// rate once; a net input at or beyond the remaining quote capacity caps the
// trade at the entire base reserve without touching the solver.
func quoteBuy(pool *Pool, amountIn, minAmountOut uint64) (SwapAmount, error) {
	feeIn := pool.Fees.quoteFee(amountIn)
	net := amountIn - feeIn

	capacity, ok := sub64(pool.Config.GammaS, pool.Quote.Tokens)
	if !ok {
		return SwapAmount{}, ErrMathOverflow
	}
	saturated := net >= capacity
	if saturated {
		net = capacity
	}

	var gross uint64
	if saturated {
		gross = pool.Meme.Tokens
	} else {
		var err error
		gross, err = computeDeltaM(pool.Config, pool.Quote.Tokens, pool.Quote.Tokens+net)
		if err != nil {
			return SwapAmount{}, err
		}
	}

	feeOut := pool.Fees.memeFee(gross)
	netOut := gross - feeOut
	if netOut < minAmountOut {
		return SwapAmount{}, ErrSlippageExceeded
	}
	return SwapAmount{AmountIn: net, AmountOut: netOut, AdminFeeIn: feeIn, AdminFeeOut: feeOut}, nil
}

// quoteSell prices base-in, quote-out. Both legs pay double the nominal rate;
// a net input at or beyond the remaining base capacity caps the trade at the
// entire quote reserve without touching the solver.
func quoteSell(pool *Pool, amountIn, minAmountOut uint64) (SwapAmount, error) {
	feeIn, ok := doubled(pool.Fees.memeFee(amountIn))
	if !ok {
		return SwapAmount{}, ErrMathOverflow
	}
	net, ok := sub64(amountIn, feeIn)
	if !ok {
		return SwapAmount{}, ErrMathOverflow
	}

	capacity, ok := sub64(pool.Config.GammaM, pool.Meme.Tokens)
	if !ok {
		return SwapAmount{}, ErrMathOverflow
	}
	saturated := net >= capacity
	if saturated {
		net = capacity
	}

	var gross uint64
	if saturated {
		gross = pool.Quote.Tokens
	} else {
		var err error
		gross, err = computeDeltaS(pool.Config, pool.Quote.Tokens, net)
		if err != nil {
			return SwapAmount{}, err
		}
	}

	feeOut, ok := doubled(pool.Fees.quoteFee(gross))
	if !ok {
		return SwapAmount{}, ErrMathOverflow
	}
	netOut, ok := sub64(gross, feeOut)
	if !ok {
		return SwapAmount{}, ErrMathOverflow
	}
	if netOut < minAmountOut {
		return SwapAmount{}, ErrSlippageExceeded
	}
	return SwapAmount{AmountIn: net, AmountOut: netOut, AdminFeeIn: feeIn, AdminFeeOut: feeOut}, nil
}

// Apply settles a quoted swap: admin fees accrue to the fee balances, the
// incoming leg lands on the receiving reserve, and the outgoing leg plus its
// fee leave the paying reserve. A buy that empties the base reserve locks the
// pool within the same update. The caller must pass the result of a Quote
// taken on this exact snapshot; any failure leaves the pool unmodified.
func (e *Engine) Apply(pool *Pool, amount SwapAmount, direction Direction) error {
	if pool == nil {
		return fmt.Errorf("launch: nil pool")
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return err
	}
	if pool.Migrated {
		return ErrPoolMigrated
	}
	if pool.Locked {
		return ErrPoolLocked
	}
	switch direction {
	case DirectionBuy:
		if err := settle(&pool.Quote, &pool.Meme, &pool.AdminFeesQuote, &pool.AdminFeesMeme, amount); err != nil {
			return err
		}
		depleted := pool.Meme.Tokens == 0
		if depleted {
			pool.Locked = true
		}
		e.emit(events.LaunchSwapExecuted{
			PoolID:      pool.ID,
			Direction:   direction.String(),
			AmountIn:    amount.AmountIn,
			AmountOut:   amount.AmountOut,
			AdminFeeIn:  amount.AdminFeeIn,
			AdminFeeOut: amount.AdminFeeOut,
			Locked:      depleted,
		})
		if depleted {
			e.emit(events.LaunchPoolLocked{PoolID: pool.ID, Reason: "depleted"})
		}
		return nil
	case DirectionSell:
		if err := settle(&pool.Meme, &pool.Quote, &pool.AdminFeesMeme, &pool.AdminFeesQuote, amount); err != nil {
			return err
		}
		e.emit(events.LaunchSwapExecuted{
			PoolID:      pool.ID,
			Direction:   direction.String(),
			AmountIn:    amount.AmountIn,
			AmountOut:   amount.AmountOut,
			AdminFeeIn:  amount.AdminFeeIn,
			AdminFeeOut: amount.AdminFeeOut,
		})
		return nil
	default:
		return ErrInvalidDirection
	}
}

// settle moves one swap across the ledger. Every step is checked before any
// field changes, keeping failed applies free of partial writes.
func settle(in, out *Reserve, feeInAcc, feeOutAcc *uint64, amount SwapAmount) error {
	inTokens, ok := add64(in.Tokens, amount.AmountIn)
	if !ok {
		return ErrMathOverflow
	}
	feeInTotal, ok := add64(*feeInAcc, amount.AdminFeeIn)
	if !ok {
		return ErrMathOverflow
	}
	outgoing, ok := add64(amount.AmountOut, amount.AdminFeeOut)
	if !ok {
		return ErrMathOverflow
	}
	outTokens, ok := sub64(out.Tokens, outgoing)
	if !ok {
		return ErrInsufficientBalance
	}
	feeOutTotal, ok := add64(*feeOutAcc, amount.AdminFeeOut)
	if !ok {
		return ErrMathOverflow
	}

	in.Tokens = inTokens
	*feeInAcc = feeInTotal
	out.Tokens = outTokens
	*feeOutAcc = feeOutTotal
	return nil
}

// LockPool halts trading ahead of migration. Locking twice is a no-op; a
// migrated pool cannot change.
func (e *Engine) LockPool(pool *Pool) error {
	if pool == nil {
		return fmt.Errorf("launch: nil pool")
	}
	if pool.Migrated {
		return ErrPoolMigrated
	}
	if pool.Locked {
		return nil
	}
	pool.Locked = true
	e.emit(events.LaunchPoolLocked{PoolID: pool.ID, Reason: "admin"})
	return nil
}

// CompleteMigration records the hand-off of the pool's liquidity to an
// external venue. The pool ends locked and migrated; the state is terminal.
func (e *Engine) CompleteMigration(pool *Pool, venue string) error {
	if pool == nil {
		return fmt.Errorf("launch: nil pool")
	}
	venue = strings.TrimSpace(venue)
	if venue == "" {
		return fmt.Errorf("launch: migration venue required")
	}
	if pool.Migrated {
		return ErrPoolMigrated
	}
	pool.Locked = true
	pool.Migrated = true
	pool.MigrationVenue = venue
	e.emit(events.LaunchPoolMigrated{PoolID: pool.ID, Venue: venue})
	return nil
}

// SoldFractionBps reports how much of the curve's base allocation has been
// sold, in basis points of GammaM.
func SoldFractionBps(pool *Pool) uint32 {
	if pool == nil || pool.Config.GammaM == 0 || pool.Meme.Tokens >= pool.Config.GammaM {
		return 0
	}
	sold := new(big.Int).SetUint64(pool.Config.GammaM - pool.Meme.Tokens)
	sold.Mul(sold, big.NewInt(10_000))
	sold.Quo(sold, new(big.Int).SetUint64(pool.Config.GammaM))
	return uint32(sold.Uint64())
}

// MigrationDue reports whether the sold fraction has reached the threshold the
// external migration collaborator acts on.
func MigrationDue(pool *Pool, thresholdBps uint32) bool {
	return SoldFractionBps(pool) >= thresholdBps
}

func add64(a, b uint64) (uint64, bool) {
	sum, carry := bits.Add64(a, b, 0)
	return sum, carry == 0
}

func sub64(a, b uint64) (uint64, bool) {
	diff, borrow := bits.Sub64(a, b, 0)
	return diff, borrow == 0
}

func doubled(x uint64) (uint64, bool) {
	return add64(x, x)
}
