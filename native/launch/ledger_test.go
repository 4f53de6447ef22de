package launch

import (
	"errors"
	"testing"

	"curvepad/storage"
)

func storedPoolFixture(t *testing.T, memeAsset string) *Pool {
	t.Helper()
	cfg, err := DeriveCurveConfig(1_000_000_000_000, 3_000_000_000_000, 3_000_000_000_000, 21, 20)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	pool, err := NewPool(PoolParams{
		Creator:    "nhb1creator",
		MemeAsset:  memeAsset,
		MemeVault:  "vault-meme",
		QuoteAsset: "usdn",
		QuoteVault: "vault-quote",
		Config:     cfg,
		Fees:       DefaultFees(),
	})
	if err != nil {
		t.Fatalf("new pool: %v", err)
	}
	return pool
}

func TestPoolStoreRoundTrip(t *testing.T) {
	store := NewPoolStore(storage.NewMemDB())
	pool := storedPoolFixture(t, "meme.demo")
	pool.Quote.Tokens = 259_900_000_000
	pool.Meme.Tokens = 499_999_997_467
	pool.AdminFeesQuote = 100_000_000
	pool.MigrationVenue = ""

	if err := store.Put(pool); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := store.Get(pool.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if got.ID != pool.ID || got.Creator != pool.Creator {
		t.Fatalf("identity fields changed: %+v", got)
	}
	if got.Meme != pool.Meme || got.Quote != pool.Quote {
		t.Fatalf("reserves changed: %+v / %+v", got.Meme, got.Quote)
	}
	if got.AdminFeesMeme != pool.AdminFeesMeme || got.AdminFeesQuote != pool.AdminFeesQuote {
		t.Fatal("fee balances changed")
	}
	if got.Fees != pool.Fees || got.AirdroppedTokens != pool.AirdroppedTokens {
		t.Fatal("schedule fields changed")
	}
	if got.Config.AlphaAbs.Cmp(pool.Config.AlphaAbs) != 0 || got.Config.Beta.Cmp(pool.Config.Beta) != 0 {
		t.Fatal("curve coefficients changed")
	}
	if got.Config.GammaS != pool.Config.GammaS || got.Config.GammaM != pool.Config.GammaM || got.Config.OmegaM != pool.Config.OmegaM {
		t.Fatal("capacity bounds changed")
	}
	if got.Config.Decimals.Alpha.Cmp(pool.Config.Decimals.Alpha) != 0 || got.Config.Decimals.Quote != pool.Config.Decimals.Quote {
		t.Fatal("decimals changed")
	}
}

func TestPoolStoreLifecycleFlagsSurvive(t *testing.T) {
	store := NewPoolStore(storage.NewMemDB())
	pool := storedPoolFixture(t, "meme.demo")
	pool.Locked = true
	pool.Migrated = true
	pool.MigrationVenue = "amm.primary"

	if err := store.Put(pool); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := store.Get(pool.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Locked || !got.Migrated || got.MigrationVenue != "amm.primary" {
		t.Fatalf("lifecycle state lost: %+v", got)
	}
}

func TestPoolStoreGetMissing(t *testing.T) {
	store := NewPoolStore(storage.NewMemDB())
	if _, err := store.Get(DerivePoolID("a", "b")); !errors.Is(err, ErrPoolNotFound) {
		t.Fatalf("err = %v, want %v", err, ErrPoolNotFound)
	}
	has, err := store.Has(DerivePoolID("a", "b"))
	if err != nil {
		t.Fatalf("has: %v", err)
	}
	if has {
		t.Fatal("missing pool reported present")
	}
}

func TestPoolStoreRejectsZeroID(t *testing.T) {
	store := NewPoolStore(storage.NewMemDB())
	pool := storedPoolFixture(t, "meme.demo")
	pool.ID = PoolID{}
	if err := store.Put(pool); err == nil {
		t.Fatal("expected error for zero id")
	}
}

func TestPoolStoreListInsertionOrder(t *testing.T) {
	store := NewPoolStore(storage.NewMemDB())
	first := storedPoolFixture(t, "meme.first")
	second := storedPoolFixture(t, "meme.second")

	if err := store.Put(first); err != nil {
		t.Fatalf("put first: %v", err)
	}
	if err := store.Put(second); err != nil {
		t.Fatalf("put second: %v", err)
	}

	pools, err := store.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(pools) != 2 {
		t.Fatalf("listed %d pools, want 2", len(pools))
	}
	if pools[0].ID != first.ID || pools[1].ID != second.ID {
		t.Fatal("insertion order lost")
	}
}

func TestPoolStoreUpdateKeepsSingleIndexEntry(t *testing.T) {
	store := NewPoolStore(storage.NewMemDB())
	pool := storedPoolFixture(t, "meme.demo")

	if err := store.Put(pool); err != nil {
		t.Fatalf("put: %v", err)
	}
	pool.Quote.Tokens = 42
	if err := store.Put(pool); err != nil {
		t.Fatalf("second put: %v", err)
	}

	pools, err := store.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(pools) != 1 {
		t.Fatalf("listed %d pools, want 1", len(pools))
	}
	if pools[0].Quote.Tokens != 42 {
		t.Fatalf("update lost: quote reserve = %d", pools[0].Quote.Tokens)
	}
}

func TestPoolStoreUninitialised(t *testing.T) {
	var store *PoolStore
	if err := store.Put(storedPoolFixture(t, "meme.demo")); err == nil {
		t.Fatal("expected error from nil store")
	}
	if _, err := NewPoolStore(nil).Get(DerivePoolID("a", "b")); err == nil {
		t.Fatal("expected error from store without database")
	}
}
