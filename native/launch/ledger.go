package launch

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"curvepad/storage"
)

// Pool records live under their hex ID; the index key tracks insertion order
// for enumeration.
var (
	poolKeyPrefix = []byte("launch/pool/")
	poolIndexKey  = []byte("launch/pools")
)

// ErrPoolNotFound is returned when a pool ID has no stored record.
var ErrPoolNotFound = errors.New("launch: pool not found")

// PoolStore persists pool records in a key-value database. Records travel as
// RLP envelopes; the curve config keeps its fixed-width binary form inside the
// envelope.
type PoolStore struct {
	db storage.Database
}

// NewPoolStore wraps a database in a pool ledger.
func NewPoolStore(db storage.Database) *PoolStore {
	return &PoolStore{db: db}
}

type storedReserve struct {
	Asset  string
	Vault  string
	Tokens uint64
}

type storedPool struct {
	ID               [32]byte
	Creator          string
	Meme             storedReserve
	Quote            storedReserve
	AdminFeesMeme    uint64
	AdminFeesQuote   uint64
	Config           []byte
	FeeMemePercent   uint64
	FeeQuotePercent  uint64
	AirdroppedTokens uint64
	Locked           bool
	Migrated         bool
	MigrationVenue   string
}

// Put upserts a pool record, indexing IDs seen for the first time.
func (s *PoolStore) Put(pool *Pool) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("launch: pool store not initialised")
	}
	if pool == nil {
		return fmt.Errorf("launch: nil pool")
	}
	if pool.ID.IsZero() {
		return fmt.Errorf("launch: pool id required")
	}
	record, err := encodePool(pool)
	if err != nil {
		return err
	}
	payload, err := rlp.EncodeToBytes(record)
	if err != nil {
		return fmt.Errorf("launch: encode pool: %w", err)
	}
	known, err := s.Has(pool.ID)
	if err != nil {
		return err
	}
	if err := s.db.Put(poolKey(pool.ID), payload); err != nil {
		return fmt.Errorf("launch: store pool: %w", err)
	}
	if !known {
		if err := s.appendIndex(pool.ID); err != nil {
			return err
		}
	}
	return nil
}

// Get loads a pool by ID.
func (s *PoolStore) Get(id PoolID) (*Pool, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("launch: pool store not initialised")
	}
	payload, err := s.db.Get(poolKey(id))
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil, ErrPoolNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("launch: load pool: %w", err)
	}
	var record storedPool
	if err := rlp.DecodeBytes(payload, &record); err != nil {
		return nil, fmt.Errorf("launch: decode pool: %w", err)
	}
	return decodePool(record)
}

// Has reports whether a record exists for id.
func (s *PoolStore) Has(id PoolID) (bool, error) {
	if s == nil || s.db == nil {
		return false, fmt.Errorf("launch: pool store not initialised")
	}
	if _, err := s.db.Get(poolKey(id)); err != nil {
		if errors.Is(err, storage.ErrKeyNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("launch: probe pool: %w", err)
	}
	return true, nil
}

// List returns every stored pool in insertion order.
func (s *PoolStore) List() ([]*Pool, error) {
	ids, err := s.index()
	if err != nil {
		return nil, err
	}
	pools := make([]*Pool, 0, len(ids))
	for _, id := range ids {
		pool, err := s.Get(PoolID(id))
		if err != nil {
			return nil, err
		}
		pools = append(pools, pool)
	}
	return pools, nil
}

func (s *PoolStore) index() ([][32]byte, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("launch: pool store not initialised")
	}
	payload, err := s.db.Get(poolIndexKey)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("launch: load pool index: %w", err)
	}
	var ids [][32]byte
	if err := rlp.DecodeBytes(payload, &ids); err != nil {
		return nil, fmt.Errorf("launch: decode pool index: %w", err)
	}
	return ids, nil
}

func (s *PoolStore) appendIndex(id PoolID) error {
	ids, err := s.index()
	if err != nil {
		return err
	}
	ids = append(ids, id)
	payload, err := rlp.EncodeToBytes(ids)
	if err != nil {
		return fmt.Errorf("launch: encode pool index: %w", err)
	}
	if err := s.db.Put(poolIndexKey, payload); err != nil {
		return fmt.Errorf("launch: store pool index: %w", err)
	}
	return nil
}

func encodePool(pool *Pool) (storedPool, error) {
	configBlob, err := pool.Config.MarshalBinary()
	if err != nil {
		return storedPool{}, err
	}
	return storedPool{
		ID:               pool.ID,
		Creator:          pool.Creator,
		Meme:             storedReserve{Asset: pool.Meme.Asset, Vault: pool.Meme.Vault, Tokens: pool.Meme.Tokens},
		Quote:            storedReserve{Asset: pool.Quote.Asset, Vault: pool.Quote.Vault, Tokens: pool.Quote.Tokens},
		AdminFeesMeme:    pool.AdminFeesMeme,
		AdminFeesQuote:   pool.AdminFeesQuote,
		Config:           configBlob,
		FeeMemePercent:   pool.Fees.MemePercent,
		FeeQuotePercent:  pool.Fees.QuotePercent,
		AirdroppedTokens: pool.AirdroppedTokens,
		Locked:           pool.Locked,
		Migrated:         pool.Migrated,
		MigrationVenue:   pool.MigrationVenue,
	}, nil
}

func decodePool(record storedPool) (*Pool, error) {
	var cfg CurveConfig
	if err := cfg.UnmarshalBinary(record.Config); err != nil {
		return nil, err
	}
	fees, err := NewFees(record.FeeMemePercent, record.FeeQuotePercent)
	if err != nil {
		return nil, err
	}
	return &Pool{
		ID:               PoolID(record.ID),
		Creator:          record.Creator,
		Meme:             Reserve{Asset: record.Meme.Asset, Vault: record.Meme.Vault, Tokens: record.Meme.Tokens},
		Quote:            Reserve{Asset: record.Quote.Asset, Vault: record.Quote.Vault, Tokens: record.Quote.Tokens},
		AdminFeesMeme:    record.AdminFeesMeme,
		AdminFeesQuote:   record.AdminFeesQuote,
		Config:           cfg,
		Fees:             fees,
		AirdroppedTokens: record.AirdroppedTokens,
		Locked:           record.Locked,
		Migrated:         record.Migrated,
		MigrationVenue:   record.MigrationVenue,
	}, nil
}

func poolKey(id PoolID) []byte {
	return append(append([]byte(nil), poolKeyPrefix...), id.String()...)
}
