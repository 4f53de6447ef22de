package launch

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"

	"lukechampine.com/blake3"
)

// MaxAirdropTokens caps the base units a creator may reserve for airdrops at
// pool creation: one hundred million whole tokens at six decimals.
const MaxAirdropTokens uint64 = 100_000_000 * 1_000_000

// poolIDDomain separates pool identifiers from any other hash of the same
// asset pair.
const poolIDDomain = "curvepad/pool/v1"

// PoolParams collects everything needed to open a market.
type PoolParams struct {
	Creator          string
	MemeAsset        string
	MemeVault        string
	QuoteAsset       string
	QuoteVault       string
	Config           CurveConfig
	Fees             Fees
	AirdroppedTokens uint64
}

// NewPool validates the parameters and opens an Active pool holding the full
// base allocation with an empty quote side.
func NewPool(params PoolParams) (*Pool, error) {
	creator := strings.TrimSpace(params.Creator)
	memeAsset := strings.TrimSpace(params.MemeAsset)
	memeVault := strings.TrimSpace(params.MemeVault)
	quoteAsset := strings.TrimSpace(params.QuoteAsset)
	quoteVault := strings.TrimSpace(params.QuoteVault)

	if memeAsset == "" || quoteAsset == "" {
		return nil, fmt.Errorf("launch: pool assets required")
	}
	if memeVault == "" || quoteVault == "" {
		return nil, fmt.Errorf("launch: pool vaults required")
	}
	if memeAsset == quoteAsset {
		return nil, ErrAssetMismatch
	}
	if err := params.Config.Validate(); err != nil {
		return nil, err
	}
	if err := params.Fees.Validate(); err != nil {
		return nil, err
	}
	if params.AirdroppedTokens > MaxAirdropTokens {
		return nil, fmt.Errorf("launch: airdrop allocation exceeds %d base units", MaxAirdropTokens)
	}

	return &Pool{
		ID:               DerivePoolID(memeAsset, quoteAsset),
		Creator:          creator,
		Meme:             Reserve{Asset: memeAsset, Vault: memeVault, Tokens: params.Config.GammaM},
		Quote:            Reserve{Asset: quoteAsset, Vault: quoteVault},
		Config:           params.Config.Clone(),
		Fees:             params.Fees,
		AirdroppedTokens: params.AirdroppedTokens,
	}, nil
}

// DerivePoolID produces the deterministic identifier for an asset pair:
// BLAKE3 over the domain tag and the length-delimited pair.
func DerivePoolID(memeAsset, quoteAsset string) PoolID {
	buf := bytes.NewBuffer(nil)
	writeDelimited(buf, []byte(poolIDDomain))
	writeDelimited(buf, []byte(strings.TrimSpace(memeAsset)))
	writeDelimited(buf, []byte(strings.TrimSpace(quoteAsset)))
	return PoolID(blake3.Sum256(buf.Bytes()))
}

func writeDelimited(buf *bytes.Buffer, data []byte) {
	var length [4]byte
	binary.BigEndian.PutUint32(length[:], uint32(len(data)))
	buf.Write(length[:])
	buf.Write(data)
}
