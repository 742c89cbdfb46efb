// Package nft assembles the instruction sequence that mints a one-of-one
// NFT on Solana: allocate and initialize a zero-decimal mint, create the
// payer's associated token account, mint the single token, then attach
// Metaplex metadata and a master edition.
package nft

import (
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/lazorkit/nft-server/pkg/solana"
	"github.com/lazorkit/nft-server/pkg/solana/metadata"
)

var (
	// ErrMetadataFieldTooLong indicates a metadata string field exceeds the
	// on-chain maximum for its slot.
	ErrMetadataFieldTooLong = errors.New("metadata field exceeds maximum length")
	// ErrInvalidRoyalty indicates the royalty is outside [0, 10000] basis points.
	ErrInvalidRoyalty = errors.New("royalty basis points out of range")
	// ErrMissingMetadataURI indicates no metadata URI was provided.
	ErrMissingMetadataURI = errors.New("metadata uri is required")
	// ErrExternalQueryFailed indicates the rent exemption query against the
	// cluster failed. The query is not retried here; callers decide.
	ErrExternalQueryFailed = errors.New("rent exemption query failed")
)

// MetadataInput is the caller-provided content for the NFT being minted.
//
// Description is carried for off-chain metadata documents; it is not part
// of the on-chain account and is never encoded.
type MetadataInput struct {
	Name        string
	Symbol      string
	Description string
	URI         string
	RoyaltyBps  uint16
}

// Validate checks the input against the token metadata program's on-chain
// limits. Field lengths are measured in UTF-8 bytes, not runes.
func (m *MetadataInput) Validate() error {
	if len(m.Name) > metadata.MaxNameLength {
		return errors.Wrapf(ErrMetadataFieldTooLong, "name is %d bytes, max %d", len(m.Name), metadata.MaxNameLength)
	}
	if len(m.Symbol) > metadata.MaxSymbolLength {
		return errors.Wrapf(ErrMetadataFieldTooLong, "symbol is %d bytes, max %d", len(m.Symbol), metadata.MaxSymbolLength)
	}
	if m.RoyaltyBps > metadata.MaxSellerFeeBasisPoints {
		return errors.Wrapf(ErrInvalidRoyalty, "got %d basis points, max %d", m.RoyaltyBps, metadata.MaxSellerFeeBasisPoints)
	}
	if len(m.URI) == 0 {
		return ErrMissingMetadataURI
	}
	if len(m.URI) > metadata.MaxURILength {
		return errors.Wrapf(ErrMetadataFieldTooLong, "uri is %d bytes, max %d", len(m.URI), metadata.MaxURILength)
	}
	return nil
}

// CreationPlan is a fully derived, ready-to-compile mint sequence. The mint
// keypair is generated fresh per plan and must co-sign the transaction
// alongside the payer.
type CreationPlan struct {
	Mint           ed25519.PublicKey
	MintPrivateKey ed25519.PrivateKey

	HoldingAccount       ed25519.PublicKey
	MetadataAccount      ed25519.PublicKey
	MasterEditionAccount ed25519.PublicKey

	Instructions []solana.Instruction
}

// Transaction compiles the plan into a single unsigned transaction paid for
// by payer. The caller signs with the payer's key and the plan's mint key
// before submission.
func (p *CreationPlan) Transaction(payer ed25519.PublicKey) solana.Transaction {
	return solana.NewTransaction(payer, p.Instructions...)
}
