package metadata

import (
	"crypto/ed25519"

	"github.com/lazorkit/nft-server/pkg/solana"
)

var (
	MetadataPrefix = []byte("metadata")
	EditionSuffix  = []byte("edition")
)

// GetMetadataAddress returns the program derived address holding the
// metadata for a mint.
//
// Reference: https://github.com/metaplex-foundation/mpl-token-metadata/blob/23aee718e723578ee5df411f045184e0ac9a9e63/programs/token-metadata/program/src/pda.rs#L13
func GetMetadataAddress(mint ed25519.PublicKey) (ed25519.PublicKey, error) {
	return solana.FindProgramAddress(
		ProgramKey,
		MetadataPrefix,
		ProgramKey,
		mint,
	)
}

// GetMasterEditionAddress returns the program derived address holding the
// master edition for a mint.
//
// Reference: https://github.com/metaplex-foundation/mpl-token-metadata/blob/23aee718e723578ee5df411f045184e0ac9a9e63/programs/token-metadata/program/src/pda.rs#L37
func GetMasterEditionAddress(mint ed25519.PublicKey) (ed25519.PublicKey, error) {
	return solana.FindProgramAddress(
		ProgramKey,
		MetadataPrefix,
		ProgramKey,
		mint,
		EditionSuffix,
	)
}
