package metadata

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lazorkit/nft-server/pkg/solana"
)

func TestGetMetadataAddress(t *testing.T) {
	keys := generateKeys(t, 1)

	addr, err := GetMetadataAddress(keys[0])
	require.NoError(t, err)
	require.Len(t, addr, ed25519.PublicKeySize)

	expected, err := solana.FindProgramAddress(ProgramKey, []byte("metadata"), ProgramKey, keys[0])
	require.NoError(t, err)
	assert.Equal(t, expected, addr)

	// Derivation is deterministic.
	again, err := GetMetadataAddress(keys[0])
	require.NoError(t, err)
	assert.Equal(t, addr, again)
}

func TestGetMasterEditionAddress(t *testing.T) {
	keys := generateKeys(t, 1)

	addr, err := GetMasterEditionAddress(keys[0])
	require.NoError(t, err)
	require.Len(t, addr, ed25519.PublicKeySize)

	expected, err := solana.FindProgramAddress(ProgramKey, []byte("metadata"), ProgramKey, keys[0], []byte("edition"))
	require.NoError(t, err)
	assert.Equal(t, expected, addr)

	// The edition address is distinct from the metadata address.
	metadataAddr, err := GetMetadataAddress(keys[0])
	require.NoError(t, err)
	assert.NotEqual(t, metadataAddr, addr)
}

func generateKeys(t *testing.T, amount int) []ed25519.PublicKey {
	keys := make([]ed25519.PublicKey, amount)

	for i := 0; i < amount; i++ {
		pub, _, err := ed25519.GenerateKey(rand.Reader)
		require.NoError(t, err)
		keys[i] = pub
	}

	return keys
}
