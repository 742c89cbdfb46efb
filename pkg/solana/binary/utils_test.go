package binary

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestString_RoundTrip(t *testing.T) {
	for _, s := range []string{"", "N", "LazorKit", "☉ off curve"} {
		b := make([]byte, StringSize(s))

		var offset int
		require.NoError(t, PutString(b, s, &offset))
		assert.Equal(t, StringSize(s), offset)

		var decoded string
		offset = 0
		require.NoError(t, GetString(b, &decoded, &offset))
		assert.Equal(t, s, decoded)
		assert.Equal(t, StringSize(s), offset)
	}
}

func TestString_Encoding(t *testing.T) {
	b := make([]byte, StringSize("NFT"))

	var offset int
	require.NoError(t, PutString(b, "NFT", &offset))
	assert.Equal(t, []byte{3, 0, 0, 0, 'N', 'F', 'T'}, b)
}

func TestGetString_OutOfBounds(t *testing.T) {
	var s string
	var offset int

	assert.Error(t, GetString([]byte{1, 0}, &s, &offset))
	assert.Error(t, GetString([]byte{5, 0, 0, 0, 'a'}, &s, &offset))
}

func TestUint16(t *testing.T) {
	b := make([]byte, 2)

	var offset int
	PutUint16(b, 250, &offset)
	assert.Equal(t, []byte{250, 0}, b)
	assert.Equal(t, 2, offset)

	var v uint16
	offset = 0
	GetUint16(b, &v, &offset)
	assert.EqualValues(t, 250, v)
}
