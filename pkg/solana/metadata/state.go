package metadata

import (
	"crypto/ed25519"
	"strings"

	"github.com/lazorkit/nft-server/pkg/solana/binary"
)

// Metadata is the decoded state of a token metadata account. On-chain
// string fields are stored padded to their maximum length with NUL bytes;
// Unmarshal strips the padding.
type Metadata struct {
	Key                  byte
	UpdateAuthority      ed25519.PublicKey
	Mint                 ed25519.PublicKey
	Name                 string
	Symbol               string
	URI                  string
	SellerFeeBasisPoints uint16
	PrimarySaleHappened  bool
	IsMutable            bool
}

// minMetadataSize is the fixed portion of a metadata account: key, update
// authority, mint, three string length prefixes, seller fee, creators
// option, and the two trailing flags.
const minMetadataSize = 1 + 32 + 32 + 4 + 4 + 4 + 2 + 1 + 1 + 1

func (m *Metadata) Unmarshal(b []byte) bool {
	if len(b) < minMetadataSize {
		return false
	}

	var offset int
	binary.GetUint8(b[offset:], &m.Key, &offset)
	binary.GetKey32(b[offset:], &m.UpdateAuthority, &offset)
	binary.GetKey32(b[offset:], &m.Mint, &offset)

	if err := binary.GetString(b[offset:], &m.Name, &offset); err != nil {
		return false
	}
	if err := binary.GetString(b[offset:], &m.Symbol, &offset); err != nil {
		return false
	}
	if err := binary.GetString(b[offset:], &m.URI, &offset); err != nil {
		return false
	}

	if len(b) < offset+2+1 {
		return false
	}
	binary.GetUint16(b[offset:], &m.SellerFeeBasisPoints, &offset)

	// creators: Option<Vec<Creator>>
	hasCreators := b[offset] == 1
	offset++
	if hasCreators {
		if len(b) < offset+4 {
			return false
		}
		var count uint32
		binary.GetUint32(b[offset:], &count, &offset)
		// each creator is address + verified flag + share
		offset += int(count) * (32 + 1 + 1)
	}

	if len(b) < offset+2 {
		return false
	}
	m.PrimarySaleHappened = b[offset] == 1
	offset++
	m.IsMutable = b[offset] == 1

	m.Name = strings.TrimRight(m.Name, "\x00")
	m.Symbol = strings.TrimRight(m.Symbol, "\x00")
	m.URI = strings.TrimRight(m.URI, "\x00")

	return true
}
