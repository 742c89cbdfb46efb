// Package binary provides fixed-layout serialization helpers shared by the
// hand-built program instruction and account encoders. All integers are
// little-endian, strings are u32-length-prefixed UTF-8, and optional fields
// carry a leading presence tag, matching the Borsh conventions used by
// on-chain programs.
package binary

import (
	"crypto/ed25519"
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
)

var ErrStringTooLong = errors.New("string exceeds maximum encodable length")

func PutKey32(dst []byte, src []byte, offset *int) {
	copy(dst, src)
	*offset += ed25519.PublicKeySize
}

func PutOptionalKey32(dst []byte, src []byte, offset *int, optionSize int) {
	if len(src) > 0 {
		dst[0] = 1
		copy(dst[optionSize:], src)
	}

	*offset += optionSize + ed25519.PublicKeySize
}

func PutUint64(dst []byte, v uint64, offset *int) {
	binary.LittleEndian.PutUint64(dst, v)
	*offset += 8
}

func PutUint32(dst []byte, v uint32, offset *int) {
	binary.LittleEndian.PutUint32(dst, v)
	*offset += 4
}

func PutUint16(dst []byte, v uint16, offset *int) {
	binary.LittleEndian.PutUint16(dst, v)
	*offset += 2
}

func PutUint8(dst []byte, v uint8, offset *int) {
	dst[0] = v
	*offset += 1
}

func PutOptionalUint64(dst []byte, v *uint64, offset *int, optionSize int) {
	if v != nil {
		dst[0] = 1
		binary.LittleEndian.PutUint64(dst[optionSize:], *v)
	}
	*offset += optionSize + 8
}

// PutString writes a u32 little-endian length prefix followed by the raw
// UTF-8 bytes of s.
func PutString(dst []byte, s string, offset *int) error {
	if len(s) > math.MaxUint32 {
		return ErrStringTooLong
	}

	binary.LittleEndian.PutUint32(dst, uint32(len(s)))
	copy(dst[4:], s)
	*offset += 4 + len(s)
	return nil
}

// StringSize returns the encoded size of s, including the length prefix.
func StringSize(s string) int {
	return 4 + len(s)
}

func GetKey32(src []byte, dst *ed25519.PublicKey, offset *int) {
	*dst = make([]byte, ed25519.PublicKeySize)
	copy(*dst, src)
	*offset += ed25519.PublicKeySize
}

func GetOptionalKey32(src []byte, dst *ed25519.PublicKey, offset *int, optionSize int) {
	if src[0] == 1 {
		*dst = make([]byte, ed25519.PublicKeySize)
		copy(*dst, src[optionSize:])
	}
	*offset += optionSize + ed25519.PublicKeySize
}

func GetUint64(src []byte, dst *uint64, offset *int) {
	*dst = binary.LittleEndian.Uint64(src)
	*offset += 8
}

func GetUint32(src []byte, dst *uint32, offset *int) {
	*dst = binary.LittleEndian.Uint32(src)
	*offset += 4
}

func GetUint16(src []byte, dst *uint16, offset *int) {
	*dst = binary.LittleEndian.Uint16(src)
	*offset += 2
}

func GetUint8(src []byte, dst *uint8, offset *int) {
	*dst = src[0]
	*offset += 1
}

func GetOptionalUint64(src []byte, dst **uint64, offset *int, optionSize int) {
	if src[0] == 1 {
		val := binary.LittleEndian.Uint64(src[optionSize:])
		*dst = &val
	}
	*offset += optionSize + 8
}

// GetString reads a u32-length-prefixed string, bounds checking against the
// remaining input.
func GetString(src []byte, dst *string, offset *int) error {
	if len(src) < 4 {
		return errors.Errorf("string prefix out of bounds: %d remaining", len(src))
	}

	size := int(binary.LittleEndian.Uint32(src))
	if len(src) < 4+size {
		return errors.Errorf("string data out of bounds: %d of %d remaining", len(src)-4, size)
	}

	*dst = string(src[4 : 4+size])
	*offset += 4 + size
	return nil
}
