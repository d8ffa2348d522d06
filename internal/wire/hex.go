// Package wire converts between raw bytes and the lowercase hex strings ACVP
// vector sets use on the wire. Most callers only ever need byte-aligned
// conversion; the bit-aware variants exist for CFB1, where payload lengths
// are counted in bits rather than bytes.
package wire

import (
	"encoding/hex"
	"strings"

	"github.com/nist-labs/acvp-client/internal/acverr"
)

// BytesToHex renders src as lowercase hex with no separators or prefix.
func BytesToHex(src []byte) string {
	return hex.EncodeToString(src)
}

// HexToBytes parses s as lowercase (or uppercase) hex. It fails with
// acverr.InvalidArg on odd length or non-hex characters.
func HexToBytes(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, acverr.Newf(acverr.InvalidArg, "odd-length hex string %q", s)
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, acverr.Wrap(acverr.InvalidArg, "invalid hex string", err)
	}
	return b, nil
}

// BytesToHexBits renders the first nbits bits of src as hex, packing bits
// MSB-first into each byte per the ACVP bit-string convention: a 5-bit
// payload occupies the top 5 bits of a single output byte, with the
// remaining low bits zero.
func BytesToHexBits(src []byte, nbits int) string {
	nbytes := (nbits + 7) / 8
	if nbytes == 0 {
		return ""
	}
	out := make([]byte, nbytes)
	copy(out, src)
	maskTrailingBits(out, nbits)
	return hex.EncodeToString(out)
}

// HexBitsToBytes parses s as a bit-string of exactly nbits significant bits,
// packed MSB-first, returning ceil(nbits/8) bytes with insignificant
// trailing bits zeroed. Bytes of s beyond ceil(nbits/8) are dropped and
// missing ones are zero-filled. An odd-length s is rejected unless
// nbits <= 4 (a single hex nibble), in which case it is padded with a
// trailing zero nibble.
func HexBitsToBytes(s string, nbits int) ([]byte, error) {
	if len(s)%2 != 0 && nbits > 4 {
		return nil, acverr.Newf(acverr.InvalidArg, "odd-length hex string %q for %d-bit payload", s, nbits)
	}
	// Odd-length nibble inputs (nbits <= 4) are padded so hex.DecodeString
	// has a byte-aligned string to work with.
	padded := s
	if len(padded)%2 != 0 {
		padded += "0"
	}
	b, err := hex.DecodeString(padded)
	if err != nil {
		return nil, acverr.Wrap(acverr.InvalidArg, "invalid hex string", err)
	}
	nbytes := (nbits + 7) / 8
	out := make([]byte, nbytes)
	copy(out, b)
	maskTrailingBits(out, nbits)
	return out, nil
}

// maskTrailingBits zeroes every bit past the nbits-th significant bit of
// buf, where significant bits are packed MSB-first starting at buf[0].
func maskTrailingBits(buf []byte, nbits int) {
	fullBytes := nbits / 8
	rem := nbits % 8
	if rem == 0 {
		return
	}
	if fullBytes >= len(buf) {
		return
	}
	mask := byte(0xff) << uint(8-rem)
	buf[fullBytes] &= mask
	for i := fullBytes + 1; i < len(buf); i++ {
		buf[i] = 0
	}
}

// IsHex reports whether s consists solely of hex digits.
func IsHex(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool {
		return !strings.ContainsRune("0123456789abcdefABCDEF", r)
	}) == -1
}
