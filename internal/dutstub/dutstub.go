// Package dutstub provides a deterministic, non-cryptographic stand-in for
// the Device Under Test that internal/symmetric drives. It exists purely so
// the vector-set handler and MCT engine can be exercised without a real
// Triple-DES implementation wired in, the way protocol/internal/testing
// gives cloudflare-roughtime's codec tests a deterministic io.Reader instead
// of crypto/rand.
package dutstub

import (
	"github.com/nist-labs/acvp-client/internal/crypto"
	"github.com/nist-labs/acvp-client/internal/symmetric"
)

// kwICV is the RFC 3394 key-wrap integrity check value: eight bytes of
// 0xA6. The stub prepends it (masked by the key) instead of performing a
// real wrap, and checks for it on unwrap to simulate an integrity failure.
var kwICV = [8]byte{0xa6, 0xa6, 0xa6, 0xa6, 0xa6, 0xa6, 0xa6, 0xa6}

// DUT is a keyed XOR stand-in cipher. It is not cryptography: it exists to
// give the vector-set handler and MCT engine a real, invertible Handle
// implementation to drive in tests. Corrupt reports a key-wrap integrity
// failure on the next unwrap call it handles, for exercising the
// TDES-KW testPassed:false path.
type DUT struct {
	Corrupt bool
}

// New returns a DUT stub with no injected failures.
func New() *DUT {
	return &DUT{}
}

func (d *DUT) Handle(tc *symmetric.TestCase) error {
	if tc.Cipher == symmetric.TDES_KW {
		return d.handleKW(tc)
	}
	return d.handleBlockCipher(tc)
}

func (d *DUT) handleBlockCipher(tc *symmetric.TestCase) error {
	switch tc.Cipher {
	case symmetric.TDES_CBC, symmetric.TDES_CFB64:
		return d.handleChainedBlock(tc)
	}

	if tc.Direction == symmetric.Encrypt {
		out := xorBlock(tc.PT, tc.Key)
		tc.CT = out
		if tc.Cipher.HasIV() {
			tc.IVRet = feedbackBlock(out)
			tc.IVRetAfter = feedbackBlock(out)
		}
		return nil
	}

	out := xorBlock(tc.CT, tc.Key)
	tc.PT = out
	if tc.Cipher.HasIV() {
		tc.IVRet = feedbackBlock(tc.CT)
		tc.IVRetAfter = feedbackBlock(tc.CT)
	}
	return nil
}

// handleChainedBlock stands in for CBC/CFB64, the two modes whose real
// crypto module folds the IV into every block instead of routing feedback
// through IVRet. Encrypt computes (pt xor iv) xor key; decrypt inverts it.
// A stale or unchained tc.IV therefore changes this round's output, not
// just the first, which is what makes the per-round IV writes in
// internal/symmetric/mct.go's postProcess observable from a test.
func (d *DUT) handleChainedBlock(tc *symmetric.TestCase) error {
	if tc.Direction == symmetric.Encrypt {
		out := xorBlock(xorBlock(tc.PT, tc.IV), tc.Key)
		tc.CT = out
		return nil
	}

	tc.PT = xorBlock(xorBlock(tc.CT, tc.Key), tc.IV)
	return nil
}

// handleKW wraps or unwraps tc.PT/tc.CT with an 8-byte ICV prefix XORed
// under the key, standing in for a real RFC 3394 key wrap.
func (d *DUT) handleKW(tc *symmetric.TestCase) error {
	if tc.Direction == symmetric.Encrypt {
		plain := append(kwICV[:], tc.PT...)
		tc.CT = xorBlock(plain, tc.Key)
		return nil
	}

	if d.Corrupt {
		d.Corrupt = false
		return crypto.KeyWrapFailure("integrity check value mismatch")
	}

	plain := xorBlock(tc.CT, tc.Key)
	if len(plain) < len(kwICV) {
		return crypto.KeyWrapFailure("wrapped payload too short")
	}
	for i, b := range kwICV {
		if plain[i] != b {
			return crypto.KeyWrapFailure("integrity check value mismatch")
		}
	}
	tc.PT = plain[len(kwICV):]
	return nil
}

// xorBlock returns a new slice the length of src, each byte XORed against
// key cycled from the start. Applying it twice with the same key returns
// the original input.
func xorBlock(src, key []byte) []byte {
	out := make([]byte, len(src))
	for i, b := range src {
		out[i] = b ^ key[i%len(key)]
	}
	return out
}

// feedbackBlock derives an 8-byte register update from a cipher output of
// arbitrary length (1 byte for CFB1/CFB8, 8 bytes otherwise) by repeating it
// to fill IVLen bytes.
func feedbackBlock(out []byte) []byte {
	fb := make([]byte, symmetric.IVLen)
	for i := range fb {
		fb[i] = out[i%len(out)]
	}
	return fb
}
