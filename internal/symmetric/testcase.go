package symmetric

import "github.com/nist-labs/acvp-client/internal/acverr"

const (
	// KeyLen is the number of key bytes a TDES DUT call actually consumes:
	// key1 || key2 || key3 (or key1 || key2 || key1 for the 2-key form), 8
	// bytes each.
	KeyLen = 24
	// IVLen is the IV length in bytes for every mode that carries one.
	IVLen = 8
	// MaxDataLen is the compile-time upper bound on a single AFT pt/ct
	// buffer. Vector sets seen in practice stay well under this; init
	// rejects anything larger with acverr.InvalidArg rather than growing
	// past it silently.
	MaxDataLen = 16384
)

// TestCase (SymTC in SPEC_FULL.md) owns the mutable buffers for one
// in-flight symmetric test case. A TestCase must be released with Release
// on every exit path after a successful NewTestCase, including failure
// paths, per SPEC_FULL.md's scoped-acquisition rule.
type TestCase struct {
	TcID      int
	Cipher    Cipher
	Direction Direction
	TestType  TestType

	Key []byte // KeyLen bytes: key1 || key2 || key3.
	PT  []byte
	CT  []byte
	IV  []byte

	// IVRet is written by the DUT each inner MCT round for OFB/CFB1/CFB8
	// feedback (§4.E). IVRetAfter is written by the DUT once per outer
	// round and copied into IV at the end of that round for those same
	// three modes; CBC/CFB64 chain IV directly, without either field.
	IVRet      []byte
	IVRetAfter []byte

	// PTLenBits/CTLenBits are authoritative lengths in bits. For every
	// mode except CFB1 these are always a multiple of 8; CFB1 payloads may
	// be any number of bits.
	PTLenBits int
	CTLenBits int

	// MctIndex is the 0-based inner-round counter, read by the DUT to
	// distinguish the first round of an MCT chain from later ones.
	MctIndex int

	// TwoKey requests the 2-key TDES special case (key1|key2|key1) instead
	// of the standard 3-key form. See SPEC_FULL.md's Open Question #3.
	TwoKey bool

	rawKey [KeyLen]byte
}

// PTLenBytes returns ceil(PTLenBits/8).
func (tc *TestCase) PTLenBytes() int { return (tc.PTLenBits + 7) / 8 }

// CTLenBytes returns ceil(CTLenBits/8).
func (tc *TestCase) CTLenBytes() int { return (tc.CTLenBits + 7) / 8 }

// Params configures NewTestCase.
type Params struct {
	TcID      int
	Cipher    Cipher
	Direction Direction
	TestType  TestType

	// Key1/Key2/Key3 are the three 8-byte TDES key fragments, already
	// hex-decoded. Key3 is ignored when TwoKey is set.
	Key1, Key2, Key3 []byte
	TwoKey           bool

	PT, CT []byte
	// PTLenBits/CTLenBits are authoritative when non-zero (used for
	// CFB1's payloadLen); otherwise they default to 8*len(PT)/len(CT).
	PTLenBits, CTLenBits int

	IV []byte
}

// NewTestCase allocates and populates a TestCase from parsed vector-set
// fields. Every failure path releases nothing itself; callers must call
// Release on both success and failure once NewTestCase has returned a
// non-nil TestCase.
func NewTestCase(p Params) (*TestCase, error) {
	if len(p.Key1) != 8 || len(p.Key2) != 8 {
		return nil, acverr.New(acverr.InvalidArg, "key1/key2 must each be 8 bytes")
	}
	if !p.TwoKey && len(p.Key3) != 8 {
		return nil, acverr.New(acverr.InvalidArg, "key3 must be 8 bytes for 3-key TDES")
	}
	if len(p.PT) > MaxDataLen || len(p.CT) > MaxDataLen {
		return nil, acverr.Newf(acverr.InvalidArg, "pt/ct exceeds %d byte maximum", MaxDataLen)
	}
	if p.Cipher.hasIV() && len(p.IV) != IVLen {
		return nil, acverr.Newf(acverr.InvalidArg, "iv must be %d bytes for %s", IVLen, p.Cipher)
	}

	tc := &TestCase{
		TcID:      p.TcID,
		Cipher:    p.Cipher,
		Direction: p.Direction,
		TestType:  p.TestType,
		TwoKey:    p.TwoKey,
		IVRet:     make([]byte, IVLen),
		IVRetAfter: make([]byte, IVLen),
	}

	// §4.D.a: assemble key1 || key2 || key3 at byte offsets 0/8/16. The
	// original source builds this by strncpy'ing each 16-hex-char fragment
	// into a hex-string buffer at offsets 0/16/32 before a single
	// hex-to-binary pass; those are hex-character offsets, which collapse
	// to ordinary byte offsets 0/8/16 once decoded (see Open Question #1).
	copy(tc.rawKey[0:8], p.Key1)
	copy(tc.rawKey[8:16], p.Key2)
	if p.TwoKey {
		// 2-key TDES (key1|key2|key1) per Open Question #3.
		copy(tc.rawKey[16:24], p.Key1)
	} else {
		copy(tc.rawKey[16:24], p.Key3)
	}
	tc.Key = tc.rawKey[0:KeyLen]

	if len(p.PT) > 0 {
		tc.PT = make([]byte, len(p.PT), MaxDataLen)
		copy(tc.PT, p.PT)
	}
	if len(p.CT) > 0 {
		tc.CT = make([]byte, len(p.CT), MaxDataLen)
		copy(tc.CT, p.CT)
	}
	tc.PTLenBits = p.PTLenBits
	if tc.PTLenBits == 0 {
		tc.PTLenBits = len(p.PT) * 8
	}
	tc.CTLenBits = p.CTLenBits
	if tc.CTLenBits == 0 {
		tc.CTLenBits = len(p.CT) * 8
	}

	if p.Cipher.hasIV() {
		tc.IV = make([]byte, IVLen)
		copy(tc.IV, p.IV)
	}

	return tc, nil
}

// Release zeroes and drops every buffer owned by tc. It is safe to call
// more than once and safe to call on a partially-initialized TestCase.
func (tc *TestCase) Release() {
	if tc == nil {
		return
	}
	zero(tc.PT)
	zero(tc.CT)
	zero(tc.IV)
	zero(tc.IVRet)
	zero(tc.IVRetAfter)
	for i := range tc.rawKey {
		tc.rawKey[i] = 0
	}
	tc.Key = nil
	tc.PT, tc.CT, tc.IV, tc.IVRet, tc.IVRetAfter = nil, nil, nil, nil, nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
