package symmetric_test

import (
	"encoding/hex"
	"testing"

	"github.com/nist-labs/acvp-client/internal/dutstub"
	"github.com/nist-labs/acvp-client/internal/symmetric"
	"github.com/nist-labs/acvp-client/internal/wire"
)

func key(b byte) []byte {
	return []byte{b, b, b, b, b, b, b, b}
}

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("mustHex(%q): %v", s, err)
	}
	return b
}

// refBlock is the same keyed-XOR stand-in cipher dutstub.handleChainedBlock
// and dutstub.xorBlock use, reimplemented here so the scenario tests below
// compute their expected output independently of the engine's own state
// tracking rather than by re-deriving it from the same code path.
func refBlock(src, key []byte) []byte {
	out := make([]byte, len(src))
	for i := range out {
		out[i] = src[i] ^ key[i%len(key)]
	}
	return out
}

func TestMCTProducesOneRoundPerOuterIteration(t *testing.T) {
	tc, err := symmetric.NewTestCase(symmetric.Params{
		TcID:      1,
		Cipher:    symmetric.TDES_CBC,
		Direction: symmetric.Encrypt,
		TestType:  symmetric.MCT,
		Key1:      key(0x01),
		Key2:      key(0x02),
		Key3:      key(0x03),
		PT:        make([]byte, 8),
		IV:        make([]byte, 8),
	})
	if err != nil {
		t.Fatalf("NewTestCase: %v", err)
	}
	defer tc.Release()

	dut := dutstub.New()
	engine := &symmetric.MCTEngine{Outer: 3, Inner: 5}

	rounds, err := engine.Run(tc, dut)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(rounds) != 3 {
		t.Fatalf("len(rounds) = %d, want 3", len(rounds))
	}
	for i, r := range rounds {
		if r.CT == "" {
			t.Fatalf("round %d: empty ct", i)
		}
		if r.Key1 == "" || r.Key2 == "" || r.Key3 == "" {
			t.Fatalf("round %d: incomplete key split", i)
		}
	}
}

func TestMCTKeyStaysOddParityAfterEveryOuterRound(t *testing.T) {
	tc, err := symmetric.NewTestCase(symmetric.Params{
		TcID:      2,
		Cipher:    symmetric.TDES_ECB,
		Direction: symmetric.Encrypt,
		TestType:  symmetric.MCT,
		Key1:      key(0xaa),
		Key2:      key(0xbb),
		Key3:      key(0xcc),
		PT:        make([]byte, 8),
	})
	if err != nil {
		t.Fatalf("NewTestCase: %v", err)
	}
	defer tc.Release()

	engine := &symmetric.MCTEngine{Outer: 10, Inner: 20}
	rounds, err := engine.Run(tc, dutstub.New())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	// rounds[r] records the key outer round r started from, so rounds[1:]
	// are the keys left by rounds 0..8 and tc.Key is the key after round 9.
	for r := 1; r < len(rounds); r++ {
		k := mustHex(t, rounds[r].Key1+rounds[r].Key2+rounds[r].Key3)
		if !symmetric.HasOddParity(k) {
			t.Fatalf("key %x after outer round %d does not have odd parity", k, r-1)
		}
	}
	if !symmetric.HasOddParity(tc.Key) {
		t.Fatalf("key %x does not have odd parity after MCT run", tc.Key)
	}
}

func TestMCTRejectsKeyWrap(t *testing.T) {
	tc, err := symmetric.NewTestCase(symmetric.Params{
		TcID:      3,
		Cipher:    symmetric.TDES_KW,
		Direction: symmetric.Encrypt,
		TestType:  symmetric.MCT,
		Key1:      key(0x01),
		Key2:      key(0x02),
		Key3:      key(0x03),
		PT:        make([]byte, 8),
	})
	if err != nil {
		t.Fatalf("NewTestCase: %v", err)
	}
	defer tc.Release()

	engine := symmetric.NewMCT()
	if _, err := engine.Run(tc, dutstub.New()); err == nil {
		t.Fatal("expected an error running MCT against TDES-KW")
	}
}

func TestMCTOFBRunsToCompletion(t *testing.T) {
	tc, err := symmetric.NewTestCase(symmetric.Params{
		TcID:      4,
		Cipher:    symmetric.TDES_OFB,
		Direction: symmetric.Decrypt,
		TestType:  symmetric.MCT,
		Key1:      key(0x10),
		Key2:      key(0x20),
		Key3:      key(0x30),
		CT:        make([]byte, 8),
		IV:        make([]byte, 8),
	})
	if err != nil {
		t.Fatalf("NewTestCase: %v", err)
	}
	defer tc.Release()

	engine := &symmetric.MCTEngine{Outer: 2, Inner: 4}
	rounds, err := engine.Run(tc, dutstub.New())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(rounds) != 2 {
		t.Fatalf("len(rounds) = %d, want 2", len(rounds))
	}
	for i, r := range rounds {
		if r.PT == "" {
			t.Fatalf("round %d: expected pt to be recorded for decrypt direction", i)
		}
	}
}

// TestMCTCBCEncryptFirstOuterRoundMatchesIdealOracle is scenario 1: a
// literal key/iv/pt run through 1000 CBC-encrypt inner rounds against
// dutstub's deterministic cipher, checked against an independently
// computed reference chain rather than against the engine's own state.
func TestMCTCBCEncryptFirstOuterRoundMatchesIdealOracle(t *testing.T) {
	keyBytes := mustHex(t, "0123456789ABCDEF23456789ABCDEF0145678923456789AB")
	ivBytes := mustHex(t, "0011223344556677")
	ptBytes := mustHex(t, "8899AABBCCDDEEFF")

	tc, err := symmetric.NewTestCase(symmetric.Params{
		TcID:      1,
		Cipher:    symmetric.TDES_CBC,
		Direction: symmetric.Encrypt,
		TestType:  symmetric.MCT,
		Key1:      keyBytes[0:8],
		Key2:      keyBytes[8:16],
		Key3:      keyBytes[16:24],
		PT:        ptBytes,
		IV:        ivBytes,
	})
	if err != nil {
		t.Fatalf("NewTestCase: %v", err)
	}
	defer tc.Release()

	engine := &symmetric.MCTEngine{Outer: 1, Inner: 1000}
	rounds, err := engine.Run(tc, dutstub.New())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(rounds) != 1 {
		t.Fatalf("len(rounds) = %d, want 1", len(rounds))
	}

	round := rounds[0]
	if round.Key1 != "0123456789abcdef" || round.Key2 != "23456789abcdef01" || round.Key3 != "45678923456789ab" {
		t.Fatalf("round key split = %s/%s/%s, want input key1/key2/key3", round.Key1, round.Key2, round.Key3)
	}
	if round.IV != wire.BytesToHex(ivBytes) {
		t.Fatalf("round.IV = %s, want %s", round.IV, wire.BytesToHex(ivBytes))
	}
	if round.PT != wire.BytesToHex(ptBytes) {
		t.Fatalf("round.PT = %s, want %s", round.PT, wire.BytesToHex(ptBytes))
	}

	wantCT := idealCBCEncryptChain(keyBytes, ivBytes, ptBytes, 1000)
	if round.CT != wire.BytesToHex(wantCT) {
		t.Fatalf("round.CT = %s, want %s (ideal oracle's ct[999])", round.CT, wire.BytesToHex(wantCT))
	}
}

// idealCBCEncryptChain independently reproduces the CBC Monte-Carlo
// transition rule against refBlock: CV[0]=iv, PT[0]=pt0,
// CT[j]=refBlock(PT[j] xor CV[j], key); PT[1]=CV[0], PT[j]=CT[j-2] for
// j>=2; CV[j+1]=CT[j]. It returns CT[rounds-1].
func idealCBCEncryptChain(key, iv, pt0 []byte, rounds int) []byte {
	cv := append([]byte(nil), iv...)
	pt := append([]byte(nil), pt0...)
	ctHist := make([][]byte, rounds)

	for j := 0; j < rounds; j++ {
		ct := refBlock(refBlock(pt, cv), key)
		ctHist[j] = ct

		nextCV := ct
		var nextPT []byte
		switch j {
		case rounds - 1:
			nextPT = nil
		case 0:
			nextPT = iv
		default:
			nextPT = ctHist[j-1]
		}
		cv, pt = nextCV, nextPT
	}
	return ctHist[rounds-1]
}

// TestMCTECBDecryptMatchesIdealOracle is scenario 2: after round 0, ct is
// overwritten with the just-produced pt for every remaining round; the
// final pt must equal an independently computed reference's 1000th
// decrypt output.
func TestMCTECBDecryptMatchesIdealOracle(t *testing.T) {
	keyBytes := mustHex(t, "0123456789ABCDEF23456789ABCDEF0145678923456789AB")
	ctBytes := mustHex(t, "1122334455667788")

	tc, err := symmetric.NewTestCase(symmetric.Params{
		TcID:      2,
		Cipher:    symmetric.TDES_ECB,
		Direction: symmetric.Decrypt,
		TestType:  symmetric.MCT,
		Key1:      keyBytes[0:8],
		Key2:      keyBytes[8:16],
		Key3:      keyBytes[16:24],
		CT:        ctBytes,
	})
	if err != nil {
		t.Fatalf("NewTestCase: %v", err)
	}
	defer tc.Release()

	engine := &symmetric.MCTEngine{Outer: 1, Inner: 1000}
	rounds, err := engine.Run(tc, dutstub.New())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(rounds) != 1 {
		t.Fatalf("len(rounds) = %d, want 1", len(rounds))
	}

	wantPT := idealECBDecryptChain(keyBytes, ctBytes, 1000)
	if rounds[0].PT != wire.BytesToHex(wantPT) {
		t.Fatalf("round.PT = %s, want %s (ideal oracle's 1000th decrypt output)", rounds[0].PT, wire.BytesToHex(wantPT))
	}
}

// idealECBDecryptChain reproduces the ECB Monte-Carlo transition rule
// independently: pt[j]=refBlock(ct[j], key); ct[j+1]=pt[j]. It returns
// pt[rounds-1].
func idealECBDecryptChain(key, ct0 []byte, rounds int) []byte {
	ct := append([]byte(nil), ct0...)
	var pt []byte
	for j := 0; j < rounds; j++ {
		pt = refBlock(ct, key)
		ct = pt
	}
	return pt
}
