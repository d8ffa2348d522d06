package symmetric

import (
	"testing"

	"github.com/nist-labs/acvp-client/internal/acverr"
)

func TestCipherByAlgorithmRejectsUnknownName(t *testing.T) {
	_, err := CipherByAlgorithm("ACVP-AES-GCM")
	if !acverr.Is(err, acverr.UnsupportedOp) {
		t.Fatalf("expected UnsupportedOp, got %v", err)
	}
}

func TestCipherByAlgorithmKnownNames(t *testing.T) {
	cases := map[string]Cipher{
		"ACVP-TDES-ECB":   TDES_ECB,
		"ACVP-TDES-CBC":   TDES_CBC,
		"ACVP-TDES-OFB":   TDES_OFB,
		"ACVP-TDES-CFB1":  TDES_CFB1,
		"ACVP-TDES-CFB8":  TDES_CFB8,
		"ACVP-TDES-CFB64": TDES_CFB64,
		"ACVP-TDES-KW":    TDES_KW,
	}
	for name, want := range cases {
		got, err := CipherByAlgorithm(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if got != want {
			t.Fatalf("%s: got %v, want %v", name, got, want)
		}
	}
}

func TestCipherHasIV(t *testing.T) {
	if TDES_ECB.HasIV() {
		t.Fatal("ECB should not carry an IV")
	}
	if TDES_KW.HasIV() {
		t.Fatal("KW should not carry an IV")
	}
	if !TDES_CBC.HasIV() {
		t.Fatal("CBC should carry an IV")
	}
}
