package symmetric_test

import (
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/nist-labs/acvp-client/internal/dutstub"
	"github.com/nist-labs/acvp-client/internal/symmetric"
)

func hexKey(b byte) string { return hex.EncodeToString(key(b)) }

func TestHandlerAFTEncryptRoundTrip(t *testing.T) {
	vs := map[string]any{
		"vsId":      100,
		"algorithm": "ACVP-TDES-CBC",
		"testGroups": []map[string]any{
			{
				"tgId":      1,
				"direction": "encrypt",
				"testType":  "AFT",
				"tests": []map[string]any{
					{
						"tcId": 1,
						"key1": hexKey(0x01),
						"key2": hexKey(0x02),
						"key3": hexKey(0x03),
						"pt":   "0011223344556677",
						"iv":   "0000000000000000",
					},
				},
			},
		},
	}
	body, err := json.Marshal(vs)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}

	h := symmetric.NewHandler(dutstub.New())
	doc, err := h.Handle(symmetric.TDES_CBC, body)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if len(doc.Groups) != 1 || len(doc.Groups[0].Tests) != 1 {
		t.Fatalf("unexpected document shape: %+v", doc)
	}
	if doc.Groups[0].Tests[0].CT == "" {
		t.Fatal("expected a non-empty ct in the response")
	}
}

func TestHandlerCFB1PayloadLenScenario(t *testing.T) {
	vs := map[string]any{
		"vsId":      101,
		"algorithm": "ACVP-TDES-CFB1",
		"testGroups": []map[string]any{
			{
				"tgId":      1,
				"direction": "encrypt",
				"testType":  "AFT",
				"tests": []map[string]any{
					{
						"tcId":       7,
						"key1":       hexKey(0x11),
						"key2":       hexKey(0x22),
						"key3":       hexKey(0x33),
						"pt":         "f8",
						"payloadLen": 5,
						"iv":         "0000000000000000",
					},
				},
			},
		},
	}
	body, err := json.Marshal(vs)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}

	h := symmetric.NewHandler(dutstub.New())
	doc, err := h.Handle(symmetric.TDES_CFB1, body)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	ct := doc.Groups[0].Tests[0].CT
	if len(ct) != 2 {
		t.Fatalf("ct = %q, want a 2-nibble response for a 5-bit payload", ct)
	}
}

func TestHandlerTDESKWDecryptReportsTestPassed(t *testing.T) {
	vs := map[string]any{
		"vsId":      102,
		"algorithm": "ACVP-TDES-KW",
		"testGroups": []map[string]any{
			{
				"tgId":      1,
				"direction": "decrypt",
				"testType":  "AFT",
				"tests": []map[string]any{
					{
						"tcId": 9,
						"key1": hexKey(0x01),
						"key2": hexKey(0x02),
						"key3": hexKey(0x03),
						"ct":   validKWCiphertext(t),
					},
				},
			},
		},
	}
	body, err := json.Marshal(vs)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}

	h := symmetric.NewHandler(dutstub.New())
	doc, err := h.Handle(symmetric.TDES_KW, body)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	test := doc.Groups[0].Tests[0]
	if test.TestPassed == nil || !*test.TestPassed {
		t.Fatalf("expected testPassed=true, got %+v", test)
	}
}

// validKWCiphertext produces a ct field that dutstub.DUT will unwrap
// successfully: the ICV prefix XORed under the same key the test above uses.
func validKWCiphertext(t *testing.T) string {
	t.Helper()
	plain := append([]byte{0xa6, 0xa6, 0xa6, 0xa6, 0xa6, 0xa6, 0xa6, 0xa6}, []byte{0xde, 0xad, 0xbe, 0xef}...)
	k := append(append(key(0x01), key(0x02)...), key(0x03)...)
	out := make([]byte, len(plain))
	for i, b := range plain {
		out[i] = b ^ k[i%len(k)]
	}
	return hex.EncodeToString(out)
}

func TestHandlerRejectsUnknownDirection(t *testing.T) {
	vs := map[string]any{
		"vsId":      103,
		"algorithm": "ACVP-TDES-ECB",
		"testGroups": []map[string]any{
			{
				"tgId":      1,
				"direction": "sideways",
				"testType":  "AFT",
				"tests":     []map[string]any{},
			},
		},
	}
	body, err := json.Marshal(vs)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}

	h := symmetric.NewHandler(dutstub.New())
	if _, err := h.Handle(symmetric.TDES_ECB, body); err == nil {
		t.Fatal("expected an error for an invalid direction")
	}
}
