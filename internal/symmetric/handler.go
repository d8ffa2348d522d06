package symmetric

import (
	"encoding/json"

	"github.com/nist-labs/acvp-client/internal/acverr"
	"github.com/nist-labs/acvp-client/internal/crypto"
	"github.com/nist-labs/acvp-client/internal/envelope"
	"github.com/nist-labs/acvp-client/internal/wire"
)

// Handler implements the symmetric vector-set processing engine of
// SPEC_FULL.md §4.D: it parses a vector set, drives the DUT (directly for
// AFT/CTR, through the MCT engine for MCT tests), and builds the response
// document.
type Handler struct {
	DUT DUT
	MCT *MCTEngine
}

// NewHandler returns a Handler wired to dut, with default MCT parameters.
func NewHandler(dut DUT) *Handler {
	return &Handler{DUT: dut, MCT: NewMCT()}
}

// Handle processes one vector set for the given cipher and returns the
// response document to submit back to the server. Any DUT failure mid-group
// aborts the whole vector set; no partial response is returned for it.
func (h *Handler) Handle(cipher Cipher, vsJSON []byte) (*envelope.Document, error) {
	var doc vectorSetDoc
	if err := json.Unmarshal(vsJSON, &doc); err != nil {
		return nil, acverr.Wrap(acverr.MalformedJson, "decoding vector set", err)
	}

	resp := envelope.NewDocument(doc.VsID, doc.Algorithm)

	for _, g := range doc.TestGroups {
		if g.TgID == 0 {
			return nil, acverr.New(acverr.MalformedJson, "test group missing tgId")
		}
		direction, err := directionFromString(g.Dir)
		if err != nil {
			return nil, err
		}
		testType, err := testTypeFromString(g.Type)
		if err != nil {
			return nil, err
		}

		respGroup := resp.AddGroup(g.TgID)

		for _, v := range g.Tests {
			if err := h.handleTest(respGroup, cipher, direction, testType, g.TwoKey, v); err != nil {
				return nil, err
			}
		}
	}

	return resp, nil
}

func (h *Handler) handleTest(respGroup *envelope.Group, cipher Cipher, direction Direction, testType TestType, twoKey bool, v testVector) error {
	params, err := paramsFromVector(cipher, direction, testType, twoKey, v)
	if err != nil {
		return err
	}

	tc, err := NewTestCase(params)
	if err != nil {
		return err
	}
	defer tc.Release()

	if testType == MCT {
		return h.handleMCT(respGroup, tc)
	}
	return h.handleAFT(respGroup, tc)
}

func (h *Handler) handleMCT(respGroup *envelope.Group, tc *TestCase) error {
	rounds, err := h.MCT.Run(tc, h.DUT)
	if err != nil {
		return err
	}
	respGroup.AddTest(envelope.Test{TcID: tc.TcID, Results: rounds})
	return nil
}

func (h *Handler) handleAFT(respGroup *envelope.Group, tc *TestCase) error {
	if tc.Cipher == TDES_KW && tc.Direction == Decrypt {
		err := h.DUT.Handle(tc)
		switch {
		case err == nil:
			passed := true
			respGroup.AddTest(envelope.Test{TcID: tc.TcID, TestPassed: &passed})
		case crypto.IsKeyWrapFailure(err):
			passed := false
			respGroup.AddTest(envelope.Test{TcID: tc.TcID, TestPassed: &passed})
		default:
			return crypto.ModuleFailure("DUT failed on TDES-KW decrypt", err)
		}
		return nil
	}

	if err := h.DUT.Handle(tc); err != nil {
		return crypto.ModuleFailure("DUT failed on AFT test case", err)
	}

	test := envelope.Test{TcID: tc.TcID}
	if tc.Direction == Encrypt {
		if tc.Cipher == TDES_CFB1 {
			// CFB1 is a bit-level stream cipher: the ciphertext carries
			// exactly as many significant bits as the plaintext did.
			test.CT = wire.BytesToHexBits(tc.CT, tc.PTLenBits)
		} else {
			test.CT = wire.BytesToHex(tc.CT)
		}
	} else {
		if tc.Cipher == TDES_CFB1 {
			test.PT = wire.BytesToHexBits(tc.PT, tc.CTLenBits)
		} else {
			test.PT = wire.BytesToHex(tc.PT)
		}
	}
	respGroup.AddTest(test)
	return nil
}

func paramsFromVector(cipher Cipher, direction Direction, testType TestType, twoKey bool, v testVector) (Params, error) {
	if v.TcID == 0 {
		return Params{}, acverr.New(acverr.MalformedJson, "test missing tcId")
	}

	key1, err := wire.HexToBytes(v.Key1)
	if err != nil {
		return Params{}, err
	}
	key2, err := wire.HexToBytes(v.Key2)
	if err != nil {
		return Params{}, err
	}
	var key3 []byte
	if !twoKey {
		key3, err = wire.HexToBytes(v.Key3)
		if err != nil {
			return Params{}, err
		}
	}

	p := Params{
		TcID:      v.TcID,
		Cipher:    cipher,
		Direction: direction,
		TestType:  testType,
		Key1:      key1,
		Key2:      key2,
		Key3:      key3,
		TwoKey:    twoKey,
	}

	if direction == Encrypt {
		pt, err := decodePayload(cipher, v.PT, v.PayloadLen)
		if err != nil {
			return Params{}, err
		}
		p.PT = pt
		p.PTLenBits = payloadBits(cipher, v.PT, v.PayloadLen)
	} else {
		ct, err := decodePayload(cipher, v.CT, v.PayloadLen)
		if err != nil {
			return Params{}, err
		}
		p.CT = ct
		p.CTLenBits = payloadBits(cipher, v.CT, v.PayloadLen)
	}

	if cipher.hasIV() {
		iv, err := wire.HexToBytes(v.IV)
		if err != nil {
			return Params{}, err
		}
		if len(iv) != IVLen {
			return Params{}, acverr.Newf(acverr.InvalidArg, "iv must be %d bytes, got %d", IVLen, len(iv))
		}
		p.IV = iv
	}

	return p, nil
}

// decodePayload parses a hex pt/ct field. For CFB1, payloadLen is a bit
// count, so the field is decoded through the bit-aware codec instead of the
// byte-oriented one.
func decodePayload(cipher Cipher, hexStr string, payloadLen int) ([]byte, error) {
	if cipher != TDES_CFB1 {
		return wire.HexToBytes(hexStr)
	}
	bits := payloadLen
	if bits == 0 {
		bits = len(hexStr) * 4
	}
	return wire.HexBitsToBytes(hexStr, bits)
}

// payloadBits returns the authoritative bit length of a pt/ct field: the
// explicit payloadLen when present (always preferred for CFB1 per
// SPEC_FULL.md §4.D.b), otherwise the hex string's bit length.
func payloadBits(cipher Cipher, hexStr string, payloadLen int) int {
	if cipher == TDES_CFB1 && payloadLen > 0 {
		return payloadLen
	}
	return len(hexStr) * 4
}
