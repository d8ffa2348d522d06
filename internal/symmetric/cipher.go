// Package symmetric implements the vector-set processing engine for
// symmetric ciphers: parsing a vector set into test cases, driving the DUT
// (directly for AFT, through the Monte-Carlo feedback engine for MCT), and
// building the response envelope.
package symmetric

import "github.com/nist-labs/acvp-client/internal/acverr"

// Cipher identifies a supported symmetric algorithm/mode pair.
type Cipher int

const (
	TDES_ECB Cipher = iota
	TDES_CBC
	TDES_OFB
	TDES_CFB1
	TDES_CFB8
	TDES_CFB64
	TDES_KW
)

func (c Cipher) String() string {
	switch c {
	case TDES_ECB:
		return "TDES-ECB"
	case TDES_CBC:
		return "TDES-CBC"
	case TDES_OFB:
		return "TDES-OFB"
	case TDES_CFB1:
		return "TDES-CFB1"
	case TDES_CFB8:
		return "TDES-CFB8"
	case TDES_CFB64:
		return "TDES-CFB64"
	case TDES_KW:
		return "TDES-KW"
	default:
		return "unknown"
	}
}

// bitLen returns the MCT feedback register width in bits for the cipher's
// mode, per SPEC_FULL.md §4.E's mode table.
func (c Cipher) bitLen() int {
	switch c {
	case TDES_CFB8:
		return 8
	case TDES_CFB1:
		return 1
	default:
		return 64
	}
}

// hasIV reports whether the mode carries an IV. ECB and KW do not.
func (c Cipher) hasIV() bool {
	return c != TDES_ECB && c != TDES_KW
}

// HasIV is the exported form of hasIV, for DUT implementations living
// outside this package.
func (c Cipher) HasIV() bool {
	return c.hasIV()
}

// CipherByAlgorithm maps an ACVP algorithm name to the Cipher it selects.
// Unknown names return acverr.UnsupportedOp, matching §8 scenario 6: the
// dispatcher must reject before any buffer is allocated.
func CipherByAlgorithm(algorithm string) (Cipher, error) {
	switch algorithm {
	case "ACVP-TDES-ECB":
		return TDES_ECB, nil
	case "ACVP-TDES-CBC":
		return TDES_CBC, nil
	case "ACVP-TDES-OFB":
		return TDES_OFB, nil
	case "ACVP-TDES-CFB1":
		return TDES_CFB1, nil
	case "ACVP-TDES-CFB8":
		return TDES_CFB8, nil
	case "ACVP-TDES-CFB64":
		return TDES_CFB64, nil
	case "ACVP-TDES-KW":
		return TDES_KW, nil
	default:
		return 0, acverr.Newf(acverr.UnsupportedOp, "unsupported algorithm %q", algorithm)
	}
}

// Direction is the operation a test case requests.
type Direction int

const (
	Encrypt Direction = iota
	Decrypt
)

func directionFromString(s string) (Direction, error) {
	switch s {
	case "encrypt":
		return Encrypt, nil
	case "decrypt":
		return Decrypt, nil
	default:
		return 0, acverr.Newf(acverr.InvalidArg, "invalid direction %q", s)
	}
}

// TestType distinguishes algorithm functional tests from Monte-Carlo tests.
type TestType int

const (
	AFT TestType = iota
	MCT
	CTR
)

func testTypeFromString(s string) (TestType, error) {
	switch s {
	case "AFT":
		return AFT, nil
	case "MCT":
		return MCT, nil
	case "CTR":
		return CTR, nil
	default:
		return 0, acverr.Newf(acverr.InvalidArg, "invalid testType %q", s)
	}
}
