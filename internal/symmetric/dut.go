package symmetric

// DUT is the Device Under Test contract §1 and §4.D describe: a pluggable
// crypto implementation this module calls but never provides. Handle should
// consume whichever of tc.PT/tc.CT is the input for tc.Direction, write the
// result into the other, and for OFB/CFB1/CFB8 write tc.IVRet (and, on the
// last inner round of an outer round, tc.IVRetAfter).
//
// A non-nil error aborts the enclosing vector set (surfaced as
// acverr.CryptoModuleFail) unless it is a crypto.KeyWrapFailure, which is
// reserved for TDES-KW integrity-check failures and is instead surfaced as
// testPassed: false without aborting anything.
type DUT interface {
	Handle(tc *TestCase) error
}
