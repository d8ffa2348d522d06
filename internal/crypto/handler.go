// Package crypto defines the boundary between this module and the Device
// Under Test. Nothing in this package performs cryptography: it is the
// pluggable contract §1 of SPEC_FULL.md carves out as an external
// collaborator. The per-algorithm-family Handler interfaces (e.g.
// symmetric.DUT) live next to the test-case types they operate on, to avoid
// an import cycle; this package holds only what every algorithm family
// shares: the failure-classification helpers and the capability record the
// dispatcher publishes.
package crypto

import "github.com/nist-labs/acvp-client/internal/acverr"

// Capability describes one algorithm this module can drive against a DUT.
// Capability records are what the (externally owned) registration flow of
// §1 publishes to the server; this module only consumes the Algorithm name
// to route incoming vector sets.
type Capability struct {
	Algorithm string
	Revision  string
}

// KeyWrapFailure is returned by a Handler to indicate a key-wrap integrity
// check failed. Unlike any other non-nil error, this does not abort the
// enclosing vector set: the caller surfaces it as testPassed: false.
func KeyWrapFailure(info string) error {
	return acverr.New(acverr.CryptoWrapFail, info)
}

// ModuleFailure wraps a generic DUT computation failure. Any DUT failure
// mid-MCT that is not a KeyWrapFailure aborts the enclosing vector set.
func ModuleFailure(info string, cause error) error {
	return acverr.Wrap(acverr.CryptoModuleFail, info, cause)
}

// IsKeyWrapFailure reports whether err is the reserved key-wrap integrity
// failure sentinel rather than a generic module failure.
func IsKeyWrapFailure(err error) bool {
	return acverr.Is(err, acverr.CryptoWrapFail)
}
