// Package dispatch maps ACVP algorithm names to the vector-set handler
// capable of processing them, the way _examples/other_examples's ACVP
// wrapper keys a capability table by algorithm name before touching any
// vector-set bytes.
package dispatch

import (
	"github.com/nist-labs/acvp-client/internal/acverr"
	"github.com/nist-labs/acvp-client/internal/crypto"
	"github.com/nist-labs/acvp-client/internal/envelope"
	"github.com/nist-labs/acvp-client/internal/symmetric"
)

// VectorSetHandler processes one vector set's JSON body and returns the
// response document to submit back.
type VectorSetHandler interface {
	Handle(cipher symmetric.Cipher, vsJSON []byte) (*envelope.Document, error)
}

// entry pairs a registered handler with the capability it was registered
// under.
type entry struct {
	cipher     symmetric.Cipher
	capability crypto.Capability
	handler    VectorSetHandler
}

// Dispatcher routes an algorithm name to its registered handler. Unknown
// algorithms are rejected with acverr.UnsupportedOp before any vector-set
// buffer is allocated, per §8 scenario 6.
type Dispatcher struct {
	table map[string]entry
}

// New returns an empty Dispatcher.
func New() *Dispatcher {
	return &Dispatcher{table: make(map[string]entry)}
}

// Register binds algorithm to cipher/handler under the given revision.
// Registering the same algorithm twice overwrites the previous binding.
func (d *Dispatcher) Register(algorithm, revision string, cipher symmetric.Cipher, handler VectorSetHandler) {
	d.table[algorithm] = entry{
		cipher:     cipher,
		capability: crypto.Capability{Algorithm: algorithm, Revision: revision},
		handler:    handler,
	}
}

// RegisterSymmetric registers every ACVP-TDES-* algorithm name against a
// single symmetric.Handler, the normal wiring for a client backed by one
// DUT implementation.
func (d *Dispatcher) RegisterSymmetric(handler *symmetric.Handler) {
	for _, algorithm := range []string{
		"ACVP-TDES-ECB",
		"ACVP-TDES-CBC",
		"ACVP-TDES-OFB",
		"ACVP-TDES-CFB1",
		"ACVP-TDES-CFB8",
		"ACVP-TDES-CFB64",
		"ACVP-TDES-KW",
	} {
		cipher, err := symmetric.CipherByAlgorithm(algorithm)
		if err != nil {
			continue
		}
		d.Register(algorithm, "1.0", cipher, handler)
	}
}

// Dispatch looks up algorithm and, if registered, hands vsJSON to its
// handler. It returns acverr.UnsupportedOp for anything unregistered.
func (d *Dispatcher) Dispatch(algorithm string, vsJSON []byte) (*envelope.Document, error) {
	e, ok := d.table[algorithm]
	if !ok {
		return nil, acverr.Newf(acverr.UnsupportedOp, "no handler registered for algorithm %q", algorithm)
	}
	return e.handler.Handle(e.cipher, vsJSON)
}

// Algorithms returns the currently registered algorithm names, in no
// particular order.
func (d *Dispatcher) Algorithms() []string {
	names := make([]string, 0, len(d.table))
	for name := range d.table {
		names = append(names, name)
	}
	return names
}

// Capabilities returns the capability record for every registered
// algorithm, the shape the server-side registration flow (an external
// collaborator per §1) would publish before vector sets ever start
// arriving.
func (d *Dispatcher) Capabilities() []crypto.Capability {
	caps := make([]crypto.Capability, 0, len(d.table))
	for _, e := range d.table {
		caps = append(caps, e.capability)
	}
	return caps
}
