// Package envelope builds ACVP response documents. It replaces hand-rolled
// JSON tree mutation with typed structs so the schema is enforced by the Go
// compiler and there is nothing to leak on an error path: a Document is
// either fully built and marshaled, or discarded.
package envelope

import "encoding/json"

// Document is the top-level response body POSTed back for a vector set.
type Document struct {
	VsID      int     `json:"vsId"`
	Algorithm string  `json:"algorithm"`
	Revision  string  `json:"revision,omitempty"`
	Groups    []Group `json:"testGroups"`
}

// Group holds the responses for one test group.
type Group struct {
	TgID  int    `json:"tgId"`
	Tests []Test `json:"tests"`
}

// Test holds one test case's response. Exactly one of CT, PT, or TestPassed
// is populated, depending on direction and test type; MCT tests populate
// Results instead and leave CT/PT unset.
type Test struct {
	TcID       int        `json:"tcId"`
	CT         string     `json:"ct,omitempty"`
	PT         string     `json:"pt,omitempty"`
	TestPassed *bool      `json:"testPassed,omitempty"`
	Results    []MCTRound `json:"resultsArray,omitempty"`
}

// MCTRound is one outer-round entry in a Monte-Carlo resultsArray.
type MCTRound struct {
	Key1 string `json:"key1"`
	Key2 string `json:"key2"`
	Key3 string `json:"key3"`
	IV   string `json:"iv,omitempty"`
	PT   string `json:"pt,omitempty"`
	CT   string `json:"ct,omitempty"`
}

// NewDocument starts a response document for the given vector-set id and
// algorithm name.
func NewDocument(vsID int, algorithm string) *Document {
	return &Document{VsID: vsID, Algorithm: algorithm}
}

// AddGroup appends and returns a new, empty response group with the given
// group id. Groups must be added in the same order the request's groups
// were iterated, per the ordering guarantee in SPEC_FULL.md's concurrency
// section. The returned *Group is only valid until the next AddGroup call,
// which may reallocate the backing slice; finish populating one group's
// tests before starting the next.
func (d *Document) AddGroup(tgID int) *Group {
	d.Groups = append(d.Groups, Group{TgID: tgID})
	return &d.Groups[len(d.Groups)-1]
}

// AddTest appends a completed test response to the group.
func (g *Group) AddTest(t Test) {
	g.Tests = append(g.Tests, t)
}

// Marshal renders the document as JSON.
func (d *Document) Marshal() ([]byte, error) {
	return json.Marshal(d)
}
