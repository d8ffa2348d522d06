package main

import (
	"encoding/json"

	"github.com/nist-labs/acvp-client/internal/acverr"
	"github.com/nist-labs/acvp-client/internal/useragent"
)

// algorithmName pulls the top-level "algorithm" field out of a raw vector
// set without decoding the rest of it, just enough for the dispatcher to
// pick a handler.
func algorithmName(vsJSON []byte) (string, error) {
	var head struct {
		Algorithm string `json:"algorithm"`
	}
	if err := json.Unmarshal(vsJSON, &head); err != nil {
		return "", acverr.Wrap(acverr.MalformedJson, "reading algorithm field", err)
	}
	if head.Algorithm == "" {
		return "", acverr.New(acverr.MalformedJson, "vector set missing algorithm field")
	}
	return head.Algorithm, nil
}

func userAgentString() string {
	return useragent.Assemble(version)
}
