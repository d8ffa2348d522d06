// Package session implements the authenticated transport loop of
// SPEC_FULL.md §4.H: it distinguishes an expired JWT from an invalid one by
// inspecting the body of a 401 response, refreshes the token exactly once
// per call, and never retries recursively.
package session

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/nist-labs/acvp-client/internal/acverr"
	"github.com/nist-labs/acvp-client/internal/acvplog"
	"github.com/nist-labs/acvp-client/internal/transport"
)

// errorBody is the shape of a 401 response body this package knows how to
// classify.
type errorBody struct {
	Error string `json:"error"`
}

const invalidSignaturePrefix = "JWT signature does not match"

// Inspect classifies an HTTP response by status code and, for a 401, by the
// body's error message. 200, 201 and 202 are success; any other non-401
// status is a generic TransportFail; ACVP servers do not otherwise distinguish failure modes
// this client needs to react to differently.
func Inspect(statusCode int, body []byte) error {
	switch statusCode {
	case 200, 201, 202:
		return nil
	case 401:
		var eb errorBody
		if err := json.Unmarshal(body, &eb); err != nil {
			return acverr.New(acverr.JwtInvalid, "401 response body did not parse")
		}
		if eb.Error == "JWT expired" {
			return acverr.New(acverr.JwtExpired, eb.Error)
		}
		if strings.HasPrefix(eb.Error, invalidSignaturePrefix) {
			return acverr.New(acverr.JwtInvalid, eb.Error)
		}
		return acverr.Newf(acverr.TransportFail, "401 response: %s", eb.Error)
	default:
		return acverr.Newf(acverr.TransportFail, "unexpected status %d", statusCode)
	}
}

// Credentials are the fields the login endpoint expects.
type Credentials struct {
	TotpSeed string `json:"totpSeed,omitempty"`
	Password string `json:"password,omitempty"`
}

// loginRequest and loginResponse mirror the ACVP login endpoint's JSON
// shape, which this client treats as opaque beyond the access token field.
type loginRequest struct {
	Password string `json:"password,omitempty"`
	TotpSeed string `json:"totpSeed,omitempty"`
}

type loginResponse struct {
	AccessToken string `json:"accessToken"`
}

// Controller owns the login/refresh flow for one transport.Client.
type Controller struct {
	client    *transport.Client
	creds     Credentials
	sessionID string
}

// New returns a Controller for client, authenticating with creds. sessionID
// is a fresh acvplog.NewSessionID() value that tags every log line this
// Controller emits, so refresh/retry activity from concurrent sessions can
// be told apart in a shared log stream.
func New(client *transport.Client, creds Credentials) *Controller {
	return &Controller{client: client, creds: creds, sessionID: acvplog.NewSessionID()}
}

// SessionID returns the correlation ID this Controller stamps onto its log
// lines.
func (c *Controller) SessionID() string {
	return c.sessionID
}

// Refresh performs a fresh login and installs the returned token on the
// underlying transport.Client.
func (c *Controller) Refresh(ctx context.Context) error {
	reqBody, err := json.Marshal(loginRequest{Password: c.creds.Password, TotpSeed: c.creds.TotpSeed})
	if err != nil {
		return acverr.Wrap(acverr.JsonErr, "encoding login request", err)
	}

	status, body, err := c.client.Post(ctx, "/login", reqBody, transport.NoToken)
	if err != nil {
		return err
	}
	if err := Inspect(status, body); err != nil {
		return err
	}

	var resp loginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return acverr.Wrap(acverr.JsonErr, "decoding login response", err)
	}
	if resp.AccessToken == "" {
		return acverr.New(acverr.JwtInvalid, "login response carried no accessToken")
	}

	c.client.SetToken(resp.AccessToken)
	acvplog.Printf("session[%s]: refreshed access token", c.sessionID)
	return nil
}

// Call sends one authenticated request via fn, refreshing the token and
// retrying exactly once if the first attempt reports an expired JWT. It
// never retries a second time, so a server that keeps expiring tokens
// cannot make this loop recursive or unbounded.
func (c *Controller) Call(ctx context.Context, fn func(mode transport.TokenMode) (int, []byte, error)) (int, []byte, error) {
	status, body, err := fn(transport.WithToken)
	if err != nil {
		return status, body, err
	}

	inspectErr := Inspect(status, body)
	if inspectErr == nil {
		return status, body, nil
	}
	if !acverr.Is(inspectErr, acverr.JwtExpired) {
		return status, body, inspectErr
	}

	if refreshErr := c.Refresh(ctx); refreshErr != nil {
		return 0, nil, refreshErr
	}

	acvplog.Printf("session[%s]: retrying request after token refresh", c.sessionID)
	status, body, err = fn(transport.WithToken)
	if err != nil {
		return status, body, err
	}
	if inspectErr := Inspect(status, body); inspectErr != nil {
		return status, body, inspectErr
	}
	return status, body, nil
}
