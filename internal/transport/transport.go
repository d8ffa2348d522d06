// Package transport implements the HTTP layer described in SPEC_FULL.md
// §4.G: a TLS ≥1.2 client, optionally mutually authenticated, that attaches
// the bearer token (for WithToken requests) and the User-Agent header (when
// configured) to each request and caps how much
// of the response body it will buffer, grounded on the tls.Config/
// http.Client assembly in cloudflare-roughtime's recipes/tls.go.
package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"io"
	"net/http"
	"time"

	"github.com/nist-labs/acvp-client/internal/acverr"
)

// ResponseBufMax bounds how many bytes of a response body this client will
// read before giving up, so a misbehaving or malicious server cannot exhaust
// memory through an unbounded response.
const ResponseBufMax = 10 << 20 // 10 MiB

// URLMax bounds the length of a request URL (base URL plus path). This
// package does not build query strings.
const URLMax = 4096

// TokenMode controls whether a request carries the current bearer token.
// It replaces the mutable "already sent once" context flag the legacy
// source kept per §9's redesign note with an explicit, caller-supplied
// value.
type TokenMode int

const (
	// NoToken sends the request unauthenticated (used for /login).
	NoToken TokenMode = iota
	// WithToken attaches the current bearer token, if any is set.
	WithToken
)

// Config configures a Client.
type Config struct {
	BaseURL    string
	RootCAs    *x509.CertPool
	ClientCert *tls.Certificate
	UserAgent  string
	Timeout    time.Duration

	// ResponseBufMax overrides the package-level ResponseBufMax default,
	// mirroring the legacy source's configurable CURL_BUF_MAX (spec.md §8
	// scenario 5). Zero means "use the default."
	ResponseBufMax int
}

// Client is a thin, session-agnostic HTTP client. Session-level concerns
// (login, refresh, retry-once-on-401) live in internal/session; this
// package only knows how to shape and send one request.
type Client struct {
	baseURL        string
	userAgent      string
	http           *http.Client
	token          string
	responseBufMax int
}

// New builds a Client from cfg. TLS 1.2 is the floor regardless of what the
// runtime default happens to be, and the server certificate is always
// verified. RootCAs, when set, replaces the system root pool; ClientCert,
// when set, enables mutual authentication.
func New(cfg Config) *Client {
	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS12,
		RootCAs:    cfg.RootCAs,
	}
	if cfg.ClientCert != nil {
		tlsConfig.Certificates = []tls.Certificate{*cfg.ClientCert}
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	bufMax := cfg.ResponseBufMax
	if bufMax == 0 {
		bufMax = ResponseBufMax
	}

	return &Client{
		baseURL:        cfg.BaseURL,
		userAgent:      cfg.UserAgent,
		responseBufMax: bufMax,
		http: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				TLSClientConfig: tlsConfig,
			},
		},
	}
}

// SetToken installs the bearer token attached to WithToken requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Token returns the currently installed bearer token.
func (c *Client) Token() string {
	return c.token
}

// Get issues a GET to baseURL+path.
func (c *Client) Get(ctx context.Context, path string, mode TokenMode) (int, []byte, error) {
	return c.do(ctx, http.MethodGet, path, nil, mode)
}

// Post issues a POST with a JSON body to baseURL+path.
func (c *Client) Post(ctx context.Context, path string, body []byte, mode TokenMode) (int, []byte, error) {
	return c.do(ctx, http.MethodPost, path, body, mode)
}

// Put issues a PUT with a JSON body to baseURL+path.
func (c *Client) Put(ctx context.Context, path string, body []byte, mode TokenMode) (int, []byte, error) {
	return c.do(ctx, http.MethodPut, path, body, mode)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, mode TokenMode) (int, []byte, error) {
	url := c.baseURL + path
	if len(url) > URLMax {
		return 0, nil, acverr.Newf(acverr.InvalidArg, "request url exceeds %d bytes", URLMax)
	}

	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return 0, nil, acverr.Wrap(acverr.TransportFail, "building request", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if mode == WithToken && c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, acverr.Wrap(acverr.TransportFail, "sending request", err)
	}
	defer resp.Body.Close()

	limited := io.LimitReader(resp.Body, int64(c.responseBufMax)+1)
	respBody, err := io.ReadAll(limited)
	if err != nil {
		return 0, nil, acverr.Wrap(acverr.TransportFail, "reading response body", err)
	}
	if len(respBody) > c.responseBufMax {
		return 0, nil, acverr.Newf(acverr.TransportFail, "response body exceeds %d bytes", c.responseBufMax)
	}

	return resp.StatusCode, respBody, nil
}
