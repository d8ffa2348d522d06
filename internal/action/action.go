// Package action provides the single entry point the CLI uses to talk to
// the ACVP server: a uniform Do(ctx, method, url, body) that
// wraps internal/transport's request shaping with internal/session's
// refresh-and-retry coordination.
package action

import (
	"context"
	"fmt"

	"github.com/nist-labs/acvp-client/internal/acverr"
	"github.com/nist-labs/acvp-client/internal/session"
	"github.com/nist-labs/acvp-client/internal/transport"
)

// Method identifies the HTTP verb Do should use.
type Method int

const (
	Get Method = iota
	Post
	Put
)

// Coordinator ties one transport.Client to one session.Controller.
type Coordinator struct {
	client *transport.Client
	ctrl   *session.Controller
}

// New returns a Coordinator over client, authenticating via ctrl.
func New(client *transport.Client, ctrl *session.Controller) *Coordinator {
	return &Coordinator{client: client, ctrl: ctrl}
}

// SessionID returns the correlation ID of the underlying session.Controller.
func (c *Coordinator) SessionID() string {
	return c.ctrl.SessionID()
}

// Do sends one authenticated request, transparently refreshing the token
// and retrying once if the server reports it as expired.
func (c *Coordinator) Do(ctx context.Context, method Method, path string, body []byte) (int, []byte, error) {
	return c.ctrl.Call(ctx, func(mode transport.TokenMode) (int, []byte, error) {
		switch method {
		case Get:
			return c.client.Get(ctx, path, mode)
		case Post:
			return c.client.Post(ctx, path, body, mode)
		case Put:
			return c.client.Put(ctx, path, body, mode)
		default:
			return 0, nil, acverr.Newf(acverr.InvalidArg, "unsupported method %d", method)
		}
	})
}

// FetchVectorSet retrieves one vector set's JSON body.
func (c *Coordinator) FetchVectorSet(ctx context.Context, vsID int) ([]byte, error) {
	_, body, err := c.Do(ctx, Get, vectorSetPath(vsID), nil)
	return body, err
}

// SubmitVectorSetResult POSTs the computed response document back.
func (c *Coordinator) SubmitVectorSetResult(ctx context.Context, vsID int, resultJSON []byte) error {
	_, _, err := c.Do(ctx, Post, vectorSetResultsPath(vsID), resultJSON)
	return err
}

func vectorSetPath(vsID int) string {
	return fmt.Sprintf("/acvp/v1/vectorSets/%d", vsID)
}

func vectorSetResultsPath(vsID int) string {
	return fmt.Sprintf("/acvp/v1/vectorSets/%d/results", vsID)
}
