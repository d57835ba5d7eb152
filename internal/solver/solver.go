// Package solver is a client for the external two-phase solver service.
// The service takes a face string and answers with a move sequence.
package solver

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/SeamusWaldron/cubr/internal/log"
)

// ErrUnsolvable is returned when the service rejects the face string as
// malformed or physically impossible.
var ErrUnsolvable = errors.New("cubr: cube is unsolvable")

// DefaultTimeout bounds a solve request when the context has no deadline.
const DefaultTimeout = 10 * time.Second

// Response is the JSON body the service returns.
type Response struct {
	Data  string `json:"data"`
	Error string `json:"error,omitempty"`
}

// Client calls the solver service over HTTP.
type Client struct {
	url     string
	timeout time.Duration
	logger  log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(l log.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// New creates a client for the service at endpoint, e.g.
// "http://localhost:3000/solve".
func New(endpoint string, opts ...Option) *Client {
	c := &Client{
		url:     endpoint,
		timeout: DefaultTimeout,
		logger:  log.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Solve requests a solution for faceString and returns its move tokens.
// An empty slice means the cube is already solved.
func (c *Client) Solve(ctx context.Context, faceString string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return nil, context.DeadlineExceeded
		}
	}

	agent := fiber.Get(c.url)
	agent.QueryString(url.Values{"cube": {faceString}}.Encode())
	agent.Timeout(timeout)
	if err := agent.Parse(); err != nil {
		return nil, fmt.Errorf("failed to build solver request: %w", err)
	}

	var resp Response
	code, body, errs := agent.Struct(&resp)
	if len(errs) > 0 {
		if code == 0 {
			return nil, fmt.Errorf("failed to reach solver: %w", errors.Join(errs...))
		}
		// A non-JSON error page still carries a meaningful status.
		c.logger.Debugf("solver returned %d with undecodable body %q", code, body)
	}

	if code < 200 || code > 299 || resp.Error != "" {
		c.logger.Infof("solver rejected cube (status %d): %s", code, resp.Error)
		if resp.Error != "" {
			return nil, fmt.Errorf("%w: %s", ErrUnsolvable, resp.Error)
		}
		return nil, fmt.Errorf("%w: status %d", ErrUnsolvable, code)
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("failed to decode solver response: %w", errors.Join(errs...))
	}

	tokens := strings.Fields(resp.Data)
	c.logger.Debugf("solver returned %d moves", len(tokens))
	return tokens, nil
}
