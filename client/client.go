package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/adamwoolhether/imagine/client/throttle"
	"github.com/adamwoolhether/imagine/payload"
)

// Client posts encoded envelopes to the image service over its own
// *http.Client. It is safe for concurrent use.
type Client struct {
	hc        *http.Client
	userAgent string
	logger    *slog.Logger
}

// Build creates a [Client] from the given options. Options are validated
// here; nothing is sent until an envelope is executed.
//
// Redirects are never followed: the service answers every operation at
// its own path, so a 3xx is returned as an [*UnexpectedStatusError].
func Build(optFns ...Option) (*Client, error) {
	s := settings{base: http.DefaultTransport}
	for _, opt := range optFns {
		if err := opt(&s); err != nil {
			return nil, fmt.Errorf("applying client option: %w", err)
		}
	}

	logger := s.logger
	if logger == nil {
		logger = slog.Default()
	}

	rt := s.base
	if s.throttle != nil {
		limited, err := throttle.NewRoundTripper(s.throttle.RPS, s.throttle.Burst, func() *slog.Logger { return logger }, rt)
		if err != nil {
			return nil, fmt.Errorf("configuring throttle: %w", err)
		}
		rt = limited
	}

	return &Client{
		hc: &http.Client{
			Transport: rt,
			Timeout:   s.timeout,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		userAgent: s.userAgent,
		logger:    logger,
	}, nil
}

// Execute posts env to base joined with the envelope's path and decodes the
// JSON object the service answers with. Numbers are kept as json.Number so
// identifiers and seeds pass through without loss.
//
// Any non-2xx answer yields an *UnexpectedStatusError; network, timeout and
// cancellation failures are returned wrapped.
func (c *Client) Execute(ctx context.Context, base *url.URL, env *payload.Envelope) (map[string]any, error) {
	req, err := c.request(ctx, base, env)
	if err != nil {
		return nil, fmt.Errorf("building %s request: %w", env.Op, err)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending %s: %w", env.Op, err)
	}
	defer c.release(resp.Body)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, statusError(resp)
	}

	var out map[string]any
	d := json.NewDecoder(resp.Body)
	d.UseNumber()
	if err := d.Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding %s answer: %w", env.Op, err)
	}

	if out == nil {
		out = map[string]any{}
	}

	return out, nil
}

// request copies the envelope's headers onto a POST whose body reads the
// envelope afresh, so the envelope itself can be sent again.
func (c *Client) request(ctx context.Context, base *url.URL, env *payload.Envelope) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, URL(base, env.Path).String(), env.Reader())
	if err != nil {
		return nil, err
	}

	for k, vals := range env.Header {
		for _, v := range vals {
			req.Header.Add(k, v)
		}
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	return req, nil
}

// release drains what is left of body so the connection can be reused.
func (c *Client) release(body io.ReadCloser) {
	if _, err := io.Copy(io.Discard, body); err != nil {
		c.logger.Error("failed to discard unused body", "error", err)
	}
	if err := body.Close(); err != nil {
		c.logger.Error("failed to close response body", "error", err)
	}
}

// URL joins path onto base without mutating base.
func URL(base *url.URL, path string) *url.URL {
	return base.JoinPath(path)
}
