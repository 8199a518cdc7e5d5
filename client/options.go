package client

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/adamwoolhether/imagine/client/throttle"
)

// Option configures a [Client] built by [Build].
type Option func(*settings) error

type settings struct {
	base      http.RoundTripper
	timeout   time.Duration
	userAgent string
	throttle  *throttle.Config
	logger    *slog.Logger
}

// WithTransport sends envelopes through rt instead of [http.DefaultTransport].
// Throttling, when enabled, wraps rt.
func WithTransport(rt http.RoundTripper) Option {
	return func(s *settings) error {
		if rt == nil {
			return errors.New("transport must not be nil")
		}
		s.base = rt
		return nil
	}
}

// WithTimeout bounds a whole call, upload and answer included. Zero leaves
// calls bounded by their context alone; large uploads may need that.
func WithTimeout(d time.Duration) Option {
	return func(s *settings) error {
		if d < 0 {
			return errors.New("timeout must not be negative")
		}
		s.timeout = d
		return nil
	}
}

// WithUserAgent stamps every envelope with the given User-Agent.
func WithUserAgent(ua string) Option {
	return func(s *settings) error {
		ua = strings.TrimSpace(ua)
		if ua == "" {
			return errors.New("user agent must not be blank")
		}
		s.userAgent = ua
		return nil
	}
}

// WithThrottle limits outgoing envelopes to rps per second with bursts of
// up to burst. Calls wait for a token or for their context to end.
func WithThrottle(rps, burst int) Option {
	return func(s *settings) error {
		if rps <= 0 || burst <= 0 {
			return fmt.Errorf("rps[%d] and burst[%d] %w", rps, burst, throttle.ErrMustNotBeZero)
		}
		s.throttle = &throttle.Config{RPS: rps, Burst: burst}
		return nil
	}
}

// WithLogger sets the logger used for body cleanup failures and throttle
// waits. slog.Default is used otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) error {
		if logger == nil {
			return errors.New("logger must not be nil")
		}
		s.logger = logger
		return nil
	}
}
