package imagine

import (
	"errors"
	"log/slog"

	"github.com/adamwoolhether/imagine/catalog"
	"github.com/adamwoolhether/imagine/client"
	"github.com/adamwoolhether/imagine/observe"
)

// Option is a functional option for configuring a [Client] via [New].
type Option func(*options) error

type options struct {
	dialect   *catalog.Catalog
	transport Transport
	httpOpts  []client.Option
	observer  observe.Observer
	logger    *slog.Logger
}

// WithDialect selects the wire dialect. Dialect A is used when omitted.
func WithDialect(c *catalog.Catalog) Option {
	return func(o *options) error {
		if c == nil {
			return errors.New("dialect must not be nil")
		}
		o.dialect = c
		return nil
	}
}

// WithTransport replaces the default HTTP transport entirely.
func WithTransport(t Transport) Option {
	return func(o *options) error {
		if t == nil {
			return errors.New("transport must not be nil")
		}
		o.transport = t
		return nil
	}
}

// WithHTTPOptions passes options through to [client.Build]. They are
// ignored when WithTransport is also given.
func WithHTTPOptions(opts ...client.Option) Option {
	return func(o *options) error {
		o.httpOpts = append(o.httpOpts, opts...)
		return nil
	}
}

// WithObserver sets the observer that receives a trace record before each
// request and after each response or failure. Several observers can be
// combined with [observe.Multi].
func WithObserver(obs observe.Observer) Option {
	return func(o *options) error {
		if obs == nil {
			return errors.New("observer must not be nil")
		}
		o.observer = obs
		return nil
	}
}

// WithLogger sets the logger handed to the default HTTP transport.
// slog.Default is used when omitted.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) error {
		if logger == nil {
			return errors.New("logger must not be nil")
		}
		o.logger = logger
		return nil
	}
}
