package imagine

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/adamwoolhether/imagine/catalog"
	"github.com/adamwoolhether/imagine/client"
	"github.com/adamwoolhether/imagine/observe"
	"github.com/adamwoolhether/imagine/payload"
	"github.com/adamwoolhether/imagine/task"
	"github.com/adamwoolhether/imagine/validate"
)

// Config holds what every call needs. BaseURL may be left empty when the
// dialect declares a default.
type Config struct {
	BaseURL   string `json:"baseURL" yaml:"base_url"`
	AuthToken string `json:"authToken" yaml:"auth_token"`
}

type resolvedConfig struct {
	BaseURL   string `json:"baseURL" validate:"required,url"`
	AuthToken string `json:"authToken" validate:"required"`
}

// Transport sends one encoded envelope and returns the decoded JSON answer.
// *client.Client satisfies it.
type Transport interface {
	Execute(ctx context.Context, base *url.URL, env *payload.Envelope) (map[string]any, error)
}

// Client is the image service client. It holds no mutable state after
// [New] returns and is safe for concurrent use.
type Client struct {
	token     string
	base      *url.URL
	dialect   *catalog.Catalog
	transport Transport
	observer  observe.Observer
}

// New validates cfg and builds a client. Failures wrap
// [ErrInvalidConfiguration]; nothing is sent.
func New(cfg Config, optFns ...Option) (*Client, error) {
	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return nil, fmt.Errorf("%w: applying option: %w", ErrInvalidConfiguration, err)
		}
	}

	if opts.dialect == nil {
		opts.dialect = catalog.DialectA()
	}

	rc := resolvedConfig{
		BaseURL:   strings.TrimSpace(cfg.BaseURL),
		AuthToken: strings.TrimSpace(cfg.AuthToken),
	}
	if rc.BaseURL == "" {
		rc.BaseURL = opts.dialect.DefaultBaseURL()
	}

	if err := validate.Check(rc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
	}

	base, err := url.Parse(rc.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing base url: %w", ErrInvalidConfiguration, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfiguration,
			validate.NewFieldError("baseURL", "scheme must be http or https"))
	}

	c := Client{
		token:     rc.AuthToken,
		base:      base,
		dialect:   opts.dialect,
		transport: opts.transport,
		observer:  opts.observer,
	}

	logger := opts.logger
	if logger == nil {
		logger = slog.Default()
	}

	if c.observer == nil {
		c.observer = observe.Nop{}
	}

	if c.transport == nil {
		httpOpts := append([]client.Option{client.WithLogger(logger)}, opts.httpOpts...)
		hc, err := client.Build(httpOpts...)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfiguration, err)
		}
		c.transport = hc
	}

	return &c, nil
}

// Dialect returns the catalog the client speaks.
func (c *Client) Dialect() *catalog.Catalog {
	return c.dialect
}

// BaseURL returns a copy of the resolved service base URL.
func (c *Client) BaseURL() *url.URL {
	u := *c.base
	return &u
}

// Supports reports whether the active dialect has op.
func (c *Client) Supports(op catalog.Operation) bool {
	_, ok := c.dialect.Lookup(op)
	return ok
}

// request is one call's input before it is checked against the catalog.
type request struct {
	handle task.Handle
	fields map[string]any
	files  []payload.FilePart
}

// call runs the pipeline every operation shares: look up the operation,
// bind the handle, check fields and files, encode, send, then decode the
// handle. Observers see the request before it is sent and the response or
// the failure after.
func (c *Client) call(ctx context.Context, op catalog.Operation, in request) (Response, error) {
	tr := c.trace(op)

	spec, env, err := c.prepare(op, in)
	if err != nil {
		c.failed(ctx, tr, err)
		return Response{}, err
	}

	tr.Path = spec.Path
	tr.Fields = summary(in.fields)
	tr.Files = fileNames(in.files)
	if in.handle != nil {
		tr.Handle = in.handle.String()
	}
	tr.Stage = observe.StageRequest
	c.observer.Observe(ctx, tr)

	out, err := c.transport.Execute(ctx, c.base, env)
	if err != nil {
		err = fromTransport(op, err)
		c.failed(ctx, tr, err)
		return Response{}, err
	}

	resp := Response{Op: op, Fields: out}
	if h, ok := task.FromFields(out, c.dialect.HandleKeys()); ok {
		resp.Handle = h
	}

	if resp.Handle == nil && !spec.Immediate {
		err := &TransportError{
			Op:     op,
			Err:    fmt.Errorf("%w: expected [%s]", ErrMissingHandle, strings.Join(c.dialect.HandleKeys(), ", ")),
			Fields: out,
		}
		tr.Response = out
		c.failed(ctx, tr, err)
		return Response{}, err
	}

	tr.Stage = observe.StageResponse
	tr.Response = out
	tr.Duration = time.Since(tr.Start)
	if resp.Handle != nil {
		tr.Handle = resp.Handle.String()
	}
	c.observer.Observe(ctx, tr)

	return resp, nil
}

// rejected reports a call that failed its argument checks before a trace
// was started.
func (c *Client) rejected(ctx context.Context, op catalog.Operation, err error) {
	c.failed(ctx, c.trace(op), err)
}

func (c *Client) trace(op catalog.Operation) observe.Trace {
	return observe.Trace{
		RequestID: uuid.NewString(),
		Op:        string(op),
		Dialect:   c.dialect.Name(),
		Start:     time.Now(),
	}
}

func (c *Client) failed(ctx context.Context, tr observe.Trace, err error) {
	tr.Stage = observe.StageError
	tr.Err = err
	tr.Outcome = outcome(err)
	tr.Duration = time.Since(tr.Start)
	c.observer.Observe(ctx, tr)
}

// prepare performs every pre-flight check. Any failure here means the
// transport is never reached.
func (c *Client) prepare(op catalog.Operation, in request) (catalog.OperationSpec, *payload.Envelope, error) {
	spec, ok := c.dialect.Lookup(op)
	if !ok {
		return spec, nil, fmt.Errorf("%s: %w in dialect %s", op, ErrUnsupportedOperation, c.dialect.Name())
	}

	fields := make(map[string]any, len(in.fields)+len(spec.HandleFields))
	for k, v := range in.fields {
		if absent(v) {
			continue
		}
		if !spec.Accepts(k) || slices.Contains(spec.HandleFields, k) {
			return spec, nil, invalidField(op, k, "not supported by dialect "+c.dialect.Name())
		}
		fields[k] = v
	}

	if len(spec.HandleFields) > 0 {
		bound, err := task.Bind(in.handle, spec.HandleFields)
		if err != nil {
			return spec, nil, invalidArgument(op, err)
		}
		for k, v := range bound {
			fields[k] = v
		}
	}

	for _, k := range spec.Required {
		if _, ok := fields[k]; !ok {
			return spec, nil, invalidField(op, k, "This field is required")
		}
	}

	switch spec.Encoding {
	case catalog.Multipart:
		if len(in.files) < spec.MinFiles {
			return spec, nil, invalidField(op, catalog.FileField, fmt.Sprintf("at least %d file(s) required, got %d", spec.MinFiles, len(in.files)))
		}
		if spec.MaxFiles > 0 && len(in.files) > spec.MaxFiles {
			return spec, nil, invalidField(op, catalog.FileField, fmt.Sprintf("at most %d file(s) allowed, got %d", spec.MaxFiles, len(in.files)))
		}
	default:
		if len(in.files) > 0 {
			return spec, nil, invalidArgument(op, payload.ErrUnexpectedFiles)
		}
	}

	env, err := payload.Encode(spec, fields, in.files)
	if err != nil {
		return spec, nil, fromEncoding(op, err)
	}
	env.Header.Set("Authorization", c.token)

	return spec, env, nil
}

func absent(v any) bool {
	switch s := v.(type) {
	case nil:
		return true
	case string:
		return s == ""
	}
	return false
}

func summary(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if !absent(v) {
			out[k] = v
		}
	}
	return out
}

func fileNames(files []payload.FilePart) []string {
	if len(files) == 0 {
		return nil
	}
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Name
	}
	return names
}
