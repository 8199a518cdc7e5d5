// Package observe defines the trace records the imagine client emits around
// every call and a few ready-made observers: structured logging through
// slog or zap, OpenTelemetry spans and Prometheus metrics.
//
// Observers are invoked synchronously on the calling goroutine and must be
// safe for concurrent use. Records never contain the auth token or file
// contents.
package observe

import (
	"context"
	"time"
)

// Stage marks where in a call a record was emitted.
type Stage int

const (
	StageRequest Stage = iota
	StageResponse
	StageError
)

func (s Stage) String() string {
	switch s {
	case StageRequest:
		return "request"
	case StageResponse:
		return "response"
	case StageError:
		return "error"
	}
	return "unknown"
}

// Outcome labels how a call ended.
const (
	OutcomeOK          = "ok"
	OutcomeInvalid     = "invalid_argument"
	OutcomeUnsupported = "unsupported_operation"
	OutcomeRemote      = "remote_error"
	OutcomeTransport   = "transport_error"
)

// Trace is one record about one call. Request-stage records carry the
// request summary; response and error records also carry the outcome and
// the elapsed time since the request stage.
type Trace struct {
	RequestID string
	Op        string
	Dialect   string
	Stage     Stage
	Path      string
	Fields    map[string]any
	Files     []string
	Response  map[string]any
	Handle    string
	Outcome   string
	Err       error
	Start     time.Time
	Duration  time.Duration
}

// Observer receives trace records.
type Observer interface {
	Observe(ctx context.Context, tr Trace)
}

// Func adapts a plain function to an Observer.
type Func func(ctx context.Context, tr Trace)

func (f Func) Observe(ctx context.Context, tr Trace) { f(ctx, tr) }

// Nop discards every record.
type Nop struct{}

func (Nop) Observe(context.Context, Trace) {}

// Multi fans each record out to every observer in order. Nil entries are skipped.
func Multi(observers ...Observer) Observer {
	list := make(multi, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			list = append(list, o)
		}
	}
	return list
}

type multi []Observer

func (m multi) Observe(ctx context.Context, tr Trace) {
	for _, o := range m {
		o.Observe(ctx, tr)
	}
}
