package imagine

import (
	"errors"
	"fmt"

	"github.com/adamwoolhether/imagine/catalog"
	"github.com/adamwoolhether/imagine/client"
	"github.com/adamwoolhether/imagine/observe"
	"github.com/adamwoolhether/imagine/payload"
	"github.com/adamwoolhether/imagine/validate"
)

var (
	// ErrInvalidConfiguration is returned by [New] when the client cannot be
	// built from the given configuration.
	ErrInvalidConfiguration = errors.New("invalid configuration")
	// ErrInvalidArgument is returned when a caller-supplied value fails a
	// precondition. Nothing is sent.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnsupportedOperation is returned when the active dialect has no such
	// operation. Nothing is sent.
	ErrUnsupportedOperation = errors.New("unsupported operation")
	// ErrMissingHandle is the cause of a [TransportError] when a submission
	// response carries no handle.
	ErrMissingHandle = errors.New("response carries no handle")
)

// RemoteError is a structured error answered by the service. Message is the
// service's own text; Body is the raw (truncated) response body.
type RemoteError struct {
	Op         catalog.Operation
	StatusCode int
	Message    string
	Body       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: remote error %d: %s", e.Op, e.StatusCode, e.Message)
}

// TransportError reports a call that produced no usable answer: a network
// failure, a timeout or cancellation, or a response that could not be parsed.
// Fields holds whatever the service did answer, if anything; a submission
// that failed with [ErrMissingHandle] may still have been accepted.
type TransportError struct {
	Op     catalog.Operation
	Err    error
	Fields map[string]any
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func invalidArgument(op catalog.Operation, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrInvalidArgument, err)
}

func invalidField(op catalog.Operation, field, msg string) error {
	return invalidArgument(op, validate.NewFieldError(field, msg))
}

// fromTransport maps whatever the transport returned onto the facade's
// error kinds. A non-2xx answer becomes a RemoteError only when its body
// carries the service's error shape.
func fromTransport(op catalog.Operation, err error) error {
	var sErr *client.UnexpectedStatusError
	if errors.As(err, &sErr) {
		if msg, ok := sErr.ServiceMessage(); ok {
			return &RemoteError{
				Op:         op,
				StatusCode: sErr.StatusCode,
				Message:    msg,
				Body:       sErr.Body,
			}
		}
	}

	return &TransportError{Op: op, Err: err}
}

// fromEncoding maps a payload failure. Malformed file parts are the
// caller's fault; anything else happened while reading their streams.
func fromEncoding(op catalog.Operation, err error) error {
	switch {
	case errors.Is(err, payload.ErrNoContent),
		errors.Is(err, payload.ErrNoFileName),
		errors.Is(err, payload.ErrUndeclaredField),
		errors.Is(err, payload.ErrUnexpectedFiles):
		return invalidArgument(op, err)
	}

	return &TransportError{Op: op, Err: err}
}

func outcome(err error) string {
	var (
		rErr *RemoteError
		tErr *TransportError
	)

	switch {
	case errors.Is(err, ErrInvalidArgument):
		return observe.OutcomeInvalid
	case errors.Is(err, ErrUnsupportedOperation):
		return observe.OutcomeUnsupported
	case errors.As(err, &rErr):
		return observe.OutcomeRemote
	case errors.As(err, &tErr):
		return observe.OutcomeTransport
	}

	return observe.OutcomeTransport
}
