package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxErrBodySize caps the raw body kept on an [UnexpectedStatusError].
// maxErrDecodeSize caps how much of that body is read to find the
// service's message, so large structured errors still parse.
const (
	maxErrBodySize   = 4 << 10 // 4KB
	maxErrDecodeSize = 1 << 20 // 1MB
)

var (
	// ErrUnexpectedStatusCode is the sentinel error wrapped by [UnexpectedStatusError].
	ErrUnexpectedStatusCode = errors.New("unexpected status code")
	// ErrAuthFailure is joined with [ErrUnexpectedStatusCode] when the server
	// responds with 401 Unauthorized or 403 Forbidden.
	ErrAuthFailure = errors.New("auth failure")
)

// UnexpectedStatusError is returned when the HTTP response status code
// is not a success.
type UnexpectedStatusError struct {
	StatusCode int
	Body       string
	Err        error

	message string
	parsed  bool
}

// statusError reads the answer to a rejected envelope. 401 and 403 are
// also reported as [ErrAuthFailure].
func statusError(resp *http.Response) *UnexpectedStatusError {
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxErrDecodeSize))
	if err != nil {
		b = []byte("unable to read body")
	}

	cause := ErrUnexpectedStatusCode
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		cause = fmt.Errorf("%w: %w", ErrAuthFailure, ErrUnexpectedStatusCode)
	}

	return newStatusError(resp.StatusCode, b, cause)
}

func newStatusError(code int, body []byte, err error) *UnexpectedStatusError {
	sErr := UnexpectedStatusError{
		StatusCode: code,
		Body:       string(body[:min(len(body), maxErrBodySize)]),
		Err:        err,
	}
	sErr.message, sErr.parsed = serviceMessage(body)

	return &sErr
}

func (e *UnexpectedStatusError) Error() string {
	return fmt.Sprintf("%v: %d, body: %s", e.Err, e.StatusCode, e.Body)
}

func (e *UnexpectedStatusError) Unwrap() error {
	return e.Err
}

// ServiceMessage extracts the service's own error text. The service answers
// failures as {"errors": [...]}, {"error": ...} or {"message": ...}; entries
// may be strings or objects carrying msg/message. It reports false when the
// body is not one of those shapes. For errors returned by [Client.Execute]
// the message is taken from the full body, not the truncated Body.
func (e *UnexpectedStatusError) ServiceMessage() (string, bool) {
	if e.parsed {
		return e.message, true
	}
	return serviceMessage([]byte(e.Body))
}

func serviceMessage(body []byte) (string, bool) {
	var shape map[string]json.RawMessage
	if err := json.Unmarshal(body, &shape); err != nil {
		return "", false
	}

	for _, key := range []string{"errors", "error", "message", "detail"} {
		raw, ok := shape[key]
		if !ok {
			continue
		}
		if msg := messageFrom(raw); msg != "" {
			return msg, true
		}
	}

	return "", false
}

func messageFrom(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		msgs := make([]string, 0, len(list))
		for _, item := range list {
			if m := messageFrom(item); m != "" {
				msgs = append(msgs, m)
			}
		}
		return strings.Join(msgs, "; ")
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err == nil {
		for _, key := range []string{"msg", "message", "error", "detail"} {
			if v, ok := obj[key]; ok {
				if m := messageFrom(v); m != "" {
					return m
				}
			}
		}
	}

	return ""
}
