// Package task models the opaque handles returned by submission-style
// operations and routes them into the request fields a dialect expects.
//
// A handle is either a single identifier ([ID]) or a message/job pair
// ([MessageJob]). Callers treat both as opaque values: they come out of a
// submission or result response and go back into a later call unchanged.
package task

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNilHandle is returned when a handle is required but none was given.
	ErrNilHandle = errors.New("handle must not be nil")
	// ErrShapeMismatch is returned when a handle cannot fill the slots an operation declares.
	ErrShapeMismatch = errors.New("handle shape does not match operation")
	// ErrEmptyIdentifier is returned when a handle carries an empty identifier.
	ErrEmptyIdentifier = errors.New("handle identifier must not be empty")
)

// Handle is the tagged union of handle shapes. The unexported method
// closes the set to [ID] and [MessageJob].
type Handle interface {
	slots() int
	String() string
}

// ID is a handle made of one opaque identifier.
type ID string

func (ID) slots() int { return 1 }

func (id ID) String() string { return string(id) }

// MessageJob is a handle made of a message identifier and a job identifier.
// Both must be threaded into every operation that references the job.
type MessageJob struct {
	MessageID string
	JobID     string
}

func (MessageJob) slots() int { return 2 }

func (mj MessageJob) String() string {
	return mj.MessageID + "/" + mj.JobID
}

// Bind routes h into the given field slots, in order. A single-slot
// operation takes an [ID]; a two-slot operation takes a [MessageJob].
func Bind(h Handle, slots []string) (map[string]any, error) {
	if h == nil {
		return nil, ErrNilHandle
	}

	if h.slots() != len(slots) {
		return nil, fmt.Errorf("%w: %T fills %d field(s), operation expects [%s]",
			ErrShapeMismatch, h, h.slots(), strings.Join(slots, ", "))
	}

	switch v := h.(type) {
	case ID:
		if v == "" {
			return nil, ErrEmptyIdentifier
		}
		return map[string]any{slots[0]: string(v)}, nil

	case MessageJob:
		if v.MessageID == "" || v.JobID == "" {
			return nil, ErrEmptyIdentifier
		}
		return map[string]any{slots[0]: v.MessageID, slots[1]: v.JobID}, nil
	}

	return nil, fmt.Errorf("%w: unknown handle type %T", ErrShapeMismatch, h)
}

// FromFields rebuilds a handle from response fields. Numeric identifiers
// decoded as json.Number are kept in their wire form. It reports false when
// any key is missing, empty or of another type.
func FromFields(fields map[string]any, keys []string) (Handle, bool) {
	vals := make([]string, 0, len(keys))
	for _, k := range keys {
		var s string
		switch v := fields[k].(type) {
		case string:
			s = v
		case json.Number:
			s = v.String()
		}
		if s == "" {
			return nil, false
		}
		vals = append(vals, s)
	}

	switch len(vals) {
	case 1:
		return ID(vals[0]), true
	case 2:
		return MessageJob{MessageID: vals[0], JobID: vals[1]}, true
	}

	return nil, false
}
