// Package catalog declares, per wire dialect, every operation the remote
// service supports: its path, payload encoding, field set and whether it
// yields a pollable handle or an immediate result.
package catalog

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Encoding selects how an operation's payload is written.
type Encoding int

const (
	JSON Encoding = iota
	Multipart
)

func (e Encoding) String() string {
	switch e {
	case JSON:
		return "json"
	case Multipart:
		return "multipart"
	}
	return fmt.Sprintf("encoding(%d)", int(e))
}

// Operation names a supported call.
type Operation string

const (
	Imagine    Operation = "imagine"
	Upscale    Operation = "upscale"
	Variations Operation = "variations"
	Remix      Operation = "remix"
	Upload     Operation = "upload"
	Seed       Operation = "seed"
	Describe   Operation = "describe"
	Blend      Operation = "blend"
	FaceSwap   Operation = "faceswap"
	Result     Operation = "result"
)

// FileField is the multipart field name every file part is sent under.
const FileField = "image"

// Common request field names.
const (
	FieldPrompt         = "prompt"
	FieldMode           = "mode"
	FieldCallbackURL    = "callbackURL"
	FieldPosition       = "position"
	FieldDimension      = "dimension"
	FieldTargetImageURL = "targetImageURL"
	FieldFaceImageURL   = "faceImageURL"
	FieldTaskID         = "taskId"
	FieldMessageID      = "messageId"
	FieldJobID          = "jobId"
	FieldResultID       = "resultId"
)

// OperationSpec is one row of a catalog.
//
// Required and Optional are ordered; the order is the order scalar fields
// are written in multipart bodies. HandleFields are the slots a caller's
// task handle is routed into and are always part of Required.
type OperationSpec struct {
	Name         Operation
	Path         string
	Encoding     Encoding
	Required     []string
	Optional     []string
	HandleFields []string
	Immediate    bool
	MinFiles     int
	MaxFiles     int // zero means unbounded
}

// Accepts reports whether field is declared required or optional.
func (s OperationSpec) Accepts(field string) bool {
	return slices.Contains(s.Required, field) || slices.Contains(s.Optional, field)
}

// Fields returns required then optional field names in declared order.
func (s OperationSpec) Fields() []string {
	return slices.Concat(s.Required, s.Optional)
}

func (s OperationSpec) clone() OperationSpec {
	s.Required = slices.Clone(s.Required)
	s.Optional = slices.Clone(s.Optional)
	s.HandleFields = slices.Clone(s.HandleFields)
	return s
}

// Catalog is the read-only operation table for one dialect.
type Catalog struct {
	name           string
	defaultBaseURL string
	handleKeys     []string
	ops            map[Operation]OperationSpec
}

func newCatalog(name, baseURL string, handleKeys []string, specs ...OperationSpec) *Catalog {
	c := Catalog{
		name:           name,
		defaultBaseURL: baseURL,
		handleKeys:     handleKeys,
		ops:            make(map[Operation]OperationSpec, len(specs)),
	}

	for _, s := range specs {
		for _, f := range s.HandleFields {
			if !slices.Contains(s.Required, f) {
				panic(fmt.Sprintf("catalog %s: %s handle field %q not required", name, s.Name, f))
			}
		}
		c.ops[s.Name] = s
	}

	return &c
}

// Name identifies the dialect.
func (c *Catalog) Name() string { return c.name }

// DefaultBaseURL is the service root the dialect ships with. It is empty
// when callers must always supply their own.
func (c *Catalog) DefaultBaseURL() string { return c.defaultBaseURL }

// HandleKeys are the response fields that make up the handle returned by
// a submission-style operation.
func (c *Catalog) HandleKeys() []string { return slices.Clone(c.handleKeys) }

// Lookup returns a copy of the operation's row.
func (c *Catalog) Lookup(op Operation) (OperationSpec, bool) {
	s, ok := c.ops[op]
	if !ok {
		return OperationSpec{}, false
	}
	return s.clone(), true
}

// Operations lists the supported operations, sorted by name.
func (c *Catalog) Operations() []Operation {
	return slices.Sorted(maps.Keys(c.ops))
}

// ByName resolves a dialect from its configured name ("a", "b", or the
// full "dialect-a" form; case-insensitive).
func ByName(name string) (*Catalog, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "a", "dialect-a", "taskid":
		return DialectA(), nil
	case "b", "dialect-b", "messagejob":
		return DialectB(), nil
	}
	return nil, fmt.Errorf("unknown dialect %q", name)
}
