package imagine

import (
	"encoding/json"
	"fmt"

	"github.com/adamwoolhether/imagine/catalog"
	"github.com/adamwoolhether/imagine/task"
)

// Response is the service's answer to one call. Fields is the decoded JSON
// object as sent, with numbers kept as json.Number. Handle is set whenever
// the answer names a job in the dialect's handle keys; submissions that do
// not complete immediately always carry one.
type Response struct {
	Op     catalog.Operation
	Handle task.Handle
	Fields map[string]any
}

// Get returns the raw value of key.
func (r Response) Get(key string) (any, bool) {
	v, ok := r.Fields[key]
	return v, ok
}

// Text returns key as a string. Numbers are rendered in their wire form;
// missing keys and other types give "".
func (r Response) Text(key string) string {
	switch v := r.Fields[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return fmt.Sprint(v)
	}
	return ""
}

// Status is the job status the service reported, if any.
func (r Response) Status() string {
	return r.Text("status")
}

// MessageJob extracts the message/job pair that Dialect B operations key
// on. Result answers in that dialect carry it once the job has started.
func (r Response) MessageJob() (task.MessageJob, bool) {
	h, ok := task.FromFields(r.Fields, []string{catalog.FieldMessageID, catalog.FieldJobID})
	if !ok {
		return task.MessageJob{}, false
	}
	return h.(task.MessageJob), true
}
