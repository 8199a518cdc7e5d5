// Package payload turns an operation's fields and file parts into a request
// envelope: a JSON object or a multipart form, plus the matching headers.
package payload

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/adamwoolhether/imagine/catalog"
)

// ContentTypeJSON is sent with every JSON envelope.
const ContentTypeJSON = "application/json"

var (
	ErrNoContent       = errors.New("file part has no content")
	ErrNoFileName      = errors.New("file part has no name")
	ErrUnexpectedFiles = errors.New("json operation does not take files")
	ErrUndeclaredField = errors.New("field not declared by operation")
)

// FilePart is a caller-owned file to upload. Content is read exactly once,
// during Encode, and is neither closed nor retained.
type FilePart struct {
	Content io.Reader
	Name    string
}

// Envelope is a fully encoded request, built fresh for every call.
type Envelope struct {
	Op     catalog.Operation
	Path   string
	Header http.Header
	Body   []byte
}

// ContentType is shorthand for the envelope's Content-Type header.
func (e *Envelope) ContentType() string {
	return e.Header.Get("Content-Type")
}

// Reader returns a fresh reader over the encoded body.
func (e *Envelope) Reader() io.Reader {
	return bytes.NewReader(e.Body)
}

// Encode builds the envelope for spec. Absent values (nil or empty string)
// are left out entirely rather than sent as null or empty.
func Encode(spec catalog.OperationSpec, fields map[string]any, files []FilePart) (*Envelope, error) {
	for k := range fields {
		if !spec.Accepts(k) {
			return nil, fmt.Errorf("%s: %w: %q", spec.Name, ErrUndeclaredField, k)
		}
	}

	env := Envelope{
		Op:     spec.Name,
		Path:   spec.Path,
		Header: make(http.Header),
	}

	var err error
	switch spec.Encoding {
	case catalog.JSON:
		if len(files) > 0 {
			return nil, fmt.Errorf("%s: %w", spec.Name, ErrUnexpectedFiles)
		}
		err = encodeJSON(&env, fields)

	case catalog.Multipart:
		err = encodeMultipart(&env, spec.Fields(), fields, files)

	default:
		err = fmt.Errorf("unsupported encoding %s", spec.Encoding)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", spec.Name, err)
	}

	return &env, nil
}

func encodeJSON(env *Envelope, fields map[string]any) error {
	body := make(map[string]any, len(fields))
	for k, v := range fields {
		if absent(v) {
			continue
		}
		body[k] = v
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(body); err != nil {
		return fmt.Errorf("encoding json body: %w", err)
	}

	env.Body = buf.Bytes()
	env.Header.Set("Content-Type", ContentTypeJSON)

	return nil
}

func encodeMultipart(env *Envelope, order []string, fields map[string]any, files []FilePart) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for i, f := range files {
		if f.Content == nil {
			return fmt.Errorf("file %d: %w", i, ErrNoContent)
		}
		if f.Name == "" {
			return fmt.Errorf("file %d: %w", i, ErrNoFileName)
		}

		part, err := w.CreatePart(fileHeader(f.Name))
		if err != nil {
			return fmt.Errorf("creating part for %s: %w", f.Name, err)
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return fmt.Errorf("reading %s: %w", f.Name, err)
		}
	}

	for _, k := range order {
		v, ok := fields[k]
		if !ok || absent(v) {
			continue
		}
		if err := w.WriteField(k, scalar(v)); err != nil {
			return fmt.Errorf("writing field %s: %w", k, err)
		}
	}

	if err := w.Close(); err != nil {
		return fmt.Errorf("closing multipart writer: %w", err)
	}

	env.Body = buf.Bytes()
	env.Header.Set("Content-Type", w.FormDataContentType())

	return nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func fileHeader(name string) textproto.MIMEHeader {
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		catalog.FileField, quoteEscaper.Replace(name)))

	ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)

	return h
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

func scalar(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case int:
		return strconv.Itoa(s)
	case fmt.Stringer:
		return s.String()
	}
	return fmt.Sprint(v)
}
