// Package docstore defines the whole-document storage contract shared by the
// hosted JSON API client and the postgres backend.
package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// SeedField is the field written into a freshly provisioned document.
const SeedField = "photos"

var (
	// ErrNotConfigured is returned when no document identifier or no store
	// credential is set.
	ErrNotConfigured = errors.New("document store is not configured")

	// ErrUnauthorized means the access credential is invalid or expired.
	ErrUnauthorized = errors.New("document store credential is invalid or expired")

	// ErrForbidden means the credential has no access to the document.
	ErrForbidden = errors.New("document store credential has no access to this document")

	// ErrDecode means the store answered with a body that is not valid JSON.
	ErrDecode = errors.New("failed to decode document store response")

	// ErrRevisionConflict means the document changed since it was read.
	ErrRevisionConflict = errors.New("document was modified concurrently")

	// ErrUnavailable wraps a failure that persisted across every attempt.
	ErrUnavailable = errors.New("document store is unavailable")
)

// HTTPError is a non-success status that is not classified otherwise.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("document store returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("document store returned status %d: %s", e.StatusCode, e.Body)
}

// Document is the full content of one stored document.
type Document struct {
	// Record holds the top-level fields as raw JSON so that fields a caller
	// does not touch are written back byte for byte. Nil when the stored
	// record is missing or not an object.
	Record map[string]json.RawMessage

	// Revision is the compare-and-swap token. Zero means unconditional.
	Revision int64

	// Provisioned is set when the document did not exist and was created
	// with the empty seed during this read.
	Provisioned bool
}

// Store reads and replaces whole documents.
type Store interface {
	// Get fetches the document with the given id.
	Get(ctx context.Context, docID string) (*Document, error)

	// Put replaces the document. On success doc.Revision holds the new revision.
	Put(ctx context.Context, docID string, doc *Document) error
}

// SeedRecord returns the record used when a document has to be created.
func SeedRecord() map[string]json.RawMessage {
	return map[string]json.RawMessage{SeedField: json.RawMessage(`[]`)}
}

// DecodeRecord turns a raw record into the field map. Values that are not a
// JSON object yield a nil map.
func DecodeRecord(raw []byte) map[string]json.RawMessage {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}
	var record map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &record); err != nil {
		return nil
	}
	return record
}

// Marshal encodes v without HTML escaping so stored URLs keep their "&".
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// EncodeRecord encodes a record for storage. A nil record encodes as {}.
func EncodeRecord(record map[string]json.RawMessage) ([]byte, error) {
	if record == nil {
		return []byte(`{}`), nil
	}
	return Marshal(record)
}

// MaskID shortens a document identifier for logs.
func MaskID(id string) string {
	if len(id) <= 4 {
		return "****"
	}
	return id[:4] + "…"
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := &Document{Revision: d.Revision, Provisioned: d.Provisioned}
	if d.Record != nil {
		out.Record = make(map[string]json.RawMessage, len(d.Record))
		for k, v := range d.Record {
			out.Record[k] = append(json.RawMessage(nil), v...)
		}
	}
	return out
}
