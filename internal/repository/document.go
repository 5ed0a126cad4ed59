package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"resto-catalog/internal/docstore"
	"resto-catalog/internal/model"

	"github.com/rs/zerolog"
)

// maxConflictRetries bounds how often a write re-reads after a revision conflict.
const maxConflictRetries = 3

// timeNow is replaced in tests.
var timeNow = time.Now

// ErrInvalidDocument means the owning document lacks the expected structure.
var ErrInvalidDocument = errors.New("document does not have the expected structure")

// collection is one array field (items, photos, users) of a stored document.
// Every write fetches the full document, replaces only its own field and puts
// the whole record back, so sibling fields and untouched elements keep their
// exact bytes.
type collection struct {
	store  docstore.Store
	docID  string
	field  string
	logger zerolog.Logger
}

// load fetches the owning document and its array. ok is false when the field
// is missing or not an array.
func (c *collection) load(ctx context.Context) (*docstore.Document, []json.RawMessage, bool, error) {
	doc, err := c.store.Get(ctx, c.docID)
	if err != nil {
		return nil, nil, false, err
	}
	items, ok := readArray(doc.Record, c.field)
	return doc, items, ok, nil
}

// read returns the raw elements, or none when the document id or the store
// credential is not configured or the field is not an array.
func (c *collection) read(ctx context.Context) ([]json.RawMessage, error) {
	if c.docID == "" {
		c.logger.Debug().Msg("document not configured, returning empty collection")
		return nil, nil
	}
	_, items, ok, err := c.load(ctx)
	if errors.Is(err, docstore.ErrNotConfigured) {
		c.logger.Debug().Msg("document store not configured, returning empty collection")
		return nil, nil
	}
	if err != nil {
		c.logger.Error().Err(err).Msg("failed to fetch collection")
		return nil, fmt.Errorf("failed to fetch %s: %w", c.field, err)
	}
	if !ok {
		c.logger.Warn().Str("field", c.field).Msg("field missing or not an array, returning empty collection")
		return nil, nil
	}
	return items, nil
}

// mutateFunc computes the new array. Returning changed=false skips the write.
type mutateFunc func(items []json.RawMessage) (next []json.RawMessage, changed bool, err error)

// mutate runs a read-modify-write cycle, re-reading when the store reports a
// revision conflict.
func (c *collection) mutate(ctx context.Context, fn mutateFunc) (bool, error) {
	if c.docID == "" {
		return false, docstore.ErrNotConfigured
	}

	for attempt := 1; ; attempt++ {
		doc, items, _, err := c.load(ctx)
		if err != nil {
			c.logger.Error().Err(err).Msg("failed to fetch document for write")
			return false, fmt.Errorf("failed to fetch %s: %w", c.field, err)
		}

		next, changed, err := fn(items)
		if err != nil {
			return false, err
		}
		if !changed {
			return false, nil
		}

		if err := writeArray(doc, c.field, next); err != nil {
			return false, err
		}

		err = c.store.Put(ctx, c.docID, doc)
		if errors.Is(err, docstore.ErrRevisionConflict) && attempt < maxConflictRetries {
			c.logger.Warn().Int("attempt", attempt).Msg("document changed during write, retrying")
			continue
		}
		if err != nil {
			c.logger.Error().Err(err).Msg("failed to write document")
			return false, fmt.Errorf("failed to write %s: %w", c.field, err)
		}
		return true, nil
	}
}

// readArray returns the elements of record[field] when it is a JSON array.
func readArray(record map[string]json.RawMessage, field string) ([]json.RawMessage, bool) {
	raw, ok := record[field]
	if !ok {
		return nil, false
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, false
	}
	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, false
	}
	return items, true
}

// writeArray replaces record[field], keeping every other field as is.
func writeArray(doc *docstore.Document, field string, items []json.RawMessage) error {
	if items == nil {
		items = []json.RawMessage{}
	}
	raw, err := docstore.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", field, err)
	}
	if doc.Record == nil {
		doc.Record = make(map[string]json.RawMessage)
	}
	doc.Record[field] = raw
	return nil
}

// idOf extracts the id of a raw element. Numeric ids are returned as text.
func idOf(raw json.RawMessage) string {
	var probe struct {
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil || len(probe.ID) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(probe.ID, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(probe.ID))
}

// indexOf returns the position of the element with the given id, or -1.
func indexOf(items []json.RawMessage, id string) int {
	for i, item := range items {
		if idOf(item) == id {
			return i
		}
	}
	return -1
}

// mergePatch shallow-merges the non-nil fields of patch over raw and, unless
// now is zero, stamps updatedAt. Fields that patch does not name are kept.
func mergePatch(raw json.RawMessage, patch any, now time.Time) (json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		fields = make(map[string]json.RawMessage)
	}

	encoded, err := docstore.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("failed to encode patch: %w", err)
	}
	var overlay map[string]json.RawMessage
	if err := json.Unmarshal(encoded, &overlay); err != nil {
		return nil, fmt.Errorf("failed to decode patch: %w", err)
	}
	for k, v := range overlay {
		if k == "id" {
			continue
		}
		fields[k] = v
	}

	if !now.IsZero() {
		stamp, err := docstore.Marshal(model.NewTimestamp(now))
		if err != nil {
			return nil, fmt.Errorf("failed to encode timestamp: %w", err)
		}
		fields["updatedAt"] = stamp
	}

	return docstore.Marshal(fields)
}

// removeID filters out the element with the given id.
func removeID(items []json.RawMessage, id string) ([]json.RawMessage, bool) {
	idx := indexOf(items, id)
	if idx < 0 {
		return items, false
	}
	next := make([]json.RawMessage, 0, len(items)-1)
	next = append(next, items[:idx]...)
	next = append(next, items[idx+1:]...)
	return next, true
}

// updateID replaces the element with the given id by its merged form.
func updateID(items []json.RawMessage, id string, patch any, stamp bool) ([]json.RawMessage, bool, error) {
	idx := indexOf(items, id)
	if idx < 0 {
		return items, false, nil
	}
	var now time.Time
	if stamp {
		now = timeNow()
	}
	merged, err := mergePatch(items[idx], patch, now)
	if err != nil {
		return nil, false, err
	}
	next := append([]json.RawMessage(nil), items...)
	next[idx] = merged
	return next, true, nil
}

// decodeAll decodes every element into T, skipping elements that are not objects.
func decodeAll[T any](items []json.RawMessage, logger zerolog.Logger) []T {
	out := make([]T, 0, len(items))
	for i, raw := range items {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			logger.Warn().Err(err).Int("index", i).Msg("skipping malformed element")
			continue
		}
		out = append(out, v)
	}
	return out
}
