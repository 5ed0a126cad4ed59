// Package memstore is an in-process docstore.Store used for development and
// tests. It honours revisions the same way the postgres store does.
package memstore

import (
	"context"
	"encoding/json"
	"sync"

	"resto-catalog/internal/docstore"
)

// Store keeps documents in memory.
type Store struct {
	mu   sync.Mutex
	docs map[string]*docstore.Document
	gets map[string]int
	puts map[string]int
}

// New creates an empty store.
func New() *Store {
	return &Store{
		docs: make(map[string]*docstore.Document),
		gets: make(map[string]int),
		puts: make(map[string]int),
	}
}

// Seed stores a document from its raw JSON record, replacing any existing one.
func (s *Store) Seed(docID, record string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[docID] = &docstore.Document{Record: docstore.DecodeRecord([]byte(record)), Revision: 1}
}

// Get returns a copy of the document, provisioning it when missing.
func (s *Store) Get(_ context.Context, docID string) (*docstore.Document, error) {
	if docID == "" {
		return nil, docstore.ErrNotConfigured
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets[docID]++

	doc, ok := s.docs[docID]
	if !ok {
		doc = &docstore.Document{Record: docstore.SeedRecord(), Revision: 1}
		s.docs[docID] = doc
		out := doc.Clone()
		out.Provisioned = true
		return out, nil
	}
	return doc.Clone(), nil
}

// Put replaces the document, checking a non-zero revision.
func (s *Store) Put(_ context.Context, docID string, doc *docstore.Document) error {
	if docID == "" {
		return docstore.ErrNotConfigured
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.docs[docID]
	if doc.Revision != 0 && (!ok || current.Revision != doc.Revision) {
		return docstore.ErrRevisionConflict
	}

	next := doc.Clone()
	next.Provisioned = false
	next.Revision = 1
	if ok {
		next.Revision = current.Revision + 1
	}
	s.docs[docID] = next
	s.puts[docID]++
	doc.Revision = next.Revision
	return nil
}

// Raw returns the stored field as raw JSON, or nil.
func (s *Store) Raw(docID, field string) json.RawMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[docID]
	if !ok || doc.Record == nil {
		return nil
	}
	return append(json.RawMessage(nil), doc.Record[field]...)
}

// Record returns the whole stored record encoded as JSON.
func (s *Store) Record(docID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[docID]
	if !ok {
		return ""
	}
	b, _ := docstore.EncodeRecord(doc.Record)
	return string(b)
}

// Puts reports how many writes reached the document.
func (s *Store) Puts(docID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.puts[docID]
}

// Gets reports how many reads hit the document.
func (s *Store) Gets(docID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gets[docID]
}
