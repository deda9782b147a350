// Package store owns the budget document: a single JSON document persisted
// in sqlite, mutated atomically, with an explicit observer list instead of
// ambient global state.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/phantom-finance/phantomfin/internal/budget"
)

// Store is the single source of truth for the budget document. All reads go
// through Snapshot and all writes through Mutate; observers are notified
// after every committed mutation.
type Store struct {
	mu   sync.Mutex
	db   *sql.DB
	doc  *budget.Document
	demo bool

	subMu   sync.Mutex
	subs    map[int]func(*budget.Document)
	nextSub int
}

// Open opens (creating if needed) the document database at path and loads
// the current document, merging it over defaults so documents written by
// older versions pick up new settings fields.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	db.SetMaxOpenConns(1) // sqlite
	db.SetConnMaxLifetime(0)

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{db: db, subs: map[int]func(*budget.Document){}}
	if err := s.load(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	var raw string
	err := s.db.QueryRow(`SELECT data FROM budget_document WHERE id = 1`).Scan(&raw)
	switch {
	case err == sql.ErrNoRows:
		s.doc = budget.DefaultDocument()
		return s.persist(s.doc)
	case err != nil:
		return fmt.Errorf("load document: %w", err)
	}
	doc := budget.DefaultDocument()
	if err := json.Unmarshal([]byte(raw), doc); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	s.doc = doc
	return nil
}

func (s *Store) persist(doc *budget.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	_, err = s.db.Exec(`
	INSERT INTO budget_document(id, data, updated_at) VALUES (1, ?, CURRENT_TIMESTAMP)
	ON CONFLICT(id) DO UPDATE SET data=excluded.data, updated_at=CURRENT_TIMESTAMP;
	`, string(data))
	if err != nil {
		return fmt.Errorf("persist document: %w", err)
	}
	return nil
}

// Snapshot returns a deep copy of the current document.
func (s *Store) Snapshot() *budget.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone()
}

// Mutate applies fn to a copy of the document and commits the result in
// one write; a failed write leaves the in-memory document untouched. In
// demo mode the mutation stays in memory. Observers run after the commit,
// outside the store lock, each with its own copy.
func (s *Store) Mutate(fn func(*budget.Document)) error {
	s.mu.Lock()
	next := s.doc.Clone()
	fn(next)
	if !s.demo {
		if err := s.persist(next); err != nil {
			s.mu.Unlock()
			return err
		}
	}
	s.doc = next
	snap := next.Clone()
	s.mu.Unlock()

	s.notify(snap)
	return nil
}

// Subscribe registers an observer for committed mutations and returns an
// unsubscribe func.
func (s *Store) Subscribe(fn func(*budget.Document)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) notify(doc *budget.Document) {
	s.subMu.Lock()
	fns := make([]func(*budget.Document), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(doc.Clone())
	}
}

// EnterDemoMode swaps in the fictional sample document; nothing is persisted
// until ExitDemoMode.
func (s *Store) EnterDemoMode() {
	s.mu.Lock()
	s.demo = true
	s.doc = budget.DemoDocument()
	snap := s.doc.Clone()
	s.mu.Unlock()
	s.notify(snap)
}

// ExitDemoMode leaves demo mode. With keep=true the demo-era document is
// saved; otherwise the persisted document is reloaded.
func (s *Store) ExitDemoMode(keep bool) error {
	s.mu.Lock()
	s.demo = false
	var err error
	if keep {
		err = s.persist(s.doc)
	} else {
		err = s.load()
	}
	snap := s.doc.Clone()
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.notify(snap)
	return nil
}

func (s *Store) DemoMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.demo
}

// ExportJSON renders the whole document as indented JSON.
func (s *Store) ExportJSON() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return json.MarshalIndent(s.doc, "", "  ")
}

// ImportJSON replaces the document with one decoded from data, merged over
// defaults, and persists it.
func (s *Store) ImportJSON(data []byte) error {
	doc := budget.DefaultDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	s.mu.Lock()
	s.demo = false
	s.doc = doc
	err := s.persist(s.doc)
	snap := s.doc.Clone()
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.notify(snap)
	return nil
}

// Clear resets the document to defaults and persists the empty state.
func (s *Store) Clear() error {
	s.mu.Lock()
	s.demo = false
	s.doc = budget.DefaultDocument()
	err := s.persist(s.doc)
	snap := s.doc.Clone()
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.notify(snap)
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
