package note

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mklimuk/smart-notes/pkg/db"
)

// DefaultKey is the key the note list is stored under.
const DefaultKey = "smart-notes"

// ErrNotFound is returned when no note has the requested ID.
var ErrNotFound = errors.New("note not found")

// Store is an ordered, newest-first collection of notes mirrored to a
// key-value store after every mutation.
type Store struct {
	kv     db.KV
	key    string
	now    func() time.Time
	logger *slog.Logger

	mu    sync.RWMutex
	notes []Note
}

// Option configures a Store.
type Option func(*Store)

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// Open loads the note list from kv. A missing key yields an empty store;
// malformed data is returned as an error.
func Open(ctx context.Context, kv db.KV, opts ...Option) (*Store, error) {
	s := &Store{
		kv:     kv,
		key:    DefaultKey,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	data, ok, err := kv.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("failed to load notes: %w", err)
	}
	if ok && len(data) > 0 {
		if err := json.Unmarshal(data, &s.notes); err != nil {
			return nil, fmt.Errorf("failed to parse stored notes: %w", err)
		}
	}
	s.logger.Debug("note store opened", "key", s.key, "notes", len(s.notes))
	return s, nil
}

// Now returns the store clock's current time.
func (s *Store) Now() time.Time {
	return s.now()
}

// List returns a copy of all notes, newest first.
func (s *Store) List() []Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Note, len(s.notes))
	for i, n := range s.notes {
		out[i] = n.Clone()
	}
	return out
}

// Len returns the number of notes.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.notes)
}

// Get returns the note with the given ID.
func (s *Store) Get(id string) (Note, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, n := range s.notes {
		if n.ID == id {
			return n.Clone(), true
		}
	}
	return Note{}, false
}

// Prepend inserts n at the front of the list. Missing ID and timestamps are
// filled in; the stored note is returned.
func (s *Store) Prepend(ctx context.Context, n Note) (Note, error) {
	now := s.now()
	if n.ID == "" {
		n.ID = NewID(now)
	}
	if n.CreatedAt == "" {
		n.CreatedAt = Timestamp(now)
	}
	if n.UpdatedAt == "" {
		n.UpdatedAt = n.CreatedAt
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.notes {
		if existing.ID == n.ID {
			return Note{}, fmt.Errorf("note %s already exists", n.ID)
		}
	}
	next := make([]Note, 0, len(s.notes)+1)
	next = append(next, n.Clone())
	next = append(next, s.notes...)
	if err := s.commit(ctx, next); err != nil {
		return Note{}, err
	}
	return n.Clone(), nil
}

// Update replaces the note with the same ID and refreshes its update time.
func (s *Store) Update(ctx context.Context, n Note) (Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.index(n.ID)
	if idx < 0 {
		return Note{}, fmt.Errorf("update %s: %w", n.ID, ErrNotFound)
	}
	n.UpdatedAt = Timestamp(s.now())

	next := make([]Note, len(s.notes))
	copy(next, s.notes)
	next[idx] = n.Clone()
	if err := s.commit(ctx, next); err != nil {
		return Note{}, err
	}
	return n.Clone(), nil
}

// Delete removes the note with the given ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.index(id)
	if idx < 0 {
		return fmt.Errorf("delete %s: %w", id, ErrNotFound)
	}
	next := make([]Note, 0, len(s.notes)-1)
	next = append(next, s.notes[:idx]...)
	next = append(next, s.notes[idx+1:]...)
	return s.commit(ctx, next)
}

func (s *Store) index(id string) int {
	for i, n := range s.notes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

// commit persists next and, only on success, makes it the current list.
// Callers hold s.mu.
func (s *Store) commit(ctx context.Context, next []Note) error {
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("failed to marshal notes: %w", err)
	}
	if err := s.kv.Put(ctx, s.key, data); err != nil {
		return fmt.Errorf("failed to persist notes: %w", err)
	}
	s.notes = next
	s.logger.Debug("notes persisted", "key", s.key, "notes", len(next))
	return nil
}
