// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history keeps the most recent analysis results, newest first, in
// a bounded list persisted as one JSON array under a single key.
//
// Persistence is best effort: an undecodable record is treated as an empty
// history, a failed write still returns the updated list, and a backend that
// cannot be read leaves the last in-memory list in use. No failure is returned to the caller; both are
// logged and passed to the optional error handler.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/veripaper/internal/kv"
	"github.com/pdiddy/veripaper/pkg/types"
)

const (
	// StorageKey is the backend key holding the history array.
	StorageKey = "veripaper_history"

	// DefaultCapacity is the number of entries kept.
	DefaultCapacity = 10
)

// DecodeError reports a stored history record that is not a JSON array of
// entries. The history is treated as empty.
type DecodeError struct {
	Key string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding history %s: %v", e.Key, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// WriteError reports a backend failure while reading, saving, or deleting
// the history record. The in-memory history is unaffected.
type WriteError struct {
	Key string
	Op  string
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("history %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Option configures a Cache.
type Option func(*Cache)

// WithCapacity overrides DefaultCapacity. Values below 1 are ignored.
func WithCapacity(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.capacity = n
		}
	}
}

// WithClock sets the time source for entry timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithIDGenerator sets the entry ID source.
func WithIDGenerator(next func() string) Option {
	return func(c *Cache) { c.newID = next }
}

// WithLogger sets the logger for persistence failures.
func WithLogger(l *zap.Logger) Option {
	return func(c *Cache) { c.log = l }
}

// WithErrorHandler registers fn to receive every non-fatal persistence error.
func WithErrorHandler(fn func(error)) Option {
	return func(c *Cache) { c.onError = fn }
}

// Cache is the bounded history. It is safe for concurrent use; each
// mutation is a locked read-modify-write followed by a synchronous save.
type Cache struct {
	mu       sync.Mutex
	backend  kv.Backend
	entries  []types.HistoryEntry
	capacity int
	now      func() time.Time
	newID    func() string
	log      *zap.Logger
	onError  func(error)
}

// New returns a Cache over backend. Nothing is read until first use.
// Every operation starts from the stored record, so several processes may
// share one backend; the in-memory copy is used only when a read fails.
func New(backend kv.Backend, opts ...Option) *Cache {
	c := &Cache{
		backend:  backend,
		capacity: DefaultCapacity,
		now:      time.Now,
		newID:    func() string { return "analysis_" + uuid.NewString() },
		log:      zap.L(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With(zap.String("component", "history"))
	return c
}

// Load returns the history, newest first. A missing record is an empty
// history; an undecodable one is reported and also yields an empty history.
func (c *Cache) Load(ctx context.Context) []types.HistoryEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refresh(ctx)
	return c.snapshot()
}

// Get returns the entry with the given ID.
func (c *Cache) Get(ctx context.Context, id string) (types.HistoryEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refresh(ctx)
	for _, e := range c.entries {
		if e.ID == id {
			return e, true
		}
	}
	return types.HistoryEntry{}, false
}

// Push stamps result with the current time and a fresh ID, inserts it at
// the front, drops entries beyond capacity from the tail, saves, and
// returns the new history. The returned history reflects the insert even
// when the save fails.
func (c *Cache) Push(ctx context.Context, result types.AnalysisResult) []types.HistoryEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refresh(ctx)

	entry := types.HistoryEntry{
		AnalysisResult: result,
		Timestamp:      c.now().UTC().Format(types.TimestampLayout),
		ID:             c.uniqueID(),
	}

	next := make([]types.HistoryEntry, 0, min(len(c.entries)+1, c.capacity))
	next = append(next, entry)
	next = append(next, c.entries...)
	if len(next) > c.capacity {
		next = next[:c.capacity]
	}
	c.entries = next

	c.save(ctx)
	return c.snapshot()
}

// Clear empties the history and deletes the stored record. Clearing an
// empty history is a no-op.
func (c *Cache) Clear(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = nil
	if err := c.backend.Delete(ctx, StorageKey); err != nil {
		c.report(&WriteError{Key: StorageKey, Op: "delete", Err: err})
	}
}

// refresh replaces the in-memory history with the stored record. When the
// backend cannot be read the previous in-memory history stays in place.
func (c *Cache) refresh(ctx context.Context) {
	stored, ok, err := c.backend.Get(ctx, StorageKey)
	if err != nil {
		c.report(&WriteError{Key: StorageKey, Op: "read", Err: err})
		return
	}
	if !ok {
		c.entries = nil
		return
	}
	c.entries = c.decode(stored)
}

func (c *Cache) decode(stored string) []types.HistoryEntry {

	var entries []types.HistoryEntry
	if err := json.Unmarshal([]byte(stored), &entries); err != nil {
		c.report(&DecodeError{Key: StorageKey, Err: err})
		return nil
	}
	if len(entries) > c.capacity {
		entries = entries[:c.capacity]
	}
	return entries
}

func (c *Cache) save(ctx context.Context) {
	data, err := json.Marshal(c.entries)
	if err != nil {
		c.report(&WriteError{Key: StorageKey, Op: "encode", Err: err})
		return
	}
	if err := c.backend.Set(ctx, StorageKey, string(data)); err != nil {
		c.report(&WriteError{Key: StorageKey, Op: "save", Err: err})
	}
}

func (c *Cache) uniqueID() string {
	for {
		id := c.newID()
		taken := false
		for _, e := range c.entries {
			if e.ID == id {
				taken = true
				break
			}
		}
		if !taken {
			return id
		}
	}
}

func (c *Cache) snapshot() []types.HistoryEntry {
	out := make([]types.HistoryEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

func (c *Cache) report(err error) {
	c.log.Warn("history persistence failed", zap.Error(err))
	if c.onError != nil {
		c.onError(err)
	}
}
