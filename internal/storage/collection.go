// Package storage persists a named collection of records as a single JSON
// array file. Every mutation is a full read-modify-write of the file under a
// per-collection mutex; the store is not safe for multiple processes sharing
// one file.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrNotFound is returned when no record with the requested id exists.
var ErrNotFound = errors.New("record not found")

// Record is any value the store can hold.
type Record interface {
	RecordID() int
}

// Collection is a JSON-file-backed set of records of one kind. IDs are
// assigned as max(existing)+1, so deleting the highest-id record and creating
// a new one reuses that id.
type Collection[T Record] struct {
	path  string
	mu    sync.Mutex
	items []T
}

// Open loads the collection from path, starting empty if the file does not
// exist. A file holding anything other than a JSON array is an error.
func Open[T Record](path string) (*Collection[T], error) {
	c := &Collection[T]{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, fmt.Errorf("failed to read collection %s: %w", path, err)
	}

	if err := json.Unmarshal(data, &c.items); err != nil {
		return nil, fmt.Errorf("failed to parse collection %s: %w", path, err)
	}
	return c, nil
}

// Path returns the backing file path.
func (c *Collection[T]) Path() string {
	return c.path
}

// Len returns the number of records.
func (c *Collection[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// All returns the records in insertion order.
func (c *Collection[T]) All() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Get returns the record with the given id, or ErrNotFound.
func (c *Collection[T]) Get(id int) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range c.items {
		if item.RecordID() == id {
			return item, nil
		}
	}
	var zero T
	return zero, ErrNotFound
}

// Find returns the first record matching the predicate.
func (c *Collection[T]) Find(match func(T) bool) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range c.items {
		if match(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Insert assigns the next id, calls build to produce the record carrying it,
// appends the record and writes the file. On write failure the in-memory
// state is rolled back and the error returned.
func (c *Collection[T]) Insert(build func(id int) T) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item := build(c.nextID())
	c.items = append(c.items, item)

	if err := c.save(); err != nil {
		c.items = c.items[:len(c.items)-1]
		var zero T
		return zero, err
	}
	return item, nil
}

// Update replaces the record with the given id by apply(old) and writes the
// file. Returns ErrNotFound if no such record exists.
func (c *Collection[T]) Update(id int, apply func(T) T) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	for i, item := range c.items {
		if item.RecordID() != id {
			continue
		}
		updated := apply(item)
		c.items[i] = updated
		if err := c.save(); err != nil {
			c.items[i] = item
			return zero, err
		}
		return updated, nil
	}
	return zero, ErrNotFound
}

// Delete removes the record with the given id and writes the file. The
// removed record is returned so callers can echo it back.
func (c *Collection[T]) Delete(id int) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	for i, item := range c.items {
		if item.RecordID() != id {
			continue
		}
		c.items = append(c.items[:i:i], c.items[i+1:]...)
		if err := c.save(); err != nil {
			restored := make([]T, 0, len(c.items)+1)
			restored = append(restored, c.items[:i]...)
			restored = append(restored, item)
			restored = append(restored, c.items[i:]...)
			c.items = restored
			return zero, err
		}
		return item, nil
	}
	return zero, ErrNotFound
}

// ReplaceAll swaps the entire collection contents and writes the file. Used
// by data reset and import.
func (c *Collection[T]) ReplaceAll(items []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.items
	c.items = make([]T, len(items))
	copy(c.items, items)

	if err := c.save(); err != nil {
		c.items = old
		return err
	}
	return nil
}

func (c *Collection[T]) nextID() int {
	next := 1
	for _, item := range c.items {
		if item.RecordID() >= next {
			next = item.RecordID() + 1
		}
	}
	return next
}

// save marshals the records and rewrites the whole file. Callers hold c.mu.
func (c *Collection[T]) save() error {
	items := c.items
	if items == nil {
		items = []T{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal collection %s: %w", c.path, err)
	}
	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write collection %s: %w", c.path, err)
	}
	return nil
}
