// ABOUTME: Test utilities for creating isolated stores
// ABOUTME: Uses in-memory BadgerDB so tests never touch the user's data directory

package storage

import (
	"sync"
	"testing"
)

// NewTestStore returns an in-memory BadgerStore closed automatically at test end.
func NewTestStore(t *testing.T) *BadgerStore {
	t.Helper()

	s, err := OpenInMemory()
	if err != nil {
		t.Fatalf("Failed to open in-memory store: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Logf("Warning: failed to close test store: %v", err)
		}
	})
	return s
}

// FaultyStore wraps a Store and fails writes to selected keys. It counts
// successful Set calls per key.
type FaultyStore struct {
	Store
	FailSet map[string]error

	mu   sync.Mutex
	sets map[string]int
}

func (f *FaultyStore) Set(key string, value []byte) error {
	if err, ok := f.FailSet[key]; ok {
		return err
	}
	if err := f.Store.Set(key, value); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sets == nil {
		f.sets = make(map[string]int)
	}
	f.sets[key]++
	return nil
}

// Sets reports how many successful writes key has received.
func (f *FaultyStore) Sets(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sets[key]
}
