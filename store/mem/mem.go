// Package mem implements an in-memory index store.
package mem

import (
	"context"
	"sync"

	"github.com/bobg/watcher"
	"github.com/bobg/watcher/store"
)

var _ watcher.Store = &Store{}

// Store is a memory-based implementation of an index store.
// It holds a private copy of the last table saved.
type Store struct {
	mu    sync.Mutex
	tbl   *watcher.Table
	saves int
}

// New produces a new Store.
func New() *Store {
	return &Store{tbl: watcher.NewTable()}
}

// Bootstrap implements watcher.Store.Bootstrap.
func (s *Store) Bootstrap(context.Context) error {
	return nil
}

// Load implements watcher.Store.Load.
func (s *Store) Load(context.Context) (*watcher.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tbl.Clone(), nil
}

// Save implements watcher.Store.Save.
func (s *Store) Save(_ context.Context, tbl *watcher.Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tbl = tbl.Clone()
	s.saves++
	return nil
}

// Saves is the number of successful calls to Save.
func (s *Store) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func init() {
	store.Register("mem", func(context.Context, map[string]interface{}) (watcher.Store, error) {
		return New(), nil
	})
}
