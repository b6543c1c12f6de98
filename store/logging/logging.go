// Package logging implements a store that delegates everything to a nested store,
// logging operations as they happen.
package logging

import (
	"context"
	"log"
	"time"

	"github.com/pkg/errors"

	"github.com/bobg/watcher"
	"github.com/bobg/watcher/store"
)

var _ watcher.Store = &Store{}

// Store wraps another store, logging each call.
type Store struct {
	s watcher.Store
}

// New produces a new Store wrapping s.
func New(s watcher.Store) *Store {
	return &Store{s: s}
}

// Bootstrap implements watcher.Store.Bootstrap.
func (s *Store) Bootstrap(ctx context.Context) error {
	err := s.s.Bootstrap(ctx)
	if err != nil {
		log.Printf("ERROR in Bootstrap: %s", err)
	} else {
		log.Print("Bootstrap")
	}
	return err
}

// Load implements watcher.Store.Load.
func (s *Store) Load(ctx context.Context) (*watcher.Table, error) {
	start := time.Now()
	tbl, err := s.s.Load(ctx)
	if err != nil {
		log.Printf("ERROR in Load: %s", err)
	} else {
		log.Printf("Load: %d records in %s", tbl.Len(), time.Since(start))
	}
	return tbl, err
}

// Save implements watcher.Store.Save.
func (s *Store) Save(ctx context.Context, tbl *watcher.Table) error {
	start := time.Now()
	err := s.s.Save(ctx, tbl)
	if err != nil {
		log.Printf("ERROR in Save: %s", err)
	} else {
		log.Printf("Save: %d records in %s", tbl.Len(), time.Since(start))
	}
	return err
}

// Nested is the store that s wraps.
func (s *Store) Nested() watcher.Store {
	return s.s
}

// Close closes the nested store if it has a Close method.
func (s *Store) Close() error {
	if c, ok := s.s.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

func init() {
	store.Register("logging", func(ctx context.Context, conf map[string]interface{}) (watcher.Store, error) {
		nested, ok := conf["nested"].(map[string]interface{})
		if !ok {
			return nil, errors.New(`missing "nested" parameter`)
		}
		nestedStore, err := store.FromConfig(ctx, nested)
		if err != nil {
			return nil, errors.Wrap(err, "creating nested store")
		}
		return New(nestedStore), nil
	})
}
