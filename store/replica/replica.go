// Package replica implements an index store that keeps several nested stores in step.
package replica

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/bobg/watcher"
	"github.com/bobg/watcher/store"
)

var _ watcher.Store = &Store{}

// Store delegates to a list of nested stores.
// The first is the primary:
// Load reads from it alone.
// Bootstrap and Save go to all of them concurrently,
// and an error from any causes the call to fail.
//
// After a failed Save the nested stores may disagree,
// but the next successful Save brings them back in step.
type Store struct {
	stores []watcher.Store
}

// New produces a new Store.
// The list of nested stores must be non-empty.
func New(stores ...watcher.Store) (*Store, error) {
	if len(stores) == 0 {
		return nil, errors.New("no nested stores")
	}
	return &Store{stores: stores}, nil
}

// Bootstrap implements watcher.Store.Bootstrap.
func (s *Store) Bootstrap(ctx context.Context) error {
	return s.each(ctx, func(ctx context.Context, nested watcher.Store) error {
		return nested.Bootstrap(ctx)
	})
}

// Load implements watcher.Store.Load.
func (s *Store) Load(ctx context.Context) (*watcher.Table, error) {
	return s.stores[0].Load(ctx)
}

// Save implements watcher.Store.Save.
func (s *Store) Save(ctx context.Context, tbl *watcher.Table) error {
	return s.each(ctx, func(ctx context.Context, nested watcher.Store) error {
		// Nested stores may not share the table.
		return nested.Save(ctx, tbl.Clone())
	})
}

func (s *Store) each(ctx context.Context, f func(context.Context, watcher.Store) error) error {
	g, ctx := errgroup.WithContext(ctx)
	for i, nested := range s.stores {
		i, nested := i, nested
		g.Go(func() error {
			return errors.Wrapf(f(ctx, nested), "in nested store %d", i)
		})
	}
	return g.Wait()
}

// Close closes any nested stores that have a Close method.
// It returns the first error encountered.
func (s *Store) Close() error {
	var err error
	for _, nested := range s.stores {
		if c, ok := nested.(interface{ Close() error }); ok {
			if closeErr := c.Close(); closeErr != nil && err == nil {
				err = closeErr
			}
		}
	}
	return err
}

func init() {
	store.Register("replica", func(ctx context.Context, conf map[string]interface{}) (watcher.Store, error) {
		items, ok := conf["stores"].([]interface{})
		if !ok {
			return nil, errors.New(`missing "stores" parameter`)
		}
		var stores []watcher.Store
		for i, item := range items {
			nested, ok := item.(map[string]interface{})
			if !ok {
				return nil, errors.Errorf(`"stores" item %d is not an object`, i)
			}
			nestedStore, err := store.FromConfig(ctx, nested)
			if err != nil {
				return nil, errors.Wrapf(err, "creating nested store %d", i)
			}
			stores = append(stores, nestedStore)
		}
		return New(stores...)
	})
}
