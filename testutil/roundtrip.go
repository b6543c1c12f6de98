// Package testutil contains conformance tests for watcher.Store implementations.
package testutil

import (
	"context"
	"fmt"
	"math/rand"
	"reflect"
	"testing"
	"testing/quick"

	"github.com/google/go-cmp/cmp"

	"github.com/bobg/watcher"
)

// Entries is a randomly generated set of records with unique paths and nonzero digests,
// for use with testing/quick.
type Entries []watcher.Record

// Generate implements quick.Generator.
func (Entries) Generate(r *rand.Rand, size int) reflect.Value {
	var (
		n      = r.Intn(size + 1)
		result = make(Entries, 0, n)
		seen   = make(map[string]bool)
	)
	for i := 0; i < n; i++ {
		path := randPath(r)
		if seen[path] {
			continue
		}
		seen[path] = true

		var content [8]byte
		r.Read(content[:])
		result = append(result, watcher.Record{
			Path:   path,
			Mtime:  float64(r.Int63n(1<<31)) + float64(r.Intn(1000000))/1e6,
			Digest: watcher.Sum(content[:]),
		})
	}
	return reflect.ValueOf(result)
}

// Paths include the characters that need quoting in CSV.
const pathChars = "abcxyz019 ,\"'\n\r\t\\.-_/é"

func randPath(r *rand.Rand) string {
	n := 1 + r.Intn(24)
	runes := []rune(pathChars)
	buf := []rune{'/'}
	for i := 0; i < n; i++ {
		buf = append(buf, runes[r.Intn(len(runes))])
	}
	return string(buf)
}

// Table builds a Table from the given records.
func (e Entries) Table(t *testing.T) *watcher.Table {
	tbl := watcher.NewTable()
	for _, rec := range e {
		if err := tbl.Add(rec); err != nil {
			t.Fatal(err)
		}
	}
	return tbl
}

// RoundTrip saves random tables to a store and loads them back,
// checking that the same records come out.
// The storeFactory is called once per check and must return a fresh, bootstrapped store.
// Order is not compared unless ordered is true.
func RoundTrip(ctx context.Context, t *testing.T, storeFactory func() watcher.Store, ordered bool) {
	f := func(entries Entries) bool {
		s := storeFactory()

		tbl := entries.Table(t)
		err := s.Save(ctx, tbl)
		if err != nil {
			t.Fatal(err)
		}
		// Save must not disturb its argument.
		if diff := cmp.Diff([]watcher.Record(entries), tbl.Records()); diff != "" {
			t.Logf("Save changed its table (-want +got):\n%s", diff)
			return false
		}

		got, err := s.Load(ctx)
		if err != nil {
			t.Fatal(err)
		}

		// Save again what was loaded, and reload;
		// nothing should change.
		err = s.Save(ctx, got)
		if err != nil {
			t.Fatal(err)
		}
		got2, err := s.Load(ctx)
		if err != nil {
			t.Fatal(err)
		}

		for _, g := range []*watcher.Table{got, got2} {
			if !sameRecords(t, tbl, g, ordered) {
				return false
			}
		}
		return true
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func sameRecords(t *testing.T, want, got *watcher.Table, ordered bool) bool {
	if ordered {
		if diff := cmp.Diff(want.Records(), got.Records()); diff != "" {
			t.Logf("mismatch (-want +got):\n%s", diff)
			return false
		}
		return true
	}
	if want.Len() != got.Len() {
		t.Logf("got %d records, want %d", got.Len(), want.Len())
		return false
	}
	err := want.Each(func(w watcher.Record) error {
		g, ok := got.Get(w.Path)
		if !ok {
			return fmt.Errorf("missing record for %q", w.Path)
		}
		if diff := cmp.Diff(w, g); diff != "" {
			return fmt.Errorf("mismatch for %q (-want +got):\n%s", w.Path, diff)
		}
		return nil
	})
	if err != nil {
		t.Log(err)
		return false
	}
	return true
}

// Empty checks that a freshly bootstrapped store loads as an empty table,
// that bootstrapping again does not disturb a saved index,
// and that each Load returns an independent table.
func Empty(ctx context.Context, t *testing.T, s watcher.Store) {
	err := s.Bootstrap(ctx)
	if err != nil {
		t.Fatal(err)
	}
	tbl, err := s.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Len() != 0 {
		t.Fatalf("got %d records in bootstrapped store, want 0", tbl.Len())
	}

	rec := watcher.Record{Path: "/a", Mtime: 1.5, Digest: watcher.Sum([]byte("a"))}
	if err = tbl.Add(rec); err != nil {
		t.Fatal(err)
	}
	if err = s.Save(ctx, tbl); err != nil {
		t.Fatal(err)
	}
	if err = s.Bootstrap(ctx); err != nil {
		t.Fatal(err)
	}

	tbl1, err := s.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	tbl1.Remove("/a")

	tbl2, err := s.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]watcher.Record{rec}, tbl2.Records()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}
