package sqlite3

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/bobg/watcher"
	"github.com/bobg/watcher/testutil"
)

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	err := withTestStore(ctx, func(s *Store) error {
		testutil.RoundTrip(ctx, t, func() watcher.Store { return s }, true)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestEmpty(t *testing.T) {
	ctx := context.Background()
	err := withTestStore(ctx, func(s *Store) error {
		testutil.Empty(ctx, t, s)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func TestZeroDigest(t *testing.T) {
	ctx := context.Background()
	err := withTestStore(ctx, func(s *Store) error {
		_, err := s.db.ExecContext(ctx, `INSERT INTO records (seq, path, mtime, digest) VALUES (1, '/a', 1, '0000000000000000000000000000000000000000')`)
		if err != nil {
			return err
		}
		if _, err = s.Load(ctx); err == nil {
			t.Error("expected an error loading a zero digest")
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
}

func withTestStore(ctx context.Context, fn func(*Store) error) error {
	tmpdir, err := os.MkdirTemp("", "watchersqlite3test")
	if err != nil {
		return err
	}
	defer os.RemoveAll(tmpdir)

	db, err := sql.Open("sqlite3", filepath.Join(tmpdir, "index.db"))
	if err != nil {
		return err
	}
	defer db.Close()

	s := New(db)
	if err = s.Bootstrap(ctx); err != nil {
		return err
	}

	return fn(s)
}
