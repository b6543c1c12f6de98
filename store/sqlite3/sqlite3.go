// Package sqlite3 implements an index store in a Sqlite database.
package sqlite3

import (
	"context"
	"database/sql"

	_ "github.com/mattn/go-sqlite3" // register the sqlite3 type for sql.Open
	"github.com/pkg/errors"

	"github.com/bobg/watcher"
	"github.com/bobg/watcher/store"
	"github.com/bobg/watcher/store/sqlstore"
)

var _ watcher.Store = &Store{}

// Store is a Sqlite-based index store.
type Store struct {
	db *sql.DB
}

// Schema is the SQL that Bootstrap executes.
// It creates the `records` table if it does not exist.
// (If it does exist, it must have the columns and constraints described here.)
const Schema = `
CREATE TABLE IF NOT EXISTS records (
  seq INTEGER NOT NULL,
  path TEXT PRIMARY KEY NOT NULL,
  mtime REAL NOT NULL,
  digest TEXT NOT NULL
);
`

// New produces a new Store using `db` for storage.
// Call Bootstrap before using it.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Bootstrap implements watcher.Store.Bootstrap.
func (s *Store) Bootstrap(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, Schema)
	return errors.Wrap(err, "creating schema")
}

// Load implements watcher.Store.Load.
func (s *Store) Load(ctx context.Context) (*watcher.Table, error) {
	return sqlstore.Load(ctx, s.db, `SELECT path, mtime, digest FROM records ORDER BY seq`)
}

// Save implements watcher.Store.Save.
// All rows are replaced in a single transaction.
func (s *Store) Save(ctx context.Context, tbl *watcher.Table) error {
	return sqlstore.Save(ctx, s.db, tbl, `DELETE FROM records`, `INSERT INTO records (seq, path, mtime, digest) VALUES ($1, $2, $3, $4)`)
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func init() {
	store.Register("sqlite3", func(ctx context.Context, conf map[string]interface{}) (watcher.Store, error) {
		conn, ok := conf["conn"].(string)
		if !ok {
			return nil, errors.New(`missing "conn" parameter`)
		}
		db, err := sql.Open("sqlite3", conn)
		if err != nil {
			return nil, errors.Wrap(err, "opening db")
		}
		return New(db), nil
	})
}
