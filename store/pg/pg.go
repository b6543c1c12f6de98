// Package pg implements an index store in a Postgresql database.
package pg

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq" // register the postgres type for sql.Open
	"github.com/pkg/errors"

	"github.com/bobg/watcher"
	"github.com/bobg/watcher/store"
	"github.com/bobg/watcher/store/sqlstore"
)

var _ watcher.Store = &Store{}

// Store is a Postgresql-based index store.
// Several indexes can share one database by using different table names.
type Store struct {
	db    *sql.DB
	table string
}

// DefaultTable is the table name New uses when given "".
const DefaultTable = "watcher_records"

// New produces a new Store using the given table in `db` for storage.
// Call Bootstrap before using it.
//
// The table name is interpolated into SQL as-is;
// it must be a valid, trusted identifier.
func New(db *sql.DB, table string) *Store {
	if table == "" {
		table = DefaultTable
	}
	return &Store{db: db, table: table}
}

// Bootstrap implements watcher.Store.Bootstrap.
// It creates the store's table if it does not exist.
func (s *Store) Bootstrap(ctx context.Context) error {
	q := `CREATE TABLE IF NOT EXISTS ` + s.table + ` (
  seq INTEGER NOT NULL,
  path TEXT PRIMARY KEY NOT NULL,
  mtime DOUBLE PRECISION NOT NULL,
  digest TEXT NOT NULL
)`
	_, err := s.db.ExecContext(ctx, q)
	return errors.Wrapf(err, "creating table %s", s.table)
}

// Load implements watcher.Store.Load.
func (s *Store) Load(ctx context.Context) (*watcher.Table, error) {
	return sqlstore.Load(ctx, s.db, `SELECT path, mtime, digest FROM `+s.table+` ORDER BY seq`)
}

// Save implements watcher.Store.Save.
// All rows are replaced in a single transaction.
func (s *Store) Save(ctx context.Context, tbl *watcher.Table) error {
	var (
		delq = `DELETE FROM ` + s.table
		insq = `INSERT INTO ` + s.table + ` (seq, path, mtime, digest) VALUES ($1, $2, $3, $4)`
	)
	return sqlstore.Save(ctx, s.db, tbl, delq, insq)
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func init() {
	store.Register("pg", func(ctx context.Context, conf map[string]interface{}) (watcher.Store, error) {
		conn, ok := conf["conn"].(string)
		if !ok {
			return nil, errors.New(`missing "conn" parameter`)
		}
		table, _ := conf["table"].(string)
		db, err := sql.Open("postgres", conn)
		if err != nil {
			return nil, errors.Wrap(err, "opening db")
		}
		return New(db, table), nil
	})
}
