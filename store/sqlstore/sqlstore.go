// Package sqlstore holds the parts of the SQL-based index stores that do not depend on the database.
package sqlstore

import (
	"context"
	"database/sql"

	"github.com/bobg/sqlutil"
	"github.com/pkg/errors"

	"github.com/bobg/watcher"
)

// Load runs the query q,
// which must produce (path, mtime, digest) rows,
// and collects the results in a new Table.
func Load(ctx context.Context, db *sql.DB, q string) (*watcher.Table, error) {
	tbl := watcher.NewTable()
	err := sqlutil.ForQueryRows(ctx, db, q, func(path string, mtime float64, digestHex string) error {
		digest, err := watcher.DigestFromHex(digestHex)
		if err != nil {
			return errors.Wrapf(err, "parsing digest %q for %s", digestHex, path)
		}
		if digest.IsZero() {
			return errors.Errorf("zero digest for %s", path)
		}
		return errors.Wrapf(tbl.Add(watcher.Record{Path: path, Mtime: mtime, Digest: digest}), "adding %s", path)
	})
	if err != nil {
		return nil, errors.Wrap(err, "querying records")
	}
	return tbl, nil
}

// Save replaces the stored records with those of tbl in a single transaction.
// It runs delq to clear the old records
// and insq, with parameters (seq, path, mtime, digest), once per record.
func Save(ctx context.Context, db *sql.DB, tbl *watcher.Table, delq, insq string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, delq)
	if err != nil {
		return errors.Wrap(err, "deleting old records")
	}

	stmt, err := tx.PrepareContext(ctx, insq)
	if err != nil {
		return errors.Wrap(err, "preparing insert")
	}
	defer stmt.Close()

	var seq int
	err = tbl.Each(func(rec watcher.Record) error {
		if rec.Digest.IsZero() {
			return errors.Errorf("record for %s has no digest", rec.Path)
		}
		seq++
		_, err := stmt.ExecContext(ctx, seq, rec.Path, rec.Mtime, rec.Digest.String())
		return errors.Wrapf(err, "inserting %s", rec.Path)
	})
	if err != nil {
		return err
	}

	return errors.Wrap(tx.Commit(), "committing")
}
