// Package file implements an index store as a CSV file.
package file

import (
	"context"
	"encoding/csv"
	stderrs "errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bobg/flock"
	"github.com/pkg/errors"

	"github.com/bobg/watcher"
	"github.com/bobg/watcher/store"
)

var _ watcher.Store = &Store{}

// Header is the first row of every index file.
var Header = []string{"path", "mtime", "digest"}

// Store keeps an index in a CSV file.
// The file has a header row (see Header) and one row per record.
// In the path column, backslashes are doubled and carriage returns are written as \r,
// since CSV readers fold a CR-LF pair inside a quoted field into a bare LF.
//
// Saving writes a temporary file in the same directory
// and renames it over the index,
// so readers never see a partially written index.
type Store struct {
	path    string
	flocker flock.Locker

	// Replaceable in tests.
	rename func(oldpath, newpath string) error
}

// New produces a new Store keeping its index in the file at path.
func New(path string) *Store {
	return &Store{path: path, rename: os.Rename}
}

// Path is the path of s's index file.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) lock() error {
	return s.flocker.Lock(s.path)
}

func (s *Store) unlock() error {
	return s.flocker.Unlock(s.path)
}

// Bootstrap implements watcher.Store.Bootstrap.
// It creates the index file's directory,
// and a header-only index file if none exists.
func (s *Store) Bootstrap(_ context.Context) error {
	dir := filepath.Dir(s.path)
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return errors.Wrapf(err, "ensuring dir %s exists", dir)
	}

	err = s.lock()
	if err != nil {
		return errors.Wrapf(err, "locking %s", s.path)
	}
	defer s.unlock()

	_, err = os.Stat(s.path)
	if err == nil {
		return nil
	}
	if !stderrs.Is(err, os.ErrNotExist) {
		return errors.Wrapf(err, "statting %s", s.path)
	}

	return errors.Wrapf(s.write(watcher.NewTable()), "creating empty index %s", s.path)
}

// Load implements watcher.Store.Load.
// If the index file does not exist,
// the result is an empty table.
func (s *Store) Load(_ context.Context) (*watcher.Table, error) {
	err := s.lock()
	if err != nil {
		return nil, errors.Wrapf(err, "locking %s", s.path)
	}
	defer s.unlock()

	f, err := os.Open(s.path)
	if stderrs.Is(err, os.ErrNotExist) {
		return watcher.NewTable(), nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", s.path)
	}
	defer f.Close()

	tbl, err := Read(f)
	return tbl, errors.Wrapf(err, "reading %s", s.path)
}

// Save implements watcher.Store.Save.
// It does not check ctx:
// the final save of a canceled pass must still happen.
func (s *Store) Save(_ context.Context, tbl *watcher.Table) error {
	err := s.lock()
	if err != nil {
		return errors.Wrapf(err, "locking %s", s.path)
	}
	defer s.unlock()

	return s.write(tbl)
}

func (s *Store) write(tbl *watcher.Table) (err error) {
	var (
		dir  = filepath.Dir(s.path)
		base = filepath.Base(s.path)
	)

	f, err := os.CreateTemp(dir, base+"~*")
	if err != nil {
		return errors.Wrapf(err, "creating temp file in %s", dir)
	}
	tmpname := f.Name()

	defer func() {
		if err != nil {
			f.Close()
			os.Remove(tmpname)
		}
	}()

	err = Write(f, tbl)
	if err != nil {
		return errors.Wrapf(err, "writing %s", tmpname)
	}
	err = f.Sync()
	if err != nil {
		return errors.Wrapf(err, "syncing %s", tmpname)
	}
	err = f.Close()
	if err != nil {
		return errors.Wrapf(err, "closing %s", tmpname)
	}
	err = os.Chmod(tmpname, 0644)
	if err != nil {
		return errors.Wrapf(err, "setting mode of %s", tmpname)
	}

	err = s.rename(tmpname, s.path)
	return errors.Wrapf(err, "renaming %s to %s", tmpname, s.path)
}

// Write writes tbl to w in index-file format.
func Write(w io.Writer, tbl *watcher.Table) error {
	cw := csv.NewWriter(w)
	err := cw.Write(Header)
	if err != nil {
		return errors.Wrap(err, "writing header")
	}
	err = tbl.Each(func(rec watcher.Record) error {
		if rec.Digest.IsZero() {
			return errors.Errorf("record for %s has no digest", rec.Path)
		}
		row := []string{
			escapePath(rec.Path),
			strconv.FormatFloat(rec.Mtime, 'f', -1, 64),
			rec.Digest.String(),
		}
		return errors.Wrapf(cw.Write(row), "writing row for %s", rec.Path)
	})
	if err != nil {
		return err
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flushing")
}

// Read parses an index file.
func Read(r io.Reader) (*watcher.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.New("missing header")
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading header")
	}
	for i, name := range Header {
		if header[i] != name {
			return nil, errors.Errorf("bad header field %d: got %q, want %q", i+1, header[i], name)
		}
	}

	tbl := watcher.NewTable()
	for {
		row, err := cr.Read()
		if err == io.EOF {
			return tbl, nil
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading row")
		}
		line, _ := cr.FieldPos(0)

		path, err := unescapePath(row[0])
		if err != nil {
			return nil, errors.Wrapf(err, "parsing path on line %d", line)
		}
		mtime, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing mtime on line %d", line)
		}
		digest, err := watcher.DigestFromHex(row[2])
		if err != nil {
			return nil, errors.Wrapf(err, "parsing digest %q on line %d", row[2], line)
		}
		if digest.IsZero() {
			return nil, errors.Errorf("zero digest on line %d", line)
		}
		rec := watcher.Record{
			Path:   path,
			Mtime:  mtime,
			Digest: digest,
		}
		err = tbl.Add(rec)
		if err != nil {
			return nil, errors.Wrapf(err, "adding %s from line %d", rec.Path, line)
		}
	}
}

var pathEscaper = strings.NewReplacer(`\`, `\\`, "\r", `\r`)

func escapePath(path string) string {
	return pathEscaper.Replace(path)
}

func unescapePath(s string) (string, error) {
	if !strings.Contains(s, `\`) {
		return s, nil
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' {
			b.WriteByte(s[i])
			continue
		}
		i++
		if i == len(s) {
			return "", errors.New("trailing backslash")
		}
		switch s[i] {
		case '\\':
			b.WriteByte('\\')
		case 'r':
			b.WriteByte('\r')
		default:
			return "", errors.Errorf("bad escape \\%c", s[i])
		}
	}
	return b.String(), nil
}

func init() {
	store.Register("file", func(_ context.Context, conf map[string]interface{}) (watcher.Store, error) {
		path, ok := conf["path"].(string)
		if !ok {
			return nil, errors.New(`missing "path" parameter`)
		}
		return New(path), nil
	})
}
