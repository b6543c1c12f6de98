package watcher

import (
	"container/list"
	"errors"
	"math"
	"time"
)

// Record is the index entry for one file.
type Record struct {
	// Path is the file's absolute path.
	// It is the record's unique key in a Table.
	Path string

	// Mtime is the file's modification time as of the last time it was indexed,
	// in seconds since the Unix epoch.
	Mtime float64

	// Digest is the digest of the file's content as of Mtime.
	Digest Digest
}

// Mtime converts a modification time to the representation used in a Record.
func Mtime(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}

// MtimeTime is the inverse of Mtime (to within a microsecond or so).
func MtimeTime(m float64) time.Time {
	sec, frac := math.Modf(m)
	return time.Unix(int64(sec), int64(frac*1e9))
}

var (
	// ErrDuplicate is the error adding a record whose path is already in a Table.
	ErrDuplicate = errors.New("duplicate path")

	// ErrNotFound is the error replacing a record whose path is not in a Table.
	ErrNotFound = errors.New("not found")
)

// Table is an ordered set of Records with unique paths.
// Iteration follows insertion order.
// Lookup, insertion, replacement, and removal are all constant-time.
//
// The zero Table is not usable; call NewTable.
type Table struct {
	l *list.List               // of Record
	m map[string]*list.Element // path -> element of l
}

// NewTable produces a new, empty Table.
func NewTable() *Table {
	return &Table{
		l: list.New(),
		m: make(map[string]*list.Element),
	}
}

// Len is the number of records in t.
func (t *Table) Len() int {
	return len(t.m)
}

// Get gets the record with the given path.
func (t *Table) Get(path string) (Record, bool) {
	if e, ok := t.m[path]; ok {
		return e.Value.(Record), true
	}
	return Record{}, false
}

// Add appends rec to t.
// It is an error (ErrDuplicate) if t already has a record with rec.Path.
func (t *Table) Add(rec Record) error {
	if _, ok := t.m[rec.Path]; ok {
		return ErrDuplicate
	}
	t.m[rec.Path] = t.l.PushBack(rec)
	return nil
}

// Replace replaces the record having rec.Path with rec,
// keeping its position in t.
// It returns the old record.
// It is an error (ErrNotFound) if there is no record with rec.Path.
func (t *Table) Replace(rec Record) (Record, error) {
	e, ok := t.m[rec.Path]
	if !ok {
		return Record{}, ErrNotFound
	}
	old := e.Value.(Record)
	e.Value = rec
	return old, nil
}

// Remove removes the record with the given path,
// returning it and true if it was present.
func (t *Table) Remove(path string) (Record, bool) {
	e, ok := t.m[path]
	if !ok {
		return Record{}, false
	}
	delete(t.m, path)
	return t.l.Remove(e).(Record), true
}

// Each calls f on each record in t in order.
// If f returns an error,
// Each exits with that error.
// F must not modify t.
func (t *Table) Each(f func(Record) error) error {
	for e := t.l.Front(); e != nil; e = e.Next() {
		if err := f(e.Value.(Record)); err != nil {
			return err
		}
	}
	return nil
}

// Records returns a copy of the records in t, in order.
func (t *Table) Records() []Record {
	result := make([]Record, 0, t.Len())
	for e := t.l.Front(); e != nil; e = e.Next() {
		result = append(result, e.Value.(Record))
	}
	return result
}

// Clone produces an independent copy of t.
func (t *Table) Clone() *Table {
	result := NewTable()
	for e := t.l.Front(); e != nil; e = e.Next() {
		rec := e.Value.(Record)
		result.m[rec.Path] = result.l.PushBack(rec)
	}
	return result
}
