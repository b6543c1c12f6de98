package watcher

import (
	"errors"
	"fmt"
	"testing"
	"testing/quick"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestTable(t *testing.T) {
	var (
		tbl = NewTable()
		a   = Record{Path: "/a", Mtime: 1, Digest: Sum([]byte("a"))}
		b   = Record{Path: "/b", Mtime: 2, Digest: Sum([]byte("b"))}
		c   = Record{Path: "/c", Mtime: 3, Digest: Sum([]byte("c"))}
	)

	for _, rec := range []Record{a, b, c} {
		if err := tbl.Add(rec); err != nil {
			t.Fatal(err)
		}
	}
	if err := tbl.Add(b); !errors.Is(err, ErrDuplicate) {
		t.Errorf("got %v, want ErrDuplicate", err)
	}

	b2 := Record{Path: "/b", Mtime: 4, Digest: Sum([]byte("b2"))}
	old, err := tbl.Replace(b2)
	if err != nil {
		t.Fatal(err)
	}
	if old != b {
		t.Errorf("replaced %v, want %v", old, b)
	}
	if _, err = tbl.Replace(Record{Path: "/d"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}

	if diff := cmp.Diff([]Record{a, b2, c}, tbl.Records()); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	removed, ok := tbl.Remove("/a")
	if !ok || removed != a {
		t.Errorf("removed %v (%v), want %v", removed, ok, a)
	}
	if _, ok = tbl.Remove("/a"); ok {
		t.Error("removed /a twice")
	}
	if _, ok = tbl.Get("/a"); ok {
		t.Error("/a still present")
	}
	if got, _ := tbl.Get("/c"); got != c {
		t.Errorf("got %v, want %v", got, c)
	}
	if tbl.Len() != 2 {
		t.Errorf("got length %d, want 2", tbl.Len())
	}

	clone := tbl.Clone()
	clone.Remove("/c")
	if _, ok = tbl.Get("/c"); !ok {
		t.Error("removing from clone affected original")
	}

	stop := errors.New("stop")
	var n int
	err = tbl.Each(func(Record) error {
		n++
		return stop
	})
	if !errors.Is(err, stop) || n != 1 {
		t.Errorf("Each returned %v after %d calls", err, n)
	}
}

type tableOp struct {
	Kind uint8
	Key  uint8
}

// TestTableConsistency applies random operations to a Table and to a plain map,
// checking that the two always agree
// and that the table's order and index never diverge.
func TestTableConsistency(t *testing.T) {
	f := func(ops []tableOp) bool {
		var (
			tbl   = NewTable()
			model = make(map[string]Record)
		)
		for i, op := range ops {
			path := fmt.Sprintf("/%d", op.Key%16)
			rec := Record{Path: path, Mtime: float64(i), Digest: Sum([]byte(path))}
			switch op.Kind % 3 {
			case 0:
				err := tbl.Add(rec)
				_, exists := model[path]
				if exists != errors.Is(err, ErrDuplicate) {
					t.Logf("Add(%s): got %v, exists=%v", path, err, exists)
					return false
				}
				if !exists {
					model[path] = rec
				}
			case 1:
				_, err := tbl.Replace(rec)
				_, exists := model[path]
				if exists == errors.Is(err, ErrNotFound) {
					t.Logf("Replace(%s): got %v, exists=%v", path, err, exists)
					return false
				}
				if exists {
					model[path] = rec
				}
			case 2:
				_, ok := tbl.Remove(path)
				if _, exists := model[path]; ok != exists {
					t.Logf("Remove(%s): got %v, exists=%v", path, ok, exists)
					return false
				}
				delete(model, path)
			}
		}

		recs := tbl.Records()
		if len(recs) != len(model) || tbl.Len() != len(model) {
			t.Logf("got %d records (Len %d), want %d", len(recs), tbl.Len(), len(model))
			return false
		}
		for _, rec := range recs {
			if model[rec.Path] != rec {
				t.Logf("got %v, want %v", rec, model[rec.Path])
				return false
			}
			if got, _ := tbl.Get(rec.Path); got != rec {
				t.Logf("Get(%s) = %v, want %v", rec.Path, got, rec)
				return false
			}
		}
		return true
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestMtime(t *testing.T) {
	tm := time.Date(2016, 10, 15, 12, 30, 45, 123456000, time.UTC)
	m := Mtime(tm)
	if got := MtimeTime(m); got.Sub(tm).Abs() > time.Microsecond {
		t.Errorf("got %s, want %s", got, tm)
	}
	if Mtime(tm.Add(time.Millisecond)) <= m {
		t.Error("later time does not produce a larger mtime")
	}
}
