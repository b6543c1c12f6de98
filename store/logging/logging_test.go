package logging

import (
	"bytes"
	"context"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/bobg/watcher"
	"github.com/bobg/watcher/store"
	_ "github.com/bobg/watcher/store/mem"
	"github.com/bobg/watcher/testutil"
)

func TestLogging(t *testing.T) {
	buf := new(bytes.Buffer)
	log.SetOutput(buf)
	defer log.SetOutput(os.Stderr)

	ctx := context.Background()
	s, err := store.Create(ctx, "logging", map[string]interface{}{
		"nested": map[string]interface{}{"type": "mem"},
	})
	if err != nil {
		t.Fatal(err)
	}

	testutil.Empty(ctx, t, s)

	for _, want := range []string{"Bootstrap", "Load: 0 records", "Save: 1 records", "Load: 1 records"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("log output missing %q:\n%s", want, buf)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	log.SetOutput(new(bytes.Buffer))
	defer log.SetOutput(os.Stderr)

	ctx := context.Background()
	testutil.RoundTrip(ctx, t, func() watcher.Store {
		s, err := store.FromConfig(ctx, map[string]interface{}{
			"type":   "logging",
			"nested": map[string]interface{}{"type": "mem"},
		})
		if err != nil {
			t.Fatal(err)
		}
		return s
	}, true)
}
