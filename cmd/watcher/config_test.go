package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/bobg/watcher/store/file"
	"github.com/bobg/watcher/store/logging"
)

func TestParseConfig(t *testing.T) {
	cases := []struct {
		name    string
		json    string
		want    config
		wantErr bool
	}{{
		name: "empty",
		json: `{}`,
		want: defaultConfig(),
	}, {
		name: "full",
		json: `{"root": "/data", "interval": "1m", "watch": true, "cache": 100, "exclude": ["/data/tmp"], "store": {"type": "sqlite3", "conn": "index.db"}}`,
		want: config{
			root:     "/data",
			interval: time.Minute,
			watch:    true,
			cache:    100,
			exclude:  []string{"/data/tmp"},
			store:    map[string]interface{}{"type": "sqlite3", "conn": "index.db"},
		},
	}, {
		name: "seconds",
		json: `{"interval": 2.5}`,
		want: config{
			root:     ".",
			interval: 2500 * time.Millisecond,
			store:    defaultConfig().store,
		},
	}, {
		name:    "bad interval",
		json:    `{"interval": "soon"}`,
		wantErr: true,
	}, {
		name:    "negative interval",
		json:    `{"interval": "-5s"}`,
		wantErr: true,
	}, {
		name:    "bad exclude",
		json:    `{"exclude": [1, 2]}`,
		wantErr: true,
	}, {
		name:    "untyped store",
		json:    `{"store": {"path": "x"}}`,
		wantErr: true,
	}}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var m map[string]interface{}
			if err := json.Unmarshal([]byte(c.json), &m); err != nil {
				t.Fatal(err)
			}
			got, err := parseConfig(m)
			if c.wantErr {
				if err == nil {
					t.Errorf("got %+v, want error", got)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(c.want, got, cmp.AllowUnexported(config{})); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	tmpdir, err := os.MkdirTemp("", "watchertest")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpdir)

	// A missing config file is an error unless it's the default one.
	if _, err = loadConfig(filepath.Join(tmpdir, "missing.json")); err == nil {
		t.Error("got no error for missing config file")
	}

	path := filepath.Join(tmpdir, "watcher.json")
	if err = os.WriteFile(path, []byte(`{"root": "/data", "interval": "10s"}`), 0644); err != nil {
		t.Fatal(err)
	}
	conf, err := loadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if conf.root != "/data" || conf.interval != 10*time.Second {
		t.Errorf("got root %s and interval %s, want /data and 10s", conf.root, conf.interval)
	}
}

func TestNewTree(t *testing.T) {
	tmpdir, err := os.MkdirTemp("", "watchertest")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpdir)

	indexDir := filepath.Join(tmpdir, ".watcher")
	c := maincmd{
		conf: config{root: tmpdir, exclude: []string{"/elsewhere"}, cache: 10},
		s:    logging.New(file.New(filepath.Join(indexDir, "index"))),
	}

	tree, err := c.newTree(nil)
	if err != nil {
		t.Fatal(err)
	}
	if tree.Root != tmpdir {
		t.Errorf("got root %s, want %s", tree.Root, tmpdir)
	}
	if diff := cmp.Diff([]string{"/elsewhere", indexDir}, tree.Exclude); diff != "" {
		t.Errorf("exclude mismatch (-want +got):\n%s", diff)
	}
	if tree.Hasher == nil {
		t.Error("no digest cache")
	}
	if len(c.conf.exclude) != 1 {
		t.Errorf("newTree modified the configured exclude list: %v", c.conf.exclude)
	}

	// A root outside the index's dir does not exclude it.
	other := filepath.Join(tmpdir, "other")
	if tree, err = c.newTree([]string{other}); err != nil {
		t.Fatal(err)
	}
	if tree.Root != other {
		t.Errorf("got root %s, want %s", tree.Root, other)
	}
	if diff := cmp.Diff([]string{"/elsewhere"}, tree.Exclude); diff != "" {
		t.Errorf("exclude mismatch (-want +got):\n%s", diff)
	}
}
