// Command watcher maintains an index of the files in a directory tree.
//
// Usage:
//
//	watcher [-config FILE] [-root DIR] [-interval DUR] [-watch] [-cache N] [-logfile FILE] [-v] SUBCOMMAND [ARGS]
//
// Subcommands are run, pass, ls, digest, and init.
package main

import (
	"context"
	"flag"
	"io"
	"log"
	"path/filepath"

	"github.com/bobg/subcmd"
	"github.com/pkg/errors"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/bobg/watcher"
	"github.com/bobg/watcher/crawl"
	"github.com/bobg/watcher/dsync"
	"github.com/bobg/watcher/lru"
	"github.com/bobg/watcher/store"
	"github.com/bobg/watcher/store/file"
	_ "github.com/bobg/watcher/store/logging"
	_ "github.com/bobg/watcher/store/mem"
	_ "github.com/bobg/watcher/store/pg"
	_ "github.com/bobg/watcher/store/replica"
	_ "github.com/bobg/watcher/store/sqlite3"
)

type maincmd struct {
	conf    config
	s       watcher.Store
	verbose bool
}

func main() {
	var (
		configFile = flag.String("config", defaultConfigFile, "path to config file")
		root       = flag.String("root", "", "root dir (overrides config)")
		interval   = flag.Duration("interval", 0, "time between passes (overrides config)")
		watch      = flag.Bool("watch", false, "also wake up on filesystem events")
		cache      = flag.Int("cache", 0, "size of the hard-link digest cache (overrides config)")
		logfile    = flag.String("logfile", "", "log to this file, with rotation, instead of stderr")
		verbose    = flag.Bool("v", false, "log every index change")
	)
	flag.Parse()

	if *logfile != "" {
		log.SetOutput(&lumberjack.Logger{
			Filename:   *logfile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
		})
	}

	conf, err := loadConfig(*configFile)
	if err != nil {
		log.Fatal(err)
	}
	if *root != "" {
		conf.root = *root
	}
	if *interval > 0 {
		conf.interval = *interval
	}
	if *watch {
		conf.watch = true
	}
	if *cache > 0 {
		conf.cache = *cache
	}

	ctx := context.Background()

	s, err := store.FromConfig(ctx, conf.store)
	if err != nil {
		log.Fatalf("Creating store: %s", err)
	}

	err = subcmd.Run(ctx, maincmd{conf: conf, s: s, verbose: *verbose}, flag.Args())
	if c, ok := s.(io.Closer); ok {
		if closeErr := c.Close(); closeErr != nil {
			log.Printf("ERROR closing store: %s", closeErr)
		}
	}
	if err != nil {
		log.Fatal(err)
	}
}

func (c maincmd) Subcmds() map[string]subcmd.Subcmd {
	return map[string]subcmd.Subcmd{
		"digest": c.digest,
		"init":   c.bootstrap,
		"ls":     c.ls,
		"pass":   c.pass,
		"run":    c.run,
	}
}

// newTree produces the tree for the run and pass subcommands.
// A root given on the command line overrides the configured one.
func (c maincmd) newTree(args []string) (*dsync.Tree, error) {
	root := c.conf.root
	if len(args) > 0 {
		root = args[0]
	}
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrapf(err, "getting absolute path of %s", root)
	}

	tree := &dsync.Tree{
		S:        c.s,
		Root:     root,
		Exclude:  c.conf.exclude,
		Observer: dsync.LogObserver{Verbose: c.verbose},
	}

	// Don't index the index.
	if fs, ok := indexFileStore(c.s); ok {
		dir, err := filepath.Abs(filepath.Dir(fs.Path()))
		if err != nil {
			return nil, errors.Wrapf(err, "getting absolute path of %s", fs.Path())
		}
		if crawl.Under(dir, root) {
			tree.Exclude = append(tree.Exclude[:len(tree.Exclude):len(tree.Exclude)], dir)
		}
	}

	if c.conf.cache > 0 {
		h, err := lru.New(watcher.DefaultHasher, c.conf.cache)
		if err != nil {
			return nil, errors.Wrap(err, "creating digest cache")
		}
		tree.Hasher = h
	}

	return tree, nil
}

// indexFileStore finds the file store in s,
// looking through wrappers like the logging store.
func indexFileStore(s watcher.Store) (*file.Store, bool) {
	for {
		switch ss := s.(type) {
		case *file.Store:
			return ss, true
		case interface{ Nested() watcher.Store }:
			s = ss.Nested()
		default:
			return nil, false
		}
	}
}
