package main

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/bobg/watcher"
)

func (c maincmd) ls(ctx context.Context, fset *flag.FlagSet, args []string) error {
	human := fset.Bool("t", false, "show mtimes as timestamps")
	if err := fset.Parse(args); err != nil {
		return errors.Wrap(err, "parsing args")
	}

	tbl, err := c.s.Load(ctx)
	if err != nil {
		return errors.Wrap(err, "loading index")
	}

	return tbl.Each(func(rec watcher.Record) error {
		mtime := strconv.FormatFloat(rec.Mtime, 'f', -1, 64)
		if *human {
			mtime = watcher.MtimeTime(rec.Mtime).Format(time.RFC3339Nano)
		}
		_, err := fmt.Printf("%s\t%s\t%s\n", rec.Path, mtime, rec.Digest)
		return err
	})
}
