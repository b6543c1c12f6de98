package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/pkg/errors"
)

func (c maincmd) pass(ctx context.Context, fset *flag.FlagSet, args []string) error {
	if err := fset.Parse(args); err != nil {
		return errors.Wrap(err, "parsing args")
	}

	tree, err := c.newTree(fset.Args())
	if err != nil {
		return err
	}

	if err = c.s.Bootstrap(ctx); err != nil {
		return errors.Wrap(err, "bootstrapping index store")
	}

	stats, err := tree.Pass(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("crawled %d, added %d, replaced %d, removed %d, skipped %d, checkpoints %d\n",
		stats.Crawled, stats.Added, stats.Replaced, stats.Removed, stats.Skipped, stats.Checkpoints)
	return nil
}

func (c maincmd) bootstrap(ctx context.Context, fset *flag.FlagSet, args []string) error {
	if err := fset.Parse(args); err != nil {
		return errors.Wrap(err, "parsing args")
	}
	return errors.Wrap(c.s.Bootstrap(ctx), "bootstrapping index store")
}
