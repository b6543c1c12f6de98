package main

import (
	"context"
	stderrs "errors"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/bobg/watcher/dsync"
)

func (c maincmd) run(ctx context.Context, fset *flag.FlagSet, args []string) error {
	if err := fset.Parse(args); err != nil {
		return errors.Wrap(err, "parsing args")
	}

	tree, err := c.newTree(fset.Args())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			log.Printf("got signal %s", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	g, ctx := errgroup.WithContext(ctx)

	var wake chan struct{}
	if c.conf.watch {
		wake = make(chan struct{}, 1)
		g.Go(func() error {
			return dsync.Watch(ctx, tree.Root, tree.Exclude, wake)
		})
	}
	g.Go(func() error {
		return tree.Run(ctx, c.conf.interval, wake)
	})

	err = g.Wait()
	if stderrs.Is(err, context.Canceled) {
		return nil
	}
	return err
}
