package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/pkg/errors"

	"github.com/bobg/watcher"
)

func (c maincmd) digest(_ context.Context, fset *flag.FlagSet, args []string) error {
	if err := fset.Parse(args); err != nil {
		return errors.Wrap(err, "parsing args")
	}

	for _, path := range fset.Args() {
		d, err := watcher.HashFile(path)
		if err != nil {
			return errors.Wrapf(err, "hashing %s", path)
		}
		fmt.Printf("%s  %s\n", d, path)
	}
	return nil
}
