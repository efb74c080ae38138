package main

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

func (cli *commandLine) stats(ctx context.Context) error {
	stats, err := cli.svc.Stats(ctx)
	if err != nil {
		return errors.Wrap(err, "counting rows")
	}
	fmt.Fprintf(cli.out, "students:      %d\n", stats.Students)
	fmt.Fprintf(cli.out, "modules:       %d (%d mandatory)\n", stats.Modules, stats.MNCModules)
	fmt.Fprintf(cli.out, "registrations: %d\n", stats.Registrations)
	fmt.Fprintf(cli.out, "grades:        %d\n", stats.Grades)
	return nil
}
