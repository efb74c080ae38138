package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/pflag"

	"github.com/trezcool/gradebook/core/grading"
)

var (
	errHelp       = errors.New("help provided")
	errNoDatabase = errors.New("the memory engine keeps no data between runs; configure postgres or sqlite")
)

type commandLine struct {
	db  *sqlx.DB // nil with the memory engine
	svc grading.ServiceInterface
	out io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS]  - run a goose migration command (up, down, status, ...)")
	fmt.Fprintln(cli.out, "  seed [--file PATH]      - load students, modules, registrations and grades from YAML")
	fmt.Fprintln(cli.out, "  flush [--yes]           - delete every student and module with their dependents")
	fmt.Fprintln(cli.out, "  stats                   - print the number of rows of each entity")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	ctx := context.Background()

	seedCmd := pflag.NewFlagSet("seed", pflag.ContinueOnError)
	seedCmd.SetOutput(cli.out)
	seedFile := seedCmd.StringP("file", "f", "", "YAML file to load; the embedded demo data when empty")

	flushCmd := pflag.NewFlagSet("flush", pflag.ContinueOnError)
	flushCmd.SetOutput(cli.out)
	flushYes := flushCmd.BoolP("yes", "y", false, "do not prompt for confirmation")

	switch args[1] {
	case "migrate", "seed", "flush", "stats":
		if cli.db == nil {
			return errNoDatabase
		}
	}

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])
	case "seed":
		if err := seedCmd.Parse(args[2:]); err != nil {
			return parseErr(err)
		}
		return cli.seed(ctx, *seedFile)
	case "flush":
		if err := flushCmd.Parse(args[2:]); err != nil {
			return parseErr(err)
		}
		return cli.flush(ctx, *flushYes)
	case "stats":
		return cli.stats(ctx)
	default:
		cli.printUsage()
		return errHelp
	}
}

func parseErr(err error) error {
	if err == pflag.ErrHelp {
		return errHelp
	}
	return err
}
