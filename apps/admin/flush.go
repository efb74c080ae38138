package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/term"
)

var (
	confirmFunc = confirm // mockable

	errNotConfirmed = errors.New("flush aborted")
	errNoTerminal   = errors.New("cannot prompt for confirmation outside a terminal; use --yes")
)

// confirm asks a yes/no question on the terminal.
func confirm(question string) (bool, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return false, errNoTerminal
	}
	fmt.Printf("%s [y/N]: ", question)
	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// flush deletes every student then every module; grades and registrations go with them.
func (cli *commandLine) flush(ctx context.Context, yes bool) error {
	if !yes {
		ok, err := confirmFunc("Delete ALL students, modules, registrations and grades?")
		if err != nil {
			return err
		}
		if !ok {
			return errNotConfirmed
		}
	}

	studs, err := cli.svc.QueryStudents(ctx)
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	for _, s := range studs {
		if err = cli.svc.DeleteStudent(ctx, s.ID); err != nil {
			return errors.Wrapf(err, "deleting student %d", s.ID)
		}
	}

	mods, err := cli.svc.QueryModules(ctx)
	if err != nil {
		return errors.Wrap(err, "querying modules")
	}
	for _, m := range mods {
		if err = cli.svc.DeleteModule(ctx, m.Code); err != nil {
			return errors.Wrapf(err, "deleting module %s", m.Code)
		}
	}

	fmt.Fprintf(cli.out, "deleted %d students and %d modules\n", len(studs), len(mods))
	return nil
}
