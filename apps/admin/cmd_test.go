package main

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/gradebook/core/grading"
	"github.com/trezcool/gradebook/storage/database"
	inmemdb "github.com/trezcool/gradebook/storage/database/inmem"
	sqlxrepos "github.com/trezcool/gradebook/storage/database/sqlx"
	"github.com/trezcool/gradebook/tests"
)

func setup(t *testing.T) (*commandLine, *bytes.Buffer) {
	db := testutil.OpenDB(t)
	out := new(bytes.Buffer)

	return &commandLine{
		db:  db,
		svc: grading.NewService(sqlxrepos.NewStore(db)),
		out: out,
	}, out
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

func runCLITests(t *testing.T, cli *commandLine, tests []cliTest, before func(tt cliTest)) {
	t.Helper()

	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)
		if before != nil {
			before(tt)
		}

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != nil {
				if tt.wantErr != nil {
					if errors.Cause(err) != tt.wantErr {
						t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
					}
				} else if tt.wantErrStr != "" {
					if err.Error() != tt.wantErrStr {
						t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
					}
				} else {
					t.Errorf("cli.run() unexpected error = %v", err)
				}
			} else if tt.wantErr != nil || tt.wantErrStr != "" {
				t.Errorf("cli.run() error = nil, wantErr %v%s", tt.wantErr, tt.wantErrStr)
			}
		})
	}
}

func Test_commandLine_help(t *testing.T) {
	cli, _ := setup(t)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "seed help", args: []string{"seed", "--help"}, wantErr: errHelp},
		{name: "flush help", args: []string{"flush", "-h"}, wantErr: errHelp},
		{name: "unknown flag", args: []string{"flush", "--lol"}, wantErrStr: "unknown flag: --lol"},
	}
	runCLITests(t, cli, tests, nil)
}

func Test_commandLine_migrate(t *testing.T) {
	cli, _ := setup(t)

	var calls []string
	migrateFunc = func(db *sqlx.DB, command string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		calls = append(calls, command)
		return nil
	}
	defer func() { migrateFunc = database.RunMigrations }()

	tests := []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-to", args: []string{"migrate", "up-to", "1"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
	}
	runCLITests(t, cli, tests, nil)
	assert.Equal(t, []string{"up", "up-to", "down", "status", "version"}, calls)

}

func Test_commandLine_memoryEngine(t *testing.T) {
	out := new(bytes.Buffer)
	cli := &commandLine{svc: grading.NewService(inmemdb.NewStore()), out: out}

	tests := []cliTest{
		{name: "migrate", args: []string{"migrate", "up"}, wantErr: errNoDatabase},
		{name: "seed", args: []string{"seed"}, wantErr: errNoDatabase},
		{name: "flush", args: []string{"flush", "--yes"}, wantErr: errNoDatabase},
		{name: "stats", args: []string{"stats"}, wantErr: errNoDatabase},
		{name: "help still works", args: []string{"lol"}, wantErr: errHelp},
	}
	runCLITests(t, cli, tests, nil)
	assert.NotContains(t, out.String(), "seeded")
}

func Test_commandLine_migrate_sqlite(t *testing.T) {
	cli, _ := setup(t)

	// the schema is already up to date
	require.NoError(t, cli.run([]string{"admin", "migrate", "up"}))
	require.NoError(t, cli.run([]string{"admin", "migrate", "version"}))
}

func Test_commandLine_seed(t *testing.T) {
	ctx := context.Background()
	cli, out := setup(t)

	require.NoError(t, cli.run([]string{"admin", "seed"}))
	assert.Contains(t, out.String(), "seeded 10 students, 6 modules")

	stats, err := cli.svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, grading.Stats{Students: 10, Modules: 6, MNCModules: 2, Registrations: 48, Grades: 48}, stats)

	// every student is registered to the mandatory modules
	mncs, err := cli.svc.MNCModules(ctx)
	require.NoError(t, err)
	for _, m := range mncs {
		studs, err := cli.svc.StudentsOfModule(ctx, m.Code)
		require.NoError(t, err)
		assert.Len(t, studs, 10, m.Code)
	}

	// a second run collides with the existing students
	err = cli.run([]string{"admin", "seed"})
	assert.ErrorIs(t, err, grading.ErrStudentExists)

	t.Run("custom file", func(t *testing.T) {
		cli, _ := setup(t)
		readSeedFunc = func(path string) ([]byte, error) {
			assert.Equal(t, "custom.yaml", path)
			return []byte(`
students:
  - {id: 1, firstName: First, lastName: Student}
modules:
  - {code: TM1, name: TestModule1}
registrations:
  - {student: 1, module: TM1}
grades:
  - {student: 1, module: TM1, score: 101}
`), nil
		}
		defer func() { readSeedFunc = readSeed }()

		err := cli.run([]string{"admin", "seed", "--file", "custom.yaml"})
		assert.Equal(t, grading.ErrInvalidGrade, errors.Cause(err))

		stats, err := cli.svc.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, grading.Stats{Students: 1, Modules: 1, Registrations: 1}, stats)
	})
}

func Test_commandLine_flush(t *testing.T) {
	ctx := context.Background()
	cli, out := setup(t)
	require.NoError(t, cli.run([]string{"admin", "seed"}))

	type extra struct {
		answer bool
		err    error
	}
	var asked int
	tests := []cliTest{
		{name: "declined", args: []string{"flush"}, extra: extra{answer: false}, wantErr: errNotConfirmed},
		{name: "no terminal", args: []string{"flush"}, extra: extra{err: errNoTerminal}, wantErr: errNoTerminal},
		{name: "confirmed", args: []string{"flush"}, extra: extra{answer: true}},
		{name: "already empty", args: []string{"flush", "--yes"}},
	}
	runCLITests(t, cli, tests, func(tt cliTest) {
		confirmFunc = func(string) (bool, error) {
			asked++
			ex, _ := tt.extra.(extra)
			return ex.answer, ex.err
		}
	})
	defer func() { confirmFunc = confirm }()

	assert.Equal(t, 3, asked, "--yes skips the prompt")
	assert.Contains(t, out.String(), "deleted 10 students and 6 modules")

	stats, err := cli.svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, grading.Stats{}, stats)
}

func Test_commandLine_stats(t *testing.T) {
	cli, out := setup(t)

	_, err := cli.svc.CreateStudent(context.Background(), grading.NewStudent{ID: 1, FirstName: "First"})
	require.NoError(t, err)
	require.NoError(t, cli.run([]string{"admin", "stats"}))
	assert.Contains(t, out.String(), "students:      1\n")
	assert.Contains(t, out.String(), "modules:       0 (0 mandatory)\n")
}
