package testutil

import (
	"context"
	"io"
	"log"
	"path/filepath"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/grading"
	"github.com/trezcool/gradebook/storage/database"
	inmemdb "github.com/trezcool/gradebook/storage/database/inmem"
	sqlxrepos "github.com/trezcool/gradebook/storage/database/sqlx"
)

// Engines lists the store engines every engine test runs against.
var Engines = []string{database.EngineMemory, database.EngineSQLite}

func init() {
	goose.SetLogger(log.New(io.Discard, "", 0))
}

// OpenDB opens a migrated sqlite database living in the test's temp dir.
func OpenDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "gradebook.db"))
	if err != nil {
		t.Fatalf("OpenDB() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err = database.Migrate(db); err != nil {
		t.Fatalf("OpenDB() failed: %v", err)
	}
	return db
}

// NewStore returns an empty store of the given engine.
func NewStore(t *testing.T, engine string) grading.Store {
	t.Helper()

	switch engine {
	case database.EngineMemory:
		return inmemdb.NewStore()
	case database.EngineSQLite:
		return sqlxrepos.NewStore(OpenDB(t))
	}
	t.Fatalf("NewStore(): unknown engine %q", engine)
	return nil
}

func NewValidator() (*validator.Validate, ut.Translator) {
	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	return validate, translator
}

func save(t *testing.T, store grading.Store, fn func(ctx context.Context, tx grading.Tx) error) {
	t.Helper()

	ctx := context.Background()
	if err := store.RunInTx(ctx, func(tx grading.Tx) error { return fn(ctx, tx) }); err != nil {
		t.Fatalf("saving fixture failed: %v", err)
	}
}

// CreateStudent stores a student as is, without applying the mandatory module rule.
func CreateStudent(t *testing.T, store grading.Store, id int64, firstName, lastName string) grading.Student {
	t.Helper()

	var stud grading.Student
	save(t, store, func(ctx context.Context, tx grading.Tx) (err error) {
		stud, err = tx.Students().Save(ctx, grading.Student{
			ID:        id,
			FirstName: firstName,
			LastName:  lastName,
		})
		return err
	})
	return stud
}

// CreateModule stores a module as is, without applying the mandatory module rule.
func CreateModule(t *testing.T, store grading.Store, code, name string, mnc bool) grading.Module {
	t.Helper()

	var mod grading.Module
	save(t, store, func(ctx context.Context, tx grading.Tx) (err error) {
		mod, err = tx.Modules().Save(ctx, grading.Module{Code: code, Name: name, MNC: mnc})
		return err
	})
	return mod
}

func CreateRegistration(t *testing.T, store grading.Store, stud grading.Student, mod grading.Module) grading.Registration {
	t.Helper()

	var reg grading.Registration
	save(t, store, func(ctx context.Context, tx grading.Tx) (err error) {
		reg, err = tx.Registrations().Save(ctx, grading.Registration{Student: stud, Module: mod})
		return err
	})
	return reg
}

func CreateGrade(t *testing.T, store grading.Store, score int, stud grading.Student, mod grading.Module) grading.Grade {
	t.Helper()

	g, err := grading.MakeGrade(score, stud, mod)
	if err != nil {
		t.Fatalf("CreateGrade() failed: %v", err)
	}
	save(t, store, func(ctx context.Context, tx grading.Tx) (err error) {
		g, err = tx.Grades().Save(ctx, g)
		return err
	})
	return g
}
