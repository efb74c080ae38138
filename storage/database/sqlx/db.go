package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/trezcool/gradebook/core/grading"
)

const pqUniqueViolation = "23505"

// Store is a grading.Store backed by postgres (lib/pq) or sqlite (modernc.org/sqlite).
type Store struct {
	db        *sqlx.DB
	writeOpts *sql.TxOptions
	readOpts  *sql.TxOptions
}

var _ grading.Store = (*Store)(nil) // interface compliance check

func NewStore(db *sqlx.DB) *Store {
	s := &Store{db: db}
	// sqlite runs on a single connection which already serializes transactions
	if db.DriverName() == "postgres" {
		s.writeOpts = &sql.TxOptions{Isolation: sql.LevelSerializable}
		s.readOpts = &sql.TxOptions{Isolation: sql.LevelSerializable, ReadOnly: true}
	}
	return s
}

func (s *Store) RunInTx(ctx context.Context, fn func(tx grading.Tx) error) error {
	return s.run(ctx, s.writeOpts, fn)
}

func (s *Store) View(ctx context.Context, fn func(tx grading.Tx) error) error {
	return s.run(ctx, s.readOpts, fn)
}

func (s *Store) run(ctx context.Context, opts *sql.TxOptions, fn func(tx grading.Tx) error) (err error) {
	sqlTx, err := s.db.BeginTxx(ctx, opts)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer func() {
		if p := recover(); p != nil {
			_ = sqlTx.Rollback()
			panic(p)
		}
	}()

	if err = fn(&tx{tx: sqlTx}); err != nil {
		_ = sqlTx.Rollback()
		return err
	}
	if err = ctx.Err(); err != nil {
		_ = sqlTx.Rollback()
		return errors.Wrap(err, "committing transaction")
	}
	return errors.Wrap(sqlTx.Commit(), "committing transaction")
}

type tx struct {
	tx *sqlx.Tx
}

func (t *tx) Students() grading.StudentRepository           { return &studentRepository{t.tx} }
func (t *tx) Modules() grading.ModuleRepository             { return &moduleRepository{t.tx} }
func (t *tx) Registrations() grading.RegistrationRepository { return &registrationRepository{t.tx} }
func (t *tx) Grades() grading.GradeRepository               { return &gradeRepository{t.tx} }

// trapErr maps driver errors to the grading store errors.
func trapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Cause(err) == sql.ErrNoRows {
		return grading.ErrNotFound
	}
	if isUniqueViolation(err) {
		return grading.ErrConflict
	}
	return err
}

func isUniqueViolation(err error) bool {
	switch e := errors.Cause(err).(type) {
	case *pq.Error:
		return e.Code == pqUniqueViolation
	case *sqlite.Error:
		return e.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE || e.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}

// execIn runs a `... IN (?)` statement; an empty args list is a no-op.
func execIn(ctx context.Context, tx *sqlx.Tx, query string, args interface{}, n int) error {
	if n == 0 {
		return nil
	}
	q, params, err := sqlx.In(query, args)
	if err != nil {
		return errors.Wrap(err, "expanding IN query")
	}
	_, err = tx.ExecContext(ctx, tx.Rebind(q), params...)
	return trapErr(err)
}

// checkAffected returns grading.ErrNotFound when res touched no row.
func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return grading.ErrNotFound
	}
	return nil
}
