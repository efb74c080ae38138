package inmemdb

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core/grading"
)

var (
	errReadOnly   = errors.New("inmemdb: write in a read-only transaction")
	errForeignKey = errors.New("inmemdb: foreign key violation")
)

type (
	// Store is a grading.Store kept in memory.
	// A write unit runs against a private copy of the tables which replaces them on commit.
	Store struct {
		mu sync.RWMutex
		db *tables
	}

	tables struct {
		students      map[int64]studentRow
		modules       map[string]moduleRow
		registrations map[int64]pairRow
		grades        map[int64]gradeRow
		regPK         int64
		gradePK       int64
	}

	studentRow struct {
		ID        int64
		FirstName string
		LastName  string
		Username  string
		Email     string
	}

	moduleRow struct {
		Code string
		Name string
		MNC  bool
	}

	pairRow struct {
		ID         int64
		StudentID  int64
		ModuleCode string
	}

	gradeRow struct {
		pairRow
		Score int
	}
)

var _ grading.Store = (*Store)(nil) // interface compliance check

func NewStore() *Store {
	return &Store{db: newTables()}
}

func newTables() *tables {
	return &tables{
		students:      make(map[int64]studentRow),
		modules:       make(map[string]moduleRow),
		registrations: make(map[int64]pairRow),
		grades:        make(map[int64]gradeRow),
	}
}

// clone copies every table; rows hold no pointers so copying the maps is enough.
func (t *tables) clone() *tables {
	c := &tables{
		students:      make(map[int64]studentRow, len(t.students)),
		modules:       make(map[string]moduleRow, len(t.modules)),
		registrations: make(map[int64]pairRow, len(t.registrations)),
		grades:        make(map[int64]gradeRow, len(t.grades)),
		regPK:         t.regPK,
		gradePK:       t.gradePK,
	}
	for k, v := range t.students {
		c.students[k] = v
	}
	for k, v := range t.modules {
		c.modules[k] = v
	}
	for k, v := range t.registrations {
		c.registrations[k] = v
	}
	for k, v := range t.grades {
		c.grades[k] = v
	}
	return c
}

func (s *Store) RunInTx(ctx context.Context, fn func(tx grading.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "starting transaction")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t := &tx{db: s.db.clone()}
	if err := fn(t); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "committing transaction")
	}
	s.db = t.db
	return nil
}

func (s *Store) View(ctx context.Context, fn func(tx grading.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "starting transaction")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&tx{db: s.db, readOnly: true})
}

type tx struct {
	db       *tables
	readOnly bool
}

func (t *tx) Students() grading.StudentRepository           { return &studentRepository{t} }
func (t *tx) Modules() grading.ModuleRepository             { return &moduleRepository{t} }
func (t *tx) Registrations() grading.RegistrationRepository { return &registrationRepository{t} }
func (t *tx) Grades() grading.GradeRepository               { return &gradeRepository{t} }

func (t *tx) writable() error {
	if t.readOnly {
		return errReadOnly
	}
	return nil
}

func (t *tx) student(id int64) grading.Student {
	row := t.db.students[id]
	return grading.Student{
		ID:        row.ID,
		FirstName: row.FirstName,
		LastName:  row.LastName,
		Username:  row.Username,
		Email:     row.Email,
	}
}

func (t *tx) module(code string) grading.Module {
	row := t.db.modules[code]
	return grading.Module{Code: row.Code, Name: row.Name, MNC: row.MNC}
}

// checkRefs enforces the student and module foreign keys of a pair row.
func (t *tx) checkRefs(studentID int64, moduleCode string) error {
	if _, ok := t.db.students[studentID]; !ok {
		return errors.Wrapf(errForeignKey, "student %d", studentID)
	}
	if _, ok := t.db.modules[moduleCode]; !ok {
		return errors.Wrapf(errForeignKey, "module %s", moduleCode)
	}
	return nil
}
