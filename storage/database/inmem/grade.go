package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/grading"
)

type gradeRepository struct {
	tx *tx
}

var _ grading.GradeRepository = (*gradeRepository)(nil) // interface compliance check

func (repo *gradeRepository) hydrate(row gradeRow) (grading.Grade, error) {
	g, err := grading.MakeGrade(row.Score, repo.tx.student(row.StudentID), repo.tx.module(row.ModuleCode))
	if err != nil {
		return grading.Grade{}, core.NewShutdownError(err, "stored grade %d has score %d", row.ID, row.Score)
	}
	g.ID = row.ID
	return g, nil
}

// filter returns the matching grades in insertion order.
func (repo *gradeRepository) filter(match func(gradeRow) bool) ([]grading.Grade, error) {
	rows := make([]gradeRow, 0)
	for _, row := range repo.tx.db.grades {
		if match(row) {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })

	grades := make([]grading.Grade, 0, len(rows))
	for _, row := range rows {
		g, err := repo.hydrate(row)
		if err != nil {
			return nil, err
		}
		grades = append(grades, g)
	}
	return grades, nil
}

func (repo *gradeRepository) Save(_ context.Context, g grading.Grade) (grading.Grade, error) {
	if err := repo.tx.writable(); err != nil {
		return grading.Grade{}, err
	}
	if err := repo.tx.checkRefs(g.Student.ID, g.Module.Code); err != nil {
		return grading.Grade{}, err
	}
	for _, row := range repo.tx.db.grades {
		if row.ID != g.ID && row.StudentID == g.Student.ID && row.ModuleCode == g.Module.Code {
			return grading.Grade{}, grading.ErrConflict
		}
	}

	if g.ID == 0 {
		repo.tx.db.gradePK++
		g.ID = repo.tx.db.gradePK
	} else if _, ok := repo.tx.db.grades[g.ID]; !ok {
		return grading.Grade{}, grading.ErrNotFound
	}
	row := gradeRow{
		pairRow: pairRow{ID: g.ID, StudentID: g.Student.ID, ModuleCode: g.Module.Code},
		Score:   g.Score(),
	}
	repo.tx.db.grades[row.ID] = row
	return repo.hydrate(row)
}

func (repo *gradeRepository) Find(_ context.Context, id int64) (grading.Grade, error) {
	row, ok := repo.tx.db.grades[id]
	if !ok {
		return grading.Grade{}, grading.ErrNotFound
	}
	return repo.hydrate(row)
}

func (repo *gradeRepository) FindAll(_ context.Context) ([]grading.Grade, error) {
	return repo.filter(func(gradeRow) bool { return true })
}

func (repo *gradeRepository) Delete(ctx context.Context, g grading.Grade) error {
	if _, ok := repo.tx.db.grades[g.ID]; !ok {
		return grading.ErrNotFound
	}
	return repo.DeleteMany(ctx, []grading.Grade{g})
}

func (repo *gradeRepository) DeleteMany(_ context.Context, grades []grading.Grade) error {
	if err := repo.tx.writable(); err != nil {
		return err
	}
	for _, g := range grades {
		delete(repo.tx.db.grades, g.ID)
	}
	return nil
}

func (repo *gradeRepository) FindByPair(_ context.Context, studentID int64, moduleCode string) (grading.Grade, error) {
	for _, row := range repo.tx.db.grades {
		if row.StudentID == studentID && row.ModuleCode == moduleCode {
			return repo.hydrate(row)
		}
	}
	return grading.Grade{}, grading.ErrNotFound
}

func (repo *gradeRepository) FindByStudent(_ context.Context, studentID int64) ([]grading.Grade, error) {
	return repo.filter(func(row gradeRow) bool { return row.StudentID == studentID })
}

func (repo *gradeRepository) FindByModule(_ context.Context, moduleCode string) ([]grading.Grade, error) {
	return repo.filter(func(row gradeRow) bool { return row.ModuleCode == moduleCode })
}
