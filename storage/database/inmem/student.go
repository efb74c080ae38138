package inmemdb

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core/grading"
)

type studentRepository struct {
	tx *tx
}

var _ grading.StudentRepository = (*studentRepository)(nil) // interface compliance check

func (repo *studentRepository) Save(_ context.Context, s grading.Student) (grading.Student, error) {
	if err := repo.tx.writable(); err != nil {
		return grading.Student{}, err
	}
	repo.tx.db.students[s.ID] = studentRow{
		ID:        s.ID,
		FirstName: s.FirstName,
		LastName:  s.LastName,
		Username:  s.Username,
		Email:     s.Email,
	}
	return repo.tx.student(s.ID), nil
}

func (repo *studentRepository) Find(_ context.Context, id int64) (grading.Student, error) {
	if _, ok := repo.tx.db.students[id]; !ok {
		return grading.Student{}, grading.ErrNotFound
	}
	return repo.tx.student(id), nil
}

func (repo *studentRepository) FindAll(_ context.Context) ([]grading.Student, error) {
	studs := make([]grading.Student, 0, len(repo.tx.db.students))
	for id := range repo.tx.db.students {
		studs = append(studs, repo.tx.student(id))
	}
	sort.Slice(studs, func(i, j int) bool { return studs[i].ID < studs[j].ID })
	return studs, nil
}

func (repo *studentRepository) Delete(ctx context.Context, s grading.Student) error {
	if _, ok := repo.tx.db.students[s.ID]; !ok {
		return grading.ErrNotFound
	}
	return repo.DeleteMany(ctx, []grading.Student{s})
}

func (repo *studentRepository) DeleteMany(_ context.Context, students []grading.Student) error {
	if err := repo.tx.writable(); err != nil {
		return err
	}
	ids := make(map[int64]struct{}, len(students))
	for _, s := range students {
		ids[s.ID] = struct{}{}
	}
	for _, r := range repo.tx.db.registrations {
		if _, ok := ids[r.StudentID]; ok {
			return errors.Wrapf(errForeignKey, "student %d is still registered", r.StudentID)
		}
	}
	for _, g := range repo.tx.db.grades {
		if _, ok := ids[g.StudentID]; ok {
			return errors.Wrapf(errForeignKey, "student %d is still graded", g.StudentID)
		}
	}
	for id := range ids {
		delete(repo.tx.db.students, id)
	}
	return nil
}
