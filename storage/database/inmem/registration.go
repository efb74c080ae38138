package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/gradebook/core/grading"
)

type registrationRepository struct {
	tx *tx
}

var _ grading.RegistrationRepository = (*registrationRepository)(nil) // interface compliance check

func (repo *registrationRepository) hydrate(row pairRow) grading.Registration {
	return grading.Registration{
		ID:      row.ID,
		Student: repo.tx.student(row.StudentID),
		Module:  repo.tx.module(row.ModuleCode),
	}
}

// filter returns the matching registrations in insertion order.
func (repo *registrationRepository) filter(match func(pairRow) bool) []grading.Registration {
	rows := make([]pairRow, 0)
	for _, row := range repo.tx.db.registrations {
		if match(row) {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })

	regs := make([]grading.Registration, 0, len(rows))
	for _, row := range rows {
		regs = append(regs, repo.hydrate(row))
	}
	return regs
}

func (repo *registrationRepository) Save(_ context.Context, r grading.Registration) (grading.Registration, error) {
	if err := repo.tx.writable(); err != nil {
		return grading.Registration{}, err
	}
	if err := repo.tx.checkRefs(r.Student.ID, r.Module.Code); err != nil {
		return grading.Registration{}, err
	}
	for _, row := range repo.tx.db.registrations {
		if row.ID != r.ID && row.StudentID == r.Student.ID && row.ModuleCode == r.Module.Code {
			return grading.Registration{}, grading.ErrConflict
		}
	}

	if r.ID == 0 {
		repo.tx.db.regPK++
		r.ID = repo.tx.db.regPK
	} else if _, ok := repo.tx.db.registrations[r.ID]; !ok {
		return grading.Registration{}, grading.ErrNotFound
	}
	row := pairRow{ID: r.ID, StudentID: r.Student.ID, ModuleCode: r.Module.Code}
	repo.tx.db.registrations[row.ID] = row
	return repo.hydrate(row), nil
}

func (repo *registrationRepository) Find(_ context.Context, id int64) (grading.Registration, error) {
	row, ok := repo.tx.db.registrations[id]
	if !ok {
		return grading.Registration{}, grading.ErrNotFound
	}
	return repo.hydrate(row), nil
}

func (repo *registrationRepository) FindAll(_ context.Context) ([]grading.Registration, error) {
	return repo.filter(func(pairRow) bool { return true }), nil
}

func (repo *registrationRepository) Delete(ctx context.Context, r grading.Registration) error {
	if _, ok := repo.tx.db.registrations[r.ID]; !ok {
		return grading.ErrNotFound
	}
	return repo.DeleteMany(ctx, []grading.Registration{r})
}

func (repo *registrationRepository) DeleteMany(_ context.Context, regs []grading.Registration) error {
	if err := repo.tx.writable(); err != nil {
		return err
	}
	for _, r := range regs {
		delete(repo.tx.db.registrations, r.ID)
	}
	return nil
}

func (repo *registrationRepository) ExistsByPair(ctx context.Context, studentID int64, moduleCode string) (bool, error) {
	_, err := repo.FindByPair(ctx, studentID, moduleCode)
	switch err {
	case nil:
		return true, nil
	case grading.ErrNotFound:
		return false, nil
	default:
		return false, err
	}
}

func (repo *registrationRepository) FindByPair(_ context.Context, studentID int64, moduleCode string) (grading.Registration, error) {
	for _, row := range repo.tx.db.registrations {
		if row.StudentID == studentID && row.ModuleCode == moduleCode {
			return repo.hydrate(row), nil
		}
	}
	return grading.Registration{}, grading.ErrNotFound
}

func (repo *registrationRepository) FindByStudent(_ context.Context, studentID int64) ([]grading.Registration, error) {
	return repo.filter(func(row pairRow) bool { return row.StudentID == studentID }), nil
}

func (repo *registrationRepository) FindByModule(_ context.Context, moduleCode string) ([]grading.Registration, error) {
	return repo.filter(func(row pairRow) bool { return row.ModuleCode == moduleCode }), nil
}
