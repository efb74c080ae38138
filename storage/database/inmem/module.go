package inmemdb

import (
	"context"
	"sort"

	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core/grading"
)

type moduleRepository struct {
	tx *tx
}

var _ grading.ModuleRepository = (*moduleRepository)(nil) // interface compliance check

func (repo *moduleRepository) Save(_ context.Context, m grading.Module) (grading.Module, error) {
	if err := repo.tx.writable(); err != nil {
		return grading.Module{}, err
	}
	repo.tx.db.modules[m.Code] = moduleRow{Code: m.Code, Name: m.Name, MNC: m.MNC}
	return repo.tx.module(m.Code), nil
}

func (repo *moduleRepository) Find(_ context.Context, code string) (grading.Module, error) {
	if _, ok := repo.tx.db.modules[code]; !ok {
		return grading.Module{}, grading.ErrNotFound
	}
	return repo.tx.module(code), nil
}

func (repo *moduleRepository) FindAll(_ context.Context) ([]grading.Module, error) {
	mods := make([]grading.Module, 0, len(repo.tx.db.modules))
	for code := range repo.tx.db.modules {
		mods = append(mods, repo.tx.module(code))
	}
	sort.Slice(mods, func(i, j int) bool { return mods[i].Code < mods[j].Code })
	return mods, nil
}

func (repo *moduleRepository) Delete(ctx context.Context, m grading.Module) error {
	if _, ok := repo.tx.db.modules[m.Code]; !ok {
		return grading.ErrNotFound
	}
	return repo.DeleteMany(ctx, []grading.Module{m})
}

func (repo *moduleRepository) DeleteMany(_ context.Context, modules []grading.Module) error {
	if err := repo.tx.writable(); err != nil {
		return err
	}
	codes := make(map[string]struct{}, len(modules))
	for _, m := range modules {
		codes[m.Code] = struct{}{}
	}
	for _, r := range repo.tx.db.registrations {
		if _, ok := codes[r.ModuleCode]; ok {
			return errors.Wrapf(errForeignKey, "module %s still has registrations", r.ModuleCode)
		}
	}
	for _, g := range repo.tx.db.grades {
		if _, ok := codes[g.ModuleCode]; ok {
			return errors.Wrapf(errForeignKey, "module %s still has grades", g.ModuleCode)
		}
	}
	for code := range codes {
		delete(repo.tx.db.modules, code)
	}
	return nil
}
