package grading

import (
	"context"

	"github.com/pkg/errors"
)

// GradesOfStudent lists the student's grades following the order of its registrations.
// It returns ErrNotFound when the student is unknown or has no grade yet.
func (svc *Service) GradesOfStudent(ctx context.Context, id int64) ([]Grade, error) {
	var grades []Grade
	err := svc.store.View(ctx, func(tx Tx) error {
		stud, err := tx.Students().Find(ctx, id)
		if err != nil {
			return err
		}
		if stud.Grades, err = tx.Grades().FindByStudent(ctx, id); err != nil {
			return errors.Wrap(err, "finding grades")
		}

		regs, err := tx.Registrations().FindByStudent(ctx, id)
		if err != nil {
			return errors.Wrap(err, "finding registrations")
		}
		for _, reg := range regs {
			if g, ok := stud.GradeFor(reg.Module); ok {
				grades = append(grades, g)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(grades) == 0 {
		return nil, ErrNotFound
	}
	return grades, nil
}

// GradesOfModule lists the grades of every student registered to the module.
// It returns ErrNotFound when the module is unknown or nobody has been graded yet.
func (svc *Service) GradesOfModule(ctx context.Context, code string) ([]Grade, error) {
	var grades []Grade
	err := svc.store.View(ctx, func(tx Tx) error {
		mod, err := tx.Modules().Find(ctx, code)
		if err != nil {
			return err
		}

		regs, err := tx.Registrations().FindByModule(ctx, code)
		if err != nil {
			return errors.Wrap(err, "finding registrations")
		}
		for _, reg := range regs {
			stud := reg.Student
			if stud.Grades, err = tx.Grades().FindByStudent(ctx, stud.ID); err != nil {
				return errors.Wrap(err, "finding grades")
			}
			if g, ok := stud.GradeFor(mod); ok {
				grades = append(grades, g)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(grades) == 0 {
		return nil, ErrNotFound
	}
	return grades, nil
}

func (svc *Service) StudentsOfModule(ctx context.Context, code string) ([]Student, error) {
	studs := make([]Student, 0)
	err := svc.store.View(ctx, func(tx Tx) error {
		if _, err := tx.Modules().Find(ctx, code); err != nil {
			return err
		}
		regs, err := tx.Registrations().FindByModule(ctx, code)
		if err != nil {
			return errors.Wrap(err, "finding registrations")
		}
		for _, reg := range regs {
			studs = append(studs, reg.Student)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return studs, nil
}

func (svc *Service) ModulesOfStudent(ctx context.Context, id int64) ([]Module, error) {
	mods := make([]Module, 0)
	err := svc.store.View(ctx, func(tx Tx) error {
		if _, err := tx.Students().Find(ctx, id); err != nil {
			return err
		}
		regs, err := tx.Registrations().FindByStudent(ctx, id)
		if err != nil {
			return errors.Wrap(err, "finding registrations")
		}
		for _, reg := range regs {
			mods = append(mods, reg.Module)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return mods, nil
}

func (svc *Service) MNCModules(ctx context.Context) ([]Module, error) {
	var mods []Module
	err := svc.store.View(ctx, func(tx Tx) (err error) {
		mods, err = mncModules(ctx, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return mods, nil
}

func mncModules(ctx context.Context, tx Tx) ([]Module, error) {
	all, err := tx.Modules().FindAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "finding modules")
	}
	mods := make([]Module, 0, len(all))
	for _, mod := range all {
		if mod.MNC {
			mods = append(mods, mod)
		}
	}
	return mods, nil
}
