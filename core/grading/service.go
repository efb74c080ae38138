package grading

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core"
)

type (
	ServiceInterface interface {
		// students
		CreateStudent(ctx context.Context, ns NewStudent) (Student, error)
		QueryStudents(ctx context.Context) ([]Student, error)
		GetStudent(ctx context.Context, id int64) (Student, error)
		DeleteStudent(ctx context.Context, id int64) error
		StudentAverage(ctx context.Context, id int64) (float64, error)
		GradesOfStudent(ctx context.Context, id int64) ([]Grade, error)
		ModulesOfStudent(ctx context.Context, id int64) ([]Module, error)

		// modules
		CreateModule(ctx context.Context, nm NewModule) (Module, error)
		QueryModules(ctx context.Context) ([]Module, error)
		GetModule(ctx context.Context, code string) (Module, error)
		DeleteModule(ctx context.Context, code string) error
		MNCModules(ctx context.Context) ([]Module, error)
		ModuleAverage(ctx context.Context, code string) (float64, error)
		GradesOfModule(ctx context.Context, code string) ([]Grade, error)
		StudentsOfModule(ctx context.Context, code string) ([]Student, error)

		// registrations
		RegisterStudent(ctx context.Context, nr NewRegistration) (Registration, error)
		QueryRegistrations(ctx context.Context) ([]Registration, error)
		DeleteRegistration(ctx context.Context, studentID int64, moduleCode string) error

		// grades
		UpsertGrade(ctx context.Context, ng NewGrade) (Grade, error)
		QueryGrades(ctx context.Context) ([]Grade, error)

		Stats(ctx context.Context) (Stats, error)
	}

	// Service keeps students, modules, registrations and grades consistent.
	// Every write operation runs as a single Store unit of work.
	Service struct {
		store Store
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Students

func (svc *Service) CreateStudent(ctx context.Context, ns NewStudent) (Student, error) {
	if ns.ID == 0 {
		return Student{}, ErrInvalidInput
	}
	var stud Student
	err := svc.store.RunInTx(ctx, func(tx Tx) error {
		if _, err := tx.Students().Find(ctx, ns.ID); err == nil {
			return core.NewFieldError("id", ErrStudentExists)
		} else if err != ErrNotFound {
			return errors.Wrap(err, "checking student id")
		}

		var err error
		stud, err = tx.Students().Save(ctx, Student{
			ID:        ns.ID,
			FirstName: ns.FirstName,
			LastName:  ns.LastName,
			Username:  ns.Username,
			Email:     ns.Email,
		})
		if err != nil {
			return errors.Wrap(err, "saving student")
		}

		mods, err := mncModules(ctx, tx)
		if err != nil {
			return err
		}
		for _, mod := range mods {
			if _, err = registerStudent(ctx, tx, stud.ID, mod.Code); err != nil && err != ErrDuplicateRegistration {
				return errors.Wrapf(err, "registering student to %s", mod.Code)
			}
		}
		return nil
	})
	if err != nil {
		return Student{}, err
	}
	return stud, nil
}

func (svc *Service) QueryStudents(ctx context.Context) ([]Student, error) {
	var studs []Student
	err := svc.store.View(ctx, func(tx Tx) (err error) {
		studs, err = tx.Students().FindAll(ctx)
		return err
	})
	return studs, err
}

func (svc *Service) GetStudent(ctx context.Context, id int64) (Student, error) {
	var stud Student
	err := svc.store.View(ctx, func(tx Tx) (err error) {
		stud, err = tx.Students().Find(ctx, id)
		return err
	})
	return stud, err
}

// DeleteStudent removes the student along with its grades and registrations.
func (svc *Service) DeleteStudent(ctx context.Context, id int64) error {
	return svc.store.RunInTx(ctx, func(tx Tx) error {
		stud, err := tx.Students().Find(ctx, id)
		if err != nil {
			return err
		}

		grades, err := tx.Grades().FindByStudent(ctx, id)
		if err != nil {
			return errors.Wrap(err, "finding grades")
		}
		if len(grades) > 0 {
			if err = tx.Grades().DeleteMany(ctx, grades); err != nil {
				return errors.Wrap(err, "deleting grades")
			}
		}

		regs, err := tx.Registrations().FindByStudent(ctx, id)
		if err != nil {
			return errors.Wrap(err, "finding registrations")
		}
		if len(regs) > 0 {
			if err = tx.Registrations().DeleteMany(ctx, regs); err != nil {
				return errors.Wrap(err, "deleting registrations")
			}
		}

		return errors.Wrap(tx.Students().Delete(ctx, stud), "deleting student")
	})
}

func (svc *Service) StudentAverage(ctx context.Context, id int64) (float64, error) {
	var avg float64
	err := svc.store.View(ctx, func(tx Tx) error {
		stud, err := tx.Students().Find(ctx, id)
		if err != nil {
			return err
		}
		if stud.Grades, err = tx.Grades().FindByStudent(ctx, id); err != nil {
			return errors.Wrap(err, "finding grades")
		}
		avg = stud.Average()
		return nil
	})
	return avg, err
}

// Modules

func (svc *Service) CreateModule(ctx context.Context, nm NewModule) (Module, error) {
	if nm.Code == "" {
		return Module{}, ErrInvalidInput
	}
	var mod Module
	err := svc.store.RunInTx(ctx, func(tx Tx) error {
		if _, err := tx.Modules().Find(ctx, nm.Code); err == nil {
			return core.NewFieldError("code", ErrModuleExists)
		} else if err != ErrNotFound {
			return errors.Wrap(err, "checking module code")
		}

		var err error
		mod, err = tx.Modules().Save(ctx, Module{Code: nm.Code, Name: nm.Name, MNC: nm.MNC})
		if err != nil {
			return errors.Wrap(err, "saving module")
		}
		if !mod.MNC {
			return nil
		}

		studs, err := tx.Students().FindAll(ctx)
		if err != nil {
			return errors.Wrap(err, "finding students")
		}
		for _, stud := range studs {
			if _, err = registerStudent(ctx, tx, stud.ID, mod.Code); err != nil && err != ErrDuplicateRegistration {
				return errors.Wrapf(err, "registering student %d", stud.ID)
			}
		}
		return nil
	})
	if err != nil {
		return Module{}, err
	}
	return mod, nil
}

func (svc *Service) QueryModules(ctx context.Context) ([]Module, error) {
	var mods []Module
	err := svc.store.View(ctx, func(tx Tx) (err error) {
		mods, err = tx.Modules().FindAll(ctx)
		return err
	})
	return mods, err
}

func (svc *Service) GetModule(ctx context.Context, code string) (Module, error) {
	var mod Module
	err := svc.store.View(ctx, func(tx Tx) (err error) {
		mod, err = tx.Modules().Find(ctx, code)
		return err
	})
	return mod, err
}

// DeleteModule removes the module along with its grades and registrations.
func (svc *Service) DeleteModule(ctx context.Context, code string) error {
	return svc.store.RunInTx(ctx, func(tx Tx) error {
		mod, err := tx.Modules().Find(ctx, code)
		if err != nil {
			return err
		}

		grades, err := tx.Grades().FindByModule(ctx, code)
		if err != nil {
			return errors.Wrap(err, "finding grades")
		}
		if len(grades) > 0 {
			if err = tx.Grades().DeleteMany(ctx, grades); err != nil {
				return errors.Wrap(err, "deleting grades")
			}
		}

		regs, err := tx.Registrations().FindByModule(ctx, code)
		if err != nil {
			return errors.Wrap(err, "finding registrations")
		}
		if len(regs) > 0 {
			if err = tx.Registrations().DeleteMany(ctx, regs); err != nil {
				return errors.Wrap(err, "deleting registrations")
			}
		}

		return errors.Wrap(tx.Modules().Delete(ctx, mod), "deleting module")
	})
}

func (svc *Service) ModuleAverage(ctx context.Context, code string) (float64, error) {
	var avg float64
	err := svc.store.View(ctx, func(tx Tx) error {
		mod, err := tx.Modules().Find(ctx, code)
		if err != nil {
			return err
		}
		if mod.Grades, err = tx.Grades().FindByModule(ctx, code); err != nil {
			return errors.Wrap(err, "finding grades")
		}
		avg = mod.Average()
		return nil
	})
	return avg, err
}

// Registrations

func (svc *Service) RegisterStudent(ctx context.Context, nr NewRegistration) (Registration, error) {
	if nr.Student == nil || nr.Module == nil {
		return Registration{}, ErrInvalidInput
	}
	var reg Registration
	err := svc.store.RunInTx(ctx, func(tx Tx) (err error) {
		reg, err = registerStudent(ctx, tx, nr.Student.ID, nr.Module.Code)
		return err
	})
	if err != nil {
		return Registration{}, err
	}
	return reg, nil
}

// registerStudent links a student to a module inside tx. The module is checked first so an
// unknown module always wins over an unknown student.
func registerStudent(ctx context.Context, tx Tx, studentID int64, moduleCode string) (Registration, error) {
	mod, err := tx.Modules().Find(ctx, moduleCode)
	if err == ErrNotFound {
		return Registration{}, ErrInvalidModule
	} else if err != nil {
		return Registration{}, errors.Wrap(err, "finding module")
	}

	stud, err := tx.Students().Find(ctx, studentID)
	if err == ErrNotFound {
		return Registration{}, ErrInvalidStudent
	} else if err != nil {
		return Registration{}, errors.Wrap(err, "finding student")
	}

	exists, err := tx.Registrations().ExistsByPair(ctx, studentID, mod.Code)
	if err != nil {
		return Registration{}, errors.Wrap(err, "checking registration")
	}
	if exists {
		return Registration{}, ErrDuplicateRegistration
	}

	reg, err := tx.Registrations().Save(ctx, Registration{Student: stud, Module: mod})
	if err == ErrConflict {
		return Registration{}, ErrDuplicateRegistration
	} else if err != nil {
		return Registration{}, errors.Wrap(err, "saving registration")
	}
	return reg, nil
}

func (svc *Service) QueryRegistrations(ctx context.Context) ([]Registration, error) {
	var regs []Registration
	err := svc.store.View(ctx, func(tx Tx) (err error) {
		regs, err = tx.Registrations().FindAll(ctx)
		return err
	})
	return regs, err
}

// DeleteRegistration removes the registration and the grade of the same pair, if any.
func (svc *Service) DeleteRegistration(ctx context.Context, studentID int64, moduleCode string) error {
	return svc.store.RunInTx(ctx, func(tx Tx) error {
		reg, err := tx.Registrations().FindByPair(ctx, studentID, moduleCode)
		if err != nil {
			return err
		}

		grade, err := tx.Grades().FindByPair(ctx, studentID, moduleCode)
		switch err {
		case nil:
			if err = tx.Grades().Delete(ctx, grade); err != nil {
				return errors.Wrap(err, "deleting grade")
			}
		case ErrNotFound:
		default:
			return errors.Wrap(err, "finding grade")
		}

		return errors.Wrap(tx.Registrations().Delete(ctx, reg), "deleting registration")
	})
}

// Grades

// UpsertGrade updates the score of the (student, module) grade, creating the grade if needed.
func (svc *Service) UpsertGrade(ctx context.Context, ng NewGrade) (Grade, error) {
	if ng.Score == nil || ng.Student == nil || ng.Module == nil {
		return Grade{}, ErrInvalidInput
	}
	var grade Grade
	err := svc.store.RunInTx(ctx, func(tx Tx) error {
		mod, err := tx.Modules().Find(ctx, ng.Module.Code)
		if err == ErrNotFound {
			return ErrInvalidModule
		} else if err != nil {
			return errors.Wrap(err, "finding module")
		}
		stud, err := tx.Students().Find(ctx, ng.Student.ID)
		if err == ErrNotFound {
			return ErrInvalidStudent
		} else if err != nil {
			return errors.Wrap(err, "finding student")
		}

		grade, err = tx.Grades().FindByPair(ctx, stud.ID, mod.Code)
		switch err {
		case nil:
			if err = grade.SetScore(*ng.Score); err != nil {
				return err
			}
		case ErrNotFound:
			if grade, err = MakeGrade(*ng.Score, stud, mod); err != nil {
				return err
			}
		default:
			return errors.Wrap(err, "finding grade")
		}

		grade, err = tx.Grades().Save(ctx, grade)
		if err != nil {
			return errors.Wrap(err, "saving grade")
		}
		return nil
	})
	if err != nil {
		return Grade{}, err
	}
	return grade, nil
}

func (svc *Service) QueryGrades(ctx context.Context) ([]Grade, error) {
	var grades []Grade
	err := svc.store.View(ctx, func(tx Tx) (err error) {
		grades, err = tx.Grades().FindAll(ctx)
		return err
	})
	return grades, err
}

// Stats counts the rows of every entity set in one consistent read.
func (svc *Service) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	err := svc.store.View(ctx, func(tx Tx) error {
		studs, err := tx.Students().FindAll(ctx)
		if err != nil {
			return errors.Wrap(err, "counting students")
		}
		mods, err := tx.Modules().FindAll(ctx)
		if err != nil {
			return errors.Wrap(err, "counting modules")
		}
		regs, err := tx.Registrations().FindAll(ctx)
		if err != nil {
			return errors.Wrap(err, "counting registrations")
		}
		grades, err := tx.Grades().FindAll(ctx)
		if err != nil {
			return errors.Wrap(err, "counting grades")
		}

		stats = Stats{
			Students:      len(studs),
			Modules:       len(mods),
			Registrations: len(regs),
			Grades:        len(grades),
		}
		for _, mod := range mods {
			if mod.MNC {
				stats.MNCModules++
			}
		}
		return nil
	})
	return stats, err
}
