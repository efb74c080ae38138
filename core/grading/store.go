package grading

import "context"

type (
	// Store runs units of work over the four entity sets.
	// RunInTx commits only if fn returns nil and ctx is still live; otherwise nothing is written.
	// Concurrent units behave as if run one after the other.
	Store interface {
		RunInTx(ctx context.Context, fn func(tx Tx) error) error
		View(ctx context.Context, fn func(tx Tx) error) error
	}

	Tx interface {
		Students() StudentRepository
		Modules() ModuleRepository
		Registrations() RegistrationRepository
		Grades() GradeRepository
	}

	// Repositories return copies, ErrNotFound for missing rows and ErrConflict when a
	// write hits a uniqueness constraint. Lists are never nil.

	StudentRepository interface {
		Save(ctx context.Context, s Student) (Student, error)
		Find(ctx context.Context, id int64) (Student, error)
		FindAll(ctx context.Context) ([]Student, error)
		Delete(ctx context.Context, s Student) error
		DeleteMany(ctx context.Context, students []Student) error
	}

	ModuleRepository interface {
		Save(ctx context.Context, m Module) (Module, error)
		Find(ctx context.Context, code string) (Module, error)
		FindAll(ctx context.Context) ([]Module, error)
		Delete(ctx context.Context, m Module) error
		DeleteMany(ctx context.Context, modules []Module) error
	}

	// RegistrationRepository inserts when Registration.ID is 0 and updates otherwise.
	RegistrationRepository interface {
		Save(ctx context.Context, r Registration) (Registration, error)
		Find(ctx context.Context, id int64) (Registration, error)
		FindAll(ctx context.Context) ([]Registration, error)
		Delete(ctx context.Context, r Registration) error
		DeleteMany(ctx context.Context, regs []Registration) error
		ExistsByPair(ctx context.Context, studentID int64, moduleCode string) (bool, error)
		FindByPair(ctx context.Context, studentID int64, moduleCode string) (Registration, error)
		FindByStudent(ctx context.Context, studentID int64) ([]Registration, error)
		FindByModule(ctx context.Context, moduleCode string) ([]Registration, error)
	}

	// GradeRepository inserts when Grade.ID is 0 and updates otherwise.
	GradeRepository interface {
		Save(ctx context.Context, g Grade) (Grade, error)
		Find(ctx context.Context, id int64) (Grade, error)
		FindAll(ctx context.Context) ([]Grade, error)
		Delete(ctx context.Context, g Grade) error
		DeleteMany(ctx context.Context, grades []Grade) error
		FindByPair(ctx context.Context, studentID int64, moduleCode string) (Grade, error)
		FindByStudent(ctx context.Context, studentID int64) ([]Grade, error)
		FindByModule(ctx context.Context, moduleCode string) ([]Grade, error)
	}
)
