package grading

import "github.com/pkg/errors"

var (
	ErrNotFound              = errors.New("not found")
	ErrDuplicateRegistration = errors.New("This registration already exists.")
	ErrInvalidModule         = errors.New("Invalid module ID provided.")
	ErrInvalidStudent        = errors.New("Invalid student ID provided.")
	ErrInvalidGrade          = errors.New("Grade score must be between 0 and 100.")

	// invalid input
	ErrInvalidInput  = errors.New("Invalid input provided.")
	ErrStudentExists = errors.New("A student with this ID already exists.")
	ErrModuleExists  = errors.New("A module with this code already exists.")

	// ErrConflict is returned by a Store when a write hits a uniqueness constraint.
	ErrConflict = errors.New("conflicting write")
)

var clientErrors = []error{
	ErrDuplicateRegistration, ErrInvalidModule, ErrInvalidStudent, ErrInvalidGrade,
	ErrInvalidInput, ErrStudentExists, ErrModuleExists,
}

// IsClientError reports whether err is caused by the caller's input rather than by the system.
func IsClientError(err error) bool {
	for _, cErr := range clientErrors {
		if errors.Is(err, cErr) {
			return true
		}
	}
	return false
}
