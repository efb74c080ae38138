package grading

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/gradebook/core"
)

const (
	MinScore = 0
	MaxScore = 100
)

type Student struct {
	ID        int64   `json:"id"`
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	Grades    []Grade `json:"-"`
}

// GradeFor returns the student's grade in module m, if any.
func (s Student) GradeFor(m Module) (Grade, bool) {
	for _, g := range s.Grades {
		if g.Module.Code == m.Code {
			return g, true
		}
	}
	return Grade{}, false
}

// Average is the mean score of the student's grades, 0 when there are none.
func (s Student) Average() float64 {
	return average(s.Grades)
}

type Module struct {
	Code   string  `json:"code"`
	Name   string  `json:"name"`
	MNC    bool    `json:"mnc"`
	Grades []Grade `json:"-"`
}

func (m Module) Average() float64 {
	return average(m.Grades)
}

type Registration struct {
	ID      int64   `json:"id"`
	Student Student `json:"student"`
	Module  Module  `json:"module"`
}

// Grade can only hold a score within [MinScore, MaxScore]; build it with MakeGrade.
type Grade struct {
	ID      int64
	Student Student
	Module  Module
	score   int
}

func MakeGrade(score int, student Student, module Module) (Grade, error) {
	if !validScore(score) {
		return Grade{}, ErrInvalidGrade
	}
	return Grade{Student: student, Module: module, score: score}, nil
}

func (g Grade) Score() int {
	return g.score
}

func (g *Grade) SetScore(score int) error {
	if !validScore(score) {
		return ErrInvalidGrade
	}
	g.score = score
	return nil
}

type gradeJSON struct {
	ID      int64   `json:"id"`
	Score   int     `json:"score"`
	Student Student `json:"student"`
	Module  Module  `json:"module"`
}

func (g Grade) MarshalJSON() ([]byte, error) {
	return json.Marshal(gradeJSON{ID: g.ID, Score: g.score, Student: g.Student, Module: g.Module})
}

func validScore(score int) bool {
	return score >= MinScore && score <= MaxScore
}

func average(grades []Grade) float64 {
	if len(grades) == 0 {
		return 0
	}
	var sum int
	for _, g := range grades {
		sum += g.score
	}
	return float64(sum) / float64(len(grades))
}

// Stats holds the number of rows in each entity set.
type Stats struct {
	Students      int `json:"students"`
	Modules       int `json:"modules"`
	MNCModules    int `json:"mncModules"`
	Registrations int `json:"registrations"`
	Grades        int `json:"grades"`
}

// Request payloads

type StudentRef struct {
	ID int64 `json:"id" validate:"required"`
}

type ModuleRef struct {
	Code string `json:"code" validate:"required,notblank"`
}

// NewStudent contains information needed to create a new Student.
type NewStudent struct {
	ID        int64  `json:"id" validate:"required"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Username  string `json:"username"`
	Email     string `json:"email"`
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.FirstName = core.CleanString(ns.FirstName)
	ns.LastName = core.CleanString(ns.LastName)
	ns.Username = core.CleanString(ns.Username)
	ns.Email = core.CleanString(ns.Email)
	return validate.Struct(ns)
}

// NewModule contains information needed to create a new Module.
type NewModule struct {
	Code string `json:"code" validate:"required,notblank"`
	Name string `json:"name"`
	MNC  bool   `json:"mnc"`
}

func (nm *NewModule) Validate(validate *validator.Validate) error {
	nm.Code = core.CleanString(nm.Code)
	nm.Name = core.CleanString(nm.Name)
	return validate.Struct(nm)
}

// NewRegistration links a student to a module; only the keys are read.
type NewRegistration struct {
	Student *StudentRef `json:"student" validate:"required"`
	Module  *ModuleRef  `json:"module" validate:"required"`
}

func (nr *NewRegistration) Validate(validate *validator.Validate) error {
	if nr.Module != nil {
		nr.Module.Code = core.CleanString(nr.Module.Code)
	}
	return validate.Struct(nr)
}

// NewGrade sets the score of a student in a module.
// Score is a pointer so that an explicit 0 is told apart from a missing score.
type NewGrade struct {
	Score   *int        `json:"score" validate:"required"`
	Student *StudentRef `json:"student" validate:"required"`
	Module  *ModuleRef  `json:"module" validate:"required"`
}

func (ng *NewGrade) Validate(validate *validator.Validate) error {
	if ng.Module != nil {
		ng.Module.Code = core.CleanString(ng.Module.Code)
	}
	return validate.Struct(ng)
}
