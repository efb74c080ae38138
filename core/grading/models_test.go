package grading

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/gradebook/core"
)

func TestMakeGrade(t *testing.T) {
	stud := Student{ID: 1, FirstName: "First", LastName: "Student"}
	mod := Module{Code: "TM1", Name: "TestModule1"}

	tests := []struct {
		name    string
		score   int
		wantErr error
	}{
		{name: "negative", score: -5, wantErr: ErrInvalidGrade},
		{name: "just below", score: -1, wantErr: ErrInvalidGrade},
		{name: "lower bound", score: 0},
		{name: "middle", score: 73},
		{name: "upper bound", score: 100},
		{name: "just above", score: 101, wantErr: ErrInvalidGrade},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := MakeGrade(tt.score, stud, mod)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, err)
				assert.Equal(t, Grade{}, g)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.score, g.Score())
			assert.Equal(t, "TM1", g.Module.Code)
			assert.Equal(t, int64(1), g.Student.ID)
		})
	}
}

func TestGrade_SetScore(t *testing.T) {
	g, err := MakeGrade(80, Student{ID: 1}, Module{Code: "TM1"})
	require.NoError(t, err)

	assert.Equal(t, ErrInvalidGrade, g.SetScore(101))
	assert.Equal(t, 80, g.Score(), "a rejected score must leave the grade untouched")

	assert.NoError(t, g.SetScore(95))
	assert.Equal(t, 95, g.Score())
}

func TestGrade_MarshalJSON(t *testing.T) {
	stud := Student{ID: 1, FirstName: "First", LastName: "Student", Username: "fs", Email: "fs@test.ac.uk"}
	mod := Module{Code: "TM1", Name: "TestModule1"}
	g, err := MakeGrade(80, stud, mod)
	require.NoError(t, err)
	g.ID = 3
	stud.Grades = []Grade{g}

	data, err := json.Marshal(g)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": 3, "score": 80,
		"student": {"id": 1, "firstName": "First", "lastName": "Student", "username": "fs", "email": "fs@test.ac.uk"},
		"module": {"code": "TM1", "name": "TestModule1", "mnc": false}
	}`, string(data))

	// grades are never embedded in a student
	data, err = json.Marshal(stud)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "grades")
	assert.NotContains(t, string(data), "Grades")
}

func TestStudent_GradeFor(t *testing.T) {
	tm1 := Module{Code: "TM1"}
	tm2 := Module{Code: "TM2"}
	g1, _ := MakeGrade(40, Student{ID: 1}, tm1)
	stud := Student{ID: 1, Grades: []Grade{g1}}

	got, ok := stud.GradeFor(tm1)
	assert.True(t, ok)
	assert.Equal(t, 40, got.Score())

	_, ok = stud.GradeFor(tm2)
	assert.False(t, ok)

	_, ok = Student{ID: 2}.GradeFor(tm1)
	assert.False(t, ok)
}

func TestStudent_Average(t *testing.T) {
	grade := func(score int, code string) Grade {
		g, err := MakeGrade(score, Student{ID: 1}, Module{Code: code})
		require.NoError(t, err)
		return g
	}

	tests := []struct {
		name   string
		grades []Grade
		want   float64
	}{
		{name: "no grades", want: 0},
		{name: "single", grades: []Grade{grade(72, "TM1")}, want: 72},
		{name: "not truncated", grades: []Grade{grade(70, "TM1"), grade(75, "TM2")}, want: 72.5},
		{name: "thirds", grades: []Grade{grade(1, "TM1"), grade(1, "TM2"), grade(0, "TM3")}, want: 2.0 / 3.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Student{ID: 1, Grades: tt.grades}.Average(), 1e-9)
			assert.InDelta(t, tt.want, Module{Code: "TM1", Grades: tt.grades}.Average(), 1e-9)
		})
	}
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError(ErrDuplicateRegistration))
	assert.True(t, IsClientError(ErrStudentExists))
	assert.True(t, IsClientError(errors.Wrap(core.NewFieldError("code", ErrModuleExists), "creating module")))
	assert.False(t, IsClientError(ErrNotFound))
	assert.False(t, IsClientError(ErrConflict))
}
