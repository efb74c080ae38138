package tests

import (
	"net/http"
	"testing"

	"github.com/trezcool/gradebook/core/grading"
	"github.com/trezcool/gradebook/tests"
)

func Test_studentApi(t *testing.T) {
	for _, engine := range testutil.Engines {
		t.Run(engine, func(t *testing.T) {
			app, store := setup(t, engine)

			tm1 := testutil.CreateModule(t, store, "TM1", "TestModule1", false)
			tm2 := testutil.CreateModule(t, store, "TM2", "TestModule2", true)
			stud2 := testutil.CreateStudent(t, store, 2, "Second", "Student")
			testutil.CreateRegistration(t, store, stud2, tm1)
			testutil.CreateGrade(t, store, 70, stud2, tm1)
			testutil.CreateGrade(t, store, 75, stud2, tm2)

			stud1 := grading.Student{ID: 1, FirstName: "First", LastName: "Student", Username: "fstudent", Email: "first@test.ac.uk"}
			newStud := []byte(`{"id": 1, "firstName": " First ", "lastName": "Student", "username": "fstudent", "email": "first@test.ac.uk"}`)

			tests := []httpTest{
				{name: "list", path: "/students", wantCode: http.StatusOK, wantData: marchallList(t, stud2)},
				{name: "create", method: http.MethodPost, path: "/students", body: newStud, wantCode: http.StatusOK, wantData: marchallObj(t, stud1)},
				{
					name: "create (taken id)", method: http.MethodPost, path: "/students", body: newStud,
					wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"id": grading.ErrStudentExists.Error()}),
				},
				{
					name: "create (missing id)", method: http.MethodPost, path: "/students", body: []byte(`{"firstName": "Nobody"}`),
					wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"id": "this field is required"}),
				},
				{
					name: "create (null body)", method: http.MethodPost, path: "/students", body: []byte(`null`),
					wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"id": "this field is required"}),
				},
				{name: "list (after create)", path: "/students", wantCode: http.StatusOK, wantData: marchallList(t, stud1, stud2)},
				{name: "retrieve", path: "/students/1", wantCode: http.StatusOK, wantData: marchallObj(t, stud1)},
				{name: "retrieve (trailing slash)", path: "/students/1/", wantCode: http.StatusOK, wantData: marchallObj(t, stud1)},
				{name: "retrieve (unknown)", path: "/students/9", wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)},
				{name: "retrieve (bad id)", path: "/students/abc", wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)},
				// mandatory modules are registered on creation
				{name: "modules", path: "/students/1/modules", wantCode: http.StatusOK, wantData: marchallList(t, tm2)},
				{name: "modules (unknown)", path: "/students/9/modules", wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)},
				{name: "grades (none yet)", path: "/students/1/grades", wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)},
				{name: "grades (unknown)", path: "/students/9/grades", wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)},
				// the TM2 grade of student 2 has no registration
				{name: "grades", path: "/students/2/grades", wantCode: http.StatusOK, wantData: marchallList(t, gradeJSON(t, 1, 70, stud2, tm1))},
				{name: "average", path: "/students/2/average", wantCode: http.StatusOK, wantData: []byte(`{"average": 72.5}`)},
				{name: "average (no grades)", path: "/students/1/average", wantCode: http.StatusOK, wantData: []byte(`{"average": 0}`)},
				{name: "average (unknown)", path: "/students/9/average", wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)},
				{name: "delete", method: http.MethodDelete, path: "/students/2", wantCode: http.StatusNoContent},
				{name: "delete (again)", method: http.MethodDelete, path: "/students/2", wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)},
				{name: "list (after delete)", path: "/students", wantCode: http.StatusOK, wantData: marchallList(t, stud1)},
				{name: "grades (after delete)", path: "/grades", wantCode: http.StatusOK, wantData: empty},
				{
					name: "registrations (after delete)", path: "/registrations", wantCode: http.StatusOK,
					wantData: marchallList(t, grading.Registration{ID: 2, Student: stud1, Module: tm2}),
				},
			}
			runHTTPTests(t, app, tests)
		})
	}
}

// gradeJSON renders a grade the way the API does.
func gradeJSON(t *testing.T, id int64, score int, stud grading.Student, mod grading.Module) grading.Grade {
	t.Helper()

	g, err := grading.MakeGrade(score, stud, mod)
	if err != nil {
		t.Fatalf("gradeJSON() failed: %v", err)
	}
	g.ID = id
	return g
}
