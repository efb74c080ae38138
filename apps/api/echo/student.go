package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core/grading"
)

func registerStudentAPI(e *echo.Echo, api gradingApi) {
	sg := e.Group("/students")
	sg.GET("", api.queryStudents)
	sg.POST("", api.createStudent)

	// detail endpoints
	sg.GET("/:id", api.retrieveStudent)
	sg.DELETE("/:id", api.destroyStudent)
	sg.GET("/:id/grades", api.studentGrades)
	sg.GET("/:id/modules", api.studentModules)
	sg.GET("/:id/average", api.studentAverage)
}

type AverageResponse struct {
	Average float64 `json:"average"`
}

// Handlers

func (api *gradingApi) queryStudents(ctx echo.Context) error {
	studs, err := api.svc.QueryStudents(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	if studs == nil {
		studs = []grading.Student{}
	}
	return ctx.JSON(http.StatusOK, studs)
}

func (api *gradingApi) createStudent(ctx echo.Context) error {
	var data grading.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	stud, err := api.svc.CreateStudent(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return ctx.JSON(http.StatusOK, stud)
}

func (api *gradingApi) retrieveStudent(ctx echo.Context) error {
	id, err := studentIDParam(ctx, "id")
	if err != nil {
		return err
	}
	stud, err := api.svc.GetStudent(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "finding student by ID")
	}
	return ctx.JSON(http.StatusOK, stud)
}

func (api *gradingApi) destroyStudent(ctx echo.Context) error {
	id, err := studentIDParam(ctx, "id")
	if err != nil {
		return err
	}
	if err = api.svc.DeleteStudent(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *gradingApi) studentGrades(ctx echo.Context) error {
	id, err := studentIDParam(ctx, "id")
	if err != nil {
		return err
	}
	grades, err := api.svc.GradesOfStudent(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "querying student grades")
	}
	return ctx.JSON(http.StatusOK, grades)
}

func (api *gradingApi) studentModules(ctx echo.Context) error {
	id, err := studentIDParam(ctx, "id")
	if err != nil {
		return err
	}
	mods, err := api.svc.ModulesOfStudent(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "querying student modules")
	}
	return ctx.JSON(http.StatusOK, mods)
}

func (api *gradingApi) studentAverage(ctx echo.Context) error {
	id, err := studentIDParam(ctx, "id")
	if err != nil {
		return err
	}
	avg, err := api.svc.StudentAverage(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "computing student average")
	}
	return ctx.JSON(http.StatusOK, AverageResponse{Average: avg})
}
