package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core/grading"
)

func registerGradeAPI(e *echo.Echo, api gradingApi) {
	gg := e.Group("/grades")
	gg.GET("", api.queryGrades)
	gg.POST("", api.upsertGrade)
}

func (api *gradingApi) queryGrades(ctx echo.Context) error {
	grades, err := api.svc.QueryGrades(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying grades")
	}
	if grades == nil {
		grades = []grading.Grade{}
	}
	return ctx.JSON(http.StatusOK, grades)
}

// upsertGrade records the score of a (student, module) pair, replacing any previous one.
func (api *gradingApi) upsertGrade(ctx echo.Context) error {
	var data grading.NewGrade
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewGrade")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	grade, err := api.svc.UpsertGrade(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "saving grade")
	}
	return ctx.JSON(http.StatusOK, grade)
}
