package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core/grading"
)

func registerRegistrationAPI(e *echo.Echo, api gradingApi) {
	rg := e.Group("/registrations")
	rg.GET("", api.queryRegistrations)
	rg.POST("", api.register)
	rg.DELETE("/:studentId/:moduleCode", api.destroyRegistration)
}

func (api *gradingApi) queryRegistrations(ctx echo.Context) error {
	regs, err := api.svc.QueryRegistrations(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying registrations")
	}
	if regs == nil {
		regs = []grading.Registration{}
	}
	return ctx.JSON(http.StatusOK, regs)
}

func (api *gradingApi) register(ctx echo.Context) error {
	var data grading.NewRegistration
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRegistration")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	reg, err := api.svc.RegisterStudent(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "registering student")
	}
	return ctx.JSON(http.StatusOK, reg)
}

func (api *gradingApi) destroyRegistration(ctx echo.Context) error {
	studentID, err := studentIDParam(ctx, "studentId")
	if err != nil {
		return err
	}
	code, err := moduleCodeParam(ctx, "moduleCode")
	if err != nil {
		return err
	}
	if err = api.svc.DeleteRegistration(ctx.Request().Context(), studentID, code); err != nil {
		return errors.Wrap(err, "deleting registration")
	}
	return ctx.NoContent(http.StatusNoContent)
}
