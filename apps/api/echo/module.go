package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core/grading"
)

func registerModuleAPI(e *echo.Echo, api gradingApi) {
	mg := e.Group("/modules")
	mg.GET("", api.queryModules)
	mg.POST("", api.createModule)

	// detail endpoints
	mg.GET("/:code", api.retrieveModule)
	mg.DELETE("/:code", api.destroyModule)
	mg.GET("/:code/grades", api.moduleGrades)
	mg.GET("/:code/students", api.moduleStudents)
	mg.GET("/:code/average", api.moduleAverage)

	// module codes are client-assigned, so the MNC list lives outside /modules
	e.GET("/mnc-modules", api.queryMNCModules)
}

// Handlers

func (api *gradingApi) queryModules(ctx echo.Context) error {
	mods, err := api.svc.QueryModules(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying modules")
	}
	if mods == nil {
		mods = []grading.Module{}
	}
	return ctx.JSON(http.StatusOK, mods)
}

func (api *gradingApi) queryMNCModules(ctx echo.Context) error {
	mods, err := api.svc.MNCModules(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying mandatory modules")
	}
	if mods == nil {
		mods = []grading.Module{}
	}
	return ctx.JSON(http.StatusOK, mods)
}

func (api *gradingApi) createModule(ctx echo.Context) error {
	var data grading.NewModule
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewModule")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	mod, err := api.svc.CreateModule(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating module")
	}
	return ctx.JSON(http.StatusOK, mod)
}

func (api *gradingApi) retrieveModule(ctx echo.Context) error {
	code, err := moduleCodeParam(ctx, "code")
	if err != nil {
		return err
	}
	mod, err := api.svc.GetModule(ctx.Request().Context(), code)
	if err != nil {
		return errors.Wrap(err, "finding module by code")
	}
	return ctx.JSON(http.StatusOK, mod)
}

func (api *gradingApi) destroyModule(ctx echo.Context) error {
	code, err := moduleCodeParam(ctx, "code")
	if err != nil {
		return err
	}
	if err = api.svc.DeleteModule(ctx.Request().Context(), code); err != nil {
		return errors.Wrap(err, "deleting module")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *gradingApi) moduleGrades(ctx echo.Context) error {
	code, err := moduleCodeParam(ctx, "code")
	if err != nil {
		return err
	}
	grades, err := api.svc.GradesOfModule(ctx.Request().Context(), code)
	if err != nil {
		return errors.Wrap(err, "querying module grades")
	}
	return ctx.JSON(http.StatusOK, grades)
}

func (api *gradingApi) moduleStudents(ctx echo.Context) error {
	code, err := moduleCodeParam(ctx, "code")
	if err != nil {
		return err
	}
	studs, err := api.svc.StudentsOfModule(ctx.Request().Context(), code)
	if err != nil {
		return errors.Wrap(err, "querying module students")
	}
	return ctx.JSON(http.StatusOK, studs)
}

func (api *gradingApi) moduleAverage(ctx echo.Context) error {
	code, err := moduleCodeParam(ctx, "code")
	if err != nil {
		return err
	}
	avg, err := api.svc.ModuleAverage(ctx.Request().Context(), code)
	if err != nil {
		return errors.Wrap(err, "computing module average")
	}
	return ctx.JSON(http.StatusOK, AverageResponse{Average: avg})
}
