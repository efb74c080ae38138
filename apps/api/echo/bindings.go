package echoapi

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/trezcool/gradebook/core/grading"
)

type gradingApi struct {
	svc      grading.ServiceInterface
	validate *validator.Validate
}

// studentIDParam reads a student id path parameter.
// An id that cannot be parsed addresses no student.
func studentIDParam(ctx echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errHttpNotFound
	}
	return id, nil
}

func moduleCodeParam(ctx echo.Context, name string) (string, error) {
	code := strings.TrimSpace(ctx.Param(name))
	if code == "" {
		return "", errHttpNotFound
	}
	return code, nil
}
