package tests

import (
	"context"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/grading"
	"github.com/trezcool/gradebook/storage/database"
)

func TestServer_home(t *testing.T) {
	app, _ := setup(t, database.EngineMemory)

	req, rec := newRequest(http.MethodGet, "/")
	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to Gradebook API!", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestServer_cors(t *testing.T) {
	app, _ := setup(t, database.EngineMemory)

	tests := []struct {
		name       string
		origin     string
		wantOrigin string
	}{
		{name: "allowed origin", origin: corsOrigin, wantOrigin: corsOrigin},
		{name: "other origin", origin: "http://evil.test"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodOptions, "/students")
			req.Header.Set(echo.HeaderOrigin, tt.origin)
			req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
			app.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusNoContent, rec.Code)
			assert.Equal(t, tt.wantOrigin, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
			if tt.wantOrigin == "" {
				return
			}
			assert.Equal(t, "true", rec.Header().Get(echo.HeaderAccessControlAllowCredentials))
			assert.Equal(t, "GET,POST,PUT,DELETE,OPTIONS", rec.Header().Get(echo.HeaderAccessControlAllowMethods))
		})
	}
}

func TestServer_unknownRoute(t *testing.T) {
	app, _ := setup(t, database.EngineMemory)

	req, rec := newRequest(http.MethodGet, "/teachers")
	app.ServeHTTP(rec, req)

	checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "Not Found"})}, rec)
}

// corruptGrades serves a grade row that breaks the score range.
type corruptGrades struct {
	grading.ServiceInterface
}

func (corruptGrades) QueryGrades(context.Context) ([]grading.Grade, error) {
	err := core.NewShutdownError(grading.ErrInvalidGrade, "stored grade %d has score %d", 1, 150)
	return nil, errors.Wrap(err, "finding grades")
}

func TestServer_shutdownOnCorruptData(t *testing.T) {
	app := newServer(t, corruptGrades{})

	req, rec := newRequest(http.MethodGet, "/grades")
	app.ServeHTTP(rec, req)

	checkCodeAndData(t, httpTest{wantCode: http.StatusInternalServerError, wantData: marchallObj(t, httpErr{Error: "Internal Server Error"})}, rec)
	select {
	case <-app.ShutdownSignal():
	default:
		t.Error("shutdown was not signalled")
	}
}

func TestServer_errorsAreNotShutdowns(t *testing.T) {
	app, _ := setup(t, database.EngineMemory)

	req, rec := newRequest(http.MethodPost, "/registrations", []byte(`{"student": {"id": 1}, "module": {"code": "NOPE"}}`))
	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid module ID provided.", rec.Body.String())
	assert.Equal(t, 0, len(app.ShutdownSignal()))
}
