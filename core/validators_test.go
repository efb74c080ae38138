package core

import (
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestValidator(t *testing.T) (*validator.Validate, ut.Translator) {
	_en := en.New()
	translator, found := ut.New(_en, _en).GetTranslator("en")
	require.True(t, found)
	validate := validator.New()
	InitValidators(validate, translator)
	return validate, translator
}

func TestTranslateErrors(t *testing.T) {
	validate, translator := newTestValidator(t)

	type ref struct {
		Code string `json:"code" validate:"required,notblank"`
	}
	type payload struct {
		Name   string `json:"name" validate:"required"`
		Module *ref   `json:"module" validate:"required"`
	}

	tests := []struct {
		name string
		in   payload
		want map[string]string
	}{
		{
			name: "missing everything",
			in:   payload{},
			want: map[string]string{"name": "this field is required", "module": "this field is required"},
		},
		{
			name: "nested blank",
			in:   payload{Name: "x", Module: &ref{Code: "  "}},
			want: map[string]string{"module.code": "this field cannot be blank"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.in)
			require.Error(t, err)
			vErrs, ok := err.(validator.ValidationErrors)
			require.True(t, ok)
			assert.Equal(t, tt.want, TranslateErrors(vErrs, translator))
		})
	}

	assert.NoError(t, validate.Struct(payload{Name: "x", Module: &ref{Code: "TM1"}}))
}

func TestCleanString(t *testing.T) {
	assert.Equal(t, "TM1", CleanString("  TM1 \n"))
	assert.Equal(t, "oliver.reed", CleanString(" Oliver.Reed ", true))
}

func TestIsShutdown(t *testing.T) {
	cause := errors.New("score out of range")
	err := errors.Wrap(NewShutdownError(cause, "grade %d", 7), "finding grades")

	assert.True(t, IsShutdown(err))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "finding grades: grade 7: score out of range", err.Error())
	assert.False(t, IsShutdown(NewValidationError(nil)))
	assert.False(t, IsShutdown(cause))
}

func TestNewFieldError(t *testing.T) {
	taken := errors.New("A student with this ID already exists.")
	err := errors.Wrap(NewFieldError("id", taken), "creating student")

	var vErr *ValidationError
	assert.True(t, errors.As(err, &vErr))
	assert.Equal(t, []FieldError{{Field: "id", Error: taken.Error()}}, vErr.Fields)
	assert.True(t, errors.Is(err, taken))
	assert.Equal(t, "validation failed", (&ValidationError{}).Error())
}
