package customvalidator

import (
	"testing"

	"github.com/aarondl/null/v8"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Priority string      `validate:"omitempty,mr_priority"`
	Type     null.String `validate:"omitempty,mr_request_type"`
	Color    string      `validate:"omitempty,hex_color"`
	Email    string      `validate:"omitempty,email"`
}

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	require.NoError(t, RegisterCustomValidations(v))
	return v
}

func TestRules(t *testing.T) {
	v := newValidator(t)

	assert.NoError(t, v.Struct(sample{Priority: "urgent", Type: null.StringFrom("preventive"), Color: "#0d6efd", Email: "tech@plant.io"}))
	assert.NoError(t, v.Struct(sample{}), "пустые значения пропускаются через omitempty")

	assert.Error(t, v.Struct(sample{Priority: "critical"}))
	assert.Error(t, v.Struct(sample{Type: null.StringFrom("emergency")}))
	assert.Error(t, v.Struct(sample{Color: "blue"}))
	assert.Error(t, v.Struct(sample{Email: "not-an-email"}))
}
