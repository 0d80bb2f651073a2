package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	Decision string `json:"triage_decision" validate:"required,oneof=emergent urgent schedule_opd"`
	Email    string `json:"email" validate:"omitempty,email"`
	Birthday string `json:"birthday" validate:"omitempty,datetime=2006-01-02"`
	Age      int    `json:"age" validate:"gte=0,lte=150"`
}

func TestValidate_FormatsByJSONName(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&sampleRequest{Decision: "critical", Email: "nope", Birthday: "01/02/2000", Age: 200})
	require.Error(t, err)

	errs := v.FormatValidationErrors(err)
	assert.Equal(t, "triage_decision must be one of: emergent, urgent, schedule_opd", errs["triage_decision"])
	assert.Equal(t, "email must be a valid email address", errs["email"])
	assert.Equal(t, "birthday must match the format 2006-01-02", errs["birthday"])
	assert.Equal(t, "age must be less than or equal to 150", errs["age"])
}

func TestValidate_Required(t *testing.T) {
	v := NewValidator()
	errs := v.FormatValidationErrors(v.Validate(&sampleRequest{}))
	assert.Equal(t, map[string]string{"triage_decision": "triage_decision is required"}, errs)
}

func TestValidate_OK(t *testing.T) {
	assert.NoError(t, NewValidator().Validate(&sampleRequest{Decision: "urgent", Age: 30}))
}
