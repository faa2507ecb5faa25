package validation

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireValidation(t *testing.T, err error, field string) *apperr.Error {
	t.Helper()
	require.Error(t, err)
	var appErr *apperr.Error
	require.True(t, errors.As(err, &appErr), "want *apperr.Error, got %T", err)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Equal(t, apperr.CodeValidation, appErr.Code)
	assert.Equal(t, field, appErr.Field)
	return appErr
}

func TestRegisterInput(t *testing.T) {
	v := New()

	tests := []struct {
		name  string
		in    RegisterInput
		field string
	}{
		{"valid", RegisterInput{Email: "a@x.com", Password: "Abcdef12"}, ""},
		{"valid with names", RegisterInput{Email: "a@x.com", Password: "Abcdef12", FirstName: "Ada", LastName: "L"}, ""},
		{"missing email", RegisterInput{Password: "Abcdef12"}, "email"},
		{"bad email", RegisterInput{Email: "nope", Password: "Abcdef12"}, "email"},
		{"missing password", RegisterInput{Email: "a@x.com"}, "password"},
		{"short password", RegisterInput{Email: "a@x.com", Password: "Abc12"}, "password"},
		{"no upper", RegisterInput{Email: "a@x.com", Password: "abcdef12"}, "password"},
		{"no lower", RegisterInput{Email: "a@x.com", Password: "ABCDEF12"}, "password"},
		{"no digit", RegisterInput{Email: "a@x.com", Password: "Abcdefgh"}, "password"},
		{"too long password", RegisterInput{Email: "a@x.com", Password: "Ab1" + strings.Repeat("x", 70)}, "password"},
		{"long first name", RegisterInput{Email: "a@x.com", Password: "Abcdef12", FirstName: strings.Repeat("x", 51)}, "firstName"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Struct(&tc.in)
			if tc.field == "" {
				assert.NoError(t, err)
				return
			}
			requireValidation(t, err, tc.field)
		})
	}
}

func TestStruct_ReportsFirstViolationOnly(t *testing.T) {
	err := New().Struct(&RegisterInput{})
	appErr := requireValidation(t, err, "email")
	assert.Equal(t, "email is required", appErr.Message)
}

func TestProfileInput_NilFieldsAreSkipped(t *testing.T) {
	v := New()
	assert.NoError(t, v.Struct(&ProfileInput{}))

	long := strings.Repeat("x", 51)
	requireValidation(t, v.Struct(&ProfileInput{LastName: &long}), "lastName")
}

func TestParseSuggestion(t *testing.T) {
	v := New()

	tests := []struct {
		name    string
		body    string
		wantAge int
		field   string
		message string
	}{
		{"number", `{"age":25,"healthGoal":"energy"}`, 25, "", ""},
		{"numeric string", `{"age":"40","healthGoal":"sleep"}`, 40, "", ""},
		{"padded string", `{"age":" 64 ","healthGoal":"focus"}`, 64, "", ""},
		{"whole float", `{"age":30.0,"healthGoal":"recovery"}`, 30, "", ""},
		{"lower bound", `{"age":18,"healthGoal":"immune_support"}`, 18, "", ""},
		{"upper bound", `{"age":120,"healthGoal":"weight_management"}`, 120, "", ""},
		{"too young", `{"age":17,"healthGoal":"energy"}`, 0, "age", "age must be between 18 and 120"},
		{"too old", `{"age":121,"healthGoal":"energy"}`, 0, "age", "age must be between 18 and 120"},
		{"fraction", `{"age":64.5,"healthGoal":"energy"}`, 0, "age", "age must be an integer"},
		{"fraction string", `{"age":"64.5","healthGoal":"energy"}`, 0, "age", "age must be an integer"},
		{"word", `{"age":"old","healthGoal":"energy"}`, 0, "age", "age must be an integer"},
		{"bool", `{"age":true,"healthGoal":"energy"}`, 0, "age", "age must be an integer"},
		{"missing age", `{"healthGoal":"energy"}`, 0, "age", "age is required"},
		{"null age", `{"age":null,"healthGoal":"energy"}`, 0, "age", "age is required"},
		{"empty string age", `{"age":"","healthGoal":"energy"}`, 0, "age", "age is required"},
		{"huge", `{"age":1e300,"healthGoal":"energy"}`, 0, "age", "age must be between 18 and 120"},
		{"missing goal", `{"age":25}`, 0, "healthGoal", "healthGoal is required"},
		{"unknown goal", `{"age":25,"healthGoal":"flying"}`, 0, "healthGoal",
			"healthGoal must be one of: energy, sleep, focus, recovery, weight_management, immune_support"},
		{"age checked before goal", `{"age":5,"healthGoal":"flying"}`, 0, "age", "age must be between 18 and 120"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in, err := v.ParseSuggestion([]byte(tc.body))
			if tc.field == "" {
				require.NoError(t, err)
				assert.Equal(t, tc.wantAge, in.Age)
				return
			}
			appErr := requireValidation(t, err, tc.field)
			assert.Equal(t, tc.message, appErr.Message)
		})
	}
}

func TestParseSuggestion_InvalidJSON(t *testing.T) {
	_, err := New().ParseSuggestion([]byte(`{"age":`))
	var appErr *apperr.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperr.CodeInvalidBody, appErr.Code)
}
