// Package validation checks request bodies before they reach a handler and
// reports the first violation with the json path of the offending field.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/models"
	"github.com/go-playground/validator/v10"
)

const (
	MinAge = 18
	MaxAge = 120

	minPasswordLen = 8
	maxPasswordLen = 72 // bcrypt ignores anything longer
)

type RegisterInput struct {
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,password"`
	FirstName string `json:"firstName" validate:"omitempty,max=50"`
	LastName  string `json:"lastName" validate:"omitempty,max=50"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ProfileInput leaves a name untouched when its pointer is nil.
type ProfileInput struct {
	FirstName *string `json:"firstName" validate:"omitempty,max=50"`
	LastName  *string `json:"lastName" validate:"omitempty,max=50"`
}

type DeleteAccountInput struct {
	Password string `json:"password" validate:"required"`
}

type SuggestionInput struct {
	Age        int    `json:"age" validate:"min=18,max=120"`
	HealthGoal string `json:"healthGoal" validate:"required,healthgoal"`
}

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation("password", validatePassword)
	_ = v.RegisterValidation("healthgoal", func(fl validator.FieldLevel) bool {
		return models.IsHealthGoal(fl.Field().String())
	})

	return &Validator{validate: v}
}

// Struct validates s and converts the first failure into a VALIDATION_ERROR.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperr.Internal(err)
	}

	first := verrs[0]
	return apperr.Validation(first.Field(), message(first))
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "password":
		return fmt.Sprintf("%s must be %d-%d characters and contain an uppercase letter, a lowercase letter and a number",
			field, minPasswordLen, maxPasswordLen)
	case "healthgoal":
		return field + " must be one of: " + strings.Join(models.HealthGoals, ", ")
	case "min", "max":
		if field == "age" {
			return fmt.Sprintf("age must be between %d and %d", MinAge, MaxAge)
		}
		if fe.Tag() == "max" {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	default:
		return field + " is invalid"
	}
}

func validatePassword(fl validator.FieldLevel) bool {
	pw := fl.Field().String()
	if len(pw) < minPasswordLen || len(pw) > maxPasswordLen {
		return false
	}

	var upper, lower, digit bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}
