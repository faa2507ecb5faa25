package validation

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/apperr"
)

type rawSuggestionInput struct {
	Age        json.RawMessage `json:"age"`
	HealthGoal string          `json:"healthGoal"`
}

// ParseSuggestion decodes a suggestion request body. Age may arrive as a JSON
// number or a numeric string; either way it must be a whole number.
func (v *Validator) ParseSuggestion(body []byte) (SuggestionInput, error) {
	var raw rawSuggestionInput
	if err := json.Unmarshal(body, &raw); err != nil {
		return SuggestionInput{}, apperr.InvalidBody(err)
	}

	age, err := coerceAge(raw.Age)
	if err != nil {
		return SuggestionInput{}, err
	}

	in := SuggestionInput{Age: age, HealthGoal: raw.HealthGoal}
	if err := v.Struct(&in); err != nil {
		return SuggestionInput{}, err
	}
	return in, nil
}

func coerceAge(raw json.RawMessage) (int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, apperr.Validation("age", "age is required")
	}

	var text string
	switch raw[0] {
	case '"':
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0, apperr.Validation("age", "age must be an integer")
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return 0, apperr.Validation("age", "age is required")
		}
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		text = string(raw)
	default:
		return 0, apperr.Validation("age", "age must be an integer")
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, apperr.Validation("age", "age must be an integer")
	}
	if f < math.MinInt32 || f > math.MaxInt32 {
		return 0, apperr.Validation("age", "age must be between 18 and 120")
	}
	return int(f), nil
}
