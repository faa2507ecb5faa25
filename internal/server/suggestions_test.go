package server

import (
	"bytes"
	"testing"

	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestions_EveryGoalReturnsThree(t *testing.T) {
	env := newTestEnv(t)

	for _, goal := range models.HealthGoals {
		for _, age := range []int{18, 29, 30, 34, 35, 39, 40, 49, 50, 64, 120} {
			resp := env.do(t, "POST", "/suggestions", map[string]any{"age": age, "healthGoal": goal}, "")
			require.Equal(t, fiber.StatusOK, resp.Status, "goal=%s age=%d: %s", goal, age, resp.RawBody)
			require.Equal(t, true, resp.Body["success"])

			items, ok := resp.Body["suggestions"].([]any)
			require.True(t, ok)
			require.Len(t, items, 3, "goal=%s age=%d", goal, age)
			for _, raw := range items {
				item := raw.(map[string]any)
				assert.NotEmpty(t, item["name"])
				assert.NotEmpty(t, item["description"])
			}

			meta := resp.Body["meta"].(map[string]any)
			assert.Equal(t, goal, meta["goalCategory"])
			assert.Equal(t, false, meta["authenticated"])
			assert.NotEmpty(t, meta["generatedAt"])
			assert.NotZero(t, meta["timestamp"])
		}
	}
}

func TestSuggestions_AgeValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name    string
		age     any
		message string
	}{
		{"below range", 17, "age must be between 18 and 120"},
		{"above range", 121, "age must be between 18 and 120"},
		{"fractional", 64.5, "age must be an integer"},
		{"missing", nil, "age is required"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			body := map[string]any{"healthGoal": "energy"}
			if tc.age != nil {
				body["age"] = tc.age
			}
			resp := env.do(t, "POST", "/suggestions", body, "")

			require.Equal(t, fiber.StatusBadRequest, resp.Status)
			assert.Equal(t, false, resp.Body["success"])
			e := resp.errorBody()
			assert.Equal(t, "VALIDATION_ERROR", e["code"])
			assert.Equal(t, "age", e["field"])
			assert.Equal(t, tc.message, e["message"])
			assert.NotEmpty(t, e["errorId"])
		})
	}
}

func TestSuggestions_AgeAsNumericString(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, "POST", "/suggestions", map[string]any{"age": "45", "healthGoal": "recovery"}, "")
	require.Equal(t, fiber.StatusOK, resp.Status, string(resp.RawBody))
	assert.Len(t, resp.Body["suggestions"], 3)
}

func TestSuggestions_InvalidGoalAndBody(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, "POST", "/suggestions", map[string]any{"age": 30, "healthGoal": "flying"}, "")
	require.Equal(t, fiber.StatusBadRequest, resp.Status)
	assert.Equal(t, "healthGoal", resp.errorBody()["field"])

	resp = env.do(t, "POST", "/suggestions", `{"age":`, "")
	require.Equal(t, fiber.StatusBadRequest, resp.Status)
	assert.Equal(t, "INVALID_BODY", resp.errorBody()["code"])
}

func TestGoals_Idempotent(t *testing.T) {
	env := newTestEnv(t)

	first := env.do(t, "GET", "/suggestions/goals", nil, "")
	require.Equal(t, fiber.StatusOK, first.Status)

	goals, ok := first.Body["data"].([]any)
	require.True(t, ok)
	require.Len(t, goals, len(models.HealthGoals))
	for i, raw := range goals {
		g := raw.(map[string]any)
		assert.Equal(t, models.HealthGoals[i], g["value"])
		assert.NotEmpty(t, g["label"])
	}

	for i := 0; i < 3; i++ {
		again := env.do(t, "GET", "/suggestions/goals", nil, "")
		require.Equal(t, fiber.StatusOK, again.Status)
		assert.True(t, bytes.Equal(first.RawBody, again.RawBody))
	}
}

func TestScenario_RegisteredUserGetsHistory(t *testing.T) {
	env := newTestEnv(t)

	token := env.register(t, "a@x.com", "Abcdef12")

	resp := env.do(t, "POST", "/suggestions", map[string]any{"age": 25, "healthGoal": "energy"}, token)
	require.Equal(t, fiber.StatusOK, resp.Status, string(resp.RawBody))
	assert.Len(t, resp.Body["suggestions"], 3)
	assert.Equal(t, true, resp.Body["meta"].(map[string]any)["authenticated"])

	history := env.do(t, "GET", "/auth/suggestions", nil, token)
	require.Equal(t, fiber.StatusOK, history.Status, string(history.RawBody))

	entries := history.data()["suggestions"].([]any)
	require.Len(t, entries, 1)
	entry := entries[0].(map[string]any)
	assert.Equal(t, float64(25), entry["age"])
	assert.Equal(t, "energy", entry["healthGoal"])
	assert.Len(t, entry["suggestions"], 3)
	assert.Equal(t, float64(1), history.data()["total"])
}

func TestScenario_AnonymousRequestStoresNothing(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "someone@x.com", "Abcdef12")

	resp := env.do(t, "POST", "/suggestions", map[string]any{"age": 40, "healthGoal": "sleep"}, "")
	require.Equal(t, fiber.StatusOK, resp.Status)
	assert.Equal(t, false, resp.Body["meta"].(map[string]any)["authenticated"])

	var rows int64
	require.NoError(t, env.db.Model(&models.SuggestionRecord{}).Count(&rows).Error)
	assert.Zero(t, rows)
}

func TestSuggestions_BadTokenIsTreatedAsAnonymous(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, "POST", "/suggestions", map[string]any{"age": 40, "healthGoal": "focus"}, "not-a-token")
	require.Equal(t, fiber.StatusOK, resp.Status)
	assert.Equal(t, false, resp.Body["meta"].(map[string]any)["authenticated"])
}

func TestSuggestions_ReturningUserPhrase(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "a@x.com", "Abcdef12")

	first := env.do(t, "POST", "/suggestions", map[string]any{"age": 25, "healthGoal": "energy"}, token)
	second := env.do(t, "POST", "/suggestions", map[string]any{"age": 25, "healthGoal": "energy"}, token)
	require.Equal(t, fiber.StatusOK, first.Status)
	require.Equal(t, fiber.StatusOK, second.Status)

	firstText := first.Body["suggestions"].([]any)[2].(map[string]any)["description"]
	secondText := second.Body["suggestions"].([]any)[2].(map[string]any)["description"]
	assert.Contains(t, firstText, "saved to your history")
	assert.Contains(t, secondText, "Plans saved so far: 1.")
}

func TestGenerate_HistorySaveFailureStillAnswers(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "a@x.com", "Abcdef12")
	require.NoError(t, env.db.Migrator().DropTable(&models.SuggestionRecord{}))

	resp := env.do(t, "POST", "/suggestions", map[string]any{"age": 30, "healthGoal": "sleep"}, token)
	require.Equal(t, fiber.StatusOK, resp.Status, string(resp.RawBody))
	assert.Equal(t, true, resp.Body["meta"].(map[string]any)["authenticated"])
	assert.Len(t, resp.Body["suggestions"], 3)

	metrics := env.do(t, "GET", "/metrics", nil, "")
	assert.Contains(t, string(metrics.RawBody), "healthwise_suggestion_history_save_failures_total 1")
}
