package dto

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/models"
	"github.com/google/uuid"
)

type SuggestionMeta struct {
	GeneratedAt   time.Time `json:"generatedAt"`
	GoalCategory  string    `json:"goalCategory"`
	Authenticated bool      `json:"authenticated"`
	Timestamp     int64     `json:"timestamp"` // unix milliseconds
}

// SuggestionResponse keeps suggestions at the top level rather than under data.
type SuggestionResponse struct {
	Success     bool                `json:"success"`
	Suggestions []models.Suggestion `json:"suggestions"`
	Meta        SuggestionMeta      `json:"meta"`
}

type HistoryEntry struct {
	ID          uuid.UUID           `json:"id"`
	Age         int                 `json:"age"`
	HealthGoal  string              `json:"healthGoal"`
	Suggestions []models.Suggestion `json:"suggestions"`
	CreatedAt   time.Time           `json:"createdAt"`
}

type HistoryResponse struct {
	Suggestions []HistoryEntry `json:"suggestions"`
	Total       int64          `json:"total"`
}

func NewHistoryResponse(records []models.SuggestionRecord, total int64) HistoryResponse {
	entries := make([]HistoryEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, HistoryEntry{
			ID:          r.ID,
			Age:         r.Age,
			HealthGoal:  r.HealthGoal,
			Suggestions: []models.Suggestion(r.Suggestions),
			CreatedAt:   r.CreatedAt,
		})
	}
	return HistoryResponse{Suggestions: entries, Total: total}
}
