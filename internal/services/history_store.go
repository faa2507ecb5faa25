package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	DefaultHistoryLimit = 10
	MaxHistoryLimit     = 100
)

// HistoryStore persists the suggestions generated for signed-in users.
type HistoryStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewHistoryStore(db *gorm.DB) *HistoryStore {
	return &HistoryStore{db: db, now: time.Now}
}

// WithClock returns a copy of s that stamps records using now.
func (s *HistoryStore) WithClock(now func() time.Time) *HistoryStore {
	cp := *s
	cp.now = now
	return &cp
}

func (s *HistoryStore) SaveSuggestion(ctx context.Context, userID uuid.UUID, age int, goal string, items []models.Suggestion) (*models.SuggestionRecord, error) {
	record := models.SuggestionRecord{
		ID:          uuid.New(),
		UserID:      userID,
		Age:         age,
		HealthGoal:  goal,
		Suggestions: datatypes.JSONSlice[models.Suggestion](items),
		CreatedAt:   s.now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, fmt.Errorf("failed to save suggestion: %w", err)
	}
	return &record, nil
}

// ListSuggestions returns up to limit records, newest first, and the total
// number of records the user owns. limit is clamped to [1, MaxHistoryLimit].
func (s *HistoryStore) ListSuggestions(ctx context.Context, userID uuid.UUID, limit int) ([]models.SuggestionRecord, int64, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	total, err := s.CountSuggestions(ctx, userID)
	if err != nil {
		return nil, 0, err
	}

	records := []models.SuggestionRecord{}
	if total == 0 {
		return records, 0, nil
	}

	err = s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list suggestions: %w", err)
	}
	return records, total, nil
}

func (s *HistoryStore) CountSuggestions(ctx context.Context, userID uuid.UUID) (int64, error) {
	var total int64
	err := s.db.WithContext(ctx).Model(&models.SuggestionRecord{}).Where("user_id = ?", userID).Count(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count suggestions: %w", err)
	}
	return total, nil
}
