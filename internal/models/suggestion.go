package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Health goals accepted by the suggestion endpoint, in display order.
const (
	GoalEnergy           = "energy"
	GoalSleep            = "sleep"
	GoalFocus            = "focus"
	GoalRecovery         = "recovery"
	GoalWeightManagement = "weight_management"
	GoalImmuneSupport    = "immune_support"
)

var HealthGoals = []string{
	GoalEnergy,
	GoalSleep,
	GoalFocus,
	GoalRecovery,
	GoalWeightManagement,
	GoalImmuneSupport,
}

func IsHealthGoal(goal string) bool {
	for _, g := range HealthGoals {
		if g == goal {
			return true
		}
	}
	return false
}

// Suggestion is one pre-authored {name, description} blurb.
type Suggestion struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// SuggestionRecord is a user's saved suggestion request. Rows go away with
// their owning user.
type SuggestionRecord struct {
	ID          uuid.UUID                       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID                       `gorm:"type:uuid;not null;index:idx_suggestion_records_user_created,priority:1" json:"userId"`
	Age         int                             `gorm:"not null" json:"age"`
	HealthGoal  string                          `gorm:"size:50;not null" json:"healthGoal"`
	Suggestions datatypes.JSONSlice[Suggestion] `json:"suggestions"`
	CreatedAt   time.Time                       `gorm:"index:idx_suggestion_records_user_created,priority:2" json:"createdAt"`
}

func (r *SuggestionRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (SuggestionRecord) TableName() string {
	return "suggestion_records"
}
