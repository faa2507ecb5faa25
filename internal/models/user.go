package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID          `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string             `gorm:"not null;size:255;uniqueIndex:idx_users_email" json:"email"`
	PasswordHash string             `gorm:"not null" json:"-"`
	FirstName    string             `gorm:"size:50" json:"firstName"`
	LastName     string             `gorm:"size:50" json:"lastName"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
	Suggestions  []SuggestionRecord `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// BeforeCreate assigns the server-side id.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
