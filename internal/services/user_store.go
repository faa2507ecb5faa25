package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/auth"
	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

// UserStore owns the users table. Every user it returns has PasswordHash
// cleared.
type UserStore struct {
	db     *gorm.DB
	hasher *auth.PasswordHasher
}

func NewUserStore(db *gorm.DB, hasher *auth.PasswordHasher) *UserStore {
	return &UserStore{db: db, hasher: hasher}
}

// CreateUser hashes password and inserts a new row. Uniqueness is enforced by
// the unique index on email; the lookup beforehand only avoids paying for a
// hash on the common duplicate path.
func (s *UserStore) CreateUser(ctx context.Context, email, password, firstName, lastName string) (*models.User, error) {
	existing, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return sanitize(&user), nil
}

// FindByEmail returns nil without an error when no user has email.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.findByEmail(ctx, email)
	if err != nil || user == nil {
		return nil, err
	}
	return sanitize(user), nil
}

func (s *UserStore) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.findByID(ctx, id)
	if err != nil || user == nil {
		return nil, err
	}
	return sanitize(user), nil
}

// Authenticate fails with ErrInvalidCredentials for an unknown email and for a
// wrong password alike.
func (s *UserStore) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil || !s.hasher.Compare(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return sanitize(user), nil
}

// UpdateProfile changes the names that are non-nil and returns the fresh row.
func (s *UserStore) UpdateProfile(ctx context.Context, id uuid.UUID, firstName, lastName *string) (*models.User, error) {
	user, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	updates := map[string]interface{}{}
	if firstName != nil {
		updates["first_name"] = *firstName
	}
	if lastName != nil {
		updates["last_name"] = *lastName
	}
	if len(updates) == 0 {
		return sanitize(user), nil
	}

	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return s.FindByID(ctx, id)
}

// DeleteUser re-checks password and removes the user together with its
// suggestion history in one transaction.
func (s *UserStore) DeleteUser(ctx context.Context, id uuid.UUID, password string) error {
	user, err := s.findByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if !s.hasher.Compare(password, user.PasswordHash) {
		return ErrInvalidCredentials
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.SuggestionRecord{}).Error; err != nil {
			return fmt.Errorf("failed to delete suggestion history: %w", err)
		}
		if err := tx.Delete(&models.User{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return nil
	})
}

func (s *UserStore) findByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return &user, nil
}

func (s *UserStore) findByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

func sanitize(u *models.User) *models.User {
	cp := *u
	cp.PasswordHash = ""
	cp.Suggestions = nil
	return &cp
}
