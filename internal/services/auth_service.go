package services

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/auth"
	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/validation"
)

// AuthService pairs the user store with token issuance.
type AuthService struct {
	users  *UserStore
	tokens *auth.TokenManager
}

func NewAuthService(users *UserStore, tokens *auth.TokenManager) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

func (s *AuthService) Register(ctx context.Context, req *validation.RegisterInput) (*dto.AuthResponse, error) {
	user, err := s.users.CreateUser(ctx, req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		return nil, err
	}
	return s.authResponse(user)
}

func (s *AuthService) Login(ctx context.Context, req *validation.LoginInput) (*dto.AuthResponse, error) {
	user, err := s.users.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	return s.authResponse(user)
}

func (s *AuthService) authResponse(user *models.User) (*dto.AuthResponse, error) {
	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		User:      dto.NewUserResponse(user),
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}
