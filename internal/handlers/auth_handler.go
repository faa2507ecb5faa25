package handlers

import (
	"errors"
	"strconv"

	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/auth"
	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/validation"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AuthHandler struct {
	authService *services.AuthService
	users       *services.UserStore
	history     *services.HistoryStore
	validator   *validation.Validator
}

func NewAuthHandler(authService *services.AuthService, users *services.UserStore, history *services.HistoryStore, v *validation.Validator) *AuthHandler {
	return &AuthHandler{authService: authService, users: users, history: history, validator: v}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req validation.RegisterInput
	if err := h.parse(c, &req); err != nil {
		return err
	}

	resp, err := h.authService.Register(c.UserContext(), &req)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return apperr.Conflict(apperr.CodeEmailExists, "An account with this email already exists")
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(dto.OK(resp))
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req validation.LoginInput
	if err := h.parse(c, &req); err != nil {
		return err
	}

	resp, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return apperr.Unauthorized(apperr.CodeInvalidCredentials, "Invalid email or password")
		}
		return err
	}

	return c.JSON(dto.OK(resp))
}

// Verify answers from the token claims alone; it does not hit the store.
func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	id, err := authenticated(c)
	if err != nil {
		return err
	}
	userID, err := id.UserID()
	if err != nil {
		return apperr.Unauthorized(apperr.CodeTokenMalformed, "Authentication token is malformed")
	}

	return c.JSON(dto.OK(dto.VerifyResponse{
		Valid: true,
		User: dto.UserResponse{
			ID:        userID,
			Email:     id.Claims.Email,
			FirstName: id.Claims.FirstName,
			LastName:  id.Claims.LastName,
		},
	}))
}

func (h *AuthHandler) History(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	limit := services.DefaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > services.MaxHistoryLimit {
			return apperr.Validation("limit", "limit must be an integer between 1 and 100")
		}
		limit = n
	}

	records, total, err := h.history.ListSuggestions(c.UserContext(), userID, limit)
	if err != nil {
		return err
	}

	return c.JSON(dto.OK(dto.NewHistoryResponse(records, total)))
}

func (h *AuthHandler) GetProfile(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	user, err := h.users.FindByID(c.UserContext(), userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.NotFound(apperr.CodeUserNotFound, "User not found")
	}

	return c.JSON(dto.OK(dto.ProfileResponse{
		User:      dto.NewUserResponse(user),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}))
}

func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req validation.ProfileInput
	if err := h.parse(c, &req); err != nil {
		return err
	}

	user, err := h.users.UpdateProfile(c.UserContext(), userID, req.FirstName, req.LastName)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return apperr.NotFound(apperr.CodeUserNotFound, "User not found")
		}
		return err
	}
	if user == nil {
		return apperr.NotFound(apperr.CodeUserNotFound, "User not found")
	}

	return c.JSON(dto.OK(dto.ProfileResponse{
		User:      dto.NewUserResponse(user),
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}))
}

func (h *AuthHandler) DeleteAccount(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req validation.DeleteAccountInput
	if err := h.parse(c, &req); err != nil {
		return err
	}

	if err := h.users.DeleteUser(c.UserContext(), userID, req.Password); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			return apperr.Unauthorized(apperr.CodeInvalidCredentials, "Incorrect password. Please try again.")
		case errors.Is(err, services.ErrUserNotFound):
			return apperr.NotFound(apperr.CodeUserNotFound, "User not found")
		}
		return err
	}

	return c.JSON(dto.MessageResponse{Success: true, Message: "Account deleted successfully"})
}

func (h *AuthHandler) parse(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return apperr.InvalidBody(err)
	}
	return h.validator.Struct(dst)
}

func authenticated(c *fiber.Ctx) (auth.Authenticated, error) {
	id, ok := auth.IdentityFrom(c).(auth.Authenticated)
	if !ok {
		return auth.Authenticated{}, apperr.Unauthorized(apperr.CodeTokenMissing, "Authentication token is required")
	}
	return id, nil
}

func currentUserID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := authenticated(c)
	if err != nil {
		return uuid.Nil, err
	}
	userID, err := id.UserID()
	if err != nil {
		return uuid.Nil, apperr.Unauthorized(apperr.CodeTokenMalformed, "Authentication token is malformed")
	}
	return userID, nil
}
