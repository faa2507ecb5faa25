package middleware

import (
	"errors"
	"strings"

	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/healthwise-backend/internal/auth"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const bearerScheme = "Bearer"

// RequireAuth rejects the request unless it carries a valid bearer token.
// jwtware extracts and pre-parses the token; the TokenManager then applies
// the issuer and expiry rules so both auth modes accept the same tokens.
func RequireAuth(tokens *auth.TokenManager) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: tokens.Secret()},
		Claims:     &auth.Claims{},
		AuthScheme: bearerScheme,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if errors.Is(err, jwtware.ErrJWTMissingOrMalformed) {
				if strings.TrimSpace(c.Get(fiber.HeaderAuthorization)) == "" {
					return tokenError(auth.ErrTokenMissing)
				}
				return tokenError(auth.ErrTokenMalformed)
			}
			return tokenError(auth.ClassifyTokenError(err))
		},
		SuccessHandler: func(c *fiber.Ctx) error {
			token, ok := c.Locals("user").(*jwt.Token)
			if !ok {
				return tokenError(auth.ErrTokenMalformed)
			}
			claims, err := tokens.Verify(token.Raw)
			if err != nil {
				return tokenError(err)
			}
			auth.SetIdentity(c, auth.Authenticated{Claims: *claims})
			return c.Next()
		},
	})
}

// OptionalAuth resolves an identity when a usable bearer token is present and
// falls back to Anonymous otherwise. It never rejects a request.
func OptionalAuth(tokens *auth.TokenManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth.SetIdentity(c, tokens.OptionalVerify(bearerToken(c)))
		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) string {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if len(header) > len(bearerScheme) && strings.EqualFold(header[:len(bearerScheme)], bearerScheme) && header[len(bearerScheme)] == ' ' {
		return strings.TrimSpace(header[len(bearerScheme)+1:])
	}
	return ""
}

func tokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrTokenMissing):
		return apperr.Unauthorized(apperr.CodeTokenMissing, "Authentication token is required")
	case errors.Is(err, auth.ErrTokenExpired):
		return apperr.Unauthorized(apperr.CodeTokenExpired, "Authentication token has expired")
	case errors.Is(err, auth.ErrTokenInvalidSignature):
		return apperr.Unauthorized(apperr.CodeTokenInvalidSignature, "Authentication token signature is invalid")
	default:
		return apperr.Unauthorized(apperr.CodeTokenMalformed, "Authentication token is malformed")
	}
}
