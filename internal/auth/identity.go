package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const identityKey = "identity"

// Identity is either Anonymous or Authenticated. Handlers switch on the
// concrete type instead of checking for a nil claims pointer.
type Identity interface {
	isIdentity()
}

type Anonymous struct{}

type Authenticated struct {
	Claims Claims
}

func (Anonymous) isIdentity()     {}
func (Authenticated) isIdentity() {}

func (a Authenticated) UserID() (uuid.UUID, error) {
	return uuid.Parse(a.Claims.UserID)
}

// SetIdentity stores id in the request locals.
func SetIdentity(c *fiber.Ctx, id Identity) {
	c.Locals(identityKey, id)
}

// IdentityFrom returns the identity resolved for the request, Anonymous when
// no auth middleware ran.
func IdentityFrom(c *fiber.Ctx) Identity {
	if id, ok := c.Locals(identityKey).(Identity); ok {
		return id
	}
	return Anonymous{}
}

// IsAuthenticated is a convenience for the common two-way branch.
func IsAuthenticated(id Identity) bool {
	_, ok := id.(Authenticated)
	return ok
}
