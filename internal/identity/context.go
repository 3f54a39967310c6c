// Package identity extracts the acting user from verified JWT claims. The
// engine never reads ambient session state; every core call receives the
// user explicitly.
package identity

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the role-tagged identity the core trusts as given.
type Claims struct {
	UserID     uuid.UUID
	StaffID    string
	Name       string
	Role       string
	Department string
}

// FromContext reads the verified token placed in Fiber locals by the JWT
// middleware.
func FromContext(c *fiber.Ctx) (*Claims, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return nil, errors.New("invalid token in context")
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}

	sub, _ := mapClaims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, errors.New("missing or invalid sub claim")
	}

	staffID, _ := mapClaims["staff_id"].(string)
	name, _ := mapClaims["name"].(string)
	role, _ := mapClaims["role"].(string)
	department, _ := mapClaims["department"].(string)

	return &Claims{
		UserID:     userID,
		StaffID:    staffID,
		Name:       name,
		Role:       role,
		Department: department,
	}, nil
}
