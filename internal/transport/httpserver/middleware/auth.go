package middleware

import (
	"github.com/gofiber/fiber/v2"

	"mylist-service/internal/transport/httpserver/dto"
)

// UserIDKey is the locals key under which RequireUser stores the caller's
// user id.
const UserIDKey = "userID"

// UserIDHeader is the header carrying the caller's identity. Identity is
// asserted upstream (gateway); this service only requires its presence.
const UserIDHeader = "x-user-id"

// RequireUser returns a middleware that rejects requests without the
// user id header.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Get(UserIDHeader)
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Fail(
				"user id is required",
				"missing "+UserIDHeader+" header",
			))
		}

		c.Locals(UserIDKey, userID)

		return c.Next()
	}
}

// UserID returns the authenticated user id stored by RequireUser.
func UserID(c *fiber.Ctx) string {
	userID, _ := c.Locals(UserIDKey).(string)

	return userID
}
