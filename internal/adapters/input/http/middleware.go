package http

import (
	"strings"

	"ai-chat-backend/pkg/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// userIDKey is the fiber.Ctx locals key carrying the authenticated user id
const userIDKey = "userID"

// RequireAuth func - Middleware verifying the Bearer access token and
// storing the authenticated user id in request locals
func RequireAuth(tokens *auth.TokenManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(header, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(ResponseBody{Status: Unauthorized})
		}

		userID, err := tokens.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			logrus.Debugf("Rejected token: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(ResponseBody{Status: Unauthorized})
		}

		c.Locals(userIDKey, userID)
		return c.Next()
	}
}

// authenticatedUserID reads the user id stored by RequireAuth
func authenticatedUserID(c *fiber.Ctx) (uint, bool) {
	userID, ok := c.Locals(userIDKey).(uint)
	return userID, ok
}
