package middleware

import (
	"log"
	"strings"

	"mercado/internal/models"
	"mercado/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthRequired is a Fiber middleware that checks for a valid JWT token and,
// when a required-role set is given, that the caller holds at least one of
// the required roles. An empty set means any authenticated user passes.
//
// The user is loaded from the store on every request rather than trusted
// from the claims: roles change after token issue (become-seller), and
// deactivated accounts must stop authenticating immediately.
func AuthRequired(authService *services.AuthService, roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return models.RespondWithError(c, models.NewUnauthorizedError("Authorization header is required"))
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return models.RespondWithError(c, models.NewUnauthorizedError("Authorization header format must be 'Bearer <token>'"))
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			log.Printf("JWT validation failed: %v", err)
			return models.RespondWithError(c, models.NewUnauthorizedError("Invalid or expired token"))
		}

		userID, ok := claims["user_id"].(string)
		if !ok {
			return models.RespondWithError(c, models.NewUnauthorizedError("Invalid or expired token"))
		}

		user, err := authService.GetUserByID(userID)
		if err != nil || !user.IsActive {
			return models.RespondWithError(c, models.NewUnauthorizedError("Invalid or expired token"))
		}

		if !user.Roles.HasAny(roles...) {
			return models.RespondWithError(c, models.NewForbiddenError("insufficient role"))
		}

		// Store the caller identity in the Fiber context for subsequent handlers
		c.Locals("user_id", user.ID)
		c.Locals("roles", user.Roles)

		// Continue to the next handler
		return c.Next()
	}
}

// CallerID returns the authenticated caller's user id stored by AuthRequired.
func CallerID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}
