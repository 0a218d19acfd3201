package middleware

import (
	"strings"

	"go-pos-api/internal/model"
	"go-pos-api/internal/permission"
	"go-pos-api/internal/repository"
	"go-pos-api/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

// RequireAuth validates the JWT and stores the acting user's identity,
// role and plan in the request context.
func RequireAuth(userRepo repository.UserRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"error": "Missing authorization token"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid authorization format. Use: Bearer <token>"})
		}

		claims, err := jwt.ValidateToken(parts[1])
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		// Strict session check against DB
		user, err := userRepo.FindByID(claims.UserID)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "User not found"})
		}
		if user.TokenVersion != claims.TokenVersion {
			return c.Status(401).JSON(fiber.Map{"error": "Session expired (logged in on another device)"})
		}
		if user.SubscriptionStatus == model.SubscriptionInactive && user.Role != model.RoleAdmin {
			return c.Status(403).JSON(fiber.Map{"error": "Subscription inactive; renew to continue"})
		}

		// Role and plan come from the DB row, not the token, so plan
		// changes take effect without re-login
		c.Locals("user_id", user.ID.String())
		c.Locals("user_email", user.Email)
		c.Locals("user_name", user.FullName)
		c.Locals("user_role", user.Role)
		c.Locals("user_plan", user.SubscriptionPlan)

		return c.Next()
	}
}

// RequireFeature gates a route on the permission engine: admin always
// passes, everyone else needs the feature in their plan's table.
func RequireFeature(feature permission.Feature) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, okRole := c.Locals("user_role").(model.Role)
		plan, okPlan := c.Locals("user_plan").(model.Plan)
		if !okRole || !okPlan {
			return c.Status(403).JSON(fiber.Map{"error": "No subscription context found"})
		}

		if !permission.HasFeatureAccess(role, plan, feature) {
			return c.Status(403).JSON(fiber.Map{
				"error":   "Forbidden: plan '" + string(plan) + "' does not include '" + string(feature) + "'",
				"feature": string(feature),
				"kind":    "permission_denied",
			})
		}
		return c.Next()
	}
}

// RequireRole restricts a route to the listed roles.
func RequireRole(roles ...model.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("user_role").(model.Role)
		if !ok {
			return c.Status(403).JSON(fiber.Map{"error": "No role found"})
		}
		for _, r := range roles {
			if role == r {
				return c.Next()
			}
		}
		return c.Status(403).JSON(fiber.Map{"error": "Forbidden: requires role " + joinRoles(roles)})
	}
}

func joinRoles(roles []model.Role) string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return strings.Join(out, " or ")
}
