package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"go-pos-api/internal/model"
	"go-pos-api/internal/service"
	"go-pos-api/pkg/apperr"
)

// fail maps the error taxonomy to HTTP statuses so every failure
// carries a kind + message instead of a bare code.
func fail(c *fiber.Ctx, err error) error {
	kind := apperr.KindOf(err)

	status := fiber.StatusInternalServerError
	switch kind {
	case apperr.KindValidation:
		status = fiber.StatusBadRequest
	case apperr.KindPermission:
		status = fiber.StatusForbidden
	case apperr.KindNotFound:
		status = fiber.StatusNotFound
	case apperr.KindConflict:
		status = fiber.StatusConflict
	}

	message := err.Error()
	if kind == apperr.KindPersistence {
		message = "Internal Server Error"
	}

	return c.Status(status).JSON(fiber.Map{
		"error": message,
		"kind":  kind.String(),
	})
}

// actorFromCtx rebuilds the acting user from the claims the auth
// middleware stored in Locals.
func actorFromCtx(c *fiber.Ctx) service.Actor {
	actor := service.Actor{}
	if id, ok := c.Locals("user_id").(string); ok {
		actor.ID, _ = uuid.Parse(id)
	}
	if email, ok := c.Locals("user_email").(string); ok {
		actor.Email = email
	}
	if name, ok := c.Locals("user_name").(string); ok {
		actor.Name = name
	}
	if role, ok := c.Locals("user_role").(model.Role); ok {
		actor.Role = role
	}
	if plan, ok := c.Locals("user_plan").(model.Plan); ok {
		actor.Plan = plan
	}
	return actor
}

func parseUUID(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}
