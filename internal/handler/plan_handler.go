package handler

import (
	"go-pos-api/internal/permission"

	"github.com/gofiber/fiber/v2"
)

type PlanHandler struct{}

func NewPlanHandler() *PlanHandler {
	return &PlanHandler{}
}

// GetPlans serializes the static capability tables so the client can
// render the upgrade screen without hardcoding tiers.
func (h *PlanHandler) GetPlans(c *fiber.Ctx) error {
	plans := make([]fiber.Map, 0, 3)
	for _, plan := range permission.Plans() {
		caps := permission.Capabilities(plan)
		plans = append(plans, fiber.Map{
			"name":     plan,
			"features": caps.Features,
			"quotas":   caps.Quotas,
		})
	}
	return c.JSON(plans)
}
