package service

import (
	"github.com/google/uuid"

	"go-pos-api/internal/model"
)

// Actor identifies the authenticated user on whose behalf a service
// call runs. Role and plan travel explicitly with every call; there is
// no ambient session state.
type Actor struct {
	ID    uuid.UUID
	Email string
	Name  string
	Role  model.Role
	Plan  model.Plan
}
