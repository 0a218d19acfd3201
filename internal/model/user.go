package model

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Role is the closed set of user roles.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleKasir      Role = "kasir"
	RoleSupervisor Role = "supervisor"
)

// Plan is the closed set of subscription tiers.
type Plan string

const (
	PlanFree    Plan = "free"
	PlanPro     Plan = "pro"
	PlanProPlus Plan = "pro_plus"
)

// SubscriptionStatus tracks whether the tier is currently usable.
type SubscriptionStatus string

const (
	SubscriptionActive   SubscriptionStatus = "active"
	SubscriptionInactive SubscriptionStatus = "inactive"
	SubscriptionTrial    SubscriptionStatus = "trial"
)

// User represents an authenticated employee (admin, cashier, supervisor)
type User struct {
	BaseModel
	Email              string             `gorm:"type:varchar(255);uniqueIndex;not null" json:"email" validate:"required,email"`
	Password           string             `gorm:"type:varchar(255);not null" json:"-"` // Hidden from JSON
	FullName           string             `gorm:"type:varchar(255)" json:"full_name" validate:"required"`
	PhoneNumber        string             `gorm:"type:varchar(20)" json:"phone_number"`
	Role               Role               `gorm:"type:varchar(20);not null;default:'kasir'" json:"role" validate:"required,oneof=admin kasir supervisor"`
	SubscriptionPlan   Plan               `gorm:"type:varchar(20);not null;default:'free'" json:"subscription_plan"`
	SubscriptionStatus SubscriptionStatus `gorm:"type:varchar(20);not null;default:'active'" json:"subscription_status"`
	IsActive           bool               `gorm:"default:true" json:"is_active"`
	TokenVersion       string             `gorm:"type:varchar(255);default:''" json:"-"` // For single session enforcement
	LastSeenAt         *time.Time         `json:"last_seen_at,omitempty"`
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// UserResponse is used for API responses (without sensitive data)
type UserResponse struct {
	ID                 uuid.UUID          `json:"id"`
	Email              string             `json:"email"`
	FullName           string             `json:"full_name"`
	PhoneNumber        string             `json:"phone_number"`
	Role               Role               `json:"role"`
	SubscriptionPlan   Plan               `json:"subscription_plan"`
	SubscriptionStatus SubscriptionStatus `json:"subscription_status"`
	IsActive           bool               `json:"is_active"`
	LastSeenAt         *time.Time         `json:"last_seen_at,omitempty"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:                 u.ID,
		Email:              u.Email,
		FullName:           u.FullName,
		PhoneNumber:        u.PhoneNumber,
		Role:               u.Role,
		SubscriptionPlan:   u.SubscriptionPlan,
		SubscriptionStatus: u.SubscriptionStatus,
		IsActive:           u.IsActive,
		LastSeenAt:         u.LastSeenAt,
	}
}
