package service

import (
	"time"

	"github.com/google/uuid"

	"go-pos-api/internal/model"
	"go-pos-api/internal/repository"
	"go-pos-api/internal/ws"
	"go-pos-api/pkg/apperr"
	"go-pos-api/pkg/jwt"
)

type AuthService interface {
	Login(email, password string) (*LoginResponse, error)
	ValidateToken(tokenString string) (*TokenValidationResponse, error)
	Heartbeat(userID uuid.UUID) error
}

type LoginResponse struct {
	Token string             `json:"token"`
	User  model.UserResponse `json:"user"`
}

type TokenValidationResponse struct {
	User model.UserResponse `json:"user"`
}

type authService struct {
	userRepo repository.UserRepository
	wsHub    *ws.Hub
}

func NewAuthService(userRepo repository.UserRepository, hub *ws.Hub) AuthService {
	return &authService{
		userRepo: userRepo,
		wsHub:    hub,
	}
}

func (s *authService) Login(email, password string) (*LoginResponse, error) {
	// 1. Find user by email
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return nil, apperr.Permission("invalid email or password")
	}

	// 2. Check if user is active
	if !user.IsActive {
		return nil, apperr.Permission("user account is inactive")
	}

	// 3. Verify password
	if !user.CheckPassword(password) {
		return nil, apperr.Permission("invalid email or password")
	}

	// 4. Single session: rotate token version
	newTokenVersion := uuid.New().String()
	now := time.Now()
	user.TokenVersion = newTokenVersion
	user.LastSeenAt = &now
	if err := s.userRepo.Update(user); err != nil {
		return nil, apperr.Persistence(err)
	}

	// 5. Generate JWT with role + plan claims
	token, err := jwt.GenerateToken(user, newTokenVersion)
	if err != nil {
		return nil, apperr.Persistence(err)
	}

	return &LoginResponse{
		Token: token,
		User:  user.ToResponse(),
	}, nil
}

func (s *authService) ValidateToken(tokenString string) (*TokenValidationResponse, error) {
	// 1. Validate JWT
	claims, err := jwt.ValidateToken(tokenString)
	if err != nil {
		return nil, apperr.Permission("invalid or expired token")
	}

	// 2. Find user from claims
	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, apperr.NotFound("user not found")
	}

	// 3. Still active?
	if !user.IsActive {
		return nil, apperr.Permission("user account is inactive")
	}

	// 4. Strict single session
	if user.TokenVersion != claims.TokenVersion {
		return nil, apperr.Permission("session expired (logged in on another device)")
	}

	return &TokenValidationResponse{User: user.ToResponse()}, nil
}

func (s *authService) Heartbeat(userID uuid.UUID) error {
	if err := s.userRepo.UpdateLastSeen(userID); err != nil {
		return apperr.Persistence(err)
	}

	go s.wsHub.BroadcastEvent("user_status_update", map[string]interface{}{
		"user_id":      userID.String(),
		"status":       "online",
		"last_seen_at": time.Now(),
	})

	return nil
}
