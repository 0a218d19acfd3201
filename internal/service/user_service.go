package service

import (
	"go-pos-api/internal/model"
	"go-pos-api/internal/permission"
	"go-pos-api/internal/repository"
	"go-pos-api/pkg/apperr"
	"go-pos-api/pkg/validator"

	"github.com/google/uuid"
)

type UserService interface {
	CreateUser(req *CreateUserRequest, actor Actor) (*model.User, error)
	UpdateUser(userID uuid.UUID, req *UpdateUserRequest, actor Actor) (*model.User, error)
	DeleteUser(userID uuid.UUID, actor Actor) error
	GetAllUsers() ([]model.UserResponse, error)
	GetUserByID(id uuid.UUID) (*model.UserResponse, error)
}

type CreateUserRequest struct {
	Email       string     `json:"email" validate:"required,email"`
	Password    string     `json:"password" validate:"required,min=6"`
	FullName    string     `json:"full_name" validate:"required"`
	PhoneNumber string     `json:"phone_number"`
	Role        model.Role `json:"role" validate:"required,oneof=admin kasir supervisor"`
}

type UpdateUserRequest struct {
	Email       string     `json:"email" validate:"required,email"`
	Password    *string    `json:"password,omitempty" validate:"omitempty,min=6"` // Optional
	FullName    string     `json:"full_name" validate:"required"`
	PhoneNumber string     `json:"phone_number"`
	Role        model.Role `json:"role" validate:"required,oneof=admin kasir supervisor"`
	IsActive    *bool      `json:"is_active"`
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) CreateUser(req *CreateUserRequest, actor Actor) (*model.User, error) {
	// 1. Validate request
	if msg := validator.FirstError(req); msg != "" {
		return nil, apperr.Validation("%s", msg)
	}

	// 2. Feature + quota gates: employee management is a paid feature
	// and head count is capped by plan
	if !permission.HasFeatureAccess(actor.Role, actor.Plan, permission.FeatureEmployeeManagement) {
		return nil, apperr.Permission("plan %s does not include employee management", actor.Plan)
	}
	count, err := s.userRepo.Count()
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	if d := permission.CheckQuota(actor.Role, actor.Plan, permission.QuotaMaxEmployees, int(count)); !d.Allowed {
		return nil, apperr.Permission("%s", d.Message)
	}

	// 3. Email duplication check
	existing, _ := s.userRepo.FindByEmail(req.Email)
	if existing != nil {
		return nil, apperr.Conflict("email already exists")
	}

	// 4. New employees inherit the creator's subscription tier
	user := &model.User{
		Email:              req.Email,
		FullName:           req.FullName,
		PhoneNumber:        req.PhoneNumber,
		Role:               req.Role,
		SubscriptionPlan:   actor.Plan,
		SubscriptionStatus: model.SubscriptionActive,
		IsActive:           true,
	}
	user.CreatedBy = actor.ID.String()
	user.UpdatedBy = actor.ID.String()

	if err := user.SetPassword(req.Password); err != nil {
		return nil, apperr.Persistence(err)
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, apperr.Persistence(err)
	}

	return user, nil
}

func (s *userService) UpdateUser(userID uuid.UUID, req *UpdateUserRequest, actor Actor) (*model.User, error) {
	// 1. Validate request
	if msg := validator.FirstError(req); msg != "" {
		return nil, apperr.Validation("%s", msg)
	}

	if !permission.HasFeatureAccess(actor.Role, actor.Plan, permission.FeatureEmployeeManagement) {
		return nil, apperr.Permission("plan %s does not include employee management", actor.Plan)
	}

	// 2. Find existing user
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, apperr.NotFound("user not found")
	}

	// 3. Email change collision check
	if req.Email != user.Email {
		existing, _ := s.userRepo.FindByEmail(req.Email)
		if existing != nil {
			return nil, apperr.Conflict("email already exists")
		}
	}

	user.Email = req.Email
	user.FullName = req.FullName
	user.PhoneNumber = req.PhoneNumber
	user.Role = req.Role
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.Password != nil && *req.Password != "" {
		if err := user.SetPassword(*req.Password); err != nil {
			return nil, apperr.Persistence(err)
		}
	}
	user.UpdatedBy = actor.ID.String()

	if err := s.userRepo.Update(user); err != nil {
		return nil, apperr.Persistence(err)
	}

	return user, nil
}

func (s *userService) DeleteUser(userID uuid.UUID, actor Actor) error {
	if !permission.HasFeatureAccess(actor.Role, actor.Plan, permission.FeatureEmployeeManagement) {
		return apperr.Permission("plan %s does not include employee management", actor.Plan)
	}
	if userID == actor.ID {
		return apperr.Validation("cannot delete your own account")
	}
	if _, err := s.userRepo.FindByID(userID); err != nil {
		return apperr.NotFound("user not found")
	}
	if err := s.userRepo.Delete(userID); err != nil {
		return apperr.Persistence(err)
	}
	return nil
}

func (s *userService) GetAllUsers() ([]model.UserResponse, error) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, apperr.Persistence(err)
	}
	responses := make([]model.UserResponse, len(users))
	for i, u := range users {
		responses[i] = u.ToResponse()
	}
	return responses, nil
}

func (s *userService) GetUserByID(id uuid.UUID) (*model.UserResponse, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		return nil, apperr.NotFound("user not found")
	}
	resp := user.ToResponse()
	return &resp, nil
}
