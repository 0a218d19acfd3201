package service

import (
	"go-pos-api/internal/model"
	"go-pos-api/internal/repository"
	"go-pos-api/pkg/apperr"
	"go-pos-api/pkg/validator"

	"github.com/google/uuid"
)

type CustomerService interface {
	CreateCustomer(req *model.Customer, actor Actor) error
	UpdateCustomer(id uuid.UUID, req *model.Customer, actor Actor) (*model.Customer, error)
	GetAllCustomers() ([]model.Customer, error)
	GetCustomerByID(id uuid.UUID) (*model.Customer, error)
}

type customerService struct {
	customerRepo repository.CustomerRepository
}

func NewCustomerService(customerRepo repository.CustomerRepository) CustomerService {
	return &customerService{customerRepo: customerRepo}
}

func (s *customerService) CreateCustomer(req *model.Customer, actor Actor) error {
	if msg := validator.FirstError(req); msg != "" {
		return apperr.Validation("%s", msg)
	}

	// Aggregates start at zero; only the sale flow moves them
	req.TotalPurchases = 0
	req.TransactionCount = 0
	req.CreatedBy = actor.ID.String()
	req.UpdatedBy = actor.ID.String()

	if err := s.customerRepo.Create(req); err != nil {
		return apperr.Persistence(err)
	}
	return nil
}

func (s *customerService) UpdateCustomer(id uuid.UUID, req *model.Customer, actor Actor) (*model.Customer, error) {
	existing, err := s.customerRepo.FindByID(id)
	if err != nil {
		return nil, apperr.NotFound("customer not found")
	}

	if msg := validator.FirstError(req); msg != "" {
		return nil, apperr.Validation("%s", msg)
	}

	// Contact fields only; purchase aggregates belong to the sale flow
	existing.Name = req.Name
	existing.PhoneNumber = req.PhoneNumber
	existing.Email = req.Email
	existing.UpdatedBy = actor.ID.String()

	if err := s.customerRepo.Update(existing); err != nil {
		return nil, apperr.Persistence(err)
	}
	return existing, nil
}

func (s *customerService) GetAllCustomers() ([]model.Customer, error) {
	return s.customerRepo.FindAll()
}

func (s *customerService) GetCustomerByID(id uuid.UUID) (*model.Customer, error) {
	customer, err := s.customerRepo.FindByID(id)
	if err != nil {
		return nil, apperr.NotFound("customer not found")
	}
	return customer, nil
}
