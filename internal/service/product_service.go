package service

import (
	"fmt"

	"go-pos-api/internal/model"
	"go-pos-api/internal/permission"
	"go-pos-api/internal/repository"
	"go-pos-api/internal/ws"
	"go-pos-api/pkg/apperr"
	"go-pos-api/pkg/validator"

	"github.com/google/uuid"
)

type ProductService interface {
	CreateProduct(req *model.Product, actor Actor) error
	UpdateProduct(id uuid.UUID, req *model.Product, actor Actor) (*model.Product, error)
	DeleteProduct(id uuid.UUID) error
	AdjustStock(req *model.StockAdjustment, actor Actor) (*model.Product, error)
	GetAllProducts() ([]model.Product, error)
	GetProductByID(id uuid.UUID) (*model.Product, error)
}

type productService struct {
	productRepo repository.ProductRepository
	wsHub       *ws.Hub
}

func NewProductService(productRepo repository.ProductRepository, hub *ws.Hub) ProductService {
	return &productService{
		productRepo: productRepo,
		wsHub:       hub,
	}
}

func (s *productService) CreateProduct(req *model.Product, actor Actor) error {
	// 1. Struct validation
	if msg := validator.FirstError(req); msg != "" {
		return apperr.Validation("%s", msg)
	}
	if req.Price < 0 || req.Stock < 0 {
		return apperr.Validation("price and stock cannot be negative")
	}

	// 2. Quota gate: plan ceiling on catalog size
	count, err := s.productRepo.Count()
	if err != nil {
		return apperr.Persistence(err)
	}
	if d := permission.CheckQuota(actor.Role, actor.Plan, permission.QuotaMaxProducts, int(count)); !d.Allowed {
		return apperr.Permission("%s", d.Message)
	}

	// 3. SKU duplication check
	existing, _ := s.productRepo.FindBySKU(req.SKU)
	if existing != nil && existing.ID != uuid.Nil {
		return apperr.Conflict("SKU %s already exists", req.SKU)
	}

	// 4. Audit fields
	req.IsActive = true
	req.CreatedBy = actor.ID.String()
	req.UpdatedBy = actor.ID.String()

	if err := s.productRepo.Create(req); err != nil {
		return apperr.Persistence(err)
	}

	go s.wsHub.BroadcastEvent("stock_update", map[string]interface{}{
		"action": "product_created",
		"product": map[string]interface{}{
			"id":    req.ID,
			"sku":   req.SKU,
			"name":  req.Name,
			"stock": req.Stock,
			"price": req.Price,
		},
		"message": fmt.Sprintf("%s created product '%s'", actor.Name, req.Name),
	})

	return nil
}

func (s *productService) UpdateProduct(id uuid.UUID, req *model.Product, actor Actor) (*model.Product, error) {
	existing, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, apperr.NotFound("product not found")
	}

	if req.Price < 0 {
		return nil, apperr.Validation("price cannot be negative")
	}

	existing.Name = req.Name
	existing.SKU = req.SKU
	existing.Unit = req.Unit
	existing.Price = req.Price
	existing.CategoryID = req.CategoryID
	existing.IsActive = req.IsActive
	existing.UpdatedBy = actor.ID.String()

	if err := s.productRepo.Update(existing); err != nil {
		return nil, apperr.Persistence(err)
	}

	return existing, nil
}

func (s *productService) DeleteProduct(id uuid.UUID) error {
	if _, err := s.productRepo.FindByID(id); err != nil {
		return apperr.NotFound("product not found")
	}
	if err := s.productRepo.Delete(id); err != nil {
		return apperr.Persistence(err)
	}
	return nil
}

// AdjustStock applies an explicit IN/OUT correction outside the sale
// flow; the repository locks the row so it cannot race a posting.
func (s *productService) AdjustStock(req *model.StockAdjustment, actor Actor) (*model.Product, error) {
	if msg := validator.FirstError(req); msg != "" {
		return nil, apperr.Validation("%s", msg)
	}

	req.CreatedBy = actor.ID.String()
	req.UpdatedBy = actor.ID.String()

	product, err := s.productRepo.AdjustStock(req)
	if err != nil {
		return nil, err
	}

	go s.wsHub.BroadcastEvent("stock_update", map[string]interface{}{
		"action": "stock_adjusted",
		"product": map[string]interface{}{
			"id":        product.ID,
			"sku":       product.SKU,
			"name":      product.Name,
			"new_stock": product.Stock,
		},
		"message": fmt.Sprintf("%s adjusted stock of '%s' (%s %d)", actor.Name, product.Name, req.Type, req.Quantity),
	})

	return product, nil
}

func (s *productService) GetAllProducts() ([]model.Product, error) {
	return s.productRepo.FindAll()
}

func (s *productService) GetProductByID(id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		return nil, apperr.NotFound("product not found")
	}
	return product, nil
}
