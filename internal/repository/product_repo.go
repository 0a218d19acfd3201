package repository

import (
	"errors"

	"go-pos-api/internal/model"
	"go-pos-api/pkg/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(product *model.Product) error
	FindAll() ([]model.Product, error)
	FindByID(id uuid.UUID) (*model.Product, error)
	FindBySKU(sku string) (*model.Product, error)
	Update(product *model.Product) error
	Delete(id uuid.UUID) error
	Count() (int64, error)
	AdjustStock(adj *model.StockAdjustment) (*model.Product, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepo) FindAll() ([]model.Product, error) {
	var products []model.Product
	err := r.db.Preload("Category").Order("name ASC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.Preload("Category").First(&product, "id = ?", id).Error
	return &product, err
}

func (r *productRepo) FindBySKU(sku string) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "sku = ?", sku).Error
	return &product, err
}

func (r *productRepo) Update(product *model.Product) error {
	return r.db.Save(product).Error
}

func (r *productRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Product{}, "id = ?", id).Error
}

// Count counts live products; used for the product quota gate.
func (r *productRepo) Count() (int64, error) {
	var n int64
	err := r.db.Model(&model.Product{}).Count(&n).Error
	return n, err
}

// AdjustStock applies a manual correction atomically: the product row is
// locked for the duration so an OUT adjustment can never overdraw stock.
func (r *productRepo) AdjustStock(adj *model.StockAdjustment) (*model.Product, error) {
	var product model.Product

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).First(&product, "id = ?", adj.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("product not found")
			}
			return apperr.Persistence(err)
		}

		newStock := product.Stock
		switch adj.Type {
		case model.AdjustIn:
			newStock += adj.Quantity
		case model.AdjustOut:
			if product.Stock < adj.Quantity {
				return apperr.Conflict("insufficient stock for product %s: have %d, removing %d", product.Name, product.Stock, adj.Quantity)
			}
			newStock -= adj.Quantity
		}

		if err := tx.Model(&model.Product{}).Where("id = ?", product.ID).
			Update("stock", newStock).Error; err != nil {
			return apperr.Persistence(err)
		}
		product.Stock = newStock

		if err := tx.Create(adj).Error; err != nil {
			return apperr.Persistence(err)
		}
		return nil
	})

	if err != nil {
		return nil, err
	}
	return &product, nil
}
