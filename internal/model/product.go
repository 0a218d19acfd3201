package model

import "github.com/google/uuid"

type Product struct {
	BaseModel
	SKU        string     `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku" validate:"required"`
	Name       string     `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	CategoryID *uuid.UUID `gorm:"type:uuid;index" json:"category_id"`
	Category   *Category  `json:"category,omitempty" validate:"-"`
	Stock      int        `gorm:"default:0" json:"stock"`
	Unit       string     `gorm:"type:varchar(20)" json:"unit"`
	Price      int64      `gorm:"default:0" json:"price"` // Minor currency units
	IsActive   bool       `gorm:"default:true" json:"is_active"`
}

// StockAdjustmentType marks the direction of a manual stock adjustment.
type StockAdjustmentType string

const (
	AdjustIn  StockAdjustmentType = "IN"
	AdjustOut StockAdjustmentType = "OUT"
)

// StockAdjustment logs a manual stock correction outside the sale flow
type StockAdjustment struct {
	BaseModel
	ProductID uuid.UUID           `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	Product   *Product            `json:"product,omitempty" validate:"-"`
	Type      StockAdjustmentType `gorm:"type:varchar(10);not null" json:"type" validate:"required,oneof=IN OUT"`
	Quantity  int                 `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	Reason    string              `gorm:"type:varchar(255)" json:"reason"`
}
