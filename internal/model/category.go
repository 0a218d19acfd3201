package model

// Category groups products in the catalog
type Category struct {
	BaseModel
	Code     string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code" validate:"required"`
	Name     string `gorm:"type:varchar(100);not null" json:"name" validate:"required"`
	IsActive bool   `gorm:"default:true" json:"is_active"`

	Products []Product `json:"products,omitempty"`
}
