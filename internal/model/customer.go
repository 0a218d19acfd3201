package model

// Customer aggregates purchase stats updated after each completed sale
type Customer struct {
	BaseModel
	Name             string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	PhoneNumber      string `gorm:"type:varchar(20);index" json:"phone_number"`
	Email            string `gorm:"type:varchar(255)" json:"email" validate:"omitempty,email"`
	TotalPurchases   int64  `gorm:"default:0" json:"total_purchases"` // Minor currency units
	TransactionCount int    `gorm:"default:0" json:"transaction_count"`
}
