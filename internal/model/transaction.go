package model

import "github.com/google/uuid"

// TransactionStatus is the closed state set for a sale.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "pending"
	StatusCompleted TransactionStatus = "completed"
	StatusCancelled TransactionStatus = "cancelled"
)

// CanTransitionTo reports whether a status change is legal.
// completed and cancelled are terminal; items are immutable after either.
func (s TransactionStatus) CanTransitionTo(target TransactionStatus) bool {
	switch s {
	case StatusPending:
		return target == StatusCompleted || target == StatusCancelled
	default:
		return false
	}
}

// PaymentMethod is the closed set of accepted payment types.
type PaymentMethod string

const (
	PayCash    PaymentMethod = "cash"
	PayCard    PaymentMethod = "card"
	PayEWallet PaymentMethod = "e-wallet"
	PayQRIS    PaymentMethod = "qris"
)

// Transaction is a sale header. Amounts are minor currency units and
// must satisfy Total = Subtotal - Discount + Tax.
type Transaction struct {
	BaseModel
	Number        string            `gorm:"type:varchar(30);uniqueIndex;not null" json:"number"`
	CashierID     uuid.UUID         `gorm:"type:uuid;not null;index" json:"cashier_id"`
	Cashier       *User             `gorm:"foreignKey:CashierID" json:"cashier,omitempty"`
	CustomerID    *uuid.UUID        `gorm:"type:uuid;index" json:"customer_id"`
	Customer      *Customer         `json:"customer,omitempty"`
	Subtotal      int64             `gorm:"not null" json:"subtotal"`
	Tax           int64             `gorm:"not null;default:0" json:"tax"`
	Discount      int64             `gorm:"not null;default:0" json:"discount"`
	Total         int64             `gorm:"not null" json:"total"`
	PaymentMethod PaymentMethod     `gorm:"type:varchar(20);not null" json:"payment_method"`
	Status        TransactionStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	Notes         string            `json:"notes"`

	Items []TransactionItem `gorm:"foreignKey:TransactionID" json:"items,omitempty"`
}

// TransactionItem is one product line within a sale. ProductName and
// UnitPrice snapshot the product at sale time so later catalog edits do
// not rewrite history.
type TransactionItem struct {
	BaseModel
	TransactionID uuid.UUID `gorm:"type:uuid;not null;index" json:"transaction_id"`
	ProductID     uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductName   string    `gorm:"type:varchar(255);not null" json:"product_name"`
	UnitPrice     int64     `gorm:"not null" json:"unit_price"`
	Quantity      int       `gorm:"not null" json:"quantity"`
	Subtotal      int64     `gorm:"not null" json:"subtotal"` // UnitPrice * Quantity
}
