package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"go-pos-api/internal/model"
	"go-pos-api/internal/redisx"
	"go-pos-api/internal/repository"
	"go-pos-api/internal/ws"
	"go-pos-api/pkg/apperr"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// maxNumberAttempts bounds the transaction-number collision retry loop.
const maxNumberAttempts = 5

type SaleService interface {
	PostSale(req *PostSaleRequest, cashierID uuid.UUID) (*model.Transaction, error)
	CancelSale(id uuid.UUID, updaterID string) error
	GetAllSales() ([]model.Transaction, error)
	GetSaleByID(id uuid.UUID) (*model.Transaction, error)
}

type SaleItemRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	UnitPrice int64     `json:"unit_price"`
	Subtotal  int64     `json:"subtotal"`
}

type PostSaleRequest struct {
	CustomerID    *uuid.UUID          `json:"customer_id"`
	Items         []SaleItemRequest   `json:"items"`
	Subtotal      int64               `json:"subtotal"`
	Tax           int64               `json:"tax"`
	Discount      int64               `json:"discount"`
	Total         int64               `json:"total"`
	PaymentMethod model.PaymentMethod `json:"payment_method"`
	Notes         string              `json:"notes"`
}

type saleService struct {
	txRepo repository.TransactionRepository
	rdb    *redis.Client // Optional: daily number sequence
	wsHub  *ws.Hub
}

func NewSaleService(txRepo repository.TransactionRepository, rdb *redis.Client, hub *ws.Hub) SaleService {
	return &saleService{
		txRepo: txRepo,
		rdb:    rdb,
		wsHub:  hub,
	}
}

// validateSale enforces every invariant that can be checked without the
// store: non-empty items, positive quantities, per-line and header
// arithmetic. Product existence and stock are re-checked under row locks
// inside the repository so no write can precede them.
func validateSale(req *PostSaleRequest) error {
	if len(req.Items) == 0 {
		return apperr.Validation("sale must contain at least one item")
	}

	switch req.PaymentMethod {
	case model.PayCash, model.PayCard, model.PayEWallet, model.PayQRIS:
	default:
		return apperr.Validation("unknown payment method %q", req.PaymentMethod)
	}

	if req.Subtotal < 0 || req.Tax < 0 || req.Discount < 0 || req.Total < 0 {
		return apperr.Validation("amounts cannot be negative")
	}

	var sum int64
	for i, item := range req.Items {
		if item.Quantity <= 0 {
			return apperr.Validation("item %d: quantity must be positive", i+1)
		}
		if item.UnitPrice < 0 {
			return apperr.Validation("item %d: unit price cannot be negative", i+1)
		}
		if item.Subtotal != item.UnitPrice*int64(item.Quantity) {
			return apperr.Validation("item %d: subtotal %d does not match %d x %d", i+1, item.Subtotal, item.UnitPrice, item.Quantity)
		}
		sum += item.Subtotal
	}

	if req.Subtotal != sum {
		return apperr.Validation("subtotal mismatch: header says %d, items sum to %d", req.Subtotal, sum)
	}
	if req.Total != req.Subtotal-req.Discount+req.Tax {
		return apperr.Validation("total mismatch: expected %d, got %d", req.Subtotal-req.Discount+req.Tax, req.Total)
	}

	return nil
}

// generateNumber builds TRX-YYYYMMDD-NNNN. The suffix comes from the
// Redis daily counter when available, otherwise it is random; either
// way the unique index has the final say and collisions are retried.
func (s *saleService) generateNumber(now time.Time) string {
	stamp := now.Format("20060102")

	if s.rdb != nil {
		key := fmt.Sprintf(redisx.KeySaleSequence, stamp)
		if seq, err := redisx.NextSequence(context.Background(), s.rdb, key, redisx.TTLSaleSequence); err == nil {
			return fmt.Sprintf("TRX-%s-%04d", stamp, seq%10000)
		}
	}

	return fmt.Sprintf("TRX-%s-%04d", stamp, rand.Intn(10000))
}

func (s *saleService) PostSale(req *PostSaleRequest, cashierID uuid.UUID) (*model.Transaction, error) {
	if cashierID == uuid.Nil {
		return nil, apperr.Validation("cashier is required")
	}
	if err := validateSale(req); err != nil {
		return nil, err
	}

	sale := &model.Transaction{
		CashierID:     cashierID,
		CustomerID:    req.CustomerID,
		Subtotal:      req.Subtotal,
		Tax:           req.Tax,
		Discount:      req.Discount,
		Total:         req.Total,
		PaymentMethod: req.PaymentMethod,
		Status:        model.StatusCompleted,
		Notes:         req.Notes,
	}
	sale.CreatedBy = cashierID.String()
	sale.UpdatedBy = cashierID.String()

	items := make([]model.TransactionItem, len(req.Items))
	for i, it := range req.Items {
		items[i] = model.TransactionItem{
			ProductID: it.ProductID,
			UnitPrice: it.UnitPrice,
			Quantity:  it.Quantity,
			Subtotal:  it.Subtotal,
		}
	}

	var err error
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		sale.Number = s.generateNumber(time.Now())
		err = s.txRepo.CreateSale(sale, items)
		if err == nil {
			break
		}
		if !errors.Is(err, repository.ErrDuplicateNumber) {
			return nil, err
		}
	}
	if err != nil {
		return nil, apperr.Conflict("could not allocate a unique transaction number after %d attempts", maxNumberAttempts)
	}

	go func() {
		itemCount := 0
		for _, it := range sale.Items {
			itemCount += it.Quantity
		}
		s.wsHub.BroadcastEvent("sale_completed", map[string]interface{}{
			"number":     sale.Number,
			"total":      sale.Total,
			"item_count": itemCount,
			"cashier_id": cashierID.String(),
		})
	}()

	return sale, nil
}

func (s *saleService) CancelSale(id uuid.UUID, updaterID string) error {
	sale, err := s.txRepo.FindByID(id)
	if err != nil {
		return apperr.NotFound("transaction not found")
	}

	// Cancellation is only legal before completion; completed and
	// cancelled are terminal and item rows stay for the audit trail.
	if !sale.Status.CanTransitionTo(model.StatusCancelled) {
		return apperr.Conflict("cannot cancel a %s transaction", sale.Status)
	}

	return s.txRepo.UpdateStatus(id, sale.Status, model.StatusCancelled, updaterID)
}

func (s *saleService) GetAllSales() ([]model.Transaction, error) {
	return s.txRepo.FindAll()
}

func (s *saleService) GetSaleByID(id uuid.UUID) (*model.Transaction, error) {
	sale, err := s.txRepo.FindByID(id)
	if err != nil {
		return nil, apperr.NotFound("transaction not found")
	}
	return sale, nil
}
