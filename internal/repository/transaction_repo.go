package repository

import (
	"errors"
	"sort"
	"time"

	"go-pos-api/internal/model"
	"go-pos-api/pkg/apperr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrDuplicateNumber signals a transaction-number collision. The sale
// service retries with a fresh number; every other conflict surfaces.
var ErrDuplicateNumber = errors.New("transaction number already exists")

type TransactionRepository interface {
	// CreateSale persists header + items, decrements stock and bumps
	// customer aggregates as one database transaction. Product rows are
	// locked for the duration; stock is re-checked under the lock.
	CreateSale(sale *model.Transaction, items []model.TransactionItem) error
	FindAll() ([]model.Transaction, error)
	FindByID(id uuid.UUID) (*model.Transaction, error)
	// UpdateStatus transitions a sale from one status to another; it
	// fails with a conflict if the stored status is not `from`.
	UpdateStatus(id uuid.UUID, from, to model.TransactionStatus, updatedBy string) error
	GetDashboardStats() (*DashboardStats, error)
	GetSalesByDay(startDate, endDate time.Time) ([]SalesByDayData, error)
}

// SalesByDayData feeds the dashboard sales chart
type SalesByDayData struct {
	Date         string `json:"date"`
	Revenue      int64  `json:"revenue"`
	Transactions int    `json:"transactions"`
}

// DashboardStats for the overview cards
type DashboardStats struct {
	TotalProducts     int64 `json:"total_products"`
	LowStockCount     int64 `json:"low_stock_count"`
	TodayRevenue      int64 `json:"today_revenue"`
	TodayTransactions int64 `json:"today_transactions"`
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

func (r *transactionRepo) CreateSale(sale *model.Transaction, items []model.TransactionItem) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		// Lock products in a stable order so two concurrent sales over
		// the same pair of products cannot deadlock.
		order := make([]int, len(items))
		for i := range items {
			order[i] = i
		}
		sort.Slice(order, func(a, b int) bool {
			return items[order[a]].ProductID.String() < items[order[b]].ProductID.String()
		})

		for _, i := range order {
			item := &items[i]

			var product model.Product
			if err := lockForUpdate(tx).First(&product, "id = ?", item.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.Validation("product %s not found", item.ProductID)
				}
				return apperr.Persistence(err)
			}
			if !product.IsActive {
				return apperr.Validation("product %s is inactive", product.Name)
			}
			if product.Stock < item.Quantity {
				return apperr.Conflict("insufficient stock for product %s: have %d, need %d", product.Name, product.Stock, item.Quantity)
			}

			// Snapshot the catalog name at sale time
			item.ProductName = product.Name

			if err := tx.Model(&model.Product{}).Where("id = ?", product.ID).
				Update("stock", product.Stock-item.Quantity).Error; err != nil {
				return apperr.Persistence(err)
			}
		}

		if err := tx.Create(sale).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateNumber
			}
			return apperr.Persistence(err)
		}

		for i := range items {
			items[i].TransactionID = sale.ID
			if err := tx.Create(&items[i]).Error; err != nil {
				return apperr.Persistence(err)
			}
		}

		if sale.CustomerID != nil {
			err := tx.Model(&model.Customer{}).Where("id = ?", *sale.CustomerID).
				Updates(map[string]interface{}{
					"total_purchases":   gorm.Expr("total_purchases + ?", sale.Total),
					"transaction_count": gorm.Expr("transaction_count + 1"),
				}).Error
			if err != nil {
				return apperr.Persistence(err)
			}
		}

		sale.Items = items
		return nil
	})
}

func (r *transactionRepo) FindAll() ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.db.Preload("Items").Preload("Cashier").Preload("Customer").
		Order("created_at DESC").Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) FindByID(id uuid.UUID) (*model.Transaction, error) {
	var transaction model.Transaction
	err := r.db.Preload("Items").Preload("Cashier").Preload("Customer").
		First(&transaction, "id = ?", id).Error
	return &transaction, err
}

func (r *transactionRepo) UpdateStatus(id uuid.UUID, from, to model.TransactionStatus, updatedBy string) error {
	res := r.db.Model(&model.Transaction{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]interface{}{
			"status":     to,
			"updated_by": updatedBy,
		})
	if res.Error != nil {
		return apperr.Persistence(res.Error)
	}
	if res.RowsAffected == 0 {
		// Either the sale does not exist or it is no longer in `from`
		var current model.Transaction
		if err := r.db.Select("status").First(&current, "id = ?", id).Error; err != nil {
			return apperr.NotFound("transaction not found")
		}
		return apperr.Conflict("cannot transition transaction from %s to %s", current.Status, to)
	}
	return nil
}

func (r *transactionRepo) GetDashboardStats() (*DashboardStats, error) {
	var stats DashboardStats

	if err := r.db.Model(&model.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.Product{}).Where("stock < ?", 10).Count(&stats.LowStockCount).Error; err != nil {
		return nil, err
	}

	today := time.Now().Truncate(24 * time.Hour)
	if err := r.db.Model(&model.Transaction{}).
		Where("status = ? AND created_at >= ?", model.StatusCompleted, today).
		Select("COALESCE(SUM(total), 0)").Scan(&stats.TodayRevenue).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&model.Transaction{}).
		Where("status = ? AND created_at >= ?", model.StatusCompleted, today).
		Count(&stats.TodayTransactions).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}

func (r *transactionRepo) GetSalesByDay(startDate, endDate time.Time) ([]SalesByDayData, error) {
	var results []SalesByDayData

	rows, err := r.db.Model(&model.Transaction{}).
		Select(`
			DATE(created_at) as date,
			COALESCE(SUM(total), 0) as revenue,
			COUNT(*) as transactions
		`).
		Where("status = ? AND created_at BETWEEN ? AND ?", model.StatusCompleted, startDate, endDate).
		Group("DATE(created_at)").
		Order("date ASC").
		Rows()

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var data SalesByDayData
		if err := rows.Scan(&data.Date, &data.Revenue, &data.Transactions); err != nil {
			return nil, err
		}
		results = append(results, data)
	}

	return results, nil
}
