package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"go-pos-api/internal/redisx"
	"go-pos-api/internal/repository"
)

type DashboardService interface {
	GetDashboardStats() (*repository.DashboardStats, error)
	GetSalesChart(days int) ([]repository.SalesByDayData, error)
}

type dashboardService struct {
	txRepo repository.TransactionRepository
	rdb    *redis.Client // Optional cache
}

func NewDashboardService(txRepo repository.TransactionRepository, rdb *redis.Client) DashboardService {
	return &dashboardService{txRepo: txRepo, rdb: rdb}
}

// GetDashboardStats serves the overview cards, cache-aside through
// Redis when configured. Cache failures fall through to Postgres.
func (s *dashboardService) GetDashboardStats() (*repository.DashboardStats, error) {
	ctx := context.Background()

	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, redisx.KeyDashboardStats).Bytes(); err == nil {
			var cached repository.DashboardStats
			if json.Unmarshal(raw, &cached) == nil {
				return &cached, nil
			}
		}
	}

	stats, err := s.txRepo.GetDashboardStats()
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if raw, err := json.Marshal(stats); err == nil {
			_ = s.rdb.Set(ctx, redisx.KeyDashboardStats, raw, redisx.TTLDashboardStats).Err()
		}
	}

	return stats, nil
}

func (s *dashboardService) GetSalesChart(days int) ([]repository.SalesByDayData, error) {
	if days <= 0 {
		days = 7
	}
	now := time.Now()
	return s.txRepo.GetSalesByDay(now.AddDate(0, 0, -days), now)
}
