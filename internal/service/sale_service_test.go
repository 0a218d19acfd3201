package service

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"go-pos-api/internal/model"
	"go-pos-api/internal/repository"
	"go-pos-api/pkg/apperr"

	"github.com/google/uuid"
)

// fakeTransactionRepo mirrors the gorm repository's CreateSale
// semantics in memory: one mutex serializes postings the way row locks
// do, stock is re-checked under it, and nothing is written on failure.
type fakeTransactionRepo struct {
	mu         sync.Mutex
	products   map[uuid.UUID]*model.Product
	customers  map[uuid.UUID]*model.Customer
	sales      map[uuid.UUID]*model.Transaction
	numbers    map[string]bool
	collisions int // Force the first N CreateSale calls to report a number collision
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{
		products:  make(map[uuid.UUID]*model.Product),
		customers: make(map[uuid.UUID]*model.Customer),
		sales:     make(map[uuid.UUID]*model.Transaction),
		numbers:   make(map[string]bool),
	}
}

func (f *fakeTransactionRepo) addProduct(name string, price int64, stock int) uuid.UUID {
	id := uuid.New()
	f.products[id] = &model.Product{
		BaseModel: model.BaseModel{ID: id},
		SKU:       strings.ToUpper(name),
		Name:      name,
		Price:     price,
		Stock:     stock,
		IsActive:  true,
	}
	return id
}

func (f *fakeTransactionRepo) addSale(status model.TransactionStatus) uuid.UUID {
	id := uuid.New()
	f.sales[id] = &model.Transaction{
		BaseModel: model.BaseModel{ID: id},
		Number:    "TRX-20250101-" + id.String()[:4],
		Status:    status,
		Total:     1000,
	}
	return id
}

func (f *fakeTransactionRepo) CreateSale(sale *model.Transaction, items []model.TransactionItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.collisions > 0 {
		f.collisions--
		return repository.ErrDuplicateNumber
	}
	if f.numbers[sale.Number] {
		return repository.ErrDuplicateNumber
	}

	// Validate every line before touching any stock
	for _, item := range items {
		product, ok := f.products[item.ProductID]
		if !ok {
			return apperr.Validation("product %s not found", item.ProductID)
		}
		if !product.IsActive {
			return apperr.Validation("product %s is inactive", product.Name)
		}
		if product.Stock < item.Quantity {
			return apperr.Conflict("insufficient stock for product %s: have %d, need %d", product.Name, product.Stock, item.Quantity)
		}
	}

	for i := range items {
		product := f.products[items[i].ProductID]
		product.Stock -= items[i].Quantity
		items[i].ProductName = product.Name
	}

	if sale.ID == uuid.Nil {
		sale.ID = uuid.New()
	}
	for i := range items {
		items[i].TransactionID = sale.ID
	}
	sale.Items = items
	f.numbers[sale.Number] = true
	stored := *sale
	f.sales[sale.ID] = &stored

	if sale.CustomerID != nil {
		if customer, ok := f.customers[*sale.CustomerID]; ok {
			customer.TotalPurchases += sale.Total
			customer.TransactionCount++
		}
	}
	return nil
}

func (f *fakeTransactionRepo) FindAll() ([]model.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Transaction, 0, len(f.sales))
	for _, s := range f.sales {
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeTransactionRepo) FindByID(id uuid.UUID) (*model.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sales[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	copied := *s
	return &copied, nil
}

func (f *fakeTransactionRepo) UpdateStatus(id uuid.UUID, from, to model.TransactionStatus, updatedBy string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sales[id]
	if !ok {
		return apperr.NotFound("transaction not found")
	}
	if s.Status != from {
		return apperr.Conflict("cannot transition transaction from %s to %s", s.Status, to)
	}
	s.Status = to
	s.UpdatedBy = updatedBy
	return nil
}

func (f *fakeTransactionRepo) GetDashboardStats() (*repository.DashboardStats, error) {
	return &repository.DashboardStats{}, nil
}

func (f *fakeTransactionRepo) GetSalesByDay(startDate, endDate time.Time) ([]repository.SalesByDayData, error) {
	return nil, nil
}

func newSale(items []SaleItemRequest, subtotal, tax, discount, total int64) *PostSaleRequest {
	return &PostSaleRequest{
		Items:         items,
		Subtotal:      subtotal,
		Tax:           tax,
		Discount:      discount,
		Total:         total,
		PaymentMethod: model.PayCash,
	}
}

func TestPostSaleRoundTrip(t *testing.T) {
	repo := newFakeTransactionRepo()
	kopi := repo.addProduct("Kopi Susu", 8500, 10)
	roti := repo.addProduct("Roti Bakar", 3500, 5)
	svc := NewSaleService(repo, nil, nil)

	req := newSale([]SaleItemRequest{
		{ProductID: kopi, Quantity: 1, UnitPrice: 8500, Subtotal: 8500},
		{ProductID: roti, Quantity: 1, UnitPrice: 3500, Subtotal: 3500},
	}, 12000, 1200, 0, 13200)

	sale, err := svc.PostSale(req, uuid.New())
	if err != nil {
		t.Fatalf("PostSale: %v", err)
	}

	if sale.Total != 13200 {
		t.Errorf("stored total = %d, want 13200", sale.Total)
	}
	if sale.Status != model.StatusCompleted {
		t.Errorf("status = %s, want completed", sale.Status)
	}
	if !strings.HasPrefix(sale.Number, "TRX-") || len(sale.Number) != len("TRX-20060102-0000") {
		t.Errorf("unexpected transaction number %q", sale.Number)
	}
	if repo.products[kopi].Stock != 9 || repo.products[roti].Stock != 4 {
		t.Errorf("stock not decremented: kopi=%d roti=%d", repo.products[kopi].Stock, repo.products[roti].Stock)
	}
	if len(sale.Items) != 2 || sale.Items[0].ProductName == "" {
		t.Errorf("items missing product name snapshot: %+v", sale.Items)
	}

	stored, err := repo.FindByID(sale.ID)
	if err != nil {
		t.Fatalf("sale not persisted: %v", err)
	}
	if stored.Total != 13200 {
		t.Errorf("persisted total = %d, want 13200", stored.Total)
	}
}

func TestPostSaleUpdatesCustomerAggregates(t *testing.T) {
	repo := newFakeTransactionRepo()
	product := repo.addProduct("Teh Manis", 5000, 10)
	customerID := uuid.New()
	repo.customers[customerID] = &model.Customer{BaseModel: model.BaseModel{ID: customerID}, Name: "Budi"}
	svc := NewSaleService(repo, nil, nil)

	req := newSale([]SaleItemRequest{
		{ProductID: product, Quantity: 2, UnitPrice: 5000, Subtotal: 10000},
	}, 10000, 0, 0, 10000)
	req.CustomerID = &customerID

	if _, err := svc.PostSale(req, uuid.New()); err != nil {
		t.Fatalf("PostSale: %v", err)
	}

	customer := repo.customers[customerID]
	if customer.TotalPurchases != 10000 {
		t.Errorf("total_purchases = %d, want 10000", customer.TotalPurchases)
	}
	if customer.TransactionCount != 1 {
		t.Errorf("transaction_count = %d, want 1", customer.TransactionCount)
	}
}

func TestPostSaleValidationRejectsBeforeAnyWrite(t *testing.T) {
	repo := newFakeTransactionRepo()
	product := repo.addProduct("Kopi", 8500, 10)
	svc := NewSaleService(repo, nil, nil)

	cases := []struct {
		name string
		req  *PostSaleRequest
	}{
		{"empty items", newSale(nil, 0, 0, 0, 0)},
		{"zero quantity", newSale([]SaleItemRequest{
			{ProductID: product, Quantity: 0, UnitPrice: 8500, Subtotal: 0},
		}, 0, 0, 0, 0)},
		{"line subtotal mismatch", newSale([]SaleItemRequest{
			{ProductID: product, Quantity: 2, UnitPrice: 8500, Subtotal: 8500},
		}, 8500, 0, 0, 8500)},
		{"header subtotal mismatch", newSale([]SaleItemRequest{
			{ProductID: product, Quantity: 1, UnitPrice: 8500, Subtotal: 8500},
		}, 9000, 0, 0, 9000)},
		{"total equation broken", newSale([]SaleItemRequest{
			{ProductID: product, Quantity: 1, UnitPrice: 8500, Subtotal: 8500},
		}, 8500, 1000, 0, 8500)},
		{"negative discount", newSale([]SaleItemRequest{
			{ProductID: product, Quantity: 1, UnitPrice: 8500, Subtotal: 8500},
		}, 8500, 0, -100, 8600)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.PostSale(tc.req, uuid.New())
			if err == nil {
				t.Fatal("expected validation error")
			}
			if apperr.KindOf(err) != apperr.KindValidation {
				t.Errorf("error kind = %s, want validation_error (%v)", apperr.KindOf(err), err)
			}
			if repo.products[product].Stock != 10 {
				t.Errorf("stock mutated to %d by a rejected sale", repo.products[product].Stock)
			}
			if len(repo.sales) != 0 {
				t.Errorf("%d sale rows written by a rejected sale", len(repo.sales))
			}
		})
	}

	// Unknown payment method is also pre-write validation
	bad := newSale([]SaleItemRequest{
		{ProductID: product, Quantity: 1, UnitPrice: 8500, Subtotal: 8500},
	}, 8500, 0, 0, 8500)
	bad.PaymentMethod = "cheque"
	if _, err := svc.PostSale(bad, uuid.New()); apperr.KindOf(err) != apperr.KindValidation {
		t.Errorf("unknown payment method: got %v", err)
	}
}

func TestPostSaleInsufficientStockIsConflict(t *testing.T) {
	repo := newFakeTransactionRepo()
	product := repo.addProduct("Kopi", 8500, 1)
	svc := NewSaleService(repo, nil, nil)

	req := newSale([]SaleItemRequest{
		{ProductID: product, Quantity: 2, UnitPrice: 8500, Subtotal: 17000},
	}, 17000, 0, 0, 17000)

	_, err := svc.PostSale(req, uuid.New())
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Fatalf("error kind = %v, want conflict (%v)", apperr.KindOf(err), err)
	}
	if repo.products[product].Stock != 1 {
		t.Errorf("stock mutated to %d by a failed sale", repo.products[product].Stock)
	}
}

func TestConcurrentSalesNeverOverdrawStock(t *testing.T) {
	repo := newFakeTransactionRepo()
	product := repo.addProduct("Last One", 9900, 1)
	svc := NewSaleService(repo, nil, nil)

	results := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := newSale([]SaleItemRequest{
				{ProductID: product, Quantity: 1, UnitPrice: 9900, Subtotal: 9900},
			}, 9900, 0, 0, 9900)
			_, err := svc.PostSale(req, uuid.New())
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, conflicts int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case apperr.KindOf(err) == apperr.KindConflict:
			conflicts++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if successes != 1 || conflicts != 1 {
		t.Errorf("got %d successes and %d conflicts, want exactly 1 and 1", successes, conflicts)
	}
	if repo.products[product].Stock != 0 {
		t.Errorf("stock = %d, want 0 (never negative)", repo.products[product].Stock)
	}
}

func TestNumberCollisionRetries(t *testing.T) {
	repo := newFakeTransactionRepo()
	product := repo.addProduct("Kopi", 8500, 10)
	repo.collisions = 3 // First three attempts collide
	svc := NewSaleService(repo, nil, nil)

	req := newSale([]SaleItemRequest{
		{ProductID: product, Quantity: 1, UnitPrice: 8500, Subtotal: 8500},
	}, 8500, 0, 0, 8500)

	sale, err := svc.PostSale(req, uuid.New())
	if err != nil {
		t.Fatalf("PostSale should survive 3 collisions: %v", err)
	}
	if sale.Number == "" {
		t.Error("sale has no number")
	}
}

func TestNumberCollisionRetriesAreBounded(t *testing.T) {
	repo := newFakeTransactionRepo()
	product := repo.addProduct("Kopi", 8500, 10)
	repo.collisions = maxNumberAttempts // Every attempt collides
	svc := NewSaleService(repo, nil, nil)

	req := newSale([]SaleItemRequest{
		{ProductID: product, Quantity: 1, UnitPrice: 8500, Subtotal: 8500},
	}, 8500, 0, 0, 8500)

	_, err := svc.PostSale(req, uuid.New())
	if apperr.KindOf(err) != apperr.KindConflict {
		t.Fatalf("exhausted retries should be a conflict, got %v", err)
	}
	if repo.products[product].Stock != 10 {
		t.Errorf("stock mutated to %d after exhausted retries", repo.products[product].Stock)
	}
}

func TestCancelSaleTransitions(t *testing.T) {
	repo := newFakeTransactionRepo()
	svc := NewSaleService(repo, nil, nil)

	pending := repo.addSale(model.StatusPending)
	if err := svc.CancelSale(pending, "tester"); err != nil {
		t.Errorf("cancelling a pending sale: %v", err)
	}
	if repo.sales[pending].Status != model.StatusCancelled {
		t.Errorf("status = %s, want cancelled", repo.sales[pending].Status)
	}
	if repo.sales[pending].UpdatedBy != "tester" {
		t.Errorf("updated_by = %q, want the cancelling user", repo.sales[pending].UpdatedBy)
	}
	// Rows survive cancellation for the audit trail
	if _, err := repo.FindByID(pending); err != nil {
		t.Error("cancelled sale was deleted")
	}

	completed := repo.addSale(model.StatusCompleted)
	if err := svc.CancelSale(completed, "tester"); apperr.KindOf(err) != apperr.KindConflict {
		t.Errorf("cancelling a completed sale: got %v, want conflict", err)
	}

	cancelled := repo.addSale(model.StatusCancelled)
	if err := svc.CancelSale(cancelled, "tester"); apperr.KindOf(err) != apperr.KindConflict {
		t.Errorf("cancelling a cancelled sale: got %v, want conflict", err)
	}

	if err := svc.CancelSale(uuid.New(), "tester"); apperr.KindOf(err) != apperr.KindNotFound {
		t.Errorf("cancelling an unknown sale: got %v, want not_found", err)
	}
}
