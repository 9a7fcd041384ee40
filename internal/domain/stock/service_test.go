// internal/domain/stock/service_test.go
package stock_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/inventory-backend/internal/domain/stock"
	"github.com/your-org/inventory-backend/internal/testutil"
)

func newStockService(t *testing.T) *stock.Service {
	t.Helper()
	db := testutil.NewTestDB(t)
	return stock.NewService(db, testutil.NewTestConfig())
}

func createStock(t *testing.T, svc *stock.Service, itemCode, location string, quantity int) *stock.StockRecord {
	t.Helper()
	record, err := svc.Create(&stock.CreateStockRequest{
		ItemCode:           itemCode,
		Location:           location,
		Brand:              "Samsung",
		Model:              "Galaxy S24",
		Storage:            "256GB",
		Color:              "Black",
		Quantity:           quantity,
		OrderPrice:         600,
		SalePrice:          800,
		DiscountPercentage: 0,
	})
	if err != nil {
		t.Fatalf("failed to create stock record: %v", err)
	}
	return record
}

func TestCreateStock(t *testing.T) {
	svc := newStockService(t)

	record := createStock(t, svc, "SM-S24-256", "shop1", 10)
	if record.ID == 0 {
		t.Fatal("expected created record to have an ID")
	}
	if record.Quantity != 10 {
		t.Fatalf("expected quantity 10, got %d", record.Quantity)
	}
}

func TestEffectiveUnitPriceExactDecimal(t *testing.T) {
	// 1 - 58/100 is not representable in binary floating point; the
	// discounted price must still come out exact
	record := &stock.StockRecord{
		SalePrice:          decimal.NewFromInt(100),
		DiscountPercentage: 58,
	}
	if got := record.EffectiveUnitPrice(); !got.Equal(decimal.NewFromInt(42)) {
		t.Fatalf("expected effective unit price 42, got %s", got)
	}
}

func TestCreateStockDuplicateKey(t *testing.T) {
	svc := newStockService(t)
	createStock(t, svc, "SM-S24-256", "shop1", 10)

	_, err := svc.Create(&stock.CreateStockRequest{
		ItemCode:  "SM-S24-256",
		Location:  "shop1",
		Brand:     "Samsung",
		Model:     "Galaxy S24",
		Quantity:  5,
		SalePrice: 800,
	})
	if !errors.Is(err, stock.ErrDuplicateRecord) {
		t.Fatalf("expected ErrDuplicateRecord, got %v", err)
	}

	// Same item at a different location is a distinct record
	if _, err := svc.Create(&stock.CreateStockRequest{
		ItemCode:  "SM-S24-256",
		Location:  "shop2",
		Brand:     "Samsung",
		Model:     "Galaxy S24",
		Quantity:  5,
		SalePrice: 800,
	}); err != nil {
		t.Fatalf("expected create at second location to succeed, got %v", err)
	}
}

func TestGetStockNotFound(t *testing.T) {
	svc := newStockService(t)

	_, err := svc.Get("NO-SUCH-ITEM", "shop1")
	if !errors.Is(err, stock.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListStockByLocation(t *testing.T) {
	svc := newStockService(t)
	createStock(t, svc, "SM-S24-256", "shop1", 10)
	createStock(t, svc, "IP-15-128", "shop1", 4)
	createStock(t, svc, "SM-S24-256", "shop2", 3)

	records, err := svc.List("shop1")
	if err != nil {
		t.Fatalf("failed to list stock: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records at shop1, got %d", len(records))
	}

	all, err := svc.List("")
	if err != nil {
		t.Fatalf("failed to list all stock: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 records total, got %d", len(all))
	}
}

func TestAdjustQuantityDebit(t *testing.T) {
	svc := newStockService(t)
	createStock(t, svc, "SM-S24-256", "shop1", 10)

	now := time.Now().UTC()
	record, err := svc.AdjustQuantity(svc.DB(), "SM-S24-256", "shop1", -3, stock.Adjustment{SoldAt: &now})
	if err != nil {
		t.Fatalf("failed to adjust quantity: %v", err)
	}
	if record.Quantity != 7 {
		t.Fatalf("expected quantity 7, got %d", record.Quantity)
	}
	if record.LastSoldAt == nil {
		t.Fatal("expected last_sold_at to be stamped")
	}
}

func TestAdjustQuantityNeverGoesNegative(t *testing.T) {
	svc := newStockService(t)
	createStock(t, svc, "SM-S24-256", "shop1", 2)

	_, err := svc.AdjustQuantity(svc.DB(), "SM-S24-256", "shop1", -3, stock.Adjustment{})
	if !errors.Is(err, stock.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	// The failed debit must not have touched the stored quantity
	record, err := svc.Get("SM-S24-256", "shop1")
	if err != nil {
		t.Fatalf("failed to reload record: %v", err)
	}
	if record.Quantity != 2 {
		t.Fatalf("expected quantity unchanged at 2, got %d", record.Quantity)
	}
}

func TestAdjustQuantityToZeroKeepsRecord(t *testing.T) {
	svc := newStockService(t)
	createStock(t, svc, "SM-S24-256", "shop1", 2)

	record, err := svc.AdjustQuantity(svc.DB(), "SM-S24-256", "shop1", -2, stock.Adjustment{})
	if err != nil {
		t.Fatalf("failed to drain quantity: %v", err)
	}
	if record.Quantity != 0 {
		t.Fatalf("expected quantity 0, got %d", record.Quantity)
	}
	if !record.IsOutOfStock() {
		t.Fatal("expected record to report out of stock")
	}

	// Zero-quantity records persist as history anchors
	if _, err := svc.Get("SM-S24-256", "shop1"); err != nil {
		t.Fatalf("expected zero-quantity record to remain readable, got %v", err)
	}
}

func TestUpsertAtDestinationCreatesWithProvenance(t *testing.T) {
	svc := newStockService(t)
	source := createStock(t, svc, "SM-S24-256", "shop1", 10)

	record, err := svc.UpsertAtDestination(svc.DB(), "SM-S24-256", "shop2", 3, source, "shop1", 42)
	if err != nil {
		t.Fatalf("failed to upsert destination: %v", err)
	}
	if record.Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", record.Quantity)
	}
	if record.TransferredFrom != "shop1" {
		t.Fatalf("expected transferred_from shop1, got %q", record.TransferredFrom)
	}
	if record.OriginalStockID == nil || *record.OriginalStockID != source.ID {
		t.Fatal("expected original_stock_id to reference the source record")
	}
	if record.Brand != source.Brand || record.Model != source.Model {
		t.Fatal("expected product attributes copied from the source record")
	}
	if !record.SalePrice.Equal(source.SalePrice) {
		t.Fatalf("expected sale price copied, got %s", record.SalePrice)
	}
}

func TestUpsertAtDestinationIncrementsExisting(t *testing.T) {
	svc := newStockService(t)
	source := createStock(t, svc, "SM-S24-256", "shop1", 10)
	existing := createStock(t, svc, "SM-S24-256", "shop2", 3)

	record, err := svc.UpsertAtDestination(svc.DB(), "SM-S24-256", "shop2", 2, source, "shop1", 42)
	if err != nil {
		t.Fatalf("failed to upsert destination: %v", err)
	}
	if record.ID != existing.ID {
		t.Fatal("expected the existing destination record to be reused")
	}
	if record.Quantity != 5 {
		t.Fatalf("expected quantity 5, got %d", record.Quantity)
	}
	if record.LastRestock.FromLocation != "shop1" {
		t.Fatalf("expected restock stamp from shop1, got %q", record.LastRestock.FromLocation)
	}
	if record.LastRestock.Quantity != 2 {
		t.Fatalf("expected restock stamp quantity 2, got %d", record.LastRestock.Quantity)
	}

	// Still exactly one record for the key
	records, err := svc.List("shop2")
	if err != nil {
		t.Fatalf("failed to list shop2 stock: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected a single record at shop2, got %d", len(records))
	}
}

func TestLocationManagement(t *testing.T) {
	svc := newStockService(t)

	loc, err := svc.CreateLocation(&stock.CreateLocationRequest{
		Code: "shop3",
		Name: "Third Branch",
		City: "Bandung",
	})
	if err != nil {
		t.Fatalf("failed to create location: %v", err)
	}
	if !loc.IsActive {
		t.Fatal("expected new location to be active")
	}

	if _, err := svc.CreateLocation(&stock.CreateLocationRequest{
		Code: "shop3",
		Name: "Duplicate",
	}); err == nil {
		t.Fatal("expected duplicate location code to be rejected")
	}

	locations, err := svc.GetLocations()
	if err != nil {
		t.Fatalf("failed to list locations: %v", err)
	}
	if len(locations) != 1 {
		t.Fatalf("expected 1 location, got %d", len(locations))
	}
}
