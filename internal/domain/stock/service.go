// internal/domain/stock/service.go
package stock

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/inventory-backend/internal/config"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when no stock record exists for a key
	ErrNotFound = errors.New("stock record not found")
	// ErrInsufficientStock is returned when a decrement would go negative
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrDuplicateRecord is returned when creating a record for an existing key
	ErrDuplicateRecord = errors.New("stock record already exists for this item and location")
)

// Service handles stock ledger business logic
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new stock service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// CreateStockRequest represents first stock intake data
type CreateStockRequest struct {
	ItemCode           string  `json:"item_code" binding:"required"`
	Location           string  `json:"location" binding:"required"`
	Brand              string  `json:"brand" binding:"required"`
	Model              string  `json:"model" binding:"required"`
	Storage            string  `json:"storage"`
	Color              string  `json:"color"`
	Quantity           int     `json:"quantity" binding:"required,gt=0"`
	OrderPrice         float64 `json:"order_price" binding:"gte=0"`
	SalePrice          float64 `json:"sale_price" binding:"required,gt=0"`
	DiscountPercentage float64 `json:"discount_percentage" binding:"gte=0,lte=100"`
}

// Adjustment carries the metadata a caller attaches to a quantity mutation
type Adjustment struct {
	SoldAt   *time.Time
	Transfer *TransferStamp
	Restock  *RestockStamp
}

// STOCK RECORDS

// Get retrieves the stock record for an (itemCode, location) pair
func (s *Service) Get(itemCode, location string) (*StockRecord, error) {
	var record StockRecord
	if err := s.db.Where("item_code = ? AND location = ?", itemCode, location).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load stock record: %w", err)
	}
	return &record, nil
}

// List retrieves stock records, optionally filtered by location
func (s *Service) List(location string) ([]StockRecord, error) {
	var records []StockRecord
	query := s.db.Order("item_code, location")
	if location != "" {
		query = query.Where("location = ?", location)
	}
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list stock records: %w", err)
	}
	return records, nil
}

// Create registers first stock intake for a new (itemCode, location) key.
// Uniqueness is enforced by the index on the key, so two concurrent creates
// cannot both slip through a pre-check.
func (s *Service) Create(req *CreateStockRequest) (*StockRecord, error) {
	record := &StockRecord{
		ItemCode:           req.ItemCode,
		Location:           req.Location,
		Brand:              req.Brand,
		Model:              req.Model,
		Storage:            req.Storage,
		Color:              req.Color,
		Quantity:           req.Quantity,
		OrderPrice:         decimal.NewFromFloat(req.OrderPrice),
		SalePrice:          decimal.NewFromFloat(req.SalePrice),
		DiscountPercentage: req.DiscountPercentage,
	}

	if err := s.db.Create(record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateRecord
		}
		return nil, fmt.Errorf("failed to create stock record: %w", err)
	}

	return record, nil
}

// AdjustQuantity applies a quantity delta to the record for (itemCode, location).
// Every quantity mutation in the system goes through here; callers never write
// quantity directly. The update is conditional on the resulting quantity staying
// non-negative, so concurrent decrements against the same key serialize at the
// store and can never drive it below zero.
//
// tx is the caller's running transaction; pass the service database for a
// standalone adjustment.
func (s *Service) AdjustQuantity(tx *gorm.DB, itemCode, location string, delta int, adj Adjustment) (*StockRecord, error) {
	var record StockRecord
	if err := tx.Where("item_code = ? AND location = ?", itemCode, location).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load stock record: %w", err)
	}

	now := time.Now().UTC()
	updates := map[string]interface{}{
		"quantity":   gorm.Expr("quantity + ?", delta),
		"updated_at": now,
	}

	if adj.SoldAt != nil {
		updates["last_sold_at"] = *adj.SoldAt
	}
	if adj.Transfer != nil {
		updates["last_transfer_to_location"] = adj.Transfer.ToLocation
		updates["last_transfer_quantity"] = adj.Transfer.Quantity
		updates["last_transfer_transferred_at"] = adj.Transfer.TransferredAt
		updates["last_transfer_transferred_by"] = adj.Transfer.TransferredBy
	}
	if adj.Restock != nil {
		updates["last_restock_from_location"] = adj.Restock.FromLocation
		updates["last_restock_quantity"] = adj.Restock.Quantity
		updates["last_restock_restocked_at"] = adj.Restock.RestockedAt
		updates["last_restock_restocked_by"] = adj.Restock.RestockedBy
	}

	result := tx.Model(&StockRecord{}).
		Where("id = ? AND quantity + ? >= 0", record.ID, delta).
		Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to adjust stock quantity: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrInsufficientStock
	}

	if err := tx.First(&record, record.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload stock record: %w", err)
	}
	return &record, nil
}

// UpsertAtDestination credits quantity to (itemCode, location). If no record
// exists for the key, one is created by copying product attributes from the
// template with transferredFrom provenance; otherwise the existing record is
// incremented through AdjustQuantity. Never creates a second record for an
// existing key.
func (s *Service) UpsertAtDestination(tx *gorm.DB, itemCode, location string, quantity int, template *StockRecord, fromLocation string, actorID uint) (*StockRecord, error) {
	var existing StockRecord
	err := tx.Where("item_code = ? AND location = ?", itemCode, location).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		record := &StockRecord{
			ItemCode:           itemCode,
			Location:           location,
			Brand:              template.Brand,
			Model:              template.Model,
			Storage:            template.Storage,
			Color:              template.Color,
			Quantity:           quantity,
			OrderPrice:         template.OrderPrice,
			SalePrice:          template.SalePrice,
			DiscountPercentage: template.DiscountPercentage,
			TransferredFrom:    fromLocation,
			OriginalStockID:    &template.ID,
		}
		if err := tx.Create(record).Error; err != nil {
			return nil, fmt.Errorf("failed to create destination stock record: %w", err)
		}
		return record, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check destination stock: %w", err)
	}

	now := time.Now().UTC()
	return s.AdjustQuantity(tx, itemCode, location, quantity, Adjustment{
		Restock: &RestockStamp{
			FromLocation: fromLocation,
			Quantity:     quantity,
			RestockedAt:  &now,
			RestockedBy:  actorID,
		},
	})
}

// LOCATION MANAGEMENT

// CreateLocationRequest represents branch location creation data
type CreateLocationRequest struct {
	Code    string `json:"code" binding:"required"`
	Name    string `json:"name" binding:"required"`
	Address string `json:"address"`
	City    string `json:"city"`
	Phone   string `json:"phone"`
}

// CreateLocation creates a new branch location
func (s *Service) CreateLocation(req *CreateLocationRequest) (*Location, error) {
	var existing Location
	if err := s.db.Where("code = ?", req.Code).First(&existing).Error; err == nil {
		return nil, fmt.Errorf("location with code '%s' already exists", req.Code)
	}

	location := &Location{
		Code:     req.Code,
		Name:     req.Name,
		Address:  req.Address,
		City:     req.City,
		Phone:    req.Phone,
		IsActive: true,
	}

	if err := s.db.Create(location).Error; err != nil {
		return nil, fmt.Errorf("failed to create location: %w", err)
	}

	return location, nil
}

// GetLocations retrieves all active branch locations
func (s *Service) GetLocations() ([]Location, error) {
	var locations []Location
	if err := s.db.Where("is_active = ?", true).Order("code").Find(&locations).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve locations: %w", err)
	}
	return locations, nil
}

// DB exposes the underlying database handle so sibling services can open
// transactions that include stock mutations.
func (s *Service) DB() *gorm.DB {
	return s.db
}
