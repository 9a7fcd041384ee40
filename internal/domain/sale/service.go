// internal/domain/sale/service.go
package sale

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/your-org/inventory-backend/internal/config"
	"github.com/your-org/inventory-backend/internal/domain/stock"
	"github.com/your-org/inventory-backend/internal/domain/user"
	"gorm.io/gorm"
)

var (
	// ErrInvalidPrice is returned when a supplied custom price is not positive
	ErrInvalidPrice = errors.New("custom price must be a positive number")
	// ErrInvalidQuantity is returned when the requested quantity is not positive
	ErrInvalidQuantity = errors.New("sale quantity must be positive")
)

// Service handles the point-of-sale path
type Service struct {
	db     *gorm.DB
	config *config.Config
	stock  *stock.Service
}

// NewService creates a new sale service
func NewService(db *gorm.DB, cfg *config.Config, stockService *stock.Service) *Service {
	return &Service{
		db:     db,
		config: cfg,
		stock:  stockService,
	}
}

// SellRequest represents a point-of-sale debit command
type SellRequest struct {
	ItemCode    string   `json:"item_code" binding:"required"`
	Location    string   `json:"location" binding:"required"`
	Quantity    int      `json:"quantity" binding:"required,gt=0"`
	CustomPrice *float64 `json:"custom_price,omitempty"`
}

// Sell debits stock at a single location and creates the sale record. The
// debit and the record insert commit in one transaction: either both are
// visible or neither is.
//
// Price rules: a custom price becomes the final sale price as-is (a flat
// total, not scaled by quantity); otherwise the final price is
// salePrice x (1 - discount/100) x quantity.
func (s *Service) Sell(req *SellRequest, actor user.Actor) (*SaleRecord, error) {
	if req.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	var customPrice *decimal.Decimal
	if req.CustomPrice != nil {
		if *req.CustomPrice <= 0 {
			return nil, ErrInvalidPrice
		}
		cp := decimal.NewFromFloat(*req.CustomPrice)
		customPrice = &cp
	}

	now := time.Now().UTC()
	var record *SaleRecord

	err := s.db.Transaction(func(tx *gorm.DB) error {
		adjusted, err := s.stock.AdjustQuantity(tx, req.ItemCode, req.Location, -req.Quantity, stock.Adjustment{
			SoldAt: &now,
		})
		if err != nil {
			return err
		}

		finalPrice := adjusted.EffectiveUnitPrice().Mul(decimal.NewFromInt(int64(req.Quantity)))
		saleType := SaleTypeStandard
		if customPrice != nil {
			finalPrice = *customPrice
			saleType = SaleTypeCustomPrice
		}

		record = &SaleRecord{
			ItemCode:           adjusted.ItemCode,
			Brand:              adjusted.Brand,
			Model:              adjusted.Model,
			Storage:            adjusted.Storage,
			Color:              adjusted.Color,
			StockID:            adjusted.ID,
			Quantity:           req.Quantity,
			OriginalPrice:      adjusted.SalePrice,
			FinalSalePrice:     finalPrice,
			CustomPrice:        customPrice,
			DiscountPercentage: adjusted.DiscountPercentage,
			Location:           req.Location,
			SoldBy:             actor.ID,
			SoldByName:         actor.Name,
			SoldAt:             now,
			SaleType:           saleType,
			Status:             "completed",
		}

		if err := tx.Create(record).Error; err != nil {
			return fmt.Errorf("failed to create sale record: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return record, nil
}

// ListFilter narrows the sale record read path for reporting collaborators
type ListFilter struct {
	Location string
	SoldBy   uint
	From     *time.Time
	To       *time.Time
	Limit    int
}

// List retrieves sale records matching the filter, most recent first
func (s *Service) List(filter ListFilter) ([]SaleRecord, error) {
	query := s.db.Order("sold_at DESC")
	if filter.Location != "" {
		query = query.Where("location = ?", filter.Location)
	}
	if filter.SoldBy != 0 {
		query = query.Where("sold_by = ?", filter.SoldBy)
	}
	if filter.From != nil {
		query = query.Where("sold_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("sold_at <= ?", *filter.To)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var records []SaleRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list sale records: %w", err)
	}
	return records, nil
}
