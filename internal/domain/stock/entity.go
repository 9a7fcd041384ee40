// internal/domain/stock/entity.go
package stock

import (
	"time"

	"github.com/shopspring/decimal"
)

// Location represents a named branch or warehouse
type Location struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"uniqueIndex;not null;size:50" json:"code"`
	Name      string    `gorm:"not null;size:100" json:"name"`
	Address   string    `gorm:"type:text" json:"address"`
	City      string    `gorm:"size:50" json:"city"`
	Phone     string    `gorm:"size:20" json:"phone"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TransferStamp records the last outbound transfer applied to a stock record
type TransferStamp struct {
	ToLocation    string     `gorm:"size:50" json:"to_location,omitempty"`
	Quantity      int        `json:"quantity,omitempty"`
	TransferredAt *time.Time `json:"transferred_at,omitempty"`
	TransferredBy uint       `json:"transferred_by,omitempty"`
}

// RestockStamp records the last inbound transfer applied to a stock record
type RestockStamp struct {
	FromLocation string     `gorm:"size:50" json:"from_location,omitempty"`
	Quantity     int        `json:"quantity,omitempty"`
	RestockedAt  *time.Time `json:"restocked_at,omitempty"`
	RestockedBy  uint       `json:"restocked_by,omitempty"`
}

// StockRecord represents stock levels for a product variant at one location.
// There is at most one record per (item_code, location) pair; records are
// never hard-deleted, zero-quantity rows persist as history anchors.
type StockRecord struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	ItemCode           string          `gorm:"not null;size:100;uniqueIndex:idx_stock_item_location" json:"item_code"`
	Location           string          `gorm:"not null;size:50;uniqueIndex:idx_stock_item_location" json:"location"`
	Brand              string          `gorm:"size:100" json:"brand"`
	Model              string          `gorm:"size:100" json:"model"`
	Storage            string          `gorm:"size:50" json:"storage"`
	Color              string          `gorm:"size:50" json:"color"`
	Quantity           int             `gorm:"not null;default:0" json:"quantity"`
	OrderPrice         decimal.Decimal `gorm:"type:numeric(12,2)" json:"order_price"`
	SalePrice          decimal.Decimal `gorm:"type:numeric(12,2)" json:"sale_price"`
	DiscountPercentage float64         `gorm:"default:0" json:"discount_percentage"`
	TransferredFrom    string          `gorm:"size:50" json:"transferred_from,omitempty"`
	OriginalStockID    *uint           `json:"original_stock_id,omitempty"`
	LastSoldAt         *time.Time      `json:"last_sold_at,omitempty"`
	LastTransfer       TransferStamp   `gorm:"embedded;embeddedPrefix:last_transfer_" json:"last_transfer,omitempty"`
	LastRestock        RestockStamp    `gorm:"embedded;embeddedPrefix:last_restock_" json:"last_restock,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// TableName overrides the table name for StockRecord
func (StockRecord) TableName() string {
	return "stock_records"
}

// IsOutOfStock checks if the record has no sellable quantity left
func (sr *StockRecord) IsOutOfStock() bool {
	return sr.Quantity <= 0
}

// CanFulfill checks if there is enough stock for the requested quantity
func (sr *StockRecord) CanFulfill(quantity int) bool {
	return sr.Quantity >= quantity
}

// EffectiveUnitPrice returns the sale price after the discount percentage
func (sr *StockRecord) EffectiveUnitPrice() decimal.Decimal {
	discount := decimal.NewFromInt(1).Sub(decimal.NewFromFloat(sr.DiscountPercentage).Div(decimal.NewFromInt(100)))
	return sr.SalePrice.Mul(discount)
}
