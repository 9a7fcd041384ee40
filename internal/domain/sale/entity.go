// internal/domain/sale/entity.go
package sale

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleType distinguishes the standard priced path from a custom-price override
type SaleType string

const (
	SaleTypeStandard    SaleType = "standard"
	SaleTypeCustomPrice SaleType = "custom_price"
)

// SaleRecord is the immutable record of a completed point-of-sale debit.
// Product attributes are snapshotted from the stock record at sale time;
// the record is never mutated or deleted afterwards.
type SaleRecord struct {
	ID                 uint             `gorm:"primaryKey" json:"id"`
	ItemCode           string           `gorm:"not null;size:100;index" json:"item_code"`
	Brand              string           `gorm:"size:100" json:"brand"`
	Model              string           `gorm:"size:100" json:"model"`
	Storage            string           `gorm:"size:50" json:"storage"`
	Color              string           `gorm:"size:50" json:"color"`
	StockID            uint             `gorm:"not null;index" json:"stock_id"`
	Quantity           int              `gorm:"not null" json:"quantity"`
	OriginalPrice      decimal.Decimal  `gorm:"type:numeric(12,2)" json:"original_price"`
	FinalSalePrice     decimal.Decimal  `gorm:"type:numeric(12,2)" json:"final_sale_price"`
	CustomPrice        *decimal.Decimal `gorm:"type:numeric(12,2)" json:"custom_price,omitempty"`
	DiscountPercentage float64          `json:"discount_percentage"`
	Location           string           `gorm:"not null;size:50;index" json:"location"`
	SoldBy             uint             `gorm:"not null;index" json:"sold_by"`
	SoldByName         string           `gorm:"size:100" json:"sold_by_name"`
	SoldAt             time.Time        `gorm:"not null;index" json:"sold_at"`
	SaleType           SaleType         `gorm:"not null;default:'standard'" json:"sale_type"`
	Status             string           `gorm:"not null;default:'completed'" json:"status"`
	CreatedAt          time.Time        `json:"created_at"`
}

// TableName overrides the table name for SaleRecord
func (SaleRecord) TableName() string {
	return "sale_records"
}
