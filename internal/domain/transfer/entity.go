// internal/domain/transfer/entity.go
package transfer

import "time"

// Status represents the transfer request lifecycle state
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusFailed   Status = "failed"
)

// Decision is an approval surface's verdict on a pending request
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// TransferRequest is a proposal to move quantity of an item between two
// locations. It is created pending and transitions exactly once to a terminal
// approved, rejected or failed state; terminal states never re-open.
type TransferRequest struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	ItemCode     string `gorm:"not null;size:100;index" json:"item_code"`
	Quantity     int    `gorm:"not null" json:"quantity"`
	FromLocation string `gorm:"not null;size:50;index" json:"from_location"`
	ToLocation   string `gorm:"not null;size:50;index" json:"to_location"`
	Status       Status `gorm:"not null;size:20;default:'pending';index" json:"status"`

	RequestedBy     uint      `gorm:"not null" json:"requested_by"`
	RequestedByName string    `gorm:"size:100" json:"requested_by_name"`
	RequestedAt     time.Time `gorm:"not null" json:"requested_at"`

	ApprovedBy     *uint      `json:"approved_by,omitempty"`
	ApprovedByName string     `gorm:"size:100" json:"approved_by_name,omitempty"`
	ApprovedAt     *time.Time `json:"approved_at,omitempty"`
	SourceStockID  *uint      `json:"source_stock_id,omitempty"`

	RejectedBy      *uint      `json:"rejected_by,omitempty"`
	RejectedByName  string     `gorm:"size:100" json:"rejected_by_name,omitempty"`
	RejectedAt      *time.Time `json:"rejected_at,omitempty"`
	RejectionReason string     `gorm:"type:text" json:"rejection_reason,omitempty"`

	FailedAt *time.Time `json:"failed_at,omitempty"`
	Error    string     `gorm:"type:text" json:"error,omitempty"`

	ProcessedAt *time.Time `json:"processed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName overrides the table name for TransferRequest
func (TransferRequest) TableName() string {
	return "transfer_requests"
}

// IsTerminal reports whether the request has reached a final state
func (tr *TransferRequest) IsTerminal() bool {
	return tr.Status == StatusApproved || tr.Status == StatusRejected || tr.Status == StatusFailed
}
