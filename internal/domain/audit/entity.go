// internal/domain/audit/entity.go
package audit

import "time"

// EntryType classifies a ledger entry by transfer outcome
type EntryType string

const (
	EntryTypeApprovedTransfer EntryType = "approved_transfer"
	EntryTypeRejectedTransfer EntryType = "rejected_transfer"
)

// TransferLedgerEntry is an append-only audit record written whenever a
// transfer request reaches a terminal approved or rejected state. Entries are
// never edited or removed.
type TransferLedgerEntry struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RequestID    uint      `gorm:"not null;index" json:"request_id"`
	EntryType    EntryType `gorm:"not null;index" json:"entry_type"`
	ItemCode     string    `gorm:"not null;size:100;index" json:"item_code"`
	Brand        string    `gorm:"size:100" json:"brand,omitempty"`
	Model        string    `gorm:"size:100" json:"model,omitempty"`
	Quantity     int       `gorm:"not null" json:"quantity"`
	FromLocation string    `gorm:"not null;size:50;index" json:"from_location"`
	ToLocation   string    `gorm:"not null;size:50;index" json:"to_location"`
	ActorID      uint      `gorm:"index" json:"actor_id"`
	ActorName    string    `gorm:"size:100" json:"actor_name"`
	Reason       string    `gorm:"type:text" json:"reason,omitempty"`
	RecordedAt   time.Time `gorm:"not null;index" json:"recorded_at"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName overrides the table name for TransferLedgerEntry
func (TransferLedgerEntry) TableName() string {
	return "transfer_ledger_entries"
}
