// internal/domain/audit/service.go
package audit

import (
	"fmt"
	"time"

	"github.com/your-org/inventory-backend/internal/config"
	"gorm.io/gorm"
)

// Service handles the append-only transfer ledger
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new audit service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// Record appends a ledger entry. The write is a pure append with no
// read-modify-write; validation stops at structural completeness. tx is the
// caller's running transaction so the entry commits atomically with the
// transfer outcome it documents.
func (s *Service) Record(tx *gorm.DB, entry *TransferLedgerEntry) error {
	if entry.EntryType != EntryTypeApprovedTransfer && entry.EntryType != EntryTypeRejectedTransfer {
		return fmt.Errorf("invalid ledger entry type: %s", entry.EntryType)
	}
	if entry.ItemCode == "" || entry.FromLocation == "" || entry.ToLocation == "" {
		return fmt.Errorf("ledger entry is missing required fields")
	}
	if entry.Quantity <= 0 {
		return fmt.Errorf("ledger entry quantity must be positive")
	}

	if entry.RecordedAt.IsZero() {
		entry.RecordedAt = time.Now().UTC()
	}

	if err := tx.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to append ledger entry: %w", err)
	}
	return nil
}

// QueryByTimeRange retrieves ledger entries recorded within [from, to],
// ordered by recording time
func (s *Service) QueryByTimeRange(from, to time.Time) ([]TransferLedgerEntry, error) {
	var entries []TransferLedgerEntry
	err := s.db.
		Where("recorded_at >= ? AND recorded_at <= ?", from, to).
		Order("recorded_at").
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries: %w", err)
	}
	return entries, nil
}

// QueryByLocation retrieves ledger entries touching a location on either side
// of the transfer, most recent first
func (s *Service) QueryByLocation(location string, limit int) ([]TransferLedgerEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	var entries []TransferLedgerEntry
	err := s.db.
		Where("from_location = ? OR to_location = ?", location, location).
		Order("recorded_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries: %w", err)
	}
	return entries, nil
}
