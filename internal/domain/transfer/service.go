// internal/domain/transfer/service.go
package transfer

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/your-org/inventory-backend/internal/config"
	"github.com/your-org/inventory-backend/internal/domain/audit"
	"github.com/your-org/inventory-backend/internal/domain/stock"
	"github.com/your-org/inventory-backend/internal/domain/user"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when no transfer request exists for an id
	ErrNotFound = errors.New("transfer request not found")
	// ErrAlreadyProcessing is returned when a resolution for the same request
	// is still in flight on this process
	ErrAlreadyProcessing = errors.New("transfer request is already being processed")
	// ErrAlreadyResolved is returned when resolving a request that reached a
	// terminal state; the stock mutation is never re-applied
	ErrAlreadyResolved = errors.New("transfer request is already resolved")
)

// Rejection reasons produced by the ordered approval checks
const (
	ReasonSourceNotFound        = "Item not found in source location"
	ReasonInsufficientStock     = "Insufficient stock in source location"
	ReasonDestinationNotAllowed = "Destination location not allowed"

	defaultRejectionReason = "No reason provided"
)

// Service drives transfer requests through the pending -> approved/rejected/
// failed lifecycle
type Service struct {
	db     *gorm.DB
	config *config.Config
	stock  *stock.Service
	audit  *audit.Service

	// Process-local single-flight guard. The conditional status=pending
	// update inside each resolution transaction is the real cross-process
	// guard; this map only keeps one approval surface from double-submitting.
	mu       sync.Mutex
	inflight map[uint]struct{}
}

// NewService creates a new transfer service
func NewService(db *gorm.DB, cfg *config.Config, stockService *stock.Service, auditService *audit.Service) *Service {
	return &Service{
		db:       db,
		config:   cfg,
		stock:    stockService,
		audit:    auditService,
		inflight: make(map[uint]struct{}),
	}
}

// CreateRequest represents a transfer request command
type CreateRequest struct {
	ItemCode     string `json:"item_code" binding:"required"`
	Quantity     int    `json:"quantity" binding:"required,gt=0"`
	FromLocation string `json:"from_location" binding:"required"`
	ToLocation   string `json:"to_location" binding:"required"`
}

// Request creates a pending transfer request. Stock is not touched until the
// request is approved.
func (s *Service) Request(req *CreateRequest, actor user.Actor) (*TransferRequest, error) {
	if req.ItemCode == "" || req.FromLocation == "" || req.ToLocation == "" {
		return nil, fmt.Errorf("item code and both locations are required")
	}
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("transfer quantity must be positive")
	}

	request := &TransferRequest{
		ItemCode:        req.ItemCode,
		Quantity:        req.Quantity,
		FromLocation:    req.FromLocation,
		ToLocation:      req.ToLocation,
		Status:          StatusPending,
		RequestedBy:     actor.ID,
		RequestedByName: actor.Name,
		RequestedAt:     time.Now().UTC(),
	}

	if err := s.db.Create(request).Error; err != nil {
		return nil, fmt.Errorf("failed to create transfer request: %w", err)
	}

	return request, nil
}

// Get retrieves a transfer request by id
func (s *Service) Get(requestID uint) (*TransferRequest, error) {
	var request TransferRequest
	if err := s.db.First(&request, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load transfer request: %w", err)
	}
	return &request, nil
}

// List retrieves transfer requests, optionally filtered by status, most
// recent first
func (s *Service) List(status Status, limit int) ([]TransferRequest, error) {
	if limit <= 0 {
		limit = 100
	}
	query := s.db.Order("requested_at DESC").Limit(limit)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var requests []TransferRequest
	if err := query.Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("failed to list transfer requests: %w", err)
	}
	return requests, nil
}

// Pending retrieves all pending transfer requests, oldest first
func (s *Service) Pending() ([]TransferRequest, error) {
	var requests []TransferRequest
	if err := s.db.Where("status = ?", StatusPending).Order("requested_at").Find(&requests).Error; err != nil {
		return nil, fmt.Errorf("failed to list pending transfer requests: %w", err)
	}
	return requests, nil
}

// Resolve applies an approve or reject decision to a pending request.
//
// Business-rule failures on the approve path (missing source, insufficient
// stock, disallowed destination) convert the request into a terminal rejected
// state with a human-readable reason and return it without error. A failure
// after the checks marks the request failed and re-surfaces the error.
func (s *Service) Resolve(requestID uint, decision Decision, actor user.Actor, reason string) (*TransferRequest, error) {
	if !s.beginProcessing(requestID) {
		return nil, ErrAlreadyProcessing
	}
	defer s.endProcessing(requestID)

	request, err := s.Get(requestID)
	if err != nil {
		return nil, err
	}
	if request.IsTerminal() {
		return nil, ErrAlreadyResolved
	}

	switch decision {
	case DecisionReject:
		if reason == "" {
			reason = defaultRejectionReason
		}
		return s.rejectPending(request, actor, reason)
	case DecisionApprove:
		return s.approve(request, actor)
	default:
		return nil, fmt.Errorf("invalid decision: %s", decision)
	}
}

// approve runs the ordered checks and, on success, moves stock and finalizes
// the request in a single transaction.
func (s *Service) approve(request *TransferRequest, actor user.Actor) (*TransferRequest, error) {
	source, err := s.stock.Get(request.ItemCode, request.FromLocation)
	if errors.Is(err, stock.ErrNotFound) {
		return s.rejectPending(request, actor, ReasonSourceNotFound)
	}
	if err != nil {
		return nil, err
	}

	if !source.CanFulfill(request.Quantity) {
		return s.rejectPending(request, actor, ReasonInsufficientStock)
	}

	policy, err := s.GetPolicy()
	if err != nil {
		return nil, err
	}
	if !policy.AllowsDestination(request.ToLocation) {
		return s.rejectPending(request, actor, ReasonDestinationNotAllowed)
	}

	now := time.Now().UTC()
	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		// Debit the source before crediting the destination.
		if _, err := s.stock.AdjustQuantity(tx, request.ItemCode, request.FromLocation, -request.Quantity, stock.Adjustment{
			Transfer: &stock.TransferStamp{
				ToLocation:    request.ToLocation,
				Quantity:      request.Quantity,
				TransferredAt: &now,
				TransferredBy: actor.ID,
			},
		}); err != nil {
			return err
		}

		if _, err := s.stock.UpsertAtDestination(tx, request.ItemCode, request.ToLocation, request.Quantity, source, request.FromLocation, actor.ID); err != nil {
			return err
		}

		result := tx.Model(&TransferRequest{}).
			Where("id = ? AND status = ?", request.ID, StatusPending).
			Updates(map[string]interface{}{
				"status":           StatusApproved,
				"approved_by":      actor.ID,
				"approved_by_name": actor.Name,
				"approved_at":      now,
				"source_stock_id":  source.ID,
				"processed_at":     now,
				"updated_at":       now,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to mark request approved: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrAlreadyResolved
		}

		return s.audit.Record(tx, &audit.TransferLedgerEntry{
			RequestID:    request.ID,
			EntryType:    audit.EntryTypeApprovedTransfer,
			ItemCode:     request.ItemCode,
			Brand:        source.Brand,
			Model:        source.Model,
			Quantity:     request.Quantity,
			FromLocation: request.FromLocation,
			ToLocation:   request.ToLocation,
			ActorID:      actor.ID,
			ActorName:    actor.Name,
			RecordedAt:   now,
		})
	})
	if txErr != nil {
		if errors.Is(txErr, ErrAlreadyResolved) {
			return nil, ErrAlreadyResolved
		}
		if errors.Is(txErr, stock.ErrInsufficientStock) {
			// The source was drained between the check and the debit.
			return s.rejectPending(request, actor, ReasonInsufficientStock)
		}
		s.markFailed(request.ID, txErr)
		return nil, fmt.Errorf("transfer approval failed: %w", txErr)
	}

	return s.Get(request.ID)
}

// rejectPending finalizes a pending request as rejected and appends the
// matching ledger entry. The status update is conditional on the request
// still being pending, which is the real guard against double resolution.
func (s *Service) rejectPending(request *TransferRequest, actor user.Actor, reason string) (*TransferRequest, error) {
	now := time.Now().UTC()
	err := s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&TransferRequest{}).
			Where("id = ? AND status = ?", request.ID, StatusPending).
			Updates(map[string]interface{}{
				"status":           StatusRejected,
				"rejected_by":      actor.ID,
				"rejected_by_name": actor.Name,
				"rejected_at":      now,
				"rejection_reason": reason,
				"processed_at":     now,
				"updated_at":       now,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to mark request rejected: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrAlreadyResolved
		}

		return s.audit.Record(tx, &audit.TransferLedgerEntry{
			RequestID:    request.ID,
			EntryType:    audit.EntryTypeRejectedTransfer,
			ItemCode:     request.ItemCode,
			Quantity:     request.Quantity,
			FromLocation: request.FromLocation,
			ToLocation:   request.ToLocation,
			ActorID:      actor.ID,
			ActorName:    actor.Name,
			Reason:       reason,
			RecordedAt:   now,
		})
	})
	if err != nil {
		return nil, err
	}

	return s.Get(request.ID)
}

// markFailed is a best-effort compensating write; the request carries the
// error text so the inconsistency stays visible to an operator.
func (s *Service) markFailed(requestID uint, cause error) {
	now := time.Now().UTC()
	s.db.Model(&TransferRequest{}).
		Where("id = ? AND status = ?", requestID, StatusPending).
		Updates(map[string]interface{}{
			"status":     StatusFailed,
			"error":      cause.Error(),
			"failed_at":  now,
			"updated_at": now,
		})
}

func (s *Service) beginProcessing(requestID uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[requestID]; busy {
		return false
	}
	s.inflight[requestID] = struct{}{}
	return true
}

func (s *Service) endProcessing(requestID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, requestID)
}
