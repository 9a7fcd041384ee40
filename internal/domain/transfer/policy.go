// internal/domain/transfer/policy.go
package transfer

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/your-org/inventory-backend/internal/domain/user"
	"gorm.io/gorm"
)

// ErrPolicyConflict is returned when a policy save races another
// administrator's save; the caller must re-read and retry
var ErrPolicyConflict = errors.New("approval policy was modified by another administrator")

// StringList stores a slice of strings as a JSON text column
type StringList []string

// Value implements driver.Valuer
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	data, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}
}

// ApprovalPolicy is the singleton configuration consulted on every approval
// decision. Saves are full replaces guarded by an optimistic version check.
type ApprovalPolicy struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	RequireApproval  bool       `gorm:"default:true" json:"require_approval"`
	AutoApproveBelow int        `gorm:"not null;default:10" json:"auto_approve_below"`
	AllowedLocations StringList `gorm:"type:text" json:"allowed_locations"`
	Version          int        `gorm:"not null;default:1" json:"version"`
	UpdatedBy        uint       `json:"updated_by"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// TableName overrides the table name for ApprovalPolicy
func (ApprovalPolicy) TableName() string {
	return "approval_policies"
}

// AllowsDestination reports whether the policy whitelist admits a destination
func (p *ApprovalPolicy) AllowsDestination(location string) bool {
	for _, allowed := range p.AllowedLocations {
		if allowed == location {
			return true
		}
	}
	return false
}

// GetPolicy loads the singleton policy, bootstrapping it from configuration
// defaults on first access
func (s *Service) GetPolicy() (*ApprovalPolicy, error) {
	var policy ApprovalPolicy
	err := s.db.Order("id").First(&policy).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		policy = ApprovalPolicy{
			RequireApproval:  s.config.Inventory.DefaultRequireApproval,
			AutoApproveBelow: s.config.Inventory.DefaultAutoApproveBelow,
			AllowedLocations: StringList(s.config.Inventory.BranchLocations),
			Version:          1,
		}
		if err := s.db.Create(&policy).Error; err != nil {
			return nil, fmt.Errorf("failed to bootstrap approval policy: %w", err)
		}
		return &policy, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load approval policy: %w", err)
	}
	return &policy, nil
}

// UpdatePolicyRequest represents an administrator's policy save
type UpdatePolicyRequest struct {
	RequireApproval  bool     `json:"require_approval"`
	AutoApproveBelow int      `json:"auto_approve_below" binding:"required,gt=0"`
	AllowedLocations []string `json:"allowed_locations" binding:"required,min=1"`
	Version          int      `json:"version" binding:"required,gt=0"`
}

// UpdatePolicy replaces the policy document. The save only succeeds if the
// caller's version matches the stored one; a stale save fails with
// ErrPolicyConflict instead of silently overwriting a concurrent change.
func (s *Service) UpdatePolicy(req *UpdatePolicyRequest, actor user.Actor) (*ApprovalPolicy, error) {
	policy, err := s.GetPolicy()
	if err != nil {
		return nil, err
	}

	allowed, err := StringList(req.AllowedLocations).Value()
	if err != nil {
		return nil, fmt.Errorf("failed to encode allowed locations: %w", err)
	}

	result := s.db.Model(&ApprovalPolicy{}).
		Where("id = ? AND version = ?", policy.ID, req.Version).
		Updates(map[string]interface{}{
			"require_approval":   req.RequireApproval,
			"auto_approve_below": req.AutoApproveBelow,
			"allowed_locations":  allowed,
			"version":            gorm.Expr("version + 1"),
			"updated_by":         actor.ID,
			"updated_at":         time.Now().UTC(),
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to save approval policy: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrPolicyConflict
	}

	return s.GetPolicy()
}

// Decide reports whether a request qualifies for auto-approval: approval is
// not required at all, or the quantity is at or below the threshold
func (s *Service) Decide(request *TransferRequest, policy *ApprovalPolicy) bool {
	return !policy.RequireApproval || request.Quantity <= policy.AutoApproveBelow
}

// ResolveResult is the per-item outcome of a bulk operation
type ResolveResult struct {
	RequestID uint   `json:"request_id"`
	Status    Status `json:"status,omitempty"`
	Error     string `json:"error,omitempty"`
}

// BulkResolve applies a decision to each request in order. A failure on one
// request is recorded in its result and does not abort the rest; processed
// requests are never rolled back.
func (s *Service) BulkResolve(requestIDs []uint, decision Decision, actor user.Actor, reason string) []ResolveResult {
	results := make([]ResolveResult, 0, len(requestIDs))
	for _, id := range requestIDs {
		request, err := s.Resolve(id, decision, actor, reason)
		if err != nil {
			results = append(results, ResolveResult{RequestID: id, Error: err.Error()})
			continue
		}
		results = append(results, ResolveResult{RequestID: id, Status: request.Status})
	}
	return results
}

// AutoApprove approves the subset of pending requests that qualify under the
// current policy threshold, leaving larger requests pending
func (s *Service) AutoApprove(actor user.Actor) ([]ResolveResult, error) {
	policy, err := s.GetPolicy()
	if err != nil {
		return nil, err
	}

	pending, err := s.Pending()
	if err != nil {
		return nil, err
	}

	// The sweep filters on quantity alone; requireApproval only governs
	// whether new requests need review, not which ones the sweep picks up
	var eligible []uint
	for i := range pending {
		if pending[i].Quantity <= policy.AutoApproveBelow {
			eligible = append(eligible, pending[i].ID)
		}
	}

	return s.BulkResolve(eligible, DecisionApprove, actor, ""), nil
}
