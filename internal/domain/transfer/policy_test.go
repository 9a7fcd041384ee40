// internal/domain/transfer/policy_test.go
package transfer_test

import (
	"errors"
	"testing"

	"github.com/your-org/inventory-backend/internal/domain/transfer"
)

func TestGetPolicyBootstrapsFromDefaults(t *testing.T) {
	f := newFixture(t)

	policy, err := f.transfer.GetPolicy()
	if err != nil {
		t.Fatalf("failed to get policy: %v", err)
	}
	if !policy.RequireApproval {
		t.Fatal("expected approval required by default")
	}
	if policy.AutoApproveBelow != 10 {
		t.Fatalf("expected auto-approve threshold 10, got %d", policy.AutoApproveBelow)
	}
	if len(policy.AllowedLocations) != 3 {
		t.Fatalf("expected 3 allowed locations, got %d", len(policy.AllowedLocations))
	}
	if policy.Version != 1 {
		t.Fatalf("expected version 1, got %d", policy.Version)
	}

	// A second read returns the same singleton, not a new bootstrap
	again, err := f.transfer.GetPolicy()
	if err != nil {
		t.Fatalf("failed to re-read policy: %v", err)
	}
	if again.ID != policy.ID {
		t.Fatal("expected the same policy row on re-read")
	}
}

func TestUpdatePolicy(t *testing.T) {
	f := newFixture(t)
	policy, err := f.transfer.GetPolicy()
	if err != nil {
		t.Fatalf("failed to get policy: %v", err)
	}

	updated, err := f.transfer.UpdatePolicy(&transfer.UpdatePolicyRequest{
		RequireApproval:  false,
		AutoApproveBelow: 25,
		AllowedLocations: []string{"shop1", "warehouse"},
		Version:          policy.Version,
	}, approver)
	if err != nil {
		t.Fatalf("failed to update policy: %v", err)
	}
	if updated.Version != policy.Version+1 {
		t.Fatalf("expected version %d, got %d", policy.Version+1, updated.Version)
	}
	if updated.RequireApproval {
		t.Fatal("expected approval requirement disabled")
	}
	if updated.AutoApproveBelow != 25 {
		t.Fatalf("expected threshold 25, got %d", updated.AutoApproveBelow)
	}
	if updated.AllowsDestination("shop2") {
		t.Fatal("expected shop2 removed from the whitelist")
	}
	if !updated.AllowsDestination("warehouse") {
		t.Fatal("expected warehouse on the whitelist")
	}
	if updated.UpdatedBy != approver.ID {
		t.Fatal("expected updater identity on the policy")
	}
}

func TestUpdatePolicyStaleVersionConflicts(t *testing.T) {
	f := newFixture(t)
	policy, err := f.transfer.GetPolicy()
	if err != nil {
		t.Fatalf("failed to get policy: %v", err)
	}

	// First save wins
	if _, err := f.transfer.UpdatePolicy(&transfer.UpdatePolicyRequest{
		RequireApproval:  true,
		AutoApproveBelow: 15,
		AllowedLocations: []string{"shop1", "shop2", "warehouse"},
		Version:          policy.Version,
	}, approver); err != nil {
		t.Fatalf("failed to update policy: %v", err)
	}

	// A save against the old version must not overwrite the first one
	_, err = f.transfer.UpdatePolicy(&transfer.UpdatePolicyRequest{
		RequireApproval:  false,
		AutoApproveBelow: 99,
		AllowedLocations: []string{"shop1"},
		Version:          policy.Version,
	}, approver)
	if !errors.Is(err, transfer.ErrPolicyConflict) {
		t.Fatalf("expected ErrPolicyConflict, got %v", err)
	}

	current, err := f.transfer.GetPolicy()
	if err != nil {
		t.Fatalf("failed to re-read policy: %v", err)
	}
	if current.AutoApproveBelow != 15 {
		t.Fatalf("expected first save preserved, got threshold %d", current.AutoApproveBelow)
	}
}

func TestDecide(t *testing.T) {
	f := newFixture(t)
	policy := &transfer.ApprovalPolicy{
		RequireApproval:  true,
		AutoApproveBelow: 10,
	}

	small := &transfer.TransferRequest{Quantity: 10}
	large := &transfer.TransferRequest{Quantity: 11}

	if !f.transfer.Decide(small, policy) {
		t.Fatal("expected quantity at the threshold to qualify")
	}
	if f.transfer.Decide(large, policy) {
		t.Fatal("expected quantity above the threshold not to qualify")
	}

	policy.RequireApproval = false
	if !f.transfer.Decide(large, policy) {
		t.Fatal("expected everything to qualify when approval is not required")
	}
}

func TestAutoApproveLeavesLargeRequestsPending(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, "SM-S24-256", "shop1", 100)

	small := f.request(t, "SM-S24-256", 5, "shop1", "shop2")
	large := f.request(t, "SM-S24-256", 50, "shop1", "shop2")

	results, err := f.transfer.AutoApprove(approver)
	if err != nil {
		t.Fatalf("failed to auto-approve: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].RequestID != small.ID || results[0].Status != transfer.StatusApproved {
		t.Fatal("expected the small request approved")
	}

	remaining, err := f.transfer.Get(large.ID)
	if err != nil {
		t.Fatalf("failed to reload large request: %v", err)
	}
	if remaining.Status != transfer.StatusPending {
		t.Fatalf("expected large request still pending, got %s", remaining.Status)
	}

	src, _ := f.stock.Get("SM-S24-256", "shop1")
	if src.Quantity != 95 {
		t.Fatalf("expected source quantity 95, got %d", src.Quantity)
	}
}

func TestAutoApproveFiltersByQuantityWhenApprovalNotRequired(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, "SM-S24-256", "shop1", 100)

	policy, err := f.transfer.GetPolicy()
	if err != nil {
		t.Fatalf("failed to get policy: %v", err)
	}
	if _, err := f.transfer.UpdatePolicy(&transfer.UpdatePolicyRequest{
		RequireApproval:  false,
		AutoApproveBelow: 10,
		AllowedLocations: []string{"shop1", "shop2", "warehouse"},
		Version:          policy.Version,
	}, approver); err != nil {
		t.Fatalf("failed to update policy: %v", err)
	}

	small := f.request(t, "SM-S24-256", 5, "shop1", "shop2")
	large := f.request(t, "SM-S24-256", 50, "shop1", "shop2")

	// The sweep still filters on quantity even with approval not required
	results, err := f.transfer.AutoApprove(approver)
	if err != nil {
		t.Fatalf("failed to auto-approve: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].RequestID != small.ID || results[0].Status != transfer.StatusApproved {
		t.Fatal("expected only the small request approved")
	}

	remaining, err := f.transfer.Get(large.ID)
	if err != nil {
		t.Fatalf("failed to reload large request: %v", err)
	}
	if remaining.Status != transfer.StatusPending {
		t.Fatalf("expected large request still pending, got %s", remaining.Status)
	}
}

func TestBulkResolveContinuesPastFailures(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, "SM-S24-256", "shop1", 10)

	first := f.request(t, "SM-S24-256", 2, "shop1", "shop2")
	second := f.request(t, "SM-S24-256", 3, "shop1", "shop2")

	results := f.transfer.BulkResolve([]uint{first.ID, 9999, second.ID}, transfer.DecisionApprove, approver, "")
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Status != transfer.StatusApproved {
		t.Fatalf("expected first request approved, got %+v", results[0])
	}
	if results[1].Error == "" {
		t.Fatal("expected an error for the unknown request id")
	}
	if results[2].Status != transfer.StatusApproved {
		t.Fatalf("expected second request approved despite earlier failure, got %+v", results[2])
	}

	// Both approvals applied their debits
	src, _ := f.stock.Get("SM-S24-256", "shop1")
	if src.Quantity != 5 {
		t.Fatalf("expected source quantity 5, got %d", src.Quantity)
	}
}

func TestBulkResolveRecordsCheckRejections(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, "SM-S24-256", "shop1", 4)

	first := f.request(t, "SM-S24-256", 3, "shop1", "shop2")
	second := f.request(t, "SM-S24-256", 3, "shop1", "shop2")

	// The first approval drains the source below the second request's
	// quantity, so the second converts to a rejection, not an error.
	results := f.transfer.BulkResolve([]uint{first.ID, second.ID}, transfer.DecisionApprove, approver, "")
	if results[0].Status != transfer.StatusApproved {
		t.Fatalf("expected first request approved, got %+v", results[0])
	}
	if results[1].Status != transfer.StatusRejected {
		t.Fatalf("expected second request rejected, got %+v", results[1])
	}

	rejected, err := f.transfer.Get(second.ID)
	if err != nil {
		t.Fatalf("failed to reload second request: %v", err)
	}
	if rejected.RejectionReason != transfer.ReasonInsufficientStock {
		t.Fatalf("unexpected rejection reason: %q", rejected.RejectionReason)
	}
}
