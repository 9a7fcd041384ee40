// internal/domain/transfer/service_test.go
package transfer_test

import (
	"errors"
	"testing"

	"github.com/your-org/inventory-backend/internal/domain/audit"
	"github.com/your-org/inventory-backend/internal/domain/stock"
	"github.com/your-org/inventory-backend/internal/domain/transfer"
	"github.com/your-org/inventory-backend/internal/domain/user"
	"github.com/your-org/inventory-backend/internal/testutil"
)

type fixture struct {
	transfer *transfer.Service
	stock    *stock.Service
	audit    *audit.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	cfg := testutil.NewTestConfig()
	stockService := stock.NewService(db, cfg)
	auditService := audit.NewService(db, cfg)
	return &fixture{
		transfer: transfer.NewService(db, cfg, stockService, auditService),
		stock:    stockService,
		audit:    auditService,
	}
}

func (f *fixture) seedStock(t *testing.T, itemCode, location string, quantity int) *stock.StockRecord {
	t.Helper()
	record, err := f.stock.Create(&stock.CreateStockRequest{
		ItemCode:           itemCode,
		Location:           location,
		Brand:              "Samsung",
		Model:              "Galaxy S24",
		Storage:            "256GB",
		Color:              "Black",
		Quantity:           quantity,
		OrderPrice:         600,
		SalePrice:          800,
		DiscountPercentage: 0,
	})
	if err != nil {
		t.Fatalf("failed to seed stock: %v", err)
	}
	return record
}

func (f *fixture) request(t *testing.T, itemCode string, quantity int, from, to string) *transfer.TransferRequest {
	t.Helper()
	request, err := f.transfer.Request(&transfer.CreateRequest{
		ItemCode:     itemCode,
		Quantity:     quantity,
		FromLocation: from,
		ToLocation:   to,
	}, requester)
	if err != nil {
		t.Fatalf("failed to create transfer request: %v", err)
	}
	return request
}

var (
	requester = user.Actor{ID: 3, Name: "Budi"}
	approver  = user.Actor{ID: 1, Name: "Admin"}
)

func TestRequestStartsPending(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, "SM-S24-256", "shop1", 10)

	request := f.request(t, "SM-S24-256", 3, "shop1", "shop2")
	if request.Status != transfer.StatusPending {
		t.Fatalf("expected pending status, got %s", request.Status)
	}
	if request.RequestedBy != requester.ID {
		t.Fatal("expected requester identity on the request")
	}

	// Creating the request must not touch stock
	source, err := f.stock.Get("SM-S24-256", "shop1")
	if err != nil {
		t.Fatalf("failed to reload source: %v", err)
	}
	if source.Quantity != 10 {
		t.Fatalf("expected source untouched at 10, got %d", source.Quantity)
	}
}

func TestApproveToNewDestination(t *testing.T) {
	f := newFixture(t)
	source := f.seedStock(t, "SM-S24-256", "shop1", 10)
	request := f.request(t, "SM-S24-256", 3, "shop1", "shop2")

	resolved, err := f.transfer.Resolve(request.ID, transfer.DecisionApprove, approver, "")
	if err != nil {
		t.Fatalf("failed to approve: %v", err)
	}
	if resolved.Status != transfer.StatusApproved {
		t.Fatalf("expected approved status, got %s", resolved.Status)
	}
	if resolved.ApprovedBy == nil || *resolved.ApprovedBy != approver.ID {
		t.Fatal("expected approver identity on the request")
	}
	if resolved.SourceStockID == nil || *resolved.SourceStockID != source.ID {
		t.Fatal("expected source stock reference on the request")
	}
	if resolved.ProcessedAt == nil {
		t.Fatal("expected processed_at to be set")
	}

	// Source debited
	src, _ := f.stock.Get("SM-S24-256", "shop1")
	if src.Quantity != 7 {
		t.Fatalf("expected source quantity 7, got %d", src.Quantity)
	}
	if src.LastTransfer.ToLocation != "shop2" || src.LastTransfer.Quantity != 3 {
		t.Fatal("expected outbound transfer stamp on the source")
	}

	// Destination created with provenance
	dst, err := f.stock.Get("SM-S24-256", "shop2")
	if err != nil {
		t.Fatalf("expected destination record, got %v", err)
	}
	if dst.Quantity != 3 {
		t.Fatalf("expected destination quantity 3, got %d", dst.Quantity)
	}
	if dst.TransferredFrom != "shop1" {
		t.Fatalf("expected transferred_from shop1, got %q", dst.TransferredFrom)
	}
	if dst.OriginalStockID == nil || *dst.OriginalStockID != source.ID {
		t.Fatal("expected original_stock_id to reference the source")
	}

	// Exactly one approved ledger entry
	entries, err := f.audit.QueryByLocation("shop1", 0)
	if err != nil {
		t.Fatalf("failed to query ledger: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 ledger entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry.EntryType != audit.EntryTypeApprovedTransfer {
		t.Fatalf("expected approved_transfer entry, got %s", entry.EntryType)
	}
	if entry.RequestID != request.ID || entry.Quantity != 3 {
		t.Fatal("expected ledger entry to mirror the request")
	}
	if entry.Brand != "Samsung" || entry.Model != "Galaxy S24" {
		t.Fatal("expected product attributes on the ledger entry")
	}
}

func TestApproveToExistingDestination(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, "SM-S24-256", "shop1", 10)
	f.seedStock(t, "SM-S24-256", "shop2", 3)
	request := f.request(t, "SM-S24-256", 2, "shop1", "shop2")

	if _, err := f.transfer.Resolve(request.ID, transfer.DecisionApprove, approver, ""); err != nil {
		t.Fatalf("failed to approve: %v", err)
	}

	dst, _ := f.stock.Get("SM-S24-256", "shop2")
	if dst.Quantity != 5 {
		t.Fatalf("expected destination quantity 5, got %d", dst.Quantity)
	}
	if dst.LastRestock.FromLocation != "shop1" {
		t.Fatal("expected inbound restock stamp on the destination")
	}

	// No second record was created for the key
	records, _ := f.stock.List("shop2")
	if len(records) != 1 {
		t.Fatalf("expected a single destination record, got %d", len(records))
	}
}

func TestRejectWithReason(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, "SM-S24-256", "shop1", 10)
	request := f.request(t, "SM-S24-256", 3, "shop1", "shop2")

	resolved, err := f.transfer.Resolve(request.ID, transfer.DecisionReject, approver, "Not needed at destination")
	if err != nil {
		t.Fatalf("failed to reject: %v", err)
	}
	if resolved.Status != transfer.StatusRejected {
		t.Fatalf("expected rejected status, got %s", resolved.Status)
	}
	if resolved.RejectionReason != "Not needed at destination" {
		t.Fatalf("unexpected rejection reason: %q", resolved.RejectionReason)
	}
	if resolved.RejectedBy == nil || *resolved.RejectedBy != approver.ID {
		t.Fatal("expected rejecter identity on the request")
	}

	// Stock is untouched on both sides
	src, _ := f.stock.Get("SM-S24-256", "shop1")
	if src.Quantity != 10 {
		t.Fatalf("expected source untouched at 10, got %d", src.Quantity)
	}
	if _, err := f.stock.Get("SM-S24-256", "shop2"); !errors.Is(err, stock.ErrNotFound) {
		t.Fatal("expected no destination record")
	}

	// Rejection is recorded in the ledger
	entries, _ := f.audit.QueryByLocation("shop1", 0)
	if len(entries) != 1 {
		t.Fatalf("expected 1 ledger entry, got %d", len(entries))
	}
	if entries[0].EntryType != audit.EntryTypeRejectedTransfer {
		t.Fatalf("expected rejected_transfer entry, got %s", entries[0].EntryType)
	}
	if entries[0].Reason != "Not needed at destination" {
		t.Fatalf("unexpected ledger reason: %q", entries[0].Reason)
	}
}

func TestRejectWithoutReasonUsesDefault(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, "SM-S24-256", "shop1", 10)
	request := f.request(t, "SM-S24-256", 3, "shop1", "shop2")

	resolved, err := f.transfer.Resolve(request.ID, transfer.DecisionReject, approver, "")
	if err != nil {
		t.Fatalf("failed to reject: %v", err)
	}
	if resolved.RejectionReason != "No reason provided" {
		t.Fatalf("expected default rejection reason, got %q", resolved.RejectionReason)
	}
}

func TestApproveMissingSourceRejects(t *testing.T) {
	f := newFixture(t)
	request := f.request(t, "NO-SUCH-ITEM", 3, "shop1", "shop2")

	resolved, err := f.transfer.Resolve(request.ID, transfer.DecisionApprove, approver, "")
	if err != nil {
		t.Fatalf("expected check failure to resolve without error, got %v", err)
	}
	if resolved.Status != transfer.StatusRejected {
		t.Fatalf("expected rejected status, got %s", resolved.Status)
	}
	if resolved.RejectionReason != transfer.ReasonSourceNotFound {
		t.Fatalf("unexpected rejection reason: %q", resolved.RejectionReason)
	}
}

func TestApproveInsufficientStockRejects(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, "SM-S24-256", "shop1", 2)
	request := f.request(t, "SM-S24-256", 3, "shop1", "shop2")

	resolved, err := f.transfer.Resolve(request.ID, transfer.DecisionApprove, approver, "")
	if err != nil {
		t.Fatalf("expected check failure to resolve without error, got %v", err)
	}
	if resolved.Status != transfer.StatusRejected {
		t.Fatalf("expected rejected status, got %s", resolved.Status)
	}
	if resolved.RejectionReason != transfer.ReasonInsufficientStock {
		t.Fatalf("unexpected rejection reason: %q", resolved.RejectionReason)
	}

	// The failed approval must not partially debit the source
	src, _ := f.stock.Get("SM-S24-256", "shop1")
	if src.Quantity != 2 {
		t.Fatalf("expected source untouched at 2, got %d", src.Quantity)
	}
}

func TestApproveDisallowedDestinationRejects(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, "SM-S24-256", "shop1", 10)
	request := f.request(t, "SM-S24-256", 3, "shop1", "outlet9")

	resolved, err := f.transfer.Resolve(request.ID, transfer.DecisionApprove, approver, "")
	if err != nil {
		t.Fatalf("expected check failure to resolve without error, got %v", err)
	}
	if resolved.Status != transfer.StatusRejected {
		t.Fatalf("expected rejected status, got %s", resolved.Status)
	}
	if resolved.RejectionReason != transfer.ReasonDestinationNotAllowed {
		t.Fatalf("unexpected rejection reason: %q", resolved.RejectionReason)
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, "SM-S24-256", "shop1", 10)
	request := f.request(t, "SM-S24-256", 3, "shop1", "shop2")

	if _, err := f.transfer.Resolve(request.ID, transfer.DecisionApprove, approver, ""); err != nil {
		t.Fatalf("failed to approve: %v", err)
	}

	// A second resolution of either kind must not re-apply the stock mutation
	if _, err := f.transfer.Resolve(request.ID, transfer.DecisionApprove, approver, ""); !errors.Is(err, transfer.ErrAlreadyResolved) {
		t.Fatalf("expected ErrAlreadyResolved, got %v", err)
	}
	if _, err := f.transfer.Resolve(request.ID, transfer.DecisionReject, approver, "late"); !errors.Is(err, transfer.ErrAlreadyResolved) {
		t.Fatalf("expected ErrAlreadyResolved, got %v", err)
	}

	src, _ := f.stock.Get("SM-S24-256", "shop1")
	if src.Quantity != 7 {
		t.Fatalf("expected source quantity still 7, got %d", src.Quantity)
	}
	dst, _ := f.stock.Get("SM-S24-256", "shop2")
	if dst.Quantity != 3 {
		t.Fatalf("expected destination quantity still 3, got %d", dst.Quantity)
	}

	entries, _ := f.audit.QueryByLocation("shop1", 0)
	if len(entries) != 1 {
		t.Fatalf("expected a single ledger entry, got %d", len(entries))
	}
}

func TestResolveUnknownRequest(t *testing.T) {
	f := newFixture(t)

	if _, err := f.transfer.Resolve(9999, transfer.DecisionApprove, approver, ""); !errors.Is(err, transfer.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPendingOrderedOldestFirst(t *testing.T) {
	f := newFixture(t)
	f.seedStock(t, "SM-S24-256", "shop1", 10)

	first := f.request(t, "SM-S24-256", 1, "shop1", "shop2")
	second := f.request(t, "SM-S24-256", 2, "shop1", "shop2")

	pending, err := f.transfer.Pending()
	if err != nil {
		t.Fatalf("failed to list pending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending requests, got %d", len(pending))
	}
	if pending[0].ID != first.ID || pending[1].ID != second.ID {
		t.Fatal("expected pending requests ordered oldest first")
	}
}
