// internal/interfaces/http/handlers/transfer.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/inventory-backend/internal/config"
	"github.com/your-org/inventory-backend/internal/domain/audit"
	"github.com/your-org/inventory-backend/internal/domain/stock"
	"github.com/your-org/inventory-backend/internal/domain/transfer"
	"github.com/your-org/inventory-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// TransferHandler handles transfer request and approval endpoints
type TransferHandler struct {
	transferService *transfer.Service
	config          *config.Config
}

// NewTransferHandler creates a new transfer handler
func NewTransferHandler(db *gorm.DB, cfg *config.Config) *TransferHandler {
	stockService := stock.NewService(db, cfg)
	auditService := audit.NewService(db, cfg)
	return &TransferHandler{
		transferService: transfer.NewService(db, cfg, stockService, auditService),
		config:          cfg,
	}
}

// CreateTransfer handles POST /transfers
func (h *TransferHandler) CreateTransfer(c *gin.Context) {
	actor, exists := middleware.GetActorFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	var req transfer.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	request, err := h.transferService.Request(&req, actor)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Transfer request created successfully",
		"data":    request,
	})
}

// ListTransfers handles GET /transfers
func (h *TransferHandler) ListTransfers(c *gin.Context) {
	status := transfer.Status(c.Query("status"))

	limit := 0
	if l := c.Query("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid limit parameter",
			})
			return
		}
		limit = n
	}

	requests, err := h.transferService.List(status, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve transfer requests",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Transfer requests retrieved successfully",
		"data": gin.H{
			"requests": requests,
			"count":    len(requests),
		},
	})
}

// GetTransfer handles GET /transfers/:id
func (h *TransferHandler) GetTransfer(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}

	request, err := h.transferService.Get(id)
	if err != nil {
		if errors.Is(err, transfer.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Transfer request not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve transfer request",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Transfer request retrieved successfully",
		"data":    request,
	})
}

// ListPendingTransfers handles GET /transfers/pending
func (h *TransferHandler) ListPendingTransfers(c *gin.Context) {
	requests, err := h.transferService.Pending()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve pending transfers",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Pending transfers retrieved successfully",
		"data": gin.H{
			"requests": requests,
			"count":    len(requests),
		},
	})
}

// ApproveTransfer handles POST /transfers/:id/approve
func (h *TransferHandler) ApproveTransfer(c *gin.Context) {
	h.resolve(c, transfer.DecisionApprove)
}

// RejectTransfer handles POST /transfers/:id/reject
func (h *TransferHandler) RejectTransfer(c *gin.Context) {
	h.resolve(c, transfer.DecisionReject)
}

func (h *TransferHandler) resolve(c *gin.Context, decision transfer.Decision) {
	actor, exists := middleware.GetActorFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	id, ok := h.parseID(c)
	if !ok {
		return
	}

	// Reason is optional; only meaningful for rejections
	var body struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&body)

	request, err := h.transferService.Resolve(id, decision, actor, body.Reason)
	if err != nil {
		switch {
		case errors.Is(err, transfer.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Transfer request not found",
			})
		case errors.Is(err, transfer.ErrAlreadyProcessing):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Transfer request is already being processed",
			})
		case errors.Is(err, transfer.ErrAlreadyResolved):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Transfer request is already resolved",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to resolve transfer request",
			})
		}
		return
	}

	// An approval that failed a precondition check comes back as a rejection
	// with the reason recorded on the request.
	c.JSON(http.StatusOK, gin.H{
		"message": "Transfer request resolved",
		"data":    request,
	})
}

// BulkResolveRequest is the payload for a batch approve/reject
type BulkResolveRequest struct {
	RequestIDs []uint            `json:"request_ids" binding:"required,min=1"`
	Decision   transfer.Decision `json:"decision" binding:"required,oneof=approve reject"`
	Reason     string            `json:"reason"`
}

// BulkResolve handles POST /transfers/bulk-resolve
func (h *TransferHandler) BulkResolve(c *gin.Context) {
	actor, exists := middleware.GetActorFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	var req BulkResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	results := h.transferService.BulkResolve(req.RequestIDs, req.Decision, actor, req.Reason)

	succeeded := 0
	for _, r := range results {
		if r.Error == "" {
			succeeded++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Bulk resolve completed",
		"data": gin.H{
			"results":   results,
			"succeeded": succeeded,
			"failed":    len(results) - succeeded,
		},
	})
}

// AutoApprove handles POST /transfers/auto-approve
func (h *TransferHandler) AutoApprove(c *gin.Context) {
	actor, exists := middleware.GetActorFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	results, err := h.transferService.AutoApprove(actor)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to auto-approve transfers",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Auto-approval completed",
		"data": gin.H{
			"results": results,
			"count":   len(results),
		},
	})
}

// GetPolicy handles GET /policy
func (h *TransferHandler) GetPolicy(c *gin.Context) {
	policy, err := h.transferService.GetPolicy()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve approval policy",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Approval policy retrieved successfully",
		"data":    policy,
	})
}

// UpdatePolicy handles PUT /policy
func (h *TransferHandler) UpdatePolicy(c *gin.Context) {
	actor, exists := middleware.GetActorFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	var req transfer.UpdatePolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	policy, err := h.transferService.UpdatePolicy(&req, actor)
	if err != nil {
		if errors.Is(err, transfer.ErrPolicyConflict) {
			c.JSON(http.StatusConflict, gin.H{
				"error": "Policy was modified by another administrator, reload and retry",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to update approval policy",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Approval policy updated successfully",
		"data":    policy,
	})
}

func (h *TransferHandler) parseID(c *gin.Context) (uint, bool) {
	idParam := c.Param("id")
	id, err := strconv.ParseUint(idParam, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid transfer request ID",
		})
		return 0, false
	}
	return uint(id), true
}
