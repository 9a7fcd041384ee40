// internal/interfaces/http/handlers/audit.go
package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/your-org/inventory-backend/internal/config"
	"github.com/your-org/inventory-backend/internal/domain/audit"
	"gorm.io/gorm"
)

// AuditHandler handles transfer ledger query endpoints
type AuditHandler struct {
	auditService *audit.Service
	config       *config.Config
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(db *gorm.DB, cfg *config.Config) *AuditHandler {
	return &AuditHandler{
		auditService: audit.NewService(db, cfg),
		config:       cfg,
	}
}

// QueryByTimeRange handles GET /ledger?from=...&to=...
func (h *AuditHandler) QueryByTimeRange(c *gin.Context) {
	fromParam := c.Query("from")
	toParam := c.Query("to")
	if fromParam == "" || toParam == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Both from and to parameters are required",
		})
		return
	}

	from, err := time.Parse(time.RFC3339, fromParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid from timestamp, expected RFC3339",
		})
		return
	}

	to, err := time.Parse(time.RFC3339, toParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid to timestamp, expected RFC3339",
		})
		return
	}

	entries, err := h.auditService.QueryByTimeRange(from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to query transfer ledger",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Ledger entries retrieved successfully",
		"data": gin.H{
			"entries": entries,
			"count":   len(entries),
		},
	})
}

// QueryByLocation handles GET /ledger/location/:location
func (h *AuditHandler) QueryByLocation(c *gin.Context) {
	location := c.Param("location")

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

	entries, err := h.auditService.QueryByLocation(location, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to query transfer ledger",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Ledger entries retrieved successfully",
		"data": gin.H{
			"entries": entries,
			"count":   len(entries),
		},
	})
}
