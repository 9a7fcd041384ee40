// internal/interfaces/http/handlers/sale.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/your-org/inventory-backend/internal/config"
	"github.com/your-org/inventory-backend/internal/domain/sale"
	"github.com/your-org/inventory-backend/internal/domain/stock"
	"github.com/your-org/inventory-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// SaleHandler handles point-of-sale endpoints
type SaleHandler struct {
	saleService *sale.Service
	config      *config.Config
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(db *gorm.DB, cfg *config.Config) *SaleHandler {
	stockService := stock.NewService(db, cfg)
	return &SaleHandler{
		saleService: sale.NewService(db, cfg, stockService),
		config:      cfg,
	}
}

// Sell handles POST /sales
func (h *SaleHandler) Sell(c *gin.Context) {
	actor, exists := middleware.GetActorFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User not authenticated",
		})
		return
	}

	var req sale.SellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	record, err := h.saleService.Sell(&req, actor)
	if err != nil {
		switch {
		case errors.Is(err, stock.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Item not found at this location",
			})
		case errors.Is(err, stock.ErrInsufficientStock):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Insufficient stock for this sale",
			})
		case errors.Is(err, sale.ErrInvalidPrice), errors.Is(err, sale.ErrInvalidQuantity):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to process sale",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Sale completed successfully",
		"data":    record,
	})
}

// ListSales handles GET /sales
func (h *SaleHandler) ListSales(c *gin.Context) {
	filter := sale.ListFilter{
		Location: c.Query("location"),
	}

	if soldBy := c.Query("sold_by"); soldBy != "" {
		id, err := strconv.ParseUint(soldBy, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid sold_by parameter",
			})
			return
		}
		filter.SoldBy = uint(id)
	}

	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid from timestamp, expected RFC3339",
			})
			return
		}
		filter.From = &t
	}

	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid to timestamp, expected RFC3339",
			})
			return
		}
		filter.To = &t
	}

	if limit := c.Query("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid limit parameter",
			})
			return
		}
		filter.Limit = n
	}

	records, err := h.saleService.List(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve sales",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Sales retrieved successfully",
		"data": gin.H{
			"sales": records,
			"count": len(records),
		},
	})
}
