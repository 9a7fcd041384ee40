// internal/interfaces/http/handlers/stock.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/inventory-backend/internal/config"
	"github.com/your-org/inventory-backend/internal/domain/stock"
	"gorm.io/gorm"
)

// StockHandler handles stock ledger endpoints
type StockHandler struct {
	stockService *stock.Service
	config       *config.Config
}

// NewStockHandler creates a new stock handler
func NewStockHandler(db *gorm.DB, cfg *config.Config) *StockHandler {
	return &StockHandler{
		stockService: stock.NewService(db, cfg),
		config:       cfg,
	}
}

// ListStock handles GET /stocks
func (h *StockHandler) ListStock(c *gin.Context) {
	location := c.Query("location")

	records, err := h.stockService.List(location)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve stock records",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Stock records retrieved successfully",
		"data": gin.H{
			"records": records,
			"count":   len(records),
		},
	})
}

// GetStock handles GET /stocks/:location/:item_code
func (h *StockHandler) GetStock(c *gin.Context) {
	location := c.Param("location")
	itemCode := c.Param("item_code")

	record, err := h.stockService.Get(itemCode, location)
	if err != nil {
		if errors.Is(err, stock.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Stock record not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve stock record",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Stock record retrieved successfully",
		"data":    record,
	})
}

// CreateStock handles POST /stocks
func (h *StockHandler) CreateStock(c *gin.Context) {
	var req stock.CreateStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	record, err := h.stockService.Create(&req)
	if err != nil {
		if errors.Is(err, stock.ErrDuplicateRecord) {
			c.JSON(http.StatusConflict, gin.H{
				"error": err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create stock record",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Stock record created successfully",
		"data":    record,
	})
}

// ListLocations handles GET /locations
func (h *StockHandler) ListLocations(c *gin.Context) {
	locations, err := h.stockService.GetLocations()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve locations",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Locations retrieved successfully",
		"data": gin.H{
			"locations": locations,
			"count":     len(locations),
		},
	})
}

// CreateLocation handles POST /locations
func (h *StockHandler) CreateLocation(c *gin.Context) {
	var req stock.CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	location, err := h.stockService.CreateLocation(&req)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Location created successfully",
		"data":    location,
	})
}
