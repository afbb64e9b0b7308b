// internal/interfaces/http/handlers/stock.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/inventory-backend/internal/config"
	"github.com/your-org/inventory-backend/internal/domain/stock"
	"github.com/your-org/inventory-backend/internal/interfaces/http/middleware"
)

// StockHandler handles stock movement endpoints
type StockHandler struct {
	stockService *stock.Service
	config       *config.Config
}

// NewStockHandler creates a new stock handler
func NewStockHandler(stockService *stock.Service, cfg *config.Config) *StockHandler {
	return &StockHandler{
		stockService: stockService,
		config:       cfg,
	}
}

// STOCK MOVEMENTS

// AdjustStock handles POST /stock/adjustments
func (h *StockHandler) AdjustStock(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req stock.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	result, err := h.stockService.AdjustStock(c.Request.Context(), &req, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Stock adjusted successfully",
		"data":    result,
	})
}

// TransferStock handles POST /stock/transfers
func (h *StockHandler) TransferStock(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req stock.TransferStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	result, err := h.stockService.TransferStock(c.Request.Context(), &req, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Stock transferred successfully",
		"data":    result,
	})
}

// READ PATHS

// GetLedger handles GET /stock/ledger
func (h *StockHandler) GetLedger(c *gin.Context) {
	itemID, err := strconv.ParseUint(c.Query("item_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "item_id query parameter required"})
		return
	}

	q := stock.LedgerQuery{ItemID: uint(itemID)}

	if v := c.Query("location_id"); v != "" {
		locationID, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid location_id"})
			return
		}
		id := uint(locationID)
		q.LocationID = &id
	}
	if v := c.Query("kind"); v != "" {
		q.Kind = stock.EntryKind(v)
	}
	if v := c.Query("limit"); v != "" {
		q.Limit, _ = strconv.Atoi(v)
	}
	if v := c.Query("offset"); v != "" {
		q.Offset, _ = strconv.Atoi(v)
	}

	entries, err := h.stockService.QueryLedger(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entries})
}

// GetStockLevels handles GET /stock/levels/:itemId
func (h *StockHandler) GetStockLevels(c *gin.Context) {
	itemID, err := strconv.ParseUint(c.Param("itemId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	levels, err := h.stockService.StockLevels(c.Request.Context(), uint(itemID))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": levels})
}

// BULK IMPORT

// ImportStock handles POST /stock/import
func (h *StockHandler) ImportStock(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req struct {
		Rows []stock.ImportRow `json:"rows" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	if len(req.Rows) > h.config.Inventory.ImportMaxRows {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Too many rows in a single import",
			"max":   h.config.Inventory.ImportMaxRows,
		})
		return
	}

	report, err := h.stockService.ImportStock(c.Request.Context(), req.Rows, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Import processed",
		"data":    report,
	})
}
