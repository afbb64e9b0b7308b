// internal/interfaces/http/handlers/catalog.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/inventory-backend/internal/domain/catalog"
)

// CatalogHandler handles item and location endpoints
type CatalogHandler struct {
	catalogService *catalog.Service
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *catalog.Service) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
	}
}

// ITEM ENDPOINTS

// CreateItem handles POST /catalog/items
func (h *CatalogHandler) CreateItem(c *gin.Context) {
	var req catalog.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	item, err := h.catalogService.CreateItem(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Item created successfully",
		"data":    item,
	})
}

// GetItems handles GET /catalog/items
func (h *CatalogHandler) GetItems(c *gin.Context) {
	includeArchived := c.Query("include_archived") == "true"

	items, err := h.catalogService.ListItems(c.Request.Context(), includeArchived)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": items})
}

// GetItem handles GET /catalog/items/:id
func (h *CatalogHandler) GetItem(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	item, err := h.catalogService.Item(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": item})
}

// ArchiveItem handles DELETE /catalog/items/:id
func (h *CatalogHandler) ArchiveItem(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item ID"})
		return
	}

	item, err := h.catalogService.ArchiveItem(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Item archived successfully",
		"data":    item,
	})
}

// LOCATION ENDPOINTS

// CreateLocation handles POST /catalog/locations
func (h *CatalogHandler) CreateLocation(c *gin.Context) {
	var req catalog.CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	loc, err := h.catalogService.CreateLocation(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Location created successfully",
		"data":    loc,
	})
}

// GetLocations handles GET /catalog/locations
func (h *CatalogHandler) GetLocations(c *gin.Context) {
	locations, err := h.catalogService.ListLocations(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": locations})
}

// GetLocation handles GET /catalog/locations/:id
func (h *CatalogHandler) GetLocation(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid location ID"})
		return
	}

	loc, err := h.catalogService.Location(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": loc})
}
