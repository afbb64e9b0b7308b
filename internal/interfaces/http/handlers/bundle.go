// internal/interfaces/http/handlers/bundle.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/inventory-backend/internal/domain/bundle"
	"github.com/your-org/inventory-backend/internal/interfaces/http/middleware"
)

// BundleHandler handles bundle endpoints
type BundleHandler struct {
	bundleService *bundle.Service
}

// NewBundleHandler creates a new bundle handler
func NewBundleHandler(bundleService *bundle.Service) *BundleHandler {
	return &BundleHandler{
		bundleService: bundleService,
	}
}

// CreateBundle handles POST /bundles
func (h *BundleHandler) CreateBundle(c *gin.Context) {
	var req bundle.CreateBundleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	b, err := h.bundleService.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Bundle created successfully",
		"data":    b,
	})
}

// GetBundles handles GET /bundles
func (h *BundleHandler) GetBundles(c *gin.Context) {
	activeOnly := c.Query("active") == "true"

	bundles, err := h.bundleService.List(c.Request.Context(), activeOnly)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": bundles})
}

// GetBundle handles GET /bundles/:id
func (h *BundleHandler) GetBundle(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bundle ID"})
		return
	}

	b, err := h.bundleService.Get(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": b})
}

// GetBuildable handles GET /bundles/:id/buildable
func (h *BundleHandler) GetBuildable(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bundle ID"})
		return
	}

	buildable, err := h.bundleService.Buildable(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"bundle_id": uint(id),
			"buildable": buildable,
		},
	})
}

// SellBundle handles POST /bundles/:id/sell
func (h *BundleHandler) SellBundle(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bundle ID"})
		return
	}

	var req struct {
		Quantity int `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	result, err := h.bundleService.Sell(c.Request.Context(), uint(id), req.Quantity, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Bundle sold successfully",
		"data":    result,
	})
}
