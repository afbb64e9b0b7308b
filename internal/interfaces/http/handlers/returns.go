// internal/interfaces/http/handlers/returns.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/your-org/inventory-backend/internal/domain/returns"
	"github.com/your-org/inventory-backend/internal/interfaces/http/middleware"
)

// ReturnsHandler handles customer return endpoints
type ReturnsHandler struct {
	returnsService *returns.Service
}

// NewReturnsHandler creates a new returns handler
func NewReturnsHandler(returnsService *returns.Service) *ReturnsHandler {
	return &ReturnsHandler{
		returnsService: returnsService,
	}
}

// RecordReturn handles POST /returns
func (h *ReturnsHandler) RecordReturn(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req returns.RecordReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request data",
			"details": err.Error(),
		})
		return
	}

	result, err := h.returnsService.Record(c.Request.Context(), &req, actor)
	if err != nil {
		respondError(c, err)
		return
	}

	// The record is authoritative; a failed restock is still a 201 with
	// the partial outcome in the body.
	c.JSON(http.StatusCreated, gin.H{
		"message": "Return recorded",
		"data":    result,
	})
}

// GetReturns handles GET /returns
func (h *ReturnsHandler) GetReturns(c *gin.Context) {
	var itemID uint
	if v := c.Query("item_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid item_id"})
			return
		}
		itemID = uint(id)
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	recs, err := h.returnsService.List(c.Request.Context(), itemID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": recs})
}

// GetReturn handles GET /returns/:id
func (h *ReturnsHandler) GetReturn(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid return ID"})
		return
	}

	rec, err := h.returnsService.Get(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": rec})
}
