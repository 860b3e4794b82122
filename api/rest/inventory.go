package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mizunashi/gamevault/server/inventory"
	mw "github.com/mizunashi/gamevault/server/middleware"
)

// InventoryHandler serves the player's bag.
type InventoryHandler struct {
	inv *inventory.Service
}

// NewInventoryHandler creates a new InventoryHandler.
func NewInventoryHandler(inv *inventory.Service) *InventoryHandler {
	return &InventoryHandler{inv: inv}
}

// List handles GET /api/inventory.
func (h *InventoryHandler) List(c *gin.Context) {
	items := h.inv.List(mw.GetAccountID(c))
	c.JSON(http.StatusOK, gin.H{"items": items})
}

type useItemRequest struct {
	Count int `json:"count"`
}

// Use handles POST /api/inventory/:id/use.
func (h *InventoryHandler) Use(c *gin.Context) {
	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}
	var req useItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Count < 1 {
		req.Count = 1
	}
	if !h.inv.Use(mw.GetAccountID(c), itemID, req.Count) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "物品不足或不存在"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Equip handles POST /api/inventory/:id/equip.
func (h *InventoryHandler) Equip(c *gin.Context) {
	h.setEquipped(c, true)
}

// Unequip handles POST /api/inventory/:id/unequip.
func (h *InventoryHandler) Unequip(c *gin.Context) {
	h.setEquipped(c, false)
}

func (h *InventoryHandler) setEquipped(c *gin.Context, equipped bool) {
	itemID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}
	if !h.inv.SetEquipped(mw.GetAccountID(c), itemID, equipped) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "物品不存在"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
