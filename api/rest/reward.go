package rest

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	mw "github.com/mizunashi/gamevault/server/middleware"
	"github.com/mizunashi/gamevault/server/reward"
)

// RewardHandler serves the player's claimable rewards.
type RewardHandler struct {
	rewards *reward.Engine
}

// NewRewardHandler creates a new RewardHandler.
func NewRewardHandler(rewards *reward.Engine) *RewardHandler {
	return &RewardHandler{rewards: rewards}
}

// List handles GET /api/rewards.
func (h *RewardHandler) List(c *gin.Context) {
	grants := h.rewards.ListUnclaimed(mw.GetAccountID(c))
	c.JSON(http.StatusOK, gin.H{"rewards": grants})
}

// Claim handles POST /api/rewards/:id/claim.
func (h *RewardHandler) Claim(c *gin.Context) {
	grantID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid reward id"})
		return
	}
	result := h.rewards.Claim(mw.GetAccountID(c), grantID)
	if !result.Success {
		c.JSON(http.StatusBadRequest, gin.H{"error": result.Message})
		return
	}
	c.JSON(http.StatusOK, result)
}
