package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mizunashi/gamevault/server/admin"
	"github.com/mizunashi/gamevault/server/model"
)

// AdminHandler exposes the operator surface. Every route behind it is
// guarded by the admin-key middleware.
type AdminHandler struct {
	facade       *admin.Facade
	rewardExpiry time.Duration
	mailExpiry   time.Duration
}

// NewAdminHandler creates a new AdminHandler. rewardExpiry and mailExpiry
// are the default lifetimes applied when a request carries no expires_in.
func NewAdminHandler(facade *admin.Facade, rewardExpiry, mailExpiry time.Duration) *AdminHandler {
	return &AdminHandler{facade: facade, rewardExpiry: rewardExpiry, mailExpiry: mailExpiry}
}

func (h *AdminHandler) accountID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account id"})
		return 0, false
	}
	return id, true
}

type banRequest struct {
	Reason string `json:"reason"`
}

// Ban handles POST /api/admin/accounts/:id/ban.
func (h *AdminHandler) Ban(c *gin.Context) {
	id, ok := h.accountID(c)
	if !ok {
		return
	}
	var req banRequest
	_ = c.ShouldBindJSON(&req)
	if err := h.facade.Ban(c.Request.Context(), id, req.Reason); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Unban handles POST /api/admin/accounts/:id/unban.
func (h *AdminHandler) Unban(c *gin.Context) {
	id, ok := h.accountID(c)
	if !ok {
		return
	}
	if err := h.facade.Unban(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type adjustCurrencyRequest struct {
	Field  string `json:"field" binding:"required,oneof=gold diamond experience"`
	Amount int64  `json:"amount" binding:"required,gt=0"`
}

// AdjustCurrency handles POST /api/admin/accounts/:id/currency.
func (h *AdminHandler) AdjustCurrency(c *gin.Context) {
	id, ok := h.accountID(c)
	if !ok {
		return
	}
	var req adjustCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !h.facade.AdjustCurrency(id, req.Field, req.Amount) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "adjustment rejected"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type giveItemRequest struct {
	TemplateID string `json:"template_id" binding:"required"`
	Count      int    `json:"count"`
	Level      int    `json:"level"`
}

// GiveItem handles POST /api/admin/accounts/:id/items.
func (h *AdminHandler) GiveItem(c *gin.Context) {
	id, ok := h.accountID(c)
	if !ok {
		return
	}
	var req giveItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	item, err := h.facade.GiveItem(id, req.TemplateID, req.Count, req.Level)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "item grant failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": item})
}

type grantRewardRequest struct {
	AccountIDs  []int64             `json:"account_ids"`
	All         bool                `json:"all"`
	Content     model.RewardContent `json:"content" binding:"required"`
	Description string              `json:"description"`
	ExpiresIn   string              `json:"expires_in"` // duration string, empty = config default
}

// GrantReward handles POST /api/admin/rewards.
func (h *AdminHandler) GrantReward(c *gin.Context) {
	var req grantRewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Content.Empty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty reward content"})
		return
	}

	expiry := h.rewardExpiry
	if req.ExpiresIn != "" {
		parsed, err := time.ParseDuration(req.ExpiresIn)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expires_in"})
			return
		}
		expiry = parsed
	}
	expiresAt := time.Now().UTC().Add(expiry)

	if req.All {
		count, err := h.facade.GrantRewardAll(&req.Content, req.Description, &expiresAt)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "grant failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"granted": count})
		return
	}
	if len(req.AccountIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no recipients"})
		return
	}
	grants, err := h.facade.GrantRewardBatch(req.AccountIDs, &req.Content, req.Description, &expiresAt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "grant failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"granted": len(grants)})
}

type dailyLoginRequest struct {
	Day int `json:"day" binding:"required,gt=0"`
}

// DailyLogin handles POST /api/admin/accounts/:id/daily-login.
func (h *AdminHandler) DailyLogin(c *gin.Context) {
	id, ok := h.accountID(c)
	if !ok {
		return
	}
	var req dailyLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	grant, err := h.facade.SendDailyLoginReward(id, req.Day, h.rewardExpiry)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "grant failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reward": grant})
}

type systemMailRequest struct {
	AccountID   int64                `json:"account_id"`
	All         bool                 `json:"all"`
	Title       string               `json:"title" binding:"required,max=64"`
	Body        string               `json:"body" binding:"max=2048"`
	Attachments *model.RewardContent `json:"attachments"`
	ExpiresIn   string               `json:"expires_in"`
}

// SystemMail handles POST /api/admin/mail.
func (h *AdminHandler) SystemMail(c *gin.Context) {
	var req systemMailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	expiry := h.mailExpiry
	if req.ExpiresIn != "" {
		parsed, err := time.ParseDuration(req.ExpiresIn)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expires_in"})
			return
		}
		expiry = parsed
	}
	var expiresAt *time.Time
	if expiry > 0 {
		t := time.Now().UTC().Add(expiry)
		expiresAt = &t
	}

	if req.All {
		sent, err := h.facade.SendSystemMailAll(req.Title, req.Body, req.Attachments, expiresAt)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "send failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"sent": sent})
		return
	}
	if req.AccountID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no recipient"})
		return
	}
	sent, err := h.facade.SendSystemMail(req.AccountID, req.Title, req.Body, req.Attachments, expiresAt)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "send failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"mail_id": sent.ID})
}

// LoginLogs handles GET /api/admin/accounts/:id/login-logs.
func (h *AdminHandler) LoginLogs(c *gin.Context) {
	id, ok := h.accountID(c)
	if !ok {
		return
	}
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	logs := h.facade.LoginLogs(id, limit)
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}
