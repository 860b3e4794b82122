package rest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mizunashi/gamevault/server/account"
	mw "github.com/mizunashi/gamevault/server/middleware"
	"github.com/mizunashi/gamevault/server/model"
)

// AccountHandler serves the player's own profile.
type AccountHandler struct {
	accounts *account.Service
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accounts *account.Service) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

type accountView struct {
	ID          int64      `json:"id"`
	Username    string     `json:"username"`
	DisplayName string     `json:"display_name"`
	Email       string     `json:"email,omitempty"`
	Level       int        `json:"level"`
	Experience  int64      `json:"experience"`
	Gold        int64      `json:"gold"`
	Diamond     int64      `json:"diamond"`
	CreatedAt   time.Time  `json:"created_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

func viewOf(acc *model.Account) accountView {
	return accountView{
		ID:          acc.ID,
		Username:    acc.Username,
		DisplayName: acc.DisplayName,
		Email:       acc.Email,
		Level:       acc.Level,
		Experience:  acc.Experience,
		Gold:        acc.Gold,
		Diamond:     acc.Diamond,
		CreatedAt:   acc.CreatedAt,
		LastLoginAt: acc.LastLoginAt,
	}
}

// Me handles GET /api/account/me.
func (h *AccountHandler) Me(c *gin.Context) {
	acc, err := h.accounts.GetByID(mw.GetAccountID(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
		return
	}
	c.JSON(http.StatusOK, viewOf(acc))
}

type updateProfileRequest struct {
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
}

// UpdateProfile handles PUT /api/account/me.
func (h *AccountHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	accountID := mw.GetAccountID(c)
	if err := h.accounts.UpdateProfile(accountID, req.DisplayName, req.Email); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
		return
	}
	acc, err := h.accounts.GetByID(accountID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
		return
	}
	c.JSON(http.StatusOK, viewOf(acc))
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// ChangePassword handles POST /api/account/password.
func (h *AccountHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.accounts.ChangePassword(mw.GetAccountID(c), req.OldPassword, req.NewPassword); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "原密码错误"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
