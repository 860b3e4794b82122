package rest

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mizunashi/gamevault/server/auth"
	mw "github.com/mizunashi/gamevault/server/middleware"
)

// AuthHandler handles registration, login and logout REST endpoints.
type AuthHandler struct {
	gate      *auth.Gate
	jwtSecret string
	jwtTTL    time.Duration
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(gate *auth.Gate, jwtSecret string, ttl time.Duration) *AuthHandler {
	return &AuthHandler{gate: gate, jwtSecret: jwtSecret, jwtTTL: ttl}
}

type registerRequest struct {
	Username    string `json:"username" binding:"required"`
	Password    string `json:"password" binding:"required"`
	DisplayName string `json:"display_name"`
	Email       string `json:"email"`
	DeviceInfo  string `json:"device_info"`
}

type loginRequest struct {
	Username   string `json:"username" binding:"required"`
	Password   string `json:"password" binding:"required"`
	DeviceInfo string `json:"device_info"`
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := h.gate.Register(c.Request.Context(), auth.Attempt{
		Username:   req.Username,
		Password:   req.Password,
		IPAddress:  c.ClientIP(),
		DeviceInfo: req.DeviceInfo,
	}, req.DisplayName, req.Email)
	if !result.Success {
		c.JSON(http.StatusBadRequest, gin.H{"error": result.Reason})
		return
	}

	h.respondWithToken(c, result)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := h.gate.Login(c.Request.Context(), auth.Attempt{
		Username:   req.Username,
		Password:   req.Password,
		IPAddress:  c.ClientIP(),
		DeviceInfo: req.DeviceInfo,
	})
	if !result.Success {
		c.JSON(http.StatusUnauthorized, gin.H{"error": result.Reason})
		return
	}

	h.respondWithToken(c, result)
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	token := mw.GetSessionToken(c)
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing session"})
		return
	}
	if err := h.gate.Logout(c.Request.Context(), token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "logout failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AuthHandler) respondWithToken(c *gin.Context, result auth.Result) {
	token, err := mw.GenerateToken(result.Account.ID, result.SessionToken, h.jwtSecret, h.jwtTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":        token,
		"account_id":   result.Account.ID,
		"display_name": result.DisplayName,
	})
}
