package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/mizunashi/gamevault/server/mail"
	mw "github.com/mizunashi/gamevault/server/middleware"
	"github.com/mizunashi/gamevault/server/storage"
)

// MailHandler serves the player's mailbox.
type MailHandler struct {
	mails *mail.Engine
}

// NewMailHandler creates a new MailHandler.
func NewMailHandler(mails *mail.Engine) *MailHandler {
	return &MailHandler{mails: mails}
}

// List handles GET /api/mail.
func (h *MailHandler) List(c *gin.Context) {
	mails := h.mails.List(mw.GetAccountID(c))
	c.JSON(http.StatusOK, gin.H{"mails": mails})
}

type sendMailRequest struct {
	ToAccountID int64  `json:"to_account_id" binding:"required"`
	Title       string `json:"title" binding:"required,max=64"`
	Body        string `json:"body" binding:"max=2048"`
}

// Send handles POST /api/mail. Player mail carries no attachments.
func (h *MailHandler) Send(c *gin.Context) {
	var req sendMailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	sent, err := h.mails.SendPlayerMail(mw.GetAccountID(c), req.ToAccountID, req.Title, req.Body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "send failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"mail_id": sent.ID})
}

// Read handles POST /api/mail/:id/read.
func (h *MailHandler) Read(c *gin.Context) {
	mailID, ok := h.mailID(c)
	if !ok {
		return
	}
	if err := h.mails.MarkRead(mw.GetAccountID(c), mailID); err != nil {
		h.notFound(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Claim handles POST /api/mail/:id/claim.
func (h *MailHandler) Claim(c *gin.Context) {
	mailID, ok := h.mailID(c)
	if !ok {
		return
	}
	result := h.mails.ClaimAttachments(mw.GetAccountID(c), mailID)
	if !result.Success {
		c.JSON(http.StatusBadRequest, gin.H{"error": result.Message})
		return
	}
	c.JSON(http.StatusOK, result)
}

// Delete handles DELETE /api/mail/:id.
func (h *MailHandler) Delete(c *gin.Context) {
	mailID, ok := h.mailID(c)
	if !ok {
		return
	}
	if err := h.mails.Delete(mw.GetAccountID(c), mailID); err != nil {
		h.notFound(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *MailHandler) mailID(c *gin.Context) (int64, bool) {
	mailID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid mail id"})
		return 0, false
	}
	return mailID, true
}

func (h *MailHandler) notFound(c *gin.Context, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": mail.MsgNotFound})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
