// Package auth is the credential gate: registration, login and logout. It
// owns session token minting; the REST layer wraps tokens in JWTs but never
// checks a password itself.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mizunashi/gamevault/server/account"
	"github.com/mizunashi/gamevault/server/loginlog"
	"github.com/mizunashi/gamevault/server/model"
	"github.com/mizunashi/gamevault/server/session"
	"go.uber.org/zap"
)

// Player-facing failure messages. Login failures never reveal whether the
// username or the password was wrong.
const (
	MsgBadCredentials   = "用户名或密码错误"
	MsgDuplicate        = "用户名已存在"
	MsgBanned           = "账号已封禁"
	MsgAlreadyOnline    = "该账号已在线"
	MsgEmptyCredentials = "用户名或密码不能为空"
	MsgBadUsernameLen   = "用户名长度必须在3-32个字符之间"
	MsgBadPasswordLen   = "密码长度不能少于6个字符"
)

// Result is the outcome of a register or login attempt.
type Result struct {
	Success      bool           `json:"success"`
	Reason       string         `json:"reason,omitempty"`
	SessionToken string         `json:"session_token,omitempty"`
	DisplayName  string         `json:"display_name,omitempty"`
	Account      *model.Account `json:"-"`
}

// Attempt carries the request metadata recorded in the login log.
type Attempt struct {
	Username   string
	Password   string
	IPAddress  string
	DeviceInfo string
}

// Gate performs credential checks and session lifecycle.
type Gate struct {
	accounts      *account.Service
	sessions      *session.Manager
	logs          *loginlog.Service
	singleSession bool
	logger        *zap.Logger
}

// NewGate creates an auth Gate. When singleSession is set, a login attempt
// for an account that already has a live session is rejected instead of
// issuing a second token.
func NewGate(accounts *account.Service, sessions *session.Manager, logs *loginlog.Service, singleSession bool, logger *zap.Logger) *Gate {
	return &Gate{
		accounts:      accounts,
		sessions:      sessions,
		logs:          logs,
		singleSession: singleSession,
		logger:        logger,
	}
}

// NewSessionToken mints an opaque session token.
func NewSessionToken() string {
	a := uuid.New()
	b := uuid.New()
	return fmt.Sprintf("%x%x", a[:], b[:])
}

// Register creates an account and logs the player straight in.
func (g *Gate) Register(ctx context.Context, attempt Attempt, displayName, email string) Result {
	username := strings.TrimSpace(attempt.Username)
	if username == "" || attempt.Password == "" {
		return Result{Reason: MsgEmptyCredentials}
	}
	if len(username) < 3 || len(username) > 32 {
		return Result{Reason: MsgBadUsernameLen}
	}
	if len(attempt.Password) < 6 {
		return Result{Reason: MsgBadPasswordLen}
	}

	acc, err := g.accounts.Create(username, attempt.Password, displayName, email)
	if err != nil {
		if errors.Is(err, account.ErrDuplicateUsername) {
			return Result{Reason: MsgDuplicate}
		}
		g.logger.Error("registration failed", zap.String("username", username), zap.Error(err))
		return Result{Reason: MsgBadCredentials}
	}

	token := NewSessionToken()
	if err := g.sessions.Bind(ctx, token, acc.ID); err != nil {
		g.logger.Error("session bind failed", zap.Int64("account_id", acc.ID), zap.Error(err))
	}
	g.record(acc.ID, attempt, true, "")
	return Result{Success: true, SessionToken: token, DisplayName: acc.DisplayName, Account: acc}
}

// Login verifies credentials and mints a session token. Failure reasons are
// logged with the attempt but the player only sees the message in Reason.
func (g *Gate) Login(ctx context.Context, attempt Attempt) Result {
	username := strings.TrimSpace(attempt.Username)
	acc, err := g.accounts.GetByUsername(username)
	if err != nil {
		g.record(0, attempt, false, "unknown username")
		return Result{Reason: MsgBadCredentials}
	}
	if !account.VerifyPassword(attempt.Password, acc.Salt, acc.PasswordHash) {
		g.record(acc.ID, attempt, false, "wrong password")
		return Result{Reason: MsgBadCredentials}
	}
	if acc.Banned {
		g.record(acc.ID, attempt, false, "banned")
		reason := MsgBanned
		if acc.BanReason != "" {
			reason = MsgBanned + ": " + acc.BanReason
		}
		return Result{Reason: reason}
	}
	if g.singleSession && g.sessions.Online(ctx, acc.ID) {
		g.record(acc.ID, attempt, false, "duplicate login")
		return Result{Reason: MsgAlreadyOnline}
	}

	token := NewSessionToken()
	if err := g.sessions.Bind(ctx, token, acc.ID); err != nil {
		g.logger.Error("session bind failed", zap.Int64("account_id", acc.ID), zap.Error(err))
	}
	if err := g.accounts.TouchLastLogin(acc.ID); err != nil {
		g.logger.Warn("last login stamp failed", zap.Int64("account_id", acc.ID), zap.Error(err))
	}
	g.record(acc.ID, attempt, true, "")

	g.logger.Info("login",
		zap.Int64("account_id", acc.ID),
		zap.String("username", acc.Username),
		zap.String("ip", attempt.IPAddress))
	return Result{Success: true, SessionToken: token, DisplayName: acc.DisplayName, Account: acc}
}

// Logout ends the session for the given token.
func (g *Gate) Logout(ctx context.Context, token string) error {
	return g.sessions.Revoke(ctx, token)
}

func (g *Gate) record(accountID int64, attempt Attempt, success bool, failReason string) {
	g.logs.Record(loginlog.Entry{
		AccountID:  accountID,
		IPAddress:  attempt.IPAddress,
		DeviceInfo: attempt.DeviceInfo,
		Success:    success,
		FailReason: failReason,
	})
	if !success {
		g.logger.Info("login rejected",
			zap.String("username", attempt.Username),
			zap.String("ip", attempt.IPAddress),
			zap.String("reason", failReason))
	}
}
