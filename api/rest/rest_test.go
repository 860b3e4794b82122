package rest_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mizunashi/gamevault/server/account"
	"github.com/mizunashi/gamevault/server/admin"
	"github.com/mizunashi/gamevault/server/api/rest"
	"github.com/mizunashi/gamevault/server/auth"
	"github.com/mizunashi/gamevault/server/currency"
	"github.com/mizunashi/gamevault/server/inventory"
	"github.com/mizunashi/gamevault/server/loginlog"
	"github.com/mizunashi/gamevault/server/mail"
	mw "github.com/mizunashi/gamevault/server/middleware"
	"github.com/mizunashi/gamevault/server/reward"
	"github.com/mizunashi/gamevault/server/session"
	"github.com/mizunashi/gamevault/server/storage"
	"github.com/mizunashi/gamevault/server/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const (
	testJWTSecret = "test-secret"
	testAdminKey  = "test-admin-key"
)

type env struct {
	router  *gin.Engine
	store   *storage.Store
	gate    *auth.Gate
	rewards *reward.Engine
	mails   *mail.Engine
	facade  *admin.Facade
}

// newEnv wires the full route table the way main does, on test fixtures.
func newEnv(t *testing.T) *env {
	t.Helper()
	store := testutil.SetupTestStore(t)
	c, pubsub := testutil.SetupTestCache(t)
	logger := zap.NewNop()

	logs := loginlog.New(store, logger)
	t.Cleanup(logs.Stop)

	accounts := account.NewService(store, logger)
	ledger := currency.NewLedger(store, logger)
	inv := inventory.NewService(store, logger)
	rewards := reward.NewEngine(store, ledger, inv, logger)
	mails := mail.NewEngine(store, ledger, inv, 30*24*time.Hour, logger)
	sessions := session.NewManager(c, time.Hour, logger)
	gate := auth.NewGate(accounts, sessions, logs, false, logger)
	facade := admin.NewFacade(accounts, ledger, inv, rewards, mails, sessions, logs, pubsub, logger)

	authH := rest.NewAuthHandler(gate, testJWTSecret, time.Hour)
	accountH := rest.NewAccountHandler(accounts)
	invH := rest.NewInventoryHandler(inv)
	rewardH := rest.NewRewardHandler(rewards)
	mailH := rest.NewMailHandler(mails)
	adminH := rest.NewAdminHandler(facade, 7*24*time.Hour, 30*24*time.Hour)

	requireAuth := mw.Auth(testJWTSecret, sessions)

	r := gin.New()
	api := r.Group("/api")
	{
		api.POST("/auth/register", authH.Register)
		api.POST("/auth/login", authH.Login)
		api.POST("/auth/logout", requireAuth, authH.Logout)

		api.GET("/account/me", requireAuth, accountH.Me)
		api.PUT("/account/me", requireAuth, accountH.UpdateProfile)
		api.POST("/account/password", requireAuth, accountH.ChangePassword)

		api.GET("/inventory", requireAuth, invH.List)
		api.POST("/inventory/:id/use", requireAuth, invH.Use)
		api.POST("/inventory/:id/equip", requireAuth, invH.Equip)
		api.POST("/inventory/:id/unequip", requireAuth, invH.Unequip)

		api.GET("/rewards", requireAuth, rewardH.List)
		api.POST("/rewards/:id/claim", requireAuth, rewardH.Claim)

		api.GET("/mail", requireAuth, mailH.List)
		api.POST("/mail", requireAuth, mailH.Send)
		api.POST("/mail/:id/read", requireAuth, mailH.Read)
		api.POST("/mail/:id/claim", requireAuth, mailH.Claim)
		api.DELETE("/mail/:id", requireAuth, mailH.Delete)

		adminG := api.Group("/admin")
		adminG.Use(mw.AdminAuth(testAdminKey))
		adminG.POST("/accounts/:id/ban", adminH.Ban)
		adminG.POST("/accounts/:id/unban", adminH.Unban)
		adminG.POST("/accounts/:id/currency", adminH.AdjustCurrency)
		adminG.POST("/accounts/:id/items", adminH.GiveItem)
		adminG.POST("/accounts/:id/daily-login", adminH.DailyLogin)
		adminG.GET("/accounts/:id/login-logs", adminH.LoginLogs)
		adminG.POST("/rewards", adminH.GrantReward)
		adminG.POST("/mail", adminH.SystemMail)
	}

	return &env{router: r, store: store, gate: gate, rewards: rewards, mails: mails, facade: facade}
}

func (e *env) do(method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// register creates an account through the API and returns its JWT and id.
func (e *env) register(t *testing.T, username, password string) (string, int64) {
	t.Helper()
	w := e.do(http.MethodPost, "/api/auth/register", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token     string `json:"token"`
		AccountID int64  `json:"account_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token, resp.AccountID
}

func bearer(token string) []string {
	return []string{"Authorization", "Bearer " + token}
}

func adminKey() []string {
	return []string{mw.AdminKeyHeader, testAdminKey}
}
