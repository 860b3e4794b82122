package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/mizunashi/gamevault/server/account"
	"github.com/mizunashi/gamevault/server/auth"
	"github.com/mizunashi/gamevault/server/loginlog"
	"github.com/mizunashi/gamevault/server/session"
	"github.com/mizunashi/gamevault/server/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fixture struct {
	accounts *account.Service
	sessions *session.Manager
	logs     *loginlog.Service
	gate     *auth.Gate
}

func setup(t *testing.T, singleSession bool) *fixture {
	t.Helper()
	store := testutil.SetupTestStore(t)
	c, _ := testutil.SetupTestCache(t)

	accounts := account.NewService(store, zap.NewNop())
	sessions := session.NewManager(c, time.Hour, zap.NewNop())
	logs := loginlog.New(store, zap.NewNop())
	t.Cleanup(logs.Stop)

	gate := auth.NewGate(accounts, sessions, logs, singleSession, zap.NewNop())
	return &fixture{accounts: accounts, sessions: sessions, logs: logs, gate: gate}
}

func attempt(username, password string) auth.Attempt {
	return auth.Attempt{Username: username, Password: password, IPAddress: "127.0.0.1"}
}

func TestRegisterValidation(t *testing.T) {
	f := setup(t, false)
	ctx := context.Background()

	result := f.gate.Register(ctx, attempt("", "secret1"), "", "")
	assert.Equal(t, auth.MsgEmptyCredentials, result.Reason)

	result = f.gate.Register(ctx, attempt("ab", "secret1"), "", "")
	assert.Equal(t, auth.MsgBadUsernameLen, result.Reason)

	result = f.gate.Register(ctx, attempt("alice", "short"), "", "")
	assert.Equal(t, auth.MsgBadPasswordLen, result.Reason)

	result = f.gate.Register(ctx, attempt("alice", "secret1"), "Alice", "")
	require.True(t, result.Success)
	assert.NotEmpty(t, result.SessionToken)
	assert.Equal(t, "Alice", result.DisplayName)

	result = f.gate.Register(ctx, attempt("ALICE", "secret1"), "", "")
	assert.Equal(t, auth.MsgDuplicate, result.Reason)
}

func TestLogin(t *testing.T) {
	f := setup(t, false)
	ctx := context.Background()

	require.True(t, f.gate.Register(ctx, attempt("alice", "secret1"), "", "").Success)

	result := f.gate.Login(ctx, attempt("alice", "wrong"))
	assert.False(t, result.Success)
	assert.Equal(t, auth.MsgBadCredentials, result.Reason)

	result = f.gate.Login(ctx, attempt("nobody", "secret1"))
	assert.Equal(t, auth.MsgBadCredentials, result.Reason, "unknown user gets the same message")

	result = f.gate.Login(ctx, attempt("alice", "secret1"))
	require.True(t, result.Success)
	assert.NotEmpty(t, result.SessionToken)

	accountID, err := f.sessions.Resolve(ctx, result.SessionToken)
	require.NoError(t, err)
	assert.Equal(t, result.Account.ID, accountID)

	acc, err := f.accounts.GetByID(result.Account.ID)
	require.NoError(t, err)
	require.NotNil(t, acc.LastLoginAt, "login stamps last-login time")
}

func TestLoginBanned(t *testing.T) {
	f := setup(t, false)
	ctx := context.Background()

	reg := f.gate.Register(ctx, attempt("bob", "secret1"), "", "")
	require.True(t, reg.Success)
	require.NoError(t, f.accounts.Ban(reg.Account.ID, "abuse"))

	result := f.gate.Login(ctx, attempt("bob", "secret1"))
	assert.False(t, result.Success)
	assert.Equal(t, auth.MsgBanned+": abuse", result.Reason)
}

func TestSingleSessionPolicy(t *testing.T) {
	f := setup(t, true)
	ctx := context.Background()

	require.True(t, f.gate.Register(ctx, attempt("carol", "secret1"), "", "").Success)

	result := f.gate.Login(ctx, attempt("carol", "secret1"))
	assert.False(t, result.Success)
	assert.Equal(t, auth.MsgAlreadyOnline, result.Reason)
}

func TestLogoutFreesSession(t *testing.T) {
	f := setup(t, true)
	ctx := context.Background()

	reg := f.gate.Register(ctx, attempt("dave", "secret1"), "", "")
	require.True(t, reg.Success)

	require.NoError(t, f.gate.Logout(ctx, reg.SessionToken))
	_, err := f.sessions.Resolve(ctx, reg.SessionToken)
	assert.Error(t, err)

	result := f.gate.Login(ctx, attempt("dave", "secret1"))
	assert.True(t, result.Success, "logout clears the online flag")
}

func TestLoginAttemptsRecorded(t *testing.T) {
	f := setup(t, false)
	ctx := context.Background()

	reg := f.gate.Register(ctx, attempt("erin", "secret1"), "", "")
	require.True(t, reg.Success)
	f.gate.Login(ctx, attempt("erin", "wrong"))
	f.gate.Login(ctx, attempt("erin", "secret1"))
	f.logs.Flush()

	logs := f.logs.Recent(reg.Account.ID, 10)
	require.Len(t, logs, 3)
	assert.True(t, logs[0].Success, "newest first")
	assert.False(t, logs[1].Success)
	assert.Equal(t, "wrong password", logs[1].FailReason)
}

func TestSessionTokensAreUnique(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		token := auth.NewSessionToken()
		assert.Len(t, token, 64)
		_, dup := seen[token]
		require.False(t, dup)
		seen[token] = struct{}{}
	}
}
