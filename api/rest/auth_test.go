package rest_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/mizunashi/gamevault/server/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	e := newEnv(t)

	token, accountID := e.register(t, "alice", "secret1")
	assert.NotZero(t, accountID)

	w := e.do(http.MethodGet, "/api/account/me", nil, bearer(token)...)
	require.Equal(t, http.StatusOK, w.Code)

	w = e.do(http.MethodPost, "/api/auth/login", map[string]string{
		"username": "alice",
		"password": "secret1",
	})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	e := newEnv(t)
	e.register(t, "alice", "secret1")

	w := e.do(http.MethodPost, "/api/auth/login", map[string]string{
		"username": "alice",
		"password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, auth.MsgBadCredentials, resp["error"])
}

func TestRegisterDuplicate(t *testing.T) {
	e := newEnv(t)
	e.register(t, "alice", "secret1")

	w := e.do(http.MethodPost, "/api/auth/register", map[string]string{
		"username": "alice",
		"password": "secret2",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, auth.MsgDuplicate, resp["error"])
}

func TestLogoutInvalidatesToken(t *testing.T) {
	e := newEnv(t)
	token, _ := e.register(t, "alice", "secret1")

	w := e.do(http.MethodPost, "/api/auth/logout", nil, bearer(token)...)
	require.Equal(t, http.StatusOK, w.Code)

	w = e.do(http.MethodGet, "/api/account/me", nil, bearer(token)...)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "JWT outlives session but session is gone")
}

func TestProtectedRoutesRejectAnonymous(t *testing.T) {
	e := newEnv(t)

	for _, path := range []string{"/api/account/me", "/api/inventory", "/api/rewards", "/api/mail"} {
		w := e.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestChangePassword(t *testing.T) {
	e := newEnv(t)
	token, _ := e.register(t, "alice", "secret1")

	w := e.do(http.MethodPost, "/api/account/password", map[string]string{
		"old_password": "wrong",
		"new_password": "newpass1",
	}, bearer(token)...)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(http.MethodPost, "/api/account/password", map[string]string{
		"old_password": "secret1",
		"new_password": "newpass1",
	}, bearer(token)...)
	require.Equal(t, http.StatusOK, w.Code)

	w = e.do(http.MethodPost, "/api/auth/login", map[string]string{
		"username": "alice",
		"password": "newpass1",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}
