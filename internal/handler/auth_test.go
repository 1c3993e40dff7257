package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)

	env.register("a@b.com", "secret1")

	rec := env.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"nom":      "Diop",
		"prenom":   "Awa",
		"email":    "a@b.com",
		"password": "other",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "déjà utilisé")
}

func TestRegisterMissingFields(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    "a@b.com",
		"password": "secret1",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginReturnsTokenAndUser(t *testing.T) {
	env := newTestEnv(t)

	env.register("a@b.com", "secret1")
	rec := env.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "a@b.com",
		"password": "secret1",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
		User  struct {
			Email  string `json:"email"`
			Nom    string `json:"nom"`
			Prenom string `json:"prenom"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	require.Equal(t, "a@b.com", resp.User.Email)
	require.Equal(t, "Diop", resp.User.Nom)
	require.NotContains(t, rec.Body.String(), "password")
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)

	env.register("a@b.com", "secret1")

	wrongPass := env.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "a@b.com", "password": "nope",
	})
	unknownEmail := env.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "ghost@b.com", "password": "nope",
	})

	// Wrong password and unknown account are indistinguishable.
	require.Equal(t, http.StatusUnauthorized, wrongPass.Code)
	require.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	require.Equal(t, wrongPass.Body.String(), unknownEmail.Body.String())
}

func TestAuthGateRejectsMissingAndUnknownToken(t *testing.T) {
	env := newTestEnv(t)

	noHeader := env.do(http.MethodGet, "/api/client/mes-trajets", "", nil)
	require.Equal(t, http.StatusUnauthorized, noHeader.Code)

	bogus := env.do(http.MethodGet, "/api/client/mes-trajets", "deadbeef", nil)
	require.Equal(t, http.StatusUnauthorized, bogus.Code)
}

func TestAuthGateAcceptsLoginToken(t *testing.T) {
	env := newTestEnv(t)

	env.register("a@b.com", "secret1")
	token := env.login("a@b.com", "secret1")

	rec := env.do(http.MethodGet, "/api/client/mes-trajets", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestLogoutInvalidatesToken(t *testing.T) {
	env := newTestEnv(t)

	env.register("a@b.com", "secret1")
	token := env.login("a@b.com", "secret1")

	rec := env.do(http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	after := env.do(http.MethodGet, "/api/client/mes-trajets", token, nil)
	require.Equal(t, http.StatusUnauthorized, after.Code)
}

func TestForgotPasswordDoesNotLeakAccounts(t *testing.T) {
	env := newTestEnv(t)

	env.register("a@b.com", "secret1")

	known := env.do(http.MethodPost, "/api/auth/forgot-password", "", map[string]string{"email": "a@b.com"})
	unknown := env.do(http.MethodPost, "/api/auth/forgot-password", "", map[string]string{"email": "ghost@b.com"})

	require.Equal(t, http.StatusOK, known.Code)
	require.Equal(t, http.StatusOK, unknown.Code)
	require.Equal(t, known.Body.String(), unknown.Body.String())
}

func TestResetPasswordIsSingleUse(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.register("a@b.com", "secret1")
	require.NoError(t, env.Resets.Replace(ctx, "a@b.com", "tok123", time.Now().UTC().Add(time.Hour)))

	first := env.do(http.MethodPost, "/api/auth/reset-password", "", map[string]string{
		"token": "tok123", "newPassword": "secret2",
	})
	require.Equal(t, http.StatusOK, first.Code, first.Body.String())

	// The old password is gone, the new one works.
	old := env.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "a@b.com", "password": "secret1",
	})
	require.Equal(t, http.StatusUnauthorized, old.Code)
	env.login("a@b.com", "secret2")

	// The token was consumed.
	second := env.do(http.MethodPost, "/api/auth/reset-password", "", map[string]string{
		"token": "tok123", "newPassword": "secret3",
	})
	require.Equal(t, http.StatusBadRequest, second.Code)
}

func TestResetPasswordRejectsExpiredToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.register("a@b.com", "secret1")
	require.NoError(t, env.Resets.Replace(ctx, "a@b.com", "stale", time.Now().UTC().Add(-time.Minute)))

	rec := env.do(http.MethodPost, "/api/auth/reset-password", "", map[string]string{
		"token": "stale", "newPassword": "secret2",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "invalide ou expiré")
}

func TestForgotPasswordReplacesPriorToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.register("a@b.com", "secret1")
	require.NoError(t, env.Resets.Replace(ctx, "a@b.com", "first", time.Now().UTC().Add(time.Hour)))
	require.NoError(t, env.Resets.Replace(ctx, "a@b.com", "second", time.Now().UTC().Add(time.Hour)))

	// Only the latest token is live.
	stale := env.do(http.MethodPost, "/api/auth/reset-password", "", map[string]string{
		"token": "first", "newPassword": "secret2",
	})
	require.Equal(t, http.StatusBadRequest, stale.Code)

	live := env.do(http.MethodPost, "/api/auth/reset-password", "", map[string]string{
		"token": "second", "newPassword": "secret2",
	})
	require.Equal(t, http.StatusOK, live.Code)
}
