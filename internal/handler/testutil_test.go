package handler_test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"github.com/iliyamo/covoiturage-api/internal/config"
	"github.com/iliyamo/covoiturage-api/internal/handler"
	"github.com/iliyamo/covoiturage-api/internal/repository"
	"github.com/iliyamo/covoiturage-api/internal/router"
	"github.com/iliyamo/covoiturage-api/internal/session"
)

// testSchema mirrors the MySQL tables in sqlite dialect.  The UNIQUE
// constraints matter: the handlers rely on them for duplicate-email and
// favorite-toggle behavior.
const testSchema = `
CREATE TABLE users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	nom TEXT NOT NULL,
	prenom TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	telephone TEXT,
	residence TEXT,
	password_hash TEXT NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE trajets (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL,
	depart TEXT NOT NULL,
	destination TEXT NOT NULL,
	heure TEXT NOT NULL,
	places INTEGER NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
CREATE TABLE favoris (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL,
	trajet_id INTEGER NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	UNIQUE(user_id, trajet_id)
);
CREATE TABLE password_resets (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	email TEXT NOT NULL,
	token TEXT NOT NULL UNIQUE,
	expires_at DATETIME NOT NULL
);
`

type testEnv struct {
	T        *testing.T
	E        *echo.Echo
	DB       *sql.DB
	Sessions *session.MemoryStore
	Resets   *repository.PasswordResetRepo
	Users    *repository.UserRepo
}

// newTestEnv builds a full server (routes, middleware, handlers) on an
// in-memory sqlite database and an in-memory session store.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// A pooled second connection would see an empty :memory: database.
	db.SetMaxOpenConns(1)
	_, err = db.Exec(testSchema)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cfg := config.Config{
		Env:             "test",
		DBName:          "test",
		SessionTTLHours: 1,
		BcryptCost:      bcrypt.MinCost,
	}

	sessions := session.NewMemoryStore(time.Minute)
	t.Cleanup(sessions.Close)

	users := repository.NewUserRepo(db)
	trips := repository.NewTripRepo(db)
	favorites := repository.NewFavoriteRepo(db)
	resets := repository.NewPasswordResetRepo(db)

	e := echo.New()
	noLimit := func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	router.RegisterRoutes(e, handler.NewHealthHandler(db, cfg.DBName))
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, resets, sessions), sessions, noLimit)
	router.RegisterClient(e, handler.NewTripHandler(trips, favorites), sessions)

	return &testEnv{T: t, E: e, DB: db, Sessions: sessions, Resets: resets, Users: users}
}

// do performs a request against the in-process server and returns the
// recorder.  A non-empty token is attached as a Bearer credential.
func (env *testEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	env.T.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(env.T, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

// register creates an account through the API and fails the test on any
// non-201 answer.
func (env *testEnv) register(email, password string) {
	env.T.Helper()
	rec := env.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"nom":      "Diop",
		"prenom":   "Awa",
		"email":    email,
		"password": password,
	})
	require.Equal(env.T, http.StatusCreated, rec.Code, rec.Body.String())
}

// login authenticates through the API and returns the bearer token.
func (env *testEnv) login(email, password string) string {
	env.T.Helper()
	rec := env.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(env.T, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(env.T, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(env.T, resp.Token)
	return resp.Token
}
