package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http" // HTTP status codes for responses
	"strings"  // string utilities for prefix checking and trimming

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/iliyamo/covoiturage-api/internal/session" // session store consulted by the gate
)

// SessionAuth returns an Echo middleware that resolves an opaque Bearer
// token against the session store and injects the resulting user id into
// the request context under "user_id".  A missing header and an unknown
// token both answer 401; the two messages mirror the mobile apps'
// expectations but carry the same status so callers cannot probe token
// existence.
func SessionAuth(store session.Store) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Token manquant"})
			}
			token := strings.TrimPrefix(auth, "Bearer ")

			userID, err := store.Get(c.Request().Context(), token)
			if err != nil {
				// session.ErrNotFound and store failures collapse into the
				// same generic rejection; the cause is not leaked.
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "Token invalide"})
			}

			c.Set("user_id", userID)
			c.Set("token", token)
			return next(c)
		}
	}
}
