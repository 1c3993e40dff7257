package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/covoiturage-api/internal/handler"    // import the handlers that implement business logic
	"github.com/iliyamo/covoiturage-api/internal/middleware" // import middleware for session authentication
	"github.com/iliyamo/covoiturage-api/internal/relay"      // import the websocket relay handler
	"github.com/iliyamo/covoiturage-api/internal/session"    // session store backing the auth gate
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance: the database connectivity probe and the
// bus-live placeholder.
func RegisterRoutes(e *echo.Echo, h *handler.HealthHandler) {
	e.GET("/api/test", h.Test)
	e.GET("/api/bus/live", h.BusLive)
}

// RegisterAuth registers all authentication-related routes.  The
// credential endpoints (register, login, forgot/reset password) sit
// behind the rate limiter; logout requires a live session because it
// deletes the caller's own token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, store session.Store, limit echo.MiddlewareFunc) {
	g := e.Group("/api/auth", limit)
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/forgot-password", a.ForgotPassword)
	g.POST("/reset-password", a.ResetPassword)
	g.POST("/logout", a.Logout, middleware.SessionAuth(store))
}

// RegisterClient registers the trip and favorite endpoints.  Every route
// in the group runs behind the session auth gate, so handlers can read
// the resolved user id from context.
func RegisterClient(e *echo.Echo, t *handler.TripHandler, store session.Store) {
	g := e.Group("/api/client")
	g.Use(middleware.SessionAuth(store))
	g.POST("/trajets", t.CreateTrip)
	g.GET("/mes-trajets", t.ListMine)
	g.PUT("/trajets/:id", t.UpdateTrip)
	g.DELETE("/trajets/:id", t.DeleteTrip)
	g.POST("/favoris/:trajetId", t.ToggleFavorite)
	g.GET("/favoris", t.ListFavorites)
}

// RegisterRelay exposes the websocket upgrade endpoint for the position
// relay.  Authentication is event-level (driver ids travel inside the
// frames), matching the delivery contract documented in the relay package.
func RegisterRelay(e *echo.Echo, h *relay.Handler) {
	e.GET("/api/ws", h.Serve)
}
