package handler // declare the package name; contains HTTP handlers

import (
	"context"      // bounds the probe query
	"database/sql" // database handle for the connectivity probe
	"net/http"     // net/http provides status codes and response helpers
	"time"         // probe timeout

	"github.com/labstack/echo/v4" // echo is the web framework used for this project

	"github.com/iliyamo/covoiturage-api/internal/database" // database probe helper
)

// HealthHandler exposes the database connectivity check and the bus-live
// placeholder the mobile apps poll.
type HealthHandler struct {
	DB     *sql.DB
	DBName string
}

func NewHealthHandler(db *sql.DB, dbName string) *HealthHandler {
	return &HealthHandler{DB: db, DBName: dbName}
}

// Test handles GET /api/test: it runs a trivial query so operators can
// verify the server reaches its database.
func (h *HealthHandler) Test(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	solution, err := database.Probe(ctx, h.DB)
	if err != nil {
		return c.JSON(http.StatusOK, echo.Map{"status": "MySQL KO", "error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":   "MySQL OK",
		"solution": solution,
		"database": h.DBName,
	})
}

// BusLive handles GET /api/bus/live.  The feed is not implemented yet;
// the route answers a fixed payload so the app screen has something to
// render.
func (h *HealthHandler) BusLive(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "OK",
		"message": "Route bus live fonctionnelle",
		"buses":   []any{},
	})
}
