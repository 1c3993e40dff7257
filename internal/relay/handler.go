package relay

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Mobile clients connect from app webviews and simulators; origin
		// checks are left to the deployment's reverse proxy.
		return true
	},
}

// Handler upgrades HTTP requests into relay connections.
type Handler struct {
	hub *Hub
}

func NewHandler(hub *Hub) *Handler {
	return &Handler{hub: hub}
}

// Serve handles GET /api/ws: it upgrades the connection, registers it with
// the hub and starts both pumps.
func (h *Handler) Serve(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Printf("relay: upgrade failed: %v", err)
		return err
	}

	client := &Client{
		hub:  h.hub,
		conn: conn,
		send: make(chan any, 256),
	}
	h.hub.register <- client

	go client.writePump()
	go client.readPump()
	return nil
}
