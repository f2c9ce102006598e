package controller

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/budget-tracker/backend/internal/integration/notification"
)

// AlertStreamController upgrades clients to the realtime alert stream.
// Clients authenticate with a register frame after the upgrade.
type AlertStreamController struct {
	hub      *notification.Hub
	upgrader websocket.Upgrader
}

// NewAlertStreamController creates a new alert stream controller.
// An empty allowedOrigins accepts any origin.
func NewAlertStreamController(hub *notification.Hub, allowedOrigins []string) *AlertStreamController {
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = struct{}{}
	}

	return &AlertStreamController{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if len(origins) == 0 {
					return true
				}
				_, ok := origins[r.Header.Get("Origin")]
				return ok
			},
		},
	}
}

// Stream handles GET /api/v1/alerts/ws requests.
func (c *AlertStreamController) Stream(ctx *gin.Context) {
	ws, err := c.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		slog.DebugContext(ctx.Request.Context(), "Alert stream upgrade failed", "error", err)
		return
	}

	c.hub.Serve(ctx.Request.Context(), ws)
}
