// Package dashboard serves the browser UI and its WebSocket session. Each
// connection owns one session.State; the browser sends actions and receives
// a snapshot after every transition.
package dashboard

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ziadkadry99/learnova/internal/assistant"
	"github.com/ziadkadry99/learnova/internal/identity"
)

// Dashboard provides the study UI.
type Dashboard struct {
	assistant *assistant.Service
	identity  identity.Service
	logger    *zap.Logger
	upgrader  websocket.Upgrader
}

// New creates a Dashboard. ids may be nil, in which case sessions stay
// anonymous.
func New(svc *assistant.Service, ids identity.Service, logger *zap.Logger) *Dashboard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dashboard{
		assistant: svc,
		identity:  ids,
		logger:    logger.Named("dashboard"),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// RegisterRoutes mounts all dashboard routes onto the given router.
func (d *Dashboard) RegisterRoutes(r chi.Router) {
	r.Get("/", d.ServeIndex)
	r.Get("/ws/session", d.handleWebSocket)
}
