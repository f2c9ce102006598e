// Package notification delivers threshold alerts to budget owners.
package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
)

// Event names exchanged on the alert stream.
const (
	EventRegister   = "register"
	EventRegistered = "registered"
	EventAlert      = "alert"
	EventError      = "error"
)

const maxMessageSize = 4096

// InboundMessage is a client frame.
type InboundMessage struct {
	Event string `json:"event"`
	Token string `json:"token,omitempty"`
}

// OutboundMessage is a server frame.
type OutboundMessage struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

// ErrorPayload is the data of an error frame.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HubConfig holds the hub timings.
type HubConfig struct {
	WriteTimeout time.Duration
	PingInterval time.Duration
}

// DefaultHubConfig returns the default hub timings.
func DefaultHubConfig() HubConfig {
	return HubConfig{
		WriteTimeout: 10 * time.Second,
		PingInterval: 30 * time.Second,
	}
}

type conn struct {
	ws      *websocket.Conn
	writeMu sync.Mutex
	userID  uuid.UUID
}

func (c *conn) writeJSON(ctx context.Context, timeout time.Duration, msg OutboundMessage) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	deadline := time.Now().Add(timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := c.ws.SetWriteDeadline(deadline); err != nil {
		return err
	}
	return c.ws.WriteJSON(msg)
}

// Hub tracks live alert streams by user and pushes alerts to them.
type Hub struct {
	tokens adapter.TokenService
	config HubConfig

	mu    sync.RWMutex
	users map[uuid.UUID]map[*conn]struct{}
}

// NewHub creates a new hub. Zero config values fall back to the defaults.
func NewHub(tokens adapter.TokenService, config HubConfig) *Hub {
	defaults := DefaultHubConfig()
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = defaults.WriteTimeout
	}
	if config.PingInterval <= 0 {
		config.PingInterval = defaults.PingInterval
	}
	return &Hub{
		tokens: tokens,
		config: config,
		users:  make(map[uuid.UUID]map[*conn]struct{}),
	}
}

// Serve runs the read loop for an upgraded connection until it closes.
func (h *Hub) Serve(ctx context.Context, ws *websocket.Conn) {
	c := &conn{ws: ws}
	defer func() {
		h.unbind(c)
		_ = ws.Close()
	}()

	ws.SetReadLimit(maxMessageSize)

	done := make(chan struct{})
	defer close(done)
	go h.keepAlive(c, done)

	for {
		var msg InboundMessage
		if err := ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.DebugContext(ctx, "Alert stream closed", "error", err)
			}
			return
		}

		switch msg.Event {
		case EventRegister:
			h.register(ctx, c, msg.Token)
		default:
			h.reject(ctx, c, "unknown event "+msg.Event)
		}
	}
}

func (h *Hub) register(ctx context.Context, c *conn, token string) {
	claims, err := h.tokens.ValidateAccessToken(ctx, token)
	if err != nil {
		h.reject(ctx, c, "invalid token")
		return
	}

	h.bind(c, claims.UserID)
	slog.DebugContext(ctx, "Alert stream registered", "user_id", claims.UserID)

	_ = c.writeJSON(ctx, h.config.WriteTimeout, OutboundMessage{
		Event: EventRegistered,
		Data:  map[string]string{"user_id": claims.UserID.String()},
	})
}

func (h *Hub) reject(ctx context.Context, c *conn, message string) {
	_ = c.writeJSON(ctx, h.config.WriteTimeout, OutboundMessage{
		Event: EventError,
		Data: ErrorPayload{
			Code:    string(domainerror.ErrCodeInvalidRegistration),
			Message: message,
		},
	})
}

func (h *Hub) keepAlive(c *conn, done <-chan struct{}) {
	ticker := time.NewTicker(h.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			deadline := time.Now().Add(h.config.WriteTimeout)
			if err := c.ws.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				_ = c.ws.Close()
				return
			}
		}
	}
}

func (h *Hub) bind(c *conn, userID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeLocked(c)
	c.userID = userID
	if h.users[userID] == nil {
		h.users[userID] = make(map[*conn]struct{})
	}
	h.users[userID][c] = struct{}{}
}

func (h *Hub) unbind(c *conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *conn) {
	if c.userID == uuid.Nil {
		return
	}
	conns := h.users[c.userID]
	delete(conns, c)
	if len(conns) == 0 {
		delete(h.users, c.userID)
	}
	c.userID = uuid.Nil
}

// Connections returns the number of live streams registered for the user.
func (h *Hub) Connections(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[userID])
}

// Send pushes the alert to every stream of the user. It returns
// domainerror.ErrNoRecipient when the user has no stream or every write failed.
func (h *Hub) Send(ctx context.Context, userID uuid.UUID, event *entity.AlertEvent) error {
	h.mu.RLock()
	targets := make([]*conn, 0, len(h.users[userID]))
	for c := range h.users[userID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	if len(targets) == 0 {
		return domainerror.ErrNoRecipient
	}

	msg := OutboundMessage{Event: EventAlert, Data: event}
	var errs []error
	for _, c := range targets {
		if err := c.writeJSON(ctx, h.config.WriteTimeout, msg); err != nil {
			errs = append(errs, err)
			// The read loop notices the close and unbinds the stream.
			_ = c.ws.Close()
		}
	}

	if len(errs) == len(targets) {
		return fmt.Errorf("%w: %w", domainerror.ErrNoRecipient, errors.Join(errs...))
	}
	return nil
}

var _ adapter.NotificationDispatcher = (*Hub)(nil)
