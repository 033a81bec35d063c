package socket

import (
	"encoding/json"
	"net/http"
	"strings"

	"teamboard-api/internal/logger"
	"teamboard-api/internal/metrics"
	"teamboard-api/internal/middleware"
	"teamboard-api/internal/session"
	"teamboard-api/pkg/status"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// HandlerOptions configures the socket endpoint
type HandlerOptions struct {
	CookieName     string
	AllowedOrigins []string
	SendBuffer     int
}

// Handler authenticates the upgrade request and runs the connection
type Handler struct {
	verifier   session.SessionVerifier
	hub        *Hub
	upgrader   websocket.Upgrader
	cookieName string
	sendBuffer int
	logger     *logger.Logger
}

// NewHandler creates the socket endpoint handler
func NewHandler(verifier session.SessionVerifier, hub *Hub, opts HandlerOptions, log *logger.Logger) *Handler {
	if opts.CookieName == "" {
		opts.CookieName = "accessToken"
	}
	return &Handler{
		verifier: verifier,
		hub:      hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(opts.AllowedOrigins),
		},
		cookieName: opts.CookieName,
		sendBuffer: opts.SendBuffer,
		logger:     log,
	}
}

// HandshakeToken reads the access token from the "token" query parameter,
// the Authorization header, then the access token cookie
func (h *Handler) HandshakeToken(r *http.Request) string {
	if token := strings.TrimSpace(r.URL.Query().Get("token")); token != "" {
		return token
	}
	if token := middleware.BearerToken(r.Header.Get("Authorization")); token != "" {
		return token
	}
	if cookie, err := r.Cookie(h.cookieName); err == nil {
		return cookie.Value
	}
	return ""
}

// Serve verifies the handshake and, once upgraded, blocks reading frames
// until the connection ends
func (h *Handler) Serve(c *gin.Context) {
	s, err := h.verifier.Verify(c.Request.Context(), h.HandshakeToken(c.Request))
	if err != nil {
		reason := session.ReasonOf(err)
		metrics.AuthDecisions.WithLabelValues("socket", string(reason)).Inc()

		entry := h.logger.WithFields(logrus.Fields{
			"reason": reason,
			"ip":     c.ClientIP(),
		})
		if reason == status.CodeServiceUnavailable {
			entry.WithError(err).Error("Socket authentication unavailable")
		} else {
			entry.Debug("Socket handshake rejected")
		}

		status.Abort(c, reason, "")
		return
	}
	metrics.AuthDecisions.WithLabelValues("socket", "authorized").Inc()

	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// the upgrader has already written the HTTP error
		h.logger.WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	conn := NewConn(ws, s, h.sendBuffer, h.logger.WithField("transport", "socket"))
	h.hub.Register(conn)
	metrics.SocketConnections.Inc()
	defer metrics.SocketConnections.Dec()

	presence := NewPresence(h.hub, conn)
	conn.logger.Info("Socket connected")

	go conn.writePump()
	conn.readPump(func(message []byte) {
		h.dispatch(presence, conn, message)
	})

	presence.Disconnect()
	conn.logger.Info("Socket disconnected")
}

// dispatch routes one inbound frame
func (h *Handler) dispatch(p *Presence, conn *Conn, message []byte) {
	var in Inbound
	if err := json.Unmarshal(message, &in); err != nil {
		conn.logger.WithError(err).Debug("Malformed socket frame")
		_ = conn.Emit(EventError, AckPayload{Error: "malformed frame"}, "")
		return
	}

	switch in.Event {
	case EventRoomJoin:
		var req JoinRequest
		if len(in.Data) > 0 {
			if err := json.Unmarshal(in.Data, &req); err != nil {
				h.ack(conn, in.Ack, ErrInvalidRoomID)
				return
			}
		}
		h.ack(conn, in.Ack, p.Join(req.RoomID))

	case EventRoomLeave:
		h.ack(conn, in.Ack, p.Leave())

	default:
		_ = conn.Emit(EventError, AckPayload{Error: ErrUnknownEvent.Error()}, in.Ack)
	}
}

func (h *Handler) ack(conn *Conn, ackID string, err error) {
	payload := AckPayload{Success: err == nil}
	if err != nil {
		payload.Error = err.Error()
	}
	_ = conn.Emit(EventAck, payload, ackID)
}

// originChecker allows any origin when none are configured or "*" is listed.
// Requests without an Origin header come from non-browser clients and pass.
func originChecker(allowed []string) func(*http.Request) bool {
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[strings.TrimRight(o, "/")] = struct{}{}
	}

	return func(r *http.Request) bool {
		if len(set) == 0 {
			return true
		}
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[strings.TrimRight(origin, "/")]
		return ok
	}
}
