package http

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/autoparts-api/internal/domain/entity"
	"github.com/jhoicas/autoparts-api/internal/infrastructure/realtime"
	"github.com/jhoicas/autoparts-api/pkg/jwt"
	"github.com/jhoicas/autoparts-api/pkg/logger"
)

const (
	localWSOperator = "ws_operator"
	wsReadLimit     = 4096
)

// RealtimeHandler canal WebSocket GET /ws hacia el hub de eventos.
type RealtimeHandler struct {
	hub       *realtime.Hub
	jwtSecret string
	log       *logger.Logger
}

// NewRealtimeHandler construye el handler.
func NewRealtimeHandler(hub *realtime.Hub, jwtSecret string, log *logger.Logger) *RealtimeHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &RealtimeHandler{hub: hub, jwtSecret: jwtSecret, log: log}
}

// Upgrade exige el handshake WebSocket y resuelve, una sola vez, si la conexión puede
// unirse a operadores (token de admin en ?token= o en Authorization).
func (h *RealtimeHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	token := c.Query("token")
	if token == "" {
		token, _ = bearerToken(c.Get("Authorization"))
	}
	operator := false
	if token != "" {
		if _, role, err := jwt.Parse(h.jwtSecret, token); err == nil && role == entity.RoleAdmin {
			operator = true
		}
	}
	c.Locals(localWSOperator, operator)
	return c.Next()
}

// Serve devuelve el handler de la conexión ya aceptada.
func (h *RealtimeHandler) Serve() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		operator, _ := conn.Locals(localWSOperator).(bool)
		session, err := realtime.NewSession(h.hub, uuid.New().String(), wsWriter{conn: conn}, operator)
		if err != nil {
			h.log.Warn().Err(err).Msg("conexión realtime rechazada")
			return
		}
		defer session.Close()

		conn.SetReadLimit(wsReadLimit)
		for {
			mt, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if mt != websocket.TextMessage {
				continue
			}
			session.Handle(data)
		}
	})
}

// wsWriter adapta la conexión al Writer del hub; solo la goroutine escritora lo usa.
type wsWriter struct {
	conn *websocket.Conn
}

func (w wsWriter) WriteMessage(data []byte) error {
	return w.conn.WriteMessage(websocket.TextMessage, data)
}
