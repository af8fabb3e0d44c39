package realtime

import (
	"encoding/json"
	"strings"
)

// Acciones de cliente.
const (
	ActionJoin  = "join"
	ActionLeave = "leave"
)

// ClientFrame mensaje que envía un cliente por la conexión.
type ClientFrame struct {
	Action string `json:"action"`
	Group  string `json:"group"`
}

// normalize traduce los nombres heredados (join-admin, join-customer) al par acción/grupo.
func (f ClientFrame) normalize() ClientFrame {
	action := strings.ToLower(strings.TrimSpace(f.Action))
	group := strings.ToLower(strings.TrimSpace(f.Group))
	switch action {
	case "join-admin":
		return ClientFrame{Action: ActionJoin, Group: string(GroupOperators)}
	case "join-customer":
		return ClientFrame{Action: ActionJoin, Group: string(GroupConsumers)}
	case "leave-admin":
		return ClientFrame{Action: ActionLeave, Group: string(GroupOperators)}
	case "leave-customer":
		return ClientFrame{Action: ActionLeave, Group: string(GroupConsumers)}
	}
	switch group {
	case "admin", "admin-room":
		group = string(GroupOperators)
	case "customer", "customer-room":
		group = string(GroupConsumers)
	}
	return ClientFrame{Action: action, Group: group}
}

// Session estado de una conexión registrada en el hub.
type Session struct {
	hub *Hub
	id  string
	// canOperate se decide al aceptar la conexión (token de admin).
	canOperate bool
}

// NewSession registra la conexión en el hub y devuelve su sesión.
func NewSession(hub *Hub, id string, w Writer, canOperate bool) (*Session, error) {
	if err := hub.Register(id, w); err != nil {
		return nil, err
	}
	return &Session{hub: hub, id: id, canOperate: canOperate}, nil
}

// ID identificador de la conexión.
func (s *Session) ID() string { return s.id }

// Handle procesa un frame del cliente y encola la respuesta en la misma conexión.
func (s *Session) Handle(raw []byte) {
	var f ClientFrame
	if err := json.Unmarshal(raw, &f); err != nil {
		s.reply(EventError, ErrorPayload{Code: "INVALID_FRAME", Message: "frame JSON inválido"})
		return
	}
	f = f.normalize()
	g := Group(f.Group)
	if !g.Valid() {
		s.reply(EventError, ErrorPayload{Code: "UNKNOWN_GROUP", Message: "grupo desconocido: " + f.Group})
		return
	}
	switch f.Action {
	case ActionJoin:
		if g == GroupOperators && !s.canOperate {
			s.reply(EventError, ErrorPayload{Code: "FORBIDDEN", Message: "se requiere token de administrador"})
			return
		}
		if err := s.hub.Join(s.id, g); err != nil {
			return
		}
		s.reply(EventJoined, MembershipPayload{Group: string(g), Groups: s.groupNames()})
	case ActionLeave:
		if err := s.hub.Leave(s.id, g); err != nil {
			return
		}
		s.reply(EventLeft, MembershipPayload{Group: string(g), Groups: s.groupNames()})
	default:
		s.reply(EventError, ErrorPayload{Code: "UNKNOWN_ACTION", Message: "acción desconocida: " + f.Action})
	}
}

// Close quita la conexión del hub junto con sus membresías.
func (s *Session) Close() {
	s.hub.Unregister(s.id)
}

func (s *Session) groupNames() []string {
	groups := s.hub.Groups(s.id)
	out := make([]string, 0, len(groups))
	for _, g := range groups {
		out = append(out, string(g))
	}
	return out
}

func (s *Session) reply(event string, data any) {
	_ = s.hub.Send(s.id, Message{Event: event, Data: data})
}
