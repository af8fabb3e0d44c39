// Package realtime reparte eventos de inventario a las conexiones abiertas,
// agrupadas en operadores (back-office) y consumidores (tienda).
package realtime

import (
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jhoicas/autoparts-api/pkg/logger"
)

// Group grupo de suscripción de una conexión.
type Group string

const (
	GroupOperators Group = "operators"
	GroupConsumers Group = "consumers"
)

// DefaultSendBuffer mensajes en cola por conexión antes de descartar.
const DefaultSendBuffer = 64

var (
	ErrHubClosed      = errors.New("realtime: hub cerrado")
	ErrClientExists   = errors.New("realtime: conexión ya registrada")
	ErrClientNotFound = errors.New("realtime: conexión no registrada")
	ErrUnknownGroup   = errors.New("realtime: grupo desconocido")
)

// Valid indica si el grupo es uno de los soportados.
func (g Group) Valid() bool {
	return g == GroupOperators || g == GroupConsumers
}

// Writer destino de una conexión. Solo lo invoca la goroutine escritora de esa conexión.
type Writer interface {
	WriteMessage(data []byte) error
}

// Message sobre común de todos los eventos enviados.
type Message struct {
	Event  string    `json:"event"`
	Data   any       `json:"data,omitempty"`
	SentAt time.Time `json:"sent_at"`
}

// HubStats contadores del hub.
type HubStats struct {
	Clients   int    `json:"clients"`
	Operators int    `json:"operators"`
	Consumers int    `json:"consumers"`
	Published uint64 `json:"published"`
	Delivered uint64 `json:"delivered"`
	Dropped   uint64 `json:"dropped"`
}

type client struct {
	id     string
	w      Writer
	outbox chan []byte
	done   chan struct{}
	exited chan struct{}
	once   sync.Once
	groups map[Group]struct{}
}

func (c *client) stop() {
	c.once.Do(func() { close(c.done) })
}

// Hub registro de conexiones y membresías. Su lock es independiente de los locks por repuesto.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*client
	groups  map[Group]map[string]*client
	closed  bool

	sendBuffer int
	log        *logger.Logger
	wg         sync.WaitGroup

	published atomic.Uint64
	delivered atomic.Uint64
	dropped   atomic.Uint64
}

// NewHub crea el hub. sendBuffer <= 0 usa DefaultSendBuffer.
func NewHub(sendBuffer int, log *logger.Logger) *Hub {
	if sendBuffer <= 0 {
		sendBuffer = DefaultSendBuffer
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Hub{
		clients: make(map[string]*client),
		groups: map[Group]map[string]*client{
			GroupOperators: {},
			GroupConsumers: {},
		},
		sendBuffer: sendBuffer,
		log:        log,
	}
}

// Register acepta una conexión nueva sin grupos y arranca su goroutine escritora.
func (h *Hub) Register(id string, w Writer) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrHubClosed
	}
	if _, ok := h.clients[id]; ok {
		return ErrClientExists
	}
	c := &client{
		id:     id,
		w:      w,
		outbox: make(chan []byte, h.sendBuffer),
		done:   make(chan struct{}),
		exited: make(chan struct{}),
		groups: make(map[Group]struct{}),
	}
	h.clients[id] = c
	h.wg.Add(1)
	go h.writeLoop(c)
	h.log.Debug().Str("conn_id", id).Msg("conexión realtime registrada")
	return nil
}

// Join agrega la conexión al grupo. Es idempotente.
func (h *Hub) Join(id string, g Group) error {
	if !g.Valid() {
		return ErrUnknownGroup
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.clients[id]
	if !ok {
		return ErrClientNotFound
	}
	c.groups[g] = struct{}{}
	h.groups[g][id] = c
	h.log.Debug().Str("conn_id", id).Str("group", string(g)).Msg("conexión unida a grupo")
	return nil
}

// Leave quita la conexión del grupo. Es idempotente.
func (h *Hub) Leave(id string, g Group) error {
	if !g.Valid() {
		return ErrUnknownGroup
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	c, ok := h.clients[id]
	if !ok {
		return ErrClientNotFound
	}
	delete(c.groups, g)
	delete(h.groups[g], id)
	return nil
}

// Unregister elimina la conexión y todas sus membresías. Los mensajes pendientes se descartan.
// Al volver, la goroutine escritora ya terminó y no vuelve a tocar el Writer.
func (h *Hub) Unregister(id string) {
	if c := h.remove(id, nil); c != nil {
		<-c.exited
	}
}

// remove quita la conexión id; si only no es nil, solo si sigue siendo esa misma conexión.
func (h *Hub) remove(id string, only *client) *client {
	h.mu.Lock()
	c, ok := h.clients[id]
	if ok && only != nil && c != only {
		ok = false
	}
	if ok {
		delete(h.clients, id)
		for g := range c.groups {
			delete(h.groups[g], id)
		}
	}
	h.mu.Unlock()
	if !ok {
		return nil
	}
	c.stop()
	h.log.Debug().Str("conn_id", id).Msg("conexión realtime cerrada")
	return c
}

// Groups devuelve los grupos de una conexión.
func (h *Hub) Groups(id string) []Group {
	h.mu.RLock()
	defer h.mu.RUnlock()
	c, ok := h.clients[id]
	if !ok {
		return nil
	}
	out := make([]Group, 0, len(c.groups))
	for _, g := range []Group{GroupOperators, GroupConsumers} {
		if _, in := c.groups[g]; in {
			out = append(out, g)
		}
	}
	return out
}

// PublishToGroups envía msg a los miembros de los grupos indicados; una conexión en varios
// grupos lo recibe una sola vez. Devuelve cuántas conexiones lo encolaron.
func (h *Hub) PublishToGroups(msg Message, groups ...Group) int {
	data, ok := h.encode(msg)
	if !ok {
		return 0
	}
	h.mu.RLock()
	seen := make(map[string]struct{})
	var targets []*client
	for _, g := range groups {
		for id, c := range h.groups[g] {
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()
	return h.enqueueAll(msg.Event, targets, data)
}

// PublishToAll envía msg a todas las conexiones, estén o no en un grupo.
func (h *Hub) PublishToAll(msg Message) int {
	data, ok := h.encode(msg)
	if !ok {
		return 0
	}
	h.mu.RLock()
	targets := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.RUnlock()
	return h.enqueueAll(msg.Event, targets, data)
}

// Send envía msg a una sola conexión (respuestas a join/leave).
func (h *Hub) Send(id string, msg Message) error {
	data, ok := h.encode(msg)
	if !ok {
		return nil
	}
	h.mu.RLock()
	c, found := h.clients[id]
	h.mu.RUnlock()
	if !found {
		return ErrClientNotFound
	}
	h.enqueue(msg.Event, c, data)
	return nil
}

// Stats devuelve una foto de los contadores.
func (h *Hub) Stats() HubStats {
	h.mu.RLock()
	s := HubStats{
		Clients:   len(h.clients),
		Operators: len(h.groups[GroupOperators]),
		Consumers: len(h.groups[GroupConsumers]),
	}
	h.mu.RUnlock()
	s.Published = h.published.Load()
	s.Delivered = h.delivered.Load()
	s.Dropped = h.dropped.Load()
	return s
}

// Close detiene todas las goroutines escritoras y rechaza registros nuevos.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	clients := h.clients
	h.clients = make(map[string]*client)
	for g := range h.groups {
		h.groups[g] = make(map[string]*client)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.stop()
	}
	h.wg.Wait()
}

func (h *Hub) encode(msg Message) ([]byte, bool) {
	if msg.SentAt.IsZero() {
		msg.SentAt = time.Now()
	}
	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Error().Err(err).Str("event", msg.Event).Msg("no se pudo serializar evento realtime")
		return nil, false
	}
	h.published.Add(1)
	return data, true
}

func (h *Hub) enqueueAll(event string, targets []*client, data []byte) int {
	n := 0
	for _, c := range targets {
		if h.enqueue(event, c, data) {
			n++
		}
	}
	return n
}

// enqueue nunca bloquea: si la cola está llena el mensaje se descarta.
func (h *Hub) enqueue(event string, c *client, data []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.outbox <- data:
		return true
	default:
		h.dropped.Add(1)
		h.log.Warn().Str("conn_id", c.id).Str("event", event).Msg("cola de conexión llena, evento descartado")
		return false
	}
}

func (h *Hub) writeLoop(c *client) {
	defer h.wg.Done()
	defer close(c.exited)
	for {
		select {
		case <-c.done:
			return
		case data := <-c.outbox:
			select {
			case <-c.done:
				return
			default:
			}
			if err := c.w.WriteMessage(data); err != nil {
				h.log.Debug().Err(err).Str("conn_id", c.id).Msg("error escribiendo en conexión realtime")
				h.remove(c.id, c)
				return
			}
			h.delivered.Add(1)
		}
	}
}
