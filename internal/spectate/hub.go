// Package spectate streams simulation frames to browser clients over
// websockets and collects their orders for the simulation loop.
package spectate

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Garsondee/Field-Command/internal/game"
)

const (
	writeWait   = 5 * time.Second
	sendBuffer  = 256
	commandSize = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client is one connected spectator.
type Client struct {
	ID   string
	Conn *websocket.Conn
	Send chan []byte
}

// frame accumulates bridge updates between two flushes.
type frame struct {
	bars      map[game.UnitID]UnitView
	order     []game.UnitID
	removed   []uint64
	events    []EventView
	selection *SelectionView
	cursor    string
}

func (f *frame) reset() {
	f.bars = make(map[game.UnitID]UnitView)
	f.order = f.order[:0]
	f.removed = nil
	f.events = nil
	f.selection = nil
	f.cursor = ""
}

// Hub fans simulation frames out to clients. It implements game.UIBridge and
// game.EventSink; both only copy data so they never block the simulation.
type Hub struct {
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	commands   chan Command
	done       chan struct{}
	mu         sync.Mutex

	fmu     sync.Mutex
	pending frame
	latest  map[game.UnitID]UnitView
	tick    int
}

// NewHub creates a hub. Call Run to start serving registrations.
func NewHub() *Hub {
	h := &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		commands:   make(chan Command, commandSize),
		done:       make(chan struct{}),
		latest:     make(map[game.UnitID]UnitView),
	}
	h.pending.reset()
	return h
}

// Run processes registrations until ctx is done, then disconnects every
// client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.clients[c.ID] = c
			h.mu.Unlock()
			hello, _ := json.Marshal(h.state(c.ID))
			c.Send <- hello
			log.Printf("[SPECTATE] client connected: %s", c.ID)

		case c := <-h.unregister:
			h.drop(c)
			log.Printf("[SPECTATE] client disconnected: %s", c.ID)

		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for id, c := range h.clients {
				delete(h.clients, id)
				close(c.Send)
			}
			h.mu.Unlock()
			return
		}
	}
}

// state is the greeting for a new client: every unit last reported.
func (h *Hub) state(client string) Message {
	h.fmu.Lock()
	defer h.fmu.Unlock()
	msg := Message{Type: "hello", Client: client, Tick: h.tick}
	for _, v := range h.latest {
		msg.Units = append(msg.Units, v)
	}
	sort.Slice(msg.Units, func(i, j int) bool { return msg.Units[i].Label < msg.Units[j].Label })
	return msg
}

func (h *Hub) drop(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if cur, ok := h.clients[c.ID]; ok && cur == c {
		delete(h.clients, c.ID)
		close(c.Send)
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Commands delivers client orders. The simulation goroutine drains it and
// applies each with Command.Apply.
func (h *Hub) Commands() <-chan Command { return h.commands }

// ServeHTTP upgrades the request and attaches a new client.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("spectate upgrade:", err)
		return
	}
	c := &Client{
		ID:   uuid.NewString(),
		Conn: conn,
		Send: make(chan []byte, sendBuffer),
	}
	select {
	case h.register <- c:
	case <-h.done:
		conn.Close()
		return
	}
	go h.writePump(c)
	go h.readPump(c)
}

func (h *Hub) readPump(c *Client) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		c.Conn.Close()
	}()
	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			return
		}
		var cmd Command
		if err := json.Unmarshal(message, &cmd); err != nil {
			continue
		}
		cmd.Client = c.ID
		select {
		case h.commands <- cmd:
		default:
			log.Printf("[SPECTATE] command queue full, dropping %s from %s", cmd.Type, c.ID)
		}
	}
}

func (h *Hub) writePump(c *Client) {
	defer c.Conn.Close()
	for message := range c.Send {
		c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// broadcast queues data on every client. A client whose buffer is full is
// disconnected.
func (h *Hub) broadcast(data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		select {
		case c.Send <- data:
		default:
			delete(h.clients, id)
			close(c.Send)
		}
	}
}

// Flush sends everything gathered since the previous flush as one frame
// message for tick. Unchanged frames are not sent.
func (h *Hub) Flush(tick int) error {
	h.fmu.Lock()
	msg := Message{
		Type:      "frame",
		Tick:      tick,
		Removed:   h.pending.removed,
		Events:    h.pending.events,
		Selection: h.pending.selection,
		Cursor:    h.pending.cursor,
	}
	for _, id := range h.pending.order {
		msg.Units = append(msg.Units, h.pending.bars[id])
	}
	h.pending.reset()
	h.tick = tick
	h.fmu.Unlock()

	if len(msg.Units) == 0 && len(msg.Removed) == 0 && len(msg.Events) == 0 &&
		msg.Selection == nil && msg.Cursor == "" {
		return nil
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	h.broadcast(data)
	return nil
}

// SelectionChanged implements game.UIBridge.
func (h *Hub) SelectionChanged(rect game.Rect, dragging bool, selected []game.UnitID) {
	sv := &SelectionView{X: rect.X, Y: rect.Y, W: rect.W, H: rect.H, Dragging: dragging, Selected: make([]uint64, len(selected))}
	for i, id := range selected {
		sv.Selected[i] = uint64(id)
	}
	h.fmu.Lock()
	h.pending.selection = sv
	h.fmu.Unlock()
}

// CursorChanged implements game.UIBridge.
func (h *Hub) CursorChanged(c game.CursorState) {
	h.fmu.Lock()
	h.pending.cursor = c.String()
	h.fmu.Unlock()
}

// UnitBars implements game.UIBridge. Only the latest bars per unit are kept.
func (h *Hub) UnitBars(b game.UnitBars) {
	h.fmu.Lock()
	defer h.fmu.Unlock()
	if _, ok := h.pending.bars[b.ID]; !ok {
		h.pending.order = append(h.pending.order, b.ID)
	}
	v := unitView(b)
	h.pending.bars[b.ID] = v
	h.latest[b.ID] = v
}

// UnitRemoved implements game.UIBridge.
func (h *Hub) UnitRemoved(id game.UnitID) {
	h.fmu.Lock()
	defer h.fmu.Unlock()
	delete(h.latest, id)
	if _, ok := h.pending.bars[id]; ok {
		delete(h.pending.bars, id)
		for i, o := range h.pending.order {
			if o == id {
				h.pending.order = append(h.pending.order[:i], h.pending.order[i+1:]...)
				break
			}
		}
	}
	h.pending.removed = append(h.pending.removed, uint64(id))
}

// Notify implements game.EventSink.
func (h *Hub) Notify(e game.Event) {
	h.fmu.Lock()
	h.pending.events = append(h.pending.events, eventView(e))
	h.fmu.Unlock()
}
