package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"gesture-bridge/dispatch"
	"gesture-bridge/driver"
	"gesture-bridge/logger"
)

const (
	clientQueueLen = 32
	writeTimeout   = time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Event is one message on the status feed.
type Event struct {
	Type    string             `json:"type"` // "state" or "command"
	Status  *driver.StatusInfo `json:"status,omitempty"`
	Command *CommandEvent      `json:"command,omitempty"`
}

// CommandEvent reports the outcome of one dispatched line.
type CommandEvent struct {
	Line       string    `json:"line"`
	Command    string    `json:"command,omitempty"`
	Outcome    string    `json:"outcome"`
	Error      string    `json:"error,omitempty"`
	DurationMs int64     `json:"duration_ms"`
	At         time.Time `json:"at"`
}

type client struct {
	conn *websocket.Conn
	send chan Event
}

// Hub fans bridge events out to websocket clients. Publishing never blocks:
// a client that falls behind loses events.
type Hub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	last    driver.StatusInfo
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*client]struct{})}
}

// PublishStatus records and broadcasts a connection state change. Its
// signature matches driver.StateChangeCallback.
func (h *Hub) PublishStatus(info driver.StatusInfo) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = info
	h.broadcastLocked(Event{Type: "state", Status: &info})
}

// PublishResult broadcasts a dispatch result. Its signature matches
// dispatch.Dispatcher.OnResult.
func (h *Hub) PublishResult(res dispatch.Result) {
	ev := &CommandEvent{
		Line:       res.Line,
		Outcome:    res.Outcome.String(),
		DurationMs: res.Duration.Milliseconds(),
		At:         time.Now(),
	}
	if res.Recognized {
		ev.Command = res.Command.String()
	}
	if res.Err != nil {
		ev.Error = res.Err.Error()
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.broadcastLocked(Event{Type: "command", Command: ev})
}

// Status returns the last published status.
func (h *Hub) Status() driver.StatusInfo {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last
}

// Clients returns the number of connected websocket clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) broadcastLocked(ev Event) {
	for c := range h.clients {
		select {
		case c.send <- ev:
		default:
			logger.Debug("Status client %s is behind, dropping %s event", c.conn.RemoteAddr(), ev.Type)
		}
	}
}

// Handler returns the HTTP routes of the status feed.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.ServeWS)
	mux.HandleFunc("/status", h.ServeStatus)
	return mux
}

// ServeStatus writes the last status snapshot as JSON.
func (h *Hub) ServeStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.Status()); err != nil {
		logger.Error("Failed to write status: %v", err)
	}
}

// ServeWS upgrades the request and streams events until the client leaves.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("Upgrade error: %v", err)
		return
	}

	c := &client{conn: conn, send: make(chan Event, clientQueueLen)}

	// New clients start from the current state.
	h.mu.Lock()
	status := h.last
	c.send <- Event{Type: "state", Status: &status}
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	logger.Debug("Status client connected: %s", conn.RemoteAddr())

	done := make(chan struct{})
	go h.writeLoop(c, done)

	// Incoming messages are ignored; reading detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	close(done)
	conn.Close()
	logger.Debug("Status client disconnected: %s", conn.RemoteAddr())
}

func (h *Hub) writeLoop(c *client, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case ev := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteJSON(ev); err != nil {
				c.conn.Close()
				return
			}
		}
	}
}
