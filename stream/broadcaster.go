// Package stream pushes simulation status to websocket clients.
package stream

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pthm-cable/savanna/components"
	"github.com/pthm-cable/savanna/systems"
)

// Frame is the JSON message sent to clients after every step.
type Frame struct {
	Type    string         `json:"type"` // "status" or "reset"
	Step    int            `json:"step"`
	Weather string         `json:"weather,omitempty"`
	Day     bool           `json:"day"`
	Counts  map[string]int `json:"counts,omitempty"`
	Total   int            `json:"total"`
}

// Broadcaster is a status view that forwards every step to connected
// websocket clients. Frames are dropped when the queue is full so a slow
// client never stalls the simulation.
type Broadcaster struct {
	mu         sync.RWMutex
	clients    map[*websocket.Conn]bool
	upgrader   websocket.Upgrader
	broadcast  chan []byte
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	done       chan struct{}
	closeOnce  sync.Once
	wg         sync.WaitGroup

	writeTimeout time.Duration
}

// NewBroadcaster creates a broadcaster with a queue of queueSize frames.
func NewBroadcaster(queueSize int, writeTimeout time.Duration) *Broadcaster {
	if queueSize < 1 {
		queueSize = 256
	}
	if writeTimeout <= 0 {
		writeTimeout = 10 * time.Second
	}
	b := &Broadcaster{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan []byte, queueSize),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		writeTimeout: writeTimeout,
	}

	b.wg.Add(1)
	go b.run()
	return b
}

// ServeHTTP upgrades the request to a websocket and streams frames to it
// until the client goes away.
func (b *Broadcaster) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket_upgrade_failed", "error", err)
		return
	}
	select {
	case b.register <- conn:
	case <-b.done:
		conn.Close()
		return
	}

	// Clients only listen; reading detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	select {
	case b.unregister <- conn:
	case <-b.done:
	}
}

// ClientCount returns the number of connected clients.
func (b *Broadcaster) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients)
}

// ShowStatus queues a status frame for the current step.
func (b *Broadcaster) ShowStatus(step int, eco *systems.Ecosystem) {
	counts := eco.Counts()
	field := eco.Field()
	frame := Frame{
		Type:    "status",
		Step:    step,
		Weather: field.WeatherCondition().String(),
		Day:     field.IsDay(),
		Counts:  make(map[string]int, len(counts)),
	}
	for _, s := range components.AllSpecies() {
		frame.Counts[s.String()] = counts[s]
		frame.Total += counts[s]
	}
	b.send(frame)
}

// IsViable reports whether at least two species are alive.
func (b *Broadcaster) IsViable(eco *systems.Ecosystem) bool {
	return systems.Viable(eco.Counts())
}

// Reset tells clients to clear their charts.
func (b *Broadcaster) Reset() {
	b.send(Frame{Type: "reset"})
}

func (b *Broadcaster) send(frame Frame) {
	data, err := json.Marshal(frame)
	if err != nil {
		slog.Error("failed to encode frame", "error", err)
		return
	}
	select {
	case <-b.done:
	case b.broadcast <- data:
	default:
		slog.Debug("frame_dropped", "step", frame.Step)
	}
}

// run handles client registration and frame delivery.
func (b *Broadcaster) run() {
	defer b.wg.Done()
	for {
		select {
		case <-b.done:
			return

		case conn := <-b.register:
			b.mu.Lock()
			b.clients[conn] = true
			b.mu.Unlock()

		case conn := <-b.unregister:
			b.mu.Lock()
			if _, ok := b.clients[conn]; ok {
				delete(b.clients, conn)
				conn.Close()
			}
			b.mu.Unlock()

		case data := <-b.broadcast:
			b.deliver(data)
		}
	}
}

func (b *Broadcaster) deliver(data []byte) {
	b.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(b.clients))
	for conn := range b.clients {
		conns = append(conns, conn)
	}
	b.mu.RUnlock()

	var failed []*websocket.Conn
	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(b.writeTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			failed = append(failed, conn)
			conn.Close()
		}
	}

	if len(failed) > 0 {
		b.mu.Lock()
		for _, conn := range failed {
			delete(b.clients, conn)
		}
		b.mu.Unlock()
	}
}

// Close disconnects every client and stops delivery.
func (b *Broadcaster) Close() error {
	b.closeOnce.Do(func() {
		close(b.done)
		b.wg.Wait()

		b.mu.Lock()
		for conn := range b.clients {
			conn.Close()
			delete(b.clients, conn)
		}
		b.mu.Unlock()
	})
	return nil
}
