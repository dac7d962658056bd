// Package stream pushes per-tick frames to read-only WebSocket viewers.
package stream

import (
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lixenwraith/wa-tor/core"
	"github.com/lixenwraith/wa-tor/engine"
	"github.com/lixenwraith/wa-tor/parameter"
	"github.com/lixenwraith/wa-tor/scheduler"
)

var ErrClosed = errors.New("stream hub closed")

// Frame is the wire form of one tick
type Frame struct {
	Tick   uint64 `json:"tick"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Fish   int    `json:"fish"`
	Sharks int    `json:"sharks"`
	// Cells is row-major, one byte per cell: '.', 'f' or 'S'
	Cells string `json:"cells"`
}

// FrameFrom encodes a tick notification
func FrameFrom(info scheduler.TickInfo) Frame {
	return Frame{
		Tick:   info.Tick,
		Width:  info.Width,
		Height: info.Height,
		Fish:   info.Census.Fish,
		Sharks: info.Census.Sharks,
		Cells:  encodeCells(info.Cells),
	}
}

func encodeCells(cells []engine.Entity) string {
	buf := make([]byte, len(cells))
	for i, e := range cells {
		buf[i] = e.Glyph()
	}
	return string(buf)
}

type client struct {
	conn *websocket.Conn
	send chan Frame
	done chan struct{}
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

// Hub fans frames out to connected viewers; slow viewers lose frames
type Hub struct {
	upgrader websocket.Upgrader
	logger   *log.Logger

	mu      sync.Mutex
	clients map[*client]struct{}
	last    *Frame
	closed  bool
}

func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Hub{
		upgrader: websocket.Upgrader{
			// Viewers are read-only; any origin may watch
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger:  logger.WithPrefix("stream"),
		clients: make(map[*client]struct{}),
	}
}

var _ scheduler.Observer = (*Hub)(nil)

// ObserveTick implements scheduler.Observer
func (h *Hub) ObserveTick(info scheduler.TickInfo) {
	h.Publish(FrameFrom(info))
}

// ServeHTTP upgrades the request and registers the viewer
// A new viewer receives the latest frame immediately
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	closed := h.closed
	h.mu.Unlock()
	if closed {
		http.Error(w, ErrClosed.Error(), http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", "remote", r.RemoteAddr, "err", err)
		return
	}

	c := &client{
		conn: conn,
		send: make(chan Frame, parameter.StreamClientBuffer),
		done: make(chan struct{}),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		c.close()
		return
	}
	h.clients[c] = struct{}{}
	if h.last != nil {
		c.send <- *h.last
	}
	count := len(h.clients)
	h.mu.Unlock()

	h.logger.Debug("viewer connected", "remote", r.RemoteAddr, "viewers", count)

	core.Go(func() { h.writeLoop(c) })
	core.Go(func() { h.readLoop(c) })
}

// Publish queues f for every viewer without blocking
func (h *Hub) Publish(f Frame) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.last = &f
	for c := range h.clients {
		select {
		case c.send <- f:
		default:
			// Viewer is behind; drop this frame for it
		}
	}
}

// Viewers returns the number of connected viewers
func (h *Hub) Viewers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every viewer and rejects new ones
func (h *Hub) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.clients = make(map[*client]struct{})
	h.mu.Unlock()

	deadline := time.Now().Add(parameter.StreamWriteTimeout)
	for _, c := range clients {
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutdown"), deadline)
		c.close()
	}
	return nil
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	c.close()
}

func (h *Hub) writeLoop(c *client) {
	defer h.remove(c)
	for {
		select {
		case <-c.done:
			return
		case f := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(parameter.StreamWriteTimeout))
			if err := c.conn.WriteJSON(f); err != nil {
				h.logger.Debug("viewer write failed", "err", err)
				return
			}
		}
	}
}

// readLoop discards viewer input and notices disconnects
func (h *Hub) readLoop(c *client) {
	defer h.remove(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}
