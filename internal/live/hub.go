// Package live pushes rendered collection state to connected browsers.
package live

import (
	"log/slog"
	"sync"

	"github.com/devaloi/postboard/internal/collection"
	"github.com/devaloi/postboard/internal/domain"
)

// Viewer is the interface the hub expects from a live connection.
type Viewer interface {
	ID() string
	Send(data []byte)
	Close()
}

// Source is the collection the hub follows.
type Source interface {
	State() collection.State
	Subscribe(fn collection.Listener) (unsubscribe func())
}

// FrameFunc renders the frame for a state.
type FrameFunc func(collection.State) (domain.Frame, error)

// Hub tracks live viewers and broadcasts a frame for every state
// transition of its source.
type Hub struct {
	viewers     map[Viewer]bool
	mu          sync.RWMutex
	register    chan Viewer
	unregister  chan Viewer
	broadcast   chan []byte
	src         Source
	render      FrameFunc
	maxViewers  int
	unsubscribe func()
	quit        chan struct{}
	stopOnce    sync.Once
}

// New creates a Hub following src. It starts listening immediately;
// frames are delivered once Run is started.
func New(src Source, render FrameFunc, maxViewers int) *Hub {
	h := &Hub{
		viewers:    make(map[Viewer]bool),
		register:   make(chan Viewer, 256),
		unregister: make(chan Viewer, 256),
		broadcast:  make(chan []byte, 256),
		src:        src,
		render:     render,
		maxViewers: maxViewers,
		quit:       make(chan struct{}),
	}
	h.unsubscribe = src.Subscribe(h.publish)
	return h
}

// Run starts the hub's main event loop. Should be called as a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case v := <-h.register:
			h.handleRegister(v)
		case v := <-h.unregister:
			h.handleUnregister(v)
		case data := <-h.broadcast:
			h.mu.RLock()
			for v := range h.viewers {
				v.Send(data)
			}
			h.mu.RUnlock()
		case <-h.quit:
			return
		}
	}
}

// Stop detaches the hub from its source and ends the event loop.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		h.unsubscribe()
		close(h.quit)
	})
}

// Register queues a viewer registration. The viewer is sent the current
// frame once registered.
func (h *Hub) Register(v Viewer) {
	select {
	case h.register <- v:
	case <-h.quit:
	}
}

// Unregister queues a viewer removal.
func (h *Hub) Unregister(v Viewer) {
	select {
	case h.unregister <- v:
	case <-h.quit:
	}
}

// ViewerCount returns the number of registered viewers.
func (h *Hub) ViewerCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.viewers)
}

func (h *Hub) publish(st collection.State) {
	data, err := h.encode(st)
	if err != nil {
		slog.Error("live: render frame", "version", st.Version, "err", err)
		return
	}
	select {
	case h.broadcast <- data:
	case <-h.quit:
	}
}

func (h *Hub) encode(st collection.State) ([]byte, error) {
	f, err := h.render(st)
	if err != nil {
		return nil, err
	}
	return domain.Encode(f)
}

func (h *Hub) handleRegister(v Viewer) {
	h.mu.Lock()
	if h.maxViewers > 0 && len(h.viewers) >= h.maxViewers {
		h.mu.Unlock()
		if data, err := domain.Encode(domain.Frame{Type: domain.FrameError, Message: "too many viewers"}); err == nil {
			v.Send(data)
		}
		v.Close()
		slog.Debug("live: viewer rejected", "viewer", v.ID(), "max", h.maxViewers)
		return
	}
	h.viewers[v] = true
	h.mu.Unlock()
	slog.Debug("live: viewer joined", "viewer", v.ID())

	data, err := h.encode(h.src.State())
	if err != nil {
		slog.Error("live: render frame", "err", err)
		return
	}
	v.Send(data)
}

func (h *Hub) handleUnregister(v Viewer) {
	h.mu.Lock()
	_, ok := h.viewers[v]
	delete(h.viewers, v)
	h.mu.Unlock()
	if ok {
		slog.Debug("live: viewer left", "viewer", v.ID())
	}
}
