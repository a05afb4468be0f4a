package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/shahar-caura/marino/internal/outbox"
)

// SSEHub fans out stored reminders to connected SSE clients.
type SSEHub struct {
	store  *outbox.Store
	logger *slog.Logger

	mu      sync.Mutex
	clients map[chan []byte]struct{}
}

// NewSSEHub creates an SSEHub watching the store's directory.
func NewSSEHub(store *outbox.Store, logger *slog.Logger) *SSEHub {
	return &SSEHub{
		store:   store,
		logger:  logger,
		clients: make(map[chan []byte]struct{}),
	}
}

// Start watches the outbox for new or updated reminders and broadcasts them.
// Blocks until ctx is cancelled.
func (h *SSEHub) Start(ctx context.Context) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		h.logger.Error("sse: failed to create watcher", "error", err)
		return
	}
	defer func() { _ = watcher.Close() }()

	// The directory must exist before it can be watched.
	if err := os.MkdirAll(h.store.Dir(), 0o755); err != nil {
		h.logger.Error("sse: failed to create outbox dir", "error", err)
		return
	}

	if err := watcher.Add(h.store.Dir()); err != nil {
		h.logger.Error("sse: failed to watch outbox dir", "error", err)
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if !strings.HasSuffix(event.Name, ".yaml") {
				continue
			}

			rem, err := outbox.LoadFile(event.Name)
			if err != nil {
				continue // transient read during atomic write
			}

			data, err := json.Marshal(rem)
			if err != nil {
				continue
			}
			h.broadcast(data)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			h.logger.Error("sse: watcher error", "error", err)
		}
	}
}

func (h *SSEHub) broadcast(data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.clients {
		select {
		case ch <- data:
		default:
			// Slow client; drop this event.
		}
	}
}

func (h *SSEHub) addClient(ch chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[ch] = struct{}{}
}

func (h *SSEHub) removeClient(ch chan []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, ch)
	close(ch)
}

// Clients returns the number of connected clients.
func (h *SSEHub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeHTTP implements http.Handler for SSE connections.
func (h *SSEHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan []byte, 32)
	h.addClient(ch)
	defer h.removeClient(ch)

	keepalive := time.NewTicker(20 * time.Second)
	defer keepalive.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-keepalive.C:
			_, _ = fmt.Fprint(w, ": keepalive\n\n")
			flusher.Flush()
		case data := <-ch:
			_, _ = fmt.Fprintf(w, "event: reminder\ndata: %s\n\n", data)
			flusher.Flush()
		}
	}
}
