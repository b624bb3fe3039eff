package host

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/jetrotal/YN-HUB/pkg/logger"
	"github.com/jetrotal/YN-HUB/pkg/metrics"
)

// MessageNavigate is the type of navigation messages.
const MessageNavigate = "navigate"

// Message is sent to every connected host page.
type Message struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Location string `json:"location,omitempty"`
}

// Config contains bridge configuration.
type Config struct {
	// Addr is the listen address for ListenAndServe.
	// Default: 127.0.0.1:8765.
	Addr string

	// AllowedOrigins lists accepted Origin headers. "*" accepts any origin;
	// an empty list accepts same-origin requests only.
	AllowedOrigins []string

	// WriteTimeout bounds a single websocket write.
	// Default: 5s.
	WriteTimeout time.Duration

	// SendBuffer is the per-client queue length. Messages to a client with
	// a full queue are dropped.
	// Default: 8.
	SendBuffer int
}

// Bridge is a Navigator that broadcasts to host pages connected on /host.
type Bridge struct {
	config   Config
	logger   logger.Logger
	metrics  *metrics.Metrics
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
}

type client struct {
	conn *websocket.Conn
	send chan Message

	closeOnce sync.Once
	done      chan struct{}
}

// NewBridge creates a bridge. m may be nil.
func NewBridge(cfg Config, log logger.Logger, m *metrics.Metrics) *Bridge {
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8765"
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 5 * time.Second
	}
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = 8
	}

	b := &Bridge{
		config:  cfg,
		logger:  log.With("component", "host"),
		metrics: m,
		clients: make(map[*client]struct{}),
	}
	b.upgrader = websocket.Upgrader{CheckOrigin: b.checkOrigin}
	return b
}

// Handler serves /host (websocket), /metrics and /healthz.
func (b *Bridge) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/host", b.serveHost)
	mux.Handle("/metrics", b.metrics.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok")) // nolint:errcheck
	})
	return mux
}

// ListenAndServe serves Handler on cfg.Addr until ctx is cancelled.
func (b *Bridge) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              b.config.Addr,
		Handler:           b.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	b.logger.Info("host bridge listening", "addr", b.config.Addr)

	select {
	case err := <-errCh:
		return fmt.Errorf("host bridge: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	b.closeAll()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down host bridge: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("host bridge: %w", err)
	}
	return nil
}

// Navigate queues a navigate message for every connected page and returns
// without waiting for delivery.
func (b *Bridge) Navigate(_ context.Context, location string) {
	msg := Message{ID: uuid.NewString(), Type: MessageNavigate, Location: location}

	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.clients) == 0 {
		b.logger.Warn("no host connected, navigation not delivered", "location", location)
		return
	}
	for c := range b.clients {
		select {
		case c.send <- msg:
		default:
			b.logger.Warn("host send queue full, dropping message", "id", msg.ID)
		}
	}
	b.logger.Info("navigation sent", "id", msg.ID, "location", location, "clients", len(b.clients))
}

// Clients returns the number of connected host pages.
func (b *Bridge) Clients() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}

func (b *Bridge) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if len(b.config.AllowedOrigins) == 0 {
		return origin == "http://"+r.Host || origin == "https://"+r.Host
	}
	for _, allowed := range b.config.AllowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}

func (b *Bridge) serveHost(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.logger.Warn("websocket upgrade failed", "error", err, "remote", r.RemoteAddr)
		return
	}

	c := &client{
		conn: conn,
		send: make(chan Message, b.config.SendBuffer),
		done: make(chan struct{}),
	}
	b.register(c)
	defer b.unregister(c)

	go b.writeLoop(c)

	// Host pages never send anything we act on; reading detects disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (b *Bridge) writeLoop(c *client) {
	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(b.config.WriteTimeout)); err != nil {
				b.unregister(c)
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				b.logger.Warn("failed to deliver message", "id", msg.ID, "error", err)
				b.unregister(c)
				return
			}
		}
	}
}

func (b *Bridge) register(c *client) {
	b.mu.Lock()
	b.clients[c] = struct{}{}
	n := len(b.clients)
	b.mu.Unlock()

	b.metrics.SetClients(n)
	b.logger.Info("host connected", "remote", c.conn.RemoteAddr().String(), "clients", n)
}

func (b *Bridge) unregister(c *client) {
	b.mu.Lock()
	_, ok := b.clients[c]
	delete(b.clients, c)
	n := len(b.clients)
	b.mu.Unlock()

	c.close()
	if ok {
		b.metrics.SetClients(n)
		b.logger.Info("host disconnected", "clients", n)
	}
}

func (b *Bridge) closeAll() {
	b.mu.Lock()
	clients := make([]*client, 0, len(b.clients))
	for c := range b.clients {
		clients = append(clients, c)
	}
	b.mu.Unlock()

	for _, c := range clients {
		b.unregister(c)
	}
}

func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.Close() // nolint:errcheck
	})
}
