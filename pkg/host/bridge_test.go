package host

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jetrotal/YN-HUB/pkg/logger"
	"github.com/jetrotal/YN-HUB/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startBridge(t *testing.T, cfg Config) (*Bridge, *httptest.Server) {
	t.Helper()
	b := NewBridge(cfg, logger.Noop(), metrics.New())
	srv := httptest.NewServer(b.Handler())
	t.Cleanup(srv.Close)
	return b, srv
}

func dialHost(t *testing.T, srv *httptest.Server, header http.Header) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/host"
	conn, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close() // nolint:errcheck
	}
	t.Cleanup(func() { _ = conn.Close() }) // nolint:errcheck
	return conn
}

func TestNavigateBroadcasts(t *testing.T) {
	b, srv := startBridge(t, Config{})

	first := dialHost(t, srv, nil)
	second := dialHost(t, srv, nil)
	require.Eventually(t, func() bool { return b.Clients() == 2 }, 2*time.Second, 10*time.Millisecond)

	b.Navigate(context.Background(), "https://example.com")

	for _, conn := range []*websocket.Conn{first, second} {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		var msg Message
		require.NoError(t, conn.ReadJSON(&msg))
		assert.Equal(t, MessageNavigate, msg.Type)
		assert.Equal(t, "https://example.com", msg.Location)
		assert.NotEmpty(t, msg.ID)
	}
}

func TestNavigateWithoutClients(t *testing.T) {
	b, _ := startBridge(t, Config{})

	assert.NotPanics(t, func() {
		b.Navigate(context.Background(), "https://example.com")
	})
	assert.Equal(t, 0, b.Clients())
}

func TestDisconnectUnregisters(t *testing.T) {
	b, srv := startBridge(t, Config{})

	conn := dialHost(t, srv, nil)
	require.Eventually(t, func() bool { return b.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return b.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestOriginPolicy(t *testing.T) {
	b, srv := startBridge(t, Config{AllowedOrigins: []string{"https://host.example"}})
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/host"

	_, resp, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": []string{"https://evil.example"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	_ = resp.Body.Close() // nolint:errcheck

	dialHost(t, srv, http.Header{"Origin": []string{"https://host.example"}})
	require.Eventually(t, func() bool { return b.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestWildcardOrigin(t *testing.T) {
	b, srv := startBridge(t, Config{AllowedOrigins: []string{"*"}})

	dialHost(t, srv, http.Header{"Origin": []string{"https://anything.example"}})
	require.Eventually(t, func() bool { return b.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestHealthAndMetrics(t *testing.T) {
	_, srv := startBridge(t, Config{})

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Contains(t, string(body), "ynhub_host_connected_clients")
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	b := NewBridge(Config{Addr: "127.0.0.1:0"}, logger.Noop(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.ListenAndServe(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("ListenAndServe did not return after cancel")
	}
}

func TestNavigatorFunc(t *testing.T) {
	var got string
	var n Navigator = NavigatorFunc(func(_ context.Context, location string) { got = location })

	n.Navigate(context.Background(), "https://example.com")
	assert.Equal(t, "https://example.com", got)

	LogNavigator{Logger: logger.Noop()}.Navigate(context.Background(), "https://example.com")
}
