package counters

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jetrotal/YN-HUB/pkg/clock"
	"github.com/jetrotal/YN-HUB/pkg/logger"
	"github.com/jetrotal/YN-HUB/pkg/vfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	counts, err := Parse([]byte(`{"2kki": 12, "yume": 3, "ratio": 1.5, "name": "x", "nested": {"a": 1}, "big": 1e3}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"2kki": 12, "yume": 3, "big": 1000}, counts)
}

func TestParseRejectsNonObjects(t *testing.T) {
	for _, body := range []string{`[1,2]`, `12`, `{"a":`, ``} {
		_, err := Parse([]byte(body))
		assert.ErrorIs(t, err, ErrMalformed, body)
	}
}

func TestHTTPFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = w.Write([]byte(`{"2kki": 7, "flow": 2}`)) // nolint:errcheck
	}))
	defer srv.Close()

	f := &HTTPFetcher{URL: srv.URL, Timeout: time.Second}
	counts, err := f.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"2kki": 7, "flow": 2}, counts)
}

func TestHTTPFetcherStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := (&HTTPFetcher{URL: srv.URL}).Fetch(context.Background())
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
}

func TestHTTPFetcherNoURL(t *testing.T) {
	_, err := (&HTTPFetcher{}).Fetch(context.Background())
	assert.ErrorIs(t, err, ErrNoURL)
}

func TestHTTPFetcherTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	_, err := (&HTTPFetcher{URL: srv.URL, Timeout: 20 * time.Millisecond}).Fetch(context.Background())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestPublishWritesSortedJSON(t *testing.T) {
	mem := vfs.NewMemFS()
	fs := vfs.NewAdapter(mem, vfs.DefaultRoot, logger.Noop())
	f := FetcherFunc(func(context.Context) (map[string]int, error) {
		return map[string]int{"yume": 3, "2kki": 12, "flow": 0}, nil
	})

	p := NewPublisher(Config{}, f, fs, logger.Noop())
	counts, err := p.Publish(context.Background())
	require.NoError(t, err)
	assert.Len(t, counts, 3)

	content, err := fs.ReadFile(DefaultOutputPath)
	require.NoError(t, err)
	assert.Equal(t, `{"2kki":12,"flow":0,"yume":3}`, content)
}

func TestPublishFetchFailureKeepsFile(t *testing.T) {
	fs := vfs.NewAdapter(vfs.NewMemFS(), vfs.DefaultRoot, logger.Noop())
	require.NoError(t, fs.WriteFile(DefaultOutputPath, `{"old":1}`))

	boom := errors.New("boom")
	p := NewPublisher(Config{}, FetcherFunc(func(context.Context) (map[string]int, error) {
		return nil, boom
	}), fs, logger.Noop())

	_, err := p.Publish(context.Background())
	assert.ErrorIs(t, err, boom)

	content, err := fs.ReadFile(DefaultOutputPath)
	require.NoError(t, err)
	assert.Equal(t, `{"old":1}`, content)
}

func TestPublishWriteFailure(t *testing.T) {
	mem := vfs.NewMemFS()
	mem.FailWrite(DefaultOutputPath, errors.New("disk full"))
	fs := vfs.NewAdapter(mem, vfs.DefaultRoot, logger.Noop())

	p := NewPublisher(Config{}, FetcherFunc(func(context.Context) (map[string]int, error) {
		return map[string]int{"a": 1}, nil
	}), fs, logger.Noop())

	_, err := p.Publish(context.Background())
	assert.ErrorIs(t, err, vfs.ErrIO)
}

func TestRunRepublishesOnInterval(t *testing.T) {
	clk := clock.NewManual(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	fs := vfs.NewAdapter(vfs.NewMemFS(), vfs.DefaultRoot, logger.Noop())

	var calls atomic.Int32
	f := FetcherFunc(func(context.Context) (map[string]int, error) {
		n := calls.Add(1)
		if n == 2 {
			return nil, errors.New("transient")
		}
		return map[string]int{"calls": int(n)}, nil
	})

	p := NewPublisher(Config{Interval: time.Minute, Clock: clk}, f, fs, logger.Noop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	waitArmed := func() {
		require.Eventually(t, func() bool { return clk.Pending() == 1 }, 2*time.Second, time.Millisecond)
	}

	waitArmed()
	assert.Equal(t, int32(1), calls.Load())

	clk.Advance(time.Minute)
	waitArmed()
	require.Eventually(t, func() bool { return calls.Load() == 2 }, 2*time.Second, time.Millisecond)

	clk.Advance(time.Minute)
	waitArmed()
	require.Eventually(t, func() bool { return calls.Load() == 3 }, 2*time.Second, time.Millisecond)

	content, err := fs.ReadFile(DefaultOutputPath)
	require.NoError(t, err)
	assert.Equal(t, `{"calls":3}`, content)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Zero(t, clk.Pending())
}
