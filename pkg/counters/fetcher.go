package counters

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
)

// maxResponseSize bounds the counters response body.
const maxResponseSize = 1 << 20

// HTTPFetcher reads counters from a JSON object served over HTTP. Values
// that are not integral numbers are skipped.
type HTTPFetcher struct {
	URL     string
	Client  *http.Client
	Timeout time.Duration
}

// Fetch performs one GET request.
func (f *HTTPFetcher) Fetch(ctx context.Context) (map[string]int, error) {
	if f.URL == "" {
		return nil, ErrNoURL
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	if f.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build counters request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch counters: %w", err)
	}
	defer resp.Body.Close() // nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: f.URL, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read counters response: %w", err)
	}

	return Parse(body)
}

// Parse extracts integral counters from a JSON object.
func Parse(body []byte) (map[string]int, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: invalid json", ErrMalformed)
	}
	result := gjson.ParseBytes(body)
	if !result.IsObject() {
		return nil, fmt.Errorf("%w: expected object, got %s", ErrMalformed, result.Type)
	}

	counts := make(map[string]int)
	result.ForEach(func(key, value gjson.Result) bool {
		if value.Type == gjson.Number && value.Num == math.Trunc(value.Num) {
			counts[key.String()] = int(value.Int())
		}
		return true
	})
	return counts, nil
}
