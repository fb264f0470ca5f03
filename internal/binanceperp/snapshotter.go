package binanceperp

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/BullionBear/depthbook/internal/orderbook"
)

// Snapshotter fetches a REST depth snapshot for a symbol. It is stateless
// and safe for concurrent use. It performs no retry or backoff of its own;
// that policy belongs to the caller.
type Snapshotter struct {
	baseURL    string
	httpClient *http.Client
}

// NewSnapshotter returns a Snapshotter against baseURL (MainnetBaseURL for
// production). A nil client defaults to http.DefaultClient.
func NewSnapshotter(baseURL string, client *http.Client) *Snapshotter {
	if client == nil {
		client = http.DefaultClient
	}
	return &Snapshotter{baseURL: strings.TrimRight(baseURL, "/"), httpClient: client}
}

// Fetch performs one GET against the venue depth endpoint and returns the
// parsed Snapshot. Non-2xx responses are returned as retriable errors; the
// caller decides whether and when to retry.
func (s *Snapshotter) Fetch(symbol string, limit int) (orderbook.Snapshot, error) {
	q := url.Values{}
	q.Set("symbol", strings.ToUpper(symbol))
	q.Set("limit", strconv.Itoa(limit))
	endpoint := s.baseURL + PathDepth + "?" + q.Encode()

	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return orderbook.Snapshot{}, fmt.Errorf("build snapshot request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return orderbook.Snapshot{}, fmt.Errorf("snapshot request for %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return orderbook.Snapshot{}, fmt.Errorf("read snapshot body for %s: %w", symbol, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return orderbook.Snapshot{}, fmt.Errorf("snapshot http error for %s: status %d: %s", symbol, resp.StatusCode, string(body))
	}

	var raw restDepthSnapshot
	if err := json.Unmarshal(body, &raw); err != nil {
		return orderbook.Snapshot{}, fmt.Errorf("decode snapshot for %s: %w", symbol, err)
	}
	return toSnapshot(raw)
}
