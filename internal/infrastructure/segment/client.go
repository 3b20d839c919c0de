package segment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"course-nudge/internal/ports"
)

// Client delivers track calls to the Segment HTTP API.
type Client struct {
	endpoint string
	writeKey string
	http     *http.Client
}

var _ ports.EventSink = (*Client)(nil)

// NewClient registers the write key and endpoint for track calls.
func NewClient(endpoint, writeKey string) *Client {
	return &Client{
		endpoint: endpoint,
		writeKey: writeKey,
		http:     &http.Client{Timeout: 10 * time.Second},
	}
}

// Track posts one analytics event. Delivery is fire-and-forget: a 2xx from
// the ingestion endpoint is the only confirmation awaited.
func (c *Client) Track(ctx context.Context, userID int64, event string, properties map[string]string) error {
	if c.writeKey == "" || c.endpoint == "" {
		return fmt.Errorf("segment client misconfigured")
	}

	body, err := json.Marshal(map[string]any{
		"userId":     strconv.FormatInt(userID, 10),
		"event":      event,
		"properties": properties,
	})
	if err != nil {
		return fmt.Errorf("marshal track payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.SetBasicAuth(c.writeKey, "")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send track: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("segment error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	return nil
}
