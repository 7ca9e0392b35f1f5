package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

const webhookTimeout = 5 * time.Second

// NoopSink discards records. Default when no audit store is configured.
type NoopSink struct{}

func (NoopSink) Deliver(ctx context.Context, r Record) error { return nil }

// RedisSink appends records to a Redis stream via XADD.
type RedisSink struct {
	client *redis.Client
	stream string
}

// NewRedisSink creates a sink writing to the given stream.
func NewRedisSink(client *redis.Client, stream string) *RedisSink {
	return &RedisSink{client: client, stream: stream}
}

func (s *RedisSink) Deliver(ctx context.Context, r Record) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling audit record: %w", err)
	}
	err = s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]interface{}{
			"data":     string(data),
			"event_id": r.Event.ID,
			"mode":     string(r.Event.Mode),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("xadd %s: %w", s.stream, err)
	}
	return nil
}

// WebhookSink POSTs records as JSON to a remote endpoint.
type WebhookSink struct {
	client *http.Client
	url    string
}

// NewWebhookSink creates a sink posting to url.
func NewWebhookSink(url string) *WebhookSink {
	return &WebhookSink{
		client: &http.Client{Timeout: webhookTimeout},
		url:    url,
	}
}

func (s *WebhookSink) Deliver(ctx context.Context, r Record) error {
	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling audit record: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("building audit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting audit record: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("audit endpoint returned %d", resp.StatusCode)
	}
	return nil
}
