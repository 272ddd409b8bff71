package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	heapIdentifyURL = "https://heapanalytics.com/api/identify"
	heapTrackURL    = "https://heapanalytics.com/api/track"
)

// Heap sends identity and event data to Heap Analytics over its server-side
// HTTP API.
type Heap struct {
	appID  string
	apiKey string
	client *http.Client

	// baseIdentifyURL/baseTrackURL are overridable for tests.
	baseIdentifyURL string
	baseTrackURL    string
}

func NewHeap(appID, apiKey string) *Heap {
	return &Heap{
		appID:           appID,
		apiKey:          apiKey,
		client:          &http.Client{Timeout: 10 * time.Second},
		baseIdentifyURL: heapIdentifyURL,
		baseTrackURL:    heapTrackURL,
	}
}

type heapIdentifyRequest struct {
	AppID      string     `json:"app_id"`
	Identity   string     `json:"identity"`
	Properties Properties `json:"properties,omitempty"`
	Timestamp  int64      `json:"timestamp,omitempty"`
}

type heapTrackEvent struct {
	Identity   string     `json:"identity"`
	Event      string     `json:"event"`
	Properties Properties `json:"properties,omitempty"`
	Timestamp  int64      `json:"timestamp,omitempty"`
}

type heapTrackRequest struct {
	AppID  string           `json:"app_id"`
	Events []heapTrackEvent `json:"events"`
}

func (h *Heap) Identify(ctx context.Context, identity string, props Properties) error {
	body := heapIdentifyRequest{
		AppID:      h.appID,
		Identity:   identity,
		Properties: props,
		Timestamp:  time.Now().UnixMilli(),
	}
	return h.post(ctx, h.baseIdentifyURL, body)
}

func (h *Heap) Track(ctx context.Context, identity string, event string, props Properties) error {
	body := heapTrackRequest{
		AppID: h.appID,
		Events: []heapTrackEvent{
			{Identity: identity, Event: event, Properties: props, Timestamp: time.Now().UnixMilli()},
		},
	}
	return h.post(ctx, h.baseTrackURL, body)
}

func (h *Heap) post(ctx context.Context, url string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal heap request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create heap request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+h.apiKey)

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("send heap request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("heap api returned status %d", resp.StatusCode)
	}
	return nil
}
