package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/maddiralayashwanth5/filmgrid-admin-sub001/internal/notification"
)

// HTTPGateway talks to the delivery service's send endpoint. The service
// resolves the audience to device tokens and fans out; one call here is one
// dispatch.
type HTTPGateway struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPGateway builds a gateway client for baseURL. The passed client
// controls transport-level timeouts; per-dispatch deadlines come from ctx.
func NewHTTPGateway(baseURL, apiKey string, client *http.Client) *HTTPGateway {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPGateway{baseURL: baseURL, apiKey: apiKey, client: client}
}

type sendRequest struct {
	Target string `json:"target"`
	Topic  string `json:"topic,omitempty"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

type sendResponse struct {
	Success int `json:"success"`
	Failed  int `json:"failed"`
}

func (g *HTTPGateway) Send(ctx context.Context, audience notification.Audience, title, body string) (notification.Tally, error) {
	payload, err := json.Marshal(sendRequest{
		Target: string(audience.Type),
		Topic:  audience.Topic,
		Title:  title,
		Body:   body,
	})
	if err != nil {
		return notification.Tally{}, fmt.Errorf("marshal send request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/send", bytes.NewReader(payload))
	if err != nil {
		return notification.Tally{}, fmt.Errorf("build send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return notification.Tally{}, fmt.Errorf("call delivery gateway: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return notification.Tally{}, fmt.Errorf("delivery gateway rejected credentials: %s", resp.Status)
	default:
		return notification.Tally{}, fmt.Errorf("delivery gateway returned %s", resp.Status)
	}

	var result sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return notification.Tally{}, fmt.Errorf("decode gateway response: %w", err)
	}
	if result.Success < 0 || result.Failed < 0 {
		return notification.Tally{}, fmt.Errorf("gateway reported negative tally (%d/%d)", result.Success, result.Failed)
	}

	return notification.Tally{Success: result.Success, Failed: result.Failed}, nil
}
