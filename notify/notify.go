// Package notify delivers pickup events to the external function endpoint.
// Delivery is at-most-once: callers fire it after the lifecycle transition
// has committed and only log failures.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// PickupEvent is the fixed JSON payload posted on pickup completion.
type PickupEvent struct {
	ReservationID string `json:"reservation_id"`
	UserID        string `json:"user_id"`
	UserEmail     string `json:"user_email"`
	UserName      string `json:"user_name"`
	ItemName      string `json:"item_name"`
	ItemType      string `json:"item_type"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	Reason        string `json:"reason"`
	PickupDate    string `json:"pickup_date"`
}

type Client struct {
	url    string
	token  string
	client *http.Client
}

func NewClient(url, token string) *Client {
	return &Client{
		url:    url,
		token:  token,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Enabled reports whether an endpoint is configured. An unconfigured client
// turns every send into a no-op instead of an error.
func (c *Client) Enabled() bool { return c.url != "" }

func (c *Client) NotifyPickup(ctx context.Context, ev PickupEvent) error {
	if !c.Enabled() {
		return nil
	}
	b, _ := json.Marshal(ev)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("pickup notification failed: %s", resp.Status)
	}
	return nil
}
