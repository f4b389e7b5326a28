// Package breakout provides a small Go client for the breakout-finder
// daemon API.
package breakout

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Client talks to a running breakout-finder daemon.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the daemon at baseURL, e.g.
// "http://localhost:8080".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Breakout is one recent-breakout signal as reported by the API.
type Breakout struct {
	Company  string  `json:"company"`
	ScanDate string  `json:"scanDate"`
	BarDate  string  `json:"barDate"`
	Close    float64 `json:"close"`
	Volume   float64 `json:"volume"`
	RSI14    float64 `json:"rsi14"`
}

// Bar is one daily bar as reported by the API.
type Bar struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// GetBreakouts retrieves the most recent breakout signals, up to limit.
func (c *Client) GetBreakouts(ctx context.Context, limit int) ([]Breakout, error) {
	u := fmt.Sprintf("%s/api/breakouts?limit=%d", c.baseURL, limit)
	var resp struct {
		Breakouts []Breakout `json:"breakouts"`
	}
	if err := c.getJSON(ctx, u, &resp); err != nil {
		return nil, err
	}
	return resp.Breakouts, nil
}

// GetBars retrieves the last n stored bars for a symbol.
func (c *Client) GetBars(ctx context.Context, symbol string, n int) ([]Bar, error) {
	u := fmt.Sprintf("%s/api/bars/%s?last=%d", c.baseURL, url.PathEscape(symbol), n)
	var resp struct {
		Bars []Bar `json:"bars"`
	}
	if err := c.getJSON(ctx, u, &resp); err != nil {
		return nil, err
	}
	return resp.Bars, nil
}

func (c *Client) getJSON(ctx context.Context, u string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: status %d", u, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding response from %s: %w", u, err)
	}
	return nil
}
