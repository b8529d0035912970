package providers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"
)

const defaultTravelURL = "https://www.mapquestapi.com/directions/v2/route"

// TravelEstimate is a predicted drive duration in whole minutes.
// Available is false when every fetch attempt failed.
type TravelEstimate struct {
	Minutes   int
	Available bool
}

// Unavailable reports whether the estimate was degraded.
func (e TravelEstimate) Unavailable() bool { return !e.Available }

// TravelClient fetches route durations from the MapQuest Directions API.
type TravelClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewTravelClient creates a client with the production endpoint.
func NewTravelClient(apiKey string) *TravelClient {
	return &TravelClient{
		apiKey:  apiKey,
		baseURL: defaultTravelURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// TravelTime returns the predicted duration for a trip from origin to
// destination departing at departAt (zero means now; the provider
// predicts from live conditions either way). Up to three attempts; on
// exhaustion the estimate is marked unavailable rather than returning an
// error.
func (c *TravelClient) TravelTime(ctx context.Context, origin, destination string, departAt time.Time) TravelEstimate {
	minutes, ok := withRetry("travel", func() (int, error) {
		return c.fetch(ctx, origin, destination)
	})
	if !ok {
		return TravelEstimate{}
	}
	return TravelEstimate{Minutes: minutes, Available: true}
}

func (c *TravelClient) fetch(ctx context.Context, origin, destination string) (int, error) {
	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("from", origin)
	q.Set("to", destination)
	q.Set("outFormat", "json")
	q.Set("ambiguities", "ignore")
	q.Set("routeType", "fastest")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("route request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("route API error %d: %s", resp.StatusCode, body)
	}

	if code := gjson.GetBytes(body, "info.statuscode").Int(); code != 0 {
		return 0, fmt.Errorf("route API statuscode %d", code)
	}

	// Route time comes back in seconds.
	seconds := gjson.GetBytes(body, "route.time").Int()
	return int(seconds / 60), nil
}
