package providers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const defaultWeatherURL = "http://api.openweathermap.org/data/2.5/weather"

// WeatherReport holds current conditions at a commute endpoint.
// Available is false when every fetch attempt failed; the numeric fields
// are then meaningless and Description carries the fallback wording.
type WeatherReport struct {
	TempC       float64
	Humidity    int
	RainPct     int
	Description string
	Available   bool
}

// Unavailable reports whether the fetch was degraded.
func (r WeatherReport) Unavailable() bool { return !r.Available }

// WeatherClient fetches current conditions from OpenWeatherMap.
type WeatherClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewWeatherClient creates a client with the production endpoint.
func NewWeatherClient(apiKey string) *WeatherClient {
	return &WeatherClient{
		apiKey:  apiKey,
		baseURL: defaultWeatherURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Current returns conditions at (lat, lon). Up to three attempts; on
// exhaustion the report is marked unavailable rather than returning an
// error, since a notification must still go out without it.
func (c *WeatherClient) Current(ctx context.Context, lat, lon float64) WeatherReport {
	report, ok := withRetry("weather", func() (WeatherReport, error) {
		return c.fetch(ctx, lat, lon)
	})
	if !ok {
		return WeatherReport{Description: "Unable to fetch weather data"}
	}
	return report
}

func (c *WeatherClient) fetch(ctx context.Context, lat, lon float64) (WeatherReport, error) {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%g", lat))
	q.Set("lon", fmt.Sprintf("%g", lon))
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return WeatherReport{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return WeatherReport{}, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return WeatherReport{}, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return WeatherReport{}, fmt.Errorf("weather API error %d: %s", resp.StatusCode, body)
	}

	desc := gjson.GetBytes(body, "weather.0.description").String()
	return WeatherReport{
		TempC:       gjson.GetBytes(body, "main.temp").Float(),
		Humidity:    int(gjson.GetBytes(body, "main.humidity").Int()),
		RainPct:     rainChance(desc),
		Description: desc,
		Available:   true,
	}, nil
}

// rainChance maps the condition text to a coarse 100/0 substring
// indicator, not a probability.
func rainChance(description string) int {
	if strings.Contains(strings.ToLower(description), "rain") {
		return 100
	}
	return 0
}
