package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

const owmBody = `{
	"main": {"temp": 12.5, "humidity": 80},
	"weather": [{"description": "light rain"}]
}`

func TestWeatherCurrent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("appid") != "k" {
			t.Errorf("missing api key, query: %s", r.URL.RawQuery)
		}
		if r.URL.Query().Get("units") != "metric" {
			t.Errorf("expected metric units, query: %s", r.URL.RawQuery)
		}
		w.Write([]byte(owmBody))
	}))
	defer srv.Close()

	c := NewWeatherClient("k")
	c.baseURL = srv.URL

	got := c.Current(context.Background(), 51.5, -0.12)
	if !got.Available {
		t.Fatal("expected available report")
	}
	if got.TempC != 12.5 {
		t.Errorf("TempC = %v, want 12.5", got.TempC)
	}
	if got.Humidity != 80 {
		t.Errorf("Humidity = %d, want 80", got.Humidity)
	}
	if got.Description != "light rain" {
		t.Errorf("Description = %q", got.Description)
	}
	if got.RainPct != 100 {
		t.Errorf("RainPct = %d, want 100 for a rainy description", got.RainPct)
	}
}

func TestWeatherRainHeuristic(t *testing.T) {
	cases := []struct {
		desc string
		want int
	}{
		{"light rain", 100},
		{"Rain showers", 100},
		{"clear sky", 0},
		{"overcast clouds", 0},
		{"drizzle", 0}, // substring match only, not a forecast
	}
	for _, tc := range cases {
		if got := rainChance(tc.desc); got != tc.want {
			t.Errorf("rainChance(%q) = %d, want %d", tc.desc, got, tc.want)
		}
	}
}

func TestWeatherRetriesThenUnavailable(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewWeatherClient("k")
	c.baseURL = srv.URL

	got := c.Current(context.Background(), 51.5, -0.12)
	if got.Available {
		t.Fatal("expected unavailable report")
	}
	if got.Description != "Unable to fetch weather data" {
		t.Errorf("Description = %q, want fallback wording", got.Description)
	}
	if n := calls.Load(); n != 3 {
		t.Errorf("expected 3 attempts, got %d", n)
	}
}

func TestWeatherRecoversMidRetry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(owmBody))
	}))
	defer srv.Close()

	c := NewWeatherClient("k")
	c.baseURL = srv.URL

	got := c.Current(context.Background(), 51.5, -0.12)
	if !got.Available {
		t.Fatal("expected the third attempt to succeed")
	}
	if n := calls.Load(); n != 3 {
		t.Errorf("expected 3 attempts, got %d", n)
	}
}
