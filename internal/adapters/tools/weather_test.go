package tools

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/agent-cli/internal/adapters/outbound"
	"github.com/bnema/agent-cli/internal/domain"
)

func TestWeatherPicksMostPopulatedCandidate(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Springfield", r.URL.Query().Get("name"))
		assert.Equal(t, "5", r.URL.Query().Get("count"))
		_, _ = io.WriteString(w, `{"results":[
			{"name":"Small Springfield","latitude":1.5,"longitude":2.5,"population":100},
			{"name":"Big Springfield","latitude":10.25,"longitude":20.75,"population":5000000},
			{"name":"No Population","latitude":3,"longitude":4}
		]}`)
	})
	mux.HandleFunc("/forecast", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "10.25", r.URL.Query().Get("latitude"))
		assert.Equal(t, "20.75", r.URL.Query().Get("longitude"))
		assert.Equal(t, "true", r.URL.Query().Get("current_weather"))
		_, _ = io.WriteString(w, `{"current_weather":{"temperature":21.5,"windspeed":12.0,"weathercode":3}}`)
	})
	weather := newTestWeather(t, mux)

	got := weather.Run(context.Background(), domain.Execution{}, mustArgs(t, map[string]any{"city": "Springfield"}))

	var payload weatherPayload
	require.NoError(t, json.Unmarshal([]byte(got), &payload), got)
	assert.Equal(t, weatherPayload{
		City:        "Big Springfield",
		TempC:       21.5,
		WindKPH:     12.0,
		WeatherCode: 3,
		Description: "overcast",
	}, payload)
}

func TestWeatherCityNotFound(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{}`)
	})
	weather := newTestWeather(t, mux)

	got := weather.Run(context.Background(), domain.Execution{}, mustArgs(t, map[string]any{"city": "Atlantis"}))
	assert.Equal(t, "City not found: Atlantis", got)
}

func TestWeatherReportsUpstreamErrorsAsText(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	weather := newTestWeather(t, mux)

	got := weather.Run(context.Background(), domain.Execution{}, mustArgs(t, map[string]any{"city": "Berlin"}))
	assert.Contains(t, got, "Geocoding error: status 500")
}

func TestMostPopulatedKeepsFirstOnTie(t *testing.T) {
	t.Parallel()

	best, ok := mostPopulated([]geocodeResult{
		{Name: "first", Population: 10},
		{Name: "second", Population: 10},
	})
	require.True(t, ok)
	assert.Equal(t, "first", best.Name)

	_, ok = mostPopulated(nil)
	assert.False(t, ok)
}

func TestWeatherDescription(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "clear sky", WeatherDescription(0))
	assert.Equal(t, "thunderstorm with hail", WeatherDescription(96))
	assert.Equal(t, "unknown", WeatherDescription(42))
}

func newTestWeather(t *testing.T, handler http.Handler) *Weather {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return &Weather{
		Client:      outbound.NewClient(outbound.Options{}),
		GeocodeURL:  server.URL + "/search",
		ForecastURL: server.URL + "/forecast",
	}
}
