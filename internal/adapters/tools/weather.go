package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/bnema/agent-cli/internal/adapters/outbound"
	"github.com/bnema/agent-cli/internal/domain"
)

const (
	DefaultGeocodeURL  = "https://geocoding-api.open-meteo.com/v1/search"
	DefaultForecastURL = "https://api.open-meteo.com/v1/forecast"
)

var weatherDescriptions = map[int]string{
	0:  "clear sky",
	1:  "mainly clear",
	2:  "partly cloudy",
	3:  "overcast",
	45: "fog",
	48: "depositing rime fog",
	51: "drizzle",
	53: "drizzle",
	55: "drizzle",
	61: "rain",
	63: "rain",
	65: "heavy rain",
	71: "snow",
	73: "snow",
	75: "snow",
	77: "snow grains",
	80: "rain showers",
	81: "rain showers",
	82: "rain showers",
	85: "snow showers",
	86: "snow showers",
	95: "thunderstorm",
	96: "thunderstorm with hail",
}

// Weather looks a city up on Open-Meteo and reports its current weather.
// Among several matches the most populated wins.
type Weather struct {
	Client      *outbound.Client
	GeocodeURL  string
	ForecastURL string
}

type weatherArgs struct {
	City string `json:"city"`
}

type geocodeResponse struct {
	Results []geocodeResult `json:"results"`
}

type geocodeResult struct {
	Name       string  `json:"name"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	Population int64   `json:"population"`
}

type forecastResponse struct {
	CurrentWeather struct {
		Temperature float64 `json:"temperature"`
		WindSpeed   float64 `json:"windspeed"`
		WeatherCode int     `json:"weathercode"`
	} `json:"current_weather"`
}

type weatherPayload struct {
	City        string  `json:"city"`
	TempC       float64 `json:"temp_c"`
	WindKPH     float64 `json:"wind_kph"`
	WeatherCode int     `json:"weather_code"`
	Description string  `json:"description"`
}

func (w *Weather) Tool() Tool {
	return Tool{
		Name:        "get_weather",
		Description: "Get the current weather for a city via Open-Meteo. When several cities match, the most populated one is used.",
		Parameters: objectSchema([]string{"city"}, map[string]any{
			"city": stringProperty("City name, for example: Berlin"),
		}),
		Handler: w.Run,
	}
}

func (w *Weather) Run(ctx context.Context, _ domain.Execution, raw json.RawMessage) string {
	var args weatherArgs
	if msg, ok := decodeArgs(raw, &args); !ok {
		return msg
	}
	city := strings.TrimSpace(args.City)
	if city == "" {
		return "Error: city is required."
	}

	var geocode geocodeResponse
	query := url.Values{
		"name":     {city},
		"count":    {"5"},
		"language": {"en"},
		"format":   {"json"},
	}
	if err := w.Client.GetJSON(ctx, orDefault(w.GeocodeURL, DefaultGeocodeURL), query, &geocode); err != nil {
		return fmt.Sprintf("Geocoding error: %v", err)
	}

	best, ok := mostPopulated(geocode.Results)
	if !ok {
		return fmt.Sprintf("City not found: %s", city)
	}

	var forecast forecastResponse
	query = url.Values{
		"latitude":        {strconv.FormatFloat(best.Latitude, 'f', -1, 64)},
		"longitude":       {strconv.FormatFloat(best.Longitude, 'f', -1, 64)},
		"current_weather": {"true"},
	}
	if err := w.Client.GetJSON(ctx, orDefault(w.ForecastURL, DefaultForecastURL), query, &forecast); err != nil {
		return fmt.Sprintf("Forecast error: %v", err)
	}

	name := best.Name
	if name == "" {
		name = city
	}

	current := forecast.CurrentWeather
	return encodeJSON(weatherPayload{
		City:        name,
		TempC:       current.Temperature,
		WindKPH:     current.WindSpeed,
		WeatherCode: current.WeatherCode,
		Description: WeatherDescription(current.WeatherCode),
	})
}

// mostPopulated returns the candidate with the highest population. Ties
// keep the earlier candidate.
func mostPopulated(results []geocodeResult) (geocodeResult, bool) {
	if len(results) == 0 {
		return geocodeResult{}, false
	}

	best := results[0]
	for _, candidate := range results[1:] {
		if candidate.Population > best.Population {
			best = candidate
		}
	}
	return best, true
}

func WeatherDescription(code int) string {
	if description, ok := weatherDescriptions[code]; ok {
		return description
	}
	return "unknown"
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
