package openweather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/agromitra/advisory-engine/internal/domain/weather"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5"

// Client fetches current conditions, forecasts and alerts from OpenWeatherMap.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient builds an API client. An empty API key is allowed; calls will
// fail fast so the weather service can fall back to synthetic data.
func NewClient(apiKey, baseURL string, timeout time.Duration) *Client {
	base := strings.TrimSpace(baseURL)
	if base == "" {
		base = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		apiKey:  strings.TrimSpace(apiKey),
		baseURL: strings.TrimRight(base, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

var errNoAPIKey = errors.New("openweathermap api key not configured")

// CurrentWeather implements weather.Provider.
func (c *Client) CurrentWeather(ctx context.Context, coords weather.Coordinates) (weather.Snapshot, error) {
	if c.apiKey == "" {
		return weather.Snapshot{}, errNoAPIKey
	}

	var raw currentResponse
	if err := c.getJSON(ctx, c.endpoint("/weather", coords, nil), &raw); err != nil {
		return weather.Snapshot{}, err
	}

	condition := ""
	description := ""
	if len(raw.Weather) > 0 {
		condition = raw.Weather[0].Main
		description = raw.Weather[0].Description
	}

	return weather.Snapshot{
		TemperatureC: raw.Main.Temp,
		HumidityPct:  raw.Main.Humidity,
		RainfallMm:   raw.Rain.amount(),
		Condition:    condition,
		Description:  description,
		LocationName: raw.Name,
		CountryCode:  raw.Sys.Country,
		CapturedAt:   time.Unix(raw.Dt, 0).UTC(),
	}, nil
}

// Forecast implements weather.Provider. The 3-hourly forecast list is
// folded into chronological daily entries; alerts come from the One Call
// endpoint and are tolerated as empty when that call fails.
func (c *Client) Forecast(ctx context.Context, coords weather.Coordinates) (weather.Forecast, []weather.ProviderAlert, error) {
	if c.apiKey == "" {
		return weather.Forecast{}, nil, errNoAPIKey
	}

	var raw forecastResponse
	query := url.Values{"cnt": {"40"}}
	if err := c.getJSON(ctx, c.endpoint("/forecast", coords, query), &raw); err != nil {
		return weather.Forecast{}, nil, err
	}

	fc := weather.Forecast{
		LocationName: raw.City.Name,
		CountryCode:  raw.City.Country,
		Days:         foldDaily(raw.List),
	}

	alerts, err := c.alerts(ctx, coords)
	if err != nil {
		// The dedicated alert endpoint is optional on many plans; the
		// analyzer will augment an empty list with seasonal advisories.
		alerts = nil
	}
	return fc, alerts, nil
}

func (c *Client) alerts(ctx context.Context, coords weather.Coordinates) ([]weather.ProviderAlert, error) {
	query := url.Values{"exclude": {"current,minutely,hourly,daily"}}
	var raw oneCallResponse
	if err := c.getJSON(ctx, c.endpoint("/onecall", coords, query), &raw); err != nil {
		return nil, err
	}

	alerts := make([]weather.ProviderAlert, 0, len(raw.Alerts))
	for _, a := range raw.Alerts {
		category := ""
		if len(a.Tags) > 0 {
			category = a.Tags[0]
		}
		alerts = append(alerts, weather.ProviderAlert{
			Event:       a.Event,
			Description: a.Description,
			Severity:    a.Severity,
			Urgency:     a.Urgency,
			Category:    category,
			EffectiveAt: time.Unix(a.Start, 0).UTC(),
			ExpiresAt:   time.Unix(a.End, 0).UTC(),
		})
	}
	return alerts, nil
}

func (c *Client) endpoint(path string, coords weather.Coordinates, extra url.Values) string {
	query := url.Values{
		"lat":   {fmt.Sprintf("%f", coords.Latitude)},
		"lon":   {fmt.Sprintf("%f", coords.Longitude)},
		"appid": {c.apiKey},
		"units": {"metric"},
	}
	for key, values := range extra {
		for _, v := range values {
			query.Add(key, v)
		}
	}
	return c.baseURL + path + "?" + query.Encode()
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build weather request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("weather request error: status=%d body=%s", resp.StatusCode, string(payload))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode weather response: %w", err)
	}
	return nil
}

type rainVolume struct {
	OneHour   float64 `json:"1h"`
	ThreeHour float64 `json:"3h"`
}

func (r rainVolume) amount() float64 {
	if r.OneHour > 0 {
		return r.OneHour
	}
	return r.ThreeHour
}

type conditionEntry struct {
	Main        string `json:"main"`
	Description string `json:"description"`
}

type currentResponse struct {
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Rain    rainVolume       `json:"rain"`
	Weather []conditionEntry `json:"weather"`
	Name    string           `json:"name"`
	Sys     struct {
		Country string `json:"country"`
	} `json:"sys"`
	Dt int64 `json:"dt"`
}

type forecastEntry struct {
	DtTxt string `json:"dt_txt"`
	Main  struct {
		Temp     float64 `json:"temp"`
		TempMin  float64 `json:"temp_min"`
		TempMax  float64 `json:"temp_max"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Rain    rainVolume       `json:"rain"`
	Weather []conditionEntry `json:"weather"`
}

type forecastResponse struct {
	List []forecastEntry `json:"list"`
	City struct {
		Name    string `json:"name"`
		Country string `json:"country"`
	} `json:"city"`
}

type oneCallResponse struct {
	Alerts []struct {
		Event       string   `json:"event"`
		Description string   `json:"description"`
		Severity    string   `json:"severity"`
		Urgency     string   `json:"urgency"`
		Start       int64    `json:"start"`
		End         int64    `json:"end"`
		Tags        []string `json:"tags"`
	} `json:"alerts"`
}

// foldDaily collapses 3-hourly forecast entries into one entry per date,
// chronological and without duplicate dates.
func foldDaily(entries []forecastEntry) []weather.ForecastDay {
	type bucket struct {
		tempSum, humiditySum, rain float64
		minTemp, maxTemp           float64
		count                      int
		condition                  string
	}
	buckets := make(map[string]*bucket)
	order := make([]string, 0, 8)

	for _, entry := range entries {
		date := entry.DtTxt
		if len(date) >= 10 {
			date = date[:10]
		}
		b, ok := buckets[date]
		if !ok {
			b = &bucket{minTemp: entry.Main.TempMin, maxTemp: entry.Main.TempMax}
			buckets[date] = b
			order = append(order, date)
		}
		b.tempSum += entry.Main.Temp
		b.humiditySum += entry.Main.Humidity
		b.rain += entry.Rain.amount()
		b.count++
		if entry.Main.TempMin < b.minTemp {
			b.minTemp = entry.Main.TempMin
		}
		if entry.Main.TempMax > b.maxTemp {
			b.maxTemp = entry.Main.TempMax
		}
		// Prefer the midday condition as the day's label.
		if b.condition == "" || strings.Contains(entry.DtTxt, "12:00") {
			if len(entry.Weather) > 0 {
				b.condition = entry.Weather[0].Main
			}
		}
	}

	sort.Strings(order)
	days := make([]weather.ForecastDay, 0, len(order))
	for _, date := range order {
		b := buckets[date]
		if b.count == 0 {
			continue
		}
		days = append(days, weather.ForecastDay{
			Date:         date,
			TemperatureC: b.tempSum / float64(b.count),
			HumidityPct:  b.humiditySum / float64(b.count),
			RainfallMm:   b.rain,
			MinTempC:     b.minTemp,
			MaxTempC:     b.maxTemp,
			Condition:    b.condition,
		})
	}
	return days
}
