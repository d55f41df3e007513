package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"agrisense/internal/models"
)

const (
	DefaultBaseURL = "https://api.openweathermap.org/data/2.5"
	DefaultLat     = 28.6139
	DefaultLon     = 77.2090

	maxDays         = 5
	dateLabelLayout = "Mon, Jan 2"
	dayKeyLayout    = "2006-01-02"
)

var (
	// ErrMissingAPIKey is returned before any request when no key is configured.
	ErrMissingAPIKey = errors.New("weather API key not configured")
	// ErrFetchFailed wraps non-2xx responses.
	ErrFetchFailed = errors.New("failed to fetch weather data")
)

type Config struct {
	BaseURL  string
	APIKey   string
	Lat      float64
	Lon      float64
	Timeout  time.Duration
	Location *time.Location // calendar used to group slots; defaults to time.Local
}

// Client fetches the OpenWeatherMap 5 day / 3 hour forecast.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Slot is one 3-hour forecast entry as returned by the API.
type Slot struct {
	Dt   int64 `json:"dt"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Rain *struct {
		ThreeHour float64 `json:"3h"`
	} `json:"rain,omitempty"`
}

type forecastResponse struct {
	List []Slot `json:"list"`
}

// FiveDayForecast fetches the forecast and reduces it to at most five days.
func (c *Client) FiveDayForecast(ctx context.Context) ([]models.WeatherDayForecast, error) {
	if c.cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(c.cfg.Lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(c.cfg.Lon, 'f', -1, 64))
	q.Set("units", "metric")
	q.Set("appid", c.cfg.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/forecast?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", ErrFetchFailed, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var fr forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&fr); err != nil {
		return nil, fmt.Errorf("decode forecast: %w", err)
	}
	return ReduceDaily(fr.List, c.cfg.Location), nil
}

// ReduceDaily keeps the first slot of each distinct calendar date in input
// order, up to five days.
func ReduceDaily(slots []Slot, loc *time.Location) []models.WeatherDayForecast {
	if loc == nil {
		loc = time.Local
	}
	out := make([]models.WeatherDayForecast, 0, maxDays)
	seen := make(map[string]struct{}, maxDays)
	for _, s := range slots {
		if len(out) == maxDays {
			break
		}
		t := time.Unix(s.Dt, 0).In(loc)
		key := t.Format(dayKeyLayout)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		day := models.WeatherDayForecast{
			Date:     t.Format(dateLabelLayout),
			Temp:     roundHalfUp(s.Main.Temp),
			Humidity: s.Main.Humidity,
		}
		if len(s.Weather) > 0 {
			day.Description = s.Weather[0].Description
			day.Icon = s.Weather[0].Icon
		}
		if s.Rain != nil {
			day.Rainfall = s.Rain.ThreeHour
		}
		out = append(out, day)
	}
	return out
}

// roundHalfUp rounds .5 towards positive infinity.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
