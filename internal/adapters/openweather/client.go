// Package openweather fetches forecasts from the OpenWeatherMap API.
package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/Hudson-River-Paddlers/kayak-bot/internal/domain"
)

const DefaultBaseURL = "https://api.openweathermap.org/data/2.5"

// Client implements conditions.WeatherProvider against the current
// weather and 5-day forecast endpoints.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func NewClient(apiKey, baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{apiKey: apiKey, baseURL: baseURL, http: httpClient}
}

type conditionsPayload struct {
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
		Deg   float64 `json:"deg"`
	} `json:"wind"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Visibility int `json:"visibility"`
}

type forecastPayload struct {
	List []struct {
		DT   int64 `json:"dt"`
		Main struct {
			Temp float64 `json:"temp"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
			Deg   float64 `json:"deg"`
		} `json:"wind"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
		Rain struct {
			ThreeHour float64 `json:"3h"`
		} `json:"rain"`
	} `json:"list"`
}

// Forecast returns current conditions plus the 3-hour forecast
// intervals falling on the target date.
func (c *Client) Forecast(ctx context.Context, lat, lon float64, date time.Time) (domain.Forecast, error) {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%.4f", lat))
	q.Set("lon", fmt.Sprintf("%.4f", lon))
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")

	var current conditionsPayload
	if err := c.getJSON(ctx, c.baseURL+"/weather?"+q.Encode(), &current); err != nil {
		return domain.Forecast{}, fmt.Errorf("fetching current weather: %w", err)
	}
	var forecast forecastPayload
	if err := c.getJSON(ctx, c.baseURL+"/forecast?"+q.Encode(), &forecast); err != nil {
		return domain.Forecast{}, fmt.Errorf("fetching forecast: %w", err)
	}

	out := domain.Forecast{
		Current: domain.ConditionsSnapshot{
			TempC:            int(math.Round(current.Main.Temp)),
			FeelsLikeC:       int(math.Round(current.Main.FeelsLike)),
			Humidity:         current.Main.Humidity,
			WindSpeedMS:      current.Wind.Speed,
			WindDirectionDeg: current.Wind.Deg,
			VisibilityM:      current.Visibility,
		},
	}
	if len(current.Weather) > 0 {
		out.Current.Description = current.Weather[0].Description
	}

	y, m, d := date.UTC().Date()
	for _, item := range forecast.List {
		at := time.Unix(item.DT, 0).UTC()
		iy, im, id := at.Date()
		if iy != y || im != m || id != d {
			continue
		}
		iv := domain.ForecastInterval{
			Time:             at,
			TempC:            int(math.Round(item.Main.Temp)),
			WindSpeedMS:      item.Wind.Speed,
			WindDirectionDeg: item.Wind.Deg,
			PrecipitationMM:  item.Rain.ThreeHour,
		}
		if len(item.Weather) > 0 {
			iv.Description = item.Weather[0].Description
		}
		out.Intervals = append(out.Intervals, iv)
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}
