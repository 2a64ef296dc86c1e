// Package noaa fetches tide and current predictions from the NOAA
// CO-OPS data API and selects the stations nearest a launch site.
package noaa

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Hudson-River-Paddlers/kayak-bot/internal/domain"
)

const DefaultBaseURL = "https://api.tidesandcurrents.noaa.gov/api/prod/datagetter"

const predictionTimeLayout = "2006-01-02 15:04"

// Client implements conditions.TideProvider and
// conditions.CurrentProvider against the datagetter endpoint.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: baseURL, http: httpClient}
}

type tidePayload struct {
	Predictions []struct {
		T    string `json:"t"`
		V    string `json:"v"`
		Type string `json:"type"`
	} `json:"predictions"`
}

// Tides returns high/low predictions for the station covering the
// given date.
func (c *Client) Tides(ctx context.Context, stationID string, date time.Time) ([]domain.TidePrediction, error) {
	q := url.Values{}
	q.Set("product", "predictions")
	q.Set("application", "NOS.COOPS.TAC.WL")
	q.Set("begin_date", date.Format("20060102"))
	q.Set("end_date", date.AddDate(0, 0, 1).Format("20060102"))
	q.Set("station", stationID)
	q.Set("time_zone", "lst_ldt")
	q.Set("units", "english")
	q.Set("interval", "hilo")
	q.Set("format", "json")

	var payload tidePayload
	if err := c.getJSON(ctx, q, &payload); err != nil {
		return nil, fmt.Errorf("fetching tide predictions: %w", err)
	}

	out := make([]domain.TidePrediction, 0, len(payload.Predictions))
	for _, p := range payload.Predictions {
		at, err := time.Parse(predictionTimeLayout, p.T)
		if err != nil {
			return nil, fmt.Errorf("parsing tide time %q: %w", p.T, err)
		}
		var height float64
		if _, err := fmt.Sscanf(p.V, "%f", &height); err != nil {
			return nil, fmt.Errorf("parsing tide height %q: %w", p.V, err)
		}
		out = append(out, domain.TidePrediction{
			Time:     at,
			HeightFt: height,
			Type:     domain.TideType(p.Type),
		})
	}
	return out, nil
}

type currentPayload struct {
	Predictions []struct {
		Time      string `json:"Time"`
		Speed     string `json:"Speed"`
		Direction string `json:"Direction"`
		Type      string `json:"Type"`
	} `json:"current_predictions"`
}

// Currents returns current predictions for the station covering the
// given date.
func (c *Client) Currents(ctx context.Context, stationID string, date time.Time) ([]domain.CurrentPrediction, error) {
	q := url.Values{}
	q.Set("product", "currents_predictions")
	q.Set("application", "NOS.COOPS.TAC.CUR")
	q.Set("begin_date", date.Format("20060102"))
	q.Set("end_date", date.AddDate(0, 0, 1).Format("20060102"))
	q.Set("station", stationID)
	q.Set("time_zone", "lst_ldt")
	q.Set("units", "english")
	q.Set("format", "json")

	var payload currentPayload
	if err := c.getJSON(ctx, q, &payload); err != nil {
		return nil, fmt.Errorf("fetching current predictions: %w", err)
	}

	out := make([]domain.CurrentPrediction, 0, len(payload.Predictions))
	for _, p := range payload.Predictions {
		at, err := time.Parse(predictionTimeLayout, p.Time)
		if err != nil {
			return nil, fmt.Errorf("parsing current time %q: %w", p.Time, err)
		}
		var speed float64
		if _, err := fmt.Sscanf(p.Speed, "%f", &speed); err != nil {
			return nil, fmt.Errorf("parsing current speed %q: %w", p.Speed, err)
		}
		out = append(out, domain.CurrentPrediction{
			Time:       at,
			SpeedKnots: speed,
			Direction:  p.Direction,
			Type:       p.Type,
		})
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, q url.Values, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
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
