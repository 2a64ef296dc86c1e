// Package nominatim resolves place names to coordinates via the
// OpenStreetMap Nominatim API.
package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Hudson-River-Paddlers/kayak-bot/internal/ports/out/geocode"
)

const DefaultBaseURL = "https://nominatim.openstreetmap.org"

// Nominatim's usage policy requires an identifying agent.
const userAgent = "kayak-bot/1.0"

// Client implements geocode.Geocoder.
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

type result struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func (c *Client) Geocode(ctx context.Context, location string) (geocode.Point, error) {
	q := url.Values{}
	q.Set("q", location)
	q.Set("format", "json")
	q.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return geocode.Point{}, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return geocode.Point{}, fmt.Errorf("geocoding %q: %w", location, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return geocode.Point{}, fmt.Errorf("geocoding %q: unexpected status %d", location, resp.StatusCode)
	}

	var results []result
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return geocode.Point{}, fmt.Errorf("decoding geocode response: %w", err)
	}
	if len(results) == 0 {
		return geocode.Point{}, geocode.ErrNotFound
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return geocode.Point{}, fmt.Errorf("parsing latitude %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return geocode.Point{}, fmt.Errorf("parsing longitude %q: %w", results[0].Lon, err)
	}
	return geocode.Point{Latitude: lat, Longitude: lon}, nil
}
