package noaa

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Hudson-River-Paddlers/kayak-bot/internal/domain"
)

func TestTides_ParsesPredictions(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("product") != "predictions" || q.Get("interval") != "hilo" {
			t.Errorf("query = %v", q)
		}
		if q.Get("station") != "8518750" {
			t.Errorf("station = %q", q.Get("station"))
		}
		if q.Get("begin_date") != "20260606" || q.Get("end_date") != "20260607" {
			t.Errorf("dates = %q..%q", q.Get("begin_date"), q.Get("end_date"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"predictions": [
			{"t": "2026-06-06 05:12", "v": "3.412", "type": "H"},
			{"t": "2026-06-06 11:40", "v": "0.287", "type": "L"}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	got, err := c.Tides(context.Background(), "8518750",
		time.Date(2026, 6, 6, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Tides: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Type != domain.TideHigh || got[0].HeightFt != 3.412 {
		t.Fatalf("first = %+v", got[0])
	}
	if got[0].Time.Hour() != 5 || got[0].Time.Minute() != 12 {
		t.Fatalf("first time = %v", got[0].Time)
	}
	if got[1].Type != domain.TideLow {
		t.Fatalf("second = %+v", got[1])
	}
}

func TestCurrents_ParsesPredictions(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("product") != "currents_predictions" {
			t.Errorf("product = %q", r.URL.Query().Get("product"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"current_predictions": [
			{"Time": "2026-06-06 07:30", "Speed": "1.24", "Direction": "170", "Type": "ebb"}
		]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	got, err := c.Currents(context.Background(), "HUR0514",
		time.Date(2026, 6, 6, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Currents: %v", err)
	}
	if len(got) != 1 || got[0].SpeedKnots != 1.24 || got[0].Direction != "170" {
		t.Fatalf("got = %+v", got)
	}
}

func TestTides_ServerErrorSurfaces(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	if _, err := c.Tides(context.Background(), "8518750", time.Now()); err == nil {
		t.Fatal("want error on 502 response")
	}
}

func TestStations_NearestByGreatCircle(t *testing.T) {
	t.Parallel()

	s := NewStations()

	// Cold Spring sits across the river from West Point.
	if got := s.NearestTideStation(41.42, -73.955); got != "8518951" {
		t.Fatalf("tide station near Cold Spring = %q, want West Point", got)
	}
	if got := s.NearestCurrentStation(41.42, -73.955); got != "HUR0514" {
		t.Fatalf("current station near Cold Spring = %q, want West Point", got)
	}

	// Lower Manhattan resolves to the harbor stations.
	if got := s.NearestTideStation(40.70, -74.01); got != "8518750" {
		t.Fatalf("tide station near the Battery = %q", got)
	}
	if got := s.NearestCurrentStation(40.70, -74.01); got != "NYH1927" {
		t.Fatalf("current station near the harbor = %q", got)
	}
}
