package httpapi_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Hudson-River-Paddlers/kayak-bot/internal/adapters/httpapi"
	memcontacts "github.com/Hudson-River-Paddlers/kayak-bot/internal/adapters/memory/contactrepo"
	memtrips "github.com/Hudson-River-Paddlers/kayak-bot/internal/adapters/memory/triprepo"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/app/icewatch"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/app/trips"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/domain"
	platformclock "github.com/Hudson-River-Paddlers/kayak-bot/internal/platform/clock"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/ports/out/notify"
)

type nullNotifier struct{}

func (nullNotifier) SendDirect(ctx context.Context, user domain.UserID, msg notify.Message, options ...notify.ResponseOption) (notify.MessageHandle, error) {
	return "dm", nil
}

func (nullNotifier) SendChannel(ctx context.Context, channel domain.ChannelID, msg notify.Message) (notify.MessageHandle, error) {
	return "ch", nil
}

func newTestHandler(t *testing.T) (http.Handler, *trips.Service, *icewatch.Monitor) {
	t.Helper()

	clk := platformclock.NewFakeClock(time.Unix(1_700_000_000, 0))
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	tripSvc := trips.NewService(memtrips.NewRepo(), clk, log)
	monitor := icewatch.NewMonitor(clk, nullNotifier{}, memcontacts.NewRepo(),
		icewatch.Config{ICEChannelID: "ice-channel"}, log)

	return httpapi.NewRouter(httpapi.NewServer(monitor, tripSvc, log)), tripSvc, monitor
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	h, _, _ := newTestHandler(t)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("healthz = %d %q", rec.Code, rec.Body.String())
	}
}

func TestWatches_ListsTrackedWatches(t *testing.T) {
	t.Parallel()

	h, _, monitor := newTestHandler(t)
	if err := monitor.StartWatch(context.Background(), 7, "u1", 3, "ice-channel"); err != nil {
		t.Fatalf("StartWatch: %v", err)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/watches", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body struct {
		Count   int `json:"count"`
		Watches []struct {
			TripID  int64  `json:"trip_id"`
			OwnerID string `json:"owner_id"`
			State   string `json:"state"`
			Overdue bool   `json:"overdue"`
		} `json:"watches"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if body.Count != 1 || len(body.Watches) != 1 {
		t.Fatalf("body = %+v", body)
	}
	w := body.Watches[0]
	if w.TripID != 7 || w.OwnerID != "u1" || w.State != string(icewatch.StateRunning) || w.Overdue {
		t.Fatalf("watch = %+v", w)
	}
}

func TestTrips_RequiresOwnerAndRendersNullableFields(t *testing.T) {
	t.Parallel()

	h, tripSvc, _ := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/trips", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing owner: status = %d, want 400", rec.Code)
	}

	name := "Sunday paddle"
	_, err := tripSvc.Save(context.Background(), "u1", domain.TripPlan{
		Location:      "Cold Spring NY",
		Date:          time.Date(2026, 6, 6, 0, 0, 0, 0, time.UTC),
		StartTime:     "09:00",
		DurationHours: 3,
		Name:          &name,
	}, "", "")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/trips?owner=u1", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var body struct {
		Trips []map[string]json.RawMessage `json:"trips"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if len(body.Trips) != 1 {
		t.Fatalf("trips = %d, want 1", len(body.Trips))
	}
	if got := string(body.Trips[0]["name"]); got != `"Sunday paddle"` {
		t.Fatalf("name = %s", got)
	}
	// Participants were never set, so the field is an explicit null.
	if got := string(body.Trips[0]["participants"]); got != "null" {
		t.Fatalf("participants = %s, want null", got)
	}
	if got := string(body.Trips[0]["date"]); got != `"2026-06-06"` {
		t.Fatalf("date = %s", got)
	}
}
