package trips_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Hudson-River-Paddlers/kayak-bot/internal/adapters/memory/triprepo"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/app/trips"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/domain"
	platformclock "github.com/Hudson-River-Paddlers/kayak-bot/internal/platform/clock"
)

func newTestService() (*trips.Service, *platformclock.FakeClock) {
	clk := platformclock.NewFakeClock(time.Unix(1_700_000_000, 0))
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return trips.NewService(triprepo.NewRepo(), clk, log), clk
}

func validPlan() domain.TripPlan {
	return domain.TripPlan{
		Location:      "Cold Spring NY",
		Date:          time.Date(2026, 6, 6, 0, 0, 0, 0, time.UTC),
		StartTime:     "09:00",
		DurationHours: 3,
	}
}

func TestSave_RejectsInvalidInput(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()
	ctx := context.Background()

	empty := validPlan()
	empty.Location = "  "
	if _, err := svc.Save(ctx, "u1", empty, "", ""); !errors.Is(err, trips.ErrInvalidLocation) {
		t.Fatalf("blank location: err = %v, want ErrInvalidLocation", err)
	}

	short := validPlan()
	short.DurationHours = 0
	if _, err := svc.Save(ctx, "u1", short, "", ""); !errors.Is(err, trips.ErrInvalidDuration) {
		t.Fatalf("zero duration: err = %v, want ErrInvalidDuration", err)
	}
}

func TestSaveThenGet_RoundTrips(t *testing.T) {
	t.Parallel()

	svc, clk := newTestService()
	ctx := context.Background()

	saved, err := svc.Save(ctx, "u1", validPlan(), "Alice, Bob", "Carol 555-0100")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.ID == 0 {
		t.Fatal("Save did not assign an id")
	}
	if !saved.CreatedAt.Equal(clk.Now()) {
		t.Fatalf("CreatedAt = %v, want clock time %v", saved.CreatedAt, clk.Now())
	}

	got, err := svc.Get(ctx, saved.ID, "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Location != "Cold Spring NY" || got.Participants != "Alice, Bob" {
		t.Fatalf("Get returned %+v", got)
	}
}

func TestGet_OtherOwnerSeesNotFound(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()
	ctx := context.Background()

	saved, err := svc.Save(ctx, "u1", validPlan(), "", "")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := svc.Get(ctx, saved.ID, "u2"); !errors.Is(err, trips.ErrNotFound) {
		t.Fatalf("cross-owner Get: err = %v, want ErrNotFound", err)
	}
	if err := svc.Delete(ctx, saved.ID, "u2"); !errors.Is(err, trips.ErrNotFound) {
		t.Fatalf("cross-owner Delete: err = %v, want ErrNotFound", err)
	}
}

func TestList_NewestFirstWithLimit(t *testing.T) {
	t.Parallel()

	svc, clk := newTestService()
	ctx := context.Background()

	locations := []string{"Croton Point", "Peekskill Bay", "Cold Spring NY"}
	for _, loc := range locations {
		plan := validPlan()
		plan.Location = loc
		if _, err := svc.Save(ctx, "u1", plan, "", ""); err != nil {
			t.Fatalf("Save(%s): %v", loc, err)
		}
		clk.Advance(time.Minute)
	}

	got, err := svc.List(ctx, "u1", 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want limit 2", len(got))
	}
	if got[0].Location != "Cold Spring NY" || got[1].Location != "Peekskill Bay" {
		t.Fatalf("order = [%s, %s], want newest first", got[0].Location, got[1].Location)
	}
}

func TestDelete_RemovesOwnTrip(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService()
	ctx := context.Background()

	saved, err := svc.Save(ctx, "u1", validPlan(), "", "")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := svc.Delete(ctx, saved.ID, "u1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(ctx, saved.ID, "u1"); !errors.Is(err, trips.ErrNotFound) {
		t.Fatalf("deleted trip still readable: %v", err)
	}
}
