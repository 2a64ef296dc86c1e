package contracttest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Hudson-River-Paddlers/kayak-bot/internal/domain"
	contactrepoport "github.com/Hudson-River-Paddlers/kayak-bot/internal/ports/out/contactrepo"
	triprepoport "github.com/Hudson-River-Paddlers/kayak-bot/internal/ports/out/triprepo"
)

type CleanupFunc = func()

type TripRepoFactory func(t *testing.T) (triprepoport.Repository, CleanupFunc)
type ContactRepoFactory func(t *testing.T) (contactrepoport.Repository, CleanupFunc)

func strPtr(s string) *string { return &s }

// RunTripRepo exercises the Repository contract every trip store must
// satisfy, regardless of backend.
func RunTripRepo(t *testing.T, newRepo TripRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	base := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	mk := func(owner domain.UserID, location string, createdAt time.Time) domain.Trip {
		return domain.Trip{
			OwnerID:       owner,
			Location:      location,
			Date:          time.Date(2026, 6, 6, 0, 0, 0, 0, time.UTC),
			StartTime:     "09:00",
			DurationHours: 3,
			Participants:  "Alice, Bob",
			CreatedAt:     createdAt,
		}
	}

	// Create assigns distinct ids.
	id1, err := repo.Create(ctx, mk("u1", "Cold Spring NY", base))
	if err != nil {
		t.Fatalf("Create 1: %v", err)
	}
	id2, err := repo.Create(ctx, mk("u1", "Croton Point", base.Add(time.Minute)))
	if err != nil {
		t.Fatalf("Create 2: %v", err)
	}
	if id1 == 0 || id2 == 0 || id1 == id2 {
		t.Fatalf("ids = %d, %d, want distinct non-zero", id1, id2)
	}

	// Round-trip, including the optional name.
	named := mk("u2", "Peekskill Bay", base.Add(2*time.Minute))
	named.Name = strPtr("Sunday paddle")
	named.EmergencyContact = "Carol 555-0100"
	id3, err := repo.Create(ctx, named)
	if err != nil {
		t.Fatalf("Create named: %v", err)
	}
	got, err := repo.GetByID(ctx, id3, "u2")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Location != "Peekskill Bay" || got.StartTime != "09:00" || got.DurationHours != 3 {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
	if got.Name == nil || *got.Name != "Sunday paddle" {
		t.Fatalf("Name = %v, want Sunday paddle", got.Name)
	}
	if got.EmergencyContact != "Carol 555-0100" {
		t.Fatalf("EmergencyContact = %q", got.EmergencyContact)
	}
	if !got.Date.Equal(time.Date(2026, 6, 6, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("Date = %v", got.Date)
	}

	// Owner scoping: reads and deletes by another user report ErrNotFound.
	if _, err := repo.GetByID(ctx, id1, "u2"); !errors.Is(err, triprepoport.ErrNotFound) {
		t.Fatalf("cross-owner GetByID: %v, want ErrNotFound", err)
	}
	if err := repo.Delete(ctx, id1, "u2"); !errors.Is(err, triprepoport.ErrNotFound) {
		t.Fatalf("cross-owner Delete: %v, want ErrNotFound", err)
	}
	if _, err := repo.GetByID(ctx, 999999, "u1"); !errors.Is(err, triprepoport.ErrNotFound) {
		t.Fatalf("missing GetByID: %v, want ErrNotFound", err)
	}

	// ListByOwner: newest first, only the owner's trips, limited.
	list, err := repo.ListByOwner(ctx, "u1", 10)
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("ListByOwner len = %d, want 2", len(list))
	}
	if list[0].Location != "Croton Point" || list[1].Location != "Cold Spring NY" {
		t.Fatalf("order = [%s, %s], want newest first", list[0].Location, list[1].Location)
	}
	limited, err := repo.ListByOwner(ctx, "u1", 1)
	if err != nil {
		t.Fatalf("ListByOwner limited: %v", err)
	}
	if len(limited) != 1 || limited[0].ID != id2 {
		t.Fatalf("limited list = %+v", limited)
	}

	// Delete removes exactly the owner's record.
	if err := repo.Delete(ctx, id1, "u1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, id1, "u1"); !errors.Is(err, triprepoport.ErrNotFound) {
		t.Fatalf("deleted trip still readable: %v", err)
	}
	if err := repo.Delete(ctx, id1, "u1"); !errors.Is(err, triprepoport.ErrNotFound) {
		t.Fatalf("double Delete: %v, want ErrNotFound", err)
	}
}

// RunContactRepo exercises the contact store contract, including the
// at-most-one-primary invariant.
func RunContactRepo(t *testing.T, newRepo ContactRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	mk := func(owner domain.UserID, name string, primary bool) domain.EmergencyContact {
		return domain.EmergencyContact{
			OwnerID:      owner,
			Name:         name,
			Phone:        "5550100",
			Relationship: "friend",
			IsPrimary:    primary,
		}
	}

	id1, err := repo.Add(ctx, mk("u1", "Alice", false))
	if err != nil {
		t.Fatalf("Add Alice: %v", err)
	}
	if _, err := repo.Add(ctx, mk("u1", "Bob", true)); err != nil {
		t.Fatalf("Add Bob: %v", err)
	}
	// A new primary demotes the previous one.
	if _, err := repo.Add(ctx, mk("u1", "Carol", true)); err != nil {
		t.Fatalf("Add Carol: %v", err)
	}
	// Another owner's primary is unaffected.
	if _, err := repo.Add(ctx, mk("u2", "Dave", true)); err != nil {
		t.Fatalf("Add Dave: %v", err)
	}

	list, err := repo.ListByOwner(ctx, "u1")
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("len = %d, want 3", len(list))
	}
	if !list[0].IsPrimary || list[0].Name != "Carol" {
		t.Fatalf("first = %+v, want primary Carol", list[0])
	}
	primaries := 0
	for _, c := range list {
		if c.IsPrimary {
			primaries++
		}
	}
	if primaries != 1 {
		t.Fatalf("primaries = %d, want exactly 1", primaries)
	}
	// Non-primary tail keeps insertion (id) order.
	if list[1].ID != id1 {
		t.Fatalf("tail order starts with %d, want %d", list[1].ID, id1)
	}

	other, err := repo.ListByOwner(ctx, "u2")
	if err != nil {
		t.Fatalf("ListByOwner u2: %v", err)
	}
	if len(other) != 1 || !other[0].IsPrimary {
		t.Fatalf("u2 list = %+v, want Dave still primary", other)
	}

	empty, err := repo.ListByOwner(ctx, "u3")
	if err != nil {
		t.Fatalf("ListByOwner u3: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("u3 list = %+v, want empty", empty)
	}
}
