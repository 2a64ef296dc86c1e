package proposals_test

import (
	"testing"
	"time"

	"github.com/Hudson-River-Paddlers/kayak-bot/internal/app/proposals"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/domain"
	platformclock "github.com/Hudson-River-Paddlers/kayak-bot/internal/platform/clock"
)

func TestStore_TakeConsumesEntry(t *testing.T) {
	t.Parallel()

	clk := platformclock.NewFakeClock(time.Unix(1_700_000_000, 0))
	store := proposals.NewStore(clk, time.Hour)

	store.Put("msg-1", proposals.Proposal{OwnerID: domain.UserID("u1")})

	p, ok := store.Take("msg-1")
	if !ok || p.OwnerID != domain.UserID("u1") {
		t.Fatalf("Take = (%+v, %v), want the stored proposal", p, ok)
	}
	if _, ok := store.Take("msg-1"); ok {
		t.Fatal("second Take returned a consumed proposal")
	}
}

func TestStore_ExpiredEntriesAreGone(t *testing.T) {
	t.Parallel()

	clk := platformclock.NewFakeClock(time.Unix(1_700_000_000, 0))
	store := proposals.NewStore(clk, time.Hour)

	store.Put("msg-1", proposals.Proposal{OwnerID: domain.UserID("u1")})
	clk.Advance(time.Hour + time.Minute)

	if _, ok := store.Take("msg-1"); ok {
		t.Fatal("expired proposal still retrievable")
	}
	if store.Len() != 0 {
		t.Fatalf("Len = %d after expiry, want 0", store.Len())
	}
}

func TestStore_PutReplacesSameHandle(t *testing.T) {
	t.Parallel()

	clk := platformclock.NewFakeClock(time.Unix(1_700_000_000, 0))
	store := proposals.NewStore(clk, time.Hour)

	store.Put("msg-1", proposals.Proposal{OwnerID: domain.UserID("u1")})
	store.Put("msg-1", proposals.Proposal{OwnerID: domain.UserID("u2")})

	p, ok := store.Peek("msg-1")
	if !ok || p.OwnerID != domain.UserID("u2") {
		t.Fatalf("Peek = (%+v, %v), want the replacement", p, ok)
	}
	if store.Len() != 1 {
		t.Fatalf("Len = %d, want 1", store.Len())
	}
}
