package contacts_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/Hudson-River-Paddlers/kayak-bot/internal/adapters/memory/contactrepo"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/app/contacts"
)

func newTestService() *contacts.Service {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return contacts.NewService(contactrepo.NewRepo(), log)
}

func TestAdd_NormalizesNameAndPhone(t *testing.T) {
	t.Parallel()

	svc := newTestService()
	c, err := svc.Add(context.Background(), "u1", "  Carol   Danvers ", "(555) 010-0100", "spouse", true)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if c.Name != "Carol Danvers" {
		t.Fatalf("Name = %q, want collapsed whitespace", c.Name)
	}
	if c.Phone != "5550100100" {
		t.Fatalf("Phone = %q, want digits only", c.Phone)
	}
}

func TestAdd_RejectsBlankFields(t *testing.T) {
	t.Parallel()

	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.Add(ctx, "u1", "   ", "5550100", "", false); !errors.Is(err, contacts.ErrInvalidName) {
		t.Fatalf("blank name: err = %v, want ErrInvalidName", err)
	}
	if _, err := svc.Add(ctx, "u1", "Carol", "---", "", false); !errors.Is(err, contacts.ErrInvalidPhone) {
		t.Fatalf("empty phone: err = %v, want ErrInvalidPhone", err)
	}
}

func TestAdd_NewPrimaryDemotesOldPrimary(t *testing.T) {
	t.Parallel()

	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.Add(ctx, "u1", "Carol", "5550100", "spouse", true); err != nil {
		t.Fatalf("Add Carol: %v", err)
	}
	if _, err := svc.Add(ctx, "u1", "Dave", "5550200", "friend", true); err != nil {
		t.Fatalf("Add Dave: %v", err)
	}

	list, err := svc.List(ctx, "u1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	primaries := 0
	for _, c := range list {
		if c.IsPrimary {
			primaries++
			if c.Name != "Dave" {
				t.Fatalf("primary = %s, want the most recent designation", c.Name)
			}
		}
	}
	if primaries != 1 {
		t.Fatalf("primaries = %d, want exactly 1", primaries)
	}
}

func TestList_PrimaryFirst(t *testing.T) {
	t.Parallel()

	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.Add(ctx, "u1", "Alice", "5550001", "", false); err != nil {
		t.Fatalf("Add Alice: %v", err)
	}
	if _, err := svc.Add(ctx, "u1", "Bob", "5550002", "", true); err != nil {
		t.Fatalf("Add Bob: %v", err)
	}

	list, err := svc.List(ctx, "u1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 2 || list[0].Name != "Bob" {
		t.Fatalf("List order = %+v, want primary first", list)
	}
}
