package contacts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Hudson-River-Paddlers/kayak-bot/internal/domain"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/ports/out/contactrepo"
)

var (
	ErrInvalidName  = errors.New("contact name is required")
	ErrInvalidPhone = errors.New("contact phone is required")
)

// Service manages each owner's emergency contact roster.
type Service struct {
	repo contactrepo.Repository
	log  *slog.Logger
}

func NewService(repo contactrepo.Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Add stores an emergency contact for the owner. Marking the new
// contact primary demotes any existing primary in the same operation,
// so an owner never holds two primaries.
func (s *Service) Add(ctx context.Context, owner domain.UserID, name, phone, relationship string, primary bool) (domain.EmergencyContact, error) {
	name = domain.NormalizeHumanName(name)
	if name == "" {
		return domain.EmergencyContact{}, ErrInvalidName
	}
	phone = domain.NormalizePhone(phone)
	if phone == "" {
		return domain.EmergencyContact{}, ErrInvalidPhone
	}

	c := domain.EmergencyContact{
		OwnerID:      owner,
		Name:         name,
		Phone:        phone,
		Relationship: strings.TrimSpace(relationship),
		IsPrimary:    primary,
	}
	id, err := s.repo.Add(ctx, c)
	if err != nil {
		return domain.EmergencyContact{}, fmt.Errorf("adding contact: %w", err)
	}
	c.ID = id

	s.log.Info("emergency contact added",
		"contact_id", id, "owner_id", owner, "primary", primary)
	return c, nil
}

// List returns the owner's contacts, primary first.
func (s *Service) List(ctx context.Context, owner domain.UserID) ([]domain.EmergencyContact, error) {
	out, err := s.repo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("listing contacts: %w", err)
	}
	return out, nil
}
