package trips

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Hudson-River-Paddlers/kayak-bot/internal/domain"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/ports/out/clock"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/ports/out/triprepo"
)

var (
	ErrNotFound        = errors.New("trip not found")
	ErrInvalidLocation = errors.New("location is required")
	ErrInvalidDuration = errors.New("duration must be a positive number of hours")
)

// DefaultListLimit bounds the number of trips returned by List when the
// caller does not ask for fewer.
const DefaultListLimit = 10

// Service owns the durable trip records. Every operation is scoped to
// the requesting owner.
type Service struct {
	repo  triprepo.Repository
	clock clock.Clock
	log   *slog.Logger
}

func NewService(repo triprepo.Repository, clk clock.Clock, log *slog.Logger) *Service {
	return &Service{repo: repo, clock: clk, log: log}
}

// Save persists a trip plan for its owner and returns the stored
// record.
func (s *Service) Save(ctx context.Context, owner domain.UserID, plan domain.TripPlan, participants, emergencyContact string) (domain.Trip, error) {
	if strings.TrimSpace(plan.Location) == "" {
		return domain.Trip{}, ErrInvalidLocation
	}
	if plan.DurationHours <= 0 {
		return domain.Trip{}, ErrInvalidDuration
	}

	trip := domain.Trip{
		OwnerID:          owner,
		Location:         plan.Location,
		Date:             plan.Date,
		StartTime:        plan.StartTime,
		DurationHours:    plan.DurationHours,
		Participants:     participants,
		EmergencyContact: emergencyContact,
		Name:             plan.Name,
		CreatedAt:        s.clock.Now(),
	}

	id, err := s.repo.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("saving trip: %w", err)
	}
	trip.ID = id

	s.log.Info("trip saved", "trip_id", id, "owner_id", owner, "location", trip.Location)
	return trip, nil
}

// Get returns a trip by id, visible only to its owner.
func (s *Service) Get(ctx context.Context, id domain.TripID, owner domain.UserID) (domain.Trip, error) {
	trip, err := s.repo.GetByID(ctx, id, owner)
	if err != nil {
		if errors.Is(err, triprepo.ErrNotFound) {
			return domain.Trip{}, ErrNotFound
		}
		return domain.Trip{}, fmt.Errorf("loading trip: %w", err)
	}
	return trip, nil
}

// List returns the owner's most recent trips, newest first.
func (s *Service) List(ctx context.Context, owner domain.UserID, limit int) ([]domain.Trip, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	out, err := s.repo.ListByOwner(ctx, owner, limit)
	if err != nil {
		return nil, fmt.Errorf("listing trips: %w", err)
	}
	return out, nil
}

// Delete removes an owner's trip. Deleting a trip another user owns, or
// one that does not exist, reports ErrNotFound.
func (s *Service) Delete(ctx context.Context, id domain.TripID, owner domain.UserID) error {
	if err := s.repo.Delete(ctx, id, owner); err != nil {
		if errors.Is(err, triprepo.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("deleting trip: %w", err)
	}
	s.log.Info("trip deleted", "trip_id", id, "owner_id", owner)
	return nil
}
