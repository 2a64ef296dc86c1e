// Package httpapi exposes the read-only admin and health surface.
package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/nullable"

	"github.com/Hudson-River-Paddlers/kayak-bot/internal/app/icewatch"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/app/trips"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/domain"
)

// Server serves health checks and read-only views of monitoring state
// and saved trips.
type Server struct {
	monitor *icewatch.Monitor
	trips   *trips.Service
	log     *slog.Logger
}

func NewServer(monitor *icewatch.Monitor, tripSvc *trips.Service, log *slog.Logger) *Server {
	return &Server{monitor: monitor, trips: tripSvc, log: log}
}

// NewRouter constructs the admin HTTP router.
func NewRouter(s *Server) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/api/watches", s.handleWatches)
	r.Get("/api/trips", s.handleTrips)

	return r
}

type watchDTO struct {
	TripID    int64     `json:"trip_id"`
	OwnerID   string    `json:"owner_id"`
	State     string    `json:"state"`
	StartedAt time.Time `json:"started_at"`
	Deadline  time.Time `json:"deadline"`
	Overdue   bool      `json:"overdue"`
}

func (s *Server) handleWatches(w http.ResponseWriter, r *http.Request) {
	watches := s.monitor.All()
	out := make([]watchDTO, 0, len(watches))
	for _, ws := range watches {
		out = append(out, watchDTO{
			TripID:    int64(ws.TripID),
			OwnerID:   string(ws.OwnerID),
			State:     string(ws.State),
			StartedAt: ws.StartedAt,
			Deadline:  ws.Deadline,
			Overdue:   ws.Overdue,
		})
	}
	s.writeJSON(w, r, map[string]any{"watches": out, "count": len(out)})
}

type tripDTO struct {
	ID            int64                     `json:"id"`
	OwnerID       string                    `json:"owner_id"`
	Location      string                    `json:"location"`
	Date          string                    `json:"date"`
	StartTime     string                    `json:"start_time"`
	DurationHours int                       `json:"duration_hours"`
	Name          nullable.Nullable[string] `json:"name"`
	Participants  nullable.Nullable[string] `json:"participants"`
	CreatedAt     time.Time                 `json:"created_at"`
}

func (s *Server) handleTrips(w http.ResponseWriter, r *http.Request) {
	owner := r.URL.Query().Get("owner")
	if owner == "" {
		http.Error(w, `{"error":"owner query parameter is required"}`, http.StatusBadRequest)
		return
	}

	list, err := s.trips.List(r.Context(), domain.UserID(owner), trips.DefaultListLimit)
	if err != nil {
		s.log.Error("admin trip list failed", "error", err, "owner", owner)
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	out := make([]tripDTO, 0, len(list))
	for _, t := range list {
		dto := tripDTO{
			ID:            int64(t.ID),
			OwnerID:       string(t.OwnerID),
			Location:      t.Location,
			Date:          t.Date.Format("2006-01-02"),
			StartTime:     t.StartTime,
			DurationHours: t.DurationHours,
			Name:          nullable.NewNullNullable[string](),
			Participants:  nullable.NewNullNullable[string](),
			CreatedAt:     t.CreatedAt,
		}
		if t.Name != nil {
			dto.Name = nullable.NewNullableWithValue(*t.Name)
		}
		if t.Participants != "" {
			dto.Participants = nullable.NewNullableWithValue(t.Participants)
		}
		out = append(out, dto)
	}
	s.writeJSON(w, r, map[string]any{"trips": out})
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("encoding admin response failed",
			"error", err, "request_id", middleware.GetReqID(r.Context()))
	}
}
