package domain

import "time"

// Trip is a persisted kayak trip record. The owner never changes once
// the record is created.
type Trip struct {
	ID      TripID
	OwnerID UserID

	Location  string
	Date      time.Time // date-only semantics at the edges
	StartTime string    // "HH:MM", local to the launch site

	DurationHours int

	Participants     string
	EmergencyContact string
	Name             *string

	CreatedAt time.Time
}

// EmergencyContact is a persisted ICE (In Case of Emergency) contact.
// At most one contact per owner may be primary.
type EmergencyContact struct {
	ID      ContactID
	OwnerID UserID

	Name         string
	Phone        string
	Relationship string
	IsPrimary    bool
}

type SafetyLevel string

const (
	SafetyGood      SafetyLevel = "GOOD"
	SafetyFair      SafetyLevel = "FAIR"
	SafetyPoor      SafetyLevel = "POOR"
	SafetyDangerous SafetyLevel = "DANGEROUS"
)

// SafetyAssessment is the scored outcome of evaluating forecast
// conditions for a planned trip.
type SafetyAssessment struct {
	Score    int
	Level    SafetyLevel
	Color    int // display color for the embed rendering
	Warnings []string
}

// TripPlan is a transient trip proposal: a trip shape plus the condition
// snapshots and safety assessment it was scored from. It is not durable
// until the user elects to save it.
type TripPlan struct {
	Location  string
	Latitude  float64
	Longitude float64

	Date      time.Time
	StartTime string

	DurationHours int
	Name          *string

	Weather  Forecast
	Tides    []TidePrediction
	Currents []CurrentPrediction

	Safety SafetyAssessment
}
