package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/Hudson-River-Paddlers/kayak-bot/internal/app/advisory"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/app/icewatch"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/app/scoring"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/domain"
	"github.com/Hudson-River-Paddlers/kayak-bot/internal/ports/out/notify"
)

const (
	colorGreen  = 0x00FF00
	colorYellow = 0xFFFF00
	colorOrange = 0xFF6B35
	colorRed    = 0xFF0000
	colorBlue   = 0x3498DB
	colorGray   = 0x95A5A6
)

func errorMessage(text string) notify.Message {
	return notify.Message{Title: "Error", Description: text, Color: colorRed}
}

func infoMessage(title, text string) notify.Message {
	return notify.Message{Title: title, Description: text, Color: colorBlue}
}

func tripTitle(location string, name *string) string {
	if name != nil && *name != "" {
		return *name
	}
	return location
}

func renderPlan(plan domain.TripPlan) notify.Message {
	msg := notify.Message{
		Title: fmt.Sprintf("Trip Plan: %s", tripTitle(plan.Location, plan.Name)),
		Description: fmt.Sprintf("%s at %s for %d hours",
			plan.Date.Format("Mon Jan 2, 2006"), plan.StartTime, plan.DurationHours),
		Color: plan.Safety.Color,
	}

	cur := plan.Weather.Current
	msg.Fields = append(msg.Fields,
		notify.Field{
			Name: "Weather",
			Value: fmt.Sprintf("%s, %d°C (feels %d°C)",
				cur.Description, cur.TempC, cur.FeelsLikeC),
			Inline: true,
		},
		notify.Field{
			Name: "Wind",
			Value: fmt.Sprintf("%.1f kn %s",
				scoring.MSToKnots(cur.WindSpeedMS), scoring.DirectionText(cur.WindDirectionDeg)),
			Inline: true,
		},
		notify.Field{
			Name: "Safety",
			Value: fmt.Sprintf("%s (%d/100)",
				plan.Safety.Level, plan.Safety.Score),
			Inline: true,
		},
	)

	if len(plan.Safety.Warnings) > 0 {
		msg.Fields = append(msg.Fields, notify.Field{
			Name:  "Warnings",
			Value: strings.Join(plan.Safety.Warnings, "\n"),
		})
	}
	if v := renderTides(plan.Tides); v != "" {
		msg.Fields = append(msg.Fields, notify.Field{Name: "Tides", Value: v})
	}
	if v := renderCurrents(plan.Currents); v != "" {
		msg.Fields = append(msg.Fields, notify.Field{Name: "Currents", Value: v})
	}
	msg.Fields = append(msg.Fields, notify.Field{
		Name:  "Next steps",
		Value: "React 📅 to save this trip or 🚨 to save and start monitoring now.",
	})
	return msg
}

func renderTides(tides []domain.TidePrediction) string {
	var b strings.Builder
	for i, t := range tides {
		if i >= 4 {
			break
		}
		label := "Low"
		if t.Type == domain.TideHigh {
			label = "High"
		}
		fmt.Fprintf(&b, "%s %s %.1f ft\n", t.Time.Format("15:04"), label, t.HeightFt)
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderCurrents(currents []domain.CurrentPrediction) string {
	var b strings.Builder
	for i, c := range currents {
		if i >= 4 {
			break
		}
		fmt.Fprintf(&b, "%s %.1f kn %s\n", c.Time.Format("15:04"), c.SpeedKnots, c.Direction)
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderTripList(list []domain.Trip) notify.Message {
	if len(list) == 0 {
		return infoMessage("Your Trips", "No saved trips yet. Plan one with the plan command.")
	}
	msg := notify.Message{Title: "Your Trips", Color: colorBlue}
	for _, t := range list {
		msg.Fields = append(msg.Fields, notify.Field{
			Name: fmt.Sprintf("#%d %s", t.ID, tripTitle(t.Location, t.Name)),
			Value: fmt.Sprintf("%s at %s, %d hours",
				t.Date.Format("Jan 2"), t.StartTime, t.DurationHours),
		})
	}
	return msg
}

func renderTripView(t domain.Trip, watch *icewatch.WatchStatus) notify.Message {
	msg := notify.Message{
		Title: fmt.Sprintf("Trip #%d: %s", t.ID, tripTitle(t.Location, t.Name)),
		Description: fmt.Sprintf("%s at %s for %d hours",
			t.Date.Format("Mon Jan 2, 2006"), t.StartTime, t.DurationHours),
		Color: colorBlue,
	}
	if t.Participants != "" {
		msg.Fields = append(msg.Fields, notify.Field{Name: "Participants", Value: t.Participants, Inline: true})
	}
	if t.EmergencyContact != "" {
		msg.Fields = append(msg.Fields, notify.Field{Name: "Emergency Contact", Value: t.EmergencyContact, Inline: true})
	}
	if watch != nil {
		msg.Fields = append(msg.Fields, notify.Field{
			Name:   "Monitoring",
			Value:  watchStateText(*watch),
			Inline: true,
		})
	}
	msg.Fields = append(msg.Fields, notify.Field{
		Name:  "Next steps",
		Value: "React ▶️ to start monitoring, ⏹️ to stop, ✅ to check in safe.",
	})
	return msg
}

func watchStateText(w icewatch.WatchStatus) string {
	switch w.State {
	case icewatch.StateRunning:
		return fmt.Sprintf("Active, due %s", w.Deadline.Format("15:04"))
	case icewatch.StateAwaiting:
		return "Awaiting check-in"
	case icewatch.StateEscalated:
		return "ESCALATED"
	case icewatch.StateConfirmedSafe:
		return "Confirmed safe"
	}
	return string(w.State)
}

func renderContactList(list []domain.EmergencyContact) notify.Message {
	if len(list) == 0 {
		return infoMessage("Emergency Contacts",
			"No contacts on file. Add one with: ice add \"Name\" <phone> [relationship] [primary]")
	}
	msg := notify.Message{Title: "Emergency Contacts", Color: colorBlue}
	for _, c := range list {
		name := c.Name
		if c.IsPrimary {
			name += " (primary)"
		}
		value := c.Phone
		if c.Relationship != "" {
			value += ", " + c.Relationship
		}
		msg.Fields = append(msg.Fields, notify.Field{Name: name, Value: value})
	}
	return msg
}

func renderStatus(total int, mine []icewatch.WatchStatus, now time.Time) notify.Message {
	msg := notify.Message{
		Title:       "Monitoring Status",
		Description: fmt.Sprintf("%d watch(es) tracked overall.", total),
		Color:       colorBlue,
	}
	if len(mine) == 0 {
		msg.Fields = append(msg.Fields, notify.Field{Name: "Your trips", Value: "None monitored."})
		return msg
	}
	for _, w := range mine {
		value := watchStateText(w)
		if w.Overdue {
			value += fmt.Sprintf(", overdue by %s", now.Sub(w.Deadline).Round(time.Minute))
		}
		msg.Fields = append(msg.Fields, notify.Field{
			Name:  fmt.Sprintf("Trip #%d", w.TripID),
			Value: value,
		})
	}
	return msg
}

func renderDownwind(a advisory.Analysis, found bool) notify.Message {
	if !found {
		return infoMessage("Hudson Downwind",
			"No wind-against-current window in the current forecast.")
	}
	color := colorGray
	switch {
	case a.Quality >= scoring.AlertThreshold:
		color = colorGreen
	case a.Quality >= scoring.ReportThreshold:
		color = colorYellow
	}
	return notify.Message{
		Title: "Hudson Downwind",
		Description: fmt.Sprintf("Best window %s: quality %.0f/100.",
			a.Time.Format("Mon 15:04"), a.Quality),
		Color: color,
		Fields: []notify.Field{
			{Name: "Wind", Value: fmt.Sprintf("%.0f mph @ %s", a.WindMPH, scoring.DirectionText(a.WindDirectionDeg)), Inline: true},
			{Name: "Current", Value: fmt.Sprintf("%.1f kn %s", a.CurrentKnots, a.CurrentDirection), Inline: true},
			{Name: "Opposition", Value: fmt.Sprintf("%.0f°", a.OppositionAngle), Inline: true},
		},
	}
}

func renderHelp() notify.Message {
	return notify.Message{
		Title: "Kayak Bot Commands",
		Color: colorBlue,
		Fields: []notify.Field{
			{Name: "plan \"<location>\" <YYYY-MM-DD> <HH:MM> <hours> [\"name\"]", Value: "Plan a trip with forecast, tides, currents and a safety score."},
			{Name: "list", Value: "List your saved trips."},
			{Name: "view <trip_id>", Value: "Show one trip with monitoring controls."},
			{Name: "start <trip_id>", Value: "Start safety monitoring for a saved trip."},
			{Name: "checkin", Value: "Confirm a safe return for your monitored trips."},
			{Name: "ice add \"<name>\" <phone> [relationship] [primary]", Value: "Add an emergency contact."},
			{Name: "ice list", Value: "List your emergency contacts."},
			{Name: "status", Value: "Show monitoring status."},
			{Name: "hudson", Value: "Analyze Hudson downwind conditions now."},
		},
	}
}
