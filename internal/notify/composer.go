// Package notify renders notification text. Composition is pure: callers
// pass in whatever data the providers produced, and degraded data renders
// as explicit fallback wording rather than a missing message.
package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/coopco/commutebot/internal/providers"
)

// Destination labels for the two legs.
const (
	DestWork = "Work"
	DestHome = "Home"
)

// Departure renders the leave-now message: live travel time, expected
// arrival, current weather. now anchors the arrival estimate.
func Departure(destination string, travel providers.TravelEstimate, weather providers.WeatherReport, now time.Time) string {
	var b strings.Builder
	if travel.Available {
		arrival := now.Add(time.Duration(travel.Minutes) * time.Minute).Format("15:04")
		fmt.Fprintf(&b, "Time to go! Expect a %d minute drive to %s. Arrival is expected at %s.", travel.Minutes, destination, arrival)
	} else {
		fmt.Fprintf(&b, "Time to go! Travel time to %s is unknown.", destination)
	}
	b.WriteString("\n")
	b.WriteString(weatherClause(weather, departureReminder(destination)))
	return b.String()
}

// Preview renders the 30-minutes-ahead message. label is the stored
// departure time's display form ("08:00"), not the fire time.
func Preview(label, destination string, travel providers.TravelEstimate, weather providers.WeatherReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Plan to leave by %s to %s.\n", label, destination)
	if travel.Available {
		fmt.Fprintf(&b, "Predicted travel time: %d minutes.", travel.Minutes)
	} else {
		b.WriteString("Predicted travel time: unknown.")
	}
	b.WriteString("\n")
	b.WriteString(weatherClause(weather, previewReminder(destination)))
	return b.String()
}

// weatherClause renders current conditions, appending reminder iff the
// rain indicator is set. Weather failure renders independently of travel
// failure: the two sources degrade on their own.
func weatherClause(w providers.WeatherReport, reminder string) string {
	if !w.Available {
		return "Weather data unavailable."
	}
	clause := fmt.Sprintf("Weather: %g°C, %s, Humidity: %d%%, Chance of rain: %d%%.",
		w.TempC, w.Description, w.Humidity, w.RainPct)
	if w.RainPct > 0 {
		clause += reminder
	}
	return clause
}

func departureReminder(destination string) string {
	if destination == DestWork {
		return " Tip: Wear a waterproof jacket/umbrella."
	}
	return " Tip: Wear waterproof clothing."
}

func previewReminder(destination string) string {
	if destination == DestWork {
		return "\nRemember to bring waterproof gear."
	}
	return "\nRemember your waterproof gear."
}
