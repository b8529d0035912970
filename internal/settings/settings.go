package settings

import (
	"fmt"
	"strconv"
	"strings"
)

// Coordinate is a geographic point in decimal degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether the coordinate is inside geographic range.
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// String renders the coordinate as "lat,lon", the form the routing
// provider accepts as an address.
func (c Coordinate) String() string {
	return fmt.Sprintf("%g,%g", c.Lat, c.Lon)
}

// Clock is a time of day with no date component.
type Clock struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// ParseClock parses "HH:MM" in 24-hour form. Hours and minutes may be
// unpadded ("8:30"); out-of-range values are rejected.
func ParseClock(s string) (Clock, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return Clock{}, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return Clock{}, fmt.Errorf("invalid hour in %q: %w", s, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return Clock{}, fmt.Errorf("invalid minute in %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return Clock{}, fmt.Errorf("time %q out of range", s)
	}
	return Clock{Hour: h, Minute: m}, nil
}

// String renders the zero-padded display label, e.g. "08:30".
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Minus returns the clock shifted back by the given number of minutes,
// wrapping under midnight (00:10 minus 30 is 23:40).
func (c Clock) Minus(minutes int) Clock {
	total := c.Hour*60 + c.Minute - minutes
	for total < 0 {
		total += 24 * 60
	}
	total %= 24 * 60
	return Clock{Hour: total / 60, Minute: total % 60}
}

// Target identifies where outbound notifications go. Captured from the
// first inbound message of a setup run.
type Target struct {
	Channel string `json:"channel"`
	ChatID  string `json:"chatId"`
}

// CommuteSettings is the single configuration record: the two commute
// endpoints, the two daily departure times and the notification target.
// Pointer fields are absent until their setup step has completed.
type CommuteSettings struct {
	HomeCoord   *Coordinate `json:"homeCoord,omitempty"`
	WorkCoord   *Coordinate `json:"workCoord,omitempty"`
	HomeAddress string      `json:"homeAddress,omitempty"`
	WorkAddress string      `json:"workAddress,omitempty"`
	DepartHome  *Clock      `json:"departHome,omitempty"`
	DepartWork  *Clock      `json:"departWork,omitempty"`
	Notify      Target      `json:"notify"`
}

// HomeLegReady reports whether the Home→Work leg has everything it needs
// to be scheduled.
func (s *CommuteSettings) HomeLegReady() bool {
	return s.HomeCoord != nil && s.HomeAddress != "" && s.WorkAddress != "" && s.DepartHome != nil
}

// WorkLegReady reports whether the Work→Home leg has everything it needs
// to be scheduled.
func (s *CommuteSettings) WorkLegReady() bool {
	return s.WorkCoord != nil && s.WorkAddress != "" && s.HomeAddress != "" && s.DepartWork != nil
}

// Complete reports whether every field of the record is present.
func (s *CommuteSettings) Complete() bool {
	return s.HomeLegReady() && s.WorkLegReady() && s.Notify.ChatID != ""
}
