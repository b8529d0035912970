package channels

import (
	"strconv"
	"strings"

	"github.com/coopco/commutebot/internal/bus"
)

// parseCoordinateText recognizes a bare "lat,lon" message as a location.
// Platforms without native location sharing (Slack, Discord) use this so
// the setup dialogue still sees a location event; anything that is not a
// plausible coordinate pair passes through as plain text.
func parseCoordinateText(text string) (*bus.Location, bool) {
	parts := strings.Split(strings.TrimSpace(text), ",")
	if len(parts) != 2 {
		return nil, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return nil, false
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return nil, false
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, false
	}
	return &bus.Location{Latitude: lat, Longitude: lon}, true
}
