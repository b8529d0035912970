// Package scheduler arms and re-arms the four daily notification jobs:
// departure and 30-minute preview for each commute leg. Each job occupies
// a named slot holding at most one pending one-shot timer.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/coopco/commutebot/internal/bus"
	"github.com/coopco/commutebot/internal/notify"
	"github.com/coopco/commutebot/internal/providers"
	"github.com/coopco/commutebot/internal/settings"
)

// Slot names one of the four recurring job identities.
type Slot int

const (
	SlotHomeDeparture Slot = iota
	SlotHomePreview
	SlotWorkDeparture
	SlotWorkPreview
	slotCount
)

func (s Slot) String() string {
	switch s {
	case SlotHomeDeparture:
		return "home_departure"
	case SlotHomePreview:
		return "home_preview"
	case SlotWorkDeparture:
		return "work_departure"
	case SlotWorkPreview:
		return "work_preview"
	default:
		return "unknown"
	}
}

const previewLead = 30 * time.Minute

// TravelSource resolves a predicted drive duration.
type TravelSource interface {
	TravelTime(ctx context.Context, origin, destination string, departAt time.Time) providers.TravelEstimate
}

// WeatherSource resolves current conditions at a point.
type WeatherSource interface {
	Current(ctx context.Context, lat, lon float64) providers.WeatherReport
}

// job is an immutable snapshot of everything one firing needs. Snapshots
// are taken at schedule time so a later settings change cannot race a
// pending job; Rebuild replaces snapshots wholesale.
type job struct {
	slot        Slot
	origin      string // routing-provider address of the start point
	destination string // routing-provider address of the end point
	originCoord settings.Coordinate
	destLabel   string // "Work" or "Home"
	timeLabel   string // stored departure time display, e.g. "08:00"
	preview     bool
	target      settings.Target
	fireAt      time.Time
	gen         uint64
}

type pending struct {
	timer *time.Timer
	job   job
}

// Coordinator owns the four slots. It reads CommuteSettings only inside
// Rebuild; job bodies run off their snapshots.
type Coordinator struct {
	travel  TravelSource
	weather WeatherSource
	bus     *bus.MessageBus

	mu    sync.Mutex
	slots [slotCount]*pending
	gen   uint64

	now func() time.Time
}

// NewCoordinator creates a Coordinator publishing notifications onto msgBus.
func NewCoordinator(travel TravelSource, weather WeatherSource, msgBus *bus.MessageBus) *Coordinator {
	return &Coordinator{
		travel:  travel,
		weather: weather,
		bus:     msgBus,
		now:     time.Now,
	}
}

// Rebuild recomputes and replaces every slot's pending job from cfg.
// Safe to call repeatedly: each call atomically swaps the slots, so at
// most one timer is pending per slot at any instant. A leg missing any
// required field is skipped, not an error. A job already mid-execution
// when Rebuild runs finishes and delivers, but its re-arm is discarded.
func (c *Coordinator) Rebuild(cfg *settings.CommuteSettings) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	for i, p := range c.slots {
		if p != nil {
			p.timer.Stop()
			c.slots[i] = nil
		}
	}

	now := c.now()

	if cfg.HomeLegReady() {
		c.armLeg(now, cfg.Notify, legParams{
			departureSlot: SlotHomeDeparture,
			previewSlot:   SlotHomePreview,
			origin:        cfg.HomeAddress,
			destination:   cfg.WorkAddress,
			originCoord:   *cfg.HomeCoord,
			destLabel:     notify.DestWork,
			depart:        *cfg.DepartHome,
		})
	}
	if cfg.WorkLegReady() {
		c.armLeg(now, cfg.Notify, legParams{
			departureSlot: SlotWorkDeparture,
			previewSlot:   SlotWorkPreview,
			origin:        cfg.WorkAddress,
			destination:   cfg.HomeAddress,
			originCoord:   *cfg.WorkCoord,
			destLabel:     notify.DestHome,
			depart:        *cfg.DepartWork,
		})
	}
}

type legParams struct {
	departureSlot Slot
	previewSlot   Slot
	origin        string
	destination   string
	originCoord   settings.Coordinate
	destLabel     string
	depart        settings.Clock
}

// armLeg schedules the departure and preview jobs for one leg. The
// preview time of day is the departure time minus 30 minutes (wrapping
// under midnight) and is rolled forward on its own clock: around a day
// boundary the two jobs may land on different days. Caller holds c.mu.
func (c *Coordinator) armLeg(now time.Time, target settings.Target, p legParams) {
	base := job{
		origin:      p.origin,
		destination: p.destination,
		originCoord: p.originCoord,
		destLabel:   p.destLabel,
		timeLabel:   p.depart.String(),
		target:      target,
		gen:         c.gen,
	}

	dep := base
	dep.slot = p.departureSlot
	dep.fireAt = nextOccurrence(now, p.depart)
	c.arm(dep)

	prev := base
	prev.slot = p.previewSlot
	prev.preview = true
	prev.fireAt = nextOccurrence(now, p.depart.Minus(30))
	c.arm(prev)
}

// arm installs a one-shot timer for j in its slot. Caller holds c.mu.
func (c *Coordinator) arm(j job) {
	d := j.fireAt.Sub(c.now())
	if d < 0 {
		d = 0
	}
	c.slots[j.slot] = &pending{
		timer: time.AfterFunc(d, func() { c.fire(j) }),
		job:   j,
	}
	slog.Info("scheduled notification", "slot", j.slot.String(), "fireAt", j.fireAt)
}

// nextOccurrence combines today's date with the time of day, rolling
// forward by exactly one day when that instant has already passed. A
// time equal to now to the instant is treated as already due and fires
// today.
func nextOccurrence(now time.Time, c settings.Clock) time.Time {
	t := time.Date(now.Year(), now.Month(), now.Day(), c.Hour, c.Minute, 0, 0, now.Location())
	if t.Before(now) {
		t = t.Add(24 * time.Hour)
	}
	return t
}

// fire runs one job body: both external calls, composition, send, then
// re-arm. Slots fire on independent timer goroutines, so one leg's slow
// provider calls never delay another slot.
func (c *Coordinator) fire(j job) {
	ctx := context.Background()
	now := c.now()

	departAt := now
	if j.preview {
		departAt = now.Add(previewLead)
	}

	travel := c.travel.TravelTime(ctx, j.origin, j.destination, departAt)
	weather := c.weather.Current(ctx, j.originCoord.Lat, j.originCoord.Lon)

	var text string
	if j.preview {
		text = notify.Preview(j.timeLabel, j.destLabel, travel, weather)
	} else {
		text = notify.Departure(j.destLabel, travel, weather, now)
	}

	c.bus.PublishOutbound(bus.OutboundMessage{
		Channel: j.target.Channel,
		ChatID:  j.target.ChatID,
		Content: text,
	})

	c.rearm(j)
}

// rearm schedules the next occurrence at exactly 24 hours after the fire
// time that just elapsed, independent of how long the job body ran.
// Delivery or data failure does not cancel future occurrences. If a
// Rebuild replaced the slots while this job ran, its snapshot is stale
// and the re-arm is dropped.
func (c *Coordinator) rearm(j job) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if j.gen != c.gen {
		slog.Debug("stale job, not re-arming", "slot", j.slot.String())
		return
	}
	j.fireAt = j.fireAt.Add(24 * time.Hour)
	c.arm(j)
}

// PendingFireTimes returns the fire time of each armed slot.
func (c *Coordinator) PendingFireTimes() map[Slot]time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[Slot]time.Time, slotCount)
	for _, p := range c.slots {
		if p != nil {
			out[p.job.slot] = p.job.fireAt
		}
	}
	return out
}

// Stop cancels all pending timers. In-flight job bodies finish.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	for i, p := range c.slots {
		if p != nil {
			p.timer.Stop()
			c.slots[i] = nil
		}
	}
}
