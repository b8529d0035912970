// Package setup drives the one-time configuration dialogue: home
// location, work location, then the two daily departure times, each
// persisted the moment its step succeeds.
package setup

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/coopco/commutebot/internal/bus"
	"github.com/coopco/commutebot/internal/scheduler"
	"github.com/coopco/commutebot/internal/settings"
)

// State is the dialogue position.
type State int

const (
	StateIdle State = iota
	StateAwaitingHome
	StateAwaitingWork
	StateAwaitingDepartHome
	StateAwaitingDepartWork
	StateComplete
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingHome:
		return "awaiting_home"
	case StateAwaitingWork:
		return "awaiting_work"
	case StateAwaitingDepartHome:
		return "awaiting_depart_home"
	case StateAwaitingDepartWork:
		return "awaiting_depart_work"
	case StateComplete:
		return "complete"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Coordinator is the scheduling surface the machine drives on completion.
type Coordinator interface {
	Rebuild(cfg *settings.CommuteSettings)
	PendingFireTimes() map[scheduler.Slot]time.Time
}

const (
	promptHome       = "Welcome! Please share your Home location."
	promptWork       = "Home location saved. Now, please share your Work location."
	promptDepartHome = "Work location saved. Now please send your departure time from Home (HH:MM)."
	promptDepartWork = "Home departure time saved. Now send your departure time from Work (HH:MM)."
	promptComplete   = "Work departure time saved! Your notifications will be scheduled automatically."
	promptLocation   = "Please share your location using the location sharing feature."
	promptBadTime    = "Invalid time format. Please use HH:MM (e.g., 08:30)."
	promptCancelled  = "Setup cancelled."
	promptSaveFailed = "Could not save your settings, please send that again."
)

// Machine is the setup state machine. It is the sole writer of the
// settings record; the coordinator only ever reads completed snapshots.
type Machine struct {
	store *settings.Store
	coord Coordinator
	bus   *bus.MessageBus

	mu    sync.Mutex
	state State
	cfg   *settings.CommuteSettings
}

// NewMachine creates a Machine over an existing record (may be nil when
// the store was empty).
func NewMachine(store *settings.Store, coord Coordinator, msgBus *bus.MessageBus, cfg *settings.CommuteSettings) *Machine {
	if cfg == nil {
		cfg = &settings.CommuteSettings{}
	}
	return &Machine{
		store: store,
		coord: coord,
		bus:   msgBus,
		state: StateIdle,
		cfg:   cfg,
	}
}

// State returns the current dialogue state.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Handle consumes one inbound message and advances the dialogue. Invalid
// input never advances state and never crashes: the user is reprompted.
func (m *Machine) Handle(msg bus.InboundMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch command(msg.Content) {
	case "start":
		// A fresh start always re-enters at the first step, even over a
		// complete record: the user re-answers and overwrites step by step.
		m.state = StateAwaitingHome
		m.reply(msg, promptHome)
		return
	case "cancel":
		if m.inDialogue() {
			// Abandons the run; fields already persisted stay committed.
			m.state = StateCancelled
			m.reply(msg, promptCancelled)
		}
		return
	case "status":
		m.reply(msg, m.statusText())
		return
	}

	switch m.state {
	case StateAwaitingHome:
		m.handleHome(msg)
	case StateAwaitingWork:
		m.handleWork(msg)
	case StateAwaitingDepartHome:
		m.handleDepartHome(msg)
	case StateAwaitingDepartWork:
		m.handleDepartWork(msg)
	default:
		// Outside a dialogue run, plain messages are ignored.
	}
}

func (m *Machine) inDialogue() bool {
	switch m.state {
	case StateAwaitingHome, StateAwaitingWork, StateAwaitingDepartHome, StateAwaitingDepartWork:
		return true
	}
	return false
}

func (m *Machine) handleHome(msg bus.InboundMessage) {
	loc, ok := location(msg)
	if !ok {
		m.reply(msg, promptLocation)
		return
	}
	coord := settings.Coordinate{Lat: loc.Latitude, Lon: loc.Longitude}
	m.cfg.HomeCoord = &coord
	m.cfg.HomeAddress = coord.String()
	// The first answer of the run pins where notifications are delivered.
	m.cfg.Notify = settings.Target{Channel: msg.Channel, ChatID: msg.ChatID}
	if !m.persist(msg) {
		return
	}
	m.state = StateAwaitingWork
	m.reply(msg, promptWork)
}

func (m *Machine) handleWork(msg bus.InboundMessage) {
	loc, ok := location(msg)
	if !ok {
		m.reply(msg, promptLocation)
		return
	}
	coord := settings.Coordinate{Lat: loc.Latitude, Lon: loc.Longitude}
	m.cfg.WorkCoord = &coord
	m.cfg.WorkAddress = coord.String()
	if !m.persist(msg) {
		return
	}
	m.state = StateAwaitingDepartHome
	m.reply(msg, promptDepartHome)
}

func (m *Machine) handleDepartHome(msg bus.InboundMessage) {
	clock, err := settings.ParseClock(msg.Content)
	if err != nil {
		m.reply(msg, promptBadTime)
		return
	}
	m.cfg.DepartHome = &clock
	if !m.persist(msg) {
		return
	}
	m.state = StateAwaitingDepartWork
	m.reply(msg, promptDepartWork)
}

func (m *Machine) handleDepartWork(msg bus.InboundMessage) {
	clock, err := settings.ParseClock(msg.Content)
	if err != nil {
		m.reply(msg, promptBadTime)
		return
	}
	m.cfg.DepartWork = &clock
	if !m.persist(msg) {
		return
	}
	m.state = StateComplete
	m.reply(msg, promptComplete)
	m.coord.Rebuild(m.cfg)
}

// persist saves the record. A failed write fails the step: the field stays
// in the working copy but the state does not advance, since a restart must
// be able to recover everything a completed step claimed to commit.
func (m *Machine) persist(msg bus.InboundMessage) bool {
	if err := m.store.Save(m.cfg); err != nil {
		slog.Error("failed to persist settings", "state", m.state.String(), "error", err)
		m.reply(msg, promptSaveFailed)
		return false
	}
	return true
}

func (m *Machine) reply(msg bus.InboundMessage, text string) {
	m.bus.PublishOutbound(bus.OutboundMessage{
		Channel: msg.Channel,
		ChatID:  msg.ChatID,
		Content: text,
	})
}

// statusText summarizes the configured times and pending fire times.
func (m *Machine) statusText() string {
	var b strings.Builder
	if m.cfg.DepartHome != nil {
		fmt.Fprintf(&b, "Departure from Home: %s.\n", m.cfg.DepartHome)
	}
	if m.cfg.DepartWork != nil {
		fmt.Fprintf(&b, "Departure from Work: %s.\n", m.cfg.DepartWork)
	}
	if b.Len() == 0 {
		return "Not configured yet. Send /start to begin setup."
	}

	pendings := m.coord.PendingFireTimes()
	slots := make([]scheduler.Slot, 0, len(pendings))
	for slot := range pendings {
		slots = append(slots, slot)
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i] < slots[j] })
	for _, slot := range slots {
		fmt.Fprintf(&b, "Next %s: %s.\n", slot, pendings[slot].Format("Mon 15:04"))
	}
	return strings.TrimRight(b.String(), "\n")
}

// command extracts a bot command from text ("/start", "/cancel", "/status"),
// tolerating the @botname suffix Telegram appends in groups.
func command(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return ""
	}
	cmd := strings.TrimPrefix(strings.Fields(text)[0], "/")
	if at := strings.Index(cmd, "@"); at >= 0 {
		cmd = cmd[:at]
	}
	return strings.ToLower(cmd)
}

// location returns the message's location payload.
func location(msg bus.InboundMessage) (bus.Location, bool) {
	if msg.Location == nil {
		return bus.Location{}, false
	}
	loc := *msg.Location
	coord := settings.Coordinate{Lat: loc.Latitude, Lon: loc.Longitude}
	if !coord.Valid() {
		return bus.Location{}, false
	}
	return loc, true
}
