// Package app wires the transports, store, providers, scheduler and setup
// machine together and runs the inbound loop.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/coopco/commutebot/internal/bus"
	"github.com/coopco/commutebot/internal/channels"
	"github.com/coopco/commutebot/internal/config"
	"github.com/coopco/commutebot/internal/providers"
	"github.com/coopco/commutebot/internal/scheduler"
	"github.com/coopco/commutebot/internal/settings"
	"github.com/coopco/commutebot/internal/setup"
)

type App struct {
	bus     *bus.MessageBus
	manager *channels.Manager
	coord   *scheduler.Coordinator
	machine *setup.Machine
}

// New builds the full application from config. If the store already holds
// a complete record, the schedule is rebuilt immediately so a restart
// resumes notifications without re-running setup.
func New(cfg *config.Config) (*App, error) {
	msgBus := bus.NewMessageBus(0)

	manager := channels.NewManager(msgBus)
	chans, err := cfg.EnabledChannels()
	if err != nil {
		return nil, err
	}
	if len(chans) == 0 {
		return nil, fmt.Errorf("no channels configured (set a telegram, slack or discord token)")
	}
	for name, raw := range chans {
		if err := manager.AddChannel(name, raw); err != nil {
			return nil, err
		}
	}

	store := settings.NewStore(cfg.Store.Path)
	saved, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	travel := providers.NewTravelClient(cfg.Providers.MapQuest.APIKey)
	weather := providers.NewWeatherClient(cfg.Providers.OpenWeatherMap.APIKey)
	coord := scheduler.NewCoordinator(travel, weather, msgBus)

	machine := setup.NewMachine(store, coord, msgBus, saved)

	if saved != nil && saved.Complete() {
		slog.Info("resuming schedule from saved settings")
		coord.Rebuild(saved)
	}

	return &App{
		bus:     msgBus,
		manager: manager,
		coord:   coord,
		machine: machine,
	}, nil
}

// Run starts the transports and processes inbound messages until ctx is
// cancelled.
func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		// Some transports (slack socket mode) block inside Start.
		return a.manager.StartAll(ctx)
	})
	g.Go(func() error {
		a.bus.DispatchOutbound(ctx)
		return nil
	})
	g.Go(func() error {
		for {
			msg, err := a.bus.ConsumeInbound(ctx)
			if err != nil {
				return err
			}
			a.machine.Handle(msg)
		}
	})

	err := g.Wait()

	a.coord.Stop()
	if stopErr := a.manager.StopAll(); stopErr != nil {
		slog.Error("failed to stop channels cleanly", "error", stopErr)
	}

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
