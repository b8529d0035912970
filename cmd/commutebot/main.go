package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/coopco/commutebot/internal/app"
	"github.com/coopco/commutebot/internal/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "commutebot",
	Short: "Daily commute departure and preview notifications",
	Long: `commutebot collects your home and work locations plus two daily
departure times over chat, then sends a departure alert and a 30-minute
preview for each leg, enriched with live travel time and weather.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		var cfg *config.Config
		var err error
		if configPath != "" {
			cfg, err = config.LoadFromFile(configPath)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return err
		}

		a, err := app.New(cfg)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		slog.Info("commutebot starting")
		return a.Run(ctx)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default ~/.commutebot/config.json)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
