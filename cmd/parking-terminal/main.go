package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/smartpark/parking-terminal/internal/api"
	"github.com/smartpark/parking-terminal/internal/config"
	"github.com/smartpark/parking-terminal/internal/geoloc"
	"github.com/smartpark/parking-terminal/internal/logging"
	"github.com/smartpark/parking-terminal/internal/session"
	"github.com/smartpark/parking-terminal/internal/storage"
	"github.com/smartpark/parking-terminal/internal/ui"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	importZones := flag.String("import-zones", "", "Seed the offline zone cache from a parking zone shapefile and exit")
	flag.Parse()

	// Local .env files are a convenience for development setups
	godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog, err := logging.Open(logging.Config{
		Level: cfg.Logging.Level,
		Path:  cfg.Logging.Path,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening log: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	store, err := storage.Open(storage.DBPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening local storage: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if *importZones != "" {
		count, err := store.ImportShapefile(*importZones)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error importing zones: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Imported %d zones into the offline cache\n", count)
		return
	}

	authClient := api.NewAuthClient(cfg.Backend.URL, cfg.Backend.Timeout)
	ctrl := session.New(authClient, store, logger)

	deps := ui.Deps{
		Zones:           api.NewZoneClient(cfg.Backend.URL, cfg.Backend.Timeout),
		Predictions:     api.NewPredictionClient(cfg.Backend.URL, cfg.Backend.Timeout),
		Events:          api.NewEventClient(cfg.Backend.URL, cfg.Backend.Timeout, ctrl.Token),
		Favorites:       api.NewFavoriteClient(cfg.Backend.URL, cfg.Backend.Timeout, ctrl.Token),
		Admin:           api.NewAdminClient(cfg.Backend.URL, cfg.Backend.Timeout, ctrl.Token),
		Session:         ctrl,
		Store:           store,
		Logger:          logger,
		RefreshInterval: cfg.UI.RefreshInterval,
	}

	watcher := newPositionWatcher(cfg, logger)
	deps.Positions = watcher.Start(context.Background())
	defer watcher.Stop()

	logger.Info().Str("backend", cfg.Backend.URL).Msg("starting terminal")

	p := tea.NewProgram(ui.NewModel(deps, cfg.UI.Theme), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running application: %v\n", err)
		os.Exit(1)
	}
}

// newPositionWatcher builds the geolocation watcher for the configured mode
func newPositionWatcher(cfg *config.Config, logger zerolog.Logger) *geoloc.Watcher {
	var provider geoloc.Provider
	if cfg.Location.Mode == "static" {
		provider = geoloc.StaticProvider{Position: geoloc.Position{
			Latitude:  cfg.Location.Latitude,
			Longitude: cfg.Location.Longitude,
		}}
	} else {
		provider = geoloc.NewIPProvider(cfg.Backend.Timeout)
	}
	return geoloc.NewWatcher(provider, cfg.Location.RefreshInterval, logger)
}
