package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/mmarder/screener/internal/config"
	"github.com/mmarder/screener/internal/domain"
	"github.com/mmarder/screener/internal/favorites"
	"github.com/mmarder/screener/internal/log"
	"github.com/mmarder/screener/internal/mediaserver"
	"github.com/mmarder/screener/internal/playback"
	"github.com/mmarder/screener/internal/player"
	"github.com/mmarder/screener/internal/store"
	"github.com/mmarder/screener/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var showVersion bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.Parse()

	if showVersion {
		fmt.Printf("screener %s\n", Version)
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)

	if !cfg.IsConfigured() {
		if err := signIn(cfg); err != nil {
			return err
		}
	}

	st, err := store.Open(config.GetCachePath())
	if err != nil {
		logger.Warn("cache unavailable, running memory-only", "error", err)
		st, _ = store.Open("")
	}
	defer st.Close()

	client := mediaserver.NewClient(cfg.Server.URL, cfg.Server.Token, logger)
	viewer := cfg.ViewerContext()

	surface := player.NewSurface(cfg.Player.Command, cfg.Player.Args, logger)
	controller := playback.NewController(client, surface, logger)
	defer controller.Close()

	favs := favorites.NewService(client, st, logger)
	if ids, ok := st.GetFavoriteIDs(); ok {
		favs.Seed(ids)
	}

	items, err := loadCatalog(client, st, logger)
	if err != nil {
		return err
	}

	// Favorites refresh is best effort; the seeded cache covers the gap.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_ = favs.Refresh(ctx)
	}()

	app := tui.NewApp(items, viewer, controller, favs, logger)
	program := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

// loadCatalog fetches the visible catalog, falling back to the local cache
// when the platform is unreachable.
func loadCatalog(client *mediaserver.Client, st *store.Store, logger *slog.Logger) ([]*domain.MediaItem, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	items, err := client.ListVisibleItems(ctx)
	if err != nil {
		cached, ok := st.GetItems()
		if !ok {
			return nil, fmt.Errorf("failed to load catalog: %w", err)
		}
		logger.Warn("platform unreachable, using cached catalog", "error", err, "count", len(cached))
		return visibleOnly(cached), nil
	}

	if err := st.SaveItems(items); err != nil {
		logger.Error("failed to cache catalog", "error", err)
	}
	return visibleOnly(items), nil
}

// visibleOnly drops unpublished items. The platform filters these upstream;
// stale caches may still carry them.
func visibleOnly(items []*domain.MediaItem) []*domain.MediaItem {
	out := make([]*domain.MediaItem, 0, len(items))
	for _, item := range items {
		if item.Visible {
			out = append(out, item)
		}
	}
	return out
}

// signIn prompts for the platform URL and API token on first run.
func signIn(cfg *config.Config) error {
	reader := bufio.NewReader(os.Stdin)

	if cfg.Server.URL == "" {
		fmt.Print("Platform URL: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read URL: %w", err)
		}
		cfg.Server.URL = strings.TrimSpace(line)
	}

	fmt.Print("API token: ")
	tokenBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("failed to read token: %w", err)
	}
	cfg.Server.Token = strings.TrimSpace(string(tokenBytes))

	if !cfg.IsConfigured() {
		return fmt.Errorf("platform URL and token are required")
	}

	if err := config.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}
