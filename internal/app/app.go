package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/five82/pokedex/internal/catalog"
	"github.com/five82/pokedex/internal/config"
	"github.com/five82/pokedex/internal/favorites"
	"github.com/five82/pokedex/internal/kv"
	"github.com/five82/pokedex/internal/pokeapi"
	"github.com/five82/pokedex/internal/prefs"
	"github.com/five82/pokedex/internal/route"
	"github.com/five82/pokedex/internal/ui"
)

// Options configure the pokedex application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/pokedex/prefs.toml

	// LogWriter receives log output instead of the configured log file.
	// Output written there is capped at WARN.
	LogWriter io.Writer
}

// Services holds everything the TUI and the subcommands share.
type Services struct {
	Config    config.Config
	Prefs     prefs.Prefs
	PrefsPath string
	Logger    *slog.Logger
	Catalog   *catalog.Source
	Favorites *favorites.Store

	closers []func() error
}

// Open loads configuration and preferences and wires storage, the API client
// and the catalog. Callers must Close the result.
func Open(opts Options) (*Services, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	userPrefs, prefsErr := prefs.Load(opts.PrefsPath)
	svc := &Services{Config: cfg, Prefs: userPrefs, PrefsPath: opts.PrefsPath}

	logger, closeLog, err := makeLogger(cfg, opts.LogWriter)
	if err != nil {
		return nil, err
	}
	svc.Logger = logger
	svc.closers = append(svc.closers, closeLog)
	if prefsErr != nil {
		logger.Warn("using default preferences", "error", prefsErr)
	}

	backend, err := kv.Open(cfg.Storage, cfg.DataDir)
	if err != nil {
		_ = svc.Close()
		return nil, fmt.Errorf("open %s storage: %w", cfg.Storage, err)
	}
	svc.closers = append(svc.closers, backend.Close)
	svc.Favorites = favorites.Open(backend, logger.With("component", "favorites"))

	client, err := pokeapi.NewClient(cfg.APIBaseURL,
		pokeapi.WithTimeout(cfg.RequestTimeout),
		pokeapi.WithRateLimit(cfg.RequestsPerSecond),
	)
	if err != nil {
		_ = svc.Close()
		return nil, fmt.Errorf("init api client: %w", err)
	}
	svc.Catalog = catalog.NewSource(client, cfg.SearchLimit)

	logger.Debug("services ready", "api", cfg.APIBaseURL, "storage", cfg.Storage, "data_dir", cfg.DataDir)
	return svc, nil
}

// Close releases storage and the log file, newest first.
func (s *Services) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

// StartLocation resolves where the TUI opens. An explicit location wins;
// resume falls back to the location saved on the last exit.
func (s *Services) StartLocation(explicit string, resume bool) (route.Location, error) {
	if explicit != "" {
		return route.Parse(explicit)
	}
	if resume && s.Prefs.LastLocation != "" {
		loc, err := route.Parse(s.Prefs.LastLocation)
		if err == nil {
			return loc, nil
		}
		s.Logger.Warn("ignoring saved location", "location", s.Prefs.LastLocation, "error", err)
	}
	return route.List(nil), nil
}

// Run boots the TUI at start and blocks until the user quits or ctx is
// cancelled. The final location is saved for --resume.
func (s *Services) Run(ctx context.Context, start route.Location) error {
	final, err := ui.Run(ui.Options{
		Context:   ctx,
		Catalog:   s.Catalog,
		Favorites: s.Favorites,
		Logger:    s.Logger.With("component", "ui"),
		PageSize:  s.Config.PageSize,
		Debounce:  s.Config.Debounce,
		ThemeName: s.Prefs.Theme,
		PrefsPath: s.PrefsPath,
		Start:     start,
	})
	if err != nil {
		return fmt.Errorf("run ui: %w", err)
	}

	if err := prefs.Update(s.PrefsPath, func(p *prefs.Prefs) {
		p.LastLocation = final.String()
	}); err != nil {
		s.Logger.Warn("save last location failed", "error", err)
	}
	s.Logger.Info("exit", "location", final.String())
	return nil
}

// Run opens the services, starts the TUI and closes everything on exit.
func Run(ctx context.Context, opts Options, location string, resume bool) error {
	svc, err := Open(opts)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	start, err := svc.StartLocation(location, resume)
	if err != nil {
		return err
	}
	return svc.Run(ctx, start)
}

func makeLogger(cfg config.Config, w io.Writer) (*slog.Logger, func() error, error) {
	level := cfg.SlogLevel()
	if w != nil {
		if level < slog.LevelWarn {
			level = slog.LevelWarn
		}
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), func() error { return nil }, nil
	}

	if err := os.MkdirAll(cfg.LogDir(), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return slog.New(slog.NewTextHandler(file, &slog.HandlerOptions{Level: level})), file.Close, nil
}
