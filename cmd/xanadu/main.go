// Package main runs the Xanadu lobby and match server with Telnet and
// WebSocket frontends.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/cory-johannsen/xanadu/internal/config"
	"github.com/cory-johannsen/xanadu/internal/frontend/handlers"
	"github.com/cory-johannsen/xanadu/internal/frontend/telnet"
	"github.com/cory-johannsen/xanadu/internal/frontend/websocket"
	"github.com/cory-johannsen/xanadu/internal/game/lobby"
	"github.com/cory-johannsen/xanadu/internal/game/ruleset"
	"github.com/cory-johannsen/xanadu/internal/gameserver"
	"github.com/cory-johannsen/xanadu/internal/observability"
	"github.com/cory-johannsen/xanadu/internal/server"
	"github.com/cory-johannsen/xanadu/internal/storage/postgres"
)

// options are the command-line overrides applied on top of the loaded config.
type options struct {
	configPath string
	port       int
	maxPlayers int
	seed       uint64
	debug      *bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	fset := flag.NewFlagSet("xanadu", flag.ContinueOnError)
	fset.SetOutput(stderr)

	var opts options
	fset.StringVar(&opts.configPath, "config", "", "path to configuration file (defaults and XANADU_* env when empty)")
	fset.IntVar(&opts.port, "port", 0, "telnet port (1-65535)")
	fset.IntVar(&opts.maxPlayers, "max-players", 0, "maximum number of players (>= 2)")
	fset.Uint64Var(&opts.seed, "seed", 0, "seed for character building")
	debug := fset.Bool("debug", false, "log at debug level to the console")
	noDebug := fset.Bool("no-debug", false, "disable -debug")

	if err := fset.Parse(args); err != nil {
		return options{}, err
	}
	fset.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "debug":
			opts.debug = debug
		case "no-debug":
			off := !*noDebug
			opts.debug = &off
		}
	})
	if opts.port != 0 && (opts.port < 1 || opts.port > 65535) {
		return options{}, fmt.Errorf("-port must be 1-65535, got %d", opts.port)
	}
	if opts.maxPlayers != 0 && opts.maxPlayers < 2 {
		return options{}, fmt.Errorf("-max-players must be >= 2, got %d", opts.maxPlayers)
	}
	return opts, nil
}

// apply overlays opts onto cfg and fills in a clock-derived seed when none is set.
func (opts options) apply(cfg config.Config, now time.Time) (config.Config, error) {
	if opts.port != 0 {
		cfg.Telnet.Port = opts.port
	}
	if opts.maxPlayers != 0 {
		cfg.Server.MaxPlayers = opts.maxPlayers
	}
	if opts.seed != 0 {
		cfg.Server.Seed = opts.seed
	}
	if opts.debug != nil && *opts.debug {
		cfg.Logging = observability.DebugLogging()
	}
	if cfg.Server.Seed == 0 {
		cfg.Server.Seed = uint64(now.UnixNano())
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func loadCatalog(cfg config.LobbyConfig) (*ruleset.Catalog, error) {
	if cfg.ContentDir == "" {
		c := ruleset.DefaultCatalog()
		c.MaxNumModifiers = cfg.MaxNumModifiers
		return c, nil
	}
	return ruleset.LoadCatalog(cfg.ContentDir, cfg.MaxNumModifiers)
}

func hubConfig(cfg config.Config, catalog *ruleset.Catalog) gameserver.Config {
	return gameserver.Config{
		Lobby: lobby.Options{
			ServerName:     cfg.Server.Name,
			MaxPlayers:     cfg.Server.MaxPlayers,
			Catalog:        catalog,
			FuzzyTolerance: cfg.Lobby.FuzzyTolerance,
		},
		MinPlayers:     cfg.Server.MinPlayers,
		Seed:           cfg.Server.Seed,
		UpdateInterval: cfg.Server.UpdateInterval,
	}
}

func main() {
	start := time.Now()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env: %v", err)
	}

	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatalf("parsing flags: %v", err)
	}

	loaded, err := config.Load(opts.configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	cfg, err := opts.apply(loaded, start)
	if err != nil {
		log.Fatalf("applying flags: %v", err)
	}

	logger, _, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	catalog, err := loadCatalog(cfg.Lobby)
	if err != nil {
		logger.Fatal("loading catalog", zap.Error(err))
	}
	logger.Info("catalog loaded",
		zap.Int("classes", len(catalog.Classes)),
		zap.Int("allegiances", len(catalog.Allegiances)),
		zap.Int("modifiers", len(catalog.Modifiers)),
		zap.Int("max_num_modifiers", catalog.MaxNumModifiers),
	)

	ctx := context.Background()
	lifecycle := server.NewLifecycle(logger)

	var (
		recorder gameserver.RosterRecorder
		history  websocket.MatchHistory
	)
	if cfg.Database.Enabled {
		dbStart := time.Now()
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			logger.Fatal("connecting to database", zap.Error(err))
		}
		defer pool.Close()
		logger.Info("database connected",
			zap.String("host", cfg.Database.Host),
			zap.Int("port", cfg.Database.Port),
			zap.String("database", cfg.Database.Name),
			zap.Duration("elapsed", time.Since(dbStart)),
		)
		rosters := postgres.NewRosterRepository(pool.DB())
		recorder = rosters
		history = rosters

		lifecycle.Add("postgres", server.ServiceFunc(func(ctx context.Context) error {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					if err := pool.Health(ctx, 5*time.Second); err != nil {
						logger.Warn("database health check failed", zap.Error(err))
					}
				}
			}
		}))
	}

	hub := gameserver.NewHub(hubConfig(cfg, catalog), recorder, logger)
	lifecycle.Add("hub", server.ServiceFunc(hub.Run))

	acceptor := telnet.NewAcceptor(cfg.Telnet, handlers.NewGameHandler(hub, cfg.Server.Name, logger), logger)
	lifecycle.Add("telnet", server.ServiceFunc(acceptor.Serve))

	if cfg.HTTP.Enabled {
		wsHandler := websocket.NewHandler(hub, logger)
		if history != nil {
			wsHandler.WithMatchHistory(history)
		}
		httpServer := &http.Server{
			Addr:              cfg.HTTP.Addr(),
			Handler:           wsHandler.Routes(),
			ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		}
		lifecycle.Add("http", server.ServiceFunc(func(ctx context.Context) error {
			errCh := make(chan error, 1)
			go func() { errCh <- httpServer.ListenAndServe() }()
			logger.Info("http listening", zap.String("addr", httpServer.Addr))
			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("shutting down http: %w", err)
			}
			return nil
		}))
	}

	logger.Info("server initialized",
		zap.String("name", cfg.Server.Name),
		zap.Duration("startup", time.Since(start)),
		zap.String("telnet_addr", cfg.Telnet.Addr()),
		zap.Bool("http", cfg.HTTP.Enabled),
		zap.Bool("database", cfg.Database.Enabled),
		zap.Uint64("seed", cfg.Server.Seed),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Error("server error", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}
