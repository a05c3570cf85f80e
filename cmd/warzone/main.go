// Command warzone plays a territorial-conquest game on the console. Computer
// players are added with "gameplayer -add <name> aggressive|benevolent".
// With a database or Redis configured the game is recorded, and with a
// spectator address it can be watched read-only over WebSocket.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Mina-Awadalla-92/SEON-6441-sub001/internal/auth"
	"github.com/Mina-Awadalla-92/SEON-6441-sub001/internal/config"
	"github.com/Mina-Awadalla-92/SEON-6441-sub001/internal/console"
	"github.com/Mina-Awadalla-92/SEON-6441-sub001/internal/eventlog"
	"github.com/Mina-Awadalla-92/SEON-6441-sub001/internal/handler"
	"github.com/Mina-Awadalla-92/SEON-6441-sub001/internal/logger"
	"github.com/Mina-Awadalla-92/SEON-6441-sub001/internal/repository"
	"github.com/Mina-Awadalla-92/SEON-6441-sub001/internal/repository/postgres"
	redisrepo "github.com/Mina-Awadalla-92/SEON-6441-sub001/internal/repository/redis"
	"github.com/Mina-Awadalla-92/SEON-6441-sub001/internal/service"
	"github.com/Mina-Awadalla-92/SEON-6441-sub001/pkg/warzone"
)

func main() {
	var (
		configPath string
		mapFile    string
		seed       int64
	)
	flag.StringVar(&configPath, "config", "", "Config file (yaml, json or toml)")
	flag.StringVar(&mapFile, "map", "", "Map file to load before the first prompt")
	flag.Int64Var(&seed, "seed", 0, "Random seed (0 = config or clock)")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if mapFile != "" {
		cfg.Game.MapFile = mapFile
	}
	if seed != 0 {
		cfg.Game.Seed = seed
	}

	closer, err := logger.Init(logger.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		Dev:        cfg.Log.Dev,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Stdin, os.Stdout); err != nil {
		log.Error().Err(err).Msg("Game aborted")
		closer.Close()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer) error {
	engine, err := warzone.NewEngine(cfg.Game.Options(), eventlog.New(logger.Get()))
	if err != nil {
		return fmt.Errorf("engine: %w", err)
	}
	view := console.NewView(out)
	if cfg.Game.MapFile != "" {
		res, err := engine.Handle("", []string{"loadmap", cfg.Game.MapFile})
		view.Show(engine.State(), nil, res, err)
	}

	stores, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer stores.Close()

	hub := handler.NewHub()
	svc := service.NewGameService(stores.games, stores.history, stores.cache, hub, service.Options{
		SnapshotTTL: cfg.Redis.SnapshotTTL,
	})
	sess, err := svc.Start(ctx, engine)
	if err != nil {
		return err
	}
	defer sess.Close()
	log.Info().Str("gameId", sess.ID).Msg("Game started")

	if cfg.Spectator.Addr != "" {
		srv, err := serveSpectators(cfg, svc, hub, sess.ID)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("Spectator server shutdown error")
			}
		}()
	}

	prompt := &warzone.StrategyPrompt{Fallback: console.NewPrompt(in, out)}
	outcome, err := engine.Run(ctx, prompt, view)
	switch {
	case errors.Is(err, console.ErrQuit), errors.Is(err, io.EOF), errors.Is(err, context.Canceled):
		view.ShowOutcome(nil)
		return nil
	case err != nil:
		return err
	}
	view.ShowOutcome(outcome)
	return nil
}

// stores holds the optional history and cache backends.
type stores struct {
	games   repository.GameRepository
	history repository.HistoryRepository
	cache   repository.SnapshotCache
	closers []io.Closer
}

func openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	s := &stores{}
	if cfg.Database.URL != "" {
		db, err := postgres.Connect(ctx, cfg.Database.URL)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, db)
		if err := postgres.Migrate(ctx, db); err != nil {
			s.Close()
			return nil, err
		}
		s.games = postgres.NewGameRepo(db)
		s.history = postgres.NewHistoryRepo(db)
		log.Info().Msg("Recording game history to Postgres")
	}
	if cfg.Redis.URL != "" {
		client, err := redisrepo.NewClient(ctx, cfg.Redis.URL)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.closers = append(s.closers, client)
		s.cache = client
		log.Info().Msg("Caching live snapshots in Redis")
	}
	return s, nil
}

func (s *stores) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i].Close())
	}
	return errors.Join(errs...)
}

func serveSpectators(cfg *config.Config, svc *service.GameService, hub *handler.Hub, gameID string) (*http.Server, error) {
	jwtMgr := auth.NewJWTManager(cfg.Spectator.Secret, cfg.Spectator.TokenTTL)
	token, err := jwtMgr.GenerateSpectatorToken(gameID, "host")
	if err != nil {
		return nil, fmt.Errorf("spectator token: %w", err)
	}

	srv := &http.Server{
		Addr:        cfg.Spectator.Addr,
		Handler:     handler.NewRouter(svc, hub, jwtMgr, cfg.Spectator.AllowedOrigins()),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}
	go func() {
		log.Info().Str("addr", cfg.Spectator.Addr).Msg("Spectator server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("Spectator server error")
		}
	}()
	log.Info().
		Str("gameId", gameID).
		Str("path", "/api/v1/games/"+gameID+"/ws").
		Str("token", token).
		Msg("Spectators can connect")
	return srv, nil
}
