// Command server serves recorded warzone games from Postgres and the Redis
// snapshot cache to spectators. It plays nothing itself; games are recorded by
// the warzone and botmatch commands. With -token it prints a spectator token
// for one game and exits; -delete removes a recorded game.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Mina-Awadalla-92/SEON-6441-sub001/internal/auth"
	"github.com/Mina-Awadalla-92/SEON-6441-sub001/internal/config"
	"github.com/Mina-Awadalla-92/SEON-6441-sub001/internal/handler"
	"github.com/Mina-Awadalla-92/SEON-6441-sub001/internal/logger"
	"github.com/Mina-Awadalla-92/SEON-6441-sub001/internal/repository"
	"github.com/Mina-Awadalla-92/SEON-6441-sub001/internal/repository/postgres"
	redisrepo "github.com/Mina-Awadalla-92/SEON-6441-sub001/internal/repository/redis"
	"github.com/Mina-Awadalla-92/SEON-6441-sub001/internal/service"
)

func main() {
	var (
		configPath string
		tokenFor   string
		viewer     string
		deleteID   string
	)
	flag.StringVar(&configPath, "config", "", "Config file (yaml, json or toml)")
	flag.StringVar(&tokenFor, "token", "", "Print a spectator token for this game ID and exit")
	flag.StringVar(&viewer, "viewer", "spectator", "Viewer name carried by -token")
	flag.StringVar(&deleteID, "delete", "", "Delete this recorded game and exit")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if cfg.Spectator.Secret == "" {
		fmt.Fprintln(os.Stderr, "spectator.secret is required")
		os.Exit(2)
	}
	jwtMgr := auth.NewJWTManager(cfg.Spectator.Secret, cfg.Spectator.TokenTTL)

	if tokenFor != "" {
		token, err := jwtMgr.GenerateSpectatorToken(tokenFor, viewer)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(token)
		return
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

	addr := cfg.Spectator.Addr
	if addr == "" {
		addr = ":8080"
	}
	if cfg.Database.URL == "" {
		log.Fatal().Msg("database.url is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database
	db, err := postgres.Connect(ctx, cfg.Database.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("Database connection failed")
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}

	// Redis is optional here; without it snapshots come from Postgres only.
	var cache *redisrepo.Client
	if cfg.Redis.URL != "" {
		cache, err = redisrepo.NewClient(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("Redis connection failed")
		}
		defer cache.Close()
	}

	hub := handler.NewHub()
	svc := service.NewGameService(postgres.NewGameRepo(db), postgres.NewHistoryRepo(db), snapshotCache(cache), hub, service.Options{
		SnapshotTTL: cfg.Redis.SnapshotTTL,
	})

	if deleteID != "" {
		if err := svc.DeleteGame(ctx, deleteID); err != nil {
			log.Fatal().Err(err).Str("gameId", deleteID).Msg("Delete failed")
		}
		log.Info().Str("gameId", deleteID).Msg("Game deleted")
		return
	}

	srv := &http.Server{
		Addr:        addr,
		Handler:     handler.NewRouter(svc, hub, jwtMgr, cfg.Spectator.AllowedOrigins()),
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Server error")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown error")
	}
	log.Info().Msg("Server stopped")
}

// snapshotCache keeps a missing client from becoming a non-nil interface.
func snapshotCache(c *redisrepo.Client) repository.SnapshotCache {
	if c == nil {
		return nil
	}
	return c
}
