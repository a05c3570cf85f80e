// Command botmatch plays computer-only warzone games in parallel on one map and
// reports how each seat fared. With a database configured every game is also
// recorded, so it can be replayed through the spectator API.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/Mina-Awadalla-92/SEON-6441-sub001/internal/config"
	"github.com/Mina-Awadalla-92/SEON-6441-sub001/internal/eventlog"
	"github.com/Mina-Awadalla-92/SEON-6441-sub001/internal/logger"
	"github.com/Mina-Awadalla-92/SEON-6441-sub001/internal/repository/postgres"
	"github.com/Mina-Awadalla-92/SEON-6441-sub001/internal/service"
	"github.com/Mina-Awadalla-92/SEON-6441-sub001/pkg/warzone"
)

// Seat is one computer player of a match.
type Seat struct {
	Name     string `json:"name"`
	Strategy string `json:"strategy"`
}

// MatchConfig describes the games to play.
type MatchConfig struct {
	MapFile  string
	Seats    []Seat
	Games    int
	Workers  int
	MaxTurns int
	Seed     int64 // 0 seeds every game from the clock
	Game     config.GameConfig
}

// MatchResult is the outcome of one game.
type MatchResult struct {
	Game   int    `json:"game"`
	GameID string `json:"gameId,omitempty"`
	Seed   int64  `json:"seed,omitempty"`
	Winner string `json:"winner,omitempty"`
	Draw   bool   `json:"draw"`
	Turns  int    `json:"turns"`
}

func main() {
	var (
		configPath string
		mapFile    string
		seats      string
		numGames   int
		workers    int
		maxTurns   int
		seed       int64
		dryRun     bool
		jsonOut    bool
	)

	flag.StringVar(&configPath, "config", "", "Config file (yaml, json or toml)")
	flag.StringVar(&mapFile, "map", "", "Map file to play on")
	flag.StringVar(&seats, "p", "aggressive,aggressive", "Comma-separated strategies, one per seat")
	flag.IntVar(&numGames, "n", 1, "Number of games to run")
	flag.IntVar(&workers, "workers", 1, "Concurrency (parallel games)")
	flag.IntVar(&maxTurns, "max-turns", 200, "Turns before a draw")
	flag.Int64Var(&seed, "seed", 0, "Base seed (0 = random)")
	flag.BoolVar(&dryRun, "dry-run", false, "Skip database writes")
	flag.BoolVar(&jsonOut, "json", false, "Output results as JSON")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
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

	parsed, err := ParseSeats(seats)
	if err != nil {
		log.Fatal().Err(err).Msg("Bad seats")
	}
	if mapFile == "" {
		mapFile = cfg.Game.MapFile
	}
	if mapFile == "" {
		log.Fatal().Msg("A map file is required (-map or game.map_file)")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := service.NewGameService(nil, nil, nil, nil, service.Options{})
	if !dryRun && cfg.Database.URL != "" {
		db, err := postgres.Connect(ctx, cfg.Database.URL)
		if err != nil {
			log.Fatal().Err(err).Msg("Database connection failed")
		}
		defer db.Close()
		if err := postgres.Migrate(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("Migration failed")
		}
		svc = service.NewGameService(postgres.NewGameRepo(db), postgres.NewHistoryRepo(db), nil, nil, service.Options{})
	}

	results, errCount := RunMatch(ctx, svc, MatchConfig{
		MapFile:  mapFile,
		Seats:    parsed,
		Games:    numGames,
		Workers:  workers,
		MaxTurns: maxTurns,
		Seed:     seed,
		Game:     cfg.Game,
	})

	if jsonOut {
		printJSON(os.Stdout, results, numGames, errCount)
	} else {
		printSummary(os.Stdout, results, parsed, maxTurns, errCount)
	}
}

// ParseSeats turns "aggressive,benevolent" into seats named after their
// strategy and position.
func ParseSeats(s string) ([]Seat, error) {
	var seats []Seat
	for _, name := range strings.Split(s, ",") {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if _, err := warzone.StrategyByName(name); err != nil {
			return nil, err
		}
		seats = append(seats, Seat{Name: fmt.Sprintf("%s-%d", name, len(seats)+1), Strategy: name})
	}
	if len(seats) < 2 {
		return nil, fmt.Errorf("need at least 2 seats, got %d", len(seats))
	}
	return seats, nil
}

// RunMatch plays cfg.Games games with at most cfg.Workers at a time. Failed
// games leave a nil entry in the results and are counted.
func RunMatch(ctx context.Context, svc *service.GameService, cfg MatchConfig) ([]*MatchResult, int) {
	workers := max(1, cfg.Workers)
	results := make([]*MatchResult, cfg.Games)
	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)
	errCount := 0

	for i := 0; i < cfg.Games; i++ {
		wg.Add(1)
		sem <- struct{}{}

		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			gameSeed := cfg.Seed
			if cfg.Seed != 0 {
				gameSeed = cfg.Seed + int64(idx)
			}
			result, err := playGame(ctx, svc, cfg, idx+1, gameSeed)
			if err != nil {
				log.Error().Err(err).Int("game", idx+1).Msg("Game failed")
				mu.Lock()
				errCount++
				mu.Unlock()
				return
			}

			mu.Lock()
			results[idx] = result
			mu.Unlock()

			log.Info().Int("game", idx+1).Str("winner", result.Winner).Int("turns", result.Turns).Msg("Game completed")
		}(i)
	}

	wg.Wait()
	return results, errCount
}

func playGame(ctx context.Context, svc *service.GameService, cfg MatchConfig, n int, seed int64) (*MatchResult, error) {
	game := cfg.Game
	game.Seed = seed
	game.MaxTurns = cfg.MaxTurns
	opts := game.Options()
	opts.AutoExecute = true

	engine, err := warzone.NewEngine(opts, eventlog.New(logger.Get().With().Int("game", n).Logger()))
	if err != nil {
		return nil, err
	}
	sess, err := svc.Start(ctx, engine)
	if err != nil {
		return nil, err
	}
	defer sess.Close()

	setup := [][]string{{"loadmap", cfg.MapFile}}
	for _, s := range cfg.Seats {
		setup = append(setup, []string{"gameplayer", "-add", s.Name, s.Strategy})
	}
	setup = append(setup, []string{"startgame"}, []string{"assigncountries"})
	for _, cmd := range setup {
		if _, err := engine.Handle("", cmd); err != nil {
			return nil, fmt.Errorf("%s: %w", strings.Join(cmd, " "), err)
		}
	}

	prompt := &warzone.StrategyPrompt{Fallback: warzone.PromptFunc(func(_ context.Context, gs *warzone.GameState, _ *warzone.Player) ([]string, error) {
		return nil, fmt.Errorf("no computer move in phase %s", gs.Phase)
	})}
	outcome, err := engine.Run(ctx, prompt, nil)
	if err != nil {
		return nil, err
	}
	if err := sess.Err(); err != nil {
		log.Warn().Err(err).Str("gameId", sess.ID).Msg("Game history incomplete")
	}
	return &MatchResult{
		Game:   n,
		GameID: sess.ID,
		Seed:   seed,
		Winner: outcome.Winner,
		Draw:   outcome.Draw,
		Turns:  outcome.Turn,
	}, nil
}

type seatStats struct {
	wins   int
	draws  int
	losses int
}

func tally(results []*MatchResult, seats []Seat) (map[string]*seatStats, int, int) {
	bySeat := make(map[string]*seatStats, len(seats))
	for _, s := range seats {
		bySeat[s.Name] = &seatStats{}
	}
	completed, turns := 0, 0
	for _, r := range results {
		if r == nil {
			continue
		}
		completed++
		turns += r.Turns
		for _, s := range seats {
			st := bySeat[s.Name]
			switch {
			case r.Draw:
				st.draws++
			case r.Winner == s.Name:
				st.wins++
			default:
				st.losses++
			}
		}
	}
	return bySeat, completed, turns
}

func printSummary(w io.Writer, results []*MatchResult, seats []Seat, maxTurns, errCount int) {
	bySeat, completed, turns := tally(results, seats)

	fmt.Fprintf(w, "\nResults (%d games, max %d turns):\n", completed, maxTurns)
	if errCount > 0 {
		fmt.Fprintf(w, "  (%d games failed)\n", errCount)
	}
	for _, s := range seats {
		st := bySeat[s.Name]
		fmt.Fprintf(w, "  %-14s (%s):  %d wins, %d draws, %d losses\n", s.Name, s.Strategy, st.wins, st.draws, st.losses)
	}
	if completed > 0 {
		fmt.Fprintf(w, "  average length: %.1f turns\n", float64(turns)/float64(completed))
	}
}

func printJSON(w io.Writer, results []*MatchResult, total, errCount int) {
	out := struct {
		Total   int            `json:"total"`
		Errors  int            `json:"errors"`
		Results []*MatchResult `json:"results"`
	}{
		Total:   total,
		Errors:  errCount,
		Results: results,
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil && !errors.Is(err, io.ErrClosedPipe) {
		log.Error().Err(err).Msg("Write results")
	}
}
