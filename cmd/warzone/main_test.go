package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Mina-Awadalla-92/SEON-6441-sub001/internal/config"
)

func TestRunComputerGame(t *testing.T) {
	cfg := &config.Config{Game: config.GameConfig{MaxTurns: 50, Seed: 3, AutoExecute: true}}
	in := strings.NewReader(strings.Join([]string{
		"editcontinent -add main 1",
		"editcountry -add a main -add b main -add c main",
		"editneighbor -add a b -add b c",
		"gameplayer -add ann aggressive -add ben aggressive",
		"startgame",
		"assigncountries",
	}, "\n") + "\n")
	var out bytes.Buffer

	if err := run(context.Background(), cfg, in, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "wins on turn") && !strings.Contains(got, "draw after") {
		t.Errorf("expected an outcome, got:\n%s", got)
	}
}

func TestRunQuit(t *testing.T) {
	cfg := &config.Config{Game: config.GameConfig{
		AutoExecute: true,
		MapFile:     filepath.Join(t.TempDir(), "missing.map"),
	}}
	var out bytes.Buffer

	if err := run(context.Background(), cfg, strings.NewReader("showmap\nquit\n"), &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "error: ") {
		t.Errorf("expected the missing map to be reported, got:\n%s", got)
	}
	if !strings.HasSuffix(got, "game stopped\n") {
		t.Errorf("expected the game to stop, got:\n%s", got)
	}
}
