package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Mina-Awadalla-92/SEON-6441-sub001/internal/config"
	"github.com/Mina-Awadalla-92/SEON-6441-sub001/internal/service"
	"github.com/Mina-Awadalla-92/SEON-6441-sub001/pkg/warzone"
)

const lineMap = `[continents]
west 1
east 1

[countries]
1 a 1
2 b 1
3 c 2
4 d 2

[borders]
1 2
2 1 3
3 2 4
4 3
`

func writeMap(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "line.map")
	if err := os.WriteFile(path, []byte(lineMap), 0o644); err != nil {
		t.Fatalf("write map: %v", err)
	}
	return path
}

func TestParseSeats(t *testing.T) {
	seats, err := ParseSeats(" Aggressive, benevolent ,")
	if err != nil {
		t.Fatalf("ParseSeats: %v", err)
	}
	want := []Seat{{"aggressive-1", "aggressive"}, {"benevolent-2", "benevolent"}}
	if len(seats) != len(want) {
		t.Fatalf("expected %d seats, got %v", len(want), seats)
	}
	for i := range want {
		if seats[i] != want[i] {
			t.Errorf("seat %d: expected %+v, got %+v", i, want[i], seats[i])
		}
	}
}

func TestParseSeatsErrors(t *testing.T) {
	for _, s := range []string{"", "aggressive", "aggressive,cheater"} {
		if _, err := ParseSeats(s); err == nil {
			t.Errorf("%q: expected an error", s)
		}
	}
}

func TestRunMatch(t *testing.T) {
	seats, _ := ParseSeats("aggressive,aggressive")
	cfg := MatchConfig{
		MapFile:  writeMap(t),
		Seats:    seats,
		Games:    4,
		Workers:  2,
		MaxTurns: 40,
		Seed:     11,
		Game:     config.GameConfig{AttackerKill: warzone.DefaultAttackerKill, DefenderKill: warzone.DefaultDefenderKill},
	}
	svc := service.NewGameService(nil, nil, nil, nil, service.Options{})

	results, errCount := RunMatch(context.Background(), svc, cfg)
	if errCount != 0 {
		t.Fatalf("expected no failed games, got %d", errCount)
	}
	for i, r := range results {
		if r == nil {
			t.Fatalf("game %d has no result", i+1)
		}
		if r.Game != i+1 || r.Seed != 11+int64(i) {
			t.Errorf("game %d: unexpected numbering %+v", i+1, r)
		}
		if !r.Draw && r.Winner != "aggressive-1" && r.Winner != "aggressive-2" {
			t.Errorf("game %d: unexpected winner %q", i+1, r.Winner)
		}
		if r.Turns > 40 {
			t.Errorf("game %d: ran %d turns past the limit", i+1, r.Turns)
		}
	}
}

func TestRunMatchMissingMap(t *testing.T) {
	seats, _ := ParseSeats("aggressive,benevolent")
	cfg := MatchConfig{
		MapFile:  filepath.Join(t.TempDir(), "missing.map"),
		Seats:    seats,
		Games:    2,
		MaxTurns: 10,
	}
	results, errCount := RunMatch(context.Background(), service.NewGameService(nil, nil, nil, nil, service.Options{}), cfg)
	if errCount != 2 {
		t.Errorf("expected 2 failed games, got %d", errCount)
	}
	for _, r := range results {
		if r != nil {
			t.Errorf("expected no result, got %+v", r)
		}
	}
}

func TestPrintSummary(t *testing.T) {
	seats := []Seat{{"aggressive-1", "aggressive"}, {"benevolent-2", "benevolent"}}
	results := []*MatchResult{
		{Game: 1, Winner: "aggressive-1", Turns: 10},
		{Game: 2, Draw: true, Turns: 20},
		nil,
	}
	var buf bytes.Buffer
	printSummary(&buf, results, seats, 20, 1)

	got := buf.String()
	for _, want := range []string{
		"Results (2 games, max 20 turns)",
		"(1 games failed)",
		"aggressive-1   (aggressive):  1 wins, 1 draws, 0 losses",
		"benevolent-2   (benevolent):  0 wins, 1 draws, 1 losses",
		"average length: 15.0 turns",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in:\n%s", want, got)
		}
	}
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	printJSON(&buf, []*MatchResult{{Game: 1, Winner: "x", Turns: 3}}, 1, 0)

	var out struct {
		Total   int           `json:"total"`
		Results []MatchResult `json:"results"`
	}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out.Total != 1 || len(out.Results) != 1 || out.Results[0].Winner != "x" {
		t.Errorf("unexpected output %+v", out)
	}
}
