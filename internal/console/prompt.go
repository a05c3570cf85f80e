// Package console is the terminal front end of the game: a Prompt reading
// commands from a line-oriented input and a View printing results.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Mina-Awadalla-92/SEON-6441-sub001/pkg/warzone"
)

// ErrQuit is returned when the user types quit or exit.
var ErrQuit = errors.New("quit")

// Prompt reads one command per line. Lines are read on a separate goroutine
// so that a canceled context unblocks NextCommand.
type Prompt struct {
	w     io.Writer
	lines chan string
	errc  chan error
	err   error
}

// NewPrompt starts reading r and writes prompts to w.
func NewPrompt(r io.Reader, w io.Writer) *Prompt {
	p := &Prompt{w: w, lines: make(chan string), errc: make(chan error, 1)}
	go p.read(r)
	return p
}

func (p *Prompt) read(r io.Reader) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		p.lines <- scanner.Text()
	}
	err := scanner.Err()
	if err == nil {
		err = io.EOF
	}
	p.errc <- err
	close(p.lines)
}

// NextCommand prints a prompt naming the phase and, during IssueOrder, the
// player and their remaining reinforcements, then returns the next line's
// tokens. Blank lines and lines starting with # are skipped.
func (p *Prompt) NextCommand(ctx context.Context, gs *warzone.GameState, player *warzone.Player) ([]string, error) {
	for {
		fmt.Fprint(p.w, promptText(gs, player))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case line, ok := <-p.lines:
			if !ok {
				if p.err == nil {
					p.err = <-p.errc
				}
				return nil, p.err
			}
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			tokens := strings.Fields(line)
			switch strings.ToLower(tokens[0]) {
			case "quit", "exit":
				return nil, ErrQuit
			}
			return tokens, nil
		}
	}
}

func promptText(gs *warzone.GameState, player *warzone.Player) string {
	if player == nil {
		return fmt.Sprintf("[%s] > ", gs.Phase)
	}
	return fmt.Sprintf("[turn %d] %s (%d to deploy) > ", gs.Turn, player.Name, player.Reinforcements)
}
