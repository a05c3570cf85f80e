package console

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/Mina-Awadalla-92/SEON-6441-sub001/pkg/warzone"
)

// View prints command results as plain text.
type View struct {
	w io.Writer
}

// NewView creates a View writing to w.
func NewView(w io.Writer) *View {
	return &View{w: w}
}

// Show prints the outcome of one command.
func (v *View) Show(gs *warzone.GameState, player *warzone.Player, res warzone.Result, err error) {
	if err != nil {
		v.showError(gs, err)
		return
	}
	if res.Message != "" {
		fmt.Fprintln(v.w, res.Message)
	}
	switch res.Show {
	case warzone.ShowMap:
		v.ShowMap(gs)
	case warzone.ShowCards:
		v.showCards(player)
	}
}

func (v *View) showError(gs *warzone.GameState, err error) {
	fmt.Fprintf(v.w, "error: %v\n", err)
	var unknown *warzone.UnknownCommandError
	if errors.As(err, &unknown) {
		fmt.Fprintf(v.w, "commands in %s: %s\n", gs.Phase, strings.Join(warzone.Commands(gs.Phase), ", "))
	}
}

// ShowMap prints continents, then every territory with its owner, armies and neighbors.
func (v *View) ShowMap(gs *warzone.GameState) {
	continents := gs.Map.Continents()
	if len(continents) == 0 {
		fmt.Fprintln(v.w, "(empty map)")
		return
	}
	tw := tabwriter.NewWriter(v.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CONTINENT\tBONUS\tCONTROLLED BY")
	for _, c := range continents {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", c.Name, c.Bonus, orDash(controller(gs.Map, c.Name)))
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "TERRITORY\tCONTINENT\tOWNER\tARMIES\tNEIGHBORS")
	for _, t := range gs.Map.Territories() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", t.Name, t.Continent, orDash(t.Owner), t.Armies, strings.Join(t.Neighbors(), " "))
	}
	tw.Flush()
}

func (v *View) showCards(p *warzone.Player) {
	if p == nil {
		return
	}
	cards := p.CardList()
	if len(cards) == 0 {
		fmt.Fprintf(v.w, "%s holds no cards\n", p.Name)
		return
	}
	names := make([]string, len(cards))
	for i, c := range cards {
		names[i] = string(c)
	}
	fmt.Fprintf(v.w, "%s holds: %s\n", p.Name, strings.Join(names, ", "))
}

// ShowOutcome prints how the game ended.
func (v *View) ShowOutcome(o *warzone.Outcome) {
	switch {
	case o == nil:
		fmt.Fprintln(v.w, "game stopped")
	case o.Draw:
		fmt.Fprintf(v.w, "draw after %d turns\n", o.Turn)
	default:
		fmt.Fprintf(v.w, "%s wins on turn %d\n", o.Winner, o.Turn)
	}
}

// controller returns the sole owner of every territory in continent, or "".
func controller(m *warzone.Map, continent string) string {
	owner := ""
	for i, t := range m.ContinentTerritories(continent) {
		if t.Owner == warzone.Neutral || (i > 0 && t.Owner != owner) {
			return ""
		}
		owner = t.Owner
	}
	return owner
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
