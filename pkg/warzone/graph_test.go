package warzone

import (
	"errors"
	"slices"
	"testing"
)

func TestMap_AddNeighbor_Symmetric(t *testing.T) {
	m := lineMap(t, 0, "a", "b")
	if !m.Adjacent("a", "b") || !m.Adjacent("b", "a") {
		t.Fatal("adjacency should be symmetric")
	}
	mustNoErr(t, m.RemoveNeighbor("b", "a"))
	if m.Adjacent("a", "b") || m.Adjacent("b", "a") {
		t.Fatal("removing one direction should remove both")
	}
}

func TestMap_AddNeighbor_Rejects(t *testing.T) {
	m := lineMap(t, 0, "a")
	if err := m.AddNeighbor("a", "a"); !errors.Is(err, ErrUsage) {
		t.Errorf("self border: expected ErrUsage, got %v", err)
	}
	if err := m.AddNeighbor("a", "nowhere"); !errors.Is(err, ErrTerritoryNotFound) {
		t.Errorf("missing territory: expected ErrTerritoryNotFound, got %v", err)
	}
}

func TestMap_AddTerritory_UnknownContinent(t *testing.T) {
	m := NewMap()
	if err := m.AddTerritory("a", "atlantis"); !errors.Is(err, ErrUnknownContinent) {
		t.Fatalf("expected ErrUnknownContinent, got %v", err)
	}
	if m.TerritoryCount() != 0 {
		t.Error("failed add should not create a territory")
	}
}

func TestMap_AddTerritory_DuplicateMarksNonUnique(t *testing.T) {
	m := lineMap(t, 0, "a", "b")
	if err := m.AddTerritory("a", "main"); !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}
	if !m.NonUnique() {
		t.Error("duplicate add should mark the map non-unique")
	}
	// The flag survives removing the duplicate.
	mustNoErr(t, m.RemoveTerritory("a"))
	if !m.NonUnique() {
		t.Error("non-unique flag should persist")
	}
	if Validate(m).UniqueNames {
		t.Error("Validate should report non-unique names")
	}
}

func TestMap_AddContinent_Rejects(t *testing.T) {
	m := NewMap()
	mustNoErr(t, m.AddContinent("asia", 7))
	if err := m.AddContinent("asia", 2); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("expected ErrDuplicateName, got %v", err)
	}
	if err := m.AddContinent("europe", -1); !errors.Is(err, ErrUsage) {
		t.Errorf("expected ErrUsage for negative bonus, got %v", err)
	}
}

func TestMap_RemoveContinent_Cascades(t *testing.T) {
	m := NewMap()
	mustNoErr(t, m.AddContinent("north", 1))
	mustNoErr(t, m.AddContinent("south", 1))
	mustNoErr(t, m.AddTerritory("n1", "north"))
	mustNoErr(t, m.AddTerritory("n2", "north"))
	mustNoErr(t, m.AddTerritory("s1", "south"))
	mustNoErr(t, m.AddNeighbor("n1", "n2"))
	mustNoErr(t, m.AddNeighbor("n2", "s1"))

	mustNoErr(t, m.RemoveContinent("north"))

	if m.Continent("north") != nil {
		t.Error("continent should be gone")
	}
	if m.TerritoryCount() != 1 {
		t.Fatalf("expected 1 territory left, got %d", m.TerritoryCount())
	}
	s1 := mustTerritory(t, m, "s1")
	if len(s1.Neighbors()) != 0 {
		t.Errorf("s1 should have no neighbors left, got %v", s1.Neighbors())
	}
	if err := m.RemoveContinent("north"); !errors.Is(err, ErrUnknownContinent) {
		t.Errorf("second remove: expected ErrUnknownContinent, got %v", err)
	}
}

func TestMap_RemoveTerritory_DropsEdges(t *testing.T) {
	m := lineMap(t, 0, "a", "b", "c")
	mustNoErr(t, m.RemoveTerritory("b"))
	if got := mustTerritory(t, m, "a").Neighbors(); len(got) != 0 {
		t.Errorf("a should have no neighbors, got %v", got)
	}
	if _, err := m.Territory("b"); !errors.Is(err, ErrTerritoryNotFound) {
		t.Errorf("expected ErrTerritoryNotFound, got %v", err)
	}
}

func TestMap_DeclarationOrder(t *testing.T) {
	m := lineMap(t, 0, "zulu", "alpha", "mike")
	var names []string
	for _, tr := range m.Territories() {
		names = append(names, tr.Name)
	}
	if !slices.Equal(names, []string{"zulu", "alpha", "mike"}) {
		t.Errorf("expected declaration order, got %v", names)
	}
	if got := mustTerritory(t, m, "alpha").Neighbors(); !slices.Equal(got, []string{"mike", "zulu"}) {
		t.Errorf("neighbors should be sorted, got %v", got)
	}
}

func TestMap_Clone_Independent(t *testing.T) {
	m := lineMap(t, 2, "a", "b")
	mustTerritory(t, m, "a").Armies = 4
	c := m.Clone()

	mustTerritory(t, m, "a").Armies = 9
	mustNoErr(t, m.RemoveNeighbor("a", "b"))
	m.Continent("main").Bonus = 5

	if mustTerritory(t, c, "a").Armies != 4 {
		t.Error("clone armies should be independent")
	}
	if !c.Adjacent("a", "b") {
		t.Error("clone adjacency should be independent")
	}
	if c.Continent("main").Bonus != 2 {
		t.Error("clone continents should be independent")
	}
}
