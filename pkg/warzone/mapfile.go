package warzone

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

const (
	sectionNone       = ""
	sectionContinents = "[continents]"
	sectionCountries  = "[countries]"
	sectionBorders    = "[borders]"
)

// ParseMap reads a map in the [continents]/[countries]/[borders] text format.
// Indices are 1-based positions into the preceding section's declaration order.
// Extra trailing fields (colors, coordinates) are ignored, as are comments (;)
// and unknown sections. A duplicate country name does not fail the parse; it
// yields a map that Validate rejects.
func ParseMap(r io.Reader) (*Map, error) {
	m := NewMap()
	var continents []string           // 1-based continent index -> name
	countries := make(map[int]string) // country index -> name

	section := sectionNone
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		if strings.HasPrefix(line, "[") {
			section = strings.ToLower(line)
			continue
		}
		fields := strings.Fields(line)

		switch section {
		case sectionContinents:
			if len(fields) < 2 {
				return nil, &MapFormatError{lineNo, "continent needs a name and a bonus"}
			}
			bonus, err := strconv.Atoi(fields[1])
			if err != nil || bonus < 0 {
				return nil, &MapFormatError{lineNo, fmt.Sprintf("bad continent bonus %q", fields[1])}
			}
			if err := m.AddContinent(fields[0], bonus); err != nil {
				return nil, &MapFormatError{lineNo, err.Error()}
			}
			continents = append(continents, fields[0])

		case sectionCountries:
			if len(fields) < 3 {
				return nil, &MapFormatError{lineNo, "country needs an index, a name and a continent index"}
			}
			idx, err := strconv.Atoi(fields[0])
			if err != nil || idx < 1 {
				return nil, &MapFormatError{lineNo, fmt.Sprintf("bad country index %q", fields[0])}
			}
			if _, dup := countries[idx]; dup {
				return nil, &MapFormatError{lineNo, fmt.Sprintf("country index %d declared twice", idx)}
			}
			ci, err := strconv.Atoi(fields[2])
			if err != nil || ci < 1 || ci > len(continents) {
				return nil, &MapFormatError{lineNo, fmt.Sprintf("bad continent index %q", fields[2])}
			}
			countries[idx] = fields[1]
			if err := m.AddTerritory(fields[1], continents[ci-1]); err != nil && !errors.Is(err, ErrDuplicateName) {
				return nil, &MapFormatError{lineNo, err.Error()}
			}

		case sectionBorders:
			idx, err := strconv.Atoi(fields[0])
			if err != nil {
				return nil, &MapFormatError{lineNo, fmt.Sprintf("bad border index %q", fields[0])}
			}
			from, ok := countries[idx]
			if !ok {
				return nil, &MapFormatError{lineNo, fmt.Sprintf("border for undeclared country %d", idx)}
			}
			for _, f := range fields[1:] {
				n, err := strconv.Atoi(f)
				if err != nil {
					return nil, &MapFormatError{lineNo, fmt.Sprintf("bad neighbor index %q", f)}
				}
				to, ok := countries[n]
				if !ok {
					return nil, &MapFormatError{lineNo, fmt.Sprintf("neighbor %d is not a declared country", n)}
				}
				if from == to {
					continue
				}
				if err := m.AddNeighbor(from, to); err != nil {
					return nil, &MapFormatError{lineNo, err.Error()}
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read map: %w", err)
	}
	return m, nil
}

// WriteMap writes m in the format read by ParseMap.
func WriteMap(w io.Writer, m *Map) error {
	bw := bufio.NewWriter(w)

	contIndex := make(map[string]int)
	fmt.Fprintln(bw, sectionContinents)
	for i, c := range m.Continents() {
		contIndex[c.Name] = i + 1
		fmt.Fprintf(bw, "%s %d\n", c.Name, c.Bonus)
	}

	territories := m.Territories()
	terrIndex := make(map[string]int, len(territories))
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, sectionCountries)
	for i, t := range territories {
		ci, ok := contIndex[t.Continent]
		if !ok {
			panic(fmt.Sprintf("warzone: territory %s references missing continent %s", t.Name, t.Continent))
		}
		terrIndex[t.Name] = i + 1
		fmt.Fprintf(bw, "%d %s %d\n", i+1, t.Name, ci)
	}

	fmt.Fprintln(bw)
	fmt.Fprintln(bw, sectionBorders)
	for _, t := range territories {
		idx := []int{terrIndex[t.Name]}
		var ns []int
		for _, n := range t.Neighbors() {
			ns = append(ns, terrIndex[n])
		}
		sort.Ints(ns)
		idx = append(idx, ns...)
		parts := make([]string, len(idx))
		for i, v := range idx {
			parts[i] = strconv.Itoa(v)
		}
		fmt.Fprintln(bw, strings.Join(parts, " "))
	}
	return bw.Flush()
}

// LoadMapFile parses the map file at path.
func LoadMapFile(path string) (*Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open map: %w", err)
	}
	defer f.Close()
	m, err := ParseMap(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return m, nil
}

// SaveMapFile writes m to path, replacing any existing file.
func SaveMapFile(path string, m *Map) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create map: %w", err)
	}
	if err := WriteMap(f, m); err != nil {
		f.Close()
		return fmt.Errorf("write map: %w", err)
	}
	return f.Close()
}
