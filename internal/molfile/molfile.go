// ABOUTME: Parser for MDL molfiles (V2000 connection tables)
// ABOUTME: Builds the heavy-atom graph with explicit hydrogens removed

package molfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Parse errors
var (
	ErrTruncated   = errors.New("molfile truncated")
	ErrUnsupported = errors.New("unsupported molfile version")
	ErrBadCounts   = errors.New("malformed counts line")
)

// Atom is one entry of the atom block.
type Atom struct {
	Symbol  string
	X, Y, Z float64
}

// Bond connects two atoms by zero-based index.
type Bond struct {
	A, B  int
	Order int
}

// Molecule is a parsed connection table.
type Molecule struct {
	Name  string
	Atoms []Atom
	Bonds []Bond
}

// Parse reads a V2000 molfile.
func Parse(r io.Reader) (*Molecule, error) {
	scanner := bufio.NewScanner(r)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading molfile: %w", err)
	}
	if len(lines) < 4 {
		return nil, fmt.Errorf("%w: missing header or counts line", ErrTruncated)
	}

	counts := lines[3]
	if strings.Contains(counts, "V3000") {
		return nil, fmt.Errorf("%w: V3000", ErrUnsupported)
	}
	nAtoms, err := fixedInt(counts, 0, 3)
	if err != nil {
		return nil, fmt.Errorf("%w: atom count: %v", ErrBadCounts, err)
	}
	nBonds, err := fixedInt(counts, 3, 6)
	if err != nil {
		return nil, fmt.Errorf("%w: bond count: %v", ErrBadCounts, err)
	}
	if len(lines) < 4+nAtoms+nBonds {
		return nil, fmt.Errorf("%w: expected %d atoms and %d bonds", ErrTruncated, nAtoms, nBonds)
	}

	mol := &Molecule{
		Name:  strings.TrimSpace(lines[0]),
		Atoms: make([]Atom, 0, nAtoms),
		Bonds: make([]Bond, 0, nBonds),
	}

	for i := 0; i < nAtoms; i++ {
		atom, err := parseAtom(lines[4+i])
		if err != nil {
			return nil, fmt.Errorf("atom %d: %w", i+1, err)
		}
		mol.Atoms = append(mol.Atoms, atom)
	}

	for i := 0; i < nBonds; i++ {
		bond, err := parseBond(lines[4+nAtoms+i], nAtoms)
		if err != nil {
			return nil, fmt.Errorf("bond %d: %w", i+1, err)
		}
		mol.Bonds = append(mol.Bonds, bond)
	}

	return mol, nil
}

// parseAtom reads xxxxx.xxxxyyyyy.yyyyzzzzz.zzzz aaa. Lines shorter than
// the fixed layout fall back to whitespace separated fields.
func parseAtom(line string) (Atom, error) {
	var coords [3]string
	var symbol string
	if len(line) >= 34 {
		coords = [3]string{line[0:10], line[10:20], line[20:30]}
		symbol = line[31:34]
	} else {
		fields := strings.Fields(line)
		if len(fields) < 4 {
			return Atom{}, fmt.Errorf("%w: short atom line %q", ErrTruncated, line)
		}
		coords = [3]string{fields[0], fields[1], fields[2]}
		symbol = fields[3]
	}

	var xyz [3]float64
	for i, c := range coords {
		v, err := strconv.ParseFloat(strings.TrimSpace(c), 64)
		if err != nil {
			return Atom{}, fmt.Errorf("coordinate %d: %w", i+1, err)
		}
		xyz[i] = v
	}
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return Atom{}, fmt.Errorf("missing element symbol in %q", line)
	}
	return Atom{Symbol: symbol, X: xyz[0], Y: xyz[1], Z: xyz[2]}, nil
}

// parseBond reads 111222ttt with one-based atom numbers.
func parseBond(line string, nAtoms int) (Bond, error) {
	a, err := fixedInt(line, 0, 3)
	if err != nil {
		return Bond{}, fmt.Errorf("first atom: %w", err)
	}
	b, err := fixedInt(line, 3, 6)
	if err != nil {
		return Bond{}, fmt.Errorf("second atom: %w", err)
	}
	order, err := fixedInt(line, 6, 9)
	if err != nil {
		return Bond{}, fmt.Errorf("bond type: %w", err)
	}
	if a < 1 || a > nAtoms || b < 1 || b > nAtoms {
		return Bond{}, fmt.Errorf("atom index out of range in %q", line)
	}
	if a == b {
		return Bond{}, fmt.Errorf("self bond on atom %d", a)
	}
	return Bond{A: a - 1, B: b - 1, Order: order}, nil
}

// fixedInt parses the columns [from, to) of line.
func fixedInt(line string, from, to int) (int, error) {
	if len(line) < to {
		if len(line) <= from {
			return 0, fmt.Errorf("%w: column %d missing", ErrTruncated, from+1)
		}
		to = len(line)
	}
	return strconv.Atoi(strings.TrimSpace(line[from:to]))
}

func isHydrogen(symbol string) bool {
	switch symbol {
	case "H", "D", "T":
		return true
	}
	return false
}
