// ABOUTME: Writes a Molecule back out as a V2000 molfile
// ABOUTME: Used to produce fixtures and sample inputs

package molfile

import (
	"bytes"
	"fmt"
)

// Marshal encodes m as a V2000 molfile.
func (m *Molecule) Marshal() []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "%s\n  molindex\n\n", m.Name)
	fmt.Fprintf(&b, "%3d%3d  0  0  0  0  0  0  0  0999 V2000\n", len(m.Atoms), len(m.Bonds))
	for _, a := range m.Atoms {
		fmt.Fprintf(&b, "%10.4f%10.4f%10.4f %-3s 0  0  0  0  0  0  0  0  0  0  0  0\n", a.X, a.Y, a.Z, a.Symbol)
	}
	for _, bond := range m.Bonds {
		order := bond.Order
		if order == 0 {
			order = 1
		}
		fmt.Fprintf(&b, "%3d%3d%3d  0\n", bond.A+1, bond.B+1, order)
	}
	b.WriteString("M  END\n")
	return b.Bytes()
}

// Build makes a Molecule from element symbols and zero-based bonds. Atoms
// are placed on a line; only connectivity matters here.
func Build(name string, symbols []string, bonds [][2]int) *Molecule {
	m := &Molecule{Name: name}
	for i, s := range symbols {
		m.Atoms = append(m.Atoms, Atom{Symbol: s, X: float64(i) * 1.5})
	}
	for _, b := range bonds {
		m.Bonds = append(m.Bonds, Bond{A: b[0], B: b[1], Order: 1})
	}
	return m
}

// Ring returns bonds closing a ring over atoms from..from+size-1.
func Ring(from, size int) [][2]int {
	bonds := make([][2]int, size)
	for i := 0; i < size; i++ {
		bonds[i] = [2]int{from + i, from + (i+1)%size}
	}
	return bonds
}
