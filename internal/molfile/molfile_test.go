// ABOUTME: Tests for molfile parsing, hydrogen removal and ring perception
// ABOUTME: Fixtures are generated with Build and Marshal

package molfile

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ethanol() *Molecule {
	// C-C-O with all six hydrogens
	return Build("ethanol",
		[]string{"C", "C", "O", "H", "H", "H", "H", "H", "H"},
		[][2]int{{0, 1}, {1, 2}, {0, 3}, {0, 4}, {0, 5}, {1, 6}, {1, 7}, {2, 8}},
	)
}

func TestParse_RoundTrip(t *testing.T) {
	mol, err := Parse(bytes.NewReader(ethanol().Marshal()))
	require.NoError(t, err)

	assert.Equal(t, "ethanol", mol.Name)
	assert.Len(t, mol.Atoms, 9)
	assert.Len(t, mol.Bonds, 8)
	assert.Equal(t, "O", mol.Atoms[2].Symbol)
	assert.InDelta(t, 3.0, mol.Atoms[2].X, 1e-9)
	assert.Equal(t, Bond{A: 1, B: 2, Order: 1}, mol.Bonds[1])
}

func TestHeavyGraph_RemovesHydrogens(t *testing.T) {
	g := ethanol().HeavyGraph()

	assert.Equal(t, 3, g.Order())
	assert.Equal(t, []Edge{{0, 1}, {1, 2}}, g.Edges)
	assert.Equal(t, 1, g.Degree(0))
	assert.Equal(t, 2, g.Degree(1))
	assert.Equal(t, []int{0, 2}, g.Neighbors(1))
	assert.Equal(t, 1, g.Components())
	assert.Empty(t, g.Rings())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"empty", "", ErrTruncated},
		{"v3000", "x\n\n\n  0  0  0     0  0            999 V3000\n", ErrUnsupported},
		{"bad counts", "x\n\n\nabcdef\n", ErrBadCounts},
		{"missing atoms", "x\n\n\n  2  1  0  0  0  0  0  0  0  0999 V2000\n    0.0000    0.0000    0.0000 C   0\n", ErrTruncated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			assert.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("bond out of range", func(t *testing.T) {
		m := Build("bad", []string{"C", "C"}, [][2]int{{0, 5}})
		_, err := Parse(bytes.NewReader(m.Marshal()))
		assert.Error(t, err)
	})
}

func TestRings_Cyclohexane(t *testing.T) {
	g := Build("cyclohexane", []string{"C", "C", "C", "C", "C", "C"}, Ring(0, 6)).HeavyGraph()

	rings := g.Rings()
	require.Len(t, rings, 1)
	assert.Len(t, rings[0], 6)
}

func TestRings_Naphthalene(t *testing.T) {
	// Two fused six-membered rings sharing the 0-5 bond.
	bonds := Ring(0, 6)
	bonds = append(bonds, [2]int{5, 6}, [2]int{6, 7}, [2]int{7, 8}, [2]int{8, 9}, [2]int{9, 0})
	symbols := make([]string, 10)
	for i := range symbols {
		symbols[i] = "C"
	}
	g := Build("naphthalene", symbols, bonds).HeavyGraph()

	rings := g.Rings()
	require.Len(t, rings, 2)
	assert.Len(t, rings[0], 6)
	assert.Len(t, rings[1], 6)
	assert.NotEqual(t, ringEdges(rings[0]), ringEdges(rings[1]))
}

func TestRings_Spiro(t *testing.T) {
	// A three-ring and a four-ring joined at atom 0, with a tail.
	bonds := [][2]int{{0, 1}, {1, 2}, {2, 0}, {0, 3}, {3, 4}, {4, 5}, {5, 0}, {5, 6}}
	g := Build("spiro", []string{"C", "C", "C", "C", "C", "C", "O"}, bonds).HeavyGraph()

	rings := g.Rings()
	require.Len(t, rings, 2)
	assert.Len(t, rings[0], 3)
	assert.Len(t, rings[1], 4)
}

func ringEdges(ring []int) map[Edge]bool {
	out := map[Edge]bool{}
	for i := range ring {
		a, b := ring[i], ring[(i+1)%len(ring)]
		if a > b {
			a, b = b, a
		}
		out[Edge{a, b}] = true
	}
	return out
}
