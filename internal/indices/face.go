// ABOUTME: Scaled face descriptors combining ring boundary and ring interior terms
// ABOUTME: Acyclic molecules fall back to the plain bond sum

package indices

import (
	"github.com/2389/molindex/internal/molfile"
)

// scaledFace weights boundary bonds (bonds in exactly one ring, plus pendant
// bonds counted twice when a weight-one vertex exists) against per-ring
// averages, scaled by bonds / (rings + 1).
func scaledFace(g *molfile.Graph, w []float64) Values {
	rings := g.Rings()
	if len(rings) == 0 {
		return edgeIndices(g.Edges, w)
	}

	ringCount := map[molfile.Edge]int{}
	var order []molfile.Edge
	for _, ring := range rings {
		for _, e := range ringEdges(ring) {
			if ringCount[e] == 0 {
				order = append(order, e)
			}
			ringCount[e]++
		}
	}
	var boundary []molfile.Edge
	for _, e := range order {
		if ringCount[e] == 1 {
			boundary = append(boundary, e)
		}
	}

	hasWeightOne := false
	for _, x := range w {
		if x == 1 {
			hasWeightOne = true
			break
		}
	}
	if hasWeightOne {
		for _, e := range g.Edges {
			if g.Degree(e.U) == 1 || g.Degree(e.V) == 1 {
				boundary = append(boundary, e, e)
			}
		}
	}

	edgeTerm := make(Values, len(Names))
	if len(boundary) > 0 {
		edgeTerm = edgeIndices(boundary, w)
	}

	ringTerm := make(Values, len(Names))
	for _, ring := range rings {
		ti := edgeIndices(ringEdges(ring), w)
		for _, name := range Names {
			ringTerm[name] += ti[name] / float64(len(ring))
		}
	}

	scale := float64(len(g.Edges)) / float64(len(rings)+1)
	totals := make(Values, len(Names))
	for _, name := range Names {
		term := ringTerm[name]
		if len(boundary) > 0 {
			term += edgeTerm[name] / float64(len(boundary))
		}
		if scale == 0 {
			totals[name] = 0
			continue
		}
		totals[name] = round6(scale * term)
	}
	return totals
}

func ringEdges(ring []int) []molfile.Edge {
	edges := make([]molfile.Edge, len(ring))
	for i := range ring {
		a, b := ring[i], ring[(i+1)%len(ring)]
		if a > b {
			a, b = b, a
		}
		edges[i] = molfile.Edge{U: a, V: b}
	}
	return edges
}
