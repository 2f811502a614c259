// ABOUTME: Ring perception over the heavy-atom graph
// ABOUTME: Picks a smallest set of smallest rings from per-bond shortest cycles

package molfile

import (
	"math/bits"
	"sort"
)

// Rings returns a smallest set of smallest rings. There are exactly
// edges - vertices + components of them; each is an ordered vertex cycle.
//
// Candidates are the shortest cycle through every bond. They are taken in
// size order and kept when independent, over GF(2), of the rings kept so far.
func (g *Graph) Rings() [][]int {
	want := len(g.Edges) - g.Order() + g.Components()
	if want <= 0 {
		return nil
	}

	edgeIndex := make(map[Edge]int, len(g.Edges))
	for i, e := range g.Edges {
		edgeIndex[e] = i
	}
	words := (len(g.Edges) + 63) / 64

	type candidate struct {
		verts []int
		bits  []uint64
	}
	var candidates []candidate
	seen := map[string]bool{}
	for _, e := range g.Edges {
		path := g.shortestPathAvoiding(e.U, e.V, e)
		if path == nil {
			continue
		}
		set := make([]uint64, words)
		for i := range path {
			a, b := path[i], path[(i+1)%len(path)]
			if a > b {
				a, b = b, a
			}
			idx := edgeIndex[Edge{U: a, V: b}]
			set[idx/64] |= 1 << (idx % 64)
		}
		key := bitsKey(set)
		if seen[key] {
			continue
		}
		seen[key] = true
		candidates = append(candidates, candidate{verts: path, bits: set})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return len(candidates[i].verts) < len(candidates[j].verts)
	})

	basis := map[int][]uint64{}
	var rings [][]int
	for _, c := range candidates {
		if len(rings) == want {
			break
		}
		v := append([]uint64(nil), c.bits...)
		for {
			p := lowestBit(v)
			if p < 0 {
				break
			}
			row, ok := basis[p]
			if !ok {
				basis[p] = v
				rings = append(rings, c.verts)
				break
			}
			for i := range v {
				v[i] ^= row[i]
			}
		}
	}
	return rings
}

// shortestPathAvoiding finds the shortest path from src to dst that does not
// use edge skip. The result starts at src and ends at dst.
func (g *Graph) shortestPathAvoiding(src, dst int, skip Edge) []int {
	prev := make([]int, g.Order())
	for i := range prev {
		prev[i] = -1
	}
	prev[src] = src
	queue := []int{src}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		if v == dst {
			break
		}
		for _, w := range g.adj[v] {
			if prev[w] >= 0 {
				continue
			}
			if (v == skip.U && w == skip.V) || (v == skip.V && w == skip.U) {
				continue
			}
			prev[w] = v
			queue = append(queue, w)
		}
	}
	if prev[dst] < 0 {
		return nil
	}

	var path []int
	for v := dst; v != src; v = prev[v] {
		path = append(path, v)
	}
	path = append(path, src)
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func lowestBit(v []uint64) int {
	for i, w := range v {
		if w != 0 {
			return i*64 + bits.TrailingZeros64(w)
		}
	}
	return -1
}

func bitsKey(v []uint64) string {
	b := make([]byte, 0, len(v)*8)
	for _, w := range v {
		for s := 0; s < 64; s += 8 {
			b = append(b, byte(w>>s))
		}
	}
	return string(b)
}
