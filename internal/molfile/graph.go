// ABOUTME: Heavy-atom molecular graph
// ABOUTME: Hydrogens are dropped and duplicate bonds collapse to one edge

package molfile

// Edge is an undirected bond between two heavy atoms, with U < V.
type Edge struct {
	U, V int
}

// Graph is the simple graph over heavy atoms.
type Graph struct {
	Symbols []string
	Edges   []Edge
	adj     [][]int
}

// HeavyGraph removes hydrogens and returns the remaining connectivity.
func (m *Molecule) HeavyGraph() *Graph {
	index := make([]int, len(m.Atoms))
	g := &Graph{}
	for i, a := range m.Atoms {
		if isHydrogen(a.Symbol) {
			index[i] = -1
			continue
		}
		index[i] = len(g.Symbols)
		g.Symbols = append(g.Symbols, a.Symbol)
	}
	g.adj = make([][]int, len(g.Symbols))

	seen := make(map[Edge]bool, len(m.Bonds))
	for _, b := range m.Bonds {
		u, v := index[b.A], index[b.B]
		if u < 0 || v < 0 {
			continue
		}
		if u > v {
			u, v = v, u
		}
		e := Edge{U: u, V: v}
		if seen[e] {
			continue
		}
		seen[e] = true
		g.Edges = append(g.Edges, e)
		g.adj[u] = append(g.adj[u], v)
		g.adj[v] = append(g.adj[v], u)
	}
	return g
}

// Order is the number of vertices.
func (g *Graph) Order() int {
	return len(g.Symbols)
}

// Degree is the number of neighbors of vertex v.
func (g *Graph) Degree(v int) int {
	return len(g.adj[v])
}

// Neighbors returns the neighbors of v. The slice must not be modified.
func (g *Graph) Neighbors(v int) []int {
	return g.adj[v]
}

// Components counts connected components.
func (g *Graph) Components() int {
	seen := make([]bool, g.Order())
	n := 0
	for start := range seen {
		if seen[start] {
			continue
		}
		n++
		stack := []int{start}
		seen[start] = true
		for len(stack) > 0 {
			v := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, w := range g.adj[v] {
				if !seen[w] {
					seen[w] = true
					stack = append(stack, w)
				}
			}
		}
	}
	return n
}
