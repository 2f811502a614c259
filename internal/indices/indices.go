// ABOUTME: Degree-based topological indices over a heavy-atom graph
// ABOUTME: Thirty bond-additive descriptors under five vertex weighting modes

package indices

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/2389/molindex/internal/analysis"
	"github.com/2389/molindex/internal/molfile"
)

var (
	// ErrNoBonds is returned for molecules without heavy-atom bonds.
	ErrNoBonds = errors.New("molecule has no bonds")
	// ErrNotFinite is returned when a descriptor does not evaluate to a real number.
	ErrNotFinite = errors.New("descriptor is not finite")
)

// FilenameColumn heads every row. It sorts ahead of the lower-case
// descriptor keys.
const FilenameColumn = "Filename"

// Names lists every descriptor key in computation order.
var Names = []string{
	"m1", "m2", "sc", "randic", "a", "g", "h", "hm", "f", "sdd", "sombor",
	"abc", "az", "isi", "bm", "tm", "gh", "gbm", "gtm", "ga", "hg",
	"hbm", "htm", "ha", "bmg", "bmh", "bma", "tmh", "tma", "tmg",
}

// Values maps descriptor name to value.
type Values map[string]float64

// Compute evaluates every descriptor for g under mode. k is only used by
// reverse_degree.
func Compute(g *molfile.Graph, mode analysis.Mode, k int) (Values, error) {
	if len(g.Edges) == 0 {
		return nil, ErrNoBonds
	}

	var values Values
	switch mode {
	case analysis.ModeDegree:
		values = edgeIndices(g.Edges, DegreeWeights(g))
	case analysis.ModeDegreeSum:
		values = edgeIndices(g.Edges, DegreeSumWeights(g))
	case analysis.ModeReverseDegree:
		values = edgeIndices(g.Edges, ReverseDegreeWeights(g, k))
	case analysis.ModeScaledFaceDegree:
		values = scaledFace(g, DegreeWeights(g))
	case analysis.ModeScaledFaceDegreeSum:
		values = scaledFace(g, DegreeSumWeights(g))
	default:
		return nil, fmt.Errorf("%w: %q", analysis.ErrUnknownMode, mode)
	}

	for _, name := range Names {
		v := values[name]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: %s", ErrNotFinite, name)
		}
	}
	return values, nil
}

// Row lays values out as a result row: filename first, then descriptors in
// lexical order.
func Row(filename string, values Values) analysis.Row {
	row := analysis.NewRow()
	row.Set(FilenameColumn, filename)

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		row.Set(k, json.Number(strconv.FormatFloat(values[k], 'f', -1, 64)))
	}
	return row
}

// DegreeWeights weights each vertex by its degree.
func DegreeWeights(g *molfile.Graph) []float64 {
	w := make([]float64, g.Order())
	for v := range w {
		w[v] = float64(g.Degree(v))
	}
	return w
}

// DegreeSumWeights weights each vertex by the sum of its neighbors' degrees.
func DegreeSumWeights(g *molfile.Graph) []float64 {
	w := make([]float64, g.Order())
	for v := range w {
		sum := 0
		for _, n := range g.Neighbors(v) {
			sum += g.Degree(n)
		}
		w[v] = float64(sum)
	}
	return w
}

// ReverseDegreeWeights weights vertex v by max-deg(v)+k, wrapping modulo the
// maximum degree when k exceeds deg(v).
func ReverseDegreeWeights(g *molfile.Graph, k int) []float64 {
	maxDeg := 0
	for v := 0; v < g.Order(); v++ {
		maxDeg = max(maxDeg, g.Degree(v))
	}

	w := make([]float64, g.Order())
	for v := range w {
		deg := g.Degree(v)
		shifted := maxDeg - deg + k
		switch {
		case k <= deg:
			w[v] = float64(shifted)
		case maxDeg == 0:
			w[v] = 0
		case shifted%maxDeg == 0:
			w[v] = float64(maxDeg)
		default:
			w[v] = float64(shifted % maxDeg)
		}
	}
	return w
}

// edgeIndices sums every descriptor over edges. Duplicate edges count
// once per occurrence. Results are rounded to six places.
func edgeIndices(edges []molfile.Edge, w []float64) Values {
	ti := make(Values, len(Names))
	for _, name := range Names {
		ti[name] = 0
	}

	for _, e := range edges {
		x, y := w[e.U], w[e.V]
		sum := x + y
		prod := x * y
		sq := x*x + y*y
		bm := sum + prod
		tm := sq + prod

		ti["m1"] += sum
		ti["m2"] += prod
		if sum > 0 {
			ti["sc"] += 1 / math.Sqrt(sum)
		}
		if prod > 0 {
			ti["randic"] += 1 / math.Sqrt(prod)
		}
		ti["a"] += sum / 2
		ti["g"] += math.Sqrt(prod)
		if sum != 0 {
			ti["h"] += 2 / sum
		}
		ti["hm"] += sum * sum
		ti["f"] += sq
		if prod != 0 {
			ti["sdd"] += sq / prod
		}
		ti["sombor"] += math.Sqrt(sq)
		if prod != 0 {
			ti["abc"] += math.Sqrt((sum - 2) / prod)
		}
		if sum-2 != 0 {
			ti["az"] += math.Pow(prod/(sum-2), 3)
		}
		if sum != 0 {
			ti["isi"] += prod / sum
		}
		ti["bm"] += bm
		ti["tm"] += tm
		ti["gh"] += math.Sqrt(prod) * sum / 2
		if bm != 0 {
			ti["gbm"] += math.Sqrt(prod) / bm
		}
		if tm != 0 {
			ti["gtm"] += math.Sqrt(prod) / tm
		}
		if sum != 0 {
			ti["ga"] += 2 * math.Sqrt(prod) / sum
		}
		if prod != 0 && sum != 0 {
			ti["hg"] += 2 / (math.Sqrt(prod) * sum)
		}
		if sum != 0 && bm != 0 {
			ti["hbm"] += 2 / (bm * sum)
		}
		if sum != 0 && tm != 0 {
			ti["htm"] += 2 / (tm * sum)
		}
		if prod != 0 {
			ti["ha"] += 4 / prod
			ti["bmg"] += bm / math.Sqrt(prod)
		}
		ti["bmh"] += bm * sum / 2
		if sum != 0 {
			ti["bma"] += 2 * bm / sum
		}
		ti["tmh"] += tm * sum / 2
		if sum != 0 {
			ti["tma"] += 2 * tm / sum
		}
		if prod != 0 {
			ti["tmg"] += tm / math.Sqrt(prod)
		}
	}

	for k, v := range ti {
		ti[k] = round6(v)
	}
	return ti
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
