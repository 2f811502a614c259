// Package analysis defines the domain types shared by the molindex client and
// the development backend: computation modes, per-mode usage snapshots,
// candidate files and result rows.
//
// # Modes
//
// The analysis backend understands a fixed set of modes, transmitted as exact
// lowercase tokens:
//
//	degree, degreesum, reverse_degree, scaled_face_degree, scaled_face_degree_sum
//
// Only reverse_degree takes the auxiliary integer parameter k.
//
// # Rows
//
// Result rows are JSON objects whose key order matters for display. Row keeps
// the keys in wire order and decodes numbers as json.Number so integers and
// non-integers can be told apart when formatting.
package analysis
