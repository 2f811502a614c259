// ABOUTME: Computes a result row straight from molfile bytes
// ABOUTME: Parse, drop hydrogens, then evaluate the descriptors

package indices

import (
	"fmt"
	"io"

	"github.com/2389/molindex/internal/analysis"
	"github.com/2389/molindex/internal/molfile"
)

// ComputeFile parses r and returns the descriptor row for filename.
func ComputeFile(r io.Reader, filename string, mode analysis.Mode, k int) (analysis.Row, error) {
	mol, err := molfile.Parse(r)
	if err != nil {
		return analysis.Row{}, fmt.Errorf("parsing %s: %w", filename, err)
	}
	values, err := Compute(mol.HeavyGraph(), mode, k)
	if err != nil {
		return analysis.Row{}, fmt.Errorf("computing %s: %w", filename, err)
	}
	return Row(filename, values), nil
}
