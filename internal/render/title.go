// ABOUTME: Result titles per analysis mode
// ABOUTME: reverse_degree appends k in inline math notation for the typesetter

package render

import (
	"fmt"

	"github.com/2389/molindex/internal/analysis"
)

// fallbackTitle is used for modes missing from the lookup table.
const fallbackTitle = "Analysis Results"

var modeTitles = map[analysis.Mode]string{
	analysis.ModeDegree:              "Degree Descriptors",
	analysis.ModeDegreeSum:           "Degree Sum Descriptors",
	analysis.ModeReverseDegree:       "Reverse Degree Descriptors",
	analysis.ModeScaledFaceDegree:    "Scaled Face Degree Descriptors",
	analysis.ModeScaledFaceDegreeSum: "Scaled Face Degree Sum Descriptors",
}

// Title returns the display title for mode. For parametric modes the value of
// k is appended as inline math delimited by \( and \).
func Title(mode analysis.Mode, k int) string {
	title, ok := modeTitles[mode]
	if !ok {
		title = fallbackTitle
	}
	if mode.TakesK() {
		title += fmt.Sprintf(` - \(k = %d\)`, k)
	}
	return title
}
