// ABOUTME: Analysis modes understood by the backend and per-mode usage snapshots
// ABOUTME: Modes travel as exact lowercase tokens; reverse_degree carries k

package analysis

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMode is returned when a mode token is not one of the known modes.
var ErrUnknownMode = errors.New("unknown mode")

// Mode selects the descriptor family computed by the analysis backend.
type Mode string

const (
	ModeDegree              Mode = "degree"
	ModeDegreeSum           Mode = "degreesum"
	ModeReverseDegree       Mode = "reverse_degree"
	ModeScaledFaceDegree    Mode = "scaled_face_degree"
	ModeScaledFaceDegreeSum Mode = "scaled_face_degree_sum"
)

// Modes lists every mode in display order.
var Modes = []Mode{
	ModeDegree,
	ModeDegreeSum,
	ModeReverseDegree,
	ModeScaledFaceDegree,
	ModeScaledFaceDegreeSum,
}

// DefaultK is used for reverse_degree whenever no usable k was supplied.
const DefaultK = 1

// ParseMode validates a mode token. Surrounding whitespace is ignored, case is not.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.TrimSpace(s))
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
	return m, nil
}

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool {
	for _, known := range Modes {
		if m == known {
			return true
		}
	}
	return false
}

// TakesK reports whether the mode requires the auxiliary integer parameter.
func (m Mode) TakesK() bool {
	return m == ModeReverseDegree
}

func (m Mode) String() string {
	return string(m)
}

// UsageStatus maps each mode to whether the current user has exhausted it.
// Modes missing from the map are treated as available.
type UsageStatus map[Mode]bool

// Exhausted reports whether mode m is used up.
func (u UsageStatus) Exhausted(m Mode) bool {
	return u[m]
}

// ExhaustedModes returns the exhausted modes in display order.
func (u UsageStatus) ExhaustedModes() []Mode {
	var out []Mode
	for _, m := range Modes {
		if u[m] {
			out = append(out, m)
		}
	}
	return out
}

// NewUsageStatus returns a snapshot with every mode available.
func NewUsageStatus() UsageStatus {
	u := make(UsageStatus, len(Modes))
	for _, m := range Modes {
		u[m] = false
	}
	return u
}
