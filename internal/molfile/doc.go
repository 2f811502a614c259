// Package molfile reads and writes MDL V2000 molfiles and derives the
// hydrogen-suppressed graph used for descriptor computation.
package molfile
