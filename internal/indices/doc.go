// Package indices computes degree-based topological indices of molecules.
//
// Every descriptor is a sum over bonds of a function of the two endpoint
// weights. The five modes differ in how vertices are weighted and, for the
// scaled face modes, in how ring bonds and pendant bonds are combined.
package indices
