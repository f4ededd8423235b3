// Package material generates, validates and persists the random material of a
// CBP_KRP model: a pool of sparse random basis vectors and the two index
// tables that assemble projection columns from it.
//
// One Material is one random realization of the algorithm. It is immutable
// once built and may be shared by any number of engines and goroutines.
//
// Generation draws from a single math/rand/v2 PCG stream in this order:
//
//  1. For each pool vector p in [0, P): a partial Fisher-Yates shuffle of
//     [0, C) selects S distinct positions (S draws of IntN), the positions
//     are sorted ascending, then one IntN(2) draw per position picks the sign
//     (0 is negative). Every nonzero has magnitude 1/sqrt(S).
//  2. Index table A: K*T draws of IntN(P), row-major (slot k, repeat t).
//  3. Index table B: the same, from the continuing stream.
//
// Projection column k of set A is sum_t pool[A[k][t]] / sqrt(T), and likewise
// for set B.
package material
