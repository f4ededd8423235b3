// Package cbp implements the two CBP_KRP forward engines.
//
// Both engines compute, for every sample of a (N, C, H, W) feature batch and
// every spatial position with channel vector x,
//
//	phi(x) = (C / sqrt(K)) * (A x) ⊙ (B x)
//
// where A and B are the K x C projection sets assembled from the shared
// material, and aggregate phi over the H*W positions (sum by default). The
// C/sqrt(K) factor makes <phi(x), phi(y)> an unbiased estimate of (x·y)^2 for
// pool entries of variance 1/C.
//
// DenseEngine multiplies through gonum BLAS. SparseEngine multiplies a CSR
// copy of the same matrix, or with sparse multiplication switched off, the
// dense matrix with a loop in the same accumulation order, so both of its
// modes return identical values.
package cbp
