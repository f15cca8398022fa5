// Package hyperloglog implements a HyperLogLog cardinality estimator with
// dual sparse/dense register encoding.
//
// A freshly constructed Estimator starts in the Sparse encoding, which
// holds an ordered list of (index, value) pairs at a higher addressing
// precision than the estimator's configured p. Once that list grows past
// a threshold determined by p, the estimator promotes itself — one way,
// never back — to a fixed m = 2^p register array (Dense), trading the
// sparse list's per-entry overhead for a flat array with O(1) incremental
// aggregates.
//
// Add feeds a single 64-bit hash into the live register. Count recomputes
// the cardinality estimate only when a mutation has invalidated the
// cached value. Merge combines two estimators built with the same p and
// hashBits, dispatching across all four sparse/dense combinations without
// mutating its argument.
//
// The package performs no hashing of its own — callers are expected to
// reduce arbitrary values to uint64 hashes upstream (see hashutil) — and
// carries no serialization format beyond the raw slices exposed by
// DenseBytes/SparseEntries (see codec for a self-describing envelope).
package hyperloglog
