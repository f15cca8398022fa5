package hyperloglog

import "math"

// Estimator approximates the number of distinct hash values submitted to it
// via Add, trading exactness for sub-linear memory. It starts in the
// Sparse encoding and promotes itself to Dense, irreversibly, once the
// sparse representation would no longer be smaller.
type Estimator struct {
	cfg      config
	encoding Encoding

	dense  *denseRegister
	sparse *sparseRegister

	cachedCount uint64
	cacheValid  bool
}

// Add submits a 64-bit hash for inclusion in the cardinality estimate. The
// caller is responsible for producing a well-distributed hash (see the
// hashutil package) — Add itself performs no hashing.
func (e *Estimator) Add(hash uint64) {
	switch e.encoding {
	case Dense:
		e.dense.add(hash, e.cfg.p)
	default:
		e.sparse.add(hash)
		if e.sparse.size() > e.cfg.promotionThreshold {
			e.promote()
		}
	}
	e.cacheValid = false
}

// promote projects the current sparse state into a freshly allocated dense
// register and releases the sparse one. Promotion is one-way: once
// encoding is Dense it never reverts to Sparse.
func (e *Estimator) promote() {
	dense := newDenseRegister(e.cfg.m, e.cfg.bitPack)
	projectSparseToDense(e.sparse.snapshot(), dense, e.cfg.p)
	e.dense = dense
	e.sparse = nil
	e.encoding = Dense
}

// Count returns the estimated number of distinct hashes submitted so far,
// recomputing only if a mutation has invalidated the cache since the last
// call.
func (e *Estimator) Count() uint64 {
	if e.cacheValid {
		return e.cachedCount
	}

	var count uint64
	if e.encoding == Dense {
		count = e.countDense()
	} else {
		count = e.countSparse()
	}

	e.cachedCount = count
	e.cacheValid = true
	return count
}

func (e *Estimator) countSparse() uint64 {
	mPrime := 1 << uint(pPrime)
	zeros := mPrime - e.sparse.exactSize()
	return uint64(linearCount(float64(mPrime), float64(zeros)))
}

func (e *Estimator) countDense() uint64 {
	sum := e.dense.sumInversePow2()
	z := e.dense.numZeros
	m := e.cfg.m

	est := math.Trunc(e.cfg.alphaMM / sum)

	if est <= 2.5*float64(m) && z > 0 {
		est = float64(linearCount(float64(m), float64(z)))
	}

	if e.cfg.effBits < 64 {
		pow := math.Exp2(float64(e.cfg.effBits))
		if est > 0.033333*pow {
			// The source this was ported from computes this guard's
			// threshold as (1/30)*pow in integer arithmetic, which
			// truncates to 0 and makes the branch unconditional once the
			// outer guard above is met. Preserved as E > 0 rather than
			// "corrected" to pow/30.
			if est > 0 {
				est = math.Trunc(-pow * math.Log(1-est/pow))
			}
		}
	}

	return uint64(est)
}

// linearCount is Flajolet's small-range correction: round(size*ln(size/zeros)).
// The caller guarantees zeros > 0.
func linearCount(size, zeros float64) uint64 {
	return uint64(math.Round(size * math.Log(size/zeros)))
}

// StandardError returns the estimator's theoretical relative standard
// error, 1.04/sqrt(m), independent of how many hashes have been added.
func (e *Estimator) StandardError() float64 {
	return standardErrorFor(e.cfg.m)
}

// Encoding reports which register representation currently backs e.
func (e *Estimator) Encoding() Encoding { return e.encoding }

// P returns the configured register-index bit width.
func (e *Estimator) P() int { return e.cfg.p }

// HashBits returns the configured effective hash width.
func (e *Estimator) HashBits() int { return e.cfg.hashBits }

// Merge folds other's observations into e. e and other must share the same
// p and hashBits, or Merge returns a *MergeMismatchError and leaves e
// untouched. other is never mutated.
func (e *Estimator) Merge(other *Estimator) error {
	if e.cfg.p != other.cfg.p {
		return &MergeMismatchError{Field: "p", Got: e.cfg.p, Other: other.cfg.p}
	}
	if e.cfg.hashBits != other.cfg.hashBits {
		return &MergeMismatchError{Field: "hashBits", Got: e.cfg.hashBits, Other: other.cfg.hashBits}
	}

	switch {
	case e.encoding == Sparse && other.encoding == Sparse:
		e.sparse.merge(other.sparse)
		if e.sparse.size() > e.cfg.promotionThreshold {
			e.promote()
		}
	case e.encoding == Dense && other.encoding == Dense:
		if err := e.dense.merge(other.dense); err != nil {
			return err
		}
	case e.encoding == Sparse && other.encoding == Dense:
		e.promote()
		if err := e.dense.merge(other.dense); err != nil {
			return err
		}
	default: // Dense, Sparse
		tmp := newDenseRegister(e.cfg.m, e.cfg.bitPack)
		projectSparseToDense(other.sparse.snapshot(), tmp, e.cfg.p)
		if err := e.dense.merge(tmp); err != nil {
			return err
		}
	}

	e.cacheValid = false
	return nil
}

// DenseBytes returns a copy of the dense register array in the canonical
// wire format (§6), promoting e to Dense first if it is still Sparse.
func (e *Estimator) DenseBytes() []byte {
	if e.encoding != Dense {
		e.promote()
	}
	return e.dense.toBytes()
}

// SetDenseRegister loads a dense register array produced by DenseBytes,
// promoting e to Dense first if it is still Sparse. Values are applied
// through the same ">" guard as ordinary Add traffic, so loading is
// idempotent and order-independent.
func (e *Estimator) SetDenseRegister(data []byte) error {
	if e.encoding != Dense {
		e.promote()
	}
	if err := e.dense.loadBytes(data); err != nil {
		return err
	}
	e.cacheValid = false
	return nil
}

// SparseEntries returns the packed (index, value) entries backing e's
// sparse register in compacted, sorted form. It is a caller error to call
// this once e has promoted to Dense; it returns nil in that case.
func (e *Estimator) SparseEntries() []uint32 {
	if e.encoding != Sparse {
		return nil
	}
	return e.sparse.snapshot()
}

// SetSparseRegister feeds a set of packed entries (as produced by
// SparseEntries) into e's sparse register, promoting afterward if the
// combined size now exceeds the threshold.
func (e *Estimator) SetSparseRegister(packed []uint32) error {
	if e.encoding != Sparse {
		return &MergeMismatchError{Field: "encoding", Got: int(e.encoding), Other: int(Sparse)}
	}
	for _, entry := range packed {
		idx, v := unpackEntry(entry)
		e.sparse.set(idx, v)
	}
	if e.sparse.size() > e.cfg.promotionThreshold {
		e.promote()
	}
	e.cacheValid = false
	return nil
}

// SetCount seeds the cached cardinality, marking it valid until the next
// mutation. It does not touch either register.
func (e *Estimator) SetCount(n uint64) {
	e.cachedCount = n
	e.cacheValid = true
}
