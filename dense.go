package hyperloglog

import "math"

// denseRegister is the fixed-size m = 2^p register array used once an
// estimator has promoted out of the sparse representation. Each slot holds
// the longest zero-run rank observed for hashes routed to that slot, plus a
// few incrementally maintained aggregates (maxValue, numZeros, invPow2) that
// keep Count() an O(m) summation rather than a full rescan.
type denseRegister struct {
	store    registerStore
	m        int
	maxValue uint8
	numZeros int
	invPow2  []float64
}

func newDenseRegister(m int, bitPack bool) *denseRegister {
	invPow2 := make([]float64, m)
	for i := range invPow2 {
		invPow2[i] = 1 // 2^(-0) == 1
	}
	return &denseRegister{
		store:    newRegisterStore(m, bitPack),
		m:        m,
		numZeros: m,
		invPow2:  invPow2,
	}
}

// set writes v into slot idx if it strictly raises the stored value,
// keeping maxValue, numZeros and invPow2 consistent. It returns whether a
// write happened, making it safe (and idempotent) to call with stale or
// duplicate data.
func (d *denseRegister) set(idx int, v uint8) bool {
	if idx < 0 || idx >= d.m {
		return false
	}
	prev := d.store.get(idx)
	if v <= prev {
		return false
	}
	d.store.set(idx, v)
	if v > d.maxValue {
		d.maxValue = v
	}
	if prev == 0 {
		d.numZeros--
	}
	d.invPow2[idx] = math.Exp2(-float64(v))
	return true
}

func (d *denseRegister) get(idx int) uint8 {
	return d.store.get(idx)
}

// add routes a raw hash into this register: the low p bits select the
// slot, and the run length of the remaining 64-p bits is the candidate
// register value.
func (d *denseRegister) add(hash uint64, p int) bool {
	idx := int(hash & uint64(d.m-1))
	w := hash >> uint(p)
	lr := runLength(w, 64-p)
	return d.set(idx, uint8(lr))
}

// sumInversePow2 returns the harmonic sum used by the cardinality
// estimator, walking invPow2 index-ascending so that equal register states
// always produce bit-identical sums.
func (d *denseRegister) sumInversePow2() float64 {
	var sum float64
	for _, v := range d.invPow2 {
		sum += v
	}
	return sum
}

// merge folds other's registers into d, slot by slot, taking the max.
func (d *denseRegister) merge(other *denseRegister) error {
	if d.m != other.m {
		return &SizeMismatchError{Got: other.m, Want: d.m}
	}
	for i := 0; i < d.m; i++ {
		if v := other.store.get(i); v > d.store.get(i) {
			d.set(i, v)
		}
	}
	return nil
}

// toBytes renders the register array in the canonical one-byte-per-slot
// wire format described in the externalization interface, regardless of
// whether this register is physically bit-packed.
func (d *denseRegister) toBytes() []byte {
	out := make([]byte, d.m)
	for i := 0; i < d.m; i++ {
		out[i] = d.store.get(i)
	}
	return out
}

// loadBytes rehydrates a register array from the canonical wire format,
// applying the same ">" guard as set so that out-of-order or duplicate
// loads stay idempotent.
func (d *denseRegister) loadBytes(data []byte) error {
	if len(data) != d.m {
		return &SizeMismatchError{Got: len(data), Want: d.m}
	}
	for i, v := range data {
		d.set(i, v)
	}
	return nil
}
