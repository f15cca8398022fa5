package hyperloglog

import "sort"

// sparseRegister holds (index, value) pairs at the higher precision pPrime,
// used while an estimator's cardinality is still small enough that a
// sorted list of non-zero registers is cheaper than a full dense array.
//
// Entries are packed into a uint32: the low qPrime (6) bits are the
// register value, the next pPrime (25) bits are the index. New
// observations land in tempList, an append-only staging buffer; compact
// folds tempList into sparseList, the canonical sorted-unique-by-index
// form, once tempList grows past tempListMaxSize.
type sparseRegister struct {
	tempList        []uint32
	sparseList      []uint32
	tempListMaxSize int
}

func newSparseRegister(m int) *sparseRegister {
	max := m / 4
	if max < 16 {
		max = 16
	}
	return &sparseRegister{tempListMaxSize: max}
}

const (
	entryValueMask = (1 << qPrime) - 1
)

func packEntry(idx uint32, v uint8) uint32 {
	return (idx << qPrime) | uint32(v)
}

func unpackEntry(e uint32) (idx uint32, v uint8) {
	return e >> qPrime, uint8(e & entryValueMask)
}

func entryIndex(e uint32) uint32 { return e >> qPrime }

// add stages a new (index, value) observation derived from hash, merging
// the staging buffer into sparseList once it grows past its soft limit.
// It always returns true: whether the observation actually raises some
// register's value is only known once compact runs.
func (s *sparseRegister) add(hash uint64) bool {
	idxPrime := uint32(hash & ((1 << pPrime) - 1))
	w := hash >> pPrime
	lr := runLength(w, 64-pPrime)
	s.tempList = append(s.tempList, packEntry(idxPrime, uint8(lr)))
	if len(s.tempList) > s.tempListMaxSize {
		s.compact()
	}
	return true
}

// set packs and stages an externally supplied (index, value) pair, used by
// rehydration from the wire format.
func (s *sparseRegister) set(idxPrime uint32, v uint8) bool {
	s.tempList = append(s.tempList, packEntry(idxPrime, v))
	if len(s.tempList) > s.tempListMaxSize {
		s.compact()
	}
	return true
}

// compact merges tempList into sparseList, keeping the maximum value per
// index, and clears tempList.
func (s *sparseRegister) compact() {
	if len(s.tempList) == 0 {
		return
	}
	s.sparseList = s.snapshot()
	s.tempList = s.tempList[:0]
}

// snapshot returns the merged, deduplicated, index-sorted view of
// sparseList and tempList without mutating the receiver. merge() uses this
// on its peer so that a merge never changes the other estimator's state.
func (s *sparseRegister) snapshot() []uint32 {
	if len(s.tempList) == 0 {
		return s.sparseList
	}
	staged := append([]uint32(nil), s.tempList...)
	sort.Slice(staged, func(i, j int) bool { return entryIndex(staged[i]) < entryIndex(staged[j]) })
	return mergeSortedMax(s.sparseList, staged)
}

// mergeSortedMax two-way merges a and b, both assumed sorted ascending by
// index but b possibly containing duplicate indices (adjacent, since it is
// pre-sorted), keeping the maximum value for each distinct index.
func mergeSortedMax(a, b []uint32) []uint32 {
	out := make([]uint32, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		// Collapse any run of equal-index entries within b first, keeping
		// only the max among them.
		runStart := j
		bEntry := b[j]
		for j+1 < len(b) && entryIndex(b[j+1]) == entryIndex(bEntry) {
			j++
			if b[j] > bEntry {
				bEntry = b[j]
			}
		}
		aIdx, bIdx := entryIndex(a[i]), entryIndex(bEntry)
		switch {
		case aIdx < bIdx:
			out = append(out, a[i])
			i++
			j = runStart // b's run is not consumed yet; collapse it again next time
		case bIdx < aIdx:
			out = append(out, bEntry)
			j++
		default:
			if a[i] > bEntry {
				out = append(out, a[i])
			} else {
				out = append(out, bEntry)
			}
			i++
			j++
		}
	}
	for ; i < len(a); i++ {
		out = append(out, a[i])
	}
	for j < len(b) {
		bEntry := b[j]
		for j+1 < len(b) && entryIndex(b[j+1]) == entryIndex(bEntry) {
			j++
			if b[j] > bEntry {
				bEntry = b[j]
			}
		}
		out = append(out, bEntry)
		j++
	}
	return out
}

// size is an upper bound on the number of distinct indices currently held,
// cheap enough to call after every Add without forcing a compaction.
func (s *sparseRegister) size() int {
	return len(s.sparseList) + len(s.tempList)
}

// exactSize forces a compaction and returns the true number of distinct
// indices held. Callers needing an accurate count for estimation (as
// opposed to a promotion-threshold check) must use this.
func (s *sparseRegister) exactSize() int {
	s.compact()
	return len(s.sparseList)
}

// merge folds other's entries into s, keeping the maximum value per index.
// other is never mutated: its tempList is copied and sorted locally rather
// than compacted in place.
func (s *sparseRegister) merge(other *sparseRegister) {
	s.compact()
	s.sparseList = mergeSortedMax(s.sparseList, other.snapshot())
}
