package hyperloglog

import "math/bits"

// projectSparseToDense walks a compacted sparse entry set at precision
// pPrime and applies each entry to a dense register at the lower precision
// p, translating both the index (truncating to the high p bits) and the
// value (accounting for the run-length bits lost in that truncation).
func projectSparseToDense(entries []uint32, dense *denseRegister, p int) {
	shift := uint(pPrime - p)
	lowMask := uint32(1)<<shift - 1

	for _, e := range entries {
		idxPrime, valPrime := unpackEntry(e)
		idx := idxPrime >> shift
		rBits := idxPrime & lowMask

		var val uint8
		if rBits != 0 {
			val = uint8(bits.TrailingZeros32(rBits) + 1)
		} else {
			val = valPrime + uint8(shift)
		}
		dense.set(int(idx), val)
	}
}
