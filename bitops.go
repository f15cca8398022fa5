package hyperloglog

import "math/bits"

// runLength returns the position of the first set bit in w, counting from 1,
// which is the HyperLogLog "rank" of a hash suffix. width is the number of
// bits w actually occupies (64-p for dense addressing, 64-pPrime for sparse
// addressing). When w is zero, the run extends through the entire word and
// runLength is defined as width+1 rather than delegating to
// bits.TrailingZeros64, which returns 64 for a zero input regardless of the
// width actually in play here.
func runLength(w uint64, width int) int {
	if w == 0 {
		return width + 1
	}
	return bits.TrailingZeros64(w) + 1
}

// onesFromTo returns a bitmask with ones from position startPos to endPos,
// inclusive. Both are 0-indexed and in [0,63], with startPos <= endPos.
func onesFromTo(startPos, endPos uint) uint64 {
	const all1s uint64 = 1<<64 - 1
	highOrderOnes := all1s << startPos
	lowOrderOnes := all1s >> (64 - endPos - 1)
	return highOrderOnes & lowOrderOnes
}

// extractShift returns bits x[startPos:endPos] inclusive, shifted into the
// low-order bits of the result.
func extractShift(x uint64, startPos, endPos uint) uint64 {
	mask := onesFromTo(startPos, endPos)
	return (x & mask) >> startPos
}
