package columnar

// CopyFunc copies the logical element at src to dst. The store's copy
// function applies the copy to every registered column so that the
// all-columns-or-none invariant holds after every structural move.
type CopyFunc func(src, dst Index)

// copyRange copies the elements at [from, to] to a destination run starting
// at dest. When the destination overlaps the source such that a forward copy
// would read already-overwritten slots (dest strictly inside (from, to]),
// the copy proceeds back-to-front; otherwise front-to-back. This is the
// single overlap rule every structural operation goes through.
func copyRange(copyFn CopyFunc, from, to, dest Index) int {
	if to < from || dest == from {
		return 0
	}
	n := to - from
	if dest > from && dest <= to {
		for off := n; ; off-- {
			copyFn(from+off, dest+off)
			if off == 0 {
				break
			}
		}
	} else {
		for off := Index(0); off <= n; off++ {
			copyFn(from+off, dest+off)
		}
	}
	return int(n) + 1
}

// copyWithGap copies the run [from, to] to dest while reserving gapCount
// unwritten slots before the gapIndex-th element of the run (1-based).
// A gapIndex of zero means no gap: the run is copied in one piece.
func copyWithGap(copyFn CopyFunc, from, to, dest Index, gapIndex, gapCount int) int {
	if gapIndex <= 0 {
		return copyRange(copyFn, from, to, dest)
	}
	if gapCount <= 0 {
		gapCount = 1
	}

	copied := 0
	prefixLen := Index(gapIndex - 1)
	if prefixLen > 0 {
		copied += copyRange(copyFn, from, from+prefixLen-1, dest)
	}

	// Skip the reserved slots; they stay unwritten.
	cursor := dest + prefixLen + Index(gapCount)
	if from+prefixLen <= to {
		copied += copyRange(copyFn, from+prefixLen, to, cursor)
	}
	return copied
}
