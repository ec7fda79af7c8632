package enumerator

// combinationOfLengthAtRank returns the rank-th (1-based, within the
// length-L class) increasing L-tuple drawn from {1,...,n} in lexicographic
// order, using the standard combinatorial unranking identity: at each
// position, C(n-x, L-i-1) counts how many length-(L-i-1) suffixes follow a
// choice of x, so the loop walks x upward until the remaining rank falls
// inside that block.
func combinationOfLengthAtRank(n, l int, rank int64) Combination {
	result := make(Combination, l)
	remaining := rank - 1 // 0-based within the length-L class
	x := 1
	for i := 0; i < l; i++ {
		for {
			count := nCr(int64(n-x), int64(l-i-1))
			if remaining < count {
				result[i] = x
				x++
				break
			}
			remaining -= count
			x++
		}
	}
	return result
}

// combinationAtRank returns the combination at the given 1-based position
// in the overall length-then-lex order (lengths 1..kMax, shortest first).
// rank 0 yields the sentinel [0].
func combinationAtRank(n, kMax int, rank int64) Combination {
	if rank <= 0 {
		return Combination{0}
	}
	remaining := rank
	for l := 1; l <= kMax; l++ {
		count := nCr(int64(n), int64(l))
		if remaining <= count {
			return combinationOfLengthAtRank(n, l, remaining)
		}
		remaining -= count
	}
	// rank beyond total: clamp to the last combination of length kMax.
	return lastCombinationOfLength(n, kMax)
}

// lastCombinationOfLength returns (n-l+1, ..., n), the final increasing
// l-tuple drawn from {1,...,n}.
func lastCombinationOfLength(n, l int) Combination {
	result := make(Combination, l)
	for i := 0; i < l; i++ {
		result[i] = n - l + 1 + i
	}
	return result
}
