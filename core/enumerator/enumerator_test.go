package enumerator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// walkAll drains the full enumeration order via repeated Next calls,
// starting from the sentinel.
func walkAll(t *testing.T, e *Enumerator) []Combination {
	t.Helper()
	var out []Combination
	cursor := e.Sentinel()
	for {
		if err := e.Next(&cursor); err != nil {
			break
		}
		out = append(out, cursor.Clone())
	}
	return out
}

func TestNextProducesCanonicalOrder(t *testing.T) {
	e, err := New(4, 3)
	require.NoError(t, err)

	got := walkAll(t, e)

	want := []Combination{
		{1}, {2}, {3}, {4},
		{1, 2}, {1, 3}, {1, 4}, {2, 3}, {2, 4}, {3, 4},
		{1, 2, 3}, {1, 2, 4}, {1, 3, 4}, {2, 3, 4},
	}
	require.Len(t, got, len(want))
	for i := range want {
		assert.True(t, got[i].Equal(want[i]), "index %d: got %v want %v", i, got[i], want[i])
	}
}

func TestNextCoversEveryLengthExactlyOnce(t *testing.T) {
	const n, kMax = 6, 4
	e, err := New(n, kMax)
	require.NoError(t, err)

	seen := map[string]bool{}
	count := 0
	for _, c := range walkAll(t, e) {
		key := c.String()
		assert.False(t, seen[key], "combination %v produced twice", c)
		seen[key] = true
		count++

		assert.GreaterOrEqual(t, c.Len(), 1)
		assert.LessOrEqual(t, c.Len(), kMax)
		for i := 1; i < len(c); i++ {
			assert.Less(t, c[i-1], c[i], "combination %v not strictly increasing", c)
		}
		for _, v := range c {
			assert.True(t, v >= 1 && v <= n, "combination %v out of range", c)
		}
	}

	assert.Equal(t, int(e.Total()), count)
}

func TestNextExhaustedAtLastCombination(t *testing.T) {
	e, err := New(3, 3)
	require.NoError(t, err)

	cursor := Combination{1, 2, 3}
	err = e.Next(&cursor)
	assert.ErrorIs(t, err, ErrExhausted)
	assert.True(t, cursor.Equal(Combination{1, 2, 3}), "cursor must be unchanged on exhaustion")
}

func TestTotalMatchesBinomialSum(t *testing.T) {
	e, err := New(10, 5)
	require.NoError(t, err)

	var want int64
	for l := 1; l <= 5; l++ {
		want += nCr(10, int64(l))
	}
	assert.Equal(t, want, e.Total())
}

func TestBatchesCoverFullRangeContiguously(t *testing.T) {
	for _, tc := range []struct {
		n, kMax, nBatches int
	}{
		{4, 2, 3},
		{8, 3, 5},
		{10, 5, 4},
		{6, 6, 1},
		{5, 2, 100},
	} {
		e, err := New(tc.n, tc.kMax)
		require.NoError(t, err)

		batches := e.Batches(tc.nBatches)
		require.NotEmpty(t, batches)

		var sum int
		for i, b := range batches {
			sum += b.Size
			assert.Positive(t, b.Size, "batch %d empty", i)
			if i+1 < len(batches) {
				assert.True(t, b.Stop.Equal(batches[i+1].Start),
					"batch %d stop %v != batch %d start %v", i, b.Stop, i+1, batches[i+1].Start)
			}
		}
		assert.Equal(t, int(e.Total()), sum, "n=%d kMax=%d nBatches=%d", tc.n, tc.kMax, tc.nBatches)

		assert.True(t, batches[0].Start.IsSentinel())
		last := batches[len(batches)-1]
		assert.True(t, last.Stop.Equal(lastCombinationOfLength(tc.n, tc.kMax)))
	}
}

func TestBatchesConcatenationEqualsFullWalk(t *testing.T) {
	const n, kMax, nBatches = 7, 4, 3
	e, err := New(n, kMax)
	require.NoError(t, err)

	full := walkAll(t, e)
	batches := e.Batches(nBatches)

	var reassembled []Combination
	for _, b := range batches {
		cursor := b.Start.Clone()
		for !cursor.Equal(b.Stop) {
			require.NoError(t, e.Next(&cursor))
			reassembled = append(reassembled, cursor.Clone())
		}
	}

	require.Len(t, reassembled, len(full))
	for i := range full {
		assert.True(t, reassembled[i].Equal(full[i]), "index %d: got %v want %v", i, reassembled[i], full[i])
	}
}

func TestNewRejectsInvalidConfiguration(t *testing.T) {
	_, err := New(0, 1)
	assert.Error(t, err)

	_, err = New(5, 0)
	assert.Error(t, err)

	_, err = New(5, 6)
	assert.Error(t, err)
}

func TestSentinelAdvancesToFirstCombination(t *testing.T) {
	e, err := New(5, 2)
	require.NoError(t, err)

	cursor := e.Sentinel()
	require.NoError(t, e.Next(&cursor))
	assert.True(t, cursor.Equal(Combination{1}))
}
