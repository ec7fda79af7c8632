package enumerator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/stat/combin"
)

// TestNCrMatchesGonumOracle cross-checks the overflow-safe binomial
// coefficient against gonum's combin.Binomial, used here purely as a test
// oracle (the production path never depends on gonum for this).
func TestNCrMatchesGonumOracle(t *testing.T) {
	for n := 0; n <= 20; n++ {
		for r := 0; r <= n; r++ {
			want := combin.Binomial(n, r)
			got := nCr(int64(n), int64(r))
			assert.Equal(t, int64(want), got, "nCr(%d,%d)", n, r)
		}
	}
}

func TestNCrOutOfRange(t *testing.T) {
	assert.Equal(t, int64(0), nCr(5, -1))
	assert.Equal(t, int64(0), nCr(5, 6))
}
