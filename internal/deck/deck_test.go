package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naveenspark/bartr/pkg/domain"
)

func items(n int) []domain.Item {
	out := make([]domain.Item, n)
	for i := range out {
		out[i] = domain.Item{ID: i + 1, Title: "item"}
	}
	return out
}

func TestEmptyDeckIsExhausted(t *testing.T) {
	for _, d := range []Deck{New(nil), New([]domain.Item{}), {}} {
		assert.Equal(t, Exhausted, d.State())
		_, err := d.Current()
		assert.ErrorIs(t, err, ErrExhausted)
		assert.False(t, d.Advance())
		assert.Equal(t, 0, d.Index())
	}
}

func TestSwipingThroughDeck(t *testing.T) {
	for _, n := range []int{1, 2, 5, 17} {
		d := New(items(n))
		for i := 0; i < n; i++ {
			require.Equal(t, Browsing, d.State(), "n=%d i=%d", n, i)
			cur, err := d.Current()
			require.NoError(t, err)
			assert.Equal(t, i+1, cur.ID)
			assert.Equal(t, n-i, d.Remaining())
			require.True(t, d.Advance())
		}
		assert.Equal(t, Exhausted, d.State())
		assert.Equal(t, n, d.Index())

		// further swipes are no-ops
		for i := 0; i < 3; i++ {
			assert.False(t, d.Advance())
		}
		assert.Equal(t, n, d.Index())
		assert.Equal(t, 0, d.Remaining())
	}
}

func TestDeckCopiesAreIndependent(t *testing.T) {
	a := New(items(3))
	b := a
	b.Advance()

	assert.Equal(t, 0, a.Index())
	assert.Equal(t, 1, b.Index())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "browsing", Browsing.String())
	assert.Equal(t, "exhausted", Exhausted.String())
}
