package gesture

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuffer_Stabilized(t *testing.T) {
	b := NewBuffer(5)
	for _, o := range []Observation{{"A", 90}, {"A", 85}, {"B", 95}, {"A", 80}, {"A", 70}} {
		b.Observe(o.Label, o.Confidence)
	}

	p, err := b.Stabilized()

	require.NoError(t, err)
	assert.Equal(t, "A", p.Label)
	assert.InDelta(t, 84.0, p.Confidence, 1e-9, "mean covers every entry, not just the winning label")
}

func TestBuffer_TieGoesToEarliestLabel(t *testing.T) {
	tests := []struct {
		name string
		obs  []Observation
		want string
	}{
		{"two way tie", []Observation{{"ba", 50}, {"alif", 60}, {"alif", 60}, {"ba", 50}}, "ba"},
		{"three way tie", []Observation{{"ta", 1}, {"ba", 1}, {"alif", 1}}, "ta"},
		{"majority beats order", []Observation{{"ta", 1}, {"ba", 1}, {"ba", 1}}, "ba"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuffer(5)
			for _, o := range tt.obs {
				b.Observe(o.Label, o.Confidence)
			}
			p, err := b.Stabilized()
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Label)
		})
	}
}

func TestBuffer_Capacity(t *testing.T) {
	b := NewBuffer(5)
	for i := 0; i < 23; i++ {
		b.Observe(fmt.Sprintf("s%d", i%4), float64(i))
		if b.Len() > b.Cap() {
			t.Fatalf("after %d observations Len() = %d exceeds capacity %d", i+1, b.Len(), b.Cap())
		}
	}

	assert.Equal(t, 5, b.Len())

	obs := b.Observations()
	require.Len(t, obs, 5)
	assert.Equal(t, 18.0, obs[0].Confidence, "oldest entries are evicted first")
	assert.Equal(t, 22.0, obs[4].Confidence)
}

func TestBuffer_Clear(t *testing.T) {
	b := NewBuffer(3)
	b.Observe("alif", 99)
	b.Observe("alif", 97)

	b.Clear()

	assert.Equal(t, 0, b.Len())
	_, err := b.Stabilized()
	assert.ErrorIs(t, err, ErrEmptyBuffer)

	b.Observe("ba", 40)
	p, err := b.Stabilized()
	require.NoError(t, err)
	assert.Equal(t, "ba", p.Label)
	assert.Equal(t, 40.0, p.Confidence)
}

func TestNewBuffer_DefaultCapacity(t *testing.T) {
	assert.Equal(t, DefaultCapacity, NewBuffer(0).Cap())
	assert.Equal(t, DefaultCapacity, NewBuffer(-2).Cap())
	assert.Equal(t, 8, NewBuffer(8).Cap())
}
