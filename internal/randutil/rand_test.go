package randutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSameSeedSameSequence(t *testing.T) {
	a := New(42)
	b := New(42)
	for i := 0; i < 100; i++ {
		assert.Equal(t, a.Uint64(), b.Uint64())
	}
}

func TestDifferentSeedsDiverge(t *testing.T) {
	a := New(1)
	b := New(2)
	same := 0
	for i := 0; i < 100; i++ {
		if a.Uint64() == b.Uint64() {
			same++
		}
	}
	assert.Less(t, same, 5)
}

func TestNewFromTime(t *testing.T) {
	rng := NewFromTime()
	assert.NotNil(t, rng)
	rng.Uint64()
}
