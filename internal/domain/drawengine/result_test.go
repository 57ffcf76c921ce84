package drawengine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGeneratorCardinalities(t *testing.T) {
	generator := NewGeneratorWithSource(rand.New(rand.NewSource(1)))
	result := generator.Generate()

	require.Len(t, result.Special, 5)
	require.Len(t, result.First, 5)
	require.Len(t, result.Second, 2)
	require.Len(t, result.Third, 6)
	require.Len(t, result.Fourth, 4)
	require.Len(t, result.Fifth, 6)
	require.Len(t, result.Sixth, 3)
	require.Len(t, result.Seventh, 4)

	require.Len(t, result.AllPrizes(), 27)
	require.Len(t, result.TwoDigitEndings(), 27)

	for _, tier := range [][]string{result.Second, result.Third} {
		for _, v := range tier {
			require.Len(t, v, 5)
		}
	}

	for _, tier := range [][]string{result.Fourth, result.Fifth} {
		for _, v := range tier {
			require.Len(t, v, 4)
		}
	}

	for _, v := range result.Sixth {
		require.Len(t, v, 3)
	}

	for _, v := range result.Seventh {
		require.Len(t, v, 2)
	}
}

func TestGeneratorDistinctTiers(t *testing.T) {
	for seed := int64(0); seed < 100; seed++ {
		generator := NewGeneratorWithSource(rand.New(rand.NewSource(seed)))
		result := generator.Generate()

		tiers := [][]string{
			result.Second, result.Third, result.Fourth,
			result.Fifth, result.Sixth, result.Seventh,
		}
		for _, tier := range tiers {
			seen := map[string]bool{}
			for _, v := range tier {
				require.False(t, seen[v], "duplicate %s in tier with seed %d", v, seed)
				seen[v] = true
			}
		}
	}
}

func TestGeneratorZeroPadding(t *testing.T) {
	// Small values must come out zero-padded to their tier width, so every
	// rune of every prize is a digit.
	generator := NewGeneratorWithSource(rand.New(rand.NewSource(42)))
	for i := 0; i < 1000; i++ {
		result := generator.Generate()
		for _, p := range result.AllPrizes() {
			for _, r := range p {
				require.True(t, r >= '0' && r <= '9')
			}
		}
	}
}
