package drawengine

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xoso-lab/backend/internal/entity"
	"github.com/xoso-lab/backend/pkg/testutil"
)

// testDraw is crafted so that the ending 78 appears three times (special and
// two fourth-tier prizes), 45 once (first) and 678 is the special
// three-digit ending.
var testDraw = entity.DrawResult{
	Special: "12678",
	First:   "34545",
	Second:  []string{"11111", "22222"},
	Third:   []string{"00001", "00002", "00003", "00004", "00005", "00006"},
	Fourth:  []string{"1078", "2078", "3333", "4444"},
	Fifth:   []string{"5555", "6666", "7777", "8888", "9999", "1234"},
	Sixth:   []string{"100", "200", "300"},
	Seventh: []string{"10", "20", "30", "40"},
}

func TestEvaluateLo2(t *testing.T) {
	ctx := testutil.MockContext()

	hits := Evaluate(ctx, BetLo2, []string{"78", "45", "99"}, testDraw)

	// 78 ends special, two fourth-tier prizes and nothing else.
	require.Equal(t, 3, hits["78"])
	// 45 ends first prize only.
	require.Equal(t, 1, hits["45"])
	// 99 ends one fifth-tier prize.
	require.Equal(t, 1, hits["99"])
}

func TestEvaluateLo2CountsDuplicateEndings(t *testing.T) {
	ctx := testutil.MockContext()
	draw := testDraw
	draw.Seventh = []string{"78", "78", "30", "40"}

	hits := Evaluate(ctx, BetLo2, []string{"78"}, draw)
	require.Equal(t, 5, hits["78"])
}

func TestEvaluateLo3(t *testing.T) {
	ctx := testutil.MockContext()

	hits := Evaluate(ctx, BetLo3, []string{"678", "078", "100"}, testDraw)
	require.Equal(t, 1, hits["678"])
	require.Equal(t, 2, hits["078"])
	// 100 matches the sixth tier value itself; the two-digit seventh tier
	// is too short to match.
	require.Equal(t, 1, hits["100"])
}

func TestEvaluateDe(t *testing.T) {
	ctx := testutil.MockContext()

	hits := Evaluate(ctx, BetDe, []string{"78", "45"}, testDraw)
	require.Equal(t, 1, hits["78"])
	require.Equal(t, 0, hits["45"])
}

func TestEvaluateNhatTo(t *testing.T) {
	ctx := testutil.MockContext()

	hits := Evaluate(ctx, BetNhatTo, []string{"45", "78"}, testDraw)
	require.Equal(t, 1, hits["45"])
	require.Equal(t, 0, hits["78"])
}

func TestEvaluateDauDuoi(t *testing.T) {
	ctx := testutil.MockContext()

	// Special is 12678: dau is the 4th digit (7), duoi the 5th (8).
	hits := Evaluate(ctx, BetDauDuoi, []string{"7", "8", "1"}, testDraw)
	require.Equal(t, 1, hits["7"])
	require.Equal(t, 1, hits["8"])
	require.Equal(t, 0, hits["1"])
}

func TestEvaluateXienAllOrNothing(t *testing.T) {
	ctx := testutil.MockContext()

	won := Evaluate(ctx, BetXien2, []string{"78", "45"}, testDraw)
	require.Equal(t, map[string]int{"78": 1, "45": 1}, won)

	lost := Evaluate(ctx, BetXien2, []string{"78", "98"}, testDraw)
	require.Equal(t, map[string]int{"78": 0, "98": 0}, lost)

	// Three of four present loses as a unit.
	partial := Evaluate(ctx, BetXien4, []string{"78", "45", "11", "98"}, testDraw)
	for _, count := range partial {
		require.Equal(t, 0, count)
	}
}

func TestEvaluateUnknownBetType(t *testing.T) {
	ctx := testutil.MockContext()

	hits := Evaluate(ctx, "bogus", []string{"78"}, testDraw)
	require.Empty(t, hits)
}
