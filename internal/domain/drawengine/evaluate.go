package drawengine

import (
	"context"

	"github.com/xoso-lab/backend/internal/entity"
	"github.com/xoso-lab/backend/pkg/xcontext"
)

// Evaluate computes the per-number hit count of one wager against a draw.
// All-or-nothing types broadcast a single 0/1 outcome to every selected
// number. An unknown bet type yields an empty map, which settles as a loss.
func Evaluate(
	ctx context.Context, betType string, numbers []string, result entity.DrawResult,
) map[string]int {
	hits := make(map[string]int, len(numbers))

	switch betType {
	case BetLo2:
		endings := result.TwoDigitEndings()
		for _, n := range numbers {
			count := 0
			for _, e := range endings {
				if e == n {
					count++
				}
			}
			hits[n] = count
		}

	case BetLo3:
		for _, n := range numbers {
			count := 0
			for _, p := range result.AllPrizes() {
				// Two-digit prizes cannot carry a three-digit ending.
				if len(p) >= 3 && p[len(p)-3:] == n {
					count++
				}
			}
			hits[n] = count
		}

	case BetDe:
		special := result.Special[len(result.Special)-2:]
		for _, n := range numbers {
			hits[n] = 0
			if n == special {
				hits[n] = 1
			}
		}

	case BetNhatTo:
		first := result.First[len(result.First)-2:]
		for _, n := range numbers {
			hits[n] = 0
			if n == first {
				hits[n] = 1
			}
		}

	case BetDauDuoi:
		dau := string(result.Special[3])
		duoi := string(result.Special[4])
		for _, n := range numbers {
			hits[n] = 0
			if n == dau || n == duoi {
				hits[n] = 1
			}
		}

	case BetXien2, BetXien3, BetXien4:
		endings := map[string]bool{}
		for _, e := range result.TwoDigitEndings() {
			endings[e] = true
		}

		won := 1
		for _, n := range numbers {
			if !endings[n] {
				won = 0
				break
			}
		}

		for _, n := range numbers {
			hits[n] = won
		}

	default:
		xcontext.Logger(ctx).Warnf("unknown bet type %q, settling as loss", betType)
	}

	return hits
}
