package drawengine

// PayoutResult is the outcome of one settled wager.
type PayoutResult struct {
	TotalPayout float64
	IsWinner    bool
}

// pointScale converts point-denominated multiplier units into currency.
const pointScale = 1000

// CalculateCost returns the amount debited when the wager is placed. Point
// types charge stake times point value per selected number; money types
// charge the stake once.
func CalculateCost(cfg BetTypeConfig, stake float64, numberCount int) float64 {
	if cfg.CalculationMethod == MethodPoint {
		return stake * cfg.PointValue * float64(numberCount)
	}

	return stake
}

// CalculatePayout converts a hit-count map into money. Pure, no I/O.
func CalculatePayout(cfg BetTypeConfig, stake float64, hits map[string]int) PayoutResult {
	var total float64

	switch {
	case cfg.CalculationMethod == MethodPoint:
		for _, count := range hits {
			total += stake * cfg.Multiplier * pointScale * float64(count)
		}

	case cfg.RequiredNumberCount > 0:
		// All-or-nothing: one bet, one payout, regardless of how many
		// numbers carry the broadcast win flag.
		for _, count := range hits {
			if count > 0 {
				total = stake * cfg.Multiplier
			}
			break
		}

	default:
		for _, count := range hits {
			total += stake * cfg.Multiplier * float64(count)
		}
	}

	return PayoutResult{TotalPayout: total, IsWinner: total > 0}
}
