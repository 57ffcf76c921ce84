package drawengine

import (
	"github.com/xoso-lab/backend/pkg/errorx"
)

type BetCategory string

const (
	CategoryLo BetCategory = "lo"
	CategoryDe BetCategory = "de"
)

type CalculationMethod string

const (
	MethodPoint CalculationMethod = "point"
	MethodMoney CalculationMethod = "money"
)

// MaxFlexibleNumbers bounds the selection size for bet types without an exact
// required count.
const MaxFlexibleNumbers = 10

// BetTypeConfig is the static definition of one bet type. RequiredNumberCount
// of zero means the selection is flexible, 1 to MaxFlexibleNumbers numbers.
type BetTypeConfig struct {
	ID                string
	Name              string
	Category          BetCategory
	CalculationMethod CalculationMethod
	Multiplier        float64
	MinStake          float64

	// PointValue is the currency cost of one point per selected number. It
	// is meaningful for point-method types only.
	PointValue float64

	RequiredNumberCount int
	DigitWidth          int
}

const (
	BetLo2     = "lo2"
	BetLo3     = "lo3"
	BetDe      = "de"
	BetNhatTo  = "nhat_to"
	BetDauDuoi = "dau_duoi"
	BetXien2   = "xien2"
	BetXien3   = "xien3"
	BetXien4   = "xien4"
)

var betCatalog = map[string]BetTypeConfig{
	BetLo2: {
		ID:                BetLo2,
		Name:              "Lô 2 số",
		Category:          CategoryLo,
		CalculationMethod: MethodPoint,
		Multiplier:        99,
		MinStake:          1,
		PointValue:        29000,
		DigitWidth:        2,
	},
	BetLo3: {
		ID:                BetLo3,
		Name:              "Lô 3 số",
		Category:          CategoryLo,
		CalculationMethod: MethodPoint,
		Multiplier:        900,
		MinStake:          1,
		PointValue:        27000,
		DigitWidth:        3,
	},
	BetDe: {
		ID:                BetDe,
		Name:              "Đề đặc biệt",
		Category:          CategoryDe,
		CalculationMethod: MethodMoney,
		Multiplier:        99,
		MinStake:          1000,
		DigitWidth:        2,
	},
	BetNhatTo: {
		ID:                BetNhatTo,
		Name:              "Nhất tố",
		Category:          CategoryDe,
		CalculationMethod: MethodMoney,
		Multiplier:        99,
		MinStake:          1000,
		DigitWidth:        2,
	},
	BetDauDuoi: {
		ID:                BetDauDuoi,
		Name:              "Đầu đuôi",
		Category:          CategoryDe,
		CalculationMethod: MethodMoney,
		Multiplier:        4,
		MinStake:          1000,
		DigitWidth:        1,
	},
	BetXien2: {
		ID:                  BetXien2,
		Name:                "Xiên 2",
		Category:            CategoryLo,
		CalculationMethod:   MethodMoney,
		Multiplier:          17,
		MinStake:            1000,
		RequiredNumberCount: 2,
		DigitWidth:          2,
	},
	BetXien3: {
		ID:                  BetXien3,
		Name:                "Xiên 3",
		Category:            CategoryLo,
		CalculationMethod:   MethodMoney,
		Multiplier:          70,
		MinStake:            1000,
		RequiredNumberCount: 3,
		DigitWidth:          2,
	},
	BetXien4: {
		ID:                  BetXien4,
		Name:                "Xiên 4",
		Category:            CategoryLo,
		CalculationMethod:   MethodMoney,
		Multiplier:          150,
		MinStake:            1000,
		RequiredNumberCount: 4,
		DigitWidth:          2,
	},
}

// betTypeOrder keeps listings stable for clients.
var betTypeOrder = []string{
	BetLo2, BetLo3, BetDe, BetNhatTo, BetDauDuoi, BetXien2, BetXien3, BetXien4,
}

func GetBetType(id string) (BetTypeConfig, bool) {
	cfg, ok := betCatalog[id]
	return cfg, ok
}

func BetTypes() []BetTypeConfig {
	configs := make([]BetTypeConfig, 0, len(betTypeOrder))
	for _, id := range betTypeOrder {
		configs = append(configs, betCatalog[id])
	}
	return configs
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// ValidateNumbers checks a selection against the bet type's count, width and
// uniqueness rules. Duplicate selections are rejected for every type so hit
// counts stay unambiguous downstream.
func ValidateNumbers(cfg BetTypeConfig, numbers []string) error {
	if cfg.RequiredNumberCount > 0 {
		if len(numbers) != cfg.RequiredNumberCount {
			return errorx.New(errorx.BadRequest,
				"%s requires exactly %d numbers", cfg.ID, cfg.RequiredNumberCount)
		}
	} else if len(numbers) < 1 || len(numbers) > MaxFlexibleNumbers {
		return errorx.New(errorx.BadRequest,
			"%s accepts 1 to %d numbers", cfg.ID, MaxFlexibleNumbers)
	}

	seen := map[string]bool{}
	for _, n := range numbers {
		if len(n) != cfg.DigitWidth || !isDigits(n) {
			return errorx.New(errorx.BadRequest,
				"number %q must be %d digits", n, cfg.DigitWidth)
		}

		if seen[n] {
			return errorx.New(errorx.BadRequest, "number %q selected twice", n)
		}
		seen[n] = true
	}

	return nil
}
