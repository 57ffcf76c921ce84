package drawengine

import (
	"fmt"

	"github.com/xoso-lab/backend/internal/entity"
	"github.com/xoso-lab/backend/pkg/crypto"
)

// RandSource draws uniform integers in [0, n). The default implementation is
// backed by crypto/rand; tests inject a seeded source.
type RandSource interface {
	Intn(n int) int
}

type cryptoSource struct{}

func (cryptoSource) Intn(n int) int {
	return crypto.RandIntn(n)
}

type prizeTier struct {
	count    int
	digits   int
	distinct bool
}

// The eight tiers of a draw, in order. Tiers below first require distinct
// values within the tier.
var prizeTiers = []prizeTier{
	{count: 1, digits: 5},                 // special
	{count: 1, digits: 5},                 // first
	{count: 2, digits: 5, distinct: true}, // second
	{count: 6, digits: 5, distinct: true}, // third
	{count: 4, digits: 4, distinct: true}, // fourth
	{count: 6, digits: 4, distinct: true}, // fifth
	{count: 3, digits: 3, distinct: true}, // sixth
	{count: 4, digits: 2, distinct: true}, // seventh
}

type Generator struct {
	rand RandSource
}

func NewGenerator() *Generator {
	return &Generator{rand: cryptoSource{}}
}

func NewGeneratorWithSource(source RandSource) *Generator {
	return &Generator{rand: source}
}

func (g *Generator) number(digits int) string {
	limit := 1
	for i := 0; i < digits; i++ {
		limit *= 10
	}

	return fmt.Sprintf("%0*d", digits, g.rand.Intn(limit))
}

func (g *Generator) tier(t prizeTier) []string {
	values := make([]string, 0, t.count)
	used := map[string]bool{}
	for len(values) < t.count {
		v := g.number(t.digits)
		if t.distinct && used[v] {
			continue
		}

		used[v] = true
		values = append(values, v)
	}

	return values
}

// Generate produces one full eight-tier draw.
func (g *Generator) Generate() entity.DrawResult {
	return entity.DrawResult{
		Special: g.tier(prizeTiers[0])[0],
		First:   g.tier(prizeTiers[1])[0],
		Second:  g.tier(prizeTiers[2]),
		Third:   g.tier(prizeTiers[3]),
		Fourth:  g.tier(prizeTiers[4]),
		Fifth:   g.tier(prizeTiers[5]),
		Sixth:   g.tier(prizeTiers[6]),
		Seventh: g.tier(prizeTiers[7]),
	}
}
