package service

import (
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/aliskhannn/fact-quiz/internal/domain/entities"
)

// maxChoices is the size of a full multiple choice option set.
const maxChoices = 4

// OptionGenerator generates multiple choice options for quiz questions.
type OptionGenerator struct {
	byGroup map[int][]entities.Record
	radius  int
	rng     *rand.Rand
}

// NewOptionGenerator indexes records by group. Radius is how far (in group IDs)
// the generator looks for distractors once a record's own group is exhausted.
func NewOptionGenerator(records []entities.Record, radius int, rng *rand.Rand) *OptionGenerator {
	byGroup := make(map[int][]entities.Record)
	for _, r := range records {
		byGroup[r.GroupID] = append(byGroup[r.GroupID], r)
	}

	return &OptionGenerator{
		byGroup: byGroup,
		radius:  radius,
		rng:     rng,
	}
}

// Related returns the records sharing r's group, excluding r itself.
func (g *OptionGenerator) Related(r entities.Record) []entities.Record {
	group := g.byGroup[r.GroupID]
	related := make([]entities.Record, 0, len(group))
	for _, q := range group {
		if q.ID != r.ID {
			related = append(related, q)
		}
	}
	return related
}

// GenerateOptions returns up to four options for the target field of r: the
// correct answer exactly once plus distinct distractors, in random order.
// Fewer than four options are returned when not enough distractors exist.
func (g *OptionGenerator) GenerateOptions(r entities.Record, target entities.Field) []string {
	correct := r.Field(target)

	options := make([]string, 0, maxChoices)
	options = append(options, correct)
	used := map[string]struct{}{correct: {}}

	// Candidates are consumed front to back: own group first, then nearby groups.
	candidates := Shuffled(g.rng, g.Related(r))
	candidates = append(candidates, g.fallback(r)...)

	for len(candidates) > 0 && len(options) < maxChoices {
		candidate := candidates[0]
		candidates = candidates[1:]

		optionText := candidate.Field(target)
		if strings.TrimSpace(optionText) == "" {
			continue
		}

		// Avoid duplicates
		if _, ok := used[optionText]; ok {
			continue
		}

		used[optionText] = struct{}{}
		options = append(options, optionText)
	}

	Shuffle(g.rng, options)

	return options
}

// fallback returns records of neighbouring groups, nearest groups first.
// Each group is shuffled on its own so nearer groups always win.
func (g *OptionGenerator) fallback(r entities.Record) []entities.Record {
	var out []entities.Record
	for d := 1; d <= g.radius; d++ {
		for _, groupID := range []int{r.GroupID - d, r.GroupID + d} {
			group := slices.DeleteFunc(slices.Clone(g.byGroup[groupID]), func(q entities.Record) bool {
				return q.ID == r.ID
			})
			out = append(out, Shuffled(g.rng, group)...)
		}
	}
	return out
}
