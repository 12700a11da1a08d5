package service

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/aliskhannn/fact-quiz/internal/domain/entities"
	"github.com/aliskhannn/fact-quiz/internal/logger"
)

// Templates are fmt formats applied to a record. Use indexed verbs:
// %[1]s is the subject, %[2]s the agent and %[3]s the attribute.
type Templates struct {
	Statement  string
	AskAgent   string
	AskSubject string
}

// DefaultTemplates returns the built-in English templates.
func DefaultTemplates() Templates {
	return Templates{
		Statement:  "%[1]s was created by %[2]s (%[3]s).",
		AskAgent:   "Who created %[1]s (%[3]s)?",
		AskSubject: "Which work did %[2]s create (%[3]s)?",
	}
}

// GeneratorConfig tunes the mix of generated questions.
type GeneratorConfig struct {
	TrueFalseRatio float64 // probability of a true/false item
	TrueRatio      float64 // probability that a true/false item is a true statement
	AskAgentRatio  float64 // probability that a multiple choice item asks for the agent
	FallbackRadius int     // neighbouring groups searched for distractors
	Templates      Templates
}

// DefaultGeneratorConfig returns an even mix of question kinds.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		TrueFalseRatio: 0.5,
		TrueRatio:      0.5,
		AskAgentRatio:  0.5,
		FallbackRadius: 1,
		Templates:      DefaultTemplates(),
	}
}

// QuestionGenerator derives quiz items from records. It is safe for
// concurrent use; calls are serialized around the shared random source.
type QuestionGenerator struct {
	mu  sync.Mutex
	cfg GeneratorConfig
	rng *rand.Rand
	log logger.Logger
}

// NewQuestionGenerator creates a generator drawing randomness from rng.
func NewQuestionGenerator(cfg GeneratorConfig, rng *rand.Rand, log logger.Logger) *QuestionGenerator {
	if log == nil {
		log = logger.Nop
	}
	return &QuestionGenerator{
		cfg: cfg,
		rng: rng,
		log: log,
	}
}

// WithRand returns a generator with the same configuration and a different random source.
func (g *QuestionGenerator) WithRand(rng *rand.Rand) *QuestionGenerator {
	return NewQuestionGenerator(g.cfg, rng, g.log)
}

// Generate produces one quiz item per valid record. It never fails: records
// with empty fields are skipped, and missing distractors degrade the item
// instead of dropping it.
func (g *QuestionGenerator) Generate(records []entities.Record) []entities.QuizItem {
	g.mu.Lock()
	defer g.mu.Unlock()

	valid := make([]entities.Record, 0, len(records))
	for _, r := range records {
		if !r.Valid() {
			g.log.Log(fmt.Sprintf("skipping record %d: empty field", r.ID))
			continue
		}
		valid = append(valid, r)
	}

	options := NewOptionGenerator(valid, g.cfg.FallbackRadius, g.rng)

	facts := make(map[factKey]struct{}, len(valid))
	for _, r := range valid {
		facts[keyOf(r)] = struct{}{}
	}

	items := make([]entities.QuizItem, 0, len(valid))
	for _, r := range valid {
		if g.rng.Float64() < g.cfg.TrueFalseRatio {
			items = append(items, g.trueFalse(r, options.Related(r), facts))
			continue
		}

		target := entities.FieldAgent
		if g.rng.Float64() >= g.cfg.AskAgentRatio {
			target = entities.FieldSubject
		}
		items = append(items, g.multipleChoice(r, target, options))
	}

	g.log.Log(fmt.Sprintf("generated %d items from %d records", len(items), len(records)))

	return items
}

// Statement renders the canonical statement for r.
func (g *QuestionGenerator) Statement(r entities.Record) string {
	return render(g.cfg.Templates.Statement, r)
}

// trueFalse builds a true statement, or a false one made by taking a single
// field from a peer record. A substitution is rejected when it leaves the
// statement unchanged or reproduces an existing record; with no usable
// substitution the statement stays true.
func (g *QuestionGenerator) trueFalse(r entities.Record, related []entities.Record, facts map[factKey]struct{}) entities.TrueFalse {
	truth := entities.TrueFalse{
		Statement: g.Statement(r),
		IsTrue:    true,
		RecordID:  r.ID,
		Fact:      g.Statement(r),
	}

	if len(related) == 0 || g.rng.Float64() < g.cfg.TrueRatio {
		return truth
	}

	for _, peer := range Shuffled(g.rng, related) {
		for _, field := range Shuffled(g.rng, entities.TextFields) {
			value := peer.Field(field)
			if value == "" || value == r.Field(field) {
				continue
			}

			forged := r.With(field, value)
			if _, exists := facts[keyOf(forged)]; exists {
				continue
			}

			statement := g.Statement(forged)
			if statement == truth.Statement {
				continue
			}

			return entities.TrueFalse{
				Statement:   statement,
				IsTrue:      false,
				RecordID:    r.ID,
				Substituted: field,
				Fact:        truth.Fact,
			}
		}
	}

	g.log.Log(fmt.Sprintf("record %d: no peer differs in a usable field, asking a true statement", r.ID))

	return truth
}

func (g *QuestionGenerator) multipleChoice(r entities.Record, target entities.Field, options *OptionGenerator) entities.MultipleChoice {
	template := g.cfg.Templates.AskAgent
	if target == entities.FieldSubject {
		template = g.cfg.Templates.AskSubject
	}

	choices := options.GenerateOptions(r, target)
	if len(choices) < maxChoices {
		g.log.Log(fmt.Sprintf("record %d: only %d choices available for %s", r.ID, len(choices), target))
	}

	return entities.MultipleChoice{
		Question:      render(template, r),
		Choices:       choices,
		CorrectAnswer: r.Field(target),
		RecordID:      r.ID,
		Target:        target,
		Fact:          g.Statement(r),
	}
}

func render(template string, r entities.Record) string {
	return fmt.Sprintf(template, r.Subject, r.Agent, r.Attribute)
}

type factKey struct {
	subject, agent, attribute string
}

func keyOf(r entities.Record) factKey {
	return factKey{subject: r.Subject, agent: r.Agent, attribute: r.Attribute}
}
