package service

import (
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/aliskhannn/fact-quiz/internal/domain/entities"
)

// AnswerValidator maps typed answers to option indexes with fuzzy matching support.
type AnswerValidator struct {
	threshold float64 // Similarity threshold (0.0 - 1.0)
}

// NewAnswerValidator creates a new AnswerValidator.
func NewAnswerValidator() *AnswerValidator {
	return &AnswerValidator{
		threshold: 0.8, // 80% similarity required
	}
}

var (
	affirmative = map[string]struct{}{"〇": {}, "○": {}, "o": {}, "true": {}, "t": {}, "yes": {}, "y": {}}
	negative    = map[string]struct{}{"✕": {}, "×": {}, "x": {}, "false": {}, "f": {}, "no": {}, "n": {}}
)

// Resolve returns the option index the input refers to. Accepted forms are the
// exact option text, an option letter (a, b, ...), a 1-based number,
// true/false words for true/false items, or the option text matched loosely.
func (v *AnswerValidator) Resolve(item entities.QuizItem, input string) (int, error) {
	options := item.Options()
	answer := v.normalize(input)
	if answer == "" {
		return -1, ErrInvalidOption
	}

	// Exact option text wins over letter and number shortcuts.
	for i, option := range options {
		if v.normalize(option) == answer {
			return i, nil
		}
	}

	if item.Kind() == entities.KindTrueFalse {
		if _, ok := affirmative[answer]; ok {
			return 0, nil
		}
		if _, ok := negative[answer]; ok {
			return 1, nil
		}
	}

	if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(options) {
		return n - 1, nil
	}

	if len(answer) == 1 && answer[0] >= 'a' && answer[0] <= 'z' {
		if idx := int(answer[0] - 'a'); idx < len(options) {
			return idx, nil
		}
	}

	best, bestScore, tie := -1, 0.0, false
	for i, option := range options {
		score := v.similarity(answer, v.normalize(option))
		switch {
		case score > bestScore:
			best, bestScore, tie = i, score, false
		case score == bestScore:
			tie = true
		}
	}

	if best < 0 || tie || bestScore < v.threshold {
		return -1, ErrInvalidOption
	}

	return best, nil
}

// normalize folds width and case and collapses whitespace, so that full-width
// input like "Ａ" or "１" compares equal to its ASCII form.
func (v *AnswerValidator) normalize(s string) string {
	s = norm.NFKC.String(s)
	s = strings.ToLower(s)
	s = strings.Join(strings.Fields(s), " ")
	return s
}

// similarity calculates the similarity between two strings using Levenshtein distance.
func (v *AnswerValidator) similarity(s1, s2 string) float64 {
	distance := levenshteinDistance(s1, s2)
	maxLen := max(len([]rune(s1)), len([]rune(s2)))

	if maxLen == 0 {
		return 1.0
	}

	return 1.0 - float64(distance)/float64(maxLen)
}

// levenshteinDistance calculates the Levenshtein distance between two strings.
func levenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)

	cols := len(r2) + 1

	// Two rows instead of the full matrix.
	prev := make([]int, cols)
	curr := make([]int, cols)

	for j := 0; j < cols; j++ {
		prev[j] = j
	}

	for i := 1; i <= len(r1); i++ {
		curr[0] = i

		for j := 1; j < cols; j++ {
			cost := 1
			if r1[i-1] == r2[j-1] {
				cost = 0
			}

			curr[j] = min(
				curr[j-1]+1,    // Insertion
				prev[j]+1,      // Deletion
				prev[j-1]+cost, // Substitution
			)
		}

		prev, curr = curr, prev
	}

	return prev[cols-1]
}
