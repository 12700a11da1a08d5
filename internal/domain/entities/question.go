package entities

// ItemKind identifies a QuizItem variant.
type ItemKind string

const (
	KindTrueFalse      ItemKind = "true_false"
	KindMultipleChoice ItemKind = "multiple_choice"
)

// Options shown for a true/false item. The affirmative option always comes first.
const (
	OptionTrue  = "〇"
	OptionFalse = "✕"
)

// QuizItem is a question derived from a Record.
type QuizItem interface {
	Kind() ItemKind
	Prompt() string    // text shown to the player
	Options() []string // displayed options in order
	IsCorrect(option int) bool
	CorrectOption() string
	SourceID() int // ID of the record the item was derived from
	// Explanation is the true fact behind the item, shown after an answer.
	Explanation() string
}

// TrueFalse is an assertion the player marks as true or false.
type TrueFalse struct {
	Statement   string `json:"statement"`
	IsTrue      bool   `json:"is_true"`
	RecordID    int    `json:"record_id"`
	Substituted Field  `json:"substituted,omitempty"` // field taken from a peer record when IsTrue is false
	Fact        string `json:"fact,omitempty"`
}

func (t TrueFalse) Kind() ItemKind { return KindTrueFalse }

func (t TrueFalse) Prompt() string { return t.Statement }

func (t TrueFalse) Options() []string { return []string{OptionTrue, OptionFalse} }

// IsCorrect treats option 0 as "true" and option 1 as "false".
func (t TrueFalse) IsCorrect(option int) bool {
	switch option {
	case 0:
		return t.IsTrue
	case 1:
		return !t.IsTrue
	default:
		return false
	}
}

func (t TrueFalse) CorrectOption() string {
	if t.IsTrue {
		return OptionTrue
	}
	return OptionFalse
}

func (t TrueFalse) SourceID() int { return t.RecordID }

// Explanation returns Fact, falling back to the statement of a true item.
func (t TrueFalse) Explanation() string {
	if t.Fact == "" && t.IsTrue {
		return t.Statement
	}
	return t.Fact
}

// MultipleChoice asks for one field of a record. Choices holds the correct
// answer exactly once plus up to three distinct distractors.
type MultipleChoice struct {
	Question      string   `json:"question"`
	Choices       []string `json:"choices"`
	CorrectAnswer string   `json:"correct_answer"`
	RecordID      int      `json:"record_id"`
	Target        Field    `json:"target"` // field of the record the question asks for
	Fact          string   `json:"fact,omitempty"`
}

func (m MultipleChoice) Kind() ItemKind { return KindMultipleChoice }

func (m MultipleChoice) Prompt() string { return m.Question }

func (m MultipleChoice) Options() []string { return m.Choices }

// IsCorrect compares the chosen option with the correct answer by value.
func (m MultipleChoice) IsCorrect(option int) bool {
	if option < 0 || option >= len(m.Choices) {
		return false
	}
	return m.Choices[option] == m.CorrectAnswer
}

func (m MultipleChoice) CorrectOption() string { return m.CorrectAnswer }

func (m MultipleChoice) SourceID() int { return m.RecordID }

func (m MultipleChoice) Explanation() string { return m.Fact }

// CorrectIndex returns the position of the correct answer in Choices, or -1.
func (m MultipleChoice) CorrectIndex() int {
	for i, c := range m.Choices {
		if c == m.CorrectAnswer {
			return i
		}
	}
	return -1
}
