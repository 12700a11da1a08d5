package telegram

import (
	"strings"
	"testing"

	"github.com/aliskhannn/fact-quiz/internal/domain/entities"
)

func TestBuildProgressBar(t *testing.T) {
	tests := []struct {
		current, total int
		want           string
	}{
		{0, 10, "[░░░░░░░░░░]"},
		{5, 10, "[█████░░░░░]"},
		{10, 10, "[██████████]"},
		{3, 0, "[░░░░░░░░░░]"},
	}

	for _, tt := range tests {
		if got := buildProgressBar(tt.current, tt.total, 10); got != tt.want {
			t.Fatalf("buildProgressBar(%d, %d) = %q, want %q", tt.current, tt.total, got, tt.want)
		}
	}
}

func TestFormatAnswerFeedbackShowsCorrectOption(t *testing.T) {
	session := entities.Session{
		State: entities.StateAnswered,
		Current: &entities.Presentation{
			Seq: 1,
			Item: entities.MultipleChoice{
				Question:      "Who designed Fallingwater?",
				Choices:       []string{"Wright", "Gehry"},
				CorrectAnswer: "Wright",
			},
		},
		LastCorrect: false,
	}

	got := formatAnswerFeedback(session)
	if !strings.Contains(got, "Incorrect") || !strings.Contains(got, "*Wright*") {
		t.Fatalf("feedback = %q", got)
	}
}

func TestFormatAnswerFeedbackExplainsFalseStatement(t *testing.T) {
	session := entities.Session{
		State: entities.StateAnswered,
		Current: &entities.Presentation{
			Seq: 1,
			Item: entities.TrueFalse{
				Statement: "Fallingwater was created by Gehry (1935).",
				IsTrue:    false,
				Fact:      "Fallingwater was created by Wright (1935).",
			},
		},
		LastCorrect: true,
	}

	got := formatAnswerFeedback(session)
	want := `Fallingwater was created by Wright \(1935\)\.`
	if !strings.Contains(got, "Correct") || !strings.Contains(got, want) {
		t.Fatalf("feedback = %q, want it to contain %q", got, want)
	}
}

func TestFormatQuizResultEscapesMarkdown(t *testing.T) {
	got := formatQuizResult(entities.Score{Correct: 3, Total: 4})

	if !strings.Contains(got, `3/4 \(75%\)`) {
		t.Fatalf("result = %q", got)
	}
}
