// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/fact-quiz/internal/domain/entities"
)

// Error messages.
const (
	msgQuizUnavailable      = "Could not create a quiz, please try again later."
	msgNoAvailableQuestions = "There are no questions yet. Load some records and try again."
	msgNoActiveQuiz         = "There is no quiz in progress. Send /quiz to start one."
	msgUnknownAnswer        = "I could not match that to an option. Tap a button or send the option letter."
	msgStatsUnavailable     = "Could not load your results, please try again later."
	msgInternalError        = "Something went wrong. Please try again later."
	msgUnknownCommand       = "Unknown command. Available commands:\n\n/quiz - start a quiz\n/stop - stop the current quiz\n/stats - your results"
)

// md escapes plain text for MarkdownV2.
func md(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

func bold(s string) string {
	return "*" + md(s) + "*"
}

// newMessage creates a message with MarkdownV2 parse mode.
func newMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	return msg
}

// newPlainMessage creates a plain message without MarkdownV2 parse mode.
func newPlainMessage(chatID int64, text string) tgbotapi.MessageConfig {
	return tgbotapi.NewMessage(chatID, text)
}

// newEdit creates an edit with MarkdownV2 parse mode.
func newEdit(chatID int64, msgID int, text string) tgbotapi.EditMessageTextConfig {
	edit := tgbotapi.NewEditMessageText(chatID, msgID, text)
	edit.ParseMode = tgbotapi.ModeMarkdownV2
	return edit
}

func msgWelcome() string {
	return fmt.Sprintf(
		"%s\n\n%s\n\n%s\n%s\n%s",
		bold("👋 Welcome to the fact quiz!"),
		md("Each question is either a true/false statement (〇 = true, ✕ = false) or a multiple choice question."),
		md("/quiz - start a quiz"),
		md("/stop - stop the current quiz"),
		md("/stats - your results"),
	)
}

// buildQuizStartMessage builds quiz start message (MarkdownV2 safe).
func buildQuizStartMessage(session entities.Session) string {
	return fmt.Sprintf(
		"%s\n\n%s",
		bold("🎯 The quiz begins!"),
		md(fmt.Sprintf("%d questions. Missed questions come back later.", session.Score.Total)),
	)
}

// formatQuizQuestion formats a quiz question (MarkdownV2 safe for question text).
func formatQuizQuestion(session entities.Session) string {
	p := session.Current

	header := fmt.Sprintf("Question %d", p.Seq)
	if p.Attempt > 0 {
		header += " · retry"
	}
	header += fmt.Sprintf(" · %d left", session.Remaining())

	return fmt.Sprintf(
		"%s\n\n%s",
		md(header),
		bold(p.Item.Prompt()),
	)
}

// formatAnswerFeedback formats feedback for a quiz answer (MarkdownV2 safe).
func formatAnswerFeedback(session entities.Session) string {
	p := session.Current
	var b strings.Builder

	b.WriteString(bold(p.Item.Prompt()))
	b.WriteString("\n\n")

	if session.LastCorrect {
		b.WriteString(md("✅ Correct!"))
	} else {
		b.WriteString(md("❌ Incorrect"))
		b.WriteString("\n\n")
		b.WriteString(md("Correct answer:"))
		b.WriteString(" ")
		b.WriteString(bold(p.Item.CorrectOption()))
	}

	if explanation := p.Item.Explanation(); explanation != "" {
		b.WriteString("\n\n💡 ")
		b.WriteString(md(explanation))
	}

	return b.String()
}

// formatQuizResult formats quiz results (MarkdownV2 safe).
func formatQuizResult(score entities.Score) string {
	percentage := score.Percentage()

	emoji, message := "📚", "Keep practicing!"
	switch {
	case percentage >= 90:
		emoji, message = "🌟", "Excellent!"
	case percentage >= 70:
		emoji, message = "👍", "Good result!"
	case percentage >= 50:
		emoji, message = "💪", "Not bad, keep going!"
	}

	progressBar := buildProgressBar(score.Correct, score.Total, 10)

	return fmt.Sprintf(
		"%s %s\n\n%s %s\n%s\n%s\n\n%s",
		md(emoji),
		md("Quiz finished!"),
		md("Result:"),
		bold(fmt.Sprintf("%d/%d (%.0f%%)", score.Correct, score.Total, percentage)),
		md(progressBar),
		md(fmt.Sprintf("Retried questions: %d", score.Retried)),
		md(message),
	)
}

// formatStats formats the history of finished quizzes (MarkdownV2 safe).
func formatStats(results []*entities.SessionResult) string {
	if len(results) == 0 {
		return md("You have not finished any quiz yet. Send /quiz to start one.")
	}

	var correct, total int
	for _, r := range results {
		correct += r.Score.Correct
		total += r.Score.Total
	}

	accuracy := 0.0
	if total > 0 {
		accuracy = float64(correct) / float64(total) * 100
	}

	last := results[len(results)-1]

	return fmt.Sprintf(
		"%s\n\n%s\n%s\n%s",
		bold("📊 Your results"),
		md(fmt.Sprintf("Quizzes finished: %d", len(results))),
		md(fmt.Sprintf("Accuracy: %.1f%%", accuracy)),
		md(fmt.Sprintf("Last quiz: %d/%d on %s", last.Score.Correct, last.Score.Total, last.FinishedAt.Format("2006-01-02"))),
	)
}

func buildProgressBar(current, total, length int) string {
	if total <= 0 {
		return "[" + strings.Repeat("░", length) + "]"
	}

	filled := current * length / total
	if filled > length {
		filled = length
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", length-filled)
	return fmt.Sprintf("[%s]", bar)
}
