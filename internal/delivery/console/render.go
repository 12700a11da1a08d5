package console

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/aliskhannn/fact-quiz/internal/domain/entities"
)

var (
	colorHeader  = lipgloss.Color("33")
	colorPrompt  = lipgloss.Color("15")
	colorOption  = lipgloss.Color("250")
	colorCorrect = lipgloss.Color("42")
	colorWrong   = lipgloss.Color("196")
	colorMuted   = lipgloss.Color("242")
)

// renderHeader renders the progress line above a question.
func renderHeader(s entities.Session, noColor bool) string {
	p := s.Current
	line := fmt.Sprintf("Question %d", p.Seq)
	if p.Attempt > 0 {
		line += " (retry)"
	}
	line += fmt.Sprintf(" | %d left | %d/%d correct", s.Remaining(), s.Score.Correct, s.Score.Total)
	return stylize(line, noColor, colorHeader)
}

// renderQuestion renders the prompt and lettered options.
func renderQuestion(p *entities.Presentation, noColor bool) string {
	var b strings.Builder
	b.WriteString(bolden(p.Item.Prompt(), noColor, colorPrompt))
	b.WriteString("\n\n")

	for i, option := range p.Item.Options() {
		label := option
		if p.Item.Kind() == entities.KindTrueFalse {
			label = option + " " + trueFalseHint(i)
		}
		b.WriteString(stylize(fmt.Sprintf("  %c. %s", 'A'+i, label), noColor, colorOption))
		b.WriteString("\n")
	}

	return b.String()
}

func trueFalseHint(option int) string {
	if option == 0 {
		return "(true)"
	}
	return "(false)"
}

// renderFeedback renders the verdict for the last answer.
// The true fact follows on a muted line when the item carries one.
func renderFeedback(s entities.Session, noColor bool) string {
	verdict := stylize("✔ Correct!", noColor, colorCorrect)
	if !s.LastCorrect {
		verdict = stylize("✘ Wrong. Correct answer: "+s.Current.Item.CorrectOption(), noColor, colorWrong)
	}

	explanation := s.Current.Item.Explanation()
	if explanation == "" {
		return verdict
	}
	return verdict + "\n" + stylize("  "+explanation, noColor, colorMuted)
}

// renderSummary renders the final score.
func renderSummary(score entities.Score, noColor bool) string {
	line := fmt.Sprintf("Final score: %d/%d (%.0f%%) | answered %d | retried %d",
		score.Correct, score.Total, score.Percentage(), score.Answered, score.Retried)
	return bolden(line, noColor, colorHeader)
}

// renderPanel renders the debug panel lines in a bordered box.
func renderPanel(lines []string, noColor bool) string {
	if len(lines) == 0 {
		return ""
	}
	text := strings.Join(lines, "\n")
	if noColor {
		return "--- debug ---\n" + text + "\n-------------"
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorMuted).
		Foreground(colorMuted).
		Padding(0, 1).
		Render(text)
}

// stylize applies optional color styling.
func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}

func bolden(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Bold(true).Foreground(color).Render(text)
}
