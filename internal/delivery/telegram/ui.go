package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/fact-quiz/internal/domain/entities"
)

// buildQuizAnswerKeyboard builds keyboard for the session's current item.
// True/false options share one row; multiple choice options get a row each.
func buildQuizAnswerKeyboard(session entities.Session) tgbotapi.InlineKeyboardMarkup {
	ref := refOf(session)
	item := session.Current.Item
	options := item.Options()

	if item.Kind() == entities.KindTrueFalse {
		var row []tgbotapi.InlineKeyboardButton
		for i, option := range options {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(option, buildQuizAnswerCallback(ref, i)))
		}
		return tgbotapi.NewInlineKeyboardMarkup(row)
	}

	var rows [][]tgbotapi.InlineKeyboardButton
	for i, option := range options {
		button := tgbotapi.NewInlineKeyboardButtonData(option, buildQuizAnswerCallback(ref, i))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(button))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildQuizNextKeyboard builds keyboard shown under answer feedback.
func buildQuizNextKeyboard(ref itemRef, last bool) tgbotapi.InlineKeyboardMarkup {
	label := "Next ▶️"
	if last {
		label = "Show result 🏁"
	}
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, buildQuizNextCallback(ref)),
		),
	)
}

// buildQuizResultKeyboard builds keyboard for quiz results screen.
func buildQuizResultKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 New quiz", buildQuizStartCallback()),
		),
	)
}
