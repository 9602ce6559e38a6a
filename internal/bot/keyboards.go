package bot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/example/voicelingo/internal/personalization"
	"github.com/example/voicelingo/internal/spaced_repetition"
	"github.com/example/voicelingo/pkg/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Callback data. Telegram limits callback data to 64 bytes, item ids are
// at most 36 characters.
const (
	callbackMainMenu      = "main_menu"
	callbackStartPractice = "start_practice"
	callbackShowStats     = "show_stats"
	callbackSwapLangs     = "swap_langs"

	prefixReveal  = "reveal:"
	prefixAnswer  = "answer:"
	prefixTip     = "tip:"
	prefixDismiss = "dismiss:"
	prefixLevel   = "level:"
)

// MenuButton represents a button in the menu
type MenuButton struct {
	Text         string
	CallbackData string
}

// createKeyboard creates a keyboard from menu buttons
func createKeyboard(buttons [][]MenuButton) tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, row := range buttons {
		var keyboardRow []tgbotapi.InlineKeyboardButton
		for _, button := range row {
			keyboardRow = append(keyboardRow, tgbotapi.NewInlineKeyboardButtonData(button.Text, button.CallbackData))
		}
		keyboard = append(keyboard, keyboardRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

// mainMenuButtons returns the buttons of the main menu
func mainMenuButtons() [][]MenuButton {
	return [][]MenuButton{
		{
			{Text: "🔁 Practice", CallbackData: callbackStartPractice},
			{Text: "📊 Statistics", CallbackData: callbackShowStats},
		},
		{
			{Text: "🔄 Swap languages", CallbackData: callbackSwapLangs},
		},
	}
}

func revealButtons(itemID string) [][]MenuButton {
	return [][]MenuButton{
		{{Text: "👀 Show answer", CallbackData: prefixReveal + itemID}},
		{{Text: "🏠 Main menu", CallbackData: callbackMainMenu}},
	}
}

// qualityLabels names the answer grades offered after an answer is revealed
var qualityLabels = []struct {
	quality spaced_repetition.QualityResponse
	text    string
}{
	{spaced_repetition.QualityBlackout, "0 ❌"},
	{spaced_repetition.QualityIncorrect, "1"},
	{spaced_repetition.QualityIncorrectFamiliar, "2"},
	{spaced_repetition.QualityCorrectDifficult, "3 😅"},
	{spaced_repetition.QualityCorrectHesitation, "4 🙂"},
	{spaced_repetition.QualityPerfect, "5 🎯"},
}

func answerButtons(itemID string) [][]MenuButton {
	var failed, passed []MenuButton
	for _, l := range qualityLabels {
		button := MenuButton{Text: l.text, CallbackData: answerData(itemID, int(l.quality))}
		if l.quality < spaced_repetition.QualityCorrectDifficult {
			failed = append(failed, button)
		} else {
			passed = append(passed, button)
		}
	}
	return [][]MenuButton{failed, passed}
}

func levelButtons(current models.LearningLevel) [][]MenuButton {
	var row []MenuButton
	for _, level := range []models.LearningLevel{models.LevelBeginner, models.LevelIntermediate, models.LevelAdvanced} {
		text := string(level)
		if level == current {
			text = "✅ " + text
		}
		row = append(row, MenuButton{Text: text, CallbackData: prefixLevel + string(level)})
	}
	return [][]MenuButton{row}
}

// tipButtons offers one acknowledge button per tip and one dismiss button per recommendation
func tipButtons(tips []personalization.Tip, recs []personalization.Recommendation) [][]MenuButton {
	var rows [][]MenuButton
	for _, tip := range tips {
		rows = append(rows, []MenuButton{{Text: "👍 " + tip.Title, CallbackData: prefixTip + tip.ID}})
	}
	for _, rec := range recs {
		rows = append(rows, []MenuButton{{Text: "✖️ " + rec.Title, CallbackData: prefixDismiss + rec.ID}})
	}
	return rows
}

func answerData(itemID string, quality int) string {
	return fmt.Sprintf("%s%s:%d", prefixAnswer, itemID, quality)
}

// parseAnswer splits answer callback data into the item id and the quality
func parseAnswer(data string) (itemID string, quality int, ok bool) {
	rest, found := strings.CutPrefix(data, prefixAnswer)
	if !found {
		return "", 0, false
	}
	i := strings.LastIndex(rest, ":")
	if i <= 0 {
		return "", 0, false
	}
	quality, err := strconv.Atoi(rest[i+1:])
	if err != nil {
		return "", 0, false
	}
	return rest[:i], quality, true
}
