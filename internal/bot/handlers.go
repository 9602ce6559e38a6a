package bot

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/example/voicelingo/internal/companion"
	"github.com/example/voicelingo/internal/excel"
	"github.com/example/voicelingo/internal/personalization"
	"github.com/example/voicelingo/internal/translate"
	"github.com/example/voicelingo/pkg/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// MaxDocumentSize bounds uploaded phrase files
const MaxDocumentSize = 10 << 20

var languageCode = regexp.MustCompile(`^[a-z]{2,3}(-[a-z]{2,4})?$`)

// HandleCommand dispatches a command message
func (b *Bot) HandleCommand(ctx context.Context, message *tgbotapi.Message) error {
	chatID := message.Chat.ID
	c := b.companion(chatID)
	args := strings.TrimSpace(message.CommandArguments())

	switch message.Command() {
	case "start":
		return b.handleStart(chatID, c)
	case "menu":
		return b.showMainMenu(chatID)
	case "help":
		return b.sendText(chatID, helpText)
	case "translate":
		if args == "" {
			return b.sendText(chatID, c.Personalization.PersonalizedCopy(personalization.CopyEmptyState))
		}
		return b.handleTranslate(ctx, chatID, args)
	case "practice":
		return b.showNextItem(chatID, c)
	case "stats":
		return b.handleStats(chatID, c)
	case "achievements":
		return b.sendText(chatID, formatAchievements(c.Achievements.Achievements(), c.Achievements.TotalPoints()))
	case "tips":
		return b.handleTips(chatID, c)
	case "level":
		return b.handleLevel(chatID, c)
	case "langs":
		return b.handleLangs(chatID, c, args)
	case "goal":
		return b.handleGoal(chatID, c, args)
	case "speak":
		return b.handleSpeak(chatID, c)
	case "history":
		c.UseFeature(personalization.FeatureHistory)
		return b.sendText(chatID, formatHistory(c.Preferences.History(), 5))
	default:
		return b.sendText(chatID, "Unknown command. Use /help to see the list of available commands.")
	}
}

func (b *Bot) handleStart(chatID int64, c *companion.Companion) error {
	text := fmt.Sprintf("%s\n\n%s\n\n%s",
		c.Personalization.SmartGreeting(),
		c.Preferences.WelcomeMessage(),
		c.Personalization.PersonalizedCopy(personalization.CopyEmptyState))

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = createKeyboard(mainMenuButtons())
	if err := b.sendMessage(msg); err != nil {
		return err
	}

	if !c.Personalization.State().OnboardingComplete {
		if err := b.sendText(chatID, helpText); err != nil {
			return err
		}
		c.Personalization.CompleteOnboarding()
	}
	return b.announceUnlocked(chatID, c)
}

func (b *Bot) showMainMenu(chatID int64) error {
	msg := tgbotapi.NewMessage(chatID, "Main menu. Send any text to translate it.")
	msg.ReplyMarkup = createKeyboard(mainMenuButtons())
	return b.sendMessage(msg)
}

func (b *Bot) handleTranslate(ctx context.Context, chatID int64, text string) error {
	c := b.companion(chatID)

	item, err := c.Translate(ctx, text)
	switch {
	case errors.Is(err, translate.ErrEmptyText):
		return b.sendText(chatID, "Send me some text to translate.")
	case err != nil:
		b.logger.Warn("translation failed", "chat", chatID, "error", err)
		return b.sendText(chatID, "⚠️ Translation failed, please try again later.")
	}

	if err := b.sendText(chatID, formatTranslation(item)); err != nil {
		return err
	}
	return b.announceUnlocked(chatID, c)
}

// showNextItem sends the first due practice item
func (b *Bot) showNextItem(chatID int64, c *companion.Companion) error {
	due := c.Scheduler.DueItems()
	if len(due) == 0 {
		text := "🎉 Nothing to review right now."
		if upcoming := c.Scheduler.UpcomingItems(); len(upcoming) > 0 {
			text += fmt.Sprintf("\nNext review: %s", upcoming[0].NextReview.Format(reviewTimeLayout))
		} else {
			text += "\nTranslate something to start building your practice list."
		}
		return b.sendText(chatID, text)
	}

	msg := tgbotapi.NewMessage(chatID, formatPrompt(due[0], len(due)))
	msg.ReplyMarkup = createKeyboard(revealButtons(due[0].ID))
	return b.sendMessage(msg)
}

func (b *Bot) handleStats(chatID int64, c *companion.Companion) error {
	msg := tgbotapi.NewMessage(chatID, formatStats(c.Dashboard(), c.Preferences.Preferences()))
	msg.ReplyMarkup = createKeyboard(mainMenuButtons())
	return b.sendMessage(msg)
}

func (b *Bot) handleTips(chatID int64, c *companion.Companion) error {
	tips := c.Personalization.ContextualTips()
	var recs []personalization.Recommendation
	if c.Personalization.UIVisibility().ShowRecommendations {
		recs = c.Personalization.Recommendations()
	}

	msg := tgbotapi.NewMessage(chatID, formatTips(tips, recs))
	if rows := tipButtons(tips, recs); len(rows) > 0 {
		msg.ReplyMarkup = createKeyboard(rows)
	}
	return b.sendMessage(msg)
}

func (b *Bot) handleLevel(chatID int64, c *companion.Companion) error {
	current := c.Personalization.LearningLevel()
	text := fmt.Sprintf("Your level: %s\nSuggested from your activity: %s\n\nChoose a level:",
		current, c.Personalization.AssessLearningLevel())

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = createKeyboard(levelButtons(current))
	return b.sendMessage(msg)
}

func (b *Bot) handleLangs(chatID int64, c *companion.Companion, args string) error {
	fields := strings.Fields(strings.ToLower(args))
	switch len(fields) {
	case 0:
		source, target := c.Preferences.Languages()
		text := fmt.Sprintf("Languages: %s → %s", strings.ToUpper(source), strings.ToUpper(target))
		if recent := c.Preferences.Preferences().RecentLanguages; len(recent) > 0 {
			text += "\nRecent: " + strings.Join(recent, ", ")
		}
		text += "\n\nUse /langs <source> <target> to change them, e.g. /langs en fr"

		msg := tgbotapi.NewMessage(chatID, text)
		msg.ReplyMarkup = createKeyboard([][]MenuButton{
			{{Text: "🔄 Swap languages", CallbackData: callbackSwapLangs}},
		})
		return b.sendMessage(msg)
	case 2:
		if !languageCode.MatchString(fields[0]) || !languageCode.MatchString(fields[1]) {
			return b.sendText(chatID, "Please use language codes such as en, es or pt-br.")
		}
		if fields[0] == fields[1] {
			return b.sendText(chatID, "Source and target language must differ.")
		}
		c.SetLanguages(fields[0], fields[1])
		text := fmt.Sprintf("✅ Languages set to %s → %s", strings.ToUpper(fields[0]), strings.ToUpper(fields[1]))
		if err := b.sendText(chatID, text); err != nil {
			return err
		}
		return b.announceUnlocked(chatID, c)
	default:
		return b.sendText(chatID, "Usage: /langs <source> <target>")
	}
}

func (b *Bot) handleGoal(chatID int64, c *companion.Companion, args string) error {
	if args == "" {
		p := c.Preferences.Preferences()
		return b.sendText(chatID, fmt.Sprintf("Daily goal: %d translations (%d done today)\nUse /goal <n> to change it.",
			p.DailyGoal, p.TodayTranslations))
	}

	goal, err := strconv.Atoi(args)
	if err != nil {
		return b.sendText(chatID, "Please specify a number: /goal <n>")
	}
	if err := c.Preferences.SetDailyGoal(goal); err != nil {
		return b.sendText(chatID, "⚠️ "+err.Error())
	}
	return b.sendText(chatID, fmt.Sprintf("✅ Daily goal set to %d translations", goal))
}

func (b *Bot) handleSpeak(chatID int64, c *companion.Companion) error {
	c.UseFeature(personalization.FeatureSpeak)

	history := c.Preferences.History()
	if len(history) == 0 {
		return b.sendText(chatID, c.Personalization.PersonalizedCopy(personalization.CopyRecordPrompt))
	}
	last := history[0]
	phonetic := last.Phonetic
	if phonetic == "" {
		phonetic = translate.Phonetic(last.Translated, last.TargetLang)
	}
	return b.sendText(chatID, fmt.Sprintf("🔊 %s\n%s", last.Translated, phonetic))
}

// handleDocument imports the phrases of an uploaded spreadsheet
func (b *Bot) handleDocument(ctx context.Context, message *tgbotapi.Message) error {
	chatID := message.Chat.ID
	c := b.companion(chatID)
	doc := message.Document

	ext := strings.ToLower(filepath.Ext(doc.FileName))
	if ext != ".xlsx" && ext != ".xlsm" && ext != ".csv" {
		return b.sendText(chatID, "Please send an .xlsx or .csv file.")
	}
	if doc.FileSize > MaxDocumentSize {
		return b.sendText(chatID, "The file is too large, the limit is 10 MB.")
	}

	url, err := b.api.GetFileDirectURL(doc.FileID)
	if err != nil {
		return fmt.Errorf("failed to get file url: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to download file: %s", resp.Status)
	}

	config := excel.DefaultImportConfig()
	config.SourceLang, config.TargetLang = c.Preferences.Languages()

	result, err := excel.Import(resp.Body, ext, config)
	if err != nil {
		b.logger.Warn("import failed", "chat", chatID, "file", doc.FileName, "error", err)
		return b.sendText(chatID, "⚠️ Could not read the file. Make sure it is a valid spreadsheet.")
	}

	added := c.ImportPhrases(result.Candidates)
	b.logger.Info("phrases imported", "chat", chatID, "file", doc.FileName, "added", added, "skipped", result.Skipped)

	msg := tgbotapi.NewMessage(chatID, formatImport(result, added))
	if added > 0 {
		msg.ReplyMarkup = createKeyboard([][]MenuButton{
			{{Text: "🔁 Start practice", CallbackData: callbackStartPractice}},
		})
	}
	return b.sendMessage(msg)
}

// HandleCallback dispatches a button press
func (b *Bot) HandleCallback(ctx context.Context, callback *tgbotapi.CallbackQuery) error {
	if callback.Message == nil {
		return nil
	}
	chatID := callback.Message.Chat.ID
	c := b.companion(chatID)

	if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		b.logger.Warn("failed to answer callback", "chat", chatID, "error", err)
	}

	data := callback.Data
	switch {
	case data == callbackMainMenu:
		return b.showMainMenu(chatID)
	case data == callbackStartPractice:
		return b.showNextItem(chatID, c)
	case data == callbackShowStats:
		return b.handleStats(chatID, c)
	case data == callbackSwapLangs:
		c.SwapLanguages()
		source, target := c.Preferences.Languages()
		return b.sendText(chatID, fmt.Sprintf("🔄 Languages: %s → %s", strings.ToUpper(source), strings.ToUpper(target)))
	case strings.HasPrefix(data, prefixReveal):
		return b.handleReveal(chatID, c, strings.TrimPrefix(data, prefixReveal))
	case strings.HasPrefix(data, prefixAnswer):
		return b.handleAnswer(chatID, c, data)
	case strings.HasPrefix(data, prefixTip):
		c.Personalization.MarkTipShown(strings.TrimPrefix(data, prefixTip))
		return b.sendText(chatID, "👍 Got it!")
	case strings.HasPrefix(data, prefixDismiss):
		c.Personalization.DismissRecommendation(strings.TrimPrefix(data, prefixDismiss))
		return b.sendText(chatID, "OK, I won't suggest that again.")
	case strings.HasPrefix(data, prefixLevel):
		level := models.LearningLevel(strings.TrimPrefix(data, prefixLevel))
		if !c.Personalization.UpdateLearningLevel(level) {
			return fmt.Errorf("unknown learning level %q", level)
		}
		text := fmt.Sprintf("✅ Level set to %s\n%s", level,
			c.Personalization.PersonalizedCopy(personalization.CopyProgressMessage))
		return b.sendText(chatID, text)
	default:
		return fmt.Errorf("unknown callback data %q", data)
	}
}

func (b *Bot) handleReveal(chatID int64, c *companion.Companion, itemID string) error {
	item, ok := c.Scheduler.Item(itemID)
	if !ok {
		return b.sendText(chatID, "This phrase is no longer in your practice list.")
	}
	msg := tgbotapi.NewMessage(chatID, formatRevealed(item))
	msg.ReplyMarkup = createKeyboard(answerButtons(item.ID))
	return b.sendMessage(msg)
}

func (b *Bot) handleAnswer(chatID int64, c *companion.Companion, data string) error {
	itemID, quality, ok := parseAnswer(data)
	if !ok {
		return fmt.Errorf("malformed answer data %q", data)
	}
	const removed = "This phrase is no longer in your practice list."
	current, ok := c.Scheduler.Item(itemID)
	if !ok {
		return b.sendText(chatID, removed)
	}
	// Buttons stay on old messages; only a due item can be graded
	if current.NextReview.After(b.now()) {
		return b.sendText(chatID, formatAlreadyReviewed(current))
	}

	item, ok := c.SubmitAnswer(itemID, quality)
	if !ok {
		return b.sendText(chatID, removed)
	}

	if err := b.sendText(chatID, formatReviewed(item, c.Scheduler.MasteryLevel(item))); err != nil {
		return err
	}
	if err := b.announceUnlocked(chatID, c); err != nil {
		return err
	}
	return b.showNextItem(chatID, c)
}
