// Package bot is the Telegram front end. Every chat is a separate profile
// with its own companion; updates are handled one at a time.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/example/voicelingo/internal/companion"
	"github.com/example/voicelingo/internal/database"
	"github.com/example/voicelingo/internal/spaced_repetition"
	"github.com/example/voicelingo/pkg/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ChatsKey is the key the list of known chats is persisted under
const ChatsKey = "voicelingo_bot_chats"

// SessionTimeout is the idle time after which a chat's session ends
const SessionTimeout = time.Hour

// API is the part of the Telegram client the bot uses
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetFileDirectURL(fileID string) (string, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type chatSession struct {
	companion *companion.Companion
	lastSeen  time.Time
}

// Bot represents the Telegram bot application
type Bot struct {
	api        API
	store      database.Store
	translator companion.Translator
	httpClient *http.Client
	logger     *slog.Logger
	now        func() time.Time

	// mu serializes the update loop and the reminder job
	mu       sync.Mutex
	sessions map[int64]*chatSession
	chats    map[int64]bool
	endAt    *time.Time // Clock override while an idle session is closed
}

// Option configures a Bot
type Option func(*Bot)

func WithTranslator(t companion.Translator) Option {
	return func(b *Bot) { b.translator = t }
}

func WithLogger(logger *slog.Logger) Option {
	return func(b *Bot) { b.logger = logger }
}

// WithClock replaces the wall clock of the bot and of every companion it opens
func WithClock(now func() time.Time) Option {
	return func(b *Bot) { b.now = now }
}

// WithHTTPClient sets the client uploaded documents are downloaded with
func WithHTTPClient(c *http.Client) Option {
	return func(b *Bot) { b.httpClient = c }
}

// New creates a bot that keeps all profiles in store
func New(api API, store database.Store, opts ...Option) *Bot {
	b := &Bot{
		api:        api,
		store:      store,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     slog.Default(),
		now:        time.Now,
		sessions:   make(map[int64]*chatSession),
		chats:      make(map[int64]bool),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.loadChats()
	return b
}

func (b *Bot) loadChats() {
	var ids []int64
	err := database.LoadJSON(b.store, ChatsKey, &ids)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		b.logger.Warn("failed to load known chats", "key", ChatsKey, "error", err)
		return
	}
	for _, id := range ids {
		b.chats[id] = true
	}
}

func (b *Bot) saveChats() {
	if err := database.SaveJSON(b.store, ChatsKey, b.knownChats()); err != nil {
		b.logger.Warn("failed to persist state", "key", ChatsKey, "error", err)
	}
}

// knownChats returns the ids of all chats that ever talked to the bot, ascending
func (b *Bot) knownChats() []int64 {
	ids := make([]int64, 0, len(b.chats))
	for id := range b.chats {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// companionNow is the clock of every companion
func (b *Bot) companionNow() time.Time {
	if b.endAt != nil {
		return *b.endAt
	}
	return b.now()
}

// endSession closes a session as of the chat's last activity
func (b *Bot) endSession(s *chatSession) {
	b.endAt = &s.lastSeen
	s.companion.Stop()
	b.endAt = nil
}

func profileStore(store database.Store, chatID int64) database.Store {
	return database.WithPrefix(store, database.ProfilePrefix(strconv.FormatInt(chatID, 10)))
}

// companion returns the companion of a chat, opening it on first contact.
// A chat idle for longer than SessionTimeout starts a new session.
// Callers must hold b.mu.
func (b *Bot) companion(chatID int64) *companion.Companion {
	now := b.now()
	s, ok := b.sessions[chatID]
	if !ok {
		c := companion.Open(profileStore(b.store, chatID),
			companion.WithClock(b.companionNow),
			companion.WithLogger(b.logger.With("chat", chatID)),
			companion.WithTranslator(b.translator),
		)
		c.Start(models.DeviceMobile)
		s = &chatSession{companion: c}
		b.sessions[chatID] = s

		if !b.chats[chatID] {
			b.chats[chatID] = true
			b.saveChats()
		}
	} else if now.Sub(s.lastSeen) > SessionTimeout {
		b.endSession(s)
		s.companion.Start(models.DeviceMobile)
	}
	s.lastSeen = now
	return s.companion
}

// Run receives updates until ctx is cancelled
func (b *Bot) Run(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60

	updates := b.api.GetUpdatesChan(updateConfig)
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.Stop()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				b.Stop()
				return nil
			}
			b.handleUpdate(ctx, update)
		}
	}
}

// Stop ends every open session
func (b *Bot) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, s := range b.sessions {
		b.endSession(s)
	}
	b.sessions = make(map[int64]*chatSession)
	b.logger.Info("bot stopped")
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var err error
	switch {
	case update.CallbackQuery != nil:
		err = b.HandleCallback(ctx, update.CallbackQuery)
	case update.Message != nil && update.Message.Document != nil:
		err = b.handleDocument(ctx, update.Message)
	case update.Message != nil && update.Message.IsCommand():
		err = b.HandleCommand(ctx, update.Message)
	case update.Message != nil && update.Message.Text != "":
		err = b.handleTranslate(ctx, update.Message.Chat.ID, update.Message.Text)
	default:
		return
	}
	if err != nil {
		b.logger.Error("failed to handle update", "update", update.UpdateID, "error", err)
	}
}

// SendReminders sends a practice reminder to a chat
func (b *Bot) SendReminders(chatID int64, count int) error {
	msg := tgbotapi.NewMessage(chatID, formatReminder(count))
	msg.ReplyMarkup = createKeyboard([][]MenuButton{
		{{Text: "🔁 Start practice", CallbackData: callbackStartPractice}},
	})
	return b.sendMessage(msg)
}

// DueCounts reports the number of due practice items of every known chat
func (b *Bot) DueCounts() (map[int64]int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	counts := make(map[int64]int, len(b.chats))
	for _, id := range b.knownChats() {
		counts[id] = b.dueCount(id)
	}
	return counts, nil
}

// DueCount reports the number of due practice items of one chat
func (b *Bot) DueCount(chatID int64) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.chats[chatID] {
		return 0, fmt.Errorf("unknown chat %d", chatID)
	}
	return b.dueCount(chatID), nil
}

// dueCount reads the schedule without opening a session, so a reminder
// check does not count as a visit
func (b *Bot) dueCount(chatID int64) int {
	if s, ok := b.sessions[chatID]; ok {
		return len(s.companion.Scheduler.DueItems())
	}
	engine := spaced_repetition.New(profileStore(b.store, chatID),
		spaced_repetition.WithClock(b.now),
		spaced_repetition.WithLogger(b.logger.With("chat", chatID)),
	)
	return len(engine.DueItems())
}

func (b *Bot) sendMessage(msg tgbotapi.Chattable) error {
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

func (b *Bot) sendText(chatID int64, text string) error {
	return b.sendMessage(tgbotapi.NewMessage(chatID, text))
}

// announceUnlocked sends one message per achievement unlocked since the last call
func (b *Bot) announceUnlocked(chatID int64, c *companion.Companion) error {
	unlocked := c.Achievements.NewlyUnlocked()
	if len(unlocked) == 0 {
		return nil
	}
	c.Achievements.ClearNewlyUnlocked()

	var errs []error
	for _, a := range unlocked {
		errs = append(errs, b.sendText(chatID, formatUnlocked(a)))
	}
	return errors.Join(errs...)
}
