package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/example/voicelingo/internal/bot"
	"github.com/example/voicelingo/internal/scheduler"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
)

func newBotCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram bot",
		Long: `Run the Telegram bot until interrupted.

Practice reminders are sent every REMINDER_INTERVAL between
NOTIFICATION_START_HOUR and NOTIFICATION_END_HOUR to every chat with
phrases due.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runBot(cmd.Context())
		},
	}
}

func (a *app) runBot(ctx context.Context) error {
	if err := a.cfg.RequireBot(); err != nil {
		return err
	}

	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	api, err := tgbotapi.NewBotAPI(a.cfg.TelegramBotToken)
	if err != nil {
		return fmt.Errorf("unable to create bot: %w", err)
	}
	a.logger.Info("authorized on account", "username", api.Self.UserName)

	b := bot.New(api, store, bot.WithTranslator(a.translator()), bot.WithLogger(a.logger))

	reminders := scheduler.New(b, b, scheduler.Config{
		StartHour: a.cfg.NotificationStartHour,
		EndHour:   a.cfg.NotificationEndHour,
		Interval:  a.cfg.ReminderInterval,
	}, a.logger)
	if err := reminders.Start(); err != nil {
		return err
	}
	defer reminders.Stop()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.logger.Info("bot started, press Ctrl+C to stop")
	if err := b.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
