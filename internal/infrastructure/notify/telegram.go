package notify

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/taskhive/backend/internal/config"
	"github.com/taskhive/backend/internal/core/ports"
	"github.com/taskhive/backend/internal/infrastructure/logger"
)

// telegramNotifier pushes lifecycle events to a single ops channel. When no
// token is configured the constructor returns a no-op notifier so callers
// never have to branch.
type telegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	log    *logger.Logger
}

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, string) error { return nil }

func New(cfg config.NotifyConfig, log *logger.Logger) (ports.Notifier, error) {
	if cfg.TelegramToken == "" || cfg.TelegramChat == 0 {
		log.Info("telegram notifier disabled (no token or chat configured)")
		return noopNotifier{}, nil
	}

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, err
	}
	log.Infow("telegram_notifier_ready", "bot", bot.Self.UserName, "chat", cfg.TelegramChat)
	return &telegramNotifier{bot: bot, chatID: cfg.TelegramChat, log: log}, nil
}

func (n *telegramNotifier) Notify(_ context.Context, message string) error {
	msg := tgbotapi.NewMessage(n.chatID, message)
	if _, err := n.bot.Send(msg); err != nil {
		n.log.Warnw("telegram_send_failed", "error", err)
		return err
	}
	return nil
}
