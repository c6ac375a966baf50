// Package telegram delivers composed push messages to Telegram chats.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/streamnexus/streamnexus/internal/notify"
	"github.com/streamnexus/streamnexus/internal/platform"
)

// sender is the slice of the bot API the deliverer needs.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

type Deliverer struct {
	bot    sender
	logger *slog.Logger
}

func NewDeliverer(log *slog.Logger, token string) (*Deliverer, error) {
	if log == nil {
		log = slog.Default()
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}
	return &Deliverer{
		bot:    bot,
		logger: log.With(slog.String("deliverer", "telegram")),
	}, nil
}

func newDelivererWithSender(log *slog.Logger, bot sender) *Deliverer {
	if log == nil {
		log = slog.Default()
	}
	return &Deliverer{bot: bot, logger: log.With(slog.String("deliverer", "telegram"))}
}

func (d *Deliverer) Messenger() platform.Messenger {
	return platform.Telegram
}

// Deliver sends one HTML message to the chat identified by the
// endpoint. The bot API has no context support, so the send runs in a
// goroutine and the call returns a timeout error once ctx expires.
func (d *Deliverer) Deliver(ctx context.Context, msg notify.Message) error {
	chatID, err := strconv.ParseInt(strings.TrimSpace(msg.Endpoint), 10, 64)
	if err != nil {
		return &notify.DeliveryError{Reason: notify.ReasonRejected, Err: fmt.Errorf("endpoint must be a chat id: %q", msg.Endpoint)}
	}

	message := tgbotapi.NewMessage(chatID, msg.Text)
	message.ParseMode = tgbotapi.ModeHTML
	message.DisableWebPagePreview = false

	done := make(chan error, 1)
	go func() {
		_, err := d.bot.Send(message)
		done <- err
	}()

	select {
	case <-ctx.Done():
		return &notify.DeliveryError{Reason: notify.ReasonTimeout, Err: ctx.Err()}
	case err := <-done:
		if err != nil {
			return classify(err)
		}
		return nil
	}
}

// classify maps a bot API failure to a delivery reason. A blocked bot
// surfaces as 403, a revoked token as 401; both mean the endpoint can
// no longer be messaged.
func classify(err error) error {
	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == 401 || apiErr.Code == 403:
			return &notify.DeliveryError{Reason: notify.ReasonUnauthorized, Err: err}
		case apiErr.Code >= 400 && apiErr.Code < 500:
			return &notify.DeliveryError{Reason: notify.ReasonRejected, Err: err}
		}
	}
	return &notify.DeliveryError{Reason: notify.ReasonUnreachable, Err: err}
}
