package telegram

import (
	"context"
	"errors"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/streamnexus/streamnexus/internal/notify"
)

type fakeSender struct {
	err  error
	sent []tgbotapi.MessageConfig
	wait time.Duration
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.wait > 0 {
		time.Sleep(f.wait)
	}
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.sent = append(f.sent, msg)
	}
	return tgbotapi.Message{}, f.err
}

func TestDeliverSendsHTMLMessage(t *testing.T) {
	t.Parallel()

	bot := &fakeSender{}
	d := newDelivererWithSender(nil, bot)

	err := d.Deliver(context.Background(), notify.Message{Endpoint: "123456", Text: "<b>live</b>"})
	if err != nil {
		t.Fatalf("Deliver() error = %v", err)
	}
	if len(bot.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(bot.sent))
	}
	msg := bot.sent[0]
	if msg.ChatID != 123456 {
		t.Errorf("chat id = %d, want 123456", msg.ChatID)
	}
	if msg.ParseMode != tgbotapi.ModeHTML {
		t.Errorf("parse mode = %q, want HTML", msg.ParseMode)
	}
	if msg.Text != "<b>live</b>" {
		t.Errorf("text = %q", msg.Text)
	}
}

func TestDeliverRejectsNonNumericEndpoint(t *testing.T) {
	t.Parallel()

	d := newDelivererWithSender(nil, &fakeSender{})
	err := d.Deliver(context.Background(), notify.Message{Endpoint: "not-a-chat-id"})

	var derr *notify.DeliveryError
	if !errors.As(err, &derr) || derr.Reason != notify.ReasonRejected {
		t.Fatalf("error = %v, want rejected DeliveryError", err)
	}
}

func TestDeliverClassifiesErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		err    error
		reason notify.FailReason
	}{
		{"blocked", &tgbotapi.Error{Code: 403, Message: "Forbidden: bot was blocked by the user"}, notify.ReasonUnauthorized},
		{"bad token", &tgbotapi.Error{Code: 401, Message: "Unauthorized"}, notify.ReasonUnauthorized},
		{"flood", &tgbotapi.Error{Code: 429, Message: "Too Many Requests"}, notify.ReasonRejected},
		{"bad request", &tgbotapi.Error{Code: 400, Message: "Bad Request: chat not found"}, notify.ReasonRejected},
		{"transport", errors.New("dial tcp: connection refused"), notify.ReasonUnreachable},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := newDelivererWithSender(nil, &fakeSender{err: tt.err})
			err := d.Deliver(context.Background(), notify.Message{Endpoint: "42"})

			var derr *notify.DeliveryError
			if !errors.As(err, &derr) {
				t.Fatalf("error = %v, want DeliveryError", err)
			}
			if derr.Reason != tt.reason {
				t.Errorf("reason = %q, want %q", derr.Reason, tt.reason)
			}
		})
	}
}

func TestDeliverTimeout(t *testing.T) {
	t.Parallel()

	d := newDelivererWithSender(nil, &fakeSender{wait: 200 * time.Millisecond})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := d.Deliver(ctx, notify.Message{Endpoint: "42"})
	var derr *notify.DeliveryError
	if !errors.As(err, &derr) || derr.Reason != notify.ReasonTimeout {
		t.Fatalf("error = %v, want timeout DeliveryError", err)
	}
}
