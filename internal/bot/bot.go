// Package bot runs the Telegram command interface. Users subscribe and
// unsubscribe by talking to the bot; every command first resolves the
// Telegram user to an account.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/streamnexus/streamnexus/internal/identities"
	"github.com/streamnexus/streamnexus/internal/platform"
	"github.com/streamnexus/streamnexus/internal/subscriptions"
)

const (
	msgWelcome = "👋 Welcome to StreamNexus!\n\n" +
		"I will message you when your favorite creators go live.\n\n" +
		"Commands:\n" +
		"/add <channel url> — subscribe to a YouTube or Twitch channel\n" +
		"/list — show your subscriptions\n" +
		"/remove <id> — unsubscribe"
	msgAddUsage = "Usage: /add <channel url>\n" +
		"Example: /add https://www.youtube.com/@MrBeast"
	msgBadURL = "I don't recognize that link. 🤔\n" +
		"Send a YouTube handle URL (youtube.com/@name) or a Twitch channel URL (twitch.tv/name)."
	msgDuplicate   = "You are already subscribed to that channel."
	msgListEmpty   = "You have no subscriptions yet.\nAdd one with /add <channel url>."
	msgRemoveUsage = "Usage: /remove <id>\nFind the id with /list."
	msgNotFound    = "No subscription with that id. Check /list."
	msgRemoved     = "🗑 Unsubscribed."
	msgUnavailable = "Something went wrong, the service is temporarily unavailable. Please try again later."
	msgUnknown     = "I don't know that command. Try /add, /list or /remove."
)

type identityResolver interface {
	Resolve(ctx context.Context, messenger platform.Messenger, platformUserID string) (identities.Resolution, error)
}

type subscriptionStore interface {
	Add(ctx context.Context, accountID, url string) (subscriptions.Subscription, error)
	List(ctx context.Context, accountID string) ([]subscriptions.Subscription, error)
	Remove(ctx context.Context, subscriptionID int64, accountID string) error
}

type Bot struct {
	api        *tgbotapi.BotAPI
	identities identityResolver
	subs       subscriptionStore
	logger     *slog.Logger
}

func New(log *slog.Logger, token string, ids *identities.Service, subs *subscriptions.Service) (*Bot, error) {
	if log == nil {
		log = slog.Default()
	}
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}
	return &Bot{
		api:        api,
		identities: ids,
		subs:       subs,
		logger:     log.With(slog.String("adapter", "bot")),
	}, nil
}

// Run long-polls for updates until ctx is canceled.
func (b *Bot) Run(ctx context.Context) {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 30
	updates := b.api.GetUpdatesChan(updateConfig)

	b.logger.Info("start", slog.String("bot", b.api.Self.UserName))
	for {
		select {
		case <-ctx.Done():
			b.logger.Info("stop")
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				b.logger.Info("updates channel closed")
				return
			}
			if update.Message == nil || update.Message.From == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	userID := strconv.FormatInt(msg.From.ID, 10)
	reply := b.HandleCommand(ctx, userID, strings.TrimSpace(msg.Text))
	if reply == "" {
		return
	}
	out := tgbotapi.NewMessage(msg.Chat.ID, reply)
	if _, err := b.api.Send(out); err != nil {
		b.logger.Error("send reply failed",
			slog.Int64("chat_id", msg.Chat.ID),
			slog.Any("error", err))
	}
}

// HandleCommand resolves the sender and executes one bot command,
// returning the reply text. Unrecovered backend failures map to a
// generic unavailability message.
func (b *Bot) HandleCommand(ctx context.Context, telegramUserID, text string) string {
	cmd, arg := splitCommand(text)
	if cmd == "" {
		return ""
	}

	res, err := b.identities.Resolve(ctx, platform.Telegram, telegramUserID)
	if err != nil {
		b.logger.Error("resolve identity failed", slog.String("user_id", telegramUserID), slog.Any("error", err))
		return msgUnavailable
	}

	switch cmd {
	case "/start":
		return msgWelcome
	case "/add":
		return b.handleAdd(ctx, res.AccountID, arg)
	case "/list":
		return b.handleList(ctx, res.AccountID)
	case "/remove":
		return b.handleRemove(ctx, res.AccountID, arg)
	default:
		return msgUnknown
	}
}

func (b *Bot) handleAdd(ctx context.Context, accountID, arg string) string {
	if arg == "" {
		return msgAddUsage
	}
	sub, err := b.subs.Add(ctx, accountID, arg)
	switch {
	case err == nil:
		return fmt.Sprintf("✅ Subscribed to %s %s!\nI'll let you know when they go live.", sub.Platform.Emoji(), sub.DisplayName())
	case errors.Is(err, subscriptions.ErrInvalidURL):
		return msgBadURL
	case errors.Is(err, subscriptions.ErrDuplicateSubscription):
		return msgDuplicate
	default:
		b.logger.Error("add subscription failed", slog.String("account_id", accountID), slog.Any("error", err))
		return msgUnavailable
	}
}

func (b *Bot) handleList(ctx context.Context, accountID string) string {
	items, err := b.subs.List(ctx, accountID)
	if err != nil {
		b.logger.Error("list subscriptions failed", slog.String("account_id", accountID), slog.Any("error", err))
		return msgUnavailable
	}
	if len(items) == 0 {
		return msgListEmpty
	}
	var sb strings.Builder
	sb.WriteString("Your subscriptions:\n")
	for _, sub := range items {
		fmt.Fprintf(&sb, "\n%s [%d] %s", sub.Platform.Emoji(), sub.ID, sub.DisplayName())
	}
	sb.WriteString("\n\nRemove one with /remove <id>.")
	return sb.String()
}

func (b *Bot) handleRemove(ctx context.Context, accountID, arg string) string {
	if arg == "" {
		return msgRemoveUsage
	}
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil {
		return msgRemoveUsage
	}
	switch err := b.subs.Remove(ctx, id, accountID); {
	case err == nil:
		return msgRemoved
	case errors.Is(err, subscriptions.ErrSubscriptionNotFound):
		return msgNotFound
	default:
		b.logger.Error("remove subscription failed", slog.String("account_id", accountID), slog.Any("error", err))
		return msgUnavailable
	}
}

// splitCommand separates the command token from its argument and
// strips the @botname suffix Telegram appends in groups.
func splitCommand(text string) (cmd, arg string) {
	if !strings.HasPrefix(text, "/") {
		return "", ""
	}
	cmd, arg, _ = strings.Cut(text, " ")
	if at := strings.IndexByte(cmd, '@'); at > 0 {
		cmd = cmd[:at]
	}
	return strings.ToLower(cmd), strings.TrimSpace(arg)
}
