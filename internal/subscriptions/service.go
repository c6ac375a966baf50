// Package subscriptions manages which channels an account follows.
package subscriptions

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/streamnexus/streamnexus/internal/db"
	"github.com/streamnexus/streamnexus/internal/db/sqlc"
	"github.com/streamnexus/streamnexus/internal/platform"
)

// Errors returned by subscription operations.
var (
	ErrAccountNotFound       = errors.New("account not found")
	ErrInvalidURL            = errors.New("invalid channel url")
	ErrDuplicateSubscription = errors.New("subscription already exists")
	ErrSubscriptionNotFound  = errors.New("subscription not found")
)

// Service manages subscription lifecycle for accounts.
type Service struct {
	queries *sqlc.Queries
	logger  *slog.Logger
}

// NewService creates a new subscription service.
func NewService(log *slog.Logger, queries *sqlc.Queries) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		queries: queries,
		logger:  log.With(slog.String("service", "subscriptions")),
	}
}

// Add subscribes an account to a channel URL. The URL must classify to a
// known content platform. The duplicate pre-check is advisory only; the
// unique constraint on (account_id, channel_url) is the final authority and
// a violation at insert time is reported as ErrDuplicateSubscription.
func (s *Service) Add(ctx context.Context, accountID, url string) (Subscription, error) {
	if s.queries == nil {
		return Subscription{}, errors.New("subscription queries not configured")
	}
	pgAccountID, err := db.ParseUUID(accountID)
	if err != nil {
		return Subscription{}, err
	}
	url = strings.TrimSpace(url)

	tag, err := platform.Classify(url)
	if err != nil {
		return Subscription{}, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	if _, err := s.queries.GetAccount(ctx, pgAccountID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Subscription{}, ErrAccountNotFound
		}
		return Subscription{}, fmt.Errorf("look up account: %w", err)
	}

	exists, err := s.queries.ExistsSubscription(ctx, sqlc.ExistsSubscriptionParams{
		AccountID:  pgAccountID,
		ChannelUrl: url,
	})
	if err != nil {
		return Subscription{}, fmt.Errorf("check duplicate: %w", err)
	}
	if exists {
		return Subscription{}, ErrDuplicateSubscription
	}

	row, err := s.queries.CreateSubscription(ctx, sqlc.CreateSubscriptionParams{
		AccountID:   pgAccountID,
		Platform:    string(tag),
		ChannelUrl:  url,
		ChannelName: pgtype.Text{},
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Subscription{}, ErrDuplicateSubscription
		}
		return Subscription{}, fmt.Errorf("create subscription: %w", err)
	}

	s.logger.Info("subscription added",
		slog.Int64("subscription_id", row.ID),
		slog.String("account_id", accountID),
		slog.String("platform", string(tag)),
	)
	return toSubscription(row), nil
}

// List returns all subscriptions for an account in insertion order.
func (s *Service) List(ctx context.Context, accountID string) ([]Subscription, error) {
	if s.queries == nil {
		return nil, errors.New("subscription queries not configured")
	}
	pgAccountID, err := db.ParseUUID(accountID)
	if err != nil {
		return nil, err
	}
	rows, err := s.queries.ListSubscriptionsByAccount(ctx, pgAccountID)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	items := make([]Subscription, 0, len(rows))
	for _, row := range rows {
		items = append(items, toSubscription(row))
	}
	return items, nil
}

// ListByChannelURL returns all subscriptions whose channel URL exactly equals
// url, in insertion order. No normalization is applied: a trailing-slash or
// casing mismatch yields zero matches.
func (s *Service) ListByChannelURL(ctx context.Context, url string) ([]Subscription, error) {
	if s.queries == nil {
		return nil, errors.New("subscription queries not configured")
	}
	rows, err := s.queries.ListSubscriptionsByChannelURL(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions by channel: %w", err)
	}
	items := make([]Subscription, 0, len(rows))
	for _, row := range rows {
		items = append(items, toSubscription(row))
	}
	return items, nil
}

// Remove deletes a subscription owned by the given account. A subscription
// that does not exist and one owned by a different account are reported
// identically as ErrSubscriptionNotFound, so existence of other accounts'
// subscriptions never leaks.
func (s *Service) Remove(ctx context.Context, subscriptionID int64, accountID string) error {
	if s.queries == nil {
		return errors.New("subscription queries not configured")
	}
	pgAccountID, err := db.ParseUUID(accountID)
	if err != nil {
		return err
	}
	affected, err := s.queries.DeleteSubscriptionByIDAndAccount(ctx, sqlc.DeleteSubscriptionByIDAndAccountParams{
		ID:        subscriptionID,
		AccountID: pgAccountID,
	})
	if err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	if affected == 0 {
		return ErrSubscriptionNotFound
	}
	s.logger.Info("subscription removed",
		slog.Int64("subscription_id", subscriptionID),
		slog.String("account_id", accountID),
	)
	return nil
}

func toSubscription(row sqlc.Subscription) Subscription {
	return Subscription{
		ID:          row.ID,
		AccountID:   row.AccountID.String(),
		Platform:    platform.Platform(row.Platform),
		ChannelURL:  row.ChannelUrl,
		ChannelName: db.TextToString(row.ChannelName),
		CreatedAt:   db.TimeFromPg(row.CreatedAt),
	}
}
