// Package identities resolves external messaging-platform identities to
// internal accounts.
package identities

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/streamnexus/streamnexus/internal/db"
	"github.com/streamnexus/streamnexus/internal/db/sqlc"
	"github.com/streamnexus/streamnexus/internal/platform"
)

// Errors returned by identity operations.
var (
	ErrEmptyPlatformUserID = errors.New("platform user id is required")
	ErrNoLinkedIdentity    = errors.New("no linked identity for account")
)

// Service resolves (platform, platform-user-id) pairs to accounts, creating
// the account on first contact.
type Service struct {
	pool    *pgxpool.Pool
	queries *sqlc.Queries
	logger  *slog.Logger
}

// NewService creates a new identity service.
func NewService(log *slog.Logger, pool *pgxpool.Pool, queries *sqlc.Queries) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		pool:    pool,
		queries: queries,
		logger:  log.With(slog.String("service", "identities")),
	}
}

// Resolve returns the account linked to the given external identity, creating
// a fresh account and identity when none exists yet.
//
// Concurrent first-contact calls for the same identity are safe: the unique
// constraint on (platform, platform_user_id) is the only arbiter. A unique
// violation on the identity insert means another caller won the race; the
// transaction is rolled back, leaving no orphan account, and the winner's
// identity is re-read.
func (s *Service) Resolve(ctx context.Context, messenger platform.Messenger, platformUserID string) (Resolution, error) {
	if s.queries == nil {
		return Resolution{}, errors.New("identity queries not configured")
	}
	platformUserID = strings.TrimSpace(platformUserID)
	if platformUserID == "" {
		return Resolution{}, ErrEmptyPlatformUserID
	}

	existing, err := s.queries.GetLinkedIdentityByPlatformSubject(ctx, sqlc.GetLinkedIdentityByPlatformSubjectParams{
		Platform:       string(messenger),
		PlatformUserID: platformUserID,
	})
	if err == nil {
		return Resolution{AccountID: existing.AccountID.String(), IsNew: false}, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Resolution{}, fmt.Errorf("look up linked identity: %w", err)
	}

	resolution, err := s.createFirstContact(ctx, messenger, platformUserID)
	if err != nil {
		return Resolution{}, err
	}
	return resolution, nil
}

// createFirstContact creates the account and its linked identity in one
// transaction. A partial failure must not leave an orphaned account behind.
func (s *Service) createFirstContact(ctx context.Context, messenger platform.Messenger, platformUserID string) (Resolution, error) {
	if s.pool == nil {
		return Resolution{}, errors.New("identity pool not configured")
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return Resolution{}, fmt.Errorf("begin first-contact tx: %w", err)
	}
	defer tx.Rollback(ctx)

	qtx := s.queries.WithTx(tx)
	account, err := qtx.CreateAccount(ctx)
	if err != nil {
		return Resolution{}, fmt.Errorf("create account: %w", err)
	}
	_, err = qtx.CreateLinkedIdentity(ctx, sqlc.CreateLinkedIdentityParams{
		AccountID:      account.ID,
		Platform:       string(messenger),
		PlatformUserID: platformUserID,
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			// Lost the first-contact race. The rolled-back tx discards our
			// account; return the winner's.
			return s.resolveRaceWinner(ctx, messenger, platformUserID)
		}
		return Resolution{}, fmt.Errorf("create linked identity: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return Resolution{}, fmt.Errorf("commit first-contact tx: %w", err)
	}

	s.logger.Info("account created",
		slog.String("account_id", account.ID.String()),
		slog.String("platform", string(messenger)),
	)
	return Resolution{AccountID: account.ID.String(), IsNew: true}, nil
}

func (s *Service) resolveRaceWinner(ctx context.Context, messenger platform.Messenger, platformUserID string) (Resolution, error) {
	winner, err := s.queries.GetLinkedIdentityByPlatformSubject(ctx, sqlc.GetLinkedIdentityByPlatformSubjectParams{
		Platform:       string(messenger),
		PlatformUserID: platformUserID,
	})
	if err != nil {
		return Resolution{}, fmt.Errorf("re-read identity after race: %w", err)
	}
	s.logger.Debug("first-contact race lost, reusing winner's account",
		slog.String("account_id", winner.AccountID.String()),
		slog.String("platform", string(messenger)),
	)
	return Resolution{AccountID: winner.AccountID.String(), IsNew: false}, nil
}

// Endpoint returns the messaging endpoint (the platform user id) linked to an
// account on the given messenger, or ErrNoLinkedIdentity when the account has
// none.
func (s *Service) Endpoint(ctx context.Context, accountID string, messenger platform.Messenger) (string, error) {
	if s.queries == nil {
		return "", errors.New("identity queries not configured")
	}
	pgID, err := db.ParseUUID(accountID)
	if err != nil {
		return "", err
	}
	row, err := s.queries.GetLinkedIdentityByAccountPlatform(ctx, sqlc.GetLinkedIdentityByAccountPlatformParams{
		AccountID: pgID,
		Platform:  string(messenger),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNoLinkedIdentity
		}
		return "", fmt.Errorf("look up endpoint: %w", err)
	}
	return row.PlatformUserID, nil
}
