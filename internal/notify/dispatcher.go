package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/streamnexus/streamnexus/internal/identities"
	"github.com/streamnexus/streamnexus/internal/platform"
	"github.com/streamnexus/streamnexus/internal/subscriptions"
)

var ErrDelivererUnavailable = errors.New("no deliverer configured")

// SubscriptionSource yields the subscriptions matching a channel URL.
type SubscriptionSource interface {
	ListByChannelURL(ctx context.Context, url string) ([]subscriptions.Subscription, error)
}

// EndpointSource resolves an account to its endpoint on a messenger.
type EndpointSource interface {
	Endpoint(ctx context.Context, accountID string, messenger platform.Messenger) (string, error)
}

// Dispatcher fans a live event out to every subscribed account.
type Dispatcher struct {
	subs      SubscriptionSource
	endpoints EndpointSource
	deliverer Deliverer
	logger    *slog.Logger

	workers int
	timeout time.Duration
}

func NewDispatcher(log *slog.Logger, subs SubscriptionSource, endpoints EndpointSource, deliverer Deliverer, workers int, timeout time.Duration) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	if workers <= 0 {
		workers = 4
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Dispatcher{
		subs:      subs,
		endpoints: endpoints,
		deliverer: deliverer,
		logger:    log.With(slog.String("service", "notify")),
		workers:   workers,
		timeout:   timeout,
	}
}

// Dispatch delivers the event to every account subscribed to the
// event's channel URL. Per-recipient failures never abort the batch;
// they are counted and reported in the outcome. Matching is an exact
// string comparison on the stored channel URL.
func (d *Dispatcher) Dispatch(ctx context.Context, ev LiveEvent) (BatchOutcome, error) {
	if d.deliverer == nil {
		return BatchOutcome{}, ErrDelivererUnavailable
	}

	matches, err := d.subs.ListByChannelURL(ctx, ev.ChannelURL)
	if err != nil {
		return BatchOutcome{}, err
	}

	outcome := BatchOutcome{Matched: len(matches)}
	if len(matches) == 0 {
		d.logger.Info("no subscribers for channel", slog.String("channel_url", ev.ChannelURL))
		return outcome, nil
	}

	messenger := d.deliverer.Messenger()

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, d.workers)
	)
	for _, sub := range matches {
		wg.Add(1)
		sem <- struct{}{}
		go func(sub subscriptions.Subscription) {
			defer wg.Done()
			defer func() { <-sem }()

			endpoint, err := d.endpoints.Endpoint(ctx, sub.AccountID, messenger)
			if err != nil {
				mu.Lock()
				if errors.Is(err, identities.ErrNoLinkedIdentity) {
					outcome.Skipped++
				} else {
					outcome.Failed++
					outcome.Failures = append(outcome.Failures, RecipientFailure{AccountID: sub.AccountID, Reason: ReasonUnreachable})
				}
				mu.Unlock()
				return
			}

			msg := Message{
				Endpoint: endpoint,
				Text:     ComposeLiveMessage(sub.Platform, sub.DisplayName(), ev),
			}

			callCtx, cancel := context.WithTimeout(ctx, d.timeout)
			err = d.deliverer.Deliver(callCtx, msg)
			cancel()

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				reason := ReasonUnreachable
				var derr *DeliveryError
				if errors.As(err, &derr) {
					reason = derr.Reason
				} else if errors.Is(err, context.DeadlineExceeded) {
					reason = ReasonTimeout
				}
				outcome.Failed++
				outcome.Failures = append(outcome.Failures, RecipientFailure{AccountID: sub.AccountID, Reason: reason})
				d.logger.Warn("delivery failed",
					slog.String("account_id", sub.AccountID),
					slog.String("reason", string(reason)),
					slog.Any("error", err))
				return
			}
			outcome.Succeeded++
		}(sub)
	}
	wg.Wait()

	d.logger.Info("batch dispatched",
		slog.String("channel_url", ev.ChannelURL),
		slog.Int("matched", outcome.Matched),
		slog.Int("succeeded", outcome.Succeeded),
		slog.Int("skipped", outcome.Skipped),
		slog.Int("failed", outcome.Failed))
	return outcome, nil
}
