package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/streamnexus/streamnexus/internal/identities"
	"github.com/streamnexus/streamnexus/internal/platform"
	"github.com/streamnexus/streamnexus/internal/subscriptions"
)

type stubSubSource struct {
	items []subscriptions.Subscription
	err   error
}

func (s *stubSubSource) ListByChannelURL(ctx context.Context, url string) ([]subscriptions.Subscription, error) {
	var out []subscriptions.Subscription
	for _, it := range s.items {
		if it.ChannelURL == url {
			out = append(out, it)
		}
	}
	return out, s.err
}

type stubEndpointSource struct {
	endpoints map[string]string
}

func (s *stubEndpointSource) Endpoint(ctx context.Context, accountID string, messenger platform.Messenger) (string, error) {
	ep, ok := s.endpoints[accountID]
	if !ok {
		return "", identities.ErrNoLinkedIdentity
	}
	return ep, nil
}

type fakeDeliverer struct {
	mu       sync.Mutex
	calls    []Message
	failWith map[string]error
}

func (f *fakeDeliverer) Messenger() platform.Messenger { return platform.Telegram }

func (f *fakeDeliverer) Deliver(ctx context.Context, msg Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, msg)
	if err, ok := f.failWith[msg.Endpoint]; ok {
		return err
	}
	return nil
}

func sub(id int64, account, url string) subscriptions.Subscription {
	return subscriptions.Subscription{ID: id, AccountID: account, Platform: platform.YouTube, ChannelURL: url}
}

func TestDispatchMixedOutcome(t *testing.T) {
	t.Parallel()

	const channel = "https://www.youtube.com/@mrbeast"
	subs := &stubSubSource{items: []subscriptions.Subscription{
		sub(1, "acc-ok", channel),
		sub(2, "acc-no-identity", channel),
		sub(3, "acc-blocked", channel),
	}}
	endpoints := &stubEndpointSource{endpoints: map[string]string{
		"acc-ok":      "1001",
		"acc-blocked": "1003",
	}}
	deliverer := &fakeDeliverer{failWith: map[string]error{
		"1003": &DeliveryError{Reason: ReasonUnauthorized, Err: errors.New("bot was blocked by the user")},
	}}

	d := NewDispatcher(nil, subs, endpoints, deliverer, 4, time.Second)
	out, err := d.Dispatch(context.Background(), LiveEvent{ChannelURL: channel, StreamTitle: "Finale", StreamURL: channel + "/live"})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}

	want := BatchOutcome{Matched: 3, Succeeded: 1, Skipped: 1, Failed: 1}
	if out.Matched != want.Matched || out.Succeeded != want.Succeeded || out.Skipped != want.Skipped || out.Failed != want.Failed {
		t.Fatalf("Dispatch() = %+v, want %+v", out, want)
	}
	if len(out.Failures) != 1 || out.Failures[0].AccountID != "acc-blocked" || out.Failures[0].Reason != ReasonUnauthorized {
		t.Fatalf("failures = %+v, want one unauthorized failure for acc-blocked", out.Failures)
	}
	if len(deliverer.calls) != 2 {
		t.Fatalf("deliverer called %d times, want 2", len(deliverer.calls))
	}
}

func TestDispatchNoSubscribers(t *testing.T) {
	t.Parallel()

	deliverer := &fakeDeliverer{}
	d := NewDispatcher(nil, &stubSubSource{}, &stubEndpointSource{}, deliverer, 4, time.Second)

	out, err := d.Dispatch(context.Background(), LiveEvent{ChannelURL: "https://www.twitch.tv/nobody"})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if out.Matched != 0 || out.Succeeded != 0 || out.Skipped != 0 || out.Failed != 0 {
		t.Fatalf("Dispatch() = %+v, want zero outcome", out)
	}
	if len(deliverer.calls) != 0 {
		t.Fatalf("deliverer called %d times, want 0", len(deliverer.calls))
	}
}

func TestDispatchExactURLMatch(t *testing.T) {
	t.Parallel()

	// Stored URL differs only by a trailing slash; matching is literal.
	subs := &stubSubSource{items: []subscriptions.Subscription{
		sub(1, "acc-ok", "https://www.youtube.com/@mrbeast/"),
	}}
	deliverer := &fakeDeliverer{}
	d := NewDispatcher(nil, subs, &stubEndpointSource{endpoints: map[string]string{"acc-ok": "1001"}}, deliverer, 4, time.Second)

	out, err := d.Dispatch(context.Background(), LiveEvent{ChannelURL: "https://www.youtube.com/@mrbeast"})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if out.Matched != 0 {
		t.Fatalf("matched = %d, want 0", out.Matched)
	}
}

func TestDispatchConcurrencyCounts(t *testing.T) {
	t.Parallel()

	const channel = "https://www.twitch.tv/ninja"
	var items []subscriptions.Subscription
	endpoints := map[string]string{}
	for i := 0; i < 64; i++ {
		account := "acc-" + string(rune('a'+i%26)) + string(rune('a'+i/26))
		items = append(items, sub(int64(i+1), account, channel))
		endpoints[account] = account
	}

	deliverer := &fakeDeliverer{}
	d := NewDispatcher(nil, &stubSubSource{items: items}, &stubEndpointSource{endpoints: endpoints}, deliverer, 4, time.Second)

	out, err := d.Dispatch(context.Background(), LiveEvent{ChannelURL: channel})
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if out.Matched != 64 || out.Succeeded != 64 || out.Failed != 0 || out.Skipped != 0 {
		t.Fatalf("Dispatch() = %+v, want all 64 succeeded", out)
	}
	if len(deliverer.calls) != 64 {
		t.Fatalf("deliverer called %d times, want 64", len(deliverer.calls))
	}
}

func TestDispatchNilDeliverer(t *testing.T) {
	t.Parallel()

	d := NewDispatcher(nil, &stubSubSource{}, &stubEndpointSource{}, nil, 4, time.Second)
	if _, err := d.Dispatch(context.Background(), LiveEvent{ChannelURL: "x"}); !errors.Is(err, ErrDelivererUnavailable) {
		t.Fatalf("error = %v, want ErrDelivererUnavailable", err)
	}
}
