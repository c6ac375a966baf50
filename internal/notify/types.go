package notify

import (
	"context"
	"fmt"

	"github.com/streamnexus/streamnexus/internal/platform"
)

// LiveEvent describes a channel going live, as reported by an
// upstream monitor. All three fields are required.
type LiveEvent struct {
	ChannelURL  string `json:"channelUrl"`
	StreamTitle string `json:"streamTitle"`
	StreamURL   string `json:"streamUrl"`
}

// Message is a fully composed push message for one recipient.
type Message struct {
	// Endpoint is the messenger-specific address, e.g. a Telegram
	// chat ID.
	Endpoint string
	// Text is HTML-formatted message body.
	Text string
}

// Deliverer pushes a composed message to a single endpoint on a
// concrete messenger. Implementations map their transport failures to
// DeliveryError so the dispatcher can report uniform reasons.
type Deliverer interface {
	Messenger() platform.Messenger
	Deliver(ctx context.Context, msg Message) error
}

// FailReason classifies why a single delivery did not go through.
type FailReason string

const (
	ReasonUnauthorized FailReason = "unauthorized"
	ReasonUnreachable  FailReason = "unreachable"
	ReasonTimeout      FailReason = "timeout"
	ReasonRejected     FailReason = "rejected"
)

// DeliveryError carries the classified reason alongside the transport
// error.
type DeliveryError struct {
	Reason FailReason
	Err    error
}

func (e *DeliveryError) Error() string {
	if e.Err == nil {
		return string(e.Reason)
	}
	return fmt.Sprintf("%s: %v", e.Reason, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// RecipientFailure records one failed delivery inside a batch.
type RecipientFailure struct {
	AccountID string     `json:"accountId"`
	Reason    FailReason `json:"reason"`
}

// BatchOutcome summarizes one fan-out run.
type BatchOutcome struct {
	Matched   int                `json:"matched"`
	Succeeded int                `json:"succeeded"`
	Skipped   int                `json:"skipped"`
	Failed    int                `json:"failed"`
	Failures  []RecipientFailure `json:"failures,omitempty"`
}
