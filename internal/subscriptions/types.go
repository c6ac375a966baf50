package subscriptions

import (
	"time"

	"github.com/streamnexus/streamnexus/internal/platform"
)

// Subscription is an account's registered interest in a channel.
type Subscription struct {
	ID          int64             `json:"id"`
	AccountID   string            `json:"accountId"`
	Platform    platform.Platform `json:"platform"`
	ChannelURL  string            `json:"channelUrl"`
	ChannelName string            `json:"channelName,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// DisplayName returns the stored channel name or one derived from the URL.
func (s Subscription) DisplayName() string {
	if s.ChannelName != "" {
		return s.ChannelName
	}
	return platform.ChannelName(s.ChannelURL)
}
