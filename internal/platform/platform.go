// Package platform classifies channel URLs into content platforms and names
// the messaging platforms an account can be reached on.
package platform

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Platform identifies a content platform a channel lives on.
type Platform string

// Content platforms recognized today. The set is closed but meant to grow.
const (
	YouTube Platform = "youtube"
	Twitch  Platform = "twitch"
)

// Messenger identifies a messaging platform an account is linked to.
type Messenger string

// Messaging platforms recognized today.
const (
	Telegram Messenger = "telegram"
)

// ErrUnrecognizedURL is returned when a URL matches no known channel shape.
var ErrUnrecognizedURL = errors.New("unrecognized channel url")

// Whole-string anchored. A URL with trailing path segments beyond the handle
// is rejected, not truncated.
var (
	youtubeChannelRe = regexp.MustCompile(`^https?://(www\.)?youtube\.com/@[\w-]+$`)
	twitchChannelRe  = regexp.MustCompile(`^https?://(www\.)?twitch\.tv/[\w-]+$`)
)

// Classify maps a channel URL to its content platform. It performs no
// normalization; anything that is not exactly a YouTube handle URL or a
// Twitch channel URL yields ErrUnrecognizedURL.
func Classify(url string) (Platform, error) {
	switch {
	case youtubeChannelRe.MatchString(url):
		return YouTube, nil
	case twitchChannelRe.MatchString(url):
		return Twitch, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnrecognizedURL, url)
	}
}

// ChannelName derives a human-readable channel name from a channel URL,
// used when a subscription has no stored name. Falls back to "channel".
func ChannelName(url string) string {
	if idx := strings.Index(url, "youtube.com/@"); idx >= 0 {
		name := url[idx+len("youtube.com/@"):]
		if cut := strings.IndexByte(name, '/'); cut >= 0 {
			name = name[:cut]
		}
		if name != "" {
			return "@" + name
		}
	}
	if idx := strings.Index(url, "twitch.tv/"); idx >= 0 {
		name := url[idx+len("twitch.tv/"):]
		if cut := strings.IndexByte(name, '/'); cut >= 0 {
			name = name[:cut]
		}
		if name != "" {
			return name
		}
	}
	return "channel"
}

// ParsePlatform parses a content platform tag case-insensitively.
func ParsePlatform(raw string) (Platform, error) {
	switch Platform(strings.ToLower(strings.TrimSpace(raw))) {
	case YouTube:
		return YouTube, nil
	case Twitch:
		return Twitch, nil
	default:
		return "", fmt.Errorf("unknown content platform: %q", raw)
	}
}

// ParseMessenger parses a messaging platform tag case-insensitively.
func ParseMessenger(raw string) (Messenger, error) {
	switch Messenger(strings.ToLower(strings.TrimSpace(raw))) {
	case Telegram:
		return Telegram, nil
	default:
		return "", fmt.Errorf("unknown messaging platform: %q", raw)
	}
}

// Emoji returns the marker used in outbound messages for a content platform.
func (p Platform) Emoji() string {
	switch p {
	case YouTube:
		return "📺"
	case Twitch:
		return "🎮"
	default:
		return "🔴"
	}
}
