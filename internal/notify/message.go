package notify

import (
	"fmt"
	"html"

	"github.com/streamnexus/streamnexus/internal/platform"
)

// ComposeLiveMessage renders the push text for a live event. The body
// is Telegram-flavored HTML, so user controlled fields are escaped.
// channelName comes from the subscription (stored name or derived from
// its URL).
func ComposeLiveMessage(p platform.Platform, channelName string, ev LiveEvent) string {
	text := fmt.Sprintf("%s <b>%s</b> is live now!", p.Emoji(), html.EscapeString(channelName))
	if ev.StreamTitle != "" {
		text += fmt.Sprintf("\n\n<i>%s</i>", html.EscapeString(ev.StreamTitle))
	}
	watch := ev.StreamURL
	if watch == "" {
		watch = ev.ChannelURL
	}
	text += fmt.Sprintf("\n\n<a href=%q>▶️ Watch now</a>", watch)
	return text
}
