package session

import (
	"time"

	"github.com/GandhamRajaReddy/honeypot-api/internal/intel"
)

type Sender string

const (
	// SenderScammer marks messages authored by the scam actor.
	SenderScammer Sender = "scammer"
	// SenderUser marks messages authored by the decoy.
	SenderUser Sender = "user"
)

type Message struct {
	Sender    Sender `json:"sender"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// Session is the per-conversation state. All mutation happens under the
// store's per-session lock (see Store.Do).
type Session struct {
	ID           string
	Messages     []Message
	ScamDetected bool
	AgentActive  bool
	Intelligence intel.Intelligence
	Reported     bool
	StartedAt    time.Time
}

// Replies returns the texts of decoy-authored messages in order. The response
// policy uses these to avoid repeating itself.
func Replies(messages []Message) []string {
	var replies []string
	for _, m := range messages {
		if m.Sender == SenderUser {
			replies = append(replies, m.Text)
		}
	}
	return replies
}

// JoinText renders the space-joined conversation text the extractor scans.
func JoinText(messages []Message) string {
	if len(messages) == 0 {
		return ""
	}
	n := 0
	for _, m := range messages {
		n += len(m.Text) + 1
	}
	buf := make([]byte, 0, n)
	for i, m := range messages {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, m.Text...)
	}
	return string(buf)
}
