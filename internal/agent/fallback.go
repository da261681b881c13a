package agent

import (
	"strings"

	"github.com/GandhamRajaReddy/honeypot-api/internal/session"
)

// universalFallback is returned once a bucket's candidate list is exhausted
// within a session.
const universalFallback = "I need help understanding this. What's your contact number?"

// bucket is one topic class of the deterministic fallback. Buckets are tried
// in order; each candidate reply is designed to pull a specific artifact
// category out of the scammer.
type bucket struct {
	name    string
	match   func(raw, lower string) bool
	replies []string
}

var buckets = []bucket{
	{
		name: "payment_handle",
		match: func(raw, lower string) bool {
			return strings.Contains(lower, "upi") || strings.Contains(raw, "@")
		},
		replies: []string{
			"Which UPI ID should I use? Can I call you first?",
			"What's the exact UPI? Do you have a verification number?",
			"Is there a customer service number to confirm this?",
		},
	},
	{
		name: "account_block",
		match: func(raw, lower string) bool {
			return containsAny(lower, "block", "suspend", "deactivate")
		},
		replies: []string{
			"Which bank account? What's your helpline number?",
			"Why is this happening? How can I verify this is real?",
			"Can I call your office? What's the official number?",
		},
	},
	{
		name: "link",
		match: func(raw, lower string) bool {
			return strings.Contains(raw, "http") || strings.Contains(lower, "link")
		},
		replies: []string{
			"Is this the official website? Can you give me your phone number?",
			"I'm not sure about clicking links. What's your contact number?",
		},
	},
	{
		name: "phone",
		match: func(raw, lower string) bool {
			return containsAny(lower, "call", "phone")
		},
		replies: []string{
			"What number should I call? Is this the official line?",
			"Can you confirm this is your real number? Which department?",
		},
	},
	{
		name: "payment_verb",
		match: func(raw, lower string) bool {
			return containsAny(lower, "pay", "send", "transfer")
		},
		replies: []string{
			"Where exactly should I send it? What's the account number?",
			"Which account? Can you give me IFSC code?",
		},
	},
	{
		name:  "generic",
		match: func(raw, lower string) bool { return true },
		replies: []string{
			"I'm confused. What exactly should I do?",
			"Can you give me your contact number to verify this?",
			"Which organization is this? How can I confirm it's real?",
		},
	},
}

func classifyBucket(message string) bucket {
	lower := strings.ToLower(message)
	for _, b := range buckets {
		if b.match(message, lower) {
			return b
		}
	}
	return buckets[len(buckets)-1]
}

// fallbackReply picks an unused candidate from the message's topic bucket.
// Candidates already sent in this session are filtered out; an exhausted
// bucket degrades to the universal fallback.
func (a *Agent) fallbackReply(message string, conversation []session.Message) string {
	previous := session.Replies(conversation)
	b := classifyBucket(message)

	var available []string
	for _, r := range b.replies {
		used := false
		for _, p := range previous {
			if p == r {
				used = true
				break
			}
		}
		if !used {
			available = append(available, r)
		}
	}
	if len(available) == 0 {
		return universalFallback
	}

	a.mu.Lock()
	idx := a.rng.Intn(len(available))
	a.mu.Unlock()
	return available[idx]
}

func containsAny(text string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
