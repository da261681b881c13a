package agent

import (
	"context"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/GandhamRajaReddy/honeypot-api/internal/anthropic"
	"github.com/GandhamRajaReddy/honeypot-api/internal/intel"
	"github.com/GandhamRajaReddy/honeypot-api/internal/session"
)

// Agent produces decoy replies. It asks the generative delegate first and
// falls back to the deterministic topic buckets on any failure; Respond never
// returns an error or an empty string.
type Agent struct {
	llm     *anthropic.Client // nil disables the delegate
	timeout time.Duration
	logger  *slog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

func New(llm *anthropic.Client, timeout time.Duration, logger *slog.Logger) *Agent {
	return NewWithSource(llm, timeout, logger, rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewWithSource takes an explicit selection source so fallback choices can be
// made deterministic in tests.
func NewWithSource(llm *anthropic.Client, timeout time.Duration, logger *slog.Logger, rng *rand.Rand) *Agent {
	return &Agent{llm: llm, timeout: timeout, logger: logger, rng: rng}
}

// Respond generates a reply to the current scammer message given the full
// conversation and the artifacts extracted so far.
func (a *Agent) Respond(ctx context.Context, current string, conversation []session.Message, i intel.Intelligence) string {
	if a.llm != nil {
		if reply, ok := a.delegate(ctx, current, conversation, i); ok {
			return reply
		}
	}
	return a.fallbackReply(current, conversation)
}

func (a *Agent) delegate(ctx context.Context, current string, conversation []session.Message, i intel.Intelligence) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	messages := []anthropic.Message{
		{Role: "user", Content: buildUserPrompt(current, conversation, i)},
	}

	raw, err := a.llm.Complete(ctx, systemPrompt, messages, 50)
	if err != nil {
		a.logger.Warn("delegate failed, using fallback", "error", err)
		return "", false
	}

	reply := strings.Trim(strings.TrimSpace(raw), `"'`)
	if reply == "" {
		a.logger.Warn("delegate returned empty reply, using fallback")
		return "", false
	}

	a.logger.Debug("delegate reply", "reply", reply)
	return reply, true
}
