package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/GandhamRajaReddy/honeypot-api/internal/agent"
	"github.com/GandhamRajaReddy/honeypot-api/internal/events"
	"github.com/GandhamRajaReddy/honeypot-api/internal/intel"
	"github.com/GandhamRajaReddy/honeypot-api/internal/report"
	"github.com/GandhamRajaReddy/honeypot-api/internal/session"
	"github.com/GandhamRajaReddy/honeypot-api/internal/storage"
)

// holdingReply keeps the conversation open before a session is flagged.
const holdingReply = "I'm not sure what you mean. Can you explain?"

// A session ends once its transcript hits this length, regardless of what was
// extracted.
const maxTranscriptLen = 20

// Collector delivers final reports to the remote intelligence collector.
type Collector interface {
	Deliver(ctx context.Context, r report.Report) error
}

// Engine orchestrates per-message processing: classification, extraction,
// reply generation, termination, report handoff. The events bus and archive
// are optional collaborators.
type Engine struct {
	sessions  *session.Store
	agent     *agent.Agent
	collector Collector
	bus       *events.Client
	archive   *storage.Store
	logger    *slog.Logger
}

func New(sessions *session.Store, a *agent.Agent, collector Collector, bus *events.Client, archive *storage.Store, logger *slog.Logger) *Engine {
	return &Engine{
		sessions:  sessions,
		agent:     a,
		collector: collector,
		bus:       bus,
		archive:   archive,
		logger:    logger,
	}
}

// Request is the parsed honeypot request the engine consumes.
type Request struct {
	SessionID string
	Message   session.Message
	History   []session.Message
}

// HandleMessage runs one inbound message through the lifecycle and returns
// the decoy's reply. Processing for a given session id is serialized by the
// store; the reply is always non-empty for well-formed input.
func (e *Engine) HandleMessage(ctx context.Context, req Request) string {
	var (
		reply       string
		detected    bool
		finalReport *report.Report
	)

	e.sessions.Do(req.SessionID, func(sess *session.Session) {
		sess.Messages = append(sess.Messages, req.Message)

		// Extraction scans the caller-supplied history plus the new message.
		conversation := make([]session.Message, 0, len(req.History)+1)
		conversation = append(conversation, req.History...)
		conversation = append(conversation, req.Message)

		// Flagging is monotonic: once detected, never re-evaluated.
		if !sess.ScamDetected && intel.IsScam(req.Message.Text) {
			sess.ScamDetected = true
			sess.AgentActive = true
			detected = true
		}

		sess.Intelligence = intel.ExtractAll(session.JoinText(conversation))

		if sess.AgentActive {
			reply = e.agent.Respond(ctx, req.Message.Text, conversation, sess.Intelligence)
		} else {
			reply = holdingReply
		}

		sess.Messages = append(sess.Messages, session.Message{
			Sender:    session.SenderUser,
			Text:      reply,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})

		if shouldEnd(sess) && !sess.Reported {
			sess.Reported = true
			r := report.Build(sess.ID, sess.ScamDetected, len(sess.Messages), sess.Intelligence)
			finalReport = &r
		}
	})

	if detected {
		e.logger.Info("scam detected", "session_id", req.SessionID)
		if e.bus != nil {
			if err := e.bus.Publish(events.SubjectScamDetected, events.ScamDetected{
				SessionID: req.SessionID,
				Message:   req.Message.Text,
				Timestamp: time.Now().UTC().Format(time.RFC3339),
			}); err != nil {
				e.logger.Warn("failed to publish scam detected", "error", err)
			}
		}
	}

	if finalReport != nil {
		e.handoff(ctx, *finalReport)
	}

	return reply
}

// shouldEnd is the termination predicate, evaluated after every message.
func shouldEnd(sess *session.Session) bool {
	return len(sess.Messages) >= maxTranscriptLen || sess.Intelligence.NonEmptyCategories() >= 2
}

// handoff delivers the final report. Every step is best-effort; a session is
// terminal whether or not delivery succeeds.
func (e *Engine) handoff(ctx context.Context, r report.Report) {
	e.logger.Info("session terminal, sending final report",
		"session_id", r.SessionID,
		"total_messages", r.TotalMessagesExchanged,
	)

	if e.collector != nil {
		if err := e.collector.Deliver(ctx, r); err != nil {
			e.logger.Error("report delivery failed", "session_id", r.SessionID, "error", err)
		}
	}

	if e.bus != nil {
		if err := e.bus.Publish(events.SubjectSessionTerminated, events.SessionTerminated{
			SessionID:          r.SessionID,
			TotalMessages:      r.TotalMessagesExchanged,
			ArtifactCategories: r.ExtractedIntelligence.NonEmptyCategories(),
			Timestamp:          time.Now().UTC().Format(time.RFC3339),
		}); err != nil {
			e.logger.Warn("failed to publish session terminated", "error", err)
		}
	}

	if e.archive != nil {
		if _, err := e.archive.SaveReport(ctx, r); err != nil {
			e.logger.Error("failed to archive report", "session_id", r.SessionID, "error", err)
		}
	}
}
