package events

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

const (
	// SubjectRegistered announces the honeypot agent coming online.
	SubjectRegistered = "honeypot.agent.registered"
	// SubjectScamDetected fires once per session, when the classifier flags it.
	SubjectScamDetected = "honeypot.scam.detected"
	// SubjectSessionTerminated fires once per session, alongside the final report.
	SubjectSessionTerminated = "honeypot.session.terminated"
)

// ScamDetected is the payload for SubjectScamDetected.
type ScamDetected struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// SessionTerminated is the payload for SubjectSessionTerminated.
type SessionTerminated struct {
	SessionID          string `json:"session_id"`
	TotalMessages      int    `json:"total_messages"`
	ArtifactCategories int    `json:"artifact_categories"`
	Timestamp          string `json:"timestamp"`
}

type Client struct {
	conn   *nats.Conn
	logger *slog.Logger
}

func NewClient(url, token string, logger *slog.Logger) (*Client, error) {
	opts := []nats.Option{
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			logger.Info("nats reconnected")
		}),
	}
	if token != "" {
		opts = append(opts, nats.Token(token))
	}

	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}

	return &Client{conn: nc, logger: logger}, nil
}

func (c *Client) Publish(subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	return c.conn.Publish(subject, payload)
}

func (c *Client) Close() {
	c.conn.Close()
}
