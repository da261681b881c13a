package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/GandhamRajaReddy/honeypot-api/internal/intel"
	"github.com/GandhamRajaReddy/honeypot-api/internal/report"
)

// Store archives final reports in Postgres. It is optional; the in-memory
// session store remains the source of truth while a session is live.
type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

// ArchivedReport is one row of the honeypot_reports table.
type ArchivedReport struct {
	ID            uuid.UUID          `json:"id"`
	SessionID     string             `json:"sessionId"`
	ScamDetected  bool               `json:"scamDetected"`
	TotalMessages int                `json:"totalMessages"`
	Intelligence  intel.Intelligence `json:"intelligence"`
	AgentNotes    string             `json:"agentNotes"`
	CreatedAt     time.Time          `json:"createdAt"`
}

// SaveReport archives a final report.
func (s *Store) SaveReport(ctx context.Context, r report.Report) (uuid.UUID, error) {
	intelJSON, err := json.Marshal(r.ExtractedIntelligence)
	if err != nil {
		return uuid.Nil, fmt.Errorf("marshal intelligence: %w", err)
	}

	id := uuid.New()
	_, err = s.pool.Exec(ctx, `
		INSERT INTO honeypot_reports (id, session_id, scam_detected, total_messages, intelligence, agent_notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())`,
		id, r.SessionID, r.ScamDetected, r.TotalMessagesExchanged, intelJSON, r.AgentNotes,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert report: %w", err)
	}

	return id, nil
}

// RecentReports returns the newest archived reports, most recent first.
func (s *Store) RecentReports(ctx context.Context, limit int) ([]ArchivedReport, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, session_id, scam_detected, total_messages, intelligence, agent_notes, created_at
		FROM honeypot_reports
		ORDER BY created_at DESC
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer rows.Close()

	var reports []ArchivedReport
	for rows.Next() {
		var r ArchivedReport
		var intelJSON []byte
		if err := rows.Scan(&r.ID, &r.SessionID, &r.ScamDetected, &r.TotalMessages, &intelJSON, &r.AgentNotes, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		if err := json.Unmarshal(intelJSON, &r.Intelligence); err != nil {
			return nil, fmt.Errorf("unmarshal intelligence: %w", err)
		}
		reports = append(reports, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}

	return reports, nil
}
