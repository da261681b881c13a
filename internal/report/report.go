package report

import (
	"fmt"
	"strings"

	"github.com/GandhamRajaReddy/honeypot-api/internal/intel"
)

// Report is the immutable final summary handed off when a session reaches
// terminal state. Field names follow the collector's wire contract.
type Report struct {
	SessionID              string             `json:"sessionId"`
	ScamDetected           bool               `json:"scamDetected"`
	TotalMessagesExchanged int                `json:"totalMessagesExchanged"`
	ExtractedIntelligence  intel.Intelligence `json:"extractedIntelligence"`
	AgentNotes             string             `json:"agentNotes"`
}

// Build assembles the final report, deriving the agent notes from what was
// extracted.
func Build(sessionID string, scamDetected bool, totalMessages int, i intel.Intelligence) Report {
	return Report{
		SessionID:              sessionID,
		ScamDetected:           scamDetected,
		TotalMessagesExchanged: totalMessages,
		ExtractedIntelligence:  i,
		AgentNotes:             buildNotes(i),
	}
}

func buildNotes(i intel.Intelligence) string {
	var parts []string

	if len(i.SuspiciousKeywords) > 0 {
		tactics := i.SuspiciousKeywords
		if len(tactics) > 5 {
			tactics = tactics[:5]
		}
		parts = append(parts, "Tactics: "+strings.Join(tactics, ", "))
	}
	if len(i.PhishingLinks) > 0 {
		parts = append(parts, fmt.Sprintf("Shared %d phishing links", len(i.PhishingLinks)))
	}
	if len(i.UPIIDs) > 0 || len(i.BankAccounts) > 0 {
		parts = append(parts, "Requested payment credentials")
	}

	if len(parts) == 0 {
		return "Scammer engaged, intelligence extracted"
	}
	return strings.Join(parts, ". ")
}
