package agent

import (
	"fmt"
	"strings"

	"github.com/GandhamRajaReddy/honeypot-api/internal/intel"
	"github.com/GandhamRajaReddy/honeypot-api/internal/session"
)

const systemPrompt = `You are a confused person who got a suspicious message. You DON'T know it's a scam.

GOAL: Ask ONE specific question to get them to reveal more details.

RULES:
1. Response: 8-12 words ONLY
2. Ask about what they JUST mentioned
3. NEVER repeat same question
4. Show emotion: worried, confused
5. NEVER say: scam, fraud, suspicious, AI, fake

EXAMPLES:
"Account blocked" → "Which bank? What's your helpline number?"
"Send to winner@paytm" → "Which UPI? Can I call to verify first?"
"Click this link" → "Is this official? What's your phone number?"

Be SPECIFIC to their exact message.`

const userPromptTemplate = `MESSAGE: "%s"

HISTORY: %s
EXTRACTED: %s

Ask ONE targeted question (8-12 words) about what they JUST said:`

func buildUserPrompt(current string, conversation []session.Message, i intel.Intelligence) string {
	return fmt.Sprintf(userPromptTemplate, current, buildHistory(conversation), summarizeIntelligence(i))
}

// buildHistory renders the last six messages as role-labelled lines.
func buildHistory(conversation []session.Message) string {
	if len(conversation) == 0 {
		return "(First message)"
	}
	start := 0
	if len(conversation) > 6 {
		start = len(conversation) - 6
	}
	var lines []string
	for _, msg := range conversation[start:] {
		role := "Scammer"
		if msg.Sender == session.SenderUser {
			role = "You"
		}
		lines = append(lines, role+": "+msg.Text)
	}
	return strings.Join(lines, "\n")
}

func summarizeIntelligence(i intel.Intelligence) string {
	var parts []string
	if len(i.UPIIDs) > 0 {
		parts = append(parts, "UPI: "+strings.Join(i.UPIIDs, ", "))
	}
	if len(i.BankAccounts) > 0 {
		parts = append(parts, "Accounts: "+strings.Join(i.BankAccounts, ", "))
	}
	if len(i.PhoneNumbers) > 0 {
		parts = append(parts, "Phones: "+strings.Join(i.PhoneNumbers, ", "))
	}
	if len(i.PhishingLinks) > 0 {
		parts = append(parts, "Links: "+strings.Join(i.PhishingLinks, ", "))
	}
	if len(parts) == 0 {
		return "(Nothing yet)"
	}
	return strings.Join(parts, "\n")
}
