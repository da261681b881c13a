package intel

import (
	"regexp"
	"sort"
	"strings"
)

// Intelligence is the set of artifacts extracted from a conversation. Each
// field is deduplicated and sorted; the whole struct is recomputed from the
// full conversation text on every message rather than merged incrementally.
type Intelligence struct {
	BankAccounts       []string `json:"bankAccounts"`
	UPIIDs             []string `json:"upiIds"`
	PhishingLinks      []string `json:"phishingLinks"`
	PhoneNumbers       []string `json:"phoneNumbers"`
	SuspiciousKeywords []string `json:"suspiciousKeywords"`
}

func NewIntelligence() Intelligence {
	return Intelligence{
		BankAccounts:       []string{},
		UPIIDs:             []string{},
		PhishingLinks:      []string{},
		PhoneNumbers:       []string{},
		SuspiciousKeywords: []string{},
	}
}

// NonEmptyCategories counts how many actionable artifact categories hold at
// least one entry. Keywords are tactics, not leads, so they do not count.
func (i Intelligence) NonEmptyCategories() int {
	n := 0
	for _, set := range [][]string{i.UPIIDs, i.BankAccounts, i.PhoneNumbers, i.PhishingLinks} {
		if len(set) > 0 {
			n++
		}
	}
	return n
}

var (
	upiPattern     = regexp.MustCompile(`(?i)\b[a-zA-Z0-9._-]+@[a-zA-Z0-9.-]+\b`)
	accountPattern = regexp.MustCompile(`\b\d{10,18}\b`)
	phonePatterns  = []*regexp.Regexp{
		regexp.MustCompile(`\+91[\s-]?\d{10}`),
		regexp.MustCompile(`\b[6-9]\d{9}\b`),
	}
	linkPattern = regexp.MustCompile("(?i)https?://[^\\s<>\"{}|\\\\^`\\[\\]]+")
)

// nonPaymentSuffixes filters email-like and web-reference tokens out of the
// UPI handle scan.
var nonPaymentSuffixes = []string{".com", ".org", ".net"}

// accountContextWords gate the 10-digit bank-account classification; without
// one of these near the token, a 10-digit number starting 6-9 is treated as a
// phone number only.
var accountContextWords = []string{"account", "ifsc", "transfer"}

// suspiciousKeywords is the fixed tactic vocabulary: urgency, identity/KYC,
// lottery bait and legal-threat terms.
var suspiciousKeywords = []string{
	"urgent", "immediately", "verify", "suspend", "blocked", "expire",
	"account", "bank", "kyc", "pan", "aadhar", "otp", "password",
	"prize", "winner", "congratulations", "claim", "reward",
	"arrest", "legal", "court", "police", "tax", "fine",
}

// ExtractAll runs every extraction category over the given conversation text.
// Pure and idempotent: same text in, same Intelligence out.
func ExtractAll(fullText string) Intelligence {
	return Intelligence{
		BankAccounts:       ExtractBankAccounts(fullText),
		UPIIDs:             ExtractUPIIDs(fullText),
		PhishingLinks:      ExtractLinks(fullText),
		PhoneNumbers:       ExtractPhoneNumbers(fullText),
		SuspiciousKeywords: ExtractKeywords(fullText),
	}
}

// ExtractUPIIDs finds user@provider payment handles, excluding tokens whose
// suffix marks them as ordinary email or web references.
func ExtractUPIIDs(text string) []string {
	var handles []string
	for _, m := range upiPattern.FindAllString(text, -1) {
		lower := strings.ToLower(m)
		excluded := false
		for _, suffix := range nonPaymentSuffixes {
			if strings.HasSuffix(lower, suffix) {
				excluded = true
				break
			}
		}
		if !excluded {
			handles = append(handles, m)
		}
	}
	return dedupe(handles)
}

// ExtractBankAccounts finds 10-18 digit sequences. A 10-digit sequence
// starting 6-9 collides with the local mobile format, so it only counts as an
// account when a banking word appears within 40 characters of its first
// occurrence in the text.
func ExtractBankAccounts(text string) []string {
	var accounts []string
	for _, acc := range accountPattern.FindAllString(text, -1) {
		if len(acc) > 10 {
			accounts = append(accounts, acc)
			continue
		}
		if acc[0] >= '6' && acc[0] <= '9' {
			if hasAccountContext(text, acc) {
				accounts = append(accounts, acc)
			}
		}
	}
	return dedupe(accounts)
}

func hasAccountContext(text, token string) bool {
	idx := strings.Index(text, token)
	if idx < 0 {
		return false
	}
	start := idx - 40
	if start < 0 {
		start = 0
	}
	end := idx + 40
	if end > len(text) {
		end = len(text)
	}
	window := strings.ToLower(text[start:end])
	for _, w := range accountContextWords {
		if strings.Contains(window, w) {
			return true
		}
	}
	return false
}

// ExtractPhoneNumbers matches both the +91-prefixed form and the bare
// 10-digit mobile form. Overlap with the bank-account scan is accepted.
func ExtractPhoneNumbers(text string) []string {
	var numbers []string
	for _, p := range phonePatterns {
		numbers = append(numbers, p.FindAllString(text, -1)...)
	}
	return dedupe(numbers)
}

// ExtractLinks matches http(s) URLs up to whitespace or URL-terminating
// punctuation.
func ExtractLinks(text string) []string {
	return dedupe(linkPattern.FindAllString(text, -1))
}

// ExtractKeywords is a presence test against the tactic vocabulary.
func ExtractKeywords(text string) []string {
	lower := strings.ToLower(text)
	var found []string
	for _, kw := range suspiciousKeywords {
		if strings.Contains(lower, kw) {
			found = append(found, kw)
		}
	}
	return dedupe(found)
}

func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := []string{}
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	sort.Strings(out)
	return out
}
