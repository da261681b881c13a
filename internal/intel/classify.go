package intel

import "strings"

// scamIndicators are multi-word phrases that individually suggest a scam;
// two or more in one message is treated as conclusive.
var scamIndicators = []string{
	"account blocked", "verify immediately", "suspend", "kyc update",
	"prize winner", "claim reward", "urgent action", "otp",
	"bank details", "upi id", "arrest warrant", "legal notice",
	"tax pending", "refund", "click here", "password",
}

var urgencyWords = []string{"urgent", "immediately", "now", "today"}

var financialWords = []string{"account", "bank", "upi", "pay", "transfer"}

// IsScam scores a single message. It is stateless and monotonicity is the
// caller's job: a session once flagged is never re-evaluated.
func IsScam(message string) bool {
	lower := strings.ToLower(message)

	count := 0
	for _, ind := range scamIndicators {
		if strings.Contains(lower, ind) {
			count++
		}
	}
	if count >= 2 {
		return true
	}

	return containsAny(lower, urgencyWords) && containsAny(lower, financialWords)
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
