// internal/dispatch/intent.go
package dispatch

import "strings"

// Intent is the classified purpose of a natural-language question. It picks
// which handler runs; there is exactly one handler per intent.
type Intent string

const (
	// IntentOffTopic covers domains the service refuses to answer from
	// structured data. It still answers, via the fallback, with an
	// instruction to decline gracefully.
	IntentOffTopic       Intent = "off_topic"
	IntentTopInvoices    Intent = "top_invoices"
	IntentHighestBalance Intent = "highest_balance"
	IntentFallback       Intent = "generic_fallback"
)

var offTopicTriggers = []string{"score", "weather", "forecast", "game"}

type rule struct {
	intent Intent
	match  func(q string) bool
}

// rules are evaluated in order, first match wins. The final rule matches
// everything, so classification is total. Adding an intent means adding one
// entry here and one handler in the dispatcher map.
var rules = []rule{
	{IntentOffTopic, func(q string) bool {
		for _, trigger := range offTopicTriggers {
			if strings.Contains(q, trigger) {
				return true
			}
		}
		return false
	}},
	{IntentTopInvoices, func(q string) bool {
		return strings.Contains(q, "top") && strings.Contains(q, "invoices")
	}},
	{IntentHighestBalance, func(q string) bool {
		return strings.Contains(q, "highest balance")
	}},
	{IntentFallback, func(string) bool { return true }},
}

// Classify maps the raw question to exactly one intent. Pure function of the
// input text; matching is case-insensitive.
func Classify(question string) Intent {
	q := strings.ToLower(question)
	for _, r := range rules {
		if r.match(q) {
			return r.intent
		}
	}
	return IntentFallback
}
