package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		question string
		expected Intent
	}{
		{
			name:     "weather question is off-topic",
			question: "what's today's weather forecast",
			expected: IntentOffTopic,
		},
		{
			name:     "game score is off-topic",
			question: "What was the final SCORE of the game?",
			expected: IntentOffTopic,
		},
		{
			name:     "off-topic wins over top-invoices keywords",
			question: "top 5 invoices for project x and the game score",
			expected: IntentOffTopic,
		},
		{
			name:     "off-topic wins over highest balance",
			question: "highest balance this weather season",
			expected: IntentOffTopic,
		},
		{
			name:     "top invoices",
			question: "top 3 invoices for project alpha",
			expected: IntentTopInvoices,
		},
		{
			name:     "top invoices keywords in any order",
			question: "show invoices, top ones please",
			expected: IntentTopInvoices,
		},
		{
			name:     "top invoices is case-insensitive",
			question: "TOP 2 INVOICES FOR PROJECT X",
			expected: IntentTopInvoices,
		},
		{
			name:     "highest balance",
			question: "which invoice has the highest balance?",
			expected: IntentHighestBalance,
		},
		{
			name:     "top alone is not enough",
			question: "top vendors by spend",
			expected: IntentFallback,
		},
		{
			name:     "generic question falls through",
			question: "how is the project going",
			expected: IntentFallback,
		},
		{
			name:     "empty question falls through",
			question: "",
			expected: IntentFallback,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.question))
		})
	}
}

func TestClassify_IsTotal(t *testing.T) {
	// The last rule matches everything, so any input classifies.
	for _, q := range []string{"", "????", "\n\t", "invoices"} {
		assert.NotEmpty(t, string(Classify(q)))
	}
}
