// internal/dispatch/params.go
package dispatch

import (
	"regexp"
	"strconv"
	"strings"
)

var topInvoicesPattern = regexp.MustCompile(`top (\d+) invoices for project (.+)`)

// TopInvoicesParams are the typed parameters recovered from a top-N
// question.
type TopInvoicesParams struct {
	Count       int
	ProjectName string
}

// ExtractTopInvoices parses "top <n> invoices for project <code>" out of the
// question. The stored lookup key is "Project " plus the uppercased,
// trimmed remainder, the same convention ingestion uses to write project
// names, so the two sides must stay in sync.
//
// ok is false when the top/invoices keywords matched classification but the
// full phrasing does not parse (no digits, missing "for project" clause, or
// a zero count); the dispatcher then degrades to the generic fallback.
func ExtractTopInvoices(question string) (*TopInvoicesParams, bool) {
	m := topInvoicesPattern.FindStringSubmatch(strings.ToLower(question))
	if m == nil {
		return nil, false
	}

	count, err := strconv.Atoi(m[1])
	if err != nil || count <= 0 {
		return nil, false
	}

	return &TopInvoicesParams{
		Count:       count,
		ProjectName: "Project " + strings.ToUpper(strings.TrimSpace(m[2])),
	}, true
}
