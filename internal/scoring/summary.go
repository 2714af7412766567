package scoring

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/spigell/lead-scorer/internal/leads"
)

// DefaultTop is how many leads summaries include.
const DefaultTop = 3

// Top returns the n best leads by score. Equal scores keep their input order.
// The input slice is not modified.
func Top(results []leads.ScoredLead, n int) []leads.ScoredLead {
	sorted := slices.Clone(results)
	slices.SortStableFunc(sorted, func(a, b leads.ScoredLead) int {
		return cmp.Compare(b.Score, a.Score)
	})

	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// Summary renders the report returned by the summarize operation.
func Summary(top []leads.ScoredLead) string {
	lines := make([]string, 0, len(top))
	for i, l := range top {
		lines = append(lines, fmt.Sprintf("%d. %s (%s, %s) → Score: %d, Intent: %s",
			i+1, l.Name, l.Role, l.Company, l.Score, l.Intent))
	}
	return "Top Leads Summary:\n" + strings.Join(lines, "\n")
}

// Announcement renders the message posted by the notify operation.
func Announcement(top []leads.ScoredLead) string {
	lines := make([]string, 0, len(top))
	for i, l := range top {
		lines = append(lines, fmt.Sprintf("%d. %s (%s, %s) → %s intent (Score: %d)",
			i+1, l.Name, l.Role, l.Company, l.Intent, l.Score))
	}
	return "🚀 Top Leads from Scoring:\n" + strings.Join(lines, "\n")
}
