package retrieval

import "github.com/poiesic/casekit/core"

// Entry is one ranked case with its score and, for composite measures, the
// per-attribute score breakdown explaining the rank.
type Entry struct {
	CaseID      core.CaseID
	Score       float64
	ByAttribute map[string]float64
}

// Diagnostic records a case that was skipped under skip-on-error.
type Diagnostic struct {
	CaseID core.CaseID
	Reason string
}

// Result is the ranked outcome of one retrieval: entries sorted by score
// descending, ties broken by case-base insertion order.
type Result struct {
	// RequestID identifies the retrieval for logging and monitoring.
	RequestID string

	// Entries is the ranking, truncated to the request limit.
	Entries []Entry

	// Diagnostics lists cases skipped under skip-on-error, in case-base
	// insertion order.
	Diagnostics []Diagnostic

	// Partial marks a best-effort result produced after cancellation.
	Partial bool
}

// CaseIDs returns the ranked case IDs in order.
func (r *Result) CaseIDs() []core.CaseID {
	ids := make([]core.CaseID, len(r.Entries))
	for i, e := range r.Entries {
		ids[i] = e.CaseID
	}
	return ids
}

// PipelineResult collects the per-stage results of a cascaded retrieval
// for one query, in stage order.
type PipelineResult struct {
	QueryID string
	Steps   []*Result
}

// Final returns the last stage's result.
func (pr *PipelineResult) Final() *Result {
	if len(pr.Steps) == 0 {
		return nil
	}
	return pr.Steps[len(pr.Steps)-1]
}
