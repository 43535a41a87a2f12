package retrieval

import "github.com/poiesic/casekit/core"

// Monitor provides hooks to observe a retrieval.
// Implement this interface to track scoring progress and skipped cases.
// Callbacks may be invoked concurrently from worker goroutines.
type Monitor interface {
	Start(requestID string, caseCount int)
	CaseScored(id core.CaseID, score float64)
	CaseSkipped(id core.CaseID, err error)
	Finish(result *Result)
}

// noopMonitor is a no-op implementation of Monitor.
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string, _ int)               {}
func (n *noopMonitor) CaseScored(_ core.CaseID, _ float64) {}
func (n *noopMonitor) CaseSkipped(_ core.CaseID, _ error)  {}
func (n *noopMonitor) Finish(_ *Result)                    {}
