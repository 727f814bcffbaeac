// Package trace provides decision-trace recording for offline policy analysis.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// DecisionRecord captures a single dispatch decision.
type DecisionRecord struct {
	TaskID    int
	Clock     float64 // simulated arrival time
	Policy    string
	Requested int    // index returned by the policy, before range checking
	Chosen    int    // index actually used
	Reason    string
	Failure   string // oracle failure kind; empty when the policy answered
}

// Fallback reports whether the decision was substituted with provider 0
// because the policy failed or answered out of range.
func (r DecisionRecord) Fallback() bool {
	return r.Failure != "" || r.Requested != r.Chosen
}
