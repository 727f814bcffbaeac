package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalDecisions     int
	FallbackCount      int
	FailuresByKind     map[string]int // oracle failure kind → count
	UniqueTargets      int
	TargetDistribution map[int]int // provider index → count of tasks dispatched
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		FailuresByKind:     make(map[string]int),
		TargetDistribution: make(map[int]int),
	}
	if st == nil {
		return summary
	}

	decisions := st.Decisions()
	summary.TotalDecisions = len(decisions)
	for _, d := range decisions {
		summary.TargetDistribution[d.Chosen]++
		if d.Fallback() {
			summary.FallbackCount++
		}
		if d.Failure != "" {
			summary.FailuresByKind[d.Failure]++
		}
	}
	summary.UniqueTargets = len(summary.TargetDistribution)

	return summary
}
