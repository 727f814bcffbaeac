package trace

import "testing"

func TestSummarize_EmptyTrace_ZeroValues(t *testing.T) {
	// GIVEN an empty trace
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})

	// WHEN summarized
	summary := Summarize(st)

	// THEN all counts are zero
	if summary.TotalDecisions != 0 {
		t.Errorf("expected 0 total decisions, got %d", summary.TotalDecisions)
	}
	if summary.FallbackCount != 0 {
		t.Errorf("expected 0 fallbacks, got %d", summary.FallbackCount)
	}
	if summary.UniqueTargets != 0 {
		t.Errorf("expected 0 unique targets, got %d", summary.UniqueTargets)
	}
	if len(summary.TargetDistribution) != 0 || len(summary.FailuresByKind) != 0 {
		t.Error("expected empty distributions")
	}
}

func TestSummarize_NilTrace_ZeroValues(t *testing.T) {
	summary := Summarize(nil)

	if summary.TotalDecisions != 0 || summary.TargetDistribution == nil {
		t.Errorf("unexpected summary for nil trace: %+v", summary)
	}
}

func TestSummarize_PopulatedTrace_CorrectCounts(t *testing.T) {
	// GIVEN a trace with answered, failed and out-of-range decisions
	st := NewSimulationTrace(TraceConfig{Level: TraceLevelDecisions})
	st.RecordDecision(DecisionRecord{TaskID: 1, Requested: 1, Chosen: 1})
	st.RecordDecision(DecisionRecord{TaskID: 2, Requested: 0, Chosen: 0, Failure: "connection"})
	st.RecordDecision(DecisionRecord{TaskID: 3, Requested: 0, Chosen: 0, Failure: "timeout"})
	st.RecordDecision(DecisionRecord{TaskID: 4, Requested: 5, Chosen: 0})
	st.RecordDecision(DecisionRecord{TaskID: 5, Requested: 2, Chosen: 2})

	// WHEN summarized
	summary := Summarize(st)

	// THEN counts match
	if summary.TotalDecisions != 5 {
		t.Errorf("expected 5 total decisions, got %d", summary.TotalDecisions)
	}
	if summary.FallbackCount != 3 {
		t.Errorf("expected 3 fallbacks, got %d", summary.FallbackCount)
	}
	if summary.FailuresByKind["connection"] != 1 || summary.FailuresByKind["timeout"] != 1 {
		t.Errorf("unexpected failure kinds %v", summary.FailuresByKind)
	}
	if summary.TargetDistribution[0] != 3 {
		t.Errorf("expected provider 0 count 3, got %d", summary.TargetDistribution[0])
	}
	if summary.UniqueTargets != 3 {
		t.Errorf("expected 3 unique targets, got %d", summary.UniqueTargets)
	}
}
