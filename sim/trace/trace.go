package trace

import "sync"

// TraceLevel controls the verbosity of decision tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelDecisions captures every dispatch decision.
	TraceLevelDecisions TraceLevel = "decisions"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:      true,
	TraceLevelDecisions: true,
	"":                  true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// SimulationTrace collects decision records during a run.
// Safe for concurrent use.
type SimulationTrace struct {
	Config TraceConfig

	mu        sync.Mutex
	decisions []DecisionRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		Config:    config,
		decisions: make([]DecisionRecord, 0),
	}
}

// Enabled reports whether records are kept.
func (st *SimulationTrace) Enabled() bool {
	return st != nil && st.Config.Level == TraceLevelDecisions
}

// RecordDecision appends a decision record. No-op unless Enabled.
func (st *SimulationTrace) RecordDecision(record DecisionRecord) {
	if !st.Enabled() {
		return
	}
	st.mu.Lock()
	st.decisions = append(st.decisions, record)
	st.mu.Unlock()
}

// Decisions returns a copy of the recorded decisions in recording order.
func (st *SimulationTrace) Decisions() []DecisionRecord {
	if st == nil {
		return nil
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	return append([]DecisionRecord(nil), st.decisions...)
}
