package outcome

import (
	"fmt"
	"io"
	"sort"
)

// Summary aggregates an outcome log for policy comparison.
type Summary struct {
	Name              string
	Tasks             int
	SLAMetCount       int
	SLAPercent        float64     // 0..100
	MeanCost          float64
	MeanExecutionTime float64
	ProviderCounts    map[int]int // provider index → tasks dispatched there
}

// Summarize computes aggregate statistics over outcomes.
// Safe for nil or empty input (returns zero-value fields).
func Summarize(name string, outcomes []Outcome) Summary {
	s := Summary{Name: name, ProviderCounts: make(map[int]int)}
	if len(outcomes) == 0 {
		return s
	}
	var totalCost, totalExec float64
	for _, o := range outcomes {
		s.Tasks++
		if o.SLAMet {
			s.SLAMetCount++
		}
		totalCost += o.Cost
		totalExec += o.ExecutionTime
		s.ProviderCounts[o.ProviderIndex]++
	}
	n := float64(s.Tasks)
	s.SLAPercent = float64(s.SLAMetCount) / n * 100
	s.MeanCost = totalCost / n
	s.MeanExecutionTime = totalExec / n
	return s
}

// Rank orders summaries best first: highest SLA percentage, then lowest mean
// cost, then name. The input slice is not modified.
func Rank(summaries []Summary) []Summary {
	ranked := append([]Summary(nil), summaries...)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.SLAPercent != b.SLAPercent {
			return a.SLAPercent > b.SLAPercent
		}
		if a.MeanCost != b.MeanCost {
			return a.MeanCost < b.MeanCost
		}
		return a.Name < b.Name
	})
	return ranked
}

// PrintTable writes a comparison table of summaries in the given order.
func PrintTable(w io.Writer, summaries []Summary) {
	_, _ = fmt.Fprintf(w, "%-20s %8s %8s %12s %12s\n", "Model", "Tasks", "SLA %", "Avg CPUCost", "Avg ExecTime")
	for _, s := range summaries {
		_, _ = fmt.Fprintf(w, "%-20s %8d %8.2f %12.4f %12.4f\n",
			s.Name, s.Tasks, s.SLAPercent, s.MeanCost, s.MeanExecutionTime)
	}
}
