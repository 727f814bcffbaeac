package outcome

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize_Empty_ZeroValues(t *testing.T) {
	s := Summarize("empty", nil)

	assert.Equal(t, "empty", s.Name)
	assert.Equal(t, 0, s.Tasks)
	assert.Equal(t, 0.0, s.SLAPercent)
	assert.Empty(t, s.ProviderCounts)
}

func TestSummarize_Aggregates(t *testing.T) {
	// GIVEN four outcomes, three meeting their SLA
	outcomes := []Outcome{
		{ProviderIndex: 0, Cost: 1.0, ExecutionTime: 0.8, SLAMet: true},
		{ProviderIndex: 1, Cost: 0.5, ExecutionTime: 1.0, SLAMet: true},
		{ProviderIndex: 2, Cost: 0.4, ExecutionTime: 1.6, SLAMet: false},
		{ProviderIndex: 0, Cost: 0.9, ExecutionTime: 0.6, SLAMet: true},
	}

	// WHEN summarized
	s := Summarize("rr", outcomes)

	// THEN SLA %, means, and distribution are correct
	assert.Equal(t, 4, s.Tasks)
	assert.Equal(t, 3, s.SLAMetCount)
	assert.InDelta(t, 75.0, s.SLAPercent, 1e-9)
	assert.InDelta(t, 0.7, s.MeanCost, 1e-9)
	assert.InDelta(t, 1.0, s.MeanExecutionTime, 1e-9)
	assert.Equal(t, map[int]int{0: 2, 1: 1, 2: 1}, s.ProviderCounts)
}

func TestRank_SLADescThenCostAsc(t *testing.T) {
	in := []Summary{
		{Name: "fcfs", SLAPercent: 60, MeanCost: 0.5},
		{Name: "ppo", SLAPercent: 90, MeanCost: 0.8},
		{Name: "rr", SLAPercent: 90, MeanCost: 0.7},
	}

	ranked := Rank(in)

	assert.Equal(t, []string{"rr", "ppo", "fcfs"}, []string{ranked[0].Name, ranked[1].Name, ranked[2].Name})
	assert.Equal(t, "fcfs", in[0].Name, "input must not be reordered")
}

func TestPrintTable_ContainsRows(t *testing.T) {
	var buf bytes.Buffer

	PrintTable(&buf, []Summary{{Name: "Round Robin", Tasks: 10, SLAPercent: 40, MeanCost: 0.75, MeanExecutionTime: 1.2}})

	assert.Contains(t, buf.String(), "Model")
	assert.Contains(t, buf.String(), "Round Robin")
	assert.Contains(t, buf.String(), "40.00")
	assert.Contains(t, buf.String(), "0.7500")
}
