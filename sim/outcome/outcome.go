// Package outcome records per-task dispatch outcomes to an append-only
// tabular log and summarizes such logs for offline comparison of policies.
// This package has no dependencies on sim/; it stores pure data types.
package outcome

// Outcome is the realized result of dispatching one task.
// Immutable once computed; written exactly once.
type Outcome struct {
	TaskID        int
	ProviderIndex int
	StartTime     float64
	EndTime       float64
	ExecutionTime float64
	Cost          float64
	SLADeadline   float64
	SLAMet        bool
}

// Header is the fixed column header of an outcome log.
var Header = []string{
	"TaskID",
	"SelectedCloud",
	"StartTime",
	"EndTime",
	"ExecutionTime",
	"CPUCost",
	"SLADuration",
	"SLAMet",
}
