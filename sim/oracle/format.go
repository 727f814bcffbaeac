package oracle

import (
	"strconv"
	"strings"
)

// StatePrecision is the number of fractional digits used when a state
// vector is rendered as text for feedback-family oracles.
const StatePrecision = 5

// FormatState renders a state vector as a bracketed, comma-space separated
// list of fixed-point decimals, e.g. "[0.50000, 0.33333, 0.15000]".
// Output never uses scientific notation and does not depend on locale.
func FormatState(state []float64) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range state {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.FormatFloat(v, 'f', StatePrecision, 64))
	}
	sb.WriteByte(']')
	return sb.String()
}
