package oracle

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Feedback is the realized outcome of the previous decision made through a
// feedback-family oracle. It rides along with the next decision request so
// the oracle can learn online.
type Feedback struct {
	Reward        float64
	Done          bool
	NextState     []float64 // nil is sent as a zero vector of the current state's length
	Cost          float64
	SLAMet        bool
	SLADeadline   float64
	ExecutionTime float64
}

// feedbackRequest is the wire shape of a feedback-family request.
// State vectors travel as strings, not JSON arrays.
type feedbackRequest struct {
	TaskID        int     `json:"task_id"`
	State         string  `json:"state"`
	Reward        float64 `json:"reward"`
	Done          bool    `json:"done"`
	NextState     string  `json:"next_state"`
	Cost          float64 `json:"cost"`
	SLAMet        string  `json:"sla_met"`
	SLADeadline   float64 `json:"sla_deadline"`
	ExecutionTime float64 `json:"execution_time"`
}

// FeedbackOracle talks to policy-gradient / actor-critic style oracles that
// accept training feedback and reply with a bare integer.
type FeedbackOracle struct {
	ex Exchanger
}

// NewFeedbackOracle creates a FeedbackOracle over the given Exchanger.
func NewFeedbackOracle(ex Exchanger) *FeedbackOracle {
	return &FeedbackOracle{ex: ex}
}

// Decide sends one decision request carrying the prior feedback and returns
// the provider index chosen by the oracle. The index is not range checked.
func (o *FeedbackOracle) Decide(taskID int, state []float64, prior Feedback) (int, error) {
	payload, err := EncodeFeedbackRequest(taskID, state, prior)
	if err != nil {
		return 0, err
	}
	line, err := o.ex.Exchange(payload)
	if err != nil {
		return 0, err
	}
	return ParseBareIndex(line)
}

// EncodeFeedbackRequest builds the JSON request line for a feedback-family oracle.
func EncodeFeedbackRequest(taskID int, state []float64, prior Feedback) ([]byte, error) {
	next := prior.NextState
	if next == nil {
		next = make([]float64, len(state))
	}
	req := feedbackRequest{
		TaskID:        taskID,
		State:         FormatState(state),
		Reward:        prior.Reward,
		Done:          prior.Done,
		NextState:     FormatState(next),
		Cost:          prior.Cost,
		SLAMet:        YesNo(prior.SLAMet),
		SLADeadline:   prior.SLADeadline,
		ExecutionTime: prior.ExecutionTime,
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding feedback request: %w", ErrProtocol, err)
	}
	return payload, nil
}

// ParseBareIndex parses a response line holding a single integer.
// Surrounding whitespace is ignored.
func ParseBareIndex(line string) (int, error) {
	idx, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, fmt.Errorf("%w: expected integer response, got %q", ErrProtocol, line)
	}
	return idx, nil
}

// YesNo renders an SLA flag as the two-valued token used on the wire and in logs.
func YesNo(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}
