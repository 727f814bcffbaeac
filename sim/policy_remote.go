package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/multicloud-sched/multicloud-sched/sim/oracle"
)

// feedbackDecider is the slice of *oracle.FeedbackOracle a FeedbackPolicy uses.
type feedbackDecider interface {
	Decide(taskID int, state []float64, prior oracle.Feedback) (int, error)
}

// inferenceDecider is the slice of *oracle.InferenceOracle an InferencePolicy uses.
type inferenceDecider interface {
	Decide(state []float64) (int, error)
}

// FeedbackPolicy delegates each decision to a feedback-family oracle,
// attaching the prior outcome supplied in the DecisionContext.
// Any oracle failure yields provider 0; the failure is logged, never returned.
type FeedbackPolicy struct {
	name   string
	oracle feedbackDecider
}

// NewFeedbackPolicy creates a FeedbackPolicy named after its oracle.
func NewFeedbackPolicy(name string, o feedbackDecider) *FeedbackPolicy {
	return &FeedbackPolicy{name: name, oracle: o}
}

// Decide implements Policy for FeedbackPolicy.
func (p *FeedbackPolicy) Decide(dc *DecisionContext) Decision {
	var prior oracle.Feedback
	if dc.Prior != nil {
		prior = *dc.Prior
	}
	idx, err := p.oracle.Decide(dc.TaskID, dc.State.Slice(), prior)
	if err != nil {
		return fallbackDecision(p.name, dc.TaskID, err)
	}
	return Decision{Index: idx, Reason: fmt.Sprintf("%s oracle", p.name)}
}

// Family implements Policy.
func (p *FeedbackPolicy) Family() PolicyFamily { return FamilyFeedback }

// InferencePolicy delegates each decision to a pure-inference oracle.
// Any oracle failure yields provider 0; the failure is logged, never returned.
type InferencePolicy struct {
	name   string
	oracle inferenceDecider
}

// NewInferencePolicy creates an InferencePolicy named after its oracle.
func NewInferencePolicy(name string, o inferenceDecider) *InferencePolicy {
	return &InferencePolicy{name: name, oracle: o}
}

// Decide implements Policy for InferencePolicy.
func (p *InferencePolicy) Decide(dc *DecisionContext) Decision {
	idx, err := p.oracle.Decide(dc.State.Slice())
	if err != nil {
		return fallbackDecision(p.name, dc.TaskID, err)
	}
	return Decision{Index: idx, Reason: fmt.Sprintf("%s oracle", p.name)}
}

// Family implements Policy.
func (p *InferencePolicy) Family() PolicyFamily { return FamilyInference }

// fallbackDecision reports an oracle failure and substitutes provider 0.
// No retry is attempted.
func fallbackDecision(name string, taskID int, err error) Decision {
	kind := oracle.Classify(err)
	logrus.WithFields(logrus.Fields{
		"task":   taskID,
		"oracle": name,
		"kind":   kind,
	}).Warnf("oracle decision failed, falling back to provider 0: %v", err)
	return Decision{
		Index:   0,
		Reason:  fmt.Sprintf("%s oracle fallback (%s)", name, kind),
		Failure: kind,
	}
}
