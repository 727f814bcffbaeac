package sim

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"github.com/multicloud-sched/multicloud-sched/sim/oracle"
)

// PolicyFamily tags how a Policy reaches its decision.
type PolicyFamily string

const (
	// FamilyLocal policies decide in-process from minimal or no context.
	FamilyLocal PolicyFamily = "local"
	// FamilyFeedback policies delegate to a remote oracle and feed back the
	// outcome of their previous decision with every request.
	FamilyFeedback PolicyFamily = "feedback"
	// FamilyInference policies delegate to a remote oracle with the current
	// state only.
	FamilyInference PolicyFamily = "inference"
)

// DecisionContext is everything a Policy may consult for one task.
type DecisionContext struct {
	TaskID        int
	State         StateVector
	ProviderCount int
	// Prior is the outcome of this policy's previous decision. Set by the
	// Dispatcher for FamilyFeedback policies only; nil otherwise.
	Prior *oracle.Feedback
}

// Decision is the provider choice for one task.
type Decision struct {
	Index  int    // provider index; range checked by the Dispatcher
	Reason string // human-readable explanation
	// Failure is the oracle failure kind when the decision is a fallback
	// (see oracle.Classify); empty otherwise.
	Failure string
}

// Policy decides which provider should execute a task.
type Policy interface {
	Decide(dc *DecisionContext) Decision
	Family() PolicyFamily
}

// policyFamilies maps every recognized policy name to its family.
// Shared by IsValidPolicy, PolicyFamilyOf and NewPolicy.
var policyFamilies = map[string]PolicyFamily{
	"round-robin": FamilyLocal,
	"pseudo-load": FamilyLocal,
	"fcfs":        FamilyLocal, // historical name of pseudo-load
	"ppo":         FamilyFeedback,
	"a2c":         FamilyInference,
	"dqn":         FamilyInference,
}

// IsValidPolicy returns true if name is a recognized policy.
func IsValidPolicy(name string) bool {
	_, ok := policyFamilies[name]
	return ok
}

// PolicyFamilyOf returns the family of a recognized policy, or "" if unknown.
func PolicyFamilyOf(name string) PolicyFamily {
	return policyFamilies[name]
}

// ValidPolicyNames returns the recognized policy names, sorted.
func ValidPolicyNames() []string {
	names := make([]string, 0, len(policyFamilies))
	for name := range policyFamilies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewPolicy creates the named policy. rng seeds randomized local policies;
// oracles supplies remote endpoints. The returned policy is the single
// active policy for a run.
func NewPolicy(name string, rng *PartitionedRNG, oracles OraclesConfig) (Policy, error) {
	switch name {
	case "round-robin":
		return &RoundRobin{}, nil
	case "pseudo-load", "fcfs":
		if rng == nil {
			rng = NewPartitionedRNG(NewSimulationKey(0))
		}
		return NewPseudoLoad(rng.ForSubsystem(SubsystemPolicy)), nil
	case "ppo":
		return NewFeedbackPolicy(name, oracle.NewFeedbackOracle(newOracleClient(oracles.Feedback))), nil
	case "a2c", "dqn":
		inf := oracles.Inference
		return NewInferencePolicy(name, oracle.NewInferenceOracle(newOracleClient(inf), inf.ResponseKeys)), nil
	default:
		return nil, fmt.Errorf("unknown policy %q", name)
	}
}

// RoundRobin cycles through providers in index order, wrapping to 0 after
// the last one. It ignores task content. The cursor is guarded by a mutex so
// concurrent dispatches neither skip nor repeat an index.
type RoundRobin struct {
	mu     sync.Mutex
	cursor int
}

// Decide implements Policy for RoundRobin.
func (rr *RoundRobin) Decide(dc *DecisionContext) Decision {
	n := dc.ProviderCount
	if n <= 0 {
		return Decision{Index: 0, Reason: "round-robin (no providers)"}
	}
	rr.mu.Lock()
	idx := rr.cursor % n
	rr.cursor = (idx + 1) % n
	rr.mu.Unlock()
	return Decision{Index: idx, Reason: fmt.Sprintf("round-robin[%d]", idx)}
}

// Family implements Policy.
func (rr *RoundRobin) Family() PolicyFamily { return FamilyLocal }

// PseudoLoad draws one uniform [0,1) value per provider as a stand-in
// "utilization" and picks the minimum (ties to the lowest index).
//
// This is a baseline heuristic, not a load tracker: the values are
// independent per call and carry no information about real utilization, so
// the choice is uniform over providers.
type PseudoLoad struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewPseudoLoad creates a PseudoLoad policy drawing from rng.
func NewPseudoLoad(rng *rand.Rand) *PseudoLoad {
	return &PseudoLoad{rng: rng}
}

// Decide implements Policy for PseudoLoad.
func (p *PseudoLoad) Decide(dc *DecisionContext) Decision {
	n := dc.ProviderCount
	if n <= 0 {
		return Decision{Index: 0, Reason: "pseudo-load (no providers)"}
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	best, minLoad := 0, 2.0
	for i := 0; i < n; i++ {
		if u := p.rng.Float64(); u < minLoad {
			best, minLoad = i, u
		}
	}
	return Decision{Index: best, Reason: fmt.Sprintf("pseudo-load (load=%.3f)", minLoad)}
}

// Family implements Policy.
func (p *PseudoLoad) Family() PolicyFamily { return FamilyLocal }

func newOracleClient(c OracleConfig) *oracle.Client {
	client := oracle.NewClient(c.Host, c.Port)
	if c.DialTimeout > 0 {
		client.DialTimeout = c.DialTimeout
	}
	if c.IOTimeout > 0 {
		client.IOTimeout = c.IOTimeout
	}
	return client
}
