package sim

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/multicloud-sched/multicloud-sched/sim/oracle"
	"github.com/multicloud-sched/multicloud-sched/sim/outcome"
	"github.com/multicloud-sched/multicloud-sched/sim/trace"
)

// OutcomeSink receives one Outcome per dispatched task.
// *outcome.Writer satisfies it.
type OutcomeSink interface {
	Write(o outcome.Outcome) error
}

// Dispatcher turns each task arrival into exactly one provider decision and
// one Outcome. It is invoked synchronously by the arrival engine.
type Dispatcher struct {
	providers  *ProviderRegistry
	policyName string
	policy     Policy
	cfg        DispatchConfig
	sink       OutcomeSink
	metrics    *Metrics
	trace      *trace.SimulationTrace

	mu    sync.Mutex
	prior *oracle.Feedback // outcome of the previous decision; feedback family only
}

// NewDispatcher creates a Dispatcher for a single statically configured
// policy. sink, metrics and st may each be nil.
func NewDispatcher(providers *ProviderRegistry, policyName string, policy Policy, cfg DispatchConfig,
	sink OutcomeSink, metrics *Metrics, st *trace.SimulationTrace) *Dispatcher {
	return &Dispatcher{
		providers:  providers,
		policyName: policyName,
		policy:     policy,
		cfg:        cfg,
		sink:       sink,
		metrics:    metrics,
		trace:      st,
	}
}

// OnArrival implements workload.ArrivalHandler.
func (d *Dispatcher) OnArrival(req TaskRequest) {
	d.Dispatch(req)
}

// SLADeadline returns the maximum execution time for a task of the given
// CPU demand. Fixed at arrival.
func (d *Dispatcher) SLADeadline(cpuDemand float64) float64 {
	return cpuDemand / d.cfg.ReferenceThroughput
}

// StateVector normalizes a request for remote oracles.
func (d *Dispatcher) StateVector(req TaskRequest, slaDeadline float64) StateVector {
	return StateVector{
		req.CPUDemand / d.cfg.MaxCPU,
		req.MemDemand / d.cfg.MaxMem,
		req.ArrivalTime / d.cfg.TimeScale,
		slaDeadline / d.cfg.DeadlineScale,
		0.0,
	}
}

// Dispatch decides a provider for req, computes the realized outcome and
// emits it to the sink. Policy failures and sink failures never escape.
func (d *Dispatcher) Dispatch(req TaskRequest) outcome.Outcome {
	slaDeadline := d.SLADeadline(req.CPUDemand)
	state := d.StateVector(req, slaDeadline)
	n := d.providers.Len()

	feedback := d.policy.Family() == FamilyFeedback
	// Holding the lock across the decision keeps the prior consistent with
	// the order in which decisions are made.
	if feedback {
		d.mu.Lock()
		defer d.mu.Unlock()
	}

	dc := &DecisionContext{
		TaskID:        req.ID,
		State:         state,
		ProviderCount: n,
	}
	if feedback {
		dc.Prior = d.currentPrior()
	}
	decision := d.policy.Decide(dc)

	chosen := decision.Index
	outOfRange := chosen < 0 || chosen >= n
	if outOfRange {
		if n > 0 {
			logrus.WithFields(logrus.Fields{
				"task":      req.ID,
				"policy":    d.policyName,
				"requested": decision.Index,
				"providers": n,
			}).Warn("decision out of range, using provider 0")
		}
		chosen = 0
	}
	d.metrics.recordDecision(chosen, decision.Failure, outOfRange && n > 0)
	d.trace.RecordDecision(trace.DecisionRecord{
		TaskID:    req.ID,
		Clock:     req.ArrivalTime,
		Policy:    d.policyName,
		Requested: decision.Index,
		Chosen:    chosen,
		Reason:    decision.Reason,
		Failure:   decision.Failure,
	})

	out := outcome.Outcome{
		TaskID:        req.ID,
		ProviderIndex: chosen,
		StartTime:     req.ArrivalTime,
		EndTime:       req.ArrivalTime,
		SLADeadline:   slaDeadline,
	}
	if p, ok := d.providers.Get(chosen); ok {
		out.ExecutionTime = req.CPUDemand / p.Capacity
		out.EndTime = req.ArrivalTime + out.ExecutionTime
		out.Cost = req.CPUDemand * p.CostPerUnit / d.cfg.ReferenceUnit
		out.SLAMet = out.ExecutionTime <= slaDeadline
	} else {
		logrus.WithField("task", req.ID).Warn("no providers registered, emitting empty outcome")
	}

	if feedback {
		d.prior = d.feedbackFor(out, state)
	}

	d.metrics.recordOutcome(out.ExecutionTime, out.Cost, out.SLAMet)
	d.emit(out)
	return out
}

// currentPrior returns the prior to attach to the next feedback request.
// The first request of a run carries a zero prior. Caller holds d.mu.
func (d *Dispatcher) currentPrior() *oracle.Feedback {
	if d.prior == nil {
		return &oracle.Feedback{
			NextState: make([]float64, StateVectorLen),
		}
	}
	p := *d.prior
	return &p
}

// feedbackFor derives the reward and next-state estimate reported with the
// following decision.
func (d *Dispatcher) feedbackFor(out outcome.Outcome, state StateVector) *oracle.Feedback {
	penalty := 0.0
	if !out.SLAMet {
		penalty = 1.5
	}
	return &oracle.Feedback{
		Reward:        1.0 - penalty - out.Cost/d.cfg.CostScale,
		Done:          false,
		NextState:     state.Decayed(d.cfg.Decay).Slice(),
		Cost:          out.Cost,
		SLAMet:        out.SLAMet,
		SLADeadline:   out.SLADeadline,
		ExecutionTime: out.ExecutionTime,
	}
}

func (d *Dispatcher) emit(out outcome.Outcome) {
	if d.sink == nil {
		return
	}
	if err := d.sink.Write(out); err != nil {
		d.metrics.recordLogWriteFailure()
		logrus.WithField("task", out.TaskID).Errorf("writing outcome: %v", err)
	}
}
