package workload

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/multicloud-sched/multicloud-sched/sim"
)

// ArrivalHandler receives every task arrival, synchronously and in time order.
// *sim.Dispatcher satisfies it.
type ArrivalHandler interface {
	OnArrival(req sim.TaskRequest)
}

// ArrivalHandlerFunc adapts a function to ArrivalHandler.
type ArrivalHandlerFunc func(req sim.TaskRequest)

// OnArrival implements ArrivalHandler.
func (f ArrivalHandlerFunc) OnArrival(req sim.TaskRequest) { f(req) }

// Engine drives periodic sensor emissions along a single simulated timeline.
type Engine struct {
	cfg       sim.WorkloadConfig
	sensors   []Sensor
	generator *Generator
	events    *EventHeap
	clock     float64
	nextID    int
	nextEvent uint64
}

// NewEngine builds an engine whose sensors and demands are drawn from the
// workload subsystem of rng.
func NewEngine(cfg sim.WorkloadConfig, rng *sim.PartitionedRNG) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid workload: %w", err)
	}
	if rng == nil {
		rng = sim.NewPartitionedRNG(sim.NewSimulationKey(0))
	}
	r := rng.ForSubsystem(sim.SubsystemWorkload)
	e := &Engine{
		cfg:       cfg,
		sensors:   NewSensors(cfg.Sensors, cfg.IntervalMin, cfg.IntervalMax, r),
		generator: NewGenerator(cfg.CPUMin, cfg.CPUMax, cfg.MemMin, cfg.MemMax, r),
		events:    NewEventHeap(),
		nextID:    1,
	}
	for i, s := range e.sensors {
		e.schedule(s.Interval, i)
	}
	return e, nil
}

// Sensors returns a copy of the engine's sensors.
func (e *Engine) Sensors() []Sensor {
	return append([]Sensor(nil), e.sensors...)
}

// Clock returns the time of the last processed emission.
func (e *Engine) Clock() float64 { return e.clock }

func (e *Engine) schedule(at float64, sensor int) {
	e.events.Schedule(&Event{Time: at, Sensor: sensor, ID: e.nextEvent})
	e.nextEvent++
}

// Run emits tasks until the horizon or the task limit is reached and returns
// the number of tasks delivered to handler. Task IDs start at 1.
func (e *Engine) Run(handler ArrivalHandler) int {
	delivered := 0
	for e.events.Len() > 0 {
		if e.cfg.MaxTasks > 0 && delivered >= e.cfg.MaxTasks {
			break
		}
		next := e.events.Peek()
		if next.Time > e.cfg.Horizon {
			break
		}
		ev := e.events.PopNext()
		e.clock = ev.Time

		cpu, mem := e.generator.Next()
		req := sim.TaskRequest{
			ID:          e.nextID,
			ArrivalTime: ev.Time,
			CPUDemand:   cpu,
			MemDemand:   mem,
		}
		e.nextID++
		logrus.Debugf("[t=%.3f] %s emits task %d (cpu=%.0f mem=%.0f)",
			ev.Time, e.sensors[ev.Sensor].Name, req.ID, cpu, mem)
		handler.OnArrival(req)
		delivered++

		e.schedule(ev.Time+e.sensors[ev.Sensor].Interval, ev.Sensor)
	}
	logrus.Infof("Arrival engine stopped at t=%.3f after %d tasks", e.clock, delivered)
	return delivered
}
