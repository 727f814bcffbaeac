package workload

import (
	"fmt"
	"math"
	"math/rand"
)

// Sensor is a periodic task source emitting one task every Interval.
type Sensor struct {
	Name     string
	Interval float64
}

// NewSensors creates count sensors with intervals drawn from U(lo, hi).
// Each interval is fixed for the lifetime of the sensor.
func NewSensors(count int, lo, hi float64, rng *rand.Rand) []Sensor {
	sensors := make([]Sensor, count)
	for i := range sensors {
		sensors[i] = Sensor{
			Name:     fmt.Sprintf("sensor_%d", i),
			Interval: uniform(rng, lo, hi),
		}
	}
	return sensors
}

// Generator samples task demands.
type Generator struct {
	CPUMin, CPUMax float64
	MemMin, MemMax float64
	rng            *rand.Rand
}

// NewGenerator creates a Generator drawing from rng.
func NewGenerator(cpuMin, cpuMax, memMin, memMax float64, rng *rand.Rand) *Generator {
	return &Generator{CPUMin: cpuMin, CPUMax: cpuMax, MemMin: memMin, MemMax: memMax, rng: rng}
}

// Next returns the CPU and memory demand of the next task, truncated to
// whole units.
func (g *Generator) Next() (cpu, mem float64) {
	cpu = math.Trunc(uniform(g.rng, g.CPUMin, g.CPUMax))
	mem = math.Trunc(uniform(g.rng, g.MemMin, g.MemMax))
	return cpu, mem
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + rng.Float64()*(hi-lo)
}
