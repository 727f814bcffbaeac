package sim

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// RunConfig is the full run configuration, loadable from a YAML file.
// All top-level sections must be listed to satisfy KnownFields(true) strict parsing.
type RunConfig struct {
	Policy    string           `yaml:"policy"`
	Providers []ProviderConfig `yaml:"providers"`
	Oracles   OraclesConfig    `yaml:"oracles"`
	Dispatch  DispatchConfig   `yaml:"dispatch"`
	Workload  WorkloadConfig   `yaml:"workload"`
}

// ProviderConfig describes one execution back-end.
type ProviderConfig struct {
	Name        string  `yaml:"name"`
	Capacity    float64 `yaml:"capacity"`      // processing capacity in MIPS (must be > 0)
	CostPerUnit float64 `yaml:"cost_per_unit"` // cost per MIPS-unit of work
	Latency     float64 `yaml:"latency"`       // network latency in ms (informational)
}

// OraclesConfig groups the endpoints of the two remote oracle families.
type OraclesConfig struct {
	Feedback  OracleConfig `yaml:"feedback"`
	Inference OracleConfig `yaml:"inference"`
}

// OracleConfig is the endpoint and timeouts of one remote oracle.
type OracleConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	IOTimeout    time.Duration `yaml:"io_timeout"`
	ResponseKeys []string      `yaml:"response_keys"` // inference family only
}

// DispatchConfig groups the constants of per-task metric computation and
// state normalization.
type DispatchConfig struct {
	ReferenceThroughput float64 `yaml:"reference_throughput"` // baseline MIPS defining the SLA deadline
	ReferenceUnit       float64 `yaml:"reference_unit"`       // work units per cost unit
	MaxCPU              float64 `yaml:"max_cpu"`
	MaxMem              float64 `yaml:"max_mem"`
	TimeScale           float64 `yaml:"time_scale"`
	DeadlineScale       float64 `yaml:"deadline_scale"`
	CostScale           float64 `yaml:"cost_scale"` // reward cost penalty divisor
	Decay               float64 `yaml:"decay"`      // next-state demand decay factor
}

// WorkloadConfig drives the built-in arrival engine.
type WorkloadConfig struct {
	Sensors     int     `yaml:"sensors"`      // independent periodic task sources
	IntervalMin float64 `yaml:"interval_min"` // per-sensor emission interval lower bound
	IntervalMax float64 `yaml:"interval_max"`
	Horizon     float64 `yaml:"horizon"`   // simulated time at which arrivals stop
	MaxTasks    int     `yaml:"max_tasks"` // 0 = unlimited
	CPUMin      float64 `yaml:"cpu_min"`
	CPUMax      float64 `yaml:"cpu_max"`
	MemMin      float64 `yaml:"mem_min"`
	MemMax      float64 `yaml:"mem_max"`
}

// DefaultProviders returns the three-cloud reference set.
func DefaultProviders() []ProviderConfig {
	return []ProviderConfig{
		{Name: "AWS_Cloud", Capacity: 10000, CostPerUnit: 0.10, Latency: 100},
		{Name: "Azure_Cloud", Capacity: 7000, CostPerUnit: 0.07, Latency: 150},
		{Name: "GCP_Cloud", Capacity: 5000, CostPerUnit: 0.05, Latency: 200},
	}
}

// DefaultDispatchConfig returns the reference dispatch constants.
func DefaultDispatchConfig() DispatchConfig {
	return DispatchConfig{
		ReferenceThroughput: 8000,
		ReferenceUnit:       10000,
		MaxCPU:              10000,
		MaxMem:              1024,
		TimeScale:           1000,
		DeadlineScale:       1.25,
		CostScale:           10,
		Decay:               0.9,
	}
}

// DefaultWorkloadConfig returns the reference workload: ten sensors emitting
// every 3–7 time units with cpu demand U(7000,10000) and memory U(128,1024).
func DefaultWorkloadConfig() WorkloadConfig {
	return WorkloadConfig{
		Sensors:     10,
		IntervalMin: 3,
		IntervalMax: 7,
		Horizon:     1000,
		CPUMin:      7000,
		CPUMax:      10000,
		MemMin:      128,
		MemMax:      1024,
	}
}

// DefaultRunConfig returns a complete configuration using round-robin and
// the reference providers, oracles and workload.
func DefaultRunConfig() RunConfig {
	return RunConfig{
		Policy:    "round-robin",
		Providers: DefaultProviders(),
		Oracles: OraclesConfig{
			Feedback:  OracleConfig{Host: "localhost", Port: 5055},
			Inference: OracleConfig{Host: "localhost", Port: 9999},
		},
		Dispatch: DefaultDispatchConfig(),
		Workload: DefaultWorkloadConfig(),
	}
}

// LoadRunConfig reads a YAML run configuration on top of DefaultRunConfig.
// Keys absent from the file keep their defaults; unknown keys are errors.
func LoadRunConfig(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run config: %w", err)
	}
	cfg, err := ParseRunConfig(data)
	if err != nil {
		return nil, fmt.Errorf("parsing run config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseRunConfig decodes YAML bytes on top of DefaultRunConfig with strict
// field checking (typos must cause errors).
func ParseRunConfig(data []byte) (*RunConfig, error) {
	cfg := DefaultRunConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks policy names and parameter ranges.
func (c *RunConfig) Validate() error {
	if !IsValidPolicy(c.Policy) {
		return fmt.Errorf("unknown policy %q (valid: %v)", c.Policy, ValidPolicyNames())
	}
	if len(c.Providers) == 0 {
		return errors.New("at least one provider is required")
	}
	for i, p := range c.Providers {
		if p.Capacity <= 0 {
			return fmt.Errorf("provider %d (%s): capacity must be positive, got %f", i, p.Name, p.Capacity)
		}
		if p.CostPerUnit < 0 {
			return fmt.Errorf("provider %d (%s): cost_per_unit must be non-negative, got %f", i, p.Name, p.CostPerUnit)
		}
		if p.Latency < 0 {
			return fmt.Errorf("provider %d (%s): latency must be non-negative, got %f", i, p.Name, p.Latency)
		}
	}
	if err := c.Dispatch.Validate(); err != nil {
		return err
	}
	switch PolicyFamilyOf(c.Policy) {
	case FamilyFeedback:
		if err := c.Oracles.Feedback.validate("feedback"); err != nil {
			return err
		}
	case FamilyInference:
		if err := c.Oracles.Inference.validate("inference"); err != nil {
			return err
		}
	}
	return c.Workload.Validate()
}

// Validate checks that every scale used as a divisor is positive.
func (d DispatchConfig) Validate() error {
	divisors := []struct {
		name string
		v    float64
	}{
		{"reference_throughput", d.ReferenceThroughput},
		{"reference_unit", d.ReferenceUnit},
		{"max_cpu", d.MaxCPU},
		{"max_mem", d.MaxMem},
		{"time_scale", d.TimeScale},
		{"deadline_scale", d.DeadlineScale},
		{"cost_scale", d.CostScale},
	}
	for _, div := range divisors {
		if div.v <= 0 {
			return fmt.Errorf("dispatch.%s must be positive, got %f", div.name, div.v)
		}
	}
	if d.Decay < 0 || d.Decay > 1 {
		return fmt.Errorf("dispatch.decay must be in [0,1], got %f", d.Decay)
	}
	return nil
}

// Validate checks workload ranges.
func (w WorkloadConfig) Validate() error {
	if w.Sensors < 0 {
		return fmt.Errorf("workload.sensors must be non-negative, got %d", w.Sensors)
	}
	if w.IntervalMin <= 0 || w.IntervalMax < w.IntervalMin {
		return fmt.Errorf("workload interval range [%f,%f] is invalid", w.IntervalMin, w.IntervalMax)
	}
	if w.CPUMin < 0 || w.CPUMax < w.CPUMin {
		return fmt.Errorf("workload cpu range [%f,%f] is invalid", w.CPUMin, w.CPUMax)
	}
	if w.MemMin < 0 || w.MemMax < w.MemMin {
		return fmt.Errorf("workload mem range [%f,%f] is invalid", w.MemMin, w.MemMax)
	}
	if w.MaxTasks < 0 {
		return fmt.Errorf("workload.max_tasks must be non-negative, got %d", w.MaxTasks)
	}
	if math.IsNaN(w.Horizon) || math.IsInf(w.Horizon, 0) || w.Horizon < 0 {
		return fmt.Errorf("workload.horizon must be finite and non-negative, got %f", w.Horizon)
	}
	return nil
}

func (o OracleConfig) validate(family string) error {
	if o.Host == "" {
		return fmt.Errorf("oracles.%s.host must be set", family)
	}
	if o.Port <= 0 || o.Port > 65535 {
		return fmt.Errorf("oracles.%s.port out of range: %d", family, o.Port)
	}
	return nil
}
