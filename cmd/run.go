package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/lithammer/shortuuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/multicloud-sched/multicloud-sched/sim"
	"github.com/multicloud-sched/multicloud-sched/sim/outcome"
	"github.com/multicloud-sched/multicloud-sched/sim/trace"
	"github.com/multicloud-sched/multicloud-sched/sim/workload"
)

var (
	configPath  string // YAML run configuration
	policyName  string // Policy override
	seed        int64  // Seed for workload and randomized policies
	outPath     string // Outcome log path
	metricsAddr string // Prometheus exposition address
	traceOn     bool   // Record every dispatch decision
	maxTasks    int    // Task limit override
	horizon     float64
)

// runOptions are the per-run settings not carried by sim.RunConfig.
type runOptions struct {
	Seed    int64
	OutPath string
	Trace   bool
}

// runResult is what a completed run reports back to the command.
type runResult struct {
	RunID   string
	Tasks   int
	Metrics *sim.Metrics
	Trace   *trace.SimulationTrace
}

// runCmd dispatches a generated workload under one policy
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Dispatch a simulated workload under one scheduling policy",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadRunConfig(configPath)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		if cmd.Flags().Changed("policy") {
			cfg.Policy = policyName
		}
		if cmd.Flags().Changed("max-tasks") {
			cfg.Workload.MaxTasks = maxTasks
		}
		if cmd.Flags().Changed("horizon") {
			cfg.Workload.Horizon = horizon
		}
		if err := cfg.Validate(); err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}

		var metrics *sim.Metrics
		if metricsAddr != "" {
			metrics = sim.NewMetrics()
			srv := metrics.Serve(metricsAddr)
			defer func() { _ = srv.Close() }()
		}

		startTime := time.Now()
		res, err := executeRun(cfg, runOptions{Seed: seed, OutPath: outPath, Trace: traceOn}, metrics)
		if err != nil {
			logrus.Fatalf("Run failed: %v", err)
		}
		printRunReport(os.Stdout, cfg, res)
		logrus.WithField("run", res.RunID).Infof("Run complete in %v", time.Since(startTime))
	},
}

// loadRunConfig reads path, or returns the built-in defaults when path is empty.
func loadRunConfig(path string) (*sim.RunConfig, error) {
	if path == "" {
		cfg := sim.DefaultRunConfig()
		return &cfg, nil
	}
	return sim.LoadRunConfig(path)
}

// executeRun wires registry, policy, dispatcher and arrival engine for one
// validated configuration and runs it to completion. metrics may be nil.
func executeRun(cfg *sim.RunConfig, opts runOptions, metrics *sim.Metrics) (*runResult, error) {
	runID := shortuuid.New()
	log := logrus.WithField("run", runID)

	registry, err := sim.NewProviderRegistry(cfg.Providers)
	if err != nil {
		return nil, err
	}
	rng := sim.NewPartitionedRNG(sim.NewSimulationKey(opts.Seed))
	policy, err := sim.NewPolicy(cfg.Policy, rng, cfg.Oracles)
	if err != nil {
		return nil, err
	}

	var sink sim.OutcomeSink
	if opts.OutPath != "" {
		w, err := outcome.Create(opts.OutPath)
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := w.Close(); err != nil {
				log.Errorf("closing outcome log: %v", err)
			}
		}()
		sink = w
	}

	if metrics == nil {
		metrics = sim.NewMetrics()
	}
	level := trace.TraceLevelNone
	if opts.Trace {
		level = trace.TraceLevelDecisions
	}
	st := trace.NewSimulationTrace(trace.TraceConfig{Level: level})

	engine, err := workload.NewEngine(cfg.Workload, rng)
	if err != nil {
		return nil, err
	}
	dispatcher := sim.NewDispatcher(registry, cfg.Policy, policy, cfg.Dispatch, sink, metrics, st)

	log.Infof("Starting run: policy=%s providers=%d seed=%d horizon=%.0f",
		cfg.Policy, registry.Len(), opts.Seed, cfg.Workload.Horizon)
	tasks := engine.Run(dispatcher)

	return &runResult{RunID: runID, Tasks: tasks, Metrics: metrics, Trace: st}, nil
}

// printRunReport writes the end-of-run summary.
func printRunReport(w io.Writer, cfg *sim.RunConfig, res *runResult) {
	_, _ = fmt.Fprintf(w, "Run %s: policy=%s tasks=%d\n", res.RunID, cfg.Policy, res.Tasks)
	res.Metrics.Print(w)
	if !res.Trace.Enabled() {
		return
	}
	ts := trace.Summarize(res.Trace)
	_, _ = fmt.Fprintln(w, "=== Decision Trace ===")
	_, _ = fmt.Fprintf(w, "Decisions            : %d\n", ts.TotalDecisions)
	_, _ = fmt.Fprintf(w, "Fallbacks            : %d\n", ts.FallbackCount)
	_, _ = fmt.Fprintf(w, "Unique Targets       : %d\n", ts.UniqueTargets)
	for _, kind := range sortedKeys(ts.FailuresByKind) {
		_, _ = fmt.Fprintf(w, "Failures (%s) : %d\n", kind, ts.FailuresByKind[kind])
	}
}

func init() {
	runCmd.Flags().StringVar(&configPath, "config", "", "Path to YAML run configuration (defaults built in)")
	runCmd.Flags().StringVar(&policyName, "policy", "round-robin", fmt.Sprintf("Scheduling policy %v", sim.ValidPolicyNames()))
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for workload generation and randomized policies")
	runCmd.Flags().StringVar(&outPath, "out", "", "Write the outcome log (CSV) to this path")
	runCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Expose Prometheus metrics on this address (e.g. :2112)")
	runCmd.Flags().BoolVar(&traceOn, "trace", false, "Record and summarize every dispatch decision")
	runCmd.Flags().IntVar(&maxTasks, "max-tasks", 0, "Stop after this many tasks (0 = unlimited)")
	runCmd.Flags().Float64Var(&horizon, "horizon", 1000, "Simulated time at which arrivals stop")
}
