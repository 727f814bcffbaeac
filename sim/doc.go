// Package sim provides the core of the multi-cloud task dispatcher.
//
// # Reading Guide
//
// Start with these three files to understand a dispatch:
//   - request.go: TaskRequest and its normalized StateVector
//   - policy.go: the Policy abstraction and the local heuristics
//   - dispatcher.go: per-arrival decision, outcome computation and logging
//
// # Architecture
//
// The sim package defines the dispatch types and policies; supporting pieces
// live in sub-packages:
//   - sim/oracle/: TCP wire protocol for remote decision oracles
//   - sim/outcome/: outcome log writer, reader and offline summary
//   - sim/workload/: arrival engine (event heap, sensors, demand generator)
//   - sim/trace/: decision trace recording
//
// # Key Interfaces
//
//   - Policy: choose a provider index for one task
//   - OutcomeSink: receive one Outcome per task
//
// Policies come in three families. Local policies (round-robin, pseudo-load)
// decide in-process. Feedback policies (ppo) send the outcome of their previous
// decision along with the current state. Inference policies (a2c, dqn) send
// only the current state. Remote failures of any kind degrade to provider 0.
package sim
