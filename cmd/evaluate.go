package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/multicloud-sched/multicloud-sched/sim/outcome"
)

var showSplit bool // Print per-provider task split

// evaluateCmd compares outcome logs produced by different policies
var evaluateCmd = &cobra.Command{
	Use:   "evaluate LOG.csv [LOG.csv ...]",
	Short: "Compare outcome logs by SLA compliance and cost",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		summaries, err := summarizeLogs(args)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		printEvaluation(os.Stdout, summaries, showSplit)
	},
}

// summarizeLogs reads each log and summarizes it under its file name.
// A log with a truncated tail is summarized over the rows before the damage.
func summarizeLogs(paths []string) ([]outcome.Summary, error) {
	summaries := make([]outcome.Summary, 0, len(paths))
	for _, path := range paths {
		outcomes, err := outcome.Read(path)
		if err != nil {
			if len(outcomes) == 0 {
				return nil, err
			}
			logrus.Warnf("%v; using %d complete rows", err, len(outcomes))
		}
		summaries = append(summaries, outcome.Summarize(logName(path), outcomes))
	}
	return summaries, nil
}

// logName is the file name without directory or extension.
func logName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// printEvaluation writes the ranked comparison table and the best log.
func printEvaluation(w io.Writer, summaries []outcome.Summary, split bool) {
	ranked := outcome.Rank(summaries)
	_, _ = fmt.Fprintln(w, "=== Policy Comparison ===")
	outcome.PrintTable(w, ranked)
	if split {
		_, _ = fmt.Fprintln(w, "=== Provider Split ===")
		for _, s := range ranked {
			parts := make([]string, 0, len(s.ProviderCounts))
			for _, idx := range sortedKeys(s.ProviderCounts) {
				parts = append(parts, fmt.Sprintf("%d:%d", idx, s.ProviderCounts[idx]))
			}
			_, _ = fmt.Fprintf(w, "%-20s %s\n", s.Name, strings.Join(parts, " "))
		}
	}
	if len(ranked) > 0 {
		_, _ = fmt.Fprintf(w, "Best model: %s\n", ranked[0].Name)
	}
}

// sortedKeys returns the keys of m in ascending order.
func sortedKeys[K int | string, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func init() {
	evaluateCmd.Flags().BoolVar(&showSplit, "split", false, "Also print the per-provider task split of each log")
}
