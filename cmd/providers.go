package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/multicloud-sched/multicloud-sched/sim"
)

// providersCmd prints the provider registry a run would use
var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List the configured providers",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadRunConfig(configPath)
		if err != nil {
			logrus.Fatalf("%v", err)
		}
		registry, err := sim.NewProviderRegistry(cfg.Providers)
		if err != nil {
			logrus.Fatalf("Invalid providers: %v", err)
		}
		printProviders(os.Stdout, registry)
	},
}

func printProviders(w io.Writer, registry *sim.ProviderRegistry) {
	_, _ = fmt.Fprintf(w, "%-5s %-16s %10s %12s %10s\n", "Index", "Name", "MIPS", "Cost/Unit", "Latency")
	for _, p := range registry.All() {
		_, _ = fmt.Fprintf(w, "%-5d %-16s %10.0f %12.4f %10.0f\n", p.Index, p.Name, p.Capacity, p.CostPerUnit, p.Latency)
	}
}

func init() {
	providersCmd.Flags().StringVar(&configPath, "config", "", "Path to YAML run configuration (defaults built in)")
}
