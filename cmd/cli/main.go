package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"commercepulse/adapters/tabular"
	"commercepulse/app"
	"commercepulse/domain/table"
	"commercepulse/internal/analysis"
	"commercepulse/internal/testkit"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "commercepulse",
		Short: "Run the commerce analytics pipeline from the command line",
	}

	rootCmd.AddCommand(
		newRunCmd(),
		newSampleCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRunCmd() *cobra.Command {
	var views bool
	var compact bool

	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Run the pipeline over a CSV or Excel file and print the result as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := tabular.NewDataReader(args[0]).Read()
			if err != nil {
				return err
			}
			return runPipeline(raw, views, compact)
		},
	}

	cmd.Flags().BoolVar(&views, "views", false, "include analytical views in the output")
	cmd.Flags().BoolVar(&compact, "compact", false, "print compact JSON instead of indented")
	return cmd
}

func newSampleCmd() *cobra.Command {
	var orders int
	var seed int64
	var views bool
	var compact bool

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Run the pipeline over generated sample data",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := testkit.DefaultGeneratorConfig()
			cfg.OrderCount = orders
			cfg.Seed = seed
			raw := testkit.NewGenerator(cfg).Generate()
			return runPipeline(raw, views, compact)
		},
	}

	cmd.Flags().IntVar(&orders, "orders", 1000, "number of sample orders to generate")
	cmd.Flags().Int64Var(&seed, "seed", 42, "random seed for the generator")
	cmd.Flags().BoolVar(&views, "views", false, "include analytical views in the output")
	cmd.Flags().BoolVar(&compact, "compact", false, "print compact JSON instead of indented")
	return cmd
}

func runPipeline(raw *table.Table, views, compact bool) error {
	result := app.NewDefault().Run(raw)

	output := map[string]interface{}{
		"result": result,
	}
	if views && !result.Halted {
		clean := result.Clean
		monthly := result.Summaries.Monthly
		output["views"] = map[string]interface{}{
			"growth":         analysis.AnalyzeGrowth(clean, monthly, result.Metrics),
			"unit_economics": analysis.AnalyzeUnitEconomics(clean, monthly, result.Metrics),
			"segments":       analysis.AnalyzeSegments(clean, monthly, result.Metrics),
			"cohorts":        analysis.AnalyzeCohorts(clean, monthly, result.Metrics),
			"seasonality":    analysis.AnalyzeSeasonality(clean, monthly, result.Metrics),
			"trend":          analysis.AnalyzeTrend(clean, monthly, result.Metrics),
		}
	}

	encoder := json.NewEncoder(os.Stdout)
	if !compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(output); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}

	if result.Halted {
		return fmt.Errorf("pipeline halted: missing required fields %v", result.Mapping.MissingRequired)
	}
	return nil
}
