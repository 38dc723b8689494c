/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: batch.go
Description: Batch command for the Akaylee Templater. Regenerates templates for every
stored (grammar, sample) pair through the worker-pool batch driver, writes successful
templates back to the store, exports passing templates to disk, and prints an aggregate
summary with per-failure-kind counts and match ratio statistics.
*/

package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kleascm/akaylee-templater/pkg/core"
	"github.com/kleascm/akaylee-templater/pkg/interfaces"
	"github.com/kleascm/akaylee-templater/pkg/utils"
	"github.com/spf13/cobra"
)

// NewBatchCommand builds the batch subcommand.
func NewBatchCommand() *cobra.Command {
	var (
		limit      int
		workers    int
		timeout    time.Duration
		batchSize  int
		minCols    int
		minRatio   float64
		exportDir  string
		vendors    []string
		noValidate bool
		reportDir  string
	)

	cmd := &cobra.Command{
		Use:   "batch <db>",
		Short: "Regenerate templates for every stored grammar and sample pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := LoadConfig(); err != nil {
				return err
			}
			logger, err := SetupLogging()
			if err != nil {
				return err
			}

			oracleEngine, err := BuildOracleEngine()
			if err != nil {
				return err
			}
			templateEngine, err := BuildTemplateEngine()
			if err != nil {
				return err
			}
			templateStore, err := OpenStore(args[0])
			if err != nil {
				return err
			}
			defer templateStore.Close()

			ctx := context.Background()
			templates, err := templateStore.List(ctx, "")
			if err != nil {
				return fmt.Errorf("listing templates: %w", err)
			}

			units := make([]*core.Unit, 0, len(templates))
			skipped := 0
			for _, template := range templates {
				if !matchesVendor(template.Command, vendors) {
					continue
				}
				if template.GrammarText == "" || template.SampleText == "" {
					skipped++
					continue
				}
				units = append(units, &core.Unit{
					Command: template.Command,
					Source:  template.Source,
					Grammar: template.GrammarText,
					Sample:  template.SampleText,
				})
			}
			if skipped > 0 {
				logger.Warnf("Skipped %d templates without a stored grammar and sample", skipped)
			}
			if len(units) == 0 {
				fmt.Println("Nothing to process: no stored templates carry a grammar and sample")
				return nil
			}

			fmt.Printf("🚀 Processing %d units (%d workers, batch size %d, timeout %s)\n",
				len(units), workers, batchSize, timeout)

			generator := core.NewGenerator(oracleEngine, templateEngine, logger)
			driver := core.NewBatchDriver(generator, logger)

			stats, err := driver.Run(ctx, units, interfaces.BatchConfig{
				Limit:     limit,
				Workers:   workers,
				Timeout:   timeout,
				BatchSize: batchSize,
				MinCols:   minCols,
				MinRatio:  minRatio,
				Validate:  !noValidate,
				ExportDir: exportDir,
				Vendors:   vendors,
			})
			if err != nil {
				return err
			}

			printBatchSummary(stats)

			if reportDir != "" {
				path, err := utils.WriteRunReport(reportDir, "batch", cmd.Root().Version, stats)
				if err != nil {
					return err
				}
				fmt.Printf("📄 Report written to %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum units to process (0: all)")
	cmd.Flags().IntVar(&workers, "workers", 4, "Worker pool size")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Per-unit timeout")
	cmd.Flags().IntVar(&batchSize, "batch-size", 50, "Units per pool recycle")
	cmd.Flags().IntVar(&minCols, "min-cols", 3, "Minimum populated columns for a quality row")
	cmd.Flags().Float64Var(&minRatio, "min-ratio", 0.8, "Minimum match ratio for export")
	cmd.Flags().StringVar(&exportDir, "export", "", "Export directory for generated templates")
	cmd.Flags().StringSliceVar(&vendors, "vendor", nil, "Vendor/category prefixes to include")
	cmd.Flags().BoolVar(&noValidate, "no-validate", false, "Skip target engine validation")
	cmd.Flags().StringVar(&reportDir, "report", "", "Write a JSON run report under this directory")

	return cmd
}

// matchesVendor reports whether the command key starts with one of the
// requested vendor prefixes. An empty prefix list accepts everything.
func matchesVendor(command string, vendors []string) bool {
	if len(vendors) == 0 {
		return true
	}
	lowered := strings.ToLower(command)
	for _, vendor := range vendors {
		if strings.HasPrefix(lowered, strings.ToLower(vendor)) {
			return true
		}
	}
	return false
}

// printBatchSummary prints the human-readable end-of-run report.
func printBatchSummary(stats *core.BatchStats) {
	fmt.Println("\n============================================================")
	fmt.Println("📊 Batch Summary")
	fmt.Println("============================================================")
	fmt.Printf("Total units:        %d\n", stats.Total)
	fmt.Printf("✅ Success:          %d\n", stats.Success)
	fmt.Printf("❌ Failed generation: %d\n", stats.FailedGeneration)
	fmt.Printf("❌ Failed validation: %d\n", stats.FailedValidation)
	fmt.Printf("⚠  No patterns:      %d\n", stats.NoPatterns)
	fmt.Printf("⏱  Timeouts:         %d\n", stats.Timeouts)
	if stats.Exported > 0 || stats.ExportErrors > 0 {
		fmt.Printf("📦 Exported:         %d (errors: %d)\n", stats.Exported, stats.ExportErrors)
	}
	if len(stats.MatchRatios) > 0 {
		min, avg, max := stats.RatioSummary()
		fmt.Printf("Match ratios:       min %.2f / avg %.2f / max %.2f (%d validated)\n",
			min, avg, max, len(stats.MatchRatios))
	}
	if len(stats.OverMatched) > 0 {
		fmt.Printf("\n⚠ Over-matched templates (%d):\n", len(stats.OverMatched))
		for _, entry := range stats.OverMatched {
			fmt.Printf("  %-40s ratio %.2f (%d oracle / %d template rows)\n",
				entry.Command, entry.Ratio, entry.OracleRows, entry.TemplateRows)
		}
	}
	if len(stats.Errors) > 0 {
		fmt.Printf("\nFirst %d errors:\n", len(stats.Errors))
		for _, sample := range stats.Errors {
			fmt.Printf("  [%s] %s\n", sample.Command, sample.Error)
		}
	}
	fmt.Printf("\nElapsed: %s\n", stats.Elapsed.Round(time.Millisecond))
}
