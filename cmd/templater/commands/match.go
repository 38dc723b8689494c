/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: match.go
Description: Match command for the Akaylee Templater. Runs the auto-match scorer over a
stored template corpus against an unknown raw sample, printing the best template and a
ranked scoreboard, or the full match result as JSON.
*/

package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/kleascm/akaylee-templater/pkg/scoring"
	"github.com/spf13/cobra"
)

// NewMatchCommand builds the match subcommand.
func NewMatchCommand() *cobra.Command {
	var (
		inputPath string
		filter    string
		top       int
		asJSON    bool
		verbose   bool
	)

	cmd := &cobra.Command{
		Use:   "match <db>",
		Short: "Rank a stored template corpus against an unknown sample",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := LoadConfig(); err != nil {
				return err
			}
			logger, err := SetupLogging()
			if err != nil {
				return err
			}

			sample, err := readSample(inputPath)
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

			scorer := scoring.NewScorer(templateEngine, templateStore, logger)
			result, err := scorer.Match(context.Background(), sample, filter)
			if err != nil {
				return err
			}

			if asJSON {
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				return encoder.Encode(result)
			}

			if result.Best == nil {
				fmt.Printf("❌ No template matched the sample (%d tried)\n", result.Tried)
				return nil
			}

			fmt.Printf("🏆 Best match: %s (score %.1f, %d records, %d tried)\n",
				result.Best.Command, result.BestScore, len(result.BestRecords), result.Tried)

			limit := top
			if limit <= 0 || limit > len(result.Ranked) {
				limit = len(result.Ranked)
			}
			for i := 0; i < limit; i++ {
				ranked := result.Ranked[i]
				fmt.Printf("  %2d. %-40s %6.1f  (%d records)\n",
					i+1, ranked.Command, ranked.Score, ranked.Records)
				if verbose && ranked.Breakdown != nil {
					fmt.Printf("      records=%.1f fields=%.1f population=%.1f consistency=%.1f\n",
						ranked.Breakdown.RecordScore, ranked.Breakdown.FieldScore,
						ranked.Breakdown.PopulationScore, ranked.Breakdown.ConsistencyScore)
				}
			}

			if verbose {
				fmt.Println("\nRecords from the best template:")
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				if err := encoder.Encode(result.BestRecords); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "Sample file to match ('-' or empty for stdin)")
	cmd.Flags().StringVar(&filter, "filter", "", "Substring filter on template command keys")
	cmd.Flags().IntVar(&top, "top", 10, "Number of ranked templates to print")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full match result as JSON")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print score breakdowns and best-template records")

	return cmd
}

// readSample reads the sample from a file, or from stdin when the path is
// empty or "-".
func readSample(path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading sample from stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading sample: %w", err)
	}
	return string(data), nil
}
