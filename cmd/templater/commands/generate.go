/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: generate.go
Description: Generate command for the Akaylee Templater. Reverse-engineers one template
from a (grammar, sample) pair, optionally validates it through the target engine, and
optionally stores the result under a command key.
*/

package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/kleascm/akaylee-templater/pkg/core"
	"github.com/kleascm/akaylee-templater/pkg/interfaces"
	"github.com/spf13/cobra"
)

// NewGenerateCommand builds the generate subcommand.
func NewGenerateCommand() *cobra.Command {
	var (
		grammarPath string
		samplePath  string
		command     string
		dbPath      string
		minCols     int
		noValidate  bool
		timeout     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a template from one grammar and sample pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := LoadConfig(); err != nil {
				return err
			}
			logger, err := SetupLogging()
			if err != nil {
				return err
			}

			grammar, err := os.ReadFile(grammarPath)
			if err != nil {
				return fmt.Errorf("reading grammar: %w", err)
			}
			sample, err := os.ReadFile(samplePath)
			if err != nil {
				return fmt.Errorf("reading sample: %w", err)
			}

			oracleEngine, err := BuildOracleEngine()
			if err != nil {
				return err
			}
			templateEngine, err := BuildTemplateEngine()
			if err != nil {
				return err
			}

			generator := core.NewGenerator(oracleEngine, templateEngine, logger)

			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			result := generator.Generate(ctx, &core.Unit{
				Command: command,
				Source:  "manual",
				Grammar: string(grammar),
				Sample:  string(sample),
			}, interfaces.GenerationConfig{
				MinCols:  minCols,
				Validate: !noValidate,
				Timeout:  timeout,
			})

			if result.Status != interfaces.StatusSuccess {
				return fmt.Errorf("generation %s: %s", result.Status, result.Error)
			}

			fmt.Println(result.Template)
			if result.MatchRatio != nil {
				fmt.Fprintf(os.Stderr, "\nOracle rows: %d, template rows: %d, match ratio: %.2f\n",
					result.OracleRows, result.TemplateRows, *result.MatchRatio)
				if result.OverMatched {
					fmt.Fprintln(os.Stderr, "⚠ Template is over-matched (ratio > 1.0); review before storing")
				}
			}

			if dbPath != "" && command != "" {
				templateStore, err := OpenStore(dbPath)
				if err != nil {
					return err
				}
				defer templateStore.Close()

				err = templateStore.Upsert(context.Background(), &interfaces.Template{
					Command:      command,
					Content:      result.Template,
					SampleText:   result.SampleText,
					GrammarText:  result.GrammarText,
					OracleRows:   result.OracleRows,
					TemplateRows: result.TemplateRows,
					MatchRatio:   result.MatchRatio,
					Source:       "generated",
				})
				if err != nil {
					return fmt.Errorf("storing template: %w", err)
				}
				fmt.Fprintf(os.Stderr, "Stored template %q in %s\n", command, dbPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&grammarPath, "grammar", "", "Path to the oracle grammar file")
	cmd.Flags().StringVar(&samplePath, "sample", "", "Path to the raw sample file")
	cmd.Flags().StringVar(&command, "command", "", "Command/category key for the template")
	cmd.Flags().StringVar(&dbPath, "db", "", "Template database to store the result in")
	cmd.Flags().IntVar(&minCols, "min-cols", 3, "Minimum populated columns for a quality row")
	cmd.Flags().BoolVar(&noValidate, "no-validate", false, "Skip target engine validation")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Timeout for engine invocations")
	cmd.MarkFlagRequired("grammar")
	cmd.MarkFlagRequired("sample")

	return cmd
}
