/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: store.go
Description: Store command for the Akaylee Templater. Manages the template database with
list, get, delete, import, and export subcommands for corpus curation.
*/

package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/kleascm/akaylee-templater/pkg/interfaces"
	"github.com/kleascm/akaylee-templater/pkg/store"
	"github.com/spf13/cobra"
)

// NewStoreCommand builds the store subcommand group.
func NewStoreCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage the template database",
	}
	cmd.AddCommand(newStoreListCommand())
	cmd.AddCommand(newStoreGetCommand())
	cmd.AddCommand(newStoreDeleteCommand())
	cmd.AddCommand(newStoreImportCommand())
	cmd.AddCommand(newStoreExportCommand())
	return cmd
}

func newStoreListCommand() *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "list <db>",
		Short: "List stored templates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			templateStore, err := OpenStore(args[0])
			if err != nil {
				return err
			}
			defer templateStore.Close()

			ctx := context.Background()
			templates, err := templateStore.List(ctx, filter)
			if err != nil {
				return err
			}
			total, err := templateStore.Count(ctx)
			if err != nil {
				return err
			}

			for _, template := range templates {
				ratio := "  -  "
				if template.MatchRatio != nil {
					ratio = fmt.Sprintf("%5.2f", *template.MatchRatio)
				}
				fmt.Printf("%5d  %-50s ratio %s  %-9s %s\n",
					template.ID, template.Command, ratio, template.Source,
					template.CreatedAt.Format("2006-01-02"))
			}
			fmt.Printf("\n%d of %d templates\n", len(templates), total)
			return nil
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "Substring filter on template command keys")
	return cmd
}

func newStoreGetCommand() *cobra.Command {
	var showGrammar, showSample bool

	cmd := &cobra.Command{
		Use:   "get <db> <command>",
		Short: "Print one stored template",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			templateStore, err := OpenStore(args[0])
			if err != nil {
				return err
			}
			defer templateStore.Close()

			template, err := templateStore.Get(context.Background(), args[1])
			if err != nil {
				return err
			}
			if template == nil {
				return fmt.Errorf("no template stored for %q", args[1])
			}

			switch {
			case showGrammar:
				fmt.Println(template.GrammarText)
			case showSample:
				fmt.Println(template.SampleText)
			default:
				fmt.Println(template.Content)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showGrammar, "grammar", false, "Print the stored oracle grammar instead")
	cmd.Flags().BoolVar(&showSample, "sample", false, "Print the stored raw sample instead")
	return cmd
}

func newStoreDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <db> <command>",
		Short: "Delete one stored template",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			templateStore, err := OpenStore(args[0])
			if err != nil {
				return err
			}
			defer templateStore.Close()

			if err := templateStore.Delete(context.Background(), args[1]); err != nil {
				return err
			}
			fmt.Printf("Deleted %q\n", args[1])
			return nil
		},
	}
}

func newStoreImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <db> <dir>",
		Short: "Import exported templates from a directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := LoadConfig(); err != nil {
				return err
			}
			logger, err := SetupLogging()
			if err != nil {
				return err
			}
			templateStore, err := OpenStore(args[0])
			if err != nil {
				return err
			}
			defer templateStore.Close()

			stats, err := store.ImportDir(context.Background(), templateStore, args[1], logger)
			if err != nil {
				return err
			}

			fmt.Printf("Imported %d, skipped %d\n", stats.Imported, stats.Skipped)
			for _, msg := range stats.Errors {
				fmt.Fprintf(os.Stderr, "  error: %s\n", msg)
			}
			return nil
		},
	}
}

func newStoreExportCommand() *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "export <db> <dir>",
		Short: "Export stored templates to a directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			templateStore, err := OpenStore(args[0])
			if err != nil {
				return err
			}
			defer templateStore.Close()

			templates, err := templateStore.List(context.Background(), filter)
			if err != nil {
				return err
			}

			exported := 0
			for _, template := range templates {
				result := &interfaces.GenerationResult{
					Command:      template.Command,
					Source:       template.Source,
					Status:       interfaces.StatusSuccess,
					Template:     template.Content,
					OracleRows:   template.OracleRows,
					TemplateRows: template.TemplateRows,
					MatchRatio:   template.MatchRatio,
					SampleText:   template.SampleText,
					GrammarText:  template.GrammarText,
				}
				if err := store.ExportResult(args[1], result); err != nil {
					fmt.Fprintf(os.Stderr, "  error: %s: %v\n", template.Command, err)
					continue
				}
				exported++
			}
			fmt.Printf("Exported %d of %d templates to %s\n", exported, len(templates), args[1])
			return nil
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "Substring filter on template command keys")
	return cmd
}
