/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: main.go
Description: Main command-line interface for the Akaylee Templater. Wires the generate,
match, batch, and store commands with configuration management and structured logging
for reverse-engineering reusable templates from annotated samples.
*/

package main

import (
	"fmt"
	"os"

	"github.com/kleascm/akaylee-templater/cmd/templater/commands"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	configFile string
	logLevel   string
	logFormat  string
	logDir     string
	oracleCmd  string
	engineCmd  string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "akaylee-templater",
		Short: "Akaylee Templater - Reverse-engineer reusable templates from annotated samples",
		Long: `Akaylee Templater turns a single annotated example of semi-structured text into a
reusable, generalized extraction template, and ranks an existing template corpus
against unknown samples. It localizes oracle-captured values back into source
lines, infers field constraints, generalizes and deduplicates line patterns, and
scores candidate templates with a deterministic multi-factor quality score.`,
		Version: "1.0.0",
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Logging level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format (text, json)")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "Log output directory (empty: stderr only)")
	rootCmd.PersistentFlags().StringVar(&oracleCmd, "oracle-cmd", "", "Oracle engine helper command")
	rootCmd.PersistentFlags().StringVar(&engineCmd, "engine-cmd", "", "Target template engine helper command")

	viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("log_dir", rootCmd.PersistentFlags().Lookup("log-dir"))
	viper.BindPFlag("oracle_cmd", rootCmd.PersistentFlags().Lookup("oracle-cmd"))
	viper.BindPFlag("engine_cmd", rootCmd.PersistentFlags().Lookup("engine-cmd"))

	rootCmd.AddCommand(commands.NewGenerateCommand())
	rootCmd.AddCommand(commands.NewMatchCommand())
	rootCmd.AddCommand(commands.NewBatchCommand())
	rootCmd.AddCommand(commands.NewStoreCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
