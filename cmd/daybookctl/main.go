package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "daybookctl",
	Short: "Batch pipeline for the daybook personal dataset",
	Long: `daybookctl runs the export and unification pipeline: it converts the
raw calendar, document, health and photo exports into one per-day unified
snapshot and can narrate single days through a local model.`,
}

func main() {
	rootCmd.AddCommand(newUnifyCmd())
	rootCmd.AddCommand(newExportHealthCmd())
	rootCmd.AddCommand(newExportDocsCmd())
	rootCmd.AddCommand(newParseICalCmd())
	rootCmd.AddCommand(newTimelineCmd())
	rootCmd.AddCommand(newDiarioCmd())
	rootCmd.AddCommand(newSaludCmd())
	rootCmd.AddCommand(newRunsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
