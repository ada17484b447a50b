package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/piquique/daybook/internal/config"
	"github.com/piquique/daybook/internal/export"
)

func newExportHealthCmd() *cobra.Command {
	var merge bool

	cmd := &cobra.Command{
		Use:   "export-health",
		Short: "Dump the wearable's SQLite export into the health JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.New()
			if err != nil {
				return err
			}
			doMerge := merge || cfg.MergeExports
			if err := export.HealthDump(cmd.Context(),
				cfg.HealthZip, cfg.HealthUnzip, cfg.HealthJSON, doMerge); err != nil {
				return err
			}
			fmt.Printf("health export written: %s\n", cfg.HealthJSON)
			return nil
		},
	}
	cmd.Flags().BoolVar(&merge, "merge", false,
		"merge with the previous export instead of overwriting (first seen wins)")
	return cmd
}

func newExportDocsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-docs",
		Short: "Export the paperless document table to CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.New()
			if err != nil {
				return err
			}
			if err := export.Paperless(cmd.Context(), cfg.PaperlessDB, cfg.DocumentsCSV); err != nil {
				return err
			}
			fmt.Printf("documents export written: %s\n", cfg.DocumentsCSV)
			return nil
		},
	}
}

func newParseICalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse-ical",
		Short: "Convert raw iCalendar event blocks (stdin) to the calendar CSV (stdout)",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := io.ReadAll(os.Stdin)
			if err != nil {
				return err
			}
			rows := export.ParseICS(string(raw))
			return export.WriteICSCSV(os.Stdout, rows)
		},
	}
}
