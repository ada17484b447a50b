package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/piquique/daybook/internal/config"
	"github.com/piquique/daybook/internal/dates"
	"github.com/piquique/daybook/internal/narrative"
	"github.com/piquique/daybook/internal/snapshot"
)

func newTimelineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "timeline YYYY-MM-DD",
		Short: "Print one day's chronological timeline from the snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := dates.ParseISO(args[0])
			if err != nil {
				return err
			}
			cfg, err := config.New()
			if err != nil {
				return err
			}
			snap, err := snapshot.Open(cfg.SnapshotCSV)
			if err != nil {
				return err
			}
			view, err := snap.Current().View(day)
			if err != nil {
				return fmt.Errorf("no data for %s", day)
			}
			for _, entry := range view.Timeline {
				fmt.Println("- " + entry.Text)
			}
			return nil
		},
	}
}

func newSaludCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "salud YYYY-MM-DD",
		Short: "Narrate one day's physical activity in a single sentence",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := dates.ParseISO(args[0])
			if err != nil {
				return err
			}
			cfg, err := config.New()
			if err != nil {
				return err
			}
			snap, err := snapshot.Open(cfg.SnapshotCSV)
			if err != nil {
				return err
			}
			view, err := snap.Current().View(day)
			if err != nil || view.Health == nil || !view.Health.Significant() {
				fmt.Println("Sin datos de actividad para", day)
				return nil
			}

			gen := narrative.NewOllama(cfg.OllamaURL, cfg.OllamaModel,
				time.Duration(cfg.OllamaTimeout)*time.Second)
			text, err := gen.Generate(cmd.Context(), narrative.HealthPrompt(day, *view.Health))
			if err != nil {
				return err
			}
			fmt.Println(text)
			return nil
		},
	}
}

func newDiarioCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diario YYYY-MM-DD",
		Short: "Narrate one day through the local model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := dates.ParseISO(args[0])
			if err != nil {
				return err
			}
			cfg, err := config.New()
			if err != nil {
				return err
			}
			snap, err := snapshot.Open(cfg.SnapshotCSV)
			if err != nil {
				return err
			}
			view, err := snap.Current().View(day)
			if err != nil || narrative.Empty(view) {
				fmt.Println(narrative.EmptyDayMessage)
				return nil
			}

			gen := narrative.NewOllama(cfg.OllamaURL, cfg.OllamaModel,
				time.Duration(cfg.OllamaTimeout)*time.Second)
			text, err := gen.Generate(cmd.Context(), narrative.DayPrompt(view))
			if err != nil {
				return err
			}
			fmt.Printf("=== %s ===\n\n%s\n", day, text)
			return nil
		},
	}
}
