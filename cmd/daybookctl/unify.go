package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/piquique/daybook/internal/config"
	"github.com/piquique/daybook/internal/pipeline"
	"github.com/piquique/daybook/internal/platform/factory"
	"github.com/piquique/daybook/internal/platform/logger"
	"github.com/piquique/daybook/internal/store"
)

func newUnifyCmd() *cobra.Command {
	var skipStore bool

	cmd := &cobra.Command{
		Use:   "unify",
		Short: "Run one unification pass over the source exports",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.New("daybookctl")

			cfg, err := config.New()
			if err != nil {
				return err
			}

			var st store.Store
			if !skipStore {
				st, err = factory.NewStore(cfg)
				if err != nil {
					return err
				}
				defer func() { _ = st.Close() }()
			}

			run, err := pipeline.Run(cmd.Context(), cfg, st)
			if err != nil {
				log.Error().Err(err).Msg("unification failed")
				return err
			}
			fmt.Printf("run %s: %d rows over %d days -> %s\n",
				run.RunID, run.RowCount, run.DayCount, cfg.SnapshotCSV)
			return nil
		},
	}
	cmd.Flags().BoolVar(&skipStore, "no-store", false, "write only the CSV snapshot, skip the run store")
	return cmd
}

func newRunsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded unification runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.New()
			if err != nil {
				return err
			}
			st, err := factory.NewStore(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = st.Close() }()

			runs, err := st.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			for _, r := range runs {
				fmt.Printf("%s  %s  rows=%d days=%d\n",
					r.CreatedAt.Format("2006-01-02 15:04:05"), r.RunID, r.RowCount, r.DayCount)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum runs to list")
	return cmd
}
