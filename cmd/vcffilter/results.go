package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inodb/vcffilter/internal/duckdb"
)

func newResultsCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "results",
		Short: "Inspect verdicts recorded with --results-db",
		Example: `  vcffilter results --db verdicts.duckdb              # list runs
  vcffilter results show <run-id> --db verdicts.duckdb
  vcffilter results clear --db verdicts.duckdb`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withResults(dbPath, func(s *duckdb.Store) error {
				return runResultsList(cmd.OutOrStdout(), s)
			})
		},
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "Results database (default: filter.results_db)")

	cmd.AddCommand(&cobra.Command{
		Use:   "show <run-id>",
		Short: "Show a run and its passing records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withResults(dbPath, func(s *duckdb.Store) error {
				return runResultsShow(cmd.OutOrStdout(), s, args[0])
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove all recorded runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withResults(dbPath, func(s *duckdb.Store) error {
				if err := s.ClearRuns(); err != nil {
					return fmt.Errorf("clear runs: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Cleared all runs")
				return nil
			})
		},
	})

	return cmd
}

// withResults opens the results database named by --db or filter.results_db.
func withResults(dbPath string, fn func(*duckdb.Store) error) error {
	if dbPath == "" {
		dbPath = viper.GetString("filter.results_db")
	}
	if dbPath == "" {
		return &usageError{fmt.Errorf("--db or filter.results_db is required")}
	}

	s, err := duckdb.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open results db: %w", err)
	}
	defer s.Close()
	return fn(s)
}

func runResultsList(w io.Writer, s *duckdb.Store) error {
	runs, err := s.ListRuns()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(w, "# No runs recorded")
		return nil
	}
	for _, r := range runs {
		fmt.Fprintf(w, "%s  %s  %-3s  %d/%d passed  %s  [%s]\n",
			r.RunID, r.StartedAt.Format("2006-01-02 15:04:05"), r.Mode,
			r.Passed, r.Records, r.Input, r.Conditions)
	}
	return nil
}

func runResultsShow(w io.Writer, s *duckdb.Store, runID string) error {
	r, err := s.RunSummary(runID)
	if err != nil {
		return err
	}
	passing, err := s.PassingRecords(runID)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Run:        %s\n", r.RunID)
	fmt.Fprintf(w, "Input:      %s\n", r.Input)
	fmt.Fprintf(w, "Conditions: %s\n", r.Conditions)
	fmt.Fprintf(w, "Mode:       %s\n", r.Mode)
	fmt.Fprintf(w, "Records:    %d (%d passed, %d malformed)\n", r.Records, r.Passed, r.Malformed)
	for _, v := range passing {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\t%s\t%d/%d samples\n",
			v.LineNumber, v.Chrom, v.Pos, v.ID, v.Ref, v.Alt, v.PassedSamples, v.Samples)
	}
	return nil
}
