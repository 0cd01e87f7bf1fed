package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vcffilter/internal/duckdb"
	"github.com/inodb/vcffilter/internal/filter"
	"github.com/inodb/vcffilter/internal/output"
	"github.com/inodb/vcffilter/internal/vcf"
)

type filterOptions struct {
	input      string
	conditions string
	mode       string
	out        string
	noPrint    bool
	workers    int
	resultsDB  string
	provenance bool
}

func newFilterCmd() *cobra.Command {
	var opts filterOptions

	cmd := &cobra.Command{
		Use:   "filter [flags] [input-file]",
		Short: "Filter records of a VCF file",
		Example: `  vcffilter filter -f "GT = 1/1, DP > 100" input.vcf
  vcffilter filter -f "DP >= 50, GQ >= 30" -p all -o passed.vcf.gz input.vcf.gz
  vcffilter filter -f "AB > 0, AB < 0.09" -n input.vcf
  cat input.vcf | vcffilter filter -f "DEPTH > 100" -`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if opts.input != "" && opts.input != args[0] {
					return &usageError{fmt.Errorf("input given both as --vcf and argument")}
				}
				opts.input = args[0]
			}
			if !cmd.Flags().Changed("operator") {
				opts.mode = viper.GetString("filter.mode")
			}
			if !cmd.Flags().Changed("workers") {
				opts.workers = viper.GetInt("filter.workers")
			}
			if !cmd.Flags().Changed("results-db") {
				opts.resultsDB = viper.GetString("filter.results_db")
			}
			if !cmd.Flags().Changed("provenance") {
				opts.provenance = viper.GetBool("output.provenance")
			}
			return runFilter(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.input, "vcf", "", "Input VCF file, plain or gzipped ('-' for stdin)")
	f.StringVarP(&opts.conditions, "filter", "f", "", `Comma-separated conditions, e.g. "GT = 1/1, DP > 100"`)
	f.StringVarP(&opts.mode, "operator", "p", "any", "Whether any or all samples must pass: any, all")
	f.StringVarP(&opts.out, "out", "o", "", "Output file (default: stdout; .gz compresses)")
	f.BoolVarP(&opts.noPrint, "no-print", "n", false, "Do not write the filtered VCF, only report the count")
	f.IntVar(&opts.workers, "workers", 0, "Number of evaluation workers (default: number of CPUs)")
	f.StringVar(&opts.resultsDB, "results-db", "", "Record every verdict in this DuckDB database")
	f.BoolVar(&opts.provenance, "provenance", true, "Add a ##vcffilterCommand header line")

	return cmd
}

// splitConditions splits a comma-joined condition argument and trims
// whitespace around each condition.
func splitConditions(arg string) []string {
	var out []string
	for _, c := range strings.Split(arg, ",") {
		c = strings.TrimSpace(c)
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

func runFilter(cmd *cobra.Command, opts filterOptions) error {
	if opts.input == "" {
		return &usageError{fmt.Errorf("input file argument required")}
	}
	if strings.TrimSpace(opts.conditions) == "" {
		return &usageError{fmt.Errorf("--filter is required")}
	}

	mode, err := filter.ParseMode(opts.mode)
	if err != nil {
		return &usageError{fmt.Errorf("--operator only accepts 'any' or 'all': %w", err)}
	}

	// Condition errors abort before any record is read.
	flt, err := filter.Compile(splitConditions(opts.conditions), mode)
	if err != nil {
		return &usageError{err}
	}
	flt.SetLogger(logger)

	parser, err := vcf.NewParser(opts.input)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w (check that the file path is correct)", err)
		}
		return err
	}
	defer parser.Close()

	logger.Debug("filtering",
		zap.String("input", opts.input),
		zap.String("conditions", flt.String()),
		zap.Stringer("mode", mode),
		zap.Int("samples", len(parser.SampleNames())))

	var sinks []filter.VerdictSink
	var recorder *duckdb.Recorder
	if opts.resultsDB != "" {
		store, err := duckdb.Open(opts.resultsDB)
		if err != nil {
			return fmt.Errorf("open results db: %w", err)
		}
		defer store.Close()

		recorder, err = store.BeginRun(duckdb.RunInfo{
			Input:      opts.input,
			Conditions: flt.String(),
			Mode:       mode.String(),
		})
		if err != nil {
			return err
		}
		defer recorder.Close()
		sinks = append(sinks, recorder)
		logger.Debug("recording verdicts", zap.String("db", opts.resultsDB), zap.String("run_id", recorder.RunID()))
	}

	var writer filter.RecordWriter
	var out io.WriteCloser
	if !opts.noPrint {
		out, err = output.Create(opts.out)
		if err != nil {
			return err
		}
		defer out.Close()

		vw := output.NewVCFWriter(out, parser.Header())
		if opts.provenance {
			vw.SetProvenance(flt.String(), mode.String())
		}
		if err := vw.WriteHeader(); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
		writer = vw
	}

	stats, err := flt.FilterAll(cmd.Context(), parser, writer, opts.workers, sinks...)
	if err != nil {
		return err
	}

	if recorder != nil {
		if err := recorder.Finish(stats); err != nil {
			return err
		}
	}
	if out != nil {
		if err := out.Close(); err != nil {
			return fmt.Errorf("close output: %w", err)
		}
	}

	if stats.Malformed > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: skipped %d malformed records\n", stats.Malformed)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%d variants remain\n", stats.Passed)
	return nil
}
