package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inodb/vcffilter/internal/filter"
)

// selftestCase is a single built-in record/condition check.
type selftestCase struct {
	name       string
	line       string
	conditions []string
	mode       filter.Mode
	want       bool
}

const selftestRecord = "1\t500\t.\tA\tG\t50\tPASS\tDP=250;AC=12,3\tGT:DP:GQ:AD\t1/1:150:40:10,140\t0/1:60:20:30,30"

var selftestCases = []selftestCase{
	{"genotype and depth, any sample", selftestRecord, []string{"GT = 1/1", "DP > 100"}, filter.ModeAny, true},
	{"genotype and depth, all samples", selftestRecord, []string{"GT = 1/1", "DP > 100"}, filter.ModeAll, false},
	{"record depth is DEPTH", selftestRecord, []string{"DEPTH > 200"}, filter.ModeAll, true},
	{"indexed INFO value", selftestRecord, []string{"AC[1] = 3"}, filter.ModeAny, true},
	{"allele balance", selftestRecord, []string{"AB >= 0.5", "GQ < 30"}, filter.ModeAny, true},
	{"absent field", selftestRecord, []string{"XX > 0"}, filter.ModeAny, false},
	{"no samples", "1\t500\t.\tA\tG\t50\tPASS\tDP=250", []string{"DEPTH > 1"}, filter.ModeAny, false},
}

func newSelftestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "selftest",
		Short: "Run built-in filter checks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, tc := range selftestCases {
				got, err := runSelftestCase(tc)
				status := "ok"
				switch {
				case err != nil:
					status = "error: " + err.Error()
					failed++
				case got != tc.want:
					status = fmt.Sprintf("FAIL: got %v, want %v", got, tc.want)
					failed++
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-36s %s\n", tc.name, status)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d self-test checks failed", failed, len(selftestCases))
			}
			return nil
		},
	}
}

func runSelftestCase(tc selftestCase) (bool, error) {
	f, err := filter.Compile(tc.conditions, tc.mode)
	if err != nil {
		return false, err
	}
	v, err := f.EvaluateLine(tc.line)
	if err != nil {
		return false, err
	}
	return v.Pass, nil
}
