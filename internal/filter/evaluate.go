package filter

import (
	"fmt"
	"strings"

	"github.com/inodb/vcffilter/internal/vcf"
)

// Mode selects how per-sample results combine into a record verdict.
type Mode int

const (
	// ModeAny passes a record when at least one sample passes.
	ModeAny Mode = iota
	// ModeAll passes a record when every sample passes.
	ModeAll
)

// ParseMode accepts "any"/"all" and the combination symbols "|"/"&".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "any", "|":
		return ModeAny, nil
	case "all", "&":
		return ModeAll, nil
	}
	return ModeAny, fmt.Errorf("unknown combine mode %q: expected any or all", s)
}

func (m Mode) String() string {
	if m == ModeAll {
		return "all"
	}
	return "any"
}

// EvaluateSample reports whether view satisfies every condition.
// A condition on an absent field is false. An empty view or an empty
// condition list never passes.
func EvaluateSample(conds []Condition, view vcf.SampleView) bool {
	if len(conds) == 0 || view.Empty() {
		return false
	}
	for _, c := range conds {
		if !evaluateCondition(c, view) {
			return false
		}
	}
	return true
}

func evaluateCondition(c Condition, view vcf.SampleView) bool {
	raw, ok := Resolve(c.Field, view)
	if !ok {
		return false
	}
	return compare(c.Op, Coerce(raw), c.Literal)
}

// EvaluateRecord combines per-sample results under mode. A record with no
// samples fails in both modes.
func EvaluateRecord(conds []Condition, views []vcf.SampleView, mode Mode) bool {
	_, pass := evaluateViews(conds, views, mode)
	return pass
}

// evaluateViews returns the number of passing samples and the verdict.
func evaluateViews(conds []Condition, views []vcf.SampleView, mode Mode) (int, bool) {
	passed := 0
	for _, v := range views {
		if EvaluateSample(conds, v) {
			passed++
		}
	}
	if len(views) == 0 {
		return 0, false
	}
	if mode == ModeAll {
		return passed, passed == len(views)
	}
	return passed, passed > 0
}
