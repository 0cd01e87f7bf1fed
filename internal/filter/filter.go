package filter

import (
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/inodb/vcffilter/internal/vcf"
)

// ErrNoConditions is returned by New when the condition list is empty.
var ErrNoConditions = errors.New("no filter conditions given")

// Verdict is the outcome of evaluating one record.
type Verdict struct {
	Pass          bool
	Samples       int
	PassedSamples int
}

// Filter evaluates records against a fixed condition set.
// It holds no per-record state and is safe for concurrent use.
type Filter struct {
	conditions []Condition
	derived    []DerivedField
	mode       Mode
	logger     *zap.Logger
}

// New creates a Filter. The conditions are not modified after this call.
func New(conds []Condition, mode Mode) (*Filter, error) {
	if len(conds) == 0 {
		return nil, ErrNoConditions
	}
	return &Filter{
		conditions: conds,
		derived:    referencedDerived(conds),
		mode:       mode,
		logger:     zap.NewNop(),
	}, nil
}

// Compile parses condition strings and creates a Filter.
func Compile(texts []string, mode Mode) (*Filter, error) {
	conds, err := ParseConditions(texts)
	if err != nil {
		return nil, err
	}
	return New(conds, mode)
}

// SetLogger sets the logger for warning and debug messages.
func (f *Filter) SetLogger(l *zap.Logger) {
	f.logger = l
}

// Mode returns the record-level combine mode.
func (f *Filter) Mode() Mode {
	return f.mode
}

// Conditions returns the parsed conditions.
func (f *Filter) Conditions() []Condition {
	return f.conditions
}

// String renders the conditions as a comma-joined list.
func (f *Filter) String() string {
	texts := make([]string, len(f.conditions))
	for i, c := range f.conditions {
		texts[i] = strings.Join(strings.Fields(c.Text), " ")
	}
	return strings.Join(texts, ", ")
}

// Views returns the record's sample views with any referenced derived
// fields injected.
func (f *Filter) Views(rec *vcf.Record) []vcf.SampleView {
	views := rec.Views()
	if len(f.derived) == 0 {
		return views
	}
	for i := range views {
		views[i] = Augment(views[i], f.derived)
	}
	return views
}

// Evaluate evaluates a built record.
func (f *Filter) Evaluate(rec *vcf.Record) Verdict {
	views := f.Views(rec)
	passed, pass := evaluateViews(f.conditions, views, f.mode)
	return Verdict{Pass: pass, Samples: len(views), PassedSamples: passed}
}

// EvaluateLine builds and evaluates a raw data line.
func (f *Filter) EvaluateLine(line string) (Verdict, error) {
	rec, err := vcf.Build(line)
	if err != nil {
		return Verdict{}, err
	}
	return f.Evaluate(rec), nil
}
