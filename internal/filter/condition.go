// Package filter evaluates field conditions against VCF records.
package filter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/inodb/vcffilter/internal/vcf"
)

// Operator is a comparison operator.
type Operator int

// Recognized comparison operators. "==" and "=" both parse to OpEqual.
const (
	OpGreater Operator = iota + 1
	OpLess
	OpGreaterEqual
	OpLessEqual
	OpEqual
	OpNotEqual
)

var operatorSymbols = map[string]Operator{
	">":  OpGreater,
	"<":  OpLess,
	">=": OpGreaterEqual,
	"<=": OpLessEqual,
	"==": OpEqual,
	"=":  OpEqual,
	"!=": OpNotEqual,
}

func (op Operator) String() string {
	switch op {
	case OpGreater:
		return ">"
	case OpLess:
		return "<"
	case OpGreaterEqual:
		return ">="
	case OpLessEqual:
		return "<="
	case OpEqual:
		return "=="
	case OpNotEqual:
		return "!="
	}
	return fmt.Sprintf("Operator(%d)", int(op))
}

// FieldRef names a field, optionally selecting one element of a
// comma-separated value.
type FieldRef struct {
	Name     string
	Index    int
	HasIndex bool
}

func (f FieldRef) String() string {
	if f.HasIndex {
		return fmt.Sprintf("%s[%d]", f.Name, f.Index)
	}
	return f.Name
}

// Condition is one parsed "FIELD OP LITERAL" comparison.
type Condition struct {
	Text    string
	Field   FieldRef
	Op      Operator
	Literal Value
}

// ConditionSyntaxError reports a condition string that cannot be parsed.
type ConditionSyntaxError struct {
	Condition string
	Reason    string
}

func (e *ConditionSyntaxError) Error() string {
	return fmt.Sprintf("invalid condition %q: %s", e.Condition, e.Reason)
}

var fieldSpecRe = regexp.MustCompile(`^([^\[\]]+?)(?:\[(\d+)\])?$`)

// ParseCondition parses a condition such as "DP > 100" or "AC[0] >= 20".
func ParseCondition(text string) (Condition, error) {
	tokens := strings.Fields(text)
	if len(tokens) != 3 {
		return Condition{}, &ConditionSyntaxError{
			Condition: text,
			Reason:    fmt.Sprintf("expected 3 space-separated tokens, found %d", len(tokens)),
		}
	}

	field, err := parseFieldRef(tokens[0])
	if err != nil {
		return Condition{}, &ConditionSyntaxError{Condition: text, Reason: err.Error()}
	}

	op, ok := operatorSymbols[tokens[1]]
	if !ok {
		reason := fmt.Sprintf("unrecognized operator %q", tokens[1])
		if tokens[1] == "&" || tokens[1] == "|" {
			reason = fmt.Sprintf("%q selects how samples combine and is not a comparison operator", tokens[1])
		}
		return Condition{}, &ConditionSyntaxError{Condition: text, Reason: reason}
	}

	return Condition{
		Text:    text,
		Field:   field,
		Op:      op,
		Literal: Coerce(tokens[2]),
	}, nil
}

func parseFieldRef(spec string) (FieldRef, error) {
	m := fieldSpecRe.FindStringSubmatch(spec)
	if m == nil {
		return FieldRef{}, fmt.Errorf("malformed field reference %q", spec)
	}
	ref := FieldRef{Name: m[1]}
	if m[2] != "" {
		idx, err := strconv.Atoi(m[2])
		if err != nil {
			return FieldRef{}, fmt.Errorf("field index %q: %w", m[2], err)
		}
		ref.Index = idx
		ref.HasIndex = true
	}
	return ref, nil
}

// ParseConditions parses every condition, stopping at the first error.
func ParseConditions(texts []string) ([]Condition, error) {
	conds := make([]Condition, 0, len(texts))
	for _, t := range texts {
		c, err := ParseCondition(t)
		if err != nil {
			return nil, err
		}
		conds = append(conds, c)
	}
	return conds, nil
}

// Resolve looks up ref in view. Comma-separated values yield the indexed
// element, or the first element when ref has no index. Missing fields,
// empty values, "." and out-of-range indexes are absent (ok == false).
func Resolve(ref FieldRef, view vcf.SampleView) (string, bool) {
	raw, ok := view.Lookup(ref.Name)
	if !ok {
		return "", false
	}

	val := raw
	if strings.Contains(raw, ",") {
		parts := strings.Split(raw, ",")
		idx := 0
		if ref.HasIndex {
			idx = ref.Index
		}
		if idx >= len(parts) {
			return "", false
		}
		val = parts[idx]
	}

	if val == "" || val == vcf.MissingValue {
		return "", false
	}
	return val, true
}
