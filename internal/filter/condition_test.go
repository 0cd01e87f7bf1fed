package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vcffilter/internal/vcf"
)

func TestParseCondition(t *testing.T) {
	tests := []struct {
		text    string
		field   FieldRef
		op      Operator
		literal string
		numeric bool
	}{
		{"DP > 100", FieldRef{Name: "DP"}, OpGreater, "100", true},
		{"AC[0] >= 20", FieldRef{Name: "AC", Index: 0, HasIndex: true}, OpGreaterEqual, "20", true},
		{"AD[1] <= 3", FieldRef{Name: "AD", Index: 1, HasIndex: true}, OpLessEqual, "3", true},
		{"GT = 1/1", FieldRef{Name: "GT"}, OpEqual, "1/1", false},
		{"GT == 0/1", FieldRef{Name: "GT"}, OpEqual, "0/1", false},
		{"FILTER != PASS", FieldRef{Name: "FILTER"}, OpNotEqual, "PASS", false},
		{"AB < 0.09", FieldRef{Name: "AB"}, OpLess, "0.09", true},
		{"  DP   >  5 ", FieldRef{Name: "DP"}, OpGreater, "5", true},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			c, err := ParseCondition(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.field, c.Field)
			assert.Equal(t, tt.op, c.Op)
			assert.Equal(t, tt.literal, c.Literal.Text)
			assert.Equal(t, tt.numeric, c.Literal.Numeric)
			assert.Equal(t, tt.text, c.Text)
		})
	}
}

func TestParseCondition_Errors(t *testing.T) {
	tests := []struct {
		text   string
		reason string
	}{
		{"DP>100", "expected 3"},
		{"DP > 100 extra", "expected 3"},
		{"", "expected 3"},
		{"DP => 100", "unrecognized operator"},
		{"DP ~ 1", "unrecognized operator"},
		{"DP & 1", "not a comparison operator"},
		{"DP | 1", "not a comparison operator"},
		{"AC[x] > 1", "malformed field reference"},
		{"AC[-1] > 1", "malformed field reference"},
		{"[0] > 1", "malformed field reference"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			_, err := ParseCondition(tt.text)
			require.Error(t, err)

			var se *ConditionSyntaxError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.text, se.Condition)
			assert.Contains(t, se.Reason, tt.reason)
			assert.Contains(t, err.Error(), tt.text)
		})
	}
}

func TestParseConditions_StopsAtFirstError(t *testing.T) {
	_, err := ParseConditions([]string{"DP > 1", "GQ ?? 2", "bad"})
	var se *ConditionSyntaxError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "GQ ?? 2", se.Condition)

	conds, err := ParseConditions([]string{"DP > 1", "GT = 0/1"})
	require.NoError(t, err)
	assert.Len(t, conds, 2)
}

func TestOperator_String(t *testing.T) {
	for sym, op := range operatorSymbols {
		if sym == "=" {
			continue
		}
		assert.Equal(t, sym, op.String())
	}
}

func viewOf(sample vcf.SampleFields) vcf.SampleView {
	return vcf.NewSampleView(nil, nil, sample)
}

func TestResolve(t *testing.T) {
	view := viewOf(vcf.SampleFields{
		"AC":  "10,20,30",
		"DP":  "42",
		"ID":  ".",
		"AF":  ".,0.5",
		"FL":  "",
		"ONE": "7",
	})

	tests := []struct {
		spec string
		want string
		ok   bool
	}{
		{"AC", "10", true},
		{"AC[0]", "10", true},
		{"AC[2]", "30", true},
		{"AC[3]", "", false},
		{"DP", "42", true},
		{"DP[0]", "42", true},
		{"ONE[5]", "7", true},
		{"ID", "", false},
		{"AF", "", false},
		{"AF[1]", "0.5", true},
		{"FL", "", false},
		{"NOPE", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			ref, err := parseFieldRef(tt.spec)
			require.NoError(t, err)
			got, ok := Resolve(ref, view)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_IndexedAndBareAgreeWithoutComma(t *testing.T) {
	single := viewOf(vcf.SampleFields{"AC": "25"})
	multi := viewOf(vcf.SampleFields{"AC": "5,25"})

	bare := FieldRef{Name: "AC"}
	first := FieldRef{Name: "AC", HasIndex: true}
	second := FieldRef{Name: "AC", Index: 1, HasIndex: true}

	a, _ := Resolve(bare, single)
	b, _ := Resolve(first, single)
	assert.Equal(t, a, b)

	a, _ = Resolve(bare, multi)
	b, _ = Resolve(second, multi)
	assert.Equal(t, "5", a)
	assert.Equal(t, "25", b)
}
