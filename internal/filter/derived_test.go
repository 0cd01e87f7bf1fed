package filter

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/vcffilter/internal/vcf"
)

func TestAlleleBalance(t *testing.T) {
	tests := []struct {
		name   string
		sample vcf.SampleFields
		want   string
	}{
		{"ratio", vcf.SampleFields{"AD": "10,20", "DP": "30"}, strconv.FormatFloat(20.0/30.0, 'f', -1, 64)},
		{"zero alt", vcf.SampleFields{"AD": "60,0", "DP": "60"}, "0"},
		{"empty AD", vcf.SampleFields{"AD": "", "DP": "30"}, ""},
		{"missing AD", vcf.SampleFields{"DP": "30"}, ""},
		{"dot AD", vcf.SampleFields{"AD": ".", "DP": "30"}, ""},
		{"single AD element", vcf.SampleFields{"AD": "10", "DP": "30"}, ""},
		{"zero DP", vcf.SampleFields{"AD": "0,0", "DP": "0"}, ""},
		{"missing DP", vcf.SampleFields{"AD": "1,2"}, ""},
		{"non-integer AD", vcf.SampleFields{"AD": "1,x", "DP": "3"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AlleleBalance.Compute(tt.sample))
		})
	}
}

func TestAugment_ResolvesAB(t *testing.T) {
	view := Augment(viewOf(vcf.SampleFields{"AD": "10,20", "DP": "30"}), DerivedFields)

	got, ok := Resolve(FieldRef{Name: "AB"}, view)
	require.True(t, ok)
	v := Coerce(got)
	require.True(t, v.Numeric)
	assert.InDelta(t, 0.6667, v.Num, 1e-3)

	empty := Augment(viewOf(vcf.SampleFields{"AD": "", "DP": "30"}), DerivedFields)
	_, ok = Resolve(FieldRef{Name: "AB"}, empty)
	assert.False(t, ok)

	c, err := ParseCondition("AB > 0")
	require.NoError(t, err)
	assert.False(t, EvaluateSample([]Condition{c}, empty))
}

func TestAugment_Idempotent(t *testing.T) {
	once := Augment(viewOf(vcf.SampleFields{"AD": "3,9", "DP": "12"}), DerivedFields)
	twice := Augment(once, DerivedFields)

	a, _ := once.Lookup("AB")
	b, _ := twice.Lookup("AB")
	assert.Equal(t, "0.75", a)
	assert.Equal(t, a, b)
}

func TestAugment_OverridesExistingField(t *testing.T) {
	sample := vcf.SampleFields{"AB": "0.99", "AD": "1,1", "DP": "4"}
	view := Augment(viewOf(sample), DerivedFields)

	got, _ := view.Lookup("AB")
	assert.Equal(t, "0.25", got)
	assert.Equal(t, "0.99", sample["AB"], "raw sample fields are not modified")
}

func TestReferencedDerived(t *testing.T) {
	conds, err := ParseConditions([]string{"DP > 1", "AB < 0.3"})
	require.NoError(t, err)
	assert.Len(t, referencedDerived(conds), 1)

	conds, err = ParseConditions([]string{"DP > 1"})
	require.NoError(t, err)
	assert.Empty(t, referencedDerived(conds))
}
