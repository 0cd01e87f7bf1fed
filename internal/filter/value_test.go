package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoerce(t *testing.T) {
	tests := []struct {
		in      string
		numeric bool
		num     float64
	}{
		{"100", true, 100},
		{"0.09", true, 0.09},
		{".5", true, 0.5},
		{"5.", true, 5},
		{"0", true, 0},
		{"1.2.3", false, 0},
		{".", false, 0},
		{"", false, 0},
		{"-1", false, 0},
		{"1e5", false, 0},
		{"1/1", false, 0},
		{"PASS", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v := Coerce(tt.in)
			assert.Equal(t, tt.numeric, v.Numeric)
			assert.Equal(t, tt.in, v.Text)
			if tt.numeric {
				assert.InDelta(t, tt.num, v.Num, 1e-12)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		op   Operator
		want bool
	}{
		{"numeric greater", "150", "100", OpGreater, true},
		{"numeric not lexicographic", "9", "10", OpLess, true},
		{"numeric equal across forms", "20", "20.0", OpEqual, true},
		{"numeric not equal", "20", "21", OpNotEqual, true},
		{"numeric ge", "50", "50", OpGreaterEqual, true},
		{"numeric le", "51", "50", OpLessEqual, false},
		{"text equal", "1/1", "1/1", OpEqual, true},
		{"text not equal", "0/1", "1/1", OpNotEqual, true},
		{"text ordering is lexicographic", "chr10", "chr9", OpLess, true},
		{"mixed falls back to text", "9", "chr", OpLess, true},
		{"mixed equality is textual", "1", "1.0x", OpEqual, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, compare(tt.op, Coerce(tt.a), Coerce(tt.b)))
		})
	}
}
