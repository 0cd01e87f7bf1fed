package filter

import (
	"strconv"
	"strings"

	"github.com/inodb/vcffilter/internal/vcf"
)

// DerivedField is a field computed from a sample's FORMAT fields.
// Compute returns "" when the value cannot be computed.
type DerivedField struct {
	Name    string
	Compute func(vcf.SampleFields) string
}

// AlleleBalance is AB = AD[1] / DP for a sample.
var AlleleBalance = DerivedField{Name: "AB", Compute: alleleBalance}

// DerivedFields lists every derived field known to the evaluator.
var DerivedFields = []DerivedField{AlleleBalance}

func alleleBalance(s vcf.SampleFields) string {
	ad := s["AD"]
	if ad == "" || ad == vcf.MissingValue {
		return ""
	}
	parts := strings.Split(ad, ",")
	if len(parts) < 2 {
		return ""
	}
	alt, err := strconv.Atoi(parts[1])
	if err != nil {
		return ""
	}
	dp, err := strconv.Atoi(s["DP"])
	if err != nil || dp == 0 {
		return ""
	}
	return strconv.FormatFloat(float64(alt)/float64(dp), 'f', -1, 64)
}

// Augment returns view with each field injected under its name,
// overriding any existing value. It reads only the sample's own fields,
// so applying it twice yields the same values.
func Augment(view vcf.SampleView, fields []DerivedField) vcf.SampleView {
	for _, f := range fields {
		view = view.With(f.Name, f.Compute(view.Sample()))
	}
	return view
}

// referencedDerived returns the derived fields named by any condition.
func referencedDerived(conds []Condition) []DerivedField {
	var out []DerivedField
	for _, f := range DerivedFields {
		for _, c := range conds {
			if c.Field.Name == f.Name {
				out = append(out, f)
				break
			}
		}
	}
	return out
}
