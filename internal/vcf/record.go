// Package vcf provides VCF file parsing functionality.
package vcf

import (
	"errors"
	"fmt"
	"strings"
)

// MinColumns is the number of columns every data line must carry:
// the 7 mandatory columns plus INFO.
const MinColumns = 8

// MissingValue is the VCF placeholder for an absent value.
const MissingValue = "."

// ErrMalformedRecord is returned (wrapped in a *ParseError) for data lines
// with fewer than MinColumns columns.
var ErrMalformedRecord = errors.New("malformed record")

// MandatoryNames lists the fixed positional fields in column order.
var MandatoryNames = [7]string{"CHROM", "POS", "ID", "REF", "ALT", "QUAL", "FILTER"}

// RawRecord is an untouched input line and its line number. Comment is
// set for '#' lines that follow the first data line; they are carried
// through in place and never evaluated.
type RawRecord struct {
	LineNumber int
	Text       string
	Comment    bool
}

// MandatoryFields holds the first 7 columns of a record, in MandatoryNames order.
type MandatoryFields [7]string

// Get returns the value of a mandatory field by name.
func (m MandatoryFields) Get(name string) (string, bool) {
	for i, n := range MandatoryNames {
		if n == name {
			return m[i], true
		}
	}
	return "", false
}

// AuxiliaryFields holds the INFO key/value pairs. Flags map to "".
type AuxiliaryFields map[string]string

// SampleFields holds one sample's FORMAT key/value pairs.
type SampleFields map[string]string

// Record is a data line split into its field containers.
type Record struct {
	Mandatory MandatoryFields
	Info      AuxiliaryFields
	Format    []string
	Samples   []SampleFields
}

// Chrom returns the CHROM column.
func (r *Record) Chrom() string { return r.Mandatory[0] }

// Pos returns the POS column as written.
func (r *Record) Pos() string { return r.Mandatory[1] }

// Views returns one merged view per sample. A record without sample
// columns yields no views.
func (r *Record) Views() []SampleView {
	views := make([]SampleView, len(r.Samples))
	for i, s := range r.Samples {
		views[i] = SampleView{mandatory: &r.Mandatory, info: r.Info, sample: s}
	}
	return views
}

// Build splits a tab-delimited data line into a Record.
// Lines with fewer than MinColumns columns return ErrMalformedRecord.
func Build(line string) (*Record, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < MinColumns {
		return nil, fmt.Errorf("%w: expected at least %d columns, found %d",
			ErrMalformedRecord, MinColumns, len(fields))
	}

	r := &Record{Info: parseInfo(fields[7])}
	copy(r.Mandatory[:], fields[:7])

	if len(fields) > 8 {
		r.Format = strings.Split(fields[8], ":")
		r.Samples = make([]SampleFields, 0, len(fields)-9)
		for _, col := range fields[9:] {
			r.Samples = append(r.Samples, parseSample(r.Format, col))
		}
	}

	return r, nil
}

// parseInfo parses the INFO column. The record-level DP is stored as DEPTH
// so it never collides with the per-sample DP.
func parseInfo(info string) AuxiliaryFields {
	result := make(AuxiliaryFields)
	if info == MissingValue || info == "" {
		return result
	}

	for _, kv := range strings.Split(info, ";") {
		if kv == "" {
			continue
		}
		key, value, _ := strings.Cut(kv, "=")
		result[key] = value
	}

	if dp, ok := result["DP"]; ok {
		delete(result, "DP")
		result["DEPTH"] = dp
	}

	return result
}

// parseSample zips FORMAT keys against one sample column. Extra keys or
// values beyond the shorter list are dropped.
func parseSample(format []string, column string) SampleFields {
	values := strings.Split(column, ":")
	n := min(len(format), len(values))
	s := make(SampleFields, n)
	for i := range n {
		s[format[i]] = values[i]
	}
	return s
}
