// Package output writes filtered VCF files.
package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ProvenanceKey is the meta-information key recording how a file was filtered.
const ProvenanceKey = "vcffilterCommand"

// VCFWriter writes the original header followed by passing record lines.
type VCFWriter struct {
	w           *bufio.Writer
	headerLines []string // original VCF header lines (## and #CHROM)
	provenance  string
}

// NewVCFWriter creates a new VCF output writer.
func NewVCFWriter(w io.Writer, headerLines []string) *VCFWriter {
	return &VCFWriter{
		w:           bufio.NewWriter(w),
		headerLines: headerLines,
	}
}

// SetProvenance records conditions and mode in a meta line written just
// above #CHROM. An empty value disables the line.
func (vw *VCFWriter) SetProvenance(conditions, mode string) {
	if conditions == "" {
		vw.provenance = ""
		return
	}
	vw.provenance = fmt.Sprintf("##%s=%s;mode=%s", ProvenanceKey, conditions, mode)
}

// WriteHeader writes the original header lines, inserting the provenance
// line before #CHROM (or at the end when there is no #CHROM line).
func (vw *VCFWriter) WriteHeader() error {
	written := vw.provenance == ""
	for _, line := range vw.headerLines {
		if !written && strings.HasPrefix(line, "#CHROM") {
			if _, err := vw.w.WriteString(vw.provenance + "\n"); err != nil {
				return err
			}
			written = true
		}
		if _, err := vw.w.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	if !written {
		if _, err := vw.w.WriteString(vw.provenance + "\n"); err != nil {
			return err
		}
	}
	return nil
}

// Write writes one record line unchanged.
func (vw *VCFWriter) Write(line string) error {
	if _, err := vw.w.WriteString(line); err != nil {
		return err
	}
	return vw.w.WriteByte('\n')
}

// Flush flushes buffered output.
func (vw *VCFWriter) Flush() error {
	return vw.w.Flush()
}
