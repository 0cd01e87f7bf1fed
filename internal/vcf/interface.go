package vcf

// RecordReader is the interface for sources of raw data lines.
type RecordReader interface {
	// Next reads the next data or comment line.
	// Returns nil, nil when there are no more lines.
	Next() (*RawRecord, error)

	// Close closes the reader and releases resources.
	Close() error

	// LineNumber returns the current line number being processed.
	LineNumber() int
}
