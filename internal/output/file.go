package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// Create opens path for writing. "" and "-" write to stdout; a ".gz"
// suffix gzip-compresses the output. Close flushes and closes everything
// it opened, but never closes stdout.
func Create(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}
	if !strings.HasSuffix(strings.ToLower(path), ".gz") {
		return f, nil
	}
	return &gzipFile{Writer: gzip.NewWriter(f), file: f}, nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

type gzipFile struct {
	*gzip.Writer
	file *os.File
}

func (g *gzipFile) Close() error {
	if err := g.Writer.Close(); err != nil {
		g.file.Close()
		return fmt.Errorf("close gzip stream: %w", err)
	}
	return g.file.Close()
}
