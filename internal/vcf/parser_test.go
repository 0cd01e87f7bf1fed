package vcf

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_ReadsAllDataLines(t *testing.T) {
	parser, err := NewParser(findTestFile(t, "filter.vcf"))
	require.NoError(t, err)
	defer parser.Close()

	var lines []int
	for {
		raw, err := parser.Next()
		require.NoError(t, err)
		if raw == nil {
			break
		}
		lines = append(lines, raw.LineNumber)
	}

	// Malformed lines are still returned; rejecting them is Build's job.
	assert.Equal(t, []int{4, 5, 6, 7, 8, 9}, lines)
}

func TestParser_Header(t *testing.T) {
	parser, err := NewParser(findTestFile(t, "filter.vcf"))
	require.NoError(t, err)
	defer parser.Close()

	header := parser.Header()
	require.Len(t, header, 3)
	assert.Equal(t, "##fileformat=VCFv4.2", header[0])
	assert.True(t, strings.HasPrefix(header[2], "#CHROM"))
	assert.Equal(t, []string{"S1", "S2"}, parser.SampleNames())
}

func TestParser_Gzip(t *testing.T) {
	plain, err := os.ReadFile(findTestFile(t, "filter.vcf"))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "filter.vcf.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := gzip.NewWriter(f)
	_, err = zw.Write(plain)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	parser, err := NewParser(path)
	require.NoError(t, err)
	defer parser.Close()

	first, err := parser.Next()
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.True(t, strings.HasPrefix(first.Text, "1\t100\trs1"))
	assert.Len(t, parser.Header(), 3)
}

func TestParser_NoHeader(t *testing.T) {
	input := "1\t100\t.\tA\tG\t.\tPASS\tDP=5\n1\t200\t.\tC\tT\t.\tPASS\tDP=6"
	parser, err := NewParserFromReader(strings.NewReader(input))
	require.NoError(t, err)

	assert.Empty(t, parser.Header())

	first, err := parser.Next()
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, 1, first.LineNumber)

	second, err := parser.Next()
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, "1\t200\t.\tC\tT\t.\tPASS\tDP=6", second.Text)

	done, err := parser.Next()
	require.NoError(t, err)
	assert.Nil(t, done)
}

func TestParser_BlankAndLateCommentLines(t *testing.T) {
	input := "#CHROM\tPOS\n\n1\t100\t.\tA\tG\t.\tPASS\t.\n#late comment\n\r\n2\t5\t.\tA\tG\t.\tPASS\t.\r\n"
	parser, err := NewParserFromReader(strings.NewReader(input))
	require.NoError(t, err)

	var got []RawRecord
	for {
		raw, err := parser.Next()
		require.NoError(t, err)
		if raw == nil {
			break
		}
		got = append(got, *raw)
	}
	assert.Equal(t, []RawRecord{
		{LineNumber: 3, Text: "1\t100\t.\tA\tG\t.\tPASS\t."},
		{LineNumber: 4, Text: "#late comment", Comment: true},
		{LineNumber: 6, Text: "2\t5\t.\tA\tG\t.\tPASS\t."},
	}, got)
	assert.Equal(t, []string{"#CHROM\tPOS"}, parser.Header())
}

func TestParser_MissingFile(t *testing.T) {
	_, err := NewParser(filepath.Join(t.TempDir(), "missing.vcf"))
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestParseError(t *testing.T) {
	err := &ParseError{
		Line:    42,
		Message: "expected 8 columns, found 7",
	}

	expected := "vcf parse error at line 42: expected 8 columns, found 7"
	if err.Error() != expected {
		t.Errorf("Error message mismatch: got %q, want %q", err.Error(), expected)
	}
}

func TestBuildRaw_LineContext(t *testing.T) {
	_, err := BuildRaw(&RawRecord{LineNumber: 7, Text: "1\t2\t3"})
	require.Error(t, err)

	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 7, pe.Line)
	assert.ErrorIs(t, err, ErrMalformedRecord)
}

// findTestFile locates a test file in the testdata directory.
func findTestFile(t *testing.T, name string) string {
	t.Helper()

	// Try different relative paths
	paths := []string{
		filepath.Join("testdata", name),
		filepath.Join("..", "..", "testdata", name),
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	t.Fatalf("Test file not found: %s", name)
	return ""
}
