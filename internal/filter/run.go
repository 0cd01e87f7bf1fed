package filter

import (
	"context"
	"fmt"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/inodb/vcffilter/internal/vcf"
)

// RecordWriter receives the lines of passing records, and any comment
// lines found between records, in input order.
type RecordWriter interface {
	Write(line string) error
	Flush() error
}

// VerdictSink receives every evaluated record, passing or not, in input
// order. Comment lines are not evaluated and never reach a sink.
type VerdictSink interface {
	Add(r WorkResult) error
}

// Stats summarizes a FilterAll run.
type Stats struct {
	Records   int
	Passed    int
	Malformed int
}

// FilterAll evaluates every line from reader using workers goroutines and
// writes passing lines to writer in their original order. Malformed lines
// are logged and counted, not fatal. writer may be nil to only count.
// A write or sink error stops reading at once.
func (f *Filter) FilterAll(ctx context.Context, reader vcf.RecordReader, writer RecordWriter, workers int, sinks ...VerdictSink) (Stats, error) {
	var stats Stats

	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	items := make(chan WorkItem, 2*workers)

	readCtx, stopReading := context.WithCancel(ctx)
	defer stopReading()

	g := new(errgroup.Group)

	// The reader stops without error when readCtx ends; a canceled parent
	// is reported after Wait.
	g.Go(func() error {
		defer close(items)
		for seq := 0; ; seq++ {
			if readCtx.Err() != nil {
				return nil
			}
			raw, err := reader.Next()
			if err != nil {
				return fmt.Errorf("read record: %w", err)
			}
			if raw == nil {
				return nil
			}
			select {
			case items <- WorkItem{Seq: seq, Raw: raw}:
			case <-readCtx.Done():
				return nil
			}
		}
	})

	results := f.ParallelFilter(items, workers)

	g.Go(func() error {
		return OrderedCollect(results, func(r WorkResult) error {
			err := f.collect(r, writer, sinks, &stats)
			if err != nil {
				stopReading()
			}
			return err
		})
	})

	if err := g.Wait(); err != nil {
		return stats, err
	}
	if err := ctx.Err(); err != nil {
		return stats, err
	}

	if stats.Records == 0 {
		f.logger.Info("0 records processed")
	}
	f.logger.Debug("filter complete",
		zap.Int("records", stats.Records),
		zap.Int("passed", stats.Passed),
		zap.Int("malformed", stats.Malformed))

	if writer != nil {
		if err := writer.Flush(); err != nil {
			return stats, fmt.Errorf("flush output: %w", err)
		}
	}
	return stats, nil
}

// collect handles one result in input order.
func (f *Filter) collect(r WorkResult, writer RecordWriter, sinks []VerdictSink, stats *Stats) error {
	if r.Raw.Comment {
		if writer != nil {
			if err := writer.Write(r.Raw.Text); err != nil {
				return fmt.Errorf("write comment: %w", err)
			}
		}
		return nil
	}

	stats.Records++
	if r.Err != nil {
		if !r.Malformed() {
			return r.Err
		}
		stats.Malformed++
		f.logger.Warn("skipping malformed record",
			zap.Int("line", r.Raw.LineNumber),
			zap.Error(r.Err))
	} else if r.Verdict.Pass {
		stats.Passed++
		if writer != nil {
			if err := writer.Write(r.Raw.Text); err != nil {
				return fmt.Errorf("write record: %w", err)
			}
		}
	}
	for _, s := range sinks {
		if err := s.Add(r); err != nil {
			return fmt.Errorf("record verdict: %w", err)
		}
	}
	return nil
}
