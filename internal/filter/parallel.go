package filter

import (
	"errors"
	"runtime"
	"sync"

	"github.com/inodb/vcffilter/internal/vcf"
)

// WorkItem holds a raw data line ready for evaluation.
type WorkItem struct {
	Seq int
	Raw *vcf.RawRecord
}

// WorkResult holds the evaluation output for a single line.
type WorkResult struct {
	Seq     int
	Raw     *vcf.RawRecord
	Record  *vcf.Record
	Verdict Verdict
	Err     error
}

// Malformed reports whether the line was rejected by the record builder.
func (r WorkResult) Malformed() bool {
	return errors.Is(r.Err, vcf.ErrMalformedRecord)
}

// ParallelFilter evaluates work items using a pool of workers.
// Results are sent to the returned channel in arrival order (not sequence order).
// Use OrderedCollect to consume results in sequence-number order.
// If workers is 0, runtime.NumCPU() is used.
func (f *Filter) ParallelFilter(items <-chan WorkItem, workers int) <-chan WorkResult {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan WorkResult, 2*workers)

	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()
			for item := range items {
				r := WorkResult{Seq: item.Seq, Raw: item.Raw}
				if item.Raw.Comment {
					results <- r
					continue
				}
				rec, err := vcf.BuildRaw(item.Raw)
				if err != nil {
					r.Err = err
				} else {
					r.Record = rec
					r.Verdict = f.Evaluate(rec)
				}
				results <- r
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}

// OrderedCollect calls fn for each result in sequence-number order.
// It buffers out-of-order results in a pending map and emits them
// as soon as the next expected sequence number is available.
// Blocks until the results channel is closed.
func OrderedCollect(results <-chan WorkResult, fn func(WorkResult) error) error {
	pending := make(map[int]WorkResult)
	nextSeq := 0

	for r := range results {
		pending[r.Seq] = r

		for {
			rr, ok := pending[nextSeq]
			if !ok {
				break
			}
			delete(pending, nextSeq)
			nextSeq++
			if err := fn(rr); err != nil {
				// Drain remaining results to unblock workers.
				for range results {
				}
				return err
			}
		}
	}

	return nil
}
