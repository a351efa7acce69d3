package importer

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is the number of concurrent create requests
const DefaultWorkers = 4

// Failure is a record the API refused
type Failure struct {
	Source string
	Line   int
	Err    error

	seq int
}

func (f Failure) String() string {
	return fmt.Sprintf("%s:%d: %v", f.Source, f.Line, f.Err)
}

// Report summarizes an import run
type Report struct {
	Total    int
	Created  int
	Failures []Failure
}

// Submit creates every record with at most workers requests in flight.
// A refused record does not stop the run; it is reported as a Failure.
// Only context cancellation aborts early.
func Submit[T any, I any](ctx context.Context, records []Record[I], workers int, submit func(context.Context, I) (*T, error)) (Report, error) {
	if workers <= 0 {
		workers = DefaultWorkers
	}

	report := Report{Total: len(records)}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, rec := range records {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			_, err := submit(ctx, rec.Input)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failures = append(report.Failures, Failure{Source: rec.Source, Line: rec.Line, Err: err, seq: i})
				return nil
			}
			report.Created++
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return report, err
	}

	sortFailures(report.Failures)
	return report, nil
}

// sortFailures restores input order
func sortFailures(fs []Failure) {
	slices.SortFunc(fs, func(a, b Failure) int {
		return cmp.Compare(a.seq, b.seq)
	})
}
