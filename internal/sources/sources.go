// Package sources fetches job postings from heterogeneous providers and
// normalizes them into the canonical record shape. Fetchers contain their
// own failures; the aggregator reports them per source instead of silently
// producing empty lists.
package sources

import (
	"context"

	"github.com/budhadityarishidasgupta-lang/job-hunt/internal/jobs"
	"go.uber.org/zap"
)

const defaultUserAgent = "job-hunt/1.0 (+https://github.com/budhadityarishidasgupta-lang/job-hunt)"

// Fetcher retrieves postings from one provider. Implementations must not
// panic past their boundary; retrieval errors are returned, not swallowed.
type Fetcher interface {
	Name() string
	Fetch(ctx context.Context) ([]jobs.Record, error)
}

// Result is the outcome of one source fetch, success or failure.
type Result struct {
	Source string
	Jobs   []jobs.Record
	Err    error
}

// Collect runs every fetcher sequentially and aggregates the normalized
// records. A failing source contributes nothing but its failure stays
// observable in the returned results; the pipeline proceeds with whatever
// data it has.
func Collect(ctx context.Context, fetchers []Fetcher, logger *zap.Logger) ([]jobs.Record, []Result) {
	var all []jobs.Record
	results := make([]Result, 0, len(fetchers))

	for _, fetcher := range fetchers {
		records, err := fetcher.Fetch(ctx)
		result := Result{Source: fetcher.Name(), Jobs: records, Err: err}
		results = append(results, result)

		if err != nil {
			logger.Warn("skipping source after fetch failure",
				zap.String("source", fetcher.Name()),
				zap.Error(err),
			)
			continue
		}

		logger.Debug("fetched source",
			zap.String("source", fetcher.Name()),
			zap.Int("jobs", len(records)),
		)

		all = append(all, records...)
	}

	return all, results
}
