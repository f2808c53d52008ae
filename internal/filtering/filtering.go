package filtering

import (
	"context"
	"fmt"

	"github.com/budhadityarishidasgupta-lang/job-hunt/internal/jobs"
	"go.uber.org/zap"
)

// Filter represents a single filtering step applied to normalized job records.
type Filter interface {
	Name() string
	Apply(ctx context.Context, records []jobs.Record) ([]jobs.Record, Step, error)
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// Run executes the supplied filters sequentially, preserving record order.
// An empty input is a legitimate state and produces an empty output.
func Run(ctx context.Context, logger *zap.Logger, steps []Filter, records []jobs.Record) ([]jobs.Record, error) {
	for _, step := range steps {
		next, info, err := step.Apply(ctx, records)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name(), err)
		}

		if logger != nil {
			logger.Info("filter step",
				zap.String("name", step.Name()),
				zap.Int("initial", info.Initial),
				zap.Int("dropped", info.Dropped),
				zap.Int("left", info.Left),
			)
		}

		records = next
	}

	return records, nil
}
