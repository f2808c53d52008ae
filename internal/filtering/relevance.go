package filtering

import (
	"context"
	"strings"

	"github.com/budhadityarishidasgupta-lang/job-hunt/internal/jobs"
)

// DefaultKeywords is the HR-domain fragment set used when the config does
// not override the relevance keywords. Matching is substring-based, so
// short fragments like "hr" also catch "hrbp" and "hr director".
var DefaultKeywords = []string{
	"hr", "human resources", "people", "talent",
	"shared services", "people operations", "people ops",
	"hr director", "head of hr", "hrbp", "people director",
	"cpo", "chief people officer",
}

type relevanceFilter struct {
	keywords []string
}

// NewRelevance creates a coarse keyword gate that retains a record iff at
// least one fragment appears (case-insensitive) in its title or description.
// It runs before embedding so obviously irrelevant postings never pay the
// encoding cost. An empty keyword list falls back to DefaultKeywords.
func NewRelevance(keywords []string) Filter {
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}

	lowered := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			lowered = append(lowered, kw)
		}
	}

	return &relevanceFilter{keywords: lowered}
}

func (f *relevanceFilter) Name() string { return "relevance" }

func (f *relevanceFilter) Apply(_ context.Context, records []jobs.Record) ([]jobs.Record, Step, error) {
	initial := len(records)

	kept := make([]jobs.Record, 0, initial)
	for _, record := range records {
		text := strings.ToLower(record.Title + " " + record.Description)
		for _, kw := range f.keywords {
			if strings.Contains(text, kw) {
				kept = append(kept, record)
				break
			}
		}
	}

	return kept, Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}, nil
}
