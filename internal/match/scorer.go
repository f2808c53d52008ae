package match

import (
	"context"
	"fmt"
	"math"

	"github.com/budhadityarishidasgupta-lang/job-hunt/internal/jobs"
	"go.uber.org/zap"
)

// Threshold is the minimum cosine similarity a posting must reach to be
// retained. The value is paired with an mpnet-class sentence embedding
// model; it is a policy constant, not a user-facing knob.
const Threshold = 0.30

// Embedder encodes text into a fixed-length semantic vector.
// Implementations must be safe for concurrent use once constructed.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// Match is a scored posting ready for ranking and export. Score is the
// cosine similarity scaled to 0-100 and rounded to two decimals; negative
// similarities are preserved as-is, never clamped.
type Match struct {
	Title       string  `json:"title"`
	Company     string  `json:"company"`
	Source      string  `json:"source"`
	Location    string  `json:"location"`
	URL         string  `json:"url"`
	Score       float64 `json:"score"`
	Snippet     string  `json:"snippet"`
	Description string  `json:"-"`
}

// Scorer computes resume-to-posting similarity with an injected embedder.
// Construct it once per process and share it across pipeline invocations;
// the embedder owns the expensive model handle.
type Scorer struct {
	embedder  Embedder
	threshold float64
	logger    *zap.Logger
}

func NewScorer(embedder Embedder, logger *zap.Logger) *Scorer {
	return &Scorer{
		embedder:  embedder,
		threshold: Threshold,
		logger:    logger,
	}
}

// Run embeds the resume text once, then scores every record's description
// (title when the description is blank; records with neither are skipped).
// Output keeps the input order; sorting is the ranking layer's job. An
// empty result is a legitimate no-matches state, not an error.
func (s *Scorer) Run(ctx context.Context, resumeText string, records []jobs.Record) ([]Match, error) {
	resumeEmb, err := s.embedder.EmbedText(ctx, resumeText)
	if err != nil {
		return nil, fmt.Errorf("embedding resume text: %w", err)
	}

	matches := make([]Match, 0, len(records))
	for _, record := range records {
		text := record.Description
		if jobs.CleanText(text) == "" {
			text = record.Title
		}
		if jobs.CleanText(text) == "" {
			continue
		}

		jobEmb, err := s.embedder.EmbedText(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embedding job %q: %w", record.Fingerprint(), err)
		}

		similarity := Cosine(resumeEmb, jobEmb)
		if similarity < s.threshold {
			if s.logger != nil {
				s.logger.Debug("dropping posting below similarity threshold",
					zap.String("job", record.Fingerprint()),
					zap.Float64("similarity", similarity),
				)
			}
			continue
		}

		matches = append(matches, Match{
			Title:       record.Title,
			Company:     record.Company,
			Source:      record.Source,
			Location:    record.Location,
			URL:         record.URL,
			Score:       roundScore(similarity * 100),
			Snippet:     jobs.Snippet(text, jobs.SnippetLength),
			Description: text,
		})
	}

	return matches, nil
}

func roundScore(v float64) float64 {
	return math.Round(v*100) / 100
}
