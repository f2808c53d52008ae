package ai

import "context"

// Assessment is the structured result of one preference-aware fit
// evaluation. Score is nil when the model response could not be parsed.
// Assessments are produced fresh per request and never persisted.
type Assessment struct {
	Score     *float64 `json:"score"`
	Summary   string   `json:"summary"`
	Strengths []string `json:"strengths"`
	Gaps      []string `json:"gaps"`
	Raw       string   `json:"-"`
}

// Generator produces a textual completion for a prompt. Providers wrap
// their SDK clients behind this interface so the assessor stays
// provider-agnostic.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}
