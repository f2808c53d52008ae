package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/budhadityarishidasgupta-lang/job-hunt/internal/logger"
	"go.uber.org/zap"
)

//go:embed prompt.md
var promptTemplate string

const (
	// maxExcerptRunes caps the resume and job excerpts embedded in the prompt.
	maxExcerptRunes = 5000
	// maxRawSummaryRunes caps the raw-response fallback summary.
	maxRawSummaryRunes = 400

	defaultMaxLogLength = 200

	// defaultPreferenceBlock seeds the preference section until the user
	// has recorded any feedback.
	defaultPreferenceBlock = "The user prefers senior HR, People Ops, HR Operations, and HR Transformation roles.\n"
)

// Assessor produces preference-aware fit assessments for a single job at a
// time. It is an optional enrichment path, invoked on demand, never as part
// of the bulk ranking pipeline.
type Assessor struct {
	generator Generator
	logger    *zap.Logger
	maxLogLen int
}

func NewAssessor(generator Generator, log *zap.Logger, maxLogLength int) *Assessor {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Assessor{
		generator: generator,
		logger:    log,
		maxLogLen: maxLogLength,
	}
}

// Assess combines the resume excerpt, the job excerpt and the feedback
// examples into one prompt and requests a strictly-JSON response.
//
// A generator failure (network, auth) propagates to the caller. A response
// that cannot be parsed as the expected JSON shape does not: it degrades
// into an Assessment with a nil score and a truncated raw-text summary.
func (a *Assessor) Assess(ctx context.Context, resumeText, jobText string, liked, disliked []string) (*Assessment, error) {
	if strings.TrimSpace(jobText) == "" {
		return nil, fmt.Errorf("job text is required")
	}

	prompt := buildPrompt(resumeText, jobText, preferenceBlock(liked, disliked))

	a.logger.Debug("assessment request",
		zap.String("model", a.generator.Model()),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.Truncate(prompt, a.maxLogLen)),
	)

	raw, err := a.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("assessment response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.Truncate(raw, a.maxLogLen)),
	)

	assessment, parsed := parseResponse(raw)
	if !parsed {
		a.logger.Warn("assessment response was not valid JSON, degrading",
			zap.String("response_preview", logger.Truncate(raw, a.maxLogLen)),
		)
	}

	return assessment, nil
}

func buildPrompt(resumeText, jobText, preferences string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "CV:\n{{CV}}\n\nJob Description:\n{{JOB}}\n\nPreferences:\n{{PREFERENCES}}\n\nJSON Response:"
	}

	prompt := strings.ReplaceAll(template, "{{CV}}", truncateRunes(resumeText, maxExcerptRunes))
	prompt = strings.ReplaceAll(prompt, "{{JOB}}", truncateRunes(jobText, maxExcerptRunes))
	prompt = strings.ReplaceAll(prompt, "{{PREFERENCES}}", preferences)

	return prompt
}

// preferenceBlock renders the liked/disliked examples, substituting a fixed
// seniority/domain bias when no feedback has been recorded yet.
func preferenceBlock(liked, disliked []string) string {
	var b strings.Builder

	if len(liked) > 0 {
		b.WriteString("Jobs the user LIKED:\n")
		for _, title := range liked {
			b.WriteString("- " + title + "\n")
		}
		b.WriteString("\n")
	}

	if len(disliked) > 0 {
		b.WriteString("Jobs the user DISLIKED:\n")
		for _, title := range disliked {
			b.WriteString("- " + title + "\n")
		}
		b.WriteString("\n")
	}

	if b.Len() == 0 {
		return defaultPreferenceBlock
	}

	return b.String()
}

func parseResponse(raw string) (*Assessment, bool) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return degraded(raw), false
	}

	return &Assessment{
		Score:     coerceFloatPtr(data["score"]),
		Summary:   coerceString(data["summary"]),
		Strengths: coerceStringSlice(data["strengths"]),
		Gaps:      coerceStringSlice(data["gaps"]),
		Raw:       raw,
	}, true
}

func degraded(raw string) *Assessment {
	return &Assessment{
		Score:     nil,
		Summary:   truncateRunes(raw, maxRawSummaryRunes),
		Strengths: []string{},
		Gaps:      []string{},
		Raw:       raw,
	}
}

// extractJSON strips markdown code fences that models like to wrap JSON in.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceFloatPtr(v any) *float64 {
	switch val := v.(type) {
	case float64:
		return &val
	case json.Number:
		f, err := val.Float64()
		if err != nil {
			return nil
		}
		return &f
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return nil
		}
		var f float64
		if _, err := fmt.Sscanf(trimmed, "%g", &f); err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}

func coerceString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func coerceStringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return []string{}
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
