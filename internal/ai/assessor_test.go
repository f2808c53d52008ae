package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
)

type stubGenerator struct {
	response   string
	err        error
	lastPrompt string
}

func (s *stubGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubGenerator) Model() string { return "stub-model" }

func TestAssessParsesValidResponse(t *testing.T) {
	stub := &stubGenerator{response: `{"score": 82.5, "summary": "Strong fit", "strengths": ["HR leadership"], "gaps": ["No SaaS experience"]}`}
	assessor := NewAssessor(stub, zap.NewNop(), 0)

	assessment, err := assessor.Assess(context.Background(), "cv text", "job text", nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if assessment.Score == nil || *assessment.Score != 82.5 {
		t.Fatalf("unexpected score: %v", assessment.Score)
	}
	if assessment.Summary != "Strong fit" {
		t.Fatalf("unexpected summary: %q", assessment.Summary)
	}
	if len(assessment.Strengths) != 1 || assessment.Strengths[0] != "HR leadership" {
		t.Fatalf("unexpected strengths: %v", assessment.Strengths)
	}
	if len(assessment.Gaps) != 1 || assessment.Gaps[0] != "No SaaS experience" {
		t.Fatalf("unexpected gaps: %v", assessment.Gaps)
	}
}

func TestAssessDegradesOnUnparsableResponse(t *testing.T) {
	raw := "I think this candidate is a great fit because " + strings.Repeat("reasons ", 100)
	stub := &stubGenerator{response: raw}
	assessor := NewAssessor(stub, zap.NewNop(), 0)

	assessment, err := assessor.Assess(context.Background(), "cv", "job", nil, nil)
	if err != nil {
		t.Fatalf("parse failure must not surface as error, got: %v", err)
	}

	if assessment.Score != nil {
		t.Fatalf("expected absent score, got %v", *assessment.Score)
	}
	if len([]rune(assessment.Summary)) > maxRawSummaryRunes {
		t.Fatalf("summary not truncated: %d runes", len([]rune(assessment.Summary)))
	}
	if !strings.HasPrefix(raw, assessment.Summary) {
		t.Fatalf("summary is not a prefix of the raw response")
	}
	if len(assessment.Strengths) != 0 || len(assessment.Gaps) != 0 {
		t.Fatalf("expected empty strengths and gaps, got %v / %v", assessment.Strengths, assessment.Gaps)
	}
}

func TestAssessHandlesCodeFencedJSON(t *testing.T) {
	stub := &stubGenerator{response: "```json\n{\"score\": \"64\", \"summary\": \"ok\", \"strengths\": [], \"gaps\": []}\n```"}
	assessor := NewAssessor(stub, zap.NewNop(), 0)

	assessment, err := assessor.Assess(context.Background(), "cv", "job", nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if assessment.Score == nil || *assessment.Score != 64 {
		t.Fatalf("unexpected score: %v", assessment.Score)
	}
}

func TestAssessGeneratorErrorPropagates(t *testing.T) {
	stub := &stubGenerator{err: errors.New("api key invalid")}
	assessor := NewAssessor(stub, zap.NewNop(), 0)

	if _, err := assessor.Assess(context.Background(), "cv", "job", nil, nil); err == nil {
		t.Fatalf("expected generator error to propagate")
	}
}

func TestAssessPromptIncludesFeedbackExamples(t *testing.T) {
	stub := &stubGenerator{response: `{"score": 50, "summary": "", "strengths": [], "gaps": []}`}
	assessor := NewAssessor(stub, zap.NewNop(), 0)

	liked := []string{"Head of HR (arbeitnow)"}
	disliked := []string{"Backend Engineer (rss)"}

	if _, err := assessor.Assess(context.Background(), "cv", "job", liked, disliked); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(stub.lastPrompt, "Jobs the user LIKED:\n- Head of HR (arbeitnow)") {
		t.Fatalf("liked examples missing from prompt:\n%s", stub.lastPrompt)
	}
	if !strings.Contains(stub.lastPrompt, "Jobs the user DISLIKED:\n- Backend Engineer (rss)") {
		t.Fatalf("disliked examples missing from prompt:\n%s", stub.lastPrompt)
	}
}

func TestAssessPromptDefaultPreferenceBlock(t *testing.T) {
	stub := &stubGenerator{response: `{"score": 50, "summary": "", "strengths": [], "gaps": []}`}
	assessor := NewAssessor(stub, zap.NewNop(), 0)

	if _, err := assessor.Assess(context.Background(), "cv", "job", nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(stub.lastPrompt, "The user prefers senior HR") {
		t.Fatalf("default preference block missing from prompt:\n%s", stub.lastPrompt)
	}
}

func TestAssessTruncatesLongExcerpts(t *testing.T) {
	stub := &stubGenerator{response: `{"score": 10, "summary": "", "strengths": [], "gaps": []}`}
	assessor := NewAssessor(stub, zap.NewNop(), 0)

	longCV := strings.Repeat("x", maxExcerptRunes+500)

	if _, err := assessor.Assess(context.Background(), longCV, "job", nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if strings.Contains(stub.lastPrompt, strings.Repeat("x", maxExcerptRunes+1)) {
		t.Fatalf("resume excerpt was not truncated")
	}
}

func TestAssessRequiresJobText(t *testing.T) {
	assessor := NewAssessor(&stubGenerator{}, zap.NewNop(), 0)

	if _, err := assessor.Assess(context.Background(), "cv", "  ", nil, nil); err == nil {
		t.Fatalf("expected error for blank job text")
	}
}
