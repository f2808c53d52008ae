package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
	"go.uber.org/zap"
)

// Embedder encodes text via an OpenAI-compatible embedding endpoint. It is
// constructed once at process start and shared across pipeline invocations;
// the underlying client is safe for concurrent encode calls.
type Embedder struct {
	embedder embeddings.Embedder
	logger   *zap.Logger
}

// NewEmbedder creates a new Embedder. An empty apiKey falls back to "none"
// for local OpenAI-compatible services that do not check authentication.
func NewEmbedder(apiKey, baseURL, model string, log *zap.Logger) (*Embedder, error) {
	if apiKey = strings.TrimSpace(apiKey); apiKey == "" {
		apiKey = "none"
	}
	if model = strings.TrimSpace(model); model == "" {
		return nil, errors.New("embedding model is required")
	}

	opts := []openai.Option{
		openai.WithToken(apiKey),
		openai.WithEmbeddingModel(model),
	}
	if baseURL = strings.TrimSpace(baseURL); baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create embedding client: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(client, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}

	return &Embedder{embedder: embedder, logger: log}, nil
}

// EmbedText generates a vector embedding for a single text string.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.embedder.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("embed text: %w", err)
	}

	if len(vectors) == 0 {
		e.logger.Warn("embedding endpoint returned empty result")
		return []float32{}, nil
	}

	return vectors[0], nil
}
