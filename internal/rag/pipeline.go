package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/docchat/cli/internal/embeddings"
	"github.com/docchat/cli/internal/index"
	"github.com/docchat/cli/internal/llm"
)

var (
	// ErrRetrieval indicates the query could not be matched against the index.
	ErrRetrieval = errors.New("retrieval failed")
	// ErrGeneration indicates the model returned nothing or the call failed.
	ErrGeneration = errors.New("generation failed")
)

// Pipeline answers questions by retrieving relevant segments and forwarding
// them with the question to the generator. It is stateless between calls;
// only the read-only index is shared.
type Pipeline struct {
	index     index.Index
	embedder  embeddings.Embedder
	generator llm.Generator
	topK      int
	timeout   time.Duration
}

// New creates an answer pipeline
func New(idx index.Index, embedder embeddings.Embedder, generator llm.Generator, topK int, timeout time.Duration) *Pipeline {
	if topK <= 0 {
		topK = 3
	}
	return &Pipeline{
		index:     idx,
		embedder:  embedder,
		generator: generator,
		topK:      topK,
		timeout:   timeout,
	}
}

// Answer retrieves context for the query, composes the prompt and obtains a
// completion. The returned duration is wall-clock time over all three steps
// and is set on error outcomes as well. No step is retried.
func (p *Pipeline) Answer(ctx context.Context, query string) (string, time.Duration, error) {
	start := time.Now()

	matches, err := p.retrieve(ctx, query)
	if err != nil {
		return "", time.Since(start), err
	}

	prompt := BuildPrompt(BuildContext(matches), query)

	gctx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		gctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	answer, err := p.generator.Complete(gctx, prompt)
	if err != nil {
		return "", time.Since(start), fmt.Errorf("%w: %v", ErrGeneration, err)
	}
	if strings.TrimSpace(answer) == "" {
		return "", time.Since(start), fmt.Errorf("%w: empty completion", ErrGeneration)
	}

	return answer, time.Since(start), nil
}

// retrieve embeds the query and looks up the top-K nearest segments
func (p *Pipeline) retrieve(ctx context.Context, query string) ([]index.Match, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: empty query", ErrRetrieval)
	}
	if p.index.Len() == 0 {
		return nil, fmt.Errorf("%w: index is empty", ErrRetrieval)
	}

	vec, err := p.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to embed query: %v", ErrRetrieval, err)
	}

	matches, err := p.index.Search(ctx, vec, p.topK)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRetrieval, err)
	}
	return matches, nil
}
