package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/docchat/cli/internal/documents"
	"github.com/docchat/cli/internal/index"
)

type fakeEmbedder struct{ err error }

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	// deterministic: vector derived from text length
	return []float32{float32(len(text)), 1, 0}, nil
}

type fakeGenerator struct {
	reply   string
	err     error
	prompts []string
}

func (f *fakeGenerator) Complete(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func buildTestIndex(t *testing.T, n int) *index.Memory {
	t.Helper()
	m := index.NewMemory()
	entries := make([]index.Entry, n)
	for i := range entries {
		entries[i] = index.Entry{
			Segment:   documents.Segment{Index: i, Page: i + 1, Text: fmt.Sprintf("segment %d body", i)},
			Embedding: []float32{float32(i), 1, 0},
		}
	}
	if err := m.Load(context.Background(), entries); err != nil {
		t.Fatalf("Load error: %v", err)
	}
	return m
}

func TestAnswerHappyPath(t *testing.T) {
	idx := buildTestIndex(t, 10)
	gen := &fakeGenerator{reply: "X is Y."}
	p := New(idx, &fakeEmbedder{}, gen, 3, 0)

	answer, elapsed, err := p.Answer(context.Background(), "What is X?")
	if err != nil {
		t.Fatalf("Answer error: %v", err)
	}
	if answer != "X is Y." {
		t.Errorf("unexpected answer %q", answer)
	}
	if elapsed <= 0 {
		t.Errorf("expected positive elapsed time, got %v", elapsed)
	}
	if len(gen.prompts) != 1 {
		t.Fatalf("expected exactly one generator call, got %d", len(gen.prompts))
	}
	prompt := gen.prompts[0]
	if !strings.Contains(prompt, "What is X?") {
		t.Error("prompt missing the literal query")
	}
	// top-3 retrieved context must all appear
	count := 0
	for i := 0; i < 10; i++ {
		if strings.Contains(prompt, fmt.Sprintf("segment %d body", i)) {
			count++
		}
	}
	if count != 3 {
		t.Errorf("expected 3 retrieved segments in prompt, found %d", count)
	}
}

func TestAnswerPromptIsDeterministic(t *testing.T) {
	idx := buildTestIndex(t, 5)
	gen := &fakeGenerator{reply: "ok"}
	p := New(idx, &fakeEmbedder{}, gen, 3, 0)

	for i := 0; i < 2; i++ {
		if _, _, err := p.Answer(context.Background(), "same question"); err != nil {
			t.Fatalf("Answer error: %v", err)
		}
	}
	if gen.prompts[0] != gen.prompts[1] {
		t.Error("identical queries produced different prompts")
	}
}

func TestAnswerContextBoundedByIndexSize(t *testing.T) {
	idx := buildTestIndex(t, 2)
	gen := &fakeGenerator{reply: "ok"}
	p := New(idx, &fakeEmbedder{}, gen, 3, 0)

	if _, _, err := p.Answer(context.Background(), "q"); err != nil {
		t.Fatalf("Answer error: %v", err)
	}
	prompt := gen.prompts[0]
	for i := 0; i < 2; i++ {
		if !strings.Contains(prompt, fmt.Sprintf("segment %d body", i)) {
			t.Errorf("segment %d missing from prompt", i)
		}
	}
}

func TestAnswerEmptyIndex(t *testing.T) {
	p := New(index.NewMemory(), &fakeEmbedder{}, &fakeGenerator{reply: "ok"}, 3, 0)
	_, _, err := p.Answer(context.Background(), "q")
	if !errors.Is(err, ErrRetrieval) {
		t.Fatalf("expected ErrRetrieval, got %v", err)
	}
}

func TestAnswerEmptyQuery(t *testing.T) {
	p := New(buildTestIndex(t, 3), &fakeEmbedder{}, &fakeGenerator{reply: "ok"}, 3, 0)
	_, _, err := p.Answer(context.Background(), "   ")
	if !errors.Is(err, ErrRetrieval) {
		t.Fatalf("expected ErrRetrieval, got %v", err)
	}
}

func TestAnswerQueryEmbeddingFailure(t *testing.T) {
	p := New(buildTestIndex(t, 3), &fakeEmbedder{err: errors.New("down")}, &fakeGenerator{}, 3, 0)
	_, _, err := p.Answer(context.Background(), "q")
	if !errors.Is(err, ErrRetrieval) {
		t.Fatalf("expected ErrRetrieval, got %v", err)
	}
}

func TestAnswerGeneratorFailure(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("backend unreachable")}
	p := New(buildTestIndex(t, 3), &fakeEmbedder{}, gen, 3, 0)
	_, elapsed, err := p.Answer(context.Background(), "q")
	if !errors.Is(err, ErrGeneration) {
		t.Fatalf("expected ErrGeneration, got %v", err)
	}
	if elapsed <= 0 {
		t.Errorf("elapsed not recorded on failure: %v", elapsed)
	}
	if len(gen.prompts) != 1 {
		t.Errorf("failed call retried: %d generator calls", len(gen.prompts))
	}
}

func TestAnswerEmptyCompletion(t *testing.T) {
	p := New(buildTestIndex(t, 3), &fakeEmbedder{}, &fakeGenerator{reply: "  "}, 3, 0)
	_, _, err := p.Answer(context.Background(), "q")
	if !errors.Is(err, ErrGeneration) {
		t.Fatalf("expected ErrGeneration for empty completion, got %v", err)
	}
}

type slowGenerator struct{}

func (slowGenerator) Complete(ctx context.Context, prompt string) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(5 * time.Second):
		return "too late", nil
	}
}

func TestAnswerGeneratorTimeout(t *testing.T) {
	p := New(buildTestIndex(t, 3), &fakeEmbedder{}, slowGenerator{}, 3, 20*time.Millisecond)
	_, _, err := p.Answer(context.Background(), "q")
	if !errors.Is(err, ErrGeneration) {
		t.Fatalf("expected ErrGeneration on timeout, got %v", err)
	}
}
