package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/docchat/cli/internal/documents"
	"github.com/docchat/cli/internal/index"
	"github.com/docchat/cli/internal/rag"
	"github.com/docchat/cli/internal/session"
)

type stubEmbedder struct{}

func (stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{1, 0}, nil
}

type stubGenerator struct {
	reply string
	err   error
}

func (g stubGenerator) Complete(ctx context.Context, prompt string) (string, error) {
	return g.reply, g.err
}

func newTestModel(t *testing.T, gen stubGenerator) (Model, *session.Log) {
	t.Helper()
	m := index.NewMemory()
	err := m.Load(context.Background(), []index.Entry{
		{Segment: documents.Segment{Index: 0, Page: 1, Text: "segment body"}, Embedding: []float32{1, 0}},
	})
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	log := session.NewLog()
	p := rag.New(m, stubEmbedder{}, gen, 3, 0)
	return New(p, log, "doc.pdf"), log
}

func TestAskRecordsFailedAttempt(t *testing.T) {
	m, log := newTestModel(t, stubGenerator{err: errors.New("backend unreachable")})

	msg := m.ask("What is X?")()
	ans, ok := msg.(answerMsg)
	if !ok {
		t.Fatalf("expected answerMsg, got %T", msg)
	}
	if !ans.failed {
		t.Error("expected failed outcome")
	}
	if log.Len() != 1 {
		t.Fatalf("failed attempt not logged: %d records", log.Len())
	}
	rec := log.Records()[0]
	if rec.Query != "What is X?" {
		t.Errorf("query not recorded: %q", rec.Query)
	}
	if !strings.HasPrefix(rec.Response, "Error: ") {
		t.Errorf("expected failure text as response, got %q", rec.Response)
	}
	if rec.RunTime <= 0 {
		t.Errorf("elapsed not recorded: %v", rec.RunTime)
	}
}

func TestAskRecordsEmptyCompletionAsFailure(t *testing.T) {
	m, log := newTestModel(t, stubGenerator{reply: "  "})

	msg := m.ask("q")()
	ans := msg.(answerMsg)
	if !ans.failed {
		t.Error("empty completion must be a failed outcome")
	}
	if log.Len() != 1 {
		t.Fatalf("attempt not logged: %d records", log.Len())
	}
	if !strings.HasPrefix(log.Records()[0].Response, "Error: ") {
		t.Errorf("expected failure text, got %q", log.Records()[0].Response)
	}
}

func TestAskRecordsSuccess(t *testing.T) {
	m, log := newTestModel(t, stubGenerator{reply: "X is Y."})

	msg := m.ask("What is X?")()
	ans := msg.(answerMsg)
	if ans.failed {
		t.Fatalf("unexpected failure: %+v", ans)
	}
	if ans.record.Response != "X is Y." {
		t.Errorf("unexpected response %q", ans.record.Response)
	}
	if log.Len() != 1 {
		t.Fatalf("attempt not logged: %d records", log.Len())
	}
	if log.Records()[0].RunTime != ans.record.RunTime {
		t.Error("logged record differs from returned record")
	}
}
