package documents

import (
	"strings"
	"testing"
)

func TestSplitTextRespectsChunkSize(t *testing.T) {
	text := strings.Repeat("word ", 200)
	chunks := splitText(text, 100, 0)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if len(c) > 100+len("word") {
			t.Errorf("chunk %d exceeds size: %d chars", i, len(c))
		}
	}
}

func TestSplitTextOverlap(t *testing.T) {
	words := make([]string, 0, 60)
	for i := 0; i < 60; i++ {
		words = append(words, "w"+strings.Repeat("x", 8))
	}
	chunks := splitText(strings.Join(words, " "), 100, 20)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	// last words of chunk 0 must open chunk 1
	first := strings.Fields(chunks[0])
	second := strings.Fields(chunks[1])
	tail := first[len(first)-1]
	if second[0] != tail {
		t.Errorf("expected overlap word %q at start of next chunk, got %q", tail, second[0])
	}
}

func TestSplitTextEmpty(t *testing.T) {
	if got := splitText("   \n\t ", 100, 10); got != nil {
		t.Errorf("expected nil for blank text, got %v", got)
	}
}

func TestSplitTextSingleChunk(t *testing.T) {
	chunks := splitText("short text", 512, 10)
	if len(chunks) != 1 || chunks[0] != "short text" {
		t.Errorf("unexpected chunks: %v", chunks)
	}
}
