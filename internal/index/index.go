package index

import (
	"context"
	"errors"
	"fmt"

	"github.com/docchat/cli/internal/documents"
	"github.com/docchat/cli/internal/embeddings"
)

// ErrEmbed indicates a segment could not be embedded during build.
var ErrEmbed = errors.New("index embedding failed")

// Entry pairs a segment with its embedding vector.
type Entry struct {
	Segment   documents.Segment
	Embedding []float32
}

// Match is a retrieved segment with its similarity score.
type Match struct {
	Segment documents.Segment
	Score   float32
}

// Index supports nearest-neighbor lookup over segment embeddings.
// Implementations are read-only after Load and safe for concurrent reads.
type Index interface {
	Len() int
	Search(ctx context.Context, vector []float32, k int) ([]Match, error)
}

// Writer receives the complete entry set exactly once, at build time.
type Writer interface {
	Load(ctx context.Context, entries []Entry) error
}

// Build embeds every segment and loads the pairs into dst. The build is
// all-or-nothing: if any embedding fails, dst is left untouched.
func Build(ctx context.Context, segments []documents.Segment, embedder embeddings.Embedder, dst Writer) error {
	entries := make([]Entry, 0, len(segments))
	for _, seg := range segments {
		vec, err := embedder.Embed(ctx, seg.Text)
		if err != nil {
			return fmt.Errorf("%w: segment %d (page %d): %v", ErrEmbed, seg.Index, seg.Page, err)
		}
		entries = append(entries, Entry{Segment: seg, Embedding: vec})
	}
	return dst.Load(ctx, entries)
}
