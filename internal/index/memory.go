package index

import (
	"context"
	"errors"
	"math"
	"sort"
)

// Memory is an in-memory index using brute-force cosine similarity.
// It is immutable after Load; reads need no locking.
type Memory struct {
	entries []Entry
}

// NewMemory creates an empty in-memory index
func NewMemory() *Memory { return &Memory{} }

// Load stores the entry set. Called exactly once, before any search.
func (m *Memory) Load(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return errors.New("no entries to load")
	}
	dim := len(entries[0].Embedding)
	for _, e := range entries {
		if len(e.Embedding) != dim {
			return errors.New("vector dimension mismatch")
		}
	}
	m.entries = entries
	return nil
}

// Len returns the number of indexed segments
func (m *Memory) Len() int { return len(m.entries) }

// Search returns the top-k entries by cosine similarity, descending.
// Ties keep insertion order.
func (m *Memory) Search(ctx context.Context, vector []float32, k int) ([]Match, error) {
	if k <= 0 {
		k = 3
	}
	scores := make([]float32, len(m.entries))
	for i := range m.entries {
		scores[i] = cosineSimilarity(m.entries[i].Embedding, vector)
	}

	idxs := make([]int, len(m.entries))
	for i := range idxs {
		idxs[i] = i
	}
	sort.SliceStable(idxs, func(a, b int) bool {
		return scores[idxs[a]] > scores[idxs[b]]
	})

	if k > len(idxs) {
		k = len(idxs)
	}
	matches := make([]Match, 0, k)
	for i := 0; i < k; i++ {
		j := idxs[i]
		matches = append(matches, Match{Segment: m.entries[j].Segment, Score: scores[j]})
	}
	return matches, nil
}

// cosineSimilarity computes the cosine similarity between two vectors
func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}
	var dotProduct, normA, normB float32
	for i := range a {
		dotProduct += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dotProduct / (float32(math.Sqrt(float64(normA))) * float32(math.Sqrt(float64(normB))))
}
