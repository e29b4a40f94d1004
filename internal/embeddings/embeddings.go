package embeddings

import (
	"context"
	"errors"
	"math"
)

// ErrEmbed indicates an embedding request failed.
var ErrEmbed = errors.New("embedding failed")

// Embedder converts text into a fixed-length vector representation.
// Implementations must be deterministic for a fixed model configuration.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Normalize scales v to unit length in place. A zero vector is left as is.
func Normalize(v []float32) {
	var sum float32
	for _, x := range v {
		sum += x * x
	}
	if sum == 0 {
		return
	}
	inv := float32(1.0 / math.Sqrt(float64(sum)))
	for i := range v {
		v[i] *= inv
	}
}
