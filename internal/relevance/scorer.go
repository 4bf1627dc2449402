// Package relevance scores article text against a query embedding and picks
// the single best-matching paragraph. Embeddings must come pre-normalized
// from the embedding service so the dot product approximates cosine
// similarity; the scorer does not re-normalize.
package relevance

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_embedder.go -package=mocks market-octopus/internal/relevance Embedder

import (
	"context"
	"fmt"
)

// Embedder is the embedding service interface the scorer consumes.
type Embedder interface {
	// EmbedTexts returns one vector per input text.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Selection is the best-matching chunk of a scored text.
type Selection struct {
	Score      float64
	ChunkIndex int
	ChunkText  string
}

// Scorer selects the most relevant chunk of a document for a query embedding.
// Safe for concurrent use as long as the embedder is.
type Scorer struct {
	embedder     Embedder
	chunkSize    int
	chunkOverlap int
}

// NewScorer creates a scorer splitting documents into chunkSize-character
// chunks with chunkOverlap carry-over.
func NewScorer(embedder Embedder, chunkSize, chunkOverlap int) *Scorer {
	return &Scorer{
		embedder:     embedder,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}
}

// ScoreAndSelect splits fullText into chunks, embeds them in one batched
// call, and returns the chunk with the highest dot product against
// queryEmbedding. Ties keep the first chunk encountered. Pure given fixed
// embedder output, so repeated calls yield identical selections.
func (s *Scorer) ScoreAndSelect(ctx context.Context, queryEmbedding []float32, fullText string) (Selection, error) {
	chunks := SplitText(fullText, s.chunkSize, s.chunkOverlap)
	if len(chunks) == 0 {
		return Selection{}, fmt.Errorf("no chunks produced from text")
	}

	embeddings, err := s.embedder.EmbedTexts(ctx, chunks)
	if err != nil {
		return Selection{}, fmt.Errorf("failed to embed chunks: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return Selection{}, fmt.Errorf("expected %d embeddings, got %d", len(chunks), len(embeddings))
	}

	best := Selection{ChunkIndex: -1}
	for i, embedding := range embeddings {
		score := dot(queryEmbedding, embedding)
		if best.ChunkIndex < 0 || score > best.Score {
			best = Selection{Score: score, ChunkIndex: i, ChunkText: chunks[i]}
		}
	}
	return best, nil
}

// dot computes the dot product of two vectors. Mismatched lengths score the
// overlapping prefix only; the embeddings client validates sizes upstream.
func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
