package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks market-octopus/internal/vectorstore VectorStore

import "context"

// Filter narrows a vector query. Zero value means no filtering.
type Filter struct {
	// CategoryIn keeps only points whose category tag is in the set.
	CategoryIn []string
	// IDIn keeps only points whose document id is in the set. Used by the
	// two-hop foreign report retrieval to restrict content chunks to the
	// documents that matched at summary level.
	IDIn []string
}

// QueryResult represents a scored point from a vector query.
type QueryResult struct {
	PointID string
	Score   float32
	Meta    map[string]any
}

// VectorStore defines the vector index operations the retriever consumes.
// A namespace is one evidence partition (domestic analyst reports, foreign
// report summaries, foreign report content, institutional research).
type VectorStore interface {
	// Query performs a similarity search within a namespace.
	// A namespace with no matches returns an empty slice, not an error.
	Query(ctx context.Context, namespace string, vector []float32, topK int, filter Filter) ([]QueryResult, error)
}
