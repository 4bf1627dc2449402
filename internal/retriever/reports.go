package retriever

import (
	"context"
	"fmt"
	"time"

	"market-octopus/internal/contextutil"
	"market-octopus/internal/evidence"
	"market-octopus/internal/intent"
	"market-octopus/internal/vectorstore"
)

// ReportNamespaces names the vector index partitions the report branch
// queries. Foreign analyst reports are split across two namespaces: summaries
// gate which documents are relevant, content holds the chunks that get cited.
type ReportNamespaces struct {
	DomesticAnalyst string
	ForeignSummary  string
	ForeignContent  string
	Institutional   string
}

// ReportOptions bounds the report branch.
type ReportOptions struct {
	Namespaces ReportNamespaces
	// ScoreThreshold is the floor for content matches.
	ScoreThreshold float64
	// SummaryThreshold gates the foreign summary hop.
	SummaryThreshold float64
	TopN             int
	// QueryTopK is the per-namespace raw query size, before filtering.
	QueryTopK int
}

// ReportQuery is one report retrieval round.
type ReportQuery struct {
	Question string
	Intent   intent.Intent
	Scope    evidence.Scope
	// OrderKey decides the final sort. The caller chooses: relevance rounds
	// want score, per-idea rounds want recency.
	OrderKey evidence.OrderKey
	// ExcludeKeys drops documents already cited in earlier rounds.
	ExcludeKeys map[string]bool
}

// ReportRetriever runs the report branch against the vector index.
type ReportRetriever struct {
	store    vectorstore.VectorStore
	embedder Embedder
	opts     ReportOptions
}

// NewReportRetriever creates a report retriever.
func NewReportRetriever(store vectorstore.VectorStore, embedder Embedder, opts ReportOptions) *ReportRetriever {
	if opts.QueryTopK <= 0 {
		opts.QueryTopK = 10
	}
	return &ReportRetriever{store: store, embedder: embedder, opts: opts}
}

// Retrieve queries every namespace the scope includes, applies the score
// threshold, deduplicates by document identity, and returns the top matches
// sorted by the caller-chosen key. A namespace that fails to answer
// contributes zero items.
func (r *ReportRetriever) Retrieve(ctx context.Context, q ReportQuery) ([]evidence.ReportMatch, error) {
	logger := contextutil.LoggerFromContext(ctx)

	embeddings, err := r.embedder.EmbedTexts(ctx, []string{q.Question})
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}
	if len(embeddings) != 1 {
		return nil, fmt.Errorf("expected 1 question embedding, got %d", len(embeddings))
	}
	vector := embeddings[0]

	var matches []evidence.ReportMatch
	if q.Scope.IncludesDomestic() {
		domestic, err := r.queryNamespace(ctx, r.opts.Namespaces.DomesticAnalyst, vector,
			intent.SearchSpace(q.Intent, intent.DomainDomesticAnalyst), nil)
		if err != nil {
			logger.WarnContext(ctx, "domestic report query failed", "error", err)
		} else {
			matches = append(matches, domestic...)
		}
	}
	if q.Scope.IncludesForeign() {
		foreign, err := r.retrieveForeign(ctx, vector, q.Intent)
		if err != nil {
			logger.WarnContext(ctx, "foreign report query failed", "error", err)
		} else {
			matches = append(matches, foreign...)
		}
	}
	// Institutional research rides with the foreign branch.
	if q.Scope.IncludesForeign() && r.opts.Namespaces.Institutional != "" {
		institutional, err := r.queryNamespace(ctx, r.opts.Namespaces.Institutional, vector, nil, nil)
		if err != nil {
			logger.WarnContext(ctx, "institutional report query failed", "error", err)
		} else {
			matches = append(matches, institutional...)
		}
	}

	filtered := matches[:0]
	for _, m := range matches {
		if m.Score < r.opts.ScoreThreshold {
			continue
		}
		if q.ExcludeKeys[m.IdentityKey()] {
			continue
		}
		filtered = append(filtered, m)
	}

	evidence.SortReports(filtered, q.OrderKey)
	filtered = evidence.DedupReports(filtered)
	filtered = evidence.TruncateReports(filtered, r.opts.TopN)

	logger.InfoContext(ctx, "report retrieval completed",
		"scope", string(q.Scope), "order", string(q.OrderKey), "matches", len(filtered))
	return filtered, nil
}

// retrieveForeign is the two-hop foreign branch: summaries gate which
// documents qualify, then content chunks are queried restricted to those
// document ids.
func (r *ReportRetriever) retrieveForeign(ctx context.Context, vector []float32, it intent.Intent) ([]evidence.ReportMatch, error) {
	categories := intent.SearchSpace(it, intent.DomainForeignAnalyst)
	summaries, err := r.queryNamespace(ctx, r.opts.Namespaces.ForeignSummary, vector, categories, nil)
	if err != nil {
		return nil, fmt.Errorf("summary hop: %w", err)
	}

	var ids []string
	seen := make(map[string]bool)
	for _, s := range summaries {
		if s.Score < r.opts.SummaryThreshold {
			continue
		}
		key := s.IdentityKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		ids = append(ids, key)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	content, err := r.queryNamespace(ctx, r.opts.Namespaces.ForeignContent, vector, nil, ids)
	if err != nil {
		return nil, fmt.Errorf("content hop: %w", err)
	}

	// Summaries ride along on the content matches for prompt building.
	summaryByKey := make(map[string]string, len(summaries))
	for _, s := range summaries {
		if summaryByKey[s.IdentityKey()] == "" {
			summaryByKey[s.IdentityKey()] = s.Content
		}
	}
	for i := range content {
		content[i].Summary = summaryByKey[content[i].IdentityKey()]
	}
	return content, nil
}

func (r *ReportRetriever) queryNamespace(ctx context.Context, namespace string, vector []float32, categories, ids []string) ([]evidence.ReportMatch, error) {
	results, err := r.store.Query(ctx, namespace, vector, r.opts.QueryTopK, vectorstore.Filter{
		CategoryIn: categories,
		IDIn:       ids,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query namespace %s: %w", namespace, err)
	}

	matches := make([]evidence.ReportMatch, 0, len(results))
	for _, res := range results {
		matches = append(matches, evidence.ReportMatch{
			ID:          res.PointID,
			DocumentID:  metaString(res.Meta, "id"),
			Namespace:   namespace,
			Score:       float64(res.Score),
			Title:       metaString(res.Meta, "title"),
			Publisher:   metaString(res.Meta, "publisher"),
			PublishedAt: metaTime(res.Meta, "published_at"),
			Summary:     metaString(res.Meta, "summary"),
			Content:     metaString(res.Meta, "content"),
			SourceURL:   metaString(res.Meta, "source_url"),
			ChunkIndex:  metaInt(res.Meta, "chunk_index"),
		})
	}
	return matches, nil
}

func metaString(meta map[string]any, key string) string {
	if v, ok := meta[key].(string); ok {
		return v
	}
	return ""
}

func metaInt(meta map[string]any, key string) int {
	switch v := meta[key].(type) {
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

func metaTime(meta map[string]any, key string) time.Time {
	raw := metaString(meta, key)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
