// Package retriever gathers evidence for a question round: scraped news
// scored against the query embedding, and analyst report chunks from the
// vector index. A failed source contributes zero items; a round that found
// nothing is a first-class empty result, not an error.
package retriever

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_retriever.go -package=mocks market-octopus/internal/retriever Embedder,Scorer

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"market-octopus/internal/contextutil"
	"market-octopus/internal/evidence"
	"market-octopus/internal/relevance"
	"market-octopus/internal/scrape"
	"market-octopus/internal/translate"
	"market-octopus/internal/websearch"
)

// Embedder embeds query texts for relevance scoring.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Scorer selects the best-matching chunk of an article for a query embedding.
type Scorer interface {
	ScoreAndSelect(ctx context.Context, queryEmbedding []float32, fullText string) (relevance.Selection, error)
}

// NewsOptions bounds the news branch.
type NewsOptions struct {
	SimilarityThreshold float64
	TopN                int
	Concurrency         int
	Window              time.Duration
	// PublisherCap limits how many candidate URLs of one publisher are
	// fetched per query, so a single outlet cannot crowd the round.
	PublisherCap int
}

// NewsRetriever runs the news branch: search, concurrent fetch and extract,
// relevance scoring, threshold filter, truncation. Domestic sources are
// searched with the queries as extracted; foreign sources with their English
// translations, each branch scored against its own language's embeddings.
type NewsRetriever struct {
	search     websearch.SearchAPI
	fetcher    scrape.Fetcher
	embedder   Embedder
	scorer     Scorer
	translator translate.Translator
	opts       NewsOptions
}

// NewNewsRetriever creates a news retriever.
func NewNewsRetriever(search websearch.SearchAPI, fetcher scrape.Fetcher, embedder Embedder, scorer Scorer, translator translate.Translator, opts NewsOptions) *NewsRetriever {
	if translator == nil {
		translator = translate.Noop{}
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 10
	}
	if opts.PublisherCap <= 0 {
		opts.PublisherCap = 3
	}
	return &NewsRetriever{
		search:     search,
		fetcher:    fetcher,
		embedder:   embedder,
		scorer:     scorer,
		translator: translator,
		opts:       opts,
	}
}

// searchBranch pairs a source set with the query texts in its language and
// the offset of those queries' embeddings in the batched embed call.
type searchBranch struct {
	sourceSet websearch.SourceSet
	queries   []string
	offset    int
}

// candidate is one search hit queued for fetch and scoring, tagged with the
// embedding of the query that produced it.
type candidate struct {
	item       websearch.Item
	embedIndex int
}

// Retrieve searches each query against the source sets the scope includes,
// fetches and scores the candidate articles, and returns the top matches
// across all queries and source sets, sorted descending by similarity.
// Search or fetch failures are logged and contribute zero items.
func (r *NewsRetriever) Retrieve(ctx context.Context, queries []string, scope evidence.Scope) ([]evidence.NewsMatch, error) {
	logger := contextutil.LoggerFromContext(ctx)
	if len(queries) == 0 {
		return nil, nil
	}

	branches, texts := r.buildBranches(ctx, queries, scope)
	embeddings, err := r.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed queries: %w", err)
	}
	if len(embeddings) != len(texts) {
		return nil, fmt.Errorf("expected %d query embeddings, got %d", len(texts), len(embeddings))
	}

	candidates := r.collectCandidates(ctx, branches)
	if len(candidates) == 0 {
		return nil, nil
	}

	var (
		mu      sync.Mutex
		matches []evidence.NewsMatch
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(r.opts.Concurrency)
	for _, cand := range candidates {
		group.Go(func() error {
			match, ok := r.scoreCandidate(groupCtx, cand, embeddings[cand.embedIndex])
			if !ok {
				return nil
			}
			mu.Lock()
			matches = append(matches, match)
			mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	filtered := matches[:0]
	for _, m := range matches {
		if m.Similarity >= r.opts.SimilarityThreshold {
			filtered = append(filtered, m)
		}
	}
	evidence.SortNews(filtered)
	filtered = evidence.TruncateNews(filtered, r.opts.TopN)

	logger.InfoContext(ctx, "news retrieval completed",
		"scope", string(scope), "candidates", len(candidates), "matches", len(filtered))
	return filtered, nil
}

// buildBranches maps the scope onto per-language search branches and returns
// the concatenated texts to embed. Foreign sources search with the English
// translations; a failed translation falls back to the original queries.
func (r *NewsRetriever) buildBranches(ctx context.Context, queries []string, scope evidence.Scope) ([]searchBranch, []string) {
	logger := contextutil.LoggerFromContext(ctx)

	var branches []searchBranch
	var texts []string
	if scope.IncludesDomestic() {
		branches = append(branches, searchBranch{sourceSet: websearch.SourceSetDomestic, queries: queries, offset: len(texts)})
		texts = append(texts, queries...)
	}
	if scope.IncludesForeign() {
		foreignQueries := queries
		translated, err := r.translator.Translate(ctx, queries, "en")
		if err != nil || len(translated) != len(queries) {
			logger.WarnContext(ctx, "query translation failed, searching foreign sources with original queries", "error", err)
		} else {
			foreignQueries = translated
		}
		branches = append(branches, searchBranch{sourceSet: websearch.SourceSetForeign, queries: foreignQueries, offset: len(texts)})
		texts = append(texts, foreignQueries...)
	}
	return branches, texts
}

// collectCandidates runs every branch query concurrently and flattens the
// hits, deduplicating by URL and capping per-publisher counts.
func (r *NewsRetriever) collectCandidates(ctx context.Context, branches []searchBranch) []candidate {
	logger := contextutil.LoggerFromContext(ctx)

	responses := make([][]*websearch.Response, len(branches))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(r.opts.Concurrency)
	for bi, branch := range branches {
		responses[bi] = make([]*websearch.Response, len(branch.queries))
		for qi, query := range branch.queries {
			group.Go(func() error {
				resp, err := r.searchWithCorrection(groupCtx, query, branch.sourceSet)
				if err != nil {
					logger.WarnContext(groupCtx, "news search failed",
						"query", query, "source_set", string(branch.sourceSet), "error", err)
					return nil
				}
				responses[bi][qi] = resp
				return nil
			})
		}
	}
	_ = group.Wait()

	// Flatten in branch and query order so URL dedup and the publisher cap
	// stay deterministic regardless of search completion order.
	seenURL := make(map[string]bool)
	perPublisher := make(map[string]int)
	var candidates []candidate
	for bi, branch := range branches {
		for qi := range branch.queries {
			resp := responses[bi][qi]
			if resp == nil {
				continue
			}
			for _, item := range resp.Items {
				if seenURL[item.URL] {
					continue
				}
				seenURL[item.URL] = true
				publisher := scrape.Publisher(item.URL)
				if publisher != "" {
					if perPublisher[publisher] >= r.opts.PublisherCap {
						continue
					}
					perPublisher[publisher]++
				}
				candidates = append(candidates, candidate{item: item, embedIndex: branch.offset + qi})
			}
		}
	}
	return candidates
}

// searchWithCorrection retries a zero-result query once using the spelling
// correction the search API offers.
func (r *NewsRetriever) searchWithCorrection(ctx context.Context, query string, sourceSet websearch.SourceSet) (*websearch.Response, error) {
	resp, err := r.search.Search(ctx, query, sourceSet, r.opts.Window)
	if err != nil {
		return nil, err
	}
	if resp.TotalResults == 0 && resp.CorrectedQuery != "" {
		contextutil.LoggerFromContext(ctx).DebugContext(ctx, "retrying with corrected query",
			"query", query, "corrected", resp.CorrectedQuery)
		return r.search.Search(ctx, resp.CorrectedQuery, sourceSet, r.opts.Window)
	}
	return resp, nil
}

// scoreCandidate fetches one page, extracts the article text, and scores it.
// Any failure or empty extraction drops the candidate.
func (r *NewsRetriever) scoreCandidate(ctx context.Context, cand candidate, queryEmbedding []float32) (evidence.NewsMatch, bool) {
	logger := contextutil.LoggerFromContext(ctx)

	html, err := r.fetcher.Fetch(ctx, cand.item.URL)
	if err != nil {
		logger.WarnContext(ctx, "failed to fetch article", "url", cand.item.URL, "error", err)
		return evidence.NewsMatch{}, false
	}

	text := scrape.ArticleText(cand.item.URL, html)
	if text == "" {
		logger.DebugContext(ctx, "no article text extracted", "url", cand.item.URL)
		return evidence.NewsMatch{}, false
	}

	selection, err := r.scorer.ScoreAndSelect(ctx, queryEmbedding, text)
	if err != nil {
		logger.WarnContext(ctx, "failed to score article", "url", cand.item.URL, "error", err)
		return evidence.NewsMatch{}, false
	}

	publisher := scrape.Publisher(cand.item.URL)
	if publisher == "" {
		if u, err := url.Parse(cand.item.URL); err == nil {
			publisher = u.Hostname()
		}
	}
	return evidence.NewsMatch{
		Title:            cand.item.Title,
		Publisher:        publisher,
		URL:              cand.item.URL,
		PublishedAt:      cand.item.PublishedAt,
		Similarity:       selection.Score,
		RelatedParagraph: selection.ChunkText,
		ChunkIndex:       selection.ChunkIndex,
	}, true
}
