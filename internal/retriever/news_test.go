package retriever

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"market-octopus/internal/evidence"
	"market-octopus/internal/relevance"
	retrievermocks "market-octopus/internal/retriever/mocks"
	scrapemocks "market-octopus/internal/scrape/mocks"
	"market-octopus/internal/translate"
	translatemocks "market-octopus/internal/translate/mocks"
	"market-octopus/internal/websearch"
	searchmocks "market-octopus/internal/websearch/mocks"
)

const articlePage = `<html><body><div id="articletxt">본문 내용입니다. 금리 전망에 대한 기사.</div></body></html>`

const foreignArticlePage = `<html><body><div class="caas-body"><p>Fed officials signaled rate cuts later this year.</p></div></body></html>`

func newsOptions() NewsOptions {
	return NewsOptions{
		SimilarityThreshold: 0.45,
		TopN:                3,
		Concurrency:         4,
		Window:              7 * 24 * time.Hour,
		PublisherCap:        3,
	}
}

func TestNewsRetrieve_FiltersBelowThreshold(t *testing.T) {
	ctrl := gomock.NewController(t)
	search := searchmocks.NewMockSearchAPI(ctrl)
	fetcher := scrapemocks.NewMockFetcher(ctrl)
	embedder := retrievermocks.NewMockEmbedder(ctrl)
	scorer := retrievermocks.NewMockScorer(ctrl)

	embedder.EXPECT().EmbedTexts(gomock.Any(), []string{"금리 전망"}).
		Return([][]float32{{1, 0}}, nil)
	search.EXPECT().Search(gomock.Any(), "금리 전망", websearch.SourceSetDomestic, gomock.Any()).
		Return(&websearch.Response{
			TotalResults: 2,
			Items: []websearch.Item{
				{Title: "강한 연관 기사", URL: "https://www.hankyung.com/article/1"},
				{Title: "약한 연관 기사", URL: "https://www.hankyung.com/article/2"},
			},
		}, nil)
	fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(articlePage, nil).Times(2)
	scorer.EXPECT().ScoreAndSelect(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, q []float32, text string) (relevance.Selection, error) {
			return relevance.Selection{Score: 0.8, ChunkIndex: 0, ChunkText: text}, nil
		})
	scorer.EXPECT().ScoreAndSelect(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(relevance.Selection{Score: 0.2, ChunkIndex: 0}, nil)

	r := NewNewsRetriever(search, fetcher, embedder, scorer, translate.Noop{}, newsOptions())
	matches, err := r.Retrieve(context.Background(), []string{"금리 전망"}, evidence.ScopeDomestic)
	if err != nil {
		t.Fatalf("Retrieve() unexpected error: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("Retrieve() returned %d matches, want 1 above threshold", len(matches))
	}
	if matches[0].Similarity != 0.8 {
		t.Errorf("Similarity = %v, want 0.8", matches[0].Similarity)
	}
	if matches[0].Publisher != "한국경제" {
		t.Errorf("Publisher = %q, want known-publisher display name", matches[0].Publisher)
	}
}

func TestNewsRetrieve_SpellingCorrectionRetry(t *testing.T) {
	ctrl := gomock.NewController(t)
	search := searchmocks.NewMockSearchAPI(ctrl)
	fetcher := scrapemocks.NewMockFetcher(ctrl)
	embedder := retrievermocks.NewMockEmbedder(ctrl)
	scorer := retrievermocks.NewMockScorer(ctrl)

	embedder.EXPECT().EmbedTexts(gomock.Any(), gomock.Any()).Return([][]float32{{1}}, nil)
	gomock.InOrder(
		search.EXPECT().Search(gomock.Any(), "금리 전먕", websearch.SourceSetDomestic, gomock.Any()).
			Return(&websearch.Response{TotalResults: 0, CorrectedQuery: "금리 전망"}, nil),
		search.EXPECT().Search(gomock.Any(), "금리 전망", websearch.SourceSetDomestic, gomock.Any()).
			Return(&websearch.Response{
				TotalResults: 1,
				Items:        []websearch.Item{{Title: "기사", URL: "https://www.hankyung.com/article/1"}},
			}, nil),
	)
	fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(articlePage, nil)
	scorer.EXPECT().ScoreAndSelect(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(relevance.Selection{Score: 0.9, ChunkText: "본문"}, nil)

	r := NewNewsRetriever(search, fetcher, embedder, scorer, translate.Noop{}, newsOptions())
	matches, err := r.Retrieve(context.Background(), []string{"금리 전먕"}, evidence.ScopeDomestic)
	if err != nil {
		t.Fatalf("Retrieve() unexpected error: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("Retrieve() returned %d matches, want 1 from corrected query", len(matches))
	}
}

func TestNewsRetrieve_FetchFailureContributesZero(t *testing.T) {
	ctrl := gomock.NewController(t)
	search := searchmocks.NewMockSearchAPI(ctrl)
	fetcher := scrapemocks.NewMockFetcher(ctrl)
	embedder := retrievermocks.NewMockEmbedder(ctrl)
	scorer := retrievermocks.NewMockScorer(ctrl)

	embedder.EXPECT().EmbedTexts(gomock.Any(), gomock.Any()).Return([][]float32{{1}}, nil)
	search.EXPECT().Search(gomock.Any(), gomock.Any(), websearch.SourceSetDomestic, gomock.Any()).
		Return(&websearch.Response{
			TotalResults: 2,
			Items: []websearch.Item{
				{Title: "죽은 링크", URL: "https://www.hankyung.com/article/1"},
				{Title: "살아있는 링크", URL: "https://www.hankyung.com/article/2"},
			},
		}, nil)
	fetcher.EXPECT().Fetch(gomock.Any(), "https://www.hankyung.com/article/1").
		Return("", errors.New("connection refused"))
	fetcher.EXPECT().Fetch(gomock.Any(), "https://www.hankyung.com/article/2").
		Return(articlePage, nil)
	scorer.EXPECT().ScoreAndSelect(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(relevance.Selection{Score: 0.7, ChunkText: "본문"}, nil)

	r := NewNewsRetriever(search, fetcher, embedder, scorer, translate.Noop{}, newsOptions())
	matches, err := r.Retrieve(context.Background(), []string{"금리"}, evidence.ScopeDomestic)
	if err != nil {
		t.Fatalf("Retrieve() unexpected error: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("Retrieve() returned %d matches, want 1 surviving the fetch failure", len(matches))
	}
	if matches[0].URL != "https://www.hankyung.com/article/2" {
		t.Errorf("kept URL = %q, want the fetchable one", matches[0].URL)
	}
}

func TestNewsRetrieve_SearchFailureIsEmptyRound(t *testing.T) {
	ctrl := gomock.NewController(t)
	search := searchmocks.NewMockSearchAPI(ctrl)
	fetcher := scrapemocks.NewMockFetcher(ctrl)
	embedder := retrievermocks.NewMockEmbedder(ctrl)
	scorer := retrievermocks.NewMockScorer(ctrl)

	embedder.EXPECT().EmbedTexts(gomock.Any(), gomock.Any()).Return([][]float32{{1}}, nil)
	search.EXPECT().Search(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("quota exceeded"))

	r := NewNewsRetriever(search, fetcher, embedder, scorer, translate.Noop{}, newsOptions())
	matches, err := r.Retrieve(context.Background(), []string{"금리"}, evidence.ScopeDomestic)
	if err != nil {
		t.Fatalf("Retrieve() should not fail when search fails, got: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("Retrieve() returned %d matches, want empty round", len(matches))
	}
}

func TestNewsRetrieve_PublisherCap(t *testing.T) {
	ctrl := gomock.NewController(t)
	search := searchmocks.NewMockSearchAPI(ctrl)
	fetcher := scrapemocks.NewMockFetcher(ctrl)
	embedder := retrievermocks.NewMockEmbedder(ctrl)
	scorer := retrievermocks.NewMockScorer(ctrl)

	items := []websearch.Item{
		{Title: "1", URL: "https://www.hankyung.com/article/1"},
		{Title: "2", URL: "https://www.hankyung.com/article/2"},
		{Title: "3", URL: "https://www.hankyung.com/article/3"},
		{Title: "4", URL: "https://www.hankyung.com/article/4"},
	}
	embedder.EXPECT().EmbedTexts(gomock.Any(), gomock.Any()).Return([][]float32{{1}}, nil)
	search.EXPECT().Search(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&websearch.Response{TotalResults: 4, Items: items}, nil)
	// Only the first three same-publisher candidates get fetched.
	fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).Return(articlePage, nil).Times(3)
	scorer.EXPECT().ScoreAndSelect(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(relevance.Selection{Score: 0.9, ChunkText: "본문"}, nil).Times(3)

	opts := newsOptions()
	opts.TopN = 10
	r := NewNewsRetriever(search, fetcher, embedder, scorer, translate.Noop{}, opts)
	matches, err := r.Retrieve(context.Background(), []string{"금리"}, evidence.ScopeDomestic)
	if err != nil {
		t.Fatalf("Retrieve() unexpected error: %v", err)
	}
	if len(matches) != 3 {
		t.Errorf("Retrieve() returned %d matches, want publisher cap of 3", len(matches))
	}
}

func TestNewsRetrieve_BothScopesMergeBeforeTruncate(t *testing.T) {
	ctrl := gomock.NewController(t)
	search := searchmocks.NewMockSearchAPI(ctrl)
	fetcher := scrapemocks.NewMockFetcher(ctrl)
	embedder := retrievermocks.NewMockEmbedder(ctrl)
	scorer := retrievermocks.NewMockScorer(ctrl)

	// Both branches embed their own query texts; the noop translator leaves
	// the foreign copy unchanged.
	embedder.EXPECT().EmbedTexts(gomock.Any(), []string{"rates", "rates"}).
		Return([][]float32{{1, 0}, {1, 0}}, nil)
	search.EXPECT().Search(gomock.Any(), "rates", websearch.SourceSetDomestic, gomock.Any()).
		Return(&websearch.Response{
			TotalResults: 2,
			Items: []websearch.Item{
				{Title: "국내1", URL: "https://www.hankyung.com/article/1"},
				{Title: "국내2", URL: "https://www.hankyung.com/article/2"},
			},
		}, nil)
	search.EXPECT().Search(gomock.Any(), "rates", websearch.SourceSetForeign, gomock.Any()).
		Return(&websearch.Response{
			TotalResults: 2,
			Items: []websearch.Item{
				{Title: "foreign1", URL: "https://finance.yahoo.com/news/1"},
				{Title: "foreign2", URL: "https://finance.yahoo.com/news/2"},
			},
		}, nil)
	fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, pageURL string) (string, error) {
			if strings.Contains(pageURL, "yahoo") {
				return foreignArticlePage, nil
			}
			return articlePage, nil
		}).Times(4)
	// All four articles clear the threshold; truncation must keep the global
	// top 3, not 3 per source set.
	scorer.EXPECT().ScoreAndSelect(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, q []float32, text string) (relevance.Selection, error) {
			return relevance.Selection{Score: 0.9, ChunkText: text}, nil
		}).Times(4)

	r := NewNewsRetriever(search, fetcher, embedder, scorer, translate.Noop{}, newsOptions())
	matches, err := r.Retrieve(context.Background(), []string{"rates"}, evidence.ScopeBoth)
	if err != nil {
		t.Fatalf("Retrieve() unexpected error: %v", err)
	}
	if len(matches) != 3 {
		t.Errorf("Retrieve() returned %d matches, want union truncated to 3", len(matches))
	}
}

func TestNewsRetrieve_ForeignBranchSearchesTranslatedQueries(t *testing.T) {
	ctrl := gomock.NewController(t)
	search := searchmocks.NewMockSearchAPI(ctrl)
	fetcher := scrapemocks.NewMockFetcher(ctrl)
	embedder := retrievermocks.NewMockEmbedder(ctrl)
	scorer := retrievermocks.NewMockScorer(ctrl)
	translator := translatemocks.NewMockTranslator(ctrl)

	translator.EXPECT().Translate(gomock.Any(), []string{"금리 전망"}, "en").
		Return([]string{"interest rate outlook"}, nil)
	// The embed batch carries the domestic query then its translation, and
	// each branch scores against its own language's embedding.
	embedder.EXPECT().EmbedTexts(gomock.Any(), []string{"금리 전망", "interest rate outlook"}).
		Return([][]float32{{1, 0}, {0, 1}}, nil)
	search.EXPECT().Search(gomock.Any(), "금리 전망", websearch.SourceSetDomestic, gomock.Any()).
		Return(&websearch.Response{
			TotalResults: 1,
			Items:        []websearch.Item{{Title: "국내 기사", URL: "https://www.hankyung.com/article/1"}},
		}, nil)
	search.EXPECT().Search(gomock.Any(), "interest rate outlook", websearch.SourceSetForeign, gomock.Any()).
		Return(&websearch.Response{
			TotalResults: 1,
			Items:        []websearch.Item{{Title: "foreign article", URL: "https://finance.yahoo.com/news/1"}},
		}, nil)
	fetcher.EXPECT().Fetch(gomock.Any(), "https://www.hankyung.com/article/1").Return(articlePage, nil)
	fetcher.EXPECT().Fetch(gomock.Any(), "https://finance.yahoo.com/news/1").Return(foreignArticlePage, nil)
	scorer.EXPECT().ScoreAndSelect(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, q []float32, text string) (relevance.Selection, error) {
			if strings.Contains(text, "본문") && q[0] != 1 {
				t.Errorf("domestic article scored with embedding %v, want the domestic query's", q)
			}
			if strings.Contains(text, "Fed") && q[1] != 1 {
				t.Errorf("foreign article scored with embedding %v, want the translation's", q)
			}
			return relevance.Selection{Score: 0.9, ChunkText: text}, nil
		}).Times(2)

	r := NewNewsRetriever(search, fetcher, embedder, scorer, translator, newsOptions())
	matches, err := r.Retrieve(context.Background(), []string{"금리 전망"}, evidence.ScopeBoth)
	if err != nil {
		t.Fatalf("Retrieve() unexpected error: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("Retrieve() returned %d matches, want one per branch", len(matches))
	}
}

func TestNewsRetrieve_TranslationFailureFallsBackToOriginals(t *testing.T) {
	ctrl := gomock.NewController(t)
	search := searchmocks.NewMockSearchAPI(ctrl)
	fetcher := scrapemocks.NewMockFetcher(ctrl)
	embedder := retrievermocks.NewMockEmbedder(ctrl)
	scorer := retrievermocks.NewMockScorer(ctrl)
	translator := translatemocks.NewMockTranslator(ctrl)

	translator.EXPECT().Translate(gomock.Any(), []string{"환율"}, "en").
		Return(nil, errors.New("backend down"))
	embedder.EXPECT().EmbedTexts(gomock.Any(), []string{"환율"}).
		Return([][]float32{{1}}, nil)
	// Foreign sources still get searched, with the untranslated query.
	search.EXPECT().Search(gomock.Any(), "환율", websearch.SourceSetForeign, gomock.Any()).
		Return(&websearch.Response{TotalResults: 0}, nil)

	r := NewNewsRetriever(search, fetcher, embedder, scorer, translator, newsOptions())
	matches, err := r.Retrieve(context.Background(), []string{"환율"}, evidence.ScopeForeign)
	if err != nil {
		t.Fatalf("Retrieve() unexpected error: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("Retrieve() returned %d matches, want empty round", len(matches))
	}
}

func TestNewsRetrieve_EmptyQueries(t *testing.T) {
	ctrl := gomock.NewController(t)
	r := NewNewsRetriever(
		searchmocks.NewMockSearchAPI(ctrl),
		scrapemocks.NewMockFetcher(ctrl),
		retrievermocks.NewMockEmbedder(ctrl),
		retrievermocks.NewMockScorer(ctrl),
		translate.Noop{},
		newsOptions(),
	)
	matches, err := r.Retrieve(context.Background(), nil, evidence.ScopeBoth)
	if err != nil {
		t.Fatalf("Retrieve() unexpected error: %v", err)
	}
	if matches != nil {
		t.Errorf("Retrieve(no queries) = %v, want nil", matches)
	}
}

func TestNewsRetrieve_EmptyExtractionDropped(t *testing.T) {
	ctrl := gomock.NewController(t)
	search := searchmocks.NewMockSearchAPI(ctrl)
	fetcher := scrapemocks.NewMockFetcher(ctrl)
	embedder := retrievermocks.NewMockEmbedder(ctrl)
	scorer := retrievermocks.NewMockScorer(ctrl)

	embedder.EXPECT().EmbedTexts(gomock.Any(), gomock.Any()).Return([][]float32{{1}}, nil)
	search.EXPECT().Search(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&websearch.Response{
			TotalResults: 1,
			Items:        []websearch.Item{{Title: "빈 기사", URL: "https://www.hankyung.com/article/1"}},
		}, nil)
	// Page has no article body element, so extraction yields nothing and the
	// scorer is never consulted.
	fetcher.EXPECT().Fetch(gomock.Any(), gomock.Any()).
		Return(`<html><body><nav>`+strings.Repeat("menu ", 10)+`</nav></body></html>`, nil)

	r := NewNewsRetriever(search, fetcher, embedder, scorer, translate.Noop{}, newsOptions())
	matches, err := r.Retrieve(context.Background(), []string{"금리"}, evidence.ScopeDomestic)
	if err != nil {
		t.Fatalf("Retrieve() unexpected error: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("Retrieve() returned %d matches, want 0 for empty extraction", len(matches))
	}
}
