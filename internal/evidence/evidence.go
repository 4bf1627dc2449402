// Package evidence defines the items the retriever produces: analyst report
// matches from the vector index and scraped news matches. Report scores are
// normalized to [0,1] by the index; news similarities are raw dot products.
// The two are never compared directly — each round ranks within its own kind.
package evidence

import (
	"sort"
	"strings"
	"time"
)

// ReportMatch is an analyst report chunk returned by a vector index query.
type ReportMatch struct {
	ID string `json:"id"`
	// DocumentID is the document-level id from the index payload. Chunks of
	// one document share it; point ids do not group chunks.
	DocumentID  string    `json:"document_id,omitempty"`
	Namespace   string    `json:"namespace"`
	Score       float64   `json:"score"`
	Title       string    `json:"title"`
	Publisher   string    `json:"publisher"`
	PublishedAt time.Time `json:"published_at"`
	Summary     string    `json:"summary,omitempty"`
	Content     string    `json:"content"`
	SourceURL   string    `json:"source_url,omitempty"`
	ChunkIndex  int       `json:"chunk_index"`
}

// IdentityKey returns the stable deduplication key for the report: the
// payload document id when the index carries one, otherwise the point id
// prefix before the first underscore (the docid_chunk naming convention).
func (r ReportMatch) IdentityKey() string {
	if r.DocumentID != "" {
		return r.DocumentID
	}
	if i := strings.IndexByte(r.ID, '_'); i >= 0 {
		return r.ID[:i]
	}
	return r.ID
}

// NewsMatch is a scraped news article scored against the query embedding.
type NewsMatch struct {
	Title            string    `json:"title"`
	Publisher        string    `json:"publisher"`
	URL              string    `json:"url"`
	PublishedAt      time.Time `json:"published_at"`
	Similarity       float64   `json:"similarity"`
	RelatedParagraph string    `json:"related_paragraph"`
	ChunkIndex       int       `json:"chunk_index"`
}

// OrderKey selects how a report round is sorted. The orchestrator chooses the
// key per round; the retriever applies it without an opinion of its own.
type OrderKey string

const (
	OrderByScore       OrderKey = "score"
	OrderByPublishedAt OrderKey = "published_at"
)

// SortReports sorts matches in place, descending by the given key.
// The sort is stable so equal-key items keep their retrieval rank.
func SortReports(matches []ReportMatch, key OrderKey) {
	sort.SliceStable(matches, func(i, j int) bool {
		if key == OrderByPublishedAt {
			return matches[i].PublishedAt.After(matches[j].PublishedAt)
		}
		return matches[i].Score > matches[j].Score
	})
}

// SortNews sorts matches in place, descending by similarity, stable.
func SortNews(matches []NewsMatch) {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})
}

// DedupReports removes matches sharing an identity key, keeping the first
// (highest-ranked) occurrence at its original position.
func DedupReports(matches []ReportMatch) []ReportMatch {
	seen := make(map[string]bool, len(matches))
	out := make([]ReportMatch, 0, len(matches))
	for _, m := range matches {
		key := m.IdentityKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, m)
	}
	return out
}

// TruncateReports bounds matches to at most n items.
func TruncateReports(matches []ReportMatch, n int) []ReportMatch {
	if n >= 0 && len(matches) > n {
		return matches[:n]
	}
	return matches
}

// TruncateNews bounds matches to at most n items.
func TruncateNews(matches []NewsMatch, n int) []NewsMatch {
	if n >= 0 && len(matches) > n {
		return matches[:n]
	}
	return matches
}
