package scrape

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

var urlPattern = regexp.MustCompile(`https?://\S+|www\.\S+`)

// publisherRule maps a URL prefix to a display name and a goquery selector
// for the article body. Publisher pages are structurally stable; the selector
// targets the one element holding the article text.
type publisherRule struct {
	prefix    string
	publisher string
	selector  string
}

var publisherRules = []publisherRule{
	{"https://news.einfomax.co.kr", "연합 인포맥스", "article#article-view-content-div"},
	{"https://www.hankyung.com", "한국경제", "div#articletxt"},
	{"https://www.mk.co.kr", "매일경제", `div[itemprop="articleBody"]`},
	{"https://www.businesspost.co.kr", "비즈니스 포스트", "div.detail_editor"},
	{"https://finance.yahoo.com", "yahoo finance", "div.caas-body"},
	{"https://www.investing.com", "investing.com", "div.article_container"},
}

// Publisher returns the display name of a known publisher for the URL, or
// empty when the publisher is unknown.
func Publisher(pageURL string) string {
	for _, rule := range publisherRules {
		if strings.HasPrefix(pageURL, rule.prefix) {
			return rule.publisher
		}
	}
	return ""
}

// ArticleText extracts the main article text from a fetched page.
// Known publishers use their selector rule; anything else goes through a
// generic readability pass. Returns empty when no article content is found —
// the retriever drops such candidates rather than scoring boilerplate.
func ArticleText(pageURL, html string) string {
	for _, rule := range publisherRules {
		if strings.HasPrefix(pageURL, rule.prefix) {
			return extractBySelector(html, rule.selector)
		}
	}
	return extractReadable(pageURL, html)
}

func extractBySelector(html, selector string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	selection := doc.Find(selector)
	if selection.Length() == 0 {
		return ""
	}
	return cleanText(selection.First().Text())
}

func extractReadable(pageURL, html string) string {
	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	article, err := readability.FromReader(strings.NewReader(html), parsedURL)
	if err != nil {
		return ""
	}
	return cleanText(article.TextContent)
}

// cleanText strips embedded URLs and surrounding whitespace from article text.
func cleanText(text string) string {
	return strings.TrimSpace(urlPattern.ReplaceAllString(text, ""))
}
