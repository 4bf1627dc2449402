package relevance

import "strings"

// separators tried in order when looking for a split point, from strongest
// to weakest boundary. The separator stays attached to the preceding chunk.
var separators = []string{"\n\n", "\n", ". ", " "}

// SplitText splits text into chunks of at most chunkSize characters with
// overlap characters carried over between consecutive chunks. Splits prefer
// natural boundaries (paragraph, line, sentence, word) near the size limit
// and fall back to a hard cut when none exists. Rune-aware so multi-byte
// scripts never split mid-character.
func SplitText(text string, chunkSize, overlap int) []string {
	if chunkSize <= 0 {
		return nil
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = 0
	}

	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	if len(runes) <= chunkSize {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + chunkSize
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}

		cut := findSplit(runes, start, end)
		chunks = append(chunks, string(runes[start:cut]))

		next := cut - overlap
		if next <= start {
			next = cut
		}
		start = next
	}
	return chunks
}

// findSplit returns the cut index in (start, end] closest to end that lands
// just after a separator, or end when the window has none.
func findSplit(runes []rune, start, end int) int {
	window := string(runes[start:end])
	for _, sep := range separators {
		if idx := strings.LastIndex(window, sep); idx > 0 {
			// Keep the separator with the preceding chunk.
			return start + len([]rune(window[:idx+len(sep)]))
		}
	}
	return end
}
