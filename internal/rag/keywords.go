package rag

import "strings"

// keywordPunctuation is stripped from both ends of each query token before
// filtering.
const keywordPunctuation = ".,!?;:"

// stopWords are common English function words excluded from keyword scoring.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "is": {}, "are": {}, "was": {}, "were": {},
	"be": {}, "been": {}, "being": {}, "have": {}, "has": {}, "had": {},
	"do": {}, "does": {}, "did": {}, "will": {}, "would": {}, "could": {},
	"should": {}, "may": {}, "might": {}, "can": {}, "what": {}, "when": {},
	"where": {}, "who": {}, "how": {}, "why": {}, "in": {}, "on": {},
	"at": {}, "to": {}, "for": {}, "of": {}, "with": {}, "from": {},
	"about": {}, "this": {}, "that": {}, "these": {}, "those": {},
	"i": {}, "you": {}, "he": {}, "she": {}, "it": {}, "we": {}, "they": {},
	"me": {},
}

// ExtractKeywords lowercases the query, splits on whitespace, strips
// surrounding punctuation from each token, and drops stop-words and tokens
// shorter than three characters. Original order is preserved and duplicates
// are kept. A query made entirely of stop-words yields an empty slice, which
// scores every chunk zero.
func ExtractKeywords(query string) []string {
	var keywords []string
	for _, word := range strings.Fields(strings.ToLower(query)) {
		word = strings.Trim(word, keywordPunctuation)
		if len(word) < 3 {
			continue
		}
		if _, stop := stopWords[word]; stop {
			continue
		}
		keywords = append(keywords, word)
	}
	return keywords
}
