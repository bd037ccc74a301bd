package rag

// charsPerToken is the fixed ratio used everywhere token counts are
// approximated. There is no real tokenizer in this service; every budget
// decision (chunk boundaries, history truncation) goes through EstimateTokens
// so the approximation stays consistent.
const charsPerToken = 4

// EstimateTokens approximates the token count of text as len(text)/4,
// with a floor of 1. The floor applies even to the empty string.
func EstimateTokens(text string) int {
	n := len(text) / charsPerToken
	if n < 1 {
		return 1
	}
	return n
}
