// internal/oracle/tokens.go
package oracle

import "strings"

// estimateTokens approximates a token count for providers that tokenize
// remotely. Whitespace words are a deliberate underestimate of subword
// tokens, which is acceptable for truncation bookkeeping only.
func estimateTokens(text string) int {
	return len(strings.Fields(text))
}

// TruncateWords limits text to at most maxTokens whitespace words.
// Used by providers without a client-side tokenizer to honor the
// encoder truncation window.
func TruncateWords(text string, maxTokens int) (string, bool) {
	if maxTokens <= 0 {
		return text, false
	}
	fields := strings.Fields(text)
	if len(fields) <= maxTokens {
		return text, false
	}
	return strings.Join(fields[:maxTokens], " "), true
}
