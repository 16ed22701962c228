// internal/textproc/textproc.go
package textproc

import "strings"

// String-level repair heuristics for raw oracle continuations. They are
// kept independent of oracle invocation so the known edge cases
// (prompts not echoed verbatim, texts with no punctuation) stay
// unit-testable in isolation.

// StripEchoedPrompt removes prompt when output starts with it verbatim.
// Decoders that echo the conditioning prompt must not leak it into the
// user-visible result. Tokenization rounding can break the verbatim
// match, in which case the output is returned unchanged.
func StripEchoedPrompt(output, prompt string) string {
	if prompt == "" {
		return output
	}
	if strings.HasPrefix(output, prompt) {
		return strings.TrimSpace(output[len(prompt):])
	}
	return output
}

// CollapseWhitespace reduces every whitespace run to a single space and
// trims the ends.
func CollapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// TruncateAtTerminal cuts a trailing incomplete clause. When text does
// not already end in '.', '!' or '?', it is truncated back to the last
// occurrence of any of those. Text with no terminal punctuation at all
// is returned as-is.
func TruncateAtTerminal(text string) string {
	if text == "" {
		return text
	}

	last := text[len(text)-1]
	if last == '.' || last == '!' || last == '?' {
		return text
	}

	cut := strings.LastIndexAny(text, ".!?")
	if cut <= 0 {
		return text
	}

	return strings.TrimSpace(text[:cut+1])
}

// Repair runs the full post-generation pipeline: whitespace collapse
// followed by terminal-punctuation truncation.
func Repair(text string) string {
	return TruncateAtTerminal(CollapseWhitespace(text))
}

// WordCount counts whitespace-delimited tokens.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// Snippet limits text to max characters for persisted input snippets.
func Snippet(text string, max int) string {
	if max <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max])
}
