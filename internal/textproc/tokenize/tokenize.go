// Package tokenize splits raw document text into lowercased ASCII
// alphanumeric tokens. It intentionally has no notion of stop-words,
// Unicode letters, or stemming — those are separate stages.
package tokenize

func isAlnumASCII(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func lowerASCII(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

// Text scans text for maximal runs of ASCII alphanumeric bytes and
// returns them lowercased, in order, as tokens. Non-ASCII bytes act as
// separators like any other non-alphanumeric byte.
func Text(text string) []string {
	tokens := make([]string, 0, len(text)/5+1)
	start := -1
	buf := make([]byte, 0, 32)
	for i := 0; i < len(text); i++ {
		b := text[i]
		if isAlnumASCII(b) {
			if start == -1 {
				start = i
				buf = buf[:0]
			}
			buf = append(buf, lowerASCII(b))
			continue
		}
		if start != -1 {
			tokens = append(tokens, string(buf))
			start = -1
		}
	}
	if start != -1 {
		tokens = append(tokens, string(buf))
	}
	return tokens
}
