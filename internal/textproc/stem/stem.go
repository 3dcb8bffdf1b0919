// Package stem implements the suffix-stripping stemmer shared by the
// offline stemmer stage and the query-time term normalizer. Both sides
// must collapse terms identically, so this is the one place the rule
// table lives.
package stem

import "strings"

// Word applies the first matching suffix rule, checked in order, and
// returns the stemmed token. Tokens of length <= 2 are returned
// unchanged. The rule table and its ordering are a public contract:
// changing it changes what a built index can match at query time.
func Word(token string) string {
	n := len(token)
	if n <= 2 {
		return token
	}
	switch {
	case n > 5 && strings.HasSuffix(token, "ingly"):
		return token[:n-5]
	case n > 4 && strings.HasSuffix(token, "edly"):
		return token[:n-4]
	case n > 4 && strings.HasSuffix(token, "ing"):
		return token[:n-3]
	case n > 3 && strings.HasSuffix(token, "ed"):
		return token[:n-2]
	case n > 4 && strings.HasSuffix(token, "ies"):
		return token[:n-3] + "y"
	case n > 3 && strings.HasSuffix(token, "es"):
		return token[:n-2]
	case n > 3 && strings.HasSuffix(token, "ly"):
		return token[:n-2]
	case n > 3 && token[n-1] == 's':
		return token[:n-1]
	default:
		return token
	}
}

// Line stems each whitespace-separated token in body, dropping tokens
// that stem to empty, and returns the space-joined result.
func Line(body string) string {
	fields := strings.Fields(body)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		s := Word(f)
		if s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, " ")
}
