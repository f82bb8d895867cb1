package shell

import "strings"

// TokenDelimiters are the characters that separate arguments on a command
// line. Runs of adjacent delimiters count as a single separator.
const TokenDelimiters = " \t\r\n\a"

// TokenBufferSize is the initial capacity of the token slice and the fixed
// increment it grows by.
const TokenBufferSize = 128

// SplitLine breaks a command line into argument tokens. A line holding only
// delimiters, or nothing at all, yields an empty slice.
func SplitLine(line string) []string {
	tokens := make([]string, 0, TokenBufferSize)

	start := -1
	for i := 0; i < len(line); i++ {
		if strings.IndexByte(TokenDelimiters, line[i]) >= 0 {
			if start >= 0 {
				tokens = appendToken(tokens, line[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		tokens = appendToken(tokens, line[start:])
	}
	return tokens
}

func appendToken(tokens []string, tok string) []string {
	if len(tokens) == cap(tokens) {
		grown := make([]string, len(tokens), cap(tokens)+TokenBufferSize)
		copy(grown, tokens)
		tokens = grown
	}
	return append(tokens, tok)
}
