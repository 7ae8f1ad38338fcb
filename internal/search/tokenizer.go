package search

import "strings"

// minTokenLen is the shortest token the tokenizer keeps. Dropping one- and
// two-character fragments acts as an implicit stop-word filter ("a", "of",
// "to", "db" stays out of the index either way).
const minTokenLen = 3

// Tokenize normalizes text into lowercase alphanumeric index terms.
//
// Every character outside [a-z0-9] (after lowercasing) is treated as a
// separator, so punctuation, underscores, and non-ASCII letters all split
// tokens. Order is preserved and duplicates are kept because term frequency
// matters to the scorer. Tokenize never fails: any input, including the
// empty string, yields a (possibly empty) token list.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return (r < 'a' || r > 'z') && (r < '0' || r > '9')
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) >= minTokenLen {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
