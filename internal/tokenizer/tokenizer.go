// Package tokenizer splits text into whitespace-delimited tokens.
package tokenizer

import "iter"

// IsSpace reports whether c is an ASCII whitespace byte: space, tab,
// newline, carriage return, form feed or vertical tab.
func IsSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

// Tokens returns a lazy sequence of the tokens in text.
// Tokens are maximal runs of non-whitespace bytes; punctuation is kept and
// non-ASCII bytes are never treated as separators. The sequence can be
// ranged over any number of times and always yields the same tokens.
func Tokens(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		i := 0
		for i < len(text) {
			for i < len(text) && IsSpace(text[i]) {
				i++
			}
			start := i
			for i < len(text) && !IsSpace(text[i]) {
				i++
			}
			if i > start {
				if !yield(text[start:i]) {
					return
				}
			}
		}
	}
}

// Tokenize collects the tokens of text into a slice.
// It never returns nil.
func Tokenize(text string) []string {
	tokens := make([]string, 0) // Initialize as empty slice, not nil
	for tok := range Tokens(text) {
		tokens = append(tokens, tok)
	}
	return tokens
}

// Count returns the number of tokens in text without allocating them.
func Count(text string) int {
	n := 0
	inToken := false
	for i := 0; i < len(text); i++ {
		if IsSpace(text[i]) {
			inToken = false
		} else if !inToken {
			inToken = true
			n++
		}
	}
	return n
}
