// Package counter implements the wc-style line, word and character counts.
package counter

import (
	"strings"
	"unicode/utf8"

	"github.com/gcbaptista/go-wc/internal/tokenizer"
	"github.com/gcbaptista/go-wc/model"
)

// Lines returns the number of newline bytes in text. Like wc, a final line
// without a trailing newline is not counted.
func Lines(text string) int {
	return strings.Count(text, "\n")
}

// Words returns the number of whitespace-delimited tokens in text.
func Words(text string) int {
	return tokenizer.Count(text)
}

// Characters returns the number of Unicode scalar values in text.
// Each byte of an invalid UTF-8 sequence counts as one character.
func Characters(text string) int {
	return utf8.RuneCountInString(text)
}

// Count computes all three counters for text.
func Count(text string) model.Counts {
	return model.Counts{
		Lines:      Lines(text),
		Words:      Words(text),
		Characters: Characters(text),
	}
}
