package counter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gcbaptista/go-wc/model"
)

const (
	contentFourLines = "line one\nline two\nline three\nline four\n"
	contentFiveWords = "My name is Alexander\nHamilton"
	contentTenChars  = "asdf\nasdf!"
)

func TestLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"four lines", contentFourLines, 4},
		{"empty", "", 0},
		{"no trailing newline", "no newline at all", 0},
		{"last line without newline", "a\nb", 1},
		{"only newlines", "\n\n\n", 3},
		{"crlf counts newlines only", "a\r\nb\r\n", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Lines(tt.input))
		})
	}
}

func TestWords(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"five words", contentFiveWords, 5},
		{"empty", "", 0},
		{"whitespace only", " \t\n ", 0},
		{"punctuation is part of words", "hello, world !", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Words(tt.input))
		})
	}
}

func TestCharacters(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  int
	}{
		{"ten chars", contentTenChars, 10},
		{"empty", "", 0},
		{"multibyte", "héllo", 5},
		{"emoji", "😀!", 2},
		{"invalid utf8", "\xff\xfe", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Characters(tt.input))
		})
	}
}

func TestCount(t *testing.T) {
	got := Count(contentFourLines)
	assert.Equal(t, model.Counts{Lines: 4, Words: 8, Characters: 39}, got)

	assert.Equal(t, model.Counts{}, Count(""))
}

func TestCountsAdd(t *testing.T) {
	a := Count(contentFourLines)
	b := Count(contentFiveWords)
	sum := a.Add(b)
	assert.Equal(t, a.Lines+b.Lines, sum.Lines)
	assert.Equal(t, a.Words+b.Words, sum.Words)
	assert.Equal(t, a.Characters+b.Characters, sum.Characters)
	assert.Equal(t, sum, b.Add(a))
}
