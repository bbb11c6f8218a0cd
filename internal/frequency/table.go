// Package frequency accumulates per-token occurrence counts and ranks them.
//
// A Table is a plain value: callers build one per input, merge tables into a
// running total and finally ask SelectTop for the ranking. Nothing in this
// package keeps state between calls.
package frequency

import (
	"maps"

	"github.com/gcbaptista/go-wc/internal/tokenizer"
)

// Table maps a token to the number of times it occurred.
// A nil Table is a valid empty table for reads, but Record, Accumulate and
// MergeFrom need a table created with New (or make).
type Table map[string]int

// New returns an empty table.
func New() Table {
	return make(Table)
}

// FromText builds a new table from the tokens of text.
func FromText(text string) Table {
	t := New()
	t.Accumulate(text)
	return t
}

// Record counts one occurrence of token.
func (t Table) Record(token string) {
	t[token]++
}

// Accumulate tokenizes text and records every token in order.
// It returns the number of tokens recorded.
func (t Table) Accumulate(text string) int {
	n := 0
	for tok := range tokenizer.Tokens(text) {
		t.Record(tok)
		n++
	}
	return n
}

// Get returns the count for token, or 0 if it never occurred.
func (t Table) Get(token string) int {
	return t[token]
}

// Len returns the number of distinct tokens.
func (t Table) Len() int {
	return len(t)
}

// Total returns the number of token occurrences in the table.
func (t Table) Total() int {
	n := 0
	for _, c := range t {
		n += c
	}
	return n
}

// MergeFrom adds every count in other to t.
func (t Table) MergeFrom(other Table) {
	for tok, c := range other {
		t[tok] += c
	}
}

// Clone returns an independent copy of t.
func (t Table) Clone() Table {
	c := make(Table, len(t))
	maps.Copy(c, t)
	return c
}

// Equal reports whether t and other hold the same counts for every token.
func (t Table) Equal(other Table) bool {
	return maps.Equal(t, other)
}

// Merge returns a new table holding, for every token in a or b, the sum of
// its counts in both. Neither argument is modified.
func Merge(a, b Table) Table {
	out := make(Table, max(len(a), len(b)))
	out.MergeFrom(a)
	out.MergeFrom(b)
	return out
}

// MergeAll merges any number of tables into a new one.
func MergeAll(tables ...Table) Table {
	out := New()
	for _, t := range tables {
		out.MergeFrom(t)
	}
	return out
}
