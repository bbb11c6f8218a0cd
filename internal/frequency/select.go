package frequency

import (
	"cmp"
	"slices"

	"github.com/gcbaptista/go-wc/model"
)

// compareEntries orders by count descending, then token ascending.
func compareEntries(a, b model.RankedEntry) int {
	if c := cmp.Compare(b.Count, a.Count); c != 0 {
		return c
	}
	return cmp.Compare(a.Token, b.Token)
}

// SelectTop returns the k most frequent tokens of t, highest count first.
// Tokens with equal counts are ordered by ascending byte-wise comparison, so
// the result never depends on map iteration order. A k of zero or less, or
// an empty table, yields an empty slice. The result does not alias t.
func SelectTop(t Table, k int) []model.RankedEntry {
	if k <= 0 || len(t) == 0 {
		return []model.RankedEntry{}
	}
	entries := make([]model.RankedEntry, 0, len(t))
	for tok, c := range t {
		entries = append(entries, model.RankedEntry{Token: tok, Count: c})
	}
	slices.SortFunc(entries, compareEntries)
	if k < len(entries) {
		entries = slices.Clip(entries[:k])
	}
	return entries
}

// Ranked returns every entry of t in ranking order.
func Ranked(t Table) []model.RankedEntry {
	return SelectTop(t, len(t))
}
