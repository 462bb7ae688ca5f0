package stats

import "sort"

// MissedWord is a word with its outstanding miss count.
type MissedWord struct {
	Word   string
	Misses int
}

// TopMissed returns the n most missed words from tally, most misses first
// and ties by word. n <= 0 returns all of them.
func TopMissed(tally map[string]int, n int) []MissedWord {
	items := make([]MissedWord, 0, len(tally))
	for word, misses := range tally {
		if misses > 0 {
			items = append(items, MissedWord{Word: word, Misses: misses})
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Misses == items[j].Misses {
			return items[i].Word < items[j].Word
		}
		return items[i].Misses > items[j].Misses
	})
	if n > 0 && n < len(items) {
		items = items[:n]
	}
	return items
}
