package stats

import (
	"sort"

	"github.com/verte-zerg/dictee/internal/feedback"
	"github.com/verte-zerg/dictee/internal/session"
)

// LetterErrors counts how often a target character was misspelled.
type LetterErrors struct {
	Char    rune
	Wrong   int
	Missing int
}

// Total is the number of errors on the character.
func (l LetterErrors) Total() int {
	return l.Wrong + l.Missing
}

// WeakLetters ranks the target characters that went wrong or missing in
// mistakes. Characters differing only in case are counted together under
// the target's spelling seen first.
func WeakLetters(mistakes []session.MistakeEntry, top int) []LetterErrors {
	byChar := map[rune]*LetterErrors{}
	var order []rune
	get := func(r rune) *LetterErrors {
		key := fold(r)
		if e, ok := byChar[key]; ok {
			return e
		}
		e := &LetterErrors{Char: r}
		byChar[key] = e
		order = append(order, key)
		return e
	}
	for _, m := range mistakes {
		for _, l := range m.Feedback {
			switch v := l.(type) {
			case feedback.Wrong:
				get(v.Expected).Wrong++
			case feedback.Missing:
				get(v.Expected).Missing++
			}
		}
	}

	out := make([]LetterErrors, 0, len(order))
	for _, key := range order {
		out = append(out, *byChar[key])
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Total() == out[j].Total() {
			return out[i].Char < out[j].Char
		}
		return out[i].Total() > out[j].Total()
	})
	if top > 0 && top < len(out) {
		out = out[:top]
	}
	return out
}
