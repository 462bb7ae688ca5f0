// Package feedback aligns a typed answer against its target and explains
// every difference per character.
package feedback

// Letter is one aligned position of an answer against its target.
// It is one of Correct, Wrong, Missing or Extra.
type Letter interface {
	letter()
}

// Correct pairs a target character with the same answer character, ignoring case.
type Correct struct {
	Expected rune
	Actual   rune
}

// Wrong pairs a target character with a different answer character.
type Wrong struct {
	Expected rune
	Actual   rune
}

// Missing is a target character without a counterpart in the answer.
type Missing struct {
	Expected rune
}

// Extra is an answer character without a counterpart in the target.
type Extra struct {
	Actual rune
}

func (Correct) letter() {}
func (Wrong) letter()   {}
func (Missing) letter() {}
func (Extra) letter()   {}

// AllCorrect reports whether every letter is Correct.
func AllCorrect(letters []Letter) bool {
	for _, l := range letters {
		if _, ok := l.(Correct); !ok {
			return false
		}
	}
	return true
}

// Counts tallies letters per variant.
type Counts struct {
	Correct int
	Wrong   int
	Missing int
	Extra   int
}

// Count returns per-variant totals for letters.
func Count(letters []Letter) Counts {
	var c Counts
	for _, l := range letters {
		switch l.(type) {
		case Correct:
			c.Correct++
		case Wrong:
			c.Wrong++
		case Missing:
			c.Missing++
		case Extra:
			c.Extra++
		}
	}
	return c
}
