package feedback

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	substituteCost = 2
	insertCost     = 1
	deleteCost     = 1
)

type step uint8

const (
	stepNone step = iota
	stepDiag
	stepUp
	stepLeft
)

// Analyzer compares answers and targets using the case rules of one language.
type Analyzer struct {
	tag language.Tag
}

// New returns an Analyzer that folds case according to tag.
func New(tag language.Tag) *Analyzer {
	return &Analyzer{tag: tag}
}

// IsCorrect reports whether answer equals target ignoring case, surrounding
// whitespace and runs of internal whitespace.
func (a *Analyzer) IsCorrect(answer, target string) bool {
	caser := cases.Lower(a.tag)
	return normalize(caser, answer) == normalize(caser, target)
}

func normalize(caser cases.Caser, value string) string {
	return strings.Join(strings.Fields(caser.String(value)), " ")
}

// grid holds the edit-distance costs and the step chosen for every cell,
// stored row-major in two parallel slices.
type grid struct {
	cols int
	cost []int
	step []step
}

func newGrid(rows, cols int) *grid {
	size := (rows + 1) * (cols + 1)
	return &grid{
		cols: cols,
		cost: make([]int, size),
		step: make([]step, size),
	}
}

func (g *grid) idx(i, j int) int {
	return i*(g.cols+1) + j
}

// Align explains answer against target one character at a time, left to right.
// The answer is trimmed of surrounding whitespace; target is used as is.
//
// Substitutions cost twice as much as insertions or deletions, so a shifted
// letter reads as missing or extra instead of a run of wrong letters. When
// several steps tie, an exact pairing wins, then missing, then extra, then a
// wrong pairing.
func (a *Analyzer) Align(answer, target string) []Letter {
	answerRunes := []rune(strings.TrimSpace(answer))
	targetRunes := []rune(target)
	rows := len(targetRunes)
	cols := len(answerRunes)

	caser := cases.Lower(a.tag)
	answerFolded := foldRunes(caser, answerRunes)
	targetFolded := foldRunes(caser, targetRunes)
	same := func(i, j int) bool {
		return targetFolded[i] == answerFolded[j]
	}

	g := newGrid(rows, cols)
	for i := 1; i <= rows; i++ {
		g.cost[g.idx(i, 0)] = g.cost[g.idx(i-1, 0)] + deleteCost
		g.step[g.idx(i, 0)] = stepUp
	}
	for j := 1; j <= cols; j++ {
		g.cost[g.idx(0, j)] = g.cost[g.idx(0, j-1)] + insertCost
		g.step[g.idx(0, j)] = stepLeft
	}

	for i := 1; i <= rows; i++ {
		for j := 1; j <= cols; j++ {
			match := same(i-1, j-1)
			diag := g.cost[g.idx(i-1, j-1)]
			if !match {
				diag += substituteCost
			}
			up := g.cost[g.idx(i-1, j)] + deleteCost
			left := g.cost[g.idx(i, j-1)] + insertCost

			best := min(diag, up, left)
			cell := g.idx(i, j)
			g.cost[cell] = best
			switch {
			case match && diag == best:
				g.step[cell] = stepDiag
			case up == best:
				g.step[cell] = stepUp
			case left == best:
				g.step[cell] = stepLeft
			default:
				g.step[cell] = stepDiag
			}
		}
	}

	letters := make([]Letter, 0, max(rows, cols))
	i, j := rows, cols
	for i > 0 || j > 0 {
		switch s := g.step[g.idx(i, j)]; {
		case s == stepUp && i > 0:
			letters = append(letters, Missing{Expected: targetRunes[i-1]})
			i--
		case s == stepLeft && j > 0:
			letters = append(letters, Extra{Actual: answerRunes[j-1]})
			j--
		case i > 0 && j > 0:
			expected, actual := targetRunes[i-1], answerRunes[j-1]
			if same(i-1, j-1) {
				letters = append(letters, Correct{Expected: expected, Actual: actual})
			} else {
				letters = append(letters, Wrong{Expected: expected, Actual: actual})
			}
			i--
			j--
		case i > 0:
			letters = append(letters, Missing{Expected: targetRunes[i-1]})
			i--
		default:
			letters = append(letters, Extra{Actual: answerRunes[j-1]})
			j--
		}
	}

	slices.Reverse(letters)
	return letters
}

// foldRunes lower-cases each rune on its own; a rune may fold to several runes.
func foldRunes(caser cases.Caser, runes []rune) []string {
	out := make([]string, len(runes))
	for i, r := range runes {
		out[i] = caser.String(string(r))
	}
	return out
}
