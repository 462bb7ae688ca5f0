// Package stats renders plain-text summaries of a practice session.
package stats

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/verte-zerg/dictee/internal/feedback"
	"github.com/verte-zerg/dictee/internal/session"
)

const sparkChars = " .:-=+*#%@"

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = min(max(idx, 0), len(sparkChars)-1)
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RoundAccuracies returns the accuracy percentage of each finished round.
func RoundAccuracies(history []session.RoundSummary) []float64 {
	out := make([]float64, len(history))
	for i, r := range history {
		out[i] = float64(session.Accuracy(r.Correct, r.Questions))
	}
	return out
}

// RenderSummary prints totals, finished rounds, outstanding missed words and
// the letters that went wrong in the last round.
func RenderSummary(w io.Writer, snap session.Snapshot) error {
	if snap.TotalQuestions == 0 {
		_, err := fmt.Fprintln(w, "No questions answered.")
		return err
	}
	lines := []string{
		"Summary",
		fmt.Sprintf("Rounds: %d", len(snap.History)),
		fmt.Sprintf("Questions: %d", snap.TotalQuestions),
		fmt.Sprintf("Correct: %d", snap.TotalCorrect),
		fmt.Sprintf("Accuracy: %d%%", snap.Accuracy),
	}
	if len(snap.History) > 1 {
		lines = append(lines, "Trend: "+Sparkline(RoundAccuracies(snap.History)))
	}
	if err := writeLines(w, lines); err != nil {
		return err
	}

	if len(snap.History) > 0 {
		rows := make([][]string, 0, len(snap.History))
		for _, r := range snap.History {
			rows = append(rows, []string{
				strconv.Itoa(r.Round),
				r.Mode.String(),
				strconv.Itoa(r.Questions),
				strconv.Itoa(r.Correct),
				fmt.Sprintf("%d%%", session.Accuracy(r.Correct, r.Questions)),
			})
		}
		table := formatTable([]string{"Round", "Mode", "Questions", "Correct", "Accuracy"}, rows,
			map[int]bool{0: true, 2: true, 3: true, 4: true})
		if err := writeSection(w, "Rounds", table); err != nil {
			return err
		}
	}

	if missed := TopMissed(snap.Tally, 0); len(missed) > 0 {
		rows := make([][]string, 0, len(missed))
		for _, m := range missed {
			rows = append(rows, []string{m.Word, strconv.Itoa(m.Misses)})
		}
		if err := writeSection(w, "Missed words", formatTable([]string{"Word", "Misses"}, rows, map[int]bool{1: true})); err != nil {
			return err
		}
	}

	if weak := WeakLetters(snap.Mistakes, 5); len(weak) > 0 {
		rows := make([][]string, 0, len(weak))
		for _, l := range weak {
			rows = append(rows, []string{feedback.RuneLabel(l.Char), strconv.Itoa(l.Wrong), strconv.Itoa(l.Missing)})
		}
		table := formatTable([]string{"Char", "Wrong", "Missing"}, rows, map[int]bool{1: true, 2: true})
		if err := writeSection(w, "Tricky letters", table); err != nil {
			return err
		}
	}
	return nil
}

func writeSection(w io.Writer, title string, table []string) error {
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return writeLines(w, append([]string{title}, table...))
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func fold(r rune) rune {
	return unicode.ToLower(r)
}
