package session

import (
	"math"

	"github.com/verte-zerg/dictee/internal/feedback"
)

// State is the phase the session is in.
type State int

const (
	StateIdle          State = iota // No active round
	StateInRound                    // Waiting for an answer to the current word
	StateRoundComplete              // Round finished, counters frozen
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInRound:
		return "in-round"
	case StateRoundComplete:
		return "round-complete"
	default:
		return "unknown"
	}
}

// Mode selects how a round ends.
type Mode int

const (
	// ModeFixed ends a round after a fixed number of questions.
	ModeFixed Mode = iota
	// ModeUntilCorrect keeps asking until every word was answered correctly
	// at least once and nothing asked this round is still missed.
	ModeUntilCorrect
)

func (m Mode) String() string {
	if m == ModeUntilCorrect {
		return "until-correct"
	}
	return "fixed"
}

// MistakeEntry records one incorrect submission for the round review.
type MistakeEntry struct {
	Word     string
	Answer   string
	Feedback []feedback.Letter
}

// Result is the outcome of one submission.
type Result struct {
	Word     string
	Attempt  string
	Correct  bool
	Feedback []feedback.Letter
}

// RoundSummary is the score of one finished round.
type RoundSummary struct {
	Round     int
	Mode      Mode
	Questions int
	Correct   int
}

// Snapshot is a copy of the session state for presentation and tests.
type Snapshot struct {
	ID                string
	State             State
	Mode              Mode
	Round             int
	QuestionNumber    int
	QuestionsPerRound int
	RoundCorrect      int
	TotalCorrect      int
	TotalQuestions    int
	Accuracy          int
	Current           string
	Tally             map[string]int
	Mistakes          []MistakeEntry
	Last              *Result
	History           []RoundSummary
}

// DisplayQuestion is the question number shown next to QuestionsPerRound.
func (s Snapshot) DisplayQuestion() int {
	if s.QuestionNumber == 0 {
		return 0
	}
	return min(s.QuestionNumber, s.QuestionsPerRound)
}

// Accuracy returns the rounded percentage of correct answers, 0 when
// nothing was asked yet.
func Accuracy(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) * 100 / float64(total)))
}
