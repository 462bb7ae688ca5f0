// Package session runs practice rounds: it scores answers, tracks missed
// words across rounds and decides when a round is over.
package session

import (
	"errors"
	"fmt"
	"maps"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/verte-zerg/dictee/internal/feedback"
	"github.com/verte-zerg/dictee/internal/scheduler"
)

// MaxQuestionsPerRound bounds the fixed round length.
const MaxQuestionsPerRound = 100

var (
	ErrEmptyWordList        = errors.New("word list is empty")
	ErrInvalidQuestionCount = fmt.Errorf("questions per round must be between 1 and %d", MaxQuestionsPerRound)
	ErrNoActiveQuestion     = errors.New("no active question")
	ErrRoundInProgress      = errors.New("round already in progress")
	ErrRoundNotComplete     = errors.New("round not complete")
)

// Speaker pronounces text. Calls must not block and must cancel any
// utterance still playing.
type Speaker interface {
	Speak(text string, rate, pitch float64)
	Cancel()
}

// Voice holds speech parameters for one kind of utterance.
type Voice struct {
	Rate  float64
	Pitch float64
}

// SpeechSettings configures what the session asks the Speaker to say.
type SpeechSettings struct {
	Word        Voice
	Phrase      string
	PhraseVoice Voice
}

// DefaultSpeech matches the pace used for dictation.
var DefaultSpeech = SpeechSettings{
	Word:        Voice{Rate: 0.85, Pitch: 1.05},
	Phrase:      "Goed gedaan!",
	PhraseVoice: Voice{Rate: 0.95, Pitch: 1.15},
}

// Options configures a Session. Zero values fall back to defaults.
type Options struct {
	Words             []string
	Ordered           bool
	QuestionsPerRound int
	Mode              Mode
	Analyzer          *feedback.Analyzer
	Scheduler         *scheduler.Scheduler
	Speaker           Speaker
	Speech            *SpeechSettings
	Logger            *zap.Logger
}

// Session owns all practice state. It is not safe for concurrent use.
type Session struct {
	id       string
	words    []string
	distinct int

	analyzer *feedback.Analyzer
	sched    *scheduler.Scheduler
	speaker  Speaker
	speech   SpeechSettings
	logger   *zap.Logger

	mode              Mode
	questionsPerRound int

	state          State
	round          int
	questionNumber int
	current        string
	roundCorrect   int
	totalCorrect   int
	totalQuestions int
	tally          map[string]int
	mistakes       []MistakeEntry
	last           *Result
	history        []RoundSummary

	presented map[string]struct{}
	solved    map[string]struct{}
}

// New validates opts and returns an idle session.
func New(opts Options) (*Session, error) {
	if err := validateWords(opts.Words); err != nil {
		return nil, err
	}
	if opts.Mode == ModeFixed {
		if err := validateCount(opts.QuestionsPerRound); err != nil {
			return nil, err
		}
	}
	s := &Session{
		id:                uuid.NewString(),
		analyzer:          opts.Analyzer,
		sched:             opts.Scheduler,
		speaker:           opts.Speaker,
		speech:            DefaultSpeech,
		logger:            opts.Logger,
		mode:              opts.Mode,
		questionsPerRound: opts.QuestionsPerRound,
		round:             1,
		tally:             map[string]int{},
	}
	if s.analyzer == nil {
		s.analyzer = feedback.New(language.Dutch)
	}
	if s.sched == nil {
		s.sched = scheduler.New()
	}
	if s.speaker == nil {
		s.speaker = nopSpeaker{}
	}
	if opts.Speech != nil {
		s.speech = *opts.Speech
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	s.setWords(opts.Words, opts.Ordered)
	return s, nil
}

func validateWords(words []string) error {
	if len(words) == 0 {
		return ErrEmptyWordList
	}
	for _, w := range words {
		if strings.TrimSpace(w) == "" {
			return fmt.Errorf("%w: blank entry", ErrEmptyWordList)
		}
	}
	return nil
}

func validateCount(n int) error {
	if n < 1 || n > MaxQuestionsPerRound {
		return ErrInvalidQuestionCount
	}
	return nil
}

func (s *Session) setWords(words []string, ordered bool) {
	s.words = append([]string(nil), words...)
	unique := make(map[string]struct{}, len(words))
	for _, w := range words {
		unique[w] = struct{}{}
	}
	s.distinct = len(unique)
	s.sched.SetOrdered(ordered)
	s.sched.Reset()
}

// ID identifies the session in logs.
func (s *Session) ID() string {
	return s.id
}

// State returns the current phase.
func (s *Session) State() State {
	return s.state
}

// Current returns the word being asked, empty outside a round.
func (s *Session) Current() string {
	return s.current
}

// SetQuestionsPerRound changes the fixed round length for the next round.
func (s *Session) SetQuestionsPerRound(n int) error {
	if s.state == StateInRound {
		return ErrRoundInProgress
	}
	if err := validateCount(n); err != nil {
		return err
	}
	s.questionsPerRound = n
	return nil
}

// SetMode changes how the next round ends.
func (s *Session) SetMode(m Mode) error {
	if s.state == StateInRound {
		return ErrRoundInProgress
	}
	s.mode = m
	return nil
}

// StartRound begins a round from the start screen or after a finished round
// without advancing the round counter. The missed-word tally carries over.
func (s *Session) StartRound() error {
	if s.state == StateInRound {
		return ErrRoundInProgress
	}
	if err := validateWords(s.words); err != nil {
		return err
	}
	if s.mode == ModeFixed {
		if err := validateCount(s.questionsPerRound); err != nil {
			return err
		}
	}

	s.sched.Reset()
	word, err := s.sched.Next(s.tally, s.words)
	if err != nil {
		return fmt.Errorf("failed to draw first word: %w", err)
	}

	s.resetRound()
	s.state = StateInRound
	s.questionNumber = 1
	s.ask(word)
	s.logger.Debug("round started",
		zap.String("session", s.id),
		zap.Int("round", s.round),
		zap.Stringer("mode", s.mode),
		zap.Int("missed", len(s.tally)))
	return nil
}

// StartNextRound advances the round counter and starts a new round.
func (s *Session) StartNextRound() error {
	if s.state != StateRoundComplete {
		return ErrRoundNotComplete
	}
	s.round++
	if err := s.StartRound(); err != nil {
		s.round--
		return err
	}
	return nil
}

// Submit scores rawAnswer against the current word and moves on.
func (s *Session) Submit(rawAnswer string) (Result, error) {
	if s.state != StateInRound || s.current == "" {
		return Result{}, ErrNoActiveQuestion
	}
	word := s.current
	attempt := strings.TrimSpace(rawAnswer)
	res := Result{
		Word:     word,
		Attempt:  attempt,
		Correct:  s.analyzer.IsCorrect(rawAnswer, word),
		Feedback: s.analyzer.Align(rawAnswer, word),
	}
	s.last = &res
	s.totalQuestions++
	s.presented[word] = struct{}{}

	if res.Correct {
		s.roundCorrect++
		s.totalCorrect++
		s.solved[word] = struct{}{}
		delete(s.tally, word)
	} else {
		s.tally[word]++
		s.mistakes = append(s.mistakes, MistakeEntry{Word: word, Answer: attempt, Feedback: res.Feedback})
	}
	s.logger.Debug("answer scored",
		zap.String("session", s.id),
		zap.Int("question", s.questionNumber),
		zap.Bool("correct", res.Correct),
		zap.Int("misses", s.tally[word]))

	if s.roundDone() {
		s.completeRound()
		return res, nil
	}

	next, err := s.sched.Next(s.tally, s.words)
	if err != nil {
		s.logger.Error("failed to draw next word", zap.String("session", s.id), zap.Error(err))
		s.completeRound()
		return res, nil
	}
	s.questionNumber++
	s.ask(next)
	return res, nil
}

func (s *Session) roundDone() bool {
	if s.mode == ModeFixed {
		return s.questionNumber >= s.questionsPerRound
	}
	if len(s.solved) < s.distinct {
		return false
	}
	for w := range s.presented {
		if s.tally[w] > 0 {
			return false
		}
	}
	return true
}

func (s *Session) completeRound() {
	s.state = StateRoundComplete
	s.current = ""
	s.history = append(s.history, RoundSummary{
		Round:     s.round,
		Mode:      s.mode,
		Questions: s.questionNumber,
		Correct:   s.roundCorrect,
	})
	s.speaker.Speak(s.speech.Phrase, s.speech.PhraseVoice.Rate, s.speech.PhraseVoice.Pitch)
	s.logger.Debug("round complete",
		zap.String("session", s.id),
		zap.Int("round", s.round),
		zap.Int("questions", s.questionNumber),
		zap.Int("correct", s.roundCorrect))
}

// RepeatWord pronounces the current word again.
func (s *Session) RepeatWord() error {
	if s.state != StateInRound {
		return ErrNoActiveQuestion
	}
	s.speaker.Speak(s.current, s.speech.Word.Rate, s.speech.Word.Pitch)
	return nil
}

// RepeatCelebration says the completion phrase again.
func (s *Session) RepeatCelebration() error {
	if s.state != StateRoundComplete {
		return ErrRoundNotComplete
	}
	s.speaker.Speak(s.speech.Phrase, s.speech.PhraseVoice.Rate, s.speech.PhraseVoice.Pitch)
	return nil
}

// ReturnToStart abandons the round and goes back to the start screen.
// Session totals and the missed-word tally are kept.
func (s *Session) ReturnToStart() {
	s.speaker.Cancel()
	s.resetRound()
	s.sched.Reset()
	s.state = StateIdle
}

// Reset switches to another word list and clears all session progress.
func (s *Session) Reset(words []string, ordered bool) error {
	if err := validateWords(words); err != nil {
		return err
	}
	s.ReturnToStart()
	s.setWords(words, ordered)
	s.round = 1
	s.totalCorrect = 0
	s.totalQuestions = 0
	s.tally = map[string]int{}
	s.history = nil
	s.id = uuid.NewString()
	return nil
}

func (s *Session) resetRound() {
	s.questionNumber = 0
	s.current = ""
	s.roundCorrect = 0
	s.mistakes = nil
	s.last = nil
	s.presented = map[string]struct{}{}
	s.solved = map[string]struct{}{}
}

func (s *Session) ask(word string) {
	s.current = word
	s.speaker.Speak(word, s.speech.Word.Rate, s.speech.Word.Pitch)
}

// Snapshot copies the state for rendering.
func (s *Session) Snapshot() Snapshot {
	perRound := s.questionsPerRound
	if s.mode == ModeUntilCorrect {
		perRound = s.questionNumber
	}
	snap := Snapshot{
		ID:                s.id,
		State:             s.state,
		Mode:              s.mode,
		Round:             s.round,
		QuestionNumber:    s.questionNumber,
		QuestionsPerRound: perRound,
		RoundCorrect:      s.roundCorrect,
		TotalCorrect:      s.totalCorrect,
		TotalQuestions:    s.totalQuestions,
		Accuracy:          Accuracy(s.totalCorrect, s.totalQuestions),
		Current:           s.current,
		Tally:             maps.Clone(s.tally),
		Mistakes:          append([]MistakeEntry(nil), s.mistakes...),
		History:           append([]RoundSummary(nil), s.history...),
	}
	if s.last != nil {
		last := *s.last
		snap.Last = &last
	}
	return snap
}

type nopSpeaker struct{}

func (nopSpeaker) Speak(string, float64, float64) {}
func (nopSpeaker) Cancel()                        {}
