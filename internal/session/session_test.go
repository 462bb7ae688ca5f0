package session

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/verte-zerg/dictee/internal/feedback"
	"github.com/verte-zerg/dictee/internal/scheduler"
)

type utterance struct {
	text  string
	rate  float64
	pitch float64
}

type recordingSpeaker struct {
	spoken  []utterance
	cancels int
}

func (r *recordingSpeaker) Speak(text string, rate, pitch float64) {
	r.spoken = append(r.spoken, utterance{text: text, rate: rate, pitch: pitch})
}

func (r *recordingSpeaker) Cancel() {
	r.cancels++
}

func (r *recordingSpeaker) texts() []string {
	out := make([]string, len(r.spoken))
	for i, u := range r.spoken {
		out[i] = u.text
	}
	return out
}

func newTestSession(t *testing.T, words []string, opts Options) (*Session, *recordingSpeaker) {
	t.Helper()
	sp := &recordingSpeaker{}
	opts.Words = words
	opts.Speaker = sp
	if opts.Scheduler == nil {
		opts.Scheduler = scheduler.NewWithSource(rand.NewSource(7))
	}
	s, err := New(opts)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	return s, sp
}

func mustSubmit(t *testing.T, s *Session, answer string) Result {
	t.Helper()
	res, err := s.Submit(answer)
	if err != nil {
		t.Fatalf("submit %q: %v", answer, err)
	}
	return res
}

func TestNewRejectsBadConfig(t *testing.T) {
	if _, err := New(Options{QuestionsPerRound: 5}); !errors.Is(err, ErrEmptyWordList) {
		t.Fatalf("expected ErrEmptyWordList, got %v", err)
	}
	if _, err := New(Options{Words: []string{"Lek", "  "}, QuestionsPerRound: 5}); !errors.Is(err, ErrEmptyWordList) {
		t.Fatalf("expected ErrEmptyWordList for blank entry, got %v", err)
	}
	for _, n := range []int{0, -1, MaxQuestionsPerRound + 1} {
		if _, err := New(Options{Words: []string{"Lek"}, QuestionsPerRound: n}); !errors.Is(err, ErrInvalidQuestionCount) {
			t.Fatalf("count %d: expected ErrInvalidQuestionCount, got %v", n, err)
		}
	}
	if _, err := New(Options{Words: []string{"Lek"}, Mode: ModeUntilCorrect}); err != nil {
		t.Fatalf("until-correct mode needs no count: %v", err)
	}
}

func TestStartRoundDrawsAndSpeaks(t *testing.T) {
	s, sp := newTestSession(t, []string{"Waal", "Maas"}, Options{QuestionsPerRound: 5, Ordered: true})
	if err := s.StartRound(); err != nil {
		t.Fatalf("start round: %v", err)
	}
	snap := s.Snapshot()
	if snap.State != StateInRound || snap.QuestionNumber != 1 || snap.Current != "Waal" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	want := []utterance{{text: "Waal", rate: 0.85, pitch: 1.05}}
	if diff := cmp.Diff(want, sp.spoken, cmp.AllowUnexported(utterance{})); diff != "" {
		t.Fatalf("speech mismatch (-want +got):\n%s", diff)
	}
	if err := s.StartRound(); !errors.Is(err, ErrRoundInProgress) {
		t.Fatalf("expected ErrRoundInProgress, got %v", err)
	}
}

func TestSubmitWithoutQuestionIsRejected(t *testing.T) {
	s, _ := newTestSession(t, []string{"Waal"}, Options{QuestionsPerRound: 5})
	before := s.Snapshot()
	if _, err := s.Submit("Waal"); !errors.Is(err, ErrNoActiveQuestion) {
		t.Fatalf("expected ErrNoActiveQuestion, got %v", err)
	}
	if diff := cmp.Diff(before, s.Snapshot()); diff != "" {
		t.Fatalf("state changed on rejected submit (-want +got):\n%s", diff)
	}
}

func TestFixedRoundEndsAfterQuestionCount(t *testing.T) {
	words := []string{"Waddenzee", "IJsselmeer", "Markermeer", "IJssel", "Nederrijn", "Waal", "Maas"}
	s, sp := newTestSession(t, words, Options{QuestionsPerRound: 5})
	if err := s.StartRound(); err != nil {
		t.Fatalf("start round: %v", err)
	}
	correct := []bool{true, false, true, false, true}
	for i, ok := range correct {
		if s.State() != StateInRound {
			t.Fatalf("round ended early at question %d", i+1)
		}
		answer := "nope"
		if ok {
			answer = s.Current()
		}
		res := mustSubmit(t, s, answer)
		if res.Correct != ok {
			t.Fatalf("question %d: correct = %v, want %v", i+1, res.Correct, ok)
		}
	}
	snap := s.Snapshot()
	if snap.State != StateRoundComplete {
		t.Fatalf("expected round complete, got %s", snap.State)
	}
	if snap.RoundCorrect != 3 || snap.TotalCorrect != 3 || snap.TotalQuestions != 5 {
		t.Fatalf("unexpected counters: %+v", snap)
	}
	if snap.Accuracy != 60 || snap.Current != "" || snap.QuestionNumber != 5 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if len(snap.Mistakes) != 2 {
		t.Fatalf("expected 2 mistakes logged, got %d", len(snap.Mistakes))
	}
	texts := sp.texts()
	if len(texts) != 6 || texts[5] != DefaultSpeech.Phrase {
		t.Fatalf("expected 5 words then the phrase, got %v", texts)
	}
	if _, err := s.Submit("late"); !errors.Is(err, ErrNoActiveQuestion) {
		t.Fatalf("expected ErrNoActiveQuestion after round, got %v", err)
	}
}

func TestMistakeTallyLifecycle(t *testing.T) {
	s, _ := newTestSession(t, []string{"Lek"}, Options{QuestionsPerRound: 3})
	if err := s.StartRound(); err != nil {
		t.Fatalf("start round: %v", err)
	}
	mustSubmit(t, s, "Lec")
	mustSubmit(t, s, "Leck")
	if got := s.Snapshot().Tally["Lek"]; got != 2 {
		t.Fatalf("expected tally 2, got %d", got)
	}
	mustSubmit(t, s, "lek")
	if _, ok := s.Snapshot().Tally["Lek"]; ok {
		t.Fatalf("expected tally entry removed after correct answer")
	}
}

func TestMistakeEntryCapturesFeedback(t *testing.T) {
	s, _ := newTestSession(t, []string{"Waddenzee"}, Options{QuestionsPerRound: 1})
	if err := s.StartRound(); err != nil {
		t.Fatalf("start round: %v", err)
	}
	res := mustSubmit(t, s, "  Wadenzee ")
	snap := s.Snapshot()
	if len(snap.Mistakes) != 1 {
		t.Fatalf("expected one mistake, got %d", len(snap.Mistakes))
	}
	entry := snap.Mistakes[0]
	if entry.Word != "Waddenzee" || entry.Answer != "Wadenzee" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if diff := cmp.Diff(res.Feedback, entry.Feedback); diff != "" {
		t.Fatalf("feedback mismatch (-want +got):\n%s", diff)
	}
	if c := feedback.Count(entry.Feedback); c.Missing != 1 || c.Correct != 8 {
		t.Fatalf("unexpected feedback counts: %+v", c)
	}
	if snap.Last == nil || snap.Last.Attempt != "Wadenzee" || snap.Last.Correct {
		t.Fatalf("unexpected last result: %+v", snap.Last)
	}
}

func TestMissedWordReturnsOnRefill(t *testing.T) {
	s, _ := newTestSession(t, []string{"Waal", "Maas", "Lek"}, Options{QuestionsPerRound: 10, Ordered: true})
	if err := s.StartRound(); err != nil {
		t.Fatalf("start round: %v", err)
	}
	mustSubmit(t, s, "Wal")
	mustSubmit(t, s, "Maas")
	mustSubmit(t, s, "Lek")
	if got := s.Current(); got != "Waal" {
		t.Fatalf("expected missed word on refill, got %q", got)
	}
	mustSubmit(t, s, "Waal")
	if got := s.Current(); got != "Waal" {
		t.Fatalf("expected full ordered pass after tally cleared, got %q", got)
	}
}

func TestUntilCorrectMode(t *testing.T) {
	s, sp := newTestSession(t, []string{"Waal", "Maas"}, Options{Mode: ModeUntilCorrect, Ordered: true})
	if err := s.StartRound(); err != nil {
		t.Fatalf("start round: %v", err)
	}
	steps := []struct {
		word   string
		answer string
		done   bool
	}{
		{"Waal", "Wal", false},
		{"Maas", "Maas", false},
		{"Waal", "Wall", false},
		{"Waal", "waal", true},
	}
	for i, st := range steps {
		if got := s.Current(); got != st.word {
			t.Fatalf("step %d: asked %q, want %q", i, got, st.word)
		}
		mustSubmit(t, s, st.answer)
		if done := s.State() == StateRoundComplete; done != st.done {
			t.Fatalf("step %d: done = %v, want %v", i, done, st.done)
		}
	}
	snap := s.Snapshot()
	if snap.QuestionsPerRound != 4 || snap.RoundCorrect != 2 || len(snap.Tally) != 0 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if texts := sp.texts(); texts[len(texts)-1] != DefaultSpeech.Phrase {
		t.Fatalf("expected completion phrase, got %v", texts)
	}
}

func TestUntilCorrectCoversWholeList(t *testing.T) {
	s, _ := newTestSession(t, []string{"Waal", "Maas", "Lek"}, Options{Mode: ModeUntilCorrect, Ordered: true})
	if err := s.StartRound(); err != nil {
		t.Fatalf("start round: %v", err)
	}
	mustSubmit(t, s, "Waal")
	if s.State() != StateInRound {
		t.Fatalf("round ended before every word was answered")
	}
	mustSubmit(t, s, "Maas")
	mustSubmit(t, s, "Lek")
	if s.State() != StateRoundComplete {
		t.Fatalf("expected round complete, got %s", s.State())
	}
	if got := s.Snapshot().DisplayQuestion(); got != 3 {
		t.Fatalf("expected display question 3, got %d", got)
	}
}

func TestStartNextRoundKeepsTally(t *testing.T) {
	s, _ := newTestSession(t, []string{"Waal", "Maas"}, Options{QuestionsPerRound: 1, Ordered: true})
	if err := s.StartNextRound(); !errors.Is(err, ErrRoundNotComplete) {
		t.Fatalf("expected ErrRoundNotComplete, got %v", err)
	}
	if err := s.StartRound(); err != nil {
		t.Fatalf("start round: %v", err)
	}
	mustSubmit(t, s, "Wall")
	if err := s.StartNextRound(); err != nil {
		t.Fatalf("next round: %v", err)
	}
	snap := s.Snapshot()
	if snap.Round != 2 || snap.QuestionNumber != 1 || snap.RoundCorrect != 0 || len(snap.Mistakes) != 0 || snap.Last != nil {
		t.Fatalf("unexpected snapshot after next round: %+v", snap)
	}
	if snap.Current != "Waal" || snap.Tally["Waal"] != 1 {
		t.Fatalf("expected missed word to lead the next round: %+v", snap)
	}
	if snap.TotalQuestions != 1 {
		t.Fatalf("expected totals to carry over, got %d", snap.TotalQuestions)
	}
}

func TestReturnToStartKeepsTotals(t *testing.T) {
	s, sp := newTestSession(t, []string{"Waal", "Maas"}, Options{QuestionsPerRound: 5, Ordered: true})
	if err := s.StartRound(); err != nil {
		t.Fatalf("start round: %v", err)
	}
	mustSubmit(t, s, "Wal")
	mustSubmit(t, s, "Maas")
	s.ReturnToStart()
	snap := s.Snapshot()
	if snap.State != StateIdle || snap.QuestionNumber != 0 || snap.Current != "" || snap.RoundCorrect != 0 {
		t.Fatalf("unexpected round state: %+v", snap)
	}
	if snap.TotalQuestions != 2 || snap.TotalCorrect != 1 || snap.Tally["Waal"] != 1 || snap.Round != 1 {
		t.Fatalf("expected totals and tally kept: %+v", snap)
	}
	if sp.cancels != 1 {
		t.Fatalf("expected speech cancelled once, got %d", sp.cancels)
	}
	if _, err := s.Submit("Waal"); !errors.Is(err, ErrNoActiveQuestion) {
		t.Fatalf("expected ErrNoActiveQuestion, got %v", err)
	}
}

func TestResetClearsSession(t *testing.T) {
	s, _ := newTestSession(t, []string{"Waal"}, Options{QuestionsPerRound: 1})
	id := s.ID()
	if err := s.StartRound(); err != nil {
		t.Fatalf("start round: %v", err)
	}
	mustSubmit(t, s, "Wal")
	if err := s.Reset(nil, false); !errors.Is(err, ErrEmptyWordList) {
		t.Fatalf("expected ErrEmptyWordList, got %v", err)
	}
	if err := s.Reset([]string{"Drake", "Shakira"}, true); err != nil {
		t.Fatalf("reset: %v", err)
	}
	snap := s.Snapshot()
	if snap.TotalQuestions != 0 || snap.TotalCorrect != 0 || len(snap.Tally) != 0 || snap.Round != 1 || snap.State != StateIdle {
		t.Fatalf("expected cleared session: %+v", snap)
	}
	if snap.ID == id {
		t.Fatalf("expected a new session id")
	}
	if err := s.StartRound(); err != nil {
		t.Fatalf("start round: %v", err)
	}
	if s.Current() != "Drake" {
		t.Fatalf("expected first word of new list, got %q", s.Current())
	}
}

func TestSettingsLockedDuringRound(t *testing.T) {
	s, _ := newTestSession(t, []string{"Waal"}, Options{QuestionsPerRound: 5})
	if err := s.SetQuestionsPerRound(101); !errors.Is(err, ErrInvalidQuestionCount) {
		t.Fatalf("expected ErrInvalidQuestionCount, got %v", err)
	}
	if err := s.StartRound(); err != nil {
		t.Fatalf("start round: %v", err)
	}
	if err := s.SetQuestionsPerRound(10); !errors.Is(err, ErrRoundInProgress) {
		t.Fatalf("expected ErrRoundInProgress, got %v", err)
	}
	if err := s.SetMode(ModeUntilCorrect); !errors.Is(err, ErrRoundInProgress) {
		t.Fatalf("expected ErrRoundInProgress, got %v", err)
	}
}

func TestRepeatSpeech(t *testing.T) {
	s, sp := newTestSession(t, []string{"Lek"}, Options{QuestionsPerRound: 1})
	if err := s.RepeatWord(); !errors.Is(err, ErrNoActiveQuestion) {
		t.Fatalf("expected ErrNoActiveQuestion, got %v", err)
	}
	if err := s.StartRound(); err != nil {
		t.Fatalf("start round: %v", err)
	}
	if err := s.RepeatWord(); err != nil {
		t.Fatalf("repeat word: %v", err)
	}
	if err := s.RepeatCelebration(); !errors.Is(err, ErrRoundNotComplete) {
		t.Fatalf("expected ErrRoundNotComplete, got %v", err)
	}
	mustSubmit(t, s, "Lek")
	if err := s.RepeatCelebration(); err != nil {
		t.Fatalf("repeat celebration: %v", err)
	}
	want := []string{"Lek", "Lek", DefaultSpeech.Phrase, DefaultSpeech.Phrase}
	if diff := cmp.Diff(want, sp.texts()); diff != "" {
		t.Fatalf("speech mismatch (-want +got):\n%s", diff)
	}
}

func TestAccuracy(t *testing.T) {
	cases := []struct {
		correct, total, want int
	}{
		{0, 0, 0},
		{3, 4, 75},
		{1, 3, 33},
		{2, 3, 67},
		{5, 5, 100},
	}
	for _, tc := range cases {
		if got := Accuracy(tc.correct, tc.total); got != tc.want {
			t.Fatalf("Accuracy(%d, %d) = %d, want %d", tc.correct, tc.total, got, tc.want)
		}
	}
}

func TestDisplayQuestion(t *testing.T) {
	if got := (Snapshot{QuestionNumber: 0, QuestionsPerRound: 10}).DisplayQuestion(); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	if got := (Snapshot{QuestionNumber: 12, QuestionsPerRound: 10}).DisplayQuestion(); got != 10 {
		t.Fatalf("expected clamp to 10, got %d", got)
	}
}

func TestHistoryRecordsFinishedRounds(t *testing.T) {
	s, _ := newTestSession(t, []string{"Waal", "Maas"}, Options{QuestionsPerRound: 2, Ordered: true})
	if err := s.StartRound(); err != nil {
		t.Fatalf("start round: %v", err)
	}
	mustSubmit(t, s, "Waal")
	mustSubmit(t, s, "Mas")
	if err := s.StartNextRound(); err != nil {
		t.Fatalf("next round: %v", err)
	}
	s.ReturnToStart()

	want := []RoundSummary{{Round: 1, Mode: ModeFixed, Questions: 2, Correct: 1}}
	if diff := cmp.Diff(want, s.Snapshot().History); diff != "" {
		t.Fatalf("history mismatch (-want +got):\n%s", diff)
	}
	if err := s.Reset([]string{"Lek"}, false); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if got := s.Snapshot().History; len(got) != 0 {
		t.Fatalf("expected history cleared, got %+v", got)
	}
}
