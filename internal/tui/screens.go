package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/verte-zerg/dictee/internal/session"
	"github.com/verte-zerg/dictee/internal/stats"
)

func (m *Model) updateStart(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.countMode {
		return m.updateCount(msg)
	}
	m.errMsg = ""
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "left", "h":
		m.settings.Questions = nextPreset(m.settings.Questions, -1)
		return m, nil
	case "right", "l":
		m.settings.Questions = nextPreset(m.settings.Questions, 1)
		return m, nil
	case "c":
		m.countMode = true
		m.countInput.SetValue(strconv.Itoa(m.settings.Questions))
		m.countInput.CursorEnd()
		return m, m.countInput.Focus()
	case "u":
		m.settings.UntilCorrect = !m.settings.UntilCorrect
		return m, nil
	case "enter":
		return m, m.startRound()
	}
	var cmd tea.Cmd
	m.listTable, cmd = m.listTable.Update(msg)
	if i := m.listTable.Cursor(); i >= 0 && i < len(m.lists) {
		m.settings.List = m.lists[i].Name
	}
	return m, cmd
}

func (m *Model) updateCount(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.countMode = false
		m.countInput.Blur()
		m.errMsg = ""
		return m, nil
	case tea.KeyEnter:
		n, err := strconv.Atoi(strings.TrimSpace(m.countInput.Value()))
		if err != nil {
			m.errMsg = "questions must be a number"
			return m, nil
		}
		m.settings.Questions = clampCount(n)
		m.countMode = false
		m.countInput.Blur()
		m.errMsg = ""
		return m, nil
	}
	var cmd tea.Cmd
	m.countInput, cmd = m.countInput.Update(msg)
	return m, cmd
}

func (m *Model) startRound() tea.Cmd {
	list, ok := m.findList(m.settings.List)
	if !ok {
		m.errMsg = fmt.Sprintf("unknown word list %q", m.settings.List)
		return nil
	}
	if list.Name != m.active {
		if err := m.sess.Reset(list.Entries, !list.Random); err != nil {
			m.errMsg = err.Error()
			return nil
		}
		m.logger.Info("word list switched", zap.String("session", m.sess.ID()), zap.String("list", list.Name))
		m.active = list.Name
	}
	mode := session.ModeFixed
	if m.settings.UntilCorrect {
		mode = session.ModeUntilCorrect
	}
	if err := m.sess.SetMode(mode); err != nil {
		m.errMsg = err.Error()
		return nil
	}
	if err := m.sess.SetQuestionsPerRound(m.settings.Questions); err != nil {
		m.errMsg = err.Error()
		return nil
	}
	if err := m.sess.StartRound(); err != nil {
		m.errMsg = err.Error()
		return nil
	}
	return m.beginQuestions()
}

func (m *Model) beginQuestions() tea.Cmd {
	m.showMistakes = false
	m.errMsg = ""
	m.answer.Reset()
	return m.answer.Focus()
}

func (m *Model) updateQuestion(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.sess.ReturnToStart()
		m.answer.Blur()
		m.answer.Reset()
		return m, nil
	case tea.KeyCtrlR:
		if err := m.sess.RepeatWord(); err != nil {
			m.logger.Warn("repeat word rejected", zap.Error(err))
		}
		return m, nil
	case tea.KeyEnter:
		if _, err := m.sess.Submit(m.answer.Value()); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.answer.Reset()
		if m.sess.State() == session.StateRoundComplete {
			m.answer.Blur()
			m.refreshMistakes()
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.answer, cmd = m.answer.Update(msg)
	return m, cmd
}

func (m *Model) updateRoundEnd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "enter", "n":
		if err := m.sess.StartNextRound(); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		return m, m.beginQuestions()
	case "m":
		m.showMistakes = !m.showMistakes
		return m, nil
	case "r":
		if err := m.sess.RepeatCelebration(); err != nil {
			m.logger.Warn("repeat phrase rejected", zap.Error(err))
		}
		return m, nil
	case "esc":
		m.sess.ReturnToStart()
		return m, nil
	}
	if m.showMistakes {
		var cmd tea.Cmd
		m.mistakes, cmd = m.mistakes.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) viewStart() string {
	lines := []string{titleStyle.Render("dictee"), "", m.listTable.View(), ""}
	questions := fmt.Sprintf("Questions: %d", m.settings.Questions)
	if m.settings.UntilCorrect {
		questions = mutedStyle.Render(questions + " (ignored)")
	}
	mode := "Mode: fixed"
	if m.settings.UntilCorrect {
		mode = "Mode: until correct"
	}
	lines = append(lines, questions, mode)
	if m.countMode {
		lines = append(lines, "", m.countInput.View())
	}
	return strings.Join(lines, "\n")
}

func (m *Model) viewQuestion() string {
	snap := m.sess.Snapshot()
	header := fmt.Sprintf("Round %d · Question %d", snap.Round, snap.DisplayQuestion())
	if snap.Mode == session.ModeFixed {
		header += fmt.Sprintf("/%d", snap.QuestionsPerRound)
	}
	lines := []string{
		titleStyle.Render(header),
		mutedStyle.Render(fmt.Sprintf("Score %d/%d · Accuracy %d%%", snap.TotalCorrect, snap.TotalQuestions, snap.Accuracy)),
		"",
	}
	if snap.Last != nil {
		lines = append(lines, m.renderResult(snap.Last), "")
	}
	if m.settings.ShowWord {
		lines = append(lines, "Write: "+snap.Current)
	}
	lines = append(lines, m.answer.View())
	return strings.Join(lines, "\n")
}

func (m *Model) viewRoundEnd() string {
	snap := m.sess.Snapshot()
	lines := []string{
		titleStyle.Render(fmt.Sprintf("Round %d complete", snap.Round)),
		fmt.Sprintf("Score %d/%d · Accuracy %d%%", snap.RoundCorrect, snap.QuestionNumber, session.Accuracy(snap.RoundCorrect, snap.QuestionNumber)),
		mutedStyle.Render(fmt.Sprintf("Session %d/%d · %d%%", snap.TotalCorrect, snap.TotalQuestions, snap.Accuracy)),
		"",
	}
	if snap.Last != nil {
		lines = append(lines, m.renderResult(snap.Last), "")
	}
	if missed := stats.TopMissed(snap.Tally, 5); len(missed) > 0 {
		parts := make([]string, 0, len(missed))
		for _, w := range missed {
			parts = append(parts, fmt.Sprintf("%s ×%d", w.Word, w.Misses))
		}
		lines = append(lines, "Still practising: "+strings.Join(parts, ", "))
	}
	if m.showMistakes {
		lines = append(lines, "", panelStyle.Render(m.mistakes.View()))
	} else if len(snap.Mistakes) > 0 {
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("%d mistakes this round, press m to review", len(snap.Mistakes))))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderResult(res *session.Result) string {
	badge := goodBadge.Render("Correct")
	if !res.Correct {
		badge = badBadge.Render("Incorrect")
	}
	return badge + "  " + res.Word + "\n" + RenderLetters(res.Feedback, m.contentWidth(), true)
}

func (m *Model) refreshMistakes() {
	snap := m.sess.Snapshot()
	if len(snap.Mistakes) == 0 {
		m.mistakes.SetContent(mutedStyle.Render("No mistakes this round."))
		return
	}
	width := max(m.mistakes.Width-4, 0)
	blocks := make([]string, 0, len(snap.Mistakes))
	for i, entry := range snap.Mistakes {
		answer := entry.Answer
		if answer == "" {
			answer = "(empty)"
		}
		blocks = append(blocks, fmt.Sprintf("%d. %s  %s\n%s", i+1, entry.Word, mutedStyle.Render(answer),
			RenderLetters(entry.Feedback, width, true)))
	}
	m.mistakes.SetContent(strings.Join(blocks, "\n\n"))
	m.mistakes.GotoTop()
}
