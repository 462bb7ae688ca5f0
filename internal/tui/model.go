// Package tui provides the Bubble Tea dictation interface.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/verte-zerg/dictee/internal/model"
	"github.com/verte-zerg/dictee/internal/session"
)

// PresetCounts are the round lengths offered on the start screen.
var PresetCounts = []int{5, 10, 15, 20, 30}

// SpeakingMsg reports that speech started (true) or stopped (false).
type SpeakingMsg bool

// Settings are the start screen choices.
type Settings struct {
	List         string
	Questions    int
	UntilCorrect bool
	// ShowWord prints the word being asked, for when speech is off.
	ShowWord bool
}

var (
	titleStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	correctStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	wrongStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	missingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	extraStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Strikethrough(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	goodBadge    = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true)
	badBadge     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")).Bold(true)
	panelStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
)

// Model implements the Bubble Tea dictation UI on top of a session.
type Model struct {
	sess   *session.Session
	lists  []model.WordList
	active string
	logger *zap.Logger

	settings Settings
	notice   string
	errMsg   string
	speaking bool

	width  int
	height int

	listTable    table.Model
	countMode    bool
	countInput   textinput.Model
	answer       textinput.Model
	showMistakes bool
	mistakes     viewport.Model
}

// NewModel constructs the UI. sess must already hold the words of the list
// named by settings.List.
func NewModel(sess *session.Session, lists []model.WordList, settings Settings, logger *zap.Logger) *Model {
	if logger == nil {
		logger = zap.NewNop()
	}
	settings.Questions = clampCount(settings.Questions)
	m := &Model{
		sess:     sess,
		lists:    lists,
		active:   settings.List,
		logger:   logger,
		settings: settings,
		answer:   newInput("> "),
		mistakes: viewport.New(60, 10),
	}
	m.countInput = newInput("Questions (1-100): ")
	m.countInput.CharLimit = 3
	m.answer.CharLimit = 200
	m.answer.Placeholder = "type what you hear"
	m.initListTable()
	return m
}

// SetNotice shows a persistent message in the footer.
func (m *Model) SetNotice(notice string) {
	m.notice = notice
}

func newInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) initListTable() {
	columns := []table.Column{
		{Title: "List", Width: 24},
		{Title: "Words", Width: 6},
		{Title: "Order", Width: 8},
		{Title: "Source", Width: 8},
	}
	rows := make([]table.Row, 0, len(m.lists))
	selected := 0
	for i, list := range m.lists {
		order := "ordered"
		if list.Random {
			order = "random"
		}
		source := "user"
		if list.Builtin {
			source = "built-in"
		}
		rows = append(rows, table.Row{truncateLine(list.Name, 24), fmt.Sprintf("%d", len(list.Entries)), order, source})
		if list.Name == m.settings.List {
			selected = i
		}
	}
	m.listTable = table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(min(max(len(rows), 1), 8)+1),
		table.WithFocused(true),
	)
	m.listTable.SetStyles(listTableStyles())
	m.listTable.SetCursor(selected)
}

func listTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#C89A3A")).
		Bold(true)
	return styles
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateLayout()
		return m, nil
	case SpeakingMsg:
		m.speaking = bool(msg)
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.sess.State() {
		case session.StateInRound:
			return m.updateQuestion(msg)
		case session.StateRoundComplete:
			return m.updateRoundEnd(msg)
		default:
			return m.updateStart(msg)
		}
	}

	var cmd tea.Cmd
	switch {
	case m.sess.State() == session.StateInRound:
		m.answer, cmd = m.answer.Update(msg)
	case m.countMode:
		m.countInput, cmd = m.countInput.Update(msg)
	}
	return m, cmd
}

func (m *Model) updateLayout() {
	if m.width <= 0 {
		return
	}
	w := m.contentWidth()
	m.answer.Width = max(w-lipgloss.Width(m.answer.Prompt)-1, 1)
	m.mistakes.Width = w
	m.mistakes.Height = max(m.height/3, 3)
	m.refreshMistakes()
}

func (m *Model) contentWidth() int {
	if m.width <= 0 {
		return 0
	}
	return max(int(float64(m.width)*0.70), 1)
}

// View implements tea.Model.
func (m *Model) View() string {
	var body string
	switch m.sess.State() {
	case session.StateInRound:
		body = m.viewQuestion()
	case session.StateRoundComplete:
		body = m.viewRoundEnd()
	default:
		body = m.viewStart()
	}
	if m.errMsg != "" {
		body += "\n\n" + errorStyle.Render(m.errMsg)
	}
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return body + "\n\n" + footer
	}
	content := lipgloss.NewStyle().Width(m.contentWidth()).Render(body)
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	bodyHeight := m.height - 1
	top := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return top + "\n" + footerLine
}

func (m *Model) renderFooter() string {
	var help string
	switch {
	case m.sess.State() == session.StateInRound:
		help = "enter: check  ctrl+r: repeat word  esc: start screen  ctrl+c: quit"
	case m.sess.State() == session.StateRoundComplete:
		help = "enter: next round  m: mistakes  r: repeat phrase  esc: start screen  q: quit"
	case m.countMode:
		help = "enter: apply  esc: cancel"
	default:
		help = "up/down: list  left/right: questions  c: custom  u: until correct  enter: start  q: quit"
	}
	segments := []string{help}
	if m.speaking {
		segments = append(segments, "♪ speaking")
	}
	if m.notice != "" {
		segments = append(segments, m.notice)
	}
	text := strings.Join(segments, "  ·  ")
	if m.width > 0 {
		text = truncateLine(text, m.width)
	}
	return footerStyle.Render(text)
}

func (m *Model) findList(name string) (model.WordList, bool) {
	for _, list := range m.lists {
		if list.Name == name {
			return list, true
		}
	}
	return model.WordList{}, false
}

func clampCount(n int) int {
	return min(max(n, 1), session.MaxQuestionsPerRound)
}

// nextPreset steps through PresetCounts from current, wrapping around.
// A custom count moves to the nearest preset in the given direction.
func nextPreset(current, delta int) int {
	if delta > 0 {
		for _, p := range PresetCounts {
			if p > current {
				return p
			}
		}
		return PresetCounts[0]
	}
	for i := len(PresetCounts) - 1; i >= 0; i-- {
		if PresetCounts[i] < current {
			return PresetCounts[i]
		}
	}
	return PresetCounts[len(PresetCounts)-1]
}
