package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/dictee/internal/feedback"
)

type styledCell struct {
	s       string
	width   int
	isSpace bool
}

// letterCells turns aligned letters into printable cells separated by
// breakable spaces.
func letterCells(letters []feedback.Letter, styled bool) []styledCell {
	out := make([]styledCell, 0, len(letters)*2)
	for i, l := range letters {
		if i > 0 {
			out = append(out, styledCell{s: " ", width: 1, isSpace: true})
		}
		label := feedback.Label(l)
		text := label
		if styled {
			text = letterStyle(l).Render(label)
		}
		out = append(out, styledCell{s: text, width: runewidth.StringWidth(label)})
	}
	return out
}

func letterStyle(l feedback.Letter) lipgloss.Style {
	switch l.(type) {
	case feedback.Correct:
		return correctStyle
	case feedback.Wrong:
		return wrongStyle
	case feedback.Missing:
		return missingStyle
	default:
		return extraStyle
	}
}

// RenderLetters renders aligned letters wrapped to width cells. Without
// styling the output is plain text.
func RenderLetters(letters []feedback.Letter, width int, styled bool) string {
	return wrapCells(letterCells(letters, styled), width)
}

func renderCells(cells []styledCell) string {
	var b strings.Builder
	for _, item := range cells {
		b.WriteString(item.s)
	}
	return b.String()
}

func wrapCells(cells []styledCell, width int) string {
	if width <= 0 {
		return renderCells(cells)
	}
	var out strings.Builder
	line := make([]styledCell, 0, len(cells))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(cells); {
		item := cells[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out.WriteString(renderCells(line[:lastSpaceIdx]))
				out.WriteRune('\n')
				line = append([]styledCell{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				out.WriteString(renderCells(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderCells(line))
	return out.String()
}

func lineWidthOf(line []styledCell) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledCell) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}
