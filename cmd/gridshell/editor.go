package main

import (
	"bytes"
	"strings"
	"unicode/utf8"

	gridshell "github.com/danielgatis/go-gridshell"
)

// scratch is a tiny editor core: it keeps a grid of runes, echoes typed text
// and moves the cursor with the arrow keys or the mouse.
type scratch struct {
	shell   *gridshell.Shell
	lines   [][]rune
	row     int
	col     int
	focused bool
	quit    bool
}

func newScratch() *scratch {
	return &scratch{focused: true}
}

func (e *scratch) attach(s *gridshell.Shell) {
	e.shell = s
	e.ResizeShell(0, 0)
}

func (e *scratch) renderer() *gridshell.Renderer {
	return e.shell.Renderer()
}

func (e *scratch) ResizeShell(width, height int) {
	rows, cols := e.renderer().Grid()
	e.row = min(e.row, max(rows-1, 0))
	e.col = min(e.col, max(cols-1, 0))
	e.redraw()
}

func (e *scratch) redraw() {
	r := e.renderer()
	r.ClearAll()
	for row, line := range e.lines {
		if len(line) > 0 {
			r.DrawString(row, 0, []byte(string(line)), 0)
		}
	}
	e.UpdateCursor(true, false)
}

func (e *scratch) cell(row, col int) string {
	if row < len(e.lines) && col < len(e.lines[row]) {
		return string(e.lines[row][col])
	}
	return " "
}

func (e *scratch) SendMouseEvent(button, x, y int, repeat bool, mods int) {
	if button != gridshell.MouseLeft {
		return
	}
	rows, cols := e.renderer().Grid()
	row, col := e.renderer().Metrics().CellAt(x, y)
	if row < 0 || col < 0 || row >= rows || col >= cols {
		return
	}
	e.UndrawCursor()
	e.row, e.col = row, col
	e.UpdateCursor(true, false)
}

func (e *scratch) MouseMoved(x, y int) {}

func (e *scratch) FocusChanged(focused bool) {
	e.focused = focused
	e.UpdateCursor(true, false)
}

func (e *scratch) ShellClosed() {
	e.quit = true
}

func (e *scratch) UndrawCursor() {
	e.renderer().DrawString(e.row, e.col, []byte(e.cell(e.row, e.col)), 0)
}

func (e *scratch) UpdateCursor(force, clearSelection bool) {
	r := e.renderer()
	fg, _, _ := r.Colors()
	r.SetCursorPosition(e.row, e.col)
	e.UndrawCursor()
	if !e.focused {
		r.DrawHollowCursor(fg)
		return
	}
	r.DrawPartCursor(2, r.Metrics().Height, fg)
}

func (e *scratch) HandleDrop(ev gridshell.DropEvent) {
	if len(ev.Files) > 0 {
		e.insert(strings.Join(ev.Files, " "))
		return
	}
	e.insert(ev.Text)
}

// feed consumes bytes from the shell's input buffer.
func (e *scratch) feed(in []byte) {
	for len(in) > 0 {
		if in[0] == gridshell.EscMark && len(in) >= 3 {
			if in[1] != gridshell.ModifierMark {
				e.special(in[1], in[2])
			}
			in = in[3:]
			continue
		}

		r, size := utf8.DecodeRune(in)
		in = in[size:]
		switch r {
		case 0x11: // Ctrl-Q
			e.quit = true
		case '\r':
			e.newline()
		case 0x7F, '\b':
			e.backspace()
		case 0x07:
			e.shell.Bell(true)
		default:
			if r >= 0x20 {
				e.insert(string(r))
			}
		}
	}
}

func (e *scratch) special(a, b byte) {
	rows, cols := e.renderer().Grid()
	e.UndrawCursor()
	switch string([]byte{a, b}) {
	case "ku":
		e.row = max(e.row-1, 0)
	case "kd":
		e.row = min(e.row+1, rows-1)
	case "kl":
		e.col = max(e.col-1, 0)
	case "kr":
		e.col = min(e.col+1, cols-1)
	case "kb":
		e.backspace()
	}
	e.UpdateCursor(true, false)
}

func (e *scratch) line(row int) []rune {
	for len(e.lines) <= row {
		e.lines = append(e.lines, nil)
	}
	return e.lines[row]
}

func (e *scratch) insert(text string) {
	_, cols := e.renderer().Grid()
	for _, r := range text {
		if r == '\n' {
			e.newline()
			continue
		}
		line := e.line(e.row)
		for len(line) <= e.col {
			line = append(line, ' ')
		}
		line[e.col] = r
		e.lines[e.row] = line
		e.col += e.renderer().DrawString(e.row, e.col, []byte(string(r)), 0)
		if e.col >= cols {
			e.newline()
		}
	}
	e.UpdateCursor(true, false)
}

func (e *scratch) newline() {
	rows, _ := e.renderer().Grid()
	e.UndrawCursor()
	e.col = 0
	if e.row < rows-1 {
		e.row++
		return
	}
	e.renderer().DeleteLines(0, 1)
	if len(e.lines) > 0 {
		e.lines = e.lines[1:]
	}
}

func (e *scratch) backspace() {
	if e.col == 0 {
		return
	}
	e.col--
	line := e.line(e.row)
	if e.col < len(line) {
		line[e.col] = ' '
	}
	e.renderer().ClearBlock(e.row, e.col, e.row, e.col)
	e.UpdateCursor(true, false)
}

func (e *scratch) text() string {
	var b bytes.Buffer
	for _, line := range e.lines {
		b.WriteString(strings.TrimRight(string(line), " "))
		b.WriteByte('\n')
	}
	return b.String()
}
