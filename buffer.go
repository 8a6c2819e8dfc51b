package main

import "unicode/utf8"

// Buffer is the host's view of the document. The core reads it on demand
// and never keeps a copy. Offsets count codepoints.
type Buffer interface {
	Text() string
	CursorOffset() int
	SetCursorOffset(int)
	SelectionRange() (start, end int)
}

// EditableBuffer is a Buffer that can also perform the default action of a
// key once the gate has accepted it.
type EditableBuffer interface {
	Buffer
	InsertText(s string)
	ApplyKey(ev KeyEvent)
}

// TextBuffer is the in-memory document behind the terminal editor.
type TextBuffer struct {
	runes  []rune
	cursor int
	anchor int // selection anchor; equal to cursor when collapsed
}

func NewTextBuffer(text string) *TextBuffer {
	return &TextBuffer{runes: []rune(text)}
}

func (b *TextBuffer) Text() string {
	return string(b.runes)
}

func (b *TextBuffer) Len() int {
	return len(b.runes)
}

func (b *TextBuffer) CursorOffset() int {
	return b.cursor
}

// SetCursorOffset moves the cursor and collapses the selection.
func (b *TextBuffer) SetCursorOffset(n int) {
	b.cursor = b.clamp(n)
	b.anchor = b.cursor
}

// Select sets a selection from anchor to cursor.
func (b *TextBuffer) Select(anchor, cursor int) {
	b.anchor = b.clamp(anchor)
	b.cursor = b.clamp(cursor)
}

func (b *TextBuffer) SelectionRange() (int, int) {
	if b.anchor < b.cursor {
		return b.anchor, b.cursor
	}
	return b.cursor, b.anchor
}

func (b *TextBuffer) clamp(n int) int {
	if n < 0 {
		return 0
	}
	if n > len(b.runes) {
		return len(b.runes)
	}
	return n
}

// InsertText replaces the selection with s and leaves the cursor after it.
func (b *TextBuffer) InsertText(s string) {
	start, end := b.SelectionRange()
	b.runes = runeDelete(b.runes, start, end)
	ins := []rune(s)
	b.runes = runeInsert(b.runes, start, ins)
	b.SetCursorOffset(start + len(ins))
}

// ApplyKey performs what a plain text control does for the key.
// Shortcuts (CtrlOrCmd) and Tab are left to the caller.
func (b *TextBuffer) ApplyKey(ev KeyEvent) {
	if ev.CtrlOrCmd {
		switch ev.Key {
		case KeyHome:
			b.SetCursorOffset(0)
		case KeyEnd:
			b.SetCursorOffset(len(b.runes))
		}
		return
	}
	if ev.Shift && (ev.Key == KeyArrowLeft || ev.Key == KeyArrowRight) {
		b.extendSelection(ev.Key)
		return
	}
	switch ev.Key {
	case KeyEnter:
		b.InsertText("\n")
	case KeyBackspace:
		b.backspace()
	case KeyDelete:
		b.deleteForward()
	case KeyArrowLeft:
		start, end := b.SelectionRange()
		if start != end {
			b.SetCursorOffset(start)
		} else {
			b.SetCursorOffset(b.cursor - 1)
		}
	case KeyArrowRight:
		start, end := b.SelectionRange()
		if start != end {
			b.SetCursorOffset(end)
		} else {
			b.SetCursorOffset(b.cursor + 1)
		}
	case KeyArrowUp:
		b.moveLines(-1)
	case KeyArrowDown:
		b.moveLines(1)
	case KeyPageUp:
		b.moveLines(-pageLines)
	case KeyPageDown:
		b.moveLines(pageLines)
	case KeyHome:
		pos := ComputePosition(b.Text(), b.cursor)
		b.SetCursorOffset(b.cursor - pos.Column)
	case KeyEnd:
		b.SetCursorOffset(b.lineEnd(b.cursor))
	default:
		if ev.Printable() {
			b.InsertText(ev.Key)
		}
	}
}

// extendSelection moves the cursor one codepoint and keeps the anchor.
func (b *TextBuffer) extendSelection(key string) {
	if key == KeyArrowLeft {
		b.cursor = b.clamp(b.cursor - 1)
	} else {
		b.cursor = b.clamp(b.cursor + 1)
	}
}

// lines moved by PageUp and PageDown
const pageLines = 10

func (b *TextBuffer) backspace() {
	start, end := b.SelectionRange()
	if start != end {
		b.InsertText("")
		return
	}
	if b.cursor == 0 {
		return
	}
	b.runes = runeDelete(b.runes, b.cursor-1, b.cursor)
	b.SetCursorOffset(b.cursor - 1)
}

func (b *TextBuffer) deleteForward() {
	start, end := b.SelectionRange()
	if start != end {
		b.InsertText("")
		return
	}
	b.runes = runeDelete(b.runes, b.cursor, b.cursor+1)
	b.SetCursorOffset(b.cursor)
}

// moveLines moves the cursor by delta lines, keeping the column when the
// target line is long enough.
func (b *TextBuffer) moveLines(delta int) {
	text := b.Text()
	pos := ComputePosition(text, b.cursor)
	target := pos.Line + delta
	if target < 0 {
		b.SetCursorOffset(0)
		return
	}
	if target >= pos.TotalLines {
		b.SetCursorOffset(len(b.runes))
		return
	}
	start := LineStartOffset(text, target)
	end := b.lineEnd(start)
	col := pos.Column
	if start+col > end {
		col = end - start
	}
	b.SetCursorOffset(start + col)
}

func (b *TextBuffer) lineEnd(from int) int {
	i := from
	for i < len(b.runes) && b.runes[i] != '\n' {
		i++
	}
	return i
}

// LineCount returns the number of lines in the document.
func (b *TextBuffer) LineCount() int {
	n := 1
	for _, r := range b.runes {
		if r == '\n' {
			n++
		}
	}
	return n
}

// Line returns line i without its line break.
func (b *TextBuffer) Line(i int) string {
	if i < 0 || i >= b.LineCount() {
		return ""
	}
	start := LineStartOffset(b.Text(), i)
	return string(b.runes[start:b.lineEnd(start)])
}

// runeLen returns the number of runes in a string
func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// runeInsert inserts ins at a rune position
func runeInsert(runes []rune, pos int, ins []rune) []rune {
	if pos < 0 {
		pos = 0
	}
	if pos > len(runes) {
		pos = len(runes)
	}
	result := make([]rune, len(runes)+len(ins))
	copy(result, runes[:pos])
	copy(result[pos:], ins)
	copy(result[pos+len(ins):], runes[pos:])
	return result
}

// runeDelete deletes runes from start to end position (end exclusive)
func runeDelete(runes []rune, start, end int) []rune {
	if start < 0 {
		start = 0
	}
	if end > len(runes) {
		end = len(runes)
	}
	if start >= end {
		return runes
	}
	result := make([]rune, len(runes)-(end-start))
	copy(result, runes[:start])
	copy(result[start:], runes[end:])
	return result
}
