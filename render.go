package main

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"
)

// displayWidth returns the display width of a string considering CJK characters
func displayWidth(s string) int {
	return runewidth.StringWidth(s)
}

// displayWidthRune returns the display width of a single rune
func displayWidthRune(r rune) int {
	return runewidth.RuneWidth(r)
}

// hexColor converts a #rrggbb string to a tcell colour, or def if it
// doesn't parse.
func hexColor(hex string, def tcell.Color) tcell.Color {
	c, err := colorful.Hex(hex)
	if err != nil {
		return def
	}
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

// typingPoint is the fixed screen cell the carriage types at. The paper
// moves under it.
func (e *Editor) typingPoint() (col, row int) {
	return e.width / 2, (e.height - 1) / 2
}

// paperCells converts the frame's pixel geometry to terminal cells.
func paperCells(f Frame) (shiftCols, shiftRows, marginCols, marginRows, widthCols int) {
	l := f.Layout
	shiftCols = int(math.Round(f.OffsetX / l.CharWidthPx))
	shiftRows = int(math.Round(f.OffsetY / l.LineHeightPx))
	marginCols = int(math.Round(l.LeftMarginPx / l.CharWidthPx))
	marginRows = int(math.Round(l.TopMarginPx / l.LineHeightPx))
	widthCols = int(math.Round(l.PaperWidthPx / l.CharWidthPx))
	return
}

func (e *Editor) draw() {
	e.screen.Clear()

	f := e.session.Frame(e.buf)
	settings := e.session.Settings()
	paper := tcell.StyleDefault.
		Background(hexColor(settings.PaperColor, tcell.ColorWhite)).
		Foreground(hexColor(settings.InkColor, tcell.ColorBlack))

	col, row := e.typingPoint()
	shiftCols, shiftRows, marginCols, marginRows, widthCols := paperCells(f)

	// Column 0 of line 0 sits at (originX, originY).
	originX := col + shiftCols
	originY := row + shiftRows
	left := originX - marginCols
	top := originY - marginRows

	for y := max(top, 0); y < e.height-1; y++ {
		for x := max(left, 0); x < left+widthCols && x < e.width; x++ {
			e.screen.SetContent(x, y, ' ', nil, paper)
		}
	}

	selStart, selEnd := e.buf.SelectionRange()
	offset := 0 // codepoint offset of the start of line i
	for i := 0; i < e.buf.LineCount(); i++ {
		line := e.buf.Line(i)
		y := originY + i
		if y >= e.height-1 {
			break
		}
		if y >= 0 {
			x := originX
			for j, r := range []rune(line) {
				if x >= e.width {
					break
				}
				if x >= 0 {
					style := paper
					if idx := offset + j; idx >= selStart && idx < selEnd {
						style = paper.Reverse(true)
					}
					e.screen.SetContent(x, y, paperRune(r), nil, style)
				}
				x++
			}
		}
		offset += runeLen(line) + 1
	}

	e.drawStatusBar(f)
	e.screen.ShowCursor(col, row)
	e.screen.Show()
}

// paperRune keeps one rune per column: anything that wouldn't fill exactly
// one cell is shown as a space.
func paperRune(r rune) rune {
	if r == '\t' || displayWidthRune(r) != 1 {
		return ' '
	}
	return r
}

func (e *Editor) statusLine(f Frame) string {
	settings := e.session.Settings()
	status := fmt.Sprintf(" Ln %d/%d, Col %d/%d | %dpx %s | margin %dpx",
		f.LineNumber, f.Position.TotalLines, f.Position.Column+1, f.Layout.MaxColumns,
		settings.FontSizePx, settings.FontFamily, settings.MarginPx)
	if e.session.Typewriter().Enabled {
		status += " | TYPEWRITER"
	}
	if f.Bell {
		status += " | DING"
	}
	if e.message != "" {
		status += " | " + e.message
	}
	return status
}

func (e *Editor) drawStatusBar(f Frame) {
	statusStyle := tcell.StyleDefault.Background(tcell.ColorGray).Foreground(tcell.ColorWhite)
	if f.Alert {
		statusStyle = tcell.StyleDefault.Background(tcell.ColorDarkRed).Foreground(tcell.ColorWhite).Bold(true)
	}

	// Clear the status bar line
	for x := 0; x < e.width; x++ {
		e.screen.SetContent(x, e.height-1, ' ', nil, statusStyle)
	}

	e.drawText(0, e.height-1, e.statusLine(f), statusStyle)
}

func (e *Editor) drawText(x, y int, text string, style tcell.Style) {
	col := x
	for _, r := range text {
		e.screen.SetContent(col, y, r, nil, style)
		col += displayWidthRune(r)
		if col >= e.width {
			break
		}
	}
}

func (e *Editor) prompt(prompt string) string {
	style := tcell.StyleDefault.Background(tcell.ColorBlue).Foreground(tcell.ColorWhite)
	return e.promptWithInitial(prompt, "", style)
}

// promptWithInitial reads a line of input on the status bar. Interrupts
// that arrive meanwhile are still handled.
func (e *Editor) promptWithInitial(prompt, initial string, style tcell.Style) string {
	input := []rune(initial)
	redraw := func() {
		for x := 0; x < e.width; x++ {
			e.screen.SetContent(x, e.height-1, ' ', nil, style)
		}
		text := prompt + string(input)
		e.drawText(0, e.height-1, text, style)
		e.screen.ShowCursor(min(displayWidth(text), e.width-1), e.height-1)
		e.screen.Show()
	}
	redraw()

	for {
		ev := e.screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			return ""
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyEnter:
				return string(input)
			case tcell.KeyEscape:
				return ""
			case tcell.KeyBackspace, tcell.KeyBackspace2:
				if len(input) > 0 {
					input = input[:len(input)-1]
				}
			default:
				if r := ev.Rune(); ev.Key() == tcell.KeyRune && r != 0 {
					input = append(input, r)
				}
			}
		case *tcell.EventInterrupt:
			e.handleInterrupt(ev)
		case *tcell.EventResize:
			e.handleResize()
		}
		redraw()
	}
}

// promptYesNo asks a yes/no question and returns true for yes, false for no
func (e *Editor) promptYesNo(question string) bool {
	response := e.prompt(question + " (y/n): ")
	return response == "y" || response == "Y"
}
