package main

import (
	"github.com/gdamore/tcell/v2"
)

// translateKey turns a tcell key into the gate's key vocabulary.
func translateKey(ev *tcell.EventKey) (KeyEvent, bool) {
	mod := ev.Modifiers()&(tcell.ModCtrl|tcell.ModMeta) != 0
	var name string
	switch ev.Key() {
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		name = KeyBackspace
	case tcell.KeyDelete:
		name = KeyDelete
	case tcell.KeyEnter:
		name = KeyEnter
	case tcell.KeyTab:
		name = KeyTab
	case tcell.KeyLeft:
		name = KeyArrowLeft
	case tcell.KeyRight:
		name = KeyArrowRight
	case tcell.KeyUp:
		name = KeyArrowUp
	case tcell.KeyDown:
		name = KeyArrowDown
	case tcell.KeyHome:
		name = KeyHome
	case tcell.KeyEnd:
		name = KeyEnd
	case tcell.KeyPgUp:
		name = KeyPageUp
	case tcell.KeyPgDn:
		name = KeyPageDown
	case tcell.KeyRune:
		if ev.Rune() < 32 {
			return KeyEvent{}, false
		}
		name = string(ev.Rune())
	default:
		return KeyEvent{}, false
	}
	shift := ev.Modifiers()&tcell.ModShift != 0 && (name == KeyArrowLeft || name == KeyArrowRight)
	return KeyEvent{Key: name, CtrlOrCmd: mod, Shift: shift}, true
}

// handleKey runs editor shortcuts and gates everything else. It reports
// whether the user asked to quit.
func (e *Editor) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlQ:
		return true
	case tcell.KeyCtrlT:
		e.toggleTypewriter()
		return false
	case tcell.KeyCtrlB:
		e.toggleMarginAlerts()
		return false
	case tcell.KeyCtrlS:
		e.export()
		return false
	case tcell.KeyCtrlY:
		e.copyToClipboard()
		return false
	case tcell.KeyF2:
		e.cycleFontSize()
		return false
	case tcell.KeyF3:
		e.cycleFontFamily()
		return false
	case tcell.KeyF4:
		e.cycleMargin()
		return false
	}

	kev, ok := translateKey(ev)
	if !ok {
		return false
	}
	e.session.Type(kev, e.buf)
	return false
}

func (e *Editor) handleMouse(ev *tcell.EventMouse) {
	if ev.Buttons() != tcell.Button1 {
		return
	}
	x, y := ev.Position()
	// Don't allow clicking on the status bar
	if y < 0 || y >= e.height-1 {
		return
	}
	e.buf.SetCursorOffset(e.offsetAt(x, y))
	if e.session.SelectionChanged(e.buf) == RejectWithRelocate {
		e.message = "The carriage only moves forward"
	}
}

// offsetAt maps a screen cell to the nearest document offset.
func (e *Editor) offsetAt(x, y int) int {
	f := e.session.Frame(e.buf)
	col, row := e.typingPoint()
	line := f.Position.Line + (y - row)
	if line < 0 {
		line = 0
	}
	if last := e.buf.LineCount() - 1; line > last {
		line = last
	}
	target := f.Position.Column + (x - col)
	if target < 0 {
		target = 0
	}
	if n := runeLen(e.buf.Line(line)); target > n {
		target = n
	}
	return LineStartOffset(e.buf.Text(), line) + target
}

func (e *Editor) run() error {
	defer e.screen.Fini()

	e.draw()

	for {
		ev := e.screen.PollEvent()
		if ev == nil {
			return nil
		}

		switch ev := ev.(type) {
		case *tcell.EventKey:
			e.message = ""
			if e.handleKey(ev) {
				return nil
			}
		case *tcell.EventResize:
			e.handleResize()
		case *tcell.EventMouse:
			e.handleMouse(ev)
		case *tcell.EventInterrupt:
			e.handleInterrupt(ev)
		}

		e.draw()
	}
}
