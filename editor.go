package main

import (
	"log"

	"github.com/gdamore/tcell/v2"
)

// Editor is the terminal host: it owns the screen and the document and
// feeds every event through the session before the document changes.
type Editor struct {
	screen       tcell.Screen
	buf          *TextBuffer
	session      *Session
	clipboard    Clipboard
	viewport     func(cols int, cellPx float64) float64 // viewport width in pixels
	settingsPath string                                 // where keyboard changes to settings are saved; empty disables saving
	exportPath   string                                 // default target of Ctrl+S
	saved        []Settings                             // most recent saves, oldest first
	width        int
	height       int
	message      string // one-shot status message
}

// recentSaves bounds how many of its own saves the editor remembers when
// telling them apart from outside edits.
const recentSaves = 8

// Options configures a new Editor.
type Options struct {
	Settings     Settings
	SettingsPath string
	ExportPath   string
	Measurer     GlyphMeasurer
	Clipboard    Clipboard
	Viewport     func(cols int, cellPx float64) float64
}

// NewEditor builds an editor on an initialised screen.
func NewEditor(screen tcell.Screen, opts Options) *Editor {
	if opts.Measurer == nil {
		opts.Measurer = NewFontMeasurer()
	}
	if opts.Clipboard == nil {
		opts.Clipboard = systemClipboard{}
	}
	if opts.Viewport == nil {
		opts.Viewport = terminalViewportWidth
	}

	width, height := screen.Size()
	e := &Editor{
		screen:       screen,
		buf:          NewTextBuffer(""),
		clipboard:    opts.Clipboard,
		viewport:     opts.Viewport,
		settingsPath: opts.SettingsPath,
		exportPath:   opts.ExportPath,
		width:        width,
		height:       height,
	}
	bell := NewBell(BellDuration, nil, func() { e.post(bellExpired{}) })
	e.session = NewSession(opts.Measurer, opts.Settings, e.viewport(width, opts.Settings.CellWidthPx), WithBell(bell))
	if opts.Settings.Typewriter {
		e.session.SetTypewriter(true, e.buf)
	}
	return e
}

// interrupt payloads posted to the event loop
type (
	bellExpired     struct{}
	settingsChanged struct{ settings Settings }
	watchFailed     struct{ err error }
)

// post hands data to the event loop. It is safe to call from any goroutine.
func (e *Editor) post(data interface{}) {
	if err := e.screen.PostEvent(tcell.NewEventInterrupt(data)); err != nil {
		log.Printf("dropping %T: %v", data, err)
	}
}

func (e *Editor) handleResize() {
	e.width, e.height = e.screen.Size()
	e.session.Resize(e.viewport(e.width, e.session.Settings().CellWidthPx))
	e.screen.Clear()
}

func (e *Editor) handleInterrupt(ev *tcell.EventInterrupt) {
	switch data := ev.Data().(type) {
	case bellExpired:
		// nothing to change; the redraw after this event clears the bell
	case settingsChanged:
		if e.isOwnSave(data.settings) {
			return
		}
		e.session.ApplySettings(data.settings, e.buf)
		e.session.Resize(e.viewport(e.width, e.session.Settings().CellWidthPx))
		e.message = "Settings reloaded"
	case watchFailed:
		log.Printf("settings watcher: %v", data.err)
	}
}

func (e *Editor) toggleTypewriter() {
	on := !e.session.Typewriter().Enabled
	e.session.SetTypewriter(on, e.buf)
	if on {
		e.message = "Typewriter mode on"
	} else {
		e.message = "Typewriter mode off"
	}
	e.saveSettings()
}

func (e *Editor) toggleMarginAlerts() {
	on := !e.session.Alerts().Enabled
	e.session.SetMarginAlerts(on)
	if on {
		e.message = "Margin bell on"
	} else {
		e.message = "Margin bell off"
	}
	e.saveSettings()
}

func (e *Editor) cycleFontSize() {
	e.session.SetFontSize(e.session.Settings().NextFontSize())
	e.saveSettings()
}

func (e *Editor) cycleFontFamily() {
	e.session.SetFontFamily(e.session.Settings().NextFontFamily())
	e.saveSettings()
}

func (e *Editor) cycleMargin() {
	e.session.SetMargin(e.session.Settings().NextMargin())
	e.saveSettings()
}

func (e *Editor) saveSettings() {
	if e.settingsPath == "" {
		return
	}
	s := e.session.Settings()
	if err := SaveSettings(e.settingsPath, s); err != nil {
		log.Printf("saving settings: %v", err)
		e.message = "Could not save settings"
		return
	}
	e.saved = append(e.saved, s)
	if len(e.saved) > recentSaves {
		e.saved = e.saved[len(e.saved)-recentSaves:]
	}
}

// isOwnSave reports whether a reloaded file holds nothing new: either the
// settings already in force, or one of the editor's own recent saves that
// the watcher only saw after a later change.
func (e *Editor) isOwnSave(s Settings) bool {
	if s == e.session.Settings() {
		return true
	}
	for _, saved := range e.saved {
		if s == saved {
			return true
		}
	}
	return false
}
