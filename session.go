package main

// Session is the state of one editing session: the settings in force, the
// derived layout, the typewriter and margin alert state, and the bell.
//
// A Session is not safe for concurrent use. The editor drives it from its
// event loop; background work (timers, the settings watcher) posts events
// to that loop instead of calling into the session.
type Session struct {
	engine     *LayoutEngine
	settings   Settings
	viewportPx float64
	layout     LayoutConfig
	gate       GateState
	bell       *Bell
}

type SessionOption func(*Session)

// WithBell replaces the default bell, which has no timer.
func WithBell(b *Bell) SessionOption {
	return func(s *Session) {
		s.bell = b
	}
}

// NewSession derives the initial layout. Typewriter mode is not switched on
// here even if s asks for it, because that needs the buffer; call
// SetTypewriter once the document is loaded.
func NewSession(m GlyphMeasurer, s Settings, viewportWidthPx float64, opts ...SessionOption) *Session {
	consts := DefaultLayoutConstants()
	consts.ColumnSlack = s.ColumnSlack
	consts.NearMarginSlack = s.NearMarginSlack
	sess := &Session{
		engine:     NewLayoutEngine(m, consts),
		settings:   s,
		viewportPx: viewportWidthPx,
	}
	sess.settings.Typewriter = false
	sess.gate.Alerts.Enabled = s.MarginAlerts
	for _, opt := range opts {
		opt(sess)
	}
	if sess.bell == nil {
		sess.bell = NewBell(BellDuration, nil, nil)
	}
	sess.relayout()
	return sess
}

func (s *Session) Layout() LayoutConfig { return s.layout }

func (s *Session) Settings() Settings { return s.settings }

func (s *Session) Typewriter() TypewriterState { return s.gate.Typewriter }

func (s *Session) Alerts() MarginAlertState { return s.gate.Alerts }

func (s *Session) relayout() {
	s.layout = s.engine.Recompute(float64(s.settings.FontSizePx), s.settings.FontFamily,
		float64(s.settings.MarginPx), s.viewportPx)
}

// Position derives the cursor position. With a range selection the start
// of the range is used.
func (s *Session) Position(buf Buffer) CursorPosition {
	start, _ := buf.SelectionRange()
	return ComputePosition(buf.Text(), start)
}

// KeyDown decides whether ev may reach the buffer. It must run before the
// buffer changes. A margin rejection with alerts on rings the bell.
//
// In typewriter mode a key that would type over a selected range is
// rejected, since replacing the range deletes it.
func (s *Session) KeyDown(ev KeyEvent, buf Buffer) Action {
	pos := s.Position(buf)
	if start, end := buf.SelectionRange(); s.gate.Typewriter.Enabled && start != end && ev.replacesText() {
		return RejectSilent
	}
	act := DecideKey(ev, s.gate, pos, s.layout)
	if act == RejectWithAlert {
		s.bell.Ring()
	}
	s.refreshAlert(pos)
	return act
}

// Committed is called after an accepted key has changed the buffer.
func (s *Session) Committed(buf Buffer) {
	pos := s.Position(buf)
	s.gate.Typewriter.RaiseHighWater(pos.Line)
	s.refreshAlert(pos)
}

// Type gates ev and, if it is accepted, applies it to buf.
func (s *Session) Type(ev KeyEvent, buf EditableBuffer) Action {
	act := s.KeyDown(ev, buf)
	if act.Rejected() {
		return act
	}
	if ev.Key == KeyTab && !ev.CtrlOrCmd {
		buf.InsertText(s.tabFill(s.Position(buf)))
	} else {
		buf.ApplyKey(ev)
	}
	s.Committed(buf)
	return Accept
}

// columns per tab stop
const tabWidth = 4

// tabFill returns the spaces that reach the next tab stop without running
// past the margin.
func (s *Session) tabFill(pos CursorPosition) string {
	n := tabWidth - pos.Column%tabWidth
	if room := s.layout.MaxColumns - pos.Column; n > room {
		n = room
	}
	if n <= 0 {
		return ""
	}
	spaces := make([]byte, n)
	for i := range spaces {
		spaces[i] = ' '
	}
	return string(spaces)
}

// SelectionChanged is called after a pointer moved the cursor. In
// typewriter mode a cursor left behind the high-water line is moved to the
// start of that line.
func (s *Session) SelectionChanged(buf Buffer) Action {
	start, end := buf.SelectionRange()
	act := Accept
	if target, ok := RelocationTarget(s.gate.Typewriter, buf.Text(), start, end); ok {
		buf.SetCursorOffset(target)
		act = RejectWithRelocate
	}
	s.refreshAlert(s.Position(buf))
	return act
}

// SetTypewriter switches forward-only mode. Switching on records the
// current line as the high-water line and then moves the cursor to the end
// of the document. Switching off leaves the high-water line as it was.
func (s *Session) SetTypewriter(on bool, buf Buffer) {
	s.settings.SetTypewriter(on)
	if !on {
		s.gate.Typewriter.Enabled = false
		return
	}
	pos := s.Position(buf)
	s.gate.Typewriter = TypewriterState{Enabled: true, HighWaterLine: pos.Line}
	buf.SetCursorOffset(runeLen(buf.Text()))
	s.refreshAlert(s.Position(buf))
}

func (s *Session) SetMarginAlerts(on bool) {
	s.settings.SetMarginAlerts(on)
	s.gate.Alerts.Enabled = on
	if !on {
		s.bell.Silence()
		s.gate.Alerts.Active = false
	}
}

func (s *Session) SetFontSize(px int) {
	s.settings.SetFontSize(px)
	s.relayout()
}

func (s *Session) SetFontFamily(f FontFamily) {
	s.settings.SetFontFamily(f)
	s.relayout()
}

func (s *Session) SetMargin(px int) {
	s.settings.SetMargin(px)
	s.relayout()
}

func (s *Session) SetInkColor(hex string) {
	s.settings.SetInkColor(hex)
}

func (s *Session) SetPaperColor(hex string) {
	s.settings.SetPaperColor(hex)
}

// Resize recomputes the layout for a new viewport width.
func (s *Session) Resize(viewportWidthPx float64) {
	s.viewportPx = viewportWidthPx
	s.relayout()
}

// ApplySettings replaces the settings in force, e.g. after the settings
// file changed on disk.
func (s *Session) ApplySettings(o Settings, buf Buffer) {
	s.settings.merge(o)
	s.settings.Typewriter = s.gate.Typewriter.Enabled
	s.engine.consts.ColumnSlack = s.settings.ColumnSlack
	s.engine.consts.NearMarginSlack = s.settings.NearMarginSlack
	s.relayout()
	if o.MarginAlerts != s.gate.Alerts.Enabled {
		s.SetMarginAlerts(o.MarginAlerts)
	}
	if o.Typewriter != s.gate.Typewriter.Enabled {
		s.SetTypewriter(o.Typewriter, buf)
	}
	s.refreshAlert(s.Position(buf))
}

func (s *Session) refreshAlert(pos CursorPosition) {
	s.gate.Alerts.Active = s.alertActive(pos)
}

func (s *Session) alertActive(pos CursorPosition) bool {
	if !s.gate.Alerts.Enabled {
		return false
	}
	return s.bell.Ringing() || IsNearMargin(pos, s.layout, s.settings.NearMarginSlack)
}

// Frame is what the renderer needs to draw one screen.
type Frame struct {
	OffsetX    float64 // paper translation, pixels
	OffsetY    float64
	LineNumber int // 1-based
	Alert      bool
	Bell       bool
	Position   CursorPosition
	Layout     LayoutConfig
}

func (s *Session) Frame(buf Buffer) Frame {
	pos := s.Position(buf)
	s.refreshAlert(pos)
	x, y := ToPixelOffset(pos, s.layout)
	return Frame{
		OffsetX:    x,
		OffsetY:    y,
		LineNumber: pos.Line + 1,
		Alert:      s.gate.Alerts.Active,
		Bell:       s.gate.Alerts.Enabled && s.bell.Ringing(),
		Position:   pos,
		Layout:     s.layout,
	}
}

// Event is anything a Session can be driven by in Replay.
type Event interface {
	isEvent()
}

// ClickEvent places a collapsed cursor at Offset, as a pointer would.
type ClickEvent struct {
	Offset int
}

// ResizeEvent reports a new viewport width.
type ResizeEvent struct {
	ViewportWidthPx float64
}

// ModeEvent switches typewriter mode.
type ModeEvent struct {
	Typewriter bool
}

func (KeyEvent) isEvent()    {}
func (ClickEvent) isEvent()  {}
func (ResizeEvent) isEvent() {}
func (ModeEvent) isEvent()   {}

// Replay drives the session with events in order and returns the action
// taken for each. Events that are not gated report Accept.
func (s *Session) Replay(buf EditableBuffer, events ...Event) []Action {
	actions := make([]Action, 0, len(events))
	for _, ev := range events {
		act := Accept
		switch ev := ev.(type) {
		case KeyEvent:
			act = s.Type(ev, buf)
		case ClickEvent:
			buf.SetCursorOffset(ev.Offset)
			act = s.SelectionChanged(buf)
		case ResizeEvent:
			s.Resize(ev.ViewportWidthPx)
		case ModeEvent:
			s.SetTypewriter(ev.Typewriter, buf)
		}
		actions = append(actions, act)
	}
	return actions
}
