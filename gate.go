package main

import "unicode/utf8"

// Key names for the non-printable keys the gate knows about. Printable
// keys are named by the single character they produce.
const (
	KeyBackspace  = "Backspace"
	KeyDelete     = "Delete"
	KeyEnter      = "Enter"
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
	KeyArrowUp    = "ArrowUp"
	KeyArrowDown  = "ArrowDown"
	KeyHome       = "Home"
	KeyEnd        = "End"
	KeyTab        = "Tab"
	KeyPageUp     = "PageUp"
	KeyPageDown   = "PageDown"
)

// keys that stay usable when the carriage is at the margin
var marginAllowed = map[string]bool{
	KeyBackspace:  true,
	KeyDelete:     true,
	KeyEnter:      true,
	KeyArrowLeft:  true,
	KeyArrowRight: true,
	KeyArrowUp:    true,
	KeyArrowDown:  true,
	KeyHome:       true,
	KeyEnd:        true,
	KeyTab:        true,
}

// KeyEvent is a raw keydown, delivered before the buffer changes.
// Shift is only reported with the arrow keys, where it extends the
// selection.
type KeyEvent struct {
	Key       string
	CtrlOrCmd bool
	Shift     bool
}

// Printable reports whether the key produces exactly one character.
func (ev KeyEvent) Printable() bool {
	return utf8.RuneCountInString(ev.Key) == 1
}

// Action is the gate's verdict on an event.
type Action int

const (
	Accept Action = iota
	RejectSilent
	RejectWithAlert
	RejectWithRelocate
)

func (a Action) String() string {
	switch a {
	case Accept:
		return "accept"
	case RejectSilent:
		return "reject-silent"
	case RejectWithAlert:
		return "reject-with-alert"
	case RejectWithRelocate:
		return "reject-with-relocate"
	}
	return "unknown"
}

// replacesText reports whether the key would overwrite a selected range.
func (ev KeyEvent) replacesText() bool {
	if ev.CtrlOrCmd {
		return false
	}
	return ev.Printable() || ev.Key == KeyEnter || ev.Key == KeyTab
}

// Rejected reports whether the event must not reach the buffer.
func (a Action) Rejected() bool {
	return a != Accept
}

// TypewriterState tracks forward-only carriage mode. HighWaterLine is the
// furthest line reached since the mode was last enabled.
type TypewriterState struct {
	Enabled       bool
	HighWaterLine int
}

// MarginAlertState holds whether alerts are on and whether one is showing.
// Active is recomputed on every position update.
type MarginAlertState struct {
	Enabled bool
	Active  bool
}

// GateState is everything the gate reads besides the event and position.
type GateState struct {
	Typewriter TypewriterState
	Alerts     MarginAlertState
}

// DecideKey returns the verdict for a keydown. It is a total function of its
// arguments; the first matching rule wins.
func DecideKey(ev KeyEvent, st GateState, pos CursorPosition, layout LayoutConfig) Action {
	tw := st.Typewriter
	if tw.Enabled {
		// A carriage cannot un-type.
		if ev.Key == KeyBackspace || ev.Key == KeyDelete {
			return RejectSilent
		}
		if movesToEarlierLine(ev, pos) {
			return RejectSilent
		}
		if pos.Line < tw.HighWaterLine && ev.Printable() {
			return RejectSilent
		}
	}

	if IsAtOrPastMargin(pos, layout) && ev.Printable() && !marginAllowed[ev.Key] && !ev.CtrlOrCmd {
		if st.Alerts.Enabled {
			return RejectWithAlert
		}
		return RejectSilent
	}
	return Accept
}

func movesToEarlierLine(ev KeyEvent, pos CursorPosition) bool {
	if pos.Line == 0 {
		return false
	}
	switch ev.Key {
	case KeyArrowUp, KeyPageUp:
		return true
	case KeyArrowLeft, KeyBackspace:
		return pos.Column == 0
	case KeyHome:
		return ev.CtrlOrCmd
	}
	return false
}

// RaiseHighWater moves the high-water line up to line. It never lowers it.
func (tw *TypewriterState) RaiseHighWater(line int) {
	if tw.Enabled && line > tw.HighWaterLine {
		tw.HighWaterLine = line
	}
}

// RelocationTarget returns the offset the cursor must move to after a
// pointer selection change, and whether a move is needed at all. Range
// selections are left alone.
func RelocationTarget(tw TypewriterState, text string, selStart, selEnd int) (int, bool) {
	if !tw.Enabled || selStart != selEnd {
		return 0, false
	}
	pos := ComputePosition(text, selStart)
	if pos.Line >= tw.HighWaterLine {
		return 0, false
	}
	return LineStartOffset(text, tw.HighWaterLine), true
}
