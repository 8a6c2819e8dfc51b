package main

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var scenarioLayout = LayoutConfig{CharWidthPx: 10, LineHeightPx: 25, MaxColumns: 55}

func key(k string) KeyEvent {
	return KeyEvent{Key: k}
}

func TestDecideKeyAtMargin(t *testing.T) {
	text := strings.Repeat("x", 55)
	pos := ComputePosition(text, 55)
	if !IsAtOrPastMargin(pos, scenarioLayout) {
		t.Fatalf("column %d should be at the margin", pos.Column)
	}

	alerts := GateState{Alerts: MarginAlertState{Enabled: true}}
	quiet := GateState{}

	testCases := []struct {
		name string
		ev   KeyEvent
		st   GateState
		want Action
	}{
		{"printable with alerts", key("y"), alerts, RejectWithAlert},
		{"printable without alerts", key("y"), quiet, RejectSilent},
		{"space", key(" "), alerts, RejectWithAlert},
		{"non-ascii", key("é"), alerts, RejectWithAlert},
		{"shortcut", KeyEvent{Key: "a", CtrlOrCmd: true}, alerts, Accept},
		{"enter", key(KeyEnter), alerts, Accept},
		{"backspace", key(KeyBackspace), alerts, Accept},
		{"delete", key(KeyDelete), alerts, Accept},
		{"tab", key(KeyTab), alerts, Accept},
		{"left", key(KeyArrowLeft), alerts, Accept},
		{"right", key(KeyArrowRight), alerts, Accept},
		{"up", key(KeyArrowUp), alerts, Accept},
		{"down", key(KeyArrowDown), alerts, Accept},
		{"home", key(KeyHome), alerts, Accept},
		{"end", key(KeyEnd), alerts, Accept},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DecideKey(tc.ev, tc.st, pos, scenarioLayout); got != tc.want {
				t.Errorf("DecideKey(%+v) = %v, want %v", tc.ev, got, tc.want)
			}
		})
	}
}

func TestDecideKeyBeforeMargin(t *testing.T) {
	st := GateState{Alerts: MarginAlertState{Enabled: true}}
	pos := CursorPosition{Column: 54, TotalLines: 1}
	if got := DecideKey(key("y"), st, pos, scenarioLayout); got != Accept {
		t.Errorf("one column before the margin: got %v, want accept", got)
	}
}

func TestDecideKeyZeroColumns(t *testing.T) {
	layout := LayoutConfig{CharWidthPx: 10, LineHeightPx: 25, MaxColumns: 0}
	pos := CursorPosition{TotalLines: 1}

	if got := DecideKey(key("a"), GateState{Alerts: MarginAlertState{Enabled: true}}, pos, layout); got != RejectWithAlert {
		t.Errorf("printable at column 0 = %v, want reject-with-alert", got)
	}
	if got := DecideKey(key("a"), GateState{}, pos, layout); got != RejectSilent {
		t.Errorf("printable at column 0 without alerts = %v, want reject-silent", got)
	}
	if got := DecideKey(key(KeyEnter), GateState{Alerts: MarginAlertState{Enabled: true}}, pos, layout); got != Accept {
		t.Errorf("enter at column 0 = %v, want accept", got)
	}
}

func TestDecideKeyTypewriter(t *testing.T) {
	tw := func(hw int) GateState {
		return GateState{Typewriter: TypewriterState{Enabled: true, HighWaterLine: hw}, Alerts: MarginAlertState{Enabled: true}}
	}
	at := func(line, col int) CursorPosition {
		return CursorPosition{Line: line, Column: col, TotalLines: line + 1}
	}

	testCases := []struct {
		name string
		ev   KeyEvent
		st   GateState
		pos  CursorPosition
		want Action
	}{
		{"backspace mid line", key(KeyBackspace), tw(0), at(0, 3), RejectSilent},
		{"backspace at origin", key(KeyBackspace), tw(0), at(0, 0), RejectSilent},
		{"delete", key(KeyDelete), tw(2), at(2, 1), RejectSilent},
		{"up from line 2", key(KeyArrowUp), tw(2), at(2, 4), RejectSilent},
		{"up on line 0", key(KeyArrowUp), tw(0), at(0, 4), Accept},
		{"left at column 0", key(KeyArrowLeft), tw(1), at(1, 0), RejectSilent},
		{"left mid line", key(KeyArrowLeft), tw(1), at(1, 3), Accept},
		{"left at origin", key(KeyArrowLeft), tw(0), at(0, 0), Accept},
		{"page up", key(KeyPageUp), tw(3), at(3, 0), RejectSilent},
		{"ctrl home", KeyEvent{Key: KeyHome, CtrlOrCmd: true}, tw(1), at(1, 2), RejectSilent},
		{"home", key(KeyHome), tw(1), at(1, 2), Accept},
		{"down", key(KeyArrowDown), tw(1), at(1, 2), Accept},
		{"stale printable", key("q"), tw(3), at(1, 2), RejectSilent},
		{"stale enter", key(KeyEnter), tw(3), at(1, 2), Accept},
		{"printable on high-water line", key("q"), tw(3), at(3, 2), Accept},
		{"margin still applies", key("q"), tw(0), at(0, 55), RejectWithAlert},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := DecideKey(tc.ev, tc.st, tc.pos, scenarioLayout); got != tc.want {
				t.Errorf("DecideKey(%+v at %+v) = %v, want %v", tc.ev, tc.pos, got, tc.want)
			}
		})
	}
}

func TestDecideKeyTypewriterDisabled(t *testing.T) {
	st := GateState{Typewriter: TypewriterState{Enabled: false, HighWaterLine: 5}}
	pos := CursorPosition{Line: 1, Column: 0, TotalLines: 2}
	for _, k := range []string{KeyBackspace, KeyDelete, KeyArrowUp, KeyArrowLeft, "z"} {
		if got := DecideKey(key(k), st, pos, scenarioLayout); got != Accept {
			t.Errorf("%s with typewriter mode off = %v, want accept", k, got)
		}
	}
}

func TestTypewriterDeletionAlwaysBlocked(t *testing.T) {
	st := GateState{Typewriter: TypewriterState{Enabled: true}}
	for line := 0; line < 4; line++ {
		for col := 0; col < 60; col += 7 {
			pos := CursorPosition{Line: line, Column: col, TotalLines: 4}
			for _, k := range []KeyEvent{key(KeyBackspace), key(KeyDelete), {Key: KeyBackspace, CtrlOrCmd: true}} {
				if got := DecideKey(k, st, pos, scenarioLayout); got != RejectSilent {
					t.Errorf("%+v at %+v = %v, want reject-silent", k, pos, got)
				}
			}
		}
	}
}

func TestRaiseHighWater(t *testing.T) {
	tw := TypewriterState{Enabled: true, HighWaterLine: 2}
	tw.RaiseHighWater(1)
	if tw.HighWaterLine != 2 {
		t.Errorf("high-water line lowered to %d", tw.HighWaterLine)
	}
	tw.RaiseHighWater(4)
	if tw.HighWaterLine != 4 {
		t.Errorf("high-water line = %d, want 4", tw.HighWaterLine)
	}

	off := TypewriterState{HighWaterLine: 1}
	off.RaiseHighWater(9)
	if off.HighWaterLine != 1 {
		t.Errorf("disabled state raised to %d", off.HighWaterLine)
	}
}

func TestRelocationTarget(t *testing.T) {
	text := "ab\ncde\nfgh"
	tw := TypewriterState{Enabled: true, HighWaterLine: 2}

	// line 0 and line 1 are behind; the target is column 0 of line 2
	for _, off := range []int{0, 1, 2, 3, 6} {
		got, ok := RelocationTarget(tw, text, off, off)
		if !ok || got != 7 {
			t.Errorf("RelocationTarget at %d = %d, %v; want 7, true", off, got, ok)
		}
	}
	for _, off := range []int{7, 8, 10} {
		if _, ok := RelocationTarget(tw, text, off, off); ok {
			t.Errorf("offset %d is on the high-water line and should stay", off)
		}
	}
	if _, ok := RelocationTarget(tw, text, 0, 4); ok {
		t.Error("range selections should pass through")
	}
	if _, ok := RelocationTarget(TypewriterState{HighWaterLine: 2}, text, 0, 0); ok {
		t.Error("nothing moves with typewriter mode off")
	}
}

func TestClickRelocation(t *testing.T) {
	s := NewSession(testMeasurer, DefaultSettings(), 1600)
	buf := NewTextBuffer("first\nsecond\nthird")
	s.SetTypewriter(true, buf) // cursor starts at 0, so the high-water line is 0
	buf.SetCursorOffset(buf.Len())
	s.Committed(buf)
	if hw := s.Typewriter().HighWaterLine; hw != 2 {
		t.Fatalf("high-water line = %d, want 2", hw)
	}

	want := len("first") + len("second") + 2
	got := s.Replay(buf, ClickEvent{Offset: 1})
	if diff := cmp.Diff([]Action{RejectWithRelocate}, got); diff != "" {
		t.Errorf("click actions (-want +got):\n%s", diff)
	}
	if buf.CursorOffset() != want {
		t.Errorf("cursor = %d, want %d", buf.CursorOffset(), want)
	}
	if pos := s.Position(buf); pos.Line != 2 || pos.Column != 0 {
		t.Errorf("position after relocation = %+v, want line 2 column 0", pos)
	}

	// relocating again changes nothing
	if act := s.SelectionChanged(buf); act != Accept || buf.CursorOffset() != want {
		t.Errorf("second relocation = %v at %d, want accept at %d", act, buf.CursorOffset(), want)
	}

	// a click on the high-water line itself is left alone
	got = s.Replay(buf, ClickEvent{Offset: want + 3})
	if got[0] != Accept || buf.CursorOffset() != want+3 {
		t.Errorf("click on high-water line = %v at %d", got[0], buf.CursorOffset())
	}
}

func TestTypewriterNoRegression(t *testing.T) {
	s := NewSession(testMeasurer, DefaultSettings(), 1600)
	buf := NewTextBuffer("")
	s.SetTypewriter(true, buf)

	events := []KeyEvent{
		key("a"), key("b"), key(KeyEnter), key("c"),
		key(KeyArrowUp), key(KeyBackspace), key(KeyArrowLeft), key(KeyHome),
		key(KeyArrowLeft), key(KeyEnter), key(KeyEnter), key("d"),
		key(KeyPageUp), {Key: KeyHome, CtrlOrCmd: true}, key(KeyDelete),
		key(KeyArrowRight), key(KeyEnd), key("e"), key(KeyArrowDown),
	}

	lastLine, lastHigh := 0, 0
	for i, ev := range events {
		act := s.Type(ev, buf)
		pos := s.Position(buf)
		high := s.Typewriter().HighWaterLine
		if high < lastHigh {
			t.Fatalf("event %d (%+v): high-water line fell from %d to %d", i, ev, lastHigh, high)
		}
		if act == Accept && pos.Line < lastLine {
			t.Fatalf("event %d (%+v): accepted edit moved from line %d back to %d", i, ev, lastLine, pos.Line)
		}
		lastLine, lastHigh = pos.Line, high
	}

	// the two Enters were typed at column 0 of "c", pushing it down
	if got, want := buf.Text(), "ab\n\n\ndce"; got != want {
		t.Errorf("text = %q, want %q", got, want)
	}
	if s.Typewriter().HighWaterLine != 3 {
		t.Errorf("high-water line = %d, want 3", s.Typewriter().HighWaterLine)
	}
}
