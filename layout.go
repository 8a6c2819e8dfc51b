package main

import (
	"log"
	"math"
	"unicode/utf8"
)

// LayoutConfig is the paper geometry derived from the font and paper settings.
type LayoutConfig struct {
	CharWidthPx  float64
	LineHeightPx float64
	MaxColumns   int
	LeftMarginPx float64
	TopMarginPx  float64
	PaperWidthPx float64
}

// CursorPosition is the zero-based visual position of the cursor.
// Column counts codepoints since the last line break, not display width.
type CursorPosition struct {
	Line       int
	Column     int
	TotalLines int
}

// LayoutConstants holds the empirically tuned numbers of the layout.
type LayoutConstants struct {
	LineHeightRatio  float64 // line height as a multiple of the font size
	ColumnSlack      int     // columns held back so the last one never touches the margin
	NearMarginSlack  int     // columns before the margin at which the warning lights
	DefaultCharWidth float64 // used when no measurement has ever succeeded
	BasePaperWidthPx float64
}

// DefaultLayoutConstants returns the constants used by the editor.
func DefaultLayoutConstants() LayoutConstants {
	return LayoutConstants{
		LineHeightRatio:  1.39,
		ColumnSlack:      1,
		NearMarginSlack:  3,
		DefaultCharWidth: 10.8,
		BasePaperWidthPx: 800,
	}
}

// LayoutEngine derives LayoutConfig values. It remembers the last glyph
// width it measured successfully so a failing measurer never breaks layout.
type LayoutEngine struct {
	measurer      GlyphMeasurer
	consts        LayoutConstants
	lastCharWidth float64
}

func NewLayoutEngine(m GlyphMeasurer, consts LayoutConstants) *LayoutEngine {
	if consts.DefaultCharWidth <= 0 {
		consts.DefaultCharWidth = DefaultLayoutConstants().DefaultCharWidth
	}
	if consts.BasePaperWidthPx <= 0 {
		consts.BasePaperWidthPx = DefaultLayoutConstants().BasePaperWidthPx
	}
	return &LayoutEngine{measurer: m, consts: consts}
}

// Constants returns the constants the engine was built with.
func (le *LayoutEngine) Constants() LayoutConstants {
	return le.consts
}

// Recompute derives a fresh LayoutConfig. It must be called on startup and
// whenever the font size, family, margin or viewport width changes.
func (le *LayoutEngine) Recompute(fontSizePx float64, family FontFamily, marginPx, viewportWidthPx float64) LayoutConfig {
	cfg := LayoutConfig{
		CharWidthPx:  le.charWidth(family, fontSizePx),
		LineHeightPx: math.Round(fontSizePx * le.consts.LineHeightRatio),
		LeftMarginPx: marginPx,
		TopMarginPx:  marginPx,
		PaperWidthPx: PaperWidth(viewportWidthPx, le.consts.BasePaperWidthPx),
	}
	cfg.MaxColumns = maxColumns(cfg.PaperWidthPx, cfg.LeftMarginPx, cfg.CharWidthPx, le.consts.ColumnSlack)
	return cfg
}

func (le *LayoutEngine) charWidth(family FontFamily, sizePx float64) float64 {
	if le.measurer != nil {
		w, err := le.measurer.MeasureGlyph(family, sizePx)
		if err == nil && w > 0 && !math.IsInf(w, 0) && !math.IsNaN(w) {
			le.lastCharWidth = w
			return w
		}
		log.Printf("glyph measurement for %s at %gpx failed (width %g, err %v), using fallback", family, sizePx, w, err)
	}
	if le.lastCharWidth > 0 {
		return le.lastCharWidth
	}
	return le.consts.DefaultCharWidth
}

// maxColumns never returns a negative count; a result of zero means every
// printable key is already at the margin.
func maxColumns(paperWidthPx, leftMarginPx, charWidthPx float64, slack int) int {
	if charWidthPx <= 0 {
		return 0
	}
	avail := paperWidthPx - 2*leftMarginPx
	if avail <= 0 {
		return 0
	}
	n := int(math.Floor(avail/charWidthPx)) - slack
	if n < 0 {
		return 0
	}
	return n
}

// PaperWidth applies the responsive breakpoint table to a viewport width.
func PaperWidth(viewportWidthPx, basePx float64) float64 {
	switch {
	case viewportWidthPx <= 480:
		return math.Max(viewportWidthPx, 0)
	case viewportWidthPx <= 768:
		return math.Min(viewportWidthPx*0.95, 600)
	case viewportWidthPx <= 1024:
		return math.Min(viewportWidthPx*0.90, 800)
	default:
		return basePx
	}
}

// ComputePosition maps a cursor offset (in codepoints) to a visual position.
// Out of range offsets are clamped to the text.
func ComputePosition(text string, cursorOffset int) CursorPosition {
	pos := CursorPosition{TotalLines: 1}
	i := 0
	for _, r := range text {
		if i < cursorOffset {
			if r == '\n' {
				pos.Line++
				pos.Column = 0
			} else {
				pos.Column++
			}
		}
		if r == '\n' {
			pos.TotalLines++
		}
		i++
	}
	return pos
}

// ToPixelOffset returns the translation of the paper under the fixed typing
// point. Moving the cursor right or down moves the paper left or up.
func ToPixelOffset(pos CursorPosition, layout LayoutConfig) (x, y float64) {
	x = -float64(pos.Column) * layout.CharWidthPx
	y = -float64(pos.Line) * layout.LineHeightPx
	return x, y
}

func IsAtOrPastMargin(pos CursorPosition, layout LayoutConfig) bool {
	return pos.Column >= layout.MaxColumns
}

// IsNearMargin is the early visual warning; it never blocks input.
func IsNearMargin(pos CursorPosition, layout LayoutConfig, slack int) bool {
	return pos.Column >= layout.MaxColumns-slack
}

// LineStartOffset returns the codepoint offset of the first column of line,
// or the end of the text if it has fewer lines.
func LineStartOffset(text string, line int) int {
	if line <= 0 {
		return 0
	}
	seen := 0
	i := 0
	for _, r := range text {
		i++
		if r == '\n' {
			seen++
			if seen == line {
				return i
			}
		}
	}
	return utf8.RuneCountInString(text)
}
