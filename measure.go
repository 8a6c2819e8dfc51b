package main

import (
	"fmt"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// referenceGlyph is the character whose advance defines one column.
const referenceGlyph = 'X'

// FontFamily names one of the paper fonts.
type FontFamily string

const (
	FamilyTypewriter FontFamily = "typewriter"
	FamilyVintage    FontFamily = "vintage"
	FamilySerif      FontFamily = "serif"
)

var fontFamilies = []FontFamily{FamilyTypewriter, FamilyVintage, FamilySerif}

// GlyphMeasurer reports the advance width, in pixels, of the reference
// glyph for a font family at a given size.
type GlyphMeasurer interface {
	MeasureGlyph(family FontFamily, sizePx float64) (float64, error)
}

type faceKey struct {
	family FontFamily
	size   float64
}

// FontMeasurer measures glyphs by rasterising the Go fonts. Faces are
// created on first use and cached for the life of the measurer.
type FontMeasurer struct {
	sources map[FontFamily][]byte
	fonts   map[FontFamily]*opentype.Font
	faces   map[faceKey]font.Face
}

func NewFontMeasurer() *FontMeasurer {
	return &FontMeasurer{
		sources: map[FontFamily][]byte{
			FamilyTypewriter: gomono.TTF,
			FamilyVintage:    gomonobold.TTF,
			FamilySerif:      goregular.TTF,
		},
		fonts: map[FontFamily]*opentype.Font{},
		faces: map[faceKey]font.Face{},
	}
}

func (m *FontMeasurer) MeasureGlyph(family FontFamily, sizePx float64) (float64, error) {
	face, err := m.face(family, sizePx)
	if err != nil {
		return 0, err
	}
	adv, ok := face.GlyphAdvance(referenceGlyph)
	if !ok {
		return 0, fmt.Errorf("font %s has no glyph %q", family, referenceGlyph)
	}
	return float64(adv) / 64, nil
}

func (m *FontMeasurer) face(family FontFamily, sizePx float64) (font.Face, error) {
	if sizePx <= 0 {
		return nil, fmt.Errorf("invalid font size %g", sizePx)
	}
	key := faceKey{family, sizePx}
	if f, ok := m.faces[key]; ok {
		return f, nil
	}
	fnt, ok := m.fonts[family]
	if !ok {
		src, known := m.sources[family]
		if !known {
			return nil, fmt.Errorf("unknown font family %q", family)
		}
		parsed, err := opentype.Parse(src)
		if err != nil {
			return nil, fmt.Errorf("parsing %s font: %w", family, err)
		}
		m.fonts[family] = parsed
		fnt = parsed
	}
	// At 72 DPI one point is one pixel.
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    sizePx,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("creating %s face at %gpx: %w", family, sizePx, err)
	}
	m.faces[key] = face
	return face, nil
}

// Close releases every cached face.
func (m *FontMeasurer) Close() error {
	for k, f := range m.faces {
		f.Close()
		delete(m.faces, k)
	}
	return nil
}

// TableMeasurer looks widths up in a fixed table keyed by family and size.
// Pairs missing from the table fail to measure.
type TableMeasurer map[FontFamily]map[float64]float64

func (t TableMeasurer) MeasureGlyph(family FontFamily, sizePx float64) (float64, error) {
	w, ok := t[family][sizePx]
	if !ok {
		return 0, fmt.Errorf("no width for %s at %gpx", family, sizePx)
	}
	return w, nil
}
