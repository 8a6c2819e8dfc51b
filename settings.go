package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/pelletier/go-toml/v2"
)

var (
	fontSizes = []int{14, 16, 18, 20, 24}
	margins   = []int{48, 72, 96, 120}
)

// Settings is the user-facing configuration. Every field has exactly one
// setter, and the setters never let an invalid value in.
type Settings struct {
	FontSizePx      int        `toml:"font_size"`
	FontFamily      FontFamily `toml:"font_family"`
	MarginPx        int        `toml:"margin"`
	MarginAlerts    bool       `toml:"margin_alerts"`
	Typewriter      bool       `toml:"typewriter"`
	InkColor        string     `toml:"ink_color"`
	PaperColor      string     `toml:"paper_color"`
	NearMarginSlack int        `toml:"near_margin_slack"`
	ColumnSlack     int        `toml:"column_slack"`
	CellWidthPx     float64    `toml:"cell_width_px"` // pixel width assumed per terminal cell when the terminal won't say
}

func DefaultSettings() Settings {
	return Settings{
		FontSizePx:      18,
		FontFamily:      FamilyTypewriter,
		MarginPx:        96,
		MarginAlerts:    true,
		InkColor:        "#1a1a1a",
		PaperColor:      "#f4ecd8",
		NearMarginSlack: 3,
		ColumnSlack:     1,
		CellWidthPx:     9,
	}
}

// SetFontSize snaps px to the nearest supported size.
func (s *Settings) SetFontSize(px int) {
	s.FontSizePx = nearest(fontSizes, px)
}

// SetFontFamily ignores unknown families.
func (s *Settings) SetFontFamily(f FontFamily) {
	for _, known := range fontFamilies {
		if f == known {
			s.FontFamily = f
			return
		}
	}
}

// SetMargin snaps px to the nearest supported margin.
func (s *Settings) SetMargin(px int) {
	s.MarginPx = nearest(margins, px)
}

func (s *Settings) SetMarginAlerts(on bool) {
	s.MarginAlerts = on
}

func (s *Settings) SetTypewriter(on bool) {
	s.Typewriter = on
}

// SetInkColor keeps the previous colour if hex does not parse.
func (s *Settings) SetInkColor(hex string) {
	if c, err := colorful.Hex(hex); err == nil {
		s.InkColor = c.Hex()
	}
}

// SetPaperColor keeps the previous colour if hex does not parse.
func (s *Settings) SetPaperColor(hex string) {
	if c, err := colorful.Hex(hex); err == nil {
		s.PaperColor = c.Hex()
	}
}

func (s *Settings) SetNearMarginSlack(n int) {
	if n >= 0 {
		s.NearMarginSlack = n
	}
}

func (s *Settings) SetColumnSlack(n int) {
	if n >= 0 {
		s.ColumnSlack = n
	}
}

func (s *Settings) SetCellWidth(px float64) {
	if px > 0 {
		s.CellWidthPx = px
	}
}

// merge applies every field of o through its setter.
func (s *Settings) merge(o Settings) {
	s.SetFontSize(o.FontSizePx)
	s.SetFontFamily(o.FontFamily)
	s.SetMargin(o.MarginPx)
	s.SetMarginAlerts(o.MarginAlerts)
	s.SetTypewriter(o.Typewriter)
	s.SetInkColor(o.InkColor)
	s.SetPaperColor(o.PaperColor)
	s.SetNearMarginSlack(o.NearMarginSlack)
	s.SetColumnSlack(o.ColumnSlack)
	s.SetCellWidth(o.CellWidthPx)
}

// NextFontSize returns the size after the current one, wrapping around.
func (s Settings) NextFontSize() int {
	return cycle(fontSizes, s.FontSizePx)
}

func (s Settings) NextMargin() int {
	return cycle(margins, s.MarginPx)
}

func (s Settings) NextFontFamily() FontFamily {
	for i, f := range fontFamilies {
		if f == s.FontFamily {
			return fontFamilies[(i+1)%len(fontFamilies)]
		}
	}
	return fontFamilies[0]
}

func nearest(options []int, v int) int {
	best := options[0]
	for _, o := range options[1:] {
		if abs(o-v) < abs(best-v) {
			best = o
		}
	}
	return best
}

func cycle(options []int, cur int) int {
	for i, o := range options {
		if o == cur {
			return options[(i+1)%len(options)]
		}
	}
	return nearest(options, cur)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// DefaultSettingsPath returns $XDG_CONFIG_HOME/clack/settings.toml or the
// platform equivalent.
func DefaultSettingsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "clack.toml"
	}
	return filepath.Join(dir, "clack", "settings.toml")
}

// LoadSettings reads settings from path. A missing file yields the
// defaults. Keys absent from the file keep their default values, and
// invalid values are normalised by the setters.
func LoadSettings(path string) (Settings, error) {
	s := DefaultSettings()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return s, fmt.Errorf("reading settings %s: %w", path, err)
	}
	return ParseSettings(data)
}

// ParseSettings decodes TOML settings on top of the defaults.
func ParseSettings(data []byte) (Settings, error) {
	s := DefaultSettings()
	raw := s
	if err := toml.Unmarshal(data, &raw); err != nil {
		return s, fmt.Errorf("parsing settings: %w", err)
	}
	s.merge(raw)
	return s, nil
}

// SaveSettings writes s to path, creating the directory if needed. The
// file is replaced by a rename, so a reader never sees it half written.
func SaveSettings(path string, s Settings) error {
	data, err := toml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("writing settings %s: %w", tempPath, err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("replacing settings %s: %w", path, err)
	}
	return nil
}
