package ascii

// Art is an immutable logo: template lines, the palette their tokens index
// into, and the widest visible line.
type Art struct {
	name    string
	lines   []string
	palette []Color
	width   int
}

// NewArt copies lines and palette and measures the art width.
func NewArt(name string, lines []string, palette []Color) *Art {
	a := &Art{
		name:    name,
		lines:   append([]string(nil), lines...),
		palette: append([]Color(nil), palette...),
	}
	for _, l := range a.lines {
		if w := VisibleWidth(l); w > a.width {
			a.width = w
		}
	}
	return a
}

// Name is the catalog entry the art was loaded from.
func (a *Art) Name() string { return a.name }

// Lines returns a copy of the template lines.
func (a *Art) Lines() []string { return append([]string(nil), a.lines...) }

// Palette returns a copy of the palette.
func (a *Art) Palette() []Color { return append([]Color(nil), a.palette...) }

// Width is the maximum visible width across all lines.
func (a *Art) Width() int { return a.width }

// Len is the number of lines.
func (a *Art) Len() int { return len(a.lines) }

// Primary returns the first palette entry, or fallback when the palette is
// empty.
func (a *Art) Primary(fallback Color) Color {
	if len(a.palette) == 0 {
		return fallback
	}
	return a.palette[0]
}

// RenderLine renders line i, or returns "" when i is out of range.
func (a *Art) RenderLine(i int, colorize bool, fallback Color) string {
	if i < 0 || i >= len(a.lines) {
		return ""
	}
	return Render(a.lines[i], a.palette, colorize, fallback)
}

// LineWidth is the visible width of line i, 0 when out of range.
func (a *Art) LineWidth(i int) int {
	if i < 0 || i >= len(a.lines) {
		return 0
	}
	return VisibleWidth(a.lines[i])
}
