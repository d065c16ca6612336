package ascii

import (
	"strings"
	"unicode/utf8"
)

const trigger = '$'

// segment is either a run of literal text or a color switch. A switch with
// index 0 selects the fallback color.
type segment struct {
	text     string
	isSwitch bool
	index    int
}

// tokenize splits a template line into literal runs and color switches.
// Consecutive literal runes are merged into a single segment.
func tokenize(line string) []segment {
	if !strings.ContainsRune(line, trigger) {
		if line == "" {
			return nil
		}
		return []segment{{text: line}}
	}

	var (
		segs []segment
		buf  strings.Builder
	)
	flush := func() {
		if buf.Len() > 0 {
			segs = append(segs, segment{text: buf.String()})
			buf.Reset()
		}
	}

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == trigger && i+1 < len(runes) {
			next := runes[i+1]
			switch {
			case next >= '0' && next <= '9':
				flush()
				segs = append(segs, segment{isSwitch: true, index: int(next - '0')})
				i++
				continue
			case next == 'R' || next == 'r':
				flush()
				segs = append(segs, segment{isSwitch: true})
				i++
				continue
			}
		}
		buf.WriteRune(r)
	}
	flush()
	return segs
}

// Strip removes every color-switch token from line. A "$" that is not
// followed by a digit or a reset marker is kept as text.
func Strip(line string) string {
	segs := tokenize(line)
	if len(segs) == 1 && !segs[0].isSwitch {
		return segs[0].text
	}
	var b strings.Builder
	for _, s := range segs {
		b.WriteString(s.text)
	}
	return b.String()
}

// VisibleWidth is the number of characters (runes) left once the tokens are
// stripped. It does not depend on the locale: wide and combining runes count
// as one.
func VisibleWidth(line string) int {
	return utf8.RuneCountInString(Strip(line))
}

// Render turns a template line into terminal output. With colorize off it is
// Strip. Otherwise text starts in palette[0] (fallback for an empty palette)
// and every token closes the current run before switching color. Indexes
// beyond the palette use fallback.
func Render(line string, palette []Color, colorize bool, fallback Color) string {
	if !colorize {
		return Strip(line)
	}

	current := fallback
	if len(palette) > 0 {
		current = palette[0]
	}

	var out strings.Builder
	for _, s := range tokenize(line) {
		if !s.isSwitch {
			out.WriteString(current.Paint(s.text))
			continue
		}
		current = pick(palette, s.index, fallback)
	}
	return out.String()
}

// pick resolves a 1-based palette index.
func pick(palette []Color, index int, fallback Color) Color {
	if index < 1 || index > len(palette) {
		return fallback
	}
	return palette[index-1]
}
