// Package display turns a SystemInfo report into terminal output: the logo
// column beside labelled info lines, or structured JSON and YAML.
package display

import (
	"bufio"
	"io"
	"strings"

	"hyperfetch/ascii"
)

// columnGap separates the logo column from the info column.
const columnGap = 2

// Compose places the rendered art to the left of the info lines. Every
// art row is padded to the art width plus the gap so the info column
// starts at the same character offset on every row, including rows past
// the end of the art.
//
// Returns one row per max(art.Len(), len(info)).
func Compose(art *ascii.Art, info []string, colorize bool, fallback ascii.Color) []string {
	column := art.Width() + columnGap
	rows := art.Len()
	if len(info) > rows {
		rows = len(info)
	}

	out := make([]string, 0, rows)
	for i := 0; i < rows; i++ {
		var left string
		if i < art.Len() {
			pad := column - art.LineWidth(i)
			if pad < 0 {
				pad = 0
			}
			left = art.RenderLine(i, colorize, fallback) + strings.Repeat(" ", pad)
		} else {
			left = strings.Repeat(" ", column)
		}

		right := ""
		if i < len(info) {
			right = info[i]
		}
		out = append(out, left+right)
	}
	return out
}

// LogoOnly renders the art lines without padding.
func LogoOnly(art *ascii.Art, colorize bool, fallback ascii.Color) []string {
	out := make([]string, art.Len())
	for i := range out {
		out[i] = art.RenderLine(i, colorize, fallback)
	}
	return out
}

// Write prints rows, each terminated by a newline.
func Write(w io.Writer, rows []string) error {
	bw := bufio.NewWriter(w)
	for _, r := range rows {
		if _, err := bw.WriteString(r); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
