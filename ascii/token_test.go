package ascii

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

const (
	esc   = "\x1b["
	reset = "\x1b[0m"
)

func sgr(code, text string) string {
	return esc + code + "m" + text + reset
}

func TestStrip(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no tokens", "plain text", "plain text"},
		{"index and zero", "A$1B$0C", "ABC"},
		{"reset upper", "Hello$RWorld", "HelloWorld"},
		{"reset lower", "Hello$rWorld", "HelloWorld"},
		{"consecutive tokens", "$1$2$3x", "x"},
		{"trailing trigger", "cost$", "cost$"},
		{"lone trigger", "$", "$"},
		{"trigger before punctuation", "$.$$P", "$.$$P"},
		{"double trigger before digit", "$$1", "$"},
		{"empty", "", ""},
		{"multibyte text", "█$2▀▄", "█▀▄"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Strip(tt.in))
		})
	}
}

func TestStripIdempotent(t *testing.T) {
	inputs := []string{
		"A$1B$0C",
		"Hello$RWorld",
		"  $1/\\$2__$R end",
		"cost$",
		"$.$$P",
		"$9$8$7",
		"no tokens at all",
	}
	for _, name := range BuiltinNames() {
		inputs = append(inputs, Builtin(name, false).Lines()...)
		inputs = append(inputs, Builtin(name, true).Lines()...)
	}

	for _, in := range inputs {
		once := Strip(in)
		assert.Equal(t, once, Strip(once), "input %q", in)
	}

	// A literal "$" directly before a token is the one exception: stripping
	// "$1" out of "$$11" leaves "$1", itself a token.
	assert.Equal(t, "$1", Strip("$$11"))
	assert.Equal(t, "", Strip(Strip("$$11")))
}

func TestVisibleWidth(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"plain text", 10},
		{"A$1B$0C", 3},
		{"$1$2", 0},
		{"██$2██", 4},
		{"cost$", 5},
		{"$1中文", 2},
		{"$2中$R文字", 3},
		{"e\u0301x", 3},
		{"$1e\u0301$2x", 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, VisibleWidth(tt.in), "input %q", tt.in)
		assert.Equal(t, utf8.RuneCountInString(Strip(tt.in)), VisibleWidth(tt.in), "input %q", tt.in)
	}
}

func TestVisibleWidthIgnoresLocale(t *testing.T) {
	t.Setenv("LANG", "ja_JP.UTF-8")
	t.Setenv("LC_ALL", "ja_JP.UTF-8")
	t.Setenv("RUNEWIDTH_EASTASIAN", "1")

	assert.Equal(t, 4, VisibleWidth("██$2██"))
	assert.Equal(t, 7, NewArt("box", []string{"$1┌─────┐", "$1│ 中 │"}, nil).Width())
}

func TestRender(t *testing.T) {
	palette := []Color{Red, Blue}

	tests := []struct {
		name     string
		line     string
		palette  []Color
		fallback Color
		want     string
	}{
		{
			name:     "index then zero",
			line:     "A$1B$0C",
			palette:  palette,
			fallback: White,
			want:     sgr("31", "A") + sgr("31", "B") + sgr("37", "C"),
		},
		{
			name:     "reset switches to fallback",
			line:     "Hello$RWorld",
			palette:  palette,
			fallback: White,
			want:     sgr("31", "Hello") + sgr("37", "World"),
		},
		{
			name:     "second palette entry",
			line:     "x$2y",
			palette:  palette,
			fallback: White,
			want:     sgr("31", "x") + sgr("34", "y"),
		},
		{
			name:     "out of range index uses fallback",
			line:     "$9z",
			palette:  palette,
			fallback: Green,
			want:     sgr("32", "z"),
		},
		{
			name:     "empty palette starts with fallback",
			line:     "abc",
			palette:  nil,
			fallback: Yellow,
			want:     sgr("33", "abc"),
		},
		{
			name:     "consecutive tokens emit no empty runs",
			line:     "$1$2$1$2q",
			palette:  palette,
			fallback: White,
			want:     sgr("34", "q"),
		},
		{
			name:     "only tokens",
			line:     "$1$R",
			palette:  palette,
			fallback: White,
			want:     "",
		},
		{
			name:     "bright color",
			line:     "b",
			palette:  []Color{BrightRed},
			fallback: White,
			want:     sgr("91", "b"),
		},
		{
			name:     "literal trigger stays in the run",
			line:     "$P$$1",
			palette:  palette,
			fallback: White,
			want:     sgr("31", "$P$"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(tt.line, tt.palette, true, tt.fallback))
		})
	}
}

func TestRenderWithoutColorsIsStrip(t *testing.T) {
	lines := []string{"A$1B$0C", "Hello$RWorld", "$9$8", "plain", "cost$", ""}
	palettes := [][]Color{nil, {Red}, {Red, Blue, Green}}
	for _, l := range lines {
		for _, p := range palettes {
			for _, fb := range []Color{White, Cyan, ""} {
				assert.Equal(t, Strip(l), Render(l, p, false, fb))
			}
		}
	}
}

func TestRenderPaletteBounds(t *testing.T) {
	for n := 0; n <= 9; n++ {
		palette := make([]Color, n)
		for i := range palette {
			palette[i] = Red
		}
		for d := 0; d <= 9; d++ {
			line := "a$" + string(rune('0'+d)) + "b"
			got := Render(line, palette, true, Blue)

			want := Blue
			if d >= 1 && d <= n {
				want = Red
			}
			assert.True(t, strings.HasSuffix(got, want.Paint("b")),
				"palette len %d, token %d: %q", n, d, got)
		}
	}
}

func TestRenderPlainLineMatchesAcrossModes(t *testing.T) {
	line := "plain text"
	colored := Render(line, []Color{Red}, true, White)
	plain := Render(line, []Color{Red}, false, White)

	assert.Equal(t, line, plain)
	assert.Equal(t, sgr("31", line), colored)
	assert.Equal(t, plain, stripSGR(colored))
}

// stripSGR removes SGR escape sequences, enough to compare rendered output
// against plain text.
func stripSGR(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == 0x1b && i+1 < len(s) && s[i+1] == '[' {
			j := i + 2
			for j < len(s) && s[j] != 'm' {
				j++
			}
			i = j
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
		ok   bool
	}{
		{"red", Red, true},
		{"RED", Red, true},
		{"purple", Magenta, true},
		{"magenta", Magenta, true},
		{"bright_red", BrightRed, true},
		{"brightred", BrightRed, true},
		{"brightpurple", BrightMagenta, true},
		{" cyan ", Cyan, true},
		{"chartreuse", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseColor(tt.in)
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestColorCodes(t *testing.T) {
	assert.Equal(t, "1", Red.Code())
	assert.Equal(t, "15", BrightWhite.Code())
	assert.Equal(t, "", Color("nope").Code())
	assert.Equal(t, "x", Color("").Paint("x"))
}
