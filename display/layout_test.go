package display

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hyperfetch/ascii"
)

func testArt() *ascii.Art {
	return ascii.NewArt("test", []string{"$1AB", "$2C$$D", "E"}, []ascii.Color{ascii.Red, ascii.Blue})
}

func TestComposePlain(t *testing.T) {
	rows := Compose(testArt(), []string{"x", "y", "z", "w"}, false, ascii.White)

	assert.Equal(t, []string{
		"AB    x",
		"C$$D  y",
		"E     z",
		"      w",
	}, rows)
}

func TestComposeRowCount(t *testing.T) {
	tests := []struct {
		name string
		info []string
		want int
	}{
		{"no info", nil, 3},
		{"shorter info", []string{"a"}, 3},
		{"longer info", []string{"a", "b", "c", "d", "e"}, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, Compose(testArt(), tt.info, true, ascii.White), tt.want)
		})
	}
}

func TestComposeColoredPadding(t *testing.T) {
	art := testArt()
	rows := Compose(art, []string{"OS: Linux", "", "", "tail"}, true, ascii.White)
	require.Len(t, rows, 4)

	assert.Equal(t, "\x1b[31mAB\x1b[0m    OS: Linux", rows[0])
	for i, r := range rows {
		plain := ansi.Strip(r)
		assert.GreaterOrEqual(t, len(plain), art.Width()+columnGap, "row %d", i)
		if i < 3 {
			assert.Equal(t, ascii.Strip(art.Lines()[i]), plain[:art.LineWidth(i)], "row %d", i)
		}
	}
	assert.Equal(t, "      tail", ansi.Strip(rows[3]))
}

func TestComposeEmptyArt(t *testing.T) {
	art := ascii.NewArt("empty", nil, nil)
	rows := Compose(art, []string{"only"}, false, ascii.White)
	assert.Equal(t, []string{"  only"}, rows)
}

func TestLogoOnly(t *testing.T) {
	assert.Equal(t, []string{"AB", "C$$D", "E"}, LogoOnly(testArt(), false, ascii.White))

	colored := LogoOnly(testArt(), true, ascii.White)
	require.Len(t, colored, 3)
	assert.Equal(t, "\x1b[31mAB\x1b[0m", colored[0])
	assert.Equal(t, "\x1b[34mC$$D\x1b[0m", colored[1])
	assert.Equal(t, "\x1b[31mE\x1b[0m", colored[2])
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, []string{"one", "", "three"}))
	assert.Equal(t, "one\n\nthree\n", buf.String())

	buf.Reset()
	require.NoError(t, Write(&buf, nil))
	assert.Empty(t, buf.String())
}
